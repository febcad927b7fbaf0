package database

import (
	"fmt"

	"github.com/seyniss/business-backend/internal/models"
)

// StatsRepository aggregates booking and payment figures per business
type StatsRepository struct {
	db DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetBookingStats returns booking counts by status and collected revenue
// for a business
func (r *StatsRepository) GetBookingStats(businessID string) (*models.BookingStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE booking_status = 'pending'),
			COUNT(*) FILTER (WHERE booking_status = 'confirmed'),
			COUNT(*) FILTER (WHERE booking_status = 'cancelled'),
			COUNT(*) FILTER (WHERE booking_status = 'completed')
		FROM bookings
		WHERE business_id = $1
	`

	stats := &models.BookingStats{}
	err := r.db.QueryRow(query, businessID).Scan(
		&stats.TotalBookings, &stats.PendingBookings, &stats.ConfirmedBookings,
		&stats.CancelledBookings, &stats.CompletedBookings,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booking stats: %w", err)
	}

	revenueQuery := `
		SELECT COALESCE(SUM(p.paid), 0)
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		WHERE b.business_id = $1
	`
	if err := r.db.QueryRow(revenueQuery, businessID).Scan(&stats.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	return stats, nil
}
