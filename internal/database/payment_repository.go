package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/seyniss/business-backend/internal/models"
)

// PaymentRepository handles database operations for the payments table
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create creates a payment ledger row for a booking
func (r *PaymentRepository) Create(payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, payment_type_id, total, paid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}

	err := r.db.QueryRow(query,
		payment.ID, payment.BookingID, payment.PaymentTypeID, payment.Total, payment.Paid,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByBookingID retrieves the payment for a booking. Payments are created
// lazily, so a missing row is reported as (nil, nil), not an error.
func (r *PaymentRepository) GetByBookingID(bookingID string) (*models.Payment, error) {
	query := `
		SELECT id, booking_id, payment_type_id, total, paid, created_at, updated_at
		FROM payments
		WHERE booking_id = $1
	`

	payment := &models.Payment{}
	var paymentTypeID sql.NullString
	err := r.db.QueryRow(query, bookingID).Scan(
		&payment.ID, &payment.BookingID, &paymentTypeID,
		&payment.Total, &payment.Paid, &payment.CreatedAt, &payment.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}

	if paymentTypeID.Valid {
		payment.PaymentTypeID = &paymentTypeID.String
	}
	return payment, nil
}
