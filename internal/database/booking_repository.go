package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/seyniss/business-backend/internal/models"
)

// errAdmissionRace signals that the post-insert invariant re-check found more
// inventory holds than the room has units. The transaction was rolled back
// and the caller may retry.
var errAdmissionRace = errors.New("admission re-check failed")

// BookingRepository handles database operations for the bookings table.
// It owns the admission-controlled insert, so the overlap count and the
// write always share one transaction.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Two [a,b) ranges overlap iff a < d AND c < b. Checkout on day X plus a new
// checkin on day X is same-day turnover, not an overlap.
const overlapCountQuery = `
	SELECT COUNT(*)
	FROM bookings
	WHERE room_id = $1
	  AND booking_status IN ('pending', 'confirmed')
	  AND checkin_date < $3
	  AND checkout_date > $2
`

// CountOverlapping returns the number of inventory-holding bookings for the
// room whose date ranges intersect [checkin, checkout).
func (r *BookingRepository) CountOverlapping(roomID string, checkin, checkout time.Time) (int, error) {
	var count int
	if err := r.db.Get(&count, overlapCountQuery, roomID, checkin, checkout); err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

// CreateWithAdmission inserts the booking if and only if the room still has
// a free unit for its date range. The transaction first locks the room row,
// serializing admissions per room, then counts overlapping holds, inserts
// and re-verifies the count before committing. The re-check is a safety net:
// if it ever sees more holds than units the transaction is rolled back and
// retried up to maxAttempts times.
func (r *BookingRepository) CreateWithAdmission(booking *models.Booking, unitCount, maxAttempts int) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	for attempt := 1; ; attempt++ {
		err := r.admitAndInsert(booking, unitCount)
		if err == nil {
			return nil
		}
		if !errors.Is(err, errAdmissionRace) {
			return err
		}
		if attempt >= maxAttempts {
			// Lost the race on every attempt: the unit went to someone else.
			return models.ErrRoomNotAvailable
		}
	}
}

func (r *BookingRepository) admitAndInsert(booking *models.Booking, unitCount int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the room row first. Under READ COMMITTED two concurrent
	// admissions would otherwise each count a snapshot that excludes the
	// other's uncommitted insert, and both could take the last unit.
	var lockedRoomID string
	err = tx.Get(&lockedRoomID, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, booking.RoomID)
	if err == sql.ErrNoRows {
		return models.ErrRoomNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock room: %w", err)
	}

	var count int
	if err := tx.Get(&count, overlapCountQuery, booking.RoomID, booking.CheckinDate, booking.CheckoutDate); err != nil {
		return fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	if count >= unitCount {
		return models.ErrRoomNotAvailable
	}

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	booking.Status = models.BookingStatusPending
	booking.PaymentStatus = models.PaymentStatusPending
	if booking.BookingDate.IsZero() {
		booking.BookingDate = time.Now()
	}

	insertQuery := `
		INSERT INTO bookings (
			id, room_id, user_id, business_id,
			adult, child, checkin_date, checkout_date,
			duration, booking_date, booking_status, payment_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowx(insertQuery,
		booking.ID, booking.RoomID, booking.UserID, booking.BusinessID,
		booking.Adults, booking.Children, booking.CheckinDate, booking.CheckoutDate,
		booking.Duration, booking.BookingDate, booking.Status, booking.PaymentStatus,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	// Re-verify with our own row included. The room lock should make this
	// count final; anything above unitCount means an insert slipped past
	// the lock and the transaction must not commit.
	if err := tx.Get(&count, overlapCountQuery, booking.RoomID, booking.CheckinDate, booking.CheckoutDate); err != nil {
		return fmt.Errorf("failed to re-verify room availability: %w", err)
	}
	if count > unitCount {
		return errAdmissionRace
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

const bookingColumns = `
	id, room_id, user_id, business_id,
	adult, child, checkin_date, checkout_date,
	duration, booking_date, booking_status, payment_status,
	cancellation_reason, created_at, updated_at
`

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	booking, err := r.scanBooking(r.db.QueryRow(query, bookingID))
	if err == sql.ErrNoRows {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return booking, nil
}

// List retrieves bookings matching the filter, newest first, along with the
// total number of matches before pagination.
func (r *BookingRepository) List(filter models.BookingFilter) ([]models.Booking, int, error) {
	where := "WHERE business_id = $1"
	args := []interface{}{filter.BusinessID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND booking_status = $%d", len(args))
	}
	if filter.RoomID != nil {
		args = append(args, *filter.RoomID)
		where += fmt.Sprintf(" AND room_id = $%d", len(args))
	}
	if filter.LodgingID != nil {
		args = append(args, *filter.LodgingID)
		where += fmt.Sprintf(" AND room_id IN (SELECT id FROM rooms WHERE lodging_id = $%d)", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += fmt.Sprintf(" AND checkin_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += fmt.Sprintf(" AND checkin_date <= $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM bookings " + where
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	args = append(args, limit, (page-1)*limit)
	listQuery := fmt.Sprintf(
		"SELECT %s FROM bookings %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		bookingColumns, where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// UpdateStatus updates the booking status for non-cancellation transitions.
// Moving away from cancelled clears the stored cancellation reason.
func (r *BookingRepository) UpdateStatus(bookingID string, status models.BookingStatus) error {
	query := `
		UPDATE bookings
		SET booking_status = $2,
			cancellation_reason = NULL,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, bookingID, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrBookingNotFound
	}
	return nil
}

// Cancel marks the booking cancelled and settles the ledger in one
// transaction: payment status becomes refunded and any existing payment
// row has its paid amount zeroed.
func (r *BookingRepository) Cancel(bookingID string, reason *string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE bookings
		SET booking_status = 'cancelled',
			payment_status = 'refunded',
			cancellation_reason = $2,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := tx.Exec(query, bookingID, reason)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrBookingNotFound
	}

	// Zero the ledger. No payment row yet is fine; the booking's payment
	// status above is still authoritative.
	_, err = tx.Exec(`UPDATE payments SET paid = 0, updated_at = NOW() WHERE booking_id = $1`, bookingID)
	if err != nil {
		return fmt.Errorf("failed to zero payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return nil
}

// UpdatePaymentStatus persists the payment status onto the booking and keeps
// the payment ledger amounts in sync within the same transaction: paid
// settles the full total, refunded zeroes the paid amount. A booking without
// a payment row only gets its status field updated.
func (r *BookingRepository) UpdatePaymentStatus(bookingID string, status models.PaymentStatus) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE bookings SET payment_status = $2, updated_at = NOW() WHERE id = $1`, bookingID, status)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrBookingNotFound
	}

	switch status {
	case models.PaymentStatusPaid:
		_, err = tx.Exec(`UPDATE payments SET paid = total, updated_at = NOW() WHERE booking_id = $1`, bookingID)
	case models.PaymentStatusRefunded:
		_, err = tx.Exec(`UPDATE payments SET paid = 0, updated_at = NOW() WHERE booking_id = $1`, bookingID)
	}
	if err != nil {
		return fmt.Errorf("failed to sync payment ledger: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment update: %w", err)
	}
	return nil
}

// scanBooking scans a single booking
func (r *BookingRepository) scanBooking(row scanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var cancellationReason sql.NullString

	err := row.Scan(
		&booking.ID, &booking.RoomID, &booking.UserID, &booking.BusinessID,
		&booking.Adults, &booking.Children, &booking.CheckinDate, &booking.CheckoutDate,
		&booking.Duration, &booking.BookingDate, &booking.Status, &booking.PaymentStatus,
		&cancellationReason, &booking.CreatedAt, &booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancellationReason.Valid {
		booking.CancellationReason = &cancellationReason.String
	}
	return booking, nil
}

// scanBookings scans multiple bookings from rows
func (r *BookingRepository) scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	bookings := []models.Booking{}

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}

	return bookings, rows.Err()
}
