package models

import "time"

// Payment is the ledger record for a booking, one-to-one with bookings.
// It is created lazily: a pending booking that never reached a payment step
// has no payment row. Amounts are mutated only by the ledger sync in
// response to booking and payment status changes.
type Payment struct {
	ID            string    `json:"id" db:"id"`
	BookingID     string    `json:"booking_id" db:"booking_id"`
	PaymentTypeID *string   `json:"payment_type_id,omitempty" db:"payment_type_id"`
	Total         float64   `json:"total" db:"total"`
	Paid          float64   `json:"paid" db:"paid"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// IsSettled reports whether the contracted amount is fully paid
func (p *Payment) IsSettled() bool {
	return p.Total > 0 && p.Paid >= p.Total
}
