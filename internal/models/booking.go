package models

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// PaymentStatus represents the payment status tracked on a booking
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// IsValid reports whether the value is a known booking status
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further status transitions are permitted
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

// IsValid reports whether the value is a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

// Booking represents a reservation of one room unit for a date range
type Booking struct {
	ID                 string        `json:"id" db:"id"`
	RoomID             string        `json:"room_id" db:"room_id"`
	UserID             string        `json:"user_id" db:"user_id"`
	BusinessID         string        `json:"business_id" db:"business_id"`
	Adults             int           `json:"adult" db:"adult"`
	Children           int           `json:"child" db:"child"`
	CheckinDate        time.Time     `json:"checkin_date" db:"checkin_date"`
	CheckoutDate       time.Time     `json:"checkout_date" db:"checkout_date"`
	Duration           int           `json:"duration" db:"duration"`
	BookingDate        time.Time     `json:"booking_date" db:"booking_date"`
	Status             BookingStatus `json:"booking_status" db:"booking_status"`
	PaymentStatus      PaymentStatus `json:"payment_status" db:"payment_status"`
	CancellationReason *string       `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}

// CanTransitionTo reports whether the status change is legal.
// Cancelled and completed are terminal unless allowReopen is set, in which
// case a late cancelled→confirmed or completed→cancelled change is allowed.
func (b *Booking) CanTransitionTo(next BookingStatus, allowReopen bool) bool {
	if b.Status == next {
		return false
	}
	switch b.Status {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCancelled || next == BookingStatusCompleted
	case BookingStatusCancelled:
		return allowReopen && next == BookingStatusConfirmed
	case BookingStatusCompleted:
		return allowReopen && next == BookingStatusCancelled
	}
	return false
}

// Overlaps reports whether the booking's [checkin, checkout) range intersects
// the given half-open range. A checkout day equal to a checkin day does not
// overlap, so same-day turnover is permitted.
func (b *Booking) Overlaps(checkin, checkout time.Time) bool {
	return b.CheckinDate.Before(checkout) && checkin.Before(b.CheckoutDate)
}

// HoldsInventory reports whether the booking counts against room inventory
func (b *Booking) HoldsInventory() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// DurationDays returns the number of nights between the two dates, rounded up
func DurationDays(checkin, checkout time.Time) int {
	d := checkout.Sub(checkin)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	RoomID       string `json:"room_id" binding:"required"`
	UserID       string `json:"user_id" binding:"required"`
	Adults       int    `json:"adult"`
	Children     int    `json:"child"`
	CheckinDate  string `json:"checkin_date" binding:"required"`
	CheckoutDate string `json:"checkout_date" binding:"required"`
	Duration     int    `json:"duration" binding:"required"`
}

// UpdateBookingStatusRequest represents the request to change booking status
type UpdateBookingStatusRequest struct {
	Status             BookingStatus `json:"status" binding:"required"`
	CancellationReason *string       `json:"cancellation_reason,omitempty"`
}

// UpdatePaymentStatusRequest represents the request to change payment status
type UpdatePaymentStatusRequest struct {
	PaymentStatus PaymentStatus `json:"payment_status" binding:"required"`
}

// BookingFilter narrows booking list queries
type BookingFilter struct {
	BusinessID string
	Status     *BookingStatus
	RoomID     *string
	LodgingID  *string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	Limit      int
}

// BookingDetail bundles a booking with its related records for API responses
type BookingDetail struct {
	Booking *Booking `json:"booking"`
	Room    *Room    `json:"room,omitempty"`
	Lodging *Lodging `json:"lodging,omitempty"`
	Payment *Payment `json:"payment,omitempty"`
}
