package models

import "errors"

// Domain errors returned by the reservation engine. Handlers map these to
// HTTP status codes; everything else is treated as an internal error.
var (
	ErrInvalidDateRange  = errors.New("INVALID_DATE_RANGE")
	ErrInvalidGuestCount = errors.New("INVALID_GUEST_COUNT")
	ErrRoomNotFound      = errors.New("ROOM_NOT_FOUND")
	ErrLodgingNotFound   = errors.New("LODGING_NOT_FOUND")
	ErrUserNotFound      = errors.New("USER_NOT_FOUND")
	ErrBusinessNotFound  = errors.New("BUSINESS_NOT_FOUND")
	ErrRoomNotAvailable  = errors.New("ROOM_NOT_AVAILABLE")
	ErrBookingNotFound   = errors.New("BOOKING_NOT_FOUND")
	ErrUnauthorized      = errors.New("UNAUTHORIZED")
	ErrInvalidStatus     = errors.New("INVALID_STATUS")
)
