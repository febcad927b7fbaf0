package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/seyniss/business-backend/internal/models"
)

const bookingDateLayout = "2006-01-02"

// BookingStore is the persistence surface the reservation service needs for
// bookings. The admission-controlled create keeps the overlap check and the
// insert inside one transaction.
type BookingStore interface {
	CreateWithAdmission(booking *models.Booking, unitCount, maxAttempts int) error
	CountOverlapping(roomID string, checkin, checkout time.Time) (int, error)
	GetByID(bookingID string) (*models.Booking, error)
	List(filter models.BookingFilter) ([]models.Booking, int, error)
	UpdateStatus(bookingID string, status models.BookingStatus) error
	Cancel(bookingID string, reason *string) error
	UpdatePaymentStatus(bookingID string, status models.PaymentStatus) error
}

// RoomStore resolves rooms for admission control
type RoomStore interface {
	GetByID(roomID string) (*models.Room, error)
}

// LodgingStore resolves lodgings for ownership checks and response assembly
type LodgingStore interface {
	GetByID(lodgingID string) (*models.Lodging, error)
}

// UserStore checks guest accounts referenced by bookings
type UserStore interface {
	Exists(userID string) (bool, error)
}

// PaymentStore reads and writes the payment ledger
type PaymentStore interface {
	Create(payment *models.Payment) error
	GetByBookingID(bookingID string) (*models.Payment, error)
}

// BookingEventPublisher fans booking lifecycle events out to the message
// broker. Implementations must be safe to call with a disabled broker.
type BookingEventPublisher interface {
	BookingCreated(booking *models.Booking)
	BookingStatusChanged(booking *models.Booking, previous models.BookingStatus)
}

// ReservationServiceConfig holds tuning knobs for the reservation service
type ReservationServiceConfig struct {
	AdmissionRetries int  // Transaction retries after a detected admission race
	AllowReopen      bool // Permit transitions out of cancelled/completed
}

// ReservationService owns booking admission, the booking status state machine
// and payment ledger synchronization.
type ReservationService struct {
	bookings  BookingStore
	rooms     RoomStore
	lodgings  LodgingStore
	users     UserStore
	payments  PaymentStore
	publisher BookingEventPublisher
	config    ReservationServiceConfig
	logger    *logrus.Logger
}

// NewReservationService creates a new ReservationService
func NewReservationService(
	bookings BookingStore,
	rooms RoomStore,
	lodgings LodgingStore,
	users UserStore,
	payments PaymentStore,
	publisher BookingEventPublisher,
	config ReservationServiceConfig,
	logger *logrus.Logger,
) *ReservationService {
	if config.AdmissionRetries < 1 {
		config.AdmissionRetries = 1
	}
	return &ReservationService{
		bookings:  bookings,
		rooms:     rooms,
		lodgings:  lodgings,
		users:     users,
		payments:  payments,
		publisher: publisher,
		config:    config,
		logger:    logger,
	}
}

// CreateBooking validates the request, admits it against the room's inventory
// and writes the booking plus its payment ledger row. New bookings always
// start as pending/pending regardless of what the client sent.
func (s *ReservationService) CreateBooking(req *models.CreateBookingRequest) (*models.Booking, error) {
	checkin, err := time.Parse(bookingDateLayout, req.CheckinDate)
	if err != nil {
		return nil, models.ErrInvalidDateRange
	}
	checkout, err := time.Parse(bookingDateLayout, req.CheckoutDate)
	if err != nil {
		return nil, models.ErrInvalidDateRange
	}
	if !checkin.Before(checkout) {
		return nil, models.ErrInvalidDateRange
	}

	duration := models.DurationDays(checkin, checkout)
	if req.Duration != 0 && req.Duration != duration {
		return nil, models.ErrInvalidDateRange
	}

	room, err := s.rooms.GetByID(req.RoomID)
	if err != nil {
		return nil, err
	}

	lodging, err := s.lodgings.GetByID(room.LodgingID)
	if err != nil {
		return nil, err
	}

	if req.Adults < 0 || req.Children < 0 || !room.FitsGuests(req.Adults, req.Children) {
		return nil, models.ErrInvalidGuestCount
	}

	exists, err := s.users.Exists(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}
	if !exists {
		return nil, models.ErrUserNotFound
	}

	booking := &models.Booking{
		RoomID:       room.ID,
		UserID:       req.UserID,
		BusinessID:   lodging.BusinessID,
		Adults:       req.Adults,
		Children:     req.Children,
		CheckinDate:  checkin,
		CheckoutDate: checkout,
		Duration:     duration,
		BookingDate:  time.Now(),
	}

	if err := s.bookings.CreateWithAdmission(booking, room.CountRoom, s.config.AdmissionRetries); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		BookingID: booking.ID,
		Total:     bookingTotal(room, duration),
		Paid:      0,
	}
	if err := s.payments.Create(payment); err != nil {
		// The booking is already committed. The ledger row can be
		// reconstructed from the booking, so log and continue.
		s.logger.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"error":      err.Error(),
		}).Warn("Booking created but payment ledger row failed")
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"room_id":    booking.RoomID,
		"checkin":    req.CheckinDate,
		"checkout":   req.CheckoutDate,
	}).Info("Booking created")

	if s.publisher != nil {
		s.publisher.BookingCreated(booking)
	}
	return booking, nil
}

// bookingTotal prices a stay: the nightly rate after owner and platform
// discounts, times the number of nights.
func bookingTotal(room *models.Room, nights int) float64 {
	rate := room.Price * (1 - (room.OwnerDiscount+room.PlatformDiscount)/100)
	if rate < 0 {
		rate = 0
	}
	return rate * float64(nights)
}

// CheckAvailability returns how many units of the room remain free over the
// given range.
func (s *ReservationService) CheckAvailability(roomID string, checkinStr, checkoutStr string) (int, error) {
	checkin, err := time.Parse(bookingDateLayout, checkinStr)
	if err != nil {
		return 0, models.ErrInvalidDateRange
	}
	checkout, err := time.Parse(bookingDateLayout, checkoutStr)
	if err != nil {
		return 0, models.ErrInvalidDateRange
	}
	if !checkin.Before(checkout) {
		return 0, models.ErrInvalidDateRange
	}

	room, err := s.rooms.GetByID(roomID)
	if err != nil {
		return 0, err
	}

	held, err := s.bookings.CountOverlapping(roomID, checkin, checkout)
	if err != nil {
		return 0, err
	}

	free := room.CountRoom - held
	if free < 0 {
		free = 0
	}
	return free, nil
}

// SetBookingStatus applies a status transition on behalf of a business.
// Cancellations also settle the ledger: payment status becomes refunded and
// the paid amount is zeroed in the same transaction.
func (s *ReservationService) SetBookingStatus(businessID, bookingID string, req *models.UpdateBookingStatusRequest) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BusinessID != businessID {
		return nil, models.ErrUnauthorized
	}
	if !req.Status.IsValid() {
		return nil, models.ErrInvalidStatus
	}
	if !booking.CanTransitionTo(req.Status, s.config.AllowReopen) {
		return nil, models.ErrInvalidStatus
	}

	previous := booking.Status
	if req.Status == models.BookingStatusCancelled {
		err = s.bookings.Cancel(bookingID, req.CancellationReason)
	} else {
		err = s.bookings.UpdateStatus(bookingID, req.Status)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"from":       previous,
		"to":         req.Status,
	}).Info("Booking status changed")

	if s.publisher != nil {
		s.publisher.BookingStatusChanged(updated, previous)
	}
	return updated, nil
}

// SetPaymentStatus updates the payment status on a booking and keeps the
// ledger amounts consistent with it.
func (s *ReservationService) SetPaymentStatus(businessID, bookingID string, status models.PaymentStatus) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BusinessID != businessID {
		return nil, models.ErrUnauthorized
	}
	if !status.IsValid() {
		return nil, models.ErrInvalidStatus
	}

	if err := s.bookings.UpdatePaymentStatus(bookingID, status); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":     bookingID,
		"payment_status": status,
	}).Info("Payment status changed")

	return s.bookings.GetByID(bookingID)
}

// ListBookings returns the business's bookings matching the filter along with
// the total match count before pagination.
func (s *ReservationService) ListBookings(filter models.BookingFilter) ([]models.Booking, int, error) {
	return s.bookings.List(filter)
}

// GetBooking assembles a booking with its room, lodging and payment for a
// business, enforcing ownership.
func (s *ReservationService) GetBooking(businessID, bookingID string) (*models.BookingDetail, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BusinessID != businessID {
		return nil, models.ErrUnauthorized
	}

	detail := &models.BookingDetail{Booking: booking}

	if room, err := s.rooms.GetByID(booking.RoomID); err == nil {
		detail.Room = room
		if lodging, err := s.lodgings.GetByID(room.LodgingID); err == nil {
			detail.Lodging = lodging
		}
	}

	payment, err := s.payments.GetByBookingID(bookingID)
	if err != nil {
		return nil, err
	}
	detail.Payment = payment
	return detail, nil
}
