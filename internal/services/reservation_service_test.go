package services

import (
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seyniss/business-backend/internal/models"
)

// fakeBookingStore keeps bookings in memory and enforces the same admission
// invariant as the real repository, guarded by a mutex so concurrent creates
// are serialized the way the database transaction serializes them.
type fakeBookingStore struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]*models.Booking
	payments *fakePaymentStore
}

func newFakeBookingStore(payments *fakePaymentStore) *fakeBookingStore {
	return &fakeBookingStore{
		bookings: make(map[string]*models.Booking),
		payments: payments,
	}
}

func (s *fakeBookingStore) countOverlappingLocked(roomID string, checkin, checkout time.Time) int {
	count := 0
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.HoldsInventory() && b.Overlaps(checkin, checkout) {
			count++
		}
	}
	return count
}

func (s *fakeBookingStore) CreateWithAdmission(booking *models.Booking, unitCount, maxAttempts int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.countOverlappingLocked(booking.RoomID, booking.CheckinDate, booking.CheckoutDate) >= unitCount {
		return models.ErrRoomNotAvailable
	}

	s.seq++
	booking.ID = fmt.Sprintf("booking-%d", s.seq)
	booking.Status = models.BookingStatusPending
	booking.PaymentStatus = models.PaymentStatusPending

	stored := *booking
	s.bookings[booking.ID] = &stored
	return nil
}

func (s *fakeBookingStore) CountOverlapping(roomID string, checkin, checkout time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countOverlappingLocked(roomID, checkin, checkout), nil
}

func (s *fakeBookingStore) GetByID(bookingID string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (s *fakeBookingStore) List(filter models.BookingFilter) ([]models.Booking, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.Booking{}
	for _, b := range s.bookings {
		if b.BusinessID != filter.BusinessID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.RoomID != nil && b.RoomID != *filter.RoomID {
			continue
		}
		result = append(result, *b)
	}
	return result, len(result), nil
}

func (s *fakeBookingStore) UpdateStatus(bookingID string, status models.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return models.ErrBookingNotFound
	}
	b.Status = status
	b.CancellationReason = nil
	return nil
}

func (s *fakeBookingStore) Cancel(bookingID string, reason *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return models.ErrBookingNotFound
	}
	b.Status = models.BookingStatusCancelled
	b.PaymentStatus = models.PaymentStatusRefunded
	b.CancellationReason = reason
	s.payments.zeroPaid(bookingID)
	return nil
}

func (s *fakeBookingStore) UpdatePaymentStatus(bookingID string, status models.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return models.ErrBookingNotFound
	}
	b.PaymentStatus = status

	switch status {
	case models.PaymentStatusPaid:
		s.payments.settleFull(bookingID)
	case models.PaymentStatusRefunded:
		s.payments.zeroPaid(bookingID)
	}
	return nil
}

type fakePaymentStore struct {
	mu       sync.Mutex
	payments map[string]*models.Payment
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: make(map[string]*models.Payment)}
}

func (s *fakePaymentStore) Create(payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment.ID = "payment-" + payment.BookingID
	stored := *payment
	s.payments[payment.BookingID] = &stored
	return nil
}

func (s *fakePaymentStore) GetByBookingID(bookingID string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[bookingID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (s *fakePaymentStore) zeroPaid(bookingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.payments[bookingID]; ok {
		p.Paid = 0
	}
}

func (s *fakePaymentStore) settleFull(bookingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.payments[bookingID]; ok {
		p.Paid = p.Total
	}
}

type fakeRoomStore struct {
	rooms map[string]*models.Room
}

func (s *fakeRoomStore) GetByID(roomID string) (*models.Room, error) {
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, models.ErrRoomNotFound
	}
	return room, nil
}

type fakeLodgingStore struct {
	lodgings map[string]*models.Lodging
}

func (s *fakeLodgingStore) GetByID(lodgingID string) (*models.Lodging, error) {
	lodging, ok := s.lodgings[lodgingID]
	if !ok {
		return nil, models.ErrLodgingNotFound
	}
	return lodging, nil
}

type fakeUserStore struct {
	ids map[string]bool
}

func (s *fakeUserStore) Exists(userID string) (bool, error) {
	return s.ids[userID], nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	created []string
	changed []string
}

func (p *recordingPublisher) BookingCreated(booking *models.Booking) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, booking.ID)
}

func (p *recordingPublisher) BookingStatusChanged(booking *models.Booking, previous models.BookingStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, fmt.Sprintf("%s:%s->%s", booking.ID, previous, booking.Status))
}

type serviceFixture struct {
	service   *ReservationService
	bookings  *fakeBookingStore
	payments  *fakePaymentStore
	publisher *recordingPublisher
}

func newFixture(t *testing.T, cfg ReservationServiceConfig) *serviceFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	payments := newFakePaymentStore()
	bookings := newFakeBookingStore(payments)
	rooms := &fakeRoomStore{rooms: map[string]*models.Room{
		"room-1": {
			ID:          "room-1",
			LodgingID:   "lodging-1",
			RoomName:    "Deluxe Double",
			CapacityMin: 1,
			CapacityMax: 4,
			Price:       100,
			CountRoom:   2,
		},
	}}
	lodgings := &fakeLodgingStore{lodgings: map[string]*models.Lodging{
		"lodging-1": {ID: "lodging-1", BusinessID: "business-1", LodgingName: "Harbor Hotel"},
	}}
	users := &fakeUserStore{ids: map[string]bool{"user-1": true}}
	publisher := &recordingPublisher{}

	if cfg.AdmissionRetries == 0 {
		cfg.AdmissionRetries = 3
	}

	return &serviceFixture{
		service:   NewReservationService(bookings, rooms, lodgings, users, payments, publisher, cfg, logger),
		bookings:  bookings,
		payments:  payments,
		publisher: publisher,
	}
}

func createReq(checkin, checkout string) *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		RoomID:       "room-1",
		UserID:       "user-1",
		Adults:       2,
		CheckinDate:  checkin,
		CheckoutDate: checkout,
		Duration:     0,
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t, ReservationServiceConfig{})

	t.Run("malformed date", func(t *testing.T) {
		_, err := f.service.CreateBooking(createReq("not-a-date", "2026-09-12"))
		assert.ErrorIs(t, err, models.ErrInvalidDateRange)
	})

	t.Run("checkout before checkin", func(t *testing.T) {
		_, err := f.service.CreateBooking(createReq("2026-09-12", "2026-09-10"))
		assert.ErrorIs(t, err, models.ErrInvalidDateRange)
	})

	t.Run("zero-night stay", func(t *testing.T) {
		_, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-10"))
		assert.ErrorIs(t, err, models.ErrInvalidDateRange)
	})

	t.Run("duration mismatch", func(t *testing.T) {
		req := createReq("2026-09-10", "2026-09-12")
		req.Duration = 5
		_, err := f.service.CreateBooking(req)
		assert.ErrorIs(t, err, models.ErrInvalidDateRange)
	})

	t.Run("unknown room", func(t *testing.T) {
		req := createReq("2026-09-10", "2026-09-12")
		req.RoomID = "room-missing"
		_, err := f.service.CreateBooking(req)
		assert.ErrorIs(t, err, models.ErrRoomNotFound)
	})

	t.Run("too many guests", func(t *testing.T) {
		req := createReq("2026-09-10", "2026-09-12")
		req.Adults = 4
		req.Children = 2
		_, err := f.service.CreateBooking(req)
		assert.ErrorIs(t, err, models.ErrInvalidGuestCount)
	})

	t.Run("negative adults", func(t *testing.T) {
		req := createReq("2026-09-10", "2026-09-12")
		req.Adults = -1
		req.Children = 2
		_, err := f.service.CreateBooking(req)
		assert.ErrorIs(t, err, models.ErrInvalidGuestCount)
	})

	t.Run("negative children", func(t *testing.T) {
		req := createReq("2026-09-10", "2026-09-12")
		req.Children = -1
		_, err := f.service.CreateBooking(req)
		assert.ErrorIs(t, err, models.ErrInvalidGuestCount)
	})

	t.Run("unknown user", func(t *testing.T) {
		req := createReq("2026-09-10", "2026-09-12")
		req.UserID = "stranger"
		_, err := f.service.CreateBooking(req)
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestCreateBookingSuccess(t *testing.T) {
	f := newFixture(t, ReservationServiceConfig{})

	booking, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, models.PaymentStatusPending, booking.PaymentStatus)
	assert.Equal(t, "business-1", booking.BusinessID)
	assert.Equal(t, 2, booking.Duration)

	payment, err := f.payments.GetByBookingID(booking.ID)
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, float64(200), payment.Total)
	assert.Equal(t, float64(0), payment.Paid)

	assert.Equal(t, []string{booking.ID}, f.publisher.created)
}

func TestCreateBookingChildrenOnly(t *testing.T) {
	f := newFixture(t, ReservationServiceConfig{})

	req := createReq("2026-09-10", "2026-09-12")
	req.Adults = 0
	req.Children = 2

	booking, err := f.service.CreateBooking(req)
	require.NoError(t, err)
	assert.Equal(t, 0, booking.Adults)
	assert.Equal(t, 2, booking.Children)
}

func TestCreateBookingAdmission(t *testing.T) {
	t.Run("room exhausted", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})

		// CountRoom is 2: two overlapping bookings fill the room.
		_, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-14"))
		require.NoError(t, err)
		_, err = f.service.CreateBooking(createReq("2026-09-11", "2026-09-13"))
		require.NoError(t, err)

		_, err = f.service.CreateBooking(createReq("2026-09-12", "2026-09-15"))
		assert.ErrorIs(t, err, models.ErrRoomNotAvailable)
	})

	t.Run("back-to-back stays share a unit", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})

		_, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)
		_, err = f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)

		// Both units taken for [10,12) but a stay starting on the 12th
		// does not overlap.
		_, err = f.service.CreateBooking(createReq("2026-09-12", "2026-09-14"))
		require.NoError(t, err)
	})

	t.Run("cancelled bookings release inventory", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})

		first, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)
		_, err = f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)

		_, err = f.service.SetBookingStatus("business-1", first.ID, &models.UpdateBookingStatusRequest{
			Status: models.BookingStatusCancelled,
		})
		require.NoError(t, err)

		_, err = f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)
	})
}

func TestConcurrentAdmission(t *testing.T) {
	f := newFixture(t, ReservationServiceConfig{})

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, rejected := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case err == models.ErrRoomNotAvailable:
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// The room has exactly two units; admission must never over-commit.
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, attempts-2, rejected)
}

func TestSetBookingStatus(t *testing.T) {
	t.Run("pending to confirmed", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})
		booking, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)

		updated, err := f.service.SetBookingStatus("business-1", booking.ID, &models.UpdateBookingStatusRequest{
			Status: models.BookingStatusConfirmed,
		})
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusConfirmed, updated.Status)
		assert.Len(t, f.publisher.changed, 1)
	})

	t.Run("wrong business is rejected", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})
		booking, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)

		_, err = f.service.SetBookingStatus("business-other", booking.ID, &models.UpdateBookingStatusRequest{
			Status: models.BookingStatusConfirmed,
		})
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})
		_, err := f.service.SetBookingStatus("business-1", "ghost", &models.UpdateBookingStatusRequest{
			Status: models.BookingStatusConfirmed,
		})
		assert.ErrorIs(t, err, models.ErrBookingNotFound)
	})

	t.Run("illegal transition", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})
		booking, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)

		_, err = f.service.SetBookingStatus("business-1", booking.ID, &models.UpdateBookingStatusRequest{
			Status: models.BookingStatusCompleted,
		})
		assert.ErrorIs(t, err, models.ErrInvalidStatus)
	})

	t.Run("unknown status value", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})
		booking, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)

		_, err = f.service.SetBookingStatus("business-1", booking.ID, &models.UpdateBookingStatusRequest{
			Status: models.BookingStatus("archived"),
		})
		assert.ErrorIs(t, err, models.ErrInvalidStatus)
	})

	t.Run("cancellation settles the ledger", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})
		booking, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)

		_, err = f.service.SetPaymentStatus("business-1", booking.ID, models.PaymentStatusPaid)
		require.NoError(t, err)

		reason := "guest request"
		cancelled, err := f.service.SetBookingStatus("business-1", booking.ID, &models.UpdateBookingStatusRequest{
			Status:             models.BookingStatusCancelled,
			CancellationReason: &reason,
		})
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
		assert.Equal(t, models.PaymentStatusRefunded, cancelled.PaymentStatus)
		require.NotNil(t, cancelled.CancellationReason)
		assert.Equal(t, reason, *cancelled.CancellationReason)

		payment, err := f.payments.GetByBookingID(booking.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(0), payment.Paid)
	})

	t.Run("terminal unless reopen enabled", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})
		booking, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)

		_, err = f.service.SetBookingStatus("business-1", booking.ID, &models.UpdateBookingStatusRequest{
			Status: models.BookingStatusCancelled,
		})
		require.NoError(t, err)

		_, err = f.service.SetBookingStatus("business-1", booking.ID, &models.UpdateBookingStatusRequest{
			Status: models.BookingStatusConfirmed,
		})
		assert.ErrorIs(t, err, models.ErrInvalidStatus)
	})

	t.Run("reopen flag permits late confirm", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{AllowReopen: true})
		booking, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)

		_, err = f.service.SetBookingStatus("business-1", booking.ID, &models.UpdateBookingStatusRequest{
			Status: models.BookingStatusCancelled,
		})
		require.NoError(t, err)

		updated, err := f.service.SetBookingStatus("business-1", booking.ID, &models.UpdateBookingStatusRequest{
			Status: models.BookingStatusConfirmed,
		})
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusConfirmed, updated.Status)
		assert.Nil(t, updated.CancellationReason)
	})
}

func TestSetPaymentStatus(t *testing.T) {
	t.Run("paid settles full total", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})
		booking, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)

		updated, err := f.service.SetPaymentStatus("business-1", booking.ID, models.PaymentStatusPaid)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)

		payment, err := f.payments.GetByBookingID(booking.ID)
		require.NoError(t, err)
		assert.Equal(t, payment.Total, payment.Paid)
	})

	t.Run("failed leaves amounts alone", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})
		booking, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)

		updated, err := f.service.SetPaymentStatus("business-1", booking.ID, models.PaymentStatusFailed)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusFailed, updated.PaymentStatus)

		payment, err := f.payments.GetByBookingID(booking.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(0), payment.Paid)
	})

	t.Run("unknown payment status", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})
		booking, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)

		_, err = f.service.SetPaymentStatus("business-1", booking.ID, models.PaymentStatus("chargeback"))
		assert.ErrorIs(t, err, models.ErrInvalidStatus)
	})

	t.Run("wrong business is rejected", func(t *testing.T) {
		f := newFixture(t, ReservationServiceConfig{})
		booking, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
		require.NoError(t, err)

		_, err = f.service.SetPaymentStatus("business-other", booking.ID, models.PaymentStatusPaid)
		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t, ReservationServiceConfig{})

	free, err := f.service.CheckAvailability("room-1", "2026-09-10", "2026-09-12")
	require.NoError(t, err)
	assert.Equal(t, 2, free)

	_, err = f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
	require.NoError(t, err)

	free, err = f.service.CheckAvailability("room-1", "2026-09-10", "2026-09-12")
	require.NoError(t, err)
	assert.Equal(t, 1, free)

	_, err = f.service.CheckAvailability("room-1", "2026-09-12", "2026-09-10")
	assert.ErrorIs(t, err, models.ErrInvalidDateRange)
}

func TestGetBooking(t *testing.T) {
	f := newFixture(t, ReservationServiceConfig{})

	booking, err := f.service.CreateBooking(createReq("2026-09-10", "2026-09-12"))
	require.NoError(t, err)

	detail, err := f.service.GetBooking("business-1", booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, detail.Booking.ID)
	require.NotNil(t, detail.Room)
	assert.Equal(t, "room-1", detail.Room.ID)
	require.NotNil(t, detail.Lodging)
	assert.Equal(t, "Harbor Hotel", detail.Lodging.LodgingName)
	require.NotNil(t, detail.Payment)
	assert.Equal(t, float64(200), detail.Payment.Total)

	_, err = f.service.GetBooking("business-other", booking.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
