package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		name        string
		from        BookingStatus
		to          BookingStatus
		allowReopen bool
		want        bool
	}{
		{"pending to confirmed", BookingStatusPending, BookingStatusConfirmed, false, true},
		{"pending to cancelled", BookingStatusPending, BookingStatusCancelled, false, true},
		{"pending to completed", BookingStatusPending, BookingStatusCompleted, false, false},
		{"confirmed to cancelled", BookingStatusConfirmed, BookingStatusCancelled, false, true},
		{"confirmed to completed", BookingStatusConfirmed, BookingStatusCompleted, false, true},
		{"confirmed to pending", BookingStatusConfirmed, BookingStatusPending, false, false},
		{"cancelled is terminal", BookingStatusCancelled, BookingStatusConfirmed, false, false},
		{"completed is terminal", BookingStatusCompleted, BookingStatusCancelled, false, false},
		{"cancelled reopen allowed", BookingStatusCancelled, BookingStatusConfirmed, true, true},
		{"completed late cancel allowed", BookingStatusCompleted, BookingStatusCancelled, true, true},
		{"cancelled reopen to completed still blocked", BookingStatusCancelled, BookingStatusCompleted, true, false},
		{"no self transition", BookingStatusPending, BookingStatusPending, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &Booking{Status: tc.from}
			assert.Equal(t, tc.want, b.CanTransitionTo(tc.to, tc.allowReopen))
		})
	}
}

func TestOverlaps(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
	}
	b := &Booking{CheckinDate: day(10), CheckoutDate: day(14)}

	t.Run("contained range overlaps", func(t *testing.T) {
		assert.True(t, b.Overlaps(day(11), day(13)))
	})
	t.Run("partial overlap at start", func(t *testing.T) {
		assert.True(t, b.Overlaps(day(8), day(11)))
	})
	t.Run("partial overlap at end", func(t *testing.T) {
		assert.True(t, b.Overlaps(day(13), day(16)))
	})
	t.Run("surrounding range overlaps", func(t *testing.T) {
		assert.True(t, b.Overlaps(day(8), day(16)))
	})
	t.Run("same-day turnover at checkout", func(t *testing.T) {
		assert.False(t, b.Overlaps(day(14), day(16)))
	})
	t.Run("same-day turnover at checkin", func(t *testing.T) {
		assert.False(t, b.Overlaps(day(8), day(10)))
	})
	t.Run("disjoint range", func(t *testing.T) {
		assert.False(t, b.Overlaps(day(20), day(22)))
	})
}

func TestHoldsInventory(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingStatusPending}).HoldsInventory())
	assert.True(t, (&Booking{Status: BookingStatusConfirmed}).HoldsInventory())
	assert.False(t, (&Booking{Status: BookingStatusCancelled}).HoldsInventory())
	assert.False(t, (&Booking{Status: BookingStatusCompleted}).HoldsInventory())
}

func TestDurationDays(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, 1, DurationDays(day(10), day(11)))
	assert.Equal(t, 4, DurationDays(day(10), day(14)))
	assert.Equal(t, 0, DurationDays(day(10), day(10)))
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, BookingStatusPending.IsValid())
	assert.True(t, BookingStatusCompleted.IsValid())
	assert.False(t, BookingStatus("unknown").IsValid())

	assert.True(t, PaymentStatusRefunded.IsValid())
	assert.False(t, PaymentStatus("chargeback").IsValid())

	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.False(t, BookingStatusPending.IsTerminal())
}
