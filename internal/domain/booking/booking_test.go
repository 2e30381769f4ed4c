package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuxeDrive-Rentals/service-rental/pkg/domain"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	bk, err := NewBooking(
		uuid.New(),
		uuid.New(),
		mustRange(t, date(2026, 9, 10), date(2026, 9, 13)),
		"Dubai Marina",
		"DXB Airport T3",
		nil,
		nil,
		"",
		150000,
		domain.CurrencyAED,
	)
	require.NoError(t, err)
	return bk
}

func TestNewBooking(t *testing.T) {
	t.Run("valid booking starts pending at version 1", func(t *testing.T) {
		bk := newTestBooking(t)

		assert.Equal(t, StatusPending, bk.Status())
		assert.Equal(t, int64(1), bk.Version())
		assert.Nil(t, bk.PaymentID())
		assert.True(t, strings.HasPrefix(bk.BookingNumber(), "RB-"))
		assert.Len(t, bk.BookingNumber(), 9)
	})

	t.Run("booking numbers are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			bk := newTestBooking(t)
			assert.False(t, seen[bk.BookingNumber()])
			seen[bk.BookingNumber()] = true
		}
	})

	period := DateRange{Start: date(2026, 9, 10), End: date(2026, 9, 13)}
	tests := []struct {
		name     string
		renterID uuid.UUID
		vehicle  uuid.UUID
		pickup   string
		dropoff  string
		price    int64
	}{
		{"missing renter", uuid.Nil, uuid.New(), "a", "b", 100},
		{"missing vehicle", uuid.New(), uuid.Nil, "a", "b", 100},
		{"missing pickup", uuid.New(), uuid.New(), "", "b", 100},
		{"missing dropoff", uuid.New(), uuid.New(), "a", "", 100},
		{"zero price", uuid.New(), uuid.New(), "a", "b", 0},
		{"negative price", uuid.New(), uuid.New(), "a", "b", -500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBooking(tt.renterID, tt.vehicle, period, tt.pickup, tt.dropoff, nil, nil, "", tt.price, domain.CurrencyAED)
			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestBookingLifecycle(t *testing.T) {
	t.Run("full happy path", func(t *testing.T) {
		bk := newTestBooking(t)

		require.NoError(t, bk.Confirm())
		assert.Equal(t, StatusConfirmed, bk.Status())

		require.NoError(t, bk.Activate())
		assert.Equal(t, StatusActive, bk.Status())

		require.NoError(t, bk.Complete())
		assert.Equal(t, StatusCompleted, bk.Status())
	})

	t.Run("skipping confirmed is rejected", func(t *testing.T) {
		bk := newTestBooking(t)

		err := bk.Activate()
		var stateErr *domain.InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, string(StatusPending), stateErr.From)
		assert.Equal(t, StatusPending, bk.Status(), "failed transition must not change state")
	})

	t.Run("completing a pending booking is rejected", func(t *testing.T) {
		bk := newTestBooking(t)
		var stateErr *domain.InvalidStateError
		require.ErrorAs(t, bk.Complete(), &stateErr)
	})
}

func TestBookingCancel(t *testing.T) {
	t.Run("records the reason", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Cancel("change of plans"))
		assert.Equal(t, StatusCancelled, bk.Status())
		assert.Equal(t, "change of plans", bk.CancellationReason())
	})

	t.Run("empty reason gets a default", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Cancel(""))
		assert.Equal(t, "Cancelled by user", bk.CancellationReason())
	})

	t.Run("cancelling twice is rejected", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Cancel("first"))

		var stateErr *domain.InvalidStateError
		require.ErrorAs(t, bk.Cancel("second"), &stateErr)
		assert.Equal(t, "first", bk.CancellationReason())
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Confirm())
		require.NoError(t, bk.Activate())
		require.NoError(t, bk.Complete())

		var stateErr *domain.InvalidStateError
		require.ErrorAs(t, bk.Cancel("too late"), &stateErr)
	})
}

func TestBookingAmendPeriod(t *testing.T) {
	t.Run("pending booking accepts new dates and price", func(t *testing.T) {
		bk := newTestBooking(t)
		newPeriod := mustRange(t, date(2026, 9, 20), date(2026, 9, 25))

		require.NoError(t, bk.AmendPeriod(newPeriod, 250000))
		assert.Equal(t, newPeriod, bk.Period())
		assert.Equal(t, int64(250000), bk.TotalPriceFils())
	})

	t.Run("confirmed booking rejects amendment", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Confirm())

		var stateErr *domain.InvalidStateError
		err := bk.AmendPeriod(mustRange(t, date(2026, 9, 20), date(2026, 9, 25)), 250000)
		require.ErrorAs(t, err, &stateErr)
	})

	t.Run("non-positive price rejected", func(t *testing.T) {
		bk := newTestBooking(t)
		var validationErr *domain.ValidationError
		err := bk.AmendPeriod(mustRange(t, date(2026, 9, 20), date(2026, 9, 25)), 0)
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestBookingDetailAmendments(t *testing.T) {
	t.Run("notes and drivers editable while live", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.SetNotes("deliver with full tank"))
		require.NoError(t, bk.SetAdditionalDrivers([]AdditionalDriver{
			{Name: "Omar K", LicenseNumber: "DXB-443301"},
		}))
		assert.Equal(t, "deliver with full tank", bk.Notes())
		assert.Len(t, bk.AdditionalDrivers(), 1)
	})

	t.Run("rejected once terminal", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Cancel(""))

		assert.Error(t, bk.SetNotes("x"))
		assert.Error(t, bk.SetAdditionalDrivers(nil))
		assert.Error(t, bk.SetLocations("a", "b"))
	})

	t.Run("empty locations rejected", func(t *testing.T) {
		bk := newTestBooking(t)
		assert.Error(t, bk.SetLocations("", "DXB Airport T3"))
	})
}

func TestBookingVersioning(t *testing.T) {
	bk := newTestBooking(t)
	before := bk.Version()
	bk.IncrementVersion()
	assert.Equal(t, before+1, bk.Version())
}

func TestReconstructBooking(t *testing.T) {
	id := uuid.New()
	paymentID := uuid.New()
	createdAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	bk := ReconstructBooking(
		id, "RB-QZ7PW2", uuid.New(), uuid.New(),
		DateRange{Start: date(2026, 9, 10), End: date(2026, 9, 13)},
		StatusConfirmed,
		"Dubai Marina", "DXB Airport T3",
		150000, domain.CurrencyAED,
		nil, nil, "", "", &paymentID, 3, createdAt, createdAt,
	)

	assert.Equal(t, id, bk.ID())
	assert.Equal(t, StatusConfirmed, bk.Status())
	assert.Equal(t, int64(3), bk.Version())
	require.NotNil(t, bk.PaymentID())
	assert.Equal(t, paymentID, *bk.PaymentID())

	// Reconstruction keeps the state machine intact.
	require.NoError(t, bk.Activate())
}
