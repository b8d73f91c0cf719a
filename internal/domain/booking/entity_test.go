//go:build unit

package booking_test

import (
	"testing"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReservation(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewBookingBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, booking.StatusApproved, actual.Status())
		assert.True(t, actual.IsApproved())
		assert.Equal(t, int64(1), actual.Version())
		assert.Equal(t, b.CreatedAt, actual.CreatedAt())
		assert.Equal(t, actual.CreatedAt(), actual.UpdatedAt())
		assert.Nil(t, actual.CancellationReason())
	})

	t.Run("invalid urgency", func(t *testing.T) {
		_, err := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Urgency = booking.Urgency("mild")
		}).BuildDomain()
		assert.ErrorIs(t, err, booking.ErrInvalidUrgency)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.Quantity = 0
		}).BuildDomain()
		assert.ErrorIs(t, err, booking.ErrInvalidQuantity)
	})

	t.Run("start in the past", func(t *testing.T) {
		_, err := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.CreatedAt = b.StartTime.Add(time.Minute)
		}).BuildDomain()
		assert.ErrorIs(t, err, booking.ErrPastStartTime)
	})
}

func TestReservationCancel(t *testing.T) {
	t.Run("approved reservation cancels with a reason", func(t *testing.T) {
		res := builder.NewBookingBuilder().BuildApproved()

		require.NoError(t, res.Cancel(booking.ReasonPreempted))
		assert.Equal(t, booking.StatusCancelled, res.Status())
		require.NotNil(t, res.CancellationReason())
		assert.Equal(t, booking.ReasonPreempted, *res.CancellationReason())
	})

	t.Run("double cancel fails", func(t *testing.T) {
		res := builder.NewBookingBuilder().BuildApproved()
		require.NoError(t, res.Cancel("first"))
		assert.ErrorIs(t, res.Cancel("second"), booking.ErrAlreadyCancelled)
	})
}

func TestReservationHasStarted(t *testing.T) {
	res := builder.NewBookingBuilder().BuildApproved()
	start := res.Slot().Start()

	assert.False(t, res.HasStarted(start.Add(-time.Minute)))
	assert.True(t, res.HasStarted(start))
	assert.True(t, res.HasStarted(start.Add(time.Minute)))
}
