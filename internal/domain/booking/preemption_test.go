//go:build unit

package booking_test

import (
	"testing"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateWith(t *testing.T, start time.Time, quantity, score int, createdAt time.Time) *booking.Reservation {
	t.Helper()
	return builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.StartTime = start
		b.EndTime = start.Add(2 * time.Hour)
		b.Quantity = quantity
		b.Score = score
		b.CreatedAt = createdAt
	}).BuildApproved()
}

func TestPlanPreemption(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	// Far enough out that no candidate sits in a freeze window.
	start := now.Add(72 * time.Hour)

	t.Run("weakest candidate goes first", func(t *testing.T) {
		strong := candidateWith(t, start, 1, 40, now)
		weak := candidateWith(t, start, 1, 10, now)

		plan, ok := booking.PlanPreemption(exclusiveSpec(), []*booking.Reservation{strong, weak}, 1, 50, now)
		require.True(t, ok)
		require.Len(t, plan.Victims, 1)
		assert.Equal(t, weak.ID(), plan.Victims[0].ID())
		assert.Equal(t, 1, plan.FreedUnits)
	})

	t.Run("score ties break by earliest creation", func(t *testing.T) {
		older := candidateWith(t, start, 1, 10, now.Add(-2*time.Hour))
		newer := candidateWith(t, start, 1, 10, now.Add(-time.Hour))

		plan, ok := booking.PlanPreemption(exclusiveSpec(), []*booking.Reservation{newer, older}, 1, 50, now)
		require.True(t, ok)
		require.Len(t, plan.Victims, 1)
		assert.Equal(t, older.ID(), plan.Victims[0].ID())
	})

	t.Run("equal score never loses its slot", func(t *testing.T) {
		peer := candidateWith(t, start, 1, 30, now)
		_, ok := booking.PlanPreemption(exclusiveSpec(), []*booking.Reservation{peer}, 1, 30, now)
		assert.False(t, ok)
	})

	t.Run("frozen candidate is skipped even when outscored", func(t *testing.T) {
		frozen := candidateWith(t, now.Add(30*time.Minute), 1, 5, now)
		_, ok := booking.PlanPreemption(exclusiveSpec(), []*booking.Reservation{frozen}, 1, 60, now)
		assert.False(t, ok)
	})

	t.Run("quantity resource frees victim quantities until covered", func(t *testing.T) {
		small := candidateWith(t, start, 1, 5, now)
		medium := candidateWith(t, start, 2, 10, now)
		large := candidateWith(t, start, 4, 20, now)

		spec := quantitySpec(5)
		plan, ok := booking.PlanPreemption(spec, []*booking.Reservation{large, small, medium}, 3, 50, now)
		require.True(t, ok)
		// 1 (small) then 2 (medium) covers the 3 required units; the
		// stronger large holder keeps its slot.
		require.Len(t, plan.Victims, 2)
		assert.Equal(t, small.ID(), plan.Victims[0].ID())
		assert.Equal(t, medium.ID(), plan.Victims[1].ID())
		assert.Equal(t, 3, plan.FreedUnits)
	})

	t.Run("infeasible when eligible victims cannot cover the shortfall", func(t *testing.T) {
		weak := candidateWith(t, start, 1, 5, now)
		strong := candidateWith(t, start, 4, 60, now)

		plan, ok := booking.PlanPreemption(quantitySpec(5), []*booking.Reservation{weak, strong}, 3, 50, now)
		assert.False(t, ok)
		assert.Empty(t, plan.Victims)
	})

	t.Run("no candidates no plan", func(t *testing.T) {
		_, ok := booking.PlanPreemption(exclusiveSpec(), nil, 1, 50, now)
		assert.False(t, ok)
	})
}
