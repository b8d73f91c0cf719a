//go:build unit

package booking_test

import (
	"testing"
	"time"

	"booking-engine/internal/domain/booking"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFindAlternativeSlots(t *testing.T) {
	base := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

	t.Run("free resource suggests the first three hourly slots", func(t *testing.T) {
		requested := mustSlot(t, base, base.Add(2*time.Hour))

		got := booking.FindAlternativeSlots(exclusiveSpec(), requested, 1, nil)
		want := []string{
			"2026-03-12 11:00 UTC",
			"2026-03-12 12:00 UTC",
			"2026-03-12 13:00 UTC",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("alternative slots mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("scan starts at the next hour boundary after the requested end", func(t *testing.T) {
		requested := mustSlot(t, base, base.Add(90*time.Minute))

		got := booking.FindAlternativeSlots(exclusiveSpec(), requested, 1, nil)
		// Request ends 10:30; first probe rounds up to 11:00.
		assert.Equal(t, "2026-03-12 11:00 UTC", got[0])
	})

	t.Run("busy stretch is skipped", func(t *testing.T) {
		requested := mustSlot(t, base, base.Add(time.Hour))
		approved := []*booking.Reservation{
			approvedAt(t, base.Add(time.Hour), 2*time.Hour, 1, 10),
		}

		got := booking.FindAlternativeSlots(exclusiveSpec(), requested, 1, approved)
		// 10:00 and 11:00 collide with the blocker; 12:00 is the first fit.
		assert.Equal(t, "2026-03-12 12:00 UTC", got[0])
	})

	t.Run("fully booked horizon yields no suggestions", func(t *testing.T) {
		requested := mustSlot(t, base, base.Add(time.Hour))
		approved := []*booking.Reservation{
			approvedAt(t, base, 80*time.Hour, 1, 10),
		}

		got := booking.FindAlternativeSlots(exclusiveSpec(), requested, 1, approved)
		assert.Empty(t, got)
	})

	t.Run("quantity resource honors partial availability", func(t *testing.T) {
		requested := mustSlot(t, base, base.Add(time.Hour))
		approved := []*booking.Reservation{
			approvedAt(t, base.Add(time.Hour), time.Hour, 4, 10),
		}

		got := booking.FindAlternativeSlots(quantitySpec(5), requested, 2, approved)
		// 10:00 holds only 1 free unit for a 2-unit request; 11:00 is clear.
		assert.Equal(t, "2026-03-12 11:00 UTC", got[0])
	})
}

func TestScanHorizon(t *testing.T) {
	base := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	requested := mustSlot(t, base, base.Add(2*time.Hour))

	horizon := booking.ScanHorizon(requested)
	assert.Equal(t, requested.Start(), horizon.Start())
	// 48 hourly probes plus the request's own duration plus slack.
	assert.Equal(t, requested.End().Add(48*time.Hour+2*time.Hour+time.Hour), horizon.End())
}
