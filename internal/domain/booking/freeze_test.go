//go:build unit

package booking_test

import (
	"testing"
	"time"

	"booking-engine/internal/domain/booking"

	"github.com/stretchr/testify/assert"
)

func TestIsProtected(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		start     time.Time
		protected bool
	}{
		{
			name:      "same day starting in 30 minutes",
			start:     now.Add(30 * time.Minute),
			protected: true,
		},
		{
			name:      "same day starting in exactly one hour",
			start:     now.Add(time.Hour),
			protected: false,
		},
		{
			name:      "same day starting in two hours",
			start:     now.Add(2 * time.Hour),
			protected: false,
		},
		{
			name:      "next day starting in 23 hours",
			start:     now.Add(23 * time.Hour),
			protected: true,
		},
		{
			name:      "next day starting in exactly 24 hours",
			start:     now.Add(24 * time.Hour),
			protected: false,
		},
		{
			name:      "two days out",
			start:     now.Add(48 * time.Hour),
			protected: false,
		},
		{
			name:      "already started",
			start:     now.Add(-time.Minute),
			protected: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.protected, booking.IsProtected(tc.start, now))
		})
	}

	// Near midnight the 1-hour same-day rule never applies across the day
	// boundary: 00:30 tomorrow seen from 23:45 is a cross-day start.
	t.Run("cross-midnight start uses the 24 hour window", func(t *testing.T) {
		lateNow := time.Date(2026, 3, 10, 23, 45, 0, 0, time.UTC)
		start := time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC)
		assert.True(t, booking.IsProtected(start, lateNow))
	})

	t.Run("calendar day is judged in now's location", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*3600)
		nowJST := time.Date(2026, 3, 10, 20, 0, 0, 0, tokyo)
		// 15:00 UTC Mar 10 is 00:00 JST Mar 11: a different JST day, 4h away,
		// so the 24-hour cross-day window applies rather than the 1-hour one.
		start := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
		assert.True(t, booking.IsProtected(start, nowJST))
	})
}
