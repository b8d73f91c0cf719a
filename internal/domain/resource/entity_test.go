//go:build unit

package resource_test

import (
	"strings"
	"testing"
	"time"

	"booking-engine/internal/domain/resource"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResource(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		res, err := resource.NewResource(uuid.New(), "  Lab Bench 3  ", resource.KindQuantity, 8, true, nil)
		require.NoError(t, err)

		assert.Equal(t, "Lab Bench 3", res.Name())
		assert.Equal(t, resource.KindQuantity, res.Kind())
		assert.Equal(t, 8, res.CapacityUnits())
		assert.True(t, res.IsActive())
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := resource.NewResource(uuid.New(), "   ", resource.KindExclusive, 1, true, nil)
		assert.ErrorIs(t, err, resource.ErrEmptyResourceName)
	})

	t.Run("name too long", func(t *testing.T) {
		_, err := resource.NewResource(uuid.New(), strings.Repeat("a", resource.MaxResourceNameLength+1), resource.KindExclusive, 1, true, nil)
		assert.ErrorIs(t, err, resource.ErrResourceNameTooLong)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := resource.NewResource(uuid.New(), "Room", resource.Kind("shared"), 1, true, nil)
		assert.ErrorIs(t, err, resource.ErrInvalidKind)
	})

	t.Run("zero capacity", func(t *testing.T) {
		_, err := resource.NewResource(uuid.New(), "Room", resource.KindQuantity, 0, true, nil)
		assert.ErrorIs(t, err, resource.ErrInvalidCapacity)
	})
}

func TestEffectiveCapacity(t *testing.T) {
	t.Run("exclusive caps at one regardless of units", func(t *testing.T) {
		res, err := resource.NewResource(uuid.New(), "Studio", resource.KindExclusive, 12, true, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, res.EffectiveCapacity())
	})

	t.Run("quantity exposes its units", func(t *testing.T) {
		res, err := resource.NewResource(uuid.New(), "Fleet", resource.KindQuantity, 12, true, nil)
		require.NoError(t, err)
		assert.Equal(t, 12, res.EffectiveCapacity())
	})
}

func TestAvailableUntil(t *testing.T) {
	end := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	t.Run("inactive resource is unavailable", func(t *testing.T) {
		res, err := resource.NewResource(uuid.New(), "Room", resource.KindExclusive, 1, false, nil)
		require.NoError(t, err)
		assert.False(t, res.AvailableUntil(end))
	})

	t.Run("no retirement date means available", func(t *testing.T) {
		res, err := resource.NewResource(uuid.New(), "Room", resource.KindExclusive, 1, true, nil)
		require.NoError(t, err)
		assert.True(t, res.AvailableUntil(end))
	})

	t.Run("retirement before the slot end blocks the booking", func(t *testing.T) {
		retire := end.Add(-time.Hour)
		res, err := resource.NewResource(uuid.New(), "Room", resource.KindExclusive, 1, true, &retire)
		require.NoError(t, err)
		assert.False(t, res.AvailableUntil(end))
	})

	t.Run("retirement exactly at the slot end is allowed", func(t *testing.T) {
		retire := end
		res, err := resource.NewResource(uuid.New(), "Room", resource.KindExclusive, 1, true, &retire)
		require.NoError(t, err)
		assert.True(t, res.AvailableUntil(end))
	})
}
