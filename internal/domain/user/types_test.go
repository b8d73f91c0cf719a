//go:build unit

package user_test

import (
	"testing"

	"booking-engine/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	for _, valid := range []string{"viewer", "staff", "manager", "admin"} {
		t.Run(valid, func(t *testing.T) {
			role, err := user.NewRole(valid)
			require.NoError(t, err)
			assert.Equal(t, valid, role.String())
		})
	}

	t.Run("unknown role", func(t *testing.T) {
		_, err := user.NewRole("superuser")
		assert.ErrorIs(t, err, user.ErrInvalidRole)
	})

	t.Run("case sensitive", func(t *testing.T) {
		_, err := user.NewRole("Admin")
		assert.ErrorIs(t, err, user.ErrInvalidRole)
	})
}

func TestRoleCanBook(t *testing.T) {
	assert.False(t, user.RoleViewer.CanBook())
	assert.True(t, user.RoleStaff.CanBook())
	assert.True(t, user.RoleManager.CanBook())
	assert.True(t, user.RoleAdmin.CanBook())
	assert.False(t, user.Role("ghost").CanBook())
}
