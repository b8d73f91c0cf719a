package user

import "errors"

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleViewer  Role = "viewer"
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleStaff, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// Viewer is a pure-monitoring role and is never allowed to create bookings.
func (r Role) CanBook() bool {
	switch r {
	case RoleStaff, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
