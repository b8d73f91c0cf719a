package resource

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName   = errors.New("resource name cannot be empty")
	ErrResourceNameTooLong = errors.New("resource name is too long (max 255 characters)")
	ErrInvalidKind         = errors.New("invalid resource kind")
	ErrInvalidCapacity     = errors.New("capacity units must be at least 1")
)

const MaxResourceNameLength = 255

type Kind string

const (
	// KindExclusive resources admit at most one reservation at any instant,
	// regardless of how many people the resource physically holds.
	KindExclusive Kind = "exclusive"
	// KindQuantity resources are unit pools shareable by concurrent reservations.
	KindQuantity Kind = "quantity"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindExclusive, KindQuantity:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	return string(k)
}

type Resource struct {
	id            uuid.UUID
	name          string
	kind          Kind
	capacityUnits int
	active        bool
	deleteAfter   *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

func NewResource(id uuid.UUID, name string, kind Kind, capacityUnits int, active bool, deleteAfter *time.Time) (*Resource, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if capacityUnits < 1 {
		return nil, ErrInvalidCapacity
	}

	return &Resource{
		id:            id,
		name:          strings.TrimSpace(name),
		kind:          kind,
		capacityUnits: capacityUnits,
		active:        active,
		deleteAfter:   deleteAfter,
	}, nil
}

func ReconstructResource(
	id uuid.UUID,
	name string,
	kind Kind,
	capacityUnits int,
	active bool,
	deleteAfter *time.Time,
	createdAt, updatedAt time.Time,
) *Resource {
	return &Resource{
		id:            id,
		name:          name,
		kind:          kind,
		capacityUnits: capacityUnits,
		active:        active,
		deleteAfter:   deleteAfter,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// EffectiveCapacity is the concurrency budget used for conflict detection.
// Exclusive resources always count as a single slot: their stored capacity
// denotes people, not concurrent reservations.
func (r *Resource) EffectiveCapacity() int {
	if r.kind == KindExclusive {
		return 1
	}
	return r.capacityUnits
}

// AvailableUntil reports whether the resource can host a reservation ending at end:
// it must be active and not scheduled for deletion before that point.
func (r *Resource) AvailableUntil(end time.Time) bool {
	if !r.active {
		return false
	}
	if r.deleteAfter != nil && r.deleteAfter.Before(end) {
		return false
	}
	return true
}

func (r *Resource) ID() uuid.UUID           { return r.id }
func (r *Resource) Name() string            { return r.name }
func (r *Resource) Kind() Kind              { return r.kind }
func (r *Resource) CapacityUnits() int      { return r.capacityUnits }
func (r *Resource) IsActive() bool          { return r.active }
func (r *Resource) DeleteAfter() *time.Time { return r.deleteAfter }
func (r *Resource) CreatedAt() time.Time    { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time    { return r.updatedAt }

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return ErrResourceNameTooLong
	}
	return nil
}
