package usecase

import (
	"context"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/resource"

	"github.com/google/uuid"
)

// OperationalConfig is the per-transaction snapshot of operational settings.
// A snapshot captured at the start of a transaction is never refreshed
// mid-flight, so a settings change cannot make one transaction observe two
// different configurations.
type OperationalConfig struct {
	MaintenanceMode         bool
	MinBookingNoticeMinutes int
	MaxBookingDurationHours int
	MaxAdvanceDays          int
}

type SettingsSnapshot struct {
	Config  OperationalConfig
	Weights booking.PriorityWeights
}

type SettingsProvider interface {
	Current(ctx context.Context) (*SettingsSnapshot, error)
}

// Store is the write-side collaborator. Commit is the single atomic
// operation: it must cancel every victim (checking each stored version
// against the entity's observed version), insert the new reservation, and
// record the write-side audit trail, all inside one resource-serialized
// boundary that re-validates capacity before writing. Any version mismatch or
// in-boundary conflict aborts the whole commit.
type Store interface {
	GetResource(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	ListApproved(ctx context.Context, resourceID uuid.UUID, window booking.TimeSlot) ([]*booking.Reservation, error)
	Commit(ctx context.Context, res *booking.Reservation, victims []*booking.Reservation) (uuid.UUID, error)
}

// NotificationSink delivers best-effort user notifications. Failures are
// logged and swallowed; delivery is an external collaborator's concern.
type NotificationSink interface {
	Notify(ctx context.Context, userID uuid.UUID, subject, body string) error
}

type AuditEvent struct {
	Kind          string
	ReservationID *uuid.UUID
	ResourceID    uuid.UUID
	ActorID       uuid.UUID
	Detail        map[string]any
}

const (
	AuditBookingCreated  = "booking_created"
	AuditBookingRejected = "booking_rejected"
	AuditVictimPreempted = "booking_preempted_victim"
)

// AuditSink is append-only; one event per outcome.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent) error
}
