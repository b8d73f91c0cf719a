package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/resource"
	"booking-engine/internal/domain/user"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	// Validation failures: returned immediately, nothing written.
	ErrMaintenanceMode     = errors.New("maintenance mode is enabled")
	ErrRoleCannotBook      = errors.New("role is not permitted to book")
	ErrInvalidUrgency      = errors.New("invalid urgency")
	ErrInvalidTimeSlot     = errors.New("invalid time slot")
	ErrInsufficientNotice  = errors.New("minimum booking notice not met")
	ErrDurationTooLong     = errors.New("booking duration exceeds the allowed maximum")
	ErrTooFarInAdvance     = errors.New("booking start exceeds the advance window")
	ErrInvalidQuantity     = errors.New("requested quantity is out of range")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrResourceUnavailable = errors.New("resource is not available for booking")

	// Conflict outcomes.
	ErrCapacityRejected  = errors.New("booking rejected: insufficient priority against existing reservations")
	ErrProtectedConflict = errors.New("booking rejected: blocking reservations are protected or out-score the request")

	// Commit outcomes.
	ErrStaleState     = errors.New("stale state, retry")
	ErrStorageFailure = errors.New("storage operation failed")
)

// ConflictRejection carries the structured detail of a capacity or protected
// rejection: the scores of the reservations that block the request and any
// alternative start times found by the forward scan. Matched with errors.As;
// the taxonomy kind is carried by the sentinel it is marked with.
type ConflictRejection struct {
	BlockingScores []int
	Alternatives   []string
}

func (e *ConflictRejection) Error() string {
	return fmt.Sprintf("booking conflict: blocking scores %v, %d alternative slot(s)", e.BlockingScores, len(e.Alternatives))
}

type CreateBookingParams struct {
	ResourceID uuid.UUID
	StartTime  time.Time
	EndTime    time.Time
	Urgency    string
	Quantity   *int
	Title      string
}

type CreateBookingResult struct {
	ReservationID uuid.UUID
	Score         int
	Preempted     int
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, params CreateBookingParams, requesterID uuid.UUID, role user.Role) (*CreateBookingResult, error)
}

type bookingCommandsImpl struct {
	settings SettingsProvider
	store    Store
	notifier NotificationSink
	audit    AuditSink
	clock    clock.Clock
	logger   *slog.Logger
}

func NewBookingCommands(
	settings SettingsProvider,
	store Store,
	notifier NotificationSink,
	audit AuditSink,
	clk clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		settings: settings,
		store:    store,
		notifier: notifier,
		audit:    audit,
		clock:    clk,
		logger:   logger,
	}
}

// CreateBooking runs the whole booking transaction synchronously:
// Validating -> Scoring -> ConflictCheck -> {Preempting | DirectCommit} ->
// Committed | Rejected. Every failure path leaves the store untouched; the
// commit itself is atomic at the Store boundary.
func (b *bookingCommandsImpl) CreateBooking(
	ctx context.Context,
	params CreateBookingParams,
	requesterID uuid.UUID,
	role user.Role,
) (*CreateBookingResult, error) {
	snapshot, err := b.settings.Current(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	now := b.clock.Now()
	slot, urgency, err := b.validate(params, role, snapshot.Config, now)
	if err != nil {
		return nil, err
	}

	res, spec, quantity, err := b.resolveResource(ctx, params, slot)
	if err != nil {
		return nil, err
	}

	score := booking.Score(role, urgency, snapshot.Weights)

	approved, err := b.store.ListApproved(ctx, res.ID(), slot)
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	report := booking.DetectConflicts(spec, slot, quantity, approved)

	var victims []*booking.Reservation
	if report.Conflicts {
		plan, feasible := booking.PlanPreemption(spec, report.Candidates, report.RequiredFreed, score, now)
		if !feasible {
			return nil, b.reject(ctx, params, requesterID, spec, slot, quantity, score, report)
		}
		victims = plan.Victims
	}

	entity, err := booking.NewReservation(res.ID(), requesterID, slot, urgency, quantity, score, params.Title, now)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	newID, err := b.store.Commit(ctx, entity, victims)
	if err != nil {
		if infra.IsKind(err, infra.KindStaleState) || infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, ErrStaleState)
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}

	b.recordOutcome(ctx, newID, requesterID, res, victims)

	return &CreateBookingResult{
		ReservationID: newID,
		Score:         score,
		Preempted:     len(victims),
	}, nil
}

func (b *bookingCommandsImpl) validate(
	params CreateBookingParams,
	role user.Role,
	cfg OperationalConfig,
	now time.Time,
) (booking.TimeSlot, booking.Urgency, error) {
	if cfg.MaintenanceMode {
		return booking.TimeSlot{}, "", ErrMaintenanceMode
	}
	if !role.CanBook() {
		return booking.TimeSlot{}, "", ErrRoleCannotBook
	}

	urgency := booking.Urgency(params.Urgency)
	if !urgency.IsValid() {
		return booking.TimeSlot{}, "", ErrInvalidUrgency
	}

	slot, err := booking.NewTimeSlot(params.StartTime, params.EndTime)
	if err != nil {
		return booking.TimeSlot{}, "", errs.Mark(err, ErrInvalidTimeSlot)
	}
	if err := slot.ValidateFuture(now); err != nil {
		return booking.TimeSlot{}, "", errs.Mark(err, ErrInvalidTimeSlot)
	}

	notice := time.Duration(cfg.MinBookingNoticeMinutes) * time.Minute
	if slot.Start().Sub(now) < notice {
		return booking.TimeSlot{}, "", ErrInsufficientNotice
	}

	maxDuration := time.Duration(cfg.MaxBookingDurationHours) * time.Hour
	if maxDuration > 0 && slot.Duration() > maxDuration {
		return booking.TimeSlot{}, "", ErrDurationTooLong
	}

	if cfg.MaxAdvanceDays > 0 && slot.Start().After(now.AddDate(0, 0, cfg.MaxAdvanceDays)) {
		return booking.TimeSlot{}, "", ErrTooFarInAdvance
	}

	return slot, urgency, nil
}

func (b *bookingCommandsImpl) resolveResource(
	ctx context.Context,
	params CreateBookingParams,
	slot booking.TimeSlot,
) (*resource.Resource, booking.ResourceSpec, int, error) {
	res, err := b.store.GetResource(ctx, params.ResourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, booking.ResourceSpec{}, 0, ErrResourceNotFound
		}
		return nil, booking.ResourceSpec{}, 0, errs.Mark(err, ErrStorageFailure)
	}

	if !res.AvailableUntil(slot.End()) {
		return nil, booking.ResourceSpec{}, 0, ErrResourceUnavailable
	}

	quantity := 1
	if params.Quantity != nil {
		quantity = *params.Quantity
	}
	if res.Kind() == resource.KindExclusive {
		// A room is booked whole; the stored capacity counts people, not slots.
		quantity = 1
	}
	if quantity < 1 || quantity > res.CapacityUnits() {
		return nil, booking.ResourceSpec{}, 0, ErrInvalidQuantity
	}

	spec := booking.ResourceSpec{
		ID:                res.ID(),
		Exclusive:         res.Kind() == resource.KindExclusive,
		EffectiveCapacity: res.EffectiveCapacity(),
	}
	return res, spec, quantity, nil
}

// reject builds the structured rejection for an infeasible preemption:
// alternatives from the bounded forward scan, blocking scores from the
// conflict candidates, and the taxonomy sentinel depending on whether the
// requester out-scored any blocker at all.
func (b *bookingCommandsImpl) reject(
	ctx context.Context,
	params CreateBookingParams,
	requesterID uuid.UUID,
	spec booking.ResourceSpec,
	slot booking.TimeSlot,
	quantity, score int,
	report booking.ConflictReport,
) error {
	rejection := &ConflictRejection{}
	outscoresAny := false
	for _, candidate := range report.Candidates {
		rejection.BlockingScores = append(rejection.BlockingScores, candidate.Score())
		if candidate.Score() < score {
			outscoresAny = true
		}
	}

	horizon, err := b.store.ListApproved(ctx, spec.ID, booking.ScanHorizon(slot))
	if err != nil {
		b.logger.Warn("alternative slot scan skipped", "error", err.Error())
	} else {
		rejection.Alternatives = booking.FindAlternativeSlots(spec, slot, quantity, horizon)
	}

	b.recordAudit(ctx, AuditEvent{
		Kind:       AuditBookingRejected,
		ResourceID: spec.ID,
		ActorID:    requesterID,
		Detail: map[string]any{
			"slot":            slot.String(),
			"score":           score,
			"blocking_scores": rejection.BlockingScores,
		},
	})

	if !outscoresAny {
		return errs.Mark(rejection, ErrCapacityRejected)
	}
	return errs.Mark(rejection, ErrProtectedConflict)
}

func (b *bookingCommandsImpl) recordOutcome(
	ctx context.Context,
	newID, requesterID uuid.UUID,
	res *resource.Resource,
	victims []*booking.Reservation,
) {
	b.recordAudit(ctx, AuditEvent{
		Kind:          AuditBookingCreated,
		ReservationID: &newID,
		ResourceID:    res.ID(),
		ActorID:       requesterID,
		Detail:        map[string]any{"preempted": len(victims)},
	})

	for _, victim := range victims {
		victimID := victim.ID()
		b.recordAudit(ctx, AuditEvent{
			Kind:          AuditVictimPreempted,
			ReservationID: &victimID,
			ResourceID:    res.ID(),
			ActorID:       requesterID,
			Detail:        map[string]any{"displaced_by": newID.String()},
		})

		subject := "Your reservation was displaced"
		body := fmt.Sprintf("Your reservation of %s (%s) was cancelled: %s.",
			res.Name(), victim.Slot().String(), booking.ReasonPreempted)
		if err := b.notifier.Notify(ctx, victim.RequesterID(), subject, body); err != nil {
			b.logger.Warn("victim notification failed",
				"reservation_id", victim.ID().String(),
				"error", err.Error())
		}
	}
}

func (b *bookingCommandsImpl) recordAudit(ctx context.Context, event AuditEvent) {
	if err := b.audit.Record(ctx, event); err != nil {
		b.logger.Warn("audit record failed", "kind", event.Kind, "error", err.Error())
	}
}
