package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidUrgency   = errors.New("invalid urgency")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrAlreadyCancelled = errors.New("reservation is already cancelled")
)

// Reservation is the booking aggregate. Score is computed once at creation and
// never changes afterwards; version backs the optimistic concurrency check at
// the store boundary.
type Reservation struct {
	id                 uuid.UUID
	resourceID         uuid.UUID
	requesterID        uuid.UUID
	slot               TimeSlot
	status             Status
	urgency            Urgency
	quantity           int
	score              int
	title              string
	cancellationReason *string
	version            int64
	createdAt          time.Time
	updatedAt          time.Time
}

func NewReservation(
	resourceID, requesterID uuid.UUID,
	slot TimeSlot,
	urgency Urgency,
	quantity int,
	score int,
	title string,
	now time.Time,
) (*Reservation, error) {
	if !urgency.IsValid() {
		return nil, ErrInvalidUrgency
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if err := slot.ValidateFuture(now); err != nil {
		return nil, err
	}

	return &Reservation{
		id:          uuid.New(),
		resourceID:  resourceID,
		requesterID: requesterID,
		slot:        slot,
		status:      StatusApproved,
		urgency:     urgency,
		quantity:    quantity,
		score:       score,
		title:       title,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructReservation(
	id, resourceID, requesterID uuid.UUID,
	slot TimeSlot,
	status Status,
	urgency Urgency,
	quantity int,
	score int,
	title string,
	cancellationReason *string,
	version int64,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:                 id,
		resourceID:         resourceID,
		requesterID:        requesterID,
		slot:               slot,
		status:             status,
		urgency:            urgency,
		quantity:           quantity,
		score:              score,
		title:              title,
		cancellationReason: cancellationReason,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

func (r *Reservation) IsApproved() bool {
	return r.status == StatusApproved
}

func (r *Reservation) Cancel(reason string) error {
	if r.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	r.status = StatusCancelled
	r.cancellationReason = &reason
	return nil
}

func (r *Reservation) HasStarted(now time.Time) bool {
	return !now.Before(r.slot.Start())
}

func (r *Reservation) ID() uuid.UUID               { return r.id }
func (r *Reservation) ResourceID() uuid.UUID       { return r.resourceID }
func (r *Reservation) RequesterID() uuid.UUID      { return r.requesterID }
func (r *Reservation) Slot() TimeSlot              { return r.slot }
func (r *Reservation) Status() Status              { return r.status }
func (r *Reservation) Urgency() Urgency            { return r.urgency }
func (r *Reservation) Quantity() int               { return r.quantity }
func (r *Reservation) Score() int                  { return r.score }
func (r *Reservation) Title() string               { return r.title }
func (r *Reservation) CancellationReason() *string { return r.cancellationReason }
func (r *Reservation) Version() int64              { return r.version }
func (r *Reservation) CreatedAt() time.Time        { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time        { return r.updatedAt }
