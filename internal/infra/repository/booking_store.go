package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/resource"
	"booking-engine/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listApprovedQuery = `
SELECT id, resource_id, requester_id, start_time, end_time, status, urgency,
       quantity, score, title, cancellation_reason, version, created_at, updated_at
FROM reservations
WHERE resource_id = $1
  AND status = 'approved'
  AND start_time < $3
  AND end_time > $2
ORDER BY start_time`

const getResourceQuery = `
SELECT id, name, kind, capacity_units, active, delete_after, created_at, updated_at
FROM resources
WHERE id = $1`

const cancelVictimQuery = `
UPDATE reservations
SET status = 'cancelled', cancellation_reason = $3, version = version + 1, updated_at = now()
WHERE id = $1 AND version = $2 AND status = 'approved'`

const insertReservationQuery = `
INSERT INTO reservations
    (id, resource_id, requester_id, start_time, end_time, status, urgency,
     quantity, score, title, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
RETURNING id`

// BookingStore is the write-side store for booking transactions. Commit is
// the single atomic operation: victims cancelled, the new reservation
// inserted, all inside one serializable transaction holding a per-resource
// advisory lock, with conflict state re-validated inside that boundary.
type BookingStore struct {
	pool *pgxpool.Pool
}

func NewBookingStore(pool *pgxpool.Pool) *BookingStore {
	return &BookingStore{pool: pool}
}

func (s *BookingStore) GetResource(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	return scanResource(s.pool.QueryRow(ctx, getResourceQuery, id))
}

func (s *BookingStore) ListApproved(ctx context.Context, resourceID uuid.UUID, window booking.TimeSlot) ([]*booking.Reservation, error) {
	return listApproved(ctx, s.pool, resourceID, window)
}

func (s *BookingStore) Commit(ctx context.Context, res *booking.Reservation, victims []*booking.Reservation) (uuid.UUID, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to begin commit transaction", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback booking commit", "error", rollbackErr.Error())
		}
	}()

	// Per-resource single-writer critical section; released on tx end.
	if _, err := tx.Exec(ctx,
		"SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))",
		res.ResourceID().String()); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to take resource lock", err)
	}

	for _, victim := range victims {
		tag, execErr := tx.Exec(ctx, cancelVictimQuery, victim.ID(), victim.Version(), booking.ReasonPreempted)
		if execErr != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to cancel victim reservation", execErr)
		}
		if tag.RowsAffected() != 1 {
			// Changed or already cancelled by a concurrent transaction.
			return uuid.Nil, infra.WrapRepoErr("victim reservation version mismatch", nil, infra.KindStaleState)
		}
	}

	if err := s.revalidate(ctx, tx, res); err != nil {
		return uuid.Nil, err
	}

	var newID uuid.UUID
	if err := tx.QueryRow(ctx, insertReservationQuery,
		res.ID(),
		res.ResourceID(),
		res.RequesterID(),
		res.Slot().Start(),
		res.Slot().End(),
		res.Status().String(),
		res.Urgency().String(),
		res.Quantity(),
		res.Score(),
		res.Title(),
		res.Version(),
	).Scan(&newID); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to insert reservation", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to commit booking transaction", err)
	}

	return newID, nil
}

// revalidate re-runs the pure capacity check against the approved rows as
// they exist inside the commit boundary. The earlier read outside the
// boundary is advisory only; this one is authoritative.
func (s *BookingStore) revalidate(ctx context.Context, tx pgx.Tx, res *booking.Reservation) error {
	rsc, err := scanResource(tx.QueryRow(ctx, getResourceQuery, res.ResourceID()))
	if err != nil {
		return err
	}

	approved, err := listApproved(ctx, tx, res.ResourceID(), res.Slot())
	if err != nil {
		return err
	}

	spec := booking.ResourceSpec{
		ID:                rsc.ID(),
		Exclusive:         rsc.Kind() == resource.KindExclusive,
		EffectiveCapacity: rsc.EffectiveCapacity(),
	}
	if !booking.Fits(spec, res.Slot(), res.Quantity(), approved) {
		return infra.WrapRepoErr("capacity no longer available", nil, infra.KindConflict)
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func listApproved(ctx context.Context, q querier, resourceID uuid.UUID, window booking.TimeSlot) ([]*booking.Reservation, error) {
	rows, err := q.Query(ctx, listApprovedQuery, resourceID, window.Start(), window.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list approved reservations", err)
	}
	defer rows.Close()

	var reservations []*booking.Reservation
	for rows.Next() {
		res, scanErr := scanReservation(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation rows", err)
	}

	return reservations, nil
}

func scanReservation(row pgx.Row) (*booking.Reservation, error) {
	var (
		id, resourceID, requesterID uuid.UUID
		start, end                  time.Time
		status, urgency, title      string
		quantity, score             int32
		cancellationReason          *string
		version                     int64
		createdAt, updatedAt        time.Time
	)

	if err := row.Scan(&id, &resourceID, &requesterID, &start, &end, &status, &urgency,
		&quantity, &score, &title, &cancellationReason, &version, &createdAt, &updatedAt); err != nil {
		return nil, infra.WrapRepoErr("failed to scan reservation row", err)
	}

	slot, err := booking.NewTimeSlot(start, end)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation has invalid interval", err)
	}

	return booking.ReconstructReservation(
		id, resourceID, requesterID,
		slot,
		booking.Status(status),
		booking.Urgency(urgency),
		int(quantity),
		int(score),
		title,
		cancellationReason,
		version,
		createdAt, updatedAt,
	), nil
}

func scanResource(row pgx.Row) (*resource.Resource, error) {
	var (
		id                   uuid.UUID
		name, kind           string
		capacityUnits        int32
		active               bool
		deleteAfter          *time.Time
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(&id, &name, &kind, &capacityUnits, &active, &deleteAfter, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan resource row", err)
	}

	return resource.ReconstructResource(
		id, name, resource.Kind(kind), int(capacityUnits), active, deleteAfter, createdAt, updatedAt,
	), nil
}
