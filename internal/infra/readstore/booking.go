package readstore

import (
	"context"
	"errors"
	"time"

	"booking-engine/internal/infra"
	"booking-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const findBookingByIDQuery = `
SELECT r.id, r.resource_id, rs.name, r.requester_id, r.start_time, r.end_time,
       r.status, r.urgency, r.quantity, r.score, r.title, r.cancellation_reason,
       r.version, r.created_at, r.updated_at
FROM reservations r
JOIN resources rs ON rs.id = r.resource_id
WHERE r.id = $1`

const findBookingsByRequesterQuery = `
SELECT r.id, r.resource_id, rs.name, r.start_time, r.end_time,
       r.status, r.urgency, r.quantity, r.score, r.created_at
FROM reservations r
JOIN resources rs ON rs.id = r.resource_id
WHERE r.requester_id = $1
ORDER BY r.start_time DESC
LIMIT 200`

const findBookingsByResourceQuery = `
SELECT r.id, r.resource_id, rs.name, r.start_time, r.end_time,
       r.status, r.urgency, r.quantity, r.score, r.created_at
FROM reservations r
JOIN resources rs ON rs.id = r.resource_id
WHERE r.resource_id = $1
  AND r.start_time < $3
  AND r.end_time > $2
ORDER BY r.start_time`

type BookingReadStore struct {
	pool *pgxpool.Pool
}

func NewBookingReadStore(pool *pgxpool.Pool) *BookingReadStore {
	return &BookingReadStore{pool: pool}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var view queries.BookingView
	err := r.pool.QueryRow(ctx, findBookingByIDQuery, id).Scan(
		&view.ID,
		&view.ResourceID,
		&view.ResourceName,
		&view.RequesterID,
		&view.StartTime,
		&view.EndTime,
		&view.Status,
		&view.Urgency,
		&view.Quantity,
		&view.Score,
		&view.Title,
		&view.CancellationReason,
		&view.Version,
		&view.CreatedAt,
		&view.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	return &view, nil
}

func (r *BookingReadStore) FindByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := r.pool.Query(ctx, findBookingsByRequesterQuery, requesterID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by requester", err)
	}
	defer rows.Close()

	return scanListItems(rows)
}

func (r *BookingReadStore) FindByResourceID(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]*queries.BookingListItem, error) {
	rows, err := r.pool.Query(ctx, findBookingsByResourceQuery, resourceID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by resource", err)
	}
	defer rows.Close()

	return scanListItems(rows)
}

func scanListItems(rows pgx.Rows) ([]*queries.BookingListItem, error) {
	var items []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(
			&item.ID,
			&item.ResourceID,
			&item.ResourceName,
			&item.StartTime,
			&item.EndTime,
			&item.Status,
			&item.Urgency,
			&item.Quantity,
			&item.Score,
			&item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking rows", err)
	}

	return items, nil
}
