package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID                 uuid.UUID `json:"id"`
	ResourceID         uuid.UUID `json:"resource_id"`
	ResourceName       string    `json:"resource_name"`
	RequesterID        uuid.UUID `json:"requester_id"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	Status             string    `json:"status"`
	Urgency            string    `json:"urgency"`
	Quantity           int32     `json:"quantity"`
	Score              int32     `json:"score"`
	Title              string    `json:"title"`
	CancellationReason *string   `json:"cancellation_reason,omitempty"`
	Version            int64     `json:"version"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	Urgency      string    `json:"urgency"`
	Quantity     int32     `json:"quantity"`
	Score        int32     `json:"score"`
	CreatedAt    time.Time `json:"created_at"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*BookingListItem, error)
	ListByResource(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]*BookingListItem, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]*BookingListItem, error)
	FindByResourceID(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	return q.store.FindByID(ctx, id)
}

func (q *bookingQueriesImpl) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*BookingListItem, error) {
	return q.store.FindByRequesterID(ctx, requesterID)
}

func (q *bookingQueriesImpl) ListByResource(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]*BookingListItem, error) {
	return q.store.FindByResourceID(ctx, resourceID, from, to)
}
