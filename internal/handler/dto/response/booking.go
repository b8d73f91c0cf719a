package response

import (
	"time"

	"booking-engine/internal/usecase"
	"booking-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingCreatedResponse struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Score         int       `json:"score"`
	Preempted     int       `json:"preempted"`
}

func FromCreateResult(result *usecase.CreateBookingResult) *BookingCreatedResponse {
	return &BookingCreatedResponse{
		ReservationID: result.ReservationID,
		Score:         result.Score,
		Preempted:     result.Preempted,
	}
}

type BookingResponse struct {
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
	Title              string    `json:"title,omitempty"`
	CancellationReason *string   `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:                 view.ID,
		ResourceID:         view.ResourceID,
		ResourceName:       view.ResourceName,
		RequesterID:        view.RequesterID,
		StartTime:          view.StartTime,
		EndTime:            view.EndTime,
		Status:             view.Status,
		Urgency:            view.Urgency,
		Quantity:           view.Quantity,
		Score:              view.Score,
		Title:              view.Title,
		CancellationReason: view.CancellationReason,
		CreatedAt:          view.CreatedAt,
		UpdatedAt:          view.UpdatedAt,
	}
}

type BookingListResponse struct {
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

func FromBookingListItem(item *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:           item.ID,
		ResourceID:   item.ResourceID,
		ResourceName: item.ResourceName,
		StartTime:    item.StartTime,
		EndTime:      item.EndTime,
		Status:       item.Status,
		Urgency:      item.Urgency,
		Quantity:     item.Quantity,
		Score:        item.Score,
		CreatedAt:    item.CreatedAt,
	}
}

// ConflictDetail is attached to 409 responses so callers can see what blocked
// the request and which alternative start times are still open.
type ConflictDetail struct {
	Kind           string   `json:"kind"`
	BlockingScores []int    `json:"blocking_scores,omitempty"`
	Alternatives   []string `json:"alternatives,omitempty"`
}
