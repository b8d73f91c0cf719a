package request

import (
	"strings"
	"time"

	"booking-engine/internal/usecase"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ResourceID  uuid.UUID `json:"resource_id" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Urgency     string    `json:"urgency" binding:"required,oneof=low medium high critical"`
	Quantity    *int      `json:"quantity,omitempty"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
}

func (r CreateBookingRequest) ToParams() usecase.CreateBookingParams {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = strings.TrimSpace(r.Description)
	}

	return usecase.CreateBookingParams{
		ResourceID: r.ResourceID,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Urgency:    r.Urgency,
		Quantity:   r.Quantity,
		Title:      title,
	}
}
