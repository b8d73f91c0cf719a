//go:build unit || e2e

package builder

import (
	"time"

	dombooking "booking-engine/internal/domain/booking"
	domresource "booking-engine/internal/domain/resource"
	reqdto "booking-engine/internal/handler/dto/request"
	"booking-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ResourceID   uuid.UUID
	ResourceName string
	RequesterID  uuid.UUID
	StartTime    time.Time
	EndTime      time.Time
	Urgency      dombooking.Urgency
	Quantity     int
	Score        int
	Title        string
	CreatedAt    time.Time
}

func NewBookingBuilder() *BookingBuilder {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ResourceID:   uuid.New(),
		ResourceName: "Conference Room A",
		RequesterID:  uuid.New(),
		StartTime:    base.Add(48 * time.Hour),
		EndTime:      base.Add(50 * time.Hour),
		Urgency:      dombooking.UrgencyMedium,
		Quantity:     1,
		Score:        20,
		Title:        "Quarterly planning",
		CreatedAt:    base,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) Slot() dombooking.TimeSlot {
	slot, err := dombooking.NewTimeSlot(b.StartTime, b.EndTime)
	if err != nil {
		panic(err)
	}
	return slot
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Reservation, error) {
	return dombooking.NewReservation(
		b.ResourceID, b.RequesterID, b.Slot(),
		b.Urgency, b.Quantity, b.Score, b.Title, b.CreatedAt,
	)
}

// BuildApproved reconstructs a persisted approved reservation the way the
// store would return it.
func (b *BookingBuilder) BuildApproved() *dombooking.Reservation {
	return dombooking.ReconstructReservation(
		uuid.New(), b.ResourceID, b.RequesterID, b.Slot(),
		dombooking.StatusApproved, b.Urgency, b.Quantity, b.Score, b.Title,
		nil, 1, b.CreatedAt, b.CreatedAt,
	)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	quantity := b.Quantity
	return reqdto.CreateBookingRequest{
		ResourceID: b.ResourceID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Urgency:    string(b.Urgency),
		Quantity:   &quantity,
		Title:      b.Title,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:           uuid.New(),
		ResourceID:   b.ResourceID,
		ResourceName: b.ResourceName,
		RequesterID:  b.RequesterID,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Status:       string(dombooking.StatusApproved),
		Urgency:      string(b.Urgency),
		Quantity:     int32(b.Quantity),
		Score:        int32(b.Score),
		Title:        b.Title,
		Version:      1,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:           uuid.New(),
		ResourceID:   b.ResourceID,
		ResourceName: b.ResourceName,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Status:       string(dombooking.StatusApproved),
		Urgency:      string(b.Urgency),
		Quantity:     int32(b.Quantity),
		Score:        int32(b.Score),
		CreatedAt:    b.CreatedAt,
	}
}

type ResourceBuilder struct {
	ID            uuid.UUID
	Name          string
	Kind          domresource.Kind
	CapacityUnits int
	Active        bool
	DeleteAfter   *time.Time
}

func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		ID:            uuid.New(),
		Name:          "Conference Room A",
		Kind:          domresource.KindExclusive,
		CapacityUnits: 1,
		Active:        true,
	}
}

func (r *ResourceBuilder) With(mutate func(*ResourceBuilder)) *ResourceBuilder {
	mutate(r)
	return r
}

func (r *ResourceBuilder) BuildDomain() *domresource.Resource {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return domresource.ReconstructResource(
		r.ID, r.Name, r.Kind, r.CapacityUnits, r.Active, r.DeleteAfter, now, now,
	)
}
