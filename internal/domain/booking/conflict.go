package booking

import (
	"sort"

	"github.com/google/uuid"
)

// ResourceSpec carries the conflict-relevant facts about a resource so the
// core never depends on how resources are stored.
type ResourceSpec struct {
	ID                uuid.UUID
	Exclusive         bool
	EffectiveCapacity int
}

// ConflictReport is the outcome of conflict detection for one request.
// RequiredFreed is the number of capacity units that must be released before
// the request fits; Candidates are the approved reservations eligible for
// preemption planning.
type ConflictReport struct {
	Conflicts     bool
	RequiredFreed int
	Candidates    []*Reservation
}

// DetectConflicts checks a requested slot and quantity against the approved
// reservations on a resource.
//
// Exclusive resources treat any time overlap as a full conflict: the single
// slot must be freed. Quantity resources run a sweep-line over interval
// endpoints, including the request itself, and conflict when the peak running
// sum exceeds the effective capacity.
func DetectConflicts(spec ResourceSpec, slot TimeSlot, quantity int, approved []*Reservation) ConflictReport {
	overlapping := overlappingReservations(slot, approved)

	if spec.Exclusive {
		if len(overlapping) == 0 {
			return ConflictReport{}
		}
		return ConflictReport{
			Conflicts:     true,
			RequiredFreed: 1,
			Candidates:    overlapping,
		}
	}

	peak := peakUsage(slot, quantity, overlapping)
	if peak <= spec.EffectiveCapacity {
		return ConflictReport{}
	}

	return ConflictReport{
		Conflicts:     true,
		RequiredFreed: peak - spec.EffectiveCapacity,
		Candidates:    overlapping,
	}
}

// Fits is the pure capacity-feasibility check used by the alternative-slot
// scan and by the commit-time re-validation. It ignores scores and preemption
// entirely.
func Fits(spec ResourceSpec, slot TimeSlot, quantity int, approved []*Reservation) bool {
	overlapping := overlappingReservations(slot, approved)
	if spec.Exclusive {
		return len(overlapping) == 0
	}
	return peakUsage(slot, quantity, overlapping) <= spec.EffectiveCapacity
}

func overlappingReservations(slot TimeSlot, approved []*Reservation) []*Reservation {
	var overlapping []*Reservation
	for _, res := range approved {
		if res.IsApproved() && res.Slot().Overlaps(slot) {
			overlapping = append(overlapping, res)
		}
	}
	return overlapping
}

type sweepEvent struct {
	at    int64 // UnixNano keeps the sort comparator cheap
	delta int
}

// peakUsage computes the maximum concurrent unit usage across the requested
// slot via a sweep-line over interval endpoints. Releases sort before
// acquisitions at equal timestamps so a reservation ending exactly when
// another begins is never double-counted.
func peakUsage(slot TimeSlot, quantity int, overlapping []*Reservation) int {
	events := make([]sweepEvent, 0, 2*len(overlapping)+2)
	events = append(events,
		sweepEvent{at: slot.Start().UnixNano(), delta: quantity},
		sweepEvent{at: slot.End().UnixNano(), delta: -quantity},
	)
	for _, res := range overlapping {
		events = append(events,
			sweepEvent{at: res.Slot().Start().UnixNano(), delta: res.Quantity()},
			sweepEvent{at: res.Slot().End().UnixNano(), delta: -res.Quantity()},
		)
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].delta < events[j].delta
	})

	running, peak := 0, 0
	for _, ev := range events {
		running += ev.delta
		if running > peak {
			peak = running
		}
	}
	return peak
}
