package booking

import (
	"sort"
	"time"
)

// PreemptionPlan is a complete victim selection: cancelling every victim frees
// at least the required number of units.
type PreemptionPlan struct {
	Victims    []*Reservation
	FreedUnits int
}

// PlanPreemption selects victims from the conflict candidates, weakest score
// first (ties broken by earliest creation for determinism). A candidate is
// skipped when it is inside its freeze window or when its score is greater
// than or equal to newScore: equal scores never lose their slot.
//
// Returns (plan, true) once enough units are freed, or (zero, false) when the
// candidates are exhausted first, meaning at least one blocking reservation
// is protected or out-scores the requester.
func PlanPreemption(spec ResourceSpec, candidates []*Reservation, requiredFreed, newScore int, now time.Time) (PreemptionPlan, bool) {
	ordered := make([]*Reservation, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score() != ordered[j].Score() {
			return ordered[i].Score() < ordered[j].Score()
		}
		return ordered[i].CreatedAt().Before(ordered[j].CreatedAt())
	})

	var plan PreemptionPlan
	for _, candidate := range ordered {
		if candidate.Score() >= newScore {
			continue
		}
		if IsProtected(candidate.Slot().Start(), now) {
			continue
		}

		plan.Victims = append(plan.Victims, candidate)
		if spec.Exclusive {
			plan.FreedUnits += spec.EffectiveCapacity
		} else {
			plan.FreedUnits += candidate.Quantity()
		}

		if plan.FreedUnits >= requiredFreed {
			return plan, true
		}
	}

	return PreemptionPlan{}, false
}
