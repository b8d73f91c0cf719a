package booking

import "booking-engine/internal/domain/user"

// PriorityWeights is a per-transaction snapshot of the configured scoring
// weights. Mutating the source configuration never affects a snapshot already
// handed to a transaction.
type PriorityWeights struct {
	RoleWeights    map[user.Role]int
	UrgencyWeights map[Urgency]int
}

// Score totals the role and urgency weights for a request. It is pure and
// total: an unknown role or urgency falls back to the lowest configured tier
// rather than erroring, so callers must validate enums upstream.
func Score(role user.Role, urgency Urgency, weights PriorityWeights) int {
	roleWeight, ok := weights.RoleWeights[role]
	if !ok {
		roleWeight = lowestWeight(weights.RoleWeights)
	}
	urgencyWeight, ok := weights.UrgencyWeights[urgency]
	if !ok {
		urgencyWeight = lowestWeight(weights.UrgencyWeights)
	}
	return roleWeight + urgencyWeight
}

func lowestWeight[K comparable](weights map[K]int) int {
	lowest := 0
	first := true
	for _, w := range weights {
		if first || w < lowest {
			lowest = w
			first = false
		}
	}
	return lowest
}

// DefaultPriorityWeights mirrors the seed configuration; the settings store
// overrides it at runtime.
func DefaultPriorityWeights() PriorityWeights {
	return PriorityWeights{
		RoleWeights: map[user.Role]int{
			user.RoleViewer:  0,
			user.RoleStaff:   10,
			user.RoleManager: 20,
			user.RoleAdmin:   30,
		},
		UrgencyWeights: map[Urgency]int{
			UrgencyLow:      0,
			UrgencyMedium:   10,
			UrgencyHigh:     20,
			UrgencyCritical: 30,
		},
	}
}
