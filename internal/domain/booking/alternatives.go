package booking

import "time"

const (
	// altSlotStep is the probe interval of the forward scan.
	altSlotStep = time.Hour
	// altSlotMaxProbes bounds the scan to roughly two days of hourly probes.
	altSlotMaxProbes = 48
	// altSlotMaxResults caps how many suggestions are returned.
	altSlotMaxResults = 3

	altSlotTimeFormat = "2006-01-02 15:04 MST"
)

// FindAlternativeSlots scans forward from the rejected request's end time,
// rounded up to the next hour boundary, probing hourly for same-duration,
// same-quantity slots that fit on pure capacity grounds (no scoring, no
// preemption). The approved set must cover the whole scan horizon: the
// requested end plus 48 hours plus the request duration.
//
// An empty result is not an error; it just means no suggestions.
func FindAlternativeSlots(spec ResourceSpec, requested TimeSlot, quantity int, approved []*Reservation) []string {
	start := requested.End().Truncate(time.Hour)
	if start.Before(requested.End()) {
		start = start.Add(time.Hour)
	}

	var slots []string
	for probe := 0; probe < altSlotMaxProbes && len(slots) < altSlotMaxResults; probe++ {
		candidate := requested.Shift(start.Add(time.Duration(probe) * altSlotStep))
		if Fits(spec, candidate, quantity, approved) {
			slots = append(slots, candidate.Start().Format(altSlotTimeFormat))
		}
	}
	return slots
}

// ScanHorizon is the window of approved reservations the alternative scan
// needs for a given rejected request.
func ScanHorizon(requested TimeSlot) TimeSlot {
	end := requested.End().Add(altSlotMaxProbes*altSlotStep + requested.Duration() + time.Hour)
	return TimeSlot{start: requested.Start(), end: end}
}
