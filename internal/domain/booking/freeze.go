package booking

import "time"

const (
	sameDayFreezeWindow  = time.Hour
	crossDayFreezeWindow = 24 * time.Hour
)

// IsProtected reports whether a reservation starting at start sits inside its
// freeze window at now. Reservations starting on the same calendar day as now
// are frozen within one hour of their start; reservations on a later day are
// frozen within 24 hours. A protected reservation can never be preempted, no
// matter how the scores compare.
//
// Calendar-day comparison happens in now's location.
func IsProtected(start, now time.Time) bool {
	until := start.Sub(now)
	if until < 0 {
		// Already started; outside the planner's reach either way.
		return true
	}

	if sameCalendarDay(start.In(now.Location()), now) {
		return until < sameDayFreezeWindow
	}
	return until < crossDayFreezeWindow
}

func sameCalendarDay(a, b time.Time) bool {
	ay, ad := a.Year(), a.YearDay()
	by, bd := b.Year(), b.YearDay()
	return ay == by && ad == bd
}
