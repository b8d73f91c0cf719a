package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimeSlot = errors.New("start time must be before end time")
	ErrPastStartTime   = errors.New("start time cannot be in the past")
)

// TimeSlot is a half-open interval [start, end). A slot ending exactly when
// another begins does not overlap it.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: end}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

func (ts TimeSlot) Contains(t time.Time) bool {
	return !t.Before(ts.start) && t.Before(ts.end)
}

// Shift returns the same-duration slot starting at newStart.
func (ts TimeSlot) Shift(newStart time.Time) TimeSlot {
	return TimeSlot{start: newStart, end: newStart.Add(ts.Duration())}
}

func (ts TimeSlot) ValidateFuture(now time.Time) error {
	if ts.start.Before(now) {
		return ErrPastStartTime
	}
	return nil
}

func (ts TimeSlot) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}

func (ts TimeSlot) String() string {
	return fmt.Sprintf("%s - %s", ts.start.Format("2006-01-02 15:04"), ts.end.Format("15:04 MST"))
}
