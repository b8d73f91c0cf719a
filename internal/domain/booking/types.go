package booking

type Status string

const (
	StatusApproved  Status = "approved"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusApproved, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

func (u Urgency) String() string {
	return string(u)
}

func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	default:
		return false
	}
}

// ReasonPreempted is stamped on reservations cancelled to make room for a
// higher-priority booking.
const ReasonPreempted = "displaced by higher-priority booking"
