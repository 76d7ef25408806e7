package modules

// AttendancePolicy enforces the per-day visit cap.
type AttendancePolicy struct {
	MaxPerDay int
}

func NewAttendancePolicy(maxPerDay int) *AttendancePolicy {
	return &AttendancePolicy{MaxPerDay: maxPerDay}
}

// AttendanceDecision is a pure policy outcome; CapExceeded is a legitimate
// result, not a failure.
type AttendanceDecision struct {
	Allowed    bool
	CountToday int
}

// Decide allows a new visit while today's count stays below the cap. The
// count query and the record insert are separate store calls, so callers
// must persist through the store's conditional insert rather than relying on
// this check alone; a caller issuing several decisions in one session must
// treat count+1 as the next input after a recorded visit.
func (p *AttendancePolicy) Decide(todaysCount int) AttendanceDecision {
	return AttendanceDecision{
		Allowed:    todaysCount < p.MaxPerDay,
		CountToday: todaysCount,
	}
}
