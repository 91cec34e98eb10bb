package rules

// #region violation-type
// ViolationType enumerates the rule-breach categories.
type ViolationType string

const (
	Speeding         ViolationType = "SPEEDING"
	Tailgating       ViolationType = "TAILGATING"
	RollingStop      ViolationType = "ROLLING_STOP"
	UnsafeLaneChange ViolationType = "UNSAFE_LANE_CHANGE"
)

// #endregion violation-type

// #region violation
// Violation is one detected breach, tied to its triggering event. Immutable
// once created; ownership passes entirely to the caller. Time is the elapsed
// offset in seconds; Tstamp is the same instant rendered as MM:SS.s.
type Violation struct {
	Time    float64
	Tstamp  string
	Type    ViolationType
	Details string
}

// #endregion violation
