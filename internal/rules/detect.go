package rules

import (
	"errors"
	"fmt"

	"github.com/drivelog/incident-analyzer/internal/scenario"
	"github.com/drivelog/incident-analyzer/internal/telemetry"
)

// epsilon guards float comparisons so a reading exactly at its threshold is
// never a violation.
const epsilon = 1e-9

// #region errors

// ErrOutOfOrder reports a timestamp that decreased mid-stream. The detector
// depends on chronological order for the stop-wait and follow-distance state,
// so this fails the whole pass rather than producing order-dependent garbage.
var ErrOutOfOrder = errors.New("events out of chronological order")

// ErrUnknownKind reports an event kind the detector has no rule arm for.
// The loader rejects these before they reach us; seeing one is an
// integration error.
var ErrUnknownKind = errors.New("unknown event kind")

// #endregion errors

// #region rolling-state

// rollingState is the detector's per-pass mutable state. It lives only for
// the duration of one Detect invocation.
type rollingState struct {
	lastFollow    float64
	hasFollow     bool
	stopWaitStart float64
	stopWaitOpen  bool
	mile          float64
	hasMile       bool
}

// #endregion rolling-state

// #region detect

// Detect walks the event stream once and returns every rule breach in
// chronological order. It is a pure function: identical inputs yield
// identical output, and the result is all-or-nothing — a precondition
// failure returns nil violations.
//
// When a single event triggers more than one check, the speed-related check
// is evaluated before the follow-distance-related one, so output order is
// reproducible.
func Detect(events []telemetry.Event, sc *scenario.Scenario) ([]Violation, error) {
	rr := sc.RoadRules
	var st rollingState
	violations := []Violation{}
	prev := 0.0

	for i, ev := range events {
		if i > 0 && ev.Time < prev {
			return nil, fmt.Errorf("%w: %s after %s",
				ErrOutOfOrder, telemetry.FormatTime(ev.Time), telemetry.FormatTime(prev))
		}
		prev = ev.Time

		switch ev.Kind {
		case telemetry.KindSpeed:
			limit := rr.MaxSpeed
			if st.hasMile {
				limit = sc.LimitAt(st.mile)
			}
			if ev.Value > limit+epsilon {
				violations = append(violations, newViolation(ev.Time, Speeding,
					fmt.Sprintf("%.1f mph in %.0f mph zone", ev.Value, limit)))
			}

		case telemetry.KindFollowDistance:
			st.lastFollow = ev.Value
			st.hasFollow = true
			if ev.Value < rr.MinFollowDistance-epsilon {
				violations = append(violations, newViolation(ev.Time, Tailgating,
					fmt.Sprintf("%.1f m < %.1f m", ev.Value, rr.MinFollowDistance)))
			}

		case telemetry.KindStopSignDetected:
			// A second detection before the clear overwrites the open wait.
			st.stopWaitStart = ev.Time
			st.stopWaitOpen = true

		case telemetry.KindStopSignClear:
			if st.stopWaitOpen {
				waited := ev.Time - st.stopWaitStart
				if waited < rr.StopSignWait-epsilon {
					violations = append(violations, newViolation(ev.Time, RollingStop,
						fmt.Sprintf("Stopped %.1fs; required %.1fs", waited, rr.StopSignWait)))
				}
				st.stopWaitOpen = false
			}
			// A clear with no open wait is a no-op, not an error.

		case telemetry.KindLaneChange:
			if st.hasFollow && st.lastFollow < rr.MinFollowDistance-epsilon {
				violations = append(violations, newViolation(ev.Time, UnsafeLaneChange,
					fmt.Sprintf("%s with follow %.1f m < %.1f m",
						ev.Direction, st.lastFollow, rr.MinFollowDistance)))
			}

		case telemetry.KindOdometer:
			st.mile = ev.Value
			st.hasMile = true

		default:
			return nil, fmt.Errorf("%w: %q at %s",
				ErrUnknownKind, ev.Kind, telemetry.FormatTime(ev.Time))
		}
	}

	return violations, nil
}

func newViolation(t float64, typ ViolationType, details string) Violation {
	return Violation{
		Time:    t,
		Tstamp:  telemetry.FormatTime(t),
		Type:    typ,
		Details: details,
	}
}

// #endregion detect
