package telemetry

// #region event-kind
// EventKind enumerates the telemetry event types a log may contain.
type EventKind string

const (
	KindSpeed            EventKind = "SPEED"
	KindFollowDistance   EventKind = "FOLLOW_DISTANCE"
	KindLaneChange       EventKind = "LANE_CHANGE"
	KindStopSignDetected EventKind = "STOP_SIGN_DETECTED"
	KindStopSignClear    EventKind = "STOP_SIGN_CLEAR"
	KindOdometer         EventKind = "ODOMETER"
)

// Known reports whether k is part of the event vocabulary.
func (k EventKind) Known() bool {
	switch k {
	case KindSpeed, KindFollowDistance, KindLaneChange,
		KindStopSignDetected, KindStopSignClear, KindOdometer:
		return true
	}
	return false
}

// #endregion event-kind

// #region direction
// Direction is the lane-change direction argument.
type Direction string

const (
	DirectionLeft  Direction = "LEFT"
	DirectionRight Direction = "RIGHT"
)

// #endregion direction

// #region event
// Event is one observed telemetry point.
//
// Time is the elapsed offset since scenario start, in seconds. Value carries
// the numeric payload for SPEED (mph), FOLLOW_DISTANCE (meters), and ODOMETER
// (miles); Direction carries the LANE_CHANGE argument. The unused field is
// zero-valued for kinds that do not need it.
type Event struct {
	Time      float64
	Kind      EventKind
	Value     float64
	Direction Direction
}

// #endregion event
