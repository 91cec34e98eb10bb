package telemetry

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// #region read-log
// ReadLog parses an event log file into ordered events.
//
// Each line has the format `MM:SS.s EVENT_TYPE [ARGUMENT]`. Blank lines and
// lines starting with '#' are skipped. The loader owns all input validation:
// unknown event types, malformed timestamps, and out-of-range payloads are
// rejected here with the offending line number, so the detector can trust
// every event it receives.
func ReadLog(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ev, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("log %s line %d: %w", path, lineNum, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}
	return events, nil
}

// #endregion read-log

// #region parse-line

func parseLine(line string) (Event, error) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return Event{}, fmt.Errorf("expected TIMESTAMP EVENT_TYPE [ARGUMENT], got %q", line)
	}

	t, err := ParseTime(parts[0])
	if err != nil {
		return Event{}, err
	}

	kind := EventKind(parts[1])
	if !kind.Known() {
		return Event{}, fmt.Errorf("unknown event type %q", parts[1])
	}

	ev := Event{Time: t, Kind: kind}
	switch kind {
	case KindSpeed, KindFollowDistance, KindOdometer:
		if len(parts) != 3 {
			return Event{}, fmt.Errorf("%s requires a numeric argument", kind)
		}
		v, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return Event{}, fmt.Errorf("invalid numeric value %q for %s", parts[2], kind)
		}
		if v < 0 {
			return Event{}, fmt.Errorf("negative value %q for %s", parts[2], kind)
		}
		ev.Value = v
	case KindLaneChange:
		if len(parts) != 3 || (parts[2] != string(DirectionLeft) && parts[2] != string(DirectionRight)) {
			return Event{}, fmt.Errorf("%s requires LEFT or RIGHT", kind)
		}
		ev.Direction = Direction(parts[2])
	default:
		// Stop-sign markers take no argument.
		if len(parts) != 2 {
			return Event{}, fmt.Errorf("%s takes no arguments", kind)
		}
	}
	return ev, nil
}

// #endregion parse-line
