package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseTime(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"0:00.0", 0.0},
		{"0:05", 5.0},
		{"1:02.5", 62.5},
		{"0:59.9", 59.9},
		{"5:00.1", 300.1},
	}
	for _, tc := range cases {
		got, err := ParseTime(tc.in)
		if err != nil {
			t.Fatalf("ParseTime(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTime(%q) = %g, want %g", tc.in, got, tc.want)
		}
	}
}

func TestParseTimeInvalid(t *testing.T) {
	for _, in := range []string{"1:60.0", "-1:00.0", "0:-5.0", "12.5", "a:bc", "1:2:3"} {
		if _, err := ParseTime(in); err == nil {
			t.Fatalf("ParseTime(%q): expected error", in)
		}
	}
}

func TestFormatTime(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.0, "00:00.0"},
		{5.5, "00:05.5"},
		{62.5, "01:02.5"},
		{300.1, "05:00.1"},
	}
	for _, tc := range cases {
		if got := FormatTime(tc.in); got != tc.want {
			t.Fatalf("FormatTime(%g) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestReadLog(t *testing.T) {
	path := writeLog(t,
		"# warmup lap",
		"0:00.5 SPEED 32.5",
		"",
		"0:01.0 FOLLOW_DISTANCE 1.8",
		"0:02.5 LANE_CHANGE LEFT",
		"0:03.0 STOP_SIGN_DETECTED",
		"0:05.5 STOP_SIGN_CLEAR",
		"0:06.0 ODOMETER 1.2",
	)

	events, err := ReadLog(path)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(events) != 6 {
		t.Fatalf("expected 6 events, got %d", len(events))
	}
	if events[0].Kind != KindSpeed || events[0].Value != 32.5 || events[0].Time != 0.5 {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[2].Direction != DirectionLeft {
		t.Fatalf("expected LEFT, got %s", events[2].Direction)
	}
	if events[5].Kind != KindOdometer || events[5].Value != 1.2 {
		t.Fatalf("unexpected odometer event: %+v", events[5])
	}
}

func TestReadLogRejectsUnknownKind(t *testing.T) {
	path := writeLog(t, "0:00.5 TELEPORT 9000")
	_, err := ReadLog(path)
	if err == nil || !strings.Contains(err.Error(), "unknown event type") {
		t.Fatalf("expected unknown event type error, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Fatalf("error should carry the line number: %v", err)
	}
}

func TestReadLogRejectsBadArguments(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"speed missing arg", "0:00.5 SPEED"},
		{"speed non-numeric", "0:00.5 SPEED fast"},
		{"speed negative", "0:00.5 SPEED -10"},
		{"follow negative", "0:00.5 FOLLOW_DISTANCE -1.0"},
		{"lane bad direction", "0:00.5 LANE_CHANGE UP"},
		{"lane missing direction", "0:00.5 LANE_CHANGE"},
		{"stop sign extra arg", "0:00.5 STOP_SIGN_DETECTED 3"},
		{"bad timestamp", "0:75.0 SPEED 10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeLog(t, tc.line)
			if _, err := ReadLog(path); err == nil {
				t.Fatalf("expected error for %q", tc.line)
			}
		})
	}
}

func TestReadLogMissingFile(t *testing.T) {
	if _, err := ReadLog(filepath.Join(t.TempDir(), "absent.log")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
