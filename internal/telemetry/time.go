package telemetry

import (
	"fmt"
	"strconv"
	"strings"
)

// #region parse-time
// ParseTime converts a timestamp like "M:SS" or "M:SS.s" into seconds.
// "0:05" -> 5.0, "1:02.5" -> 62.5.
func ParseTime(ts string) (float64, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format %q", ts)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time format %q", ts)
	}
	seconds, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time format %q", ts)
	}
	if minutes < 0 || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("time values out of range in %q", ts)
	}
	return float64(minutes)*60 + seconds, nil
}

// #endregion parse-time

// #region format-time
// FormatTime renders elapsed seconds as MM:SS.s with zero-padded minutes and
// one decimal on the seconds. 62.5 -> "01:02.5".
func FormatTime(t float64) string {
	m := int(t / 60)
	s := t - float64(m)*60
	return fmt.Sprintf("%02d:%04.1f", m, s)
}

// #endregion format-time
