package replay

import (
	"fmt"

	"github.com/drivelog/incident-analyzer/internal/rules"
	"github.com/drivelog/incident-analyzer/internal/telemetry"
)

// #region types

// RowResult compares one expected violation against what the detector
// actually produced at the same position.
type RowResult struct {
	Expected string
	Got      string
	Match    bool
}

// Summary aggregates a replay comparison.
type Summary struct {
	Total    int
	Matches  int
	Diverged int
}

// #endregion types

// #region run

// Run re-executes the detector over the fixture's event stream.
func Run(f *Fixture) ([]rules.Violation, error) {
	events := make([]telemetry.Event, len(f.Events))
	for i := range f.Events {
		ev, err := f.Events[i].ToEvent()
		if err != nil {
			return nil, fmt.Errorf("fixture event %d: %w", i, err)
		}
		events[i] = ev
	}
	violations, err := rules.Detect(events, &f.Scenario)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	return violations, nil
}

// #endregion run

// #region compare

// Compare pairs detected violations with the expected list positionally.
// A row matches when both type and timestamp agree; length mismatches show
// up as diverged rows with a "—" on the missing side.
func Compare(got []rules.Violation, expected []ExpectedViolation) ([]RowResult, Summary) {
	n := len(got)
	if len(expected) > n {
		n = len(expected)
	}

	results := make([]RowResult, n)
	sum := Summary{Total: n}
	for i := 0; i < n; i++ {
		row := RowResult{Expected: "—", Got: "—"}
		if i < len(expected) {
			row.Expected = fmt.Sprintf("%s @ %s", expected[i].Type, expected[i].Time)
		}
		if i < len(got) {
			row.Got = fmt.Sprintf("%s @ %s", got[i].Type, got[i].Tstamp)
		}
		if i < len(expected) && i < len(got) &&
			expected[i].Type == string(got[i].Type) && expected[i].Time == got[i].Tstamp {
			row.Match = true
			sum.Matches++
		}
		results[i] = row
	}
	sum.Diverged = sum.Total - sum.Matches
	return results, sum
}

// #endregion compare
