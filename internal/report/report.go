package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/drivelog/incident-analyzer/internal/rules"
	"github.com/drivelog/incident-analyzer/internal/scenario"
)

// #region types

// ViolationEntry is one violation as it appears in a report.
type ViolationEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"`
	Details string `json:"details"`
}

// Report summarizes one analysis run.
type Report struct {
	Scenario        string           `json:"scenario"`
	RunID           string           `json:"run_id,omitempty"`
	GeneratedAt     string           `json:"generated_at"`
	Violations      []ViolationEntry `json:"violations"`
	TotalViolations int              `json:"total_violations"`
	Counts          map[string]int   `json:"counts_by_type"`
}

// #endregion types

// #region build

// Build assembles a report from a scenario and the detector's output. runID
// may be empty when the run was not persisted.
func Build(sc *scenario.Scenario, runID string, violations []rules.Violation) *Report {
	name := sc.Name
	if name == "" {
		name = "Unnamed"
	}

	entries := make([]ViolationEntry, len(violations))
	counts := map[string]int{}
	for i, v := range violations {
		entries[i] = ViolationEntry{
			Time:    v.Tstamp,
			Type:    string(v.Type),
			Details: v.Details,
		}
		counts[string(v.Type)]++
	}

	return &Report{
		Scenario:        name,
		RunID:           runID,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		Violations:      entries,
		TotalViolations: len(entries),
		Counts:          counts,
	}
}

// #endregion build

// #region write-json

// WriteJSON writes the report as indented JSON to path.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// #endregion write-json

// #region render-table

// RenderTable prints the report as a fixed-width table.
func (r *Report) RenderTable(w io.Writer) {
	fmt.Fprintf(w, "Scenario: %s\n", r.Scenario)
	if r.RunID != "" {
		fmt.Fprintf(w, "Run:      %s\n", r.RunID)
	}

	if r.TotalViolations == 0 {
		fmt.Fprintln(w, "\nNo violations detected.")
		return
	}

	fmt.Fprintf(w, "\n%-8s| %-20s| %s\n", "Time", "Type", "Details")
	fmt.Fprintf(w, "%-8s+%-21s+%s\n", "--------", "---------------------", "-----------------------------")
	for _, v := range r.Violations {
		fmt.Fprintf(w, "%-8s| %-20s| %s\n", v.Time, v.Type, v.Details)
	}

	fmt.Fprintf(w, "\nTotal: %d violation(s)\n", r.TotalViolations)
	order := []string{"SPEEDING", "TAILGATING", "ROLLING_STOP", "UNSAFE_LANE_CHANGE"}
	for _, typ := range order {
		if n, ok := r.Counts[typ]; ok {
			fmt.Fprintf(w, "  %-20s %d\n", typ, n)
		}
	}
}

// #endregion render-table
