package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/drivelog/incident-analyzer/internal/scenario"
	"github.com/drivelog/incident-analyzer/internal/telemetry"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a scenario
// configuration, the event stream, and the violations the run is expected to
// produce.
type Fixture struct {
	Description string              `json:"description"`
	Scenario    scenario.Scenario   `json:"scenario"`
	Events      []FixtureEvent      `json:"events"`
	Expected    []ExpectedViolation `json:"expected_violations"`
}

// FixtureEvent mirrors telemetry.Event with JSON tags.
type FixtureEvent struct {
	Time      string  `json:"time"` // MM:SS.s
	Kind      string  `json:"kind"`
	Value     float64 `json:"value,omitempty"`
	Direction string  `json:"direction,omitempty"`
}

// ExpectedViolation captures one expected detection result.
type ExpectedViolation struct {
	Time string `json:"time"` // MM:SS.s
	Type string `json:"type"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := f.Scenario.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToEvent converts a FixtureEvent to a domain Event.
func (fe *FixtureEvent) ToEvent() (telemetry.Event, error) {
	t, err := telemetry.ParseTime(fe.Time)
	if err != nil {
		return telemetry.Event{}, err
	}
	kind := telemetry.EventKind(fe.Kind)
	if !kind.Known() {
		return telemetry.Event{}, fmt.Errorf("unknown event kind %q", fe.Kind)
	}
	return telemetry.Event{
		Time:      t,
		Kind:      kind,
		Value:     fe.Value,
		Direction: telemetry.Direction(fe.Direction),
	}, nil
}

// #endregion fixture-loader
