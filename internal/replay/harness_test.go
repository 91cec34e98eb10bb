package replay

import (
	"testing"

	"github.com/drivelog/incident-analyzer/internal/rules"
	"github.com/drivelog/incident-analyzer/internal/scenario"
)

func makeFixture() *Fixture {
	return &Fixture{
		Description: "tailgating then unsafe lane change",
		Scenario: scenario.Scenario{
			Name: "lane discipline",
			RoadRules: scenario.RoadRules{
				MaxSpeed:          35,
				MinFollowDistance: 2,
				StopSignWait:      3,
			},
		},
		Events: []FixtureEvent{
			{Time: "0:01.0", Kind: "FOLLOW_DISTANCE", Value: 1.8},
			{Time: "0:02.5", Kind: "LANE_CHANGE", Direction: "LEFT"},
		},
		Expected: []ExpectedViolation{
			{Time: "00:01.0", Type: "TAILGATING"},
			{Time: "00:02.5", Type: "UNSAFE_LANE_CHANGE"},
		},
	}
}

func TestRunProducesExpectedViolations(t *testing.T) {
	f := makeFixture()
	got, err := Run(f)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(got))
	}
	if got[0].Type != rules.Tailgating || got[1].Type != rules.UnsafeLaneChange {
		t.Fatalf("unexpected types: %s, %s", got[0].Type, got[1].Type)
	}
}

func TestCompareAllMatch(t *testing.T) {
	f := makeFixture()
	got, err := Run(f)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	rows, sum := Compare(got, f.Expected)
	if sum.Diverged != 0 || sum.Matches != 2 {
		t.Fatalf("expected clean comparison, got %+v", sum)
	}
	for _, r := range rows {
		if !r.Match {
			t.Fatalf("expected match, got %+v", r)
		}
	}
}

func TestCompareDetectsDivergence(t *testing.T) {
	f := makeFixture()
	got, err := Run(f)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Wrong type at position 0.
	expected := []ExpectedViolation{
		{Time: "00:01.0", Type: "SPEEDING"},
		{Time: "00:02.5", Type: "UNSAFE_LANE_CHANGE"},
	}
	_, sum := Compare(got, expected)
	if sum.Diverged != 1 || sum.Matches != 1 {
		t.Fatalf("expected one divergence, got %+v", sum)
	}
}

func TestCompareLengthMismatch(t *testing.T) {
	f := makeFixture()
	got, err := Run(f)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	expected := f.Expected[:1]
	rows, sum := Compare(got, expected)
	if sum.Total != 2 || sum.Diverged != 1 {
		t.Fatalf("expected a trailing divergence, got %+v", sum)
	}
	if rows[1].Expected != "—" {
		t.Fatalf("missing expected side should render as —, got %q", rows[1].Expected)
	}
}

func TestRunRejectsBadFixtureEvent(t *testing.T) {
	f := makeFixture()
	f.Events[0].Kind = "TELEPORT"
	if _, err := Run(f); err == nil {
		t.Fatal("expected error for unknown fixture event kind")
	}
}
