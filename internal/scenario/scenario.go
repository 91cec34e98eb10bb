package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// #region types

// RoadRules holds the three global thresholds every scenario must define.
type RoadRules struct {
	MaxSpeed          float64 `json:"max_speed"`
	MinFollowDistance float64 `json:"min_follow_distance"`
	StopSignWait      float64 `json:"stop_sign_wait"`
}

// SpeedZone overrides the global max speed within a half-open mile range
// [StartMile, EndMile).
type SpeedZone struct {
	StartMile  float64 `json:"start_mile"`
	EndMile    float64 `json:"end_mile"`
	SpeedLimit float64 `json:"speed_limit"`
}

// Scenario is one test run's immutable configuration: a ruleset plus an
// ordered, non-overlapping list of speed zones.
type Scenario struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	RoadRules   RoadRules   `json:"road_rules"`
	SpeedZones  []SpeedZone `json:"speed_zones"`
}

// #endregion types

// #region load

// rawScenario distinguishes absent road_rules keys from explicit zeros.
type rawScenario struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	RoadRules   map[string]float64 `json:"road_rules"`
	SpeedZones  []SpeedZone        `json:"speed_zones"`
}

// Load reads and validates a scenario JSON file. Missing road_rules keys,
// non-positive thresholds, and malformed or overlapping speed zones are
// errors. Zones are sorted by start mile on return.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	var raw rawScenario
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if raw.RoadRules == nil {
		return nil, fmt.Errorf("scenario %s: missing road_rules", path)
	}
	for _, key := range []string{"max_speed", "min_follow_distance", "stop_sign_wait"} {
		if _, ok := raw.RoadRules[key]; !ok {
			return nil, fmt.Errorf("scenario %s: road_rules missing key %s", path, key)
		}
	}

	sc := &Scenario{
		Name:        raw.Name,
		Description: raw.Description,
		RoadRules: RoadRules{
			MaxSpeed:          raw.RoadRules["max_speed"],
			MinFollowDistance: raw.RoadRules["min_follow_distance"],
			StopSignWait:      raw.RoadRules["stop_sign_wait"],
		},
		SpeedZones: raw.SpeedZones,
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// #endregion load

// #region validate

// Validate checks thresholds and zone geometry, and sorts zones by start mile.
func (s *Scenario) Validate() error {
	if s.RoadRules.MaxSpeed <= 0 {
		return fmt.Errorf("max_speed must be positive, got %g", s.RoadRules.MaxSpeed)
	}
	if s.RoadRules.MinFollowDistance <= 0 {
		return fmt.Errorf("min_follow_distance must be positive, got %g", s.RoadRules.MinFollowDistance)
	}
	if s.RoadRules.StopSignWait <= 0 {
		return fmt.Errorf("stop_sign_wait must be positive, got %g", s.RoadRules.StopSignWait)
	}

	sort.Slice(s.SpeedZones, func(i, j int) bool {
		return s.SpeedZones[i].StartMile < s.SpeedZones[j].StartMile
	})
	for i, z := range s.SpeedZones {
		if z.EndMile <= z.StartMile {
			return fmt.Errorf("speed zone %d: end_mile %g not after start_mile %g", i, z.EndMile, z.StartMile)
		}
		if z.SpeedLimit <= 0 {
			return fmt.Errorf("speed zone %d: speed_limit must be positive, got %g", i, z.SpeedLimit)
		}
		if z.StartMile < 0 {
			return fmt.Errorf("speed zone %d: start_mile must be non-negative, got %g", i, z.StartMile)
		}
		if i > 0 && z.StartMile < s.SpeedZones[i-1].EndMile {
			return fmt.Errorf("speed zone %d overlaps zone %d", i, i-1)
		}
	}
	return nil
}

// #endregion validate

// #region limit-at

// LimitAt resolves the effective speed limit at a mile position: the matching
// zone's limit when one covers the position, else the global max speed. Zones
// are half-open, so a reading exactly at EndMile falls outside the zone.
func (s *Scenario) LimitAt(mile float64) float64 {
	// Binary search for the last zone starting at or before mile.
	lo, hi := 0, len(s.SpeedZones)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.SpeedZones[mid].StartMile <= mile {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo > 0 {
		z := s.SpeedZones[lo-1]
		if mile < z.EndMile {
			return z.SpeedLimit
		}
	}
	return s.RoadRules.MaxSpeed
}

// #endregion limit-at
