package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/drivelog/incident-analyzer/internal/scenario"
)

// #region violation-counts
// ViolationCounts returns per-type violation counts for a scenario, most
// frequent first.
func (s *Store) ViolationCounts(scenarioID int64) (map[string]int, error) {
	if err := s.requireScenario(scenarioID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT type, COUNT(*) FROM violation
		 WHERE scenario_id = ?
		 GROUP BY type
		 ORDER BY COUNT(*) DESC`,
		scenarioID,
	)
	if err != nil {
		return nil, fmt.Errorf("count violations: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}

// #endregion violation-counts

// #region violations-by-type
// ViolationsByType returns all violations of one type for a scenario, ordered
// by timestamp.
func (s *Store) ViolationsByType(scenarioID int64, vtype string) ([]StoredViolation, error) {
	if vtype == "" {
		return nil, fmt.Errorf("violation type cannot be empty")
	}
	if err := s.requireScenario(scenarioID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT tstamp, details FROM violation
		 WHERE scenario_id = ? AND type = ?
		 ORDER BY tstamp`,
		scenarioID, vtype,
	)
	if err != nil {
		return nil, fmt.Errorf("query violations: %w", err)
	}
	defer rows.Close()

	var out []StoredViolation
	for rows.Next() {
		v := StoredViolation{Type: vtype}
		if err := rows.Scan(&v.Tstamp, &v.Details); err != nil {
			return nil, fmt.Errorf("scan violation: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// #endregion violations-by-type

// #region recent-violations
// RecentViolations returns the newest violations across all scenarios.
func (s *Store) RecentViolations(limit int) ([]RecentViolation, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	rows, err := s.db.Query(
		`SELECT v.scenario_id, sc.name, v.tstamp, v.type, v.details
		 FROM violation v
		 JOIN scenario sc ON v.scenario_id = sc.scenario_id
		 ORDER BY v.created_at DESC, v.violation_id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var out []RecentViolation
	for rows.Next() {
		var r RecentViolation
		if err := rows.Scan(&r.ScenarioID, &r.ScenarioName, &r.Tstamp, &r.Type, &r.Details); err != nil {
			return nil, fmt.Errorf("scan recent: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion recent-violations

// #region list-runs
// ListRuns returns the most recent analysis runs.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, scenario_id, log_file, violation_count, created_at
		 FROM analysis_run ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var logFile sql.NullString
		var createdStr string
		if err := rows.Scan(&r.RunID, &r.ScenarioID, &logFile, &r.ViolationCount, &createdStr); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if logFile.Valid {
			r.LogFile = logFile.String
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion list-runs

// #region run-violations
// RunViolations returns the violations recorded for one analysis run in
// insertion order.
func (s *Store) RunViolations(runID string) ([]StoredViolation, error) {
	rows, err := s.db.Query(
		`SELECT tstamp, type, details FROM violation
		 WHERE run_id = ? ORDER BY violation_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run violations: %w", err)
	}
	defer rows.Close()

	var out []StoredViolation
	for rows.Next() {
		var v StoredViolation
		if err := rows.Scan(&v.Tstamp, &v.Type, &v.Details); err != nil {
			return nil, fmt.Errorf("scan violation: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Run returns a single analysis run by ID.
func (s *Store) Run(runID string) (RunRecord, error) {
	var r RunRecord
	var logFile sql.NullString
	var createdStr string
	err := s.db.QueryRow(
		`SELECT run_id, scenario_id, log_file, violation_count, created_at
		 FROM analysis_run WHERE run_id = ?`,
		runID,
	).Scan(&r.RunID, &r.ScenarioID, &logFile, &r.ViolationCount, &createdStr)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	if logFile.Valid {
		r.LogFile = logFile.String
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return r, nil
}

// #endregion run-violations

// #region scenario-config
// ScenarioConfig reconstructs a scenario's ruleset and speed zones from the
// store. Used by fixture export.
func (s *Store) ScenarioConfig(scenarioID int64) (*scenario.Scenario, error) {
	sc := &scenario.Scenario{}
	var description sql.NullString
	err := s.db.QueryRow(
		`SELECT sc.name, sc.description, r.max_speed, r.min_follow_distance, r.stop_sign_wait
		 FROM scenario sc JOIN ruleset r ON sc.rule_id = r.rule_id
		 WHERE sc.scenario_id = ?`,
		scenarioID,
	).Scan(&sc.Name, &description,
		&sc.RoadRules.MaxSpeed, &sc.RoadRules.MinFollowDistance, &sc.RoadRules.StopSignWait)
	if err != nil {
		return nil, fmt.Errorf("get scenario %d: %w", scenarioID, err)
	}
	if description.Valid {
		sc.Description = description.String
	}

	rows, err := s.db.Query(
		`SELECT start_mile, end_mile, speed_limit FROM speed_zone
		 WHERE scenario_id = ? ORDER BY start_mile`,
		scenarioID,
	)
	if err != nil {
		return nil, fmt.Errorf("query speed zones: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var z scenario.SpeedZone
		if err := rows.Scan(&z.StartMile, &z.EndMile, &z.SpeedLimit); err != nil {
			return nil, fmt.Errorf("scan speed zone: %w", err)
		}
		sc.SpeedZones = append(sc.SpeedZones, z)
	}
	return sc, rows.Err()
}

// #endregion scenario-config

// #region helpers

func (s *Store) requireScenario(scenarioID int64) error {
	var exists int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM scenario WHERE scenario_id = ?`, scenarioID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check scenario: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("scenario %d not found", scenarioID)
	}
	return nil
}

// #endregion helpers
