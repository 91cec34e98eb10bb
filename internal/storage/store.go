package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/drivelog/incident-analyzer/internal/rules"
	"github.com/drivelog/incident-analyzer/internal/scenario"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS ruleset (
	rule_id             INTEGER PRIMARY KEY AUTOINCREMENT,
	max_speed           REAL NOT NULL,
	min_follow_distance REAL NOT NULL,
	stop_sign_wait      REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS scenario (
	scenario_id INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	description TEXT,
	source_file TEXT,
	rule_id     INTEGER NOT NULL,
	FOREIGN KEY (rule_id) REFERENCES ruleset(rule_id)
);

CREATE TABLE IF NOT EXISTS speed_zone (
	zone_id     INTEGER PRIMARY KEY AUTOINCREMENT,
	scenario_id INTEGER NOT NULL,
	start_mile  REAL NOT NULL,
	end_mile    REAL NOT NULL,
	speed_limit REAL NOT NULL,
	FOREIGN KEY (scenario_id) REFERENCES scenario(scenario_id)
);

CREATE TABLE IF NOT EXISTS analysis_run (
	run_id          TEXT PRIMARY KEY,
	scenario_id     INTEGER NOT NULL,
	log_file        TEXT,
	violation_count INTEGER NOT NULL,
	created_at      TEXT NOT NULL,
	FOREIGN KEY (scenario_id) REFERENCES scenario(scenario_id)
);

CREATE TABLE IF NOT EXISTS violation (
	violation_id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	scenario_id  INTEGER NOT NULL,
	tstamp       TEXT NOT NULL,
	type         TEXT NOT NULL,
	details      TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES analysis_run(run_id),
	FOREIGN KEY (scenario_id) REFERENCES scenario(scenario_id)
);
`

// #endregion schema

// #region store-struct
// Store persists scenarios, analysis runs, and violations in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and applies the schema.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region upsert-ruleset
// UpsertRuleset returns the rule_id of an existing row whose three thresholds
// match within 1e-9, inserting a new row otherwise.
func (s *Store) UpsertRuleset(rr scenario.RoadRules) (int64, error) {
	var ruleID int64
	err := s.db.QueryRow(
		`SELECT rule_id FROM ruleset
		 WHERE abs(max_speed - ?) < 1e-9
		   AND abs(min_follow_distance - ?) < 1e-9
		   AND abs(stop_sign_wait - ?) < 1e-9`,
		rr.MaxSpeed, rr.MinFollowDistance, rr.StopSignWait,
	).Scan(&ruleID)
	if err == nil {
		return ruleID, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("find ruleset: %w", err)
	}

	res, err := s.db.Exec(
		`INSERT INTO ruleset (max_speed, min_follow_distance, stop_sign_wait)
		 VALUES (?, ?, ?)`,
		rr.MaxSpeed, rr.MinFollowDistance, rr.StopSignWait,
	)
	if err != nil {
		return 0, fmt.Errorf("insert ruleset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ruleset id: %w", err)
	}
	return id, nil
}

// #endregion upsert-ruleset

// #region register-scenario
// RegisterScenario inserts a scenario and its speed zones in one transaction
// and returns the new scenario_id.
func (s *Store) RegisterScenario(sc *scenario.Scenario, sourceFile string, ruleID int64) (int64, error) {
	name := sc.Name
	if name == "" {
		name = "Unnamed"
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO scenario (name, description, source_file, rule_id)
		 VALUES (?, ?, ?, ?)`,
		name, nullIfEmpty(sc.Description), nullIfEmpty(sourceFile), ruleID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert scenario: %w", err)
	}
	scenarioID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("scenario id: %w", err)
	}

	for _, z := range sc.SpeedZones {
		_, err := tx.Exec(
			`INSERT INTO speed_zone (scenario_id, start_mile, end_mile, speed_limit)
			 VALUES (?, ?, ?, ?)`,
			scenarioID, z.StartMile, z.EndMile, z.SpeedLimit,
		)
		if err != nil {
			return 0, fmt.Errorf("insert speed zone: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return scenarioID, nil
}

// #endregion register-scenario

// #region record-run
// RecordRun inserts an analysis run and its violations atomically and returns
// the run ID. An empty violation list still records the run.
func (s *Store) RecordRun(scenarioID int64, logFile string, violations []rules.Violation) (string, error) {
	runID := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM scenario WHERE scenario_id = ?`, scenarioID,
	).Scan(&exists); err != nil {
		return "", fmt.Errorf("check scenario: %w", err)
	}
	if exists == 0 {
		return "", fmt.Errorf("scenario %d not found", scenarioID)
	}

	_, err = tx.Exec(
		`INSERT INTO analysis_run (run_id, scenario_id, log_file, violation_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, scenarioID, nullIfEmpty(logFile), len(violations), now,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, v := range violations {
		_, err := tx.Exec(
			`INSERT INTO violation (run_id, scenario_id, tstamp, type, details, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, scenarioID, v.Tstamp, string(v.Type), v.Details, now,
		)
		if err != nil {
			return "", fmt.Errorf("insert violation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// #endregion record-run

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
