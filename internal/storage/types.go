package storage

import "time"

// #region stored-violation
// StoredViolation is one violation row as persisted.
type StoredViolation struct {
	Tstamp  string
	Type    string
	Details string
}

// RecentViolation pairs a violation with its owning scenario for the
// cross-scenario recent query.
type RecentViolation struct {
	ScenarioID   int64
	ScenarioName string
	Tstamp       string
	Type         string
	Details      string
}

// #endregion stored-violation

// #region run-record
// RunRecord is one analysis run: a scenario analyzed against one log file at
// a point in time. Runs give the store its provenance trail — every stored
// violation belongs to exactly one run.
type RunRecord struct {
	RunID          string
	ScenarioID     int64
	LogFile        string
	ViolationCount int
	CreatedAt      time.Time
}

// #endregion run-record
