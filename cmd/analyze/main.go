package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/drivelog/incident-analyzer/internal/report"
	"github.com/drivelog/incident-analyzer/internal/rules"
	"github.com/drivelog/incident-analyzer/internal/scenario"
	"github.com/drivelog/incident-analyzer/internal/storage"
	"github.com/drivelog/incident-analyzer/internal/telemetry"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "persist the run to this SQLite database")
	reportPath := flag.String("report", "report.json", "output path for the JSON report")
	quiet := flag.Bool("quiet", false, "suppress the violations table on stdout")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: analyze [flags] SCENARIO.json LOGFILE")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), flag.Arg(1), *dbPath, *reportPath, *quiet); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(scenarioPath, logPath, dbPath, reportPath string, quiet bool) error {
	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}
	events, err := telemetry.ReadLog(logPath)
	if err != nil {
		return err
	}

	violations, err := rules.Detect(events, sc)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	runID := ""
	if dbPath != "" {
		runID, err = persist(dbPath, sc, scenarioPath, logPath, violations)
		if err != nil {
			return err
		}
	}

	rep := report.Build(sc, runID, violations)
	if err := rep.WriteJSON(reportPath); err != nil {
		return err
	}
	if !quiet {
		rep.RenderTable(os.Stdout)
	}
	return nil
}

func persist(dbPath string, sc *scenario.Scenario, scenarioPath, logPath string, violations []rules.Violation) (string, error) {
	store, err := storage.NewStore(dbPath)
	if err != nil {
		return "", fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	ruleID, err := store.UpsertRuleset(sc.RoadRules)
	if err != nil {
		return "", err
	}
	scenarioID, err := store.RegisterScenario(sc, scenarioPath, ruleID)
	if err != nil {
		return "", err
	}
	runID, err := store.RecordRun(scenarioID, logPath, violations)
	if err != nil {
		return "", err
	}
	return runID, nil
}

// #endregion run
