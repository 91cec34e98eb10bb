package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/drivelog/incident-analyzer/internal/replay"
	"github.com/drivelog/incident-analyzer/internal/storage"
	"github.com/drivelog/incident-analyzer/internal/telemetry"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to violations database")
	runID := flag.String("run", "", "analysis run ID to export")
	outPath := flag.String("out", "", "output fixture JSON path")
	flag.Parse()

	if *dbPath == "" || *runID == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --run RUNID --out path/to/fixture.json")
		os.Exit(2)
	}

	if err := run(*dbPath, *runID, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

// run reconstructs a stored analysis run as a replay fixture. The event
// stream is not persisted, so the exported fixture carries the original log
// path in its description and the stored violations as the expected list;
// events must be filled in from that log before the fixture can replay.
func run(dbPath, runID, outPath string) error {
	store, err := storage.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	rec, err := store.Run(runID)
	if err != nil {
		return err
	}
	sc, err := store.ScenarioConfig(rec.ScenarioID)
	if err != nil {
		return err
	}
	violations, err := store.RunViolations(runID)
	if err != nil {
		return err
	}

	f := replay.Fixture{
		Description: fmt.Sprintf("exported from run %s (log %s)", rec.RunID, rec.LogFile),
		Scenario:    *sc,
		Expected:    make([]replay.ExpectedViolation, len(violations)),
	}
	for i, v := range violations {
		f.Expected[i] = replay.ExpectedViolation{Time: v.Tstamp, Type: v.Type}
	}

	// Populate events directly when the original log is still readable.
	if rec.LogFile != "" {
		if events, err := fixtureEvents(rec.LogFile); err == nil {
			f.Events = events
		}
	}

	data, err := json.MarshalIndent(&f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", outPath, err)
	}

	fmt.Printf("exported %d expected violation(s) to %s\n", len(f.Expected), outPath)
	return nil
}

// fixtureEvents reloads a log file and converts it to fixture form.
func fixtureEvents(logPath string) ([]replay.FixtureEvent, error) {
	events, err := telemetry.ReadLog(logPath)
	if err != nil {
		return nil, err
	}
	out := make([]replay.FixtureEvent, len(events))
	for i, ev := range events {
		fe := replay.FixtureEvent{
			Time: telemetry.FormatTime(ev.Time),
			Kind: string(ev.Kind),
		}
		switch ev.Kind {
		case telemetry.KindSpeed, telemetry.KindFollowDistance, telemetry.KindOdometer:
			fe.Value = ev.Value
		case telemetry.KindLaneChange:
			fe.Direction = string(ev.Direction)
		}
		out[i] = fe
	}
	return out, nil
}

// #endregion export
