package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/drivelog/incident-analyzer/internal/storage"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to violations database")
	counts := flag.Int64("counts", 0, "print per-type violation counts for a scenario ID")
	scenarioID := flag.Int64("scenario", 0, "scenario ID for --type queries")
	vtype := flag.String("type", "", "list violations of this type (requires --scenario)")
	recent := flag.Int("recent", 0, "show the N most recent violations across scenarios")
	runs := flag.Int("runs", 0, "show the N most recent analysis runs")
	jsonOut := flag.Bool("json", false, "output as JSON instead of a table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/violations.db [--counts SID] [--scenario SID --type TYPE] [--recent N] [--runs N] [--json]")
		os.Exit(2)
	}

	store, err := storage.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var runErr error
	switch {
	case *counts != 0:
		runErr = runCounts(store, *counts, *jsonOut)
	case *vtype != "":
		if *scenarioID == 0 {
			fmt.Fprintln(os.Stderr, "--type requires --scenario")
			os.Exit(2)
		}
		runErr = runByType(store, *scenarioID, *vtype, *jsonOut)
	case *recent > 0:
		runErr = runRecent(store, *recent, *jsonOut)
	case *runs > 0:
		runErr = runList(store, *runs, *jsonOut)
	default:
		fmt.Fprintln(os.Stderr, "nothing to do: pass --counts, --type, --recent, or --runs")
		os.Exit(2)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}

// #endregion main

// #region counts-mode

func runCounts(store *storage.Store, scenarioID int64, jsonOut bool) error {
	counts, err := store.ViolationCounts(scenarioID)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(counts)
	}
	if len(counts) == 0 {
		fmt.Println("no violations recorded")
		return nil
	}
	fmt.Printf("%-20s| %s\n", "Type", "Count")
	fmt.Printf("%-20s+%s\n", "--------------------", "------")
	for _, typ := range []string{"SPEEDING", "TAILGATING", "ROLLING_STOP", "UNSAFE_LANE_CHANGE"} {
		if n, ok := counts[typ]; ok {
			fmt.Printf("%-20s| %d\n", typ, n)
		}
	}
	return nil
}

// #endregion counts-mode

// #region by-type-mode

func runByType(store *storage.Store, scenarioID int64, vtype string, jsonOut bool) error {
	violations, err := store.ViolationsByType(scenarioID, vtype)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(violations)
	}
	if len(violations) == 0 {
		fmt.Printf("no %s violations for scenario %d\n", vtype, scenarioID)
		return nil
	}
	fmt.Printf("%-8s| %s\n", "Time", "Details")
	fmt.Printf("%-8s+%s\n", "--------", "-----------------------------")
	for _, v := range violations {
		fmt.Printf("%-8s| %s\n", v.Tstamp, v.Details)
	}
	return nil
}

// #endregion by-type-mode

// #region recent-mode

func runRecent(store *storage.Store, limit int, jsonOut bool) error {
	violations, err := store.RecentViolations(limit)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(violations)
	}
	if len(violations) == 0 {
		fmt.Println("no violations recorded")
		return nil
	}
	fmt.Printf("%-20s| %-8s| %-20s| %s\n", "Scenario", "Time", "Type", "Details")
	fmt.Printf("%-20s+%-9s+%-21s+%s\n", "--------------------", "---------", "---------------------", "-----------------------------")
	for _, v := range violations {
		fmt.Printf("%-20s| %-8s| %-20s| %s\n", v.ScenarioName, v.Tstamp, v.Type, v.Details)
	}
	return nil
}

// #endregion recent-mode

// #region runs-mode

func runList(store *storage.Store, limit int, jsonOut bool) error {
	records, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(records)
	}
	if len(records) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	fmt.Printf("%-36s| %-9s| %-10s| %s\n", "Run", "Scenario", "Violations", "Time")
	fmt.Printf("%-36s+%-10s+%-11s+%s\n", "------------------------------------", "----------", "-----------", "--------------------")
	for _, r := range records {
		fmt.Printf("%-36s| %-9d| %-10d| %s\n",
			r.RunID, r.ScenarioID, r.ViolationCount, r.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

// #endregion runs-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// #endregion output
