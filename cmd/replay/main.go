package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/drivelog/incident-analyzer/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	jsonOut := flag.Bool("json", false, "output the comparison as JSON")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--json]")
		os.Exit(2)
	}

	os.Exit(runFixture(*fixturePath, *jsonOut))
}

// #endregion main

// #region run

func runFixture(path string, jsonOut bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	got, err := replay.Run(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	rows, sum := replay.Compare(got, f.Expected)

	if jsonOut {
		out := struct {
			Rows    []replay.RowResult `json:"rows"`
			Summary replay.Summary     `json:"summary"`
		}{rows, sum}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal json: %v\n", err)
			return 2
		}
		fmt.Println(string(data))
	} else {
		printComparison(rows, sum)
	}

	if sum.Diverged > 0 {
		return 1
	}
	return 0
}

// printComparison outputs the expected/got table.
func printComparison(rows []replay.RowResult, sum replay.Summary) {
	fmt.Printf("%-32s| %-32s| %s\n", "Expected", "Got", "Match")
	fmt.Printf("%-32s+%-33s+%s\n",
		"--------------------------------", "---------------------------------", "------")
	for _, r := range rows {
		match := "DIFF"
		if r.Match {
			match = "OK"
		}
		fmt.Printf("%-32s| %-32s| %s\n", r.Expected, r.Got, match)
	}
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", sum.Total, sum.Matches, sum.Diverged)
}

// #endregion run
