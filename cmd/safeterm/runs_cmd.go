package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func runRuns(args []string) int {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	limit := fs.Int("limit", 20, "max records")
	mode := fs.String("mode", "", "bounded|background")
	status := fs.String("status", "", "filter by status")
	jsonOut := fs.Bool("json", false, "output JSON")
	if err := fs.Parse(args); err != nil {
		fmt.Println("Invalid flags.")
		return 1
	}

	records, err := readRunHistory(*limit, *mode, *status)
	if err != nil {
		fmt.Println("History error:", err.Error())
		return 1
	}

	if *jsonOut || !isTerminal(os.Stdout) {
		runs := make([]interface{}, 0, len(records))
		for _, rec := range records {
			runs = append(runs, rec)
		}
		printJSON(map[string]interface{}{"count": len(records), "runs": runs})
		return 0
	}

	if len(records) == 0 {
		fmt.Println("No runs recorded.")
		return 0
	}
	for _, rec := range records {
		line := fmt.Sprintf("%-22s %-10s %-9s exit=%-3d %s",
			rec.ID, rec.Mode, rec.Status, rec.ExitCode, rec.Command)
		fmt.Println(truncateLine(line, 120))
	}
	return 0
}
