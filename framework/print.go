package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const summaryRule = "============================================================"

var (
	passLabel = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	skipLabel = color.New(color.FgYellow).SprintFunc()
)

// PrintResults writes the summary table: one line per test with PASS, FAIL or SKIP, the
// aggregate count, and the error that aborted the run if there was one.
func PrintResults(out io.Writer, results Results) {
	fmt.Fprintln(out, summaryRule)
	fmt.Fprintln(out, "TEST RESULTS SUMMARY")
	fmt.Fprintln(out, summaryRule)

	width := 0
	for _, t := range results.Tests {
		if n := len(displayName(t.TestID)); n > width {
			width = n
		}
	}
	for _, t := range results.Tests {
		var status string
		switch {
		case t.Skipped:
			status = skipLabel("SKIP")
		case t.Failed:
			status = failLabel("FAIL")
		default:
			status = passLabel("PASS")
		}
		fmt.Fprintf(out, "%-*s  %s\n", width, displayName(t.TestID), status)
	}

	fmt.Fprintf(out, "\nOverall: %d/%d tests passed\n", results.Passed(), results.Total())
	if results.Error != nil {
		fmt.Fprintf(out, "\n%s %s\n", failLabel("Critical error:"), results.Error)
	}
}

func displayName(id TestID) string {
	if id.Depth() <= 1 {
		return id.String()
	}
	return strings.Repeat("  ", id.Depth()-1) + id.Path[len(id.Path)-1]
}
