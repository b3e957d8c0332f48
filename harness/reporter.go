package harness

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Reporter receives scenario lifecycle events during a run.
type Reporter interface {
	ScenarioStarted(id ID)
	ScenarioError(id ID, err error)
	ScenarioFinished(id ID, failed bool, debugOutput CapturedOutput)
	ScenarioSkipped(id ID, reason string)
}

type nullReporter struct{}

func (nullReporter) ScenarioStarted(ID)                        {}
func (nullReporter) ScenarioError(ID, error)                   {}
func (nullReporter) ScenarioFinished(ID, bool, CapturedOutput) {}
func (nullReporter) ScenarioSkipped(ID, string)                {}

// ConsoleReporter prints scenario progress to Output with colored
// PASS/FAIL/SKIP markers.
type ConsoleReporter struct {
	Output io.Writer

	// DebugOutputOnFailure dumps a failed scenario's captured debug log.
	DebugOutputOnFailure bool

	// DebugOutputOnSuccess dumps every scenario's captured debug log.
	DebugOutputOnSuccess bool
}

var (
	passMarker = color.New(color.FgGreen).SprintFunc()
	failMarker = color.New(color.FgRed).SprintFunc()
	skipMarker = color.New(color.FgYellow).SprintFunc()
)

func (c *ConsoleReporter) ScenarioStarted(id ID) {
	fmt.Fprintf(c.Output, "[%s]\n", id)
}

func (c *ConsoleReporter) ScenarioError(id ID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Output, "  %s\n", line)
	}
}

func (c *ConsoleReporter) ScenarioFinished(id ID, failed bool, debugOutput CapturedOutput) {
	if failed {
		fmt.Fprintf(c.Output, "  %s: %s\n", failMarker("FAILED"), id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Output, "    DEBUG ")
	}
}

func (c *ConsoleReporter) ScenarioSkipped(id ID, reason string) {
	if reason == "" {
		fmt.Fprintf(c.Output, "  %s: %s\n", skipMarker("SKIPPED"), id)
	} else {
		fmt.Fprintf(c.Output, "  %s: %s (%s)\n", skipMarker("SKIPPED"), id, reason)
	}
}

// PrintSummary writes the final pass/fail tally for a run.
func PrintSummary(dest io.Writer, results Results) {
	if results.OK() {
		fmt.Fprintf(dest, "%s: %d scenarios\n", passMarker("PASSED"), len(results.Scenarios))
		return
	}
	fmt.Fprintf(dest, "%s: %d of %d scenarios\n",
		failMarker("FAILED"), len(results.Failures), len(results.Scenarios))
	for _, f := range results.Failures {
		fmt.Fprintf(dest, "  %s\n", f.ID)
	}
}
