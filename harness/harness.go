// Package harness runs named scenarios against a live service and collects
// pass/fail results. Scenarios are plain functions receiving a *Context;
// they report failures with Errorf, abort with FailNow, and opt out with
// Skip. A panic inside a scenario fails that scenario without stopping the
// run, and every scenario's debug output is captured for later dumping.
package harness

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// ID names a scenario by its path through nested Run calls.
type ID struct {
	Path []string
}

func (id ID) String() string {
	return strings.Join(id.Path, "/")
}

// Result records one finished scenario.
type Result struct {
	ID      ID
	Errors  []error
	Skipped bool
}

// Results accumulates every scenario outcome of a run.
type Results struct {
	Scenarios []Result
	Failures  []Result
}

// OK reports whether the run had no failures.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

type environment struct {
	results  Results
	reporter Reporter
	filter   Filter
}

// Context is the scenario-side handle for reporting outcomes. It is not
// safe for concurrent use; scenarios run sequentially.
type Context struct {
	env        *environment
	id         ID
	debugLog   CapturingLogger
	failed     bool
	skipped    bool
	skipReason string
	errors     []error
}

// Run executes action with a root Context and returns the accumulated
// results. The filter, when non-nil, decides which scenario IDs run.
func Run(filter Filter, reporter Reporter, action func(*Context)) Results {
	if reporter == nil {
		reporter = nullReporter{}
	}
	env := &environment{
		filter:   filter,
		reporter: reporter,
	}
	c := &Context{env: env}
	c.exec(action)
	return env.results
}

func (c *Context) exec(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				return
			}
			c.failed = true
			var addErr error
			if _, ok := r.(*Context); ok {
				// FailNow with no recorded error still has to fail loudly.
				if len(c.errors) == 0 {
					addErr = errors.New("scenario failed with no failure message")
				}
			} else {
				addErr = fmt.Errorf("unexpected panic in scenario: %+v\n%s", r, string(debug.Stack()))
			}
			if addErr != nil {
				c.errors = append(c.errors, addErr)
				c.env.reporter.ScenarioError(c.id, addErr)
			}
		}
		result := Result{ID: c.id, Errors: c.errors}
		c.env.results.Scenarios = append(c.env.results.Scenarios, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

// ID returns the current scenario's ID.
func (c *Context) ID() ID {
	return c.id
}

// Run executes a named child scenario.
func (c *Context) Run(name string, action func(*Context)) {
	id := ID{Path: append(append([]string(nil), c.id.Path...), name)}

	c.env.reporter.ScenarioStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.reporter.ScenarioSkipped(id, "excluded by filter parameters")
		return
	}
	child := &Context{id: id, env: c.env}
	child.exec(action)
	if child.skipped {
		c.env.reporter.ScenarioSkipped(id, child.skipReason)
	} else {
		c.env.reporter.ScenarioFinished(id, child.failed, child.debugLog.Output())
	}
}

// Errorf records a failure and keeps the scenario running.
func (c *Context) Errorf(format string, args ...any) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.reporter.ScenarioError(c.id, err)
}

// FailNow aborts the scenario immediately.
func (c *Context) FailNow() {
	panic(c)
}

// Fatalf records a failure and aborts the scenario.
func (c *Context) Fatalf(format string, args ...any) {
	c.Errorf(format, args...)
	c.FailNow()
}

// Skip marks the scenario skipped and aborts it.
func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

// SkipWithReason marks the scenario skipped with an explanation.
func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Debug writes to the scenario's captured debug log.
func (c *Context) Debug(message string, args ...any) {
	c.debugLog.Printf(message, args...)
}

// DebugLogger exposes the capturing logger for collaborators that want a
// diagnostic sink.
func (c *Context) DebugLogger() Logger {
	return &c.debugLog
}
