package harness_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/JohnPlummer/jp-go-restcheck/harness"
)

func scenarioNames(results harness.Results) []string {
	var names []string
	for _, r := range results.Scenarios {
		names = append(names, r.ID.String())
	}
	return names
}

var _ = Describe("Run", func() {
	It("records passing scenarios with no failures", func() {
		results := harness.Run(nil, nil, func(c *harness.Context) {
			c.Run("first", func(c *harness.Context) {})
			c.Run("second", func(c *harness.Context) {})
		})

		Expect(results.OK()).To(BeTrue())
		Expect(scenarioNames(results)).To(ContainElements("first", "second"))
	})

	It("records Errorf failures and keeps the scenario running", func() {
		reached := false
		results := harness.Run(nil, nil, func(c *harness.Context) {
			c.Run("failing", func(c *harness.Context) {
				c.Errorf("expected %d, got %d", 200, 503)
				reached = true
			})
		})

		Expect(reached).To(BeTrue())
		Expect(results.OK()).To(BeFalse())
		Expect(results.Failures).To(HaveLen(1))
		Expect(results.Failures[0].ID.String()).To(Equal("failing"))
		Expect(results.Failures[0].Errors[0].Error()).To(ContainSubstring("expected 200, got 503"))
	})

	It("aborts a scenario at FailNow without stopping the run", func() {
		var after bool
		var siblingRan bool
		results := harness.Run(nil, nil, func(c *harness.Context) {
			c.Run("aborting", func(c *harness.Context) {
				c.Fatalf("fatal condition")
				after = true
			})
			c.Run("sibling", func(c *harness.Context) {
				siblingRan = true
			})
		})

		Expect(after).To(BeFalse())
		Expect(siblingRan).To(BeTrue())
		Expect(results.Failures).To(HaveLen(1))
	})

	It("runs deferred cleanup before recovering from FailNow", func() {
		cleaned := false
		harness.Run(nil, nil, func(c *harness.Context) {
			c.Run("cleanup", func(c *harness.Context) {
				defer func() { cleaned = true }()
				c.Fatalf("boom")
			})
		})

		Expect(cleaned).To(BeTrue())
	})

	It("fails a scenario that panics unexpectedly", func() {
		results := harness.Run(nil, nil, func(c *harness.Context) {
			c.Run("panicking", func(c *harness.Context) {
				panic(errors.New("unexpected"))
			})
		})

		Expect(results.OK()).To(BeFalse())
		Expect(results.Failures[0].Errors[0].Error()).To(ContainSubstring("unexpected panic"))
	})

	It("marks skipped scenarios without failing them", func() {
		results := harness.Run(nil, nil, func(c *harness.Context) {
			c.Run("skipped", func(c *harness.Context) {
				c.SkipWithReason("not applicable")
			})
		})

		Expect(results.OK()).To(BeTrue())
	})

	It("builds hierarchical IDs through nested Run calls", func() {
		var got string
		harness.Run(nil, nil, func(c *harness.Context) {
			c.Run("group", func(c *harness.Context) {
				c.Run("leaf", func(c *harness.Context) {
					got = c.ID().String()
				})
			})
		})

		Expect(got).To(Equal("group/leaf"))
	})

	Describe("filters", func() {
		It("skips scenarios excluded by the filter", func() {
			var ran []string
			filter := func(id harness.ID) bool { return id.String() != "excluded" }

			harness.Run(filter, nil, func(c *harness.Context) {
				c.Run("excluded", func(c *harness.Context) { ran = append(ran, "excluded") })
				c.Run("included", func(c *harness.Context) { ran = append(ran, "included") })
			})

			Expect(ran).To(Equal([]string{"included"}))
		})

		It("applies regex must-match and must-not-match lists", func() {
			var filters harness.RegexFilters
			Expect(filters.MustMatch.Set("lifecycle/.*")).To(Succeed())
			Expect(filters.MustNotMatch.Set(".*delete.*")).To(Succeed())

			Expect(filters.AsFilter(harness.ID{Path: []string{"lifecycle", "create"}})).To(BeTrue())
			Expect(filters.AsFilter(harness.ID{Path: []string{"lifecycle", "delete entity"}})).To(BeFalse())
			Expect(filters.AsFilter(harness.ID{Path: []string{"edge cases", "unknown id"}})).To(BeFalse())
		})

		It("rejects an invalid pattern", func() {
			var list harness.RegexList
			Expect(list.Set("(unclosed")).NotTo(Succeed())
		})
	})

	Describe("ConsoleReporter", func() {
		It("reports failures with the scenario path", func() {
			var buf bytes.Buffer
			reporter := &harness.ConsoleReporter{Output: &buf}

			harness.Run(nil, reporter, func(c *harness.Context) {
				c.Run("broken", func(c *harness.Context) {
					c.Errorf("status mismatch")
				})
			})

			Expect(buf.String()).To(ContainSubstring("[broken]"))
			Expect(buf.String()).To(ContainSubstring("status mismatch"))
			Expect(buf.String()).To(ContainSubstring("broken"))
		})

		It("dumps captured debug output for failures when enabled", func() {
			var buf bytes.Buffer
			reporter := &harness.ConsoleReporter{Output: &buf, DebugOutputOnFailure: true}

			harness.Run(nil, reporter, func(c *harness.Context) {
				c.Run("noisy", func(c *harness.Context) {
					c.Debug("request %s -> %d", "GET /objects", 503)
					c.Errorf("bad status")
				})
			})

			Expect(buf.String()).To(ContainSubstring("GET /objects -> 503"))
		})

		It("omits debug output for passing scenarios by default", func() {
			var buf bytes.Buffer
			reporter := &harness.ConsoleReporter{Output: &buf, DebugOutputOnFailure: true}

			harness.Run(nil, reporter, func(c *harness.Context) {
				c.Run("quiet", func(c *harness.Context) {
					c.Debug("should not appear")
				})
			})

			Expect(buf.String()).NotTo(ContainSubstring("should not appear"))
		})
	})

	Describe("PrintSummary", func() {
		It("prints the scenario count for a clean run", func() {
			var buf bytes.Buffer
			results := harness.Run(nil, nil, func(c *harness.Context) {
				c.Run("ok", func(c *harness.Context) {})
			})
			harness.PrintSummary(&buf, results)

			Expect(buf.String()).To(ContainSubstring("PASSED"))
		})

		It("lists failed scenario paths", func() {
			var buf bytes.Buffer
			results := harness.Run(nil, nil, func(c *harness.Context) {
				c.Run("broken", func(c *harness.Context) { c.Errorf("nope") })
			})
			harness.PrintSummary(&buf, results)

			Expect(buf.String()).To(ContainSubstring("FAILED"))
			Expect(buf.String()).To(ContainSubstring("broken"))
		})
	})
})
