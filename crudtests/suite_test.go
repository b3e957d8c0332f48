package crudtests_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/JohnPlummer/jp-go-restcheck/crudtests"
	"github.com/JohnPlummer/jp-go-restcheck/executor"
	"github.com/JohnPlummer/jp-go-restcheck/fixtures"
	"github.com/JohnPlummer/jp-go-restcheck/harness"
	"github.com/JohnPlummer/jp-go-restcheck/objects"
	"github.com/JohnPlummer/jp-go-restcheck/objects/objectstest"
)

var _ = Describe("RunSuite", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		server *objectstest.Server
		client *objects.Client
		loader *fixtures.Loader
	)

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		server = objectstest.NewServer()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
		client = objects.NewClient(server.URL(),
			objects.WithLogger(logger),
			objects.WithRetryOptions(executor.WithInitialDelay(10*time.Millisecond)),
		)
		loader = fixtures.NewLoader("testdata")
	})

	AfterEach(func() {
		server.Close()
		cancel()
	})

	It("passes every scenario against a conforming API", func() {
		results := crudtests.RunSuite(ctx, client, loader, nil, nil)

		Expect(results.Failures).To(BeEmpty())
		Expect(results.OK()).To(BeTrue())

		var names []string
		for _, r := range results.Scenarios {
			names = append(names, r.ID.String())
		}
		Expect(names).To(ContainElements(
			"lifecycle/create assigns an identifier and is readable",
			"lifecycle/update is a full replace",
			"lifecycle/delete removes the entity",
			"edge cases/get with unknown identifier",
			"edge cases/attribute type fidelity",
			"edge cases/fixture-driven create",
		))
	})

	It("leaves no entities behind", func() {
		results := crudtests.RunSuite(ctx, client, loader, nil, nil)

		Expect(results.OK()).To(BeTrue())
		Expect(server.Count()).To(BeZero())
	})

	It("honors scenario filters", func() {
		var filters harness.RegexFilters
		Expect(filters.MustMatch.Set("edge cases")).To(Succeed())

		results := crudtests.RunSuite(ctx, client, loader, filters.AsFilter, nil)

		Expect(results.OK()).To(BeTrue())
		for _, r := range results.Scenarios {
			Expect(r.ID.String()).NotTo(HavePrefix("lifecycle/"))
		}
	})

	It("reports failures when the API misbehaves", func() {
		// Exhaust the client's retries with injected server errors so the
		// first scenario sees a persistent 503.
		server.FailNext(30, 503)

		results := crudtests.RunSuite(ctx, client, loader, nil, nil)
		Expect(results.OK()).To(BeFalse())
	})
})
