// Command restcheck runs the CRUD contract-test suite against a live
// objects API and reports pass/fail per scenario.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/JohnPlummer/jp-go-restcheck/config"
	"github.com/JohnPlummer/jp-go-restcheck/crudtests"
	"github.com/JohnPlummer/jp-go-restcheck/executor"
	"github.com/JohnPlummer/jp-go-restcheck/fixtures"
	"github.com/JohnPlummer/jp-go-restcheck/harness"
	"github.com/JohnPlummer/jp-go-restcheck/objects"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	configPath := params.configPath
	if configPath == "" {
		configPath = config.DefaultFile
	}
	settings, err := config.LoadFrom(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", err)
		os.Exit(1)
	}
	if params.baseURL != "" {
		settings.API.BaseURL = params.baseURL
	}
	if params.collection != "" {
		settings.API.Collection = params.collection
	}

	logger := settings.NewLogger()

	client := objects.NewClient(settings.API.BaseURL,
		objects.WithCollection(settings.API.Collection),
		objects.WithTimeout(settings.API.Timeout),
		objects.WithLogger(logger),
		objects.WithRetryOptions(
			executor.WithMaxAttempts(settings.Retry.MaxAttempts),
			executor.WithInitialDelay(settings.Retry.InitialDelay),
			executor.WithMultiplier(settings.Retry.Multiplier),
		),
	)

	loader := fixtures.NewLoader(settings.Fixtures.Dir)

	if desc := params.filters.Describe(); desc != "" {
		fmt.Println("Some scenarios will be skipped based on the filter criteria for this run:")
		fmt.Println(desc)
		fmt.Println()
	}

	fmt.Printf("Running contract tests against %s/%s\n\n", settings.API.BaseURL, settings.API.Collection)

	reporter := &harness.ConsoleReporter{
		Output:               os.Stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := crudtests.RunSuite(context.Background(), client, loader, params.filters.AsFilter, reporter)

	fmt.Println()
	harness.PrintSummary(os.Stdout, results)
	if !results.OK() {
		os.Exit(1)
	}
}
