package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/JohnPlummer/jp-go-restcheck/harness"
)

type commandParams struct {
	configPath string
	baseURL    string
	collection string
	filters    harness.RegexFilters
	debug      bool
	debugAll   bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet(args[0], flag.ExitOnError)
	fs.StringVar(&c.configPath, "config", "", "path to a YAML config file (default restcheck.yaml when present)")
	fs.StringVar(&c.baseURL, "url", "", "base URL of the API under test (overrides config)")
	fs.StringVar(&c.collection, "collection", "", "collection path segment (overrides config)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select scenarios to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select scenarios not to run")
	fs.BoolVar(&c.debug, "debug", false, "dump debug output for failed scenarios")
	fs.BoolVar(&c.debugAll, "debug-all", false, "dump debug output for all scenarios")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	return true
}
