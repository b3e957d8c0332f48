// Package config loads harness settings from defaults, an optional YAML
// file, and RESTCHECK_-prefixed environment variables, in that order of
// increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "RESTCHECK_"

// DefaultFile is the config file consulted when no explicit path is given.
// It is optional; missing files are ignored.
const DefaultFile = "restcheck.yaml"

// Settings is the full harness configuration.
type Settings struct {
	API      APISettings     `koanf:"api"`
	Retry    RetrySettings   `koanf:"retry"`
	Fixtures FixtureSettings `koanf:"fixtures"`
	Log      LogSettings     `koanf:"log"`
}

// APISettings locates the remote API under test.
type APISettings struct {
	BaseURL    string        `koanf:"baseurl" validate:"required,url"`
	Collection string        `koanf:"collection" validate:"required"`
	Timeout    time.Duration `koanf:"timeout" validate:"gt=0"`
}

// RetrySettings is the executor policy applied to every exchange.
type RetrySettings struct {
	MaxAttempts  int           `koanf:"maxattempts" validate:"gte=1"`
	InitialDelay time.Duration `koanf:"initialdelay" validate:"gt=0"`
	Multiplier   float64       `koanf:"multiplier" validate:"gte=1"`
}

// FixtureSettings locates the JSON fixture directory.
type FixtureSettings struct {
	Dir string `koanf:"dir" validate:"required"`
}

// LogSettings controls diagnostic output.
type LogSettings struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

// Load reads settings with the default optional config file.
func Load() (*Settings, error) {
	return LoadFrom(DefaultFile)
}

// LoadFrom reads settings, layering the given YAML file (when present) over
// defaults and environment variables (RESTCHECK_API_BASEURL and friends)
// over both.
func LoadFrom(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading %s: %w", path, err)
			}
		}
	}

	if err := k.Load(envprovider.Provider(envPrefix, ".", func(s string) string {
		// RESTCHECK_API_BASEURL -> api.baseurl
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}

	if err := validator.New().Struct(&settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &settings, nil
}

func defaults() map[string]any {
	return map[string]any{
		"api.baseurl":    "https://api.restful-api.dev",
		"api.collection": "objects",
		"api.timeout":    "30s",

		"retry.maxattempts":  3,
		"retry.initialdelay": "250ms",
		"retry.multiplier":   2.0,

		"fixtures.dir": "testdata",

		"log.level": "info",
	}
}

// NewLogger builds a text slog.Logger at the configured level.
func (s *Settings) NewLogger() *slog.Logger {
	var level slog.Level
	switch s.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
