package cli

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/tinytest-go/tinytest"
)

//go:embed schema.cue
var schemaCUE string

// Config holds the driver settings. File values are merged over the
// defaults, then command-line flags are merged over the file.
//
// The JSON tags are required by the CUE encoder used for validation and
// must stay in sync with the field names in schema.cue.
type Config struct {
	Color     string `yaml:"color" json:"color"`
	Locations bool   `yaml:"locations" json:"locations"`
	Filter    string `yaml:"filter" json:"filter"`
	Journal   string `yaml:"journal" json:"journal"`
	Verbose   bool   `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns the settings used when no file or flags are
// given.
func DefaultConfig() Config {
	return Config{
		Color:     "auto",
		Locations: true,
	}
}

// LoadConfig reads a YAML config file and validates the merged result.
// Keys absent from the file keep their default values; unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos)
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		// An empty file keeps the defaults
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// validateConfig checks the merged config against the CUE schema.
func validateConfig(cfg Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	val := ctx.Encode(cfg)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return schema.Unify(val).Validate(cue.Concrete(true))
}

// parseColorMode maps a config value onto a runner color mode.
// Flag values bypass schema validation, so this guards them too.
func parseColorMode(s string) (tinytest.ColorMode, error) {
	switch s {
	case "auto":
		return tinytest.ColorAuto, nil
	case "always":
		return tinytest.ColorAlways, nil
	case "never":
		return tinytest.ColorNever, nil
	default:
		return tinytest.ColorAuto, fmt.Errorf("invalid color mode %q: must be one of auto, always, never", s)
	}
}
