// Package config loads a RuntimeConfig from a YAML file, for embedders that
// want ceilings and trace behavior driven by deployment configuration
// rather than constructed in Go.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mudlle-go/callcore"
)

// File is the on-disk shape a RuntimeConfig is loaded from.
//
//	default_seclevel: 0
//	max_seclevel: 2
//	minlevel: 0
//	call_stack_ceiling: 4096
//	trace_mode: on   # on | off | barrier
type File struct {
	DefaultSeclevel  int    `yaml:"default_seclevel"`
	MaxSeclevel      *int   `yaml:"max_seclevel"`
	Minlevel         int    `yaml:"minlevel"`
	CallStackCeiling int    `yaml:"call_stack_ceiling"`
	TraceMode        string `yaml:"trace_mode"`
}

// Load reads and parses path into a File.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &f, nil
}

// ToRuntimeConfig builds a *callcore.RuntimeConfig from f, attaching logger
// for structured output. A zero CallStackCeiling falls back to
// NewRuntimeConfig's default of 4096.
func (f *File) ToRuntimeConfig(logger *slog.Logger) (*callcore.RuntimeConfig, error) {
	cfg := callcore.NewRuntimeConfig().
		WithDefaultSeclevel(f.DefaultSeclevel).
		WithMinlevel(f.Minlevel).
		WithLogger(logger)

	if f.MaxSeclevel != nil {
		cfg = cfg.WithMaxSeclevel(*f.MaxSeclevel, true)
	}
	if f.CallStackCeiling > 0 {
		cfg = cfg.WithCallStackCeiling(f.CallStackCeiling)
	}

	mode, err := parseTraceMode(f.TraceMode)
	if err != nil {
		return nil, err
	}
	cfg = cfg.WithTraceMode(mode)

	return cfg, nil
}

func parseTraceMode(s string) (callcore.TraceMode, error) {
	switch s {
	case "", "on":
		return callcore.TraceOn, nil
	case "off":
		return callcore.TraceOff, nil
	case "barrier":
		return callcore.TraceBarrier, nil
	default:
		return 0, fmt.Errorf("config: unknown trace_mode %q", s)
	}
}
