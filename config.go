package callcore

import (
	"log/slog"

	"github.com/mudlle-go/callcore/internal/gate"
	"github.com/mudlle-go/callcore/internal/rtlog"
)

// RuntimeConfig controls the privilege ceilings, stack depth, trace
// behavior, and logging a Runtime is constructed with. The zero-ish default
// is NewRuntimeConfig; every With* method returns a modified clone so a
// config value can be shared as a base and specialized per Runtime without
// aliasing, the way the teacher's RuntimeConfig.clone does for wazero's
// own config options.
type RuntimeConfig struct {
	ceilings         gate.Ceilings
	callStackCeiling int
	defaultTraceMode TraceMode
	logger           *slog.Logger
}

// defaultConfig helps avoid copy/pasting the wrong defaults.
var defaultConfig = &RuntimeConfig{
	ceilings:         gate.Ceilings{DefaultSeclevel: 0},
	callStackCeiling: 4096,
	defaultTraceMode: TraceOn,
}

// NewRuntimeConfig returns the default configuration: seclevel 0, no session
// ceiling, a 4096-frame call stack, tracing on, and logging discarded.
func NewRuntimeConfig() *RuntimeConfig {
	return defaultConfig.clone()
}

// clone ensures all fields are copied even if zero-valued.
func (c *RuntimeConfig) clone() *RuntimeConfig {
	return &RuntimeConfig{
		ceilings:         c.ceilings,
		callStackCeiling: c.callStackCeiling,
		defaultTraceMode: c.defaultTraceMode,
		logger:           c.logger,
	}
}

// WithDefaultSeclevel sets the privilege of code that entered the runtime
// without crossing a script frame.
func (c *RuntimeConfig) WithDefaultSeclevel(level int) *RuntimeConfig {
	ret := c.clone()
	ret.ceilings.DefaultSeclevel = level
	return ret
}

// WithMaxSeclevel imposes a per-session ceiling on top of DefaultSeclevel.
// Call with hasCeiling false to remove a previously set ceiling.
func (c *RuntimeConfig) WithMaxSeclevel(level int, hasCeiling bool) *RuntimeConfig {
	ret := c.clone()
	ret.ceilings.MaxSeclevel = level
	ret.ceilings.HasMaxSeclevel = hasCeiling
	return ret
}

// WithMinlevel sets the floor below which a closure is a minlevel violator.
func (c *RuntimeConfig) WithMinlevel(level int) *RuntimeConfig {
	ret := c.clone()
	ret.ceilings.Minlevel = level
	return ret
}

// WithCallStackCeiling bounds the reified call stack's depth. A call beyond
// this depth fails with ErrBadValue rather than growing unbounded.
func (c *RuntimeConfig) WithCallStackCeiling(depth int) *RuntimeConfig {
	ret := c.clone()
	ret.callStackCeiling = depth
	return ret
}

// WithTraceMode sets the trace mode new top-level protected calls use when
// they don't specify one explicitly.
func (c *RuntimeConfig) WithTraceMode(mode TraceMode) *RuntimeConfig {
	ret := c.clone()
	ret.defaultTraceMode = mode
	return ret
}

// WithLogger attaches a structured logger. Passing nil discards all log
// output, the default.
func (c *RuntimeConfig) WithLogger(logger *slog.Logger) *RuntimeConfig {
	ret := c.clone()
	ret.logger = logger
	return ret
}

func (c *RuntimeConfig) rtlogger() *rtlog.Logger {
	if c.logger == nil {
		return rtlog.Discard
	}
	return rtlog.New(c.logger)
}
