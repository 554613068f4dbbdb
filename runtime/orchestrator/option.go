package orchestrator

import (
	"log/slog"

	"github.com/viant/foamcase/service/allocator"
	"github.com/viant/foamcase/service/dictionary"
	"github.com/viant/foamcase/service/executor"
	"github.com/viant/foamcase/service/mirror"
)

// Option customises a Case. Options are carried over to cases produced by
// Copy and Clone.
type Option func(c *Case)

// WithPool sets the CPU pool; defaults to allocator.Default().
func WithPool(pool *allocator.Pool) Option {
	return func(c *Case) {
		c.pool = pool
	}
}

// WithExecutor sets the process executor; defaults to executor.NewLocal().
func WithExecutor(service executor.Service) Option {
	return func(c *Case) {
		c.executor = service
	}
}

// WithMirror sets the filesystem mirroring service.
func WithMirror(service mirror.Service) Option {
	return func(c *Case) {
		c.mirror = service
	}
}

// WithTool sets the dictionary tool; defaults to foamDictionary run through
// the case executor.
func WithTool(tool dictionary.Tool) Option {
	return func(c *Case) {
		c.tool = tool
	}
}

// WithLauncher sets the parallel launcher.
func WithLauncher(launcher Launcher) Option {
	return func(c *Case) {
		c.launcher = launcher
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Case) {
		c.logger = logger
	}
}

// Mode selects serial or parallel execution.
type Mode int

const (
	// ModeAuto infers the mode from the case.
	ModeAuto Mode = iota
	// ModeSerial forces a serial run.
	ModeSerial
	// ModeParallel forces a parallel run.
	ModeParallel
)

func (m Mode) String() string {
	switch m {
	case ModeSerial:
		return "serial"
	case ModeParallel:
		return "parallel"
	}
	return "auto"
}

// call holds per-call settings shared by Run, Clean and Exec.
type call struct {
	script bool
	mode   Mode
	cpus   *int
	check  *bool
	env    map[string]string
}

func newCall(check bool, options []CallOption) *call {
	ret := &call{script: true}
	for _, option := range options {
		option(ret)
	}
	if ret.check == nil {
		ret.check = &check
	}
	return ret
}

// CallOption customises a single Run, Clean or Exec call.
type CallOption func(c *call)

// WithScript permits or forbids (All)run and (All)clean scripts; scripts are
// permitted by default.
func WithScript(enabled bool) CallOption {
	return func(c *call) {
		c.script = enabled
	}
}

// WithMode sets the run mode.
func WithMode(mode Mode) CallOption {
	return func(c *call) {
		c.mode = mode
	}
}

// WithCPUs overrides the derived CPU reservation.
func WithCPUs(cpus int) CallOption {
	return func(c *call) {
		c.cpus = &cpus
	}
}

// WithCheck controls whether a nonzero exit status is an error. Run and Exec
// check by default, Clean does not.
func WithCheck(check bool) CallOption {
	return func(c *call) {
		c.check = &check
	}
}

// WithEnv sets the process environment; nil inherits the current one.
func WithEnv(env map[string]string) CallOption {
	return func(c *call) {
		c.env = env
	}
}
