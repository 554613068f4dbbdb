package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/foamcase/model/types"
	"github.com/viant/foamcase/service/allocator"
	"github.com/viant/foamcase/service/executor"
	"github.com/viant/foamcase/tracing"
)

// Exec runs args in the case directory and returns its standard output.
// ModeParallel wraps the command with the launcher. A nonzero exit status is
// a *types.CommandFailedError unless WithCheck(false) is given.
func (c *Case) Exec(ctx context.Context, args []string, options ...CallOption) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("empty command")
	}
	return c.exec(ctx, &executor.Command{Args: args}, newCall(true, options))
}

// ExecShell runs shell text in the case directory; see Exec.
func (c *Case) ExecShell(ctx context.Context, text string, options ...CallOption) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty command")
	}
	return c.exec(ctx, &executor.Command{Shell: text}, newCall(true, options))
}

// exec is the single path every case command takes: it resolves the
// environment, wraps parallel commands, holds the CPU lease for the lifetime
// of the process, and applies exit status checking.
func (c *Case) exec(ctx context.Context, command *executor.Command, call *call) (string, error) {
	cpus := 0
	if call.cpus != nil {
		cpus = *call.cpus
	}
	if call.mode == ModeParallel {
		np, err := c.NProcessors()
		if err != nil {
			return "", err
		}
		if np == 0 {
			np = max(cpus, 1)
		}
		if command.Shell != "" {
			command.Shell = c.launcher.WrapShell(command.Shell, np)
		} else {
			command.Args = c.launcher.Wrap(command.Args, np)
		}
	}
	command.Dir = c.path
	command.Env = c.environment(call.env)

	ctx, span := tracing.StartSpan(ctx, "foamcase.exec", tracing.KindProcess)
	span.WithAttributes(map[string]string{"case": c.Name(), "command": command.Line()}).WithInt("cpus", cpus)

	var result *executor.Result
	err := c.pool.With(ctx, cpus, func(ctx context.Context, lease *allocator.Lease) error {
		c.logger.Info("command started", "case", c.Name(), "command", command.Line(), "cpus", lease.CPUs, "lease", lease.ID)
		var err error
		result, err = c.executor.Execute(ctx, command)
		return err
	})
	if err != nil {
		tracing.EndSpan(span, err)
		return "", fmt.Errorf("failed to run %v in %v: %w", command.Line(), c.path, err)
	}
	span.SetExitStatus(result.Status)
	c.logger.Info("command finished", "case", c.Name(), "command", command.Line(), "status", result.Status)
	if result.Status != 0 {
		failure := types.NewCommandFailedError(command.Argv(), result.Status, string(result.Stderr))
		if *call.check {
			tracing.EndSpan(span, failure)
			return "", failure
		}
		c.logger.Warn("command failed, ignoring", "case", c.Name(), "error", failure)
	}
	tracing.EndSpan(span, nil)
	return string(result.Stdout), nil
}

// environment copies env, or the process environment when env is nil, and
// points PWD at the case when it currently names the process working
// directory.
func (c *Case) environment(env map[string]string) map[string]string {
	ret := make(map[string]string, len(env))
	if env == nil {
		for _, pair := range os.Environ() {
			if key, value, ok := strings.Cut(pair, "="); ok {
				ret[key] = value
			}
		}
	} else {
		for key, value := range env {
			ret[key] = value
		}
	}
	if pwd, ok := ret["PWD"]; ok {
		if cwd, err := os.Getwd(); err == nil && sameDir(pwd, cwd) {
			ret["PWD"] = c.path
		}
	}
	return ret
}

func sameDir(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}
