package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/viant/foamcase/internal/idgen"
)

// Local executes commands as direct child processes.
type Local struct {
	shell  string
	logger *slog.Logger
}

// LocalOption customises Local.
type LocalOption func(l *Local)

// WithShell sets the interpreter used for Command.Shell text.
func WithShell(shell string) LocalOption {
	return func(l *Local) {
		l.shell = shell
	}
}

// WithLocalLogger sets the logger.
func WithLocalLogger(logger *slog.Logger) LocalOption {
	return func(l *Local) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Execute runs command and waits for it to finish. Cancelling ctx kills the
// process.
func (l *Local) Execute(ctx context.Context, command *Command) (*Result, error) {
	if command == nil || (command.Shell == "" && len(command.Args) == 0) {
		return nil, fmt.Errorf("empty command")
	}
	var cmd *exec.Cmd
	if command.Shell != "" {
		cmd = exec.CommandContext(ctx, l.shell, "-c", command.Shell)
	} else {
		cmd = exec.CommandContext(ctx, command.Args[0], command.Args[1:]...)
	}
	cmd.Dir = command.Dir
	cmd.Env = command.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	id := idgen.Short()
	l.logger.Debug("process started", "id", id, "command", command.Line(), "dir", command.Dir)
	err := cmd.Run()
	result := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to start %v: %w", command.Line(), err)
		}
		result.Status = exitErr.ExitCode()
	}
	l.logger.Debug("process finished", "id", id, "command", command.Line(), "status", result.Status)
	return result, nil
}

// NewLocal creates a local executor
func NewLocal(options ...LocalOption) *Local {
	ret := &Local{shell: "/bin/sh", logger: slog.Default()}
	for _, option := range options {
		option(ret)
	}
	return ret
}
