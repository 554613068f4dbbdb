package executor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/viant/foamcase/internal/idgen"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
)

// Shell executes commands in a fresh gosh bash session per command. The
// session merges stdout and stderr: on a nonzero status the combined output is
// reported as Stderr.
type Shell struct {
	timeout time.Duration
	logger  *slog.Logger
}

// ShellOption customises Shell.
type ShellOption func(s *Shell)

// WithTimeout limits a single command; zero means no practical limit.
func WithTimeout(timeout time.Duration) ShellOption {
	return func(s *Shell) {
		s.timeout = timeout
	}
}

// WithShellLogger sets the logger.
func WithShellLogger(logger *slog.Logger) ShellOption {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Execute runs command in a new session rooted at command.Dir.
func (s *Shell) Execute(ctx context.Context, command *Command) (*Result, error) {
	if command == nil || (command.Shell == "" && len(command.Args) == 0) {
		return nil, fmt.Errorf("empty command")
	}
	var envOptions []runner.Option
	if len(command.Env) > 0 {
		envOptions = append(envOptions, runner.WithEnvironment(command.Env))
	}
	service, err := gosh.New(ctx, local.New(envOptions...))
	if err != nil {
		return nil, fmt.Errorf("failed to start shell session: %w", err)
	}
	defer func() { _ = service.Close() }()

	if command.Dir != "" {
		if _, status, err := service.Run(ctx, "cd "+Quote(command.Dir)); err != nil || status != 0 {
			return nil, fmt.Errorf("failed to change directory to %v: status %d: %v", command.Dir, status, err)
		}
	}

	line := command.Shell
	if line == "" {
		quoted := make([]string, len(command.Args))
		for i, arg := range command.Args {
			quoted[i] = Quote(arg)
		}
		line = strings.Join(quoted, " ")
	}

	id := idgen.Short()
	s.logger.Debug("shell command started", "id", id, "command", line, "dir", command.Dir)
	started := time.Now()
	output, status, err := service.Run(ctx, line, runner.WithTimeout(s.timeoutMs()))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if s.timeout > 0 && time.Since(started) > s.timeout && err == nil {
		err = fmt.Errorf("command %v timed out after: %s", line, time.Since(started))
	}
	if err != nil && status == 0 {
		return nil, err
	}
	s.logger.Debug("shell command finished", "id", id, "command", line, "status", status)
	if status == 0 {
		return &Result{Stdout: []byte(output)}, nil
	}
	if output == "" && err != nil {
		output = err.Error()
	}
	return &Result{Stderr: []byte(output), Status: status}, nil
}

func (s *Shell) timeoutMs() int {
	if s.timeout <= 0 {
		return math.MaxInt32
	}
	return int(s.timeout.Milliseconds())
}

// Quote returns arg quoted for a POSIX shell when it contains special characters.
func Quote(arg string) string {
	if arg == "" {
		return "''"
	}
	safe := true
	for _, r := range arg {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_./:=+,@%", r):
		default:
			safe = false
		}
		if !safe {
			break
		}
	}
	if safe {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// NewShell creates a gosh backed executor
func NewShell(options ...ShellOption) *Shell {
	ret := &Shell{logger: slog.Default()}
	for _, option := range options {
		option(ret)
	}
	return ret
}
