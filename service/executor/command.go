package executor

import (
	"context"
	"sort"
	"strings"
)

// Command represents a process to execute
type Command struct {
	Args  []string          `json:"args,omitempty"`  // argv; ignored when Shell is set
	Shell string            `json:"shell,omitempty"` // raw shell text run with sh -c
	Dir   string            `json:"dir,omitempty"`   // working directory
	Env   map[string]string `json:"env,omitempty"`   // full environment; nil inherits the current process environment
}

// Line returns a printable command line.
func (c *Command) Line() string {
	if c.Shell != "" {
		return c.Shell
	}
	return strings.Join(c.Args, " ")
}

// Argv returns the command as an argument list.
func (c *Command) Argv() []string {
	if c.Shell != "" {
		return []string{c.Shell}
	}
	return c.Args
}

// Environ renders Env as sorted KEY=VALUE pairs.
func (c *Command) Environ() []string {
	if c.Env == nil {
		return nil
	}
	ret := make([]string, 0, len(c.Env))
	for k, v := range c.Env {
		ret = append(ret, k+"="+v)
	}
	sort.Strings(ret)
	return ret
}

// Result represents the outcome of a finished process
type Result struct {
	Stdout []byte `json:"stdout,omitempty"`
	Stderr []byte `json:"stderr,omitempty"`
	Status int    `json:"status,omitempty"` // exit code
}

// Service represents a process executor.
//
// Execute returns an error only when the process could not be started or was
// interrupted; a nonzero exit status is reported through Result.Status.
type Service interface {
	Execute(ctx context.Context, command *Command) (*Result, error)
}

// Func adapts a function to Service.
type Func func(ctx context.Context, command *Command) (*Result, error)

// Execute calls f.
func (f Func) Execute(ctx context.Context, command *Command) (*Result, error) {
	return f(ctx, command)
}

// Wait waits for a started command.
type Wait func() (*Result, error)

// Start runs command in its own goroutine and returns a Wait function, so the
// caller can keep working while the process runs.
func Start(ctx context.Context, service Service, command *Command) Wait {
	type outcome struct {
		result *Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := service.Execute(ctx, command)
		done <- outcome{result: result, err: err}
	}()
	return func() (*Result, error) {
		ret := <-done
		done <- ret
		return ret.result, ret.err
	}
}
