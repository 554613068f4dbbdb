package orchestrator

import (
	"strconv"
	"strings"
)

// Launcher wraps a command for MPI parallel execution as
// <Command> <NpFlag> <N> <application> <ParallelFlag> <args...>.
type Launcher struct {
	Command      string `json:"command,omitempty" yaml:"command,omitempty"`
	NpFlag       string `json:"npFlag,omitempty" yaml:"npFlag,omitempty"`
	ParallelFlag string `json:"parallelFlag,omitempty" yaml:"parallelFlag,omitempty"`
}

// DefaultLauncher returns the mpiexec launcher.
func DefaultLauncher() Launcher {
	return Launcher{Command: "mpiexec", NpFlag: "-np", ParallelFlag: "-parallel"}
}

func (l Launcher) withDefaults() Launcher {
	defaults := DefaultLauncher()
	if l.Command == "" {
		l.Command = defaults.Command
	}
	if l.NpFlag == "" {
		l.NpFlag = defaults.NpFlag
	}
	if l.ParallelFlag == "" {
		l.ParallelFlag = defaults.ParallelFlag
	}
	return l
}

// Wrap returns args launched on np processes.
func (l Launcher) Wrap(args []string, np int) []string {
	l = l.withDefaults()
	ret := []string{l.Command, l.NpFlag, strconv.Itoa(np)}
	if len(args) == 0 {
		return ret
	}
	ret = append(ret, args[0], l.ParallelFlag)
	return append(ret, args[1:]...)
}

// WrapShell returns shell text launched on np processes.
func (l Launcher) WrapShell(text string, np int) string {
	l = l.withDefaults()
	return strings.Join([]string{l.Command, l.NpFlag, strconv.Itoa(np), text, l.ParallelFlag}, " ")
}
