// Package executor runs external processes on behalf of a case. Two
// implementations are provided: Local, which spawns the process directly and
// captures stdout and stderr separately, and Shell, which replays the command
// in a gosh bash session.
package executor
