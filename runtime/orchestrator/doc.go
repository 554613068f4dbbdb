// Package orchestrator runs, cleans and copies OpenFOAM case directories.
//
// A Case derives everything it needs (run scripts, processor directories,
// subdomain count, application name) from the case directory on every call,
// so it always reflects the current on-disk state. Every external command
// runs under a CPU lease taken from an allocator.Pool immediately before the
// process starts and released as soon as it ends.
package orchestrator
