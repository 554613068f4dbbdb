// Package dictionary exposes OpenFOAM dictionary files as hierarchical
// keyword/value views.
//
// Nothing is cached: every read and write is a fresh round trip to the
// backing Tool (foamDictionary by default), because solvers and other
// processes rewrite case files between accesses. A sub-dictionary obtained
// from a Dictionary is a view on the same file, so writes through it are
// visible through the parent.
//
// Concurrent writers to the same file are not serialized here; atomicity is
// whatever the backing tool provides.
package dictionary
