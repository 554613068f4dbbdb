// Package allocator owns the pool of reservable CPU units. A Lease is taken
// immediately before an external solver or tool runs and released as soon as
// it finishes, so the number of units held across all concurrently running
// cases never exceeds the pool capacity.
package allocator
