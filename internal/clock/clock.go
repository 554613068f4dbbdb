// Package clock wraps time.Now so that lease timing can be stubbed in tests.
package clock

import "time"

// NowFunc returns the current time.
var NowFunc = time.Now

// Now returns NowFunc().
func Now() time.Time { return NowFunc() }

// Since returns the time elapsed since t according to NowFunc.
func Since(t time.Time) time.Duration { return NowFunc().Sub(t) }
