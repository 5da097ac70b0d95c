package tinytest

import (
	"io"
	"time"
)

// Test is a named unit of verification work yielding a boolean outcome.
// A Test runs at most once per Runner invocation; running a group again
// re-executes its tests.
//
// The set of implementations is closed: construct tests with Simple or
// Assert and decorate them with Timed. Every variant executes inside the
// Runner's frame, which prints the start marker, absorbs panics, and
// prints the verdict.
type Test interface {
	// Name returns the human-readable test name. Names need not be unique.
	Name() string

	execute(rc *runContext) bool
}

// runContext carries output and timing plumbing for one Runner invocation.
type runContext struct {
	w         io.Writer
	locations bool
	now       func() time.Time
}

// Simple returns a Test that succeeds exactly when fn returns true.
// No recorder is involved; the predicate's result is the outcome.
func Simple(name string, fn func() bool) Test {
	return &simpleTest{name: name, fn: fn}
}

type simpleTest struct {
	name string
	fn   func() bool
}

func (t *simpleTest) Name() string { return t.name }

func (t *simpleTest) execute(*runContext) bool {
	return t.fn()
}
