package tinytest

import (
	"fmt"
	"io"
	"math"
	"reflect"
)

// Assert returns a Test driven by fn, which receives a fresh recorder T on
// every execution. The test passes when every check recorded on the T
// passed; a body that records no checks passes vacuously.
func Assert(name string, fn func(*T)) Test {
	return &assertTest{name: name, fn: fn}
}

type assertTest struct {
	name string
	fn   func(*T)
}

func (t *assertTest) Name() string { return t.name }

func (t *assertTest) execute(rc *runContext) bool {
	rec := &T{w: rc.w, locations: rc.locations, result: true}
	t.fn(rec)
	return rec.result
}

// T records the checks of one Assert test execution.
//
// Every method folds its individual result into a running conjunction and
// returns that individual result, so a body can branch on a single check
// while the test outcome stays the AND of all of them. The conjunction is
// monotonic: once a check fails, the test cannot pass.
//
// A T is only valid for the duration of the body it was passed to.
type T struct {
	w         io.Writer
	locations bool
	result    bool
}

// Check records condition. On failure it prints the call site when
// location capture is enabled.
func (t *T) Check(condition bool) bool {
	return t.record(condition, 1)
}

// Equals records deep equality of a and b (reflect.DeepEqual, so slices,
// maps, and structs compare by value). On failure it additionally prints
// both values with their dynamic types.
func (t *T) Equals(a, b any) bool {
	eq := reflect.DeepEqual(a, b)
	t.record(eq, 1)
	if !eq {
		fmt.Fprintf(t.w, "%v (%T) != %v (%T)\n", a, a, b, b)
	}
	return eq
}

// FloatEquals records |a-b| < epsilon. The comparison is strict: a
// distance exactly equal to epsilon fails. On failure it additionally
// prints both values and the epsilon.
func (t *T) FloatEquals(a, b, epsilon float64) bool {
	ok := math.Abs(a-b) < epsilon
	t.record(ok, 1)
	if !ok {
		fmt.Fprintf(t.w, "%.4g != %.4g with epsilon %.4g\n", a, b, epsilon)
	}
	return ok
}

// Fail records an unconditional failure, for example when an expected
// panic did not occur.
func (t *T) Fail() bool {
	return t.record(false, 1)
}

// record folds ok into the conjunction and prints the failed-condition
// diagnostic. skip counts the frames between record and the user's call.
func (t *T) record(ok bool, skip int) bool {
	t.result = t.result && ok
	if ok {
		return true
	}
	if t.locations {
		if loc, have := callerLocation(skip + 1); have {
			fmt.Fprintf(t.w, "condition at %s evaluated to false\n", loc)
			return false
		}
	}
	fmt.Fprintln(t.w, "condition evaluated to false")
	return false
}
