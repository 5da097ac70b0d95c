// Package tinytest is a minimal, embeddable unit-test execution harness.
//
// Callers define named tests as plain functions, collect them into groups,
// and run the groups through a Runner that writes a human-readable report.
// Execution is strictly sequential; the harness has no discovery mechanism,
// no parallelism, and no machine-readable output.
//
// # Test variants
//
// Simple wraps a zero-argument predicate; the test passes exactly when the
// predicate returns true. Assert wraps a procedure that receives a recorder
// T; the test passes when every check recorded on the T passed. Timed
// decorates any test with a post-hoc execution-time budget.
//
// # Failure absorption
//
// A panic raised inside a test body never escapes the harness. The Runner
// recovers it at a single boundary, prints a diagnostic, and reports the
// test as failed; subsequent tests in the group still run. Test bodies are
// free to use their own recover internally, for example to check that an
// operation panics.
//
// # Driver contract
//
// Group results combine with logical AND into a process exit code:
//
//	r := tinytest.NewRunner()
//	ok := r.RunAll(
//		tinytest.NewGroup("arithmetic",
//			tinytest.Simple("math works", func() bool { return 2+2 == 4 }),
//			tinytest.Assert("strings", func(t *tinytest.T) {
//				t.Equals("a"+"b", "ab")
//			}),
//		),
//	)
//	if !ok {
//		os.Exit(1)
//	}
package tinytest
