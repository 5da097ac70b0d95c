package tinytest

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// ColorMode controls colorization of the verdict markers.
type ColorMode int

const (
	// ColorAuto colorizes only when the configured writer is a terminal,
	// honoring the NO_COLOR convention.
	ColorAuto ColorMode = iota
	// ColorAlways emits ANSI color regardless of the output target.
	ColorAlways
	// ColorNever emits plain text.
	ColorNever
)

// Option configures a Runner.
type Option func(*Runner)

// WithWriter directs report output to w instead of os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(r *Runner) { r.w = w }
}

// WithColor sets the verdict colorization mode. Coloring is presentation
// only and never changes outcomes.
func WithColor(mode ColorMode) Option {
	return func(r *Runner) { r.color = mode }
}

// WithLocations toggles call-site capture for failed checks. Disabling it
// removes file/line detail from diagnostics; outcomes are unaffected.
func WithLocations(enabled bool) Option {
	return func(r *Runner) { r.locations = enabled }
}

// WithClock substitutes the time source used by Timed tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithLogger sets the structured logger. The default discards everything;
// the report itself always goes to the writer, never the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// Runner executes tests and groups sequentially and writes the console
// report. Execution is strictly synchronous: tests run one after another
// in insertion order. A Runner is not meant for concurrent use.
type Runner struct {
	w         io.Writer
	color     ColorMode
	locations bool
	now       func() time.Time
	logger    *slog.Logger

	okMark   *color.Color
	failMark *color.Color
}

// NewRunner creates a Runner writing to os.Stdout with automatic color
// detection, location capture enabled, and the wall clock.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		w:         os.Stdout,
		color:     ColorAuto,
		locations: true,
		now:       time.Now,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.okMark = color.New(color.FgGreen)
	r.failMark = color.New(color.FgRed)
	enabled := writerSupportsColor(r.w)
	switch r.color {
	case ColorAlways:
		enabled = true
	case ColorNever:
		enabled = false
	}
	if enabled {
		r.okMark.EnableColor()
		r.failMark.EnableColor()
	} else {
		r.okMark.DisableColor()
		r.failMark.DisableColor()
	}

	return r
}

// writerSupportsColor reports whether w is a terminal able to render
// ANSI color. Detection keys on the runner's writer, not the process's
// stdout, so reports piped into buffers or files stay plain.
func writerSupportsColor(w io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run executes a single test inside the harness frame and returns its
// outcome.
func (r *Runner) Run(t Test) bool {
	return r.frame(r.context(), t)
}

// RunGroup prints the group start marker, executes every contained test in
// insertion order, and returns true iff all of them passed. When any fail,
// it prints the failure summary before returning false.
func (r *Runner) RunGroup(g *Group) bool {
	rc := r.context()
	fmt.Fprintf(rc.w, "Running group %q\n", g.name)

	failed := 0
	for _, t := range g.tests {
		if !r.frame(rc, t) {
			failed++
		}
	}

	if failed > 0 {
		fmt.Fprintln(rc.w, "Group failed!")
		fmt.Fprintf(rc.w, "Failed %d/%d tests\n", failed, len(g.tests))
		return false
	}
	return true
}

// RunAll executes every group in order and combines their results with
// logical AND. All groups run even after a failure.
func (r *Runner) RunAll(groups ...*Group) bool {
	runID := uuid.Must(uuid.NewV7()).String()
	r.logger.Debug("run starting", "run_id", runID, "groups", len(groups))

	passed := true
	for _, g := range groups {
		passed = r.RunGroup(g) && passed
	}

	r.logger.Debug("run finished", "run_id", runID, "passed", passed)
	return passed
}

func (r *Runner) context() *runContext {
	return &runContext{w: r.w, locations: r.locations, now: r.now}
}

// frame runs one test inside the harness boundary: start marker, panic
// absorption, verdict line.
func (r *Runner) frame(rc *runContext, t Test) bool {
	fmt.Fprintf(rc.w, "test %q\n", t.Name())

	outcome := r.absorb(rc, t)

	mark := r.failMark.Sprint("FAIL")
	if outcome {
		mark = r.okMark.Sprint("OK")
	}
	fmt.Fprintf(rc.w, "[%s]\n", mark)
	return outcome
}

// absorb invokes the test work with recovery armed. This is the single
// recovery point of the harness: a panic anywhere below forces a false
// outcome and a diagnostic line. Error values report their message; any
// other panic value reports as an unknown failure, with the value and
// stack preserved in the debug log.
func (r *Runner) absorb(rc *runContext, t Test) (outcome bool) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = false
			if err, ok := rec.(error); ok {
				fmt.Fprintf(rc.w, "caught error: %v\n", err)
			} else {
				fmt.Fprintln(rc.w, "caught unknown failure")
			}
			r.logger.Debug("absorbed panic",
				"test", t.Name(),
				"value", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
		}
	}()
	return t.execute(rc)
}
