package tinytest

import (
	"fmt"
	"time"
)

// Timed decorates test with an execution-time budget. A budget of 0
// imposes no limit; elapsed time is still reported.
//
// The wrapped work always runs to natural completion; there is no
// cancellation. The elapsed duration is judged against the budget only
// after the work has finished: an overrun forces the outcome to false even
// when the wrapped test itself passed. Elapsed time is always printed,
// including when the wrapped body panics; the panic then continues to the
// Runner's absorption boundary as usual.
func Timed(budget time.Duration, test Test) Test {
	return &timedTest{budget: budget, test: test}
}

type timedTest struct {
	budget time.Duration
	test   Test
}

func (t *timedTest) Name() string { return t.test.Name() }

func (t *timedTest) execute(rc *runContext) (ok bool) {
	start := rc.now()
	defer func() {
		elapsed := rc.now().Sub(start)
		fmt.Fprintf(rc.w, "finished in %.2fms\n", millis(elapsed))
		if t.budget > 0 && elapsed > t.budget {
			fmt.Fprintf(rc.w, "SLOWER than given limit: %.2fms\n", millis(t.budget))
			ok = false
		}
	}()
	return t.test.execute(rc)
}

// millis converts d to fractional milliseconds for reporting.
func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
