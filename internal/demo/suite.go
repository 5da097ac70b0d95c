// Package demo ships the example suite the tinytest command runs.
//
// The suite exercises every test variant and report form. Three of its
// tests fail on purpose so the console output demonstrates failure
// reporting; the command help documents the resulting exit code.
package demo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tinytest-go/tinytest"
	"github.com/tinytest-go/tinytest/internal/journal"
)

// Groups returns the example suite in execution order. Each call builds
// fresh groups, so callers may run them repeatedly.
func Groups() []*tinytest.Group {
	return []*tinytest.Group{
		groupOne(),
		stringTests(),
		thirdGroup(),
		journalStore(),
	}
}

func groupOne() *tinytest.Group {
	return tinytest.NewGroup("test group 1",
		tinytest.Simple("math works", func() bool {
			return 2+2 == 4
		}),

		// Panics escape to the runner boundary and fail the test.
		tinytest.Simple("exception", func() bool {
			panic(errors.New("this is expected"))
		}),
	)
}

func stringTests() *tinytest.Group {
	return tinytest.NewGroup("string tests",
		tinytest.Assert("append and length", func(t *tinytest.T) {
			var b strings.Builder
			const repeats = 1000
			for i := 0; i < repeats; i++ {
				t.Check(i == b.Len())
				b.WriteByte('a')
			}

			// Indexing one past the end must panic.
			s := b.String()
			panicked := func() (p bool) {
				defer func() { p = recover() != nil }()
				_ = s[repeats]
				return false
			}()
			if !panicked {
				t.Fail()
			}
		}),

		tinytest.Assert("back & front", func(t *tinytest.T) {
			const length = 100
			buf := bytes.Repeat([]byte{'q'}, length)
			buf[0] = 'a'
			buf[length-1] = 'b'
			t.Check(buf[0] == 'a' && buf[length-1] == 'b' && bytes.Count(buf, []byte{'q'}) == length-2)
		}),

		tinytest.Assert("empty & clear", func(t *tinytest.T) {
			var str []byte
			t.Check(len(str) == 0)
			str = append(str, strings.Repeat("s", 12)...)
			t.Check(len(str) != 0)
			str = str[:0]
			t.Check(len(str) == 0)
		}),

		tinytest.Assert("several writes", func(t *tinytest.T) {
			lang := "go"
			middle := " is the"
			status := "best"

			var stream strings.Builder
			fmt.Fprintf(&stream, "%s%s %s!", lang, middle, status)
			res := stream.String()
			t.Equals(res, "go is the best!")
			// Fails on purpose and prints both values.
			t.Equals(res, "go is the worst!")
		}),

		tinytest.Timed(0, tinytest.Assert("raw append performance", func(*tinytest.T) {
			const repeats = 1000
			var b []byte
			for i := 0; i < repeats; i++ {
				b = append(b, 'c')
			}
		})),

		// The one-microsecond budget is too tight on purpose, so the
		// overrun report shows up.
		tinytest.Timed(time.Microsecond, tinytest.Assert("reserved append performance", func(*tinytest.T) {
			const repeats = 1000
			b := make([]byte, 0, repeats)
			for i := 0; i < repeats; i++ {
				b = append(b, 'c')
			}
		})),
	)
}

func thirdGroup() *tinytest.Group {
	return tinytest.NewGroup("third group",
		tinytest.Assert("float equals", func(t *tinytest.T) {
			t.FloatEquals(1.0, 1.1, 0.11)
		}),
	)
}

// journalStore runs the harness against a real component: a throwaway
// run journal on disk.
func journalStore() *tinytest.Group {
	return tinytest.NewGroup("journal store",
		tinytest.Assert("record and read back", func(t *tinytest.T) {
			dir, err := os.MkdirTemp("", "tinytest-demo-")
			if !t.Check(err == nil) {
				return
			}
			defer os.RemoveAll(dir)

			j, err := journal.Open(filepath.Join(dir, "demo.db"))
			if !t.Check(err == nil) {
				return
			}
			defer j.Close()

			ctx := context.Background()
			t.Check(j.RecordGroup(ctx, "demo-run", "demo group", true) == nil)

			records, err := j.Runs(ctx, 10)
			t.Check(err == nil)
			if !t.Equals(len(records), 1) {
				return
			}
			t.Equals(records[0].Group, "demo group")
			t.Check(records[0].Passed)
		}),

		tinytest.Assert("empty journal lists nothing", func(t *tinytest.T) {
			dir, err := os.MkdirTemp("", "tinytest-demo-")
			if !t.Check(err == nil) {
				return
			}
			defer os.RemoveAll(dir)

			j, err := journal.Open(filepath.Join(dir, "empty.db"))
			if !t.Check(err == nil) {
				return
			}
			defer j.Close()

			records, err := j.Runs(context.Background(), 5)
			t.Check(err == nil)
			t.Equals(len(records), 0)
		}),
	)
}
