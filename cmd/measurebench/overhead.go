package main

import (
	"fmt"
	"io"
	"time"

	"github.com/zeebo/measure"
)

// dummy is a backend whose clock never moves. Measuring with it shows the
// cost of a policy without the cost of reading a clock.
type dummy struct{}

func (dummy) Now() int64            { return 0 }
func (dummy) Seconds(int64) float64 { return 0 }
func (dummy) Title() string         { return "dummy" }

// stopper and starter are what every record and its scope have in common.
type stopper interface{ Stop() }

type starter[S stopper] interface{ Start() S }

// timeScopes runs the reference loop with a scope around every iteration.
func timeScopes[S stopper, R starter[S]](loops uint64, rec R) {
	sink = 0
	for i := uint64(0); i < loops; i++ {
		s := rec.Start()
		sink += i
		s.Stop()
	}
}

func timeReference(loops uint64) {
	sink = 0
	for i := uint64(0); i < loops; i++ {
		sink += i
	}
}

// overheadCase measures one policy on one backend.
type overheadCase struct {
	title string
	run   func(loops uint64)
}

func overheadCases[B measure.Backend](prefix string) []overheadCase {
	return []overheadCase{
		{prefix + "::Base", func(loops uint64) {
			timeScopes[measure.Scope[*measure.Record[B]]](loops,
				measure.NewRecord[B]("overhead", measure.Unregistered()))
		}},
		{prefix + "::Sync", func(loops uint64) {
			timeScopes[measure.Scope[*measure.SyncRecord[B]]](loops,
				measure.NewSyncRecord[B]("overhead", measure.Unregistered()))
		}},
		{prefix + "::Recursive", func(loops uint64) {
			timeScopes[measure.RecursiveScope[*measure.RecursiveRecord[B]]](loops,
				measure.NewRecursiveRecord[B]("overhead", measure.Unregistered()))
		}},
		{prefix + "::SyncRecursive", func(loops uint64) {
			timeScopes[measure.RecursiveScope[*measure.SyncRecursiveRecord[B]]](loops,
				measure.NewSyncRecursiveRecord[B]("overhead", measure.Unregistered()))
		}},
	}
}

// runOverhead prints the time every policy adds to a call, first with a
// clock that never moves and then with the backend B. The outer loops are
// timed with Mono records so they show up in its report.
func runOverhead[B measure.Backend](w io.Writer, loops uint64) error {
	var b B
	cases := append(overheadCases[dummy]("dummy"), overheadCases[B](b.Title())...)

	ew := &errWriter{w: w}
	fmt.Fprintln(ew, "time consumptions:")
	for _, c := range cases {
		reference := measure.GetRecord[measure.Mono](c.title + "_reference")
		target := measure.GetRecord[measure.Mono](c.title)

		// warm up
		c.run(loops)

		time.Sleep(10 * time.Millisecond)

		func() {
			defer reference.Start().Stop()
			timeReference(loops)
		}()

		func() {
			defer target.Start().Stop()
			c.run(loops)
		}()

		overhead := target.Total() - reference.Total()
		perCall := overhead / float64(loops)
		log.Debug().Str("case", c.title).Float64("seconds", overhead).Msg("measured overhead")

		fmt.Fprintf(ew, "%40s: ~ %8.3f ns/call, ~ %.0f call/sec\n",
			c.title, perCall*1e9, 1/perCall)
	}
	return Error.Wrap(ew.err)
}

// errWriter remembers the first error and drops all writes after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	var n int
	n, e.err = e.w.Write(p)
	return n, e.err
}
