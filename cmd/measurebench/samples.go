package main

import (
	"fmt"
	"math"

	"github.com/zeebo/measure"
)

// sink keeps the sample loops from being optimized away.
var sink uint64

func triangle(n uint64) uint64 { return n * (n - 1) / 2 }

// sumTo adds the numbers below n into sink and checks the result.
func sumTo(n uint64) error {
	sink = 0
	for i := uint64(0); i < n; i++ {
		sink += i
	}
	if sink != triangle(n) {
		return Error.New("sum of %d numbers is %d", n, sink)
	}
	return nil
}

// runSamples shows every way of measuring a region on the backend B. The
// records are looked up by name so running it again adds to the same rows.
func runSamples[B measure.Backend](loops uint64) error {
	defer measure.GetRecord[B]("RunSamples").Start().Stop()
	log.Info().Uint64("loops", loops).Msg("running samples")

	steps := []struct {
		name string
		run  func(uint64) error
	}{
		{"scope", sampleScope[B]},
		{"manual", sampleManual[B]},
		{"explicit scope", sampleExplicitScope[B]},
		{"safe", sampleSafe[B]},
		{"safe dynamic", sampleDynamic[B]},
		{"recursion", sampleRecursion[B]},
	}
	for _, step := range steps {
		log.Debug().Str("sample", step.name).Msg("running")
		if err := step.run(loops); err != nil {
			return Error.New("%s: %v", step.name, err)
		}
	}
	return nil
}

// sampleScope is the usual way to measure: a record and a deferred scope.
// It is fast but neither goroutine nor recursion safe.
func sampleScope[B measure.Backend](loops uint64) error {
	rec := measure.GetRecord[B]("Measure with scope")
	defer rec.Start().Stop()

	return sumTo(loops)
}

// sampleManual reads the clock and finishes the call by hand. A panic in
// between loses the call.
func sampleManual[B measure.Backend](loops uint64) error {
	rec := measure.GetRecord[B]("Naive solution")

	start := rec.Now()
	err := sumTo(loops)
	rec.Done(start)

	return err
}

// sampleExplicitScope keeps the scope in a variable instead of deferring.
func sampleExplicitScope[B measure.Backend](loops uint64) error {
	rec := measure.GetRecord[B]("Measure with explicit scope")

	scope := measure.NewScope(rec)
	err := sumTo(loops)
	scope.Stop()

	return err
}

// sampleSafe uses the goroutine and recursion safe policy, which costs the
// most per call.
func sampleSafe[B measure.Backend](loops uint64) error {
	rec := measure.GetSyncRecursiveRecord[B]("Measure with thread and recursion safe scope")
	defer rec.Start().Stop()

	return sumTo(loops)
}

// sampleDynamic measures every iteration with records named at runtime. The
// records are looked up once per name, outside of the loop.
func sampleDynamic[B measure.Backend](loops uint64) error {
	loops /= 2
	for j := 0; j < 5; j++ {
		rec := measure.GetSyncRecursiveRecord[B](fmt.Sprintf("DynamicMeasure_%d", j))

		sink = 0
		for i := uint64(0); i < loops; i++ {
			scope := rec.Start()
			sink += i
			scope.Stop()
		}
		if sink != triangle(loops) {
			return Error.New("dynamic sum of %d numbers is %d", loops, sink)
		}
	}
	return nil
}

// recursionResult is the total time of every record in the recursion sample.
type recursionResult struct {
	main, base, sync, recursive, syncRecursive float64
}

// sampleRecursion times a recursive function with every policy and checks
// that only the recursion safe ones match the time of the whole call.
func sampleRecursion[B measure.Backend](loops uint64) error {
	if !measure.Enabled {
		return nil
	}

	res := measureRecursion[B](loops, 9)
	log.Info().
		Float64("total_ms", res.main*1e3).
		Float64("base_ms", res.base*1e3).
		Float64("sync_ms", res.sync*1e3).
		Float64("recursive_ms", res.recursive*1e3).
		Float64("sync_recursive_ms", res.syncRecursive*1e3).
		Msg("recursion")

	return res.check(10)
}

func measureRecursion[B measure.Backend](loops uint64, depth int) (res recursionResult) {
	outer := measure.GetRecord[B]("RecursionTest_Main")
	base := measure.GetRecord[B]("RecursiveFunction_Base")
	locked := measure.GetSyncRecord[B]("RecursiveFunction_Sync")
	recursive := measure.GetRecursiveRecord[B]("RecursiveFunction_Recursive")
	both := measure.GetSyncRecursiveRecord[B]("RecursiveFunction_SyncRecursive")

	var recurse func(level int)
	recurse = func(level int) {
		defer base.Start().Stop()
		defer locked.Start().Stop()
		defer recursive.Start().Stop()
		defer both.Start().Stop()

		if level > 0 {
			recurse(level - 1)
			return
		}
		_ = sumTo(loops)
	}

	func() {
		defer outer.Start().Stop()
		recurse(depth)
	}()

	return recursionResult{
		main:          outer.Total(),
		base:          base.Total(),
		sync:          locked.Total(),
		recursive:     recursive.Total(),
		syncRecursive: both.Total(),
	}
}

// check reports an error unless the recursion safe totals are close to the
// main total and the unsafe ones are levels times larger.
func (r recursionResult) check(levels int) error {
	near := func(v float64) bool {
		return math.Abs(v-r.main) <= 0.01*r.main+1e-4
	}
	inflated := func(v float64) bool {
		return v > r.main*float64(levels)/2
	}

	switch {
	case !near(r.recursive):
		return Error.New("recursive total %v is not close to %v", r.recursive, r.main)
	case !near(r.syncRecursive):
		return Error.New("sync recursive total %v is not close to %v", r.syncRecursive, r.main)
	case !inflated(r.base):
		return Error.New("base total %v is not inflated over %v", r.base, r.main)
	case !inflated(r.sync):
		return Error.New("sync total %v is not inflated over %v", r.sync, r.main)
	}
	return nil
}
