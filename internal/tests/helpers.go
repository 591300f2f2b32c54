// Package tests holds keys and benchmarks shared by the name table tests.
package tests

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/zeebo/pcg"
)

// Value is the value every table under test stores.
var Value = new(int)

// Empty is the constructor handed to Upsert.
func Empty() *int { return Value }

const (
	Size = 1 << 14
	Mask = Size - 1
)

var keys = make([]string, Size)

func init() {
	for i := range keys {
		keys[i] = fmt.Sprintf("measure.%064d", i)
	}
}

// Key returns a stable record name for i.
func Key(i uint32) (s string) { return keys[i&Mask] }

// Type is a string keyed table of values.
type Type interface {
	Upsert(string, func() *int) *int
	Lookup(string) *int
}

// RunBenchmarks runs the common table benchmarks against tables from fn.
func RunBenchmarks(b *testing.B, fn func() Type) {
	rng := pcg.New(0)

	b.Run("UpsertFull", func(b *testing.B) {
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			t := fn()
			for i := 0; i < Size; i++ {
				t.Upsert(Key(rng.Uint32n(Size)), Empty)
			}
		}
	})

	b.Run("Upsert", func(b *testing.B) {
		t := fn()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			t.Upsert(Key(rng.Uint32n(Size)), Empty)
		}
	})

	b.Run("Lookup", func(b *testing.B) {
		var sink *int
		t := fn()
		for i := uint32(0); i < Size; i++ {
			t.Upsert(Key(i), Empty)
		}
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			sink = t.Lookup(Key(rng.Uint32n(Size)))
		}

		runtime.KeepAlive(sink)
	})

	b.Run("LookupParallel", func(b *testing.B) {
		t := fn()
		for i := uint32(0); i < Size; i++ {
			t.Upsert(Key(i), Empty)
		}
		b.ReportAllocs()
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			rng := pcg.New(pcg.Uint64())
			for pb.Next() {
				t.Lookup(Key(rng.Uint32n(Size)))
			}
		})
	})

	b.Run("UpsertFullParallel", func(b *testing.B) {
		procs := runtime.GOMAXPROCS(-1)
		iters := Size / procs
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			t := fn()
			var wg sync.WaitGroup

			for i := 0; i < procs; i++ {
				wg.Add(1)
				go func() {
					rng := pcg.New(pcg.Uint64())
					for i := 0; i < iters; i++ {
						t.Upsert(Key(rng.Uint32n(Size)), Empty)
					}
					wg.Done()
				}()
			}
			wg.Wait()
		}
	})
}
