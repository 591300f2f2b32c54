//go:build !nomeasure

package measure

import (
	"testing"

	"github.com/zeebo/assert"
)

// loopSink keeps measured loops from being optimized away.
var loopSink uint64

func TestRecord(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		rec := NewRecord[manual]("record-basic")

		func() {
			defer rec.Start().Stop()
			advance(5)
		}()
		assert.Equal(t, rec.Calls(), uint64(1))
		assert.Equal(t, rec.Ticks(), int64(5))

		func() {
			defer rec.Start().Stop()
			advance(7)
		}()
		assert.Equal(t, rec.Calls(), uint64(2))
		assert.Equal(t, rec.Ticks(), int64(12))
		assert.Equal(t, rec.Total(), 12e-6)
	})

	t.Run("Loop", func(t *testing.T) {
		rec := New("record-loop")

		var last int64
		for i := 0; i < 1000; i++ {
			s := rec.Start()
			s.Stop()

			assert.That(t, rec.Ticks() >= last)
			last = rec.Ticks()
		}
		assert.Equal(t, rec.Calls(), uint64(1000))
	})

	t.Run("Million", func(t *testing.T) {
		rec := New("record-million")

		for i := 0; i < 1000000; i++ {
			func() { defer rec.Start().Stop() }()
		}
		assert.Equal(t, rec.Calls(), uint64(1000000))
		assert.That(t, rec.Total() >= 0)
	})

	t.Run("OneScope", func(t *testing.T) {
		rec := New("record-one-scope")

		func() {
			defer rec.Start().Stop()
			for i := 0; i < 1000000; i++ {
				loopSink++
			}
		}()
		assert.Equal(t, rec.Calls(), uint64(1))
		assert.That(t, rec.Ticks() > 0)
		assert.That(t, rec.Total() > 0)
	})

	t.Run("Panic", func(t *testing.T) {
		rec := NewRecord[manual]("record-panic")

		func() {
			defer func() { _ = recover() }()
			defer rec.Start().Stop()
			advance(3)
			panic("boom")
		}()
		assert.Equal(t, rec.Calls(), uint64(1))
		assert.Equal(t, rec.Ticks(), int64(3))
	})

	t.Run("Reset", func(t *testing.T) {
		rec := NewRecord[manual]("record-reset")

		rec.Start().Stop()
		rec.Reset()
		assert.Equal(t, rec.Calls(), uint64(0))
		assert.Equal(t, rec.Ticks(), int64(0))
	})

	t.Run("Registered", func(t *testing.T) {
		rec := NewRecord[manual]("record-registered")

		e, ok := DatabaseFor[manual]().Find("record-registered")
		assert.That(t, ok)
		assert.Equal(t, e.Name(), rec.Name())
	})

	t.Run("Unregistered", func(t *testing.T) {
		rec := NewRecord[manual]("record-unregistered", Unregistered())
		rec.Start().Stop()

		_, ok := DatabaseFor[manual]().Find("record-unregistered")
		assert.That(t, !ok)
		assert.Equal(t, rec.Calls(), uint64(1))
	})

	t.Run("Enabled", func(t *testing.T) {
		assert.That(t, Enabled)
	})
}

func TestScope(t *testing.T) {
	t.Run("Explicit", func(t *testing.T) {
		rec := NewSyncRecord[manual]("scope-explicit")

		s := NewScope(rec)
		advance(4)
		s.Stop()

		assert.Equal(t, rec.Calls(), uint64(1))
		assert.Equal(t, rec.Ticks(), int64(4))
	})

	t.Run("Recursive", func(t *testing.T) {
		rec := NewRecursiveRecord[manual]("scope-recursive")

		outer := NewRecursiveScope(rec)
		inner := NewRecursiveScope(rec)
		advance(2)
		inner.Stop()
		assert.Equal(t, rec.Calls(), uint64(0))
		advance(2)
		outer.Stop()

		assert.Equal(t, rec.Calls(), uint64(1))
		assert.Equal(t, rec.Ticks(), int64(4))
	})
}

func BenchmarkRecord(b *testing.B) {
	b.Run("Base", func(b *testing.B) {
		rec := New("bench-base", Unregistered())
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			func() { defer rec.Start().Stop() }()
		}
	})

	b.Run("Sync", func(b *testing.B) {
		rec := NewSync("bench-sync", Unregistered())
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			func() { defer rec.Start().Stop() }()
		}
	})

	b.Run("Recursive", func(b *testing.B) {
		rec := NewRecursive("bench-recursive", Unregistered())
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			func() { defer rec.Start().Stop() }()
		}
	})

	b.Run("SyncRecursive", func(b *testing.B) {
		rec := NewSyncRecursive("bench-sync-recursive", Unregistered())
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			func() { defer rec.Start().Stop() }()
		}
	})

	b.Run("NoDefer", func(b *testing.B) {
		rec := New("bench-no-defer", Unregistered())
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			s := rec.Start()
			s.Stop()
		}
	})

	b.Run("Sync_Parallel", func(b *testing.B) {
		rec := NewSync("bench-sync-parallel", Unregistered())
		b.ReportAllocs()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				rec.Start().Stop()
			}
		})
	})
}
