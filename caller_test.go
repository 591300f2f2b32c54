//go:build !nomeasure

package measure

import (
	"testing"

	"github.com/zeebo/assert"
)

func callerStart() { defer Start().Stop() }

var callerThunk Thunk

func callerThunked() { defer callerThunk.Start().Stop() }

type callerType struct{}

func (callerType) method() { defer Start().Stop() }

func TestCaller(t *testing.T) {
	t.Run("Start", func(t *testing.T) {
		callerStart()
		callerStart()

		rec := GetSyncRecursiveRecord[Default]("github.com/zeebo/measure.callerStart")
		assert.Equal(t, rec.Calls(), uint64(2))
	})

	t.Run("Method", func(t *testing.T) {
		callerType{}.method()

		rec := GetSyncRecursiveRecord[Default]("github.com/zeebo/measure.callerType.method")
		assert.Equal(t, rec.Calls(), uint64(1))
	})

	t.Run("Thunk", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			callerThunked()
		}

		rec := GetSyncRecursiveRecord[Default]("github.com/zeebo/measure.callerThunked")
		assert.Equal(t, rec.Calls(), uint64(3))
		assert.That(t, callerThunk.rec.Load() == rec)
	})
}

func BenchmarkCaller(b *testing.B) {
	b.Run("Start", func(b *testing.B) {
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			func() { defer Start().Stop() }()
		}
	})

	b.Run("Thunk", func(b *testing.B) {
		var thunk Thunk
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			func() { defer thunk.Start().Stop() }()
		}
	})
}
