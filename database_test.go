//go:build !nomeasure

package measure

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/zeebo/assert"
)

func TestDatabase(t *testing.T) {
	db := DatabaseFor[isolated]()
	assert.Equal(t, db.Title(), "isolated")
	assert.That(t, db == DatabaseFor[isolated]())
	assert.That(t, Source(db) != Source(DatabaseFor[manual]()))

	first := NewRecord[isolated]("db-first")
	second := NewSyncRecord[isolated]("db-second")
	third := NewRecursiveRecord[isolated]("db-third")
	fourth := NewSyncRecursiveRecord[isolated]("db-fourth")

	t.Run("Order", func(t *testing.T) {
		entries := db.Records()
		assert.Equal(t, len(entries), 4)
		assert.Equal(t, db.Len(), 4)
		assert.Equal(t, entries[0].Name(), "db-first")
		assert.Equal(t, entries[1].Name(), "db-second")
		assert.Equal(t, entries[2].Name(), "db-third")
		assert.Equal(t, entries[3].Name(), "db-fourth")
	})

	t.Run("Find", func(t *testing.T) {
		e, ok := db.Find("db-third")
		assert.That(t, ok)
		assert.That(t, e == Entry(third))

		_, ok = db.Find("db-missing")
		assert.That(t, !ok)
	})

	t.Run("Snapshot", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			s := first.Start()
			advance(250000)
			s.Stop()
		}
		second.Start().Stop()

		rows := db.Snapshot()
		assert.Equal(t, len(rows), 4)

		assert.Equal(t, rows[0], Row{Name: "db-first", Calls: 4, Ticks: 1000000, Seconds: 1})
		assert.Equal(t, rows[0].Average(), 0.25)
		assert.That(t, rows[0].HasData())

		assert.Equal(t, rows[1].Calls, uint64(1))
		assert.That(t, rows[1].HasData())

		assert.Equal(t, rows[2].Calls, uint64(0))
		assert.That(t, !rows[2].HasData())
		assert.Equal(t, rows[2].Average(), 0.0)
	})

	t.Run("ResetAll", func(t *testing.T) {
		first.Start().Stop()
		fourth.Start().Stop()
		db.ResetAll()

		for _, row := range db.Snapshot() {
			assert.Equal(t, row.Calls, uint64(0))
			assert.Equal(t, row.Ticks, int64(0))
		}

		first.Start().Stop()
		assert.Equal(t, first.Calls(), uint64(1))
		assert.Equal(t, fourth.Calls(), uint64(0))
	})

	t.Run("Sources", func(t *testing.T) {
		found := false
		for _, src := range Sources() {
			if src.Title() == "isolated" {
				found = true
			}
		}
		assert.That(t, found)
	})
}

func TestDatabase_SnapshotConsistent(t *testing.T) {
	rec := NewSyncRecord[paired]("db-paired")
	db := DatabaseFor[paired]()

	// the manual clock is not advanced, so every call adds exactly one tick
	var (
		wg   sync.WaitGroup
		stop atomic.Bool
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !stop.Load() {
				rec.Done(rec.Now() - 1)
			}
		}()
	}

	mismatched := 0
	for i := 0; i < 10000; i++ {
		for _, row := range db.Snapshot() {
			if row.Calls != uint64(row.Ticks) {
				mismatched++
			}
		}
	}
	stop.Store(true)
	wg.Wait()

	assert.Equal(t, mismatched, 0)
	assert.Equal(t, rec.Calls(), uint64(rec.Ticks()))
}
