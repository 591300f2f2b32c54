//go:build !nomeasure

package measure

import (
	"reflect"
	"sync"
)

// Database holds every registered record measured with the backend B, in the
// order they were registered. Records are never removed.
type Database[B Backend] struct {
	mu      sync.Mutex
	entries []Entry
}

// databases maps a backend's reflect.Type to its *Database.
var databases struct {
	m     sync.Map
	mu    sync.Mutex
	order []Source
}

// DatabaseFor returns the Database for the backend B, creating it on first use.
func DatabaseFor[B Backend]() *Database[B] {
	key := reflect.TypeFor[B]()
	if db, ok := databases.m.Load(key); ok {
		return db.(*Database[B])
	}

	databases.mu.Lock()
	defer databases.mu.Unlock()

	// attempt again with the mutex to see if we lost a race
	if db, ok := databases.m.Load(key); ok {
		return db.(*Database[B])
	}

	db := new(Database[B])
	databases.m.Store(key, db)
	databases.order = append(databases.order, db)
	return db
}

// Sources returns every Database that has been created, in creation order.
func Sources() []Source {
	databases.mu.Lock()
	defer databases.mu.Unlock()
	return append([]Source(nil), databases.order...)
}

// Title returns the title of the backend.
func (d *Database[B]) Title() string {
	var b B
	return b.Title()
}

// Add appends the entry to the database.
func (d *Database[B]) Add(e Entry) {
	d.mu.Lock()
	d.entries = append(d.entries, e)
	d.mu.Unlock()
}

// Find returns the first entry registered with the name. It scans every
// entry, so keep it out of hot paths.
func (d *Database[B]) Find(name string) (Entry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.entries {
		if e.Name() == name {
			return e, true
		}
	}
	return nil, false
}

// Len returns the number of registered entries.
func (d *Database[B]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// Records returns a copy of the registered entries in registration order.
func (d *Database[B]) Records() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Entry(nil), d.entries...)
}

// Snapshot returns a Row for every entry in registration order.
func (d *Database[B]) Snapshot() []Row {
	var b B
	entries := d.Records()
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		var calls uint64
		var ticks int64
		if s, ok := e.(snapshotter); ok {
			calls, ticks = s.snapshot()
		} else {
			calls, ticks = e.Calls(), e.Ticks()
		}
		rows = append(rows, Row{
			Name:    e.Name(),
			Calls:   calls,
			Ticks:   ticks,
			Seconds: b.Seconds(ticks),
		})
	}
	return rows
}

// snapshotter is implemented by the records of this package to read their
// calls and ticks together.
type snapshotter interface {
	snapshot() (calls uint64, ticks int64)
}

// ResetAll zeroes the calls and time of every entry. It is useful to print
// more than one report.
func (d *Database[B]) ResetAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.entries {
		e.Reset()
	}
}
