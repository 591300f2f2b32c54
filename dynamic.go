//go:build !nomeasure

package measure

import (
	"reflect"
	"sync"

	"github.com/zeebo/measure/internal/lfht"
)

// dynamic owns the records for names only known at runtime. There is one for
// every record type, which is one per (backend, policy) pair.
type dynamic[R any] struct {
	mu        sync.Mutex // serializes creation
	table     lfht.Table[R]
	construct func(name string) *R
}

// dynamics maps a record's reflect.Type to its *dynamic.
var dynamics sync.Map

// dynamicFor returns the dynamic table for records of type R.
func dynamicFor[R any](construct func(name string) *R) *dynamic[R] {
	key := reflect.TypeFor[R]()
	if d, ok := dynamics.Load(key); ok {
		return d.(*dynamic[R])
	}
	d, _ := dynamics.LoadOrStore(key, &dynamic[R]{construct: construct})
	return d.(*dynamic[R])
}

// get returns the record for name, constructing and registering it if this is
// the first time name is seen. The returned pointer is valid forever.
func (d *dynamic[R]) get(name string) *R {
	if r := d.table.Lookup(name); r != nil {
		return r
	}

	// if we missed, we have a slow case. pull it into a function
	// so that the code for it is located elsewhere in the binary
	return d.create(name)
}

// create inserts a record under the mutex so that construct is called once per name.
func (d *dynamic[R]) create(name string) *R {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.table.Upsert(name, func() *R { return d.construct(name) })
}

// GetRecord returns the Record for name, creating it on first use. It takes a
// lock and hashes the name when the record is new, so call it once outside of
// any loop and reuse the result.
func GetRecord[B Backend](name string) *Record[B] {
	return dynamicFor(newRecord[B]).get(name)
}

// GetSyncRecord returns the SyncRecord for name, creating it on first use.
func GetSyncRecord[B Backend](name string) *SyncRecord[B] {
	return dynamicFor(newSyncRecord[B]).get(name)
}

// GetRecursiveRecord returns the RecursiveRecord for name, creating it on first use.
func GetRecursiveRecord[B Backend](name string) *RecursiveRecord[B] {
	return dynamicFor(newRecursiveRecord[B]).get(name)
}

// GetSyncRecursiveRecord returns the SyncRecursiveRecord for name, creating it
// on first use.
func GetSyncRecursiveRecord[B Backend](name string) *SyncRecursiveRecord[B] {
	return dynamicFor(newSyncRecursiveRecord[B]).get(name)
}

func newRecord[B Backend](name string) *Record[B] { return NewRecord[B](name) }
func newSyncRecord[B Backend](name string) *SyncRecord[B] {
	return NewSyncRecord[B](name)
}
func newRecursiveRecord[B Backend](name string) *RecursiveRecord[B] {
	return NewRecursiveRecord[B](name)
}
func newSyncRecursiveRecord[B Backend](name string) *SyncRecursiveRecord[B] {
	return NewSyncRecursiveRecord[B](name)
}
