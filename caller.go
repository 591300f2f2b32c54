//go:build !nomeasure

package measure

import (
	"sync/atomic"

	"github.com/zeebo/this"
)

// Start returns a scope on the SyncRecursiveRecord named after the calling
// function. It looks the record up every time; use a Thunk in hot code.
func Start() RecursiveScope[*SyncRecursiveRecord[Default]] {
	return GetSyncRecursiveRecord[Default](this.ThisN(1)).Start()
}

// Thunk is a type that allows one to get the benefits of Start without having
// to compute the caller every time it's called. Zero values are valid.
type Thunk struct {
	rec atomic.Pointer[SyncRecursiveRecord[Default]]
}

// Start returns a scope on a record named after the first caller. Don't use
// the same Thunk from different functions/methods.
func (t *Thunk) Start() RecursiveScope[*SyncRecursiveRecord[Default]] {
	rec := t.rec.Load()
	if rec == nil {
		rec = GetSyncRecursiveRecord[Default](this.ThisN(1))
		t.rec.Store(rec)
	}
	return rec.Start()
}
