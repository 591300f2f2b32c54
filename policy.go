//go:build !nomeasure

package measure

import (
	"sync"

	"github.com/petermattis/goid"
)

//
// thread safe
//

// SyncRecord is a Record that can be stopped from many goroutines at once.
// It still double counts recursive calls.
type SyncRecord[B Backend] struct {
	mu sync.Mutex
	Record[B]
}

// NewSyncRecord constructs a SyncRecord and registers it with the Database for B.
func NewSyncRecord[B Backend](name string, opts ...Option) *SyncRecord[B] {
	r := &SyncRecord[B]{Record: Record[B]{name: name}}
	register[B](r, opts)
	return r
}

// Done accumulates the time since start as one call. The clock is read
// before the lock is taken so waiting on other goroutines is not counted.
func (r *SyncRecord[B]) Done(start int64) {
	var b B
	now := b.Now()

	r.mu.Lock()
	r.add(now - start)
	r.mu.Unlock()
}

// Calls returns the number of completed calls.
func (r *SyncRecord[B]) Calls() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Ticks returns the accumulated ticks.
func (r *SyncRecord[B]) Ticks() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

// snapshot returns the calls and ticks read under one lock so they agree.
func (r *SyncRecord[B]) snapshot() (uint64, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, r.ticks
}

// Total returns the accumulated time in seconds.
func (r *SyncRecord[B]) Total() float64 {
	var b B
	return b.Seconds(r.Ticks())
}

// Reset zeroes the calls and time.
func (r *SyncRecord[B]) Reset() {
	r.mu.Lock()
	r.ticks, r.calls = 0, 0
	r.mu.Unlock()
}

// Start begins timing a scope.
func (r *SyncRecord[B]) Start() Scope[*SyncRecord[B]] {
	return Scope[*SyncRecord[B]]{rec: r, start: r.Now()}
}

//
// recursion safe
//

// RecursiveRecord is a Record that only times the outermost of nested
// scopes, so a recursive function is counted once per top level call. The
// depth is shared by all goroutines, so it must only be used from one.
type RecursiveRecord[B Backend] struct {
	Record[B]
	depth int32
}

// NewRecursiveRecord constructs a RecursiveRecord and registers it with the
// Database for B.
func NewRecursiveRecord[B Backend](name string, opts ...Option) *RecursiveRecord[B] {
	r := &RecursiveRecord[B]{Record: Record[B]{name: name}}
	register[B](r, opts)
	return r
}

// Enter increments the depth and reports if this is the outermost scope.
func (r *RecursiveRecord[B]) Enter() bool {
	r.depth++
	return r.depth == 1
}

// Exit decrements the depth and reports if the outermost scope finished.
func (r *RecursiveRecord[B]) Exit() bool {
	r.depth--
	return r.depth == 0
}

// Depth returns how many scopes are currently entered.
func (r *RecursiveRecord[B]) Depth() int32 { return r.depth }

// Start begins timing a scope if it is the outermost one.
func (r *RecursiveRecord[B]) Start() RecursiveScope[*RecursiveRecord[B]] {
	return NewRecursiveScope(r)
}

//
// thread and recursion safe
//

// SyncRecursiveRecord combines SyncRecord and RecursiveRecord. Every
// goroutine has its own depth, so recursion is detected per goroutine while
// the totals are shared by all of them.
type SyncRecursiveRecord[B Backend] struct {
	SyncRecord[B]
	depths map[int64]int32 // goroutine id to depth, protected by mu
}

// NewSyncRecursiveRecord constructs a SyncRecursiveRecord and registers it
// with the Database for B.
func NewSyncRecursiveRecord[B Backend](name string, opts ...Option) *SyncRecursiveRecord[B] {
	r := &SyncRecursiveRecord[B]{
		SyncRecord: SyncRecord[B]{Record: Record[B]{name: name}},
		depths:     make(map[int64]int32),
	}
	register[B](r, opts)
	return r
}

// Enter increments the calling goroutine's depth and reports if this is its
// outermost scope.
func (r *SyncRecursiveRecord[B]) Enter() bool {
	id := goid.Get()

	r.mu.Lock()
	if r.depths == nil {
		r.depths = make(map[int64]int32)
	}
	depth := r.depths[id] + 1
	r.depths[id] = depth
	r.mu.Unlock()

	return depth == 1
}

// Exit decrements the calling goroutine's depth and reports if its outermost
// scope finished.
func (r *SyncRecursiveRecord[B]) Exit() bool {
	id := goid.Get()

	r.mu.Lock()
	depth := r.depths[id] - 1
	if depth > 0 {
		r.depths[id] = depth
	} else {
		delete(r.depths, id)
	}
	r.mu.Unlock()

	return depth == 0
}

// Depth returns how many scopes the calling goroutine has entered.
func (r *SyncRecursiveRecord[B]) Depth() int32 {
	id := goid.Get()

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.depths[id]
}

// Start begins timing a scope if it is the calling goroutine's outermost one.
func (r *SyncRecursiveRecord[B]) Start() RecursiveScope[*SyncRecursiveRecord[B]] {
	return NewRecursiveScope(r)
}
