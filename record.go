//go:build !nomeasure

package measure

// Enabled reports if measurements are compiled in. Build with the nomeasure
// tag to turn every record and scope into a no-op.
const Enabled = true

// Record accumulates the total time and number of calls for a name. It does
// no locking and does not handle recursion: use it from one goroutine and
// never nest scopes on the same Record. See SyncRecord, RecursiveRecord and
// SyncRecursiveRecord for the other policies.
type Record[B Backend] struct {
	name  string
	ticks int64
	calls uint64
}

// NewRecord constructs a Record and registers it with the Database for B.
// Records are meant to live as long as the process, usually in a package
// level variable.
func NewRecord[B Backend](name string, opts ...Option) *Record[B] {
	r := &Record[B]{name: name}
	register[B](r, opts)
	return r
}

// register adds the entry to the Database for B unless the options say not to.
func register[B Backend](e Entry, opts []Option) {
	if !newOptions(opts).unregistered {
		DatabaseFor[B]().Add(e)
	}
}

// Name returns the name the record was constructed with.
func (r *Record[B]) Name() string { return r.name }

// Now returns the current tick of the backend.
func (r *Record[B]) Now() int64 {
	var b B
	return b.Now()
}

// Done accumulates the time since start as one call.
func (r *Record[B]) Done(start int64) {
	var b B
	r.add(b.Now() - start)
}

func (r *Record[B]) add(ticks int64) {
	r.ticks += ticks
	r.calls++
}

// Calls returns the number of completed calls.
func (r *Record[B]) Calls() uint64 { return r.calls }

// Ticks returns the accumulated ticks.
func (r *Record[B]) Ticks() int64 { return r.ticks }

// Total returns the accumulated time in seconds.
func (r *Record[B]) Total() float64 {
	var b B
	return b.Seconds(r.ticks)
}

// Reset zeroes the calls and time.
func (r *Record[B]) Reset() { r.ticks, r.calls = 0, 0 }

func (r *Record[B]) snapshot() (uint64, int64) { return r.calls, r.ticks }

// Start begins timing a scope. Use it as
//
//	defer rec.Start().Stop()
func (r *Record[B]) Start() Scope[*Record[B]] {
	return Scope[*Record[B]]{rec: r, start: r.Now()}
}
