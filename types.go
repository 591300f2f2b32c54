package measure

import "github.com/zeebo/errs"

// Error is the class of errors returned by this package.
var Error = errs.Class("measure")

// Timed is implemented by every record: something that can hand out a start
// tick and later accumulate the interval since it.
type Timed interface {
	Now() int64
	Done(start int64)
}

// Nested is implemented by records that track how deeply they are entered so
// that only the outermost scope is timed.
type Nested interface {
	Timed

	// Enter increments the depth and reports if it became 1.
	Enter() bool

	// Exit decrements the depth and reports if it became 0.
	Exit() bool
}

// Entry is what a Database holds: a named accumulator of any policy.
type Entry interface {
	Name() string
	Calls() uint64
	Ticks() int64
	Reset()
}

// Row is a point in time copy of an Entry with its ticks converted into
// seconds by the database's backend.
type Row struct {
	Name    string
	Calls   uint64
	Ticks   int64
	Seconds float64
}

// HasData reports if the row has any time to show. A row with no calls has
// no data, which is different from taking no time.
func (r Row) HasData() bool { return r.Calls > 0 && r.Seconds >= 0 }

// Average returns the seconds per call, or 0 if the row has no data.
func (r Row) Average() float64 {
	if !r.HasData() {
		return 0
	}
	return r.Seconds / float64(r.Calls)
}

// Source is a titled set of rows. Every Database is a Source.
type Source interface {
	Title() string
	Snapshot() []Row
}

// Option configures a record at construction.
type Option func(*options)

type options struct {
	unregistered bool
}

func newOptions(opts []Option) (o options) {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Unregistered keeps the record out of its backend's Database. It is for
// records that are used privately and should not show up in reports.
func Unregistered() Option {
	return func(o *options) { o.unregistered = true }
}
