package measure

import "sync/atomic"

// manualTicks is the clock read by manual. Tests move it with advance.
var manualTicks int64

func advance(ticks int64) { atomic.AddInt64(&manualTicks, ticks) }

// manual is a backend whose clock only moves when a test advances it, with
// one tick per microsecond.
type manual struct{}

func (manual) Now() int64                  { return atomic.LoadInt64(&manualTicks) }
func (manual) Seconds(ticks int64) float64 { return float64(ticks) / 1e6 }
func (manual) Title() string               { return "manual" }

// isolated has the same clock as manual but its own Database.
type isolated struct{ manual }

func (isolated) Title() string { return "isolated" }

// fixed is a Source with canned rows.
type fixed struct {
	title string
	rows  []Row
}

func (f fixed) Title() string   { return f.title }
func (f fixed) Snapshot() []Row { return f.rows }

// roster is a backend used only to list dynamically created names.
type roster struct{ manual }

func (roster) Title() string { return "roster" }

// paired is a backend with its own Database for snapshot consistency tests.
type paired struct{ manual }

func (paired) Title() string { return "paired" }
