package measure

import (
	"time"
	_ "unsafe"
)

//go:linkname nanotime runtime.nanotime
func nanotime() (mono int64)

// Backend is a source of ticks. Implementations are expected to be empty
// value types so that the zero value can be used to read the clock.
//
// Ticks must be monotonic: a later Now never returns a smaller value than an
// earlier one. Records do not check this.
type Backend interface {
	// Now returns the current tick.
	Now() int64

	// Seconds converts a difference of ticks into seconds.
	Seconds(ticks int64) float64

	// Title is the banner printed above reports for the backend.
	Title() string
}

// Default is the backend used by the package level helpers.
type Default = Mono

// Mono reads the runtime's monotonic clock in nanoseconds.
type Mono struct{}

func (Mono) Now() int64                  { return nanotime() }
func (Mono) Seconds(ticks int64) float64 { return float64(ticks) / 1e9 }
func (Mono) Title() string               { return "runtime nanotime" }

// epoch is the reference point for Wall ticks.
var epoch = time.Now()

// Wall reads time.Now and reports nanoseconds since process start. It is
// slower than Mono but goes through the same clock as the time package.
type Wall struct{}

func (Wall) Now() int64                  { return int64(time.Since(epoch)) }
func (Wall) Seconds(ticks int64) float64 { return time.Duration(ticks).Seconds() }
func (Wall) Title() string               { return "wall clock" }
