//go:build !linux

package measure

// OS reads the operating system's high resolution counter. On this platform
// that is the runtime's monotonic clock.
type OS struct{}

func (OS) Now() int64                  { return nanotime() }
func (OS) Seconds(ticks int64) float64 { return float64(ticks) / 1e9 }
func (OS) Title() string               { return "clock_gettime" }
