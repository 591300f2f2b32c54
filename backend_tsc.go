package measure

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// TSC reads the processor's cycle counter. On architectures without one it
// falls back to the runtime clock with a frequency of 1GHz.
//
// The counter frequency is calibrated the first time ticks are converted to
// seconds unless SetTSCFrequency was called first.
type TSC struct{}

func (TSC) Now() int64                  { return readCycles() }
func (TSC) Seconds(ticks int64) float64 { return float64(ticks) / float64(tscFrequency()) }
func (TSC) Title() string               { return cyclesTitle }

// tscCalibration is how long the lazy calibration sleeps in total.
const tscCalibration = 250 * time.Millisecond

var (
	tscOnce sync.Once
	tscHz   uint64
)

// tscFrequency returns the calibrated frequency in Hz.
func tscFrequency() uint64 {
	tscOnce.Do(func() {
		if atomic.LoadUint64(&tscHz) == 0 {
			atomic.StoreUint64(&tscHz, CalibrateTSC(tscCalibration))
		}
	})
	return atomic.LoadUint64(&tscHz)
}

// SetTSCFrequency overrides the frequency used to convert TSC ticks into
// seconds. A zero value is ignored.
func SetTSCFrequency(hz uint64) {
	if hz == 0 {
		return
	}
	tscOnce.Do(func() {})
	atomic.StoreUint64(&tscHz, hz)
}

// CalibrateTSC estimates the cycle counter frequency in Hz by sleeping for
// window split into a few samples and counting cycles against the runtime
// clock. The median sample is returned. It never returns zero.
func CalibrateTSC(window time.Duration) uint64 {
	if !hasCycles {
		return 1e9
	}

	const samples = 5
	each := window / samples
	if each <= 0 {
		each = time.Millisecond
	}

	freqs := make([]uint64, 0, samples)
	for i := 0; i < samples; i++ {
		startNanos, startCycles := nanotime(), readCycles()
		time.Sleep(each)
		endCycles, endNanos := readCycles(), nanotime()

		if elapsed := endNanos - startNanos; elapsed > 0 {
			freqs = append(freqs, uint64(float64(endCycles-startCycles)/(float64(elapsed)/1e9)))
		}
	}

	if len(freqs) == 0 {
		return 1e9
	}
	sort.Slice(freqs, func(i, j int) bool { return freqs[i] < freqs[j] })
	if hz := freqs[len(freqs)/2]; hz > 0 {
		return hz
	}
	return 1e9
}
