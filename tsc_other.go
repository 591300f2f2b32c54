//go:build !amd64

package measure

const (
	hasCycles   = false
	cyclesTitle = "rdtsc (runtime nanotime fallback)"
)

func readCycles() int64 { return nanotime() }
