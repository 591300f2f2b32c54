package measure

const (
	hasCycles   = true
	cyclesTitle = "rdtsc"
)

func readCycles() int64 { return rdtsc() }
