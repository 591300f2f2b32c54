//go:build gen

package main

import (
	. "github.com/mmcloughlin/avo/build"
	. "github.com/mmcloughlin/avo/operand"
	. "github.com/mmcloughlin/avo/reg"
)

//go:generate go run -tags gen gen.go -out ../../tsc_amd64.s -stubs ../../tsc_stub_amd64.go -pkg measure

func main() {
	TEXT("rdtsc", NOSPLIT, "func() int64")
	Doc("rdtsc returns the processor's time stamp counter.")

	// RDTSC leaves the low half in EAX and the high half in EDX, zero
	// extending both into the full registers.
	RDTSC()
	SHLQ(Imm(32), RDX)
	ORQ(RDX, RAX)
	Store(RAX, ReturnIndex(0))
	RET()

	Generate()
}
