package lfht

import (
	"math/bits"
	"sync/atomic"
)

// bitmap records which buckets of a table have ever been filled. Bits are
// only ever set, so concurrent readers see a subset of the final state.
type bitmap [1]uint64

func (b *bitmap) clone() bitmap {
	return bitmap{atomic.LoadUint64(&b[0])}
}

func (b *bitmap) set(idx uint) {
	bit := uint64(1) << (idx & 63)
	for {
		old := atomic.LoadUint64(&b[0])
		if old&bit != 0 || atomic.CompareAndSwapUint64(&b[0], old, old|bit) {
			return
		}
	}
}

func (b *bitmap) has(idx uint) bool {
	return atomic.LoadUint64(&b[0])&(1<<(idx&63)) > 0
}

// next pops the lowest set bit. It is only used on clones.
func (b *bitmap) next() (idx uint, ok bool) {
	u := b[0]
	if u == 0 {
		return 0, false
	}
	b[0] = u & (u - 1)
	return uint(bits.TrailingZeros64(u)), true
}
