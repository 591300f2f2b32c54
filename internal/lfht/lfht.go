// Package lfht is a lock-free hash trie keyed by strings. Entries can be
// inserted and looked up concurrently but never removed.
package lfht

import (
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/zeebo/xxh3"
)

// https://repositorio.inesctec.pt/bitstream/123456789/5465/1/P-00F-YAG.pdf

//
// parameters for the table
//

const (
	_width    = 3
	_entries  = 1 << _width
	_mask     = _entries - 1
	_bits     = bits.UintSize
	_depth    = 3
	_maxLevel = _bits / _width
)

//
// shorten some common phrases
//

type ptr = unsafe.Pointer

func cas(addr *ptr, old, new ptr) bool { return atomic.CompareAndSwapPointer(addr, old, new) }
func load(addr *ptr) ptr               { return atomic.LoadPointer(addr) }
func store(addr *ptr, val ptr)         { atomic.StorePointer(addr, val) }

// tables live in the same slots as nodes, so they are stored with the low bit set.
func tag[V any](t *Table[V]) ptr   { return unsafe.Add(ptr(t), 1) }
func tagged(p ptr) bool            { return uintptr(p)&1 > 0 }
func untag[V any](p ptr) *Table[V] { return (*Table[V])(unsafe.Add(p, -1)) }

//
// hashing support
//

func hash(x string) uintptr {
	return uintptr(xxh3.HashString(x))
}

//
// helper data types
//

// lazyValue calls fn at most once per upsert no matter how many times the
// insert has to be retried.
type lazyValue[V any] struct {
	value *V
	fn    func() *V
}

func (lv *lazyValue[V]) get() *V {
	if lv.value == nil {
		lv.value = lv.fn()
	}
	return lv.value
}

type hashedKey struct {
	key  string
	hash uintptr
}

//
// data structure
//

type tableHeader struct {
	level  uint
	prev   ptr // *Table of the level above
	bitmap bitmap
}

// Table maps strings to values of type *V. The zero value is an empty table.
type Table[V any] struct {
	tableHeader
	_       [64 - unsafe.Sizeof(tableHeader{})]byte // pad to cache line
	buckets [_entries]ptr
}

func (t *Table[V]) parent() *Table[V] { return (*Table[V])(t.prev) }

func (t *Table[V]) getHashBucket(hash uintptr) (*ptr, uint) {
	idx := uint(hash>>((t.level*_width)&(_bits-1))) & _mask
	return &t.buckets[idx], idx
}

// rewind walks from the table pointed at by a tagged reference back up to the
// child of t. It never climbs above t.
func (t *Table[V]) rewind(ref ptr) *Table[V] {
	prev := untag[V](ref)
	for prev != t && prev.level > t.level+1 && prev.prev != nil {
		prev = prev.parent()
	}
	return prev
}

type node[V any] struct {
	key   string
	value *V
	next  ptr
}

func (n *node[V]) getNextRef() *ptr { return &n.next }

//
// upsert
//

// Upsert returns the value stored for k, calling fn to create and store one
// if none exists. When multiple goroutines race to insert the same key, fn may
// be called by more than one of them but only one result is stored and
// returned to all of them.
func (t *Table[V]) Upsert(k string, fn func() *V) *V {
	return t.upsert(hashedKey{key: k, hash: hash(k)}, &lazyValue[V]{fn: fn}).value
}

func (t *Table[V]) upsert(key hashedKey, value *lazyValue[V]) *node[V] {
	bucket, idx := t.getHashBucket(key.hash)
	entryRef := load(bucket)
	if entryRef == nil {
		newNode := &node[V]{key: key.key, value: value.get(), next: tag(t)}
		if cas(bucket, nil, ptr(newNode)) {
			t.bitmap.set(idx)
			return newNode
		}
		entryRef = load(bucket)
	}

	if tagged(entryRef) {
		return untag[V](entryRef).upsert(key, value)
	}
	return (*node[V])(entryRef).upsert(key, value, t, 1)
}

func (n *node[V]) upsert(key hashedKey, value *lazyValue[V], t *Table[V], count int) *node[V] {
	if n.key == key.key {
		return n
	}

	next := n.getNextRef()
	nextRef := load(next)
	if nextRef == tag(t) {
		if count == _depth && t.level+1 < _maxLevel {
			newTable := &Table[V]{tableHeader: tableHeader{
				level: t.level + 1,
				prev:  ptr(t),
			}}
			if cas(next, tag(t), tag(newTable)) {
				bucket, _ := t.getHashBucket(key.hash)
				adjustChainNodes((*node[V])(load(bucket)), newTable)
				store(bucket, tag(newTable))
				return newTable.upsert(key, value)
			}
		} else {
			newNode := &node[V]{key: key.key, value: value.get(), next: tag(t)}
			if cas(next, tag(t), ptr(newNode)) {
				return newNode
			}
		}
		nextRef = load(next)
	}

	if tagged(nextRef) {
		return t.rewind(nextRef).upsert(key, value)
	}
	return (*node[V])(nextRef).upsert(key, value, t, count+1)
}

//
// adjust
//

func adjustChainNodes[V any](r *node[V], t *Table[V]) {
	next := r.getNextRef()
	nextRef := load(next)
	if nextRef != tag(t) {
		adjustChainNodes((*node[V])(nextRef), t)
	}
	t.adjustNode(r)
}

func (t *Table[V]) adjustNode(n *node[V]) {
	next := n.getNextRef()
	store(next, tag(t))

	bucket, idx := t.getHashBucket(hash(n.key))
	entryRef := load(bucket)
	if entryRef == nil {
		if cas(bucket, nil, ptr(n)) {
			t.bitmap.set(idx)
			return
		}
		entryRef = load(bucket)
	}

	if tagged(entryRef) {
		untag[V](entryRef).adjustNode(n)
		return
	}
	n.adjustNode(t, (*node[V])(entryRef), 1)
}

func (n *node[V]) adjustNode(t *Table[V], r *node[V], count int) {
	next := r.getNextRef()
	nextRef := load(next)
	if nextRef == tag(t) {
		if count == _depth && t.level+1 < _maxLevel {
			newTable := &Table[V]{tableHeader: tableHeader{
				level: t.level + 1,
				prev:  ptr(t),
			}}
			if cas(next, tag(t), tag(newTable)) {
				bucket, _ := t.getHashBucket(hash(n.key))
				adjustChainNodes((*node[V])(load(bucket)), newTable)
				store(bucket, tag(newTable))
				newTable.adjustNode(n)
				return
			}
		} else if cas(next, tag(t), ptr(n)) {
			return
		}
		nextRef = load(next)
	}

	if tagged(nextRef) {
		t.rewind(nextRef).adjustNode(n)
		return
	}
	n.adjustNode(t, (*node[V])(nextRef), count+1)
}

//
// lookup
//

// Lookup returns the value stored for k or nil.
func (t *Table[V]) Lookup(k string) *V {
	return t.lookup(hashedKey{key: k, hash: hash(k)})
}

func (t *Table[V]) lookup(key hashedKey) *V {
	// if lookup misses are frequent, it may be worthwhile to check
	// the bitmap to avoid a cache miss loading the bucket.
	bucket, _ := t.getHashBucket(key.hash)
	entryRef := load(bucket)
	if entryRef == nil {
		return nil
	}
	if tagged(entryRef) {
		return untag[V](entryRef).lookup(key)
	}
	return (*node[V])(entryRef).lookup(key, t)
}

func (n *node[V]) lookup(key hashedKey, t *Table[V]) *V {
	if n.key == key.key {
		return n.value
	}

	nextRef := load(n.getNextRef())
	if nextRef == tag(t) {
		// end of the chain
		return nil
	}
	if tagged(nextRef) {
		// the chain was moved into a deeper table while we walked it
		if next := t.rewind(nextRef); next.level > t.level {
			return next.lookup(key)
		}
		return nil
	}
	return (*node[V])(nextRef).lookup(key, t)
}

//
// iterator
//

// Iterator walks the entries of a Table in hash order. Entries inserted while
// iterating may or may not be observed.
type Iterator[V any] struct {
	n     *node[V]
	top   int
	stack [_maxLevel]struct {
		table *Table[V]
		pos   bitmap
	}
}

// Iterator returns an Iterator positioned before the first entry.
func (t *Table[V]) Iterator() (itr Iterator[V]) {
	itr.stack[0].table = t
	itr.stack[0].pos = t.bitmap.clone()
	return itr
}

// Next advances the iterator and reports if there is an entry.
func (i *Iterator[V]) Next() bool {
next:
	// if the stack is empty, we're done
	if i.top < 0 {
		return false
	}
	is := &i.stack[i.top]

	// if we don't have a node, load it from the top of the stack
	var nextTable *Table[V]
	if i.n == nil {
		idx, ok := is.pos.next()
		if !ok {
			// if we've walked the whole table, pop it and try again
			i.top--
			goto next
		}

		entryRef := load(&is.table.buckets[idx&_mask])

		// if it's a node, set it and continue
		if !tagged(entryRef) {
			i.n = (*node[V])(entryRef)
			return true
		}

		// otherwise, we need to walk to a new table.
		nextTable = untag[V](entryRef)
	} else {
		// if we have a node, try to walk to the next entry.
		nextRef := load(i.n.getNextRef())

		// if it's a node, set it and continue
		if !tagged(nextRef) {
			i.n = (*node[V])(nextRef)
			return true
		}

		// otherwise, we need to walk to a new table
		nextTable = untag[V](nextRef)
	}

	// if we're on the same table, just go to the next entry
	if nextTable == is.table {
		i.n = nil
		goto next
	}

	// walk nextTable backwards as much as possible.
	for nextTable.prev != nil && nextTable.parent() != is.table {
		nextTable = nextTable.parent()
	}

	// if it's a different table, push it on to the stack.
	if nextTable != is.table {
		i.top++
		i.stack[i.top].table = nextTable
		i.stack[i.top].pos = nextTable.bitmap.clone()
	}

	// walk to the next entry in the top of the stack table
	i.n = nil
	goto next
}

// Key returns the key of the current entry.
func (i *Iterator[V]) Key() string { return i.n.key }

// Value returns the value of the current entry.
func (i *Iterator[V]) Value() *V { return i.n.value }

// Range calls fn for every entry until it returns false.
func (t *Table[V]) Range(fn func(key string, value *V) bool) {
	for iter := t.Iterator(); iter.Next(); {
		if !fn(iter.Key(), iter.Value()) {
			return
		}
	}
}

//
// dumping code
//

const dumpIndent = "|    "

func dumpPointer[V any](indent string, p ptr) {
	if tagged(p) {
		table := untag[V](p)
		fmt.Printf("%stable[%p]:\n", indent, table)
		for i := range &table.buckets {
			dumpPointer[V](indent+dumpIndent, load(&table.buckets[i]))
		}
	} else if p != nil {
		n := (*node[V])(p)
		p := load(&n.next)
		fmt.Printf("%snode[%p](key:%q, value:%p, next:%p):\n", indent, n, n.key, n.value, p)
		if !tagged(p) {
			dumpPointer[V](indent+dumpIndent, load(&n.next))
		}
	}
}

func (t *Table[V]) dump() { dumpPointer[V]("", tag(t)) }
