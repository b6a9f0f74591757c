package skiplist

import "sync/atomic"

// link is the (successor, mark) pair a markableRef points to. It is
// immutable once published: every mutation replaces the pointer to a new
// link rather than editing fields in place, which is what lets CAS treat
// (successor, mark) as a single atomic unit.
//
// The reference implementation achieves the same thing by CASing a pointer
// to a small heap-allocated descriptor rather than packing the mark bit
// into the pointer's low bits; this port follows that fallback design for
// portability, as SPEC_FULL.md §9 notes.
type link struct {
	next   *node
	marked bool
}

// markableRef is a word-sized atomic composite of a successor pointer and
// a deletion mark bit, mutated only as a single unit. It is the primitive
// every skiplist next-pointer mutation goes through; all of the queue's
// linearization points are a successful CAS or Get here.
type markableRef struct {
	v atomic.Pointer[link]
}

func newMarkableRef(next *node, marked bool) *markableRef {
	m := &markableRef{}
	m.v.Store(&link{next: next, marked: marked})
	return m
}

// Reference returns just the successor pointer. The underlying Load is the
// linearization point.
func (m *markableRef) Reference() *node {
	return m.v.Load().next
}

// Get returns both the successor and the mark bit, read atomically together.
func (m *markableRef) Get() (next *node, marked bool) {
	l := m.v.Load()
	return l.next, l.marked
}

// Set stores a new (successor, mark) pair unconditionally.
func (m *markableRef) Set(next *node, marked bool) {
	cur := m.v.Load()
	if cur.next == next && cur.marked == marked {
		return
	}
	m.v.Store(&link{next: next, marked: marked})
}

// CAS atomically replaces (expectedNext, expectedMark) with (newNext,
// newMark), and reports whether it did so. If the current value does not
// match (expectedNext, expectedMark), CAS fails even when it already equals
// the target. If it matches and the target equals the expected value, CAS
// reports success without performing a store, the same short-circuit the
// reference implementation relies on.
func (m *markableRef) CAS(expectedNext *node, newNext *node, expectedMark, newMark bool) bool {
	cur := m.v.Load()
	if cur.next != expectedNext || cur.marked != expectedMark {
		return false
	}
	if cur.next == newNext && cur.marked == newMark {
		return true
	}
	return m.v.CompareAndSwap(cur, &link{next: newNext, marked: newMark})
}
