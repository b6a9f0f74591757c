// Package rmutex implements a re-entrant (recursive) mutex keyed by an
// explicit caller-supplied owner id rather than by goroutine identity.
//
// Go has no public notion of "the current goroutine's id", so a recursive
// lock in the usual sense (the same thread may re-acquire a lock it already
// holds) isn't directly expressible. The fine-grained heap queue sidesteps
// this by having every caller identify itself with an integer thread id;
// this package keys re-entrancy off that same id. Two goroutines sharing
// one id would be indistinguishable to Lock/Unlock, which is why the heap
// queue reserves its own distinct thread ids per caller, same as its own
// percolation protocol requires.
//
// The state held is the same shape as a single ilock.Mutex state context
// (a holder count and a condvar barrier gating incompatible requests) but
// collapsed from four intention-lock states down to one: any id may hold
// the lock, any further Lock call under a different id blocks, and Lock
// calls under the same id nest.
package rmutex

import "sync"

// noOwner is never a valid caller id; callers pass their own thread id,
// and the fine-grained heap's id space excludes the heap's own sentinels.
const noOwner int64 = -1

// Mutex is a re-entrant mutex. The zero value is not ready for use; call New.
type Mutex struct {
	mtx   sync.Mutex
	c     *sync.Cond
	owner int64
	depth int
}

// New returns a ready-to-use Mutex.
func New() *Mutex {
	m := &Mutex{owner: noOwner}
	m.c = sync.NewCond(&m.mtx)
	return m
}

// Lock acquires the mutex for id, blocking while some other id holds it.
// If id already holds the mutex, Lock nests and returns immediately.
func (m *Mutex) Lock(id int64) {
	m.mtx.Lock()
	for m.owner != noOwner && m.owner != id {
		m.c.Wait()
	}
	m.owner = id
	m.depth++
	m.mtx.Unlock()
}

// Unlock releases one level of id's hold on the mutex. Once the hold count
// reaches zero the mutex becomes available and blocked waiters are woken.
//
// Unlock panics if id is not the current holder; that is always a caller
// bug (an unbalanced Lock/Unlock pair), not a condition a well-behaved
// concurrent caller can observe in the course of normal operation.
func (m *Mutex) Unlock(id int64) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.owner != id {
		panic("rmutex: Unlock called by non-owner")
	}
	m.depth--
	if m.depth == 0 {
		m.owner = noOwner
		m.c.Broadcast()
	}
}

// Owner reports the id currently holding the mutex, and whether anyone
// holds it at all. It is intended for assertions in tests, not for
// synchronization decisions (the result is stale the instant it's read).
func (m *Mutex) Owner() (id int64, held bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.owner, m.owner != noOwner
}
