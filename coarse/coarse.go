// Package coarse implements the reference correctness baseline: a binary
// min-heap protected by a single global mutex. Every operation serializes
// through the lock, so the package makes no attempt at scalability — it
// exists to give the fine-grained and lock-free implementations something
// to be checked against.
package coarse

import (
	"container/heap"
	"errors"
	"sync"
)

// ErrEmpty is returned by RemoveMin when the queue holds no elements. The
// reference's underlying std::priority_queue has undefined behavior on an
// empty top()/pop(); this port adds the explicit check §9 calls for.
var ErrEmpty = errors.New("coarse: queue is empty")

// Entry is one (priority, item) pair held by the queue. Lower Priority is
// extracted first.
type Entry struct {
	Priority int
	Item     any
}

// innerHeap is a container/heap.Interface over a slice of Entry, giving the
// package a standard binary heap without hand-rolling sift-up/down.
type innerHeap []Entry

func (h innerHeap) Len() int            { return len(h) }
func (h innerHeap) Less(i, j int) bool  { return h[i].Priority < h[j].Priority }
func (h innerHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *innerHeap) Push(x interface{}) { *h = append(*h, x.(Entry)) }
func (h *innerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	last := old[n-1]
	*h = old[:n-1]
	return last
}

// Queue is a coarse-grained priority queue: one sync.Mutex guards a
// container/heap-backed binary heap for both Insert and RemoveMin.
type Queue struct {
	mu   sync.Mutex
	heap innerHeap
}

// New returns an empty Queue, ready for concurrent use.
func New() *Queue {
	q := &Queue{}
	heap.Init(&q.heap)
	return q
}

// Insert places (priority, item) into the queue. The linearization point is
// the heap.Push call while the lock is held.
func (q *Queue) Insert(priority int, item any) {
	q.mu.Lock()
	heap.Push(&q.heap, Entry{Priority: priority, Item: item})
	q.mu.Unlock()
}

// RemoveMin extracts and returns the minimum-priority entry. If the queue is
// empty it returns ErrEmpty and the zero Entry, leaving state unchanged.
func (q *Queue) RemoveMin() (Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.heap.Len() == 0 {
		return Entry{}, ErrEmpty
	}
	return heap.Pop(&q.heap).(Entry), nil
}

// Len reports the number of elements currently held.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}
