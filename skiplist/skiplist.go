// Package skiplist implements the lock-free priority queue: a probabilistic
// skiplist ordered by priority, with atomic markable next-pointers and a
// logical-then-physical deletion protocol. Unlike package coarse and
// package fineheap, no lock guards the list itself: next-pointers and
// deletion flags change only through CAS and atomic exchange, and
// contention on them shows up as CAS retries. Each operation does take the
// level generator's and the epoch registry's internal sync.Mutex for short
// critical sections, so it can block briefly on those.
package skiplist

import (
	"errors"
	"math"
	"time"

	"github.com/bhavanajain/concurrent-priority-queues/internal/epoch"
	"github.com/bhavanajain/concurrent-priority-queues/internal/levelgen"
)

// EmptyPriority is returned by RemoveMin when the queue held no elements.
const EmptyPriority = math.MinInt

// Sentinel priorities reserved for the head and tail nodes; never valid as
// a user-supplied priority.
const (
	negInf = math.MinInt
	posInf = math.MaxInt
)

var (
	// ErrEmpty is returned by RemoveMin when the queue holds no elements.
	ErrEmpty = errors.New("skiplist: queue is empty")
	// ErrDuplicatePriority is returned by Insert when the priority is
	// already present among the live (not-yet-removed) nodes.
	ErrDuplicatePriority = errors.New("skiplist: duplicate priority")
	// ErrReservedPriority is returned when a caller tries to insert one of
	// the head/tail sentinel priorities.
	ErrReservedPriority = errors.New("skiplist: priority collides with a sentinel value")
)

const defaultP = 0.5

// Queue is the lock-free skiplist priority queue.
type Queue struct {
	head, tail *node
	maxHeight  int
	levels     *levelgen.Generator
	reclaim    *epoch.Registry
}

// New returns an empty Queue whose towers reach at most level maxHeight,
// i.e. at most maxHeight+1 levels counting level 0.
func New(maxHeight int) *Queue {
	if maxHeight < 0 {
		panic("skiplist: maxHeight must be non-negative")
	}
	q := &Queue{
		maxHeight: maxHeight,
		levels:    levelgen.New(defaultP, maxHeight, time.Now().UnixNano()),
		reclaim:   epoch.NewRegistry(),
	}
	q.head = newNode(negInf, nil, maxHeight)
	q.tail = newNode(posInf, nil, maxHeight)
	for i := 0; i <= maxHeight; i++ {
		q.head.next[i].Set(q.tail, false)
	}
	return q
}

// findNode locates priority's neighborhood at every level, splicing out any
// marked or logically-deleted node it encounters along the way. preds and
// succs must each have length maxHeight+1; on return preds[L]/succs[L] are
// unmarked neighbors of the target slot at level L. Reports whether
// priority is currently present.
func (q *Queue) findNode(priority int, preds, succs []*node) bool {
outer:
	for {
		pred := q.head
		var curr *node
		for level := q.maxHeight; level >= 0; level-- {
			curr = pred.next[level].Reference()
			for {
				succ, marked := curr.next[level].Get()
				for marked || curr.deleted.Load() {
					if !pred.next[level].CAS(curr, succ, false, false) {
						continue outer
					}
					curr = pred.next[level].Reference()
					succ, marked = curr.next[level].Get()
				}
				if curr.priority < priority {
					pred = curr
					curr = succ
				} else {
					break
				}
			}
			preds[level] = pred
			succs[level] = curr
		}
		return curr.priority == priority
	}
}

func (q *Queue) freshPredSucc() (preds, succs []*node) {
	return make([]*node, q.maxHeight+1), make([]*node, q.maxHeight+1)
}

// Insert adds priority/value to the queue. Priorities are unique across
// live entries: Insert returns false (and ErrDuplicatePriority) if priority
// is already present rather than replacing it or permitting a duplicate.
func (q *Queue) Insert(priority int, value any) (bool, error) {
	if priority == negInf || priority == posInf {
		return false, ErrReservedPriority
	}

	topLevel := q.levels.Level()
	preds, succs := q.freshPredSucc()

	guard := q.reclaim.Pin()
	defer guard.Unpin()

	for {
		if q.findNode(priority, preds, succs) {
			return false, ErrDuplicatePriority
		}

		newNode := newNode(priority, value, topLevel)
		for i := 0; i <= topLevel; i++ {
			newNode.next[i].Set(succs[i], false)
		}

		pred, succ := preds[0], succs[0]
		if !pred.next[0].CAS(succ, newNode, false, false) {
			continue
		}

		for level := 1; level <= topLevel; level++ {
			for {
				pred, succ = preds[level], succs[level]
				if pred.next[level].CAS(succ, newNode, false, false) {
					break
				}
				q.findNode(priority, preds, succs)
			}
		}
		return true, nil
	}
}

// findAndMarkMin walks the bottom level from head and logically deletes the
// first live node it finds by flipping its deleted flag false->true. The
// successful flip is the linearization point of the logical removal.
func (q *Queue) findAndMarkMin() *node {
	curr := q.head.next[0].Reference()
	for curr != q.tail {
		if !curr.deleted.Load() {
			if !curr.deleted.Swap(true) {
				return curr
			}
		}
		curr = curr.next[0].Reference()
	}
	return nil
}

// remove physically unlinks the node findNode reports for priority. findNode
// itself splices out every node whose deleted flag is set and reports it as
// absent, so for a node already claimed by findAndMarkMin the unlinking
// happens inside the first findNode call and remove returns false without
// marking or retiring it. When findNode does report a node, remove marks
// its outgoing pointers top-down, level 0 last, calls findNode again to
// splice it out at every level, and hands it to the epoch registry.
func (q *Queue) remove(priority int) bool {
	preds, succs := q.freshPredSucc()

	for {
		if !q.findNode(priority, preds, succs) {
			return false
		}

		nodeToRemove := succs[0]
		for level := nodeToRemove.topLevel; level >= 1; level-- {
			succ, marked := nodeToRemove.next[level].Get()
			for !marked {
				nodeToRemove.next[level].CAS(succ, succ, false, true)
				succ, marked = nodeToRemove.next[level].Get()
			}
		}

		succ, marked := nodeToRemove.next[0].Get()
		for {
			iMarkedIt := nodeToRemove.next[0].CAS(succ, succ, false, true)
			succ, marked = nodeToRemove.next[0].Get()
			if iMarkedIt {
				q.findNode(priority, preds, succs)
				removed := nodeToRemove
				q.reclaim.Retire(func() {
					for _, ref := range removed.next {
						ref.Set(nil, true)
					}
				})
				return true
			}
			if marked {
				return false
			}
		}
	}
}

// RemoveMin claims and physically unlinks the current minimum-priority
// node, returning its priority. Returns ErrEmpty if the queue holds no
// live elements.
func (q *Queue) RemoveMin() (int, error) {
	guard := q.reclaim.Pin()
	defer guard.Unpin()

	min := q.findAndMarkMin()
	if min == nil {
		return EmptyPriority, ErrEmpty
	}
	priority := min.priority
	q.remove(priority)
	return priority, nil
}
