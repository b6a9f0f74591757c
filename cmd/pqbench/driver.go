package main

import (
	"github.com/bhavanajain/concurrent-priority-queues/coarse"
	"github.com/bhavanajain/concurrent-priority-queues/fineheap"
	"github.com/bhavanajain/concurrent-priority-queues/skiplist"
)

// driver adapts one of the three queue implementations to a single shape so
// the workload goroutines below don't need to know which one they're
// driving. callerID is only meaningful to the fine-grained heap, which
// requires a caller-supplied non-sentinel identity per §6; the coarse and
// skiplist drivers ignore it.
type driver interface {
	insert(callerID int64, priority int) error
	removeMin(callerID int64) (int, error)
}

type coarseDriver struct{ q *coarse.Queue }

func (d coarseDriver) insert(_ int64, priority int) error {
	d.q.Insert(priority, nil)
	return nil
}

func (d coarseDriver) removeMin(_ int64) (int, error) {
	entry, err := d.q.RemoveMin()
	return entry.Priority, err
}

type fineDriver struct{ q *fineheap.Queue }

func (d fineDriver) insert(callerID int64, priority int) error {
	return d.q.Insert(priority, callerID, nil)
}

func (d fineDriver) removeMin(callerID int64) (int, error) {
	return d.q.RemoveMin(callerID)
}

type skiplistDriver struct{ q *skiplist.Queue }

func (d skiplistDriver) insert(_ int64, priority int) error {
	_, err := d.q.Insert(priority, nil)
	return err
}

func (d skiplistDriver) removeMin(_ int64) (int, error) {
	return d.q.RemoveMin()
}

func newDriver(cfg config) driver {
	switch cfg.Queue {
	case "coarse":
		return coarseDriver{q: coarse.New()}
	case "fine":
		return fineDriver{q: fineheap.New(cfg.FineCapacity)}
	case "skiplist":
		return skiplistDriver{q: skiplist.New(16)}
	default:
		panic("pqbench: unreachable: config.validate should have rejected " + cfg.Queue)
	}
}
