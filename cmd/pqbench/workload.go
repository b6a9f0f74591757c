package main

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// result is one worker's contribution to the run's aggregate latency totals.
type result struct {
	insertUs int64
	removeUs int64
}

// runWorkload starts cfg.InsertThreads insert goroutines and
// cfg.RemoveThreads remove goroutines against d, releases them together by
// closing ready, and returns once every goroutine has completed its quota of
// operations.
func runWorkload(cfg config, d driver, trace zerolog.Logger) (insertTotalUs, removeTotalUs int64, err error) {
	ready := make(chan struct{})
	var g errgroup.Group
	var nextCallerID int64

	for w := 0; w < cfg.InsertThreads; w++ {
		callerID := atomic.AddInt64(&nextCallerID, 1)
		w := w
		g.Go(func() error {
			<-ready
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + callerID))
			var sum int64
			for i := 0; i < cfg.InsertsPer; i++ {
				delay := time.Duration(rng.ExpFloat64()*float64(cfg.MeanInsertUs)) * time.Microsecond
				time.Sleep(delay)

				priority := rng.Intn(cfg.PriorityRange)
				start := time.Now()
				opErr := d.insert(callerID, priority)
				elapsed := time.Since(start).Microseconds()
				sum += elapsed

				ev := trace.Info().Int("worker", w).Str("op", "insert").Int("priority", priority).Int64("latency_us", elapsed)
				if opErr != nil {
					ev.Err(opErr).Msg("insert rejected")
				} else {
					ev.Msg("insert")
				}
			}
			atomic.AddInt64(&insertTotalUs, sum)
			return nil
		})
	}

	for w := 0; w < cfg.RemoveThreads; w++ {
		callerID := atomic.AddInt64(&nextCallerID, 1)
		w := w
		g.Go(func() error {
			<-ready
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + callerID))
			var sum int64
			for i := 0; i < cfg.RemovesPer; i++ {
				delay := time.Duration(rng.ExpFloat64()*float64(cfg.MeanRemoveUs)) * time.Microsecond
				time.Sleep(delay)

				start := time.Now()
				priority, opErr := d.removeMin(callerID)
				elapsed := time.Since(start).Microseconds()
				sum += elapsed

				ev := trace.Info().Int("worker", w).Str("op", "removeMin").Int64("latency_us", elapsed)
				if opErr != nil {
					ev.Bool("empty", true).Msg("removeMin")
				} else {
					ev.Int("priority", priority).Msg("removeMin")
				}
			}
			atomic.AddInt64(&removeTotalUs, sum)
			return nil
		})
	}

	close(ready)
	if err := g.Wait(); err != nil {
		return insertTotalUs, removeTotalUs, err
	}
	return insertTotalUs, removeTotalUs, nil
}
