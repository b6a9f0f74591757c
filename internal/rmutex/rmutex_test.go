package rmutex

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUnlockSingleOwner(t *testing.T) {
	m := New()
	m.Lock(1)
	id, held := m.Owner()
	assert.True(t, held)
	assert.EqualValues(t, 1, id)
	m.Unlock(1)
	_, held = m.Owner()
	assert.False(t, held)
}

func TestReentrantSameOwner(t *testing.T) {
	m := New()
	m.Lock(7)
	m.Lock(7) // nests; must not deadlock
	m.Unlock(7)
	_, held := m.Owner()
	assert.True(t, held, "still held after only one of two Unlocks")
	m.Unlock(7)
	_, held = m.Owner()
	assert.False(t, held)
}

func TestUnlockByNonOwnerPanics(t *testing.T) {
	m := New()
	m.Lock(1)
	defer m.Unlock(1)
	assert.Panics(t, func() { m.Unlock(2) })
}

// TestExclusionAcrossOwners simulates two distinct thread ids contending for
// the same cell and asserts their critical sections never overlap.
func TestExclusionAcrossOwners(t *testing.T) {
	m := New()
	var active int32
	var overlapped bool
	var wg sync.WaitGroup

	work := func(id int64) {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			m.Lock(id)
			if atomic.AddInt32(&active, 1) > 1 {
				overlapped = true
			}
			time.Sleep(time.Microsecond)
			atomic.AddInt32(&active, -1)
			m.Unlock(id)
		}
	}

	wg.Add(2)
	go work(1)
	go work(2)
	wg.Wait()

	assert.False(t, overlapped, "two distinct owners held the mutex concurrently")
}

// TestBlockedWaiterWakesOnRelease exercises the condvar handoff path: a
// second id must block until the first releases, then proceed.
func TestBlockedWaiterWakesOnRelease(t *testing.T) {
	m := New()
	m.Lock(1)

	acquired := make(chan struct{})
	go func() {
		m.Lock(2)
		close(acquired)
		m.Unlock(2)
	}()

	select {
	case <-acquired:
		t.Fatal("second owner acquired the mutex while the first still held it")
	case <-time.After(20 * time.Millisecond):
	}

	m.Unlock(1)

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second owner never acquired the mutex after release")
	}
}

func TestNoOwnerQueryOnFreshMutex(t *testing.T) {
	m := New()
	_, held := m.Owner()
	require.False(t, held)
}
