package skiplist

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertRemoveMinSingleThreadAscending(t *testing.T) {
	q := New(8)
	values := []int{9, 3, 7, 1, 5}
	for _, v := range values {
		ok, err := q.Insert(v, v*10)
		require.NoError(t, err)
		require.True(t, ok)
	}

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	for _, want := range sorted {
		got, err := q.RemoveMin()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRemoveMinOnEmptyReturnsErrEmpty(t *testing.T) {
	q := New(4)
	_, err := q.RemoveMin()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestDuplicatePriorityRejected(t *testing.T) {
	q := New(4)
	ok, err := q.Insert(42, "first")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = q.Insert(42, "second")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrDuplicatePriority)
}

func TestReservedPriorityRejected(t *testing.T) {
	q := New(4)
	_, err := q.Insert(negInf, "lo")
	assert.ErrorIs(t, err, ErrReservedPriority)
	_, err = q.Insert(posInf, "hi")
	assert.ErrorIs(t, err, ErrReservedPriority)
}

func TestEmptyAfterDrainingReturnsErrEmpty(t *testing.T) {
	q := New(4)
	_, err := q.Insert(1, nil)
	require.NoError(t, err)

	_, err = q.RemoveMin()
	require.NoError(t, err)

	_, err = q.RemoveMin()
	assert.ErrorIs(t, err, ErrEmpty)
}

// TestConcurrentRemoveMinPartitionsRange is spec scenario 5: ten goroutines
// each call RemoveMin ten times against a queue pre-loaded with [1..100].
// Every priority must be claimed by exactly one caller and the union of all
// results must be the full range, regardless of interleaving.
func TestConcurrentRemoveMinPartitionsRange(t *testing.T) {
	q := New(16)
	for i := 1; i <= 100; i++ {
		ok, err := q.Insert(i, i)
		require.NoError(t, err)
		require.True(t, ok)
	}

	const goroutines = 10
	const perGoroutine = 10

	results := make(chan int, goroutines*perGoroutine)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				v, err := q.RemoveMin()
				require.NoError(t, err)
				results <- v
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool)
	var all []int
	for v := range results {
		assert.False(t, seen[v], "priority %d claimed more than once", v)
		seen[v] = true
		all = append(all, v)
	}
	sort.Ints(all)
	want := make([]int, 100)
	for i := range want {
		want[i] = i + 1
	}
	assert.Equal(t, want, all)

	_, err := q.RemoveMin()
	assert.ErrorIs(t, err, ErrEmpty)
}

// TestConcurrentMixedChurn is modeled on spec scenario 6: 8 goroutines run
// 10,000 concurrent Insert and RemoveMin calls, here with distinct
// priorities and one RemoveMin for every two Inserts. The invariant under test isn't
// global ordering (RemoveMin winners race each other) but that the queue
// never corrupts: every successful RemoveMin returns a priority that was
// actually inserted and not already removed, and not returned twice.
func TestConcurrentMixedChurn(t *testing.T) {
	q := New(16)
	const workers = 8
	const opsPerWorker = 1250 // 8 * 1250 = 10000

	var mu sync.Mutex
	removed := make(map[int]bool)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			base := w*opsPerWorker + 1
			for i := 0; i < opsPerWorker; i++ {
				priority := base + i
				if i%3 == 0 {
					v, err := q.RemoveMin()
					if err != nil {
						assert.ErrorIs(t, err, ErrEmpty)
						continue
					}
					assert.True(t, v >= 1 && v <= workers*opsPerWorker && (v-1)%opsPerWorker%3 != 0,
						"priority %d was never inserted", v)
					mu.Lock()
					assert.False(t, removed[v], "priority %d removed twice", v)
					removed[v] = true
					mu.Unlock()
					continue
				}
				_, err := q.Insert(priority, priority)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	for {
		_, err := q.RemoveMin()
		if errors.Is(err, ErrEmpty) {
			break
		}
	}
}

func TestItemPayloadRoundTrips(t *testing.T) {
	q := New(4)
	type payload struct{ name string }
	want := payload{name: "widget"}
	ok, err := q.Insert(5, want)
	require.NoError(t, err)
	require.True(t, ok)

	preds, succs := q.freshPredSucc()
	found := q.findNode(5, preds, succs)
	require.True(t, found)
	assert.Equal(t, want, succs[0].value)
}

func TestMaxHeightZeroDegradesToSortedList(t *testing.T) {
	q := New(0)
	for _, v := range []int{5, 1, 3} {
		ok, err := q.Insert(v, nil)
		require.NoError(t, err)
		require.True(t, ok)
	}
	for _, want := range []int{1, 3, 5} {
		got, err := q.RemoveMin()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
