// Package epoch implements a minimal epoch-based reclamation scheme.
//
// The skiplist queue physically unlinks nodes by CASing predecessor
// next-pointers, but a concurrent traverser may already hold a stale
// reference to an unlinked node (it loaded the pointer before the CAS).
// Freeing such a node's internal state out from under that traverser would
// be unsafe. Rather than free eagerly, every skiplist operation pins the
// current epoch for its duration; cleanup callbacks registered via Retire
// only run once every goroutine that could still hold a stale reference
// has unpinned, which this package tracks by epoch number rather than by
// enumerating goroutines.
//
// This runs entirely on the calling goroutine — there is no background
// collector goroutine, matching the no-background-task constraint the
// rest of the library holds to.
package epoch

import "sync"

// Registry tracks the global epoch and the set of currently pinned guards.
type Registry struct {
	mu      sync.Mutex
	global  uint64
	active  map[*Guard]uint64
	retired map[uint64][]func()
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{
		active:  make(map[*Guard]uint64),
		retired: make(map[uint64][]func()),
	}
}

// Guard represents one pinned operation. Callers must Unpin exactly once.
type Guard struct {
	reg   *Registry
	epoch uint64
}

// Pin registers the calling goroutine as observing the current epoch for
// the duration of one queue operation.
func (r *Registry) Pin() *Guard {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := &Guard{reg: r, epoch: r.global}
	r.active[g] = r.global
	return g
}

// Unpin releases the guard and opportunistically runs any retired cleanups
// that are now guaranteed safe.
func (g *Guard) Unpin() {
	r := g.reg
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, g)
	r.collectLocked()
}

// Retire schedules cleanup to run once no goroutine pinned at or before the
// current epoch remains active — i.e. once nothing could still be
// mid-traversal over whatever cleanup closes over. Retire always advances
// the global epoch, so every Guard pinned afterward is immediately
// ineligible to block this cleanup.
func (r *Registry) Retire(cleanup func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retired[r.global] = append(r.retired[r.global], cleanup)
	r.global++
	r.collectLocked()
}

// collectLocked runs and drops every retired cleanup whose epoch predates
// the oldest currently-pinned guard. Callers must hold r.mu.
func (r *Registry) collectLocked() {
	oldestActive := r.global
	for _, e := range r.active {
		if e < oldestActive {
			oldestActive = e
		}
	}
	// Each Retire call owns one epoch and collection always drains a prefix,
	// so the pending epochs are exactly [global-len(retired), global);
	// walking them upward runs cleanups in the order they were retired.
	for e := r.global - uint64(len(r.retired)); e < oldestActive; e++ {
		runAll(r.retired[e])
		delete(r.retired, e)
	}
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
