package runtime

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ResourceTracker maps a resource id to a (label, cleanup) pair.
// Release/CleanupAll run cleanups outside the internal lock so a cleanup
// that itself touches the tracker cannot deadlock.
type ResourceTracker struct {
	mu        sync.Mutex
	resources map[string]trackedResource
}

type trackedResource struct {
	label   string
	cleanup func()
}

func NewResourceTracker() *ResourceTracker {
	return &ResourceTracker{resources: make(map[string]trackedResource)}
}

// Register allocates a fresh uuid, records (label, cleanup) under it, and
// returns the id.
func (t *ResourceTracker) Register(label string, cleanup func()) string {
	id := uuid.NewString()
	t.mu.Lock()
	t.resources[id] = trackedResource{label: label, cleanup: cleanup}
	t.mu.Unlock()
	return id
}

// Release runs id's cleanup, if registered, after releasing the lock.
func (t *ResourceTracker) Release(id string) {
	t.mu.Lock()
	r, ok := t.resources[id]
	delete(t.resources, id)
	t.mu.Unlock()
	if ok && r.cleanup != nil {
		r.cleanup()
	}
}

// CleanupAll drains the table under the lock, then runs every cleanup
// outside it, warning about resources that were never released explicitly.
func (t *ResourceTracker) CleanupAll() {
	t.mu.Lock()
	drained := t.resources
	t.resources = make(map[string]trackedResource)
	t.mu.Unlock()

	for id, r := range drained {
		fmt.Printf("warning: resource %s (type %s) was not closed explicitly\n", id, r.label)
		if r.cleanup != nil {
			r.cleanup()
		}
	}
}

// RuntimeStats accumulates counters held by MemoryManager; cmd/arkvm prints
// them when its config sets stats_on_exit.
type RuntimeStats struct {
	TotalInstructions atomic.Uint64
	TotalAllocations  atomic.Uint64
	PeakMemoryBytes   atomic.Uint64
}

// MemoryManager enforces a configurable memory ceiling via speculative,
// rollback-on-overflow accounting.
type MemoryManager struct {
	maxBytes       atomic.Uint64
	currentBytes   atomic.Uint64
	Stats          *RuntimeStats
}

func NewMemoryManager(maxMB int) *MemoryManager {
	m := &MemoryManager{Stats: &RuntimeStats{}}
	m.maxBytes.Store(uint64(maxMB) * 1024 * 1024)
	return m
}

// TrackAlloc speculatively adds n bytes to the current usage; if that
// exceeds the limit it rolls back and returns AllocationError.
func (m *MemoryManager) TrackAlloc(n uint64) error {
	newTotal := m.currentBytes.Add(n)
	if newTotal > m.maxBytes.Load() {
		m.currentBytes.Add(^(n - 1)) // subtract n
		return &Error{Kind: AllocationError, Message: "memory limit exceeded"}
	}
	m.Stats.TotalAllocations.Add(1)
	for {
		peak := m.Stats.PeakMemoryBytes.Load()
		if newTotal <= peak {
			break
		}
		if m.Stats.PeakMemoryBytes.CompareAndSwap(peak, newTotal) {
			break
		}
	}
	return nil
}

// TrackDealloc subtracts n bytes from the current usage.
func (m *MemoryManager) TrackDealloc(n uint64) {
	m.currentBytes.Add(^(n - 1))
}

// CurrentBytes reports the current speculative usage.
func (m *MemoryManager) CurrentBytes() uint64 { return m.currentBytes.Load() }

// ShutdownFlag is a cooperative cancellation signal: the VM checks it at
// loop boundaries but the core performs no preemption.
type ShutdownFlag struct {
	flag atomic.Bool
}

func (f *ShutdownFlag) Set()          { f.flag.Store(true) }
func (f *ShutdownFlag) IsSet() bool   { return f.flag.Load() }
