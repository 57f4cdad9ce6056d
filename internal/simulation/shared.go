package simulation

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/CaioPinho9/space-planner/pkg/mathutil"
)

// Event is one purchase made during a run.
type Event struct {
	Tick     int     `json:"tick"`
	Income   float64 `json:"income"`
	Item     string  `json:"item"`
	Cost     float64 `json:"cost"`
	Quantity int     `json:"quantity"`
}

// workerSlot is written only by the worker that owns it.
type workerSlot struct {
	simulations atomic.Int64
	incomeSum   atomic.Uint64
}

// SharedState is the registry shared by all workers: the best result seen so
// far and per-worker throughput counters.
//
// Writers follow a double-checked protocol: the best income is read without
// the lock, and only a candidate that beats it takes the lock, re-checks and
// publishes income, index and log together. Every field is stored atomically
// so readers never need the lock; a reader racing a writer may see the log of
// one result next to the income of another.
type SharedState struct {
	mu sync.Mutex

	bestIncome atomic.Uint64
	bestIndex  atomic.Int64
	bestLog    atomic.Pointer[[]byte]

	nextIndex atomic.Int64
	slots     atomic.Pointer[[]workerSlot]
	startedAt atomic.Int64
}

// NewSharedState returns an empty registry with counters for workers.
func NewSharedState(workers int) *SharedState {
	s := &SharedState{}
	s.clearBest()
	s.beginSession(workers, time.Now())
	return s
}

func (s *SharedState) clearBest() {
	empty := []byte("[]")
	s.bestLog.Store(&empty)
	s.bestIndex.Store(-1)
	s.bestIncome.Store(mathutil.FloatToBits(0))
}

// beginSession resets the throughput counters. Must not run concurrently with
// workers.
func (s *SharedState) beginSession(workers int, now time.Time) {
	slots := make([]workerSlot, workers)
	s.slots.Store(&slots)
	s.startedAt.Store(now.UnixNano())
}

// reset clears the best result and the counters. Must not run concurrently
// with workers.
func (s *SharedState) reset(workers int, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearBest()
	s.nextIndex.Store(0)
	s.beginSession(workers, now)
}

// NextIndex hands out globally unique run indices.
func (s *SharedState) NextIndex() int64 {
	return s.nextIndex.Add(1) - 1
}

// BestIncome returns the best recorded income per second.
func (s *SharedState) BestIncome() float64 {
	return mathutil.BitsToFloat(s.bestIncome.Load())
}

// BestIndex returns the index of the run that produced the best income, or -1.
func (s *SharedState) BestIndex() int64 {
	return s.bestIndex.Load()
}

// Offer records a finished run if it beats the current best. It reports
// whether the run was recorded.
func (s *SharedState) Offer(income float64, index int64, events []Event) (bool, error) {
	if !(income > s.BestIncome()) {
		return false, nil
	}

	// Serialize outside the lock so the critical section stays O(1).
	encoded, err := json.Marshal(events)
	if err != nil {
		return false, fmt.Errorf("failed to encode run %d log: %w", index, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !(income > s.BestIncome()) {
		return false, nil
	}
	s.bestLog.Store(&encoded)
	s.bestIndex.Store(index)
	s.bestIncome.Store(mathutil.FloatToBits(income))
	return true, nil
}

// Record adds a finished run to the worker's counters. Only the owning worker
// may call it for a given slot.
func (s *SharedState) Record(worker int, income float64) {
	slots := *s.slots.Load()
	if worker < 0 || worker >= len(slots) {
		return
	}
	slot := &slots[worker]
	slot.simulations.Add(1)
	sum := mathutil.BitsToFloat(slot.incomeSum.Load())
	slot.incomeSum.Store(mathutil.FloatToBits(sum + income))
}

// Snapshot is a point-in-time copy of the registry.
type Snapshot struct {
	BestIncome  float64
	BestIndex   int64
	BestLog     []Event
	Simulations int64
	IncomeSum   float64
	PerWorker   []int64
	StartedAt   time.Time
}

// Snapshot reads the registry without taking the lock.
func (s *SharedState) Snapshot() (Snapshot, error) {
	snap := Snapshot{
		BestIncome: s.BestIncome(),
		BestIndex:  s.BestIndex(),
		StartedAt:  time.Unix(0, s.startedAt.Load()),
	}
	if err := json.Unmarshal(*s.bestLog.Load(), &snap.BestLog); err != nil {
		return snap, fmt.Errorf("failed to decode best log: %w", err)
	}

	slots := *s.slots.Load()
	snap.PerWorker = make([]int64, len(slots))
	for i := range slots {
		n := slots[i].simulations.Load()
		snap.PerWorker[i] = n
		snap.Simulations += n
		snap.IncomeSum += mathutil.BitsToFloat(slots[i].incomeSum.Load())
	}
	return snap, nil
}
