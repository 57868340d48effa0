package state

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/screa/vanity-miner/pkg/types"
)

// maxPrealloc caps the initial results capacity for large quantities
const maxPrealloc = 1024

// State is the data shared by all workers of one search.
//
// The attempt counter and stop flag are independent atomics so the hot
// path never takes a lock. The results slice and the "target reached"
// decision share one mutex; found mirrors len(results) so snapshots can
// be taken without touching that mutex.
type State struct {
	target int
	start  time.Time

	attempts atomic.Uint64
	found    atomic.Int64
	stopped  atomic.Bool
	elapsed  atomic.Int64 // frozen at Stop, 0 while running
	done     chan struct{}

	mu      sync.Mutex
	results []types.KeyPair
}

// New creates the state for a search that stops after target matches
func New(target int) *State {
	return &State{
		target:  target,
		start:   time.Now(),
		done:    make(chan struct{}),
		results: make([]types.KeyPair, 0, min(target, maxPrealloc)),
	}
}

// AddAttempt counts one derived candidate and returns the new total
func (s *State) AddAttempt() uint64 {
	return s.attempts.Add(1)
}

// Offer appends kp unless the target has already been reached. The
// append that reaches the target raises the stop flag. It reports
// whether kp was kept.
func (s *State) Offer(kp types.KeyPair) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.results) >= s.target {
		return false
	}
	s.results = append(s.results, kp)
	s.found.Store(int64(len(s.results)))
	if len(s.results) == s.target {
		s.Stop()
	}
	return true
}

// Stop raises the stop flag. Only the first call has an effect; it
// reports whether this call was the one that stopped the search.
func (s *State) Stop() bool {
	if !s.stopped.CompareAndSwap(false, true) {
		return false
	}
	s.elapsed.Store(int64(time.Since(s.start)))
	close(s.done)
	return true
}

// Stopped reports whether workers should exit
func (s *State) Stopped() bool {
	return s.stopped.Load()
}

// Done is closed once the search is stopped
func (s *State) Done() <-chan struct{} {
	return s.done
}

// Target returns the number of matches the search stops at
func (s *State) Target() int {
	return s.target
}

// Results returns a copy of the matches found so far
func (s *State) Results() []types.KeyPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.KeyPair, len(s.results))
	copy(out, s.results)
	return out
}

// Snapshot reads the progress counters without locking. Once the
// search is stopped Elapsed no longer grows.
func (s *State) Snapshot() types.Snapshot {
	elapsed := time.Duration(s.elapsed.Load())
	if elapsed == 0 {
		elapsed = time.Since(s.start)
	}
	return types.Snapshot{
		Attempts: s.attempts.Load(),
		Found:    int(s.found.Load()),
		Target:   s.target,
		Elapsed:  elapsed,
	}
}
