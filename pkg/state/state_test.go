package state

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screa/vanity-miner/pkg/types"
)

func keyPair(i int) types.KeyPair {
	return types.KeyPair{Address: fmt.Sprintf("%040x", i)}
}

func TestOfferStopsAtTarget(t *testing.T) {
	s := New(2)

	assert.True(t, s.Offer(keyPair(1)))
	assert.False(t, s.Stopped())

	assert.True(t, s.Offer(keyPair(2)))
	assert.True(t, s.Stopped())

	assert.False(t, s.Offer(keyPair(3)), "offer past target must be rejected")
	assert.Equal(t, []types.KeyPair{keyPair(1), keyPair(2)}, s.Results())

	select {
	case <-s.Done():
	default:
		t.Fatal("done channel not closed after reaching target")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := New(1)
	s.AddAttempt()

	assert.True(t, s.Stop())
	before := s.Snapshot()

	assert.False(t, s.Stop(), "second stop must be a no-op")
	assert.True(t, s.Stopped())
	after := s.Snapshot()

	assert.Equal(t, before.Attempts, after.Attempts)
	assert.Equal(t, before.Found, after.Found)
	assert.Empty(t, s.Results())

	// a match arriving after an external stop is still bounded by target
	assert.True(t, s.Offer(keyPair(1)))
	assert.False(t, s.Offer(keyPair(2)))
}

func TestConcurrentOfferNeverExceedsTarget(t *testing.T) {
	const (
		target     = 5
		goroutines = 16
		perWorker  = 50
	)
	s := New(target)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if s.Offer(keyPair(g*perWorker + i)) {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
				snap := s.Snapshot()
				if snap.Found > target {
					t.Errorf("snapshot found %d > target %d", snap.Found, target)
				}
			}
		}(g)
	}
	wg.Wait()

	require.Equal(t, target, accepted)
	assert.Len(t, s.Results(), target)
	assert.True(t, s.Stopped())
}

func TestConcurrentAttemptsAreNotLost(t *testing.T) {
	const (
		goroutines = 8
		perWorker  = 10000
	)
	s := New(1)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				s.AddAttempt()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(goroutines*perWorker), s.Snapshot().Attempts)
}

func TestResultsReturnsCopy(t *testing.T) {
	s := New(1)
	s.Offer(keyPair(7))

	out := s.Results()
	out[0].Address = "mutated"
	assert.Equal(t, keyPair(7), s.Results()[0])
}

func TestSnapshotElapsedFreezesAtStop(t *testing.T) {
	s := New(1)
	time.Sleep(2 * time.Millisecond)
	running := s.Snapshot().Elapsed
	assert.Positive(t, running)

	s.Stop()
	stopped := s.Snapshot().Elapsed
	assert.GreaterOrEqual(t, stopped, running)

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, stopped, s.Snapshot().Elapsed)
	assert.Equal(t, s.Target(), s.Snapshot().Target)
}
