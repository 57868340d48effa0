package miner

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/screa/vanity-miner/internal/config"
	"github.com/screa/vanity-miner/internal/crypto"
	"github.com/screa/vanity-miner/internal/logger"
	"github.com/screa/vanity-miner/pkg/state"
	"github.com/screa/vanity-miner/pkg/types"
	"github.com/screa/vanity-miner/pkg/worker"
)

// ErrStopped is returned by Run when Stop ended the search early
var ErrStopped = errors.New("search stopped before reaching quantity")

// Miner coordinates the workers of a vanity address search
type Miner struct {
	config  *config.Config
	logger  *logger.Logger
	entropy io.Reader
	state   atomic.Pointer[state.State]
	stopped atomic.Bool
}

// NewMiner creates a new miner instance
func NewMiner(cfg *config.Config, log *logger.Logger) *Miner {
	return &Miner{
		config:  cfg,
		logger:  log,
		entropy: rand.Reader,
	}
}

// WithEntropy replaces the randomness source. r must be safe for
// concurrent use.
func (m *Miner) WithEntropy(r io.Reader) *Miner {
	m.entropy = r
	return m
}

// Run searches until Quantity matches are found, ctx is done, Stop is
// called or a worker fails. Configuration errors are returned before
// any worker starts. On early exit the matches found so far are
// returned together with the reason.
func (m *Miner) Run(ctx context.Context) (*types.Result, error) {
	if err := m.config.Validate(); err != nil {
		return nil, err
	}

	criteria := m.config.Criteria()
	st := state.New(m.config.Quantity)
	m.state.Store(st)

	// Stop may have raced ahead of the Store above
	if m.stopped.Load() {
		st.Stop()
	}

	if m.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.Timeout)
		defer cancel()
	}

	m.logger.Printf("Searching for %d address(es) with %d workers, %s",
		m.config.Quantity, m.config.Workers, m.config.GetTargetDescription())
	if criteria.IsEmpty() {
		m.logger.Printf("No prefix or suffix given, every address matches")
	}
	m.logger.Debugf("Expected attempts per match: %s", humanize.Commaf(m.config.ExpectedAttempts()))

	g, gctx := errgroup.WithContext(ctx)

	// Cancellation and worker failures both end in the stop flag
	g.Go(func() error {
		select {
		case <-gctx.Done():
			st.Stop()
		case <-st.Done():
		}
		return nil
	})

	for i := 0; i < m.config.Workers; i++ {
		w := worker.NewWorker(i, criteria, st, crypto.NewDeriver(m.entropy))
		g.Go(w.Run)
	}

	if m.logger.Verbose() {
		interval := time.Duration(m.config.LogInterval) * time.Second
		g.Go(func() error {
			m.periodicLogger(st, interval)
			return nil
		})
	}

	err := g.Wait()

	snap := st.Snapshot()
	result := &types.Result{
		KeyPairs: st.Results(),
		Attempts: snap.Attempts,
		Duration: snap.Elapsed,
	}

	switch {
	case err != nil:
		m.logger.Printf("Search aborted after %s attempts: %v", humanize.Comma(int64(result.Attempts)), err)
		return result, err
	case len(result.KeyPairs) < st.Target():
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, ErrStopped
	}

	m.logger.Debugf("Search finished: %s attempts in %v", humanize.Comma(int64(result.Attempts)), result.Duration)
	return result, nil
}

// Stop ends the current search, or the next one if Run has not yet
// started it. A stopped Miner stays stopped; repeated calls have no
// further effect.
func (m *Miner) Stop() {
	m.stopped.Store(true)
	if st := m.state.Load(); st != nil {
		st.Stop()
	}
}

// Snapshot returns the progress of the current (or last) search.
// It never blocks on the workers.
func (m *Miner) Snapshot() types.Snapshot {
	st := m.state.Load()
	if st == nil {
		return types.Snapshot{Target: m.config.Quantity}
	}
	return st.Snapshot()
}

// Done is closed when the current search stops. It returns nil before
// Run has started a search.
func (m *Miner) Done() <-chan struct{} {
	if st := m.state.Load(); st != nil {
		return st.Done()
	}
	return nil
}

// periodicLogger logs mining progress at regular intervals
func (m *Miner) periodicLogger(st *state.State, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snap := st.Snapshot()
			m.logger.Printf("Progress: %s attempts, %s keys/sec, found %d/%d",
				humanize.Comma(int64(snap.Attempts)), humanize.CommafWithDigits(snap.Rate(), 2),
				snap.Found, snap.Target)
		case <-st.Done():
			return
		}
	}
}
