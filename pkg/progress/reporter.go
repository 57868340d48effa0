package progress

import (
	"context"
	"time"

	"github.com/screa/vanity-miner/pkg/types"
)

// DefaultInterval is how often progress is redrawn
const DefaultInterval = 100 * time.Millisecond

// Snapshotter is anything that can report search progress
type Snapshotter interface {
	Snapshot() types.Snapshot
}

// Reporter polls a Snapshotter and hands each snapshot to a render func.
// It only reads, so it cannot affect the search.
type Reporter struct {
	source   Snapshotter
	interval time.Duration
	render   func(types.Snapshot)
}

// New creates a reporter. A non-positive interval uses DefaultInterval.
func New(source Snapshotter, interval time.Duration, render func(types.Snapshot)) *Reporter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reporter{
		source:   source,
		interval: interval,
		render:   render,
	}
}

// Run renders a snapshot every interval until ctx is done, then renders
// one final snapshot.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.render(r.source.Snapshot())
		case <-ctx.Done():
			r.render(r.source.Snapshot())
			return
		}
	}
}
