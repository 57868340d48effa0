package worker

import (
	"fmt"

	"github.com/screa/vanity-miner/internal/crypto"
	"github.com/screa/vanity-miner/pkg/state"
	"github.com/screa/vanity-miner/pkg/types"
)

// Worker repeatedly derives keypairs and offers matches to the shared state
type Worker struct {
	id       int
	criteria types.Criteria
	state    *state.State
	deriver  *crypto.Deriver

	// local counters, only touched by the goroutine running Run
	attempts uint64
	found    int
}

// NewWorker creates a new worker instance
func NewWorker(id int, criteria types.Criteria, st *state.State, deriver *crypto.Deriver) *Worker {
	return &Worker{
		id:       id,
		criteria: criteria,
		state:    st,
		deriver:  deriver,
	}
}

// Run loops until the shared stop flag is raised. It returns an error
// only when the entropy source fails.
func (w *Worker) Run() error {
	for !w.state.Stopped() {
		if err := w.step(); err != nil {
			return err
		}
	}
	return nil
}

// step derives and checks a single candidate
func (w *Worker) step() error {
	kp, err := w.deriver.Derive()
	if err != nil {
		return fmt.Errorf("worker %d: %w", w.id, err)
	}

	w.state.AddAttempt()
	w.attempts++

	if Matches(kp.Address, w.criteria) && w.state.Offer(kp) {
		w.found++
	}
	return nil
}

// Attempts returns how many candidates this worker derived.
// Only safe to read after Run has returned.
func (w *Worker) Attempts() uint64 {
	return w.attempts
}

// Found returns how many of this worker's matches were kept.
// Only safe to read after Run has returned.
func (w *Worker) Found() int {
	return w.found
}
