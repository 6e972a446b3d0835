// Package dispatch fans operations out across per-client worker chains.
// Clients are independent: their operations may apply concurrently. A
// single client's operations must apply in the order their batches were
// submitted, so each client keeps a chain of handles, one per batch, with
// each link waiting on the one before it before it is allowed to run.
package dispatch

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/luxfi/payment-engine/internal/ledger"
	"github.com/luxfi/payment-engine/internal/metrics"
	"github.com/luxfi/payment-engine/internal/xlog"
)

// Dispatcher owns one in-flight chain per client and bounds the number of
// client workers running at once.
type Dispatcher struct {
	mu      sync.Mutex
	handles map[uint16]<-chan ledger.ClientState

	sem *semaphore.Weighted
	wg  sync.WaitGroup

	logger  *xlog.Logger
	panics  *xlog.PanicRecorder
	metrics *metrics.Recorder
}

// New builds a Dispatcher that runs at most maxConcurrent client workers
// simultaneously.
func New(maxConcurrent int64, logger *xlog.Logger, panics *xlog.PanicRecorder, rec *metrics.Recorder) *Dispatcher {
	return &Dispatcher{
		handles: make(map[uint16]<-chan ledger.ClientState),
		sem:     semaphore.NewWeighted(maxConcurrent),
		logger:  logger,
		panics:  panics,
		metrics: rec,
	}
}

// Dispatch partitions ops by client and chains one worker per client onto
// that client's existing handle, if any. It returns once every worker for
// this batch has been spawned — not once they've finished; callers that
// need the final states call Drain after the last batch has been
// dispatched.
func (d *Dispatcher) Dispatch(ctx context.Context, ops []ledger.Operation) {
	byClient := make(map[uint16][]ledger.Operation)
	for _, op := range ops {
		byClient[op.Client] = append(byClient[op.Client], op)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for client, clientOps := range byClient {
		prev := d.handles[client]
		next := make(chan ledger.ClientState, 1)
		d.handles[client] = next

		d.wg.Add(1)
		go d.runWorker(ctx, client, clientOps, prev, next)
	}

	d.metrics.SetClientsInFlight(len(d.handles))
}

func (d *Dispatcher) runWorker(ctx context.Context, client uint16, ops []ledger.Operation, prev <-chan ledger.ClientState, next chan<- ledger.ClientState) {
	defer d.wg.Done()
	defer close(next)

	// Await the predecessor before touching the semaphore: holding a slot
	// while blocked on prev would let a chain of more clients than
	// maxConcurrent deadlock, each successor holding the last free slot
	// while its predecessor waits for one.
	state, ok := ledger.ClientState{}, false
	if prev != nil {
		state, ok = <-prev
	}
	if !ok {
		if prev != nil {
			d.logger.Warn("predecessor worker produced no state, starting fresh", "client", client)
		}
		state = ledger.NewClientState(client)
	}

	if err := d.sem.Acquire(ctx, 1); err != nil {
		d.logger.Warn("client worker could not acquire a slot", "client", client, "error", err)
		return
	}
	defer d.sem.Release(1)

	defer func() {
		if r := recover(); r != nil {
			d.panics.Recover(client, r)
		}
	}()

	wasFrozen := state.Status == ledger.ClientFrozen
	for _, op := range ops {
		state.Apply(op)
		d.metrics.IncOperationApplied(op.Type)
	}
	if !wasFrozen && state.Status == ledger.ClientFrozen {
		d.metrics.IncClientFrozen()
	}

	next <- state
}

// Drain waits for every spawned worker to finish and returns the final
// state of every client touched so far. It is only safe to call once the
// caller has finished submitting batches.
func (d *Dispatcher) Drain() []ledger.ClientState {
	d.wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()

	states := make([]ledger.ClientState, 0, len(d.handles))
	for _, handle := range d.handles {
		state, ok := <-handle
		if !ok {
			// The chain for this client ended in a recovered panic
			// with no state sent; nothing to report for it.
			continue
		}
		states = append(states, state)
	}
	return states
}
