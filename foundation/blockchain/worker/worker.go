// Package worker implements mining and conflict resolution for the ledger
// as background operations.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/state"
)

// Config represents the settings for the background operations. A zero
// interval turns off the timed version of that operation.
type Config struct {
	MineInterval    time.Duration
	ResolveInterval time.Duration
	EvHandler       state.EventHandler
}

// Worker manages the POW workflows for the ledger.
type Worker struct {
	state        *state.State
	wg           sync.WaitGroup
	ctx          context.Context
	cancel       context.CancelFunc
	mineTicker   *time.Ticker
	solveTicker  *time.Ticker
	shut         chan struct{}
	startMining  chan bool
	cancelMining chan bool
	resolve      chan bool
	evHandler    state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, cfg Config) *Worker {
	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		state:        st,
		ctx:          ctx,
		cancel:       cancel,
		shut:         make(chan struct{}),
		startMining:  make(chan bool, 1),
		cancelMining: make(chan bool, 1),
		resolve:      make(chan bool, 1),
		evHandler:    ev,
	}

	if cfg.MineInterval > 0 {
		w.mineTicker = time.NewTicker(cfg.MineInterval)
	}

	if cfg.ResolveInterval > 0 {
		w.solveTicker = time.NewTicker(cfg.ResolveInterval)
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Update this node before starting any support G's.
	if len(st.Peers()) > 0 {
		w.runResolveOperation()
	}

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
		w.resolveOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop tickers")
	if w.mineTicker != nil {
		w.mineTicker.Stop()
	}
	if w.solveTicker != nil {
		w.solveTicker.Stop()
	}

	w.evHandler("worker: shutdown: signal cancel mining")
	w.SignalCancelMining()
	w.cancel()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")
}

// SignalResolve starts a conflict resolution operation. If there is already
// a signal pending in the channel, just return since one will start.
func (w *Worker) SignalResolve() {
	select {
	case w.resolve <- true:
	default:
	}
	w.evHandler("worker: SignalResolve: resolve signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

// tick returns the channel for the ticker, a nil channel blocks forever
// when the ticker is turned off.
func tick(t *time.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
