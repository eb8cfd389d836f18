package worker

// resolveOperations handles conflict resolution.
func (w *Worker) resolveOperations() {
	w.evHandler("worker: resolveOperations: G started")
	defer w.evHandler("worker: resolveOperations: G completed")

	for {
		select {
		case <-w.resolve:
			if !w.isShutdown() {
				w.runResolveOperation()
			}
		case <-tick(w.solveTicker):
			if !w.isShutdown() {
				w.runResolveOperation()
			}
		case <-w.shut:
			w.evHandler("worker: resolveOperations: received shut signal")
			return
		}
	}
}

// runResolveOperation asks the peers for their chains and adopts the
// longest valid one.
func (w *Worker) runResolveOperation() {
	w.evHandler("worker: runResolveOperation: started")
	defer w.evHandler("worker: runResolveOperation: completed")

	replaced, err := w.state.Resolve(w.ctx)
	if err != nil {
		w.evHandler("worker: runResolveOperation: ERROR: %s", err)
		return
	}

	w.evHandler("worker: runResolveOperation: replaced[%t] blocks[%d]", replaced, len(w.state.Chain()))
}
