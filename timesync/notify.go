package timesync

type tempoObserver struct {
	id uint64
	fn func(bpm int)
}

// OnTempoChange registers the single tempo observer, replacing any previous
// one. The observer receives the rounded tempo whenever a remote state changes
// the tempo by more than the configured epsilon. It runs after the engine lock
// is released, so it may call back into the engine.
//
// The returned function detaches the observer if it is still registered.
func (e *Engine) OnTempoChange(fn func(bpm int)) (detach func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fn == nil {
		e.observer = nil
		return func() {}
	}
	e.observers++
	id := e.observers
	e.observer = &tempoObserver{id: id, fn: fn}
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.observer != nil && e.observer.id == id {
			e.observer = nil
		}
	}
}
