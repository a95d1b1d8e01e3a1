package engine

import (
	"context"
	"sync"
)

// Registry maps download identifiers to their cancellation handles. It is
// owned by the caller and injected into the engine; there is no package
// level instance. The lock is held only around map access, never across
// anything that blocks.
type Registry struct {
	mu      sync.Mutex
	handles map[string]context.CancelFunc
}

func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]context.CancelFunc)}
}

// Register installs a fresh handle for id, silently replacing any prior one.
// At most one live handle exists per id.
func (r *Registry) Register(id string, cancel context.CancelFunc) {
	r.mu.Lock()
	r.handles[id] = cancel
	r.mu.Unlock()
}

// Cancel removes and signals the handle for id. Cancelling an unknown or
// already-removed id is a no-op.
func (r *Registry) Cancel(id string) {
	r.mu.Lock()
	cancel, ok := r.handles[id]
	if ok {
		delete(r.handles, id)
	}
	r.mu.Unlock()
	if ok {
		cancel()
	}
}

// Remove drops the handle without signalling it, for natural completion.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.handles, id)
	r.mu.Unlock()
}
