package tcpserver

import (
	"context"
	"sync"
)

// Handle tracks one running worker.
type Handle struct {
	ID   string
	done chan struct{}
	once sync.Once
}

// Done marks the worker finished. Safe to call more than once.
func (h *Handle) Done() { h.once.Do(func() { close(h.done) }) }

func (h *Handle) finished() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Registry tracks live workers so shutdown can wait for them. It has its own
// mutex, never held together with the log's.
type Registry struct {
	mu      sync.Mutex
	handles map[string]*Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*Handle)}
}

// Register adds a worker under id and returns its handle.
func (r *Registry) Register(id string) *Handle {
	h := &Handle{ID: id, done: make(chan struct{})}
	r.mu.Lock()
	r.handles[id] = h
	r.mu.Unlock()
	return h
}

// Reap drops finished workers without blocking and returns how many were
// removed.
func (r *Registry) Reap() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, h := range r.handles {
		if h.finished() {
			delete(r.handles, id)
			n++
		}
	}
	return n
}

// Drain blocks until every registered worker has finished or ctx is done.
// Workers registered while draining are waited for too.
func (r *Registry) Drain(ctx context.Context) error {
	for {
		r.mu.Lock()
		var pending *Handle
		for id, h := range r.handles {
			if h.finished() {
				delete(r.handles, id)
				continue
			}
			pending = h
			break
		}
		r.mu.Unlock()
		if pending == nil {
			return nil
		}
		select {
		case <-pending.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Len returns the number of registered workers, finished or not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
