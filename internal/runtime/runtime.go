package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
	cfgpkg "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/config"
	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/mirror"
	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/pkg/log"
)

// ErrClosed is returned by CheckHealth after Close.
var ErrClosed = errors.New("runtime: closed")

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger log.Logger
	// Mirror overrides the mirror built from Config.Mirror.
	Mirror cmdlog.Mirror
	// Now overrides the append clock.
	Now func() time.Time
}

// Runtime owns the shared command log and its mirror.
type Runtime struct {
	log    *cmdlog.Log
	config cfgpkg.Config
	logger log.Logger

	closeOnce sync.Once
	closeErr  error
	mu        sync.RWMutex
	closed    bool
}

// Open builds the mirror, restores whatever it holds and returns a Runtime
// ready to serve.
func Open(ctx context.Context, opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	logger = logger.WithComponent("runtime")

	m := opts.Mirror
	if m == nil {
		var err error
		if m, err = mirror.Open(ctx, opts.Config.Mirror); err != nil {
			return nil, err
		}
	}
	l := cmdlog.New(cmdlog.Options{Capacity: opts.Config.Capacity, Mirror: m, Now: opts.Now})
	n, err := l.Restore(ctx)
	if err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("runtime: restore: %w", err)
	}
	if m != nil {
		logger.Info("restored command log",
			log.Str("mirror", opts.Config.Mirror.Kind),
			log.Int("entries", n),
			log.Int64("bytes", l.TotalLength()))
	}
	return &Runtime{log: l, config: opts.Config, logger: logger}, nil
}

// Log returns the shared command log.
func (r *Runtime) Log() *cmdlog.Log { return r.log }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// CheckHealth reports ErrClosed after Close and otherwise pings the mirror.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	return r.log.Ping(ctx)
}

// Close releases the mirror. It is safe to call more than once.
func (r *Runtime) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		r.closeErr = r.log.Close()
		if r.closeErr != nil {
			r.logger.Error("closing mirror failed", log.Err(r.closeErr))
		}
	})
	return r.closeErr
}
