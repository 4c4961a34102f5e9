package tcpserver

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/pkg/log"
)

// Options configures a Server.
type Options struct {
	// MaxCommandBytes bounds one command; zero means unbounded.
	MaxCommandBytes int
	// CommandRate limits appends per second on each connection; zero
	// disables limiting.
	CommandRate  float64
	CommandBurst int
	// DrainTimeout bounds how long Serve waits for workers after shutdown;
	// zero waits for all of them.
	DrainTimeout time.Duration
	Logger       log.Logger
}

// Stats is a point-in-time view of server activity.
type Stats struct {
	ActiveConnections int    `json:"active_connections"`
	TotalConnections  uint64 `json:"total_connections"`
	Commands          uint64 `json:"commands"`
	Seeks             uint64 `json:"seeks"`
}

type counters struct {
	accepted atomic.Uint64
	commands atomic.Uint64
	seeks    atomic.Uint64
}

// Server accepts connections and runs one worker per connection.
type Server struct {
	log      *cmdlog.Log
	opts     Options
	logger   log.Logger
	registry *Registry
	stats    counters
	addr     atomic.Value
}

// New returns a server appending to l.
func New(l *cmdlog.Log, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &Server{
		log:      l,
		opts:     opts,
		logger:   logger.WithComponent("tcp"),
		registry: NewRegistry(),
	}
}

// Listen binds addr. Bind errors surface here, before serving starts.
func (s *Server) Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

// ListenAndServe binds addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	lis, err := s.Listen(addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve accepts on lis until ctx is done, then closes every connection and
// waits for the workers to finish. Temporary accept failures such as file
// descriptor exhaustion are retried with backoff. Any other accept failure
// closes the live connections too and is returned once they have drained.
// It returns nil on a clean shutdown.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.addr.Store(lis.Addr())
	// Workers watch sctx so a fatal accept error can close them as well.
	sctx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	stop := context.AfterFunc(ctx, func() { _ = lis.Close() })
	defer stop()
	s.logger.Info("listening", log.Str("addr", lis.Addr().String()))

	var serveErr error
	var backoff time.Duration
	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			if temporaryAcceptError(err) {
				backoff = nextBackoff(backoff)
				s.logger.Warn("accept failed, retrying", log.Err(err), log.Duration("backoff", backoff))
				if !sleepCtx(ctx, backoff) {
					break
				}
				continue
			}
			serveErr = err
			break
		}
		backoff = 0
		s.registry.Reap()
		s.start(sctx, conn)
	}
	_ = lis.Close()
	if serveErr != nil {
		s.logger.Error("accept failed", log.Err(serveErr))
		stopWorkers()
	}
	if err := s.drain(); err != nil {
		s.logger.Warn("workers still running after drain timeout", log.Int("workers", s.registry.Len()))
	}
	return serveErr
}

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptBackoff
	}
	return min(2*d, maxAcceptBackoff)
}

// temporaryAcceptError reports accept failures that clear up on their own:
// timeouts, descriptor or buffer exhaustion and connections reset before
// they were accepted.
func temporaryAcceptError(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	for _, errno := range []syscall.Errno{
		syscall.EMFILE, syscall.ENFILE, syscall.ENOBUFS, syscall.ENOMEM,
		syscall.ECONNABORTED, syscall.ECONNRESET, syscall.EINTR, syscall.EAGAIN,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Server) start(ctx context.Context, conn net.Conn) {
	id := uuid.NewString()
	s.stats.accepted.Add(1)
	logger := s.logger.With(log.Str(log.ConnKey, id), log.Str("remote", conn.RemoteAddr().String()))
	logger.Debug("accepted connection")
	w := &worker{
		id:     id,
		conn:   conn,
		log:    s.log,
		acc:    cmdlog.NewAccumulator(s.opts.MaxCommandBytes),
		cursor: s.log.NewCursor(),
		logger: logger,
		stats:  &s.stats,
	}
	if s.opts.CommandRate > 0 {
		w.limiter = rate.NewLimiter(rate.Limit(s.opts.CommandRate), s.opts.CommandBurst)
	}
	h := s.registry.Register(id)
	go func() {
		defer h.Done()
		w.run(ctx)
		logger.Debug("closed connection")
	}()
}

func (s *Server) drain() error {
	ctx := context.Background()
	if s.opts.DrainTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.DrainTimeout)
		defer cancel()
	}
	return s.registry.Drain(ctx)
}

// Addr returns the bound address once Serve has started, else nil.
func (s *Server) Addr() net.Addr {
	a, _ := s.addr.Load().(net.Addr)
	return a
}

// Stats reports connection and command counters.
func (s *Server) Stats() Stats {
	s.registry.Reap()
	return Stats{
		ActiveConnections: s.registry.Len(),
		TotalConnections:  s.stats.accepted.Load(),
		Commands:          s.stats.commands.Load(),
		Seeks:             s.stats.seeks.Load(),
	}
}
