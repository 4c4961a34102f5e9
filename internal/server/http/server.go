package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/server/http/controllers"
	commandsvc "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/services/commands"
	logpkg "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/pkg/log"
)

// Options configures the admin server.
type Options struct {
	// ActiveConns reports open protocol connections for /v1/stats.
	ActiveConns func() int
	// MaxBody bounds POST /v1/commands bodies.
	MaxBody int64
	// ShutdownTimeout bounds graceful shutdown. Defaults to 5s.
	ShutdownTimeout time.Duration
}

// Server is the admin HTTP gateway.
type Server struct {
	svc    *commandsvc.Service
	srv    *http.Server
	logger logpkg.Logger
	opts   Options
}

// New builds the router and server around svc.
func New(svc *commandsvc.Service, logger logpkg.Logger, opts Options) *Server {
	if logger == nil {
		logger = logpkg.GetDefaultLogger()
	}
	logger = logger.WithComponent("http")
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(cors)
	r.Use(requestLogger(logger))
	controllers.NewControllerRegistry(svc, controllers.Options{
		ActiveConns: opts.ActiveConns,
		MaxBody:     opts.MaxBody,
	}).RegisterAllRoutes(r)

	return &Server{
		svc:    svc,
		logger: logger,
		opts:   opts,
		srv: &http.Server{
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          logpkg.ToStdLogger(logger, logpkg.WarnLevel),
		},
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ListenAndServe binds addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve serves on l until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.logger.Info("listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(cctx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger logpkg.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				logpkg.Str("method", r.Method),
				logpkg.Str("path", r.URL.Path),
				logpkg.Int("status", ww.Status()),
				logpkg.Int("bytes", ww.BytesWritten()),
				logpkg.Duration("elapsed", time.Since(start)))
		})
	}
}
