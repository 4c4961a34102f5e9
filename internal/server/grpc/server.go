package grpcserver

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	logpkg "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/pkg/log"
)

// Options configures the gRPC server.
type Options struct {
	// HealthInterval is how often the checker is polled. Defaults to 1s.
	HealthInterval time.Duration
}

// Server owns the gRPC server and its health service.
type Server struct {
	grpc     *grpc.Server
	health   *health.Server
	checker  Checker
	interval time.Duration
	logger   logpkg.Logger
}

// New constructs a gRPC server exposing grpc.health.v1 for checker.
func New(checker Checker, logger logpkg.Logger, opts Options, grpcOpts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = logpkg.GetDefaultLogger()
	}
	if opts.HealthInterval <= 0 {
		opts.HealthInterval = time.Second
	}
	s := &Server{
		grpc:     grpc.NewServer(grpcOpts...),
		health:   health.NewServer(),
		checker:  checker,
		interval: opts.HealthInterval,
		logger:   logger.WithComponent("grpc"),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	reflection.Register(s.grpc)
	return s
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve serves on l until ctx is done. On shutdown every service is marked
// NOT_SERVING before the server stops gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.logger.Info("listening", logpkg.Str("addr", l.Addr().String()))
	s.refresh(ctx)
	wctx, stop := context.WithCancel(ctx)
	defer stop()
	go s.watch(wctx)

	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(l) }()
	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpc.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
