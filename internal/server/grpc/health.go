package grpcserver

import (
	"context"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	logpkg "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/pkg/log"
)

// ServiceName is the health service name reported alongside the overall
// ("") status.
const ServiceName = "aesd.CommandLog"

// Checker reports whether the command log can serve.
type Checker interface {
	CheckHealth(ctx context.Context) error
}

func (s *Server) watch(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.refresh(ctx)
		}
	}
}

func (s *Server) refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	cctx, cancel := context.WithTimeout(ctx, s.interval)
	err := s.checker.CheckHealth(cctx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.Warn("health check failed", logpkg.Err(err))
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
