package grpcserver

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	logpkg "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/pkg/log"
)

const bufSize = 1 << 20

type fakeChecker struct {
	fail atomic.Bool
}

func (f *fakeChecker) CheckHealth(context.Context) error {
	if f.fail.Load() {
		return errors.New("mirror unreachable")
	}
	return nil
}

type harness struct {
	client healthpb.HealthClient
	cancel context.CancelFunc
	done   chan error
}

func start(t *testing.T, checker Checker) *harness {
	t.Helper()
	srv := New(checker, logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{})), Options{HealthInterval: 10 * time.Millisecond})
	lis := bufconn.Listen(bufSize)
	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{cancel: cancel, done: make(chan error, 1)}
	go func() { h.done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-h.done
	})
	h.client = healthpb.NewHealthClient(conn)
	return h
}

func waitStatus(t *testing.T, c healthpb.HealthClient, service string, want healthpb.HealthCheckResponse_ServingStatus) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		res, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		cancel()
		if err == nil && res.GetStatus() == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("service %q: want %v, last res=%v err=%v", service, want, res.GetStatus(), err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHealthServing(t *testing.T) {
	h := start(t, &fakeChecker{})
	waitStatus(t, h.client, "", healthpb.HealthCheckResponse_SERVING)
	waitStatus(t, h.client, ServiceName, healthpb.HealthCheckResponse_SERVING)
}

func TestHealthTracksChecker(t *testing.T) {
	fc := &fakeChecker{}
	h := start(t, fc)
	waitStatus(t, h.client, ServiceName, healthpb.HealthCheckResponse_SERVING)
	fc.fail.Store(true)
	waitStatus(t, h.client, ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	fc.fail.Store(false)
	waitStatus(t, h.client, ServiceName, healthpb.HealthCheckResponse_SERVING)
}

func TestServeReturnsOnCancel(t *testing.T) {
	h := start(t, &fakeChecker{})
	waitStatus(t, h.client, "", healthpb.HealthCheckResponse_SERVING)
	h.cancel()
	select {
	case err := <-h.done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
		h.done <- nil
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not return")
	}
}
