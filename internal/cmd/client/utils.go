package client

import (
	"context"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// AddrFunc provides an endpoint address (e.g., from env or flag).
type AddrFunc func() string

// CommandAddrFromEnv returns the command port from AESD_ADDR or a default.
func CommandAddrFromEnv() string {
	if addr := os.Getenv("AESD_ADDR"); addr != "" {
		return addr
	}
	return "127.0.0.1:9000"
}

// HTTPBaseFromEnv returns the admin API base URL from AESD_HTTP or a default.
func HTTPBaseFromEnv() string {
	if v := os.Getenv("AESD_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}

// GRPCAddrFromEnv returns the gRPC address from AESD_GRPC or a default.
func GRPCAddrFromEnv() string {
	if addr := os.Getenv("AESD_GRPC"); addr != "" {
		return addr
	}
	return "127.0.0.1:50051"
}

// grpcDialer returns a dialer for addr with insecure transport for local/dev.
func grpcDialer(addr string) func(context.Context) (*grpc.ClientConn, error) {
	return func(context.Context) (*grpc.ClientConn, error) {
		return grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
}
