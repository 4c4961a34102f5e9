// Package grpcserver exposes the standard grpc.health.v1 service for the
// command log, plus server reflection. Status is SERVING while the runtime
// health check passes and NOT_SERVING once shutdown starts.
package grpcserver
