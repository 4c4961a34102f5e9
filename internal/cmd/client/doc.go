// Package client provides the `aesdsocket` command-line client.
//
// The protocol commands speak the raw TCP command protocol; the admin
// commands use the optional HTTP and gRPC endpoints.
//
// # Address configuration
//
// The command port is read from --addr or AESD_ADDR (default
// 127.0.0.1:9000). The admin API base URL comes from --http or AESD_HTTP
// (default http://127.0.0.1:8080) and the gRPC address from --grpc or
// AESD_GRPC (default 127.0.0.1:50051).
//
// Usage
//
//	aesdsocket send "hello"
//	aesdsocket send --data 'second line'
//
//	# Print from byte 2 of the command at index 1
//	aesdsocket seekto --cmd 1 --offset 2
//
//	aesdsocket log --offset 10
//	aesdsocket stats
//	aesdsocket health
//
// Notes
//
//   - send and seekto half-close the connection after writing, so the
//     output is exactly what the server replied before closing.
//   - seekto prints nothing when the position is not addressable; the
//     server sends no reply in that case.
package client
