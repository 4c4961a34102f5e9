// Package transports provides the wire clients behind the CLI commands.
package transports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// CommandTransport exchanges raw protocol bytes with the command port.
type CommandTransport interface {
	// Exchange writes payload, half-closes the connection and returns
	// everything the server sends back before it closes.
	Exchange(ctx context.Context, payload []byte) ([]byte, error)
}

// TCPTransport implements CommandTransport over a plain TCP connection.
type TCPTransport struct {
	Addr string
	// Timeout bounds the whole exchange. Defaults to 10s.
	Timeout time.Duration
}

// NewTCPTransport returns a transport dialing addr.
func NewTCPTransport(addr string) *TCPTransport {
	return &TCPTransport{Addr: addr, Timeout: 10 * time.Second}
}

// Exchange implements CommandTransport.
func (t *TCPTransport) Exchange(ctx context.Context, payload []byte) ([]byte, error) {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.Addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", t.Addr, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if _, err := conn.Write(payload); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	// The server finishes every complete command before it sees EOF.
	if tc, ok := conn.(*net.TCPConn); ok {
		if err := tc.CloseWrite(); err != nil {
			return nil, fmt.Errorf("close write: %w", err)
		}
	}
	out, err := io.ReadAll(conn)
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return out, fmt.Errorf("read: %w", err)
	}
	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	return out, nil
}
