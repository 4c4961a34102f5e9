package tcpserver

import (
	"context"
	"errors"
	"io"
	"net"

	"golang.org/x/time/rate"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/pkg/log"
)

const readChunk = 1024

// workerState names the stage a connection worker is in.
type workerState int

const (
	stateReceiving workerState = iota
	stateAppending
	stateReplaying
	stateClosed
)

func (s workerState) String() string {
	switch s {
	case stateReceiving:
		return "receiving"
	case stateAppending:
		return "appending"
	case stateReplaying:
		return "replaying"
	default:
		return "closed"
	}
}

// worker serves one connection until EOF, an I/O error, an oversized
// command, a storage failure or shutdown.
type worker struct {
	id      string
	conn    net.Conn
	log     *cmdlog.Log
	acc     *cmdlog.Accumulator
	cursor  *cmdlog.Cursor
	limiter *rate.Limiter
	logger  log.Logger
	stats   *counters
	state   workerState
}

func (w *worker) run(ctx context.Context) {
	stop := context.AfterFunc(ctx, func() { _ = w.conn.Close() })
	defer stop()
	defer func() {
		w.state = stateClosed
		_ = w.conn.Close()
	}()

	buf := make([]byte, readChunk)
	for {
		w.state = stateReceiving
		n, rerr := w.conn.Read(buf)
		if n > 0 {
			cmds, ferr := w.acc.Feed(buf[:n])
			for _, cmd := range cmds {
				if err := w.handle(ctx, cmd); err != nil {
					w.closeWith(ctx, err)
					return
				}
			}
			if ferr != nil {
				w.logger.Warn("command too large, closing connection", log.Err(ferr))
				return
			}
		}
		if rerr != nil {
			w.closeWith(ctx, rerr)
			return
		}
	}
}

func (w *worker) handle(ctx context.Context, cmd []byte) error {
	if x, y, ok := parseSeekTo(cmd); ok {
		return w.seekTo(x, y)
	}
	if w.limiter != nil {
		if err := w.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	w.state = stateAppending
	e, err := w.log.Append(ctx, cmd)
	if err != nil {
		return err
	}
	w.stats.commands.Add(1)
	w.logger.Debug("appended command", log.Uint64("seq", e.Seq), log.Int("bytes", e.Len()))

	w.state = stateReplaying
	_, err = w.log.WriteTo(w.conn)
	return err
}

// seekTo moves the cursor and sends from it to the end. Addressing errors
// are logged and leave the connection open with nothing sent.
func (w *worker) seekTo(x, y int64) error {
	w.stats.seeks.Add(1)
	if _, err := w.cursor.SeekTo(x, y); err != nil {
		if errors.Is(err, cmdlog.ErrOutOfRange) {
			w.logger.Warn("seek rejected", log.Int64("cmd", x), log.Int64("offset", y), log.Err(err))
			return nil
		}
		return err
	}
	w.state = stateReplaying
	_, err := w.cursor.WriteTo(w.conn)
	return err
}

func (w *worker) closeWith(ctx context.Context, err error) {
	if p := w.acc.Pending(); p > 0 {
		w.logger.Debug("dropping unterminated command", log.Int("bytes", p))
	}
	switch {
	case errors.Is(err, io.EOF):
		w.logger.Debug("client closed connection")
	case ctx.Err() != nil:
		w.logger.Debug("connection closed for shutdown")
	default:
		w.logger.Warn("connection error", log.Str("state", w.state.String()), log.Err(err))
	}
}
