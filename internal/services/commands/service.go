package commandsvc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/runtime"
	logpkg "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/pkg/log"
)

var (
	// ErrBadFilter wraps CEL compile errors.
	ErrBadFilter = errors.New("commands: invalid filter")
	// ErrUnterminated is returned by Submit when the body does not end with
	// the delimiter. Nothing is appended.
	ErrUnterminated = errors.New("commands: body must end with a newline")

	errNotBool = errors.New("filter must evaluate to a bool")
)

// Item describes one retained command.
type Item struct {
	Index      int    `json:"index"`
	Seq        uint64 `json:"seq"`
	Size       int    `json:"size"`
	AppendedMs int64  `json:"appended_ms"`
	Text       string `json:"text"`
}

// Service provides read and admin-append operations over the shared log.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
	now    func() time.Time
	// tailGap runs between Tail's empty read and its wait (tests).
	tailGap func()
}

// New returns a Service using the default logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, nil)
}

// NewWithLogger returns a Service using the provided logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.GetDefaultLogger()
	}
	return &Service{rt: rt, logger: logger.WithComponent("commands"), now: time.Now}
}

// Health reports runtime health.
func (s *Service) Health(ctx context.Context) error {
	return s.rt.CheckHealth(ctx)
}

// Stats returns the log counters.
func (s *Service) Stats() cmdlog.Stats {
	return s.rt.Log().Stats()
}

// List returns the retained commands, oldest first, that match filter. An
// empty filter matches everything.
func (s *Service) List(ctx context.Context, filter string) ([]Item, error) {
	f, err := newCELFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFilter, err)
	}
	now := s.now()
	items := []Item{}
	for k, e := range s.rt.Log().Snapshot() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		it := Item{
			Index:      k,
			Seq:        e.Seq,
			Size:       e.Len(),
			AppendedMs: e.Time.UnixMilli(),
			Text:       string(e.Data),
		}
		if f.Eval(it, now) {
			items = append(items, it)
		}
	}
	return items, nil
}

// ReadFrom returns the content from global offset off to the end. An offset
// equal to the total length yields no bytes; beyond it is an addressing
// error.
func (s *Service) ReadFrom(ctx context.Context, off int64) ([]byte, error) {
	c := s.rt.Log().NewCursor()
	if _, err := c.Seek(off, io.SeekStart); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Tail is ReadFrom that, when off is at the end of the log, waits up to
// wait for content to appear there before reading.
func (s *Service) Tail(ctx context.Context, off int64, wait time.Duration) ([]byte, error) {
	data, err := s.ReadFrom(ctx, off)
	if err != nil || len(data) > 0 || wait <= 0 {
		return data, err
	}
	if s.tailGap != nil {
		s.tailGap()
	}
	wctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	if !s.rt.Log().WaitForAppend(wctx, off) {
		return data, nil
	}
	return s.ReadFrom(ctx, off)
}

// Seek resolves byte off of retained command cmd to a global offset and
// returns the content from there to the end.
func (s *Service) Seek(ctx context.Context, cmd, off int64) (int64, []byte, error) {
	c := s.rt.Log().NewCursor()
	pos, err := c.SeekTo(cmd, off)
	if err != nil {
		return 0, nil, err
	}
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return 0, nil, err
	}
	return pos, buf.Bytes(), nil
}

// Submit appends every newline-terminated command in body, in order. The
// body must end with a newline and every command must fit the configured
// maximum; otherwise nothing is appended.
func (s *Service) Submit(ctx context.Context, body []byte) ([]cmdlog.Entry, error) {
	if len(body) == 0 || body[len(body)-1] != cmdlog.Delimiter {
		return nil, ErrUnterminated
	}
	acc := cmdlog.NewAccumulator(s.rt.Config().MaxCommandBytes)
	cmds, err := acc.Feed(body)
	if err != nil {
		return nil, err
	}
	out := make([]cmdlog.Entry, 0, len(cmds))
	for _, cmd := range cmds {
		e, err := s.rt.Log().Append(ctx, cmd)
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	s.logger.Info("admin submit", logpkg.Int("commands", len(out)), logpkg.Int("bytes", len(body)))
	return out, nil
}
