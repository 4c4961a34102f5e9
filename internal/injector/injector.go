// Package injector appends a wall-clock timestamp command to the log on a
// fixed interval.
package injector

import (
	"context"
	"time"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/pkg/log"
)

// TimeLayout is the RFC 2822 layout used in timestamp commands.
const TimeLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// Prefix starts every timestamp command.
const Prefix = "timestamp:"

// Appender is the part of the log the injector needs.
type Appender interface {
	Append(ctx context.Context, data []byte) (cmdlog.Entry, error)
}

// Options configures an Injector.
type Options struct {
	Interval time.Duration
	// Now overrides the wall clock.
	Now func() time.Time
	// Tick overrides the ticker channel source.
	Tick   func(d time.Duration) (<-chan time.Time, func())
	Logger log.Logger
}

// Injector appends "timestamp:<time>\n" every Interval.
type Injector struct {
	log    Appender
	opts   Options
	logger log.Logger
}

// New returns an injector appending to l.
func New(l Appender, opts Options) *Injector {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Tick == nil {
		opts.Tick = func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &Injector{log: l, opts: opts, logger: logger.WithComponent("injector")}
}

// Format renders the timestamp command for t.
func Format(t time.Time) []byte {
	b := make([]byte, 0, len(Prefix)+len(TimeLayout)+1)
	b = append(b, Prefix...)
	b = t.AppendFormat(b, TimeLayout)
	return append(b, '\n')
}

// Run appends one timestamp per tick until ctx is done. A non-positive
// interval returns immediately. Append failures are logged and the next
// tick tries again.
func (i *Injector) Run(ctx context.Context) error {
	if i.opts.Interval <= 0 {
		return nil
	}
	ticks, stop := i.opts.Tick(i.opts.Interval)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticks:
			e, err := i.log.Append(ctx, Format(i.opts.Now()))
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				i.logger.Error("timestamp append failed", log.Err(err))
				continue
			}
			i.logger.Debug("appended timestamp", log.Uint64("seq", e.Seq))
		}
	}
}
