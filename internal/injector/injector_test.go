package injector

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/pkg/log"
)

func quiet() log.Logger { return log.NewLogger(log.WithOutput(log.NullOutput{})) }

func TestFormat(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.FixedZone("", -7*3600))
	got := string(Format(ts))
	want := "timestamp:Tue, 05 Mar 2024 07:08:09 -0700\n"
	if got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

func TestRunAppendsOnEveryTick(t *testing.T) {
	l := cmdlog.New(cmdlog.Options{Capacity: 10})
	ticks := make(chan time.Time)
	fixed := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	inj := New(l, Options{
		Interval: time.Second,
		Now:      func() time.Time { return fixed },
		Tick:     func(time.Duration) (<-chan time.Time, func()) { return ticks, func() {} },
		Logger:   quiet(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- inj.Run(ctx) }()

	ticks <- time.Time{}
	ticks <- time.Time{}
	ticks <- time.Time{}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}

	var buf bytes.Buffer
	if _, err := l.WriteTo(&buf); err != nil {
		t.Fatalf("replay: %v", err)
	}
	line := "timestamp:Mon, 01 Jan 2024 00:00:00 +0000\n"
	if buf.String() != line+line+line {
		t.Fatalf("log = %q", buf.String())
	}
}

func TestRunDisabled(t *testing.T) {
	inj := New(cmdlog.New(cmdlog.Options{}), Options{Logger: quiet()})
	if err := inj.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
}

type flakyAppender struct {
	mu    sync.Mutex
	calls int
}

func (f *flakyAppender) Append(context.Context, []byte) (cmdlog.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls == 1 {
		return cmdlog.Entry{}, errors.New("mirror down")
	}
	return cmdlog.Entry{Seq: uint64(f.calls)}, nil
}

func TestRunSurvivesAppendFailure(t *testing.T) {
	f := &flakyAppender{}
	ticks := make(chan time.Time)
	inj := New(f, Options{
		Interval: time.Second,
		Tick:     func(time.Duration) (<-chan time.Time, func()) { return ticks, func() {} },
		Logger:   quiet(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- inj.Run(ctx) }()
	ticks <- time.Time{}
	ticks <- time.Time{}
	cancel()
	<-done
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls != 2 {
		t.Fatalf("calls = %d, want 2", f.calls)
	}
}

func TestRunWithRealTicker(t *testing.T) {
	l := cmdlog.New(cmdlog.Options{Capacity: 10})
	inj := New(l, Options{Interval: 10 * time.Millisecond, Logger: quiet()})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- inj.Run(ctx) }()
	deadline := time.After(2 * time.Second)
	for l.Len() < 2 {
		wctx, wcancel := context.WithTimeout(ctx, 100*time.Millisecond)
		l.WaitForAppend(wctx, l.TotalLength())
		wcancel()
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for timestamps")
		default:
		}
	}
	cancel()
	<-done
}
