package commandsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
	cfgpkg "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/config"
	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/runtime"
	logpkg "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/pkg/log"
)

var t0 = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, capacity int, cmds ...string) *Service {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.Capacity = capacity
	cfg.MaxCommandBytes = 64
	tick := t0
	rt, err := runtime.Open(context.Background(), runtime.Options{
		Config: cfg,
		Logger: logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{})),
		Now: func() time.Time {
			tick = tick.Add(time.Second)
			return tick
		},
	})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	svc := NewWithLogger(rt, logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{})))
	svc.now = func() time.Time { return t0.Add(time.Hour) }
	for _, c := range cmds {
		if _, err := rt.Log().Append(context.Background(), []byte(c)); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return svc
}

func TestListAll(t *testing.T) {
	svc := newTestService(t, 10, "a\n", "bb\n", "timestamp:x\n")
	items, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items", len(items))
	}
	if items[1].Index != 1 || items[1].Size != 3 || items[1].Text != "bb\n" || items[1].Seq != 2 {
		t.Fatalf("unexpected item %+v", items[1])
	}
	if items[0].AppendedMs != t0.Add(time.Second).UnixMilli() {
		t.Fatalf("appended_ms = %d", items[0].AppendedMs)
	}
}

func TestListFilter(t *testing.T) {
	svc := newTestService(t, 10, "a\n", "bb\n", "timestamp:x\n", "ccc\n")
	tests := []struct {
		expr string
		want []int
	}{
		{`size > 2`, []int{1, 2, 3}},
		{`text.startsWith("timestamp:")`, []int{2}},
		{`index == 0 || seq == 4`, []int{0, 3}},
		{`now_ms - ts_ms > 0 && size == 2`, []int{0}},
		{`false`, nil},
	}
	for _, tt := range tests {
		items, err := svc.List(context.Background(), tt.expr)
		if err != nil {
			t.Fatalf("%s: %v", tt.expr, err)
		}
		if len(items) != len(tt.want) {
			t.Fatalf("%s: got %d items, want %v", tt.expr, len(items), tt.want)
		}
		for i, it := range items {
			if it.Index != tt.want[i] {
				t.Fatalf("%s: item %d index %d, want %d", tt.expr, i, it.Index, tt.want[i])
			}
		}
	}
}

func TestListBadFilter(t *testing.T) {
	svc := newTestService(t, 10)
	for _, expr := range []string{`size >`, `size + 1`, `unknown_var == 1`} {
		if _, err := svc.List(context.Background(), expr); !errors.Is(err, ErrBadFilter) {
			t.Errorf("%q: expected ErrBadFilter, got %v", expr, err)
		}
	}
}

func TestReadFrom(t *testing.T) {
	svc := newTestService(t, 10, "one\n", "two\n")
	ctx := context.Background()
	got, err := svc.ReadFrom(ctx, 2)
	if err != nil || string(got) != "e\ntwo\n" {
		t.Fatalf("ReadFrom(2) = %q, %v", got, err)
	}
	got, err = svc.ReadFrom(ctx, 8)
	if err != nil || len(got) != 0 {
		t.Fatalf("ReadFrom(end) = %q, %v", got, err)
	}
	if _, err := svc.ReadFrom(ctx, 9); !errors.Is(err, cmdlog.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestTail(t *testing.T) {
	svc := newTestService(t, 10, "one\n")
	ctx := context.Background()
	got, err := svc.Tail(ctx, 4, 20*time.Millisecond)
	if err != nil || len(got) != 0 {
		t.Fatalf("Tail(idle) = %q, %v", got, err)
	}
	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = svc.rt.Log().Append(context.Background(), []byte("two\n"))
	}()
	got, err = svc.Tail(ctx, 4, 5*time.Second)
	if err != nil || string(got) != "two\n" {
		t.Fatalf("Tail(wake) = %q, %v", got, err)
	}
	got, err = svc.Tail(ctx, 0, time.Second)
	if err != nil || string(got) != "one\ntwo\n" {
		t.Fatalf("Tail(ready) = %q, %v", got, err)
	}
}

func TestTailAppendBetweenReadAndWait(t *testing.T) {
	svc := newTestService(t, 10, "one\n")
	svc.tailGap = func() {
		if _, err := svc.rt.Log().Append(context.Background(), []byte("two\n")); err != nil {
			t.Errorf("append: %v", err)
		}
	}
	start := time.Now()
	got, err := svc.Tail(context.Background(), 4, 30*time.Second)
	if err != nil || string(got) != "two\n" {
		t.Fatalf("Tail = %q, %v", got, err)
	}
	if d := time.Since(start); d > 5*time.Second {
		t.Fatalf("Tail waited %v for content that was already there", d)
	}
}

func TestSeek(t *testing.T) {
	svc := newTestService(t, 10, "one\n", "two\n")
	off, data, err := svc.Seek(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if off != 6 || string(data) != "o\n" {
		t.Fatalf("seek = %d %q", off, data)
	}
	var ae *cmdlog.AddressingError
	if _, _, err := svc.Seek(context.Background(), 2, 0); !errors.As(err, &ae) {
		t.Fatalf("expected AddressingError, got %v", err)
	}
}

func TestSubmit(t *testing.T) {
	svc := newTestService(t, 2)
	ctx := context.Background()
	entries, err := svc.Submit(ctx, []byte("x\ny\nz\n"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("appended %d", len(entries))
	}
	data, _ := svc.ReadFrom(ctx, 0)
	if string(data) != "y\nz\n" {
		t.Fatalf("log = %q", data)
	}
	if st := svc.Stats(); st.Count != 2 || st.LastSeq != 3 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestSubmitRejects(t *testing.T) {
	svc := newTestService(t, 10)
	ctx := context.Background()
	if _, err := svc.Submit(ctx, []byte("a\nb")); !errors.Is(err, ErrUnterminated) {
		t.Fatalf("expected ErrUnterminated, got %v", err)
	}
	if _, err := svc.Submit(ctx, nil); !errors.Is(err, ErrUnterminated) {
		t.Fatalf("expected ErrUnterminated for empty body, got %v", err)
	}
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	long[len(long)-1] = '\n'
	if _, err := svc.Submit(ctx, long); !errors.Is(err, cmdlog.ErrCommandTooLarge) {
		t.Fatalf("expected ErrCommandTooLarge, got %v", err)
	}
	if svc.Stats().Count != 0 {
		t.Fatalf("rejected submissions reached the log")
	}
	if err := svc.Health(ctx); err != nil {
		t.Fatalf("health: %v", err)
	}
}
