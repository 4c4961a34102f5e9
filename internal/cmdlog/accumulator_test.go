package cmdlog

import (
	"bytes"
	"errors"
	"testing"
)

func TestAccumulatorSplitsAcrossFeeds(t *testing.T) {
	a := NewAccumulator(0)
	out, err := a.Feed([]byte("ab"))
	if err != nil || len(out) != 0 {
		t.Fatalf("first feed %q %v", out, err)
	}
	out, err = a.Feed([]byte("c\nde\nf"))
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(out) != 2 || string(out[0]) != "abc\n" || string(out[1]) != "de\n" {
		t.Fatalf("sealed %q", out)
	}
	if a.Pending() != 1 {
		t.Fatalf("pending %d", a.Pending())
	}
	out, _ = a.Feed([]byte("\n"))
	if len(out) != 1 || string(out[0]) != "f\n" {
		t.Fatalf("tail sealed %q", out)
	}
}

func TestAccumulatorSealedEntriesDoNotAlias(t *testing.T) {
	a := NewAccumulator(0)
	out, _ := a.Feed([]byte("one\n"))
	first := out[0]
	_, _ = a.Feed([]byte("two\n"))
	if string(first) != "one\n" {
		t.Fatalf("sealed entry was overwritten: %q", first)
	}
}

func TestAccumulatorGrowsGeometrically(t *testing.T) {
	a := NewAccumulator(0)
	chunk := bytes.Repeat([]byte{'z'}, 100)
	caps := map[int]bool{}
	for i := 0; i < 100; i++ {
		if _, err := a.Feed(chunk); err != nil {
			t.Fatalf("feed: %v", err)
		}
		caps[cap(a.buf)] = true
	}
	// 10000 pending bytes from a 1024 start: 1024, 2048, 4096, 8192, 16384
	if len(caps) != 5 {
		t.Fatalf("unexpected number of reallocations: %v", caps)
	}
	out, _ := a.Feed([]byte("\n"))
	if len(out) != 1 || len(out[0]) != 10001 {
		t.Fatalf("long command not sealed intact")
	}
}

func TestAccumulatorMaxSize(t *testing.T) {
	a := NewAccumulator(8)
	out, err := a.Feed([]byte("ok\n0123456789\n"))
	if !errors.Is(err, ErrCommandTooLarge) {
		t.Fatalf("want ErrCommandTooLarge, got %v", err)
	}
	if len(out) != 1 || string(out[0]) != "ok\n" {
		t.Fatalf("commands before the oversize one should be returned: %q", out)
	}
	if a.Pending() != 0 {
		t.Fatalf("oversized bytes retained")
	}
}

func TestAccumulatorReset(t *testing.T) {
	a := NewAccumulator(0)
	_, _ = a.Feed([]byte("partial"))
	a.Reset()
	out, _ := a.Feed([]byte("x\n"))
	if string(out[0]) != "x\n" {
		t.Fatalf("reset kept partial: %q", out[0])
	}
}
