package cmdlog

import (
	"errors"
	"fmt"
	"testing"
)

func entry(s string) Entry { return Entry{Data: []byte(s)} }

func sumLengths(r *Ring) int64 {
	var n int64
	r.ForEach(func(_ int, e Entry) bool {
		n += int64(len(e.Data))
		return true
	})
	return n
}

func TestRingInvariantAcrossAppends(t *testing.T) {
	r := NewRing(4)
	for i := 0; i < 25; i++ {
		r.Append(entry(fmt.Sprintf("cmd-%d-%s\n", i, string(make([]byte, i%7)))))
		if r.Len() > r.Cap() {
			t.Fatalf("count %d exceeds capacity %d", r.Len(), r.Cap())
		}
		if got := sumLengths(r); got != r.TotalLength() {
			t.Fatalf("after append %d: total %d, sum %d", i, r.TotalLength(), got)
		}
	}
}

func TestRingFIFOEviction(t *testing.T) {
	const n = 3
	r := NewRing(n)
	var appended []string
	for i := 0; i < 10; i++ {
		s := fmt.Sprintf("%d\n", i)
		evicted, ok := r.Append(entry(s))
		if i < n {
			if ok {
				t.Fatalf("append %d evicted before ring was full", i)
			}
		} else {
			if !ok {
				t.Fatalf("append %d did not evict", i)
			}
			if string(evicted.Data) != appended[i-n] {
				t.Fatalf("append %d evicted %q want %q", i, evicted.Data, appended[i-n])
			}
		}
		appended = append(appended, s)
	}
}

func TestRingEvictionIgnoresSize(t *testing.T) {
	r := NewRing(2)
	r.Append(entry("tiny\n"))
	r.Append(entry("a much longer command than the first\n"))
	evicted, ok := r.Append(entry("x\n"))
	if !ok || string(evicted.Data) != "tiny\n" {
		t.Fatalf("evicted %q, want oldest", evicted.Data)
	}
}

func TestRingCapacityTwoOverflow(t *testing.T) {
	r := NewRing(2)
	r.Append(entry("A\n"))
	r.Append(entry("BB\n"))
	r.Append(entry("CCC\n"))
	got := r.Entries()
	if len(got) != 2 || string(got[0].Data) != "BB\n" || string(got[1].Data) != "CCC\n" {
		t.Fatalf("retained %q", got)
	}
	if r.TotalLength() != int64(len("BB\n")+len("CCC\n")) {
		t.Fatalf("total %d", r.TotalLength())
	}
}

func TestRingEntryAt(t *testing.T) {
	r := NewRing(3)
	for _, s := range []string{"a\n", "b\n", "c\n", "d\n"} {
		r.Append(entry(s))
	}
	for k, want := range []string{"b\n", "c\n", "d\n"} {
		e, err := r.EntryAt(k)
		if err != nil {
			t.Fatalf("entry %d: %v", k, err)
		}
		if string(e.Data) != want {
			t.Fatalf("entry %d = %q want %q", k, e.Data, want)
		}
	}
	if _, err := r.EntryAt(3); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("want out of range, got %v", err)
	}
}

func TestRingFindEntryForOffset(t *testing.T) {
	r := NewRing(10)
	r.Append(entry("abc\n"))
	r.Append(entry("de\n"))
	e, rel, err := r.FindEntryForOffset(5)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if string(e.Data) != "de\n" || rel != 1 {
		t.Fatalf("got %q rel %d", e.Data, rel)
	}
	if _, _, err := r.FindEntryForOffset(r.TotalLength()); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("want out of range at end, got %v", err)
	}
	if _, _, err := NewRing(1).FindEntryForOffset(0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("want out of range on empty ring, got %v", err)
	}
}

func TestRingForEachStops(t *testing.T) {
	r := NewRing(5)
	for i := 0; i < 5; i++ {
		r.Append(entry("x\n"))
	}
	visited := 0
	r.ForEach(func(k int, _ Entry) bool {
		visited++
		return k < 1
	})
	if visited != 2 {
		t.Fatalf("visited %d", visited)
	}
}

func TestNewRingRejectsZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewRing(0)
}
