package cmdlog

import (
	"errors"
	"testing"
)

func filledRing(t *testing.T, capacity int, cmds ...string) *Ring {
	t.Helper()
	r := NewRing(capacity)
	for _, c := range cmds {
		r.Append(entry(c))
	}
	return r
}

func TestOffsetRoundTrip(t *testing.T) {
	r := filledRing(t, 3, "zero\n", "one\n", "two22\n", "three\n")
	for o := int64(0); o < r.TotalLength(); o++ {
		e, rel, err := r.FindEntryForOffset(o)
		if err != nil {
			t.Fatalf("offset %d: %v", o, err)
		}
		var older int64
		r.ForEach(func(_ int, x Entry) bool {
			if x.Seq == e.Seq && string(x.Data) == string(e.Data) {
				return false
			}
			older += int64(len(x.Data))
			return true
		})
		if older+rel != o {
			t.Fatalf("offset %d mapped to older=%d rel=%d", o, older, rel)
		}
	}
}

func TestSeekRoundTrip(t *testing.T) {
	r := filledRing(t, 4, "a\n", "bcd\n", "efghij\n", "k\n", "lm\n")
	for k := 0; k < r.Len(); k++ {
		e, _ := r.EntryAt(k)
		for j := 0; j < len(e.Data); j++ {
			g, err := r.Resolve(int64(k), int64(j))
			if err != nil {
				t.Fatalf("resolve(%d,%d): %v", k, j, err)
			}
			got, rel, err := r.FindEntryForOffset(g)
			if err != nil {
				t.Fatalf("find(%d): %v", g, err)
			}
			if string(got.Data) != string(e.Data) || rel != int64(j) {
				t.Fatalf("resolve(%d,%d)=%d maps back to %q/%d", k, j, g, got.Data, rel)
			}
			kk, jj, err := r.Locate(g)
			if err != nil || kk != k || jj != int64(j) {
				t.Fatalf("locate(%d) = %d,%d,%v", g, kk, jj, err)
			}
		}
	}
}

func TestResolveErrors(t *testing.T) {
	r := filledRing(t, 10, "abc\n", "de\n")
	tests := []struct {
		name     string
		cmd, off int64
		limit    int64
	}{
		{name: "index past count", cmd: 2, off: 0, limit: 2},
		{name: "negative index", cmd: -1, off: 0, limit: 2},
		{name: "offset at entry length", cmd: 1, off: 3, limit: 3},
		{name: "negative offset", cmd: 0, off: -1, limit: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.cmd, tt.off)
			var ae *AddressingError
			if !errors.As(err, &ae) {
				t.Fatalf("want AddressingError, got %v", err)
			}
			if ae.Op != OpSeekTo || ae.Limit != tt.limit {
				t.Fatalf("unexpected error %+v", ae)
			}
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("error should match ErrOutOfRange")
			}
		})
	}
}

func TestResolveAfterEviction(t *testing.T) {
	r := filledRing(t, 2, "first\n", "second\n", "third\n")
	g, err := r.Resolve(0, 0)
	if err != nil || g != 0 {
		t.Fatalf("oldest command should start at 0, got %d %v", g, err)
	}
	g, err = r.Resolve(1, 2)
	if err != nil || g != int64(len("second\n"))+2 {
		t.Fatalf("resolve(1,2) = %d %v", g, err)
	}
}
