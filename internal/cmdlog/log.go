package cmdlog

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Options configures a Log.
type Options struct {
	// Capacity is the number of commands retained. Defaults to DefaultCapacity.
	Capacity int
	// Mirror, when set, is committed before every ring change.
	Mirror Mirror
	// Now overrides the append clock (tests).
	Now func() time.Time
}

// Log is the process-wide shared command log. All mutation and every full
// read hold the same mutex, so a replay always sees a consistent snapshot.
type Log struct {
	mu       sync.Mutex
	ring     *Ring
	lastSeq  uint64
	mirror   Mirror
	now      func() time.Time
	notifyCh chan struct{}
}

// New constructs an empty Log.
func New(opts Options) *Log {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Log{
		ring:     NewRing(opts.Capacity),
		mirror:   opts.Mirror,
		now:      opts.Now,
		notifyCh: make(chan struct{}),
	}
}

// Restore loads the mirror content into an empty log. Records beyond the
// capacity are dropped from the mirror, oldest first. It returns the number
// of entries restored.
func (l *Log) Restore(ctx context.Context) (int, error) {
	if l.mirror == nil {
		return 0, nil
	}
	recs, err := l.mirror.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("cmdlog: load mirror: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ring.Len() != 0 {
		return 0, fmt.Errorf("cmdlog: restore into non-empty log")
	}
	if extra := len(recs) - l.ring.Cap(); extra > 0 {
		if err := l.mirror.Commit(ctx, Batch{Delete: recs[:extra]}); err != nil {
			return 0, fmt.Errorf("cmdlog: trim mirror: %w", err)
		}
		recs = recs[extra:]
	}
	n := 0
	for _, r := range recs {
		if len(r.Data) == 0 {
			continue
		}
		l.ring.Append(entryOf(r))
		if r.Seq > l.lastSeq {
			l.lastSeq = r.Seq
		}
		n++
	}
	return n, nil
}

// Append seals data as the newest entry, evicting the oldest one when the
// ring is full. data must end with the delimiter. The Log takes ownership of
// data. When a mirror is configured
// the change is committed there first; on failure nothing is appended.
func (l *Log) Append(ctx context.Context, data []byte) (Entry, error) {
	if len(data) == 0 {
		return Entry{}, ErrEmptyCommand
	}
	if data[len(data)-1] != Delimiter {
		return Entry{}, ErrUnterminated
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Entry{Seq: l.lastSeq + 1, Time: l.now(), Data: data}
	if l.mirror != nil {
		b := Batch{Put: []Record{recordOf(e)}}
		if l.ring.Full() {
			oldest, _ := l.ring.EntryAt(0)
			b.Delete = []Record{recordOf(oldest)}
		}
		if err := l.mirror.Commit(ctx, b); err != nil {
			return Entry{}, fmt.Errorf("cmdlog: mirror commit: %w", err)
		}
	}
	l.ring.Append(e)
	l.lastSeq = e.Seq

	// notify waiters
	close(l.notifyCh)
	l.notifyCh = make(chan struct{})
	return e, nil
}

// Snapshot returns the retained entries oldest to newest.
func (l *Log) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ring.Entries()
}

// WriteTo replays every retained entry to w, oldest first. The entry list is
// taken under the lock and written after it is released; entries are
// immutable, so the output is exactly the content at the time of the call.
func (l *Log) WriteTo(w io.Writer) (int64, error) {
	return writeEntries(w, l.Snapshot(), 0)
}

func writeEntries(w io.Writer, entries []Entry, skip int64) (int64, error) {
	var n int64
	for _, e := range entries {
		data := e.Data
		if skip > 0 {
			if skip >= int64(len(data)) {
				skip -= int64(len(data))
				continue
			}
			data = data[skip:]
			skip = 0
		}
		m, err := w.Write(data)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadAt implements io.ReaderAt over the concatenated retained content.
func (l *Log) ReadAt(p []byte, off int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if off < 0 {
		return 0, &AddressingError{Op: OpOffset, Index: off, Limit: l.ring.TotalLength()}
	}
	n := 0
	for n < len(p) {
		e, rel, err := l.ring.FindEntryForOffset(off + int64(n))
		if err != nil {
			return n, io.EOF
		}
		n += copy(p[n:], e.Data[rel:])
	}
	return n, nil
}

// TotalLength returns the byte length of the retained content.
func (l *Log) TotalLength() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ring.TotalLength()
}

// Len returns the number of retained commands.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ring.Len()
}

// EntryAt returns the k-th oldest retained command.
func (l *Log) EntryAt(k int) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ring.EntryAt(k)
}

// FindEntryForOffset returns the entry holding a global offset and the
// residual offset within it.
func (l *Log) FindEntryForOffset(global int64) (Entry, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ring.FindEntryForOffset(global)
}

// Resolve maps (command index, offset within command) to a global offset.
func (l *Log) Resolve(cmd, off int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ring.Resolve(cmd, off)
}

// Locate maps a global offset to (command index, offset within command).
func (l *Log) Locate(global int64) (int, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ring.Locate(global)
}

// Stats is a point-in-time summary of the log.
type Stats struct {
	Count      int    `json:"count"`
	Capacity   int    `json:"capacity"`
	TotalBytes int64  `json:"total_bytes"`
	FirstSeq   uint64 `json:"first_seq"`
	LastSeq    uint64 `json:"last_seq"`
}

// Stats returns counters for the retained content.
func (l *Log) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := Stats{
		Count:      l.ring.Len(),
		Capacity:   l.ring.Cap(),
		TotalBytes: l.ring.TotalLength(),
		LastSeq:    l.lastSeq,
	}
	if oldest, err := l.ring.EntryAt(0); err == nil {
		st.FirstSeq = oldest.Seq
	}
	return st
}

// AppendSignal reports whether content exists at global offset off and,
// under the same lock, returns a channel closed by the next append. A reader
// that found nothing at off and gets ready == false can wait on ch without
// missing an append that landed in between.
func (l *Log) AppendSignal(off int64) (ready bool, ch <-chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return off < l.ring.TotalLength(), l.notifyCh
}

// WaitForAppend blocks until content exists at global offset off or until
// ctx is done. It returns true once content is available.
func (l *Log) WaitForAppend(ctx context.Context, off int64) bool {
	for {
		ready, ch := l.AppendSignal(off)
		if ready {
			return true
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return false
		}
	}
}

// Ping checks the mirror when it supports health checks.
func (l *Log) Ping(ctx context.Context) error {
	if p, ok := l.mirror.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the mirror. The in-memory content stays readable.
func (l *Log) Close() error {
	if l.mirror == nil {
		return nil
	}
	return l.mirror.Close()
}
