package cmdlog

// DefaultCapacity is the number of write operations the aesdchar device
// retains.
const DefaultCapacity = 10

// Ring is a fixed-capacity FIFO of entries addressed by a write cursor.
// It is not safe for concurrent use; Log serializes access to one.
type Ring struct {
	slots []Entry
	in    int // next slot to write
	count int
	total int64
}

// NewRing returns an empty ring. capacity must be positive.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		panic("cmdlog: ring capacity must be positive")
	}
	return &Ring{slots: make([]Entry, capacity)}
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int { return len(r.slots) }

// Len returns the number of retained entries.
func (r *Ring) Len() int { return r.count }

// Full reports whether the next Append evicts.
func (r *Ring) Full() bool { return r.count == len(r.slots) }

// TotalLength returns the byte length of all retained entries.
func (r *Ring) TotalLength() int64 { return r.total }

// out is the physical slot of the oldest entry.
func (r *Ring) out() int {
	return (r.in - r.count + len(r.slots)) % len(r.slots)
}

func (r *Ring) slot(k int) *Entry {
	return &r.slots[(r.out()+k)%len(r.slots)]
}

// Append inserts e at the write cursor. When the ring is full the entry
// under the cursor (the oldest) is taken out first and returned.
func (r *Ring) Append(e Entry) (evicted Entry, ok bool) {
	if len(e.Data) == 0 {
		panic("cmdlog: append of empty entry")
	}
	if r.Full() {
		evicted, ok = r.slots[r.in], true
		r.slots[r.in] = Entry{}
		r.count--
		r.total -= int64(len(evicted.Data))
		if r.total < 0 {
			panic("cmdlog: negative total length after eviction")
		}
	}
	r.slots[r.in] = e
	r.count++
	r.total += int64(len(e.Data))
	r.in = (r.in + 1) % len(r.slots)
	if r.count > len(r.slots) {
		panic("cmdlog: count exceeds capacity")
	}
	return evicted, ok
}

// EntryAt returns the k-th oldest retained entry.
func (r *Ring) EntryAt(k int) (Entry, error) {
	if k < 0 || k >= r.count {
		return Entry{}, &AddressingError{Op: OpEntry, Index: int64(k), Limit: int64(r.count)}
	}
	return *r.slot(k), nil
}

// FindEntryForOffset returns the entry containing the global offset and the
// offset within that entry.
func (r *Ring) FindEntryForOffset(global int64) (Entry, int64, error) {
	k, rel, err := r.Locate(global)
	if err != nil {
		return Entry{}, 0, err
	}
	return *r.slot(k), rel, nil
}

// ForEach visits retained entries oldest to newest until fn returns false.
func (r *Ring) ForEach(fn func(k int, e Entry) bool) {
	for k := 0; k < r.count; k++ {
		if !fn(k, *r.slot(k)) {
			return
		}
	}
}

// Entries returns the retained entries oldest to newest. The slice is a
// copy; entry data is shared and immutable.
func (r *Ring) Entries() []Entry {
	out := make([]Entry, 0, r.count)
	r.ForEach(func(_ int, e Entry) bool {
		out = append(out, e)
		return true
	})
	return out
}
