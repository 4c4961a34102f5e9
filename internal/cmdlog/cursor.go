package cmdlog

import "io"

// Cursor is a single-owner read position over a Log, the file-handle view of
// the shared content. Each Read returns bytes from at most one entry. A
// Cursor must not be used from more than one goroutine.
type Cursor struct {
	log *Log
	pos int64
}

// NewCursor returns a cursor positioned at the start of the log.
func (l *Log) NewCursor() *Cursor {
	return &Cursor{log: l}
}

// Offset returns the current global offset.
func (c *Cursor) Offset() int64 { return c.pos }

// Read copies from the entry under the cursor, never crossing into the next
// entry. It returns io.EOF at or past the end of the retained content.
func (c *Cursor) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	e, rel, err := c.log.FindEntryForOffset(c.pos)
	if err != nil {
		return 0, io.EOF
	}
	n := copy(p, e.Data[rel:])
	c.pos += int64(n)
	return n, nil
}

// Seek implements io.Seeker over the current total length. Positions before
// the start or past the end are rejected and leave the cursor unchanged.
func (c *Cursor) Seek(offset int64, whence int) (int64, error) {
	size := c.log.TotalLength()
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = c.pos + offset
	case io.SeekEnd:
		target = size + offset
	default:
		return c.pos, &AddressingError{Op: OpSeek, Index: offset, Limit: size + 1}
	}
	if target < 0 || target > size {
		return c.pos, &AddressingError{Op: OpSeek, Index: target, Limit: size + 1}
	}
	c.pos = target
	return c.pos, nil
}

// SeekTo moves the cursor to byte off of retained command cmd. On error the
// cursor is unchanged.
func (c *Cursor) SeekTo(cmd, off int64) (int64, error) {
	pos, err := c.log.Resolve(cmd, off)
	if err != nil {
		return c.pos, err
	}
	c.pos = pos
	return c.pos, nil
}

// WriteTo writes everything from the cursor to the end of the log and
// leaves the cursor at the end of what was written.
func (c *Cursor) WriteTo(w io.Writer) (int64, error) {
	n, err := writeEntries(w, c.log.Snapshot(), c.pos)
	c.pos += n
	return n, err
}
