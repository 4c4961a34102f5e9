package cmdlog

import "bytes"

// initialPending is the starting receive buffer size.
const initialPending = 1024

// Accumulator assembles a byte stream into delimiter-terminated commands. It
// is owned by a single writer. Pending storage doubles as it fills, so many
// small feeds cost amortized linear time.
type Accumulator struct {
	buf []byte
	max int
}

// NewAccumulator returns an empty accumulator. A positive max bounds the
// size of one command, delimiter included.
func NewAccumulator(max int) *Accumulator {
	return &Accumulator{max: max}
}

// Feed appends p and returns every command completed by it, in order. The
// unterminated tail stays pending for the next call. When a command grows
// past the maximum, the commands completed before it are returned along with
// ErrCommandTooLarge and the oversized bytes are discarded.
func (a *Accumulator) Feed(p []byte) ([][]byte, error) {
	var out [][]byte
	for len(p) > 0 {
		i := bytes.IndexByte(p, Delimiter)
		if i < 0 {
			if err := a.grow(len(p)); err != nil {
				return out, err
			}
			a.buf = append(a.buf, p...)
			break
		}
		if err := a.grow(i + 1); err != nil {
			return out, err
		}
		a.buf = append(a.buf, p[:i+1]...)
		out = append(out, a.seal())
		p = p[i+1:]
	}
	return out, nil
}

// Pending returns the number of buffered bytes not yet sealed.
func (a *Accumulator) Pending() int { return len(a.buf) }

// Reset drops any pending bytes.
func (a *Accumulator) Reset() { a.buf = a.buf[:0] }

func (a *Accumulator) grow(n int) error {
	need := len(a.buf) + n
	if a.max > 0 && need > a.max {
		a.Reset()
		return ErrCommandTooLarge
	}
	if need <= cap(a.buf) {
		return nil
	}
	c := cap(a.buf)
	if c == 0 {
		c = initialPending
	}
	for c < need {
		c *= 2
	}
	nb := make([]byte, len(a.buf), c)
	copy(nb, a.buf)
	a.buf = nb
	return nil
}

// seal cuts the pending bytes into a fresh entry slice.
func (a *Accumulator) seal() []byte {
	e := make([]byte, len(a.buf))
	copy(e, a.buf)
	a.buf = a.buf[:0]
	return e
}
