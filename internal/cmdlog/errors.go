package cmdlog

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is matched by every *AddressingError.
	ErrOutOfRange = errors.New("cmdlog: position out of range")
	// ErrCommandTooLarge is returned by Accumulator.Feed when a single
	// command grows past the configured maximum.
	ErrCommandTooLarge = errors.New("cmdlog: command exceeds maximum size")
	// ErrEmptyCommand is returned when appending zero bytes.
	ErrEmptyCommand = errors.New("cmdlog: empty command")
	// ErrUnterminated is returned when appending data that does not end
	// with the delimiter.
	ErrUnterminated = errors.New("cmdlog: command not newline-terminated")
)

// Addressing operations reported in AddressingError.Op.
const (
	OpSeekTo = "seekto"
	OpOffset = "offset"
	OpEntry  = "entry"
	OpSeek   = "seek"
)

// AddressingError reports a position outside the retained log. It never
// implies a state change.
type AddressingError struct {
	Op string
	// Index is the command index for OpSeekTo/OpEntry and the global offset
	// for OpOffset/OpSeek.
	Index int64
	// Offset is the intra-command offset (OpSeekTo only).
	Offset int64
	// Limit is the exclusive bound that was violated.
	Limit int64
}

func (e *AddressingError) Error() string {
	if e.Op == OpSeekTo {
		return fmt.Sprintf("cmdlog: seekto command %d offset %d out of range (limit %d)", e.Index, e.Offset, e.Limit)
	}
	return fmt.Sprintf("cmdlog: %s %d out of range (limit %d)", e.Op, e.Index, e.Limit)
}

func (e *AddressingError) Unwrap() error { return ErrOutOfRange }
