// Package cmdlog implements the shared command log: a fixed-capacity ring of
// newline-terminated commands with byte-exact addressing into the
// concatenation of the retained entries.
//
// # Overview
//
// Only the most recent N commands are kept. Appending to a full ring evicts
// the oldest entry (strict FIFO by ring position, never by size or recency).
// Positions are addressed two ways:
//   - a global offset into the concatenated retained bytes, oldest first
//   - a (command index, offset within command) pair, index 0 being the
//     oldest retained command
//
// Global offsets shift as old commands are evicted; command indexes shift
// too, but always relative to what is currently retained.
//
// API surface (internal)
//
//	l := cmdlog.New(cmdlog.Options{Capacity: 10})
//	_, _ = l.Append(ctx, []byte("hello\n"))
//
//	// Replay the whole log
//	_, _ = l.WriteTo(conn)
//
//	// Address by command
//	off, err := l.Resolve(0, 2) // third byte of the oldest command
//	k, j, _ := l.Locate(off)     // and back
//
//	// File-handle style access
//	c := l.NewCursor()
//	_, _ = c.SeekTo(1, 0)
//	_, _ = io.Copy(w, c)
//
// Ring is the unsynchronized data structure; Log wraps one Ring behind a
// single mutex and is safe for concurrent use. Accumulator assembles a raw
// byte stream into sealed commands for one writer.
//
// # Mirroring
//
// A Log may be given a Mirror. Every append is committed to the mirror
// before the ring changes, so a failed commit leaves the retained content
// untouched. Restore rebuilds the ring from the mirror at startup.
package cmdlog
