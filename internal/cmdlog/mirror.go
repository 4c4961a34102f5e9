package cmdlog

import "context"

// Mirror receives every change to the retained content so it can be rebuilt
// after a restart. Implementations live in internal/mirror.
type Mirror interface {
	// Load returns the mirrored records oldest first.
	Load(ctx context.Context) ([]Record, error)
	// Commit applies one change atomically. Delete always names the oldest
	// mirrored records.
	Commit(ctx context.Context, b Batch) error
	Close() error
}

// Batch is one atomic mirror change.
type Batch struct {
	Put    []Record
	Delete []Record
}

// Pinger is implemented by mirrors that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}
