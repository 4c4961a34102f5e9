package mirror

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
	pebblestore "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/storage/pebble"
)

// Keyspace: cmdlog/e/{seq_be8}. Big-endian sequences keep keys in append
// order.
var entryPrefix = []byte("cmdlog/e/")

func keyEntry(seq uint64) []byte {
	k := make([]byte, 0, len(entryPrefix)+8)
	k = append(k, entryPrefix...)
	return binary.BigEndian.AppendUint64(k, seq)
}

// PebbleOptions configures a Pebble mirror.
type PebbleOptions struct {
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	// RemoveOnClose deletes DataDir after the database is closed.
	RemoveOnClose bool
}

// Pebble mirrors the log into a Pebble database.
type Pebble struct {
	db            *pebblestore.DB
	dir           string
	removeOnClose bool
}

// OpenPebble opens (or creates) the database under opts.DataDir.
func OpenPebble(opts PebbleOptions) (*Pebble, error) {
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("mirror: open pebble %s: %w", opts.DataDir, err)
	}
	return &Pebble{db: db, dir: opts.DataDir, removeOnClose: opts.RemoveOnClose}, nil
}

// Load returns every stored record in sequence order.
func (p *Pebble) Load(ctx context.Context) ([]cmdlog.Record, error) {
	var recs []cmdlog.Record
	err := p.db.ScanPrefix(entryPrefix, func(key, value []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := decodeRecord(value)
		if err != nil {
			return fmt.Errorf("%w at key %x", err, key)
		}
		recs = append(recs, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// Commit writes the puts and deletes in one batch.
func (p *Pebble) Commit(ctx context.Context, b cmdlog.Batch) error {
	batch := p.db.NewBatch()
	defer batch.Close()
	for _, r := range b.Delete {
		if err := batch.Delete(keyEntry(r.Seq), nil); err != nil {
			return err
		}
	}
	for _, r := range b.Put {
		if err := batch.Set(keyEntry(r.Seq), encodeRecord(r), nil); err != nil {
			return err
		}
	}
	return p.db.CommitBatch(ctx, batch)
}

// Close closes the database and removes it when configured to.
func (p *Pebble) Close() error {
	err := p.db.Close()
	if p.removeOnClose {
		if rerr := os.RemoveAll(p.dir); rerr != nil && err == nil {
			err = rerr
		}
	}
	return err
}
