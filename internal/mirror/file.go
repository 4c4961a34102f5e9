package mirror

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
)

// FileOptions configures a File mirror.
type FileOptions struct {
	Path string
	// RemoveOnClose deletes Path on Close.
	RemoveOnClose bool
}

// File keeps a plain data file whose content is always exactly the retained
// commands. Every commit rewrites it through a temp file and rename.
type File struct {
	path          string
	removeOnClose bool

	mu   sync.Mutex
	recs []cmdlog.Record
}

// NewFile returns a mirror for opts.Path. The file is not touched until Load
// or Commit.
func NewFile(opts FileOptions) *File {
	return &File{path: opts.Path, removeOnClose: opts.RemoveOnClose}
}

// Load reads the data file and splits it into commands. The file carries no
// sequence numbers, so records are numbered from 1 and stamped with the
// file's modification time. A trailing partial line is ignored.
func (f *File) Load(ctx context.Context) ([]cmdlog.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mirror: read %s: %w", f.path, err)
	}
	var ms int64
	if fi, err := os.Stat(f.path); err == nil {
		ms = fi.ModTime().UnixMilli()
	}
	var recs []cmdlog.Record
	for seq := uint64(1); ; seq++ {
		i := bytes.IndexByte(data, cmdlog.Delimiter)
		if i < 0 {
			break
		}
		recs = append(recs, cmdlog.Record{Seq: seq, AppendedMs: ms, Data: data[:i+1:i+1]})
		data = data[i+1:]
	}
	f.mu.Lock()
	f.recs = append([]cmdlog.Record(nil), recs...)
	f.mu.Unlock()
	return recs, nil
}

// Commit applies b to the retained set and rewrites the file.
func (f *File) Commit(ctx context.Context, b cmdlog.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(b.Delete)
	if n > len(f.recs) {
		n = len(f.recs)
	}
	next := make([]cmdlog.Record, 0, len(f.recs)-n+len(b.Put))
	next = append(next, f.recs[n:]...)
	next = append(next, b.Put...)
	if err := f.write(next); err != nil {
		return err
	}
	f.recs = next
	return nil
}

func (f *File) write(recs []cmdlog.Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("mirror: create temp: %w", err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }
	for _, r := range recs {
		if _, err := tmp.Write(r.Data); err != nil {
			_ = tmp.Close()
			cleanup()
			return fmt.Errorf("mirror: write %s: %w", tmp.Name(), err)
		}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("mirror: sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		cleanup()
		return fmt.Errorf("mirror: rename to %s: %w", f.path, err)
	}
	return nil
}

// Close removes the data file when configured to.
func (f *File) Close() error {
	if !f.removeOnClose {
		return nil
	}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
