package mirror

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/config"
	pebblestore "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/storage/pebble"
)

// Open builds the mirror selected by cfg.Kind. It returns a nil Mirror for
// the "none" kind. Redis mirrors are pinged before being returned.
func Open(ctx context.Context, cfg config.MirrorConfig) (cmdlog.Mirror, error) {
	switch cfg.Kind {
	case "", config.MirrorNone:
		return nil, nil
	case config.MirrorFile:
		return NewFile(FileOptions{Path: cfg.Path, RemoveOnClose: cfg.RemoveOnClose}), nil
	case config.MirrorPebble:
		mode, err := pebblestore.ParseFsyncMode(cfg.Fsync)
		if err != nil {
			return nil, err
		}
		dir := cfg.DataDir
		if dir == "" {
			dir = config.DefaultDataDir()
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mirror: create %s: %w", dir, err)
		}
		p, err := OpenPebble(PebbleOptions{
			DataDir:       dir,
			Fsync:         mode,
			FsyncInterval: time.Duration(cfg.FsyncIntervalMs) * time.Millisecond,
			RemoveOnClose: cfg.RemoveOnClose,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.MirrorRedis:
		r := NewRedis(RedisOptions{Addr: cfg.RedisAddr, Key: cfg.RedisKey, RemoveOnClose: cfg.RemoveOnClose})
		if err := r.Ping(ctx); err != nil {
			_ = r.client.Close()
			return nil, fmt.Errorf("mirror: redis %s: %w", cfg.RedisAddr, err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("mirror: unknown kind %q", cfg.Kind)
	}
}
