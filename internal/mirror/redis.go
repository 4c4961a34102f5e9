package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
)

// RedisOptions configures a Redis mirror.
type RedisOptions struct {
	Addr string
	DB   int
	// Key names the list holding the encoded records.
	Key string
	// RemoveOnClose deletes Key before the client is closed.
	RemoveOnClose bool
}

// Redis mirrors the log into a Redis list, oldest record at the head.
type Redis struct {
	client        *redis.Client
	key           string
	removeOnClose bool
}

// NewRedis builds a client for opts.Addr. No connection is made until first
// use.
func NewRedis(opts RedisOptions) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MaxRetries:   3,
	})
	return &Redis{client: client, key: opts.Key, removeOnClose: opts.RemoveOnClose}
}

// Load returns the list content decoded, head first.
func (r *Redis) Load(ctx context.Context) ([]cmdlog.Record, error) {
	vals, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("mirror: lrange %s: %w", r.key, err)
	}
	recs := make([]cmdlog.Record, 0, len(vals))
	for i, v := range vals {
		rec, err := decodeRecord([]byte(v))
		if err != nil {
			return nil, fmt.Errorf("%w at %s[%d]", err, r.key, i)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Commit pushes the puts and trims the evicted head in one MULTI/EXEC.
func (r *Redis) Commit(ctx context.Context, b cmdlog.Batch) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(b.Put) > 0 {
			vals := make([]interface{}, len(b.Put))
			for i, rec := range b.Put {
				vals[i] = encodeRecord(rec)
			}
			pipe.RPush(ctx, r.key, vals...)
		}
		if n := len(b.Delete); n > 0 {
			pipe.LTrim(ctx, r.key, int64(n), -1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("mirror: redis commit: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close optionally deletes the list, then closes the client.
func (r *Redis) Close() error {
	var err error
	if r.removeOnClose {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err = r.client.Del(ctx, r.key).Err()
		cancel()
	}
	if cerr := r.client.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
