package config

import (
	"os"
	"strconv"
)

// FromEnv overlays AESD_* environment variables onto cfg. Unparseable values
// are ignored.
func FromEnv(cfg *Config) {
	str("AESD_LISTEN_ADDR", &cfg.ListenAddr)
	str("AESD_HTTP_ADDR", &cfg.HTTPAddr)
	str("AESD_GRPC_ADDR", &cfg.GRPCAddr)
	integer("AESD_CAPACITY", &cfg.Capacity)
	integer("AESD_MAX_COMMAND_BYTES", &cfg.MaxCommandBytes)
	integer("AESD_TIMESTAMP_INTERVAL_MS", &cfg.TimestampIntervalMs)
	if v := os.Getenv("AESD_COMMAND_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.CommandRate = f
		}
	}
	integer("AESD_COMMAND_BURST", &cfg.CommandBurst)
	integer("AESD_DRAIN_TIMEOUT_MS", &cfg.DrainTimeoutMs)

	str("AESD_MIRROR_KIND", &cfg.Mirror.Kind)
	str("AESD_MIRROR_PATH", &cfg.Mirror.Path)
	str("AESD_MIRROR_DATA_DIR", &cfg.Mirror.DataDir)
	str("AESD_MIRROR_FSYNC", &cfg.Mirror.Fsync)
	integer("AESD_MIRROR_FSYNC_INTERVAL_MS", &cfg.Mirror.FsyncIntervalMs)
	str("AESD_MIRROR_REDIS_ADDR", &cfg.Mirror.RedisAddr)
	str("AESD_MIRROR_REDIS_KEY", &cfg.Mirror.RedisKey)
	if v := os.Getenv("AESD_MIRROR_REMOVE_ON_CLOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Mirror.RemoveOnClose = b
		}
	}

	str("AESD_LOG_LEVEL", &cfg.Log.Level)
	str("AESD_LOG_FORMAT", &cfg.Log.Format)
}

func str(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func integer(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
