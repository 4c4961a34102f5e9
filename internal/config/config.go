package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/pkg/log"
)

// Mirror kinds.
const (
	MirrorNone   = "none"
	MirrorFile   = "file"
	MirrorPebble = "pebble"
	MirrorRedis  = "redis"
)

// Fsync policies for the pebble mirror.
const (
	FsyncAlways   = "always"
	FsyncInterval = "interval"
	FsyncNever    = "never"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	ListenAddr          string  `json:"listenAddr" yaml:"listenAddr"`
	HTTPAddr            string  `json:"httpAddr" yaml:"httpAddr"`
	GRPCAddr            string  `json:"grpcAddr" yaml:"grpcAddr"`
	Capacity            int     `json:"capacity" yaml:"capacity"`
	MaxCommandBytes     int     `json:"maxCommandBytes" yaml:"maxCommandBytes"`
	TimestampIntervalMs int     `json:"timestampIntervalMs" yaml:"timestampIntervalMs"`
	CommandRate         float64 `json:"commandRate" yaml:"commandRate"`
	CommandBurst        int     `json:"commandBurst" yaml:"commandBurst"`
	DrainTimeoutMs      int     `json:"drainTimeoutMs" yaml:"drainTimeoutMs"`

	Mirror MirrorConfig `json:"mirror" yaml:"mirror"`
	Log    log.Config   `json:"log" yaml:"log"`
}

// MirrorConfig selects and configures the durable copy of the log.
type MirrorConfig struct {
	Kind            string `json:"kind" yaml:"kind"`
	Path            string `json:"path" yaml:"path"`
	DataDir         string `json:"dataDir" yaml:"dataDir"`
	Fsync           string `json:"fsync" yaml:"fsync"`
	FsyncIntervalMs int    `json:"fsyncIntervalMs" yaml:"fsyncIntervalMs"`
	RedisAddr       string `json:"redisAddr" yaml:"redisAddr"`
	RedisKey        string `json:"redisKey" yaml:"redisKey"`
	RemoveOnClose   bool   `json:"removeOnClose" yaml:"removeOnClose"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		ListenAddr:          ":9000",
		Capacity:            10,
		MaxCommandBytes:     1 << 20,
		TimestampIntervalMs: 10000,
		Mirror: MirrorConfig{
			Kind:            MirrorNone,
			Path:            "/var/tmp/aesdsocketdata",
			Fsync:           FsyncAlways,
			FsyncIntervalMs: 5,
			RedisKey:        "aesd:cmdlog",
		},
		Log: log.Config{Level: "info", Format: "text"},
	}
}

// TimestampInterval returns the injector period; zero disables it.
func (c Config) TimestampInterval() time.Duration {
	return time.Duration(c.TimestampIntervalMs) * time.Millisecond
}

// DrainTimeout returns how long shutdown waits for workers; zero waits for
// all of them.
func (c Config) DrainTimeout() time.Duration {
	return time.Duration(c.DrainTimeoutMs) * time.Millisecond
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("config: listenAddr is required")
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("config: capacity must be positive, got %d", c.Capacity)
	}
	if c.MaxCommandBytes <= 0 {
		return fmt.Errorf("config: maxCommandBytes must be positive, got %d", c.MaxCommandBytes)
	}
	if c.TimestampIntervalMs < 0 || c.DrainTimeoutMs < 0 {
		return errors.New("config: durations must not be negative")
	}
	if c.CommandRate < 0 || c.CommandBurst < 0 {
		return errors.New("config: commandRate and commandBurst must not be negative")
	}
	if c.CommandRate > 0 && c.CommandBurst == 0 {
		return errors.New("config: commandBurst must be set when commandRate is")
	}
	switch c.Mirror.Kind {
	case "", MirrorNone:
	case MirrorFile:
		if c.Mirror.Path == "" {
			return errors.New("config: mirror.path is required for the file mirror")
		}
	case MirrorPebble:
		switch c.Mirror.Fsync {
		case "", FsyncAlways, FsyncNever:
		case FsyncInterval:
			if c.Mirror.FsyncIntervalMs <= 0 {
				return errors.New("config: mirror.fsyncIntervalMs must be positive")
			}
		default:
			return fmt.Errorf("config: unknown mirror.fsync %q", c.Mirror.Fsync)
		}
	case MirrorRedis:
		if c.Mirror.RedisAddr == "" {
			return errors.New("config: mirror.redisAddr is required for the redis mirror")
		}
		if c.Mirror.RedisKey == "" {
			return errors.New("config: mirror.redisKey is required for the redis mirror")
		}
	default:
		return fmt.Errorf("config: unknown mirror.kind %q", c.Mirror.Kind)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads configuration from a JSON or YAML file (by extension) on top of
// the defaults. If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
