package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ListenAddr != ":9000" {
		t.Fatalf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.Capacity != 10 {
		t.Fatalf("capacity = %d", cfg.Capacity)
	}
	if cfg.TimestampInterval().Seconds() != 10 {
		t.Fatalf("timestamp interval = %v", cfg.TimestampInterval())
	}
	if cfg.Mirror.Kind != MirrorNone {
		t.Fatalf("mirror kind = %q", cfg.Mirror.Kind)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "aesd.json")
	data := []byte(`{"listenAddr":"127.0.0.1:9100","capacity":4,"mirror":{"kind":"pebble","dataDir":"/tmp/x"}}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9100" || cfg.Capacity != 4 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Mirror.Kind != MirrorPebble || cfg.Mirror.DataDir != "/tmp/x" {
		t.Fatalf("unexpected mirror: %+v", cfg.Mirror)
	}
	// untouched fields keep their defaults
	if cfg.MaxCommandBytes != 1<<20 || cfg.Mirror.Fsync != FsyncAlways {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "aesd.yaml")
	data := []byte(strings.Join([]string{
		"listenAddr: \":9200\"",
		"timestampIntervalMs: 0",
		"mirror:",
		"  kind: redis",
		"  redisAddr: 127.0.0.1:6379",
		"log:",
		"  level: debug",
		"  format: json",
	}, "\n"))
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9200" || cfg.TimestampIntervalMs != 0 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Mirror.Kind != MirrorRedis || cfg.Mirror.RedisKey != "aesd:cmdlog" {
		t.Fatalf("unexpected mirror: %+v", cfg.Mirror)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log: %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadBadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(file, []byte("{"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("AESD_LISTEN_ADDR", ":9300")
	t.Setenv("AESD_CAPACITY", "24")
	t.Setenv("AESD_CAPACITY_IGNORED", "x")
	t.Setenv("AESD_COMMAND_RATE", "2.5")
	t.Setenv("AESD_MIRROR_KIND", "file")
	t.Setenv("AESD_MIRROR_REMOVE_ON_CLOSE", "true")
	t.Setenv("AESD_MAX_COMMAND_BYTES", "not-a-number")
	FromEnv(&cfg)
	if cfg.ListenAddr != ":9300" || cfg.Capacity != 24 || cfg.CommandRate != 2.5 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Mirror.Kind != MirrorFile || !cfg.Mirror.RemoveOnClose {
		t.Fatalf("mirror overrides not applied: %+v", cfg.Mirror)
	}
	if cfg.MaxCommandBytes != 1<<20 {
		t.Fatalf("bad number should be ignored, got %d", cfg.MaxCommandBytes)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen", func(c *Config) { c.ListenAddr = "" }},
		{"zero capacity", func(c *Config) { c.Capacity = 0 }},
		{"zero max command", func(c *Config) { c.MaxCommandBytes = 0 }},
		{"negative interval", func(c *Config) { c.TimestampIntervalMs = -1 }},
		{"rate without burst", func(c *Config) { c.CommandRate = 1 }},
		{"unknown mirror", func(c *Config) { c.Mirror.Kind = "s3" }},
		{"file without path", func(c *Config) { c.Mirror.Kind = MirrorFile; c.Mirror.Path = "" }},
		{"redis without addr", func(c *Config) { c.Mirror.Kind = MirrorRedis }},
		{"bad fsync", func(c *Config) { c.Mirror.Kind = MirrorPebble; c.Mirror.Fsync = "sometimes" }},
		{"zero fsync interval", func(c *Config) {
			c.Mirror.Kind = MirrorPebble
			c.Mirror.Fsync = FsyncInterval
			c.Mirror.FsyncIntervalMs = 0
		}},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
