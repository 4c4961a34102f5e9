package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	clientcmd "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmd/client"
	serverrun "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmd/server"
	cfgpkg "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/config"
)

func main() {
	rootCmd := clientcmd.NewRoot()
	rootCmd.Long = "aesdsocket serves a shared, bounded log of newline-terminated commands over TCP."

	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverCmd.AddCommand(newServerStartCommand())
	rootCmd.AddCommand(serverCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServerStartCommand() *cobra.Command {
	startCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the command log server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if err := serverrun.Run(ctx, serverrun.Options{Config: cfg}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	d := cfgpkg.Default()
	f := startCmd.Flags()
	f.String("config", "", "Config file (.json, .yaml or .yml)")
	f.String("listen", d.ListenAddr, "Command protocol listen address")
	f.String("http", d.HTTPAddr, "Admin HTTP listen address (empty disables)")
	f.String("grpc", d.GRPCAddr, "gRPC health listen address (empty disables)")
	f.Int("capacity", d.Capacity, "Number of commands retained")
	f.Int("max-command-bytes", d.MaxCommandBytes, "Largest accepted command in bytes (0 = unbounded)")
	f.Int("timestamp-interval-ms", d.TimestampIntervalMs, "Timestamp injection period in ms (0 disables)")
	f.Float64("command-rate", d.CommandRate, "Per-connection appends per second (0 = unlimited)")
	f.Int("command-burst", d.CommandBurst, "Per-connection append burst")
	f.Int("drain-timeout-ms", d.DrainTimeoutMs, "Shutdown wait for connections in ms (0 = wait for all)")
	f.String("mirror", d.Mirror.Kind, "Mirror: none|file|pebble|redis")
	f.String("mirror-path", d.Mirror.Path, "Data file for --mirror=file")
	f.String("data-dir", d.Mirror.DataDir, "Pebble directory (if not specified, uses OS-specific application data directory)")
	f.String("fsync", d.Mirror.Fsync, "Pebble fsync mode: always|interval|never")
	f.Int("fsync-interval-ms", d.Mirror.FsyncIntervalMs, "When --fsync=interval, group-commit window in ms")
	f.String("redis-addr", d.Mirror.RedisAddr, "Redis address for --mirror=redis")
	f.String("redis-key", d.Mirror.RedisKey, "Redis list key")
	f.Bool("remove-on-close", d.Mirror.RemoveOnClose, "Remove mirrored data on shutdown")
	f.String("log-level", d.Log.Level, "Log level: debug|info|warn|error")
	f.String("log-format", d.Log.Format, "Log format: text|json")
	return startCmd
}

// loadConfig layers defaults, the optional config file, AESD_* variables
// and explicitly set flags, in that order.
func loadConfig(f *pflag.FlagSet) (cfgpkg.Config, error) {
	cfg := cfgpkg.Default()
	if path, _ := f.GetString("config"); path != "" {
		var err error
		if cfg, err = cfgpkg.Load(path); err != nil {
			return cfg, err
		}
	}
	cfgpkg.FromEnv(&cfg)

	strs := map[string]*string{
		"listen":      &cfg.ListenAddr,
		"http":        &cfg.HTTPAddr,
		"grpc":        &cfg.GRPCAddr,
		"mirror":      &cfg.Mirror.Kind,
		"mirror-path": &cfg.Mirror.Path,
		"data-dir":    &cfg.Mirror.DataDir,
		"fsync":       &cfg.Mirror.Fsync,
		"redis-addr":  &cfg.Mirror.RedisAddr,
		"redis-key":   &cfg.Mirror.RedisKey,
		"log-level":   &cfg.Log.Level,
		"log-format":  &cfg.Log.Format,
	}
	ints := map[string]*int{
		"capacity":              &cfg.Capacity,
		"max-command-bytes":     &cfg.MaxCommandBytes,
		"timestamp-interval-ms": &cfg.TimestampIntervalMs,
		"command-burst":         &cfg.CommandBurst,
		"drain-timeout-ms":      &cfg.DrainTimeoutMs,
		"fsync-interval-ms":     &cfg.Mirror.FsyncIntervalMs,
	}
	for name, dst := range strs {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	for name, dst := range ints {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	if f.Changed("command-rate") {
		cfg.CommandRate, _ = f.GetFloat64("command-rate")
	}
	if f.Changed("remove-on-close") {
		cfg.Mirror.RemoveOnClose, _ = f.GetBool("remove-on-close")
	}
	return cfg, cfg.Validate()
}
