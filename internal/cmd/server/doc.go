// Package serverrun exposes the Run entrypoint used by the CLI to start the
// protocol server, timestamp injector and optional admin HTTP and gRPC
// servers around one runtime, handling lifecycle and ordered shutdown.
//
// Example:
//
//	cfg := config.Default()
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	_ = serverrun.Run(ctx, serverrun.Options{Config: cfg})
package serverrun
