package serverrun

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/sync/errgroup"

	cfgpkg "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/config"
	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/injector"
	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/runtime"
	grpcserver "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/server/grpc"
	httpserver "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/server/http"
	tcpserver "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/server/tcp"
	commandsvc "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/services/commands"
	logpkg "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/pkg/log"
)

// Options for Run.
type Options struct {
	Config cfgpkg.Config
	// Logger overrides the logger built from Config.Log.
	Logger logpkg.Logger
	// OnReady is called once every listener is bound.
	OnReady func(Addrs)
}

// Addrs are the bound listener addresses. HTTP and GRPC are empty when the
// server is disabled.
type Addrs struct {
	TCP  string
	HTTP string
	GRPC string
}

// Run opens the runtime, binds every configured listener and serves until
// ctx is cancelled. Bind and restore failures are returned before serving
// starts. Shutdown stops accepting, drains the protocol workers, stops the
// timestamp injector and finally closes the runtime.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := opts.Logger
	if logger == nil {
		var err error
		if logger, err = logpkg.ApplyConfig(&cfg.Log); err != nil {
			return err
		}
		restore := logpkg.RedirectStdLog(logger)
		defer restore()
	}

	rt, err := runtime.Open(ctx, runtime.Options{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer rt.Close()

	lns, err := bind(cfg)
	if err != nil {
		return err
	}
	addrs := Addrs{TCP: lns.tcp.Addr().String()}
	if lns.http != nil {
		addrs.HTTP = lns.http.Addr().String()
	}
	if lns.grpc != nil {
		addrs.GRPC = lns.grpc.Addr().String()
	}
	logger.Info("starting aesdsocket",
		logpkg.Str("tcp", addrs.TCP),
		logpkg.Str("http", addrs.HTTP),
		logpkg.Str("grpc", addrs.GRPC),
		logpkg.Int("capacity", cfg.Capacity),
		logpkg.Str("mirror", cfg.Mirror.Kind),
		logpkg.Duration("timestamp_interval", cfg.TimestampInterval()))

	tcp := tcpserver.New(rt.Log(), tcpserver.Options{
		MaxCommandBytes: cfg.MaxCommandBytes,
		CommandRate:     cfg.CommandRate,
		CommandBurst:    cfg.CommandBurst,
		DrainTimeout:    cfg.DrainTimeout(),
		Logger:          logger,
	})
	inj := injector.New(rt.Log(), injector.Options{Interval: cfg.TimestampInterval(), Logger: logger})

	g, gctx := errgroup.WithContext(ctx)
	injCtx, stopInjector := context.WithCancel(context.Background())
	defer stopInjector()

	g.Go(func() error {
		defer stopInjector()
		return tcp.Serve(gctx, lns.tcp)
	})
	g.Go(func() error { return inj.Run(injCtx) })
	if lns.http != nil {
		svc := commandsvc.NewWithLogger(rt, logger)
		hs := httpserver.New(svc, logger, httpserver.Options{
			ActiveConns: func() int { return tcp.Stats().ActiveConnections },
			MaxBody:     int64(cfg.MaxCommandBytes),
		})
		g.Go(func() error { return hs.Serve(gctx, lns.http) })
	}
	if lns.grpc != nil {
		gs := grpcserver.New(rt, logger, grpcserver.Options{})
		g.Go(func() error { return gs.Serve(gctx, lns.grpc) })
	}
	if opts.OnReady != nil {
		opts.OnReady(addrs)
	}

	err = g.Wait()
	st := tcp.Stats()
	logger.Info("stopped",
		logpkg.Uint64("connections", st.TotalConnections),
		logpkg.Uint64("commands", st.Commands))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

type listeners struct {
	tcp, http, grpc net.Listener
}

func (l listeners) close() {
	for _, ln := range []net.Listener{l.tcp, l.http, l.grpc} {
		if ln != nil {
			_ = ln.Close()
		}
	}
}

func bind(cfg cfgpkg.Config) (listeners, error) {
	var l listeners
	var err error
	if l.tcp, err = net.Listen("tcp", cfg.ListenAddr); err != nil {
		return l, fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	}
	if cfg.HTTPAddr != "" {
		if l.http, err = net.Listen("tcp", cfg.HTTPAddr); err != nil {
			l.close()
			return listeners{}, fmt.Errorf("listen http %s: %w", cfg.HTTPAddr, err)
		}
	}
	if cfg.GRPCAddr != "" {
		if l.grpc, err = net.Listen("tcp", cfg.GRPCAddr); err != nil {
			l.close()
			return listeners{}, fmt.Errorf("listen grpc %s: %w", cfg.GRPCAddr, err)
		}
	}
	return l, nil
}
