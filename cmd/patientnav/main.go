package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/patientnav/pkg/config"
	"github.com/mchmarny/patientnav/pkg/logger"
	"github.com/mchmarny/patientnav/pkg/menu"
	"github.com/mchmarny/patientnav/pkg/metric"
	"github.com/mchmarny/patientnav/pkg/panel"
	"github.com/mchmarny/patientnav/pkg/server"
	"github.com/mchmarny/patientnav/pkg/session"
)

var (
	version = "v0.0.0"  // Set at build time via -ldflags "-X main.version=version"
	commit  = "none"    // Set at build time via -ldflags "-X main.commit=commit"
	date    = "unknown" // Set at build time via -ldflags "-X main.date=date"

	port = flag.Int("port", 0, "Port to run the server on (overrides PATIENTNAV_PORT)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Port = *port
	}

	logger.SetDefaultLogger("patientnav", version, cfg.LogLevel)
	slog.Info("starting patientnav", "commit", commit, "date", date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	m := menu.Default()

	routes := make([]string, 0, m.Len())
	for _, it := range m.Items() {
		routes = append(routes, it.Href)
	}
	reg := prometheus.NewRegistry()
	rec := metric.NewRecorder(reg, routes...)

	store := session.NewStore(m, cfg.SessionTTL, session.Hooks{
		Observer:  rec,
		Navigated: func(_, next string) { rec.Navigation(next) },
		Count:     rec.SessionsActive,
	})

	p := panel.New(m, store,
		panel.WithSecureCookie(cfg.CookieSecure),
		panel.WithCookieMaxAge(cfg.SessionTTL),
	)

	srv := server.New(
		server.WithPort(cfg.Port),
		server.WithRegistry(reg),
		server.WithSimpleHealth(),
		server.WithPrometheusMetrics(),
		server.WithHandler("/", p.Routes()),
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gCtx)
	})
	g.Go(func() error {
		return store.Run(gCtx, cfg.SweepInterval)
	})
	return g.Wait()
}
