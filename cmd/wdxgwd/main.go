// wdxgwd is the WDX gateway daemon: it serves the REST/JSON:API gateway
// core (internal/router, internal/operation, internal/handlers) over
// net/http, wiring in a settings store, a method-run registry with its
// background timeout sweep, and the in-memory fake backend, which is the
// only frontend implementation this binary wires in.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/wago/wdx-gateway/internal/cache"
	"github.com/wago/wdx-gateway/internal/config"
	"github.com/wago/wdx-gateway/internal/frontend"
	"github.com/wago/wdx-gateway/internal/gwlog"
	"github.com/wago/wdx-gateway/internal/handlers"
	"github.com/wago/wdx-gateway/internal/operation"
	"github.com/wago/wdx-gateway/internal/router"
	"github.com/wago/wdx-gateway/internal/runregistry"
	"github.com/wago/wdx-gateway/internal/settingsstore"
	"github.com/wago/wdx-gateway/internal/transport"
)

// serviceName/serviceVersion back GET / (the service-identity endpoint).
const (
	serviceName    = "wdx-gateway"
	serviceVersion = "1.0.0"
)

func main() {
	baseHandler := slog.NewJSONHandler(os.Stdout, nil)
	slog.SetDefault(slog.New(gwlog.NewContextHandler(baseHandler)))

	configPath := config.ResolvePath()
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}
	if configPath != "" {
		slog.Info("config loaded", "path", configPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings, closeSettings := buildSettingsStore(ctx, cfg)
	defer closeSettings()

	backend := buildFrontend()

	runs := runregistry.New(cfg.MaxConcurrentRuns)

	identity := operation.ServiceIdentity{
		Name:        serviceName,
		Version:     serviceVersion,
		ServiceBase: cfg.ServiceBase,
	}

	enumLookups := &singleflight.Group{}

	newOperation := func() *operation.Operation {
		return &operation.Operation{
			Identity:                        identity,
			Backend:                         backend,
			Runs:                            runs,
			Settings:                        settings,
			EnumLookups:                     enumLookups,
			DefaultRunResultTimeoutSeconds:  cfg.RunResultTimeoutSeconds,
			AllowUnauthenticatedScanDevices: cfg.AllowUnauthenticatedScanDevices,
		}
	}

	r := router.New(cfg.ServiceBase)
	handlers.Register(r)

	gw := transport.New(r, newOperation)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           transport.BuildHandler(gw),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// An errgroup supervises the HTTP listener and the run-registry timeout
	// sweep as siblings: either one returning ends the group, and Wait
	// blocks shutdown until both have actually stopped.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runregistry.Sweep(gctx, runs, runregistry.DefaultSweepInterval)
	})

	g.Go(func() error {
		slog.Info("starting wdxgwd", "addr", cfg.ListenAddr, "service_base", cfg.ServiceBase, "version", serviceVersion)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("wdxgwd exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("wdxgwd shutdown complete")
}

// buildSettingsStore wires the Postgres-backed settings store when
// DatabaseURL is configured, falling back to the in-memory store
// otherwise (zero-config mode). The returned close func is always
// safe to call.
func buildSettingsStore(ctx context.Context, cfg *config.Config) (settingsstore.Store, func()) {
	if cfg.DatabaseURL == "" {
		slog.Warn("no databaseUrl configured, running with in-memory settings store")
		return settingsstore.NewMemory(), func() {}
	}

	pool, err := settingsstore.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect settings store database", "error", err)
		os.Exit(1)
	}
	if err := settingsstore.Migrate(ctx, pool); err != nil {
		slog.Error("failed to migrate settings store", "error", err)
		os.Exit(1)
	}
	store := settingsstore.NewPostgres(pool)
	slog.Info("postgres settings store initialized")
	return store, pool.Close
}

// buildFrontend selects the backend frontend implementation. The real
// device/parameter service frontend is an external collaborator reached
// over the deployment's own transport; this gateway binary ships only the
// in-memory fake, and always returns it wrapped in a CachingFrontend.
func buildFrontend() frontend.Frontend {
	slog.Warn("using in-memory fake frontend; no backend device/parameter service is wired in")
	return frontend.NewCachingFrontend(frontend.NewFake(), cache.Options{TTL: 30 * time.Second, MaxEntries: 500})
}
