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

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jcmexdev/printhub/internal/dashboard/app"
	"github.com/jcmexdev/printhub/internal/dashboard/infra/adapters/store"
	"github.com/jcmexdev/printhub/internal/dashboard/infra/httpx"
	"github.com/jcmexdev/printhub/internal/dashboard/translog/sqlite"
	"github.com/jcmexdev/printhub/internal/pkg/cache"
	"github.com/jcmexdev/printhub/internal/pkg/config"
	"github.com/jcmexdev/printhub/internal/pkg/interceptors"
	"github.com/jcmexdev/printhub/internal/pkg/metrics"
	"github.com/jcmexdev/printhub/internal/pkg/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown := telemetry.ShutdownFunc(telemetry.NoopShutdown)
	if cfg.OTelEnabled {
		var err error
		shutdown, err = telemetry.SetupTracer(ctx, "dashboard-api", cfg.OTLPEndpoint, cfg.Environment)
		if err != nil {
			slog.Error("failed to initialise tracer", "error", err)
			os.Exit(1)
		}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	conn, err := grpc.NewClient(cfg.StoreAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(interceptors.UnaryClientInterceptor()),
	)
	if err != nil {
		slog.Error("could not connect to store", "addr", cfg.StoreAddr, "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	var storeOpts []store.Option
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr, "dashboard-api")
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, product cache will miss", "addr", cfg.RedisAddr, "error", err)
		}
		storeOpts = append(storeOpts, store.WithProductCache(rc, cfg.ProductCacheTTL))
	}
	backend := store.NewGRPCStoreBackend(conn, storeOpts...)

	transitions, err := sqlite.Open(cfg.TransitionLogDSN)
	if err != nil {
		slog.Error("failed to open transition log", "path", cfg.TransitionLogDSN, "error", err)
		os.Exit(1)
	}
	defer transitions.Close()

	m := metrics.New("printhub")
	dashboard := app.NewDashboard(backend,
		app.WithTransitionLog(transitions),
		app.WithHistory(transitions),
		app.WithMetrics(m),
	)
	carts := app.NewCarts(backend, m)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(httpx.NewHandler(dashboard, carts), m.Handler(), cfg.RequestTimeout),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("dashboard api running", "addr", cfg.HTTPAddr, "store", cfg.StoreAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
}
