package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/printhub/internal/pkg/cache"
	"github.com/jcmexdev/printhub/internal/pkg/config"
	"github.com/jcmexdev/printhub/internal/pkg/interceptors"
	"github.com/jcmexdev/printhub/internal/pkg/storeapi"
	"github.com/jcmexdev/printhub/internal/pkg/telemetry"
	"github.com/jcmexdev/printhub/internal/store-service/app"
	"github.com/jcmexdev/printhub/internal/store-service/domain"
)

func main() {
	cfg := config.Load()
	telemetry.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown := telemetry.ShutdownFunc(telemetry.NoopShutdown)
	if cfg.OTelEnabled {
		var err error
		shutdown, err = telemetry.SetupTracer(ctx, "store-service", cfg.OTLPEndpoint, cfg.Environment)
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

	seed, err := loadSeed(cfg.SeedPath)
	if err != nil {
		slog.Error("failed to load seed", "path", cfg.SeedPath, "error", err)
		os.Exit(1)
	}
	store := domain.New(seed)

	var opts []app.Option
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr, "store")
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, status updates are not deduplicated", "addr", cfg.RedisAddr, "error", err)
		}
		opts = append(opts, app.WithIdempotency(rc, cfg.IdempotencyTTL))
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		slog.Error("failed to listen", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.UnaryServerInterceptor()),
	)
	storeapi.RegisterStoreServer(grpcServer, app.NewStoreServer(store, opts...))

	hs := health.NewServer()
	hs.SetServingStatus(storeapi.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, hs)

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		hs.Shutdown()
		grpcServer.GracefulStop()
	}()

	slog.Info("store service gRPC running", "addr", cfg.GRPCAddr, "users", len(seed.Users), "products", len(seed.Products))
	if err := grpcServer.Serve(lis); err != nil {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}

func loadSeed(path string) (domain.Seed, error) {
	if path == "" {
		return domain.DemoSeed()
	}
	return domain.LoadSeed(path)
}
