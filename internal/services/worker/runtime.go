package worker

import (
	"context"
	"fmt"
	"log"
	"net"
	"path/filepath"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	launchpadservice "github.com/launchfolio/launchfolio/internal/launchpad/service"
	launchpadsqlite "github.com/launchfolio/launchfolio/internal/launchpad/storage/sqlite"
	"github.com/launchfolio/launchfolio/internal/platform/config"
	portfolioservice "github.com/launchfolio/launchfolio/internal/portfolio/service"
	portfoliosqlite "github.com/launchfolio/launchfolio/internal/portfolio/storage/sqlite"
	"github.com/launchfolio/launchfolio/internal/telemetry"
	telemetrysqlite "github.com/launchfolio/launchfolio/internal/telemetry/sqlite"
)

type runtimeEnv struct {
	Port          int           `env:"LAUNCHFOLIO_WORKER_PORT"   envDefault:"8089"`
	DataDir       string        `env:"LAUNCHFOLIO_DATA_DIR"      envDefault:"data"`
	SweepInterval time.Duration `env:"LAUNCHFOLIO_SWEEP_INTERVAL" envDefault:"1m"`
	SweepJitter   time.Duration `env:"LAUNCHFOLIO_SWEEP_JITTER"   envDefault:"10s"`
}

// Run starts the worker runtime and blocks until context cancellation.
// A gRPC health endpoint is served so orchestration can probe liveness.
func Run(ctx context.Context) error {
	var cfg runtimeEnv
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	launchpadStore, err := launchpadsqlite.Open(filepath.Join(cfg.DataDir, "launchpad.db"))
	if err != nil {
		return fmt.Errorf("open launchpad store: %w", err)
	}
	defer func() {
		if closeErr := launchpadStore.Close(); closeErr != nil {
			log.Printf("close launchpad store: %v", closeErr)
		}
	}()

	telemetryStore, err := telemetrysqlite.Open(filepath.Join(cfg.DataDir, "telemetry.db"))
	if err != nil {
		return fmt.Errorf("open telemetry store: %w", err)
	}
	defer func() {
		if closeErr := telemetryStore.Close(); closeErr != nil {
			log.Printf("close telemetry store: %v", closeErr)
		}
	}()

	portfolioStore, err := portfoliosqlite.Open(filepath.Join(cfg.DataDir, "portfolio.db"))
	if err != nil {
		return fmt.Errorf("open portfolio store: %w", err)
	}
	defer func() {
		if closeErr := portfolioStore.Close(); closeErr != nil {
			log.Printf("close portfolio store: %v", closeErr)
		}
	}()

	emitter := telemetry.NewEmitter(telemetryStore)
	launchpadService := launchpadservice.New(launchpadStore, launchpadservice.WithEmitter(emitter))
	portfolioService := portfolioservice.New(portfolioStore, launchpadService)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on worker port %d: %w", cfg.Port, err)
	}
	defer listener.Close()

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("worker.runtime", grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	defer func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}()

	log.Printf("worker listening at %v", listener.Addr())

	loop := New(launchpadService, portfolioService, emitter, Config{
		SweepInterval: cfg.SweepInterval,
		Jitter:        cfg.SweepJitter,
	})
	return loop.Run(ctx)
}
