// Package api wires the public HTTP API runtime and its storage lifecycle.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	assistantprovider "github.com/launchfolio/launchfolio/internal/assistant/provider"
	assistantservice "github.com/launchfolio/launchfolio/internal/assistant/service"
	assistantsqlite "github.com/launchfolio/launchfolio/internal/assistant/storage/sqlite"
	"github.com/launchfolio/launchfolio/internal/auth/session"
	authsqlite "github.com/launchfolio/launchfolio/internal/auth/storage/sqlite"
	"github.com/launchfolio/launchfolio/internal/governance"
	launchpadservice "github.com/launchfolio/launchfolio/internal/launchpad/service"
	launchpadsqlite "github.com/launchfolio/launchfolio/internal/launchpad/storage/sqlite"
	"github.com/launchfolio/launchfolio/internal/platform/config"
	"github.com/launchfolio/launchfolio/internal/platform/timeouts"
	portfolioservice "github.com/launchfolio/launchfolio/internal/portfolio/service"
	portfoliosqlite "github.com/launchfolio/launchfolio/internal/portfolio/storage/sqlite"
	"github.com/launchfolio/launchfolio/internal/services/api/app"
	apimodules "github.com/launchfolio/launchfolio/internal/services/api/modules"
	"github.com/launchfolio/launchfolio/internal/services/api/principal"
	supportservice "github.com/launchfolio/launchfolio/internal/support/service"
	supportsqlite "github.com/launchfolio/launchfolio/internal/support/storage/sqlite"
	"github.com/launchfolio/launchfolio/internal/telemetry"
	telemetrysqlite "github.com/launchfolio/launchfolio/internal/telemetry/sqlite"
	"github.com/launchfolio/launchfolio/internal/tour"
	toursqlite "github.com/launchfolio/launchfolio/internal/tour/storage/sqlite"
)

type serverEnv struct {
	Addr            string `env:"LAUNCHFOLIO_API_ADDR"             envDefault:":8080"`
	HealthAddr      string `env:"LAUNCHFOLIO_API_HEALTH_ADDR"      envDefault:":8081"`
	DataDir         string `env:"LAUNCHFOLIO_DATA_DIR"             envDefault:"data"`
	TourCatalogPath string `env:"LAUNCHFOLIO_TOUR_CATALOG_PATH"`
	OpenAIKey       string `env:"LAUNCHFOLIO_OPENAI_API_KEY"`
	OpenAIURL       string `env:"LAUNCHFOLIO_OPENAI_RESPONSES_URL"`
	AssistantModel  string `env:"LAUNCHFOLIO_ASSISTANT_MODEL"`
}

func loadServerEnv() (serverEnv, error) {
	var cfg serverEnv
	if err := config.ParseEnv(&cfg); err != nil {
		return serverEnv{}, err
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "data"
	}
	return cfg, nil
}

// Server hosts the public HTTP API and its storage lifecycle.
type Server struct {
	httpServer  *http.Server
	healthAddr  string
	closers     []func() error
	catalog     *tour.Catalog
	catalogPath string
}

// New creates a configured API server from environment settings.
func New() (*Server, error) {
	env, err := loadServerEnv()
	if err != nil {
		return nil, err
	}
	sessions, err := session.LoadConfigFromEnv(time.Now)
	if err != nil {
		return nil, fmt.Errorf("load session config: %w", err)
	}

	var closers []func() error
	closeAll := func() {
		for _, close := range closers {
			_ = close()
		}
	}

	launchpadStore, err := launchpadsqlite.Open(filepath.Join(env.DataDir, "launchpad.db"))
	if err != nil {
		return nil, fmt.Errorf("open launchpad store: %w", err)
	}
	closers = append(closers, launchpadStore.Close)

	portfolioStore, err := portfoliosqlite.Open(filepath.Join(env.DataDir, "portfolio.db"))
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("open portfolio store: %w", err)
	}
	closers = append(closers, portfolioStore.Close)

	supportStore, err := supportsqlite.Open(filepath.Join(env.DataDir, "support.db"))
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("open support store: %w", err)
	}
	closers = append(closers, supportStore.Close)

	assistantStore, err := assistantsqlite.Open(filepath.Join(env.DataDir, "assistant.db"))
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("open assistant store: %w", err)
	}
	closers = append(closers, assistantStore.Close)

	userStore, err := authsqlite.Open(filepath.Join(env.DataDir, "auth.db"))
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("open user store: %w", err)
	}
	closers = append(closers, userStore.Close)

	tourStore, err := toursqlite.Open(filepath.Join(env.DataDir, "tours.db"))
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("open tour store: %w", err)
	}
	closers = append(closers, tourStore.Close)

	telemetryStore, err := telemetrysqlite.Open(filepath.Join(env.DataDir, "telemetry.db"))
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("open telemetry store: %w", err)
	}
	closers = append(closers, telemetryStore.Close)
	emitter := telemetry.NewEmitter(telemetryStore)

	catalog, err := tour.LoadCatalog(env.TourCatalogPath)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("load tour catalog: %w", err)
	}

	launchpad := launchpadservice.New(launchpadStore, launchpadservice.WithEmitter(emitter))
	portfolio := portfolioservice.New(portfolioStore, launchpad)
	support := supportservice.New(supportStore, supportservice.WithEmitter(emitter))

	invoker := assistantprovider.NewOpenAIInvoker(assistantprovider.OpenAIConfig{
		ResponsesURL: env.OpenAIURL,
		APIKey:       env.OpenAIKey,
	})
	var assistantOpts []assistantservice.Option
	if strings.TrimSpace(env.AssistantModel) != "" {
		assistantOpts = append(assistantOpts, assistantservice.WithModel(env.AssistantModel))
	}
	assistant := assistantservice.New(assistantStore, invoker, userStore, launchpad, assistantOpts...)

	handler, err := app.Compose(app.ComposeInput{
		Modules: apimodules.DefaultModules(apimodules.Dependencies{
			Launchpad:   launchpad,
			Portfolio:   portfolio,
			Support:     support,
			Assistant:   assistant,
			Governance:  governance.New(launchpadStore),
			TourCatalog: catalog,
			TourRunner:  tour.NewRunner(catalog),
			TourStore:   tourStore,
			Users:       userStore,
			Sessions:    sessions,
		}),
		Verify: principal.NewVerifier(sessions),
	})
	if err != nil {
		closeAll()
		return nil, err
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              env.Addr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		healthAddr:  env.HealthAddr,
		closers:     closers,
		catalog:     catalog,
		catalogPath: env.TourCatalogPath,
	}, nil
}

// serveHealth runs a gRPC health endpoint so orchestration can probe
// liveness. It returns the shutdown function for the caller to defer.
func (s *Server) serveHealth() (func(), error) {
	listener, err := net.Listen("tcp", s.healthAddr)
	if err != nil {
		return nil, fmt.Errorf("listen on health addr %s: %w", s.healthAddr, err)
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("api.runtime", grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	return func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}, nil
}

// Serve runs the HTTP server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return errors.New("server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	if s.catalog != nil && strings.TrimSpace(s.catalogPath) != "" {
		go func() {
			if err := s.catalog.Watch(ctx, s.catalogPath, log.Printf); err != nil {
				log.Printf("watch tour catalog: %v", err)
			}
		}()
	}

	if strings.TrimSpace(s.healthAddr) != "" {
		stopHealth, err := s.serveHealth()
		if err != nil {
			return err
		}
		defer stopHealth()
	}

	log.Printf("api server listening at %s", s.httpServer.Addr)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve api: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api: %w", err)
	}
	return nil
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	for _, close := range s.closers {
		if err := close(); err != nil {
			log.Printf("close api dependency: %v", err)
		}
	}
	s.closers = nil
}

// Run creates and serves an API server until context cancellation.
func Run(ctx context.Context) error {
	server, err := New()
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
