package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/launchfolio/launchfolio/internal/auth/session"
	authsqlite "github.com/launchfolio/launchfolio/internal/auth/storage/sqlite"
	"github.com/launchfolio/launchfolio/internal/launchpad/compliance"
	launchpadservice "github.com/launchfolio/launchfolio/internal/launchpad/service"
	launchpadsqlite "github.com/launchfolio/launchfolio/internal/launchpad/storage/sqlite"
	"github.com/launchfolio/launchfolio/internal/platform/config"
	"github.com/launchfolio/launchfolio/internal/platform/timeouts"
	"github.com/launchfolio/launchfolio/internal/services/api/principal"
	supportservice "github.com/launchfolio/launchfolio/internal/support/service"
	supportsqlite "github.com/launchfolio/launchfolio/internal/support/storage/sqlite"
	"github.com/launchfolio/launchfolio/internal/telemetry"
	telemetrysqlite "github.com/launchfolio/launchfolio/internal/telemetry/sqlite"
)

type serverEnv struct {
	Addr    string `env:"LAUNCHFOLIO_ADMIN_ADDR" envDefault:":8082"`
	DataDir string `env:"LAUNCHFOLIO_DATA_DIR"   envDefault:"data"`
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

// Server hosts the operator HTTP API and its storage lifecycle.
type Server struct {
	httpServer *http.Server
	closers    []func() error
}

// New creates a configured admin server from environment settings.
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

	supportStore, err := supportsqlite.Open(filepath.Join(env.DataDir, "support.db"))
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("open support store: %w", err)
	}
	closers = append(closers, supportStore.Close)

	userStore, err := authsqlite.Open(filepath.Join(env.DataDir, "auth.db"))
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("open user store: %w", err)
	}
	closers = append(closers, userStore.Close)

	telemetryStore, err := telemetrysqlite.Open(filepath.Join(env.DataDir, "telemetry.db"))
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("open telemetry store: %w", err)
	}
	closers = append(closers, telemetryStore.Close)

	emitter := telemetry.NewEmitter(telemetryStore)
	handler := NewHandler(HandlerConfig{
		Users:      userStore,
		Support:    supportservice.New(supportStore, supportservice.WithEmitter(emitter)),
		Launchpad:  launchpadservice.New(launchpadStore, launchpadservice.WithEmitter(emitter)),
		Compliance: compliance.NewChecker(launchpadStore),
		Telemetry:  telemetryStore,
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              env.Addr,
			Handler:           handler.Routes(principal.NewVerifier(sessions)),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		closers: closers,
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

	log.Printf("admin server listening at %s", s.httpServer.Addr)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve admin: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown admin: %w", err)
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
			log.Printf("close admin dependency: %v", err)
		}
	}
	s.closers = nil
}

// Run creates and serves an admin server until context cancellation.
func Run(ctx context.Context) error {
	server, err := New()
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
