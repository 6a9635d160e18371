// Package mcp exposes read-only platform queries as MCP tools over a
// stdio transport so local agents can inspect proposals and portfolios.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	launchpadservice "github.com/launchfolio/launchfolio/internal/launchpad/service"
	launchpadstorage "github.com/launchfolio/launchfolio/internal/launchpad/storage"
	launchpadsqlite "github.com/launchfolio/launchfolio/internal/launchpad/storage/sqlite"
	"github.com/launchfolio/launchfolio/internal/platform/config"
	"github.com/launchfolio/launchfolio/internal/portfolio"
	portfolioservice "github.com/launchfolio/launchfolio/internal/portfolio/service"
	portfoliostorage "github.com/launchfolio/launchfolio/internal/portfolio/storage"
	portfoliosqlite "github.com/launchfolio/launchfolio/internal/portfolio/storage/sqlite"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Launchfolio MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

type serverEnv struct {
	DataDir string `env:"LAUNCHFOLIO_DATA_DIR" envDefault:"data"`
}

// LaunchpadReader exposes the launchpad queries the MCP tools serve.
type LaunchpadReader interface {
	GetProposal(ctx context.Context, proposalID string) (launchpad.Proposal, error)
	ListProposals(ctx context.Context, filter launchpadstorage.ProposalFilter) (launchpadstorage.ProposalPage, error)
	PlatformStats(ctx context.Context) (launchpadstorage.PlatformStats, error)
}

// PortfolioReader exposes the portfolio queries the MCP tools serve.
type PortfolioReader interface {
	Summary(ctx context.Context, userID string) (portfolio.Summary, error)
	History(ctx context.Context, userID string, req portfolioservice.HistoryRequest) (portfoliostorage.TransactionPage, error)
}

// Server hosts the MCP server and the storage it reads from.
type Server struct {
	mcpServer *mcp.Server
	closers   []func() error
}

// New opens the platform stores and builds a configured MCP server.
func New() (*Server, error) {
	var cfg serverEnv
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "data"
	}

	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	launchpadStore, err := launchpadsqlite.Open(filepath.Join(cfg.DataDir, "launchpad.db"))
	if err != nil {
		return nil, fmt.Errorf("open launchpad store: %w", err)
	}
	closers = append(closers, launchpadStore.Close)

	portfolioStore, err := portfoliosqlite.Open(filepath.Join(cfg.DataDir, "portfolio.db"))
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("open portfolio store: %w", err)
	}
	closers = append(closers, portfolioStore.Close)

	launchpadService := launchpadservice.New(launchpadStore)
	portfolioService := portfolioservice.New(portfolioStore, launchpadService)

	server := newServer(launchpadService, portfolioService)
	server.closers = closers
	return server, nil
}

// newServer registers the platform tools against the given readers.
func newServer(launchpadReader LaunchpadReader, portfolioReader PortfolioReader) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(mcpServer, getProposalTool(), getProposalHandler(launchpadReader))
	mcp.AddTool(mcpServer, listProposalsTool(), listProposalsHandler(launchpadReader))
	mcp.AddTool(mcpServer, platformStatsTool(), platformStatsHandler(launchpadReader))
	mcp.AddTool(mcpServer, portfolioSummaryTool(), portfolioSummaryHandler(portfolioReader))
	mcp.AddTool(mcpServer, portfolioHistoryTool(), portfolioHistoryHandler(portfolioReader))

	return &Server{mcpServer: mcpServer}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close stores: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close stores: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// Close releases the stores held by the server.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

// Run is the service entrypoint and blocks until context cancellation.
func Run(ctx context.Context) error {
	server, err := New()
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
