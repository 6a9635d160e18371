// Package generator fills the development stores with deterministic demo
// data: accounts, proposals across every lifecycle status, investments
// with matching ledger entries, support tickets, and tour progress.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	authsqlite "github.com/launchfolio/launchfolio/internal/auth/storage/sqlite"
	"github.com/launchfolio/launchfolio/internal/auth/user"
	"github.com/launchfolio/launchfolio/internal/launchpad"
	launchpadservice "github.com/launchfolio/launchfolio/internal/launchpad/service"
	launchpadsqlite "github.com/launchfolio/launchfolio/internal/launchpad/storage/sqlite"
	portfolioservice "github.com/launchfolio/launchfolio/internal/portfolio/service"
	portfoliosqlite "github.com/launchfolio/launchfolio/internal/portfolio/storage/sqlite"
	supportservice "github.com/launchfolio/launchfolio/internal/support/service"
	supportsqlite "github.com/launchfolio/launchfolio/internal/support/storage/sqlite"
	toursqlite "github.com/launchfolio/launchfolio/internal/tour/storage/sqlite"
)

// Config holds configuration for the generator.
type Config struct {
	DataDir string
	// Seed drives the random source. Zero picks the current time.
	Seed int64
	// Creators is the number of proposal-creator accounts.
	Creators int
	// Investors is the number of investor accounts.
	Investors int
	// Proposals is the number of proposals spread across creators.
	Proposals int
	Verbose   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:   "data",
		Creators:  3,
		Investors: 8,
		Proposals: 10,
	}
}

// Generator orchestrates demo data generation over the local stores.
type Generator struct {
	cfg     Config
	rng     *rand.Rand
	namer   *namer
	closers []func() error

	users     *authsqlite.Store
	tours     *toursqlite.Store
	launchpad *launchpadservice.Service
	portfolio *portfolioservice.Service
	support   *supportservice.Service

	creators  []user.User
	investors []user.User
	operator  user.User
}

// New opens the platform stores and creates a generator.
func New(cfg Config) (*Generator, error) {
	if cfg.Creators <= 0 {
		cfg.Creators = DefaultConfig().Creators
	}
	if cfg.Investors <= 0 {
		cfg.Investors = DefaultConfig().Investors
	}
	if cfg.Proposals <= 0 {
		cfg.Proposals = DefaultConfig().Proposals
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultConfig().DataDir
	}

	rng := NewSeededRNG(cfg.Seed, cfg.Verbose)
	g := &Generator{cfg: cfg, rng: rng, namer: &namer{rng: rng}}

	userStore, err := authsqlite.Open(filepath.Join(cfg.DataDir, "auth.db"))
	if err != nil {
		return nil, fmt.Errorf("open user store: %w", err)
	}
	g.closers = append(g.closers, userStore.Close)
	g.users = userStore

	launchpadStore, err := launchpadsqlite.Open(filepath.Join(cfg.DataDir, "launchpad.db"))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("open launchpad store: %w", err)
	}
	g.closers = append(g.closers, launchpadStore.Close)

	portfolioStore, err := portfoliosqlite.Open(filepath.Join(cfg.DataDir, "portfolio.db"))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("open portfolio store: %w", err)
	}
	g.closers = append(g.closers, portfolioStore.Close)

	supportStore, err := supportsqlite.Open(filepath.Join(cfg.DataDir, "support.db"))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("open support store: %w", err)
	}
	g.closers = append(g.closers, supportStore.Close)

	tourStore, err := toursqlite.Open(filepath.Join(cfg.DataDir, "tours.db"))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("open tour store: %w", err)
	}
	g.closers = append(g.closers, tourStore.Close)
	g.tours = tourStore

	// The seeder performs bursts no interactive client would, so the
	// request limiter gets a far larger window budget.
	limiter := launchpad.NewRateLimiter(1_000_000, time.Hour, nil)
	g.launchpad = launchpadservice.New(launchpadStore, launchpadservice.WithRateLimiter(limiter))
	g.portfolio = portfolioservice.New(portfolioStore, g.launchpad)
	g.support = supportservice.New(supportStore)

	return g, nil
}

// Close releases the stores held by the generator.
func (g *Generator) Close() error {
	if g == nil {
		return nil
	}
	var firstErr error
	for i := len(g.closers) - 1; i >= 0; i-- {
		if err := g.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	g.closers = nil
	return firstErr
}

// Run generates the demo data set.
func (g *Generator) Run(ctx context.Context) error {
	if err := g.createUsers(ctx); err != nil {
		return err
	}
	if err := g.createProposals(ctx); err != nil {
		return err
	}
	if err := g.createSupportTickets(ctx); err != nil {
		return err
	}
	if err := g.createTourProgress(ctx); err != nil {
		return err
	}
	g.logf("Generation complete: %d creators, %d investors, %d proposals\n",
		len(g.creators), len(g.investors), g.cfg.Proposals)
	return nil
}

func (g *Generator) logf(format string, args ...any) {
	if g.cfg.Verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
