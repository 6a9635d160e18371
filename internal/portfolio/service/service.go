// Package service assembles portfolio summaries and the transaction
// history API over the ledger store and launchpad data.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/id"
	"github.com/launchfolio/launchfolio/internal/platform/pagination"
	"github.com/launchfolio/launchfolio/internal/portfolio"
	"github.com/launchfolio/launchfolio/internal/portfolio/filter"
	"github.com/launchfolio/launchfolio/internal/portfolio/storage"
)

var (
	pageSizeConfig = pagination.PageSizeConfig{Default: 25, Max: 100}
	orderByConfig  = pagination.OrderByConfig{
		Default: "occurred_at DESC, id DESC",
		Allowed: []string{
			"occurred_at asc",
			"occurred_at desc",
			"amount asc",
			"amount desc",
		},
	}
	orderByFragments = map[string]string{
		"occurred_at asc":  "occurred_at ASC, id ASC",
		"occurred_at desc": "occurred_at DESC, id DESC",
		"amount asc":       "amount ASC, id ASC",
		"amount desc":      "amount DESC, id DESC",
	}
)

// LaunchpadReader exposes the launchpad data the portfolio view needs.
type LaunchpadReader interface {
	GetProposal(ctx context.Context, proposalID string) (launchpad.Proposal, error)
	ListInvestorPositions(ctx context.Context, investorID string) ([]launchpad.Investment, error)
	ListInvestorLockups(ctx context.Context, investorID string) ([]launchpad.Lockup, error)
}

// Service implements portfolio operations.
type Service struct {
	ledger      storage.TransactionStore
	launchpad   LaunchpadReader
	clock       func() time.Time
	idGenerator func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithIDGenerator overrides the id generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.idGenerator = gen }
}

// New creates a portfolio service.
func New(ledger storage.TransactionStore, reader LaunchpadReader, opts ...Option) *Service {
	s := &Service{
		ledger:      ledger,
		launchpad:   reader,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends one ledger entry.
func (s *Service) Record(ctx context.Context, input portfolio.RecordTransactionInput) (portfolio.Transaction, error) {
	transaction, err := portfolio.NewTransaction(input, s.clock, s.idGenerator)
	if err != nil {
		return portfolio.Transaction{}, err
	}
	if err := s.ledger.AppendTransaction(ctx, transaction); err != nil {
		return portfolio.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	return transaction, nil
}

// HistoryRequest describes one transaction history query.
type HistoryRequest struct {
	// Filter is an optional AIP-160 expression over proposal_id, type,
	// amount, shares, and occurred_at.
	Filter string
	// OrderBy is an optional "field asc|desc" ordering.
	OrderBy   string
	PageSize  int
	PageToken string
}

// History returns one page of a user's ledger entries.
func (s *Service) History(ctx context.Context, userID string, req HistoryRequest) (storage.TransactionPage, error) {
	condition, err := filter.ParseTransactionFilter(req.Filter)
	if err != nil {
		return storage.TransactionPage{}, err
	}
	orderBy, err := pagination.NormalizeOrderBy(req.OrderBy, orderByConfig)
	if err != nil {
		return storage.TransactionPage{}, apperrors.Wrap(apperrors.CodeOrderByInvalid, "normalize order by", err)
	}
	if fragment, ok := orderByFragments[orderBy]; ok {
		orderBy = fragment
	}
	return s.ledger.ListTransactions(ctx, userID, storage.TransactionQuery{
		Condition: condition,
		OrderBy:   orderBy,
		PageSize:  pagination.ClampPageSize(req.PageSize, pageSizeConfig),
		PageToken: req.PageToken,
	})
}

// Summary assembles a user's portfolio from current launchpad positions
// and ledger history.
func (s *Service) Summary(ctx context.Context, userID string) (portfolio.Summary, error) {
	investments, err := s.launchpad.ListInvestorPositions(ctx, userID)
	if err != nil {
		return portfolio.Summary{}, fmt.Errorf("list positions: %w", err)
	}
	lockups, err := s.launchpad.ListInvestorLockups(ctx, userID)
	if err != nil {
		return portfolio.Summary{}, fmt.Errorf("list lockups: %w", err)
	}
	now := s.clock().UTC()
	lockedUntil := map[string]*time.Time{}
	for _, lockup := range lockups {
		if lockup.Released() || lockup.Releasable(now) {
			continue
		}
		unlockAt := lockup.UnlockAt
		lockedUntil[lockup.ProposalID] = &unlockAt
	}

	var positions []portfolio.Position
	for _, investment := range investments {
		if investment.Status == launchpad.InvestmentStatusRefunded {
			continue
		}
		proposal, err := s.launchpad.GetProposal(ctx, investment.ProposalID)
		if err != nil {
			return portfolio.Summary{}, fmt.Errorf("get proposal %s: %w", investment.ProposalID, err)
		}
		position := portfolio.Position{
			ProposalID:   proposal.ID,
			AssetName:    proposal.AssetName,
			Shares:       investment.Shares,
			Invested:     investment.Amount,
			OwnershipBps: investment.OwnershipBps(proposal),
		}
		if unlockAt, ok := lockedUntil[proposal.ID]; ok {
			position.Locked = true
			position.UnlockAt = unlockAt
		}
		positions = append(positions, position)
	}

	history, err := s.ledger.ListAllTransactions(ctx, userID)
	if err != nil {
		return portfolio.Summary{}, fmt.Errorf("list transactions: %w", err)
	}
	return portfolio.BuildSummary(positions, history), nil
}
