// Package storage defines persistence contracts for launchpad state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/launchfolio/launchfolio/internal/launchpad"
)

var (
	// ErrNotFound indicates a requested launchpad record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// ProposalFilter narrows proposal listings.
type ProposalFilter struct {
	// Status filters by lifecycle status when non-nil.
	Status *launchpad.ProposalStatus
	// CreatorID filters by creator when non-empty.
	CreatorID string
	// PageSize caps the number of returned proposals.
	PageSize int
	// PageToken is the last proposal id of the previous page.
	PageToken string
}

// ProposalPage stores one page of proposals.
type ProposalPage struct {
	Proposals     []launchpad.Proposal
	NextPageToken string
}

// PlatformStats aggregates launchpad-wide totals.
type PlatformStats struct {
	TotalProposals     int64
	ActiveProposals    int64
	FundedProposals    int64
	CompletedProposals int64
	TotalRaised        int64
	TotalInvestors     int64
}

// Distribution records one payout of asset income to a proposal's
// investors. Amounts are in cents.
type Distribution struct {
	ID          string
	ProposalID  string
	TotalAmount int64
	PlatformFee int64
	CreatedAt   time.Time
}

// Payout is one investor's cut of a distribution.
type Payout struct {
	DistributionID string
	InvestorID     string
	Amount         int64
}

// ProposalStore persists offering proposals.
type ProposalStore interface {
	CreateProposal(ctx context.Context, proposal launchpad.Proposal) error
	GetProposal(ctx context.Context, proposalID string) (launchpad.Proposal, error)
	UpdateProposal(ctx context.Context, proposal launchpad.Proposal) error
	ListProposals(ctx context.Context, filter ProposalFilter) (ProposalPage, error)
	CountActiveProposalsByCreator(ctx context.Context, creatorID string) (int, error)
	ListExpiredActiveProposals(ctx context.Context, now time.Time) ([]launchpad.Proposal, error)
	GetPlatformStats(ctx context.Context) (PlatformStats, error)
}

// InvestmentStore persists investor positions.
type InvestmentStore interface {
	CreateInvestment(ctx context.Context, investment launchpad.Investment) error
	UpdateInvestment(ctx context.Context, investment launchpad.Investment) error
	GetInvestment(ctx context.Context, proposalID, investorID string) (launchpad.Investment, error)
	ListInvestmentsByProposal(ctx context.Context, proposalID string) ([]launchpad.Investment, error)
	ListInvestmentsByInvestor(ctx context.Context, investorID string) ([]launchpad.Investment, error)
}

// LockupStore persists post-funding share lockups.
type LockupStore interface {
	CreateLockup(ctx context.Context, lockup launchpad.Lockup) error
	UpdateLockup(ctx context.Context, lockup launchpad.Lockup) error
	ListLockupsByInvestor(ctx context.Context, investorID string) ([]launchpad.Lockup, error)
	ListReleasableLockups(ctx context.Context, now time.Time) ([]launchpad.Lockup, error)
}

// DistributionStore persists income distributions and payouts.
type DistributionStore interface {
	CreateDistribution(ctx context.Context, distribution Distribution, payouts []Payout) error
	ListDistributionsByProposal(ctx context.Context, proposalID string) ([]Distribution, error)
	ListPayoutsByInvestor(ctx context.Context, investorID string) ([]Payout, error)
}

// Store combines all launchpad persistence contracts.
type Store interface {
	ProposalStore
	InvestmentStore
	LockupStore
	DistributionStore
}
