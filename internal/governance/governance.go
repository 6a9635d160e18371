// Package governance derives token-holder voting data from completed
// offerings. Voting power is proportional to the shares an investor holds;
// tallying itself happens outside the platform.
package governance

import (
	"context"
	"fmt"
	"time"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
)

// Info describes the governance setup for one offering.
type Info struct {
	ProposalID string
	// AssetID is the ledger identifier holders vote with.
	AssetID     string
	AssetName   string
	HolderCount int
	TotalShares int64
	// IssuedShares is the sum of shares across distributed positions.
	IssuedShares int64
	// Eligible reports whether the offering backs a governance vote.
	Eligible bool
}

// Power is one holder's voting weight in an offering.
type Power struct {
	ProposalID string
	InvestorID string
	Shares     int64
	// Bps is the holder's share of issued voting power in basis points.
	Bps int64
}

// Eligibility is one offering a user can vote in.
type Eligibility struct {
	Info  Info
	Power Power
}

// LaunchpadReader exposes the launchpad data governance derives from.
type LaunchpadReader interface {
	GetProposal(ctx context.Context, proposalID string) (launchpad.Proposal, error)
	ListInvestmentsByProposal(ctx context.Context, proposalID string) ([]launchpad.Investment, error)
	ListInvestmentsByInvestor(ctx context.Context, investorID string) ([]launchpad.Investment, error)
}

// Service answers governance queries over launchpad data.
type Service struct {
	launchpad LaunchpadReader
	clock     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// New creates a governance service.
func New(reader LaunchpadReader, opts ...Option) *Service {
	s := &Service{launchpad: reader, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// eligibleStatus reports whether an offering's shares carry voting rights.
// Shares exist once issued, so funded-and-issued and completed offerings
// both qualify.
func eligibleStatus(proposal launchpad.Proposal) bool {
	switch proposal.Status {
	case launchpad.ProposalStatusCompleted:
		return true
	case launchpad.ProposalStatusFunded:
		return proposal.SharesIssued
	default:
		return false
	}
}

// AssetID returns the ledger asset identifier for an offering.
func AssetID(proposalID string) string {
	return "rwa-" + proposalID
}

// ProposalInfo returns the governance setup for one offering.
func (s *Service) ProposalInfo(ctx context.Context, proposalID string) (Info, error) {
	proposal, err := s.launchpad.GetProposal(ctx, proposalID)
	if err != nil {
		return Info{}, err
	}
	investments, err := s.launchpad.ListInvestmentsByProposal(ctx, proposal.ID)
	if err != nil {
		return Info{}, fmt.Errorf("list investments: %w", err)
	}

	info := Info{
		ProposalID:  proposal.ID,
		AssetID:     AssetID(proposal.ID),
		AssetName:   proposal.AssetName,
		TotalShares: proposal.TotalShares,
		Eligible:    eligibleStatus(proposal),
	}
	for _, investment := range investments {
		if investment.Status != launchpad.InvestmentStatusDistributed {
			continue
		}
		info.HolderCount++
		info.IssuedShares += investment.Shares
	}
	return info, nil
}

// VotingPower returns one holder's voting weight in an offering.
func (s *Service) VotingPower(ctx context.Context, proposalID, investorID string) (Power, error) {
	info, err := s.ProposalInfo(ctx, proposalID)
	if err != nil {
		return Power{}, err
	}
	if !info.Eligible {
		return Power{}, apperrors.New(apperrors.CodeGovernanceNotEligible, "offering has no issued voting shares")
	}
	investments, err := s.launchpad.ListInvestmentsByProposal(ctx, proposalID)
	if err != nil {
		return Power{}, fmt.Errorf("list investments: %w", err)
	}
	for _, investment := range investments {
		if investment.InvestorID != investorID || investment.Status != launchpad.InvestmentStatusDistributed {
			continue
		}
		return Power{
			ProposalID: proposalID,
			InvestorID: investorID,
			Shares:     investment.Shares,
			Bps:        powerBps(investment.Shares, info.IssuedShares),
		}, nil
	}
	return Power{}, apperrors.New(apperrors.CodeGovernanceNotEligible, "investor holds no voting shares")
}

// ListEligibility returns every offering a user can vote in, with their
// voting weight in each.
func (s *Service) ListEligibility(ctx context.Context, investorID string) ([]Eligibility, error) {
	investments, err := s.launchpad.ListInvestmentsByInvestor(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}

	var eligibilities []Eligibility
	for _, investment := range investments {
		if investment.Status != launchpad.InvestmentStatusDistributed {
			continue
		}
		info, err := s.ProposalInfo(ctx, investment.ProposalID)
		if err != nil {
			return nil, err
		}
		if !info.Eligible {
			continue
		}
		eligibilities = append(eligibilities, Eligibility{
			Info: info,
			Power: Power{
				ProposalID: investment.ProposalID,
				InvestorID: investorID,
				Shares:     investment.Shares,
				Bps:        powerBps(investment.Shares, info.IssuedShares),
			},
		})
	}
	return eligibilities, nil
}

func powerBps(shares, issued int64) int64 {
	if issued <= 0 {
		return 0
	}
	return shares * 10_000 / issued
}
