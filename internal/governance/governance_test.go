package governance

import (
	"context"
	"testing"

	"github.com/launchfolio/launchfolio/internal/launchpad"
	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
)

type fakeLaunchpad struct {
	proposals   map[string]launchpad.Proposal
	investments []launchpad.Investment
}

func (f *fakeLaunchpad) GetProposal(_ context.Context, proposalID string) (launchpad.Proposal, error) {
	proposal, ok := f.proposals[proposalID]
	if !ok {
		return launchpad.Proposal{}, apperrors.New(apperrors.CodeProposalNotFound, "proposal not found")
	}
	return proposal, nil
}

func (f *fakeLaunchpad) ListInvestmentsByProposal(_ context.Context, proposalID string) ([]launchpad.Investment, error) {
	var investments []launchpad.Investment
	for _, investment := range f.investments {
		if investment.ProposalID == proposalID {
			investments = append(investments, investment)
		}
	}
	return investments, nil
}

func (f *fakeLaunchpad) ListInvestmentsByInvestor(_ context.Context, investorID string) ([]launchpad.Investment, error) {
	var investments []launchpad.Investment
	for _, investment := range f.investments {
		if investment.InvestorID == investorID {
			investments = append(investments, investment)
		}
	}
	return investments, nil
}

func newFake() *fakeLaunchpad {
	return &fakeLaunchpad{
		proposals: map[string]launchpad.Proposal{
			"prop-1": {
				ID:           "prop-1",
				AssetName:    "Dockside Lofts",
				TotalShares:  100,
				Status:       launchpad.ProposalStatusCompleted,
				SharesIssued: true,
			},
			"prop-2": {
				ID:          "prop-2",
				AssetName:   "Vintage Roadster",
				TotalShares: 50,
				Status:      launchpad.ProposalStatusActive,
			},
		},
		investments: []launchpad.Investment{
			{ID: "inv-1", ProposalID: "prop-1", InvestorID: "user-1", Shares: 75, Status: launchpad.InvestmentStatusDistributed},
			{ID: "inv-2", ProposalID: "prop-1", InvestorID: "user-2", Shares: 25, Status: launchpad.InvestmentStatusDistributed},
			{ID: "inv-3", ProposalID: "prop-1", InvestorID: "user-3", Shares: 10, Status: launchpad.InvestmentStatusRefunded},
			{ID: "inv-4", ProposalID: "prop-2", InvestorID: "user-1", Shares: 5, Status: launchpad.InvestmentStatusActive},
		},
	}
}

func TestProposalInfo(t *testing.T) {
	service := New(newFake())

	info, err := service.ProposalInfo(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("ProposalInfo returned error: %v", err)
	}
	if info.AssetID != "rwa-prop-1" {
		t.Errorf("AssetID = %q, want rwa-prop-1", info.AssetID)
	}
	if info.HolderCount != 2 {
		t.Errorf("HolderCount = %d, want 2 (refunded excluded)", info.HolderCount)
	}
	if info.IssuedShares != 100 {
		t.Errorf("IssuedShares = %d, want 100", info.IssuedShares)
	}
	if !info.Eligible {
		t.Error("Eligible = false, want true for a completed offering")
	}
}

func TestProposalInfoActiveNotEligible(t *testing.T) {
	service := New(newFake())

	info, err := service.ProposalInfo(context.Background(), "prop-2")
	if err != nil {
		t.Fatalf("ProposalInfo returned error: %v", err)
	}
	if info.Eligible {
		t.Error("Eligible = true, want false for an active offering")
	}
	if info.HolderCount != 0 {
		t.Errorf("HolderCount = %d, want 0 before distribution", info.HolderCount)
	}
}

func TestVotingPower(t *testing.T) {
	service := New(newFake())

	power, err := service.VotingPower(context.Background(), "prop-1", "user-1")
	if err != nil {
		t.Fatalf("VotingPower returned error: %v", err)
	}
	if power.Shares != 75 || power.Bps != 7500 {
		t.Errorf("power = %+v, want 75 shares at 7500 bps", power)
	}
}

func TestVotingPowerNotEligible(t *testing.T) {
	service := New(newFake())

	if _, err := service.VotingPower(context.Background(), "prop-2", "user-1"); !apperrors.IsCode(err, apperrors.CodeGovernanceNotEligible) {
		t.Errorf("active offering error = %v, want code %q", err, apperrors.CodeGovernanceNotEligible)
	}
	if _, err := service.VotingPower(context.Background(), "prop-1", "user-3"); !apperrors.IsCode(err, apperrors.CodeGovernanceNotEligible) {
		t.Errorf("refunded holder error = %v, want code %q", err, apperrors.CodeGovernanceNotEligible)
	}
}

func TestListEligibility(t *testing.T) {
	service := New(newFake())

	eligibilities, err := service.ListEligibility(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListEligibility returned error: %v", err)
	}
	if len(eligibilities) != 1 {
		t.Fatalf("eligibilities = %d, want 1 (active offering excluded)", len(eligibilities))
	}
	got := eligibilities[0]
	if got.Info.ProposalID != "prop-1" || got.Power.Bps != 7500 {
		t.Errorf("eligibility = %+v, want prop-1 at 7500 bps", got)
	}
}

func TestListEligibilityNoneForOutsider(t *testing.T) {
	service := New(newFake())

	eligibilities, err := service.ListEligibility(context.Background(), "user-9")
	if err != nil {
		t.Fatalf("ListEligibility returned error: %v", err)
	}
	if len(eligibilities) != 0 {
		t.Errorf("eligibilities = %+v, want none", eligibilities)
	}
}
