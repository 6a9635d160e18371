package launchpad

import (
	"testing"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
)

func activeProposal() Proposal {
	return Proposal{
		ID:              "prop-1",
		CreatorID:       "creator-1",
		TargetAmount:    10_000_00,
		SharePrice:      100_00,
		TotalShares:     100,
		MinInvestment:   100_00,
		Status:          ProposalStatusActive,
		FundingDeadline: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateInvestmentSuccess(t *testing.T) {
	input := CreateInvestmentInput{ProposalID: "prop-1", InvestorID: "inv-1", Amount: 500_00}
	investment, err := CreateInvestment(input, activeProposal(), fixedClock(), fixedIDGenerator("invest-1"))
	if err != nil {
		t.Fatalf("CreateInvestment() error = %v", err)
	}
	if investment.Shares != 5 {
		t.Fatalf("Shares = %d, want 5", investment.Shares)
	}
	if investment.Status != InvestmentStatusActive {
		t.Fatalf("Status = %v, want active", investment.Status)
	}
}

func TestCreateInvestmentValidation(t *testing.T) {
	tests := []struct {
		name     string
		input    CreateInvestmentInput
		proposal func() Proposal
		wantCode apperrors.Code
	}{
		{
			name:     "missing investor",
			input:    CreateInvestmentInput{ProposalID: "prop-1", Amount: 500_00},
			proposal: activeProposal,
			wantCode: apperrors.CodeUnauthorized,
		},
		{
			name:  "proposal not active",
			input: CreateInvestmentInput{ProposalID: "prop-1", InvestorID: "inv-1", Amount: 500_00},
			proposal: func() Proposal {
				p := activeProposal()
				p.Status = ProposalStatusFunded
				return p
			},
			wantCode: apperrors.CodeProposalNotActive,
		},
		{
			name:  "deadline passed",
			input: CreateInvestmentInput{ProposalID: "prop-1", InvestorID: "inv-1", Amount: 500_00},
			proposal: func() Proposal {
				p := activeProposal()
				p.FundingDeadline = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
				return p
			},
			wantCode: apperrors.CodeProposalDeadlinePassed,
		},
		{
			name:     "zero amount",
			input:    CreateInvestmentInput{ProposalID: "prop-1", InvestorID: "inv-1"},
			proposal: activeProposal,
			wantCode: apperrors.CodeInvestmentZeroAmount,
		},
		{
			name:     "below minimum",
			input:    CreateInvestmentInput{ProposalID: "prop-1", InvestorID: "inv-1", Amount: 50_00},
			proposal: activeProposal,
			wantCode: apperrors.CodeInvestmentBelowMinimum,
		},
		{
			name:     "fractional shares",
			input:    CreateInvestmentInput{ProposalID: "prop-1", InvestorID: "inv-1", Amount: 150_50},
			proposal: activeProposal,
			wantCode: apperrors.CodeInvestmentZeroShares,
		},
		{
			name:  "exceeds remaining shares",
			input: CreateInvestmentInput{ProposalID: "prop-1", InvestorID: "inv-1", Amount: 600_00},
			proposal: func() Proposal {
				p := activeProposal()
				p.RaisedAmount = 9_500_00
				return p
			},
			wantCode: apperrors.CodeInvestmentExceedsShares,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateInvestment(tc.input, tc.proposal(), fixedClock(), fixedIDGenerator("invest-1"))
			if !apperrors.IsCode(err, tc.wantCode) {
				t.Fatalf("CreateInvestment() error = %v, want code %v", err, tc.wantCode)
			}
		})
	}
}

func TestMergeInvestment(t *testing.T) {
	proposal := activeProposal()
	existing, err := CreateInvestment(CreateInvestmentInput{ProposalID: "prop-1", InvestorID: "inv-1", Amount: 500_00}, proposal, fixedClock(), fixedIDGenerator("invest-1"))
	if err != nil {
		t.Fatalf("CreateInvestment() error = %v", err)
	}

	merged, err := MergeInvestment(existing, CreateInvestmentInput{ProposalID: "prop-1", InvestorID: "inv-1", Amount: 300_00}, proposal, fixedClock())
	if err != nil {
		t.Fatalf("MergeInvestment() error = %v", err)
	}
	if merged.Amount != 800_00 || merged.Shares != 8 {
		t.Fatalf("merged = %+v, want amount 80000 shares 8", merged)
	}
	if merged.ID != existing.ID {
		t.Fatal("merge must keep the original investment id")
	}

	refunded := existing
	refunded.Status = InvestmentStatusRefunded
	if _, err := MergeInvestment(refunded, CreateInvestmentInput{ProposalID: "prop-1", InvestorID: "inv-1", Amount: 300_00}, proposal, fixedClock()); !apperrors.IsCode(err, apperrors.CodeInvestmentNotFound) {
		t.Fatalf("MergeInvestment() refunded = %v, want %v", err, apperrors.CodeInvestmentNotFound)
	}
}

func TestRefundInvestment(t *testing.T) {
	investment := Investment{ID: "invest-1", Status: InvestmentStatusActive}
	refunded, err := RefundInvestment(investment, fixedClock())
	if err != nil {
		t.Fatalf("RefundInvestment() error = %v", err)
	}
	if refunded.Status != InvestmentStatusRefunded {
		t.Fatalf("Status = %v, want refunded", refunded.Status)
	}
	if _, err := RefundInvestment(refunded, fixedClock()); !apperrors.IsCode(err, apperrors.CodeNoRefundableInvestments) {
		t.Fatalf("double refund = %v, want %v", err, apperrors.CodeNoRefundableInvestments)
	}
}

func TestOwnershipBps(t *testing.T) {
	proposal := activeProposal()
	investment := Investment{Shares: 25}
	if got := investment.OwnershipBps(proposal); got != 2500 {
		t.Fatalf("OwnershipBps() = %d, want 2500", got)
	}
}
