package launchpad

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/id"
)

// InvestmentStatus describes the lifecycle of one investment.
type InvestmentStatus int

const (
	// InvestmentStatusUnspecified represents an invalid investment status.
	InvestmentStatusUnspecified InvestmentStatus = iota
	// InvestmentStatusActive indicates the funds are committed.
	InvestmentStatusActive
	// InvestmentStatusRefunded indicates the funds were returned.
	InvestmentStatusRefunded
	// InvestmentStatusDistributed indicates shares were issued for it.
	InvestmentStatusDistributed
)

// Investment represents one investor's position in a proposal. Repeat
// investments by the same investor are merged into one record.
type Investment struct {
	ID         string
	ProposalID string
	InvestorID string
	// Amount is the total committed in cents.
	Amount int64
	// Shares is Amount divided by the proposal's share price.
	Shares    int64
	Status    InvestmentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateInvestmentInput describes one investment request.
type CreateInvestmentInput struct {
	ProposalID string
	InvestorID string
	// Amount is the committed amount in cents.
	Amount int64
}

// NormalizeCreateInvestmentInput trims and validates investment input
// against the target proposal's terms.
func NormalizeCreateInvestmentInput(input CreateInvestmentInput, proposal Proposal, now time.Time) (CreateInvestmentInput, error) {
	input.ProposalID = strings.TrimSpace(input.ProposalID)
	input.InvestorID = strings.TrimSpace(input.InvestorID)

	if input.InvestorID == "" {
		return CreateInvestmentInput{}, apperrors.New(apperrors.CodeUnauthorized, "investor id is required")
	}
	if proposal.Status != ProposalStatusActive {
		return CreateInvestmentInput{}, apperrors.New(apperrors.CodeProposalNotActive, "proposal is not accepting investments")
	}
	if proposal.DeadlinePassed(now) {
		return CreateInvestmentInput{}, apperrors.New(apperrors.CodeProposalDeadlinePassed, "funding deadline has passed")
	}
	if input.Amount <= 0 {
		return CreateInvestmentInput{}, apperrors.New(apperrors.CodeInvestmentZeroAmount, "investment amount must be positive")
	}
	if input.Amount < proposal.MinInvestment {
		return CreateInvestmentInput{}, apperrors.WithMetadata(
			apperrors.CodeInvestmentBelowMinimum,
			fmt.Sprintf("investment is below the minimum of %d", proposal.MinInvestment),
			map[string]string{"Minimum": strconv.FormatInt(proposal.MinInvestment, 10)},
		)
	}
	if input.Amount%proposal.SharePrice != 0 {
		return CreateInvestmentInput{}, apperrors.New(apperrors.CodeInvestmentZeroShares, "investment must buy a whole number of shares")
	}
	shares := input.Amount / proposal.SharePrice
	if shares > proposal.RemainingShares() {
		return CreateInvestmentInput{}, apperrors.WithMetadata(
			apperrors.CodeInvestmentExceedsShares,
			"investment exceeds the remaining shares",
			map[string]string{"Remaining": strconv.FormatInt(proposal.RemainingShares(), 10)},
		)
	}
	return input, nil
}

// CreateInvestment creates a new investment against an active proposal.
func CreateInvestment(input CreateInvestmentInput, proposal Proposal, now func() time.Time, idGenerator func() (string, error)) (Investment, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	createdAt := now().UTC()
	normalized, err := NormalizeCreateInvestmentInput(input, proposal, createdAt)
	if err != nil {
		return Investment{}, err
	}

	investmentID, err := idGenerator()
	if err != nil {
		return Investment{}, fmt.Errorf("generate investment id: %w", err)
	}

	return Investment{
		ID:         investmentID,
		ProposalID: proposal.ID,
		InvestorID: normalized.InvestorID,
		Amount:     normalized.Amount,
		Shares:     normalized.Amount / proposal.SharePrice,
		Status:     InvestmentStatusActive,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}, nil
}

// MergeInvestment adds a follow-up amount to an existing active investment.
func MergeInvestment(existing Investment, input CreateInvestmentInput, proposal Proposal, now func() time.Time) (Investment, error) {
	if now == nil {
		now = time.Now
	}
	if existing.Status != InvestmentStatusActive {
		return Investment{}, apperrors.New(apperrors.CodeInvestmentNotFound, "investment is no longer active")
	}
	mergedAt := now().UTC()
	normalized, err := NormalizeCreateInvestmentInput(input, proposal, mergedAt)
	if err != nil {
		return Investment{}, err
	}

	existing.Amount += normalized.Amount
	existing.Shares += normalized.Amount / proposal.SharePrice
	existing.UpdatedAt = mergedAt
	return existing, nil
}

// RefundInvestment marks an active investment as refunded.
func RefundInvestment(investment Investment, now func() time.Time) (Investment, error) {
	if now == nil {
		now = time.Now
	}
	if investment.Status != InvestmentStatusActive {
		return Investment{}, apperrors.New(apperrors.CodeNoRefundableInvestments, "investment is not refundable")
	}
	investment.Status = InvestmentStatusRefunded
	investment.UpdatedAt = now().UTC()
	return investment, nil
}

// String returns the wire label for an investment status.
func (s InvestmentStatus) String() string {
	switch s {
	case InvestmentStatusActive:
		return "active"
	case InvestmentStatusRefunded:
		return "refunded"
	case InvestmentStatusDistributed:
		return "distributed"
	default:
		return "unspecified"
	}
}

// OwnershipBps returns the investor's share of the proposal in basis points.
func (i Investment) OwnershipBps(proposal Proposal) int64 {
	if proposal.TotalShares <= 0 {
		return 0
	}
	return i.Shares * 10_000 / proposal.TotalShares
}
