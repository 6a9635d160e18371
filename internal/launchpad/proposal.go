package launchpad

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/id"
)

// ProposalStatus describes the funding lifecycle of an offering proposal.
type ProposalStatus int

const (
	// ProposalStatusUnspecified represents an invalid proposal status value.
	ProposalStatusUnspecified ProposalStatus = iota
	// ProposalStatusActive indicates the proposal is accepting investments.
	ProposalStatusActive
	// ProposalStatusFunded indicates the funding target was reached.
	ProposalStatusFunded
	// ProposalStatusCompleted indicates shares were issued to investors.
	ProposalStatusCompleted
	// ProposalStatusFailed indicates the deadline passed below target.
	ProposalStatusFailed
	// ProposalStatusCancelled indicates the creator withdrew the proposal.
	ProposalStatusCancelled
)

// AssetType categorizes the underlying real-world asset.
type AssetType string

const (
	AssetTypeRealEstate  AssetType = "real_estate"
	AssetTypeCollectible AssetType = "collectible"
	AssetTypeVehicle     AssetType = "vehicle"
	AssetTypeEquipment   AssetType = "equipment"
	AssetTypeArt         AssetType = "art"
)

const (
	// MinFundingPeriodDays is the shortest allowed funding window.
	MinFundingPeriodDays = 7
	// MaxFundingPeriodDays is the longest allowed funding window.
	MaxFundingPeriodDays = 120
	// MaxActiveProposalsPerCreator caps concurrent active proposals.
	MaxActiveProposalsPerCreator = 10
	// MaxInvestorsPerProposal caps distinct investors in one proposal.
	MaxInvestorsPerProposal = 500
	// LockupMonths is how long issued shares stay locked after funding.
	LockupMonths = 12
	// PlatformFeeBps is the platform share of distributions, in basis points.
	PlatformFeeBps = 250
)

// Proposal represents one fractional offering for a real-world asset.
// Monetary amounts are in cents.
type Proposal struct {
	ID        string
	CreatorID string

	AssetName   string
	AssetType   AssetType
	Category    string
	Location    string
	Description string

	// TargetAmount is the funding goal in cents.
	TargetAmount int64
	// SharePrice is the price of one share in cents.
	SharePrice int64
	// TotalShares is TargetAmount divided by SharePrice.
	TotalShares int64
	// MinInvestment is the smallest accepted investment in cents.
	MinInvestment int64
	// ExpectedAPYBps is the projected annual yield in basis points.
	ExpectedAPYBps int64

	Status          ProposalStatus
	FundingDeadline time.Time
	RaisedAmount    int64
	InvestorCount   int
	SharesIssued    bool

	CreatedAt   time.Time
	UpdatedAt   time.Time
	FundedAt    *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// RemainingAmount returns how many cents are still needed to reach target.
func (p Proposal) RemainingAmount() int64 {
	remaining := p.TargetAmount - p.RaisedAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingShares returns how many shares are still unsold.
func (p Proposal) RemainingShares() int64 {
	if p.SharePrice <= 0 {
		return 0
	}
	return p.RemainingAmount() / p.SharePrice
}

// DeadlinePassed reports whether the funding window has closed.
func (p Proposal) DeadlinePassed(now time.Time) bool {
	return now.After(p.FundingDeadline)
}

// FundingProgressBps returns the raised fraction of the target in basis
// points, capped at 10000.
func (p Proposal) FundingProgressBps() int64 {
	if p.TargetAmount <= 0 {
		return 0
	}
	bps := p.RaisedAmount * 10_000 / p.TargetAmount
	if bps > 10_000 {
		return 10_000
	}
	return bps
}

// DaysRemaining returns whole days until the funding deadline, rounded
// up. Zero once the deadline has passed.
func (p Proposal) DaysRemaining(now time.Time) int {
	remaining := p.FundingDeadline.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

func validAssetType(t AssetType) bool {
	switch t {
	case AssetTypeRealEstate, AssetTypeCollectible, AssetTypeVehicle, AssetTypeEquipment, AssetTypeArt:
		return true
	}
	return false
}

// CreateProposalInput describes the fields needed to open a proposal.
type CreateProposalInput struct {
	CreatorID      string
	AssetName      string
	AssetType      AssetType
	Category       string
	Location       string
	Description    string
	TargetAmount   int64
	SharePrice     int64
	MinInvestment  int64
	ExpectedAPYBps int64
	// FundingPeriodDays is the funding window length from creation.
	FundingPeriodDays int
}

// NormalizeCreateProposalInput trims and validates proposal creation input.
func NormalizeCreateProposalInput(input CreateProposalInput) (CreateProposalInput, error) {
	input.CreatorID = strings.TrimSpace(input.CreatorID)
	input.AssetName = strings.TrimSpace(input.AssetName)
	input.Category = strings.TrimSpace(input.Category)
	input.Location = strings.TrimSpace(input.Location)
	input.Description = strings.TrimSpace(input.Description)

	if input.CreatorID == "" {
		return CreateProposalInput{}, apperrors.New(apperrors.CodeUnauthorized, "creator id is required")
	}
	if input.AssetName == "" {
		return CreateProposalInput{}, apperrors.New(apperrors.CodeProposalEmptyAssetName, "asset name is required")
	}
	if !validAssetType(input.AssetType) {
		return CreateProposalInput{}, apperrors.New(apperrors.CodeProposalInvalidAssetType, "asset type is invalid")
	}
	if input.TargetAmount <= 0 {
		return CreateProposalInput{}, apperrors.New(apperrors.CodeInvalidTargetAmount, "target amount must be positive")
	}
	if input.SharePrice <= 0 {
		return CreateProposalInput{}, apperrors.New(apperrors.CodeInvalidSharePrice, "share price must be positive")
	}
	if input.TargetAmount%input.SharePrice != 0 {
		return CreateProposalInput{}, apperrors.New(apperrors.CodeInvalidTotalShares, "target amount must be a whole number of shares")
	}
	if input.MinInvestment <= 0 {
		input.MinInvestment = input.SharePrice
	}
	if input.MinInvestment < input.SharePrice {
		return CreateProposalInput{}, apperrors.New(apperrors.CodeInvestmentBelowMinimum, "minimum investment must cover at least one share")
	}
	if input.ExpectedAPYBps < 0 {
		return CreateProposalInput{}, apperrors.New(apperrors.CodeInvalidTargetAmount, "expected apy must not be negative")
	}
	if input.FundingPeriodDays < MinFundingPeriodDays {
		return CreateProposalInput{}, apperrors.WithMetadata(
			apperrors.CodeFundingPeriodTooShort,
			fmt.Sprintf("funding period must be at least %d days", MinFundingPeriodDays),
			map[string]string{"MinDays": strconv.Itoa(MinFundingPeriodDays)},
		)
	}
	if input.FundingPeriodDays > MaxFundingPeriodDays {
		return CreateProposalInput{}, apperrors.WithMetadata(
			apperrors.CodeFundingPeriodTooLong,
			fmt.Sprintf("funding period must be at most %d days", MaxFundingPeriodDays),
			map[string]string{"MaxDays": strconv.Itoa(MaxFundingPeriodDays)},
		)
	}
	return input, nil
}

// CreateProposal creates a new active proposal with a generated ID and
// timestamps.
func CreateProposal(input CreateProposalInput, now func() time.Time, idGenerator func() (string, error)) (Proposal, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateProposalInput(input)
	if err != nil {
		return Proposal{}, err
	}

	proposalID, err := idGenerator()
	if err != nil {
		return Proposal{}, fmt.Errorf("generate proposal id: %w", err)
	}

	createdAt := now().UTC()
	return Proposal{
		ID:              proposalID,
		CreatorID:       normalized.CreatorID,
		AssetName:       normalized.AssetName,
		AssetType:       normalized.AssetType,
		Category:        normalized.Category,
		Location:        normalized.Location,
		Description:     normalized.Description,
		TargetAmount:    normalized.TargetAmount,
		SharePrice:      normalized.SharePrice,
		TotalShares:     normalized.TargetAmount / normalized.SharePrice,
		MinInvestment:   normalized.MinInvestment,
		ExpectedAPYBps:  normalized.ExpectedAPYBps,
		Status:          ProposalStatusActive,
		FundingDeadline: createdAt.AddDate(0, 0, normalized.FundingPeriodDays),
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}, nil
}

// UpdateProposalInput describes the editable fields of an active proposal.
// Financial terms are immutable once investors can rely on them.
type UpdateProposalInput struct {
	AssetName   *string
	Category    *string
	Location    *string
	Description *string
}

// UpdateProposal applies metadata edits to an active proposal.
func UpdateProposal(proposal Proposal, input UpdateProposalInput, now func() time.Time) (Proposal, error) {
	if now == nil {
		now = time.Now
	}
	if proposal.Status != ProposalStatusActive {
		return Proposal{}, apperrors.New(apperrors.CodeProposalNotActive, "only active proposals can be updated")
	}
	if input.AssetName != nil {
		name := strings.TrimSpace(*input.AssetName)
		if name == "" {
			return Proposal{}, apperrors.New(apperrors.CodeProposalEmptyAssetName, "asset name is required")
		}
		proposal.AssetName = name
	}
	if input.Category != nil {
		proposal.Category = strings.TrimSpace(*input.Category)
	}
	if input.Location != nil {
		proposal.Location = strings.TrimSpace(*input.Location)
	}
	if input.Description != nil {
		proposal.Description = strings.TrimSpace(*input.Description)
	}
	proposal.UpdatedAt = now().UTC()
	return proposal, nil
}

// ParseProposalStatus maps a wire label to a proposal status.
func ParseProposalStatus(value string) (ProposalStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "active":
		return ProposalStatusActive, true
	case "funded":
		return ProposalStatusFunded, true
	case "completed":
		return ProposalStatusCompleted, true
	case "failed":
		return ProposalStatusFailed, true
	case "cancelled":
		return ProposalStatusCancelled, true
	}
	return ProposalStatusUnspecified, false
}

// String returns the wire label for a proposal status.
func (s ProposalStatus) String() string {
	return proposalStatusLabel(s)
}

func proposalStatusLabel(status ProposalStatus) string {
	switch status {
	case ProposalStatusActive:
		return "active"
	case ProposalStatusFunded:
		return "funded"
	case ProposalStatusCompleted:
		return "completed"
	case ProposalStatusFailed:
		return "failed"
	case ProposalStatusCancelled:
		return "cancelled"
	default:
		return "unspecified"
	}
}

func isProposalStatusTransitionAllowed(from, to ProposalStatus) bool {
	switch from {
	case ProposalStatusActive:
		return to == ProposalStatusFunded || to == ProposalStatusFailed || to == ProposalStatusCancelled
	case ProposalStatusFunded:
		return to == ProposalStatusCompleted
	default:
		return false
	}
}

// TransitionProposalStatus applies a status transition and updates
// lifecycle timestamps.
func TransitionProposalStatus(proposal Proposal, target ProposalStatus, now func() time.Time) (Proposal, error) {
	if now == nil {
		now = time.Now
	}
	if !isProposalStatusTransitionAllowed(proposal.Status, target) {
		fromStatus := proposalStatusLabel(proposal.Status)
		toStatus := proposalStatusLabel(target)
		return Proposal{}, apperrors.WithMetadata(
			apperrors.CodeProposalNotActive,
			fmt.Sprintf("proposal status transition not allowed: %s -> %s", fromStatus, toStatus),
			map[string]string{"FromStatus": fromStatus, "ToStatus": toStatus},
		)
	}

	updated := proposal
	updated.Status = target
	updatedAt := now().UTC()
	updated.UpdatedAt = updatedAt
	switch target {
	case ProposalStatusFunded:
		if updated.FundedAt == nil {
			updated.FundedAt = &updatedAt
		}
	case ProposalStatusCompleted:
		if updated.CompletedAt == nil {
			updated.CompletedAt = &updatedAt
		}
	case ProposalStatusCancelled:
		if updated.CancelledAt == nil {
			updated.CancelledAt = &updatedAt
		}
	}
	return updated, nil
}
