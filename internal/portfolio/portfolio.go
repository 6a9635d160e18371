// Package portfolio aggregates an investor's holdings and records their
// transaction history.
package portfolio

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/id"
)

// TransactionType identifies one kind of ledger entry.
type TransactionType string

const (
	TransactionInvestment    TransactionType = "investment"
	TransactionRefund        TransactionType = "refund"
	TransactionDistribution  TransactionType = "distribution"
	TransactionShareIssuance TransactionType = "share_issuance"
	TransactionLockupRelease TransactionType = "lockup_release"
)

func validTransactionType(t TransactionType) bool {
	switch t {
	case TransactionInvestment, TransactionRefund, TransactionDistribution,
		TransactionShareIssuance, TransactionLockupRelease:
		return true
	}
	return false
}

// Transaction is one immutable ledger entry. Amounts are in cents; refunds
// carry the returned amount as a positive value.
type Transaction struct {
	ID         string
	UserID     string
	ProposalID string
	Type       TransactionType
	Amount     int64
	Shares     int64
	OccurredAt time.Time
}

// RecordTransactionInput describes one ledger entry to append.
type RecordTransactionInput struct {
	UserID     string
	ProposalID string
	Type       TransactionType
	Amount     int64
	Shares     int64
}

// NewTransaction validates input and stamps an id and timestamp.
func NewTransaction(input RecordTransactionInput, now func() time.Time, idGenerator func() (string, error)) (Transaction, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	input.UserID = strings.TrimSpace(input.UserID)
	input.ProposalID = strings.TrimSpace(input.ProposalID)
	if input.UserID == "" {
		return Transaction{}, apperrors.New(apperrors.CodeUnauthorized, "user id is required")
	}
	if input.ProposalID == "" {
		return Transaction{}, apperrors.New(apperrors.CodeProposalNotFound, "proposal id is required")
	}
	if !validTransactionType(input.Type) {
		return Transaction{}, apperrors.New(apperrors.CodeFilterInvalid, "transaction type is invalid")
	}
	if input.Amount < 0 {
		return Transaction{}, apperrors.New(apperrors.CodeInvestmentZeroAmount, "transaction amount must not be negative")
	}

	transactionID, err := idGenerator()
	if err != nil {
		return Transaction{}, fmt.Errorf("generate transaction id: %w", err)
	}
	return Transaction{
		ID:         transactionID,
		UserID:     input.UserID,
		ProposalID: input.ProposalID,
		Type:       input.Type,
		Amount:     input.Amount,
		Shares:     input.Shares,
		OccurredAt: now().UTC(),
	}, nil
}

// Position is one holding in the investor's portfolio.
type Position struct {
	ProposalID   string
	AssetName    string
	Shares       int64
	Invested     int64
	OwnershipBps int64
	// Locked reports whether the shares are inside a lockup period.
	Locked bool
	// UnlockAt is the lockup expiry when Locked is true.
	UnlockAt *time.Time
}

// Summary aggregates an investor's portfolio. Amounts are in cents.
type Summary struct {
	// TotalInvested is the lifetime sum of investment entries.
	TotalInvested      int64
	TotalDistributions int64
	TotalRefunded      int64
	// NetContribution is invested minus refunded.
	NetContribution int64
	// CurrentHoldings is the amount committed to current positions.
	CurrentHoldings int64
	ActivePositions int
	LockedShares    int64
	Positions       []Position
}

// BuildSummary folds positions and ledger history into one summary.
func BuildSummary(positions []Position, history []Transaction) Summary {
	summary := Summary{Positions: positions}
	for _, position := range positions {
		summary.ActivePositions++
		summary.CurrentHoldings += position.Invested
		if position.Locked {
			summary.LockedShares += position.Shares
		}
	}
	for _, transaction := range history {
		switch transaction.Type {
		case TransactionInvestment:
			summary.TotalInvested += transaction.Amount
		case TransactionDistribution:
			summary.TotalDistributions += transaction.Amount
		case TransactionRefund:
			summary.TotalRefunded += transaction.Amount
		}
	}
	summary.NetContribution = summary.TotalInvested - summary.TotalRefunded
	return summary
}
