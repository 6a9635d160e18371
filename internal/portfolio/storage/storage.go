// Package storage defines persistence contracts for portfolio history.
package storage

import (
	"context"
	"errors"

	"github.com/launchfolio/launchfolio/internal/portfolio"
	"github.com/launchfolio/launchfolio/internal/portfolio/filter"
)

var (
	// ErrNotFound indicates a requested transaction record is missing.
	ErrNotFound = errors.New("record not found")
)

// TransactionQuery narrows and pages transaction listings.
type TransactionQuery struct {
	// Condition is an optional translated filter expression.
	Condition filter.SQLCondition
	// OrderBy is a validated ORDER BY fragment; empty means newest first.
	OrderBy string
	// PageSize caps the number of returned transactions.
	PageSize int
	// PageToken is the last transaction id of the previous page.
	PageToken string
}

// TransactionPage stores one page of ledger entries.
type TransactionPage struct {
	Transactions  []portfolio.Transaction
	NextPageToken string
}

// TransactionStore persists the immutable transaction ledger.
type TransactionStore interface {
	// AppendTransaction adds one ledger entry. Entries are never updated.
	AppendTransaction(ctx context.Context, transaction portfolio.Transaction) error
	// ListTransactions returns one page of a user's ledger entries.
	ListTransactions(ctx context.Context, userID string, query TransactionQuery) (TransactionPage, error)
	// ListAllTransactions returns every entry for a user, oldest first.
	ListAllTransactions(ctx context.Context, userID string) ([]portfolio.Transaction, error)
}
