// Package sqlite provides a SQLite-backed transaction ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	sqlitemigrate "github.com/launchfolio/launchfolio/internal/platform/storage/sqlitemigrate"
	"github.com/launchfolio/launchfolio/internal/portfolio"
	"github.com/launchfolio/launchfolio/internal/portfolio/storage"
	"github.com/launchfolio/launchfolio/internal/portfolio/storage/sqlite/migrations"
)

// Store persists the transaction ledger in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite ledger store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

const transactionColumns = `id, user_id, proposal_id, type, amount, shares, occurred_at`

func scanTransaction(row interface{ Scan(...any) error }) (portfolio.Transaction, error) {
	var t portfolio.Transaction
	var occurredAt int64
	err := row.Scan(&t.ID, &t.UserID, &t.ProposalID, (*string)(&t.Type), &t.Amount, &t.Shares, &occurredAt)
	if err != nil {
		return portfolio.Transaction{}, err
	}
	t.OccurredAt = fromMillis(occurredAt)
	return t, nil
}

// AppendTransaction adds one immutable ledger entry.
func (s *Store) AppendTransaction(ctx context.Context, transaction portfolio.Transaction) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(transaction.ID) == "" {
		return fmt.Errorf("transaction id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		transaction.ID, transaction.UserID, transaction.ProposalID, string(transaction.Type),
		transaction.Amount, transaction.Shares, toMillis(transaction.OccurredAt),
	)
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

// ListTransactions returns one page of a user's ledger entries. The page
// token is the offset into the ordered result set.
func (s *Store) ListTransactions(ctx context.Context, userID string, query storage.TransactionQuery) (storage.TransactionPage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.TransactionPage{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.TransactionPage{}, fmt.Errorf("user id is required")
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		return storage.TransactionPage{}, fmt.Errorf("page size must be greater than zero")
	}
	offset := 0
	if token := strings.TrimSpace(query.PageToken); token != "" {
		parsed, err := strconv.Atoi(token)
		if err != nil || parsed < 0 {
			return storage.TransactionPage{}, fmt.Errorf("invalid page token")
		}
		offset = parsed
	}

	sqlQuery := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ?`
	args := []any{userID}
	if query.Condition.Clause != "" {
		sqlQuery += ` AND (` + query.Condition.Clause + `)`
		args = append(args, query.Condition.Params...)
	}
	orderBy := strings.TrimSpace(query.OrderBy)
	if orderBy == "" {
		orderBy = "occurred_at DESC, id DESC"
	}
	sqlQuery += ` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	args = append(args, pageSize+1, offset)

	rows, err := s.sqlDB.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return storage.TransactionPage{}, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	page := storage.TransactionPage{Transactions: make([]portfolio.Transaction, 0, pageSize)}
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return storage.TransactionPage{}, fmt.Errorf("scan transaction: %w", err)
		}
		page.Transactions = append(page.Transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return storage.TransactionPage{}, fmt.Errorf("scan transactions: %w", err)
	}
	if len(page.Transactions) > pageSize {
		page.Transactions = page.Transactions[:pageSize]
		page.NextPageToken = strconv.Itoa(offset + pageSize)
	}
	return page, nil
}

// ListAllTransactions returns every entry for a user, oldest first.
func (s *Store) ListAllTransactions(ctx context.Context, userID string) ([]portfolio.Transaction, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? ORDER BY occurred_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []portfolio.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan transactions: %w", err)
	}
	return transactions, nil
}
