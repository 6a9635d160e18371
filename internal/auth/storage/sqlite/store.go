// Package sqlite provides a SQLite-backed user store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/launchfolio/launchfolio/internal/auth/storage"
	"github.com/launchfolio/launchfolio/internal/auth/storage/sqlite/migrations"
	"github.com/launchfolio/launchfolio/internal/auth/user"
	sqlitemigrate "github.com/launchfolio/launchfolio/internal/platform/storage/sqlitemigrate"
)

// Store persists user accounts in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite user store and applies embedded migrations.
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

const userColumns = `id, display_name, email, tier, admin, kyc_status, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (user.User, error) {
	var account user.User
	var admin int
	var createdAt, updatedAt int64
	err := row.Scan(
		&account.ID, &account.DisplayName, &account.Email,
		(*int)(&account.Tier), &admin, (*int)(&account.KYC),
		&createdAt, &updatedAt,
	)
	if err != nil {
		return user.User{}, err
	}
	account.Admin = admin != 0
	account.CreatedAt = fromMillis(createdAt)
	account.UpdatedAt = fromMillis(updatedAt)
	return account, nil
}

// CreateUser inserts a new user account.
func (s *Store) CreateUser(ctx context.Context, account user.User) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(account.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	admin := 0
	if account.Admin {
		admin = 1
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.DisplayName, account.Email,
		int(account.Tier), admin, int(account.KYC),
		toMillis(account.CreatedAt), toMillis(account.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser loads one user by id.
func (s *Store) GetUser(ctx context.Context, userID string) (user.User, error) {
	if err := s.ready(ctx); err != nil {
		return user.User{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("user id is required")
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
	account, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, storage.ErrNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	return account, nil
}

// GetUserByEmail loads one user by normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	if err := s.ready(ctx); err != nil {
		return user.User{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return user.User{}, fmt.Errorf("email is required")
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	account, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, storage.ErrNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return account, nil
}

// UpdateUser persists user mutations.
func (s *Store) UpdateUser(ctx context.Context, account user.User) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(account.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	admin := 0
	if account.Admin {
		admin = 1
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE users SET display_name = ?, email = ?, tier = ?, admin = ?, kyc_status = ?, updated_at = ? WHERE id = ?`,
		account.DisplayName, account.Email, int(account.Tier), admin, int(account.KYC),
		toMillis(account.UpdatedAt), account.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListUsers returns one page of users ordered by id.
func (s *Store) ListUsers(ctx context.Context, pageSize int, pageToken string) ([]user.User, string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, "", err
	}
	if pageSize <= 0 {
		return nil, "", fmt.Errorf("page size must be greater than zero")
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	var args []any
	if token := strings.TrimSpace(pageToken); token != "" {
		query += ` AND id > ?`
		args = append(args, token)
	}
	query += ` ORDER BY id ASC LIMIT ?`
	args = append(args, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0, pageSize)
	for rows.Next() {
		account, err := scanUser(rows)
		if err != nil {
			return nil, "", fmt.Errorf("scan user: %w", err)
		}
		users = append(users, account)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("scan users: %w", err)
	}
	nextToken := ""
	if len(users) > pageSize {
		users = users[:pageSize]
		nextToken = users[pageSize-1].ID
	}
	return users, nextToken, nil
}
