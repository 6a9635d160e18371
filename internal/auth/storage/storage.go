// Package storage defines persistence contracts for user accounts.
package storage

import (
	"context"
	"errors"

	"github.com/launchfolio/launchfolio/internal/auth/user"
)

var (
	// ErrNotFound indicates a requested user is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a duplicate user id or email.
	ErrAlreadyExists = errors.New("record already exists")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, account user.User) error
	GetUser(ctx context.Context, userID string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	UpdateUser(ctx context.Context, account user.User) error
	// ListUsers returns one page of users ordered by id.
	ListUsers(ctx context.Context, pageSize int, pageToken string) ([]user.User, string, error)
}
