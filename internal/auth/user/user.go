// Package user provides platform user management.
package user

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/id"
)

// Tier distinguishes free and premium accounts.
type Tier int

const (
	// TierUnspecified represents an invalid tier value.
	TierUnspecified Tier = iota
	// TierFree is the default account tier.
	TierFree
	// TierPremium unlocks quota-gated features.
	TierPremium
)

// KYCStatus tracks identity verification progress.
type KYCStatus int

const (
	// KYCStatusUnspecified represents an invalid KYC status value.
	KYCStatusUnspecified KYCStatus = iota
	// KYCStatusNone indicates verification has not started.
	KYCStatusNone
	// KYCStatusPending indicates documents are under review.
	KYCStatusPending
	// KYCStatusVerified indicates the identity check passed.
	KYCStatusVerified
)

var (
	// ErrEmptyDisplayName indicates a missing user display name.
	ErrEmptyDisplayName = apperrors.New(apperrors.CodeUserEmptyDisplayName, "display name is required")
	// ErrInvalidEmail indicates a malformed email address.
	ErrInvalidEmail = apperrors.New(apperrors.CodeUserInvalidEmail, "email address is invalid")
)

// User represents an authenticated identity record.
type User struct {
	ID          string
	DisplayName string
	Email       string
	Tier        Tier
	// Admin grants access to the operator API.
	Admin     bool
	KYC       KYCStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateUserInput describes the metadata needed to create a user.
type CreateUserInput struct {
	DisplayName string
	Email       string
}

// CreateUser creates a new user with a generated ID and timestamps.
func CreateUser(input CreateUserInput, now func() time.Time, idGenerator func() (string, error)) (User, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateUserInput(input)
	if err != nil {
		return User{}, err
	}

	userID, err := idGenerator()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}

	createdAt := now().UTC()
	return User{
		ID:          userID,
		DisplayName: normalized.DisplayName,
		Email:       normalized.Email,
		Tier:        TierFree,
		KYC:         KYCStatusNone,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// NormalizeCreateUserInput trims and validates user input metadata.
func NormalizeCreateUserInput(input CreateUserInput) (CreateUserInput, error) {
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.DisplayName == "" {
		return CreateUserInput{}, ErrEmptyDisplayName
	}
	if !validEmail(input.Email) {
		return CreateUserInput{}, ErrInvalidEmail
	}
	return input, nil
}

// validEmail checks the minimal local@domain.tld shape without attempting
// full RFC 5322 validation.
func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.IndexByte(domain, '@') >= 0 {
		return false
	}
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

// TierLabel returns the wire label for a tier.
func TierLabel(tier Tier) string {
	switch tier {
	case TierFree:
		return "free"
	case TierPremium:
		return "premium"
	default:
		return "unspecified"
	}
}

// ParseTier maps a wire label to a tier.
func ParseTier(value string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "free":
		return TierFree, true
	case "premium":
		return TierPremium, true
	}
	return TierUnspecified, false
}

// KYCStatusLabel returns the wire label for a KYC status.
func KYCStatusLabel(status KYCStatus) string {
	switch status {
	case KYCStatusNone:
		return "none"
	case KYCStatusPending:
		return "pending"
	case KYCStatusVerified:
		return "verified"
	default:
		return "unspecified"
	}
}

// ParseKYCStatus maps a wire label to a KYC status.
func ParseKYCStatus(value string) (KYCStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return KYCStatusNone, true
	case "pending":
		return KYCStatusPending, true
	case "verified":
		return KYCStatusVerified, true
	}
	return KYCStatusUnspecified, false
}
