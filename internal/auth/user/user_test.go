package user

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
)

func fixedClock() time.Time {
	return time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
}

func TestCreateUser(t *testing.T) {
	account, err := CreateUser(CreateUserInput{
		DisplayName: " Alice ",
		Email:       " Alice@Example.COM ",
	}, fixedClock, func() (string, error) { return "user-1", nil })
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if account.DisplayName != "Alice" {
		t.Errorf("DisplayName = %q, want trimmed", account.DisplayName)
	}
	if account.Email != "alice@example.com" {
		t.Errorf("Email = %q, want lowercased", account.Email)
	}
	if account.Tier != TierFree || account.KYC != KYCStatusNone || account.Admin {
		t.Errorf("defaults = %+v, want free tier, no KYC, not admin", account)
	}
	if !account.CreatedAt.Equal(fixedClock()) {
		t.Errorf("CreatedAt = %v, want %v", account.CreatedAt, fixedClock())
	}
}

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		input    CreateUserInput
		wantCode apperrors.Code
	}{
		{"empty display name", CreateUserInput{Email: "a@b.co"}, apperrors.CodeUserEmptyDisplayName},
		{"missing at sign", CreateUserInput{DisplayName: "Alice", Email: "alice.example.com"}, apperrors.CodeUserInvalidEmail},
		{"missing domain dot", CreateUserInput{DisplayName: "Alice", Email: "alice@example"}, apperrors.CodeUserInvalidEmail},
		{"trailing at sign", CreateUserInput{DisplayName: "Alice", Email: "alice@"}, apperrors.CodeUserInvalidEmail},
		{"double at sign", CreateUserInput{DisplayName: "Alice", Email: "a@b@example.com"}, apperrors.CodeUserInvalidEmail},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateUser(tc.input, fixedClock, nil)
			var appErr *apperrors.Error
			if !errors.As(err, &appErr) {
				t.Fatalf("CreateUser error = %v, want *apperrors.Error", err)
			}
			if appErr.Code != tc.wantCode {
				t.Errorf("error code = %q, want %q", appErr.Code, tc.wantCode)
			}
		})
	}
}

func TestCreateUserGeneratorFailure(t *testing.T) {
	_, err := CreateUser(CreateUserInput{DisplayName: "Alice", Email: "a@b.co"}, fixedClock, func() (string, error) {
		return "", errors.New("id generator error")
	})
	if err == nil {
		t.Fatal("CreateUser ignored an id generator failure")
	}
}

func TestTierLabels(t *testing.T) {
	if TierLabel(TierPremium) != "premium" {
		t.Errorf("TierLabel(premium) = %q", TierLabel(TierPremium))
	}
	tier, ok := ParseTier(" Premium ")
	if !ok || tier != TierPremium {
		t.Errorf("ParseTier = %v %v, want premium true", tier, ok)
	}
	if _, ok := ParseTier("gold"); ok {
		t.Error("ParseTier accepted an unknown label")
	}
}

func TestKYCStatusLabels(t *testing.T) {
	status, ok := ParseKYCStatus("verified")
	if !ok || status != KYCStatusVerified {
		t.Errorf("ParseKYCStatus = %v %v, want verified true", status, ok)
	}
	if KYCStatusLabel(KYCStatusPending) != "pending" {
		t.Errorf("KYCStatusLabel(pending) = %q", KYCStatusLabel(KYCStatusPending))
	}
}
