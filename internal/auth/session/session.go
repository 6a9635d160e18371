// Package session issues and verifies JWT session tokens.
package session

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	"github.com/launchfolio/launchfolio/internal/auth/user"
	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/id"
)

// sessionEnv holds raw env values before post-parse validation.
type sessionEnv struct {
	Issuer     string        `env:"LAUNCHFOLIO_SESSION_ISSUER"`
	Audience   string        `env:"LAUNCHFOLIO_SESSION_AUDIENCE"`
	PrivateKey string        `env:"LAUNCHFOLIO_SESSION_PRIVATE_KEY"`
	PublicKey  string        `env:"LAUNCHFOLIO_SESSION_PUBLIC_KEY"`
	TTL        time.Duration `env:"LAUNCHFOLIO_SESSION_TTL"         envDefault:"24h"`
}

// Config defines how session tokens are signed and verified.
type Config struct {
	Issuer   string
	Audience string
	// PrivateKey signs new tokens; only services that issue sessions need it.
	PrivateKey ed25519.PrivateKey
	// PublicKey verifies tokens.
	PublicKey ed25519.PublicKey
	TTL       time.Duration
	Now       func() time.Time
}

// Claims captures validated session claims.
type Claims struct {
	UserID    string
	Tier      user.Tier
	Admin     bool
	ExpiresAt time.Time
	IssuedAt  time.Time
	JWTID     string
}

// sessionClaims is the internal claims type used for JWT parsing.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Tier   string `json:"tier"`
	Admin  bool   `json:"admin,omitempty"`
}

// LoadConfigFromEnv reads session token configuration. The private key is
// optional so verifying services can run without signing material.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw sessionEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse session env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return Config{}, fmt.Errorf("LAUNCHFOLIO_SESSION_ISSUER is required")
	}
	if audience == "" {
		return Config{}, fmt.Errorf("LAUNCHFOLIO_SESSION_AUDIENCE is required")
	}
	if publicKey == "" {
		return Config{}, fmt.Errorf("LAUNCHFOLIO_SESSION_PUBLIC_KEY is required")
	}
	publicBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode session public key: %w", err)
	}
	if len(publicBytes) != ed25519.PublicKeySize {
		return Config{}, fmt.Errorf("session public key must be %d bytes", ed25519.PublicKeySize)
	}
	if raw.TTL <= 0 {
		return Config{}, fmt.Errorf("session ttl must be positive")
	}
	cfg := Config{
		Issuer:    issuer,
		Audience:  audience,
		PublicKey: ed25519.PublicKey(publicBytes),
		TTL:       raw.TTL,
		Now:       now,
	}
	if privateKey := strings.TrimSpace(raw.PrivateKey); privateKey != "" {
		privateBytes, err := decodeBase64(privateKey)
		if err != nil {
			return Config{}, fmt.Errorf("decode session private key: %w", err)
		}
		if len(privateBytes) != ed25519.PrivateKeySize {
			return Config{}, fmt.Errorf("session private key must be %d bytes", ed25519.PrivateKeySize)
		}
		cfg.PrivateKey = ed25519.PrivateKey(privateBytes)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return cfg, nil
}

// Issue signs a session token for the given user.
func Issue(account user.User, cfg Config) (string, error) {
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.PrivateKey) != ed25519.PrivateKeySize {
		return "", errors.New("session signer is not configured")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	tokenID, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	now := cfg.Now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			Subject:   account.ID,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: account.ID,
		Tier:   user.TierLabel(account.Tier),
		Admin:  account.Admin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(cfg.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token and validates its claims.
func Verify(token string, cfg Config) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeSessionInvalid, "session token is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.PublicKey) != ed25519.PublicKeySize {
		return Claims{}, errors.New("session verifier is not configured")
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.PublicKey, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return Claims{}, apperrors.New(apperrors.CodeSessionInvalid, "session issuer mismatch")
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return Claims{}, apperrors.New(apperrors.CodeSessionInvalid, "session audience mismatch")
	}
	if parsed.ID == "" {
		return Claims{}, apperrors.New(apperrors.CodeSessionInvalid, "session jti is required")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeSessionInvalid, "session exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, apperrors.New(apperrors.CodeSessionInvalid, "session is expired")
	}

	userID := strings.TrimSpace(parsed.UserID)
	if userID == "" {
		userID = strings.TrimSpace(parsed.Subject)
	}
	if userID == "" {
		return Claims{}, apperrors.New(apperrors.CodeSessionInvalid, "session user is required")
	}
	tier, ok := user.ParseTier(parsed.Tier)
	if !ok {
		tier = user.TierFree
	}

	claims := Claims{
		UserID:    userID,
		Tier:      tier,
		Admin:     parsed.Admin,
		ExpiresAt: exp,
		JWTID:     parsed.ID,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeSessionInvalid, "session signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeSessionInvalid, "session alg is invalid")
	}
	return apperrors.New(apperrors.CodeSessionInvalid, "session token is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
