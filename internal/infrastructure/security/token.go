package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/goride/admin-api/internal/core/domain"
)

const defaultIssuer = "goride-admin-api"

// ErrMissingSecret is returned when the signing secret is not configured.
var ErrMissingSecret = errors.New("jwt signing secret is required")

type sessionClaims struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Kind    string `json:"kind"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type resetClaims struct {
	Email   string `json:"email"`
	Kind    string `json:"kind"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens with a single process-wide
// secret. Validity depends only on signature, purpose and expiry.
type TokenManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type TokenOption func(*TokenManager)

// WithClock replaces time.Now, for tests that need to cross an expiry.
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) { m.now = now }
}

func WithIssuer(issuer string) TokenOption {
	return func(m *TokenManager) { m.issuer = issuer }
}

func NewTokenManager(secret string, opts ...TokenOption) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	m := &TokenManager{secret: []byte(secret), issuer: defaultIssuer, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// IssueSession mints a session token whose lifetime depends on the account kind.
func (m *TokenManager) IssueSession(acc *domain.Account) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(domain.SessionTTL(acc.Kind))
	claims := sessionClaims{
		ID:      acc.ID,
		Email:   acc.Email,
		Kind:    string(acc.Kind),
		Purpose: domain.TokenSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(acc.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := m.sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

// IssueReset mints a ten-minute reset token that only carries the email, the
// kind and a unique token ID.
func (m *TokenManager) IssueReset(kind domain.Kind, email string) (string, error) {
	now := m.now()
	claims := resetClaims{
		Email:   email,
		Kind:    string(kind),
		Purpose: domain.TokenReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(domain.ResetTokenTTL)),
		},
	}
	return m.sign(claims)
}

func (m *TokenManager) VerifySession(token string) (*domain.SessionClaims, error) {
	claims := &sessionClaims{}
	if err := m.parse(token, claims); err != nil {
		return nil, err
	}
	kind, ok := domain.ParseKind(claims.Kind)
	if claims.Purpose != domain.TokenSession || !ok || claims.ID <= 0 {
		return nil, domain.ErrInvalidToken
	}
	return &domain.SessionClaims{
		Principal: domain.Principal{ID: claims.ID, Email: claims.Email, Kind: kind},
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (m *TokenManager) VerifyReset(token string) (*domain.ResetClaims, error) {
	claims := &resetClaims{}
	if err := m.parse(token, claims); err != nil {
		return nil, err
	}
	kind, ok := domain.ParseKind(claims.Kind)
	if claims.Purpose != domain.TokenReset || !ok || claims.Email == "" || claims.ID == "" {
		return nil, domain.ErrInvalidToken
	}
	return &domain.ResetClaims{
		Email:     claims.Email,
		Kind:      kind,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (m *TokenManager) sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *TokenManager) parse(token string, claims jwt.Claims) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	return nil
}
