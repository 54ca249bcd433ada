package ports

import (
	"context"
	"time"

	"github.com/goride/admin-api/internal/core/domain"
)

// PasswordHasher turns plaintext passwords into stored digests and checks
// attempts against them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
	// NeedsUpgrade reports digests written by an older scheme that should be
	// replaced after the next successful login.
	NeedsUpgrade(digest string) bool
}

// TokenManager issues and verifies signed session and reset tokens.
type TokenManager interface {
	IssueSession(acc *domain.Account) (token string, expiresAt time.Time, err error)
	VerifySession(token string) (*domain.SessionClaims, error)
	IssueReset(kind domain.Kind, email string) (string, error)
	VerifyReset(token string) (*domain.ResetClaims, error)
}

// ResetTokenGuard makes reset tokens single-use.
type ResetTokenGuard interface {
	// Claim marks tokenID as used for ttl. It returns false when the token was
	// already claimed.
	Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
	// Release undoes a Claim whose password update did not complete.
	Release(ctx context.Context, tokenID string) error
}
