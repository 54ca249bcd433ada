package domain

import "time"

// Token purposes carried in the "purpose" claim so a session token can never be
// replayed as a reset token and vice versa.
const (
	TokenSession = "session"
	TokenReset   = "reset"
)

// Session TTLs per account kind and the reset-link window.
const (
	AdminSessionTTL    = 24 * time.Hour
	CustomerSessionTTL = 7 * 24 * time.Hour
	DriverSessionTTL   = 7 * 24 * time.Hour
	ResetTokenTTL      = 10 * time.Minute
)

// SessionTTL returns the session lifetime for accounts of kind k.
func SessionTTL(k Kind) time.Duration {
	switch k {
	case KindAdmin:
		return AdminSessionTTL
	case KindCustomer:
		return CustomerSessionTTL
	default:
		return DriverSessionTTL
	}
}

// Principal is the authenticated caller extracted from a session token.
type Principal struct {
	ID    int64
	Email string
	Kind  Kind
}

// SessionClaims is the verified content of a session token.
type SessionClaims struct {
	Principal
	ExpiresAt time.Time
}

// ResetClaims is the verified content of a password-reset token. TokenID is
// the jti used to enforce single use.
type ResetClaims struct {
	Email     string
	Kind      Kind
	TokenID   string
	ExpiresAt time.Time
}
