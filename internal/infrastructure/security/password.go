// Package security holds the password hasher and the JWT token manager.
package security

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/goride/admin-api/internal/core/domain"
)

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("password cannot be empty")

// legacyDigestLen is the length of the hex MD5 digests written before bcrypt
// was introduced.
const legacyDigestLen = 32

// BcryptHasher stores new passwords as bcrypt digests and still accepts the
// unsalted MD5 digests of older rows until they are upgraded.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when cost
// is out of range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.Fail(domain.ErrValidation, "Password must be at most 72 bytes long")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. A malformed digest is an
// error; a mismatch is not.
func (h *BcryptHasher) Verify(password, digest string) (bool, error) {
	if isLegacyDigest(digest) {
		computed := LegacyDigest(password)
		return subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(digest))) == 1, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}

// NeedsUpgrade is true for legacy MD5 digests and for bcrypt digests below the
// configured cost.
func (h *BcryptHasher) NeedsUpgrade(digest string) bool {
	if isLegacyDigest(digest) {
		return true
	}
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		return true
	}
	return cost < h.cost
}

// LegacyDigest is the deterministic hex MD5 digest used by the previous
// backend. It is only used to verify rows that have not been upgraded yet.
func LegacyDigest(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

func isLegacyDigest(digest string) bool {
	if len(digest) != legacyDigestLen {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}
