package ports

import (
	"context"

	"github.com/goride/admin-api/internal/core/domain"
)

// AccountRepository is the credential store. Every method is scoped to one
// account kind; implementations keep one table or collection per kind.
type AccountRepository interface {
	// Create inserts acc and returns it with the generated ID. A unique
	// violation on email or mobile is reported as domain.ErrDuplicateCredential.
	Create(ctx context.Context, acc *domain.Account) (*domain.Account, error)

	FindByID(ctx context.Context, kind domain.Kind, id int64) (*domain.Account, error)
	FindByEmail(ctx context.Context, kind domain.Kind, email string) (*domain.Account, error)

	// FindByEmailOrMobile returns the accounts whose email or mobile matches,
	// ignoring the row with excludeID (0 excludes nothing).
	FindByEmailOrMobile(ctx context.Context, kind domain.Kind, email, mobile string, excludeID int64) ([]domain.Account, error)

	List(ctx context.Context, kind domain.Kind) ([]domain.Account, error)

	// Update writes the mutable profile fields, status and digest of acc,
	// keyed by acc.ID. Returns domain.ErrNotFound when no row matches.
	Update(ctx context.Context, acc *domain.Account) error

	// UpdatePassword replaces the digest of the account with the given email.
	UpdatePassword(ctx context.Context, kind domain.Kind, email, digest string) error
}
