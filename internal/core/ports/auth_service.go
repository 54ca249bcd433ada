package ports

import (
	"context"
	"time"

	"github.com/goride/admin-api/internal/core/domain"
)

// SignupInput carries the fields of every signup form. Kind decides which of
// them are used.
type SignupInput struct {
	Kind       domain.Kind
	Name       string
	FirstName  string
	LastName   string
	Gender     string
	RideType   string
	AutoNumber string
	Email      string
	Mobile     string
	Password   string
	ProfilePic *ImageUpload
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

type AuthService interface {
	Login(ctx context.Context, kind domain.Kind, email, password string) (*LoginResult, error)
	Signup(ctx context.Context, in SignupInput) (*domain.Account, error)
	ForgotPassword(ctx context.Context, kind domain.Kind, email string) error
	ResetPassword(ctx context.Context, kind domain.Kind, token, password string) error
	// Authenticate verifies a session token for the auth middleware.
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}
