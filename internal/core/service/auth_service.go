package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
)

// ResetNotifier delivers a freshly issued reset token to the account holder.
type ResetNotifier interface {
	Dispatch(ctx context.Context, acc *domain.Account, token string) error
}

// AuthService implements login, signup and the password-reset flow for every
// account kind.
type AuthService struct {
	accounts ports.AccountRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenManager
	guard    ports.ResetTokenGuard
	notifier ResetNotifier
	images   ports.ImageStore
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	accounts ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenManager,
	guard ports.ResetTokenGuard,
	notifier ResetNotifier,
	images ports.ImageStore,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		guard:    guard,
		notifier: notifier,
		images:   images,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var errBadLogin = domain.Fail(domain.ErrInvalidCredentials, "Invalid email or password")

func (s *AuthService) Login(ctx context.Context, kind domain.Kind, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errBadLogin
	}

	acc, err := s.accounts.FindByEmail(ctx, kind, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errBadLogin
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, err := s.hasher.Verify(password, acc.PasswordDigest)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", string(kind)).Int64("account_id", acc.ID).Msg("stored password digest is unreadable")
		return nil, errBadLogin
	}
	if !ok {
		return nil, errBadLogin
	}

	if err := acc.CheckLoginStatus(); err != nil {
		return nil, err
	}

	if s.hasher.NeedsUpgrade(acc.PasswordDigest) {
		s.upgradeDigest(ctx, acc, password)
	}

	token, exp, err := s.tokens.IssueSession(acc)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("kind", string(kind)).Int64("account_id", acc.ID).Msg("login succeeded")
	return &ports.LoginResult{Token: token, ExpiresAt: exp, Account: acc}, nil
}

// upgradeDigest replaces a legacy digest after a successful login. Failure is
// logged and the login proceeds.
func (s *AuthService) upgradeDigest(ctx context.Context, acc *domain.Account, password string) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Warn().Err(err).Int64("account_id", acc.ID).Msg("rehash failed")
		return
	}
	if err := s.accounts.UpdatePassword(ctx, acc.Kind, acc.Email, digest); err != nil {
		s.log.Warn().Err(err).Int64("account_id", acc.ID).Msg("storing upgraded digest failed")
		return
	}
	acc.PasswordDigest = digest
	s.log.Info().Str("kind", string(acc.Kind)).Int64("account_id", acc.ID).Msg("password digest upgraded")
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.Account, error) {
	in.Email = normalizeEmail(in.Email)
	in.Mobile = strings.TrimSpace(in.Mobile)
	if in.Email == "" {
		return nil, domain.Fail(domain.ErrValidation, "Email is required")
	}
	if in.Mobile == "" {
		return nil, domain.Fail(domain.ErrValidation, "Mobile number is required")
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.Kind == domain.KindAdmin && in.ProfilePic == nil {
		return nil, domain.Fail(domain.ErrValidation, "Profile Picture is required")
	}

	if err := s.checkDuplicates(ctx, in.Kind, in.Email, in.Mobile, 0); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	var pic string
	if in.ProfilePic != nil && s.images != nil {
		pic, err = s.images.Save(ctx, string(in.Kind), *in.ProfilePic)
		if err != nil {
			return nil, fmt.Errorf("signup: store profile picture: %w", err)
		}
	}

	now := s.now()
	acc := &domain.Account{
		Kind:           in.Kind,
		Name:           strings.TrimSpace(in.Name),
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Gender:         in.Gender,
		RideType:       in.RideType,
		AutoNumber:     in.AutoNumber,
		Email:          in.Email,
		Mobile:         in.Mobile,
		PasswordDigest: digest,
		Status:         domain.StatusActive,
		ProfilePic:     pic,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.accounts.Create(ctx, acc)
	if err != nil {
		if pic != "" {
			if derr := s.images.Delete(ctx, string(in.Kind), pic); derr != nil {
				s.log.Warn().Err(derr).Str("file", pic).Msg("orphaned profile picture")
			}
		}
		if errors.Is(err, domain.ErrDuplicateCredential) {
			// Lost a race with a concurrent signup; rebuild the precise message.
			if derr := s.checkDuplicates(ctx, in.Kind, in.Email, in.Mobile, 0); derr != nil {
				return nil, derr
			}
			return nil, domain.DuplicateFailure(true, false)
		}
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.log.Info().Str("kind", string(in.Kind)).Int64("account_id", created.ID).Msg("account registered")
	return created, nil
}

// checkDuplicates reports which of email and mobile already belong to another
// account of kind, ignoring excludeID.
func (s *AuthService) checkDuplicates(ctx context.Context, kind domain.Kind, email, mobile string, excludeID int64) error {
	return checkDuplicates(ctx, s.accounts, kind, email, mobile, excludeID)
}

func checkDuplicates(ctx context.Context, repo ports.AccountRepository, kind domain.Kind, email, mobile string, excludeID int64) error {
	matches, err := repo.FindByEmailOrMobile(ctx, kind, email, mobile, excludeID)
	if err != nil {
		return fmt.Errorf("duplicate check: %w", err)
	}
	var emailTaken, mobileTaken bool
	for _, m := range matches {
		if strings.EqualFold(m.Email, email) {
			emailTaken = true
		}
		if mobile != "" && m.Mobile == mobile {
			mobileTaken = true
		}
	}
	if emailTaken || mobileTaken {
		return domain.DuplicateFailure(emailTaken, mobileTaken)
	}
	return nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, kind domain.Kind, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.Fail(domain.ErrValidation, "Please provide an email")
	}

	acc, err := s.accounts.FindByEmail(ctx, kind, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Failf(domain.ErrNotFound, "%s not found. Please register.", kind.Label())
		}
		return fmt.Errorf("forgot password: %w", err)
	}

	token, err := s.tokens.IssueReset(kind, acc.Email)
	if err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	if err := s.notifier.Dispatch(ctx, acc, token); err != nil {
		s.log.Error().Err(err).Str("kind", string(kind)).Int64("account_id", acc.ID).Msg("reset email not sent")
		return fmt.Errorf("forgot password: send reset link: %w", err)
	}

	s.log.Info().Str("kind", string(kind)).Int64("account_id", acc.ID).Msg("reset link sent")
	return nil
}

var errBadResetToken = domain.Fail(domain.ErrInvalidToken, "Invalid or expired token")

func (s *AuthService) ResetPassword(ctx context.Context, kind domain.Kind, token, password string) error {
	if err := domain.ValidatePassword(password); err != nil {
		return err
	}

	claims, err := s.tokens.VerifyReset(token)
	if err != nil {
		return errBadResetToken
	}
	if claims.Kind != kind {
		return errBadResetToken
	}

	acc, err := s.accounts.FindByEmail(ctx, kind, claims.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(kind)
		}
		return fmt.Errorf("reset password: %w", err)
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	claimed, err := s.guard.Claim(ctx, claims.TokenID, ttl)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if !claimed {
		s.log.Warn().Str("kind", string(kind)).Int64("account_id", acc.ID).Msg("reset token replayed")
		return errBadResetToken
	}

	digest, err := s.hasher.Hash(password)
	if err == nil {
		err = s.accounts.UpdatePassword(ctx, kind, acc.Email, digest)
	}
	if err != nil {
		if rerr := s.guard.Release(ctx, claims.TokenID); rerr != nil {
			s.log.Warn().Err(rerr).Msg("release reset token")
		}
		return fmt.Errorf("reset password: %w", err)
	}

	s.log.Info().Str("kind", string(kind)).Int64("account_id", acc.ID).Msg("password reset")
	return nil
}

func (s *AuthService) Authenticate(_ context.Context, token string) (*domain.Principal, error) {
	claims, err := s.tokens.VerifySession(token)
	if err != nil {
		return nil, domain.Fail(domain.ErrInvalidToken, "Invalid or expired token")
	}
	p := claims.Principal
	return &p, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
