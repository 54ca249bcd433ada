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

// ProfileService serves account listings and profile management for admins
// and self-service profile edits for customers and drivers.
//
// Every mutation requires the acting account to be Active. For self-service
// that is the target itself; for admin management it is the acting admin,
// who may also change the target's status.
type ProfileService struct {
	accounts ports.AccountRepository
	hasher   ports.PasswordHasher
	log      zerolog.Logger
	now      func() time.Time
}

func NewProfileService(accounts ports.AccountRepository, hasher ports.PasswordHasher, log zerolog.Logger) *ProfileService {
	return &ProfileService{
		accounts: accounts,
		hasher:   hasher,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ProfileService) List(ctx context.Context, kind domain.Kind) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Plural(), err)
	}
	if len(accounts) == 0 {
		return nil, domain.Failf(domain.ErrNotFound, "No %s found", kind.Plural())
	}
	return accounts, nil
}

func (s *ProfileService) Get(ctx context.Context, kind domain.Kind, id int64) (*domain.Account, error) {
	acc, err := s.accounts.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(kind)
		}
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	return acc, nil
}

func (s *ProfileService) Update(ctx context.Context, actor domain.Principal, kind domain.Kind, id int64, in ports.ProfileUpdate) (*domain.Account, error) {
	target, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	self := actor.Kind == kind && actor.ID == id
	if err := s.authorize(ctx, actor, target, self); err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	mobile := strings.TrimSpace(in.Mobile)
	if email != "" || mobile != "" {
		if email == "" {
			email = target.Email
		}
		if mobile == "" {
			mobile = target.Mobile
		}
		if err := checkDuplicates(ctx, s.accounts, kind, email, mobile, id); err != nil {
			return nil, err
		}
		target.Email = email
		target.Mobile = mobile
	}

	setIfPresent(&target.Name, in.Name)
	setIfPresent(&target.FirstName, in.FirstName)
	setIfPresent(&target.LastName, in.LastName)
	setIfPresent(&target.Gender, in.Gender)
	setIfPresent(&target.RideType, in.RideType)
	setIfPresent(&target.AutoNumber, in.AutoNumber)

	if in.Status != "" {
		if self {
			return nil, domain.Fail(domain.ErrForbidden, "You cannot change your own status")
		}
		if !in.Status.Valid() {
			return nil, domain.Fail(domain.ErrValidation, "Status must be one of Active, Inactive, Deleted")
		}
		target.Status = in.Status
	}

	if in.Password != "" {
		if !self {
			return nil, domain.Fail(domain.ErrForbidden, "Passwords can only be changed by the account holder")
		}
		if err := domain.ValidatePassword(in.Password); err != nil {
			return nil, err
		}
		digest, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("update %s: %w", kind, err)
		}
		target.PasswordDigest = digest
	}

	target.UpdatedAt = s.now()
	if err := s.accounts.Update(ctx, target); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(kind)
		}
		if errors.Is(err, domain.ErrDuplicateCredential) {
			if derr := checkDuplicates(ctx, s.accounts, kind, target.Email, target.Mobile, id); derr != nil {
				return nil, derr
			}
		}
		return nil, fmt.Errorf("update %s: %w", kind, err)
	}

	s.log.Info().
		Str("kind", string(kind)).
		Int64("account_id", id).
		Str("actor_kind", string(actor.Kind)).
		Int64("actor_id", actor.ID).
		Msg("profile updated")
	return target, nil
}

// Delete soft-deletes an account by moving it to StatusDeleted.
func (s *ProfileService) Delete(ctx context.Context, actor domain.Principal, kind domain.Kind, id int64) error {
	target, err := s.Get(ctx, kind, id)
	if err != nil {
		return err
	}
	if actor.Kind != domain.KindAdmin {
		return domain.Fail(domain.ErrForbidden, "Only admins can delete accounts")
	}
	if actor.Kind == kind && actor.ID == id {
		return domain.Fail(domain.ErrForbidden, "You cannot delete your own account")
	}
	if err := s.authorize(ctx, actor, target, false); err != nil {
		return err
	}
	if target.Status == domain.StatusDeleted {
		return nil
	}

	target.Status = domain.StatusDeleted
	target.UpdatedAt = s.now()
	if err := s.accounts.Update(ctx, target); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(kind)
		}
		return fmt.Errorf("delete %s: %w", kind, err)
	}

	s.log.Info().Str("kind", string(kind)).Int64("account_id", id).Int64("actor_id", actor.ID).Msg("account deleted")
	return nil
}

// authorize applies the mutation policy: self-service needs an Active target,
// anything else needs an Active admin.
func (s *ProfileService) authorize(ctx context.Context, actor domain.Principal, target *domain.Account, self bool) error {
	if self {
		return target.CheckMutationStatus()
	}
	if actor.Kind != domain.KindAdmin {
		return domain.Fail(domain.ErrForbidden, "You are not allowed to modify this profile")
	}
	admin, err := s.accounts.FindByID(ctx, domain.KindAdmin, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Fail(domain.ErrForbidden, "Acting admin no longer exists")
		}
		return fmt.Errorf("load acting admin: %w", err)
	}
	return admin.CheckMutationStatus()
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
