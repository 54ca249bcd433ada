package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
	"github.com/goride/admin-api/internal/infrastructure/security"
)

func newProfileFixture() (*ProfileService, *stubAccountRepo) {
	repo := newStubAccountRepo()
	return NewProfileService(repo, security.NewBcryptHasher(bcrypt.MinCost), nopLogger()), repo
}

func principalOf(a *domain.Account) domain.Principal {
	return domain.Principal{ID: a.ID, Email: a.Email, Kind: a.Kind}
}

func TestProfileService_List_Empty(t *testing.T) {
	svc, _ := newProfileFixture()

	_, err := svc.List(context.Background(), domain.KindDriver)
	if !errors.Is(err, domain.ErrNotFound) || err.Error() != "No drivers found" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestProfileService_Get_NotFound(t *testing.T) {
	svc, _ := newProfileFixture()

	_, err := svc.Get(context.Background(), domain.KindCustomer, 42)
	if !errors.Is(err, domain.ErrNotFound) || err.Error() != "Customer not found" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestProfileService_Update_SelfKeepsOwnEmail(t *testing.T) {
	svc, repo := newProfileFixture()
	c := repo.seed(&domain.Account{Kind: domain.KindCustomer, Name: "C", Email: "c@x.com", Mobile: "111"})

	got, err := svc.Update(context.Background(), principalOf(c), domain.KindCustomer, c.ID, ports.ProfileUpdate{
		Name: "Chitra", Email: "c@x.com", Mobile: "111",
	})
	if err != nil {
		t.Fatalf("saving unchanged credentials must not collide with self: %v", err)
	}
	if got.Name != "Chitra" {
		t.Fatalf("name not updated: %+v", got)
	}
	if repo.get(domain.KindCustomer, c.ID).Name != "Chitra" {
		t.Fatalf("update not persisted")
	}
}

func TestProfileService_Update_DuplicateOfOther(t *testing.T) {
	svc, repo := newProfileFixture()
	c := repo.seed(&domain.Account{Kind: domain.KindCustomer, Email: "c@x.com", Mobile: "111"})
	repo.seed(&domain.Account{Kind: domain.KindCustomer, Email: "d@x.com", Mobile: "222"})

	_, err := svc.Update(context.Background(), principalOf(c), domain.KindCustomer, c.ID, ports.ProfileUpdate{Mobile: "222"})
	if !errors.Is(err, domain.ErrDuplicateCredential) {
		t.Fatalf("expected ErrDuplicateCredential, got %v", err)
	}
	if err.Error() != "Mobile number already exists. Please use a different mobile number." {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestProfileService_Update_InactiveSelfIsRejected(t *testing.T) {
	for _, kind := range domain.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			svc, repo := newProfileFixture()
			acc := repo.seed(&domain.Account{Kind: kind, Email: "x@x.com", Mobile: "1", Status: domain.StatusInactive})

			_, err := svc.Update(context.Background(), principalOf(acc), kind, acc.ID, ports.ProfileUpdate{Name: "N"})
			if !errors.Is(err, domain.ErrAccountInactive) {
				t.Fatalf("expected ErrAccountInactive, got %v", err)
			}
		})
	}
}

func TestProfileService_Update_AdminReactivatesCustomer(t *testing.T) {
	svc, repo := newProfileFixture()
	admin := repo.seed(&domain.Account{Kind: domain.KindAdmin, Email: "a@x.com", Mobile: "1"})
	c := repo.seed(&domain.Account{Kind: domain.KindCustomer, Email: "c@x.com", Mobile: "2", Status: domain.StatusInactive})

	got, err := svc.Update(context.Background(), principalOf(admin), domain.KindCustomer, c.ID, ports.ProfileUpdate{Status: domain.StatusActive})
	if err != nil {
		t.Fatalf("admin update returned error: %v", err)
	}
	if got.Status != domain.StatusActive {
		t.Fatalf("expected Active, got %s", got.Status)
	}
}

func TestProfileService_Update_InactiveAdminIsRejected(t *testing.T) {
	svc, repo := newProfileFixture()
	admin := repo.seed(&domain.Account{Kind: domain.KindAdmin, Email: "a@x.com", Mobile: "1", Status: domain.StatusInactive})
	d := repo.seed(&domain.Account{Kind: domain.KindDriver, Email: "d@x.com", Mobile: "2"})

	_, err := svc.Update(context.Background(), principalOf(admin), domain.KindDriver, d.ID, ports.ProfileUpdate{FirstName: "D"})
	if !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestProfileService_Update_OtherCustomerIsForbidden(t *testing.T) {
	svc, repo := newProfileFixture()
	a := repo.seed(&domain.Account{Kind: domain.KindCustomer, Email: "a@x.com", Mobile: "1"})
	b := repo.seed(&domain.Account{Kind: domain.KindCustomer, Email: "b@x.com", Mobile: "2"})

	_, err := svc.Update(context.Background(), principalOf(a), domain.KindCustomer, b.ID, ports.ProfileUpdate{Name: "x"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProfileService_Update_InvalidStatus(t *testing.T) {
	svc, repo := newProfileFixture()
	admin := repo.seed(&domain.Account{Kind: domain.KindAdmin, Email: "a@x.com", Mobile: "1"})
	c := repo.seed(&domain.Account{Kind: domain.KindCustomer, Email: "c@x.com", Mobile: "2"})

	_, err := svc.Update(context.Background(), principalOf(admin), domain.KindCustomer, c.ID, ports.ProfileUpdate{Status: "Banned"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestProfileService_Update_SelfPasswordChange(t *testing.T) {
	svc, repo := newProfileFixture()
	d := repo.seed(&domain.Account{Kind: domain.KindDriver, Email: "d@x.com", Mobile: "1"})

	if _, err := svc.Update(context.Background(), principalOf(d), domain.KindDriver, d.ID, ports.ProfileUpdate{Password: "Newpass1!"}); err != nil {
		t.Fatalf("password change failed: %v", err)
	}
	ok, err := security.NewBcryptHasher(bcrypt.MinCost).Verify("Newpass1!", repo.get(domain.KindDriver, d.ID).PasswordDigest)
	if err != nil || !ok {
		t.Fatalf("stored digest does not match new password (ok=%v err=%v)", ok, err)
	}
}

func TestProfileService_Update_PasswordLongerThanBcryptLimit(t *testing.T) {
	svc, repo := newProfileFixture()
	d := repo.seed(&domain.Account{Kind: domain.KindDriver, Email: "d@x.com", Mobile: "1"})

	_, err := svc.Update(context.Background(), principalOf(d), domain.KindDriver, d.ID,
		ports.ProfileUpdate{Password: "Newpass1!" + strings.Repeat("x", 70)})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestProfileService_Delete_SoftDeletes(t *testing.T) {
	svc, repo := newProfileFixture()
	admin := repo.seed(&domain.Account{Kind: domain.KindAdmin, Email: "a@x.com", Mobile: "1"})
	c := repo.seed(&domain.Account{Kind: domain.KindCustomer, Email: "c@x.com", Mobile: "2"})

	if err := svc.Delete(context.Background(), principalOf(admin), domain.KindCustomer, c.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	stored := repo.get(domain.KindCustomer, c.ID)
	if stored == nil || stored.Status != domain.StatusDeleted {
		t.Fatalf("expected row kept with status Deleted, got %+v", stored)
	}
}

func TestProfileService_Delete_Self(t *testing.T) {
	svc, repo := newProfileFixture()
	admin := repo.seed(&domain.Account{Kind: domain.KindAdmin, Email: "a@x.com", Mobile: "1"})

	if err := svc.Delete(context.Background(), principalOf(admin), domain.KindAdmin, admin.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProfileService_Delete_RequiresAdmin(t *testing.T) {
	svc, repo := newProfileFixture()
	c := repo.seed(&domain.Account{Kind: domain.KindCustomer, Email: "c@x.com", Mobile: "2"})
	d := repo.seed(&domain.Account{Kind: domain.KindDriver, Email: "d@x.com", Mobile: "3"})

	if err := svc.Delete(context.Background(), principalOf(c), domain.KindDriver, d.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
