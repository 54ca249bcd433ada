package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
	"github.com/goride/admin-api/internal/infrastructure/security"
)

const goodPassword = "Abcdef1@"

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

type authFixture struct {
	svc      *AuthService
	repo     *stubAccountRepo
	guard    *stubGuard
	notifier *stubNotifier
	images   *stubImageStore
	hasher   *security.BcryptHasher
	tokens   *security.TokenManager
	clock    *testClock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	clock := &testClock{t: time.Now()}
	tokens, err := security.NewTokenManager("secret", security.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	f := &authFixture{
		repo:     newStubAccountRepo(),
		guard:    newStubGuard(),
		notifier: &stubNotifier{},
		images:   &stubImageStore{},
		hasher:   security.NewBcryptHasher(bcrypt.MinCost),
		tokens:   tokens,
		clock:    clock,
	}
	f.svc = NewAuthService(f.repo, f.hasher, f.tokens, f.guard, f.notifier, f.images, nopLogger())
	return f
}

func (f *authFixture) seed(t *testing.T, kind domain.Kind, email, mobile, password string, status domain.Status) *domain.Account {
	t.Helper()
	digest, err := f.hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return f.repo.seed(&domain.Account{Kind: kind, Name: "Seed", Email: email, Mobile: mobile, PasswordDigest: digest, Status: status})
}

func adminSignup(email, mobile string) ports.SignupInput {
	return ports.SignupInput{
		Kind:       domain.KindAdmin,
		Name:       "A",
		Email:      email,
		Mobile:     mobile,
		Password:   goodPassword,
		ProfilePic: &ports.ImageUpload{Filename: "a.png", ContentType: "image/png", Body: strings.NewReader("png")},
	}
}

func TestAuthService_SignupThenLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	acc, err := f.svc.Signup(ctx, adminSignup("a@x.com", "111"))
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if acc.ID <= 0 {
		t.Fatalf("expected positive id, got %d", acc.ID)
	}
	if acc.ProfilePic != "admin-a.png" {
		t.Fatalf("expected stored picture name, got %q", acc.ProfilePic)
	}
	if acc.PasswordDigest == goodPassword {
		t.Fatalf("expected password to be hashed")
	}

	res, err := f.svc.Login(ctx, domain.KindAdmin, "A@X.com", goodPassword)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	p, err := f.svc.Authenticate(ctx, res.Token)
	if err != nil {
		t.Fatalf("token should verify: %v", err)
	}
	if p.ID != acc.ID || p.Kind != domain.KindAdmin || p.Email != "a@x.com" {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestAuthService_Signup_Duplicates(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, domain.KindCustomer, "taken@x.com", "999", goodPassword, domain.StatusDeleted)
	f.seed(t, domain.KindCustomer, "other@x.com", "555", goodPassword, domain.StatusInactive)

	cases := []struct {
		name, email, mobile, want string
	}{
		{"email", "taken@x.com", "123", "Email already exists. Please use a different email."},
		{"mobile", "new@x.com", "555", "Mobile number already exists. Please use a different mobile number."},
		{"both", "taken@x.com", "555", "Email and Mobile number already exist. Please use different credentials."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Signup(context.Background(), ports.SignupInput{
				Kind: domain.KindCustomer, Name: "C", Email: tc.email, Mobile: tc.mobile, Password: goodPassword,
			})
			if !errors.Is(err, domain.ErrDuplicateCredential) {
				t.Fatalf("expected ErrDuplicateCredential, got %v", err)
			}
			if err.Error() != tc.want {
				t.Fatalf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestAuthService_Signup_KindsAreSeparate(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, domain.KindCustomer, "same@x.com", "111", goodPassword, domain.StatusActive)

	_, err := f.svc.Signup(context.Background(), ports.SignupInput{
		Kind: domain.KindDriver, FirstName: "D", LastName: "R", Email: "same@x.com", Mobile: "111", Password: goodPassword,
	})
	if err != nil {
		t.Fatalf("driver signup should not collide with customers: %v", err)
	}
}

func TestAuthService_Signup_AdminRequiresPicture(t *testing.T) {
	f := newAuthFixture(t)
	in := adminSignup("a@x.com", "111")
	in.ProfilePic = nil

	_, err := f.svc.Signup(context.Background(), in)
	if !errors.Is(err, domain.ErrValidation) || err.Error() != "Profile Picture is required" {
		t.Fatalf("expected picture validation error, got %v", err)
	}
}

func TestAuthService_Signup_WeakPassword(t *testing.T) {
	f := newAuthFixture(t)
	in := adminSignup("a@x.com", "111")
	in.Password = "abcdefgh"

	_, err := f.svc.Signup(context.Background(), in)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(f.images.saved) != 0 {
		t.Fatalf("image must not be stored before validation passes")
	}
}

func TestAuthService_Signup_PasswordLongerThanBcryptLimit(t *testing.T) {
	f := newAuthFixture(t)
	in := adminSignup("a@x.com", "111")
	in.Password = "Abcdef1@" + strings.Repeat("x", 70)

	_, err := f.svc.Signup(context.Background(), in)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if msg, _ := domain.MessageOf(err); msg != "Password must be at most 72 bytes long" {
		t.Fatalf("unexpected message %q", msg)
	}
	if len(f.images.saved) != 0 {
		t.Fatalf("image must not be stored before validation passes")
	}
}

func TestAuthService_Signup_StoreRaceRemovesPicture(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.createErr = domain.ErrDuplicateCredential

	_, err := f.svc.Signup(context.Background(), adminSignup("a@x.com", "111"))
	if !errors.Is(err, domain.ErrDuplicateCredential) {
		t.Fatalf("expected ErrDuplicateCredential, got %v", err)
	}
	if len(f.images.deleted) != 1 || f.images.deleted[0] != "admin-a.png" {
		t.Fatalf("expected orphaned picture to be deleted, got %v", f.images.deleted)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, domain.KindAdmin, "a@x.com", "111", goodPassword, domain.StatusActive)

	_, err := f.svc.Login(context.Background(), domain.KindAdmin, "a@x.com", "Wrong123@")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err.Error() != "Invalid email or password" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), domain.KindCustomer, "nobody@x.com", goodPassword)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StatusGate(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, domain.KindCustomer, "in@x.com", "1", goodPassword, domain.StatusInactive)
	f.seed(t, domain.KindCustomer, "del@x.com", "2", goodPassword, domain.StatusDeleted)

	if _, err := f.svc.Login(context.Background(), domain.KindCustomer, "in@x.com", goodPassword); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), domain.KindCustomer, "del@x.com", goodPassword); !errors.Is(err, domain.ErrAccountDeleted) {
		t.Fatalf("expected ErrAccountDeleted, got %v", err)
	}
}

func TestAuthService_Login_UpgradesLegacyDigest(t *testing.T) {
	f := newAuthFixture(t)
	acc := f.repo.seed(&domain.Account{
		Kind: domain.KindAdmin, Email: "old@x.com", Mobile: "1",
		PasswordDigest: security.LegacyDigest(goodPassword), Status: domain.StatusActive,
	})

	if _, err := f.svc.Login(context.Background(), domain.KindAdmin, "old@x.com", goodPassword); err != nil {
		t.Fatalf("legacy login failed: %v", err)
	}
	stored := f.repo.get(domain.KindAdmin, acc.ID)
	if !strings.HasPrefix(stored.PasswordDigest, "$2") {
		t.Fatalf("expected bcrypt digest after upgrade, got %q", stored.PasswordDigest)
	}
	if _, err := f.svc.Login(context.Background(), domain.KindAdmin, "old@x.com", goodPassword); err != nil {
		t.Fatalf("login after upgrade failed: %v", err)
	}
}

func TestAuthService_ForgotPassword_Unknown(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ForgotPassword(context.Background(), domain.KindAdmin, "ghost@x.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "Admin not found. Please register." {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAuthService_ForgotPassword_EmptyEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ForgotPassword(context.Background(), domain.KindAdmin, "  ")
	if !errors.Is(err, domain.ErrValidation) || err.Error() != "Please provide an email" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestAuthService_ForgotPassword_SendsResetToken(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, domain.KindDriver, "d@x.com", "1", goodPassword, domain.StatusActive)

	if err := f.svc.ForgotPassword(context.Background(), domain.KindDriver, "d@x.com"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected one reset email, got %d", len(f.notifier.sent))
	}
	claims, err := f.tokens.VerifyReset(f.notifier.sent[0])
	if err != nil {
		t.Fatalf("dispatched token is not a reset token: %v", err)
	}
	if claims.Email != "d@x.com" || claims.Kind != domain.KindDriver {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestAuthService_ForgotPassword_TransportFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, domain.KindAdmin, "a@x.com", "1", goodPassword, domain.StatusActive)
	f.notifier.err = errors.New("smtp down")

	err := f.svc.ForgotPassword(context.Background(), domain.KindAdmin, "a@x.com")
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := domain.MessageOf(err); ok {
		t.Fatalf("transport failures must surface as internal errors, got %v", err)
	}
}

func issueReset(t *testing.T, f *authFixture, kind domain.Kind, email string) string {
	t.Helper()
	token, err := f.tokens.IssueReset(kind, email)
	if err != nil {
		t.Fatalf("issue reset: %v", err)
	}
	return token
}

func TestAuthService_ResetPassword_SingleUse(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, domain.KindAdmin, "a@x.com", "1", goodPassword, domain.StatusActive)
	token := issueReset(t, f, domain.KindAdmin, "a@x.com")

	if err := f.svc.ResetPassword(context.Background(), domain.KindAdmin, token, "Newpass1!"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), domain.KindAdmin, "a@x.com", "Newpass1!"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), domain.KindAdmin, "a@x.com", goodPassword); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password should stop working, got %v", err)
	}

	err := f.svc.ResetPassword(context.Background(), domain.KindAdmin, token, "Another1!")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected replay to be rejected, got %v", err)
	}
}

func TestAuthService_ResetPassword_Expired(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, domain.KindAdmin, "a@x.com", "1", goodPassword, domain.StatusActive)
	token := issueReset(t, f, domain.KindAdmin, "a@x.com")

	f.clock.t = f.clock.t.Add(domain.ResetTokenTTL + time.Second)

	err := f.svc.ResetPassword(context.Background(), domain.KindAdmin, token, "Newpass1!")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if err.Error() != "Invalid or expired token" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAuthService_ResetPassword_WrongKind(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, domain.KindAdmin, "a@x.com", "1", goodPassword, domain.StatusActive)
	f.seed(t, domain.KindCustomer, "a@x.com", "1", goodPassword, domain.StatusActive)
	token := issueReset(t, f, domain.KindCustomer, "a@x.com")

	err := f.svc.ResetPassword(context.Background(), domain.KindAdmin, token, "Newpass1!")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_ResetPassword_SessionTokenRejected(t *testing.T) {
	f := newAuthFixture(t)
	acc := f.seed(t, domain.KindAdmin, "a@x.com", "1", goodPassword, domain.StatusActive)
	session, _, err := f.tokens.IssueSession(acc)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	err = f.svc.ResetPassword(context.Background(), domain.KindAdmin, session, "Newpass1!")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_ResetPassword_UnknownAccount(t *testing.T) {
	f := newAuthFixture(t)
	token := issueReset(t, f, domain.KindAdmin, "gone@x.com")

	err := f.svc.ResetPassword(context.Background(), domain.KindAdmin, token, "Newpass1!")
	if !errors.Is(err, domain.ErrNotFound) || err.Error() != "Admin not found" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestAuthService_ResetPassword_UpdateFailureReleasesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, domain.KindAdmin, "a@x.com", "1", goodPassword, domain.StatusActive)
	token := issueReset(t, f, domain.KindAdmin, "a@x.com")
	f.repo.updateErr = errStore

	if err := f.svc.ResetPassword(context.Background(), domain.KindAdmin, token, "Newpass1!"); !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	if f.guard.release != 1 {
		t.Fatalf("expected token claim to be released")
	}

	f.repo.updateErr = nil
	if err := f.svc.ResetPassword(context.Background(), domain.KindAdmin, token, "Newpass1!"); err != nil {
		t.Fatalf("token should be usable after a failed attempt: %v", err)
	}
}

func TestAuthService_ResetPassword_WeakPassword(t *testing.T) {
	f := newAuthFixture(t)
	token := issueReset(t, f, domain.KindAdmin, "a@x.com")

	err := f.svc.ResetPassword(context.Background(), domain.KindAdmin, token, "weak")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_ResetPassword_PasswordLongerThanBcryptLimit(t *testing.T) {
	f := newAuthFixture(t)
	f.seed(t, domain.KindAdmin, "a@x.com", "111", "Abcdef1@", domain.StatusActive)
	token := issueReset(t, f, domain.KindAdmin, "a@x.com")

	err := f.svc.ResetPassword(context.Background(), domain.KindAdmin, token, "Abcdef1@"+strings.Repeat("x", 70))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := f.svc.ResetPassword(context.Background(), domain.KindAdmin, token, "Newpass1!"); err != nil {
		t.Fatalf("token should still be unused: %v", err)
	}
}

func TestAuthService_Authenticate_RejectsResetToken(t *testing.T) {
	f := newAuthFixture(t)
	token := issueReset(t, f, domain.KindAdmin, "a@x.com")

	if _, err := f.svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
