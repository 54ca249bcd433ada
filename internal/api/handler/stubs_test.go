package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/goride/admin-api/internal/api/middleware"
	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, kind domain.Kind, email, password string) (*ports.LoginResult, error)
	signupFn func(ctx context.Context, in ports.SignupInput) (*domain.Account, error)
	forgotFn func(ctx context.Context, kind domain.Kind, email string) error
	resetFn  func(ctx context.Context, kind domain.Kind, token, password string) error
}

func (s *stubAuthService) Login(ctx context.Context, kind domain.Kind, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, kind, email, password)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.Account, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, kind domain.Kind, email string) error {
	return s.forgotFn(ctx, kind, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, kind domain.Kind, token, password string) error {
	return s.resetFn(ctx, kind, token, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Principal, error) {
	return nil, domain.ErrInvalidToken
}

type stubProfileService struct {
	listFn   func(ctx context.Context, kind domain.Kind) ([]domain.Account, error)
	getFn    func(ctx context.Context, kind domain.Kind, id int64) (*domain.Account, error)
	updateFn func(ctx context.Context, actor domain.Principal, kind domain.Kind, id int64, in ports.ProfileUpdate) (*domain.Account, error)
	deleteFn func(ctx context.Context, actor domain.Principal, kind domain.Kind, id int64) error
}

func (s *stubProfileService) List(ctx context.Context, kind domain.Kind) ([]domain.Account, error) {
	return s.listFn(ctx, kind)
}

func (s *stubProfileService) Get(ctx context.Context, kind domain.Kind, id int64) (*domain.Account, error) {
	return s.getFn(ctx, kind, id)
}

func (s *stubProfileService) Update(ctx context.Context, actor domain.Principal, kind domain.Kind, id int64, in ports.ProfileUpdate) (*domain.Account, error) {
	return s.updateFn(ctx, actor, kind, id, in)
}

func (s *stubProfileService) Delete(ctx context.Context, actor domain.Principal, kind domain.Kind, id int64) error {
	return s.deleteFn(ctx, actor, kind, id)
}

type stubRideService struct {
	types []string
	rides []domain.Ride
	err   error
}

func (s *stubRideService) RideTypes(context.Context) ([]string, error) { return s.types, s.err }

func (s *stubRideService) RidesByType(_ context.Context, rideType string) ([]domain.Ride, error) {
	var out []domain.Ride
	for _, r := range s.rides {
		if r.RideType == rideType {
			out = append(out, r)
		}
	}
	return out, s.err
}

func (s *stubRideService) Ride(_ context.Context, id int64) (*domain.Ride, error) {
	for _, r := range s.rides {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.Fail(domain.ErrNotFound, "No ride available")
}

type stubImageStore struct {
	files map[string][]byte
}

func (s *stubImageStore) Save(context.Context, string, ports.ImageUpload) (string, error) {
	return "", nil
}

func (s *stubImageStore) Open(_ context.Context, kind, name string) (io.ReadCloser, string, error) {
	b, ok := s.files[kind+"/"+name]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), "image/jpeg", nil
}

func (s *stubImageStore) Delete(context.Context, string, string) error { return nil }

const testBackend = "http://api.test"

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func withPrincipal(c echo.Context, kind domain.Kind, id int64) {
	c.Set(middleware.PrincipalKey, &domain.Principal{ID: id, Email: "me@x.com", Kind: kind})
}

type envelope struct {
	Code    int             `json:"code"`
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Total   *int            `json:"total"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (envelope, map[string]any) {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	var data map[string]any
	_ = json.Unmarshal(env.Data, &data)
	return env, data
}

func expectFailure(t *testing.T, err, sentinel error, msg string) {
	t.Helper()
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected %v, got %v", sentinel, err)
	}
	if got, _ := domain.MessageOf(err); got != msg {
		t.Fatalf("expected message %q, got %q", msg, got)
	}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
}
