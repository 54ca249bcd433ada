package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
)

func TestProfileHandler_List(t *testing.T) {
	e := newEcho()
	stub := &stubProfileService{
		listFn: func(ctx context.Context, kind domain.Kind) ([]domain.Account, error) {
			if kind != domain.KindDriver {
				t.Fatalf("unexpected kind %s", kind)
			}
			return []domain.Account{
				{ID: 1, Kind: kind, FirstName: "Dee", ProfilePic: "d1.jpg"},
				{ID: 2, Kind: kind, FirstName: "Ray"},
			}, nil
		},
	}
	handler := NewProfileHandler(stub, domain.KindDriver, NewLinks(testBackend))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/driver/show", nil), rec)
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var env struct {
		Message string           `json:"message"`
		Total   int              `json:"total"`
		Data    []map[string]any `json:"data"`
	}
	decodeJSON(t, rec, &env)
	if env.Message != "Drivers fetched successfully" || env.Total != 2 || len(env.Data) != 2 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Data[0]["profile_pic_url"] != testBackend+"/uploads/driver/d1.jpg" {
		t.Fatalf("missing profile_pic_url: %+v", env.Data[0])
	}
	if _, ok := env.Data[1]["profile_pic_url"]; ok {
		t.Fatalf("profile_pic_url should be omitted without a picture")
	}
}

func TestProfileHandler_Get_TeamMember(t *testing.T) {
	e := newEcho()
	stub := &stubProfileService{
		getFn: func(ctx context.Context, kind domain.Kind, id int64) (*domain.Account, error) {
			return &domain.Account{ID: id, Kind: kind, Name: "Ops"}, nil
		},
	}
	handler := NewProfileHandler(stub, domain.KindAdmin, NewLinks(testBackend))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/team-profile/9", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("9")
	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	env, data := decodeEnvelope(t, rec)
	if env.Message != "Team member Details fetched successfully" || data["id"] != float64(9) {
		t.Fatalf("unexpected response: %+v %+v", env, data)
	}
}

func TestProfileHandler_Get_InvalidID(t *testing.T) {
	e := newEcho()
	handler := NewProfileHandler(&stubProfileService{}, domain.KindCustomer, NewLinks(testBackend))
	for _, id := range []string{"abc", "0", "-3"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(id)
		expectFailure(t, handler.Get(c), domain.ErrValidation, "Invalid id")
	}
}

func TestProfileHandler_Update_ByAdmin(t *testing.T) {
	e := newEcho()
	stub := &stubProfileService{
		updateFn: func(ctx context.Context, actor domain.Principal, kind domain.Kind, id int64, in ports.ProfileUpdate) (*domain.Account, error) {
			if actor.Kind != domain.KindAdmin || actor.ID != 1 || kind != domain.KindCustomer || id != 5 {
				t.Fatalf("unexpected args: %+v %s %d", actor, kind, id)
			}
			if in.Status != domain.StatusInactive || in.Mobile != "9876500000" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Account{ID: id, Kind: kind, Status: in.Status, Mobile: in.Mobile}, nil
		},
	}
	handler := NewProfileHandler(stub, domain.KindCustomer, NewLinks(testBackend))

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/admin/customer-profile/update/5", `{"status":"Inactive","mobile":"9876500000"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("5")
	withPrincipal(c, domain.KindAdmin, 1)

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	env, data := decodeEnvelope(t, rec)
	if env.Message != "Customer Updated successfully" || data["status"] != "Inactive" {
		t.Fatalf("unexpected response: %+v %+v", env, data)
	}
}

func TestProfileHandler_Update_RejectsUnknownStatus(t *testing.T) {
	e := newEcho()
	handler := NewProfileHandler(&stubProfileService{}, domain.KindCustomer, NewLinks(testBackend))

	c := e.NewContext(jsonRequest(http.MethodPost, "/", `{"status":"Banned"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("5")
	withPrincipal(c, domain.KindAdmin, 1)

	expectFailure(t, handler.Update(c), domain.ErrValidation, "Status must be one of: Active, Inactive, Deleted")
}

func TestProfileHandler_UpdateOwn(t *testing.T) {
	e := newEcho()
	stub := &stubProfileService{
		updateFn: func(ctx context.Context, actor domain.Principal, kind domain.Kind, id int64, in ports.ProfileUpdate) (*domain.Account, error) {
			if actor.ID != id || actor.Kind != kind || in.Password != "Changed@123" {
				t.Fatalf("unexpected args: %+v %d %+v", actor, id, in)
			}
			return &domain.Account{ID: id, Kind: kind}, nil
		},
	}
	handler := NewProfileHandler(stub, domain.KindDriver, NewLinks(testBackend))

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/api/driver/profile/3", `{"password":"Changed@123"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("3")
	withPrincipal(c, domain.KindDriver, 3)

	if err := handler.UpdateOwn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	env, _ := decodeEnvelope(t, rec)
	if env.Message != "Profile updated successfully" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestProfileHandler_OwnRoutesRejectOtherIDs(t *testing.T) {
	e := newEcho()
	stub := &stubProfileService{
		getFn: func(context.Context, domain.Kind, int64) (*domain.Account, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewProfileHandler(stub, domain.KindCustomer, NewLinks(testBackend))

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/customer/profile/8", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("8")
	withPrincipal(c, domain.KindCustomer, 7)

	expectFailure(t, handler.GetOwn(c), domain.ErrForbidden, "You can only access your own profile")
}

func TestProfileHandler_GetOwn(t *testing.T) {
	e := newEcho()
	stub := &stubProfileService{
		getFn: func(ctx context.Context, kind domain.Kind, id int64) (*domain.Account, error) {
			return &domain.Account{ID: id, Kind: kind, Name: "Cara"}, nil
		},
	}
	handler := NewProfileHandler(stub, domain.KindCustomer, NewLinks(testBackend))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/customer/profile/7", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	withPrincipal(c, domain.KindCustomer, 7)

	if err := handler.GetOwn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	env, data := decodeEnvelope(t, rec)
	if env.Message != "Customer profile fetched successfully" || data["name"] != "Cara" {
		t.Fatalf("unexpected response: %+v %+v", env, data)
	}
}

func TestProfileHandler_Delete(t *testing.T) {
	e := newEcho()
	var deleted int64
	stub := &stubProfileService{
		deleteFn: func(ctx context.Context, actor domain.Principal, kind domain.Kind, id int64) error {
			deleted = id
			return nil
		},
	}
	handler := NewProfileHandler(stub, domain.KindDriver, NewLinks(testBackend))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/admin/driver-profile/12", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("12")
	withPrincipal(c, domain.KindAdmin, 1)

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	env, _ := decodeEnvelope(t, rec)
	if deleted != 12 || env.Message != "Driver deleted successfully" {
		t.Fatalf("unexpected result: id=%d %+v", deleted, env)
	}
}

func TestProfileHandler_Delete_RequiresPrincipal(t *testing.T) {
	e := newEcho()
	handler := NewProfileHandler(&stubProfileService{}, domain.KindDriver, NewLinks(testBackend))
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("12")

	expectFailure(t, handler.Delete(c), domain.ErrInvalidToken, "Authorization token is required")
}
