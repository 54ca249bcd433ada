package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goride/admin-api/internal/api/metrics"
	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
)

// ProfileHandler serves listing, admin-managed and self-service profile
// routes for one account kind.
type ProfileHandler struct {
	profiles ports.ProfileService
	kind     domain.Kind
	links    Links
}

func NewProfileHandler(profiles ports.ProfileService, kind domain.Kind, links Links) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, kind: kind, links: links}
}

type profileUpdateRequest struct {
	Name       string `json:"name" form:"name" label:"Name" validate:"max=100"`
	FirstName  string `json:"first_name" form:"first_name" label:"First name" validate:"max=100"`
	LastName   string `json:"last_name" form:"last_name" label:"Last name" validate:"max=100"`
	Gender     string `json:"gender" form:"gender" label:"Gender" validate:"omitempty,oneof=Male Female Other"`
	RideType   string `json:"ride_type" form:"ride_type" label:"Ride type"`
	AutoNumber string `json:"auto_number" form:"auto_number" label:"Auto number"`
	Email      string `json:"email" form:"email" label:"Email" validate:"omitempty,email"`
	Mobile     string `json:"mobile" form:"mobile" label:"Mobile number" validate:"omitempty,mobile"`
	Status     string `json:"status" form:"status" label:"Status" validate:"omitempty,oneof=Active Inactive Deleted"`
	Password   string `json:"password" form:"password" label:"Password" validate:"omitempty,password"`
}

func (r profileUpdateRequest) toInput() ports.ProfileUpdate {
	return ports.ProfileUpdate{
		Name:       r.Name,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Gender:     r.Gender,
		RideType:   r.RideType,
		AutoNumber: r.AutoNumber,
		Email:      r.Email,
		Mobile:     r.Mobile,
		Status:     domain.Status(r.Status),
		Password:   r.Password,
	}
}

// noun names the managed account in admin-facing messages.
func (h *ProfileHandler) noun() string {
	if h.kind == domain.KindAdmin {
		return "Team member"
	}
	return h.kind.Label()
}

// List returns every account of the handler's kind.
//
// @Summary      List accounts
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /admin/show [get]
// @Router       /api/customer/show [get]
// @Router       /api/driver/show [get]
func (h *ProfileHandler) List(c echo.Context) error {
	accs, err := h.profiles.List(c.Request().Context(), h.kind)
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, h.kind.Label()+"s fetched successfully", h.links.views(accs), len(accs))
}

// Get returns one account to an admin.
//
// @Summary      Get an account
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /admin/customer-profile/{id} [get]
// @Router       /admin/driver-profile/{id} [get]
// @Router       /admin/team-profile/{id} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	acc, err := h.profiles.Get(c.Request().Context(), h.kind, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.noun()+" Details fetched successfully", h.links.view(acc))
}

// Update lets an admin edit an account, including its status.
//
// @Summary      Update an account
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Account ID"
// @Param        body  body      profileUpdateRequest  true  "Fields to change"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /admin/customer-profile/update/{id} [post]
// @Router       /admin/driver-profile/update/{id} [post]
// @Router       /admin/team-profile/update/{id} [post]
func (h *ProfileHandler) Update(c echo.Context) error {
	return h.update(c, h.noun()+" Updated successfully")
}

// Delete soft-deletes an account.
//
// @Summary      Delete an account
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /admin/customer-profile/{id} [delete]
// @Router       /admin/driver-profile/{id} [delete]
// @Router       /admin/team-profile/{id} [delete]
func (h *ProfileHandler) Delete(c echo.Context) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.profiles.Delete(c.Request().Context(), actor, h.kind, id); err != nil {
		return err
	}
	metrics.ProfileMutationsTotal.WithLabelValues(string(h.kind), "delete").Inc()
	return respond(c, http.StatusOK, h.noun()+" deleted successfully", nil)
}

// GetOwn returns the caller's own profile.
//
// @Summary      Get own profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Own account ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Router       /api/customer/profile/{id} [get]
// @Router       /api/driver/profile/{id} [get]
func (h *ProfileHandler) GetOwn(c echo.Context) error {
	id, err := h.ownID(c)
	if err != nil {
		return err
	}
	acc, err := h.profiles.Get(c.Request().Context(), h.kind, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.kind.Label()+" profile fetched successfully", h.links.view(acc))
}

// UpdateOwn lets an account holder edit their own profile and password.
//
// @Summary      Update own profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Own account ID"
// @Param        body  body      profileUpdateRequest  true  "Fields to change"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/customer/profile/{id} [put]
// @Router       /api/driver/profile/{id} [put]
func (h *ProfileHandler) UpdateOwn(c echo.Context) error {
	if _, err := h.ownID(c); err != nil {
		return err
	}
	return h.update(c, "Profile updated successfully")
}

func (h *ProfileHandler) update(c echo.Context, msg string) error {
	actor, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	acc, err := h.profiles.Update(c.Request().Context(), actor, h.kind, id, req.toInput())
	if err != nil {
		return err
	}
	metrics.ProfileMutationsTotal.WithLabelValues(string(h.kind), "update").Inc()
	return respond(c, http.StatusOK, msg, h.links.view(acc))
}

// ownID returns the :id parameter after checking it names the caller.
func (h *ProfileHandler) ownID(c echo.Context) (int64, error) {
	p, err := ctxPrincipal(c)
	if err != nil {
		return 0, err
	}
	id, err := pathID(c)
	if err != nil {
		return 0, err
	}
	if p.Kind != h.kind || p.ID != id {
		return 0, domain.Fail(domain.ErrForbidden, "You can only access your own profile")
	}
	return id, nil
}
