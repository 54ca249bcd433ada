package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/goride/admin-api/internal/api/metrics"
	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
)

// AuthHandler serves the login, signup and password-reset routes of one
// account kind.
type AuthHandler struct {
	authService ports.AuthService
	kind        domain.Kind
	links       Links
}

func NewAuthHandler(authService ports.AuthService, kind domain.Kind, links Links) *AuthHandler {
	return &AuthHandler{authService: authService, kind: kind, links: links}
}

type loginRequest struct {
	Email    string `json:"email" form:"email" label:"Email" validate:"required,email"`
	Password string `json:"password" form:"password" label:"Password" validate:"required,password"`
}

type signupRequest struct {
	Name       string `json:"name" form:"name" label:"Name" validate:"max=100"`
	FirstName  string `json:"first_name" form:"first_name" label:"First name" validate:"max=100"`
	LastName   string `json:"last_name" form:"last_name" label:"Last name" validate:"max=100"`
	Gender     string `json:"gender" form:"gender" label:"Gender" validate:"omitempty,oneof=Male Female Other"`
	RideType   string `json:"ride_type" form:"ride_type" label:"Ride type"`
	AutoNumber string `json:"auto_number" form:"auto_number" label:"Auto number"`
	Email      string `json:"email" form:"email" label:"Email" validate:"required,email"`
	Mobile     string `json:"mobile" form:"mobile" label:"Mobile number" validate:"required,mobile"`
	Password   string `json:"password" form:"password" label:"Password" validate:"required,password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email" label:"Email" validate:"omitempty,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" form:"password" label:"Password" validate:"required,password"`
}

type customerSummary struct {
	ID     int64         `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Mobile string        `json:"mobile"`
	Status domain.Status `json:"status"`
}

// Login authenticates an account and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Router       /admin/login [post]
// @Router       /api/customer/login [post]
// @Router       /api/driver/login [post]
func (h *AuthHandler) Login(c echo.Context) (err error) {
	defer h.observe("login", &err)

	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), h.kind, req.Email, req.Password)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Successfully logged in", map[string]any{
		"token":        res.Token,
		"expires_at":   res.ExpiresAt,
		string(h.kind): h.links.view(res.Account),
	})
}

// Signup registers a new account. Admin signup is a multipart form that must
// carry a profile_pic file; the other kinds accept JSON or a form.
//
// @Summary      Register an account
// @Tags         auth
// @Accept       json,mpfd
// @Produce      json
// @Param        body         body      signupRequest  true   "Account details"
// @Param        profile_pic  formData  file           false  "Profile picture (required for admins)"
// @Success      201          {object}  Envelope
// @Failure      400          {object}  Envelope
// @Failure      409          {object}  Envelope
// @Router       /admin/signup [post]
// @Router       /api/customer/signup [post]
// @Router       /api/driver/signup [post]
func (h *AuthHandler) Signup(c echo.Context) (err error) {
	defer h.observe("signup", &err)

	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.requireNames(req); err != nil {
		return err
	}

	in := ports.SignupInput{
		Kind:       h.kind,
		Name:       req.Name,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Gender:     req.Gender,
		RideType:   req.RideType,
		AutoNumber: req.AutoNumber,
		Email:      req.Email,
		Mobile:     req.Mobile,
		Password:   req.Password,
	}

	pic, closeFn, err := profilePic(c)
	if err != nil {
		return err
	}
	defer closeFn()
	in.ProfilePic = pic

	acc, err := h.authService.Signup(c.Request().Context(), in)
	if err != nil {
		return err
	}
	metrics.AccountsRegisteredTotal.WithLabelValues(string(h.kind)).Inc()

	msg := h.kind.Label() + " registered successfully"
	switch h.kind {
	case domain.KindAdmin:
		return respond(c, http.StatusCreated, msg, map[string]any{
			"admin_id":    acc.ID,
			"profile_pic": h.links.ProfilePic(acc.Kind, acc.ProfilePic),
		})
	case domain.KindCustomer:
		return respond(c, http.StatusCreated, msg, map[string]any{
			"customer": customerSummary{ID: acc.ID, Name: acc.Name, Email: acc.Email, Mobile: acc.Mobile, Status: acc.Status},
		})
	default:
		return respond(c, http.StatusCreated, msg, map[string]any{
			string(h.kind): h.links.view(acc),
		})
	}
}

func (h *AuthHandler) requireNames(req signupRequest) error {
	if h.kind == domain.KindDriver {
		if strings.TrimSpace(req.FirstName) == "" {
			return domain.Fail(domain.ErrValidation, "First name is required")
		}
		if strings.TrimSpace(req.LastName) == "" {
			return domain.Fail(domain.ErrValidation, "Last name is required")
		}
		return nil
	}
	if strings.TrimSpace(req.Name) == "" {
		return domain.Fail(domain.ErrValidation, "Name is required")
	}
	return nil
}

// profilePic returns the optional profile_pic upload of a multipart request.
func profilePic(c echo.Context) (*ports.ImageUpload, func(), error) {
	nop := func() {}
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nop, nil
	}
	fh, err := c.FormFile("profile_pic")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nop, nil
		}
		return nil, nop, domain.Fail(domain.ErrValidation, "Invalid profile picture upload")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nop, domain.Fail(domain.ErrValidation, "Invalid profile picture upload")
	}
	return &ports.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

// ForgotPassword mails a reset link to the account holder.
//
// @Summary      Request a password reset link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      500   {object}  Envelope
// @Router       /admin/forget-password [post]
// @Router       /api/customer/forget-password [post]
// @Router       /api/driver/forget-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) (err error) {
	defer h.observe("forgot_password", &err)

	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ForgotPassword(c.Request().Context(), h.kind, req.Email); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Password reset link sent successfully to your email", nil)
}

// ResetPassword sets a new password using the token from the reset link.
//
// @Summary      Reset a password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  Envelope
// @Failure      400    {object}  Envelope
// @Failure      401    {object}  Envelope
// @Failure      404    {object}  Envelope
// @Router       /admin/reset-password/{token} [post]
// @Router       /api/customer/reset-password/{token} [post]
// @Router       /api/driver/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) (err error) {
	defer h.observe("reset_password", &err)

	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.Request().Context(), h.kind, c.Param("token"), req.Password); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Password reset successfully", nil)
}

func (h *AuthHandler) observe(op string, err *error) {
	metrics.AuthAttemptsTotal.WithLabelValues(string(h.kind), op, metrics.Result(*err)).Inc()
}
