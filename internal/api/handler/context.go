package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/goride/admin-api/internal/api/middleware"
	"github.com/goride/admin-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware.
// Its absence means the route was registered without Auth.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, _ := c.Get(middleware.PrincipalKey).(*domain.Principal)
	if p == nil {
		return domain.Principal{}, domain.Fail(domain.ErrInvalidToken, "Authorization token is required")
	}
	return *p, nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Fail(domain.ErrValidation, "Invalid id")
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Fail(domain.ErrValidation, "Invalid request payload")
	}
	return c.Validate(req)
}
