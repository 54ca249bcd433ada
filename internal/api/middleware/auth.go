package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/goride/admin-api/internal/core/domain"
)

// PrincipalKey is the echo context key holding the authenticated *domain.Principal.
const PrincipalKey = "principal"

// Authenticator verifies a bearer token and returns its owner.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// Auth validates the session token and injects the principal into context.
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.Fail(domain.ErrInvalidToken, "Authorization token is required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.Fail(domain.ErrInvalidToken, "Invalid authorization header")
			}

			p, err := authn.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}

			c.Set(PrincipalKey, p)
			return next(c)
		}
	}
}

// RequireKind admits only principals of the given account kinds. It must run
// after Auth.
func RequireKind(kinds ...domain.Kind) echo.MiddlewareFunc {
	allowed := make(map[domain.Kind]struct{}, len(kinds))
	for _, k := range kinds {
		allowed[k] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, _ := c.Get(PrincipalKey).(*domain.Principal)
			if p == nil {
				return domain.Fail(domain.ErrInvalidToken, "Authorization token is required")
			}
			if _, ok := allowed[p.Kind]; !ok {
				return domain.Fail(domain.ErrForbidden, "You are not allowed to access this resource")
			}
			return next(c)
		}
	}
}
