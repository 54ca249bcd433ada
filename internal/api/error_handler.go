package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/goride/admin-api/internal/api/handler"
	"github.com/goride/admin-api/internal/api/metrics"
	"github.com/goride/admin-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - maps domain sentinels to their HTTP status and client message,
//   - logs unexpected errors without leaking them to the client,
//   - renders the failure envelope {code: 0, status, message, data: null}.
//
// With exposeErrors set, 500 responses also carry the underlying error text.
func NewHTTPErrorHandler(log zerolog.Logger, exposeErrors bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		body := handler.Failure(code, msg, "")
		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
			if exposeErrors {
				body.Error = err.Error()
			}
		}
		metrics.HTTPErrorsTotal.WithLabelValues(strconv.Itoa(code)).Inc()

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

var sentinelStatus = []struct {
	err      error
	code     int
	fallback string
}{
	{domain.ErrValidation, http.StatusBadRequest, "Invalid request"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
	{domain.ErrAccountInactive, http.StatusForbidden, "Your account is Inactive. Please contact support."},
	{domain.ErrAccountDeleted, http.StatusForbidden, "Your account has been Deleted."},
	{domain.ErrForbidden, http.StatusForbidden, "Access forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, "Not found"},
	{domain.ErrDuplicateCredential, http.StatusConflict, "Email or Mobile number already exists"},
}

func resolveError(err error) (int, string) {
	// Echo's own errors (router 404/405, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, httpErrorMessage(he)
	}

	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			if msg, ok := domain.MessageOf(err); ok {
				return s.code, msg
			}
			return s.code, s.fallback
		}
	}

	return http.StatusInternalServerError, "Internal Server Error"
}

func httpErrorMessage(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case nil:
		return http.StatusText(he.Code)
	default:
		return fmt.Sprintf("%v", m)
	}
}
