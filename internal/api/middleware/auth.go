// Package middleware provides HTTP middleware for the Stitchdesk API.
package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/response"
	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
	"github.com/welldanyogia/stitchdesk-backend/internal/auth"
	"github.com/welldanyogia/stitchdesk-backend/internal/logger"
)

const callerKey = "caller"

// BearerAuth authenticates the Authorization bearer token and stores the
// caller on the context. Preflight requests never reach it since CORS
// answers them first.
func BearerAuth(authenticator auth.Authenticator, sec *logger.SecurityLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

			caller, err := authenticator.Authenticate(token)
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, auth.ErrMissingToken) {
					reason = "missing_token"
				}
				if sec != nil {
					sec.AuthFailure(c.RealIP(), c.Request().URL.Path, reason)
				}
				return response.Error(c, apperrors.Unauthenticated("authentication required"))
			}

			SetCaller(c, caller)
			return next(c)
		}
	}
}

// BearerToken extracts the token from a "Bearer <token>" header value
func BearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// SetCaller stores the authenticated caller on c
func SetCaller(c echo.Context, caller auth.Caller) {
	c.Set(callerKey, caller)
}

// CallerFrom returns the caller stored by BearerAuth
func CallerFrom(c echo.Context) (auth.Caller, bool) {
	caller, ok := c.Get(callerKey).(auth.Caller)
	return caller, ok
}
