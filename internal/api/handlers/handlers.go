// Package handlers contains the HTTP handlers of the Stitchdesk API.
package handlers

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/middleware"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/response"
	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
	"github.com/welldanyogia/stitchdesk-backend/internal/logger"
)

// callerID returns the authenticated user behind c
func callerID(c echo.Context) (uuid.UUID, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok || caller.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return caller.UserID, true
}

// fail writes err and records policy denials as security events
func fail(c echo.Context, sec *logger.SecurityLogger, err error, resource, action string) error {
	if sec != nil && errors.Is(err, apperrors.ErrForbidden) {
		user, _ := callerID(c)
		sec.PolicyDenied(c.RealIP(), c.Request().URL.Path, user.String(), resource, action)
	}
	return response.Error(c, err)
}
