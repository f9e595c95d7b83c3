package handlers

import (
	"errors"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/response"
	"github.com/welldanyogia/stitchdesk-backend/internal/logger"
	"github.com/welldanyogia/stitchdesk-backend/internal/storage"
)

// FilesHandler serves objects of the local storage driver through signed links
type FilesHandler struct {
	store *storage.LocalStorage
	sec   *logger.SecurityLogger
}

// NewFilesHandler creates a new FilesHandler
func NewFilesHandler(store *storage.LocalStorage, sec *logger.SecurityLogger) *FilesHandler {
	return &FilesHandler{store: store, sec: sec}
}

// Serve handles GET /files/*
func (h *FilesHandler) Serve(c echo.Context) error {
	key := c.Param("*")

	file, err := h.store.Open(key, c.QueryParam("expires"), c.QueryParam("sig"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrPathTraversal):
			if h.sec != nil {
				h.sec.PathTraversalAttempt(c.RealIP(), c.Request().URL.Path, key)
			}
			return response.BadRequest(c, "invalid file path")
		case storage.IsAccessError(err):
			if h.sec != nil {
				h.sec.SecurityEvent("signed_link_rejected", c.RealIP(), map[string]string{
					"key":    key,
					"reason": err.Error(),
				})
			}
			return response.Forbidden(c, "link is invalid or expired")
		case errors.Is(err, storage.ErrFileNotFound):
			return response.NotFound(c, "file not found")
		default:
			return response.Error(c, err)
		}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return response.Error(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+path.Base(key)+`"`)
	http.ServeContent(c.Response(), c.Request(), path.Base(key), info.ModTime(), file)
	return nil
}
