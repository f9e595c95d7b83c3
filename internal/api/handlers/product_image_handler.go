package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/response"
	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
	"github.com/welldanyogia/stitchdesk-backend/internal/logger"
	"github.com/welldanyogia/stitchdesk-backend/internal/services"
	"github.com/welldanyogia/stitchdesk-backend/internal/validator"
)

// ProductImageHandler handles catalog image HTTP requests
type ProductImageHandler struct {
	service services.ProductImageService
	sec     *logger.SecurityLogger
}

// NewProductImageHandler creates a new ProductImageHandler
func NewProductImageHandler(service services.ProductImageService, sec *logger.SecurityLogger) *ProductImageHandler {
	return &ProductImageHandler{service: service, sec: sec}
}

// ProductImageResponse is returned after a successful image upload
type ProductImageResponse struct {
	Success   bool   `json:"success"`
	PublicURL string `json:"publicUrl"`
	S3Key     string `json:"s3Key"`
}

// Upload handles POST /api/product-images
func (h *ProductImageHandler) Upload(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Error(c, apperrors.Unauthenticated("authentication required"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "file is required")
	}

	var productID *uuid.UUID
	if raw := strings.TrimSpace(c.FormValue("productId")); raw != "" {
		id, err := validator.ParseID(raw)
		if err != nil {
			return response.BadRequest(c, "productId must be a valid id")
		}
		productID = &id
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "failed to read uploaded file")
	}
	defer file.Close()

	image, err := h.service.Upload(c.Request().Context(), userID, productID, services.FileUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		if h.sec != nil && errors.Is(err, apperrors.ErrFileTooLarge) {
			h.sec.BlockedFileUpload(c.RealIP(), fileHeader.Filename, "file_too_large")
		}
		return fail(c, h.sec, err, "catalog", "upload")
	}

	return c.JSON(http.StatusOK, ProductImageResponse{
		Success:   true,
		PublicURL: image.PublicURL,
		S3Key:     image.StorageKey,
	})
}

// Delete handles DELETE /api/product-images?s3Key=
func (h *ProductImageHandler) Delete(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Error(c, apperrors.Unauthenticated("authentication required"))
	}

	key := strings.TrimSpace(c.QueryParam("s3Key"))
	if key == "" {
		return response.BadRequest(c, "s3Key is required")
	}

	if err := h.service.Delete(c.Request().Context(), userID, key); err != nil {
		return fail(c, h.sec, err, "catalog", "delete")
	}

	return response.SuccessWithMessage(c, nil, "product image deleted")
}
