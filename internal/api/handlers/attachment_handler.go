package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/response"
	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
	"github.com/welldanyogia/stitchdesk-backend/internal/logger"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
	"github.com/welldanyogia/stitchdesk-backend/internal/services"
	"github.com/welldanyogia/stitchdesk-backend/internal/validator"
)

// AttachmentHandler handles order attachment HTTP requests
type AttachmentHandler struct {
	service services.AttachmentService
	sec     *logger.SecurityLogger
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(service services.AttachmentService, sec *logger.SecurityLogger) *AttachmentHandler {
	return &AttachmentHandler{service: service, sec: sec}
}

// UploadResponse is returned after a successful upload
type UploadResponse struct {
	Success    bool                    `json:"success"`
	Attachment *models.OrderAttachment `json:"attachment"`
	S3Key      string                  `json:"s3Key"`
}

// Upload handles POST /api/attachments
func (h *AttachmentHandler) Upload(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Error(c, apperrors.Unauthenticated("authentication required"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "file is required")
	}

	orderID, err := validator.ParseID(c.FormValue("orderId"))
	if err != nil {
		return response.BadRequest(c, "orderId is required and must be a valid id")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "failed to read uploaded file")
	}
	defer file.Close()

	attachment, err := h.service.Upload(c.Request().Context(), userID, orderID, services.FileUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		if h.sec != nil && errors.Is(err, apperrors.ErrFileTooLarge) {
			h.sec.BlockedFileUpload(c.RealIP(), fileHeader.Filename, "file_too_large")
		}
		return fail(c, h.sec, err, orderID.String(), "upload")
	}

	return c.JSON(http.StatusOK, UploadResponse{
		Success:    true,
		Attachment: attachment,
		S3Key:      attachment.StorageKey,
	})
}

// Retrieve handles GET /api/attachments?attachmentId=
func (h *AttachmentHandler) Retrieve(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Error(c, apperrors.Unauthenticated("authentication required"))
	}

	attachmentID, err := validator.ParseID(c.QueryParam("attachmentId"))
	if err != nil {
		return response.BadRequest(c, "attachmentId is required and must be a valid id")
	}

	download, err := h.service.Retrieve(c.Request().Context(), userID, attachmentID)
	if err != nil {
		return fail(c, h.sec, err, attachmentID.String(), "view")
	}

	return c.JSON(http.StatusOK, download)
}

// Delete handles DELETE /api/attachments?attachmentId=
func (h *AttachmentHandler) Delete(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Error(c, apperrors.Unauthenticated("authentication required"))
	}

	attachmentID, err := validator.ParseID(c.QueryParam("attachmentId"))
	if err != nil {
		return response.BadRequest(c, "attachmentId is required and must be a valid id")
	}

	if err := h.service.Delete(c.Request().Context(), userID, attachmentID); err != nil {
		return fail(c, h.sec, err, attachmentID.String(), "delete")
	}

	return response.SuccessWithMessage(c, nil, "attachment deleted")
}

// List handles GET /api/orders/:id/attachments
func (h *AttachmentHandler) List(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Error(c, apperrors.Unauthenticated("authentication required"))
	}

	orderID, err := validator.ParseID(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid order ID")
	}

	attachments, err := h.service.ListByOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return fail(c, h.sec, err, orderID.String(), "view")
	}

	return response.Success(c, attachments)
}
