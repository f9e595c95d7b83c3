package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/response"
	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
	"github.com/welldanyogia/stitchdesk-backend/internal/logger"
	"github.com/welldanyogia/stitchdesk-backend/internal/payment"
	"github.com/welldanyogia/stitchdesk-backend/internal/services"
)

// WebhookHandler receives payment provider notifications. It sits outside
// the bearer-authenticated group; the payload hash authenticates it.
type WebhookHandler struct {
	payments services.PaymentService
	sec      *logger.SecurityLogger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(payments services.PaymentService, sec *logger.SecurityLogger) *WebhookHandler {
	return &WebhookHandler{payments: payments, sec: sec}
}

// Payments handles POST /webhooks/payments
func (h *WebhookHandler) Payments(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return response.BadRequest(c, "invalid form payload")
	}

	event, err := h.payments.HandleWebhook(c.Request().Context(), form)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidSignature) {
			if h.sec != nil {
				h.sec.WebhookSignatureMismatch(c.RealIP(), form.Get(payment.FieldExternalRef))
			}
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid signature"})
		}
		return response.Error(c, err)
	}

	return response.Success(c, event)
}
