package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/stitchdesk-backend/internal/access"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/response"
	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
	"github.com/welldanyogia/stitchdesk-backend/internal/logger"
	"github.com/welldanyogia/stitchdesk-backend/internal/services"
	"github.com/welldanyogia/stitchdesk-backend/internal/validator"
)

// OrderHandler handles per-order access and checkout requests
type OrderHandler struct {
	authorizer access.Authorizer
	payments   services.PaymentService
	sec        *logger.SecurityLogger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(authorizer access.Authorizer, payments services.PaymentService, sec *logger.SecurityLogger) *OrderHandler {
	return &OrderHandler{authorizer: authorizer, payments: payments, sec: sec}
}

// PaymentLinkResponse carries the signed checkout redirect
type PaymentLinkResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirectUrl"`
}

// Access handles GET /api/orders/:id/access
func (h *OrderHandler) Access(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Error(c, apperrors.Unauthenticated("authentication required"))
	}

	orderID, err := validator.ParseID(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid order ID")
	}

	return response.Success(c, h.authorizer.Resolve(c.Request().Context(), userID, orderID))
}

// PaymentLink handles POST /api/orders/:id/payment-link
func (h *OrderHandler) PaymentLink(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Error(c, apperrors.Unauthenticated("authentication required"))
	}

	orderID, err := validator.ParseID(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "invalid order ID")
	}

	link, err := h.payments.CreateLink(c.Request().Context(), userID, orderID)
	if err != nil {
		return fail(c, h.sec, err, orderID.String(), "pay")
	}

	return c.JSON(http.StatusOK, PaymentLinkResponse{Success: true, RedirectURL: link})
}
