package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
	"github.com/welldanyogia/stitchdesk-backend/internal/payment"
)

func postWebhook(e *echo.Echo, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return serve(e, req)
}

func TestWebhookHandler_InvalidSignature(t *testing.T) {
	payments := new(mockPaymentService)
	sec, buf := newSecurityLogger()
	e := echo.New()
	e.POST("/webhooks/payments", NewWebhookHandler(payments, sec).Payments)

	form := url.Values{payment.FieldExternalRef: {"SD-1001"}, payment.HashField: {"forged"}}
	payments.On("HandleWebhook", mock.Anything, mock.Anything).Return(nil, apperrors.ErrInvalidSignature)

	rec := postWebhook(e, form)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid signature"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "webhook_signature")
	assert.NotContains(t, buf.String(), "forged")
}

func TestWebhookHandler_Recorded(t *testing.T) {
	payments := new(mockPaymentService)
	e := echo.New()
	e.POST("/webhooks/payments", NewWebhookHandler(payments, nil).Payments)

	form := url.Values{payment.FieldOrderStatus: {"COMPLETE"}}
	payments.On("HandleWebhook", mock.Anything, mock.MatchedBy(func(v url.Values) bool {
		return v.Get(payment.FieldOrderStatus) == "COMPLETE"
	})).Return(&models.PaymentEvent{Outcome: "success"}, nil)

	rec := postWebhook(e, form)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"outcome":"success"`)
}
