package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/middleware"
	"github.com/welldanyogia/stitchdesk-backend/internal/auth"
	"github.com/welldanyogia/stitchdesk-backend/internal/logger"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
	"github.com/welldanyogia/stitchdesk-backend/internal/services"
)

// mockAttachmentService implements services.AttachmentService
type mockAttachmentService struct {
	mock.Mock
}

func (m *mockAttachmentService) Upload(ctx context.Context, callerID, orderID uuid.UUID, file services.FileUpload) (*models.OrderAttachment, error) {
	args := m.Called(ctx, callerID, orderID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderAttachment), args.Error(1)
}

func (m *mockAttachmentService) Retrieve(ctx context.Context, callerID, attachmentID uuid.UUID) (*services.Download, error) {
	args := m.Called(ctx, callerID, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Download), args.Error(1)
}

func (m *mockAttachmentService) Delete(ctx context.Context, callerID, attachmentID uuid.UUID) error {
	args := m.Called(ctx, callerID, attachmentID)
	return args.Error(0)
}

func (m *mockAttachmentService) ListByOrder(ctx context.Context, callerID, orderID uuid.UUID) ([]models.OrderAttachment, error) {
	args := m.Called(ctx, callerID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrderAttachment), args.Error(1)
}

// mockProductImageService implements services.ProductImageService
type mockProductImageService struct {
	mock.Mock
}

func (m *mockProductImageService) Upload(ctx context.Context, callerID uuid.UUID, productID *uuid.UUID, file services.FileUpload) (*models.ProductImage, error) {
	args := m.Called(ctx, callerID, productID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductImage), args.Error(1)
}

func (m *mockProductImageService) Delete(ctx context.Context, callerID uuid.UUID, key string) error {
	args := m.Called(ctx, callerID, key)
	return args.Error(0)
}

// mockPaymentService implements services.PaymentService
type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) CreateLink(ctx context.Context, callerID, orderID uuid.UUID) (string, error) {
	args := m.Called(ctx, callerID, orderID)
	return args.String(0), args.Error(1)
}

func (m *mockPaymentService) HandleWebhook(ctx context.Context, form url.Values) (*models.PaymentEvent, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentEvent), args.Error(1)
}

func newSecurityLogger() (*logger.SecurityLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.NewSecurityLoggerWithHandler(slog.NewJSONHandler(&buf, nil)), &buf
}

// asCaller stands in for BearerAuth
func asCaller(userID uuid.UUID) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID != uuid.Nil {
				middleware.SetCaller(c, auth.Caller{UserID: userID})
			}
			return next(c)
		}
	}
}

func multipartBody(fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	if filename != "" {
		part, _ := writer.CreateFormFile("file", filename)
		part.Write(content)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
