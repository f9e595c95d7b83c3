package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
	"github.com/welldanyogia/stitchdesk-backend/internal/models"
	"github.com/welldanyogia/stitchdesk-backend/internal/services"
)

// AttachmentHandlerTestSuite is the test suite for AttachmentHandler
type AttachmentHandlerTestSuite struct {
	suite.Suite
	echo    *echo.Echo
	service *mockAttachmentService
	log     *bytes.Buffer
	userID  uuid.UUID
}

// SetupTest runs before each test
func (s *AttachmentHandlerTestSuite) SetupTest() {
	s.service = new(mockAttachmentService)
	s.userID = uuid.New()
	s.mount(s.userID)
}

// SetupSubTest gives every table case a fresh service and log
func (s *AttachmentHandlerTestSuite) SetupSubTest() {
	s.SetupTest()
}

// TearDownTest runs after each test
func (s *AttachmentHandlerTestSuite) TearDownTest() {
	s.service.AssertExpectations(s.T())
}

// TearDownSubTest runs after each table case
func (s *AttachmentHandlerTestSuite) TearDownSubTest() {
	s.service.AssertExpectations(s.T())
}

// TestAttachmentHandlerTestSuite runs the test suite
func TestAttachmentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AttachmentHandlerTestSuite))
}

// mount routes the handler behind a caller of userID
func (s *AttachmentHandlerTestSuite) mount(userID uuid.UUID) {
	sec, buf := newSecurityLogger()
	h := NewAttachmentHandler(s.service, sec)

	s.echo = echo.New()
	s.log = buf
	g := s.echo.Group("/api", asCaller(userID))
	g.POST("/attachments", h.Upload)
	g.GET("/attachments", h.Retrieve)
	g.DELETE("/attachments", h.Delete)
	g.GET("/orders/:id/attachments", h.List)
}

func (s *AttachmentHandlerTestSuite) upload(fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	body, contentType := multipartBody(fields, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/attachments", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	return serve(s.echo, req)
}

func (s *AttachmentHandlerTestSuite) request(method, path string) *httptest.ResponseRecorder {
	return serve(s.echo, httptest.NewRequest(method, path, nil))
}

// ==================== Upload Tests ====================

func (s *AttachmentHandlerTestSuite) TestUpload_Success() {
	orderID := uuid.New()
	attachment := &models.OrderAttachment{ID: uuid.New(), OrderID: orderID, StorageKey: "orders/" + orderID.String() + "/k-logo.png"}
	s.service.On("Upload", mock.Anything, s.userID, orderID, mock.MatchedBy(func(f services.FileUpload) bool {
		return f.Filename == "logo.png" && f.Size == 4
	})).Return(attachment, nil)

	rec := s.upload(map[string]string{"orderId": orderID.String()}, "logo.png", []byte("\x89PNG"))

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp UploadResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Success)
	s.Equal(attachment.StorageKey, resp.S3Key)
	s.Equal(attachment.ID, resp.Attachment.ID)
}

func (s *AttachmentHandlerTestSuite) TestUpload_BadRequests() {
	tests := []struct {
		name     string
		fields   map[string]string
		filename string
	}{
		{"missing file", map[string]string{"orderId": uuid.NewString()}, ""},
		{"missing order id", map[string]string{}, "logo.png"},
		{"malformed order id", map[string]string{"orderId": "order-1"}, "logo.png"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.upload(tt.fields, tt.filename, []byte("data"))

			s.Equal(http.StatusBadRequest, rec.Code)
			s.service.AssertNotCalled(s.T(), "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func (s *AttachmentHandlerTestSuite) TestUpload_ServiceErrors() {
	tests := []struct {
		name      string
		err       error
		status    int
		logMarker string
	}{
		{"too large", apperrors.NewAppError(apperrors.ErrFileTooLarge, "file exceeds the 20 MB limit", apperrors.CodeInvalidInput), http.StatusBadRequest, "blocked_upload"},
		{"forbidden", apperrors.Forbidden("not allowed"), http.StatusForbidden, "policy_denied"},
		{"upstream", apperrors.Upstream("insert attachment", errors.New("db down")), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.service.On("Upload", mock.Anything, s.userID, mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := s.upload(map[string]string{"orderId": uuid.NewString()}, "logo.png", []byte("data"))

			s.Equal(tt.status, rec.Code)
			s.NotContains(rec.Body.String(), "db down")
			if tt.logMarker != "" {
				s.Contains(s.log.String(), tt.logMarker)
			}
		})
	}
}

// ==================== Auth Tests ====================

func (s *AttachmentHandlerTestSuite) TestUnauthenticated() {
	s.mount(uuid.Nil)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rec := s.request(method, "/api/attachments?attachmentId="+uuid.NewString())

		s.Equal(http.StatusUnauthorized, rec.Code, method)
		s.Contains(rec.Body.String(), apperrors.CodeUnauthorized)
	}
}

// ==================== Retrieve Tests ====================

func (s *AttachmentHandlerTestSuite) TestRetrieve_Success() {
	attachmentID := uuid.New()
	s.service.On("Retrieve", mock.Anything, s.userID, attachmentID).Return(&services.Download{
		URL:        "https://s3.example/signed",
		Attachment: &models.OrderAttachment{ID: attachmentID},
	}, nil)

	rec := s.request(http.MethodGet, "/api/attachments?attachmentId="+attachmentID.String())

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("https://s3.example/signed", resp["downloadUrl"])
	s.Contains(resp, "attachment")
}

func (s *AttachmentHandlerTestSuite) TestRetrieve_ServiceErrors() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.NotFound(apperrors.ErrAttachmentNotFound), http.StatusNotFound},
		{"forbidden", apperrors.Forbidden("no"), http.StatusForbidden},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			attachmentID := uuid.New()
			s.service.On("Retrieve", mock.Anything, s.userID, attachmentID).Return(nil, tt.err)

			rec := s.request(http.MethodGet, "/api/attachments?attachmentId="+attachmentID.String())

			s.Equal(tt.status, rec.Code)
		})
	}
}

func (s *AttachmentHandlerTestSuite) TestRetrieve_MissingID() {
	rec := s.request(http.MethodGet, "/api/attachments")

	s.Equal(http.StatusBadRequest, rec.Code)
}

// ==================== Delete Tests ====================

func (s *AttachmentHandlerTestSuite) TestDelete_Admin() {
	attachmentID := uuid.New()
	s.service.On("Delete", mock.Anything, s.userID, attachmentID).Return(nil)

	rec := s.request(http.MethodDelete, "/api/attachments?attachmentId="+attachmentID.String())

	s.Equal(http.StatusOK, rec.Code)
}

func (s *AttachmentHandlerTestSuite) TestDelete_NonAdmin() {
	attachmentID := uuid.New()
	s.service.On("Delete", mock.Anything, s.userID, attachmentID).Return(apperrors.Forbidden("no"))

	rec := s.request(http.MethodDelete, "/api/attachments?attachmentId="+attachmentID.String())

	s.Equal(http.StatusForbidden, rec.Code)
	s.Contains(s.log.String(), `"action":"delete"`)
}

// ==================== List Tests ====================

func (s *AttachmentHandlerTestSuite) TestList_Success() {
	orderID := uuid.New()
	s.service.On("ListByOrder", mock.Anything, s.userID, orderID).Return([]models.OrderAttachment{{OrderID: orderID}}, nil)

	rec := s.request(http.MethodGet, "/api/orders/"+orderID.String()+"/attachments")

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), orderID.String())
}
