package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
)

func setupTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

func TestSuccess_Returns200WithData(t *testing.T) {
	c, rec := setupTestContext()

	err := Success(c, map[string]string{"key": "value"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
}

func TestSuccessWithMessage_Returns200WithMessage(t *testing.T) {
	c, rec := setupTestContext()

	err := SuccessWithMessage(c, map[string]string{"key": "value"}, "Operation successful")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Operation successful", resp.Message)
}

func TestNoContent_Returns204(t *testing.T) {
	c, rec := setupTestContext()

	require.NoError(t, NoContent(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestError_ReturnsCorrectStatusCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unauthenticated", apperrors.Unauthenticated("missing token"), http.StatusUnauthorized, apperrors.CodeUnauthorized},
		{"forbidden", apperrors.Forbidden("access denied"), http.StatusForbidden, apperrors.CodeForbidden},
		{"not found", apperrors.NotFound(apperrors.ErrAttachmentNotFound), http.StatusNotFound, apperrors.CodeNotFound},
		{"invalid input", apperrors.InvalidInput("file is required"), http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"invalid signature", apperrors.ErrInvalidSignature, http.StatusBadRequest, apperrors.CodeInvalidSignature},
		{"upstream", apperrors.Upstream("put object", errors.New("timeout")), http.StatusInternalServerError, apperrors.CodeInternalError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := setupTestContext()

			require.NoError(t, Error(c, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestError_HidesUpstreamDetail(t *testing.T) {
	c, rec := setupTestContext()

	err := apperrors.Upstream("insert attachment", errors.New("pq: password authentication failed for user admin"))
	require.NoError(t, Error(c, err))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Contains(t, rec.Body.String(), genericInternalMessage)
}

func TestShortcuts_ReturnExpectedStatus(t *testing.T) {
	tests := []struct {
		name   string
		call   func(c echo.Context) error
		status int
		code   string
	}{
		{"bad request", func(c echo.Context) error { return BadRequest(c, "bad") }, http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"forbidden", func(c echo.Context) error { return Forbidden(c, "no") }, http.StatusForbidden, apperrors.CodeForbidden},
		{"not found", func(c echo.Context) error { return NotFound(c, "missing") }, http.StatusNotFound, apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := setupTestContext()

			require.NoError(t, tt.call(c))
			assert.Equal(t, tt.status, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}
