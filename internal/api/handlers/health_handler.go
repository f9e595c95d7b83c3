package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/stitchdesk-backend/internal/database"
	"github.com/welldanyogia/stitchdesk-backend/internal/storage"
	"gorm.io/gorm"
)

const healthTimeout = 3 * time.Second

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	db    *gorm.DB
	store storage.ObjectStorage
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *gorm.DB, store storage.ObjectStorage) *HealthHandler {
	return &HealthHandler{db: db, store: store}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

func (h *HealthHandler) check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	services := map[string]string{"database": "healthy", "storage": "healthy"}
	healthy := true

	if err := database.Ping(ctx, h.db); err != nil {
		services["database"] = "unhealthy"
		healthy = false
	}
	if err := h.store.Ping(ctx); err != nil {
		services["storage"] = "unhealthy"
		healthy = false
	}

	return services, healthy
}

// Health handles GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	services, healthy := h.check(c.Request().Context())

	status, statusCode := "healthy", http.StatusOK
	if !healthy {
		status, statusCode = "unhealthy", http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, HealthResponse{
		Status:   status,
		Services: services,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c echo.Context) error {
	services, healthy := h.check(c.Request().Context())
	if !healthy {
		reason := "storage ping failed"
		if services["database"] != "healthy" {
			reason = "database ping failed"
		}
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": reason,
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
	})
}
