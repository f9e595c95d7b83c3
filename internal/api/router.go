package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/stitchdesk-backend/internal/access"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/handlers"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/middleware"
	"github.com/welldanyogia/stitchdesk-backend/internal/auth"
	"github.com/welldanyogia/stitchdesk-backend/internal/logger"
	"github.com/welldanyogia/stitchdesk-backend/internal/services"
	"github.com/welldanyogia/stitchdesk-backend/internal/storage"
	"gorm.io/gorm"
)

// DefaultBodyLimit leaves room for a 20 MB attachment plus multipart framing
const DefaultBodyLimit = "25M"

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB      *gorm.DB
	Storage storage.ObjectStorage
	// LocalFiles is set when the local driver is active; its objects are
	// served under /files/
	LocalFiles *storage.LocalStorage

	Authenticator auth.Authenticator
	Authorizer    access.Authorizer
	Attachments   services.AttachmentService
	ProductImages services.ProductImageService
	Payments      services.PaymentService
	WebSocket     *handlers.WebSocketHandler

	Logger   *slog.Logger
	Security *logger.SecurityLogger

	// Security configuration
	AllowedOrigins string                    // Comma separated CORS origins
	Production     bool                      // Drops wildcard origins
	RateLimiter    *middleware.IPRateLimiter // nil disables rate limiting
	BodyLimit      string                    // e.g. "25M"; empty uses DefaultBodyLimit
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Security Middleware (applied in correct order)
	// 1. Recover from panics
	e.Use(middleware.Recover())

	// 2. Security headers (applied to all responses)
	e.Use(middleware.SecureHeaders())

	// 3. CORS answers preflight before auth runs
	e.Use(middleware.SecureCORS(cfg.AllowedOrigins, cfg.Production))

	// 4. Rate limiting
	if cfg.RateLimiter != nil {
		e.Use(middleware.RateLimiter(cfg.RateLimiter, cfg.Security))
	}

	// 5. Request logging
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	// 6. Body limit
	bodyLimit := cfg.BodyLimit
	if bodyLimit == "" {
		bodyLimit = DefaultBodyLimit
	}
	e.Use(middleware.BodyLimit(bodyLimit))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Storage)
	attachmentHandler := handlers.NewAttachmentHandler(cfg.Attachments, cfg.Security)
	productImageHandler := handlers.NewProductImageHandler(cfg.ProductImages, cfg.Security)
	orderHandler := handlers.NewOrderHandler(cfg.Authorizer, cfg.Payments, cfg.Security)
	webhookHandler := handlers.NewWebhookHandler(cfg.Payments, cfg.Security)

	// Health routes (no auth required)
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// Provider callbacks authenticate with the payload hash
	e.POST("/webhooks/payments", webhookHandler.Payments)

	// Signed links authenticate with their query signature
	if cfg.LocalFiles != nil {
		filesHandler := handlers.NewFilesHandler(cfg.LocalFiles, cfg.Security)
		e.GET(storage.FilesRoute+"*", filesHandler.Serve)
	}

	// The websocket handshake carries its own token
	if cfg.WebSocket != nil {
		e.GET("/ws", cfg.WebSocket.Connect)
	}

	// API routes
	api := e.Group("/api")
	api.Use(middleware.BearerAuth(cfg.Authenticator, cfg.Security))

	// Attachment routes
	api.POST("/attachments", attachmentHandler.Upload)
	api.GET("/attachments", attachmentHandler.Retrieve)
	api.DELETE("/attachments", attachmentHandler.Delete)

	// Product image routes
	api.POST("/product-images", productImageHandler.Upload)
	api.DELETE("/product-images", productImageHandler.Delete)

	// Order routes
	orders := api.Group("/orders")
	orders.GET("/:id/access", orderHandler.Access)
	orders.GET("/:id/attachments", attachmentHandler.List)
	orders.POST("/:id/payment-link", orderHandler.PaymentLink)

	return e
}
