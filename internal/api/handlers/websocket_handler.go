package handlers

import (
	"context"
	"log/slog"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/middleware"
	"github.com/welldanyogia/stitchdesk-backend/internal/api/response"
	apperrors "github.com/welldanyogia/stitchdesk-backend/internal/errors"
	"github.com/welldanyogia/stitchdesk-backend/internal/auth"
	"github.com/welldanyogia/stitchdesk-backend/internal/logger"
	"github.com/welldanyogia/stitchdesk-backend/internal/websocket"
)

// WebSocketHandler upgrades authenticated connections to the order feed
type WebSocketHandler struct {
	ctx           context.Context
	hub           *websocket.Hub
	upgrader      gorillaws.Upgrader
	authenticator auth.Authenticator
	sec           *logger.SecurityLogger
	logger        *slog.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler. Client read loops are
// bound to ctx rather than to the upgrade request.
func NewWebSocketHandler(
	ctx context.Context,
	hub *websocket.Hub,
	upgrader gorillaws.Upgrader,
	authenticator auth.Authenticator,
	sec *logger.SecurityLogger,
	logger *slog.Logger,
) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		ctx:           ctx,
		hub:           hub,
		upgrader:      upgrader,
		authenticator: authenticator,
		sec:           sec,
		logger:        logger,
	}
}

// Connect handles GET /ws. Browsers cannot set headers on a websocket
// handshake, so the token may also come from the token query parameter.
func (h *WebSocketHandler) Connect(c echo.Context) error {
	token := middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if token == "" {
		token = c.QueryParam("token")
	}

	caller, err := h.authenticator.Authenticate(token)
	if err != nil {
		if h.sec != nil {
			h.sec.AuthFailure(c.RealIP(), c.Request().URL.Path, "invalid_token")
		}
		return response.Error(c, apperrors.Unauthenticated("authentication required"))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return nil
	}

	client := websocket.NewClient(h.hub, conn, caller.UserID, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.ctx)

	return nil
}
