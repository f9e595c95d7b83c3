package websocket

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"github.com/welldanyogia/stitchdesk-backend/internal/logger"
)

// NewSecureUpgrader creates a WebSocket upgrader that only accepts the
// comma separated allowedOrigins. A "*" entry accepts any origin.
func NewSecureUpgrader(allowedOrigins string, sec *logger.SecurityLogger) websocket.Upgrader {
	origins := lo.Compact(lo.Map(strings.Split(allowedOrigins, ","), func(o string, _ int) string {
		return strings.TrimSpace(o)
	}))

	// Default to localhost if no origins configured
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	if lo.Contains(origins, "*") {
		return DefaultUpgrader()
	}

	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")

			// Allow same-origin requests (empty Origin)
			if origin == "" {
				return true
			}

			if lo.Contains(origins, origin) {
				return true
			}

			if sec != nil {
				sec.InvalidOrigin(r.RemoteAddr, origin)
			}
			return false
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// DefaultUpgrader returns an upgrader that allows all origins (for development)
func DefaultUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}
