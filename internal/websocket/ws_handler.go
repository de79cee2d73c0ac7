package websocket

import (
	"net/http"
	"strings"

	"streamify-backend/internal/util"
	"streamify-backend/pkg/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS authenticates and upgrades a websocket request. The token is
// accepted as a query parameter (browsers cannot set headers on
// websocket dials), a bearer header, or the session cookie.
func ServeWS(hub *Hub, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			authHeader := r.Header.Get("Authorization")
			if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
		if token == "" {
			if cookie, err := r.Cookie("jwt"); err == nil {
				token = cookie.Value
			}
		}

		if token == "" {
			http.Error(w, "Authorization token required", http.StatusUnauthorized)
			return
		}

		claims, err := util.ValidateToken(token, jwtSecret)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := NewClient(hub, conn, claims.UserID)
		client.hub.register <- client
		logger.Log.Debug("websocket connected",
			zap.String("user_id", claims.UserID),
			zap.Int("connections", hub.ClientCount(claims.UserID)))

		go client.Start()
	}
}
