package transport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"entuKaart/internal/modules/feed/domain"
	"entuKaart/internal/modules/feed/infrastructure"
	"entuKaart/internal/shared/auth"
	"entuKaart/internal/shared/httputil"
)

const anonymousUser = "anonymous"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var authErrors = httputil.NewErrorMapper().
	WithMapping(auth.ErrMissingToken, http.StatusUnauthorized, "missing token").
	WithMapping(auth.ErrInvalidToken, http.StatusUnauthorized, "invalid token").
	WithDefault(http.StatusUnauthorized, "unauthorized")

// NewSetupFeedHandler exposes /ws/setup. A nil validator leaves the feed open.
// The optional runId query parameter limits the stream to one setup run.
func NewSetupFeedHandler(hub *infrastructure.Hub, validator auth.TokenValidator) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		runID := strings.TrimSpace(c.QueryParam("runId"))

		userID := anonymousUser
		var roles []string
		if validator != nil {
			claims, err := validator.Validate(auth.ExtractToken(c.Request(), "token"))
			if err != nil {
				info := authErrors.Map(err)
				slog.Warn("ws setup feed rejected", slog.String("ip", c.RealIP()), slog.String("requestId", requestID), slog.Any("error", err))
				return echo.NewHTTPError(info.Status, info.Message)
			}
			userID = claims.Subject
			roles = claims.Roles
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			// the upgrader has already written the error response
			slog.Error("ws setup feed upgrade failed", slog.String("requestId", requestID), slog.Any("error", err))
			return nil
		}

		sessionID := uuid.NewString()
		topics := domain.SetupTopics()
		client := infrastructure.NewClient(hub, conn, userID, sessionID, runID, 16)
		hub.AttachClient(client, topics)

		go client.WritePump()
		go client.ReadPump()

		client.SendDomainMessage(&domain.Message{
			Topic:  domain.TopicSystemConnected,
			Entity: domain.SystemEntity,
			Action: domain.ActionConnected,
			Metadata: map[string]string{
				"userId":    userID,
				"sessionId": sessionID,
				"runId":     runID,
			},
			Data: map[string]any{
				"allowedTopics": topics,
				"roles":         roles,
			},
			Timestamp: time.Now().UTC(),
		})
		slog.Info("ws setup feed connected", slog.String("userId", userID), slog.String("sessionId", sessionID), slog.String("runId", runID), slog.String("ip", c.RealIP()))
		return nil
	}
}
