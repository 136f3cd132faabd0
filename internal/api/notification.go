package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pandora-network/ideanet/internal/middleware"
	"github.com/pandora-network/ideanet/internal/realtime"
	"github.com/pandora-network/ideanet/internal/repository"
	"go.uber.org/zap"
)

// notificationPageSize caps the inbox view at the 20 most recent
// records.
const notificationPageSize = 20

type NotificationHandler struct {
	notifs   repository.NotificationRepository
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewNotificationHandler(notifs repository.NotificationRepository, hub *realtime.Hub, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifs: notifs,
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// List handles GET /v1/notifications: newest first, capped. The
// unread count is derived client-side from the read flags.
func (h *NotificationHandler) List(c *gin.Context) {
	notifs, err := h.notifs.ListByUser(c.Request.Context(), middleware.GetUserID(c), notificationPageSize)
	if err != nil {
		h.logger.Error("failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, notifs)
}

// MarkRead handles POST /v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notifID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.notifs.MarkRead(c.Request.Context(), notifID); err != nil {
		h.logger.Error("failed to mark notification read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification read"})
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /v1/notifications/read-all: one
// multi-record write flipping every unread flag.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notifs.MarkAllRead(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to mark all notifications read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Stream handles GET /v1/notifications/ws: a live notification
// feed. The subscription lives exactly as long as the websocket: the
// deferred Close tears down the Redis listener when the client goes
// away, which is the unsubscribe half of the snapshot-listener
// contract.
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID := middleware.GetUserID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket", zap.Error(err))
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(c.Request.Context(), userID)
	defer sub.Close()

	// Reader goroutine: we never expect client frames, but reading is
	// the only way to notice the peer closing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-sub.Messages():
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
