// Package realtime delivers freshly created notifications to live
// clients. Writers publish to a per-user Redis channel; each
// websocket connection owns one subscription and must close it on
// teardown, mirroring the subscribe/unsubscribe contract of the
// original snapshot listeners.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pandora-network/ideanet/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Hub struct {
	client *redis.Client
	logger *zap.Logger
}

func NewHub(redisURL string, logger *zap.Logger) (*Hub, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Hub{client: client, logger: logger}, nil
}

// NewHubWithClient wraps an existing client; tests pass a miniredis
// backed one.
func NewHubWithClient(client *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{client: client, logger: logger}
}

func (h *Hub) Close() error {
	return h.client.Close()
}

func channelFor(userID uuid.UUID) string {
	return "notif:" + userID.String()
}

// PublishNotification pushes a notification to the target user's
// channel. Delivery is best effort: a failure is logged, never
// surfaced to the write path that created the notification.
func (h *Hub) PublishNotification(ctx context.Context, n *models.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("marshal notification", zap.Error(err))
		return
	}
	if err := h.client.Publish(ctx, channelFor(n.UserID), payload).Err(); err != nil {
		h.logger.Warn("publish notification",
			zap.String("user_id", n.UserID.String()),
			zap.Error(err),
		)
	}
}

// Subscription is one live listener. The caller drains Messages and
// must Close when done; leaking it leaks the underlying Redis
// subscription.
type Subscription struct {
	pubsub *redis.PubSub
}

// Subscribe registers a listener for a user's notifications.
func (h *Hub) Subscribe(ctx context.Context, userID uuid.UUID) *Subscription {
	return &Subscription{pubsub: h.client.Subscribe(ctx, channelFor(userID))}
}

// Messages yields raw notification JSON payloads.
func (s *Subscription) Messages() <-chan *redis.Message {
	return s.pubsub.Channel()
}

func (s *Subscription) Close() error {
	return s.pubsub.Close()
}
