package notify

import (
	"context"
	"encoding/json"
	"time"

	"booking-engine/internal/infra"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisNotifier publishes notification events to a Redis channel for an
// external delivery worker to pick up. The core treats publication as
// fire-and-forget: a failed publish is logged by the caller and never fails
// the booking.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

type notificationEvent struct {
	UserID  uuid.UUID `json:"user_id"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

func (n *RedisNotifier) Notify(ctx context.Context, userID uuid.UUID, subject, body string) error {
	payload, err := json.Marshal(notificationEvent{
		UserID:  userID,
		Subject: subject,
		Body:    body,
		SentAt:  time.Now().UTC(),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to encode notification event", err)
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return infra.WrapRepoErr("failed to publish notification event", err)
	}
	return nil
}
