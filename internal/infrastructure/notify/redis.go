// Package notify implements the notification outbox. Delivery itself
// is an external capability; this package only queues envelopes where
// that capability picks them up.
package notify

import (
	"context"
	"encoding/json"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskbuddy/backend/usecase"
)

// Envelope is the queued notification payload.
type Envelope struct {
	RecipientID    string    `json:"recipient_id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	CorrelationTag string    `json:"correlation_tag"`
	QueuedAt       time.Time `json:"queued_at"`
}

// RedisOutbox pushes envelopes onto a per-recipient Redis list.
type RedisOutbox struct {
	client *redislib.Client
	ttl    time.Duration
}

func NewRedisOutbox(client *redislib.Client, ttl time.Duration) *RedisOutbox {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisOutbox{client: client, ttl: ttl}
}

func (o *RedisOutbox) Send(ctx context.Context, recipientID, title, body, correlationTag string) error {
	env := Envelope{
		RecipientID:    recipientID,
		Title:          title,
		Body:           body,
		CorrelationTag: correlationTag,
		QueuedAt:       time.Now(),
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	key := o.key(recipientID)
	if err := o.client.LPush(ctx, key, payload).Err(); err != nil {
		return err
	}
	return o.client.Expire(ctx, key, o.ttl).Err()
}

// Dismiss removes every pending envelope whose correlation tag names
// the given sender.
func (o *RedisOutbox) Dismiss(ctx context.Context, recipientID, senderID string) error {
	key := o.key(recipientID)
	entries, err := o.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		var env Envelope
		if err := json.Unmarshal([]byte(entry), &env); err != nil {
			continue
		}
		if env.CorrelationTag == senderID {
			if err := o.client.LRem(ctx, key, 0, entry).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *RedisOutbox) key(recipientID string) string {
	return "notify:" + recipientID
}

var _ usecase.Notifier = (*RedisOutbox)(nil)
