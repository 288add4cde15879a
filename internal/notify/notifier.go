// Package notify fans ingestion bundles out to subscribers. Delivery is
// at-most-once and unordered; consumers needing reliability poll the
// persisted history instead.
package notify

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/mvelasco/aura/internal/domain"
)

// Publisher is the fan-out contract the ingestion pipeline publishes to.
type Publisher interface {
	Publish(ctx context.Context, roomID string, bundle domain.Bundle) error
}

// ChannelFor returns the pub/sub channel carrying a room's bundles.
func ChannelFor(roomID string) string {
	return "aura:room:" + roomID
}

// RedisNotifier publishes bundles to a per-room Redis pub/sub channel.
type RedisNotifier struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisNotifier wraps a Redis client as a Publisher.
func NewRedisNotifier(client *redis.Client, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, logger: logger}
}

// Publish sends the JSON-encoded bundle to the room's channel. Subscribers
// that are not listening simply miss the message.
func (n *RedisNotifier) Publish(ctx context.Context, roomID string, bundle domain.Bundle) error {
	payload, err := json.Marshal(bundle)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, ChannelFor(roomID), payload).Err()
}

// Nop is a Publisher that drops every bundle. Used when no channel is
// configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, domain.Bundle) error { return nil }

// Multi publishes to several targets; every target is attempted even when an
// earlier one fails.
type Multi []Publisher

// NewMulti combines publishers into one.
func NewMulti(targets ...Publisher) Multi { return Multi(targets) }

func (m Multi) Publish(ctx context.Context, roomID string, bundle domain.Bundle) error {
	var errs []error
	for _, target := range m {
		if err := target.Publish(ctx, roomID, bundle); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
