package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the specified stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event PushEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
	stream string
}

// NewPublisher creates a Publisher writing to stream ("" means StreamPush).
func NewPublisher(client *redis.Client, stream string) *RedisPublisher {
	if stream == "" {
		stream = StreamPush
	}
	return &RedisPublisher{client: client, stream: stream}
}

// Publish adds an event to the stream using XADD.
// Uses "*" for auto-generated message ID (timestamp-sequence).
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event PushEvent) (string, error) {
	startTime := time.Now()

	values, err := event.ToMap()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()

	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.Printf("[Publisher] Publish OK: stream=%s type=%s id=%s msgID=%s duration=%v",
		stream, event.Type, event.ID, messageID, time.Since(startTime))
	return messageID, nil
}

// PublishMessage publishes a data-only push message on the configured stream.
func (p *RedisPublisher) PublishMessage(ctx context.Context, data map[string]string) (string, error) {
	return p.Publish(ctx, p.stream, NewMessageEvent(data))
}

// PublishOpened publishes a notification tap on the configured stream.
func (p *RedisPublisher) PublishOpened(ctx context.Context, n model.Notification) (string, error) {
	return p.Publish(ctx, p.stream, NewOpenedEvent(n))
}
