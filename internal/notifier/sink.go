package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Sink delivers events to whatever is listening for them.
type Sink interface {
	Deliver(ctx context.Context, event Event) error
}

// RedisSink publishes events as JSON on a per-user channel so connected
// frontends can subscribe to their own stream.
type RedisSink struct {
	client *redis.Client
}

// NewRedisSink creates a new RedisSink.
func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

// Deliver publishes the event to the recipient's channel.
func (s *RedisSink) Deliver(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := fmt.Sprintf("notifications:user:%d", event.UserID)
	if err := s.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// LogSink writes events to the log. Used when no Redis is configured.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a new LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Deliver logs the event.
func (s *LogSink) Deliver(_ context.Context, event Event) error {
	s.logger.Info("notification",
		zap.String("type", event.Type),
		zap.Uint64("user_id", event.UserID),
		zap.Uint64("task_id", event.TaskID),
		zap.String("title", event.Title),
		zap.String("body", event.Body),
	)
	return nil
}
