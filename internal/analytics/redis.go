package analytics

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/atelier-labs/atelier/internal/domain"
)

// DefaultStream is the Redis Stream key events are appended to.
const DefaultStream = "atelier:analytics"

// RedisSink appends events to a Redis Stream via XADD. Entries carry the
// event id, seq, kind, user id and one field per property (prefixed with
// "prop:"), so consumers can read them without a schema.
type RedisSink struct {
	client *redis.Client
	stream string
}

// NewRedisSink creates a sink writing to the given stream. An empty stream
// name uses DefaultStream.
func NewRedisSink(client *redis.Client, stream string) *RedisSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisSink{client: client, stream: stream}
}

// Record implements Sink.
func (s *RedisSink) Record(ctx context.Context, ev domain.AnalyticsEvent) error {
	values := map[string]any{
		"id":   ev.ID,
		"seq":  ev.Seq,
		"kind": ev.Kind,
	}
	if ev.UserID != "" {
		values["userId"] = ev.UserID
	}
	for k, v := range ev.Properties {
		values["prop:"+k] = v
	}

	if err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisSink) Close() error { return s.client.Close() }
