package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// VisitMessage asks the worker to persist an evaluated visit. Payload is the
// JSON-encoded visit with its scores and adjustments.
type VisitMessage struct {
	VisitID int64
	Payload []byte
	TraceID *string
	Attempt int
}

type Producer interface {
	Enqueue(ctx context.Context, msg VisitMessage) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, msg VisitMessage) error {
	attempt := msg.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	fields := map[string]any{
		"visit_id": msg.VisitID,
		"payload":  string(msg.Payload),
		"attempt":  attempt,
	}

	if msg.TraceID != nil && *msg.TraceID != "" {
		fields["trace_id"] = *msg.TraceID
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue visit: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued visit for persistence", "visit_id", msg.VisitID, "attempt", attempt, "payload_bytes", len(msg.Payload))
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
