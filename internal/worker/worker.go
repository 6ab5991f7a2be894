package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"basegraph.app/eleot/common/logger"
	"basegraph.app/eleot/internal/model"
	"basegraph.app/eleot/internal/queue"
)

// ErrInvalidPayload marks a message that can never be persisted. Such
// messages skip retries and go straight to the DLQ.
var ErrInvalidPayload = errors.New("invalid visit payload")

// Worker status labels reported to metrics.
const (
	StatusPersisted = "persisted"
	StatusDuplicate = "duplicate"
	StatusRequeued  = "requeued"
	StatusDLQ       = "dlq"
)

const maxLoggedErrorLen = 200

type Config struct {
	MaxAttempts int
}

// Worker drains the visit stream into Postgres.
type Worker struct {
	consumer Consumer
	txRunner TxRunner
	metrics  Metrics
	cfg      Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, txRunner TxRunner, metrics Metrics, cfg Config) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Worker{
		consumer:  consumer,
		txRunner:  txRunner,
		metrics:   metrics,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "eleot.worker.persist",
	})

	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "worker started", "max_attempts", w.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				// Brief backoff on error
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-w.stopCh:
					return nil
				case <-time.After(time.Second):
				}
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		_ = w.Handle(ctx, msg)
	}

	return nil
}

// Handle processes msg and routes a failure to requeue or DLQ.
// The reclaimer uses it for stale messages too.
func (w *Worker) Handle(ctx context.Context, msg queue.Message) error {
	if err := w.processMessageSafe(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "message processing failed",
			"error", err,
			"message_id", msg.ID,
			"visit_id", msg.VisitID)
		w.handleFailedMessage(ctx, msg, err)
		return err
	}
	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID,
				"visit_id", msg.VisitID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage persists the visit carried by msg and acks it. A visit
// that already exists is acked without changes.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		VisitID:   logger.Ptr(msg.VisitID),
		MessageID: logger.Ptr(msg.ID),
	})

	sc := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.persist_visit",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.Int64("visit.id", msg.VisitID),
			attribute.Int("message.attempt", msg.Attempt),
		))
	defer sc.End()
	ctx = sc.Context()

	slog.InfoContext(ctx, "processing message", "attempt", msg.Attempt)

	visit, err := decodeVisit(msg)
	if err != nil {
		sc.RecordError(err)
		return err
	}

	var created bool
	txErr := w.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		var err error
		created, err = sp.Visits().Create(ctx, visit)
		if err != nil {
			return fmt.Errorf("creating visit: %w", err)
		}
		return nil
	})
	if txErr != nil {
		// Not acked; the caller requeues or the reclaimer picks it up.
		sc.RecordError(txErr)
		return fmt.Errorf("transaction failed: %w", txErr)
	}

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// Redelivery is safe: Create is idempotent on the visit id.
		slog.WarnContext(ctx, "failed to ACK message", "error", err)
	}

	if created {
		w.metrics.RecordWorkerMessage(StatusPersisted)
		slog.InfoContext(ctx, "visit persisted",
			"scores", len(visit.Scores),
			"adjustments", len(visit.Adjustments))
	} else {
		w.metrics.RecordWorkerMessage(StatusDuplicate)
		slog.InfoContext(ctx, "visit already persisted, skipping")
	}

	return nil
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if errors.Is(err, ErrInvalidPayload) || msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "sending message to DLQ",
			"message_id", msg.ID,
			"visit_id", msg.VisitID,
			"attempts", msg.Attempt,
			"last_error", logger.Truncate(err.Error(), maxLoggedErrorLen))
		w.metrics.RecordWorkerMessage(StatusDLQ)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing failed message",
		"message_id", msg.ID,
		"visit_id", msg.VisitID,
		"attempt", msg.Attempt,
		"last_error", logger.Truncate(err.Error(), maxLoggedErrorLen))
	w.metrics.RecordWorkerMessage(StatusRequeued)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}

func decodeVisit(msg queue.Message) (*model.Visit, error) {
	var visit model.Visit
	if err := json.Unmarshal(msg.Payload, &visit); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if visit.ID != msg.VisitID {
		return nil, fmt.Errorf("%w: payload id %d does not match visit_id %d", ErrInvalidPayload, visit.ID, msg.VisitID)
	}
	if len(visit.Scores) == 0 {
		return nil, fmt.Errorf("%w: no scores", ErrInvalidPayload)
	}
	return &visit, nil
}

type noopMetrics struct{}

func (noopMetrics) RecordWorkerMessage(string) {}
