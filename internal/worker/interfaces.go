package worker

import (
	"context"

	"basegraph.app/eleot/internal/queue"
	"basegraph.app/eleot/internal/store"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// StoreProvider is an alias so service.TxRunner satisfies TxRunner.
type StoreProvider = store.Provider

// Mirrors service.TxRunner - defined here to avoid import cycles.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

// Metrics is the subset of observability.Metrics the worker reports to.
type Metrics interface {
	RecordWorkerMessage(status string)
}
