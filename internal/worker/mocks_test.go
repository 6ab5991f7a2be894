package worker_test

import (
	"context"

	"basegraph.app/eleot/internal/model"
	"basegraph.app/eleot/internal/queue"
	"basegraph.app/eleot/internal/store"
	"basegraph.app/eleot/internal/worker"
)

type mockConsumer struct {
	readFn    func(ctx context.Context) ([]queue.Message, error)
	acked     []queue.Message
	requeued  []queue.Message
	dlq       []queue.Message
	lastError string
}

func (m *mockConsumer) Read(ctx context.Context) ([]queue.Message, error) {
	if m.readFn != nil {
		return m.readFn(ctx)
	}
	return nil, nil
}

func (m *mockConsumer) Ack(_ context.Context, msg queue.Message) error {
	m.acked = append(m.acked, msg)
	return nil
}

func (m *mockConsumer) Requeue(_ context.Context, msg queue.Message, errMsg string) error {
	m.requeued = append(m.requeued, msg)
	m.lastError = errMsg
	return nil
}

func (m *mockConsumer) SendDLQ(_ context.Context, msg queue.Message, errMsg string) error {
	m.dlq = append(m.dlq, msg)
	m.lastError = errMsg
	return nil
}

type mockVisitStore struct {
	createFn func(ctx context.Context, v *model.Visit) (bool, error)
	created  []*model.Visit
}

func (m *mockVisitStore) Create(ctx context.Context, v *model.Visit) (bool, error) {
	m.created = append(m.created, v)
	if m.createFn != nil {
		return m.createFn(ctx, v)
	}
	return true, nil
}

func (m *mockVisitStore) GetByID(context.Context, int64) (*model.Visit, error) {
	return nil, store.ErrNotFound
}

func (m *mockVisitStore) List(context.Context, int32, int32) ([]model.Visit, error) {
	return nil, nil
}

func (m *mockVisitStore) Report(context.Context, model.VisitFilter) ([]model.Visit, error) {
	return nil, nil
}

func (m *mockVisitStore) Delete(context.Context, int64) error {
	return nil
}

type mockStoreProvider struct {
	visits *mockVisitStore
}

func (m *mockStoreProvider) Visits() store.VisitStore {
	return m.visits
}

type mockTxRunner struct {
	stores *mockStoreProvider
	txErr  error
	calls  int
}

func (m *mockTxRunner) WithTx(_ context.Context, fn func(stores worker.StoreProvider) error) error {
	m.calls++
	if m.txErr != nil {
		return m.txErr
	}
	return fn(m.stores)
}

type recordingMetrics struct {
	statuses []string
}

func (m *recordingMetrics) RecordWorkerMessage(status string) {
	m.statuses = append(m.statuses, status)
}
