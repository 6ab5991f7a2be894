package service_test

import (
	"context"

	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/model"
	"basegraph.app/eleot/internal/queue"
)

type mockVisitStore struct {
	createFn  func(ctx context.Context, v *model.Visit) (bool, error)
	getByIDFn func(ctx context.Context, id int64) (*model.Visit, error)
	listFn    func(ctx context.Context, limit, offset int32) ([]model.Visit, error)
	reportFn  func(ctx context.Context, filter model.VisitFilter) ([]model.Visit, error)
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockVisitStore) Create(ctx context.Context, v *model.Visit) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, v)
	}
	return true, nil
}

func (m *mockVisitStore) GetByID(ctx context.Context, id int64) (*model.Visit, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockVisitStore) List(ctx context.Context, limit, offset int32) ([]model.Visit, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return []model.Visit{}, nil
}

func (m *mockVisitStore) Report(ctx context.Context, filter model.VisitFilter) ([]model.Visit, error) {
	if m.reportFn != nil {
		return m.reportFn(ctx, filter)
	}
	return []model.Visit{}, nil
}

func (m *mockVisitStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockProducer struct {
	enqueueFn func(ctx context.Context, msg queue.VisitMessage) error
	messages  []queue.VisitMessage
}

func (m *mockProducer) Enqueue(ctx context.Context, msg queue.VisitMessage) error {
	m.messages = append(m.messages, msg)
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, msg)
	}
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}

type mockCache struct {
	getFn   func(ctx context.Context, key string) (*evaluation.View, bool, error)
	setFn   func(ctx context.Context, key string, view *evaluation.View) error
	getKeys []string
	setKeys []string
}

func (m *mockCache) Get(ctx context.Context, key string) (*evaluation.View, bool, error) {
	m.getKeys = append(m.getKeys, key)
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, false, nil
}

func (m *mockCache) Set(ctx context.Context, key string, view *evaluation.View) error {
	m.setKeys = append(m.setKeys, key)
	if m.setFn != nil {
		return m.setFn(ctx, key, view)
	}
	return nil
}

type mockTeacherStore struct {
	createFn     func(ctx context.Context, t *model.Teacher) error
	listActiveFn func(ctx context.Context, search string, limit int32) ([]model.Teacher, error)
}

func (m *mockTeacherStore) Create(ctx context.Context, t *model.Teacher) error {
	if m.createFn != nil {
		return m.createFn(ctx, t)
	}
	return nil
}

func (m *mockTeacherStore) ListActive(ctx context.Context, search string, limit int32) ([]model.Teacher, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, search, limit)
	}
	return []model.Teacher{}, nil
}
