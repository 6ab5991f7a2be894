package handler_test

import (
	"context"

	"basegraph.app/eleot/internal/clarify"
	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/model"
	"basegraph.app/eleot/internal/service"
	"basegraph.app/eleot/internal/textnorm"
)

type mockEvaluationService struct {
	evaluateFn  func(ctx context.Context, req evaluation.Request) (*evaluation.View, error)
	questionsFn func(ctx context.Context, description string, envIDs []string, lang textnorm.Language) []clarify.Question

	requests []evaluation.Request
}

func (m *mockEvaluationService) Evaluate(ctx context.Context, req evaluation.Request) (*evaluation.View, error) {
	m.requests = append(m.requests, req)
	if m.evaluateFn != nil {
		return m.evaluateFn(ctx, req)
	}
	return &evaluation.View{Scores: map[string]int{}}, nil
}

func (m *mockEvaluationService) Finalize(ctx context.Context, req evaluation.Request) (*evaluation.Final, error) {
	return nil, nil
}

func (m *mockEvaluationService) Questions(ctx context.Context, description string, envIDs []string, lang textnorm.Language) []clarify.Question {
	if m.questionsFn != nil {
		return m.questionsFn(ctx, description, envIDs, lang)
	}
	return nil
}

type mockVisitService struct {
	createFn func(ctx context.Context, params service.CreateVisitParams) (*service.VisitCreated, error)
	getFn    func(ctx context.Context, id int64) (*model.Visit, error)
	listFn   func(ctx context.Context, limit, offset int32) ([]model.Visit, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockVisitService) Create(ctx context.Context, params service.CreateVisitParams) (*service.VisitCreated, error) {
	if m.createFn != nil {
		return m.createFn(ctx, params)
	}
	return &service.VisitCreated{Visit: &model.Visit{}}, nil
}

func (m *mockVisitService) Get(ctx context.Context, id int64) (*model.Visit, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, service.ErrVisitNotFound
}

func (m *mockVisitService) List(ctx context.Context, limit, offset int32) ([]model.Visit, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return []model.Visit{}, nil
}

func (m *mockVisitService) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockReportService struct {
	reportFn func(ctx context.Context, filter model.VisitFilter) (*service.Report, error)
}

func (m *mockReportService) Report(ctx context.Context, filter model.VisitFilter) (*service.Report, error) {
	if m.reportFn != nil {
		return m.reportFn(ctx, filter)
	}
	return &service.Report{Visits: []model.Visit{}}, nil
}

type mockTeacherService struct {
	createFn func(ctx context.Context, p service.CreateTeacherParams) (*model.Teacher, error)
	searchFn func(ctx context.Context, query string) ([]model.Teacher, error)
}

func (m *mockTeacherService) Create(ctx context.Context, p service.CreateTeacherParams) (*model.Teacher, error) {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return &model.Teacher{NameAR: p.NameAR, IsActive: true}, nil
}

func (m *mockTeacherService) Search(ctx context.Context, query string) ([]model.Teacher, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return []model.Teacher{}, nil
}
