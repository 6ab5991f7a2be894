package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"basegraph.app/eleot/common/id"
	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/model"
	"basegraph.app/eleot/internal/observability"
	"basegraph.app/eleot/internal/queue"
	"basegraph.app/eleot/internal/store"
)

var (
	ErrVisitNotFound = errors.New("visit not found")
	// ErrPersistenceUnavailable is returned by Create when no queue is configured.
	ErrPersistenceUnavailable = errors.New("visit persistence is not configured")
	// ErrNoScoredCriteria is returned by Create when none of the selected
	// environments is known, so the visit would have no scores to store.
	ErrNoScoredCriteria = errors.New("no known environments selected")
)

const (
	defaultListLimit      = 50
	maxListLimit          = 200
	clarificationsVersion = "v1"
)

type CreateVisitParams struct {
	TeacherName string
	Subject     string
	Grade       string
	Parts       []string
	Date        time.Time
	Evaluation  evaluation.Request
	TraceID     *string
}

// VisitCreated is an evaluated visit that was accepted for persistence.
type VisitCreated struct {
	Visit *model.Visit
	View  evaluation.View
}

type VisitService interface {
	// Create evaluates the lesson, assigns ids and hands the visit to the
	// persistence worker. The visit is readable once the worker commits it.
	Create(ctx context.Context, params CreateVisitParams) (*VisitCreated, error)
	Get(ctx context.Context, id int64) (*model.Visit, error)
	List(ctx context.Context, limit, offset int32) ([]model.Visit, error)
	Delete(ctx context.Context, id int64) error
}

type visitService struct {
	visits      store.VisitStore
	evaluations EvaluationService
	queue       queue.Producer
	metrics     *observability.Metrics
	logger      *slog.Logger
}

func NewVisitService(visits store.VisitStore, evaluations EvaluationService, producer queue.Producer, metrics *observability.Metrics, logger *slog.Logger) VisitService {
	if logger == nil {
		logger = slog.Default()
	}
	return &visitService{
		visits:      visits,
		evaluations: evaluations,
		queue:       producer,
		metrics:     metrics,
		logger:      logger,
	}
}

func (s *visitService) Create(ctx context.Context, params CreateVisitParams) (*VisitCreated, error) {
	if s.queue == nil {
		return nil, ErrPersistenceUnavailable
	}

	final, err := s.evaluations.Finalize(ctx, params.Evaluation)
	if err != nil {
		return nil, err
	}
	if len(final.Scores) == 0 {
		return nil, ErrNoScoredCriteria
	}

	visit := buildVisit(params, final)

	payload, err := json.Marshal(visit)
	if err != nil {
		return nil, fmt.Errorf("encoding visit: %w", err)
	}

	if err := s.queue.Enqueue(ctx, queue.VisitMessage{
		VisitID: visit.ID,
		Payload: payload,
		TraceID: params.TraceID,
		Attempt: 1,
	}); err != nil {
		s.metrics.RecordEnqueue("error")
		return nil, fmt.Errorf("enqueueing visit: %w", err)
	}
	s.metrics.RecordEnqueue("ok")

	s.logger.InfoContext(ctx, "visit accepted",
		"visit_id", visit.ID,
		"overall_score", visit.OverallScore,
		"scores", len(visit.Scores))

	return &VisitCreated{Visit: visit, View: final.View()}, nil
}

func buildVisit(params CreateVisitParams, final *evaluation.Final) *model.Visit {
	now := time.Now().UTC()
	date := params.Date
	if date.IsZero() {
		date = now
	}

	visit := &model.Visit{
		ID:                   id.New(),
		TeacherName:          params.TeacherName,
		Subject:              params.Subject,
		Grade:                params.Grade,
		Parts:                normalizeParts(params.Parts),
		Date:                 date,
		LessonDescription:    params.Evaluation.Description,
		OverallScore:         final.Legacy().OverallScore,
		Language:             string(final.Output.Language),
		SelectedEnvironments: final.Output.Environments,
		CreatedAt:            now,
		Scores:               make([]model.VisitScore, len(final.Scores)),
		Adjustments:          make([]model.VisitAdjustment, len(final.Audit)),
	}

	if c := params.Evaluation.Clarifications; c != nil {
		answers := c.Answers
		if answers == nil {
			answers = map[string]string{}
		}
		visit.Clarifications = &model.VisitClarifications{
			Version:     clarificationsVersion,
			Skipped:     c.Skipped,
			Answers:     answers,
			SubmittedAt: now,
		}
	}

	for i, sc := range final.Scores {
		visit.Scores[i] = model.VisitScore{
			ID:            id.New(),
			VisitID:       visit.ID,
			EnvironmentID: sc.EnvironmentID,
			CriterionID:   sc.CriterionID,
			Score:         sc.Score,
			Justification: final.Output.Criteria[i].Justification,
			CreatedAt:     now,
		}
	}
	for i, a := range final.Audit {
		visit.Adjustments[i] = model.VisitAdjustment{
			ID:            id.New(),
			VisitID:       visit.ID,
			CriterionID:   a.CriterionID,
			OriginalScore: a.OriginalScore,
			AdjustedScore: a.AdjustedScore,
			Reason:        a.Reason,
			CreatedAt:     now,
		}
	}
	return visit
}

// normalizeParts keeps known lesson parts once each; an empty selection means the start.
func normalizeParts(parts []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range parts {
		switch p {
		case model.PartStart, model.PartMiddle, model.PartEnd:
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	if len(out) == 0 {
		out = append(out, model.PartStart)
	}
	return out
}

func (s *visitService) Get(ctx context.Context, id int64) (*model.Visit, error) {
	visit, err := s.visits.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, fmt.Errorf("fetching visit: %w", err)
	}
	return visit, nil
}

func (s *visitService) List(ctx context.Context, limit, offset int32) ([]model.Visit, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	visits, err := s.visits.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	return visits, nil
}

func (s *visitService) Delete(ctx context.Context, id int64) error {
	if err := s.visits.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrVisitNotFound
		}
		return fmt.Errorf("deleting visit: %w", err)
	}
	s.logger.InfoContext(ctx, "visit deleted", "visit_id", id)
	return nil
}
