package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"basegraph.app/eleot/common/logger"
	"basegraph.app/eleot/internal/cache"
	"basegraph.app/eleot/internal/clarify"
	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/observability"
	"basegraph.app/eleot/internal/textnorm"
)

// Evaluation outcomes reported to metrics.
const (
	outcomeSuccess = "success"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

type EvaluationService interface {
	// Evaluate returns the response view, served from the cache when possible.
	// Debug requests always recompute.
	Evaluate(ctx context.Context, req evaluation.Request) (*evaluation.View, error)
	// Finalize runs the full pipeline without the cache.
	Finalize(ctx context.Context, req evaluation.Request) (*evaluation.Final, error)
	// Questions returns the clarification questions description still needs.
	Questions(ctx context.Context, description string, envIDs []string, lang textnorm.Language) []clarify.Question
}

type evaluationService struct {
	evaluator evaluation.Evaluator
	selector  *clarify.Selector
	cache     cache.EvaluationCache
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewEvaluationService builds the service. evalCache and metrics may be nil.
func NewEvaluationService(evaluator evaluation.Evaluator, evalCache cache.EvaluationCache, metrics *observability.Metrics, logger *slog.Logger) EvaluationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &evaluationService{
		evaluator: evaluator,
		selector:  clarify.NewSelector(clarify.DefaultBank()),
		cache:     evalCache,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *evaluationService) Evaluate(ctx context.Context, req evaluation.Request) (*evaluation.View, error) {
	if err := req.Validate(); err != nil {
		s.metrics.RecordEvaluation(languageLabel(req.Language), outcomeInvalid, 0)
		return nil, err
	}

	useCache := s.cache != nil && !req.Debug
	var key string
	if useCache {
		key = cache.Key(req)
		view, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.metrics.RecordCacheLookup("error")
			s.logger.WarnContext(ctx, "evaluation cache lookup failed", "error", err)
		case ok:
			s.metrics.RecordCacheLookup("hit")
			s.logger.DebugContext(ctx, "evaluation served from cache")
			return view, nil
		default:
			s.metrics.RecordCacheLookup("miss")
		}
	}

	final, err := s.Finalize(ctx, req)
	if err != nil {
		return nil, err
	}
	view := final.View()

	if useCache {
		if err := s.cache.Set(ctx, key, &view); err != nil {
			s.logger.WarnContext(ctx, "evaluation cache store failed", "error", err)
		}
	}
	return &view, nil
}

func (s *evaluationService) Finalize(ctx context.Context, req evaluation.Request) (*evaluation.Final, error) {
	lang := languageLabel(req.Language)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Language:  &lang,
		Component: "eleot.service.evaluation",
	})

	start := time.Now()
	final, err := s.evaluator.Run(ctx, req)
	if err != nil {
		outcome := outcomeError
		if errors.Is(err, evaluation.ErrMissingFields) {
			outcome = outcomeInvalid
		}
		s.metrics.RecordEvaluation(lang, outcome, 0)
		return nil, err
	}

	lang = string(final.Output.Language)
	s.metrics.RecordEvaluation(lang, outcomeSuccess, time.Since(start).Seconds())
	for _, sc := range final.Scores {
		s.metrics.RecordCriterionScore(sc.CriterionID, sc.Score)
	}
	for _, a := range final.Audit {
		s.metrics.RecordAdjustment(a.CriterionID)
	}

	s.logger.InfoContext(ctx, "evaluation completed",
		"language", lang,
		"environments", final.Output.Environments,
		"criteria", len(final.Scores),
		"adjustments", len(final.Audit),
		"duration_ms", time.Since(start).Milliseconds())

	return final, nil
}

func (s *evaluationService) Questions(ctx context.Context, description string, envIDs []string, lang textnorm.Language) []clarify.Question {
	questions := s.selector.Needed(description, envIDs, lang)
	s.logger.DebugContext(ctx, "clarification questions selected",
		"environments", envIDs,
		"count", len(questions))
	return questions
}

func languageLabel(lang textnorm.Language) string {
	if lang == "" {
		return string(textnorm.Arabic)
	}
	return string(lang)
}
