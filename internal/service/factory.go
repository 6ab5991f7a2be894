package service

import (
	"log/slog"

	"basegraph.app/eleot/internal/cache"
	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/observability"
	"basegraph.app/eleot/internal/queue"
	"basegraph.app/eleot/internal/store"
)

type Services struct {
	stores      *store.Stores
	evaluations EvaluationService
	producer    queue.Producer
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewServices wires the services. evalCache, producer and metrics may be nil.
func NewServices(stores *store.Stores, evaluator evaluation.Evaluator, evalCache cache.EvaluationCache, producer queue.Producer, metrics *observability.Metrics, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.Default()
	}
	return &Services{
		stores:      stores,
		evaluations: NewEvaluationService(evaluator, evalCache, metrics, logger),
		producer:    producer,
		metrics:     metrics,
		logger:      logger,
	}
}

func (s *Services) Evaluations() EvaluationService {
	return s.evaluations
}

func (s *Services) Visits() VisitService {
	return NewVisitService(s.stores.Visits(), s.evaluations, s.producer, s.metrics, s.logger)
}

func (s *Services) Teachers() TeacherService {
	return NewTeacherService(s.stores.Teachers(), s.logger)
}

func (s *Services) Reports() ReportService {
	return NewReportService(s.stores.Visits())
}
