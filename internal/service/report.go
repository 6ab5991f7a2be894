package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"basegraph.app/eleot/internal/model"
	"basegraph.app/eleot/internal/rubric"
	"basegraph.app/eleot/internal/store"
)

var ErrInvalidDateRange = errors.New("start_date is after end_date")

// Report is the filtered visit list with aggregate figures.
type Report struct {
	Visits  []model.Visit `json:"visits"`
	Summary ReportSummary `json:"summary"`
}

type CriterionAverage struct {
	CriterionID string  `json:"criterion_id"`
	Average     float64 `json:"average"`
	Count       int     `json:"count"`
}

type ReportSummary struct {
	VisitCount          int                `json:"visit_count"`
	AverageOverallScore float64            `json:"average_overall_score"`
	Criteria            []CriterionAverage `json:"criteria"`
}

type ReportService interface {
	Report(ctx context.Context, filter model.VisitFilter) (*Report, error)
}

type reportService struct {
	visits store.VisitStore
	rubric *rubric.Rubric
}

func NewReportService(visits store.VisitStore) ReportService {
	return &reportService{visits: visits, rubric: rubric.Default()}
}

func (s *reportService) Report(ctx context.Context, filter model.VisitFilter) (*Report, error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, ErrInvalidDateRange
	}

	visits, err := s.visits.Report(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("loading report visits: %w", err)
	}

	return &Report{Visits: visits, Summary: s.summarize(visits)}, nil
}

func (s *reportService) summarize(visits []model.Visit) ReportSummary {
	summary := ReportSummary{VisitCount: len(visits), Criteria: []CriterionAverage{}}
	if len(visits) == 0 {
		return summary
	}

	overall := 0.0
	sums := map[string]int{}
	counts := map[string]int{}
	for _, v := range visits {
		overall += v.OverallScore
		for _, sc := range v.Scores {
			sums[sc.CriterionID] += sc.Score
			counts[sc.CriterionID]++
		}
	}
	summary.AverageOverallScore = overall / float64(len(visits))

	for criterionID, n := range counts {
		summary.Criteria = append(summary.Criteria, CriterionAverage{
			CriterionID: criterionID,
			Average:     float64(sums[criterionID]) / float64(n),
			Count:       n,
		})
	}
	sort.Slice(summary.Criteria, func(i, j int) bool {
		oi, oj := s.rubric.Order(summary.Criteria[i].CriterionID), s.rubric.Order(summary.Criteria[j].CriterionID)
		if oi != oj {
			return oi < oj
		}
		return summary.Criteria[i].CriterionID < summary.Criteria[j].CriterionID
	})
	return summary
}
