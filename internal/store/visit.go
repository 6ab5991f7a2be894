package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"basegraph.app/eleot/core/db/sqlc"
	"basegraph.app/eleot/internal/model"
)

type visitStore struct {
	queries *sqlc.Queries
}

func newVisitStore(queries *sqlc.Queries) VisitStore {
	return &visitStore{queries: queries}
}

func (s *visitStore) Create(ctx context.Context, v *model.Visit) (bool, error) {
	var clarifications []byte
	if v.Clarifications != nil {
		raw, err := json.Marshal(v.Clarifications)
		if err != nil {
			return false, fmt.Errorf("encoding clarifications: %w", err)
		}
		clarifications = raw
	}

	inserted, err := s.queries.InsertVisit(ctx, sqlc.InsertVisitParams{
		ID:                   v.ID,
		TeacherName:          v.TeacherName,
		Subject:              v.Subject,
		Grade:                v.Grade,
		Parts:                nonNil(v.Parts),
		VisitDate:            toTimestamptz(v.Date),
		LessonDescription:    v.LessonDescription,
		OverallScore:         v.OverallScore,
		Language:             v.Language,
		SelectedEnvironments: nonNil(v.SelectedEnvironments),
		Clarifications:       clarifications,
		CreatedAt:            toTimestamptz(v.CreatedAt),
	})
	if err != nil {
		return false, fmt.Errorf("inserting visit: %w", err)
	}

	// Child rows are inserted even for an existing visit so a delivery that
	// died halfway through is completed by the next one.
	for _, sc := range v.Scores {
		if err := s.queries.InsertVisitScore(ctx, sqlc.InsertVisitScoreParams{
			ID:            sc.ID,
			VisitID:       v.ID,
			EnvironmentID: sc.EnvironmentID,
			CriterionID:   sc.CriterionID,
			Score:         int16(sc.Score),
			Justification: sc.Justification,
		}); err != nil {
			return false, fmt.Errorf("inserting score %s: %w", sc.CriterionID, err)
		}
	}
	for _, adj := range v.Adjustments {
		if err := s.queries.InsertVisitAdjustment(ctx, sqlc.InsertVisitAdjustmentParams{
			ID:            adj.ID,
			VisitID:       v.ID,
			CriterionID:   adj.CriterionID,
			OriginalScore: int16(adj.OriginalScore),
			AdjustedScore: int16(adj.AdjustedScore),
			Reason:        adj.Reason,
		}); err != nil {
			return false, fmt.Errorf("inserting adjustment %s: %w", adj.CriterionID, err)
		}
	}

	return inserted > 0, nil
}

func (s *visitStore) GetByID(ctx context.Context, id int64) (*model.Visit, error) {
	row, err := s.queries.GetVisit(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	visit := toVisitModel(row)

	scores, err := s.queries.ListVisitScores(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("listing scores: %w", err)
	}
	visit.Scores = toVisitScoreModels(scores)

	adjustments, err := s.queries.ListVisitAdjustments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing adjustments: %w", err)
	}
	for _, a := range adjustments {
		visit.Adjustments = append(visit.Adjustments, model.VisitAdjustment{
			ID:            a.ID,
			VisitID:       a.VisitID,
			CriterionID:   a.CriterionID,
			OriginalScore: int(a.OriginalScore),
			AdjustedScore: int(a.AdjustedScore),
			Reason:        a.Reason,
			CreatedAt:     a.CreatedAt.Time,
		})
	}
	return visit, nil
}

func (s *visitStore) List(ctx context.Context, limit, offset int32) ([]model.Visit, error) {
	rows, err := s.queries.ListVisits(ctx, sqlc.ListVisitsParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return s.withScores(ctx, rows)
}

func (s *visitStore) Report(ctx context.Context, f model.VisitFilter) ([]model.Visit, error) {
	params := sqlc.ReportVisitsParams{
		StartDate: toNullableTimestamptz(f.StartDate),
		EndDate:   toNullableTimestamptz(f.EndDate),
	}
	if f.Subject != "" {
		params.Subject = &f.Subject
	}
	if f.Grade != "" {
		params.Grade = &f.Grade
	}

	rows, err := s.queries.ReportVisits(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.withScores(ctx, rows)
}

func (s *visitStore) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteVisit(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *visitStore) withScores(ctx context.Context, rows []sqlc.Visit) ([]model.Visit, error) {
	visits := make([]model.Visit, len(rows))
	if len(rows) == 0 {
		return visits, nil
	}

	ids := make([]int64, len(rows))
	index := make(map[int64]int, len(rows))
	for i, row := range rows {
		visits[i] = *toVisitModel(row)
		ids[i] = row.ID
		index[row.ID] = i
	}

	scores, err := s.queries.ListVisitScores(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing scores: %w", err)
	}
	for _, sc := range toVisitScoreModels(scores) {
		i := index[sc.VisitID]
		visits[i].Scores = append(visits[i].Scores, sc)
	}
	return visits, nil
}

func toVisitModel(row sqlc.Visit) *model.Visit {
	v := &model.Visit{
		ID:                   row.ID,
		TeacherName:          row.TeacherName,
		Subject:              row.Subject,
		Grade:                row.Grade,
		Parts:                row.Parts,
		Date:                 row.VisitDate.Time,
		LessonDescription:    row.LessonDescription,
		OverallScore:         row.OverallScore,
		Language:             row.Language,
		SelectedEnvironments: row.SelectedEnvironments,
		CreatedAt:            row.CreatedAt.Time,
		Scores:               []model.VisitScore{},
		Adjustments:          []model.VisitAdjustment{},
	}
	if len(row.Clarifications) > 0 {
		var c model.VisitClarifications
		// A corrupt column loses the clarification record, not the visit.
		if err := json.Unmarshal(row.Clarifications, &c); err == nil {
			v.Clarifications = &c
		}
	}
	return v
}

func toVisitScoreModels(rows []sqlc.VisitScore) []model.VisitScore {
	result := make([]model.VisitScore, len(rows))
	for i, row := range rows {
		result[i] = model.VisitScore{
			ID:            row.ID,
			VisitID:       row.VisitID,
			EnvironmentID: row.EnvironmentID,
			CriterionID:   row.CriterionID,
			Score:         int(row.Score),
			Justification: row.Justification,
			CreatedAt:     row.CreatedAt.Time,
		}
	}
	return result
}

func toTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		t = time.Now()
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func toNullableTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
