package store

import (
	"context"
	"fmt"

	"basegraph.app/eleot/core/db/sqlc"
	"basegraph.app/eleot/internal/model"
)

type teacherStore struct {
	queries *sqlc.Queries
}

func newTeacherStore(queries *sqlc.Queries) TeacherStore {
	return &teacherStore{queries: queries}
}

func (s *teacherStore) Create(ctx context.Context, t *model.Teacher) error {
	row, err := s.queries.InsertTeacher(ctx, sqlc.InsertTeacherParams{
		ID:       t.ID,
		NameAr:   t.NameAR,
		NameEn:   t.NameEN,
		Subject:  t.Subject,
		Stage:    t.Stage,
		IsActive: t.IsActive,
	})
	if err != nil {
		return fmt.Errorf("inserting teacher: %w", err)
	}
	*t = toTeacherModel(row)
	return nil
}

func (s *teacherStore) ListActive(ctx context.Context, search string, limit int32) ([]model.Teacher, error) {
	params := sqlc.ListActiveTeachersParams{Limit: limit}
	if search != "" {
		params.Search = &search
	}

	rows, err := s.queries.ListActiveTeachers(ctx, params)
	if err != nil {
		return nil, err
	}
	teachers := make([]model.Teacher, len(rows))
	for i, row := range rows {
		teachers[i] = toTeacherModel(row)
	}
	return teachers, nil
}

func toTeacherModel(row sqlc.Teacher) model.Teacher {
	return model.Teacher{
		ID:        row.ID,
		NameAR:    row.NameAr,
		NameEN:    row.NameEn,
		Subject:   row.Subject,
		Stage:     row.Stage,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt.Time,
	}
}
