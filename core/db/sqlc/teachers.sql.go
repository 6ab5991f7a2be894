package sqlc

import (
	"context"
)

const teacherColumns = `id, name_ar, name_en, subject, stage, is_active, created_at`

const insertTeacher = `-- name: InsertTeacher :one
INSERT INTO teachers (id, name_ar, name_en, subject, stage, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + teacherColumns

type InsertTeacherParams struct {
	ID       int64  `json:"id"`
	NameAr   string `json:"name_ar"`
	NameEn   string `json:"name_en"`
	Subject  string `json:"subject"`
	Stage    string `json:"stage"`
	IsActive bool   `json:"is_active"`
}

func (q *Queries) InsertTeacher(ctx context.Context, arg InsertTeacherParams) (Teacher, error) {
	row := q.db.QueryRow(ctx, insertTeacher,
		arg.ID,
		arg.NameAr,
		arg.NameEn,
		arg.Subject,
		arg.Stage,
		arg.IsActive,
	)
	var i Teacher
	err := row.Scan(
		&i.ID,
		&i.NameAr,
		&i.NameEn,
		&i.Subject,
		&i.Stage,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const listActiveTeachers = `-- name: ListActiveTeachers :many
SELECT ` + teacherColumns + `
FROM teachers
WHERE is_active
  AND ($1::text IS NULL
       OR strpos(lower(name_ar), lower($1::text)) > 0
       OR strpos(lower(name_en), lower($1::text)) > 0)
ORDER BY name_ar
LIMIT $2
`

type ListActiveTeachersParams struct {
	Search *string `json:"search"`
	Limit  int32   `json:"limit"`
}

// ListActiveTeachers matches search as a case-insensitive substring of
// either name. A nil search lists every active teacher.
func (q *Queries) ListActiveTeachers(ctx context.Context, arg ListActiveTeachersParams) ([]Teacher, error) {
	rows, err := q.db.Query(ctx, listActiveTeachers, arg.Search, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Teacher{}
	for rows.Next() {
		var i Teacher
		if err := rows.Scan(
			&i.ID,
			&i.NameAr,
			&i.NameEn,
			&i.Subject,
			&i.Stage,
			&i.IsActive,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
