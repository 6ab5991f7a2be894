package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const visitColumns = `id, teacher_name, subject, grade, parts, visit_date, lesson_description,
    overall_score, language, selected_environments, clarifications, created_at`

func scanVisit(row interface{ Scan(...any) error }, i *Visit) error {
	return row.Scan(
		&i.ID,
		&i.TeacherName,
		&i.Subject,
		&i.Grade,
		&i.Parts,
		&i.VisitDate,
		&i.LessonDescription,
		&i.OverallScore,
		&i.Language,
		&i.SelectedEnvironments,
		&i.Clarifications,
		&i.CreatedAt,
	)
}

const insertVisit = `-- name: InsertVisit :execrows
INSERT INTO visits (
    id, teacher_name, subject, grade, parts, visit_date, lesson_description,
    overall_score, language, selected_environments, clarifications, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO NOTHING
`

type InsertVisitParams struct {
	ID                   int64              `json:"id"`
	TeacherName          string             `json:"teacher_name"`
	Subject              string             `json:"subject"`
	Grade                string             `json:"grade"`
	Parts                []string           `json:"parts"`
	VisitDate            pgtype.Timestamptz `json:"visit_date"`
	LessonDescription    string             `json:"lesson_description"`
	OverallScore         float64            `json:"overall_score"`
	Language             string             `json:"language"`
	SelectedEnvironments []string           `json:"selected_environments"`
	Clarifications       []byte             `json:"clarifications"`
	CreatedAt            pgtype.Timestamptz `json:"created_at"`
}

// InsertVisit returns 0 when the visit already exists.
func (q *Queries) InsertVisit(ctx context.Context, arg InsertVisitParams) (int64, error) {
	result, err := q.db.Exec(ctx, insertVisit,
		arg.ID,
		arg.TeacherName,
		arg.Subject,
		arg.Grade,
		arg.Parts,
		arg.VisitDate,
		arg.LessonDescription,
		arg.OverallScore,
		arg.Language,
		arg.SelectedEnvironments,
		arg.Clarifications,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getVisit = `-- name: GetVisit :one
SELECT ` + visitColumns + `
FROM visits
WHERE id = $1
`

func (q *Queries) GetVisit(ctx context.Context, id int64) (Visit, error) {
	row := q.db.QueryRow(ctx, getVisit, id)
	var i Visit
	err := scanVisit(row, &i)
	return i, err
}

const listVisits = `-- name: ListVisits :many
SELECT ` + visitColumns + `
FROM visits
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2
`

type ListVisitsParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListVisits(ctx context.Context, arg ListVisitsParams) ([]Visit, error) {
	rows, err := q.db.Query(ctx, listVisits, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Visit{}
	for rows.Next() {
		var i Visit
		if err := scanVisit(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const reportVisits = `-- name: ReportVisits :many
SELECT ` + visitColumns + `
FROM visits
WHERE ($1::text IS NULL OR subject = $1::text)
  AND ($2::text IS NULL OR grade = $2::text)
  AND ($3::timestamptz IS NULL OR visit_date >= $3::timestamptz)
  AND ($4::timestamptz IS NULL OR visit_date <= $4::timestamptz)
ORDER BY visit_date DESC, id DESC
`

type ReportVisitsParams struct {
	Subject   *string            `json:"subject"`
	Grade     *string            `json:"grade"`
	StartDate pgtype.Timestamptz `json:"start_date"`
	EndDate   pgtype.Timestamptz `json:"end_date"`
}

func (q *Queries) ReportVisits(ctx context.Context, arg ReportVisitsParams) ([]Visit, error) {
	rows, err := q.db.Query(ctx, reportVisits, arg.Subject, arg.Grade, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Visit{}
	for rows.Next() {
		var i Visit
		if err := scanVisit(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteVisit = `-- name: DeleteVisit :execrows
DELETE FROM visits
WHERE id = $1
`

// DeleteVisit removes a visit; scores and adjustments cascade.
func (q *Queries) DeleteVisit(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteVisit, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const insertVisitScore = `-- name: InsertVisitScore :exec
INSERT INTO visit_scores (id, visit_id, environment_id, criterion_id, score, justification)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (visit_id, environment_id, criterion_id) DO NOTHING
`

type InsertVisitScoreParams struct {
	ID            int64  `json:"id"`
	VisitID       int64  `json:"visit_id"`
	EnvironmentID string `json:"environment_id"`
	CriterionID   string `json:"criterion_id"`
	Score         int16  `json:"score"`
	Justification string `json:"justification"`
}

func (q *Queries) InsertVisitScore(ctx context.Context, arg InsertVisitScoreParams) error {
	_, err := q.db.Exec(ctx, insertVisitScore,
		arg.ID,
		arg.VisitID,
		arg.EnvironmentID,
		arg.CriterionID,
		arg.Score,
		arg.Justification,
	)
	return err
}

const listVisitScores = `-- name: ListVisitScores :many
SELECT id, visit_id, environment_id, criterion_id, score, justification, created_at
FROM visit_scores
WHERE visit_id = ANY($1::bigint[])
ORDER BY visit_id, id
`

// ListVisitScores returns the scores of every listed visit.
func (q *Queries) ListVisitScores(ctx context.Context, visitIds []int64) ([]VisitScore, error) {
	rows, err := q.db.Query(ctx, listVisitScores, visitIds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []VisitScore{}
	for rows.Next() {
		var i VisitScore
		if err := rows.Scan(
			&i.ID,
			&i.VisitID,
			&i.EnvironmentID,
			&i.CriterionID,
			&i.Score,
			&i.Justification,
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

const insertVisitAdjustment = `-- name: InsertVisitAdjustment :exec
INSERT INTO visit_adjustments (id, visit_id, criterion_id, original_score, adjusted_score, reason)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING
`

type InsertVisitAdjustmentParams struct {
	ID            int64  `json:"id"`
	VisitID       int64  `json:"visit_id"`
	CriterionID   string `json:"criterion_id"`
	OriginalScore int16  `json:"original_score"`
	AdjustedScore int16  `json:"adjusted_score"`
	Reason        string `json:"reason"`
}

func (q *Queries) InsertVisitAdjustment(ctx context.Context, arg InsertVisitAdjustmentParams) error {
	_, err := q.db.Exec(ctx, insertVisitAdjustment,
		arg.ID,
		arg.VisitID,
		arg.CriterionID,
		arg.OriginalScore,
		arg.AdjustedScore,
		arg.Reason,
	)
	return err
}

const listVisitAdjustments = `-- name: ListVisitAdjustments :many
SELECT id, visit_id, criterion_id, original_score, adjusted_score, reason, created_at
FROM visit_adjustments
WHERE visit_id = $1
ORDER BY id
`

func (q *Queries) ListVisitAdjustments(ctx context.Context, visitID int64) ([]VisitAdjustment, error) {
	rows, err := q.db.Query(ctx, listVisitAdjustments, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []VisitAdjustment{}
	for rows.Next() {
		var i VisitAdjustment
		if err := rows.Scan(
			&i.ID,
			&i.VisitID,
			&i.CriterionID,
			&i.OriginalScore,
			&i.AdjustedScore,
			&i.Reason,
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
