package sqlc

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Visit struct {
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

type VisitScore struct {
	ID            int64              `json:"id"`
	VisitID       int64              `json:"visit_id"`
	EnvironmentID string             `json:"environment_id"`
	CriterionID   string             `json:"criterion_id"`
	Score         int16              `json:"score"`
	Justification string             `json:"justification"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

type VisitAdjustment struct {
	ID            int64              `json:"id"`
	VisitID       int64              `json:"visit_id"`
	CriterionID   string             `json:"criterion_id"`
	OriginalScore int16              `json:"original_score"`
	AdjustedScore int16              `json:"adjusted_score"`
	Reason        string             `json:"reason"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

type Teacher struct {
	ID        int64              `json:"id"`
	NameAr    string             `json:"name_ar"`
	NameEn    string             `json:"name_en"`
	Subject   string             `json:"subject"`
	Stage     string             `json:"stage"`
	IsActive  bool               `json:"is_active"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}
