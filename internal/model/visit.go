package model

import "time"

// Lesson parts a visit may cover.
const (
	PartStart  = "start"
	PartMiddle = "middle"
	PartEnd    = "end"
)

// VisitClarifications records the clarification answers a visit was scored with.
type VisitClarifications struct {
	Version     string            `json:"version"`
	Skipped     bool              `json:"skipped"`
	Answers     map[string]string `json:"answers"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// Visit is one observed lesson with its final evaluation.
type Visit struct {
	ID                   int64                `json:"id"`
	TeacherName          string               `json:"teacher_name"`
	Subject              string               `json:"subject"`
	Grade                string               `json:"grade"`
	Parts                []string             `json:"parts"`
	Date                 time.Time            `json:"date"`
	LessonDescription    string               `json:"lesson_description"`
	OverallScore         float64              `json:"overall_score"`
	Language             string               `json:"language"`
	SelectedEnvironments []string             `json:"selected_environments"`
	Clarifications       *VisitClarifications `json:"clarifications,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`

	Scores      []VisitScore      `json:"scores"`
	Adjustments []VisitAdjustment `json:"adjustments"`
}

// VisitScore is the final score of one criterion.
type VisitScore struct {
	ID            int64     `json:"id"`
	VisitID       int64     `json:"visit_id"`
	EnvironmentID string    `json:"environment_id"`
	CriterionID   string    `json:"criterion_id"`
	Score         int       `json:"score"`
	Justification string    `json:"justification"`
	CreatedAt     time.Time `json:"created_at"`
}

// VisitAdjustment is a score moved by a clarification rule.
type VisitAdjustment struct {
	ID            int64     `json:"id"`
	VisitID       int64     `json:"visit_id"`
	CriterionID   string    `json:"criterion_id"`
	OriginalScore int       `json:"original_score"`
	AdjustedScore int       `json:"adjusted_score"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// VisitFilter narrows a report. Empty fields match everything.
type VisitFilter struct {
	Subject   string
	Grade     string
	StartDate *time.Time
	EndDate   *time.Time
}
