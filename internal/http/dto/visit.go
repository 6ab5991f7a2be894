package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/model"
)

// Strings accepts either a JSON string or an array of strings.
type Strings []string

func (s *Strings) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*s = nil
		} else {
			*s = Strings{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected a string or an array of strings")
	}
	*s = many
	return nil
}

// Date accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string")
	}
	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDate parses RFC 3339 or YYYY-MM-DD. An empty string is the zero time.
func ParseDate(raw string) (time.Time, error) {
	t, _, err := ParseDay(raw)
	return t, err
}

// ParseDay is ParseDate that also reports whether raw was a bare
// YYYY-MM-DD date rather than a timestamp.
func ParseDay(raw string) (t time.Time, dateOnly bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err = time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q", raw)
	}
	return t, true, nil
}

// CreateVisitRequest is an evaluation request plus visit metadata. "part"
// is the older single-value spelling of "parts".
type CreateVisitRequest struct {
	EvaluateRequest

	TeacherName string  `json:"teacherName"`
	Subject     string  `json:"subject"`
	Grade       string  `json:"grade"`
	Parts       Strings `json:"parts"`
	Part        Strings `json:"part"`
	Date        *Date   `json:"date"`
}

// UnmarshalJSON keeps the lenient evaluation decoding of the embedded
// request. Visit metadata is decoded strictly.
func (r *CreateVisitRequest) UnmarshalJSON(data []byte) error {
	if err := r.EvaluateRequest.UnmarshalJSON(data); err != nil {
		return err
	}
	var meta struct {
		TeacherName string  `json:"teacherName"`
		Subject     string  `json:"subject"`
		Grade       string  `json:"grade"`
		Parts       Strings `json:"parts"`
		Part        Strings `json:"part"`
		Date        *Date   `json:"date"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}
	r.TeacherName = meta.TeacherName
	r.Subject = meta.Subject
	r.Grade = meta.Grade
	r.Parts = meta.Parts
	r.Part = meta.Part
	r.Date = meta.Date
	return nil
}

func (r CreateVisitRequest) LessonParts() []string {
	if len(r.Parts) > 0 {
		return r.Parts
	}
	return r.Part
}

func (r CreateVisitRequest) VisitDate() time.Time {
	if r.Date == nil {
		return time.Time{}
	}
	return r.Date.Time
}

type VisitScoreResponse struct {
	EnvironmentID string `json:"environmentId"`
	CriterionID   string `json:"criterionId"`
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

type VisitAdjustmentResponse struct {
	CriterionID   string    `json:"criterionId"`
	OriginalScore int       `json:"originalScore"`
	AdjustedScore int       `json:"adjustedScore"`
	Reason        string    `json:"reason"`
	Timestamp     time.Time `json:"timestamp"`
}

type ClarificationsResponse struct {
	Version     string            `json:"version"`
	Skipped     bool              `json:"skipped"`
	Answers     map[string]string `json:"answers"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

type VisitResponse struct {
	ID                   int64                     `json:"id,string"`
	TeacherName          string                    `json:"teacherName"`
	Subject              string                    `json:"subject"`
	Grade                string                    `json:"grade"`
	Parts                []string                  `json:"parts"`
	Date                 time.Time                 `json:"date"`
	LessonDescription    string                    `json:"lessonDescription"`
	OverallScore         float64                   `json:"overallScore"`
	Language             string                    `json:"language"`
	SelectedEnvironments []string                  `json:"selectedEnvironments"`
	Clarifications       *ClarificationsResponse   `json:"clarifications,omitempty"`
	AuditAdjustments     []VisitAdjustmentResponse `json:"auditAdjustments"`
	Scores               []VisitScoreResponse      `json:"scores"`
	CreatedAt            time.Time                 `json:"createdAt"`
}

func ToVisitResponse(v *model.Visit) VisitResponse {
	resp := VisitResponse{
		ID:                   v.ID,
		TeacherName:          v.TeacherName,
		Subject:              v.Subject,
		Grade:                v.Grade,
		Parts:                v.Parts,
		Date:                 v.Date,
		LessonDescription:    v.LessonDescription,
		OverallScore:         v.OverallScore,
		Language:             v.Language,
		SelectedEnvironments: v.SelectedEnvironments,
		AuditAdjustments:     make([]VisitAdjustmentResponse, len(v.Adjustments)),
		Scores:               make([]VisitScoreResponse, len(v.Scores)),
		CreatedAt:            v.CreatedAt,
	}
	if c := v.Clarifications; c != nil {
		resp.Clarifications = &ClarificationsResponse{
			Version:     c.Version,
			Skipped:     c.Skipped,
			Answers:     c.Answers,
			SubmittedAt: c.SubmittedAt,
		}
	}
	for i, a := range v.Adjustments {
		resp.AuditAdjustments[i] = VisitAdjustmentResponse{
			CriterionID:   a.CriterionID,
			OriginalScore: a.OriginalScore,
			AdjustedScore: a.AdjustedScore,
			Reason:        a.Reason,
			Timestamp:     a.CreatedAt,
		}
	}
	for i, s := range v.Scores {
		resp.Scores[i] = VisitScoreResponse{
			EnvironmentID: s.EnvironmentID,
			CriterionID:   s.CriterionID,
			Score:         s.Score,
			Justification: s.Justification,
		}
	}
	return resp
}

func ToVisitResponses(visits []model.Visit) []VisitResponse {
	out := make([]VisitResponse, len(visits))
	for i := range visits {
		out[i] = ToVisitResponse(&visits[i])
	}
	return out
}

// VisitAcceptedResponse is returned while the visit waits for the worker.
type VisitAcceptedResponse struct {
	Status     string          `json:"status"`
	Visit      VisitResponse   `json:"visit"`
	Evaluation evaluation.View `json:"evaluation"`
}

type ReportSummaryResponse struct {
	VisitCount          int                        `json:"visitCount"`
	AverageOverallScore float64                    `json:"averageOverallScore"`
	Criteria            []CriterionAverageResponse `json:"criteria"`
}

type CriterionAverageResponse struct {
	CriterionID string  `json:"criterionId"`
	Average     float64 `json:"average"`
	Count       int     `json:"count"`
}

type ReportResponse struct {
	Visits  []VisitResponse       `json:"visits"`
	Summary ReportSummaryResponse `json:"summary"`
}
