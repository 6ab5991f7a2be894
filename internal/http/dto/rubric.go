package dto

import (
	"basegraph.app/eleot/internal/rubric"
	"basegraph.app/eleot/internal/scoring"
	"basegraph.app/eleot/internal/textnorm"
)

type CriterionResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type EnvironmentResponse struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Criteria []CriterionResponse `json:"criteria"`
}

type GradeResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ScaleResponse describes one point of the 1-4 rating scale.
type ScaleResponse struct {
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

type RubricResponse struct {
	Language     string                `json:"language"`
	Environments []EnvironmentResponse `json:"environments"`
	Scale        []ScaleResponse       `json:"scale"`
	Grades       []GradeResponse       `json:"grades"`
}

func ToRubricResponse(r *rubric.Rubric, lang textnorm.Language) RubricResponse {
	resp := RubricResponse{Language: string(lang)}
	for _, env := range r.Environments() {
		e := EnvironmentResponse{ID: env.ID, Name: env.Name(lang)}
		for _, c := range env.Criteria {
			e.Criteria = append(e.Criteria, CriterionResponse{ID: c.ID, Label: c.Label(lang)})
		}
		resp.Environments = append(resp.Environments, e)
	}
	for score := scoring.MinScore; score <= scoring.MaxScore; score++ {
		resp.Scale = append(resp.Scale, ScaleResponse{Score: score, Justification: r.Justification(score, lang)})
	}
	for _, g := range r.Grades() {
		resp.Grades = append(resp.Grades, GradeResponse{Value: g.Value, Label: r.GradeLabel(g.Value, lang)})
	}
	return resp
}
