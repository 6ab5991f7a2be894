package dto

import (
	"time"

	"basegraph.app/eleot/internal/model"
)

type CreateTeacherRequest struct {
	NameAr  string `json:"nameAr"`
	NameEn  string `json:"nameEn"`
	Subject string `json:"subject"`
	Stage   string `json:"stage"`
}

type TeacherResponse struct {
	ID        int64     `json:"id,string"`
	NameAr    string    `json:"nameAr"`
	NameEn    string    `json:"nameEn,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Stage     string    `json:"stage,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToTeacherResponse(t *model.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:        t.ID,
		NameAr:    t.NameAR,
		NameEn:    t.NameEN,
		Subject:   t.Subject,
		Stage:     t.Stage,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
	}
}

func ToTeacherResponses(teachers []model.Teacher) []TeacherResponse {
	out := make([]TeacherResponse, len(teachers))
	for i := range teachers {
		out[i] = ToTeacherResponse(&teachers[i])
	}
	return out
}
