package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"basegraph.app/eleot/common/id"
	"basegraph.app/eleot/internal/model"
	"basegraph.app/eleot/internal/store"
)

// ErrInvalidTeacher is returned when a teacher has no Arabic name.
var ErrInvalidTeacher = errors.New("teacher nameAr is required")

const teacherSearchLimit = 50

type CreateTeacherParams struct {
	NameAR  string
	NameEN  string
	Subject string
	Stage   string
}

type TeacherService interface {
	Create(ctx context.Context, params CreateTeacherParams) (*model.Teacher, error)
	// Search returns up to 50 active teachers whose Arabic or English name
	// contains query, ignoring case.
	Search(ctx context.Context, query string) ([]model.Teacher, error)
}

type teacherService struct {
	teachers store.TeacherStore
	logger   *slog.Logger
}

func NewTeacherService(teachers store.TeacherStore, logger *slog.Logger) TeacherService {
	if logger == nil {
		logger = slog.Default()
	}
	return &teacherService{teachers: teachers, logger: logger}
}

func (s *teacherService) Create(ctx context.Context, params CreateTeacherParams) (*model.Teacher, error) {
	nameAR := strings.TrimSpace(params.NameAR)
	if nameAR == "" {
		return nil, ErrInvalidTeacher
	}

	t := &model.Teacher{
		ID:       id.New(),
		NameAR:   nameAR,
		NameEN:   strings.TrimSpace(params.NameEN),
		Subject:  strings.TrimSpace(params.Subject),
		Stage:    strings.TrimSpace(params.Stage),
		IsActive: true,
	}

	if err := s.teachers.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating teacher: %w", err)
	}

	s.logger.InfoContext(ctx, "teacher created", "teacher_id", t.ID)
	return t, nil
}

func (s *teacherService) Search(ctx context.Context, query string) ([]model.Teacher, error) {
	teachers, err := s.teachers.ListActive(ctx, strings.TrimSpace(query), teacherSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("listing teachers: %w", err)
	}
	return teachers, nil
}
