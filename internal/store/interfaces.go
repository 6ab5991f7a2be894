package store

import (
	"context"
	"errors"

	"basegraph.app/eleot/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// VisitStore defines the contract for visit data access. Scores and
// adjustments are stored and loaded together with their visit.
type VisitStore interface {
	// Create inserts the visit with its scores and adjustments. It reports
	// false when the visit already existed; nothing is overwritten.
	Create(ctx context.Context, visit *model.Visit) (bool, error)
	GetByID(ctx context.Context, id int64) (*model.Visit, error)
	// List returns visits newest first with their scores.
	List(ctx context.Context, limit, offset int32) ([]model.Visit, error)
	// Report returns the visits matching filter, latest visit date first, with their scores.
	Report(ctx context.Context, filter model.VisitFilter) ([]model.Visit, error)
	Delete(ctx context.Context, id int64) error
}

// TeacherStore defines the contract for the teacher directory.
type TeacherStore interface {
	// Create inserts the teacher and refreshes it with the stored row.
	Create(ctx context.Context, teacher *model.Teacher) error
	// ListActive returns active teachers ordered by Arabic name. An empty
	// search matches everyone.
	ListActive(ctx context.Context, search string, limit int32) ([]model.Teacher, error)
}
