package store

import (
	"basegraph.app/eleot/core/db/sqlc"
)

// Provider exposes the stores bound to one query set, usually a transaction.
type Provider interface {
	Visits() VisitStore
}

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Visits() VisitStore {
	return newVisitStore(s.queries)
}

func (s *Stores) Teachers() TeacherStore {
	return newTeacherStore(s.queries)
}
