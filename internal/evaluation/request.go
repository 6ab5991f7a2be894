package evaluation

import (
	"errors"
	"strings"

	"basegraph.app/eleot/internal/textnorm"
)

// ErrMissingFields is returned when the description or the environment
// selection is missing. Nothing is computed for such a request.
var ErrMissingFields = errors.New("missing required fields: lessonDescription (or observationText/observation/text), selectedEnvironments (or environments)")

// Clarifications are the reviewer's answers to clarification questions,
// keyed by question id (or bare criterion id).
type Clarifications struct {
	Skipped bool
	Answers map[string]string
}

// Request is the canonical evaluation input. Field aliases are resolved by
// the transport layer before a Request is built.
type Request struct {
	Description    string
	Environments   []string
	Language       textnorm.Language
	Clarifications *Clarifications
	// Debug attaches per-criterion evidence diagnostics to the result.
	Debug bool
}

// Validate reports ErrMissingFields for an empty description or environment list.
func (r Request) Validate() error {
	if r.Description == "" || len(r.Environments) == 0 {
		return ErrMissingFields
	}
	return nil
}

// answers returns the raw answers that take part in scoring, or nil when the
// reviewer skipped clarification.
func (r Request) answers() map[string]string {
	if r.Clarifications == nil || r.Clarifications.Skipped {
		return nil
	}
	return r.Clarifications.Answers
}

func (r Request) language() textnorm.Language {
	if r.Language == "" {
		return textnorm.Arabic
	}
	return r.Language
}

// environmentIDs upper-cases and de-duplicates the selection, keeping the
// caller's order.
func environmentIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
