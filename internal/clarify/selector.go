package clarify

import (
	"strings"
	"unicode/utf8"

	"basegraph.app/eleot/internal/textnorm"
)

const minAssessableLength = 20

// Selector picks the clarification questions a description still needs.
type Selector struct {
	bank *Bank
}

func NewSelector(bank *Bank) *Selector {
	if bank == nil {
		bank = DefaultBank()
	}
	return &Selector{bank: bank}
}

// Needed returns the questions of envIDs whose criterion has none of its
// evidence phrases in description. A description shorter than 20 characters
// after trimming cannot be assessed, so every question is returned. An empty
// result means no clarification is needed.
func (s *Selector) Needed(description string, envIDs []string, lang textnorm.Language) []Question {
	questions := s.bank.ForEnvironments(envIDs)

	trimmed := strings.TrimSpace(description)
	if utf8.RuneCountInString(trimmed) < minAssessableLength {
		return questions
	}

	lower := strings.ToLower(description)
	needed := []Question{}
	for _, q := range questions {
		if !s.hasEvidence(q.CriterionID, lower, lang) {
			needed = append(needed, q)
		}
	}
	return needed
}

func (s *Selector) hasEvidence(criterionID, lowerDescription string, lang textnorm.Language) bool {
	for _, phrase := range s.bank.evidencePhrases(criterionID, lang) {
		if strings.Contains(lowerDescription, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
