// Package clarify holds the clarification question bank, the selector that
// decides which questions a description still needs, answer normalization and
// the deterministic post-scoring rule engine.
package clarify

import (
	_ "embed"
	"strings"
	"sync"

	"basegraph.app/eleot/internal/refdata"
	"basegraph.app/eleot/internal/textnorm"
)

//go:embed questions.yaml
var questionsYAML []byte

const questionsSchema = `{
  "type": "object",
  "required": ["questions", "phrases"],
  "properties": {
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "criterion", "environment", "question_ar", "question_en", "options"],
        "properties": {
          "id":          {"type": "string", "pattern": "^[A-G][0-9]+_[a-z_]+$"},
          "criterion":   {"type": "string", "pattern": "^[A-G][0-9]+$"},
          "environment": {"type": "string", "pattern": "^[A-G]$"},
          "options": {
            "type": "array",
            "minItems": 2,
            "items": {
              "type": "object",
              "required": ["value", "semantics", "label_ar", "label_en"],
              "properties": {
                "semantics": {"enum": ["positive", "negative", "unclear"]}
              }
            }
          }
        }
      }
    },
    "phrases": {
      "type": "object",
      "propertyNames": {"pattern": "^[A-G][0-9]+$"},
      "additionalProperties": {
        "type": "object",
        "properties": {
          "ar": {"type": "array", "items": {"type": "string"}},
          "en": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

// Semantics is the meaning of an answer option independent of its wording.
type Semantics string

const (
	Positive Semantics = "positive"
	Negative Semantics = "negative"
	Unclear  Semantics = "unclear"
)

type Option struct {
	Value     string    `yaml:"value" json:"value"`
	Semantics Semantics `yaml:"semantics" json:"semantics"`
	LabelAR   string    `yaml:"label_ar" json:"label_ar"`
	LabelEN   string    `yaml:"label_en" json:"label_en"`
}

func (o Option) Label(lang textnorm.Language) string {
	if lang == textnorm.Arabic {
		return o.LabelAR
	}
	return o.LabelEN
}

type Question struct {
	ID            string   `yaml:"id" json:"id"`
	CriterionID   string   `yaml:"criterion" json:"criterionId"`
	EnvironmentID string   `yaml:"environment" json:"environmentId"`
	TextAR        string   `yaml:"question_ar" json:"question_ar"`
	TextEN        string   `yaml:"question_en" json:"question_en"`
	Options       []Option `yaml:"options" json:"options"`
}

func (q Question) Text(lang textnorm.Language) string {
	if lang == textnorm.Arabic {
		return q.TextAR
	}
	return q.TextEN
}

// Option returns the option with the given value.
func (q Question) Option(value string) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

type phraseLists struct {
	AR []string `yaml:"ar"`
	EN []string `yaml:"en"`
}

type bankDocument struct {
	Questions []Question             `yaml:"questions"`
	Phrases   map[string]phraseLists `yaml:"phrases"`
}

// Bank is the read-only question bank.
type Bank struct {
	questions   []Question
	byID        map[string]Question
	byCriterion map[string]Question
	phrases     map[string]phraseLists
}

var (
	defaultBank     *Bank
	defaultBankOnce sync.Once
)

// DefaultBank returns the embedded question bank.
func DefaultBank() *Bank {
	defaultBankOnce.Do(func() {
		var doc bankDocument
		refdata.MustDecode("clarification_questions", questionsYAML, questionsSchema, &doc)
		defaultBank = newBank(doc)
	})
	return defaultBank
}

func newBank(doc bankDocument) *Bank {
	b := &Bank{
		questions:   doc.Questions,
		byID:        make(map[string]Question, len(doc.Questions)),
		byCriterion: make(map[string]Question, len(doc.Questions)),
		phrases:     doc.Phrases,
	}
	for _, q := range doc.Questions {
		b.byID[q.ID] = q
		if _, ok := b.byCriterion[q.CriterionID]; !ok {
			b.byCriterion[q.CriterionID] = q
		}
	}
	return b
}

// All returns every question in bank order.
func (b *Bank) All() []Question {
	return b.questions
}

func (b *Bank) ByID(id string) (Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// ByCriterion returns the question asked for a criterion.
func (b *Bank) ByCriterion(criterionID string) (Question, bool) {
	q, ok := b.byCriterion[strings.ToUpper(criterionID)]
	return q, ok
}

// ForEnvironments returns the questions of the given environments in bank order.
func (b *Bank) ForEnvironments(envIDs []string) []Question {
	want := make(map[string]bool, len(envIDs))
	for _, id := range envIDs {
		want[strings.ToUpper(strings.TrimSpace(id))] = true
	}
	out := []Question{}
	for _, q := range b.questions {
		if want[q.EnvironmentID] {
			out = append(out, q)
		}
	}
	return out
}

func (b *Bank) evidencePhrases(criterionID string, lang textnorm.Language) []string {
	p := b.phrases[criterionID]
	if lang == textnorm.Arabic {
		return p.AR
	}
	return p.EN
}
