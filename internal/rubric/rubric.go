// Package rubric holds the ELEOT reference tables: environments, criteria,
// generic score justifications and the grade list. The tables are embedded,
// validated once and shared read-only for the process lifetime.
package rubric

import (
	_ "embed"
	"strconv"
	"strings"
	"sync"

	"basegraph.app/eleot/internal/refdata"
	"basegraph.app/eleot/internal/textnorm"
)

//go:embed rubric.yaml
var rubricYAML []byte

const rubricSchema = `{
  "type": "object",
  "required": ["environments", "justifications", "grades"],
  "properties": {
    "environments": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "name_ar", "name_en", "criteria"],
        "properties": {
          "id": {"type": "string", "pattern": "^[A-G]$"},
          "criteria": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["id", "label_ar", "label_en"],
              "properties": {"id": {"type": "string", "pattern": "^[A-G][0-9]+$"}}
            }
          }
        }
      }
    },
    "justifications": {
      "type": "object",
      "required": ["1", "2", "3", "4"]
    },
    "grades": {"type": "array"}
  }
}`

type Criterion struct {
	ID            string `yaml:"id" json:"id"`
	EnvironmentID string `yaml:"-" json:"environment_id"`
	LabelAR       string `yaml:"label_ar" json:"label_ar"`
	LabelEN       string `yaml:"label_en" json:"label_en"`
}

// Label returns the criterion label in the given language.
func (c Criterion) Label(lang textnorm.Language) string {
	if lang == textnorm.Arabic {
		return c.LabelAR
	}
	return c.LabelEN
}

type Environment struct {
	ID       string      `yaml:"id" json:"id"`
	NameAR   string      `yaml:"name_ar" json:"name_ar"`
	NameEN   string      `yaml:"name_en" json:"name_en"`
	Criteria []Criterion `yaml:"criteria" json:"criteria"`
}

func (e Environment) Name(lang textnorm.Language) string {
	if lang == textnorm.Arabic {
		return e.NameAR
	}
	return e.NameEN
}

type Grade struct {
	Value   string `yaml:"value" json:"value"`
	LabelAR string `yaml:"label_ar" json:"label_ar"`
	LabelEN string `yaml:"label_en" json:"label_en"`
}

type bilingual struct {
	AR string `yaml:"ar"`
	EN string `yaml:"en"`
}

type document struct {
	Environments   []Environment        `yaml:"environments"`
	Justifications map[string]bilingual `yaml:"justifications"`
	Grades         []Grade              `yaml:"grades"`
}

// Rubric is the immutable ELEOT reference table.
type Rubric struct {
	environments   []Environment
	envByID        map[string]*Environment
	criterionByID  map[string]Criterion
	order          map[string]int
	justifications map[int]bilingual
	grades         []Grade
}

var (
	defaultRubric *Rubric
	defaultOnce   sync.Once
)

// Default returns the embedded rubric. It panics if the embedded table is invalid.
func Default() *Rubric {
	defaultOnce.Do(func() {
		var doc document
		refdata.MustDecode("rubric", rubricYAML, rubricSchema, &doc)
		defaultRubric = build(doc)
	})
	return defaultRubric
}

func build(doc document) *Rubric {
	r := &Rubric{
		envByID:        make(map[string]*Environment, len(doc.Environments)),
		criterionByID:  make(map[string]Criterion),
		order:          make(map[string]int),
		justifications: make(map[int]bilingual, len(doc.Justifications)),
		grades:         doc.Grades,
	}

	pos := 0
	for _, env := range doc.Environments {
		for i := range env.Criteria {
			env.Criteria[i].EnvironmentID = env.ID
			r.criterionByID[env.Criteria[i].ID] = env.Criteria[i]
			r.order[env.Criteria[i].ID] = pos
			pos++
		}
		r.environments = append(r.environments, env)
	}
	for i := range r.environments {
		r.envByID[r.environments[i].ID] = &r.environments[i]
	}

	for k, v := range doc.Justifications {
		if n, err := strconv.Atoi(k); err == nil {
			r.justifications[n] = v
		}
	}
	return r
}

// Environments returns all environments in rubric order.
func (r *Rubric) Environments() []Environment {
	return r.environments
}

// Environment looks an environment up by its single-letter id.
func (r *Rubric) Environment(id string) (Environment, bool) {
	env, ok := r.envByID[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return Environment{}, false
	}
	return *env, true
}

// Criterion looks a criterion up by id (e.g. "D4").
func (r *Rubric) Criterion(id string) (Criterion, bool) {
	c, ok := r.criterionByID[strings.ToUpper(strings.TrimSpace(id))]
	return c, ok
}

// Order returns the position of a criterion in rubric order, or -1.
func (r *Rubric) Order(criterionID string) int {
	if pos, ok := r.order[criterionID]; ok {
		return pos
	}
	return -1
}

// Justification returns the generic justification for a 1-4 score.
func (r *Rubric) Justification(score int, lang textnorm.Language) string {
	j, ok := r.justifications[score]
	if !ok {
		return ""
	}
	if lang == textnorm.Arabic {
		return j.AR
	}
	return j.EN
}

func (r *Rubric) Grades() []Grade {
	return r.grades
}

// GradeLabel returns the localized label of a grade value, or the value itself.
func (r *Rubric) GradeLabel(value string, lang textnorm.Language) string {
	for _, g := range r.grades {
		if g.Value == value {
			if lang == textnorm.Arabic {
				return g.LabelAR
			}
			return g.LabelEN
		}
	}
	return value
}
