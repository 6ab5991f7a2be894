// Package narrative turns criterion evidence into reviewer-facing text:
// per-criterion justifications, improvement suggestions and the overall
// strengths, weaknesses and next steps.
package narrative

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"basegraph.app/eleot/internal/clarify"
	"basegraph.app/eleot/internal/evidence"
	"basegraph.app/eleot/internal/refdata"
	"basegraph.app/eleot/internal/rubric"
	"basegraph.app/eleot/internal/textnorm"
)

//go:embed templates.yaml
var templatesYAML []byte

const templatesSchema = `{
  "type": "object",
  "propertyNames": {"pattern": "^[A-G][0-9]+$"},
  "additionalProperties": {
    "type": "object",
    "required": ["ar", "en"],
    "additionalProperties": false,
    "properties": {
      "ar": {"$ref": "#/$defs/set"},
      "en": {"$ref": "#/$defs/set"}
    }
  },
  "$defs": {
    "variants": {"type": "array", "minItems": 1, "items": {"type": "string"}},
    "set": {
      "type": "object",
      "required": ["with_evidence", "without_evidence", "improvement"],
      "properties": {
        "with_evidence":    {"$ref": "#/$defs/variants"},
        "without_evidence": {"$ref": "#/$defs/variants"},
        "improvement":      {"$ref": "#/$defs/variants"}
      }
    }
  }
}`

const snippetPlaceholder = "{snippet}"

type templateSet struct {
	WithEvidence    []string `yaml:"with_evidence"`
	WithoutEvidence []string `yaml:"without_evidence"`
	Improvement     []string `yaml:"improvement"`
}

type bilingualSet struct {
	AR templateSet `yaml:"ar"`
	EN templateSet `yaml:"en"`
}

func (b bilingualSet) For(lang textnorm.Language) templateSet {
	if lang == textnorm.Arabic {
		return b.AR
	}
	return b.EN
}

var (
	defaultTemplates     map[string]bilingualSet
	defaultTemplatesOnce sync.Once
)

func loadTemplates() map[string]bilingualSet {
	defaultTemplatesOnce.Do(func() {
		defaultTemplates = map[string]bilingualSet{}
		refdata.MustDecode("narrative_templates", templatesYAML, templatesSchema, &defaultTemplates)
	})
	return defaultTemplates
}

// PickVariant deterministically picks one of n variants for a criterion: the
// sum of the id's character codes modulo n.
func PickVariant(criterionID string, n int) int {
	if n <= 1 {
		return 0
	}
	sum := 0
	for _, r := range criterionID {
		sum += int(r)
	}
	return sum % n
}

// Builder renders narratives. It is stateless and safe for concurrent use.
type Builder struct {
	rubric    *rubric.Rubric
	templates map[string]bilingualSet
}

func NewBuilder(r *rubric.Rubric) *Builder {
	if r == nil {
		r = rubric.Default()
	}
	return &Builder{rubric: r, templates: loadTemplates()}
}

type JustificationInput struct {
	Criterion rubric.Criterion
	Evidence  evidence.Result
	// Clarification is the normalized answer for the criterion, empty when none was given.
	Clarification clarify.Answer
	Language      textnorm.Language
}

// Justification explains a criterion score. Criteria without authored
// templates get a generic sentence built around the criterion label.
func (b *Builder) Justification(in JustificationInput) string {
	lang := in.Language
	ev := in.Evidence
	hasEvidence := ev.TermHits > 0 || len(ev.Snippets) > 0
	corroborated := ev.Strength == evidence.StrengthStrong || ev.Strength == evidence.StrengthModerate

	var statement string
	if set, ok := b.templates[in.Criterion.ID]; ok {
		t := set.For(lang)
		variants := t.WithoutEvidence
		if hasEvidence {
			variants = t.WithEvidence
		}
		var first string
		if len(ev.Snippets) > 0 {
			first = ev.Snippets[0]
		}
		statement = strings.Replace(variants[PickVariant(in.Criterion.ID, len(variants))], snippetPlaceholder, snippetText(first, lang), 1)
	} else {
		statement = fallbackJustification(in.Criterion.Label(lang), hasEvidence, lang)
	}

	switch {
	case !hasEvidence && in.Clarification != "":
		if lang == textnorm.Arabic {
			return statement + " ملاحظة المقيّم: " + in.Clarification.Note(lang)
		}
		return statement + " Reviewer note: " + in.Clarification.Note(lang)
	case hasEvidence && !corroborated:
		if lang == textnorm.Arabic {
			return statement + " لكن الدليل محدود."
		}
		return statement + " Evidence is limited."
	}
	return statement
}

// Improvement suggests how to raise a criterion. Callers only ask for it when
// the criterion scored 2 or less.
func (b *Builder) Improvement(c rubric.Criterion, lang textnorm.Language) string {
	if set, ok := b.templates[c.ID]; ok {
		variants := set.For(lang).Improvement
		return variants[PickVariant(c.ID, len(variants))]
	}
	if lang == textnorm.Arabic {
		return fmt.Sprintf("عزّز \"%s\" بخطوات عملية واضحة وأمثلة على سلوك المتعلمين.", c.LabelAR)
	}
	return fmt.Sprintf("Strengthen \"%s\" with concrete steps and observable learner behaviors.", c.LabelEN)
}

// HasTemplates reports whether a criterion has authored phrasings.
func (b *Builder) HasTemplates(criterionID string) bool {
	_, ok := b.templates[criterionID]
	return ok
}

func snippetText(snippet string, lang textnorm.Language) string {
	if snippet != "" {
		if lang == textnorm.Arabic {
			return fmt.Sprintf("مثل: \"%s\"", snippet)
		}
		return fmt.Sprintf("e.g., \"%s\"", snippet)
	}
	if lang == textnorm.Arabic {
		return "كما ورد في الوصف"
	}
	return "as described in the lesson"
}

func fallbackJustification(label string, hasEvidence bool, lang textnorm.Language) string {
	ar := lang == textnorm.Arabic
	switch {
	case hasEvidence && ar:
		return fmt.Sprintf("ظهرت مؤشرات على \"%s\" في الوصف، لكن يلزم توضيح سلوك المتعلمين بشكل أدق.", label)
	case hasEvidence:
		return fmt.Sprintf("There are indicators of \"%s\" in the description, but learner actions need clearer evidence.", label)
	case ar:
		return fmt.Sprintf("الوصف لا يوضح أدلة كافية على \"%s\"؛ يحتاج المعيار إلى سلوكيات متعلمين محددة.", label)
	default:
		return fmt.Sprintf("The description does not provide sufficient evidence of \"%s\"; specify observable learner actions.", label)
	}
}
