package evidence

import (
	_ "embed"
	"regexp"
	"strings"
	"sync"

	"basegraph.app/eleot/internal/refdata"
	"basegraph.app/eleot/internal/textnorm"
)

//go:embed dictionary.yaml
var dictionaryYAML []byte

const dictionarySchema = `{
  "type": "object",
  "propertyNames": {"pattern": "^[A-G][0-9]+$"},
  "additionalProperties": {
    "type": "object",
    "required": ["strong", "weak"],
    "properties": {
      "strong":   {"$ref": "#/$defs/terms"},
      "weak":     {"$ref": "#/$defs/terms"},
      "patterns": {"$ref": "#/$defs/terms"}
    }
  },
  "$defs": {
    "terms": {
      "type": "object",
      "properties": {
        "ar": {"type": "array", "items": {"type": "string"}},
        "en": {"type": "array", "items": {"type": "string"}}
      },
      "additionalProperties": false
    }
  }
}`

type termLists struct {
	AR []string `yaml:"ar"`
	EN []string `yaml:"en"`
}

func (t termLists) For(lang textnorm.Language) []string {
	if lang == textnorm.Arabic {
		return t.AR
	}
	return t.EN
}

// Entry is the raw dictionary entry of one criterion.
type Entry struct {
	Strong   termLists `yaml:"strong"`
	Weak     termLists `yaml:"weak"`
	Patterns termLists `yaml:"patterns"`
}

// compiledPattern keeps the lowercased source for reporting; re is nil when
// the source did not compile, in which case the pattern never matches.
type compiledPattern struct {
	source string
	re     *regexp.Regexp
}

type signals struct {
	strong   []string
	weak     []string
	patterns []compiledPattern
	// fromDictionary is false when the entry has no terms at all for the language.
	fromDictionary bool
}

// Dictionary is the read-only evidence dictionary with terms pre-normalized
// and patterns pre-compiled per language.
type Dictionary struct {
	entries  map[string]Entry
	prepared map[string]map[textnorm.Language]signals
}

var (
	defaultDictionary *Dictionary
	defaultDictOnce   sync.Once
)

// DefaultDictionary returns the embedded dictionary.
func DefaultDictionary() *Dictionary {
	defaultDictOnce.Do(func() {
		entries := map[string]Entry{}
		refdata.MustDecode("evidence_dictionary", dictionaryYAML, dictionarySchema, &entries)
		defaultDictionary = NewDictionary(entries)
	})
	return defaultDictionary
}

// NewDictionary prepares a dictionary from raw entries.
func NewDictionary(entries map[string]Entry) *Dictionary {
	d := &Dictionary{
		entries:  entries,
		prepared: make(map[string]map[textnorm.Language]signals, len(entries)),
	}
	for id, e := range entries {
		d.prepared[id] = map[textnorm.Language]signals{
			textnorm.Arabic:  prepare(e, textnorm.Arabic),
			textnorm.English: prepare(e, textnorm.English),
		}
	}
	return d
}

func prepare(e Entry, lang textnorm.Language) signals {
	strong := e.Strong.For(lang)
	weak := e.Weak.For(lang)
	patterns := e.Patterns.For(lang)

	s := signals{
		strong:         normalizeTerms(strong, lang),
		weak:           normalizeTerms(weak, lang),
		fromDictionary: len(strong)+len(weak)+len(patterns) > 0,
	}

	seen := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		src := strings.ToLower(p)
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		re, err := regexp.Compile(src)
		if err != nil {
			re = nil
		}
		s.patterns = append(s.patterns, compiledPattern{source: src, re: re})
	}
	return s
}

// Entry returns the raw entry for a criterion.
func (d *Dictionary) Entry(criterionID string) (Entry, bool) {
	e, ok := d.entries[criterionID]
	return e, ok
}

func (d *Dictionary) signals(criterionID string, lang textnorm.Language) signals {
	if byLang, ok := d.prepared[criterionID]; ok {
		return byLang[lang]
	}
	return signals{}
}

func normalizeTerms(terms []string, lang textnorm.Language) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		n := textnorm.Normalize(t, lang)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

var (
	arabicStopwords  = setOf("ال", "في", "من", "على", "إلى", "عن", "مع", "و", "أو", "أن", "هذا", "هذه", "ذلك", "تلك", "تم", "كان", "كانت")
	englishStopwords = setOf("the", "and", "or", "are", "was", "were", "with", "from", "to", "of", "in", "on", "for", "a", "an", "is", "it", "that")

	labelNoise = regexp.MustCompile(`[^\w\s\x{0600}-\x{06FF}]`)
)

// LabelTerms extracts fallback weak terms from a criterion label.
func LabelTerms(label string, lang textnorm.Language) []string {
	clean := textnorm.CollapseSpace(labelNoise.ReplaceAllString(strings.ToLower(label), " "))
	if clean == "" {
		return nil
	}
	stop := englishStopwords
	if lang == textnorm.Arabic {
		stop = arabicStopwords
	}

	var out []string
	for _, w := range strings.Split(clean, " ") {
		if runeLen(w) < 3 || stop[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

func setOf(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
