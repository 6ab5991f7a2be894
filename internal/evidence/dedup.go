package evidence

import (
	"strings"

	"basegraph.app/eleot/internal/textnorm"
)

const duplicateOverlap = 0.8

// IsDuplicateSnippet reports whether snippet is a near-duplicate of any of
// existing: equal after normalization, contained in one another, or sharing
// more than 80% of their whitespace tokens (Jaccard).
func IsDuplicateSnippet(snippet string, existing []string, lang textnorm.Language) bool {
	normalized := textnorm.Normalize(snippet, lang)
	for _, candidate := range existing {
		other := textnorm.Normalize(candidate, lang)
		if normalized == other {
			return true
		}
		if strings.Contains(normalized, other) || strings.Contains(other, normalized) {
			return true
		}
		if jaccard(textnorm.Fields(normalized), textnorm.Fields(other)) > duplicateOverlap {
			return true
		}
	}
	return false
}

func jaccard(a, b []string) float64 {
	setA := setOf(a...)
	setB := setOf(b...)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Deduper claims snippets across criteria for one evaluation run. The first
// criterion to claim a sentence keeps it; later criteria lose near-duplicates.
type Deduper struct {
	lang    textnorm.Language
	claimed []string
}

func NewDeduper(lang textnorm.Language) *Deduper {
	return &Deduper{lang: lang}
}

// Claim filters snippets against everything claimed so far and claims the
// survivors. When filtering would empty a non-empty list, the first original
// snippet is kept (and claimed) so a criterion with evidence never shows none.
func (d *Deduper) Claim(snippets []string) []string {
	if len(snippets) == 0 {
		return []string{}
	}

	kept := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if IsDuplicateSnippet(s, d.claimed, d.lang) {
			continue
		}
		kept = append(kept, s)
		d.claimed = append(d.claimed, s)
	}

	if len(kept) == 0 {
		kept = append(kept, snippets[0])
		d.claimed = append(d.claimed, snippets[0])
	}
	return kept
}
