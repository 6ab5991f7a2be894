// Package evidence matches lesson descriptions against the per-criterion
// evidence dictionary and grades how much lexical support a description
// gives each criterion.
package evidence

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"basegraph.app/eleot/internal/textnorm"
)

type Strength string

const (
	StrengthNone     Strength = "none"
	StrengthWeak     Strength = "weak"
	StrengthModerate Strength = "moderate"
	StrengthStrong   Strength = "strong"
)

// Strength tier thresholds on the evidence score.
const (
	strongThreshold   = 6
	moderateThreshold = 3
	weakThreshold     = 1
)

const (
	minSentenceLength  = 12
	minDescriptionSize = 20
	maxSnippets        = 2
	maxSnippetLength   = 220
	debugCandidates    = 3
)

type NoHitReason string

const (
	ReasonTooShort         NoHitReason = "EMPTY_OR_TOO_SHORT_DESCRIPTION"
	ReasonNoSignals        NoHitReason = "NO_SIGNALS_FOR_CRITERION"
	ReasonNoMatchNormalize NoHitReason = "NO_MATCH_AFTER_NORMALIZATION"
)

// Result is the evidence found for one criterion in one description.
type Result struct {
	TermHits        int      `json:"termHits"`
	Snippets        []string `json:"evidenceSnippets"`
	Strength        Strength `json:"evidenceStrength"`
	Score           int      `json:"evidenceScore"`
	StrongHits      int      `json:"strongHits"`
	WeakHits        int      `json:"weakHits"`
	PatternHits     int      `json:"patternHits"`
	DistinctSignals int      `json:"distinctSignals"`
	Debug           *Debug   `json:"_debug,omitempty"`
}

type Debug struct {
	NormalizedDescriptionLength int         `json:"normalizedDescriptionLength"`
	TopCandidateSentences       []Candidate `json:"topCandidateSentences"`
	MatchedSignals              []string    `json:"matchedSignals"`
	ReasonIfNoHits              NoHitReason `json:"reasonIfNoHits,omitempty"`
}

type Candidate struct {
	Text           string `json:"text"`
	KeywordMatches int    `json:"keywordMatches"`
	PatternMatches int    `json:"patternMatches"`
	EvidenceScore  int    `json:"evidenceScore"`
}

// BaseScore maps an evidence strength to a rubric score.
func BaseScore(s Strength) int {
	switch s {
	case StrengthStrong:
		return 4
	case StrengthModerate:
		return 3
	case StrengthWeak:
		return 2
	default:
		return 1
	}
}

func strengthFor(score int) Strength {
	switch {
	case score >= strongThreshold:
		return StrengthStrong
	case score >= moderateThreshold:
		return StrengthModerate
	case score >= weakThreshold:
		return StrengthWeak
	default:
		return StrengthNone
	}
}

// Engine evaluates descriptions against a Dictionary. It is safe for concurrent use.
type Engine struct {
	dict     *Dictionary
	keywords sync.Map // keywordKey -> *regexp.Regexp
}

type keywordKey struct {
	term string
	lang textnorm.Language
}

func NewEngine(dict *Dictionary) *Engine {
	if dict == nil {
		dict = DefaultDictionary()
	}
	return &Engine{dict: dict}
}

var sentenceBreaks = regexp.MustCompile(`[.!?\x{061F};\x{061B}\n]`)

// Sentences splits a raw description into candidate evidence sentences.
func Sentences(text string) []string {
	var out []string
	for _, seg := range sentenceBreaks.Split(text, -1) {
		seg = textnorm.CollapseSpace(seg)
		if runeLen(seg) >= minSentenceLength {
			out = append(out, seg)
		}
	}
	return out
}

type sentenceMatch struct {
	text           string
	keywordMatches int
	patternMatches int
	score          int
}

// Evaluate finds the evidence for criterionID in text. label is the
// criterion label in lang; its key terms are always added as weak signals.
func (e *Engine) Evaluate(text, criterionID string, lang textnorm.Language, label string, debug bool) Result {
	normalizedDescription := textnorm.Normalize(text, lang)
	base := e.dict.signals(criterionID, lang)

	strong := base.strong
	weak := base.weak
	if label != "" {
		weak = mergeTerms(weak, normalizeTerms(LabelTerms(label, lang), lang))
	}
	patterns := base.patterns
	hasSignals := len(strong)+len(weak)+len(patterns) > 0

	sentences := Sentences(text)

	var (
		matched        = newOrderedSet()
		strongSignals  = map[string]bool{}
		weakSignals    = map[string]bool{}
		patternSignals = map[string]bool{}
		matches        []sentenceMatch
	)

	for _, sentence := range sentences {
		normalized := textnorm.Normalize(sentence, lang)
		kw, pm := 0, 0

		for _, term := range strong {
			if e.keyword(term, lang).MatchString(normalized) {
				kw++
				strongSignals[term] = true
				matched.add(term)
			}
		}
		for _, term := range weak {
			if e.keyword(term, lang).MatchString(normalized) {
				kw++
				weakSignals[term] = true
				matched.add(term)
			}
		}
		for _, p := range patterns {
			if p.re == nil {
				continue
			}
			if p.re.MatchString(normalized) {
				pm++
				patternSignals[p.source] = true
				matched.add("/" + p.source + "/")
			}
		}

		if kw+pm > 0 {
			matches = append(matches, sentenceMatch{
				text:           sentence,
				keywordMatches: kw,
				patternMatches: pm,
				score:          kw + pm*2,
			})
		}
	}

	keywordHits := len(strongSignals) + len(weakSignals)
	patternHits := len(patternSignals)
	bonus := 0
	if len(matches) >= 2 {
		bonus = 1
	}
	score := keywordHits + patternHits*2 + bonus

	res := Result{
		TermHits:        keywordHits + patternHits,
		Strength:        strengthFor(score),
		Score:           score,
		StrongHits:      len(strongSignals),
		WeakHits:        len(weakSignals),
		PatternHits:     patternHits,
		DistinctSignals: matched.len(),
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.patternMatches != b.patternMatches {
			return a.patternMatches > b.patternMatches
		}
		return a.keywordMatches > b.keywordMatches
	})

	res.Snippets = []string{}
	for _, m := range matches {
		if len(res.Snippets) >= maxSnippets {
			break
		}
		snippet := Truncate(m.text)
		if !IsDuplicateSnippet(snippet, res.Snippets, lang) {
			res.Snippets = append(res.Snippets, snippet)
		}
	}

	if debug {
		d := &Debug{
			NormalizedDescriptionLength: runeLen(normalizedDescription),
			TopCandidateSentences:       []Candidate{},
			MatchedSignals:              matched.values(),
		}
		for i, m := range matches {
			if i >= debugCandidates {
				break
			}
			d.TopCandidateSentences = append(d.TopCandidateSentences, Candidate{
				Text:           Truncate(m.text),
				KeywordMatches: m.keywordMatches,
				PatternMatches: m.patternMatches,
				EvidenceScore:  m.score,
			})
		}
		if res.TermHits == 0 {
			switch {
			case runeLen(normalizedDescription) < minDescriptionSize || len(sentences) == 0:
				d.ReasonIfNoHits = ReasonTooShort
			case !base.fromDictionary && !hasSignals:
				d.ReasonIfNoHits = ReasonNoSignals
			default:
				d.ReasonIfNoHits = ReasonNoMatchNormalize
			}
		}
		res.Debug = d
	}

	return res
}

// keyword returns the boundary-safe matcher for a normalized term. Arabic has
// no \b equivalent, so terms must be flanked by whitespace, punctuation or the
// string boundary.
func (e *Engine) keyword(term string, lang textnorm.Language) *regexp.Regexp {
	key := keywordKey{term: term, lang: lang}
	if re, ok := e.keywords.Load(key); ok {
		return re.(*regexp.Regexp)
	}

	quoted := regexp.QuoteMeta(term)
	var re *regexp.Regexp
	if lang == textnorm.Arabic {
		flank := `[` + textnorm.WhitespaceClass + `،.؛:!?()\[\]{}"']`
		re = regexp.MustCompile(`(?:^|` + flank + `)` + quoted + `(?:$|` + flank + `)`)
	} else {
		re = regexp.MustCompile(`\b` + quoted + `\b`)
	}
	actual, _ := e.keywords.LoadOrStore(key, re)
	return actual.(*regexp.Regexp)
}

// Truncate shortens a sentence to 220 runes at the last space and appends an ellipsis.
func Truncate(sentence string) string {
	sentence = textnorm.CollapseSpace(sentence)
	runes := []rune(sentence)
	if len(runes) <= maxSnippetLength {
		return sentence
	}
	trimmed := string(runes[:maxSnippetLength])
	if i := strings.LastIndex(trimmed, " "); i > 0 {
		return trimmed[:i] + "…"
	}
	return trimmed + "…"
}

func mergeTerms(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, t := range list {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]bool{}}
}

func (s *orderedSet) add(v string) {
	if !s.seen[v] {
		s.seen[v] = true
		s.items = append(s.items, v)
	}
}

func (s *orderedSet) len() int { return len(s.items) }

func (s *orderedSet) values() []string {
	return append([]string{}, s.items...)
}
