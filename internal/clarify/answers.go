package clarify

import (
	"regexp"
	"sort"
	"strings"

	"basegraph.app/eleot/internal/textnorm"
)

// Answer is a clarification answer reduced to yes, no or unclear.
type Answer string

const (
	AnswerYes     Answer = "yes"
	AnswerNo      Answer = "no"
	AnswerUnclear Answer = "unclear"
)

const answerUnknown = "unknown"

func answerFor(s Semantics) Answer {
	switch s {
	case Positive:
		return AnswerYes
	case Negative:
		return AnswerNo
	default:
		return AnswerUnclear
	}
}

// Note renders the answer as the reviewer note appended to a justification.
func (a Answer) Note(lang textnorm.Language) string {
	if lang != textnorm.Arabic {
		return "Clarification answer: " + string(a)
	}
	switch a {
	case AnswerYes:
		return "إجابة التوضيح: نعم"
	case AnswerNo:
		return "إجابة التوضيح: لا"
	default:
		return "إجابة التوضيح: غير واضح"
	}
}

var criterionKey = regexp.MustCompile(`(?i)^([A-G]\d+)`)

// CriterionFromKey extracts the criterion id from an answer key such as
// "D4", "d4" or "D4_collaboration". Keys that do not start with a criterion
// id are returned unchanged.
func CriterionFromKey(key string) string {
	m := criterionKey.FindStringSubmatch(key)
	if m == nil {
		return key
	}
	return strings.ToUpper(m[1])
}

// NormalizeAnswer resolves value through the semantics tag of the matching
// option. The question is looked up by questionID, then by criterionID. A
// value that is not an option of the question falls back to the legacy
// substring heuristic. Empty and "unknown" values are not answers.
func (b *Bank) NormalizeAnswer(questionID, criterionID, value string) (Answer, bool) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, answerUnknown) {
		return "", false
	}

	q, ok := b.ByID(questionID)
	if !ok {
		q, ok = b.ByCriterion(criterionID)
	}
	if ok {
		if opt, found := q.Option(v); found {
			return answerFor(opt.Semantics), true
		}
	}
	return legacyAnswer(v), true
}

// Resolved is the per-criterion view of a set of raw clarification answers.
type Resolved struct {
	// Responses maps criterion id to the normalized answer.
	Responses map[string]Answer
	// Used lists the criteria whose answer was taken into account, in bank order.
	Used []string
}

// Resolve normalizes raw answers keyed by question id (or criterion id).
// Keys that do not map to a known criterion are ignored. When two keys map to
// the same criterion, the lexically last key wins.
func (b *Bank) Resolve(answers map[string]string) Resolved {
	res := Resolved{Responses: map[string]Answer{}, Used: []string{}}
	if len(answers) == 0 {
		return res
	}

	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		criterionID := CriterionFromKey(key)
		if _, ok := b.ByCriterion(criterionID); !ok {
			continue
		}
		a, ok := b.NormalizeAnswer(key, criterionID, answers[key])
		if !ok {
			continue
		}
		res.Responses[criterionID] = a
	}

	for _, q := range b.questions {
		if _, ok := res.Responses[q.CriterionID]; ok {
			res.Used = append(res.Used, q.CriterionID)
		}
	}
	return res
}

var (
	legacyYes = []string{
		"yes_", "_yes", "نعم", "equal", "fair", "safe", "challenging", "smooth", "used",
		"followed", "true_collaboration", "differentiated", "supported", "active",
		"monitoring", "demonstrated", "respectful", "articulated", "quality",
		"higher_order", "self_directed", "community", "positive", "predominate",
		"connected", "purposeful",
	}
	legacyNo = []string{
		"no_", "_no", "لا", "unequal", "inconsistent", "not_safe", "too_easy",
		"too_difficult", "chaotic", "did_not", "proximity_only", "same_activities",
		"not_clear", "not_articulated", "low_quality", "lower_order", "teacher_directed",
		"weak_community", "negative", "teacher_talks", "no_connection", "passive",
		"not_monitoring", "no_feedback", "not_respectful", "wasted_time",
	}
)

// legacyAnswer is the substring heuristic used before options carried
// semantics. The yes family is checked first, so a value containing both a
// yes-ish and a no-ish fragment ("no_unequal" contains "equal") resolves to
// yes. It only runs for values outside the option table.
func legacyAnswer(value string) Answer {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "yes" || v == "unclear" || containsAny(v, legacyYes) {
		if v == "unclear" || strings.Contains(v, "غير واضح") {
			return AnswerUnclear
		}
		return AnswerYes
	}
	if v == "no" || containsAny(v, legacyNo) {
		return AnswerNo
	}
	return AnswerUnclear
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
