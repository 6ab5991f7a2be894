// Package scoring turns lexical evidence into 1-4 rubric scores, optionally
// anchored by a clarification answer.
package scoring

import (
	"strings"

	"basegraph.app/eleot/internal/evidence"
	"basegraph.app/eleot/internal/rubric"
	"basegraph.app/eleot/internal/textnorm"
)

const (
	MinScore = 1
	MaxScore = 4
)

// Anchor is the score implied by a clarification answer. AnchorNone means the
// answer did not resolve to yes, no or unclear.
type Anchor int

const (
	AnchorNone    Anchor = 0
	AnchorNo      Anchor = 1
	AnchorUnclear Anchor = 2
	AnchorYes     Anchor = 4
)

// AnchorFromResponse resolves a response string to an anchor by family
// matching. Yes-family is checked before no-family.
func AnchorFromResponse(response string) Anchor {
	v := strings.ToLower(strings.TrimSpace(response))
	if v == "" {
		return AnchorNone
	}
	switch {
	case v == "yes" || strings.HasPrefix(v, "yes_") || strings.Contains(v, "_yes") || strings.Contains(v, "نعم"):
		return AnchorYes
	case v == "no" || strings.HasPrefix(v, "no_") || strings.Contains(v, "_no") || strings.Contains(v, "لا") || v == "did_not":
		return AnchorNo
	case strings.Contains(v, "unclear") || strings.Contains(v, "غير واضح"):
		return AnchorUnclear
	}
	return AnchorNone
}

type Result struct {
	Score     int
	BaseScore int
	Anchor    Anchor
	Evidence  evidence.Result
}

// Scorer computes per-criterion scores. It holds no per-request state.
type Scorer struct {
	engine *evidence.Engine
}

func NewScorer(engine *evidence.Engine) *Scorer {
	if engine == nil {
		engine = evidence.NewEngine(nil)
	}
	return &Scorer{engine: engine}
}

// Score evaluates one criterion. response is the normalized clarification
// answer for the criterion ("yes", "no", "unclear") or empty.
func (s *Scorer) Score(text string, c rubric.Criterion, lang textnorm.Language, response string, debug bool) Result {
	ev := s.engine.Evaluate(text, c.ID, lang, c.Label(lang), debug)
	base := evidence.BaseScore(ev.Strength)
	anchor := AnchorFromResponse(response)

	return Result{
		Score:     Apply(base, anchor, ev),
		BaseScore: base,
		Anchor:    anchor,
		Evidence:  ev,
	}
}

// Apply combines a base score with an anchor. A yes anchor raises to at least
// 3 but never forces 4. A no anchor gives 1 when there is no lexical evidence
// at all, otherwise caps at 2.
func Apply(base int, anchor Anchor, ev evidence.Result) int {
	score := base
	switch anchor {
	case AnchorYes:
		score = max(base, 3)
	case AnchorNo:
		if ev.Strength == evidence.StrengthNone && ev.TermHits == 0 {
			score = 1
		} else {
			score = min(2, base)
		}
	}
	return Clamp(score)
}

// Clamp bounds a score to [1,4].
func Clamp(score int) int {
	return max(MinScore, min(MaxScore, score))
}
