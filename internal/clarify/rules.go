package clarify

import (
	"strings"

	"basegraph.app/eleot/internal/scoring"
)

// Score is one criterion score as seen by the rule engine.
type Score struct {
	EnvironmentID string
	CriterionID   string
	Score         int
}

// AdjustmentAudit records a score the rule engine moved.
type AdjustmentAudit struct {
	CriterionID   string `json:"criterionId"`
	OriginalScore int    `json:"originalScore"`
	AdjustedScore int    `json:"adjustedScore"`
	Reason        string `json:"reason"`
}

type boundKind int

const (
	capAt boundKind = iota
	floorAt
)

type bound struct {
	kind      boundKind
	threshold int
	reason    string
}

// apply returns the bounded score and whether it changed.
func (b bound) apply(score int) (int, bool) {
	switch b.kind {
	case capAt:
		if score > b.threshold {
			return b.threshold, true
		}
	case floorAt:
		if score < b.threshold {
			return b.threshold, true
		}
	}
	return score, false
}

type rule struct {
	questionID  string
	criterionID string
	// outcomes is keyed by the literal answer value.
	outcomes map[string]bound
}

// defaultRules are the hard bounds clarification facts put on lexical scores.
// The C1 rule is keyed by "C1_intellectual_risk", which existing clients send
// verbatim even though the bank asks C1 as "C1_community".
var defaultRules = []rule{
	{
		questionID:  "A2_access",
		criterionID: "A2",
		outcomes: map[string]bound{
			"no_unequal": {capAt, 2, "Clarification: Unequal access reported"},
			"yes_equal":  {floorAt, 3, "Clarification: Equal access confirmed"},
		},
	},
	{
		questionID:  "A3_fair",
		criterionID: "A3",
		outcomes: map[string]bound{
			"no_inconsistent": {capAt, 2, "Clarification: Inconsistent treatment reported"},
			"yes_fair":        {floorAt, 3, "Clarification: Fair treatment confirmed"},
		},
	},
	{
		questionID:  "A4_respect",
		criterionID: "A4",
		outcomes: map[string]bound{
			"no_not_clear": {capAt, 2, "Clarification: Respect not clearly observed"},
			"yes_respect":  {floorAt, 3, "Clarification: Clear respect confirmed"},
		},
	},
	{
		questionID:  "B2_challenge",
		criterionID: "B2",
		outcomes: map[string]bound{
			"too_easy":        {capAt, 2, "Clarification: Activities too easy"},
			"too_difficult":   {capAt, 2, "Clarification: Activities too difficult"},
			"yes_challenging": {floorAt, 3, "Clarification: Appropriate challenge level confirmed"},
		},
	},
	{
		questionID:  "C1_intellectual_risk",
		criterionID: "C1",
		outcomes: map[string]bound{
			"no_not_safe": {capAt, 1, "Clarification: Students did not feel safe to ask questions"},
			"yes_safe":    {floorAt, 3, "Clarification: Safe environment for questions confirmed"},
		},
	},
}

// RuleEngine applies clarification rules after lexical scoring. Its output
// takes precedence over the scorer.
type RuleEngine struct {
	rules []rule
}

func NewRuleEngine() *RuleEngine {
	return &RuleEngine{rules: defaultRules}
}

// Apply bounds scores by the literal clarification answers and clamps every
// score to [1,4]. The input slice is not modified. Rules for criteria outside
// the selected environments are skipped. Applying the result again with the
// same answers changes nothing.
func (e *RuleEngine) Apply(scores []Score, answers map[string]string, envIDs []string) ([]Score, []AdjustmentAudit) {
	final := make([]Score, len(scores))
	copy(final, scores)
	audit := []AdjustmentAudit{}

	selected := make(map[string]bool, len(envIDs))
	for _, id := range envIDs {
		selected[strings.ToUpper(strings.TrimSpace(id))] = true
	}

	for _, r := range e.rules {
		b, ok := r.outcomes[answers[r.questionID]]
		if !ok {
			continue
		}
		if !selected[r.criterionID[:1]] {
			continue
		}
		idx := indexOf(final, r.criterionID)
		if idx < 0 {
			continue
		}
		original := final[idx].Score
		adjusted, changed := b.apply(original)
		if !changed {
			continue
		}
		final[idx].Score = adjusted
		audit = append(audit, AdjustmentAudit{
			CriterionID:   r.criterionID,
			OriginalScore: original,
			AdjustedScore: adjusted,
			Reason:        b.reason,
		})
	}

	for i := range final {
		final[i].Score = scoring.Clamp(final[i].Score)
	}
	return final, audit
}

func indexOf(scores []Score, criterionID string) int {
	for i, s := range scores {
		if s.CriterionID == criterionID {
			return i
		}
	}
	return -1
}
