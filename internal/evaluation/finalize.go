package evaluation

import (
	"context"

	"basegraph.app/eleot/internal/clarify"
	"basegraph.app/eleot/internal/evidence"
	"basegraph.app/eleot/internal/narrative"
)

// Final is an evaluation after the clarification rules ran. Scores are in
// evaluation order and always within [1,4].
type Final struct {
	Output *Output
	Scores []clarify.Score
	Audit  []clarify.AdjustmentAudit
}

func (e *evaluator) Finalize(ctx context.Context, out *Output, req Request) *Final {
	scores := make([]clarify.Score, len(out.Criteria))
	for i, cr := range out.Criteria {
		scores[i] = clarify.Score{
			EnvironmentID: cr.Criterion.EnvironmentID,
			CriterionID:   cr.Criterion.ID,
			Score:         cr.Score,
		}
	}

	final, audit := e.rules.Apply(scores, req.answers(), out.Environments)
	for _, a := range audit {
		e.logger.InfoContext(ctx, "score adjusted by clarification",
			"criterion", a.CriterionID,
			"original", a.OriginalScore,
			"adjusted", a.AdjustedScore,
			"reason", a.Reason)
	}

	return &Final{Output: out, Scores: final, Audit: audit}
}

// ScoreMap maps criterion id to the final score.
func (f *Final) ScoreMap() map[string]int {
	m := make(map[string]int, len(f.Scores))
	for _, s := range f.Scores {
		m[s.CriterionID] = s.Score
	}
	return m
}

// View is the evaluation response body: the criterion-keyed result plus the
// flattened legacy view derived from the same computation. The legacy
// summary fields are also spread at the top level for older clients; the
// legacy scores array is only under "legacy" since "scores" is the map.
type View struct {
	Scores             map[string]int    `json:"scores"`
	Justifications     map[string]string `json:"justifications"`
	Improvements       map[string]string `json:"improvements"`
	UsedClarifications []string          `json:"used_clarifications"`
	Overall            narrative.Overall `json:"overall_recommendations"`
	LegacySummary
	Legacy Legacy `json:"legacy"`
}

func (f *Final) View() View {
	legacy := f.Legacy()
	return View{
		Scores:             f.ScoreMap(),
		Justifications:     f.Output.Justifications(),
		Improvements:       f.Output.Improvements(),
		UsedClarifications: f.Output.UsedClarifications,
		Overall:            f.Output.Overall,
		LegacySummary:      legacy.LegacySummary,
		Legacy:             legacy,
	}
}

// ScoreEntry is one criterion in the legacy flattened view.
type ScoreEntry struct {
	EnvironmentID    string            `json:"environmentId"`
	CriterionID      string            `json:"criterionId"`
	Score            int               `json:"score"`
	Justification    string            `json:"justification"`
	TermHits         int               `json:"termHits"`
	EvidenceSnippets []string          `json:"evidenceSnippets"`
	EvidenceStrength evidence.Strength `json:"evidenceStrength"`
	Debug            *evidence.Debug   `json:"_debug,omitempty"`
}

// LegacySummary holds the legacy fields other than the scores array.
type LegacySummary struct {
	// OverallScore is the unrounded mean of the final scores, 0 when nothing was scored.
	OverallScore       float64                   `json:"overallScore"`
	Strengths          []ScoreEntry              `json:"strengths"`
	Weaknesses         []ScoreEntry              `json:"weaknesses"`
	Recommendations    []string                  `json:"recommendations"`
	AdjustmentsAudit   []clarify.AdjustmentAudit `json:"adjustmentsAudit"`
	UsedClarifications []string                  `json:"usedClarifications"`
}

// Legacy is the flattened shape older consumers read.
type Legacy struct {
	LegacySummary
	Scores []ScoreEntry `json:"scores"`
}

// Legacy derives the flattened view. Strengths and weaknesses use final
// scores; recommendations are the improvement texts in evaluation order
// followed by the overall next steps.
func (f *Final) Legacy() Legacy {
	l := Legacy{
		LegacySummary: LegacySummary{
			Strengths:          []ScoreEntry{},
			Weaknesses:         []ScoreEntry{},
			Recommendations:    []string{},
			AdjustmentsAudit:   f.Audit,
			UsedClarifications: f.Output.UsedClarifications,
		},
		Scores: make([]ScoreEntry, 0, len(f.Scores)),
	}
	if l.AdjustmentsAudit == nil {
		l.AdjustmentsAudit = []clarify.AdjustmentAudit{}
	}

	sum := 0
	for i, s := range f.Scores {
		cr := f.Output.Criteria[i]
		entry := ScoreEntry{
			EnvironmentID:    s.EnvironmentID,
			CriterionID:      s.CriterionID,
			Score:            s.Score,
			Justification:    cr.Justification,
			TermHits:         cr.Evidence.TermHits,
			EvidenceSnippets: cr.Evidence.Snippets,
			EvidenceStrength: cr.Evidence.Strength,
			Debug:            cr.Evidence.Debug,
		}
		l.Scores = append(l.Scores, entry)
		switch {
		case s.Score == 4:
			l.Strengths = append(l.Strengths, entry)
		case s.Score <= 2:
			l.Weaknesses = append(l.Weaknesses, entry)
		}
		sum += s.Score
	}
	if len(f.Scores) > 0 {
		l.OverallScore = float64(sum) / float64(len(f.Scores))
	}

	for _, cr := range f.Output.Criteria {
		if cr.Improvement != "" {
			l.Recommendations = append(l.Recommendations, cr.Improvement)
		}
	}
	l.Recommendations = append(l.Recommendations, f.Output.Overall.NextSteps...)
	return l
}
