// Package evaluation runs the full lesson evaluation pipeline: clarification
// answers are resolved, every criterion of the selected environments is
// scored, evidence snippets are de-duplicated across criteria, narratives are
// written and the clarification rules finalize the scores.
package evaluation

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"basegraph.app/eleot/common/logger"
	"basegraph.app/eleot/internal/clarify"
	"basegraph.app/eleot/internal/evidence"
	"basegraph.app/eleot/internal/narrative"
	"basegraph.app/eleot/internal/rubric"
	"basegraph.app/eleot/internal/scoring"
	"basegraph.app/eleot/internal/textnorm"
)

// Evaluator scores lesson descriptions. Implementations hold only read-only
// reference data and are safe for concurrent use.
type Evaluator interface {
	// Evaluate computes per-criterion scores and narratives before the
	// clarification rules run.
	Evaluate(ctx context.Context, req Request) (*Output, error)
	// Finalize applies the clarification rules to an Evaluate result.
	Finalize(ctx context.Context, out *Output, req Request) *Final
	// Run is Evaluate followed by Finalize.
	Run(ctx context.Context, req Request) (*Final, error)
}

// CriterionResult is one evaluated criterion. Score is the scorer's result,
// before clarification rules.
type CriterionResult struct {
	Criterion     rubric.Criterion
	Score         int
	BaseScore     int
	Anchor        scoring.Anchor
	Clarification clarify.Answer
	Evidence      evidence.Result
	Justification string
	// Improvement is set only for scores of 2 or less.
	Improvement string
}

// Output is the pre-finalization result. Criteria are in evaluation order:
// environment selection order, then rubric order within an environment.
type Output struct {
	Language           textnorm.Language
	Environments       []string
	Criteria           []CriterionResult
	UsedClarifications []string
	Overall            narrative.Overall
}

type evaluator struct {
	rubric    *rubric.Rubric
	bank      *clarify.Bank
	scorer    *scoring.Scorer
	narrative *narrative.Builder
	rules     *clarify.RuleEngine
	logger    *slog.Logger
}

// New returns an Evaluator over the embedded reference tables.
func New(logger *slog.Logger) Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	rb := rubric.Default()
	return &evaluator{
		rubric:    rb,
		bank:      clarify.DefaultBank(),
		scorer:    scoring.NewScorer(evidence.NewEngine(nil)),
		narrative: narrative.NewBuilder(rb),
		rules:     clarify.NewRuleEngine(),
		logger:    logger,
	}
}

func (e *evaluator) Evaluate(ctx context.Context, req Request) (*Output, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sc := logger.StartSpan(ctx, "evaluation.evaluate")
	defer sc.End()
	ctx = sc.Context()

	lang := req.language()
	envIDs := environmentIDs(req.Environments)
	resolved := e.bank.Resolve(req.answers())

	sc.Span().SetAttributes(
		attribute.String("eleot.language", string(lang)),
		attribute.StringSlice("eleot.environments", envIDs),
		attribute.Int("eleot.description_length", len([]rune(req.Description))),
		attribute.Int("eleot.clarifications", len(resolved.Used)),
	)

	out := &Output{
		Language:           lang,
		Environments:       envIDs,
		Criteria:           []CriterionResult{},
		UsedClarifications: resolved.Used,
	}

	for _, envID := range envIDs {
		env, ok := e.rubric.Environment(envID)
		if !ok {
			e.logger.WarnContext(ctx, "unknown environment skipped", "environment", envID)
			continue
		}
		for _, c := range env.Criteria {
			answer := resolved.Responses[c.ID]
			res := e.scorer.Score(req.Description, c, lang, string(answer), req.Debug)
			out.Criteria = append(out.Criteria, CriterionResult{
				Criterion:     c,
				Score:         res.Score,
				BaseScore:     res.BaseScore,
				Anchor:        res.Anchor,
				Clarification: answer,
				Evidence:      res.Evidence,
			})
			e.logger.DebugContext(ctx, "criterion scored",
				"criterion", c.ID,
				"score", res.Score,
				"anchor", int(res.Anchor),
				"term_hits", res.Evidence.TermHits,
				"strength", res.Evidence.Strength)
		}
	}

	// The same sentence is evidence only for the first criterion that claims it.
	dedup := evidence.NewDeduper(lang)
	for i := range out.Criteria {
		out.Criteria[i].Evidence.Snippets = dedup.Claim(out.Criteria[i].Evidence.Snippets)
	}

	scored := make([]narrative.ScoredCriterion, 0, len(out.Criteria))
	for i := range out.Criteria {
		cr := &out.Criteria[i]
		cr.Justification = e.narrative.Justification(narrative.JustificationInput{
			Criterion:     cr.Criterion,
			Evidence:      cr.Evidence,
			Clarification: cr.Clarification,
			Language:      lang,
		})
		if cr.Score <= 2 {
			cr.Improvement = e.narrative.Improvement(cr.Criterion, lang)
		}
		scored = append(scored, narrative.ScoredCriterion{
			Criterion:     cr.Criterion,
			Score:         cr.Score,
			Justification: cr.Justification,
		})
	}
	out.Overall = e.narrative.Overall(scored, lang)

	e.logger.DebugContext(ctx, "evaluation completed",
		"criteria", len(out.Criteria),
		"used_clarifications", len(out.UsedClarifications))

	return out, nil
}

func (e *evaluator) Run(ctx context.Context, req Request) (*Final, error) {
	out, err := e.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}
	return e.Finalize(ctx, out, req), nil
}

// Scores maps criterion id to the pre-rule score.
func (o *Output) Scores() map[string]int {
	m := make(map[string]int, len(o.Criteria))
	for _, cr := range o.Criteria {
		m[cr.Criterion.ID] = cr.Score
	}
	return m
}

func (o *Output) Justifications() map[string]string {
	m := make(map[string]string, len(o.Criteria))
	for _, cr := range o.Criteria {
		m[cr.Criterion.ID] = cr.Justification
	}
	return m
}

// Improvements maps criterion id to improvement text for low-scoring criteria only.
func (o *Output) Improvements() map[string]string {
	m := map[string]string{}
	for _, cr := range o.Criteria {
		if cr.Improvement != "" {
			m[cr.Criterion.ID] = cr.Improvement
		}
	}
	return m
}

// Criterion returns the result for a criterion id.
func (o *Output) Criterion(id string) (CriterionResult, bool) {
	for _, cr := range o.Criteria {
		if cr.Criterion.ID == id {
			return cr, true
		}
	}
	return CriterionResult{}, false
}
