package evaluation_test

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/eleot/internal/clarify"
	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/evidence"
	"basegraph.app/eleot/internal/textnorm"
)

// neutral carries no signal for any D or C criterion, dictionary or label.
const neutral = "The weather outside was sunny and warm all morning."

var _ = Describe("Evaluator", func() {
	var (
		ctx       context.Context
		evaluator evaluation.Evaluator
	)

	BeforeEach(func() {
		ctx = context.Background()
		evaluator = evaluation.New(nil)
	})

	criterion := func(out *evaluation.Output, id string) evaluation.CriterionResult {
		cr, ok := out.Criterion(id)
		Expect(ok).To(BeTrue(), "criterion %s not evaluated", id)
		return cr
	}

	Describe("Evaluate", func() {
		Context("when required fields are missing", func() {
			It("should reject an empty description", func() {
				out, err := evaluator.Evaluate(ctx, evaluation.Request{Environments: []string{"D"}})

				Expect(err).To(MatchError(evaluation.ErrMissingFields))
				Expect(out).To(BeNil())
			})

			It("should reject an empty environment selection", func() {
				_, err := evaluator.Evaluate(ctx, evaluation.Request{Description: neutral})

				Expect(err).To(MatchError(evaluation.ErrMissingFields))
			})
		})

		It("should evaluate in environment order then rubric order", func() {
			out, err := evaluator.Evaluate(ctx, evaluation.Request{
				Description:  neutral,
				Environments: []string{"g", "D", "G", "Z"},
				Language:     textnorm.English,
			})
			Expect(err).NotTo(HaveOccurred())

			var ids []string
			for _, cr := range out.Criteria {
				ids = append(ids, cr.Criterion.ID)
			}
			Expect(ids).To(Equal([]string{"G1", "G2", "G3", "D1", "D2", "D3", "D4"}))
			Expect(out.Environments).To(Equal([]string{"G", "D", "Z"}))
		})

		Context("when a criterion has no signals and no answer", func() {
			It("should score 1 with no evidence", func() {
				out, err := evaluator.Evaluate(ctx, evaluation.Request{
					Description:  neutral,
					Environments: []string{"D"},
					Language:     textnorm.English,
				})
				Expect(err).NotTo(HaveOccurred())

				d1 := criterion(out, "D1")
				Expect(d1.Score).To(Equal(1))
				Expect(d1.Evidence.Strength).To(Equal(evidence.StrengthNone))
				Expect(d1.Evidence.Snippets).To(BeEmpty())
				Expect(d1.Improvement).NotTo(BeEmpty())
			})

			It("should score 2 for weak evidence", func() {
				out, err := evaluator.Evaluate(ctx, evaluation.Request{
					Description:  "Students held a class discussion about the weather outside.",
					Environments: []string{"D"},
					Language:     textnorm.English,
				})
				Expect(err).NotTo(HaveOccurred())

				d1 := criterion(out, "D1")
				Expect(d1.Evidence.Strength).To(Equal(evidence.StrengthWeak))
				Expect(d1.Score).To(Equal(2))
			})
		})

		Context("with clarification answers", func() {
			It("should force 1 when the answer is no and there is no evidence", func() {
				out, err := evaluator.Evaluate(ctx, evaluation.Request{
					Description:    neutral,
					Environments:   []string{"D"},
					Language:       textnorm.English,
					Clarifications: &evaluation.Clarifications{Answers: map[string]string{"D4": "no"}},
				})
				Expect(err).NotTo(HaveOccurred())

				d4 := criterion(out, "D4")
				Expect(d4.Clarification).To(Equal(clarify.AnswerNo))
				Expect(d4.Score).To(Equal(1))
				Expect(d4.Justification).To(ContainSubstring("Reviewer note: Clarification answer: no"))
			})

			It("should raise a yes answer to 3 but not 4", func() {
				out, err := evaluator.Evaluate(ctx, evaluation.Request{
					Description:    neutral,
					Environments:   []string{"D"},
					Language:       textnorm.English,
					Clarifications: &evaluation.Clarifications{Answers: map[string]string{"D1_discussions": "yes_predominate"}},
				})
				Expect(err).NotTo(HaveOccurred())

				d1 := criterion(out, "D1")
				Expect(d1.Evidence.Strength).To(Equal(evidence.StrengthNone))
				Expect(d1.Score).To(Equal(3))
				Expect(out.UsedClarifications).To(Equal([]string{"D1"}))
			})

			It("should ignore unknown and empty answers", func() {
				out, err := evaluator.Evaluate(ctx, evaluation.Request{
					Description:  neutral,
					Environments: []string{"D"},
					Language:     textnorm.English,
					Clarifications: &evaluation.Clarifications{Answers: map[string]string{
						"D1": "unknown",
						"D2": "",
					}},
				})
				Expect(err).NotTo(HaveOccurred())

				Expect(criterion(out, "D1").Score).To(Equal(1))
				Expect(criterion(out, "D2").Score).To(Equal(1))
				Expect(out.UsedClarifications).To(BeEmpty())
			})

			It("should ignore answers when clarification was skipped", func() {
				out, err := evaluator.Evaluate(ctx, evaluation.Request{
					Description:  neutral,
					Environments: []string{"D"},
					Language:     textnorm.English,
					Clarifications: &evaluation.Clarifications{
						Skipped: true,
						Answers: map[string]string{"D1": "yes"},
					},
				})
				Expect(err).NotTo(HaveOccurred())

				Expect(criterion(out, "D1").Score).To(Equal(1))
			})
		})

		It("should credit think-pair-share to D1 with its sentence as evidence", func() {
			text := "بدأ الطلاب الدرس بنشاط فكر زاوج شارك"

			out, err := evaluator.Evaluate(ctx, evaluation.Request{
				Description:  text,
				Environments: []string{"D"},
				Language:     textnorm.Arabic,
			})
			Expect(err).NotTo(HaveOccurred())

			d1 := criterion(out, "D1")
			Expect(d1.Score).To(BeNumerically(">=", 3))
			Expect(d1.Evidence.PatternHits).To(BeNumerically(">=", 1))
			Expect(d1.Evidence.Snippets).NotTo(BeEmpty())
			Expect(d1.Evidence.Snippets[0]).To(Equal(text))
		})

		It("should report a too-short description in debug mode", func() {
			out, err := evaluator.Evaluate(ctx, evaluation.Request{
				Description:  "...",
				Environments: []string{"D"},
				Language:     textnorm.Arabic,
				Debug:        true,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(out.Criteria).To(HaveLen(4))
			for _, cr := range out.Criteria {
				Expect(cr.Score).To(Equal(1), cr.Criterion.ID)
				Expect(cr.Evidence.Strength).To(Equal(evidence.StrengthNone))
				Expect(cr.Evidence.Debug).NotTo(BeNil())
				Expect(cr.Evidence.Debug.ReasonIfNoHits).To(Equal(evidence.ReasonTooShort))
			}
		})

		It("should omit diagnostics when debug is off", func() {
			out, err := evaluator.Evaluate(ctx, evaluation.Request{
				Description:  "...",
				Environments: []string{"D"},
			})
			Expect(err).NotTo(HaveOccurred())

			for _, cr := range out.Criteria {
				Expect(cr.Evidence.Debug).To(BeNil())
			}
		})

		Context("when one sentence supports several criteria", func() {
			const (
				shared = "Students worked together in a collaborative group using tablets"
				other  = "Later the students opened the online platform at home"
			)

			It("should keep it only for the first criterion evaluated", func() {
				out, err := evaluator.Evaluate(ctx, evaluation.Request{
					Description:  shared + ". " + other + ".",
					Environments: []string{"D", "G"},
					Language:     textnorm.English,
				})
				Expect(err).NotTo(HaveOccurred())

				Expect(criterion(out, "D4").Evidence.Snippets).To(ContainElement(shared))

				g1 := criterion(out, "G1")
				Expect(g1.Evidence.TermHits).To(BeNumerically(">=", 3))
				Expect(g1.Evidence.Snippets).To(Equal([]string{other}))
			})
		})
	})

	Describe("Finalize", func() {
		It("should let clarification rules override the scorer and audit the change", func() {
			req := evaluation.Request{
				Description:  neutral,
				Environments: []string{"C"},
				Language:     textnorm.English,
				Clarifications: &evaluation.Clarifications{
					Answers: map[string]string{"C1_intellectual_risk": "no_not_safe"},
				},
			}

			final, err := evaluator.Run(ctx, req)
			Expect(err).NotTo(HaveOccurred())

			// The free-text value is outside C1's options and reads as yes.
			Expect(criterion(final.Output, "C1").Score).To(Equal(3))
			Expect(final.ScoreMap()["C1"]).To(Equal(1))
			Expect(final.Audit).To(Equal([]clarify.AdjustmentAudit{{
				CriterionID:   "C1",
				OriginalScore: 3,
				AdjustedScore: 1,
				Reason:        "Clarification: Students did not feel safe to ask questions",
			}}))
		})

		It("should not change anything without rule answers", func() {
			final, err := evaluator.Run(ctx, evaluation.Request{
				Description:  neutral,
				Environments: []string{"A", "B"},
				Language:     textnorm.English,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(final.Audit).To(BeEmpty())
			for i, s := range final.Scores {
				Expect(s.Score).To(Equal(final.Output.Criteria[i].Score))
			}
		})
		It("should spread the legacy summary at the top level of the view", func() {
			final, err := evaluator.Run(ctx, evaluation.Request{
				Description:  neutral,
				Environments: []string{"C"},
				Language:     textnorm.English,
			})
			Expect(err).NotTo(HaveOccurred())

			raw, err := json.Marshal(final.View())
			Expect(err).NotTo(HaveOccurred())
			var body map[string]any
			Expect(json.Unmarshal(raw, &body)).To(Succeed())

			Expect(body).To(HaveKeyWithValue("overallScore", final.Legacy().OverallScore))
			Expect(body).To(HaveKey("strengths"))
			Expect(body).To(HaveKey("weaknesses"))
			Expect(body).To(HaveKey("recommendations"))
			Expect(body).To(HaveKey("adjustmentsAudit"))
			Expect(body).To(HaveKey("usedClarifications"))
			Expect(body["scores"]).To(BeAssignableToTypeOf(map[string]any{}))
			Expect(body["legacy"]).To(HaveKey("scores"))
		})
	})

	Describe("debug samples", func() {
		It("should ship the five payloads in order", func() {
			var ids []string
			for _, s := range evaluation.Samples() {
				ids = append(ids, s.ID)
			}
			Expect(ids).To(Equal([]string{
				"rich-evidence",
				"low-evidence",
				"mixed-evidence-clarifications",
				"rich-dfg-expanded",
				"too-short",
			}))
		})

		It("should keep every score within bounds before and after the rules", func() {
			for _, s := range evaluation.Samples() {
				final, err := evaluator.Run(ctx, s.Request(false))
				Expect(err).NotTo(HaveOccurred(), s.ID)

				Expect(final.Scores).To(HaveLen(len(final.Output.Criteria)))
				for i := range final.Scores {
					Expect(final.Output.Criteria[i].Score).To(BeNumerically(">=", 1))
					Expect(final.Output.Criteria[i].Score).To(BeNumerically("<=", 4))
					Expect(final.Scores[i].Score).To(BeNumerically(">=", 1))
					Expect(final.Scores[i].Score).To(BeNumerically("<=", 4))
				}
			}
		})

		It("should be deterministic", func() {
			for _, s := range evaluation.Samples() {
				a, err := evaluator.Run(ctx, s.Request(true))
				Expect(err).NotTo(HaveOccurred())
				b, err := evaluator.Run(ctx, s.Request(true))
				Expect(err).NotTo(HaveOccurred())

				Expect(a.View()).To(Equal(b.View()), s.ID)
			}
		})

		It("should apply the mixed sample's clarifications", func() {
			s, ok := evaluation.SampleByID("mixed-evidence-clarifications")
			Expect(ok).To(BeTrue())

			final, err := evaluator.Run(ctx, s.Request(false))
			Expect(err).NotTo(HaveOccurred())

			Expect(final.Output.UsedClarifications).To(Equal([]string{"D1", "F3", "G2"}))
			Expect(criterion(final.Output, "D1").Score).To(BeNumerically(">=", 3))
			Expect(criterion(final.Output, "F3").Score).To(BeNumerically("<=", 2))
			Expect(criterion(final.Output, "G2").Score).To(BeNumerically(">=", 3))
		})
	})
})
