package narrative_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/eleot/internal/clarify"
	"basegraph.app/eleot/internal/evidence"
	"basegraph.app/eleot/internal/narrative"
	"basegraph.app/eleot/internal/rubric"
	"basegraph.app/eleot/internal/textnorm"
)

var _ = Describe("Builder", func() {
	var (
		builder *narrative.Builder
		rb      *rubric.Rubric
	)

	criterion := func(id string) rubric.Criterion {
		c, ok := rb.Criterion(id)
		Expect(ok).To(BeTrue())
		return c
	}

	BeforeEach(func() {
		rb = rubric.Default()
		builder = narrative.NewBuilder(rb)
	})

	Describe("Justification", func() {
		Context("when the criterion has templates and corroborated evidence", func() {
			It("should quote the first snippet in the picked variant", func() {
				text := builder.Justification(narrative.JustificationInput{
					Criterion: criterion("D1"),
					Evidence: evidence.Result{
						TermHits: 3,
						Snippets: []string{"Students debated their answers", "other"},
						Strength: evidence.StrengthModerate,
					},
					Language: textnorm.English,
				})

				Expect(text).To(Equal(`The description shows idea exchange among learners e.g., "Students debated their answers", aligning with student discussion.`))
			})
		})

		Context("when evidence exists but is weak", func() {
			It("should append the limited-evidence qualifier", func() {
				text := builder.Justification(narrative.JustificationInput{
					Criterion: criterion("D4"),
					Evidence:  evidence.Result{TermHits: 1, Snippets: []string{}, Strength: evidence.StrengthWeak},
					Language:  textnorm.Arabic,
				})

				Expect(text).To(HavePrefix("التعاون بين المتعلمين واضح كما ورد في الوصف"))
				Expect(text).To(HaveSuffix(" لكن الدليل محدود."))
			})
		})

		Context("when there is no evidence but a clarification was given", func() {
			It("should append a reviewer note", func() {
				text := builder.Justification(narrative.JustificationInput{
					Criterion:     criterion("D4"),
					Evidence:      evidence.Result{Snippets: []string{}, Strength: evidence.StrengthNone},
					Clarification: clarify.AnswerNo,
					Language:      textnorm.English,
				})

				Expect(text).To(Equal("Collaboration is not evident; look for shared roles, joint products, or peer support. Reviewer note: Clarification answer: no"))
			})

			It("should not append a note when evidence exists", func() {
				text := builder.Justification(narrative.JustificationInput{
					Criterion:     criterion("G1"),
					Evidence:      evidence.Result{TermHits: 4, Snippets: []string{"Students used tablets"}, Strength: evidence.StrengthStrong},
					Clarification: clarify.AnswerYes,
					Language:      textnorm.English,
				})

				Expect(text).NotTo(ContainSubstring("Reviewer note"))
				Expect(text).NotTo(ContainSubstring("Evidence is limited"))
			})
		})

		Context("when the criterion has no templates", func() {
			It("should fall back to a label-based sentence", func() {
				c := criterion("A1")

				text := builder.Justification(narrative.JustificationInput{
					Criterion: c,
					Evidence:  evidence.Result{Snippets: []string{}, Strength: evidence.StrengthNone},
					Language:  textnorm.English,
				})

				Expect(builder.HasTemplates("A1")).To(BeFalse())
				Expect(text).To(Equal(`The description does not provide sufficient evidence of "` + c.LabelEN + `"; specify observable learner actions.`))
			})
		})

		It("should be deterministic", func() {
			in := narrative.JustificationInput{
				Criterion: criterion("F3"),
				Evidence:  evidence.Result{TermHits: 2, Snippets: []string{"الانتقال كان سريعاً"}, Strength: evidence.StrengthWeak},
				Language:  textnorm.Arabic,
			}

			Expect(builder.Justification(in)).To(Equal(builder.Justification(in)))
		})
	})

	Describe("Improvement", func() {
		It("should pick the authored variant", func() {
			Expect(builder.Improvement(criterion("D1"), textnorm.Arabic)).
				To(Equal("صمّم بروتوكولات نقاش مع أدوار محددة وتغذية راجعة بين الأقران لتوثيق الحوار الطلابي."))
		})

		It("should fall back to the label", func() {
			c := criterion("B3")
			Expect(builder.Improvement(c, textnorm.English)).
				To(Equal(`Strengthen "` + c.LabelEN + `" with concrete steps and observable learner behaviors.`))
		})
	})

	Describe("Overall", func() {
		It("should report strengths, weaknesses and weakness next steps", func() {
			scored := []narrative.ScoredCriterion{
				{Criterion: criterion("G1"), Score: 4, Justification: "g1"},
				{Criterion: criterion("G2"), Score: 4, Justification: "g2"},
				{Criterion: criterion("G3"), Score: 4, Justification: "g3"},
				{Criterion: criterion("D1"), Score: 4, Justification: "d1"},
				{Criterion: criterion("D2"), Score: 2, Justification: "d2"},
			}

			out := builder.Overall(scored, textnorm.English)

			Expect(out.Strengths).To(Equal([]narrative.Strength{{
				Env:      "G",
				Title:    "Digital Learning",
				Evidence: "All criteria in environment G received a score of 4/4",
			}}))
			Expect(out.Weaknesses).To(HaveLen(1))
			Expect(out.Weaknesses[0].Criterion).To(Equal("D2"))
			Expect(out.Weaknesses[0].Evidence).To(Equal("d2"))
			Expect(out.NextSteps).To(HaveLen(3))
			Expect(out.NextSteps[0]).To(Equal("Focus on improving 1 criteria that received low scores (1 or 2)"))
		})

		It("should keep going when nothing is weak", func() {
			scored := []narrative.ScoredCriterion{
				{Criterion: criterion("F1"), Score: 3},
			}

			out := builder.Overall(scored, textnorm.Arabic)

			Expect(out.Strengths).To(BeEmpty())
			Expect(out.Weaknesses).To(BeEmpty())
			Expect(out.NextSteps).To(Equal([]string{
				"الاستمرار في الممارسات الحالية الفعالة",
				"تعزيز نقاط القوة والبناء عليها",
			}))
		})
	})
})
