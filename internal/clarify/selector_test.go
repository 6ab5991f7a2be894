package clarify_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/eleot/internal/clarify"
	"basegraph.app/eleot/internal/textnorm"
)

func questionIDs(qs []clarify.Question) []string {
	ids := make([]string, 0, len(qs))
	for _, q := range qs {
		ids = append(ids, q.ID)
	}
	return ids
}

var _ = Describe("Selector", func() {
	var selector *clarify.Selector

	BeforeEach(func() {
		selector = clarify.NewSelector(nil)
	})

	Describe("Needed", func() {
		Context("when the description is too short to assess", func() {
			It("should return every question of the selected environments", func() {
				qs := selector.Needed("  حصة قصيرة  ", []string{"D"}, textnorm.Arabic)

				Expect(questionIDs(qs)).To(Equal([]string{
					"D1_discussions", "D2_real_life", "D3_active_engagement", "D4_collaboration",
				}))
			})

			It("should keep bank order across environments", func() {
				qs := selector.Needed("...", []string{"G", "A"}, textnorm.English)

				Expect(qs).To(HaveLen(7))
				Expect(qs[0].ID).To(Equal("A1_differentiated"))
				Expect(qs[6].ID).To(Equal("G3_communication"))
			})
		})

		Context("when the description covers some criteria", func() {
			It("should only ask about criteria without evidence phrases", func() {
				desc := "Students discuss the problem in pairs and then students collaborate on a poster."

				qs := selector.Needed(desc, []string{"D"}, textnorm.English)

				Expect(questionIDs(qs)).To(ConsistOf("D2_real_life", "D3_active_engagement"))
			})

			It("should match phrases case-insensitively", func() {
				desc := "STUDENTS DISCUSS openly while the teacher listens carefully."

				qs := selector.Needed(desc, []string{"D"}, textnorm.English)

				Expect(questionIDs(qs)).NotTo(ContainElement("D1_discussions"))
			})

			It("should use the phrase list of the requested language", func() {
				desc := "الطلاب يناقشون الحلول ويستخدمون أمثلة من حياتهم اليومية"

				qs := selector.Needed(desc, []string{"D"}, textnorm.Arabic)

				Expect(questionIDs(qs)).NotTo(ContainElement("D1_discussions"))
				Expect(questionIDs(qs)).To(ContainElement("D4_collaboration"))
			})
		})

		Context("when every criterion has evidence", func() {
			It("should return an empty list", func() {
				desc := "Students use technology to research, then students communicate digitally with peers."

				qs := selector.Needed(desc, []string{"G"}, textnorm.English)

				Expect(qs).NotTo(BeNil())
				Expect(qs).To(BeEmpty())
			})
		})

		Context("when no environment is known", func() {
			It("should return nothing", func() {
				Expect(selector.Needed("short", []string{"Z"}, textnorm.English)).To(BeEmpty())
			})
		})
	})
})
