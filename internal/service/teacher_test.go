package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/eleot/common/id"
	"basegraph.app/eleot/internal/model"
	"basegraph.app/eleot/internal/service"
)

var _ = Describe("TeacherService", func() {
	var (
		ctx      context.Context
		teachers *mockTeacherStore
		svc      service.TeacherService
	)

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())
		teachers = &mockTeacherStore{}
		svc = service.NewTeacherService(teachers, nil)
	})

	Describe("Create", func() {
		It("should assign an id and store an active teacher", func() {
			var stored *model.Teacher
			teachers.createFn = func(_ context.Context, t *model.Teacher) error {
				stored = t
				return nil
			}

			teacher, err := svc.Create(ctx, service.CreateTeacherParams{NameAR: "  منى  ", NameEN: "Mona", Subject: "Science"})

			Expect(err).NotTo(HaveOccurred())
			Expect(teacher).To(BeIdenticalTo(stored))
			Expect(teacher.ID).NotTo(BeZero())
			Expect(teacher.NameAR).To(Equal("منى"))
			Expect(teacher.IsActive).To(BeTrue())
		})

		It("should require an Arabic name", func() {
			called := false
			teachers.createFn = func(context.Context, *model.Teacher) error {
				called = true
				return nil
			}

			_, err := svc.Create(ctx, service.CreateTeacherParams{NameEN: "Mona"})

			Expect(err).To(MatchError(service.ErrInvalidTeacher))
			Expect(called).To(BeFalse())
		})

		It("should wrap store errors", func() {
			teachers.createFn = func(context.Context, *model.Teacher) error {
				return errors.New("boom")
			}

			_, err := svc.Create(ctx, service.CreateTeacherParams{NameAR: "منى"})

			Expect(err).To(MatchError(ContainSubstring("creating teacher: boom")))
		})
	})

	Describe("Search", func() {
		It("should trim the query and cap results", func() {
			var gotSearch string
			var gotLimit int32
			teachers.listActiveFn = func(_ context.Context, search string, limit int32) ([]model.Teacher, error) {
				gotSearch, gotLimit = search, limit
				return []model.Teacher{{ID: 1, NameAR: "منى"}}, nil
			}

			result, err := svc.Search(ctx, "  mo ")

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(gotSearch).To(Equal("mo"))
			Expect(gotLimit).To(Equal(int32(50)))
		})
	})
})
