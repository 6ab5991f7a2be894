package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/eleot/internal/http/handler"
	"basegraph.app/eleot/internal/model"
	"basegraph.app/eleot/internal/service"
)

var _ = Describe("TeacherHandler", func() {
	var (
		router *gin.Engine
		svc    *mockTeacherService
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockTeacherService{}
		h := handler.NewTeacherHandler(svc)
		router.GET("/api/v1/teachers", h.List)
		router.POST("/api/v1/teachers", h.Create)
	})

	Describe("List", func() {
		It("passes the search query and wraps the result", func() {
			var got string
			svc.searchFn = func(_ context.Context, q string) ([]model.Teacher, error) {
				got = q
				return []model.Teacher{{ID: 42, NameAR: "منى", IsActive: true}}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/teachers?search=mo", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(got).To(Equal("mo"))
			var resp struct {
				Teachers []map[string]any `json:"teachers"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Teachers).To(HaveLen(1))
			Expect(resp.Teachers[0]["id"]).To(Equal("42"))
			Expect(resp.Teachers[0]["nameAr"]).To(Equal("منى"))
		})

		It("returns 500 on a service error", func() {
			svc.searchFn = func(context.Context, string) ([]model.Teacher, error) {
				return nil, errors.New("db down")
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/teachers", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Create", func() {
		It("returns 201 with the created teacher", func() {
			var got service.CreateTeacherParams
			svc.createFn = func(_ context.Context, p service.CreateTeacherParams) (*model.Teacher, error) {
				got = p
				return &model.Teacher{ID: 7, NameAR: p.NameAR, Stage: p.Stage, IsActive: true}, nil
			}

			w := postJSON(router, "/api/v1/teachers", map[string]any{"nameAr": "منى", "stage": "primary"})

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(got.NameAR).To(Equal("منى"))
			Expect(got.Stage).To(Equal("primary"))
			Expect(w.Body.String()).To(ContainSubstring(`"id":"7"`))
		})

		It("returns 400 when the Arabic name is missing", func() {
			svc.createFn = func(context.Context, service.CreateTeacherParams) (*model.Teacher, error) {
				return nil, service.ErrInvalidTeacher
			}

			w := postJSON(router, "/api/v1/teachers", map[string]any{"nameEn": "Mona"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("nameAr is required"))
		})

		It("returns 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/teachers", nil)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
