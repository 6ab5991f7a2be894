package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/http/handler"
	"basegraph.app/eleot/internal/model"
	"basegraph.app/eleot/internal/service"
)

func postWithTrace(router *gin.Engine, path string, body any, traceID string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Trace-Id", traceID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var _ = Describe("VisitHandler", func() {
	var (
		router *gin.Engine
		svc    *mockVisitService
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockVisitService{}
		h := handler.NewVisitHandler(svc, "X-Trace-Id")
		router.POST("/api/v1/visits", h.Create)
		router.GET("/api/v1/visits", h.List)
		router.GET("/api/v1/visits/:id", h.Get)
		router.DELETE("/api/v1/visits/:id", h.Delete)
	})

	do := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("Create", func() {
		It("returns 202 with the visit id as a string", func() {
			var got service.CreateVisitParams
			svc.createFn = func(_ context.Context, p service.CreateVisitParams) (*service.VisitCreated, error) {
				got = p
				return &service.VisitCreated{
					Visit: &model.Visit{ID: 1234567890123, TeacherName: p.TeacherName, Parts: []string{"middle"}},
					View:  evaluation.View{Scores: map[string]int{"A1": 2}},
				}, nil
			}

			w := postWithTrace(router, "/api/v1/visits", map[string]any{
				"teacherName":       "Mona",
				"subject":           "Science",
				"grade":             "5",
				"part":              "middle",
				"date":              "2026-03-01",
				"lessonDescription": "Students worked in groups.",
				"environments":      []string{"A"},
			}, "0af7651916cd43dd8448eb211c80319c")

			Expect(w.Code).To(Equal(http.StatusAccepted))
			Expect(got.TraceID).To(HaveValue(Equal("0af7651916cd43dd8448eb211c80319c")))
			Expect(got.TeacherName).To(Equal("Mona"))
			Expect(got.Parts).To(Equal([]string{"middle"}))
			Expect(got.Date).To(Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
			Expect(got.Evaluation.Description).To(Equal("Students worked in groups."))
			Expect(got.Evaluation.Debug).To(BeFalse())

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("accepted"))
			Expect(resp["visit"]).To(HaveKeyWithValue("id", "1234567890123"))
			Expect(resp["evaluation"]).To(HaveKey("scores"))
		})

		It("returns 400 for an invalid date", func() {
			w := postJSON(router, "/api/v1/visits", map[string]any{"date": "March 1st"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 when required fields are missing", func() {
			svc.createFn = func(context.Context, service.CreateVisitParams) (*service.VisitCreated, error) {
				return nil, evaluation.ErrMissingFields
			}

			w := postJSON(router, "/api/v1/visits", map[string]any{"teacherName": "Mona"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 when no selected environment is known", func() {
			svc.createFn = func(context.Context, service.CreateVisitParams) (*service.VisitCreated, error) {
				return nil, service.ErrNoScoredCriteria
			}

			w := postJSON(router, "/api/v1/visits", map[string]any{"text": "x", "environments": []string{"Z"}})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("A-G"))
		})

		It("accepts optional evaluation fields of the wrong type", func() {
			var got service.CreateVisitParams
			svc.createFn = func(_ context.Context, p service.CreateVisitParams) (*service.VisitCreated, error) {
				got = p
				return &service.VisitCreated{Visit: &model.Visit{ID: 1}}, nil
			}

			w := postJSON(router, "/api/v1/visits", map[string]any{
				"teacherName":  "Mona",
				"text":         "Students compared answers.",
				"environments": []string{"D"},
				"language":     7,
			})

			Expect(w.Code).To(Equal(http.StatusAccepted))
			Expect(got.TeacherName).To(Equal("Mona"))
			Expect(got.Evaluation.Environments).To(Equal([]string{"D"}))
		})

		It("returns 503 when persistence is not configured", func() {
			svc.createFn = func(context.Context, service.CreateVisitParams) (*service.VisitCreated, error) {
				return nil, service.ErrPersistenceUnavailable
			}

			w := postJSON(router, "/api/v1/visits", map[string]any{"text": "x", "environments": []string{"A"}})

			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Describe("Get", func() {
		It("returns the visit with scores and adjustments", func() {
			svc.getFn = func(_ context.Context, visitID int64) (*model.Visit, error) {
				return &model.Visit{
					ID:          visitID,
					Scores:      []model.VisitScore{{CriterionID: "C1", Score: 1}},
					Adjustments: []model.VisitAdjustment{{CriterionID: "C1", OriginalScore: 3, AdjustedScore: 1}},
				}, nil
			}

			w := do(http.MethodGet, "/api/v1/visits/42")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["id"]).To(Equal("42"))
			Expect(resp["scores"]).To(HaveLen(1))
			Expect(resp["auditAdjustments"]).To(HaveLen(1))
		})

		It("returns 404 for a missing visit", func() {
			Expect(do(http.MethodGet, "/api/v1/visits/42").Code).To(Equal(http.StatusNotFound))
		})

		It("returns 400 for a malformed id", func() {
			Expect(do(http.MethodGet, "/api/v1/visits/abc").Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 500 on store errors", func() {
			svc.getFn = func(context.Context, int64) (*model.Visit, error) {
				return nil, errors.New("db down")
			}

			Expect(do(http.MethodGet, "/api/v1/visits/42").Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("List", func() {
		It("passes paging through", func() {
			var gotLimit, gotOffset int32
			svc.listFn = func(_ context.Context, limit, offset int32) ([]model.Visit, error) {
				gotLimit, gotOffset = limit, offset
				return []model.Visit{{ID: 1}, {ID: 2}}, nil
			}

			w := do(http.MethodGet, "/api/v1/visits?limit=10&offset=20")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotLimit).To(Equal(int32(10)))
			Expect(gotOffset).To(Equal(int32(20)))
			var resp map[string][]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["visits"]).To(HaveLen(2))
		})

		It("rejects a non-numeric limit", func() {
			Expect(do(http.MethodGet, "/api/v1/visits?limit=ten").Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Delete", func() {
		It("returns 204 on success", func() {
			Expect(do(http.MethodDelete, "/api/v1/visits/7").Code).To(Equal(http.StatusNoContent))
		})

		It("returns 404 for a missing visit", func() {
			svc.deleteFn = func(context.Context, int64) error { return service.ErrVisitNotFound }

			Expect(do(http.MethodDelete, "/api/v1/visits/7").Code).To(Equal(http.StatusNotFound))
		})
	})
})

var _ = Describe("ReportHandler", func() {
	var (
		router *gin.Engine
		svc    *mockReportService
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockReportService{}
		router.GET("/api/v1/reports", handler.NewReportHandler(svc).Get)
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("builds the filter from query parameters", func() {
		var got model.VisitFilter
		svc.reportFn = func(_ context.Context, f model.VisitFilter) (*service.Report, error) {
			got = f
			return &service.Report{
				Visits: []model.Visit{{ID: 5, OverallScore: 3}},
				Summary: service.ReportSummary{
					VisitCount:          1,
					AverageOverallScore: 3,
					Criteria:            []service.CriterionAverage{{CriterionID: "A1", Average: 3, Count: 1}},
				},
			}, nil
		}

		w := get("/api/v1/reports?subject=Math&grade=7&start_date=2026-01-01&endDate=2026-01-31")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(got.Subject).To(Equal("Math"))
		Expect(got.Grade).To(Equal("7"))
		Expect(*got.StartDate).To(Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
		Expect(got.EndDate.Format(time.DateOnly)).To(Equal("2026-01-31"))
		Expect(got.EndDate.Hour()).To(Equal(23))

		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["visits"]).To(HaveLen(1))
		Expect(resp["summary"]).To(HaveKeyWithValue("visitCount", 1.0))
	})

	It("keeps an explicit end timestamp", func() {
		var got model.VisitFilter
		svc.reportFn = func(_ context.Context, f model.VisitFilter) (*service.Report, error) {
			got = f
			return &service.Report{}, nil
		}

		get("/api/v1/reports?end_date=2026-01-31T12:30:00Z")

		Expect(*got.EndDate).To(Equal(time.Date(2026, 1, 31, 12, 30, 0, 0, time.UTC)))
	})

	It("keeps an explicit midnight end timestamp", func() {
		var got model.VisitFilter
		svc.reportFn = func(_ context.Context, f model.VisitFilter) (*service.Report, error) {
			got = f
			return &service.Report{}, nil
		}

		get("/api/v1/reports?end_date=2026-01-01T00:00:00Z")

		Expect(*got.EndDate).To(Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	})

	It("rejects an unparseable date", func() {
		Expect(get("/api/v1/reports?start_date=yesterday").Code).To(Equal(http.StatusBadRequest))
	})

	It("rejects an inverted range", func() {
		svc.reportFn = func(context.Context, model.VisitFilter) (*service.Report, error) {
			return nil, service.ErrInvalidDateRange
		}

		Expect(get("/api/v1/reports?start_date=2026-02-01&end_date=2026-01-01").Code).To(Equal(http.StatusBadRequest))
	})
})
