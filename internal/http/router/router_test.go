package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"basegraph.app/eleot/core/db/sqlc"
	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/http/router"
	"basegraph.app/eleot/internal/observability"
	"basegraph.app/eleot/internal/service"
	"basegraph.app/eleot/internal/store"
)

var _ = Describe("SetupRoutes", func() {
	var engine *gin.Engine

	BeforeEach(func() {
		reg := prometheus.NewRegistry()
		metrics := observability.NewMetrics(reg)
		services := service.NewServices(store.NewStores(sqlc.New(nil)), evaluation.New(nil), nil, nil, metrics, nil)

		engine = gin.New()
		router.SetupRoutes(engine, services, router.RouterConfig{
			DebugEnabled:   true,
			MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		})
	})

	send := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	It("serves health", func() {
		w := send(http.MethodGet, "/health", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"status":"ok"}`))
	})

	It("evaluates on both the versioned and the legacy path", func() {
		body := map[string]any{
			"lessonDescription":    "The weather outside was sunny and warm all morning.",
			"selectedEnvironments": []string{"C"},
			"language":             "en",
			"clarifications":       map[string]any{"answers": map[string]string{"C1_intellectual_risk": "no_not_safe"}},
		}

		for _, path := range []string{"/api/v1/evaluations", "/api/ai-evaluate"} {
			w := send(http.MethodPost, path, body)

			Expect(w.Code).To(Equal(http.StatusOK), path)
			var view evaluation.View
			Expect(json.Unmarshal(w.Body.Bytes(), &view)).To(Succeed())
			Expect(view.Scores).To(HaveKeyWithValue("C1", 1))
			Expect(view.Legacy.AdjustmentsAudit).To(HaveLen(1))
		}
	})

	It("exposes evaluation metrics", func() {
		send(http.MethodPost, "/api/v1/evaluations", map[string]any{"text": "x", "environments": []string{"A"}, "language": "en"})

		w := send(http.MethodGet, "/metrics", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("eleot_"))
	})

	It("serves the debug samples, schema and rubric", func() {
		Expect(send(http.MethodGet, "/api/ai-evaluate/debug", nil).Code).To(Equal(http.StatusOK))
		Expect(send(http.MethodGet, "/api/v1/evaluations/schema", nil).Code).To(Equal(http.StatusOK))
		Expect(send(http.MethodGet, "/api/v1/rubric", nil).Code).To(Equal(http.StatusOK))
	})

	It("answers 503 for visits without a queue", func() {
		w := send(http.MethodPost, "/api/v1/visits", map[string]any{
			"teacherName":  "Mona",
			"text":         "Students asked questions.",
			"environments": []string{"A"},
		})

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("routes teacher creation and validates the name", func() {
		w := send(http.MethodPost, "/api/v1/teachers", map[string]any{"nameEn": "Mona"})

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
