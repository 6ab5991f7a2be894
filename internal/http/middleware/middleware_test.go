package middleware_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"basegraph.app/eleot/common/logger"
	"basegraph.app/eleot/internal/http/middleware"
	"basegraph.app/eleot/internal/observability"
)

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var _ = Describe("Recovery", func() {
	It("turns a panic into a 500", func() {
		router := gin.New()
		router.Use(middleware.Recovery())
		router.GET("/boom", func(*gin.Context) { panic("boom") })

		w := serve(router, httptest.NewRequest(http.MethodGet, "/boom", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(MatchJSON(`{"error":"internal server error"}`))
	})
})

var _ = Describe("RequestID", func() {
	var (
		router    *gin.Engine
		seenInCtx string
	)

	BeforeEach(func() {
		seenInCtx = ""
		router = gin.New()
		router.Use(middleware.RequestID())
		router.GET("/", func(c *gin.Context) {
			if rid := logger.GetLogFields(c.Request.Context()).RequestID; rid != nil {
				seenInCtx = *rid
			}
			c.Status(http.StatusOK)
		})
	})

	It("propagates the caller's request id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")

		w := serve(router, req)

		Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal("abc-123"))
		Expect(seenInCtx).To(Equal("abc-123"))
	})

	It("assigns a uuid when none is sent", func() {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

		rid := w.Header().Get(middleware.RequestIDHeader)
		_, err := uuid.Parse(rid)
		Expect(err).NotTo(HaveOccurred())
		Expect(seenInCtx).To(Equal(rid))
	})
})

var _ = Describe("Metrics", func() {
	It("labels requests by route template", func() {
		metrics := observability.NewMetrics(prometheus.NewRegistry())
		router := gin.New()
		router.Use(middleware.Metrics(metrics))
		router.GET("/api/v1/visits/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

		serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/visits/1", nil))
		serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/visits/2", nil))
		serve(router, httptest.NewRequest(http.MethodGet, "/nope", nil))

		Expect(testutil.ToFloat64(metrics.HTTPRequestCounter.WithLabelValues("GET", "/api/v1/visits/:id", "200"))).To(Equal(2.0))
		Expect(testutil.ToFloat64(metrics.HTTPRequestCounter.WithLabelValues("GET", "unmatched", "404"))).To(Equal(1.0))
	})
})
