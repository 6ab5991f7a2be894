package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"basegraph.app/eleot/internal/http/dto"
	"basegraph.app/eleot/internal/model"
	"basegraph.app/eleot/internal/service"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Get filters visits by subject, grade and an inclusive date range.
func (h *ReportHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	filter := model.VisitFilter{
		Subject: c.Query("subject"),
		Grade:   c.Query("grade"),
	}

	var err error
	if filter.StartDate, _, err = queryDate(c, "start_date", "startDate"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, endDateOnly, err := queryDate(c, "end_date", "endDate")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if end != nil && endDateOnly {
		// A bare date covers the whole day.
		last := end.Add(24*time.Hour - time.Nanosecond)
		end = &last
	}
	filter.EndDate = end

	report, err := h.reports.Report(ctx, filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.ErrorContext(ctx, "failed to build report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, toReportResponse(report))
}

// queryDate reads the first present key. dateOnly reports a bare YYYY-MM-DD value.
func queryDate(c *gin.Context, keys ...string) (*time.Time, bool, error) {
	for _, key := range keys {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		parsed, dateOnly, err := dto.ParseDay(raw)
		if err != nil {
			return nil, false, err
		}
		return &parsed, dateOnly, nil
	}
	return nil, false, nil
}

func toReportResponse(r *service.Report) dto.ReportResponse {
	resp := dto.ReportResponse{
		Visits: dto.ToVisitResponses(r.Visits),
		Summary: dto.ReportSummaryResponse{
			VisitCount:          r.Summary.VisitCount,
			AverageOverallScore: r.Summary.AverageOverallScore,
			Criteria:            make([]dto.CriterionAverageResponse, len(r.Summary.Criteria)),
		},
	}
	for i, ca := range r.Summary.Criteria {
		resp.Summary.Criteria[i] = dto.CriterionAverageResponse{
			CriterionID: ca.CriterionID,
			Average:     ca.Average,
			Count:       ca.Count,
		}
	}
	return resp
}
