package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mptrsn/corpledger/internal/core/ports/services"
	"github.com/mptrsn/corpledger/internal/middleware"
)

// reportingHandler handles HTTP requests for financial statements.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers routes related to financial reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/income-statement", h.incomeStatement)
	}
}

func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, ok := parseDateQuery(c, "asOf", time.Now().UTC())
	if !ok {
		return
	}

	report, err := h.reportingService.GenerateTrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondServiceError(c, logger, err, "generate trial balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, ok := parseDateQuery(c, "asOf", time.Now().UTC())
	if !ok {
		return
	}

	report, err := h.reportingService.GenerateBalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondServiceError(c, logger, err, "generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	to, ok := parseDateQuery(c, "to", time.Now().UTC())
	if !ok {
		return
	}
	from, ok := parseDateQuery(c, "from", to.AddDate(0, -1, 0))
	if !ok {
		return
	}

	report, err := h.reportingService.GenerateIncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "generate income statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// parseDateQuery reads an RFC 3339 or YYYY-MM-DD date query parameter, falling
// back to the given default when absent. On a malformed value it writes a 400
// response and reports false.
func parseDateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		// End-of-day so the named date's postings are included.
		return t.Add(24*time.Hour - time.Nanosecond), true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " date; use RFC 3339 or YYYY-MM-DD"})
	return time.Time{}, false
}
