package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jotaveeo/nocontrole-back/internal/errors"
	"github.com/jotaveeo/nocontrole-back/internal/services"
)

// ReportHandler handles reporting and aggregation requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// parseDateRange parses the start/end query parameters. When absent the range
// defaults to the current calendar month.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	if v := c.Query("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return start, end, apperrors.WithMessage(apperrors.ErrInvalidInput, "start must be an RFC 3339 timestamp")
		}
		start = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return start, end, apperrors.WithMessage(apperrors.ErrInvalidInput, "end must be an RFC 3339 timestamp")
		}
		end = t
	}

	return start, end, nil
}

// GetBudgetView handles the per-category budget report.
// @Summary     Get budget view
// @Description Get the per-category budget status for the current month
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.CategoryBudget "Per-category budget rows"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/budget [get]
func (h *ReportHandler) GetBudgetView(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.reportService.GetBudgetView(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": view})
}

// GetCashFlow handles the yearly cash-flow report.
// @Summary     Get cash-flow report
// @Description Get 12 monthly income/expense/balance entries with cumulative balance for a year
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year query int false "Year (default current)"
// @Success     200 {array} services.CashFlowEntry "Monthly cash-flow entries"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/cashflow [get]
func (h *ReportHandler) GetCashFlow(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year := time.Now().Year()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 || y > 9999 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year"))
			return
		}
		year = y
	}

	entries, err := h.reportService.GetCashFlowReport(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"year": year, "cashflow": entries})
}

// GetCategoryReport handles the per-category breakdown report.
// @Summary     Get category report
// @Description Get confirmed transactions grouped by category for a date range (default current month)
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       start query string false "Range start (RFC 3339)"
// @Param       end   query string false "Range end (RFC 3339)"
// @Success     200 {array} services.GroupReportEntry "Per-category rows"
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/categories [get]
func (h *ReportHandler) GetCategoryReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.reportService.GetCategoryReport(userID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": entries})
}

// GetCardReport handles the per-card breakdown report.
// @Summary     Get card report
// @Description Get confirmed transactions grouped by card for a date range (default current month)
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       start query string false "Range start (RFC 3339)"
// @Param       end   query string false "Range end (RFC 3339)"
// @Success     200 {array} services.GroupReportEntry "Per-card rows"
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/cards [get]
func (h *ReportHandler) GetCardReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.reportService.GetCardReport(userID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cards": entries})
}

// GetMonthlyEvolution handles the month-by-month evolution report.
// @Summary     Get monthly evolution
// @Description Get one income/expense/balance summary per calendar month overlapping a range
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       start query string false "Range start (RFC 3339)"
// @Param       end   query string false "Range end (RFC 3339)"
// @Success     200 {array} services.MonthSummary "Monthly summaries"
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/evolution [get]
func (h *ReportHandler) GetMonthlyEvolution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summaries, err := h.reportService.GetMonthlyEvolution(userID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"evolution": summaries})
}
