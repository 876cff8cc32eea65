package handlers

import (
	"fmt"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/SscSPs/money_tracker/internal/utils/daterange"
	"github.com/gin-gonic/gin"
)

type statisticsHandler struct {
	reportingService portssvc.ReportingService
	location         *time.Location
}

func newStatisticsHandler(rs portssvc.ReportingService, loc *time.Location) *statisticsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &statisticsHandler{reportingService: rs, location: loc}
}

func registerStatisticsRoutes(rg *gin.RouterGroup, loc *time.Location, rs portssvc.ReportingService) {
	h := newStatisticsHandler(rs, loc)

	stats := rg.Group("/statistics")
	stats.GET("/debts/payments", h.paymentsByDateRange)
}

// paymentsByDateRange godoc
// @Summary Payments within a date range
// @Description Lists every payment dated between startDate and endDate (inclusive) with its debt and person. Use format=csv for a CSV file.
// @Tags statistics
// @Produce json
// @Produce text/csv
// @Security BearerAuth
// @Param startDate query string true "YYYY-MM-DD"
// @Param endDate query string true "YYYY-MM-DD"
// @Param format query string false "json or csv" default(json)
// @Success 200 {object} dto.PaymentReportResponse
// @Failure 400 {object} ErrorResponse
// @Router /statistics/debts/payments [get]
func (h *statisticsHandler) paymentsByDateRange(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.PaymentsByDateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	window, err := daterange.Between(params.StartDate, params.EndDate, h.location)
	if err != nil {
		respondError(c, err, "Invalid date range")
		return
	}

	report, err := h.reportingService.PaymentsByDateRange(c.Request.Context(), userID, window.From, window.To)
	if err != nil {
		respondError(c, err, "Failed to build payment report")
		return
	}

	if params.Format == "csv" {
		filename := fmt.Sprintf("payments-%s-%s.csv", window.From.Format(daterange.DateLayout), window.To.Format(daterange.DateLayout))
		writeCSV(c, filename, dto.ToPaymentReportCSVRows(report))
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentReportResponse(report))
}
