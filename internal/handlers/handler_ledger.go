package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/SscSPs/money_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

const csvContentType = "text/csv; charset=utf-8"

// ledgerHandler serves a single debt's payments. Every write goes through the ledger service.
type ledgerHandler struct {
	ledgerService portssvc.DebtLedgerSvcFacade
}

func newLedgerHandler(ls portssvc.DebtLedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ls portssvc.DebtLedgerSvcFacade) {
	h := newLedgerHandler(ls)

	debts := rg.Group("/debts/:debtId")
	{
		debts.DELETE("", h.deleteDebt)
		debts.GET("/summary", h.getDebtSummary)
		debts.POST("/recalculate", h.recalculateDebtStatus)

		payments := debts.Group("/payments")
		payments.GET("", h.listPayments)
		payments.POST("", h.addPayment)
		payments.GET("/export", h.exportPayments)
		payments.PUT("/:paymentId", h.updatePayment)
		payments.DELETE("/:paymentId", h.deletePayment)
	}
}

// listPayments godoc
// @Summary List a debt's payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param debtId path string true "Debt ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 404 {object} ErrorResponse
// @Router /debts/{debtId}/payments [get]
func (h *ledgerHandler) listPayments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	payments, err := h.ledgerService.ListPayments(c.Request.Context(), userID, c.Param("debtId"))
	if err != nil {
		respondError(c, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponses(payments))
}

// addPayment godoc
// @Summary Record a payment
// @Description Adds a payment and recomputes the debt's status in the same transaction.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param debtId path string true "Debt ID"
// @Param payment body dto.CreatePaymentRequest true "Payment"
// @Success 201 {object} dto.PaymentResultResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /debts/{debtId}/payments [post]
func (h *ledgerHandler) addPayment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := h.ledgerService.AddPayment(c.Request.Context(), userID, c.Param("debtId"), req)
	if err != nil {
		respondError(c, err, "Failed to add payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPaymentResultResponse(result))
}

// updatePayment godoc
// @Summary Update a payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param debtId path string true "Debt ID"
// @Param paymentId path string true "Payment ID"
// @Param payment body dto.UpdatePaymentRequest true "Payment"
// @Success 200 {object} dto.PaymentResultResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /debts/{debtId}/payments/{paymentId} [put]
func (h *ledgerHandler) updatePayment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := h.ledgerService.UpdatePayment(c.Request.Context(), userID, c.Param("debtId"), c.Param("paymentId"), req)
	if err != nil {
		respondError(c, err, "Failed to update payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResultResponse(result))
}

// deletePayment godoc
// @Summary Delete a payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param debtId path string true "Debt ID"
// @Param paymentId path string true "Payment ID"
// @Success 200 {object} dto.DebtTotalsResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /debts/{debtId}/payments/{paymentId} [delete]
func (h *ledgerHandler) deletePayment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	totals, err := h.ledgerService.DeletePayment(c.Request.Context(), userID, c.Param("debtId"), c.Param("paymentId"))
	if err != nil {
		respondError(c, err, "Failed to delete payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtTotalsResponse(*totals))
}

// exportPayments godoc
// @Summary Export a debt's payments as CSV
// @Tags payments
// @Produce text/csv
// @Security BearerAuth
// @Param debtId path string true "Debt ID"
// @Success 200 {string} string "CSV file"
// @Failure 404 {object} ErrorResponse
// @Router /debts/{debtId}/payments/export [get]
func (h *ledgerHandler) exportPayments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	debtID := c.Param("debtId")
	payments, err := h.ledgerService.ListPayments(c.Request.Context(), userID, debtID)
	if err != nil {
		respondError(c, err, "Failed to list payments for export")
		return
	}
	writeCSV(c, fmt.Sprintf("debt-%s-payments.csv", debtID), dto.ToPaymentCSVRows(payments))
}

// writeCSV marshals rows with a header line and sends them as an attachment.
func writeCSV(c *gin.Context, filename string, rows any) {
	body, err := gocsv.MarshalBytes(rows)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to marshal CSV", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate CSV", Kind: apperrors.KindInternal})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, csvContentType, body)
}

// getDebtSummary godoc
// @Summary Debt summary
// @Description Returns the debt with its stored status, totals and payments.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param debtId path string true "Debt ID"
// @Success 200 {object} dto.DebtSummaryResponse
// @Failure 404 {object} ErrorResponse
// @Router /debts/{debtId}/summary [get]
func (h *ledgerHandler) getDebtSummary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	summary, err := h.ledgerService.GetDebtSummary(c.Request.Context(), userID, c.Param("debtId"))
	if err != nil {
		respondError(c, err, "Failed to get debt summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtSummaryResponse(summary))
}

// recalculateDebtStatus godoc
// @Summary Recalculate a debt's status
// @Description Re-derives the status from the stored payments, clearing any manual override.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param debtId path string true "Debt ID"
// @Success 200 {object} dto.DebtTotalsResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /debts/{debtId}/recalculate [post]
func (h *ledgerHandler) recalculateDebtStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	totals, err := h.ledgerService.RecalculateDebtStatus(c.Request.Context(), userID, c.Param("debtId"))
	if err != nil {
		respondError(c, err, "Failed to recalculate debt status")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtTotalsResponse(*totals))
}

// deleteDebt godoc
// @Summary Delete a debt and its payments
// @Tags payments
// @Security BearerAuth
// @Param debtId path string true "Debt ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /debts/{debtId} [delete]
func (h *ledgerHandler) deleteDebt(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.ledgerService.DeleteDebt(c.Request.Context(), userID, c.Param("debtId")); err != nil {
		respondError(c, err, "Failed to delete debt")
		return
	}
	c.Status(http.StatusNoContent)
}
