package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/SscSPs/money_tracker/internal/utils/daterange"
	"github.com/gin-gonic/gin"
)

// transactionHandler serves incomes, expenses and the debt views built on them.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	ledgerService      portssvc.DebtLedgerSvcFacade
	reportingService   portssvc.ReportingService
	location           *time.Location
}

func newTransactionHandler(
	ts portssvc.TransactionSvcFacade,
	ls portssvc.DebtLedgerSvcFacade,
	rs portssvc.ReportingService,
	loc *time.Location,
) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		ledgerService:      ls,
		reportingService:   rs,
		location:           loc,
	}
}

func registerTransactionRoutes(
	rg *gin.RouterGroup,
	loc *time.Location,
	ts portssvc.TransactionSvcFacade,
	ls portssvc.DebtLedgerSvcFacade,
	rs portssvc.ReportingService,
) {
	h := newTransactionHandler(ts, ls, rs, loc)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/incomes", h.listIncomes)
		txns.GET("/expenses", h.listExpenses)
		txns.GET("/:id", h.getTransaction)
		txns.PATCH("/:id", h.updateTransaction)
		txns.DELETE("/:id", h.deleteTransaction)

		debts := txns.Group("/debts")
		debts.GET("", h.listDebts)
		debts.GET("/summary", h.debtsSummary)
		debts.GET("/overview", h.debtOverview)
		debts.GET("/by-person", h.debtsByPerson)
		debts.GET("/borrowed", h.listDebtsOfType(domain.Borrowed))
		debts.GET("/lent", h.listDebtsOfType(domain.Lent))
		debts.GET("/:id", h.getDebt)
		debts.PATCH("/:id/status", h.updateDebtStatus)
	}
}

// nowIn returns the current time in loc, falling back to UTC.
func nowIn(loc *time.Location) time.Time {
	if loc == nil {
		return time.Now().UTC()
	}
	return time.Now().In(loc)
}

// resolvePeriod turns period query parameters into an optional window.
func (h *transactionHandler) resolvePeriod(p dto.PeriodParams) (*daterange.Range, error) {
	return daterange.Resolve(p.Period, p.StartDate, p.EndDate, nowIn(h.location))
}

// createTransaction godoc
// @Summary Create a transaction
// @Description Creates an income, expense or debt. Free text in `input` is parsed when a parser is configured; explicit fields win over parsed ones.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Referenced person or category not found"
// @Failure 503 {object} ErrorResponse "Store could not complete the write"
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions newest first with cursor pagination.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param type query string false "income, expense or debt"
// @Param period query string false "today, yesterday, month or custom"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	window, err := h.resolvePeriod(dto.PeriodParams{Period: params.Period, StartDate: params.StartDate, EndDate: params.EndDate})
	if err != nil {
		respondError(c, err, "Invalid period")
		return
	}

	filter := domain.TransactionFilter{Limit: params.Limit}
	if params.Type != "" {
		txnType := domain.TransactionType(strings.ToLower(params.Type))
		filter.Type = &txnType
	}
	if window != nil {
		filter.From, filter.To = &window.From, &window.To
	}
	if params.NextToken != "" {
		filter.NextToken = &params.NextToken
	}

	txns, nextToken, err := h.transactionService.ListTransactions(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	})
}

// listIncomes godoc
// @Summary List incomes with their total
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param period query string false "today, yesterday, month or custom"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Success 200 {object} dto.TransactionTotalResponse
// @Failure 400 {object} ErrorResponse
// @Router /transactions/incomes [get]
func (h *transactionHandler) listIncomes(c *gin.Context) {
	h.listByType(c, domain.Income)
}

// listExpenses godoc
// @Summary List expenses with their total
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param period query string false "today, yesterday, month or custom"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Success 200 {object} dto.TransactionTotalResponse
// @Failure 400 {object} ErrorResponse
// @Router /transactions/expenses [get]
func (h *transactionHandler) listExpenses(c *gin.Context) {
	h.listByType(c, domain.Expense)
}

func (h *transactionHandler) listByType(c *gin.Context, txnType domain.TransactionType) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	window, err := h.resolvePeriod(params)
	if err != nil {
		respondError(c, err, "Invalid period")
		return
	}

	var filter domain.TransactionFilter
	if window != nil {
		filter.From, filter.To = &window.From, &window.To
	}
	total, err := h.transactionService.ListTransactionsByType(c.Request.Context(), userID, txnType, filter)
	if err != nil {
		respondError(c, err, "Failed to list transactions by type")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionTotalResponse(total))
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Patches a transaction. Debts are updated through the ledger so their payment status is recomputed.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /transactions/{id} [patch]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Deleting a debt also deletes its payments.
// @Tags transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// debtFilter builds the reporting filter from query parameters.
func debtFilter(params dto.ListDebtsParams, window *daterange.Range) domain.DebtFilter {
	filter := domain.DebtFilter{PersonName: strings.TrimSpace(params.Search)}
	if params.Status != "" {
		status := domain.PaymentStatus(strings.ToLower(params.Status))
		filter.Status = &status
	}
	if params.Type != "" {
		debtType := domain.DebtType(strings.ToLower(params.Type))
		filter.DebtType = &debtType
	}
	if window != nil {
		filter.From, filter.To = &window.From, &window.To
	}
	return filter
}

// bindDebtQuery binds the shared debt listing parameters, answering the request itself on failure.
func (h *transactionHandler) bindDebtQuery(c *gin.Context) (domain.DebtFilter, bool) {
	var params dto.ListDebtsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return domain.DebtFilter{}, false
	}
	var period dto.PeriodParams
	if err := c.ShouldBindQuery(&period); err != nil {
		respondBindError(c, err)
		return domain.DebtFilter{}, false
	}
	window, err := h.resolvePeriod(period)
	if err != nil {
		respondError(c, err, "Invalid period")
		return domain.DebtFilter{}, false
	}
	return debtFilter(params, window), true
}

// listDebts godoc
// @Summary List debts grouped by direction
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Param status query string false "unpaid, partial or paid"
// @Param type query string false "borrowed or lent"
// @Param search query string false "Person name contains"
// @Param period query string false "today, yesterday, month or custom"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Success 200 {object} dto.GroupedDebtsResponse
// @Failure 400 {object} ErrorResponse
// @Router /transactions/debts [get]
func (h *transactionHandler) listDebts(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	filter, ok := h.bindDebtQuery(c)
	if !ok {
		return
	}
	grouped, err := h.reportingService.GetAllDebts(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err, "Failed to list debts")
		return
	}
	c.JSON(http.StatusOK, dto.ToGroupedDebtsResponse(grouped))
}

// listDebtsOfType godoc
// @Summary List borrowed or lent debts with totals
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Param status query string false "unpaid, partial or paid"
// @Param search query string false "Person name contains"
// @Param period query string false "today, yesterday, month or custom"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Success 200 {object} dto.DebtListResponse
// @Failure 400 {object} ErrorResponse
// @Router /transactions/debts/borrowed [get]
// @Router /transactions/debts/lent [get]
func (h *transactionHandler) listDebtsOfType(debtType domain.DebtType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		filter, ok := h.bindDebtQuery(c)
		if !ok {
			return
		}
		list, err := h.reportingService.GetDebtsByType(c.Request.Context(), userID, debtType, filter)
		if err != nil {
			respondError(c, err, "Failed to list debts by type")
			return
		}
		c.JSON(http.StatusOK, dto.ToDebtListResponse(list))
	}
}

// debtsSummary godoc
// @Summary Debt totals and status counts per direction
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DebtsSummaryResponse
// @Router /transactions/debts/summary [get]
func (h *transactionHandler) debtsSummary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	summary, err := h.reportingService.GetDebtsSummary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to summarize debts")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtsSummaryResponse(summary))
}

// debtOverview godoc
// @Summary Debt summary together with the per-person breakdown
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DebtOverviewResponse
// @Router /transactions/debts/overview [get]
func (h *transactionHandler) debtOverview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	overview, err := h.reportingService.GetDebtOverview(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to build debt overview")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtOverviewResponse(overview))
}

// debtsByPerson godoc
// @Summary Debts grouped by person
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PersonDebtsResponse
// @Router /transactions/debts/by-person [get]
func (h *transactionHandler) debtsByPerson(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	groups, err := h.reportingService.GetDebtsByPerson(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to group debts by person")
		return
	}
	c.JSON(http.StatusOK, dto.ToPersonDebtsResponses(groups))
}

// getDebt godoc
// @Summary Get a debt with its payments
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Success 200 {object} dto.DebtSummaryResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions/debts/{id} [get]
func (h *transactionHandler) getDebt(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	summary, err := h.ledgerService.GetDebtSummary(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get debt")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtSummaryResponse(summary))
}

// updateDebtStatus godoc
// @Summary Override a debt's payment status
// @Description Only paid and unpaid can be set by hand. The next payment change recomputes the status.
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt ID"
// @Param status body dto.UpdateDebtStatusRequest true "New status"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions/debts/{id}/status [patch]
func (h *transactionHandler) updateDebtStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateDebtStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	status := domain.PaymentStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	debt, err := h.ledgerService.UpdateDebtStatus(c.Request.Context(), userID, c.Param("id"), status)
	if err != nil {
		respondError(c, err, "Failed to update debt status")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(debt))
}
