package handlers

import (
	"net/http"

	portssvc "github.com/fambudget/family_budget_app/internal/core/ports/services"
	"github.com/fambudget/family_budget_app/internal/dto"

	"github.com/gin-gonic/gin"
)

// expenseHandler handles HTTP requests for expenses, recurring templates and
// shares.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{
		expenseService: es,
	}
}

// registerExpenseRoutes registers all ledger routes.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/recent", h.listRecentExpenses)
		expenses.GET("/:expenseID", h.getExpense)
		expenses.PUT("/:expenseID", h.updateExpense)
		expenses.DELETE("/:expenseID", h.deleteExpense)

		expenses.POST("/:expenseID/shares", h.createShare)
		expenses.GET("/:expenseID/shares", h.listShares)
	}

	shares := rg.Group("/expense-shares")
	{
		shares.PUT("/:shareID", h.updateShare)
		shares.DELETE("/:shareID", h.deleteShare)
	}

	recurring := rg.Group("/recurring-expenses")
	{
		recurring.POST("", h.createRecurringExpense)
		recurring.GET("", h.listRecurringExpenses)
		recurring.GET("/:recurringExpenseID", h.getRecurringExpense)
		recurring.PUT("/:recurringExpenseID", h.updateRecurringExpense)
		recurring.DELETE("/:recurringExpenseID", h.deleteRecurringExpense)
	}
}

// createExpense godoc
// @Summary Record an expense
// @Description Records an expense in a family the caller actively belongs to. The category must belong to the same family.
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindJSONError(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// listExpenses godoc
// @Summary List expenses
// @Description Retrieves a page of expenses across the caller's families, newest first, with optional filters and cursor pagination.
// @Tags expenses
// @Produce json
// @Param familyID query string false "Restrict to one family"
// @Param categoryID query string false "Restrict to one category"
// @Param paidBy query string false "Restrict to one payer"
// @Param paymentMethod query string false "Restrict to one payment method"
// @Param dateFrom query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param dateTo query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindJSONError(c, err)
		return
	}

	expenses, nextToken, err := h.expenseService.ListExpenses(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ListExpensesResponse{
		Expenses:  make([]dto.ExpenseResponse, len(expenses)),
		NextToken: nextToken,
	}
	for i := range expenses {
		resp.Expenses[i] = dto.ToExpenseResponse(&expenses[i])
	}
	c.JSON(http.StatusOK, resp)
}

// listRecentExpenses godoc
// @Summary List recent expenses
// @Description Retrieves the newest expenses across the caller's families for the dashboard.
// @Tags expenses
// @Produce json
// @Param familyID query string false "Restrict to one family"
// @Param limit query int false "Number of rows" default(10)
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/recent [get]
func (h *expenseHandler) listRecentExpenses(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var params dto.RecentExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindJSONError(c, err)
		return
	}

	expenses, err := h.expenseService.ListRecentExpenses(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ListExpensesResponse{Expenses: make([]dto.ExpenseResponse, len(expenses))}
	for i := range expenses {
		resp.Expenses[i] = dto.ToExpenseResponse(&expenses[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getExpense godoc
// @Summary Get an expense
// @Tags expenses
// @Produce json
// @Param expenseID path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/{expenseID} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), userID, c.Param("expenseID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// updateExpense godoc
// @Summary Update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Param expenseID path string true "Expense ID"
// @Param expense body dto.UpdateExpenseRequest true "Fields to update"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/{expenseID} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindJSONError(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), userID, c.Param("expenseID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// deleteExpense godoc
// @Summary Delete an expense
// @Description Deletes an expense; its shares cascade at the store level.
// @Tags expenses
// @Produce json
// @Param expenseID path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/{expenseID} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), userID, c.Param("expenseID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// createShare godoc
// @Summary Assign a share of an expense
// @Description Assigns a portion of an expense to a user. One share per (expense, user); sums are not reconciled against the expense total.
// @Tags expense-shares
// @Accept json
// @Produce json
// @Param expenseID path string true "Expense ID"
// @Param share body dto.CreateExpenseShareRequest true "Share details"
// @Success 201 {object} dto.ExpenseShareResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "User already has a share of this expense"
// @Security BearerAuth
// @Router /expenses/{expenseID}/shares [post]
func (h *expenseHandler) createShare(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateExpenseShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindJSONError(c, err)
		return
	}

	share, err := h.expenseService.CreateExpenseShare(c.Request.Context(), userID, c.Param("expenseID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToExpenseShareResponse(share))
}

// listShares godoc
// @Summary List shares of an expense
// @Tags expense-shares
// @Produce json
// @Param expenseID path string true "Expense ID"
// @Success 200 {object} dto.ListExpenseSharesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/{expenseID}/shares [get]
func (h *expenseHandler) listShares(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	shares, err := h.expenseService.ListExpenseShares(c.Request.Context(), userID, c.Param("expenseID"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ListExpenseSharesResponse{Shares: make([]dto.ExpenseShareResponse, len(shares))}
	for i := range shares {
		resp.Shares[i] = dto.ToExpenseShareResponse(&shares[i])
	}
	c.JSON(http.StatusOK, resp)
}

// updateShare godoc
// @Summary Update a share
// @Description Adjusts a share's amount or marks it paid/unpaid.
// @Tags expense-shares
// @Accept json
// @Produce json
// @Param shareID path string true "Share ID"
// @Param share body dto.UpdateExpenseShareRequest true "Fields to update"
// @Success 200 {object} dto.ExpenseShareResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expense-shares/{shareID} [put]
func (h *expenseHandler) updateShare(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateExpenseShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindJSONError(c, err)
		return
	}

	share, err := h.expenseService.UpdateExpenseShare(c.Request.Context(), userID, c.Param("shareID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseShareResponse(share))
}

// deleteShare godoc
// @Summary Delete a share
// @Tags expense-shares
// @Produce json
// @Param shareID path string true "Share ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expense-shares/{shareID} [delete]
func (h *expenseHandler) deleteShare(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpenseShare(c.Request.Context(), userID, c.Param("shareID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// createRecurringExpense godoc
// @Summary Declare a recurring expense template
// @Description Declares a recurring-expense template. Templates are never materialized into expense rows by this service.
// @Tags recurring-expenses
// @Accept json
// @Produce json
// @Param recurring body dto.CreateRecurringExpenseRequest true "Template details"
// @Success 201 {object} dto.RecurringExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring-expenses [post]
func (h *expenseHandler) createRecurringExpense(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindJSONError(c, err)
		return
	}

	recurring, err := h.expenseService.CreateRecurringExpense(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToRecurringExpenseResponse(recurring))
}

// listRecurringExpenses godoc
// @Summary List recurring templates of a family
// @Tags recurring-expenses
// @Produce json
// @Param familyID query string true "Family ID"
// @Success 200 {object} dto.ListRecurringExpensesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring-expenses [get]
func (h *expenseHandler) listRecurringExpenses(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	familyID := c.Query("familyID")
	if familyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "familyID query parameter is required"})
		return
	}

	recurring, err := h.expenseService.ListRecurringExpenses(c.Request.Context(), userID, familyID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ListRecurringExpensesResponse{RecurringExpenses: make([]dto.RecurringExpenseResponse, len(recurring))}
	for i := range recurring {
		resp.RecurringExpenses[i] = dto.ToRecurringExpenseResponse(&recurring[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getRecurringExpense godoc
// @Summary Get a recurring template
// @Tags recurring-expenses
// @Produce json
// @Param recurringExpenseID path string true "Recurring expense ID"
// @Success 200 {object} dto.RecurringExpenseResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring-expenses/{recurringExpenseID} [get]
func (h *expenseHandler) getRecurringExpense(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	recurring, err := h.expenseService.GetRecurringExpense(c.Request.Context(), userID, c.Param("recurringExpenseID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurringExpenseResponse(recurring))
}

// updateRecurringExpense godoc
// @Summary Update a recurring template
// @Tags recurring-expenses
// @Accept json
// @Produce json
// @Param recurringExpenseID path string true "Recurring expense ID"
// @Param recurring body dto.UpdateRecurringExpenseRequest true "Fields to update"
// @Success 200 {object} dto.RecurringExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring-expenses/{recurringExpenseID} [put]
func (h *expenseHandler) updateRecurringExpense(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateRecurringExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindJSONError(c, err)
		return
	}

	recurring, err := h.expenseService.UpdateRecurringExpense(c.Request.Context(), userID, c.Param("recurringExpenseID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRecurringExpenseResponse(recurring))
}

// deleteRecurringExpense godoc
// @Summary Delete a recurring template
// @Tags recurring-expenses
// @Produce json
// @Param recurringExpenseID path string true "Recurring expense ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /recurring-expenses/{recurringExpenseID} [delete]
func (h *expenseHandler) deleteRecurringExpense(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.expenseService.DeleteRecurringExpense(c.Request.Context(), userID, c.Param("recurringExpenseID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
