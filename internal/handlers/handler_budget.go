package handlers

import (
	"net/http"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	portssvc "github.com/fambudget/family_budget_app/internal/core/ports/services"
	"github.com/fambudget/family_budget_app/internal/dto"

	"github.com/gin-gonic/gin"
)

// budgetHandler handles HTTP requests related to budgets.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{
		budgetService: bs,
	}
}

// registerBudgetRoutes registers all budget-related routes.
func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/active", h.listActiveBudgets)
		budgets.GET("/:budgetID", h.getBudget)
		budgets.PUT("/:budgetID", h.updateBudget)
		budgets.DELETE("/:budgetID", h.deleteBudget)
	}
}

func toBudgetList(budgets []domain.Budget, usages []domain.BudgetUsage) dto.ListBudgetsResponse {
	resp := dto.ListBudgetsResponse{Budgets: make([]dto.BudgetResponse, len(budgets))}
	for i := range budgets {
		resp.Budgets[i] = dto.ToBudgetResponse(&budgets[i], usages[i])
	}
	return resp
}

// createBudget godoc
// @Summary Create a budget
// @Description Creates a budget capping spending for one category over a date window. The response carries the derived consumption metrics.
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindJSONError(c, err)
		return
	}

	budget, usage, err := h.budgetService.CreateBudget(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget, usage))
}

// listBudgets godoc
// @Summary List budgets of a family
// @Description Retrieves the budgets of a family, newest first, each with freshly derived consumption metrics.
// @Tags budgets
// @Produce json
// @Param familyID query string true "Family ID"
// @Success 200 {object} dto.ListBudgetsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	familyID := c.Query("familyID")
	if familyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "familyID query parameter is required"})
		return
	}

	budgets, usages, err := h.budgetService.ListBudgets(c.Request.Context(), userID, familyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBudgetList(budgets, usages))
}

// listActiveBudgets godoc
// @Summary List active budgets
// @Description Retrieves active budgets across all the caller's families whose window contains today.
// @Tags budgets
// @Produce json
// @Success 200 {object} dto.ListBudgetsResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets/active [get]
func (h *budgetHandler) listActiveBudgets(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	budgets, usages, err := h.budgetService.ListActiveBudgets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBudgetList(budgets, usages))
}

// getBudget godoc
// @Summary Get a budget
// @Description Retrieves a budget with derived spent/remaining/percentage metrics computed from current expenses.
// @Tags budgets
// @Produce json
// @Param budgetID path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets/{budgetID} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	budget, usage, err := h.budgetService.GetBudget(c.Request.Context(), userID, c.Param("budgetID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget, usage))
}

// updateBudget godoc
// @Summary Update a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param budgetID path string true "Budget ID"
// @Param budget body dto.UpdateBudgetRequest true "Fields to update"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets/{budgetID} [put]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindJSONError(c, err)
		return
	}

	budget, usage, err := h.budgetService.UpdateBudget(c.Request.Context(), userID, c.Param("budgetID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget, usage))
}

// deleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Produce json
// @Param budgetID path string true "Budget ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets/{budgetID} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), userID, c.Param("budgetID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
