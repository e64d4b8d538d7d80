package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jotaveeo/nocontrole-back/internal/errors"
	"github.com/jotaveeo/nocontrole-back/internal/pagination"
	"github.com/jotaveeo/nocontrole-back/internal/services"
)

// FixedExpenseHandler handles recurring fixed-expense requests.
type FixedExpenseHandler struct {
	fixedExpenseService services.FixedExpenseServicer
	auditService        services.AuditServicer
}

// NewFixedExpenseHandler creates a new FixedExpenseHandler.
func NewFixedExpenseHandler(fixedExpenseService services.FixedExpenseServicer, auditService services.AuditServicer) *FixedExpenseHandler {
	return &FixedExpenseHandler{fixedExpenseService: fixedExpenseService, auditService: auditService}
}

// CreateFixedExpenseRequest represents the request payload for creating a fixed expense.
type CreateFixedExpenseRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	DueDay     int    `json:"due_day" binding:"required,day_of_month"`
	CategoryID *uint  `json:"category_id"`
}

// UpdateFixedExpenseRequest represents the request payload for updating a fixed expense.
type UpdateFixedExpenseRequest struct {
	Name     string `json:"name" binding:"omitempty,min=1,max=100"`
	Amount   *int64 `json:"amount" binding:"omitempty,gt=0"`
	DueDay   *int   `json:"due_day" binding:"omitempty,day_of_month"`
	IsActive *bool  `json:"is_active"`
}

// CreateFixedExpense handles registering a new recurring expense.
// @Summary     Create a fixed expense
// @Description Register a recurring monthly expense such as rent or a subscription
// @Tags        fixed-expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateFixedExpenseRequest true "Fixed expense details"
// @Success     201 {object} models.FixedExpense "Fixed expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fixed-expenses [post]
func (h *FixedExpenseHandler) CreateFixedExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateFixedExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.fixedExpenseService.CreateFixedExpense(userID, req.Name, req.Amount, req.DueDay, req.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_FIXED_EXPENSE", "fixed_expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"fixed_expense": expense})
}

// GetFixedExpenses handles listing the user's fixed expenses.
// @Summary     Get fixed expenses
// @Description Get a paginated list of fixed expenses, optionally filtered by active state
// @Tags        fixed-expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       is_active query bool false "Filter by active status"
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.FixedExpense] "Paginated fixed expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fixed-expenses [get]
func (h *FixedExpenseHandler) GetFixedExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	isActive, err := parseBoolQuery(c, "is_active")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.fixedExpenseService.GetUserFixedExpenses(userID, page, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetFixedExpense handles retrieving a specific fixed expense.
// @Summary     Get fixed expense by ID
// @Description Get a specific fixed expense by ID
// @Tags        fixed-expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Fixed expense ID"
// @Success     200 {object} models.FixedExpense "Fixed expense details"
// @Failure     400 {object} ErrorResponse "Invalid fixed expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Fixed expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fixed-expenses/{id} [get]
func (h *FixedExpenseHandler) GetFixedExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.fixedExpenseService.GetFixedExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fixed_expense": expense})
}

// UpdateFixedExpense handles updating an existing fixed expense.
// @Summary     Update a fixed expense
// @Description Update an existing fixed expense's fields
// @Tags        fixed-expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                       true "Fixed expense ID"
// @Param       request body UpdateFixedExpenseRequest true "Fields to update"
// @Success     200 {object} models.FixedExpense "Fixed expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Fixed expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fixed-expenses/{id} [put]
func (h *FixedExpenseHandler) UpdateFixedExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateFixedExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.fixedExpenseService.UpdateFixedExpense(userID, expenseID, req.Name, req.Amount, req.DueDay, req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_FIXED_EXPENSE", "fixed_expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"fixed_expense": expense})
}

// DeleteFixedExpense handles deleting a fixed expense.
// @Summary     Delete a fixed expense
// @Description Delete a recurring fixed expense
// @Tags        fixed-expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Fixed expense ID"
// @Success     200 {object} map[string]string "Fixed expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid fixed expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Fixed expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /fixed-expenses/{id} [delete]
func (h *FixedExpenseHandler) DeleteFixedExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.fixedExpenseService.DeleteFixedExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_FIXED_EXPENSE", "fixed_expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Fixed expense deleted"})
}
