package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jotaveeo/nocontrole-back/internal/errors"
	"github.com/jotaveeo/nocontrole-back/internal/models"
	"github.com/jotaveeo/nocontrole-back/internal/pagination"
	"github.com/jotaveeo/nocontrole-back/internal/services"
)

// LimitHandler handles spending-limit requests.
type LimitHandler struct {
	limitService services.LimitServicer
	auditService services.AuditServicer
}

// NewLimitHandler creates a new LimitHandler.
func NewLimitHandler(limitService services.LimitServicer, auditService services.AuditServicer) *LimitHandler {
	return &LimitHandler{limitService: limitService, auditService: auditService}
}

// CreateLimitRequest represents the request payload for creating a limit.
type CreateLimitRequest struct {
	Name       string             `json:"name" binding:"required,min=1,max=100"`
	Kind       models.LimitKind   `json:"kind" binding:"required,limit_kind"`
	Ceiling    int64              `json:"ceiling" binding:"required,gt=0"`
	Period     models.LimitPeriod `json:"period" binding:"omitempty,limit_period"`
	CategoryID *uint              `json:"category_id"`
	CardID     *uint              `json:"card_id"`
}

// UpsertCategoryLimitRequest represents the payload for the category-limit upsert.
type UpsertCategoryLimitRequest struct {
	Ceiling int64 `json:"ceiling" binding:"required,gt=0"`
}

// CreateLimit handles the creation of a new spending limit.
// @Summary     Create a spending limit
// @Description Create a new spending limit scoped to a category, card, or all spending
// @Tags        limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateLimitRequest true "Limit details"
// @Success     201 {object} models.Limit "Limit created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category or card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits [post]
func (h *LimitHandler) CreateLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	limit, err := h.limitService.CreateLimit(
		userID, req.Name, req.Kind, req.Ceiling, req.Period, req.CategoryID, req.CardID, time.Now(),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_LIMIT", "limit", limit.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "kind": req.Kind, "ceiling": req.Ceiling})

	c.JSON(http.StatusCreated, gin.H{"limit": limit})
}

// GetLimits handles listing limits for the authenticated user.
// @Summary     Get spending limits
// @Description Get a paginated list of limits, optionally filtered by kind and active state
// @Tags        limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       kind      query string false "Filter by kind (category/card/general/period)"
// @Param       is_active query bool   false "Filter by active status"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Limit] "Paginated limits"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits [get]
func (h *LimitHandler) GetLimits(c *gin.Context) {
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

	var kind *models.LimitKind
	if v := c.Query("kind"); v != "" {
		k := models.LimitKind(v)
		switch k {
		case models.LimitKindCategory, models.LimitKindCard, models.LimitKindGeneral, models.LimitKindPeriod:
			kind = &k
		default:
			respondWithError(c, apperrors.ErrInvalidLimitKind)
			return
		}
	}

	isActive, err := parseBoolQuery(c, "is_active")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.limitService.GetUserLimits(userID, page, kind, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetLimit handles retrieving a specific limit with its derived snapshot.
// @Summary     Get limit by ID
// @Description Get a specific limit together with its derived state (remaining, percent used, status)
// @Tags        limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Limit ID"
// @Success     200 {object} services.LimitSnapshot "Limit with derived state"
// @Failure     400 {object} ErrorResponse "Invalid limit ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Limit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits/{id} [get]
func (h *LimitHandler) GetLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit, err := h.limitService.GetLimitByID(userID, limitID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.limitService.GetLimitSnapshot(userID, limitID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"limit": limit, "snapshot": snapshot})
}

// UpsertCategoryLimit creates or replaces the limit for a category.
// @Summary     Upsert a category limit
// @Description Set the spending ceiling for a category, creating the limit if absent. The accrual cycle is preserved on replace.
// @Tags        limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       categoryId path int                        true "Category ID"
// @Param       request    body UpsertCategoryLimitRequest true "New ceiling"
// @Success     200 {object} models.Limit "Limit upserted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits/category/{categoryId} [put]
func (h *LimitHandler) UpsertCategoryLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "categoryId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertCategoryLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	limit, err := h.limitService.UpsertCategoryLimit(userID, categoryID, req.Ceiling, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPSERT_CATEGORY_LIMIT", "limit", limit.ID, c.ClientIP(),
		map[string]interface{}{"category_id": categoryID, "ceiling": req.Ceiling})

	c.JSON(http.StatusOK, gin.H{"limit": limit})
}

// DeleteLimit handles deleting a limit by ID.
// @Summary     Delete a limit
// @Description Delete a spending limit
// @Tags        limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Limit ID"
// @Success     200 {object} map[string]string "Limit deleted"
// @Failure     400 {object} ErrorResponse "Invalid limit ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Limit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits/{id} [delete]
func (h *LimitHandler) DeleteLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.limitService.DeleteLimit(userID, limitID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_LIMIT", "limit", limitID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Limit deleted"})
}

// DeleteLimitByCategoryName handles deleting the limit bound to a named category.
// @Summary     Delete a limit by category name
// @Description Delete the category limit identified by its category's name
// @Tags        limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       name path string true "Category name"
// @Success     200 {object} map[string]string "Limit deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Limit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits/category/{name} [delete]
func (h *LimitHandler) DeleteLimitByCategoryName(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	name := c.Param("name")
	if name == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required"))
		return
	}

	if err := h.limitService.DeleteLimitByCategoryName(userID, name); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_LIMIT_BY_CATEGORY", "limit", 0, c.ClientIP(),
		map[string]interface{}{"category_name": name})

	c.JSON(http.StatusOK, gin.H{"message": "Limit deleted"})
}

// ResetLimit handles resetting a limit's accrual cycle.
// @Summary     Reset a limit
// @Description Zero the limit's accrued amount and start a new reset cycle
// @Tags        limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Limit ID"
// @Success     200 {object} models.Limit "Limit reset"
// @Failure     400 {object} ErrorResponse "Invalid limit ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Limit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits/{id}/reset [post]
func (h *LimitHandler) ResetLimit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limitID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit, err := h.limitService.ResetLimit(userID, limitID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RESET_LIMIT", "limit", limitID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"limit": limit})
}

// SweepDueResets resets every limit whose reset period has elapsed.
// Intended to be called by an external scheduler.
// @Summary     Run due limit resets
// @Description Reset every active limit whose next reset time has passed and return the count
// @Tags        limits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]int "Number of limits reset"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /limits/sweep [post]
func (h *LimitHandler) SweepDueResets(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	count, err := h.limitService.RunDueResets(time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reset_count": count})
}
