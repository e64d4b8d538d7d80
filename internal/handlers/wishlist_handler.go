package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jotaveeo/nocontrole-back/internal/errors"
	"github.com/jotaveeo/nocontrole-back/internal/pagination"
	"github.com/jotaveeo/nocontrole-back/internal/services"
)

// WishlistHandler handles wishlist requests.
type WishlistHandler struct {
	wishlistService services.WishlistServicer
	auditService    services.AuditServicer
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(wishlistService services.WishlistServicer, auditService services.AuditServicer) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService, auditService: auditService}
}

// CreateWishlistItemRequest represents the request payload for adding a wishlist item.
type CreateWishlistItemRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Price    int64  `json:"price" binding:"required,gt=0"`
	Priority int    `json:"priority" binding:"omitempty,min=1,max=5"`
	Link     string `json:"link" binding:"omitempty,url,max=500"`
}

// UpdateWishlistItemRequest represents the request payload for updating a wishlist item.
type UpdateWishlistItemRequest struct {
	Name     string  `json:"name" binding:"omitempty,min=1,max=100"`
	Price    *int64  `json:"price" binding:"omitempty,gt=0"`
	Priority *int    `json:"priority" binding:"omitempty,min=1,max=5"`
	Link     *string `json:"link" binding:"omitempty,url,max=500"`
}

// SaveTowardRequest represents the payload for saving toward an item.
type SaveTowardRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// CreateItem handles adding a new wishlist item.
// @Summary     Add a wishlist item
// @Description Add a desired purchase to the wishlist
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateWishlistItemRequest true "Item details"
// @Success     201 {object} models.WishlistItem "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wishlist [post]
func (h *WishlistHandler) CreateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.wishlistService.CreateItem(userID, req.Name, req.Price, req.Priority, req.Link)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_WISHLIST_ITEM", "wishlist_item", item.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "price": req.Price})

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// GetItems handles listing the user's wishlist.
// @Summary     Get wishlist items
// @Description Get a paginated wishlist ordered by priority, optionally filtered by purchased state
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       purchased query bool false "Filter by purchased state"
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.WishlistItem] "Paginated items"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wishlist [get]
func (h *WishlistHandler) GetItems(c *gin.Context) {
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

	purchased, err := parseBoolQuery(c, "purchased")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.wishlistService.GetUserItems(userID, page, purchased)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetItem handles retrieving a specific wishlist item.
// @Summary     Get wishlist item by ID
// @Description Get a specific wishlist item by ID
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Item ID"
// @Success     200 {object} models.WishlistItem "Item details"
// @Failure     400 {object} ErrorResponse "Invalid item ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wishlist/{id} [get]
func (h *WishlistHandler) GetItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.wishlistService.GetItemByID(userID, itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// SaveToward handles adding savings toward an item.
// @Summary     Save toward an item
// @Description Add an amount to the item's saved balance
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Item ID"
// @Param       request body SaveTowardRequest true "Savings amount"
// @Success     200 {object} models.WishlistItem "Item updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wishlist/{id}/save [post]
func (h *WishlistHandler) SaveToward(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SaveTowardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.wishlistService.SaveToward(userID, itemID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SAVE_TOWARD_WISHLIST_ITEM", "wishlist_item", itemID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// MarkPurchased handles flagging an item as bought.
// @Summary     Mark item purchased
// @Description Flag a wishlist item as bought
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Item ID"
// @Success     200 {object} models.WishlistItem "Item updated"
// @Failure     400 {object} ErrorResponse "Invalid item ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wishlist/{id}/purchase [post]
func (h *WishlistHandler) MarkPurchased(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.wishlistService.MarkPurchased(userID, itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "PURCHASE_WISHLIST_ITEM", "wishlist_item", itemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// UpdateItem handles updating an existing wishlist item.
// @Summary     Update a wishlist item
// @Description Update an existing wishlist item's fields
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                       true "Item ID"
// @Param       request body UpdateWishlistItemRequest true "Fields to update"
// @Success     200 {object} models.WishlistItem "Item updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wishlist/{id} [put]
func (h *WishlistHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.wishlistService.UpdateItem(userID, itemID, req.Name, req.Price, req.Priority, req.Link)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_WISHLIST_ITEM", "wishlist_item", itemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem handles deleting a wishlist item.
// @Summary     Delete a wishlist item
// @Description Delete a wishlist item
// @Tags        wishlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Item ID"
// @Success     200 {object} map[string]string "Item deleted"
// @Failure     400 {object} ErrorResponse "Invalid item ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /wishlist/{id} [delete]
func (h *WishlistHandler) DeleteItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	itemID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.wishlistService.DeleteItem(userID, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_WISHLIST_ITEM", "wishlist_item", itemID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
