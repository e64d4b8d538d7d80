package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/jotaveeo/nocontrole-back/internal/errors"
	"github.com/jotaveeo/nocontrole-back/internal/models"
	"github.com/jotaveeo/nocontrole-back/internal/pagination"
)

// wishlistService handles wishlist business logic.
type wishlistService struct {
	db *gorm.DB
}

// NewWishlistService creates a new WishlistServicer.
func NewWishlistService(db *gorm.DB) WishlistServicer {
	return &wishlistService{db: db}
}

// CreateItem adds a new item to the user's wishlist.
func (s *wishlistService) CreateItem(userID uint, name string, price int64, priority int, link string) (*models.WishlistItem, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if price <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be greater than zero")
	}
	if priority == 0 {
		priority = 3
	}

	item := &models.WishlistItem{
		UserID:   userID,
		Name:     name,
		Price:    price,
		Priority: priority,
		Link:     link,
	}

	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return item, nil
}

// GetUserItems returns a paginated list, optionally filtered by purchased
// state, ordered by priority.
func (s *wishlistService) GetUserItems(userID uint, page pagination.PageRequest, purchased *bool) (*pagination.PageResponse[models.WishlistItem], error) {
	page.Defaults()

	base := s.db.Model(&models.WishlistItem{}).Where("user_id = ?", userID)
	if purchased != nil {
		base = base.Where("purchased = ?", *purchased)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []models.WishlistItem
	if err := base.Scopes(pagination.Paginate(page)).Order("priority ASC, created_at DESC").Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetItemByID returns a wishlist item by ID if it belongs to the user.
func (s *wishlistService) GetItemByID(userID, itemID uint) (*models.WishlistItem, error) {
	var item models.WishlistItem
	if err := s.db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWishlistItemNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// SaveToward adds amount to the item's saved balance with an atomic
// increment.
func (s *wishlistService) SaveToward(userID, itemID uint, amount int64) (*models.WishlistItem, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	item, err := s.GetItemByID(userID, itemID)
	if err != nil {
		return nil, err
	}

	err = s.db.Model(item).UpdateColumn("saved", gorm.Expr("saved + ?", amount)).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetItemByID(userID, itemID)
}

// MarkPurchased flags the item as bought.
func (s *wishlistService) MarkPurchased(userID, itemID uint) (*models.WishlistItem, error) {
	item, err := s.GetItemByID(userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(item).Update("purchased", true).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	item.Purchased = true

	return item, nil
}

// UpdateItem updates an existing wishlist item's fields.
func (s *wishlistService) UpdateItem(userID, itemID uint, name string, price *int64, priority *int, link *string) (*models.WishlistItem, error) {
	item, err := s.GetItemByID(userID, itemID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if price != nil {
		if *price <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be greater than zero")
		}
		updates["price"] = *price
	}
	if priority != nil {
		updates["priority"] = *priority
	}
	if link != nil {
		updates["link"] = *link
	}

	if len(updates) > 0 {
		if err := s.db.Model(item).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return item, nil
}

// DeleteItem soft-deletes a wishlist item.
func (s *wishlistService) DeleteItem(userID, itemID uint) error {
	item, err := s.GetItemByID(userID, itemID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(item).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
