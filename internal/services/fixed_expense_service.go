package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/jotaveeo/nocontrole-back/internal/errors"
	"github.com/jotaveeo/nocontrole-back/internal/models"
	"github.com/jotaveeo/nocontrole-back/internal/pagination"
)

// fixedExpenseService handles recurring fixed-expense business logic.
type fixedExpenseService struct {
	db *gorm.DB
}

// NewFixedExpenseService creates a new FixedExpenseServicer.
func NewFixedExpenseService(db *gorm.DB) FixedExpenseServicer {
	return &fixedExpenseService{db: db}
}

// CreateFixedExpense registers a new recurring expense for the user.
func (s *fixedExpenseService) CreateFixedExpense(userID uint, name string, amount int64, dueDay int, categoryID *uint) (*models.FixedExpense, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if dueDay < 1 || dueDay > 31 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due day must be between 1 and 31")
	}

	if categoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *categoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	expense := &models.FixedExpense{
		UserID:     userID,
		Name:       name,
		Amount:     amount,
		DueDay:     dueDay,
		CategoryID: categoryID,
		IsActive:   true,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// GetUserFixedExpenses returns a paginated list, optionally filtered by
// active state.
func (s *fixedExpenseService) GetUserFixedExpenses(userID uint, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.FixedExpense], error) {
	page.Defaults()

	base := s.db.Model(&models.FixedExpense{}).Where("user_id = ?", userID)
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.FixedExpense
	if err := base.Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("due_day ASC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetFixedExpenseByID returns a fixed expense by ID if it belongs to the user.
func (s *fixedExpenseService) GetFixedExpenseByID(userID, expenseID uint) (*models.FixedExpense, error) {
	var expense models.FixedExpense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFixedExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateFixedExpense updates an existing fixed expense's fields.
func (s *fixedExpenseService) UpdateFixedExpense(userID, expenseID uint, name string, amount *int64, dueDay *int, isActive *bool) (*models.FixedExpense, error) {
	expense, err := s.GetFixedExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if amount != nil {
		if *amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *amount
	}
	if dueDay != nil {
		if *dueDay < 1 || *dueDay > 31 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due day must be between 1 and 31")
		}
		updates["due_day"] = *dueDay
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return expense, nil
}

// DeleteFixedExpense soft-deletes a fixed expense.
func (s *fixedExpenseService) DeleteFixedExpense(userID, expenseID uint) error {
	expense, err := s.GetFixedExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
