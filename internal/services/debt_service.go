package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/jotaveeo/nocontrole-back/internal/errors"
	"github.com/jotaveeo/nocontrole-back/internal/models"
	"github.com/jotaveeo/nocontrole-back/internal/pagination"
)

// debtService handles debt business logic.
type debtService struct {
	db *gorm.DB
}

// NewDebtService creates a new DebtServicer.
func NewDebtService(db *gorm.DB) DebtServicer {
	return &debtService{db: db}
}

// CreateDebt registers a new debt for the user.
func (s *debtService) CreateDebt(userID uint, creditor string, total int64, dueDate *time.Time, notes string) (*models.Debt, error) {
	if creditor == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "creditor is required")
	}
	if total <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total must be greater than zero")
	}

	debt := &models.Debt{
		UserID:   userID,
		Creditor: creditor,
		Total:    total,
		DueDate:  dueDate,
		Status:   models.DebtStatusOpen,
		Notes:    notes,
	}

	if err := s.db.Create(debt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return debt, nil
}

// GetUserDebts returns a paginated list of the user's debts, optionally
// filtered by status.
func (s *debtService) GetUserDebts(userID uint, page pagination.PageRequest, status *models.DebtStatus) (*pagination.PageResponse[models.Debt], error) {
	page.Defaults()

	base := s.db.Model(&models.Debt{}).Where("user_id = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var debts []models.Debt
	if err := base.Scopes(pagination.Paginate(page)).Order("due_date ASC").Find(&debts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(debts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetDebtByID returns a debt by ID if it belongs to the user.
func (s *debtService) GetDebtByID(userID, debtID uint) (*models.Debt, error) {
	var debt models.Debt
	if err := s.db.Where("id = ? AND user_id = ?", debtID, userID).First(&debt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDebtNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &debt, nil
}

// RegisterPayment adds amount to the debt's paid balance with an atomic
// increment. Once paid reaches total the debt is marked paid.
func (s *debtService) RegisterPayment(userID, debtID uint, amount int64) (*models.Debt, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	debt, err := s.GetDebtByID(userID, debtID)
	if err != nil {
		return nil, err
	}

	err = s.db.Model(debt).UpdateColumn("paid", gorm.Expr("paid + ?", amount)).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	debt, err = s.GetDebtByID(userID, debtID)
	if err != nil {
		return nil, err
	}

	if debt.Paid >= debt.Total && debt.Status != models.DebtStatusPaid {
		if err := s.db.Model(debt).Update("status", models.DebtStatusPaid).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		debt.Status = models.DebtStatusPaid
	}

	return debt, nil
}

// UpdateDebt updates an existing debt's fields.
func (s *debtService) UpdateDebt(userID, debtID uint, creditor string, total *int64, dueDate *time.Time, notes *string) (*models.Debt, error) {
	debt, err := s.GetDebtByID(userID, debtID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if creditor != "" {
		updates["creditor"] = creditor
	}
	if total != nil {
		if *total <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total must be greater than zero")
		}
		updates["total"] = *total
	}
	if dueDate != nil {
		updates["due_date"] = *dueDate
	}
	if notes != nil {
		updates["notes"] = *notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(debt).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return debt, nil
}

// DeleteDebt soft-deletes a debt.
func (s *debtService) DeleteDebt(userID, debtID uint) error {
	debt, err := s.GetDebtByID(userID, debtID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(debt).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
