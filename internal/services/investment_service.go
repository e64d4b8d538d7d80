package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/jotaveeo/nocontrole-back/internal/errors"
	"github.com/jotaveeo/nocontrole-back/internal/models"
	"github.com/jotaveeo/nocontrole-back/internal/pagination"
)

// investmentService handles investment business logic. Valuations are
// tracked manually; there is no market-data integration.
type investmentService struct {
	db *gorm.DB
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB) InvestmentServicer {
	return &investmentService{db: db}
}

// CreateInvestment registers a new holding. The current value starts at the
// invested amount.
func (s *investmentService) CreateInvestment(userID uint, name string, kind models.InvestmentKind, invested int64, now time.Time) (*models.Investment, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if invested <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invested must be greater than zero")
	}

	investment := &models.Investment{
		UserID:       userID,
		Name:         name,
		Kind:         kind,
		Invested:     invested,
		CurrentValue: invested,
		ValuedAt:     now,
	}

	if err := s.db.Create(investment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return investment, nil
}

// GetUserInvestments returns a paginated list of the user's holdings.
func (s *investmentService) GetUserInvestments(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	page.Defaults()

	base := s.db.Model(&models.Investment{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := base.Scopes(pagination.Paginate(page)).Order("name ASC").Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(investments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetInvestmentByID returns a holding by ID if it belongs to the user.
func (s *investmentService) GetInvestmentByID(userID, investmentID uint) (*models.Investment, error) {
	var investment models.Investment
	if err := s.db.Where("id = ? AND user_id = ?", investmentID, userID).First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &investment, nil
}

// UpdateValue records a new manual valuation for the holding.
func (s *investmentService) UpdateValue(userID, investmentID uint, currentValue int64, now time.Time) (*models.Investment, error) {
	if currentValue < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current value must not be negative")
	}

	investment, err := s.GetInvestmentByID(userID, investmentID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"current_value": currentValue,
		"valued_at":     now,
	}
	if err := s.db.Model(investment).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	investment.CurrentValue = currentValue
	investment.ValuedAt = now

	return investment, nil
}

// GetPortfolio aggregates the user's holdings into totals. An empty
// portfolio yields a zero-valued summary.
func (s *investmentService) GetPortfolio(userID uint) (*PortfolioSummary, error) {
	type totals struct {
		Invested int64 `gorm:"column:invested"`
		Value    int64 `gorm:"column:value"`
		Count    int64 `gorm:"column:count"`
	}
	var t totals
	err := s.db.Model(&models.Investment{}).
		Select("COALESCE(SUM(invested), 0) AS invested, COALESCE(SUM(current_value), 0) AS value, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Scan(&t).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &PortfolioSummary{
		TotalInvested: t.Invested,
		TotalValue:    t.Value,
		TotalGainLoss: t.Value - t.Invested,
		HoldingsCount: t.Count,
	}
	if t.Invested > 0 {
		summary.GainLossPct = math.Round(float64(summary.TotalGainLoss)/float64(t.Invested)*10000) / 100
	}

	return summary, nil
}

// DeleteInvestment soft-deletes a holding.
func (s *investmentService) DeleteInvestment(userID, investmentID uint) error {
	investment, err := s.GetInvestmentByID(userID, investmentID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(investment).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
