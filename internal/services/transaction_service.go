package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/jotaveeo/nocontrole-back/internal/errors"
	"github.com/jotaveeo/nocontrole-back/internal/models"
	"github.com/jotaveeo/nocontrole-back/internal/pagination"
)

// transactionService handles transaction-related business logic. Confirmed
// expense writes feed the limit engine's accrual as a best-effort side
// effect.
type transactionService struct {
	db           *gorm.DB
	limitService LimitServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, limitService LimitServicer) TransactionServicer {
	return &transactionService{
		db:           db,
		limitService: limitService,
	}
}

// CreateTransaction creates a new transaction for the user. A confirmed
// expense additionally accrues against every matching spending limit; the
// accrual is best-effort and never rolls back the transaction write.
func (s *transactionService) CreateTransaction(
	userID uint,
	categoryID, cardID *uint,
	transactionType models.TransactionType,
	status models.TransactionStatus,
	amount int64,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	// Validate input
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}

	if status == "" {
		status = models.TransactionStatusConfirmed
	}
	if date.IsZero() {
		date = time.Now()
	}

	// Verify references exist and belong to the user
	if categoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *categoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if cardID != nil {
		var card models.Card
		if err := s.db.Where("id = ? AND user_id = ?", *cardID, userID).First(&card).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCardNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		CardID:      cardID,
		Type:        transactionType,
		Status:      status,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if transactionType == models.TransactionTypeExpense && status == models.TransactionStatusConfirmed {
		// Errors inside ApplyExpense are logged and swallowed there.
		_ = s.limitService.ApplyExpense(userID, categoryID, cardID, amount)
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of transactions.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").Preload("Card").
		Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.CardID != nil {
		q = q.Where("card_id = ?", *f.CardID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// allowedStatusTransitions lists the valid lifecycle moves. Cancelling a
// confirmed expense does not reverse its earlier limit accrual; the budget
// view recomputes spent from the ledger so reports stay correct.
var allowedStatusTransitions = map[models.TransactionStatus][]models.TransactionStatus{
	models.TransactionStatusPending:   {models.TransactionStatusConfirmed, models.TransactionStatusCancelled},
	models.TransactionStatusConfirmed: {models.TransactionStatusCancelled},
}

// UpdateTransactionStatus moves a transaction through its lifecycle.
// Confirming a pending expense triggers limit accrual.
func (s *transactionService) UpdateTransactionStatus(userID, transactionID uint, status models.TransactionStatus) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range allowedStatusTransitions[transaction.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	previous := transaction.Status
	if err := s.db.Model(transaction).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	transaction.Status = status

	if transaction.Type == models.TransactionTypeExpense &&
		previous == models.TransactionStatusPending &&
		status == models.TransactionStatusConfirmed {
		_ = s.limitService.ApplyExpense(userID, transaction.CategoryID, transaction.CardID, transaction.Amount)
	}

	return transaction, nil
}

// DeleteTransaction soft-deletes a transaction. Earlier limit accrual is not
// reversed.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
