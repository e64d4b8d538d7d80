package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jotaveeo/nocontrole-back/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestCategoryWithName creates an expense category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, userID uint, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Type:   models.CategoryTypeExpense,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestCard creates a credit card.
func CreateTestCard(t *testing.T, db *gorm.DB, userID uint) *models.Card {
	t.Helper()

	card := &models.Card{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Card %d", nextID()),
		Brand:       "visa",
		LastDigits:  "4242",
		CreditLimit: 500000, // $5000.00
		ClosingDay:  25,
		DueDay:      5,
		IsActive:    true,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test card: %v", err)
	}
	return card
}

// CreateTestTransaction creates a confirmed transaction of the given type and
// amount (in cents), dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, txType models.TransactionType, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionOn(t, db, userID, categoryID, txType, amount, time.Now())
}

// CreateTestTransactionOn creates a confirmed transaction on a specific date.
func CreateTestTransactionOn(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, txType models.TransactionType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Type:        txType,
		Status:      models.TransactionStatusConfirmed,
		Amount:      amount,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Date:        date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestLimit creates an active monthly limit of the given kind and ceiling (in cents).
func CreateTestLimit(t *testing.T, db *gorm.DB, userID uint, kind models.LimitKind, ceiling int64, categoryID, cardID *uint) *models.Limit {
	t.Helper()

	now := time.Now()
	limit := &models.Limit{
		UserID:     userID,
		Name:       fmt.Sprintf("Test Limit %d", nextID()),
		Kind:       kind,
		Ceiling:    ceiling,
		Period:     models.LimitPeriodMonthly,
		CategoryID: categoryID,
		CardID:     cardID,
		IsActive:   true,
		LastReset:  now,
		NextReset:  now.AddDate(0, 1, 0),
	}
	if err := db.Create(limit).Error; err != nil {
		t.Fatalf("failed to create test limit: %v", err)
	}
	return limit
}

// CreateTestGoal creates an active savings goal with the given target (in cents).
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, target int64) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Goal %d", nextID()),
		Target:   target,
		IsActive: true,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestDebt creates an open debt with the given total (in cents).
func CreateTestDebt(t *testing.T, db *gorm.DB, userID uint, total int64) *models.Debt {
	t.Helper()

	debt := &models.Debt{
		UserID:   userID,
		Creditor: fmt.Sprintf("Test Creditor %d", nextID()),
		Total:    total,
		Status:   models.DebtStatusOpen,
	}
	if err := db.Create(debt).Error; err != nil {
		t.Fatalf("failed to create test debt: %v", err)
	}
	return debt
}

// CreateTestWishlistItem creates a wishlist item with the given price (in cents).
func CreateTestWishlistItem(t *testing.T, db *gorm.DB, userID uint, price int64) *models.WishlistItem {
	t.Helper()

	item := &models.WishlistItem{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Item %d", nextID()),
		Price:    price,
		Priority: 3,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test wishlist item: %v", err)
	}
	return item
}

// CreateTestInvestment creates a holding with the given invested amount (in cents).
func CreateTestInvestment(t *testing.T, db *gorm.DB, userID uint, invested int64) *models.Investment {
	t.Helper()

	investment := &models.Investment{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Investment %d", nextID()),
		Kind:         models.InvestmentKindStock,
		Invested:     invested,
		CurrentValue: invested,
		ValuedAt:     time.Now(),
	}
	if err := db.Create(investment).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return investment
}
