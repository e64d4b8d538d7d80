package services

import (
	"time"

	"github.com/jotaveeo/nocontrole-back/internal/models"
	"github.com/jotaveeo/nocontrole-back/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, categoryType models.CategoryType, description, icon, color string) (*models.Category, error)
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetUserCategoriesByType(userID uint, categoryType models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name, description, icon, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// CardServicer defines the contract for credit-card business logic.
type CardServicer interface {
	CreateCard(userID uint, name, brand, lastDigits string, creditLimit int64, closingDay, dueDay int) (*models.Card, error)
	GetUserCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Card], error)
	GetCardByID(userID, cardID uint) (*models.Card, error)
	UpdateCard(userID, cardID uint, name, brand string, creditLimit *int64, closingDay, dueDay *int, isActive *bool) (*models.Card, error)
	DeleteCard(userID, cardID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	Status     *models.TransactionStatus
	CategoryID *uint
	CardID     *uint
	MinAmount  *int64
	MaxAmount  *int64
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, categoryID, cardID *uint, transactionType models.TransactionType, status models.TransactionStatus, amount int64, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransactionStatus(userID, transactionID uint, status models.TransactionStatus) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// LimitStatus is the five-tier status vocabulary of the limit engine.
// It is intentionally finer-grained than the three-tier budget view status.
type LimitStatus string

const (
	LimitStatusNormal   LimitStatus = "normal"
	LimitStatusCaution  LimitStatus = "caution"
	LimitStatusWarning  LimitStatus = "warning"
	LimitStatusCritical LimitStatus = "critical"
	LimitStatusExceeded LimitStatus = "exceeded"
)

// LimitSnapshot is the derived state of a limit at a point in time.
type LimitSnapshot struct {
	LimitID     uint               `json:"limit_id"`
	Name        string             `json:"name"`
	Kind        models.LimitKind   `json:"kind"`
	Ceiling     int64              `json:"ceiling"`
	Accrued     int64              `json:"accrued"`
	Remaining   int64              `json:"remaining"`
	PercentUsed float64            `json:"percent_used"`
	Exceeded    bool               `json:"exceeded"`
	Status      LimitStatus        `json:"status"`
	Period      models.LimitPeriod `json:"period"`
	LastReset   time.Time          `json:"last_reset"`
	NextReset   time.Time          `json:"next_reset"`
}

// LimitServicer defines the contract for the spending-limit engine.
type LimitServicer interface {
	CreateLimit(userID uint, name string, kind models.LimitKind, ceiling int64, period models.LimitPeriod, categoryID, cardID *uint, now time.Time) (*models.Limit, error)
	GetUserLimits(userID uint, page pagination.PageRequest, kind *models.LimitKind, isActive *bool) (*pagination.PageResponse[models.Limit], error)
	GetLimitByID(userID, limitID uint) (*models.Limit, error)
	GetLimitSnapshot(userID, limitID uint) (*LimitSnapshot, error)
	UpsertCategoryLimit(userID, categoryID uint, ceiling int64, now time.Time) (*models.Limit, error)
	DeleteLimit(userID, limitID uint) error
	DeleteLimitByCategoryName(userID uint, categoryName string) error
	ApplyExpense(userID uint, categoryID, cardID *uint, amount int64) error
	ResetLimit(userID, limitID uint, now time.Time) (*models.Limit, error)
	FindDue(now time.Time) ([]models.Limit, error)
	RunDueResets(now time.Time) (int, error)
}

// CategoryBudget is one row of the per-category budget view. Status uses the
// coarse three-tier vocabulary (safe/warning/exceeded), not the limit
// engine's five tiers.
type CategoryBudget struct {
	CategoryID       uint    `json:"category_id"`
	Name             string  `json:"name"`
	Icon             string  `json:"icon"`
	Budget           int64   `json:"budget"`
	Spent            int64   `json:"spent"`
	Remaining        int64   `json:"remaining"`
	Percentage       float64 `json:"percentage"`
	TransactionCount int64   `json:"transaction_count"`
	Status           string  `json:"status"`
}

// CashFlowEntry is one month of the yearly cash-flow report.
type CashFlowEntry struct {
	Month             int   `json:"month"`
	Income            int64 `json:"income"`
	Expense           int64 `json:"expense"`
	Balance           int64 `json:"balance"`
	CumulativeBalance int64 `json:"cumulative_balance"`
}

// GroupReportEntry is one row of a category or card breakdown report.
type GroupReportEntry struct {
	GroupID        uint    `json:"group_id"`
	Name           string  `json:"name"`
	Icon           string  `json:"icon,omitempty"`
	Color          string  `json:"color,omitempty"`
	Type           string  `json:"type"`
	Total          int64   `json:"total"`
	Count          int64   `json:"count"`
	PercentOfTotal float64 `json:"percent_of_total"`
}

// MonthSummary is one month of the monthly-evolution report.
type MonthSummary struct {
	Year    int   `json:"year"`
	Month   int   `json:"month"`
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

// ReportServicer defines the contract for the aggregation/reporting engine.
// All reports count confirmed transactions only and never fail on empty data.
type ReportServicer interface {
	GetBudgetView(userID uint, now time.Time) ([]CategoryBudget, error)
	GetCashFlowReport(userID uint, year int) ([]CashFlowEntry, error)
	GetCategoryReport(userID uint, start, end time.Time) ([]GroupReportEntry, error)
	GetCardReport(userID uint, start, end time.Time) ([]GroupReportEntry, error)
	GetMonthlyEvolution(userID uint, start, end time.Time) ([]MonthSummary, error)
}

// GoalServicer defines the contract for savings-goal business logic.
type GoalServicer interface {
	CreateGoal(userID uint, name string, target int64, deadline *time.Time) (*models.Goal, error)
	GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(userID, goalID uint) (*models.Goal, error)
	Contribute(userID, goalID uint, amount int64) (*models.Goal, error)
	UpdateGoal(userID, goalID uint, name string, target *int64, deadline *time.Time) (*models.Goal, error)
	DeleteGoal(userID, goalID uint) error
}

// DebtServicer defines the contract for debt business logic.
type DebtServicer interface {
	CreateDebt(userID uint, creditor string, total int64, dueDate *time.Time, notes string) (*models.Debt, error)
	GetUserDebts(userID uint, page pagination.PageRequest, status *models.DebtStatus) (*pagination.PageResponse[models.Debt], error)
	GetDebtByID(userID, debtID uint) (*models.Debt, error)
	RegisterPayment(userID, debtID uint, amount int64) (*models.Debt, error)
	UpdateDebt(userID, debtID uint, creditor string, total *int64, dueDate *time.Time, notes *string) (*models.Debt, error)
	DeleteDebt(userID, debtID uint) error
}

// FixedExpenseServicer defines the contract for recurring fixed expenses.
type FixedExpenseServicer interface {
	CreateFixedExpense(userID uint, name string, amount int64, dueDay int, categoryID *uint) (*models.FixedExpense, error)
	GetUserFixedExpenses(userID uint, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.FixedExpense], error)
	GetFixedExpenseByID(userID, expenseID uint) (*models.FixedExpense, error)
	UpdateFixedExpense(userID, expenseID uint, name string, amount *int64, dueDay *int, isActive *bool) (*models.FixedExpense, error)
	DeleteFixedExpense(userID, expenseID uint) error
}

// WishlistServicer defines the contract for wishlist business logic.
type WishlistServicer interface {
	CreateItem(userID uint, name string, price int64, priority int, link string) (*models.WishlistItem, error)
	GetUserItems(userID uint, page pagination.PageRequest, purchased *bool) (*pagination.PageResponse[models.WishlistItem], error)
	GetItemByID(userID, itemID uint) (*models.WishlistItem, error)
	SaveToward(userID, itemID uint, amount int64) (*models.WishlistItem, error)
	MarkPurchased(userID, itemID uint) (*models.WishlistItem, error)
	UpdateItem(userID, itemID uint, name string, price *int64, priority *int, link *string) (*models.WishlistItem, error)
	DeleteItem(userID, itemID uint) error
}

// PortfolioSummary aggregates a user's investment holdings.
type PortfolioSummary struct {
	TotalInvested int64   `json:"total_invested"`
	TotalValue    int64   `json:"total_value"`
	TotalGainLoss int64   `json:"total_gain_loss"`
	GainLossPct   float64 `json:"gain_loss_pct"`
	HoldingsCount int64   `json:"holdings_count"`
}

// InvestmentServicer defines the contract for investment business logic.
type InvestmentServicer interface {
	CreateInvestment(userID uint, name string, kind models.InvestmentKind, invested int64, now time.Time) (*models.Investment, error)
	GetUserInvestments(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error)
	GetInvestmentByID(userID, investmentID uint) (*models.Investment, error)
	UpdateValue(userID, investmentID uint, currentValue int64, now time.Time) (*models.Investment, error)
	GetPortfolio(userID uint) (*PortfolioSummary, error)
	DeleteInvestment(userID, investmentID uint) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
