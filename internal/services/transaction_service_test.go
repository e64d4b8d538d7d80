package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/jotaveeo/nocontrole-back/internal/models"
	"github.com/jotaveeo/nocontrole-back/internal/pagination"
	"github.com/jotaveeo/nocontrole-back/internal/testutil"
)

func newTestTransactionService(db *gorm.DB) (TransactionServicer, LimitServicer) {
	limitSvc := newTestLimitService(db)
	return NewTransactionService(db, limitSvc), limitSvc
}

func TestCreateTransaction(t *testing.T) {
	t.Run("valid_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		tx, err := svc.CreateTransaction(user.ID, &cat.ID, nil, models.TransactionTypeExpense, models.TransactionStatusConfirmed, 12500, "Groceries", time.Now())
		testutil.AssertNoError(t, err)

		if tx.ID == 0 {
			t.Fatal("expected non-zero transaction ID")
		}
		if tx.Amount != 12500 {
			t.Errorf("expected amount 12500, got %d", tx.Amount)
		}
		if tx.Status != models.TransactionStatusConfirmed {
			t.Errorf("expected status confirmed, got %s", tx.Status)
		}
	})

	t.Run("confirmed_expense_accrues_matching_limits", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
		limit := testutil.CreateTestLimit(t, db, user.ID, models.LimitKindCategory, 50000, &cat.ID, nil)

		_, err := svc.CreateTransaction(user.ID, &cat.ID, nil, models.TransactionTypeExpense, models.TransactionStatusConfirmed, 8000, "", time.Now())
		testutil.AssertNoError(t, err)

		var stored models.Limit
		if err := db.First(&stored, limit.ID).Error; err != nil {
			t.Fatalf("failed to reload limit: %v", err)
		}
		if stored.Accrued != 8000 {
			t.Errorf("expected accrued 8000, got %d", stored.Accrued)
		}
	})

	t.Run("pending_expense_does_not_accrue", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		limit := testutil.CreateTestLimit(t, db, user.ID, models.LimitKindGeneral, 50000, nil, nil)

		_, err := svc.CreateTransaction(user.ID, nil, nil, models.TransactionTypeExpense, models.TransactionStatusPending, 8000, "", time.Now())
		testutil.AssertNoError(t, err)

		var stored models.Limit
		if err := db.First(&stored, limit.ID).Error; err != nil {
			t.Fatalf("failed to reload limit: %v", err)
		}
		if stored.Accrued != 0 {
			t.Errorf("expected accrued 0 for pending expense, got %d", stored.Accrued)
		}
	})

	t.Run("income_does_not_accrue", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		limit := testutil.CreateTestLimit(t, db, user.ID, models.LimitKindGeneral, 50000, nil, nil)

		_, err := svc.CreateTransaction(user.ID, nil, nil, models.TransactionTypeIncome, models.TransactionStatusConfirmed, 300000, "Salary", time.Now())
		testutil.AssertNoError(t, err)

		var stored models.Limit
		if err := db.First(&stored, limit.ID).Error; err != nil {
			t.Fatalf("failed to reload limit: %v", err)
		}
		if stored.Accrued != 0 {
			t.Errorf("expected accrued 0 for income, got %d", stored.Accrued)
		}
	})

	t.Run("defaults_status_and_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, nil, nil, models.TransactionTypeExpense, "", 1000, "", time.Time{})
		testutil.AssertNoError(t, err)

		if tx.Status != models.TransactionStatusConfirmed {
			t.Errorf("expected default status confirmed, got %s", tx.Status)
		}
		if tx.Date.IsZero() {
			t.Error("expected default date to be set")
		}
	})

	t.Run("nonpositive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, nil, nil, models.TransactionTypeExpense, models.TransactionStatusConfirmed, 0, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, nil, nil, models.TransactionType("transfer"), models.TransactionStatusConfirmed, 1000, "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("category_not_owned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user2.ID, models.CategoryTypeExpense)

		_, err := svc.CreateTransaction(user1.ID, &cat.ID, nil, models.TransactionTypeExpense, models.TransactionStatusConfirmed, 1000, "", time.Now())
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("card_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		cardID := uint(9999)
		_, err := svc.CreateTransaction(user.ID, nil, &cardID, models.TransactionTypeExpense, models.TransactionStatusConfirmed, 1000, "", time.Now())
		testutil.AssertAppError(t, err, "CARD_NOT_FOUND")
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("returns_user_transactions_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user1.ID, nil, models.TransactionTypeExpense, 1000)
		testutil.CreateTestTransaction(t, db, user1.ID, nil, models.TransactionTypeIncome, 2000)
		testutil.CreateTestTransaction(t, db, user2.ID, nil, models.TransactionTypeExpense, 3000)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserTransactions(user1.ID, page, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 transactions, got %d", result.TotalItems)
		}
	})

	t.Run("filter_by_type_and_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, nil, models.TransactionTypeExpense, 1000)
		testutil.CreateTestTransaction(t, db, user.ID, nil, models.TransactionTypeExpense, 5000)
		testutil.CreateTestTransaction(t, db, user.ID, nil, models.TransactionTypeIncome, 5000)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		txType := models.TransactionTypeExpense
		minAmount := int64(2000)
		result, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{Type: &txType, MinAmount: &minAmount})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction, got %d", result.TotalItems)
		}
		if len(result.Data) > 0 && result.Data[0].Amount != 5000 {
			t.Errorf("expected amount 5000, got %d", result.Data[0].Amount)
		}
	})

	t.Run("filter_by_date_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
		mar := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeExpense, 1000, jan)
		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeExpense, 2000, mar)

		from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{FromDate: &from, ToDate: &to})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction in range, got %d", result.TotalItems)
		}
	})

	t.Run("ordered_by_date_descending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeExpense, 1000, older)
		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeExpense, 2000, newer)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(result.Data))
		}
		if result.Data[0].Amount != 2000 {
			t.Errorf("expected newest transaction first, got amount %d", result.Data[0].Amount)
		}
	})
}

func TestUpdateTransactionStatus(t *testing.T) {
	t.Run("confirm_pending_expense_accrues", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		limit := testutil.CreateTestLimit(t, db, user.ID, models.LimitKindGeneral, 50000, nil, nil)

		tx, err := svc.CreateTransaction(user.ID, nil, nil, models.TransactionTypeExpense, models.TransactionStatusPending, 6000, "", time.Now())
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateTransactionStatus(user.ID, tx.ID, models.TransactionStatusConfirmed)
		testutil.AssertNoError(t, err)

		if updated.Status != models.TransactionStatusConfirmed {
			t.Errorf("expected status confirmed, got %s", updated.Status)
		}

		var stored models.Limit
		if err := db.First(&stored, limit.ID).Error; err != nil {
			t.Fatalf("failed to reload limit: %v", err)
		}
		if stored.Accrued != 6000 {
			t.Errorf("expected accrued 6000 after confirmation, got %d", stored.Accrued)
		}
	})

	t.Run("cancel_pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, nil, nil, models.TransactionTypeExpense, models.TransactionStatusPending, 6000, "", time.Now())
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateTransactionStatus(user.ID, tx.ID, models.TransactionStatusCancelled)
		testutil.AssertNoError(t, err)

		if updated.Status != models.TransactionStatusCancelled {
			t.Errorf("expected status cancelled, got %s", updated.Status)
		}
	})

	t.Run("cancel_confirmed_keeps_accrual", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		limit := testutil.CreateTestLimit(t, db, user.ID, models.LimitKindGeneral, 50000, nil, nil)

		tx, err := svc.CreateTransaction(user.ID, nil, nil, models.TransactionTypeExpense, models.TransactionStatusConfirmed, 6000, "", time.Now())
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateTransactionStatus(user.ID, tx.ID, models.TransactionStatusCancelled)
		testutil.AssertNoError(t, err)

		var stored models.Limit
		if err := db.First(&stored, limit.ID).Error; err != nil {
			t.Fatalf("failed to reload limit: %v", err)
		}
		if stored.Accrued != 6000 {
			t.Errorf("expected accrual kept at 6000, got %d", stored.Accrued)
		}
	})

	t.Run("invalid_transitions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, nil, nil, models.TransactionTypeExpense, models.TransactionStatusConfirmed, 6000, "", time.Now())
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateTransactionStatus(user.ID, tx.ID, models.TransactionStatusPending)
		testutil.AssertAppError(t, err, "INVALID_STATUS_TRANSITION")

		_, err = svc.UpdateTransactionStatus(user.ID, tx.ID, models.TransactionStatusCancelled)
		testutil.AssertNoError(t, err)

		// Cancelled is terminal.
		_, err = svc.UpdateTransactionStatus(user.ID, tx.ID, models.TransactionStatusConfirmed)
		testutil.AssertAppError(t, err, "INVALID_STATUS_TRANSITION")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateTransactionStatus(user.ID, 9999, models.TransactionStatusConfirmed)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("deletes_without_reversing_accrual", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		limit := testutil.CreateTestLimit(t, db, user.ID, models.LimitKindGeneral, 50000, nil, nil)

		tx, err := svc.CreateTransaction(user.ID, nil, nil, models.TransactionTypeExpense, models.TransactionStatusConfirmed, 7000, "", time.Now())
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, tx.ID))

		_, err = svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		var stored models.Limit
		if err := db.First(&stored, limit.ID).Error; err != nil {
			t.Fatalf("failed to reload limit: %v", err)
		}
		if stored.Accrued != 7000 {
			t.Errorf("expected accrual kept at 7000, got %d", stored.Accrued)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteTransaction(user.ID, 9999)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
