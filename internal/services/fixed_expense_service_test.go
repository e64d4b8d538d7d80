package services

import (
	"testing"

	"github.com/jotaveeo/nocontrole-back/internal/models"
	"github.com/jotaveeo/nocontrole-back/internal/pagination"
	"github.com/jotaveeo/nocontrole-back/internal/testutil"
)

func TestCreateFixedExpense(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFixedExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		expense, err := svc.CreateFixedExpense(user.ID, "Rent", 180000, 5, &cat.ID)
		testutil.AssertNoError(t, err)

		if expense.ID == 0 {
			t.Fatal("expected non-zero expense ID")
		}
		if expense.DueDay != 5 {
			t.Errorf("expected due day 5, got %d", expense.DueDay)
		}
		if !expense.IsActive {
			t.Error("expected expense to be active")
		}
	})

	t.Run("due_day_out_of_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFixedExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateFixedExpense(user.ID, "Rent", 180000, 0, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateFixedExpense(user.ID, "Rent", 180000, 32, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("category_not_owned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFixedExpenseService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user2.ID, models.CategoryTypeExpense)

		_, err := svc.CreateFixedExpense(user1.ID, "Rent", 180000, 5, &cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetUserFixedExpenses(t *testing.T) {
	t.Run("filter_by_is_active", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFixedExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateFixedExpense(user.ID, "Rent", 180000, 5, nil)
		testutil.AssertNoError(t, err)
		second, err := svc.CreateFixedExpense(user.ID, "Gym", 8000, 10, nil)
		testutil.AssertNoError(t, err)

		inactive := false
		_, err = svc.UpdateFixedExpense(user.ID, second.ID, "", nil, nil, &inactive)
		testutil.AssertNoError(t, err)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		active := true
		result, err := svc.GetUserFixedExpenses(user.ID, page, &active)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 active expense, got %d", result.TotalItems)
		}
	})

	t.Run("ordered_by_due_day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFixedExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateFixedExpense(user.ID, "Late", 5000, 25, nil)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateFixedExpense(user.ID, "Early", 5000, 3, nil)
		testutil.AssertNoError(t, err)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserFixedExpenses(user.ID, page, nil)
		testutil.AssertNoError(t, err)

		if len(result.Data) != 2 {
			t.Fatalf("expected 2 expenses, got %d", len(result.Data))
		}
		if result.Data[0].Name != "Early" {
			t.Errorf("expected earliest due day first, got %s", result.Data[0].Name)
		}
	})
}

func TestUpdateFixedExpense(t *testing.T) {
	t.Run("invalid_due_day", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFixedExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		expense, err := svc.CreateFixedExpense(user.ID, "Rent", 180000, 5, nil)
		testutil.AssertNoError(t, err)

		badDay := 40
		_, err = svc.UpdateFixedExpense(user.ID, expense.ID, "", nil, &badDay, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFixedExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateFixedExpense(user.ID, 9999, "Nope", nil, nil, nil)
		testutil.AssertAppError(t, err, "FIXED_EXPENSE_NOT_FOUND")
	})
}

func TestDeleteFixedExpense(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewFixedExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		expense, err := svc.CreateFixedExpense(user.ID, "Rent", 180000, 5, nil)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteFixedExpense(user.ID, expense.ID))

		_, err = svc.GetFixedExpenseByID(user.ID, expense.ID)
		testutil.AssertAppError(t, err, "FIXED_EXPENSE_NOT_FOUND")
	})
}
