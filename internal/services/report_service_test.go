package services

import (
	"testing"
	"time"

	"github.com/jotaveeo/nocontrole-back/internal/models"
	"github.com/jotaveeo/nocontrole-back/internal/testutil"
)

func TestGetBudgetView(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

	t.Run("spent_against_category_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food")
		testutil.CreateTestLimit(t, db, user.ID, models.LimitKindCategory, 50000, &food.ID, nil)

		testutil.CreateTestTransactionOn(t, db, user.ID, &food.ID, models.TransactionTypeExpense, 15000, now)
		testutil.CreateTestTransactionOn(t, db, user.ID, &food.ID, models.TransactionTypeExpense, 20000, now.AddDate(0, 0, 3))

		view, err := svc.GetBudgetView(user.ID, now)
		testutil.AssertNoError(t, err)

		if len(view) != 1 {
			t.Fatalf("expected 1 budget row, got %d", len(view))
		}
		row := view[0]
		if row.Spent != 35000 {
			t.Errorf("expected spent 35000, got %d", row.Spent)
		}
		if row.Budget != 50000 {
			t.Errorf("expected budget 50000, got %d", row.Budget)
		}
		if row.Remaining != 15000 {
			t.Errorf("expected remaining 15000, got %d", row.Remaining)
		}
		if row.Percentage != 70 {
			t.Errorf("expected percentage 70, got %.2f", row.Percentage)
		}
		if row.Status != "safe" {
			t.Errorf("expected status safe, got %s", row.Status)
		}
		if row.TransactionCount != 2 {
			t.Errorf("expected 2 transactions, got %d", row.TransactionCount)
		}
	})

	t.Run("exceeded_clamps_percentage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food")
		testutil.CreateTestLimit(t, db, user.ID, models.LimitKindCategory, 50000, &food.ID, nil)

		testutil.CreateTestTransactionOn(t, db, user.ID, &food.ID, models.TransactionTypeExpense, 55000, now)

		view, err := svc.GetBudgetView(user.ID, now)
		testutil.AssertNoError(t, err)

		if len(view) != 1 {
			t.Fatalf("expected 1 budget row, got %d", len(view))
		}
		row := view[0]
		if row.Percentage != 100 {
			t.Errorf("expected percentage clamped at 100, got %.2f", row.Percentage)
		}
		if row.Remaining != 0 {
			t.Errorf("expected remaining 0, got %d", row.Remaining)
		}
		if row.Status != "exceeded" {
			t.Errorf("expected status exceeded, got %s", row.Status)
		}
	})

	t.Run("warning_at_80_percent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food")
		testutil.CreateTestLimit(t, db, user.ID, models.LimitKindCategory, 50000, &food.ID, nil)

		testutil.CreateTestTransactionOn(t, db, user.ID, &food.ID, models.TransactionTypeExpense, 40000, now)

		view, err := svc.GetBudgetView(user.ID, now)
		testutil.AssertNoError(t, err)

		if view[0].Status != "warning" {
			t.Errorf("expected status warning, got %s", view[0].Status)
		}
	})

	t.Run("category_without_limit_has_zero_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		misc := testutil.CreateTestCategoryWithName(t, db, user.ID, "Misc")

		testutil.CreateTestTransactionOn(t, db, user.ID, &misc.ID, models.TransactionTypeExpense, 9000, now)

		view, err := svc.GetBudgetView(user.ID, now)
		testutil.AssertNoError(t, err)

		if len(view) != 1 {
			t.Fatalf("expected 1 budget row, got %d", len(view))
		}
		row := view[0]
		if row.Budget != 0 {
			t.Errorf("expected budget 0, got %d", row.Budget)
		}
		if row.Spent != 9000 {
			t.Errorf("expected spent 9000, got %d", row.Spent)
		}
		if row.Percentage != 0 {
			t.Errorf("expected percentage 0 without a budget, got %.2f", row.Percentage)
		}
		if row.Status != "safe" {
			t.Errorf("expected status safe, got %s", row.Status)
		}
	})

	t.Run("excludes_pending_and_other_months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food")
		testutil.CreateTestLimit(t, db, user.ID, models.LimitKindCategory, 50000, &food.ID, nil)

		testutil.CreateTestTransactionOn(t, db, user.ID, &food.ID, models.TransactionTypeExpense, 10000, now)
		// Previous month, outside the window.
		testutil.CreateTestTransactionOn(t, db, user.ID, &food.ID, models.TransactionTypeExpense, 99000, now.AddDate(0, -1, 0))

		pending := testutil.CreateTestTransactionOn(t, db, user.ID, &food.ID, models.TransactionTypeExpense, 5000, now)
		if err := db.Model(pending).Update("status", models.TransactionStatusPending).Error; err != nil {
			t.Fatalf("failed to mark transaction pending: %v", err)
		}

		view, err := svc.GetBudgetView(user.ID, now)
		testutil.AssertNoError(t, err)

		if view[0].Spent != 10000 {
			t.Errorf("expected spent 10000, got %d", view[0].Spent)
		}
	})

	t.Run("empty_returns_empty_slice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		view, err := svc.GetBudgetView(user.ID, now)
		testutil.AssertNoError(t, err)

		if len(view) != 0 {
			t.Errorf("expected empty view, got %d rows", len(view))
		}
	})
}

func TestGetCashFlowReport(t *testing.T) {
	t.Run("empty_year_has_twelve_zero_entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		entries, err := svc.GetCashFlowReport(user.ID, 2025)
		testutil.AssertNoError(t, err)

		if len(entries) != 12 {
			t.Fatalf("expected 12 entries, got %d", len(entries))
		}
		for i, e := range entries {
			if e.Month != i+1 {
				t.Errorf("entry %d: expected month %d, got %d", i, i+1, e.Month)
			}
			if e.Income != 0 || e.Expense != 0 || e.Balance != 0 || e.CumulativeBalance != 0 {
				t.Errorf("entry %d: expected zero values, got %+v", i, e)
			}
		}
	})

	t.Run("cumulative_balance_carries_forward", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
		feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeIncome, 300000, jan)
		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeExpense, 100000, jan)
		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeExpense, 50000, feb)

		entries, err := svc.GetCashFlowReport(user.ID, 2025)
		testutil.AssertNoError(t, err)

		if entries[0].Balance != 200000 {
			t.Errorf("expected January balance 200000, got %d", entries[0].Balance)
		}
		if entries[1].Balance != -50000 {
			t.Errorf("expected February balance -50000, got %d", entries[1].Balance)
		}
		if entries[1].CumulativeBalance != 150000 {
			t.Errorf("expected February cumulative 150000, got %d", entries[1].CumulativeBalance)
		}
		if entries[11].CumulativeBalance != 150000 {
			t.Errorf("expected December cumulative 150000, got %d", entries[11].CumulativeBalance)
		}
	})

	t.Run("excludes_other_years", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeIncome, 100000,
			time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

		entries, err := svc.GetCashFlowReport(user.ID, 2025)
		testutil.AssertNoError(t, err)

		for i, e := range entries {
			if e.Income != 0 {
				t.Errorf("entry %d: expected no income from other years, got %d", i, e.Income)
			}
		}
	})
}

func TestGetCategoryReport(t *testing.T) {
	t.Run("groups_and_sorts_by_total", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food")
		rent := testutil.CreateTestCategoryWithName(t, db, user.ID, "Rent")

		day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionOn(t, db, user.ID, &food.ID, models.TransactionTypeExpense, 10000, day)
		testutil.CreateTestTransactionOn(t, db, user.ID, &food.ID, models.TransactionTypeExpense, 20000, day)
		testutil.CreateTestTransactionOn(t, db, user.ID, &rent.ID, models.TransactionTypeExpense, 90000, day)

		start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC)
		entries, err := svc.GetCategoryReport(user.ID, start, end)
		testutil.AssertNoError(t, err)

		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Name != "Rent" || entries[0].Total != 90000 {
			t.Errorf("expected Rent 90000 first, got %s %d", entries[0].Name, entries[0].Total)
		}
		if entries[1].Name != "Food" || entries[1].Total != 30000 {
			t.Errorf("expected Food 30000 second, got %s %d", entries[1].Name, entries[1].Total)
		}
		if entries[0].PercentOfTotal != 75 {
			t.Errorf("expected Rent share 75, got %.2f", entries[0].PercentOfTotal)
		}
		if entries[1].Count != 2 {
			t.Errorf("expected Food count 2, got %d", entries[1].Count)
		}
	})

	t.Run("income_and_expense_shares_are_independent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		salary := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)
		food := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionOn(t, db, user.ID, &salary.ID, models.TransactionTypeIncome, 400000, day)
		testutil.CreateTestTransactionOn(t, db, user.ID, &food.ID, models.TransactionTypeExpense, 30000, day)

		start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC)
		entries, err := svc.GetCategoryReport(user.ID, start, end)
		testutil.AssertNoError(t, err)

		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		for _, e := range entries {
			if e.PercentOfTotal != 100 {
				t.Errorf("%s: expected share 100 within its type, got %.2f", e.Type, e.PercentOfTotal)
			}
		}
	})

	t.Run("empty_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
		entries, err := svc.GetCategoryReport(user.ID, start, end)
		testutil.AssertNoError(t, err)

		if len(entries) != 0 {
			t.Errorf("expected no entries, got %d", len(entries))
		}
	})
}

func TestGetCardReport(t *testing.T) {
	t.Run("groups_by_card", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		card1 := testutil.CreateTestCard(t, db, user.ID)
		card2 := testutil.CreateTestCard(t, db, user.ID)

		day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
		for _, tc := range []struct {
			cardID uint
			amount int64
		}{
			{card1.ID, 25000},
			{card1.ID, 5000},
			{card2.ID, 10000},
		} {
			cardID := tc.cardID
			tx := &models.Transaction{
				UserID: user.ID,
				CardID: &cardID,
				Type:   models.TransactionTypeExpense,
				Status: models.TransactionStatusConfirmed,
				Amount: tc.amount,
				Date:   day,
			}
			if err := db.Create(tx).Error; err != nil {
				t.Fatalf("failed to create transaction: %v", err)
			}
		}

		start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC)
		entries, err := svc.GetCardReport(user.ID, start, end)
		testutil.AssertNoError(t, err)

		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].GroupID != card1.ID || entries[0].Total != 30000 {
			t.Errorf("expected card %d with 30000 first, got %d with %d", card1.ID, entries[0].GroupID, entries[0].Total)
		}
		if entries[0].Count != 2 {
			t.Errorf("expected count 2, got %d", entries[0].Count)
		}
	})
}

func TestGetMonthlyEvolution(t *testing.T) {
	t.Run("one_summary_per_month_in_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		nov := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
		jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeIncome, 100000, nov)
		testutil.CreateTestTransactionOn(t, db, user.ID, nil, models.TransactionTypeExpense, 40000, jan)

		start := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
		summaries, err := svc.GetMonthlyEvolution(user.ID, start, end)
		testutil.AssertNoError(t, err)

		if len(summaries) != 3 {
			t.Fatalf("expected 3 summaries, got %d", len(summaries))
		}
		if summaries[0].Year != 2024 || summaries[0].Month != 11 || summaries[0].Income != 100000 {
			t.Errorf("unexpected first summary: %+v", summaries[0])
		}
		if summaries[1].Income != 0 || summaries[1].Expense != 0 {
			t.Errorf("expected empty December, got %+v", summaries[1])
		}
		if summaries[2].Balance != -40000 {
			t.Errorf("expected January balance -40000, got %d", summaries[2].Balance)
		}
	})

	t.Run("inverted_range_is_empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, -2, 0)
		summaries, err := svc.GetMonthlyEvolution(user.ID, start, end)
		testutil.AssertNoError(t, err)

		if len(summaries) != 0 {
			t.Errorf("expected no summaries, got %d", len(summaries))
		}
	})
}
