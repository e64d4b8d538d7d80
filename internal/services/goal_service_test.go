package services

import (
	"testing"
	"time"

	"github.com/jotaveeo/nocontrole-back/internal/pagination"
	"github.com/jotaveeo/nocontrole-back/internal/testutil"
)

func TestCreateGoal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)

		deadline := time.Now().AddDate(1, 0, 0)
		goal, err := svc.CreateGoal(user.ID, "Vacation", 500000, &deadline)
		testutil.AssertNoError(t, err)

		if goal.ID == 0 {
			t.Fatal("expected non-zero goal ID")
		}
		if goal.Saved != 0 {
			t.Errorf("expected saved 0, got %d", goal.Saved)
		}
		if goal.Deadline == nil {
			t.Error("expected deadline to be set")
		}
	})

	t.Run("nonpositive_target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGoal(user.ID, "Bad", 0, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestContribute(t *testing.T) {
	t.Run("accumulates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 100000)

		updated, err := svc.Contribute(user.ID, goal.ID, 30000)
		testutil.AssertNoError(t, err)
		if updated.Saved != 30000 {
			t.Errorf("expected saved 30000, got %d", updated.Saved)
		}

		updated, err = svc.Contribute(user.ID, goal.ID, 20000)
		testutil.AssertNoError(t, err)
		if updated.Saved != 50000 {
			t.Errorf("expected saved 50000, got %d", updated.Saved)
		}
	})

	t.Run("nonpositive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 100000)

		_, err := svc.Contribute(user.ID, goal.ID, -100)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Contribute(user.ID, 9999, 1000)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestGetUserGoals(t *testing.T) {
	t.Run("returns_user_goals_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestGoal(t, db, user1.ID, 100000)
		testutil.CreateTestGoal(t, db, user2.ID, 100000)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserGoals(user1.ID, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 goal, got %d", result.TotalItems)
		}
	})
}

func TestDeleteGoal(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGoalService(db)
		user := testutil.CreateTestUser(t, db)
		goal := testutil.CreateTestGoal(t, db, user.ID, 100000)

		testutil.AssertNoError(t, svc.DeleteGoal(user.ID, goal.ID))

		_, err := svc.GetGoalByID(user.ID, goal.ID)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}
