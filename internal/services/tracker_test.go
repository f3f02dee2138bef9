package services

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/store"
	"fintrack/internal/store/csvstore"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	s, err := csvstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewTracker(store.Stores{Users: s, Expenses: s, Categories: s, Budgets: s})
}

func TestAvailableCategoriesDefaults(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	got, err := tr.AvailableCategories(ctx, "alice")
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(got) != len(core.DefaultCategories) {
		t.Fatalf("expected defaults only, got %v", got)
	}

	if err := tr.AddCategory(ctx, "alice", "Gadgets"); err != nil {
		t.Fatalf("add category: %v", err)
	}
	got, err = tr.AvailableCategories(ctx, "alice")
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	found := false
	for _, c := range got {
		if c == "Gadgets" {
			found = true
		}
	}
	if !found {
		t.Fatalf("custom category missing from %v", got)
	}
}

func TestAddCategoryRejectsDefault(t *testing.T) {
	tr := newTestTracker(t)
	if err := tr.AddCategory(context.Background(), "alice", "Food"); !errors.Is(err, core.ErrDuplicateCategory) {
		t.Fatalf("expected ErrDuplicateCategory, got %v", err)
	}
}

func TestAddExpenseUnknownCategory(t *testing.T) {
	tr := newTestTracker(t)
	_, _, err := tr.AddExpense(context.Background(), core.Expense{
		Username: "alice",
		Date:     core.NewDate(2024, 2, 10),
		Category: "Yachts",
		Amount:   core.Money{Cents: 100},
	})
	if !errors.Is(err, core.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestAddExpenseNegativeAmount(t *testing.T) {
	tr := newTestTracker(t)
	_, _, err := tr.AddExpense(context.Background(), core.Expense{
		Username: "alice",
		Date:     core.NewDate(2024, 2, 10),
		Category: "Food",
		Amount:   core.Money{Cents: -100},
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestAddExpenseBudgetWarning(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	month := core.NewMonth(2024, 2)

	if err := tr.SetBudget(ctx, core.Budget{
		Username: "alice", Category: "Food", Month: month, Threshold: core.Money{Cents: 1000},
	}); err != nil {
		t.Fatalf("set budget: %v", err)
	}

	// First add stays under budget: no warning
	_, warning, err := tr.AddExpense(ctx, core.Expense{
		Username: "alice", Date: core.NewDate(2024, 2, 5), Category: "Food", Amount: core.Money{Cents: 800},
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if warning != nil {
		t.Fatalf("unexpected warning %+v", warning)
	}

	// Second add crosses the threshold: warned but still persisted
	id, warning, err := tr.AddExpense(ctx, core.Expense{
		Username: "alice", Date: core.NewDate(2024, 2, 6), Category: "Food", Amount: core.Money{Cents: 800},
	})
	if err != nil {
		t.Fatalf("add over budget: %v", err)
	}
	if id == "" {
		t.Fatalf("over-budget add must still persist")
	}
	if warning == nil || !warning.Exceeded {
		t.Fatalf("expected budget warning, got %+v", warning)
	}
}

func TestCheckAlerts(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	month := core.NewMonth(2024, 2)

	if _, _, err := tr.AddExpense(ctx, core.Expense{
		Username: "alice", Date: core.NewDate(2024, 2, 10), Category: "Food", Amount: core.Money{Cents: 1500},
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := tr.SetBudget(ctx, core.Budget{
		Username: "alice", Category: "Food", Month: month, Threshold: core.Money{Cents: 5000},
	}); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	if err := tr.SetBudget(ctx, core.Budget{
		Username: "alice", Category: "Transport", Month: month, Threshold: core.Money{Cents: 1000},
	}); err != nil {
		t.Fatalf("set budget: %v", err)
	}

	alerts, err := tr.CheckAlerts(ctx, "alice", month)
	if err != nil {
		t.Fatalf("check alerts: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(alerts))
	}
	for _, st := range alerts {
		switch st.Category {
		case "Food":
			if st.Exceeded || st.Spent.Cents != 1500 {
				t.Fatalf("unexpected Food status %+v", st)
			}
		case "Transport":
			if st.Exceeded || st.Spent.Cents != 0 {
				t.Fatalf("unexpected Transport status %+v", st)
			}
		default:
			t.Fatalf("unexpected category %s", st.Category)
		}
	}
}

func TestFilterExpensesScopedToUser(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	for _, user := range []string{"alice", "bob"} {
		if _, _, err := tr.AddExpense(ctx, core.Expense{
			Username: user, Date: core.NewDate(2024, 2, 10), Category: "Food", Amount: core.Money{Cents: 100},
		}); err != nil {
			t.Fatalf("add for %s: %v", user, err)
		}
	}

	got, err := tr.FilterExpenses(ctx, "alice", core.Filter{})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 1 || got[0].Username != "alice" {
		t.Fatalf("expected only alice's rows, got %v", got)
	}
}

func TestAllBudgetsAcrossMonths(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	set := func(username, category string, month core.Month, cents int64) {
		t.Helper()
		b := core.Budget{Username: username, Category: category, Month: month, Threshold: core.Money{Cents: cents}}
		if err := tr.SetBudget(ctx, b); err != nil {
			t.Fatalf("set budget: %v", err)
		}
	}
	set("alice", "Food", core.NewMonth(2024, 2), 10000)
	set("alice", "Transport", core.NewMonth(2024, 3), 5000)
	set("bob", "Food", core.NewMonth(2024, 2), 2000)

	got, err := tr.AllBudgets(ctx, "alice")
	if err != nil {
		t.Fatalf("all budgets: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 budgets, got %d", len(got))
	}
	for _, b := range got {
		if b.Username != "alice" {
			t.Fatalf("budget for wrong owner: %+v", b)
		}
	}
}
