// Package services orchestrates expense, category and budget operations
// on top of the persistence ports.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/report"
	"fintrack/internal/store"
)

// Tracker is the application service behind the web handlers. It owns
// cross-store rules the adapters cannot enforce: category membership on add,
// default-category handling and derived budget warnings.
type Tracker struct {
	stores store.Stores
}

func NewTracker(stores store.Stores) *Tracker {
	return &Tracker{stores: stores}
}

// AvailableCategories returns the defaults plus the user's customs,
// deduplicated and sorted.
func (t *Tracker) AvailableCategories(ctx context.Context, username string) ([]string, error) {
	customs, err := t.stores.Categories.ListCategories(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	seen := make(map[string]struct{})
	var out []string
	for _, name := range append(append([]string(nil), core.DefaultCategories...), customs...) {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// AddCategory registers a custom category. Default names are rejected as
// duplicates since they are always available.
func (t *Tracker) AddCategory(ctx context.Context, username, name string) error {
	name = strings.TrimSpace(name)
	if core.IsDefaultCategory(name) {
		return core.ErrDuplicateCategory
	}
	return t.stores.Categories.AddCategory(ctx, core.Category{Username: username, Name: name})
}

// AddExpense validates the expense against the user's category set and
// appends it. The returned warning is non-nil when the add pushed the
// category past its budget for that month; the add itself still succeeds.
func (t *Tracker) AddExpense(ctx context.Context, e core.Expense) (string, *report.BudgetStatus, error) {
	if err := e.Validate(); err != nil {
		return "", nil, err
	}

	available, err := t.AvailableCategories(ctx, e.Username)
	if err != nil {
		return "", nil, err
	}
	known := false
	for _, c := range available {
		if c == e.Category {
			known = true
			break
		}
	}
	if !known {
		return "", nil, core.ErrInvalidCategory
	}

	id, err := t.stores.Expenses.AppendExpense(ctx, e)
	if err != nil {
		return "", nil, fmt.Errorf("append expense: %w", err)
	}

	warning := t.budgetWarning(ctx, e)
	return id, warning, nil
}

// budgetWarning recomputes the budget state for the expense's category and
// month. Failures here only cost the warning, never the add.
func (t *Tracker) budgetWarning(ctx context.Context, e core.Expense) *report.BudgetStatus {
	month := e.Date.MonthOf()
	budgets, err := t.stores.Budgets.ListBudgets(ctx, e.Username, month)
	if err != nil {
		slog.WarnContext(ctx, "Budget warning check failed", "error", err, "username", e.Username)
		return nil
	}
	var match []core.Budget
	for _, b := range budgets {
		if b.Category == e.Category {
			match = append(match, b)
		}
	}
	if len(match) == 0 {
		return nil
	}
	expenses, err := t.stores.Expenses.ListExpenses(ctx, e.Username)
	if err != nil {
		slog.WarnContext(ctx, "Budget warning check failed", "error", err, "username", e.Username)
		return nil
	}
	for _, st := range report.CheckBudgets(expenses, match) {
		if st.Exceeded {
			return &st
		}
	}
	return nil
}

// FilterExpenses returns the user's expenses matching the filter,
// sorted by date.
func (t *Tracker) FilterExpenses(ctx context.Context, username string, f core.Filter) ([]core.Expense, error) {
	all, err := t.stores.Expenses.ListExpenses(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return f.Apply(all), nil
}

// SetBudget upserts a category budget for one month. The category must be
// one the user can spend against.
func (t *Tracker) SetBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	available, err := t.AvailableCategories(ctx, b.Username)
	if err != nil {
		return err
	}
	known := false
	for _, c := range available {
		if c == b.Category {
			known = true
			break
		}
	}
	if !known {
		return core.ErrInvalidCategory
	}
	return t.stores.Budgets.SetBudget(ctx, b)
}

// RemoveBudget deletes a category budget.
func (t *Tracker) RemoveBudget(ctx context.Context, username, category string, month core.Month) error {
	return t.stores.Budgets.RemoveBudget(ctx, username, category, month)
}

// AllBudgets returns every budget the user has, across all months.
func (t *Tracker) AllBudgets(ctx context.Context, username string) ([]core.Budget, error) {
	budgets, err := t.stores.Budgets.AllBudgets(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("all budgets: %w", err)
	}
	return budgets, nil
}

// CheckAlerts returns the derived budget state for every budget the user has
// in the given month.
func (t *Tracker) CheckAlerts(ctx context.Context, username string, month core.Month) ([]report.BudgetStatus, error) {
	budgets, err := t.stores.Budgets.ListBudgets(ctx, username, month)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	if len(budgets) == 0 {
		return nil, nil
	}
	expenses, err := t.stores.Expenses.ListExpenses(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return report.CheckBudgets(expenses, budgets), nil
}
