// Package store defines the persistence ports implemented by the csvstore
// and sqlite adapters.
package store

import (
	"context"

	"fintrack/internal/core"
)

type (
	UserStore interface {
		// CreateUser persists a new user. Returns core.ErrDuplicateUser if
		// the username is taken.
		CreateUser(ctx context.Context, u core.User) error
		// GetUser returns core.ErrUnknownUser if the username is absent.
		GetUser(ctx context.Context, username string) (core.User, error)
	}

	ExpenseStore interface {
		// AppendExpense appends a validated expense row and returns its id.
		AppendExpense(ctx context.Context, e core.Expense) (string, error)
		// ListExpenses returns all expenses owned by username.
		ListExpenses(ctx context.Context, username string) ([]core.Expense, error)
	}

	CategoryStore interface {
		// AddCategory persists a custom category for its owner. Returns
		// core.ErrDuplicateCategory if it already exists.
		AddCategory(ctx context.Context, c core.Category) error
		// ListCategories returns the owner's custom categories (defaults
		// are the caller's concern).
		ListCategories(ctx context.Context, username string) ([]string, error)
	}

	BudgetStore interface {
		// SetBudget upserts a budget keyed by (owner, category, month).
		SetBudget(ctx context.Context, b core.Budget) error
		// RemoveBudget deletes a budget. Returns core.ErrBudgetNotFound if
		// no budget matches the key.
		RemoveBudget(ctx context.Context, username, category string, month core.Month) error
		// ListBudgets returns the owner's budgets for the given month.
		ListBudgets(ctx context.Context, username string, month core.Month) ([]core.Budget, error)
		// AllBudgets returns every budget the owner has, across all months.
		AllBudgets(ctx context.Context, username string) ([]core.Budget, error)
	}
)

// Stores bundles the four persistence ports a backend provides.
type Stores struct {
	Users      UserStore
	Expenses   ExpenseStore
	Categories CategoryStore
	Budgets    BudgetStore
}
