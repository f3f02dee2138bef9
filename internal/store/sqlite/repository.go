package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// CreateUser implements store.UserStore.
func (r *Repository) CreateUser(ctx context.Context, u core.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		u.Username, u.PasswordHash, created.Format(time.RFC3339))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return core.ErrDuplicateUser
		}
		return fmt.Errorf("create user: %w", err)
	}
	r.logger.InfoContext(ctx, "User created", "username", u.Username)
	return nil
}

// GetUser implements store.UserStore.
func (r *Repository) GetUser(ctx context.Context, username string) (core.User, error) {
	var (
		u       core.User
		created string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT username, password_hash, created_at FROM users WHERE username = ?`,
		username).Scan(&u.Username, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrUnknownUser
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		u.CreatedAt = t
	}
	return u, nil
}

// AppendExpense implements store.ExpenseStore.
func (r *Repository) AppendExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	e.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, username, date, category, amount_cents, note) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Username, e.Date.String(), e.Category, e.Amount.Cents, e.Note)
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	r.logger.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"username", e.Username,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String())
	return e.ID, nil
}

// ListExpenses implements store.ExpenseStore.
func (r *Repository) ListExpenses(ctx context.Context, username string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, date, category, amount_cents, note FROM expenses WHERE username = ? ORDER BY date`,
		username)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e    core.Expense
			date string
		)
		if err := rows.Scan(&e.ID, &e.Username, &date, &e.Category, &e.Amount.Cents, &e.Note); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Date, err = core.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AddCategory implements store.CategoryStore.
func (r *Repository) AddCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (username, name) VALUES (?, ?)`,
		c.Username, c.Name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return core.ErrDuplicateCategory
		}
		return fmt.Errorf("add category: %w", err)
	}
	r.logger.InfoContext(ctx, "Category added", "username", c.Username, "category", c.Name)
	return nil
}

// ListCategories implements store.CategoryStore.
func (r *Repository) ListCategories(ctx context.Context, username string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM categories WHERE username = ? ORDER BY name`, username)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// SetBudget implements store.BudgetStore.
func (r *Repository) SetBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (username, category, month, threshold_cents) VALUES (?, ?, ?, ?)
		 ON CONFLICT (username, category, month) DO UPDATE SET threshold_cents = excluded.threshold_cents`,
		b.Username, b.Category, b.Month.String(), b.Threshold.Cents)
	if err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	r.logger.InfoContext(ctx, "Budget set",
		"username", b.Username,
		"category", b.Category,
		"month", b.Month.String(),
		"threshold_cents", b.Threshold.Cents)
	return nil
}

// RemoveBudget implements store.BudgetStore.
func (r *Repository) RemoveBudget(ctx context.Context, username, category string, month core.Month) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE username = ? AND category = ? AND month = ?`,
		username, category, month.String())
	if err != nil {
		return fmt.Errorf("remove budget: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrBudgetNotFound
	}
	r.logger.InfoContext(ctx, "Budget removed", "username", username, "category", category, "month", month.String())
	return nil
}

// ListBudgets implements store.BudgetStore.
func (r *Repository) ListBudgets(ctx context.Context, username string, month core.Month) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, threshold_cents FROM budgets WHERE username = ? AND month = ? ORDER BY category`,
		username, month.String())
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b := core.Budget{Username: username, Month: month}
		if err := rows.Scan(&b.Category, &b.Threshold.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// AllBudgets implements store.BudgetStore.
func (r *Repository) AllBudgets(ctx context.Context, username string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, month, threshold_cents FROM budgets WHERE username = ? ORDER BY month, category`,
		username)
	if err != nil {
		return nil, fmt.Errorf("all budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var (
			b     = core.Budget{Username: username}
			month string
		)
		if err := rows.Scan(&b.Category, &month, &b.Threshold.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Month, err = core.ParseMonth(month)
		if err != nil {
			return nil, fmt.Errorf("budget %s/%s: %w", b.Category, month, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
