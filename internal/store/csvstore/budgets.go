package csvstore

import (
	"context"
	"fmt"

	"fintrack/internal/core"
)

var budgetsHeader = []string{"username", "category", "month", "threshold"}

// SetBudget implements store.BudgetStore. The budget is upserted on its
// natural key (username, category, month).
func (s *Store) SetBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.budgetsMu.Lock()
	defer s.budgetsMu.Unlock()

	rows, err := s.readAll(budgetsFile, len(budgetsHeader))
	if err != nil {
		return err
	}

	// Drop any existing row for the same key, then append the new one.
	kept := rows[:0]
	for _, row := range rows {
		if row[0] == b.Username && row[1] == b.Category && row[2] == b.Month.String() {
			continue
		}
		kept = append(kept, row)
	}
	kept = append(kept, []string{b.Username, b.Category, b.Month.String(), b.Threshold.Decimal()})

	if err := s.writeAll(budgetsFile, budgetsHeader, kept); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Budget set",
		"username", b.Username,
		"category", b.Category,
		"month", b.Month.String(),
		"threshold_cents", b.Threshold.Cents)
	return nil
}

// RemoveBudget implements store.BudgetStore.
func (s *Store) RemoveBudget(ctx context.Context, username, category string, month core.Month) error {
	s.budgetsMu.Lock()
	defer s.budgetsMu.Unlock()

	rows, err := s.readAll(budgetsFile, len(budgetsHeader))
	if err != nil {
		return err
	}

	kept := rows[:0]
	found := false
	for _, row := range rows {
		if row[0] == username && row[1] == category && row[2] == month.String() {
			found = true
			continue
		}
		kept = append(kept, row)
	}
	if !found {
		return core.ErrBudgetNotFound
	}
	if err := s.writeAll(budgetsFile, budgetsHeader, kept); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Budget removed", "username", username, "category", category, "month", month.String())
	return nil
}

// ListBudgets implements store.BudgetStore.
func (s *Store) ListBudgets(ctx context.Context, username string, month core.Month) ([]core.Budget, error) {
	all, err := s.AllBudgets(ctx, username)
	if err != nil {
		return nil, err
	}
	var out []core.Budget
	for _, b := range all {
		if b.Month == month {
			out = append(out, b)
		}
	}
	return out, nil
}

// AllBudgets implements store.BudgetStore.
func (s *Store) AllBudgets(ctx context.Context, username string) ([]core.Budget, error) {
	s.budgetsMu.Lock()
	defer s.budgetsMu.Unlock()

	rows, err := s.readAll(budgetsFile, len(budgetsHeader))
	if err != nil {
		return nil, err
	}

	var out []core.Budget
	for i, row := range rows {
		if row[0] != username {
			continue
		}
		month, err := core.ParseMonth(row[2])
		if err != nil {
			return nil, fmt.Errorf("budgets.csv row %d: %w", i+2, err)
		}
		cents, err := core.ParseDecimalToCents(row[3])
		if err != nil {
			return nil, fmt.Errorf("budgets.csv row %d: %w", i+2, err)
		}
		out = append(out, core.Budget{
			Username:  row[0],
			Category:  row[1],
			Month:     month,
			Threshold: core.Money{Cents: cents},
		})
	}
	return out, nil
}
