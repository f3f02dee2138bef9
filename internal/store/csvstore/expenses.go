package csvstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

var expensesHeader = []string{"id", "username", "date", "category", "amount", "note"}

// AppendExpense implements store.ExpenseStore. The expense id is generated
// here; a caller-supplied id is ignored.
func (s *Store) AppendExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	e.ID = uuid.NewString()

	s.expensesMu.Lock()
	defer s.expensesMu.Unlock()

	row := []string{e.ID, e.Username, e.Date.String(), e.Category, e.Amount.Decimal(), e.Note}
	if err := s.appendRow(expensesFile, row); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"username", e.Username,
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String())
	return e.ID, nil
}

// ListExpenses implements store.ExpenseStore.
func (s *Store) ListExpenses(ctx context.Context, username string) ([]core.Expense, error) {
	s.expensesMu.Lock()
	defer s.expensesMu.Unlock()

	rows, err := s.readAll(expensesFile, len(expensesHeader))
	if err != nil {
		return nil, err
	}

	var out []core.Expense
	for i, row := range rows {
		if row[1] != username {
			continue
		}
		e, err := expenseFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("expenses.csv row %d: %w", i+2, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func expenseFromRow(row []string) (core.Expense, error) {
	date, err := core.ParseDate(row[2])
	if err != nil {
		return core.Expense{}, err
	}
	cents, err := core.ParseDecimalToCents(row[4])
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		ID:       row[0],
		Username: row[1],
		Date:     date,
		Category: row[3],
		Amount:   core.Money{Cents: cents},
		Note:     row[5],
	}, nil
}
