package report

import (
	"fintrack/internal/core"
)

// BudgetStatus is the derived alert state for one category budget.
type BudgetStatus struct {
	Category  string
	Month     core.Month
	Spent     core.Money
	Threshold core.Money
	Exceeded  bool
	// Percent is spent/threshold capped at 100, for progress bars.
	Percent int
}

// CheckBudgets compares each budget's threshold with the summed spend of the
// same owner/category/month. Spending exactly at the threshold is not an
// overrun: Exceeded means spent > threshold.
func CheckBudgets(expenses []core.Expense, budgets []core.Budget) []BudgetStatus {
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		var spent int64
		for _, e := range expenses {
			if e.Category == b.Category && b.Month.Contains(e.Date) {
				spent += e.Amount.Cents
			}
		}
		st := BudgetStatus{
			Category:  b.Category,
			Month:     b.Month,
			Spent:     core.Money{Cents: spent},
			Threshold: b.Threshold,
			Exceeded:  spent > b.Threshold.Cents,
		}
		if b.Threshold.Cents > 0 {
			st.Percent = int(spent * 100 / b.Threshold.Cents)
			if st.Percent > 100 {
				st.Percent = 100
			}
		}
		out = append(out, st)
	}
	return out
}
