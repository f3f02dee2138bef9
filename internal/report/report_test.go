package report

import (
	"testing"

	"fintrack/internal/core"
)

func exp(date core.Date, category string, cents int64) core.Expense {
	return core.Expense{Username: "alice", Date: date, Category: category, Amount: core.Money{Cents: cents}}
}

func TestSumByCategory(t *testing.T) {
	// The worked example: Food 20 + 15, Transport 30
	expenses := []core.Expense{
		exp(core.NewDate(2024, 1, 5), "Food", 2000),
		exp(core.NewDate(2024, 2, 10), "Food", 1500),
		exp(core.NewDate(2024, 2, 15), "Transport", 3000),
	}
	got := SumByCategory(expenses)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].Name != "Food" || got[0].Amount.Cents != 3500 {
		t.Fatalf("expected Food=3500 first, got %+v", got[0])
	}
	if got[1].Name != "Transport" || got[1].Amount.Cents != 3000 {
		t.Fatalf("expected Transport=3000, got %+v", got[1])
	}
}

func TestSumByMonth(t *testing.T) {
	expenses := []core.Expense{
		exp(core.NewDate(2024, 1, 5), "Food", 2000),
		exp(core.NewDate(2024, 2, 10), "Food", 1500),
		exp(core.NewDate(2024, 2, 15), "Transport", 3000),
	}
	got := SumByMonth(expenses)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if got[0].Label != "2024-01" || got[0].Amount.Cents != 2000 {
		t.Fatalf("unexpected first bucket %+v", got[0])
	}
	if got[1].Label != "2024-02" || got[1].Amount.Cents != 4500 {
		t.Fatalf("unexpected second bucket %+v", got[1])
	}
}

func TestSumByDay(t *testing.T) {
	expenses := []core.Expense{
		exp(core.NewDate(2024, 2, 10), "Food", 100),
		exp(core.NewDate(2024, 2, 10), "Transport", 200),
		exp(core.NewDate(2024, 2, 11), "Food", 300),
	}
	got := SumByDay(expenses)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if got[0].Label != "2024-02-10" || got[0].Amount.Cents != 300 {
		t.Fatalf("unexpected bucket %+v", got[0])
	}
}

func TestSumByWeekdayMondayFirst(t *testing.T) {
	// 2024-02-12 is a Monday, 2024-02-18 a Sunday
	expenses := []core.Expense{
		exp(core.NewDate(2024, 2, 12), "Food", 100),
		exp(core.NewDate(2024, 2, 18), "Food", 700),
	}
	got := SumByWeekday(expenses)
	if len(got) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(got))
	}
	if got[0].Label != "Monday" || got[0].Amount.Cents != 100 {
		t.Fatalf("unexpected Monday bucket %+v", got[0])
	}
	if got[6].Label != "Sunday" || got[6].Amount.Cents != 700 {
		t.Fatalf("unexpected Sunday bucket %+v", got[6])
	}
	if got[3].Amount.Cents != 0 {
		t.Fatalf("empty weekday should sum to zero, got %+v", got[3])
	}
}

func TestSummarize(t *testing.T) {
	expenses := []core.Expense{
		exp(core.NewDate(2024, 2, 10), "Food", 1000),
		exp(core.NewDate(2024, 2, 10), "Food", 2000),
		exp(core.NewDate(2024, 2, 12), "Transport", 3000),
	}
	ov := Summarize(expenses)
	if ov.Total.Cents != 6000 || ov.Count != 3 {
		t.Fatalf("unexpected totals %+v", ov)
	}
	if ov.ActiveDays != 2 || ov.AvgPerDay.Cents != 3000 {
		t.Fatalf("unexpected day stats %+v", ov)
	}
	if ov.TopCategory != "Food" {
		t.Fatalf("expected Food as top category, got %s", ov.TopCategory)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	ov := Summarize(nil)
	if ov.Total.Cents != 0 || ov.Count != 0 || ov.AvgPerDay.Cents != 0 || ov.TopCategory != "" {
		t.Fatalf("unexpected empty overview %+v", ov)
	}
}

func TestTopExpenses(t *testing.T) {
	expenses := []core.Expense{
		exp(core.NewDate(2024, 2, 10), "Food", 100),
		exp(core.NewDate(2024, 2, 11), "Food", 300),
		exp(core.NewDate(2024, 2, 12), "Food", 200),
	}
	got := TopExpenses(expenses, 2)
	if len(got) != 2 || got[0].Amount.Cents != 300 || got[1].Amount.Cents != 200 {
		t.Fatalf("unexpected top expenses %v", got)
	}
}

func TestCompareMonths(t *testing.T) {
	expenses := []core.Expense{
		exp(core.NewDate(2024, 1, 20), "Food", 1000),
		exp(core.NewDate(2024, 2, 10), "Food", 2500),
		exp(core.NewDate(2023, 12, 1), "Food", 9999), // outside both months
	}
	cmp := CompareMonths(expenses, core.NewMonth(2024, 2))
	if cmp.CurrentTotal.Cents != 2500 {
		t.Fatalf("current total mismatch: %d", cmp.CurrentTotal.Cents)
	}
	if cmp.PreviousTotal.Cents != 1000 {
		t.Fatalf("previous total mismatch: %d", cmp.PreviousTotal.Cents)
	}
}

func TestCheckBudgets(t *testing.T) {
	month := core.NewMonth(2024, 2)
	expenses := []core.Expense{
		exp(core.NewDate(2024, 2, 10), "Food", 1500),
		exp(core.NewDate(2024, 1, 5), "Food", 2000), // other month, ignored
	}

	under := core.Budget{Username: "alice", Category: "Food", Month: month, Threshold: core.Money{Cents: 5000}}
	over := core.Budget{Username: "alice", Category: "Food", Month: month, Threshold: core.Money{Cents: 1000}}
	exact := core.Budget{Username: "alice", Category: "Food", Month: month, Threshold: core.Money{Cents: 1500}}

	got := CheckBudgets(expenses, []core.Budget{under, over, exact})
	if len(got) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(got))
	}
	if got[0].Exceeded {
		t.Fatalf("threshold 50 with spend 15 must not be exceeded")
	}
	if !got[1].Exceeded {
		t.Fatalf("threshold 10 with spend 15 must be exceeded")
	}
	if got[2].Exceeded {
		t.Fatalf("spend equal to threshold must not be exceeded")
	}
	if got[0].Spent.Cents != 1500 {
		t.Fatalf("spent mismatch: %d", got[0].Spent.Cents)
	}
	if got[1].Percent != 100 {
		t.Fatalf("overrun percent should cap at 100, got %d", got[1].Percent)
	}
	if got[0].Percent != 30 {
		t.Fatalf("percent mismatch: %d", got[0].Percent)
	}
}
