// Package report computes dashboard aggregates over a user's expenses.
// Everything here is a pure function of its inputs: nothing is persisted,
// views are recomputed on each request.
package report

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

type (
	// CategoryAmount is an amount aggregated by category name.
	CategoryAmount struct {
		Name   string
		Amount core.Money
	}

	// BucketAmount is an amount aggregated by an ordered bucket label
	// (a month, a day, a weekday).
	BucketAmount struct {
		Label  string
		Amount core.Money
	}

	// Overview is a compact summary of a filtered expense set.
	Overview struct {
		Total       core.Money
		Count       int
		ActiveDays  int
		AvgPerDay   core.Money
		TopCategory string
		ByCategory  []CategoryAmount
	}

	// MonthComparison holds this-month vs previous-month totals.
	MonthComparison struct {
		Current       core.Month
		Previous      core.Month
		CurrentTotal  core.Money
		PreviousTotal core.Money
	}
)

// Weekday labels in Monday-first order, the order day-wise charts use.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// SumByCategory groups expenses by category, sorted by amount descending.
func SumByCategory(expenses []core.Expense) []CategoryAmount {
	sums := make(map[string]int64)
	for _, e := range expenses {
		sums[e.Category] += e.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, cents := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SumByMonth groups expenses into YYYY-MM buckets in chronological order.
func SumByMonth(expenses []core.Expense) []BucketAmount {
	return sumByLabel(expenses, func(e core.Expense) string {
		return e.Date.MonthOf().String()
	})
}

// SumByDay groups expenses into YYYY-MM-DD buckets in chronological order.
func SumByDay(expenses []core.Expense) []BucketAmount {
	return sumByLabel(expenses, func(e core.Expense) string {
		return e.Date.String()
	})
}

func sumByLabel(expenses []core.Expense, label func(core.Expense) string) []BucketAmount {
	sums := make(map[string]int64)
	for _, e := range expenses {
		sums[label(e)] += e.Amount.Cents
	}
	out := make([]BucketAmount, 0, len(sums))
	for l, cents := range sums {
		out = append(out, BucketAmount{Label: l, Amount: core.Money{Cents: cents}})
	}
	// Labels are zero-padded dates, so the lexical order is chronological.
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// SumByWeekday groups expenses by day of week, Monday first. Every weekday
// appears in the result even when its sum is zero.
func SumByWeekday(expenses []core.Expense) []BucketAmount {
	sums := make(map[time.Weekday]int64)
	for _, e := range expenses {
		sums[e.Date.Weekday()] += e.Amount.Cents
	}
	out := make([]BucketAmount, 0, len(weekdayOrder))
	for _, wd := range weekdayOrder {
		out = append(out, BucketAmount{Label: wd.String(), Amount: core.Money{Cents: sums[wd]}})
	}
	return out
}

// Summarize computes the overview metrics for a filtered expense set.
func Summarize(expenses []core.Expense) Overview {
	ov := Overview{ByCategory: SumByCategory(expenses)}
	days := make(map[string]struct{})
	for _, e := range expenses {
		ov.Total.Cents += e.Amount.Cents
		ov.Count++
		days[e.Date.String()] = struct{}{}
	}
	ov.ActiveDays = len(days)
	if ov.ActiveDays > 0 {
		ov.AvgPerDay = core.Money{Cents: ov.Total.Cents / int64(ov.ActiveDays)}
	}
	if len(ov.ByCategory) > 0 {
		ov.TopCategory = ov.ByCategory[0].Name
	}
	return ov
}

// TopExpenses returns the n largest expenses by amount descending.
func TopExpenses(expenses []core.Expense, n int) []core.Expense {
	out := append([]core.Expense(nil), expenses...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// CompareMonths totals expenses for cur and the month before it.
func CompareMonths(expenses []core.Expense, cur core.Month) MonthComparison {
	cmp := MonthComparison{Current: cur, Previous: cur.Previous()}
	for _, e := range expenses {
		switch {
		case cmp.Current.Contains(e.Date):
			cmp.CurrentTotal.Cents += e.Amount.Cents
		case cmp.Previous.Contains(e.Date):
			cmp.PreviousTotal.Cents += e.Amount.Cents
		}
	}
	return cmp
}
