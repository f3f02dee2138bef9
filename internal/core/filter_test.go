package core

import "testing"

func sampleExpenses() []Expense {
	return []Expense{
		{ID: "1", Username: "alice", Date: NewDate(2024, 1, 5), Category: "Food", Amount: Money{Cents: 2000}},
		{ID: "2", Username: "alice", Date: NewDate(2024, 2, 10), Category: "Food", Amount: Money{Cents: 1500}},
		{ID: "3", Username: "alice", Date: NewDate(2024, 2, 15), Category: "Transport", Amount: Money{Cents: 3000}},
	}
}

func TestFilterByCategory(t *testing.T) {
	got := Filter{Categories: []string{"Food"}}.Apply(sampleExpenses())
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	var sum int64
	for _, e := range got {
		sum += e.Amount.Cents
	}
	if sum != 3500 {
		t.Fatalf("expected sum 3500, got %d", sum)
	}
}

func TestFilterDateRangeInclusive(t *testing.T) {
	f := Filter{From: NewDate(2024, 2, 10), To: NewDate(2024, 2, 15)}
	got := f.Apply(sampleExpenses())
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	// Both boundary dates must be included
	if got[0].ID != "2" || got[1].ID != "3" {
		t.Fatalf("unexpected rows %v", got)
	}
}

func TestFilterAmountRange(t *testing.T) {
	min := int64(1500)
	max := int64(2000)
	got := Filter{MinCents: &min, MaxCents: &max}.Apply(sampleExpenses())
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	for _, e := range got {
		if e.Amount.Cents < min || e.Amount.Cents > max {
			t.Fatalf("row %s out of range", e.ID)
		}
	}
}

func TestFilterConjunctive(t *testing.T) {
	min := int64(1000)
	f := Filter{
		From:       NewDate(2024, 2, 1),
		To:         NewDate(2024, 2, 28),
		Categories: []string{"Food"},
		MinCents:   &min,
	}
	got := f.Apply(sampleExpenses())
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected only row 2, got %v", got)
	}
}

func TestFilterEmptyMatchesAll(t *testing.T) {
	got := Filter{}.Apply(sampleExpenses())
	if len(got) != 3 {
		t.Fatalf("expected all rows, got %d", len(got))
	}
	// Sorted by date ascending
	for i := 1; i < len(got); i++ {
		if got[i].Date.Before(got[i-1].Date.Time) {
			t.Fatalf("rows not sorted by date")
		}
	}
}
