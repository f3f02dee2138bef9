package core

import "sort"

// Filter selects a subset of a user's expenses. All criteria are optional and
// conjunctive: a zero From/To means no bound on that side, an empty Categories
// set matches every category, nil amount bounds match every amount.
type Filter struct {
	From       Date
	To         Date
	Categories []string
	MinCents   *int64
	MaxCents   *int64
}

// Matches reports whether e satisfies every set criterion.
// Date bounds are inclusive on both ends.
func (f Filter) Matches(e Expense) bool {
	if !f.From.IsZero() && e.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To.Time) {
		return false
	}
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if c == e.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MinCents != nil && e.Amount.Cents < *f.MinCents {
		return false
	}
	if f.MaxCents != nil && e.Amount.Cents > *f.MaxCents {
		return false
	}
	return true
}

// Apply returns the expenses matching f, sorted by date ascending.
// The input slice is not modified.
func (f Filter) Apply(expenses []Expense) []Expense {
	var out []Expense
	for _, e := range expenses {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}
