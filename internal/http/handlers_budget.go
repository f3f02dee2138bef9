package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

// handleSetBudget creates or replaces a per-category monthly budget.
func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	username, _ := auth.UserFrom(r.Context())

	category := sanitizeInput(r.Form.Get("category"))
	monthStr := sanitizeInput(r.Form.Get("month"))
	amountStr := sanitizeInput(r.Form.Get("threshold"))

	month, err := core.ParseMonth(monthStr)
	if err != nil {
		UnprocessableEntityError("Invalid month, expected YYYY-MM").Write(w)
		return
	}
	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		UnprocessableEntityError("Invalid budget amount").Write(w)
		return
	}

	b := core.Budget{
		Username:  username,
		Category:  category,
		Month:     month,
		Threshold: core.Money{Cents: cents},
	}
	if err := s.tracker.SetBudget(r.Context(), b); err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidCategory):
			UnprocessableEntityError("Unknown category: " + category).Write(w)
		case errors.Is(err, core.ErrInvalidAmount):
			UnprocessableEntityError("Budget must be positive").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Set budget error",
				"error", err, "username", username, "category", category, "month", month.String())
			InternalServerError("Could not save the budget").Write(w)
		}
		return
	}

	NewHTMXResponse().
		TriggerBudgetChanged(month.String()).
		TriggerFormReset().
		BodyHTML(`<div class="success">Budget for ` + template.HTMLEscapeString(category) +
			` (` + month.String() + `) set to ` + formatAmount(cents) + `</div>`).
		Write(w)
}

// handleRemoveBudget deletes a budget row.
func (s *Server) handleRemoveBudget(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	username, _ := auth.UserFrom(r.Context())

	category := parser.Get("category")
	month, err := core.ParseMonth(parser.Get("month"))
	if err != nil {
		UnprocessableEntityError("Invalid month, expected YYYY-MM").Write(w)
		return
	}

	if err := s.tracker.RemoveBudget(r.Context(), username, category, month); err != nil {
		if errors.Is(err, core.ErrBudgetNotFound) {
			NotFoundError("No budget for " + category + " in " + month.String()).Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Remove budget error",
			"error", err, "username", username, "category", category, "month", month.String())
		InternalServerError("Could not remove the budget").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerBudgetChanged(month.String()).
		BodyHTML(`<div class="success">Removed budget for ` + template.HTMLEscapeString(category) +
			` (` + month.String() + `)</div>`).
		Write(w)
}
