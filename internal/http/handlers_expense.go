package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

const maxImportSize = 5 << 20 // 5 MiB upload cap

// handleCreateExpense records a single expense from the entry form.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	username, _ := auth.UserFrom(r.Context())

	dateStr := sanitizeInput(r.Form.Get("date"))
	category := sanitizeInput(r.Form.Get("category"))
	amountStr := sanitizeInput(r.Form.Get("amount"))
	note := sanitizeInput(r.Form.Get("note"))

	date := core.NewDate(time.Now().Year(), int(time.Now().Month()), time.Now().Day())
	if dateStr != "" {
		parsed, err := core.ParseDate(dateStr)
		if err != nil {
			UnprocessableEntityError("Invalid date, expected YYYY-MM-DD").Write(w)
			return
		}
		date = parsed
	}

	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		UnprocessableEntityError("Invalid amount").Write(w)
		return
	}

	exp := core.Expense{
		Username: username,
		Date:     date,
		Category: category,
		Amount:   core.Money{Cents: cents},
		Note:     note,
	}

	id, warning, err := s.tracker.AddExpense(r.Context(), exp)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidCategory):
			UnprocessableEntityError("Unknown category: " + category).Write(w)
		case errors.Is(err, core.ErrInvalidAmount):
			UnprocessableEntityError("Amount must be positive").Write(w)
		case errors.Is(err, core.ErrInvalidDate), errors.Is(err, core.ErrNoteTooLong):
			UnprocessableEntityError("Invalid expense data").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Expense append error",
				"error", err, "username", username, "amount_cents", cents)
			InternalServerError("Could not save the expense").Write(w)
		}
		return
	}

	s.invalidateUser(username)

	resp := NewHTMXResponse().
		TriggerExpenseCreated(date.MonthOf().String()).
		TriggerFormReset().
		BodyHTML(`<div class="success">Saved ` + template.HTMLEscapeString(category) +
			` ` + formatAmount(cents) + ` (#` + template.HTMLEscapeString(id) + `)</div>`)

	if warning != nil && warning.Exceeded {
		resp.TriggerWarningNotification("Budget exceeded for " + warning.Category +
			" (" + warning.Month.String() + "): spent " + formatAmount(warning.Spent.Cents) +
			" of " + formatAmount(warning.Threshold.Cents))
	}
	resp.Write(w)
}

// handleImportExpenses performs a bulk CSV upload. Bad rows are skipped,
// the summary reports how many made it in.
func (s *Server) handleImportExpenses(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	username, _ := auth.UserFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		BadRequestError("Upload too large or malformed").Write(w)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		BadRequestError("Missing CSV file").Write(w)
		return
	}
	defer file.Close()

	res, err := s.tracker.Import(r.Context(), username, file)
	if err != nil {
		slog.ErrorContext(r.Context(), "Bulk import failed", "error", err, "username", username)
		UnprocessableEntityError("Could not read the CSV: " + err.Error()).Write(w)
		return
	}

	if res.Imported > 0 {
		s.invalidateUser(username)
	}

	body := `<div class="success">Imported ` + strconv.Itoa(res.Imported) + ` expenses`
	if res.Skipped > 0 {
		body += `, skipped ` + strconv.Itoa(res.Skipped) + ` invalid rows`
	}
	body += `</div>`

	NewHTMXResponse().
		TriggerImportFinished(res.Imported, res.Skipped).
		TriggerExpenseCreated(""). // refresh all month views
		BodyHTML(body).
		Write(w)
}
