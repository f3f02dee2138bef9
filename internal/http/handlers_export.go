package http

import (
	"log/slog"
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/services"
)

// handleExportExpenses streams the user's expenses as a CSV download.
// The same filter parameters as the expense table apply, so the export
// matches what is on screen.
func (s *Server) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	username, _ := auth.UserFrom(r.Context())
	filter := ParseFilterParams(r.URL.Query())

	expenses, err := s.tracker.FilterExpenses(r.Context(), username, filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "Export error", "error", err, "username", username)
		http.Error(w, "could not export expenses", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	if err := services.ExportCSV(w, expenses); err != nil {
		// Headers are gone at this point, just log it
		slog.ErrorContext(r.Context(), "Export write error", "error", err, "username", username)
	}
}

// handleExportBudgets streams all of the user's budgets as a CSV download
// in the storage schema.
func (s *Server) handleExportBudgets(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	username, _ := auth.UserFrom(r.Context())

	budgets, err := s.tracker.AllBudgets(r.Context(), username)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget export error", "error", err, "username", username)
		http.Error(w, "could not export budgets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="budgets.csv"`)
	if err := services.ExportBudgetsCSV(w, budgets); err != nil {
		slog.ErrorContext(r.Context(), "Budget export write error", "error", err, "username", username)
	}
}
