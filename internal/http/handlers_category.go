package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

// handleAddCategory registers a custom category for the current user.
func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	username, _ := auth.UserFrom(r.Context())
	name := sanitizeInput(r.Form.Get("name"))

	if err := s.tracker.AddCategory(r.Context(), username, name); err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateCategory):
			UnprocessableEntityError("Category already exists: " + name).Write(w)
		case errors.Is(err, core.ErrInvalidCategory):
			UnprocessableEntityError("Invalid category name").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Add category error", "error", err, "username", username)
			InternalServerError("Could not save the category").Write(w)
		}
		return
	}

	NewHTMXResponse().
		TriggerCategoryAdded(name).
		TriggerFormReset().
		BodyHTML(`<div class="success">Added category ` + template.HTMLEscapeString(name) + `</div>`).
		Write(w)
}
