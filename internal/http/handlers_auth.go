package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
)

type loginPageData struct {
	Mode  string // "login" or "signup"
	Error string
}

func (s *Server) renderLoginPage(w http.ResponseWriter, r *http.Request, data loginPageData, status int) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Login template execution failed", "error", err)
	}
}

// handleLogin renders the login form and authenticates credentials.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderLoginPage(w, r, loginPageData{Mode: "login"}, http.StatusOK)
	case http.MethodPost:
		if resp := ParseFormOrFail(r); resp != nil {
			resp.Write(w)
			return
		}
		username := sanitizeInput(r.Form.Get("username"))
		password := r.Form.Get("password")

		authed, err := s.authSvc.LogIn(r.Context(), username, password)
		if err != nil {
			if errors.Is(err, core.ErrInvalidCredentials) {
				s.renderLoginPage(w, r, loginPageData{Mode: "login", Error: "Invalid username or password"}, http.StatusUnauthorized)
				return
			}
			slog.ErrorContext(r.Context(), "Login error", "error", err)
			s.renderLoginPage(w, r, loginPageData{Mode: "login", Error: "Something went wrong, try again"}, http.StatusInternalServerError)
			return
		}

		token, err := s.sessions.Issue(authed)
		if err != nil {
			slog.ErrorContext(r.Context(), "Session issue error", "error", err, "username", authed)
			s.renderLoginPage(w, r, loginPageData{Mode: "login", Error: "Something went wrong, try again"}, http.StatusInternalServerError)
			return
		}
		s.sessions.SetCookie(w, token)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleSignup renders the signup form and registers new users. A
// successful signup logs the user straight in.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderLoginPage(w, r, loginPageData{Mode: "signup"}, http.StatusOK)
	case http.MethodPost:
		if resp := ParseFormOrFail(r); resp != nil {
			resp.Write(w)
			return
		}
		username := sanitizeInput(r.Form.Get("username"))
		password := r.Form.Get("password")

		if err := s.authSvc.SignUp(r.Context(), username, password); err != nil {
			msg := "Something went wrong, try again"
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, core.ErrDuplicateUser):
				msg = "That username is already taken"
				status = http.StatusConflict
			case errors.Is(err, core.ErrInvalidUsername):
				msg = "Usernames must be 1-64 characters without commas"
				status = http.StatusUnprocessableEntity
			case errors.Is(err, core.ErrInvalidPassword):
				msg = "Passwords must be at least 6 characters"
				status = http.StatusUnprocessableEntity
			default:
				slog.ErrorContext(r.Context(), "Signup error", "error", err)
			}
			s.renderLoginPage(w, r, loginPageData{Mode: "signup", Error: msg}, status)
			return
		}

		token, err := s.sessions.Issue(username)
		if err != nil {
			slog.ErrorContext(r.Context(), "Session issue error", "error", err, "username", username)
			s.renderLoginPage(w, r, loginPageData{Mode: "login"}, http.StatusOK)
			return
		}
		s.sessions.SetCookie(w, token)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleLogout clears the session cookie. POST only, so a stray GET (or a
// prefetched link) cannot end the session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.sessions.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
