// Package auth implements signup, login and session handling.
// Passwords are stored as bcrypt hashes; the session identity travels in a
// signed JWT carried by an HTTP-only cookie.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

const minPasswordLen = 6

// Service validates credentials against the user store.
type Service struct {
	users      store.UserStore
	bcryptCost int
}

func NewService(users store.UserStore, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{users: users, bcryptCost: bcryptCost}
}

// SignUp creates a new user with a hashed password. Returns
// core.ErrDuplicateUser when the username is taken.
func (s *Service) SignUp(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if err := core.ValidateUsername(username); err != nil {
		return err
	}
	if len(password) < minPasswordLen {
		return core.ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.CreateUser(ctx, core.User{Username: username, PasswordHash: string(hash)}); err != nil {
		return err
	}
	slog.InfoContext(ctx, "User signed up", "username", username)
	return nil
}

// LogIn verifies credentials and returns the authenticated username.
// Unknown users and hash mismatches both return core.ErrInvalidCredentials
// so callers cannot probe for existing usernames.
func (s *Service) LogIn(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	u, err := s.users.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrUnknownUser) {
			return "", core.ErrInvalidCredentials
		}
		return "", fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", core.ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "User logged in", "username", username)
	return u.Username, nil
}
