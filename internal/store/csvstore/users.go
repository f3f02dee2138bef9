package csvstore

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
)

var usersHeader = []string{"username", "password_hash", "created_at"}

// CreateUser implements store.UserStore.
func (s *Store) CreateUser(ctx context.Context, u core.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	rows, err := s.readAll(usersFile, len(usersHeader))
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row[0] == u.Username {
			return core.ErrDuplicateUser
		}
	}

	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	if err := s.appendRow(usersFile, []string{u.Username, u.PasswordHash, created.Format(time.RFC3339)}); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "User created", "username", u.Username)
	return nil
}

// GetUser implements store.UserStore.
func (s *Store) GetUser(ctx context.Context, username string) (core.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	rows, err := s.readAll(usersFile, len(usersHeader))
	if err != nil {
		return core.User{}, err
	}
	for _, row := range rows {
		if row[0] != username {
			continue
		}
		created, err := time.Parse(time.RFC3339, row[2])
		if err != nil {
			return core.User{}, fmt.Errorf("parse created_at for %s: %w", username, err)
		}
		return core.User{Username: row[0], PasswordHash: row[1], CreatedAt: created}, nil
	}
	return core.User{}, core.ErrUnknownUser
}
