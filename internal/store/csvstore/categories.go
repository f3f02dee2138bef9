package csvstore

import (
	"context"

	"fintrack/internal/core"
)

var categoriesHeader = []string{"username", "category"}

// AddCategory implements store.CategoryStore.
func (s *Store) AddCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.categoriesMu.Lock()
	defer s.categoriesMu.Unlock()

	rows, err := s.readAll(categoriesFile, len(categoriesHeader))
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row[0] == c.Username && row[1] == c.Name {
			return core.ErrDuplicateCategory
		}
	}

	if err := s.appendRow(categoriesFile, []string{c.Username, c.Name}); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Category added", "username", c.Username, "category", c.Name)
	return nil
}

// ListCategories implements store.CategoryStore.
func (s *Store) ListCategories(ctx context.Context, username string) ([]string, error) {
	s.categoriesMu.Lock()
	defer s.categoriesMu.Unlock()

	rows, err := s.readAll(categoriesFile, len(categoriesHeader))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, row := range rows {
		if row[0] == username {
			out = append(out, row[1])
		}
	}
	return out, nil
}
