// Package csvstore persists users, expenses, categories and budgets as flat
// CSV files, one file per concern. Every file carries a fixed header row.
// Writes rewrite the whole file through a temp file + rename so a crashed
// write never leaves a half-written table behind. A single mutex per store
// serializes access; concurrent processes on the same directory are
// unsupported.
package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	applog "fintrack/internal/log"
)

const (
	usersFile      = "users.csv"
	expensesFile   = "expenses.csv"
	categoriesFile = "categories.csv"
	budgetsFile    = "budgets.csv"
)

// Store implements the store ports over CSV files in a single directory.
type Store struct {
	dir    string
	logger *applog.Logger

	usersMu      sync.Mutex
	expensesMu   sync.Mutex
	categoriesMu sync.Mutex
	budgetsMu    sync.Mutex
}

// Open prepares a CSV store rooted at dir, creating the directory and any
// missing table files (header-only) on first use.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	cfg := applog.DefaultConfig()
	cfg.Component = applog.ComponentStorage
	s := &Store{dir: dir, logger: applog.New(cfg)}
	for file, header := range map[string][]string{
		usersFile:      usersHeader,
		expensesFile:   expensesHeader,
		categoriesFile: categoriesHeader,
		budgetsFile:    budgetsHeader,
	} {
		if err := s.ensureFile(file, header); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) path(file string) string {
	return filepath.Join(s.dir, file)
}

func (s *Store) ensureFile(file string, header []string) error {
	p := s.path(file)
	if _, err := os.Stat(p); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", file, err)
	}
	return s.writeAll(file, header, nil)
}

// readAll returns the data rows of file, header excluded.
func (s *Store) readAll(file string, wantCols int) ([][]string, error) {
	f, err := os.Open(s.path(file))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = wantCols
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

// writeAll atomically replaces file with header plus rows.
func (s *Store) writeAll(file string, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(s.dir, file+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", file, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s header: %w", file, err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s rows: %w", file, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", file, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp for %s: %w", file, err)
	}
	if err := os.Rename(tmpName, s.path(file)); err != nil {
		return fmt.Errorf("replace %s: %w", file, err)
	}
	return nil
}

// appendRow appends a single data row without rewriting the table.
func (s *Store) appendRow(file string, row []string) error {
	f, err := os.OpenFile(s.path(file), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", file, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("append to %s: %w", file, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", file, err)
	}
	return nil
}
