// Package backend selects and wires a storage implementation from
// configuration. The CSV backend keeps flat files in a data directory,
// the SQLite backend keeps everything in one database file.
package backend

import (
	"fmt"

	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/store"
	"fintrack/internal/store/csvstore"
	"fintrack/internal/store/sqlite"
)

// Type represents the kind of storage backend
type Type string

const (
	CSVBackend    Type = "csv"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case CSVBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the wired stores and optional cleanup function
type Result struct {
	Stores  store.Stores
	Cleanup CleanupFunc
}

// Factory creates storage backends from configuration
type Factory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) *Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Factory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// Create builds the backend named by cfg.DataBackend
func (f *Factory) Create(cfg *config.Config) (*Result, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}

	switch t {
	case SQLiteBackend:
		return f.createSQLite(cfg)
	default:
		return f.createCSV(cfg)
	}
}

func (f *Factory) createCSV(cfg *config.Config) (*Result, error) {
	s, err := csvstore.Open(cfg.CSVDataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize CSV store: %w", err)
	}

	f.logger.Info("Initialized CSV backend", "data_directory", cfg.CSVDataDir)

	return &Result{
		Stores: store.Stores{
			Users:      s,
			Expenses:   s,
			Categories: s,
			Budgets:    s,
		},
		Cleanup: nil,
	}, nil
}

func (f *Factory) createSQLite(cfg *config.Config) (*Result, error) {
	repo, err := sqlite.Open(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)

	return &Result{
		Stores: store.Stores{
			Users:      repo,
			Expenses:   repo,
			Categories: repo,
			Budgets:    repo,
		},
		Cleanup: repo.Close,
	}, nil
}
