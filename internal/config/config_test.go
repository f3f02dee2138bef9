package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid csv backend config",
			config: Config{
				Port:          "8081",
				DataBackend:   "csv",
				CSVDataDir:    "./data",
				SessionSecret: testSecret,
				SessionTTL:    24 * time.Hour,
				BcryptCost:    10,
			},
			wantErr: false,
		},
		{
			name: "valid sqlite backend config",
			config: Config{
				Port:          "8081",
				DataBackend:   "sqlite",
				SQLiteDBPath:  "./test.db",
				SessionSecret: testSecret,
				SessionTTL:    24 * time.Hour,
				BcryptCost:    10,
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:          "abc",
				DataBackend:   "csv",
				CSVDataDir:    "./data",
				SessionSecret: testSecret,
				SessionTTL:    24 * time.Hour,
				BcryptCost:    10,
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range",
			config: Config{
				Port:          "70000",
				DataBackend:   "csv",
				CSVDataDir:    "./data",
				SessionSecret: testSecret,
				SessionTTL:    24 * time.Hour,
				BcryptCost:    10,
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "invalid data backend",
			config: Config{
				Port:          "8080",
				DataBackend:   "postgres",
				SessionSecret: testSecret,
				SessionTTL:    24 * time.Hour,
				BcryptCost:    10,
			},
			wantErr:     true,
			errorString: "invalid data backend 'postgres': must be one of [csv sqlite]",
		},
		{
			name: "csv backend missing data dir",
			config: Config{
				Port:          "8080",
				DataBackend:   "csv",
				CSVDataDir:    "",
				SessionSecret: testSecret,
				SessionTTL:    24 * time.Hour,
				BcryptCost:    10,
			},
			wantErr:     true,
			errorString: "CSV data directory cannot be empty when using csv backend",
		},
		{
			name: "sqlite backend missing database path",
			config: Config{
				Port:          "8080",
				DataBackend:   "sqlite",
				SQLiteDBPath:  "",
				SessionSecret: testSecret,
				SessionTTL:    24 * time.Hour,
				BcryptCost:    10,
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name: "missing session secret",
			config: Config{
				Port:        "8080",
				DataBackend: "csv",
				CSVDataDir:  "./data",
				SessionTTL:  24 * time.Hour,
				BcryptCost:  10,
			},
			wantErr:     true,
			errorString: "SESSION_SECRET must be set",
		},
		{
			name: "session secret too short",
			config: Config{
				Port:          "8080",
				DataBackend:   "csv",
				CSVDataDir:    "./data",
				SessionSecret: "short",
				SessionTTL:    24 * time.Hour,
				BcryptCost:    10,
			},
			wantErr:     true,
			errorString: "session secret too short (5 chars): must be at least 32",
		},
		{
			name: "session TTL too short",
			config: Config{
				Port:          "8080",
				DataBackend:   "csv",
				CSVDataDir:    "./data",
				SessionSecret: testSecret,
				SessionTTL:    30 * time.Second,
				BcryptCost:    10,
			},
			wantErr:     true,
			errorString: "invalid session TTL 30s: must be at least 1 minute",
		},
		{
			name: "session TTL too long",
			config: Config{
				Port:          "8080",
				DataBackend:   "csv",
				CSVDataDir:    "./data",
				SessionSecret: testSecret,
				SessionTTL:    31 * 24 * time.Hour,
				BcryptCost:    10,
			},
			wantErr:     true,
			errorString: "must be at most 720 hours",
		},
		{
			name: "invalid bcrypt cost",
			config: Config{
				Port:          "8080",
				DataBackend:   "csv",
				CSVDataDir:    "./data",
				SessionSecret: testSecret,
				SessionTTL:    24 * time.Hour,
				BcryptCost:    99,
			},
			wantErr:     true,
			errorString: "invalid bcrypt cost 99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalVars := map[string]string{
		"PORT":           os.Getenv("PORT"),
		"DATA_BACKEND":   os.Getenv("DATA_BACKEND"),
		"CSV_DATA_DIR":   os.Getenv("CSV_DATA_DIR"),
		"SQLITE_DB_PATH": os.Getenv("SQLITE_DB_PATH"),
		"SESSION_SECRET": os.Getenv("SESSION_SECRET"),
		"SESSION_TTL":    os.Getenv("SESSION_TTL"),
		"BCRYPT_COST":    os.Getenv("BCRYPT_COST"),
	}

	// Clean environment
	for key := range originalVars {
		os.Unsetenv(key)
	}

	// Restore env vars at end of test
	defer func() {
		for key, value := range originalVars {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.DataBackend != "csv" {
			t.Errorf("Load() DataBackend = %v, want csv", cfg.DataBackend)
		}
		if cfg.CSVDataDir != "./data" {
			t.Errorf("Load() CSVDataDir = %v, want ./data", cfg.CSVDataDir)
		}
		if cfg.SQLiteDBPath != "./data/fintrack.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/fintrack.db", cfg.SQLiteDBPath)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Errorf("Load() SessionTTL = %v, want 24h", cfg.SessionTTL)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("DATA_BACKEND", "sqlite")
		os.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		os.Setenv("SESSION_SECRET", testSecret)
		os.Setenv("SESSION_TTL", "45m")
		os.Setenv("BCRYPT_COST", "12")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.SessionSecret != testSecret {
			t.Errorf("Load() SessionSecret = %v, want test secret", cfg.SessionSecret)
		}
		if cfg.SessionTTL != 45*time.Minute {
			t.Errorf("Load() SessionTTL = %v, want 45m", cfg.SessionTTL)
		}
		if cfg.BcryptCost != 12 {
			t.Errorf("Load() BcryptCost = %v, want 12", cfg.BcryptCost)
		}
	})
}
