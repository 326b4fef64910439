// Package config resolves runtime settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// StoreKind selects the persistence backend.
type StoreKind string

const (
	StoreSQLite     StoreKind = "sqlite"
	StoreFile       StoreKind = "file"
	StoreReplicated StoreKind = "replicated"
)

func (k StoreKind) Valid() bool {
	switch k {
	case StoreSQLite, StoreFile, StoreReplicated:
		return true
	}
	return false
}

// Config holds runtime settings.
type Config struct {
	DBPath          string
	Store           StoreKind
	FilePath        string
	WorkflowPath    string // optional YAML checklist config
	DayWidth        int
	HistoryLimit    int
	AutosaveMs      int
	LocalQuotaBytes int // 0 disables the quota
	LogUseCases     bool
}

// DefaultConfig returns settings rooted at ~/.planboard.
func DefaultConfig() Config {
	dir := ".planboard"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".planboard")
	}
	return Config{
		DBPath:          filepath.Join(dir, "planboard.db"),
		Store:           StoreSQLite,
		FilePath:        filepath.Join(dir, "board.json"),
		DayWidth:        24,
		HistoryLimit:    80,
		AutosaveMs:      650,
		LocalQuotaBytes: 5 * 1024 * 1024,
	}
}

// LoadConfig returns DefaultConfig with environment overrides applied.
// Invalid values are ignored.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("PLANBOARD_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PLANBOARD_STORE"); v != "" {
		if k := StoreKind(strings.ToLower(strings.TrimSpace(v))); k.Valid() {
			cfg.Store = k
		}
	}
	if v := os.Getenv("PLANBOARD_FILE"); v != "" {
		cfg.FilePath = v
	}
	if v := os.Getenv("PLANBOARD_WORKFLOW"); v != "" {
		cfg.WorkflowPath = v
	}
	if v := os.Getenv("PLANBOARD_DAY_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DayWidth = n
		}
	}
	if v := os.Getenv("PLANBOARD_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryLimit = n
		}
	}
	if v := os.Getenv("PLANBOARD_AUTOSAVE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.AutosaveMs = n
		}
	}
	if v := os.Getenv("PLANBOARD_LOCAL_QUOTA_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.LocalQuotaBytes = n
		}
	}
	if v := os.Getenv("PLANBOARD_LOG_USECASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogUseCases = b
		}
	}

	return cfg
}

// AutosaveDelay is the debounce window for queued project edits.
func (c Config) AutosaveDelay() time.Duration {
	return time.Duration(c.AutosaveMs) * time.Millisecond
}
