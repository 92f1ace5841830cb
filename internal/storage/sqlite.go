package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"reqwestur/internal/model"

	_ "modernc.org/sqlite"
)

const dbFile = "reqwestur.db"

// ensureSecureFile creates a file with secure permissions if it doesn't exist,
// or verifies/fixes permissions if it does exist. This prevents a TOCTOU race
// condition where the file could be created with insecure default permissions.
func ensureSecureFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		// File doesn't exist - create it with secure permissions
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, secureFileMode)
		if err != nil {
			return fmt.Errorf("failed to create secure file: %w", err)
		}
		f.Close()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	// File exists - check and fix permissions if needed
	if info.Mode().Perm() != secureFileMode {
		if err := os.Chmod(path, secureFileMode); err != nil {
			return fmt.Errorf("failed to set secure permissions: %w", err)
		}
	}
	return nil
}

// SQLiteStorage handles SQLite database persistence
type SQLiteStorage struct {
	db      *sql.DB
	dataDir string
	logger  *zap.Logger
}

// NewSQLiteStorage opens (or creates) the database in dataDir
func NewSQLiteStorage(dataDir string, logger *zap.Logger) (*SQLiteStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dataDir, secureDirMode); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// Create database file with secure permissions if it doesn't exist
	// This avoids a race condition where the file is created with default
	// permissions and then chmod'd afterward
	if err := ensureSecureFile(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &SQLiteStorage{db: db, dataDir: dataDir, logger: logger}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	// Migration errors shouldn't prevent startup
	if err := s.migrateFromJSON(); err != nil {
		logger.Warn("state migration from JSON failed", zap.Error(err))
	}

	return s, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// initSchema creates the database tables if they don't exist
func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// LoadState loads the application state stored under model.StateKey
func (s *SQLiteStorage) LoadState() (*model.AppState, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM app_state WHERE key = ?", model.StateKey).Scan(&value)
	if err == sql.ErrNoRows {
		return model.DefaultAppState(), nil
	}
	if err != nil {
		return nil, err
	}
	return decodeState([]byte(value))
}

// SaveState replaces the stored application state
func (s *SQLiteStorage) SaveState(state *model.AppState) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		model.StateKey, string(data), time.Now().UTC())
	return err
}

// migrateFromJSON imports state.json left by the JSON backend if the database is empty
func (s *SQLiteStorage) migrateFromJSON() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM app_state").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil // Already has data, skip migration
	}

	statePath := filepath.Join(s.dataDir, stateFile)
	data, err := os.ReadFile(statePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	state, err := decodeState(data)
	if err != nil {
		return err
	}
	if err := s.SaveState(state); err != nil {
		return err
	}

	s.logger.Info("migrated state from JSON", zap.String("file", statePath))
	return os.Rename(statePath, statePath+".migrated")
}
