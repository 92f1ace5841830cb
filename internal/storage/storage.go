package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"reqwestur/internal/model"
)

const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"

	// Secure permissions - owner only
	secureFileMode = 0600 // -rw-------
	secureDirMode  = 0700 // drwx------
)

// Storage persists the application state as a single blob under model.StateKey.
// The TLS identity is never written.
type Storage interface {
	LoadState() (*model.AppState, error)
	SaveState(state *model.AppState) error
	Close() error
}

// Open creates the data directory and the requested backend
func Open(dataDir, backend string, logger *zap.Logger) (Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dataDir, secureDirMode); err != nil {
		return nil, err
	}

	switch backend {
	case "", BackendSQLite:
		return NewSQLiteStorage(dataDir, logger)
	case BackendJSON:
		return NewJSONStorage(dataDir)
	}
	return nil, fmt.Errorf("unknown storage backend: %q", backend)
}

func encodeState(state *model.AppState) ([]byte, error) {
	return json.Marshal(state)
}

// decodeState parses a stored blob, filling in defaults for missing fields
func decodeState(data []byte) (*model.AppState, error) {
	state := model.DefaultAppState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	state.Normalize()
	return state, nil
}
