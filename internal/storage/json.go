package storage

import (
	"os"
	"path/filepath"

	"reqwestur/internal/model"
)

const stateFile = "state.json"

// JSONStorage handles JSON file persistence
type JSONStorage struct {
	dataDir string
}

// NewJSONStorage creates a JSON storage rooted at dataDir
func NewJSONStorage(dataDir string) (*JSONStorage, error) {
	if err := os.MkdirAll(dataDir, secureDirMode); err != nil {
		return nil, err
	}
	return &JSONStorage{dataDir: dataDir}, nil
}

// statePath returns the path to the state file
func (s *JSONStorage) statePath() string {
	return filepath.Join(s.dataDir, stateFile)
}

// LoadState loads the application state from disk
func (s *JSONStorage) LoadState() (*model.AppState, error) {
	data, err := os.ReadFile(s.statePath())
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppState(), nil
		}
		return nil, err
	}
	return decodeState(data)
}

// SaveState saves the application state to disk
func (s *JSONStorage) SaveState(state *model.AppState) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	// Write to a temp file first so a crash never leaves a truncated state
	tmp := s.statePath() + ".tmp"
	if err := os.WriteFile(tmp, data, secureFileMode); err != nil {
		return err
	}
	return os.Rename(tmp, s.statePath())
}

func (s *JSONStorage) Close() error {
	return nil
}
