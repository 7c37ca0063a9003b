package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// State is the persisted subset of the session, written as a single
// namespaced JSON blob so the adapter and the store always read the
// same canonical fields.
type State struct {
	AccessToken   string    `json:"access_token"`
	RefreshToken  string    `json:"refresh_token"`
	Role          string    `json:"role"`
	EmpID         int       `json:"emp_id"`
	Subject       string    `json:"subject"`
	Expiry        time.Time `json:"token_expiry"`
	Authenticated bool      `json:"authenticated"`
}

// Storage persists session state across restarts.
type Storage struct {
	path string
	mu   sync.Mutex
}

// NewStorage returns file-backed storage at path.
func NewStorage(path string) *Storage {
	return &Storage{path: path}
}

// Load reads the persisted state. A missing file yields a zero State.
func (s *Storage) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("session: read state: %w", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("session: decode state: %w", err)
	}
	return state, nil
}

// Save writes the state, creating the parent directory if needed.
// Tokens are credentials, so the file is not group or world readable.
func (s *Storage) Save(state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: create state directory: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write state: %w", err)
	}
	return nil
}
