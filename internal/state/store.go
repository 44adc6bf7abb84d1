package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Preferences are the client settings that survive restarts.
type Preferences struct {
	InstallationID string `json:"installationId"`
	TargetLanguage string `json:"targetLanguage"`
	Capturing      bool   `json:"capturing"`
}

// Store persists Preferences as JSON at a fixed path. All mutators
// write through immediately; a crash loses at most the change in
// flight.
type Store struct {
	path string

	mu    sync.Mutex
	prefs Preferences
}

// DefaultPath returns the preferences path under the user config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("no user config dir: %w", err)
	}
	return filepath.Join(dir, "live-translator", "preferences.json"), nil
}

// Open loads the store at path, creating it with defaults (fresh
// installation ID, the given language) if absent or unreadable.
func Open(path, defaultLanguage string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err == nil {
		if jsonErr := json.Unmarshal(data, &s.prefs); jsonErr == nil && s.prefs.InstallationID != "" {
			return s, nil
		}
		// Corrupt file: start over rather than refuse to run.
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	s.prefs = Preferences{
		InstallationID: uuid.New().String(),
		TargetLanguage: defaultLanguage,
	}
	if err := s.save(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns a copy of the current preferences.
func (s *Store) Get() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// SetTargetLanguage persists a new target language.
func (s *Store) SetTargetLanguage(language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.TargetLanguage = language
	return s.save()
}

// SetCapturing persists the capturing flag so the client resumes in
// the same state after a restart.
func (s *Store) SetCapturing(capturing bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.Capturing = capturing
	return s.save()
}

// save writes the file atomically: temp file in the same directory,
// then rename. Caller holds the lock.
func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create preferences dir: %w", err)
	}

	data, err := json.MarshalIndent(s.prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "preferences-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp preferences file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close preferences file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace preferences file: %w", err)
	}
	return nil
}
