// Package store persists the client's small key-value state (bearer token,
// theme preference) in a JSON file, the desktop analog of browser storage.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Themes accepted by the dashboard.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

type state struct {
	Token string `json:"token,omitempty"`
	Theme string `json:"theme,omitempty"`
}

// Store owns the persisted state file. All operations are synchronous; a
// missing or unreadable file reads as empty state rather than failing.
type Store struct {
	path string
}

// New returns a Store backed by the given file path. The parent directory is
// created on first write, not here.
func New(path string) *Store {
	return &Store{path: path}
}

// SetToken writes the bearer credential to the persisted slot.
func (s *Store) SetToken(token string) error {
	st := s.load()
	st.Token = token
	return s.save(st)
}

// Token returns the persisted credential and whether one is present.
func (s *Store) Token() (string, bool) {
	st := s.load()
	return st.Token, st.Token != ""
}

// ClearToken removes the persisted credential. Clearing an absent token is a
// no-op.
func (s *Store) ClearToken() error {
	st := s.load()
	if st.Token == "" {
		return nil
	}
	st.Token = ""
	return s.save(st)
}

// SetTheme persists the UI theme preference.
func (s *Store) SetTheme(theme string) error {
	st := s.load()
	st.Theme = theme
	return s.save(st)
}

// Theme returns the persisted theme, defaulting to dark.
func (s *Store) Theme() string {
	st := s.load()
	if st.Theme == "" {
		return ThemeDark
	}
	return st.Theme
}

func (s *Store) load() state {
	var st state
	data, err := os.ReadFile(s.path)
	if err != nil {
		return st
	}
	// a corrupt file reads as empty state
	_ = json.Unmarshal(data, &st)
	return st
}

func (s *Store) save(st state) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("store: create state dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("store: write state: %w", err)
	}
	return nil
}
