// Package session holds the client-side credential state. Local clearing and
// navigation are the source of truth for "logged out"; server teardown is
// best-effort only.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/preppilot/preppilot-cli/internal/secrets"
)

// EnvTokenFile names the environment variable pointing at the token file.
const EnvTokenFile = "PREPPILOT_TOKEN_FILE"

// Store is the process-wide session context. Components take it as an
// injected dependency instead of reading ambient globals.
type Store struct {
	mu    sync.Mutex
	file  string
	token string
}

// NewStore creates a session store backed by the given token file. When file
// is empty the path is resolved from the environment.
func NewStore(file string) *Store {
	return &Store{file: strings.TrimSpace(file)}
}

// Load resolves the token from the configured file (or the env-pointed one)
// and keeps it in memory for subsequent Token calls.
func (s *Store) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := secrets.Load(secrets.Source{
		Name: "preppilot token",
		File: s.file,
		Env:  EnvTokenFile,
	})
	if err != nil {
		return "", err
	}

	s.token = token
	return token, nil
}

// Set replaces the in-memory token.
func (s *Store) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
}

// Token returns the current in-memory token, which may be empty.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Clear drops the in-memory token and removes the backing file when one is
// configured. A missing file is not an error: the goal state is "no local
// credentials", not a successful delete.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""

	file := s.file
	if file == "" {
		file = strings.TrimSpace(os.Getenv(EnvTokenFile))
	}

	if file == "" {
		return nil
	}

	if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file %q: %w", file, err)
	}

	return nil
}

// DefaultTokenFile returns the conventional token location under the user
// config directory.
func DefaultTokenFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}

	return filepath.Join(dir, "preppilot", "token"), nil
}
