// Package session manages the persistent conversation identifier shared
// with the assistant service. One opaque id is generated per user
// profile and reused across runs.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// idFileName is the fixed key the id is stored under.
const idFileName = "session_id"

// Store persists the session id inside a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the directory where the session id is stored.
// If a config file is used, the id lives next to it; otherwise it
// defaults to $HOME/.config/foliochat.
func DefaultDir() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		configDir := filepath.Dir(configFile)
		if !filepath.IsAbs(configDir) {
			cwd, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("failed to get current working directory: %w", err)
			}
			configDir = filepath.Join(cwd, configDir)
		}
		return configDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "foliochat"), nil
}

// Load returns the persisted session id, generating and persisting a
// fresh one if none exists yet.
func (s *Store) Load() (string, error) {
	path := filepath.Join(s.dir, idFileName)

	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
		// Empty file: fall through and regenerate.
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read session id: %w", err)
	}

	id := NewID()
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write session id: %w", err)
	}
	return id, nil
}

// Current returns the persisted session id without generating one.
func (s *Store) Current() (string, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, idFileName))
	if err != nil {
		return "", false
	}
	id := strings.TrimSpace(string(data))
	return id, id != ""
}

// Reset discards the persisted id. The next Load generates a new one.
func (s *Store) Reset() error {
	err := os.Remove(filepath.Join(s.dir, idFileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session id: %w", err)
	}
	return nil
}

// NewID builds a session id from the current time plus a random suffix.
// The assistant service treats it as an opaque conversation key.
func NewID() string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}
