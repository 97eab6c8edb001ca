package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Environment variables recognized by the credential store.
const (
	EnvUsername      = "TICKTICK_USERNAME"
	EnvPassword      = "TICKTICK_PASSWORD"
	EnvAuthenticated = "TICKTICK_AUTHENTICATED"
)

// Credentials holds the TickTick account credentials persisted between
// runs. Authenticated records whether the last login with them succeeded.
type Credentials struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Authenticated bool   `json:"authenticated"`
}

// Store persists credentials as JSON in the user's config directory.
// Environment variables override whatever is on disk.
type Store struct {
	path string
}

// NewStore creates a store at the default location,
// ~/.ticktick-mcp/credentials.json.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return NewStoreAt(filepath.Join(home, ".ticktick-mcp", "credentials.json")), nil
}

// NewStoreAt creates a store backed by the given file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the credential file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored credentials, with environment variables taking
// precedence over the file. Returns nil when nothing is available. An
// unreadable or corrupt file is treated as absent, never as a fatal
// error; the caller simply has to authenticate again.
func (s *Store) Load() (*Credentials, error) {
	creds := s.loadFile()

	username := os.Getenv(EnvUsername)
	password := os.Getenv(EnvPassword)
	if username != "" && password != "" {
		if creds == nil || creds.Username != username {
			// Env credentials differ from the persisted ones; they have
			// not been validated yet.
			return &Credentials{Username: username, Password: password}, nil
		}
		creds.Password = password
	}

	return creds, nil
}

func (s *Store) loadFile() *Credentials {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read credential file, treating as absent",
				"path", s.path, "error", err)
		}
		return nil
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		slog.Warn("credential file is corrupt, treating as absent",
			"path", s.path, "error", err)
		return nil
	}
	if creds.Username == "" {
		return nil
	}
	return &creds
}

// Save writes the credentials to disk, restricting permissions to the
// owning user.
func (s *Store) Save(creds *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}

	// Informational only; nothing reads this back for decisions.
	if creds.Authenticated {
		_ = os.Setenv(EnvAuthenticated, "true")
	}
	return nil
}

// Clear removes the credential file. Clearing an absent file succeeds.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	_ = os.Setenv(EnvAuthenticated, "false")
	return nil
}
