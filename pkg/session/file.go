package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	DefaultSessionFileName = ".swapwizard-session.json"
)

// FileStore persists the credential as JSON so it survives between commands
type FileStore struct {
	filePath string
	mu       sync.RWMutex
	cred     *Credential
	now      func() time.Time
}

// NewFileStore creates a file store, loading an existing session if present
func NewFileStore(filePath string) (*FileStore, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultSessionFileName)
	}

	store := &FileStore{
		filePath: filePath,
		now:      time.Now,
	}

	if err := store.load(); err != nil {
		// A missing file just means nobody logged in yet
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}

	return store, nil
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return fmt.Errorf("failed to unmarshal session: %w", err)
	}

	s.cred = &cred
	return nil
}

// write must be called with the lock held
func (s *FileStore) write() error {
	data, err := json.MarshalIndent(s.cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to temporary file first, then rename for atomic write
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Get implements Provider
func (s *FileStore) Get() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cred == nil || s.cred.AccessToken == "" || s.cred.Expired(s.now()) {
		return Credential{}, false
	}
	return *s.cred, true
}

// Set implements Provider
func (s *FileStore) Set(cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = &cred
	return s.write()
}

// Clear implements Provider
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = nil
	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// FilePath returns the session file path
func (s *FileStore) FilePath() string {
	return s.filePath
}
