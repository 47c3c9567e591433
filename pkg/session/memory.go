package session

import (
	"sync"
	"time"
)

// MemoryStore keeps the credential in process memory
type MemoryStore struct {
	mu   sync.RWMutex
	cred *Credential
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// NewMemoryStoreWith creates an in-memory store holding cred
func NewMemoryStoreWith(cred Credential) *MemoryStore {
	s := NewMemoryStore()
	s.cred = &cred
	return s
}

// Get implements Provider
func (s *MemoryStore) Get() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cred == nil || s.cred.AccessToken == "" || s.cred.Expired(s.now()) {
		return Credential{}, false
	}
	return *s.cred, true
}

// Set implements Provider
func (s *MemoryStore) Set(cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = &cred
	return nil
}

// Clear implements Provider
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = nil
	return nil
}
