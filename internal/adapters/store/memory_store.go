package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikey/email-signature-parser/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the ContactStore interface
type MemoryStore struct {
	contacts    map[string]core.Contact
	mu          sync.RWMutex
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewMemoryStore creates a new in-memory contact store
func NewMemoryStore(logger *zap.Logger, cleanupFreq time.Duration) *MemoryStore {
	store := &MemoryStore{
		contacts:    make(map[string]core.Contact),
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go cleanupLoop(cleanupFreq, store.Cleanup, store.stopCh, logger)

	return store
}

// Get retrieves the contact for an email address
func (s *MemoryStore) Get(ctx context.Context, email string) (*core.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contact, ok := s.contacts[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	if expired(contact.ExpiresAt, time.Now()) {
		return nil, ErrExpired
	}

	return &contact, nil
}

// Set stores or replaces a contact
func (s *MemoryStore) Set(ctx context.Context, contact *core.Contact) error {
	if contact == nil || normalizeEmail(contact.EmailAddress) == "" {
		return fmt.Errorf("failed to store contact: %w", core.ErrInvalidFrom)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *contact
	stored.EmailAddress = normalizeEmail(contact.EmailAddress)
	s.contacts[stored.EmailAddress] = stored
	return nil
}

// Delete removes a contact
func (s *MemoryStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.contacts, normalizeEmail(email))
	return nil
}

// Cleanup removes expired contacts
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for key, contact := range s.contacts {
		if expired(contact.ExpiresAt, now) {
			delete(s.contacts, key)
			expiredCount++
		}
	}

	s.logger.Debug("Cleaned up expired contacts", zap.Int("expired_count", expiredCount))
	return nil
}

// Stop stops the background cleanup task
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
