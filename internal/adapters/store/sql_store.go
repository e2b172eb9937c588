package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mikey/email-signature-parser/internal/core"
	"go.uber.org/zap"
)

// sqlStore holds the queries shared by the SQL backed stores. Timestamps
// are kept as Unix nanoseconds, 0 meaning "never".
type sqlStore struct {
	db          *sql.DB
	logger      *zap.Logger
	upsertQuery string
	stopCh      chan struct{}
	stopOnce    sync.Once
}

func newSQLStore(db *sql.DB, logger *zap.Logger, upsertQuery string, cleanupFreq time.Duration) *sqlStore {
	s := &sqlStore{
		db:          db,
		logger:      logger,
		upsertQuery: upsertQuery,
		stopCh:      make(chan struct{}),
	}

	go cleanupLoop(cleanupFreq, s.Cleanup, s.stopCh, logger)

	return s
}

// Get retrieves the contact for an email address
func (s *sqlStore) Get(ctx context.Context, email string) (*core.Contact, error) {
	var data string
	var lastSeen, expiresAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT signature, last_seen, expires_at
		FROM contacts
		WHERE email_address = ?
	`, normalizeEmail(email)).Scan(&data, &lastSeen, &expiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query contact: %w", err)
	}

	contact := &core.Contact{
		EmailAddress: normalizeEmail(email),
		LastSeen:     fromUnixNano(lastSeen),
		ExpiresAt:    fromUnixNano(expiresAt),
	}
	if expired(contact.ExpiresAt, time.Now()) {
		return nil, ErrExpired
	}

	if err := json.Unmarshal([]byte(data), &contact.Signature); err != nil {
		return nil, fmt.Errorf("failed to decode stored signature: %w", err)
	}

	return contact, nil
}

// Set stores or replaces a contact
func (s *sqlStore) Set(ctx context.Context, contact *core.Contact) error {
	if contact == nil || normalizeEmail(contact.EmailAddress) == "" {
		return fmt.Errorf("failed to store contact: %w", core.ErrInvalidFrom)
	}

	data, err := json.Marshal(contact.Signature)
	if err != nil {
		return fmt.Errorf("failed to encode signature: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.upsertQuery,
		normalizeEmail(contact.EmailAddress),
		string(data),
		toUnixNano(contact.LastSeen),
		toUnixNano(contact.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}

	return nil
}

// Delete removes a contact
func (s *sqlStore) Delete(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM contacts
		WHERE email_address = ?
	`, normalizeEmail(email))

	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	return nil
}

// Cleanup removes expired contacts
func (s *sqlStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM contacts
		WHERE expires_at > 0 AND expires_at <= ?
	`, time.Now().UnixNano())

	if err != nil {
		return fmt.Errorf("failed to clean up expired contacts: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		s.logger.Debug("Cleaned up expired contacts", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (s *sqlStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close contact database", zap.Error(err))
		}
	})
}

func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
