package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mikey/email-signature-parser/internal/core"
	"go.uber.org/zap"
)

// Store is a ContactStore that owns a background cleanup task
type Store interface {
	core.ContactStore
	Stop()
}

var (
	// ErrNotFound is returned when no contact is stored for an address
	ErrNotFound = errors.New("contact not found")
	// ErrExpired is returned when the stored contact has expired
	ErrExpired = errors.New("contact expired")
)

// normalizeEmail returns the key contacts are stored under
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// expired reports whether a contact expiring at expiresAt is stale at now.
// A zero expiry never expires.
func expired(expiresAt, now time.Time) bool {
	return !expiresAt.IsZero() && !now.Before(expiresAt)
}

// cleanupLoop runs cleanup every freq until stop is closed
func cleanupLoop(freq time.Duration, cleanup func(context.Context) error, stop <-chan struct{}, logger *zap.Logger) {
	if freq <= 0 {
		return
	}

	ticker := time.NewTicker(freq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := cleanup(context.Background()); err != nil {
				logger.Error("Failed to clean up contact store", zap.Error(err))
			}
		case <-stop:
			return
		}
	}
}
