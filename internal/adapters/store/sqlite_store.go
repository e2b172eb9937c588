package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the ContactStore interface
type SQLiteStore struct {
	*sqlStore
}

// NewSQLiteStore creates a new SQLite contact store. dbPath may be
// ":memory:" for a private in-memory database.
func NewSQLiteStore(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// every connection to :memory: would see its own database
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS contacts (
			email_address TEXT PRIMARY KEY,
			signature TEXT NOT NULL,
			last_seen INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_contacts_expires_at ON contacts(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	upsert := `
		INSERT OR REPLACE INTO contacts (email_address, signature, last_seen, expires_at)
		VALUES (?, ?, ?, ?)
	`

	return &SQLiteStore{sqlStore: newSQLStore(db, logger, upsert, cleanupFreq)}, nil
}
