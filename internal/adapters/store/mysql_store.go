package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the ContactStore interface
type MySQLStore struct {
	*sqlStore
}

// NewMySQLStore creates a new MySQL contact store
func NewMySQLStore(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS contacts (
			email_address VARCHAR(255) PRIMARY KEY,
			signature MEDIUMTEXT NOT NULL,
			last_seen BIGINT NOT NULL,
			expires_at BIGINT NOT NULL,
			INDEX idx_contacts_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	upsert := `
		INSERT INTO contacts (email_address, signature, last_seen, expires_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			signature = VALUES(signature),
			last_seen = VALUES(last_seen),
			expires_at = VALUES(expires_at)
	`

	return &MySQLStore{sqlStore: newSQLStore(db, logger, upsert, cleanupFreq)}, nil
}
