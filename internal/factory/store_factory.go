package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/email-signature-parser/internal/adapters/store"
	"github.com/mikey/email-signature-parser/internal/config"
	"go.uber.org/zap"
)

// StoreFactory creates contact stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateContactStore creates a contact store based on the configuration. A
// disabled store or the "none" type yields a nil store.
func (f *StoreFactory) CreateContactStore() (store.Store, error) {
	storeCfg, err := f.cfg.GetStore()
	if err != nil {
		return nil, err
	}

	if !storeCfg.Enabled || storeCfg.Type == "none" {
		f.logger.Info("Contact store disabled")
		return nil, nil
	}

	switch storeCfg.Type {
	case "memory":
		return store.NewMemoryStore(f.logger, storeCfg.CleanupFrequency), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(storeCfg.SQLitePath, f.logger, storeCfg.CleanupFrequency)
	case "mysql":
		return store.NewMySQLStore(storeCfg.MySQLDSN, f.logger, storeCfg.CleanupFrequency)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeCfg.Type)
	}
}
