package factory

import (
	"fmt"

	"github.com/mikey/email-signature-parser/internal/adapters/postal"
	"github.com/mikey/email-signature-parser/internal/blocklist"
	"github.com/mikey/email-signature-parser/internal/config"
	"github.com/mikey/email-signature-parser/internal/core"
	"github.com/mikey/email-signature-parser/internal/dictionary"
	"github.com/mikey/email-signature-parser/internal/signature"
	"github.com/mikey/email-signature-parser/internal/utils"
	"go.uber.org/zap"
)

// EngineFactory creates the signature engine and the pieces the signature
// service is assembled from
type EngineFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewEngineFactory creates a new engine factory
func NewEngineFactory(cfg *config.Config, logger *zap.Logger) *EngineFactory {
	return &EngineFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateDictionary returns the shared dictionary tables
func (f *EngineFactory) CreateDictionary() *dictionary.Dictionary {
	return dictionary.Default()
}

// CreateAddressLabeler creates the gazetteer based address labeler
func (f *EngineFactory) CreateAddressLabeler() (*postal.Labeler, error) {
	labeler, err := postal.NewLabeler(f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create address labeler: %w", err)
	}
	return labeler, nil
}

// CreateParser creates the signature parser
func (f *EngineFactory) CreateParser(dict *dictionary.Dictionary, labeler core.AddressLabeler) *signature.Parser {
	return signature.NewParser(dict, labeler, f.logger)
}

// CreateTextProcessor creates a new TextProcessor
func (f *EngineFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger)
}

// CreateBlocklist creates the automated sender checker
func (f *EngineFactory) CreateBlocklist() *blocklist.Checker {
	return blocklist.NewChecker(f.cfg.GetParser().BlockedSenders, f.logger)
}

// CreateServiceConfig returns the signature service tunables. The store is
// reported enabled only when one was created.
func (f *EngineFactory) CreateServiceConfig(storeEnabled bool) (core.ServiceConfig, error) {
	storeCfg, err := f.cfg.GetStore()
	if err != nil {
		return core.ServiceConfig{}, err
	}

	parser := f.cfg.GetParser()
	return core.ServiceConfig{
		MaxBodySize:    parser.MaxBodySize,
		RejectMeetings: parser.RejectMeetings,
		StoreEnabled:   storeEnabled,
		StoreTTL:       storeCfg.TTL,
	}, nil
}
