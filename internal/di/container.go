package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-signature-parser/internal/adapters/postal"
	"github.com/mikey/email-signature-parser/internal/adapters/store"
	"github.com/mikey/email-signature-parser/internal/blocklist"
	"github.com/mikey/email-signature-parser/internal/config"
	"github.com/mikey/email-signature-parser/internal/core"
	"github.com/mikey/email-signature-parser/internal/dictionary"
	"github.com/mikey/email-signature-parser/internal/factory"
	"github.com/mikey/email-signature-parser/internal/logging"
	"github.com/mikey/email-signature-parser/internal/ports"
	"github.com/mikey/email-signature-parser/internal/signature"
	"github.com/mikey/email-signature-parser/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideService(container); err != nil {
		return nil, err
	}

	// Register email filter
	if err := container.Provide(func(f *factory.FilterFactory) (ports.EmailFilter, error) {
		return f.CreateEmailFilter()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideService registers everything between the configuration and the
// signature service. The container must already provide *config.Config and
// *zap.Logger.
func provideService(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewEngineFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return err
	}

	// Register engine
	if err := container.Provide(func(f *factory.EngineFactory) *dictionary.Dictionary {
		return f.CreateDictionary()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.EngineFactory) (*postal.Labeler, error) {
		return f.CreateAddressLabeler()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.EngineFactory, dict *dictionary.Dictionary, labeler *postal.Labeler) *signature.Parser {
		return f.CreateParser(dict, labeler)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.EngineFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.EngineFactory) *blocklist.Checker {
		return f.CreateBlocklist()
	}); err != nil {
		return err
	}

	// Register contact store, nil when disabled
	if err := container.Provide(func(f *factory.StoreFactory) (store.Store, error) {
		return f.CreateContactStore()
	}); err != nil {
		return err
	}

	// Register service configuration
	if err := container.Provide(func(f *factory.EngineFactory, contacts store.Store) (core.ServiceConfig, error) {
		return f.CreateServiceConfig(contacts != nil)
	}); err != nil {
		return err
	}

	// Register signature service
	if err := container.Provide(func(
		parser *signature.Parser,
		contacts store.Store,
		checker *blocklist.Checker,
		dict *dictionary.Dictionary,
		textProcessor *utils.TextProcessor,
		logger *zap.Logger,
		cfg core.ServiceConfig,
	) *core.SignatureService {
		return core.NewSignatureService(parser, contacts, checker, dict, textProcessor, logger, cfg)
	}); err != nil {
		return err
	}

	return nil
}
