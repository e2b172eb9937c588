package factory

import (
	"fmt"
	"io"
	"os"

	"github.com/mikey/email-signature-parser/internal/adapters/filter"
	"github.com/mikey/email-signature-parser/internal/config"
	"github.com/mikey/email-signature-parser/internal/core"
	"github.com/mikey/email-signature-parser/internal/ports"
	"go.uber.org/zap"
)

// FilterFactory creates email filters based on configuration
type FilterFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.SignatureService
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, service *core.SignatureService) *FilterFactory {
	return &FilterFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateEmailFilter creates an email filter based on the configuration
func (f *FilterFactory) CreateEmailFilter() (ports.EmailFilter, error) {
	server := f.cfg.GetServer()

	switch server.FilterType {
	case "smtp":
		return filter.NewSMTPFilter(
			f.service,
			f.logger,
			server.ListenAddress,
			server.Annotate,
			filter.HeaderNames{
				Name:    server.Headers.Name,
				Company: server.Headers.Company,
				Phone:   server.Headers.Phone,
			},
			filter.RelayConfig{
				Enabled: server.Relay.Enabled,
				Address: server.Relay.Address,
				Port:    server.Relay.Port,
			},
		), nil
	case "http":
		return filter.NewHTTPFilter(f.service, f.logger, server.HTTPAddress), nil
	case "cli":
		return f.CreateCliFilter(os.Stdout, false)
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", server.FilterType)
	}
}

// CreateCliFilter creates a CLI filter printing to out
func (f *FilterFactory) CreateCliFilter(out io.Writer, verbose bool) (*filter.CliFilter, error) {
	return filter.NewCliFilter(f.service, f.logger, out, verbose)
}
