package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mikey/email-signature-parser/internal/core"
	"go.uber.org/zap"
)

// CliFilter parses single messages from the command line and prints the
// result as JSON
type CliFilter struct {
	service *core.SignatureService
	logger  *zap.Logger
	out     io.Writer
	verbose bool
}

// NewCliFilter creates a new CLI filter writing to out
func NewCliFilter(service *core.SignatureService, logger *zap.Logger, out io.Writer, verbose bool) (*CliFilter, error) {
	if out == nil {
		return nil, fmt.Errorf("cli filter needs an output writer")
	}
	return &CliFilter{
		service: service,
		logger:  logger,
		out:     out,
		verbose: verbose,
	}, nil
}

// ProcessEmail parses an email and prints the signature
func (f *CliFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.ParsedSignature, error) {
	f.logger.Debug("Processing email", zap.String("sender", email.From))
	return f.print(f.timed(func() (*core.ParsedSignature, error) {
		return f.service.ParseEmail(ctx, email)
	}))
}

// ProcessMessage parses a raw message and prints the signature
func (f *CliFilter) ProcessMessage(ctx context.Context, r io.Reader) (*core.ParsedSignature, error) {
	return f.print(f.timed(func() (*core.ParsedSignature, error) {
		return f.service.ParseMessage(ctx, r)
	}))
}

// ProcessFile parses an .eml file and prints the signature
func (f *CliFilter) ProcessFile(ctx context.Context, path string) (*core.ParsedSignature, error) {
	f.logger.Debug("Processing file", zap.String("path", path))
	return f.print(f.timed(func() (*core.ParsedSignature, error) {
		return f.service.ParseFile(ctx, path)
	}))
}

func (f *CliFilter) timed(parse func() (*core.ParsedSignature, error)) (*core.ParsedSignature, error) {
	startTime := time.Now()
	sig, err := parse()
	if f.verbose {
		f.logger.Info("Parse finished", zap.Duration("duration", time.Since(startTime)), zap.Error(err))
	}
	return sig, err
}

func (f *CliFilter) print(sig *core.ParsedSignature, err error) (*core.ParsedSignature, error) {
	if err != nil {
		f.logger.Error("Failed to parse signature", zap.Error(err))
		return nil, err
	}

	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sig); err != nil {
		return nil, fmt.Errorf("failed to write result: %w", err)
	}

	return sig, nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
