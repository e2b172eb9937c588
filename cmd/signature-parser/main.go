package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mikey/email-signature-parser/internal/adapters/filter"
	"github.com/mikey/email-signature-parser/internal/core"
	"github.com/mikey/email-signature-parser/internal/di"
	"github.com/mikey/email-signature-parser/internal/signature"
	"go.uber.org/zap"
)

// classifiedLine is one signature line as printed by -classify
type classifiedLine struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

func main() {
	flags := di.ParseFlags()

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run reads one message from a file or stdin and prints what was parsed
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	cli *filter.CliFilter,
	service *core.SignatureService,
	parser *signature.Parser,
) error {
	defer logger.Sync()
	ctx := context.Background()

	// Read email from file or stdin
	var emailReader io.Reader = os.Stdin
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		emailReader = file
		logger.Debug("Reading email from file", zap.String("file", flags.InputFile))
	} else {
		logger.Debug("Reading email from stdin")
	}

	if flags.Classify {
		return classify(service, parser, emailReader, os.Stdout)
	}

	_, err := cli.ProcessMessage(ctx, emailReader)
	return err
}

// classify prints the signature lines with the kind each was claimed as
func classify(service *core.SignatureService, parser *signature.Parser, r io.Reader, out io.Writer) error {
	email, err := service.ReadMessage(r)
	if err != nil {
		return err
	}

	name, address, body, err := service.Prepare(email)
	if err != nil {
		return err
	}

	lines := []classifiedLine{}
	for _, l := range parser.Classify(name, address, body) {
		lines = append(lines, classifiedLine{Kind: l.Kind.String(), Text: l.Text})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(lines)
}
