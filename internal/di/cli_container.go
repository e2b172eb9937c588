package di

import (
	"flag"
	"os"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-signature-parser/internal/adapters/filter"
	"github.com/mikey/email-signature-parser/internal/config"
	"github.com/mikey/email-signature-parser/internal/factory"
	"github.com/mikey/email-signature-parser/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Parser flags
	MaxBodySize    int
	BlockedSenders string
	AllowMeetings  bool

	// Output flags
	Classify bool

	// Input flags
	InputFile  string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	// The command line set exits on a parse error
	flags, _ := parseFlags(flag.CommandLine, os.Args[1:])
	return flags
}

func parseFlags(fs *flag.FlagSet, args []string) (*CLIFlags, error) {
	flags := &CLIFlags{}

	// Parser flags
	fs.IntVar(&flags.MaxBodySize, "max-body-size", 262144, "Maximum email body size to parse, larger bodies are truncated")
	fs.StringVar(&flags.BlockedSenders, "blocked-senders", "", "Comma separated sender substrings to treat as automated")
	fs.BoolVar(&flags.AllowMeetings, "allow-meetings", false, "Parse meeting invites instead of rejecting them")

	// Output flags
	fs.BoolVar(&flags.Classify, "classify", false, "Print how each signature line was classified instead of the result")

	// Input flags
	fs.StringVar(&flags.InputFile, "file", "", "Input email file (use stdin if not specified)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	if err := provideService(container); err != nil {
		return nil, err
	}

	// Register CLI filter
	if err := container.Provide(func(f *factory.FilterFactory, flags *CLIFlags) (*filter.CliFilter, error) {
		return f.CreateCliFilter(os.Stdout, flags.Verbose)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags. A
// one-shot run has nothing to remember contacts for, so the store is off.
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	cfg := config.NewFromViper(config.NewEmptyViper())

	cfg.Set("parser.max_body_size", flags.MaxBodySize)
	cfg.Set("parser.reject_meetings", !flags.AllowMeetings)
	if flags.BlockedSenders != "" {
		cfg.Set("parser.blocked_senders", splitList(flags.BlockedSenders))
	}
	cfg.Set("store.type", "none")
	cfg.Set("server.filter_type", "cli")

	return cfg
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
