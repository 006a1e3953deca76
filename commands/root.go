package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"membergate/config"
	"membergate/services/logger"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const programName = "membergate"

type ctxKey string

const configContextKey ctxKey = "membergate.config"

var errNoConfig = errors.New("no config found in context")

type globalFlags struct {
	configFile string
	debug      bool
}

// NewRootCommand builds the CLI. Running it without a subcommand serves the API.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Membership gate backend: code and PIN login, check-ins and member directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flags.configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if flags.debug {
			cfg.LogLevel = logger.DebugLevel
		}
		cmd.SetContext(context.WithValue(cmd.Context(), configContextKey, cfg))
		return nil
	}

	rootCmd.AddCommand(serveCommand(), seedAdminCommand(), hashPinCommand())
	return rootCmd
}

func configFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configContextKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, errNoConfig
	}
	return cfg, nil
}

// commonRun builds the process logger and sizes GOMAXPROCS to the container.
func commonRun(cfg *config.Config) *slog.Logger {
	log := logger.New(cfg.LogLevel, cfg.LogFormat).With("component", programName)
	slog.SetDefault(log)

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, v ...any) {
		log.Info(fmt.Sprintf(format, v...))
	})); err != nil {
		log.Warn("failed to set GOMAXPROCS", "error", err)
	}
	return log
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
