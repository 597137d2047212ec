package app

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/miradorstack/enginewatch/internal/config"
	"github.com/miradorstack/enginewatch/internal/utils"
)

type rootOptions struct {
	configPath string
}

// NewEnginewatchCommand builds the enginewatch CLI. ctx is cancelled on
// SIGINT/SIGTERM.
func NewEnginewatchCommand(ctx context.Context) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "enginewatch",
		Short:         "Engine telemetry monitor with failure inference and Telegram alerts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetContext(ctx)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to configuration file (defaults to $ENGINEWATCH_CONFIG)")

	cmd.AddCommand(
		newRunCommand(opts),
		newAnalyzeCommand(opts),
		newSimulateCommand(opts),
		newTestAlertCommand(opts),
	)
	return cmd
}

func (o *rootOptions) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, utils.NewAppError("config.Load", "failed to load configuration", err)
	}
	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
