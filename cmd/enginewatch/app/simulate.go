package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/miradorstack/enginewatch/internal/config"
	"github.com/miradorstack/enginewatch/internal/models"
	"github.com/miradorstack/enginewatch/internal/notify"
	"github.com/miradorstack/enginewatch/internal/scenarios"
	"github.com/miradorstack/enginewatch/internal/utils"
)

const testAlertMessage = "🔧 Test alert from Predictive Maintenance\n📍 Monterrey, Mexico\n✅ Fault detection system active"

func newSimulateCommand(opts *rootOptions) *cobra.Command {
	params := scenarios.DefaultParams()
	cmd := &cobra.Command{
		Use:   "simulate <fault>",
		Short: "Describe a simulated fault and send its alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			catalog, err := scenarios.Load(cfg.Scenarios.Path, logger)
			if err != nil {
				return err
			}
			scenario, err := catalog.Lookup(args[0])
			if err != nil {
				return err
			}
			writeScenario(cmd.OutOrStdout(), scenario, params)
			return sendManual(cmd.Context(), cmd.OutOrStdout(), cfg, logger, scenario.Alert(params))
		},
	}
	cmd.Flags().Float64Var(&params.Temperature, "temperature", params.Temperature, "Simulated temperature in °C")
	cmd.Flags().Float64Var(&params.RPM, "rpm", params.RPM, "Simulated RPM")
	cmd.Flags().Float64Var(&params.Variation, "variation", params.Variation, "Simulated RPM variation in percent")
	return cmd
}

func newTestAlertCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test-alert",
		Short: "Send a canned alert to verify the Telegram channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			return sendManual(cmd.Context(), cmd.OutOrStdout(), cfg, logger, testAlert())
		},
	}
}

func testAlert() models.Alert {
	return models.Alert{
		Category:       models.AlertManual,
		Message:        testAlertMessage,
		Irregularities: models.Reported("high RPM variance (18.2%)", "erratic RPM pattern"),
		Principal:      models.CauseSparkPlugWear,
	}
}

func writeScenario(w io.Writer, s scenarios.Scenario, p scenarios.Params) {
	fmt.Fprintf(w, "Simulating: %s (severity %s)\n", s.Name, s.Severity)
	fmt.Fprintf(w, "Symptoms: %s\n", s.Symptoms)
	fmt.Fprintf(w, "Readings: %.1f°C, %.0f RPM, %.1f%% variation\n", p.Temperature, p.RPM, p.Variation)
	fmt.Fprintf(w, "Probable cause: %s\n", s.Cause)
	if len(s.Info) > 0 {
		fmt.Fprintln(w, strings.Join(s.Info, "\n"))
	}
}

// sendManual previews alert and dispatches it when notifications are on.
func sendManual(ctx context.Context, w io.Writer, cfg *config.Config, logger *slog.Logger, alert models.Alert) error {
	loc, err := utils.LoadLocation(cfg.Notify.Timezone)
	if err != nil {
		return fmt.Errorf("notify.timezone: %w", err)
	}
	fmt.Fprintf(w, "\n%s\n\n", notify.FormatMessage(time.Now(), loc, alert))

	dispatcher, err := newDispatcher(cfg.Notify, nil, logger)
	if err != nil {
		return err
	}
	if dispatcher == nil {
		fmt.Fprintln(w, "Notifications disabled; alert not sent.")
		return nil
	}
	result := dispatcher.Dispatch(ctx, alert)
	if result.Err != nil {
		return utils.NewAppError("notify.Dispatch", "alert was not delivered", result.Err)
	}
	fmt.Fprintf(w, "Alert sent in %s.\n", result.Latency.Round(time.Millisecond))
	return nil
}
