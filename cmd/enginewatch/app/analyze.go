package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/miradorstack/enginewatch/internal/engine"
)

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse the whole configured series and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			samples, err := loadSamples(cfg.Source)
			if err != nil {
				return err
			}
			summary := engine.Summarize(engine.NewAnalyzer(cfg.Monitor.Analyzer), samples)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			writeSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func writeSummary(w io.Writer, s engine.Summary) {
	fmt.Fprintf(w, "Samples: %d\n", s.Points)
	fmt.Fprintf(w, "Max temperature: %.1f°C\n", s.MaxTemperature)
	fmt.Fprintf(w, "Mean temperature: %.1f°C\n", s.MeanTemperature)
	fmt.Fprintf(w, "RPM variation: %.1f%%\n", s.RPMVariation)
	fmt.Fprintf(w, "Max RPM: %.0f\n", s.MaxRPM)
	fmt.Fprintf(w, "Mean RPM: %.0f\n", s.MeanRPM)
	fmt.Fprintf(w, "Min RPM: %.0f\n", s.MinRPM)

	if len(s.Irregularities) == 0 {
		fmt.Fprintln(w, "\nNo significant irregularities detected.")
		return
	}
	fmt.Fprintln(w, "\nIrregularities:")
	for _, flag := range s.Irregularities {
		fmt.Fprintf(w, "  • %s\n", flag.Description)
	}
	causes := make([]string, 0, len(s.Causes))
	for _, cause := range s.Causes {
		causes = append(causes, cause.String())
	}
	fmt.Fprintf(w, "Probable causes: %s\n", strings.Join(causes, ", "))
}
