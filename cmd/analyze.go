package cmd

import (
	"log/slog"

	"github.com/KaramelBytes/physan/internal/analysis"
	"github.com/KaramelBytes/physan/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	anaLoader     loaderFlags
	anaMetrics    string
	anaFormat     string
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Compute descriptive statistics over the numeric columns of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := anaLoader.options(cmd)
		if err != nil {
			return err
		}
		metrics, err := resolveMetrics(anaMetrics)
		if err != nil {
			return err
		}
		t, err := dataset.Load(path, opt)
		if err != nil {
			return friendly(err)
		}
		logger.Debug("loaded", slog.String("component", "analyze"), slog.String("path", path), slog.Int("rows", t.Rows()))
		rep, err := analysis.Analyze(t, metrics)
		if err != nil {
			return friendly(err)
		}
		body, err := render(rep, anaFormat)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), body, anaOutputPath, "analysis")
	},
}

// resolveMetrics parses a comma-separated --metrics value, falling back to
// the configured defaults when empty.
func resolveMetrics(flag string) ([]analysis.Metric, error) {
	if flag == "" {
		return currentConfig().Metrics()
	}
	ms, err := analysis.ParseMetrics([]string{flag})
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return nil, friendly(analysis.ErrNoMetrics)
	}
	return ms, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaLoader.register(analyzeCmd.Flags())
	analyzeCmd.Flags().StringVarP(&anaMetrics, "metrics", "m", "", "comma-separated metrics: mean,median,std,min,max (default from config)")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "text", "output format: text | markdown | json")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
}
