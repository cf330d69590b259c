package cmd

import (
	"fmt"
	"strings"

	cfgpkg "github.com/KaramelBytes/physan/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set physan configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "default_metrics: %s\n", strings.Join(c.DefaultMetrics, ","))
		fmt.Fprintf(out, "delimiter: %s\n", orAuto(c.Delimiter))
		fmt.Fprintf(out, "decimal_separator: %s\n", orAuto(c.DecimalSeparator))
		if c.ThousandsSeparator != "" {
			fmt.Fprintf(out, "thousands_separator: %s\n", c.ThousandsSeparator)
		}
		fmt.Fprintf(out, "pad_short_rows: %t\n", c.PadShortRows)
		fmt.Fprintf(out, "plot_width: %d\n", c.PlotWidth)
		fmt.Fprintf(out, "plot_height: %d\n", c.PlotHeight)
		fmt.Fprintf(out, "histogram_bins: %d\n", c.HistogramBins)
		fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfg.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func orAuto(s string) string {
	if s == "" {
		return "(auto)"
	}
	return s
}
