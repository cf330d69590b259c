package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/physan/internal/config"
	"github.com/KaramelBytes/physan/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
	// logger writes diagnostics to stderr; reports go to stdout.
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "physan",
	Short: "physan: descriptive statistics and scatter plots for tabular data",
	Long: `physan loads CSV, TSV and XLSX files, computes descriptive statistics over
their numeric columns, and renders scatter plots of the first two numeric columns.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.physan/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text | json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(rootCmd.ErrOrStderr(), "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	format := cfg.LogFormat
	if logFormat != "" {
		format = logFormat
	}
	logger = logging.New(level, format, rootCmd.ErrOrStderr())
	logger.Debug("config loaded", slog.String("component", "cli"), slog.String("config_file", cfgFile))
}

// currentConfig returns the loaded configuration or defaults.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	return cfg
}
