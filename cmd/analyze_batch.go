package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/physan/internal/analysis"
	"github.com/KaramelBytes/physan/internal/dataset"
	"github.com/KaramelBytes/physan/internal/session"
	"github.com/KaramelBytes/physan/internal/utils"
	"github.com/spf13/cobra"
)

var (
	abLoader    loaderFlags
	abMetrics   string
	abFormat    string
	abOutputDir string
	abQuiet     bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files with progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		opt, err := abLoader.options(cmd)
		if err != nil {
			return err
		}
		metrics, err := resolveMetrics(abMetrics)
		if err != nil {
			return err
		}
		ext := ".txt"
		switch strings.ToLower(abFormat) {
		case "markdown", "md":
			ext = ".md"
		case "json":
			ext = ".json"
		case "", "text":
		default:
			return fmt.Errorf("unsupported --format: %s (use text|markdown|json)", abFormat)
		}

		out := cmd.OutOrStdout()
		total := len(files)
		failed := 0
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			body, err := analyzeOne(path, opt, metrics)
			if err != nil {
				// One bad file does not stop the batch.
				failed++
				logger.Warn("batch item failed", slog.String("component", "analyze-batch"), slog.String("path", path), slog.Any("error", err))
				fmt.Fprintf(out, "⚠ %s: %s\n", filepath.Base(path), session.Message(err))
				continue
			}
			if abOutputDir != "" {
				target := utils.DerivedPath(path, abOutputDir, ".stats"+ext)
				if err := emit(out, body, target, "analysis"); err != nil {
					return err
				}
				continue
			}
			if !abQuiet {
				fmt.Fprintln(out, body)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

func analyzeOne(path string, opt dataset.Options, metrics []analysis.Metric) (string, error) {
	t, err := dataset.Load(path, opt)
	if err != nil {
		return "", err
	}
	rep, err := analysis.Analyze(t, metrics)
	if err != nil {
		return "", err
	}
	return render(rep, abFormat)
}

// expandInputs resolves globs, keeps literal paths that exist, drops
// duplicates and sorts the result.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abLoader.register(analyzeBatchCmd.Flags())
	analyzeBatchCmd.Flags().StringVarP(&abMetrics, "metrics", "m", "", "comma-separated metrics (default from config)")
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "text", "output format: text | markdown | json")
	analyzeBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "write one report per input into this directory")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
