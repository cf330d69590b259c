package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/physan/internal/analysis"
	"github.com/KaramelBytes/physan/internal/dataset"
	"github.com/KaramelBytes/physan/internal/plot"
	"github.com/KaramelBytes/physan/internal/utils"
	"github.com/spf13/cobra"
)

var (
	colLoader    loaderFlags
	colMetrics   string
	colFormat    string
	colHistogram string
	colBins      int
)

var columnCmd = &cobra.Command{
	Use:   "column <file> <name>",
	Short: "Statistics for a single column, with an optional histogram",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, name := args[0], args[1]
		opt, err := colLoader.options(cmd)
		if err != nil {
			return err
		}
		metrics, err := analysis.ParseMetrics([]string{colMetrics})
		if err != nil {
			return err
		}
		t, err := dataset.Load(path, opt)
		if err != nil {
			return friendly(err)
		}
		rep, err := analysis.AnalyzeColumn(t, name, metrics)
		if err != nil {
			return friendly(err)
		}
		body, err := render(rep, colFormat)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, body)

		if colHistogram == "" {
			return nil
		}
		vals, err := analysis.ColumnValues(t, name)
		if err != nil {
			return friendly(err)
		}
		po := currentConfig().PlotOptions()
		if colBins > 0 {
			po.Bins = colBins
		}
		var buf bytes.Buffer
		if err := plot.RenderHistogram(&buf, name, vals, po); err != nil {
			return friendly(err)
		}
		if err := utils.SafeWriteFile(colHistogram, buf.Bytes()); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Wrote histogram of %s (%d values, %d bins) to %s\n", name, len(vals), po.Bins, colHistogram)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnCmd)
	colLoader.register(columnCmd.Flags())
	columnCmd.Flags().StringVarP(&colMetrics, "metrics", "m", "mean,std,median", "comma-separated metrics")
	columnCmd.Flags().StringVarP(&colFormat, "format", "f", "text", "output format: text | markdown | json")
	columnCmd.Flags().StringVar(&colHistogram, "histogram", "", "write a histogram PNG of the column to this path")
	columnCmd.Flags().IntVar(&colBins, "bins", 0, "histogram bin count (overrides config)")
}
