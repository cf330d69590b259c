package cmd

import (
	"github.com/KaramelBytes/physan/internal/analysis"
	"github.com/KaramelBytes/physan/internal/dataset"
	"github.com/KaramelBytes/physan/internal/utils"
	"github.com/spf13/cobra"
)

var (
	plotLoader     loaderFlags
	plotOutputPath string
	plotWidth      int
	plotHeight     int
)

var plotCmd = &cobra.Command{
	Use:   "plot <file>",
	Short: "Render a scatter plot of the first two numeric columns to PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c := currentConfig()
		opt, err := plotLoader.options(cmd)
		if err != nil {
			return err
		}
		t, err := dataset.Load(path, opt)
		if err != nil {
			return friendly(err)
		}
		series, err := analysis.SelectPlotSeries(t)
		if err != nil {
			return friendly(err)
		}
		po := c.PlotOptions()
		if plotWidth > 0 {
			po.Width = plotWidth
		}
		if plotHeight > 0 {
			po.Height = plotHeight
		}
		out := plotOutputPath
		if out == "" {
			out = utils.DerivedPath(path, c.OutputDir, "_scatter.png")
		}
		return friendly(writeScatter(cmd.OutOrStdout(), series, po, out))
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotLoader.register(plotCmd.Flags())
	plotCmd.Flags().StringVarP(&plotOutputPath, "output", "o", "", "PNG path (default <output_dir>/<name>_scatter.png)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 0, "image width in pixels (overrides config)")
	plotCmd.Flags().IntVar(&plotHeight, "height", 0, "image height in pixels (overrides config)")
}
