package cmd

import (
	"github.com/KaramelBytes/physan/internal/analysis"
	"github.com/KaramelBytes/physan/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	descLoader     loaderFlags
	descFormat     string
	descOutputPath string
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Summarize numeric columns: count, mean, std, min, quartiles, max",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := descLoader.options(cmd)
		if err != nil {
			return err
		}
		t, err := dataset.Load(args[0], opt)
		if err != nil {
			return friendly(err)
		}
		sum, err := analysis.Describe(t)
		if err != nil {
			return friendly(err)
		}
		body, err := render(sum, descFormat)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), body, descOutputPath, "summary")
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	descLoader.register(describeCmd.Flags())
	describeCmd.Flags().StringVarP(&descFormat, "format", "f", "text", "output format: text | markdown | json")
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "optional path to write the summary")
}
