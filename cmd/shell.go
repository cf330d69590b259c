package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/KaramelBytes/physan/internal/analysis"
	"github.com/KaramelBytes/physan/internal/session"
	"github.com/KaramelBytes/physan/internal/utils"
	"github.com/spf13/cobra"
)

var shellLoader loaderFlags

const shellHelp = `Commands:
  import <file>          load a CSV/TSV/XLSX file, replacing the current data
  analyze [metrics]      statistics for numeric columns (e.g. analyze mean,std)
  describe               count, mean, std, min, quartiles and max per column
  visualize [out.png]    scatter plot of the first two numeric columns
  columns                list columns and their kinds
  help                   show this help
  quit                   leave the shell
`

var shellCmd = &cobra.Command{
	Use:   "shell [file]",
	Short: "Interactive session: import once, then analyze, describe and plot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := shellLoader.options(cmd)
		if err != nil {
			return err
		}
		c := currentConfig()
		metrics, err := c.Metrics()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		p := &textPresenter{out: out, plotOpt: c.PlotOptions()}
		s := session.New(p, session.Options{Loader: opt, Metrics: metrics, Logger: logger})
		logger.Debug("shell started", slog.String("component", "shell"), slog.String("session_id", s.ID))

		if len(args) == 1 {
			_ = s.Import(args[0])
		}
		runShell(cmd.InOrStdin(), out, s, p, c.OutputDir)
		return nil
	},
}

// runShell reads commands from in until EOF or quit. Action errors are
// reported through the presenter and never end the loop.
func runShell(in io.Reader, out io.Writer, s *session.Session, p *textPresenter, outputDir string) {
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, "physan> ")
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			if quit := dispatch(line, out, s, p, outputDir); quit {
				return
			}
		}
		fmt.Fprint(out, "physan> ")
	}
	fmt.Fprintln(out)
}

// splitVerb separates the first word of line from the untouched remainder.
func splitVerb(line string) (verb, arg string) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return strings.ToLower(line), ""
	}
	return strings.ToLower(line[:i]), strings.TrimSpace(line[i:])
}

func dispatch(line string, out io.Writer, s *session.Session, p *textPresenter, outputDir string) bool {
	verb, arg := splitVerb(line)
	rest := strings.Fields(arg)
	switch verb {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprint(out, shellHelp)
	case "import", "load":
		if arg == "" {
			fmt.Fprintln(out, "usage: import <file>")
			return false
		}
		_ = s.Import(arg)
	case "analyze":
		metrics, err := analysis.ParseMetrics(rest)
		if err != nil {
			p.OnError("analyze", err)
			return false
		}
		_ = s.Analyze(metrics...)
	case "describe":
		_ = s.Describe()
	case "visualize", "plot":
		p.plotPath = ""
		if arg != "" {
			p.plotPath = arg
		} else if t := s.Table(); t != nil {
			p.plotPath = utils.DerivedPath(t.Name, outputDir, "_scatter.png")
		}
		_ = s.Visualize()
	case "columns", "cols":
		t := s.Table()
		if t == nil {
			p.OnError("columns", session.ErrNoData)
			return false
		}
		for i, c := range t.Columns {
			fmt.Fprintf(out, "%3d  %-24s %s (missing %d)\n", i+1, c.Name, c.Kind, c.Missing())
		}
	default:
		fmt.Fprintf(out, "unknown command %q; type help\n", verb)
	}
	return false
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellLoader.register(shellCmd.Flags())
}
