package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/physan/internal/analysis"
	"github.com/KaramelBytes/physan/internal/dataset"
	"github.com/KaramelBytes/physan/internal/plot"
	"github.com/KaramelBytes/physan/internal/session"
	"github.com/KaramelBytes/physan/internal/utils"
)

// writeScatter renders s as PNG to path and reports the result on out.
func writeScatter(out io.Writer, s *analysis.Series, opt plot.Options, path string) error {
	var buf bytes.Buffer
	if err := plot.RenderScatter(&buf, s, opt); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return err
	}
	logger.Debug("plot written", slog.String("component", "plot"), slog.String("path", path), slog.Int("bytes", buf.Len()))
	fmt.Fprintf(out, "✓ Wrote scatter plot %s vs %s (%d points) to %s\n", s.XLabel, s.YLabel, s.Len(), path)
	return nil
}

// textPresenter prints session results and writes scatter plots to plotPath.
type textPresenter struct {
	out      io.Writer
	plotOpt  plot.Options
	plotPath string
}

func (p *textPresenter) OnImport(t *dataset.Table) {
	fmt.Fprintf(p.out, "✓ Imported %s: %d rows, %d columns (%d numeric)\n",
		t.Name, t.Rows(), len(t.Columns), len(t.NumericColumns()))
	fmt.Fprintf(p.out, "  Columns: [%s]\n", strings.Join(t.ColumnNames(), ", "))
}

func (p *textPresenter) OnAnalyze(r *analysis.Report) {
	fmt.Fprint(p.out, r.Text())
}

func (p *textPresenter) OnDescribe(s *analysis.Summary) {
	fmt.Fprint(p.out, s.Text())
}

func (p *textPresenter) OnVisualize(s *analysis.Series) {
	if err := writeScatter(p.out, s, p.plotOpt, p.plotPath); err != nil {
		p.OnError("visualize", err)
	}
}

func (p *textPresenter) OnError(action string, err error) {
	fmt.Fprintf(p.out, "✗ %s: %s\n", action, session.Message(err))
}
