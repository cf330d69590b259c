package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/physan/internal/analysis"
	"github.com/KaramelBytes/physan/internal/dataset"
	"github.com/KaramelBytes/physan/internal/logging"
)

type recorder struct {
	imports  []*dataset.Table
	reports  []*analysis.Report
	sums     []*analysis.Summary
	series   []*analysis.Series
	failures []string
	errs     []error
}

func (r *recorder) OnImport(t *dataset.Table) { r.imports = append(r.imports, t) }
func (r *recorder) OnAnalyze(rep *analysis.Report) { r.reports = append(r.reports, rep) }
func (r *recorder) OnDescribe(s *analysis.Summary) { r.sums = append(r.sums, s) }
func (r *recorder) OnVisualize(s *analysis.Series) { r.series = append(r.series, s) }
func (r *recorder) OnError(action string, err error) {
	r.failures = append(r.failures, action)
	r.errs = append(r.errs, err)
}

func newSession(t *testing.T, metrics ...analysis.Metric) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	return New(rec, Options{Loader: dataset.DefaultOptions(), Metrics: metrics, Logger: logging.Discard()}), rec
}

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestSession_ActionsBeforeImport(t *testing.T) {
	s, rec := newSession(t)
	assert.Nil(t, s.Table())
	for _, act := range []func() error{func() error { return s.Analyze() }, s.Describe, s.Visualize} {
		err := act()
		assert.True(t, errors.Is(err, ErrNoData))
	}
	assert.Equal(t, []string{"analyze", "describe", "visualize"}, rec.failures)
	assert.Equal(t, "Please import a CSV file first.", Message(rec.errs[0]))
}

func TestSession_ImportAnalyzeVisualize(t *testing.T) {
	s, rec := newSession(t)
	require.NotEmpty(t, s.ID)
	require.NoError(t, s.Import(write(t, "abc.csv", "a,b,c\n1,2,x\n3,4,y\n5,,z\n")))
	require.Len(t, rec.imports, 1)
	assert.Same(t, rec.imports[0], s.Table())

	require.NoError(t, s.Analyze())
	require.Len(t, rec.reports, 1)
	assert.Equal(t, []analysis.Metric{analysis.MetricMean, analysis.MetricMin, analysis.MetricMax}, rec.reports[0].Metrics)
	assert.Equal(t, map[string]float64{"a": 3, "b": 3}, rec.reports[0].ByColumn(analysis.MetricMean))

	require.NoError(t, s.Analyze(analysis.MetricMedian))
	assert.Equal(t, []analysis.Metric{analysis.MetricMedian}, rec.reports[1].Metrics)

	require.NoError(t, s.Visualize())
	require.Len(t, rec.series, 1)
	assert.Equal(t, []float64{1, 3}, rec.series[0].X)
	assert.Equal(t, []float64{2, 4}, rec.series[0].Y)

	require.NoError(t, s.Describe())
	require.Len(t, rec.sums, 1)
	assert.Empty(t, rec.failures)
}

func TestSession_FailedImportKeepsPriorTable(t *testing.T) {
	s, rec := newSession(t)
	require.NoError(t, s.Import(write(t, "ok.csv", "x,y\n1,2\n")))
	prior := s.Table()

	err := s.Import(filepath.Join(t.TempDir(), "missing.csv"))
	var ioe *dataset.IOError
	require.True(t, errors.As(err, &ioe))
	assert.Same(t, prior, s.Table())

	err = s.Import(write(t, "bad.csv", "x,y\n1,2,3\n"))
	var pe *dataset.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Same(t, prior, s.Table())

	assert.Equal(t, []string{"import", "import"}, rec.failures)
	assert.Contains(t, Message(rec.errs[0]), "Error loading file")
}

func TestSession_PipelineErrors(t *testing.T) {
	s, rec := newSession(t, analysis.MetricStd)
	require.NoError(t, s.Import(write(t, "text.csv", "name\nfoo\n")))

	assert.True(t, errors.Is(s.Analyze(), analysis.ErrEmptyNumericSet))
	assert.True(t, errors.Is(s.Visualize(), analysis.ErrInsufficientColumns))
	assert.Equal(t, "No numeric columns found for analysis.", Message(rec.errs[0]))
	assert.Equal(t, "Not enough numeric data to plot.", Message(rec.errs[1]))
}

func TestMessage(t *testing.T) {
	assert.Empty(t, Message(nil))
	assert.Equal(t, "Unexpected error: boom", Message(errors.New("boom")))
	assert.Equal(t, "Select at least one metric.", Message(analysis.ErrNoMetrics))
}
