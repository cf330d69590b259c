// Package session holds the per-user state between pipeline calls and
// reports every outcome to a Presenter.
package session

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/KaramelBytes/physan/internal/analysis"
	"github.com/KaramelBytes/physan/internal/dataset"
)

// ErrNoData is returned by actions that need a table before one is imported.
var ErrNoData = errors.New("no data imported")

// Presenter receives the results of session actions. Implementations
// render them; they never call back into the pipeline.
type Presenter interface {
	OnImport(t *dataset.Table)
	OnAnalyze(r *analysis.Report)
	OnDescribe(s *analysis.Summary)
	OnVisualize(s *analysis.Series)
	OnError(action string, err error)
}

// Options configures a Session.
type Options struct {
	Loader  dataset.Options
	Metrics []analysis.Metric
	Logger  *slog.Logger
}

// Session owns at most one Table. A successful import replaces it; a failed
// one leaves it untouched. Methods are safe for concurrent use.
type Session struct {
	ID string

	mu      sync.Mutex
	table   *dataset.Table
	p       Presenter
	loader  dataset.Options
	metrics []analysis.Metric
	log     *slog.Logger
}

// New creates a session reporting to p. Without configured metrics it
// requests mean, min and max.
func New(p Presenter, opt Options) *Session {
	id := uuid.NewString()
	log := opt.Logger
	if log == nil {
		log = slog.Default()
	}
	metrics := opt.Metrics
	if len(metrics) == 0 {
		metrics = []analysis.Metric{analysis.MetricMean, analysis.MetricMin, analysis.MetricMax}
	}
	return &Session{
		ID:      id,
		p:       p,
		loader:  opt.Loader,
		metrics: metrics,
		log:     log.With(slog.String("component", "session"), slog.String("session_id", id)),
	}
}

// Table returns the current table, or nil before the first import.
func (s *Session) Table() *dataset.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// Import loads path and makes it the current table.
func (s *Session) Import(path string) error {
	t, err := dataset.Load(path, s.loader)
	if err != nil {
		return s.fail("import", err, slog.String("path", path))
	}
	s.mu.Lock()
	s.table = t
	s.mu.Unlock()
	s.log.Info("imported", slog.String("path", path), slog.Int("rows", t.Rows()), slog.Int("columns", len(t.Columns)))
	s.p.OnImport(t)
	return nil
}

// Analyze computes metrics over the current table. With no arguments the
// session's default metrics are used.
func (s *Session) Analyze(metrics ...analysis.Metric) error {
	t, err := s.current()
	if err != nil {
		return s.fail("analyze", err)
	}
	if len(metrics) == 0 {
		metrics = s.metrics
	}
	r, err := analysis.Analyze(t, metrics)
	if err != nil {
		return s.fail("analyze", err)
	}
	s.log.Debug("analyzed", slog.Int("columns", len(r.Columns)), slog.Int("metrics", len(r.Metrics)))
	s.p.OnAnalyze(r)
	return nil
}

// Describe summarizes the numeric columns of the current table.
func (s *Session) Describe() error {
	t, err := s.current()
	if err != nil {
		return s.fail("describe", err)
	}
	sum, err := analysis.Describe(t)
	if err != nil {
		return s.fail("describe", err)
	}
	s.p.OnDescribe(sum)
	return nil
}

// Visualize selects the plot series of the current table.
func (s *Session) Visualize() error {
	t, err := s.current()
	if err != nil {
		return s.fail("visualize", err)
	}
	series, err := analysis.SelectPlotSeries(t)
	if err != nil {
		return s.fail("visualize", err)
	}
	s.log.Debug("series selected", slog.String("x", series.XLabel), slog.String("y", series.YLabel), slog.Int("points", series.Len()))
	s.p.OnVisualize(series)
	return nil
}

func (s *Session) current() (*dataset.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil, ErrNoData
	}
	return s.table, nil
}

func (s *Session) fail(action string, err error, attrs ...any) error {
	args := append([]any{slog.String("action", action), slog.Any("error", err)}, attrs...)
	s.log.Warn("action failed", args...)
	s.p.OnError(action, err)
	return err
}
