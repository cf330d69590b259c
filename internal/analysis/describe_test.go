package analysis

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	tbl := mustTable(t, "v,label\n1,a\n2,b\n3,c\n4,d\n,e\n")
	s, err := Describe(tbl)
	require.NoError(t, err)
	require.Len(t, s.Columns, 1)

	c := s.Columns[0]
	assert.Equal(t, "v", c.Name)
	assert.Equal(t, 4, c.Count)
	assert.Equal(t, 1, c.Missing)
	assert.Equal(t, 2.5, c.Mean)
	assert.InDelta(t, math.Sqrt(5.0/3.0), c.Std, 1e-12)
	assert.Equal(t, 1.0, c.Min)
	assert.Equal(t, 1.75, c.Q25)
	assert.Equal(t, 2.5, c.Q50)
	assert.Equal(t, 3.25, c.Q75)
	assert.Equal(t, 4.0, c.Max)
	assert.Equal(t, 5, s.Rows)
}

func TestDescribe_NoNumeric(t *testing.T) {
	_, err := Describe(mustTable(t, "x\nfoo\n"))
	assert.True(t, errors.Is(err, ErrEmptyNumericSet))
}

func TestQuantile(t *testing.T) {
	assert.True(t, math.IsNaN(quantile(nil, 0.5)))
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.25))
	assert.Equal(t, 15.0, quantile([]float64{10, 20}, 0.5))
}

func TestSummaryRendering(t *testing.T) {
	s, err := Describe(mustTable(t, "v,w\n1,5\n3,\n"))
	require.NoError(t, err)

	text := s.Text()
	for _, want := range []string{"count", "25%", "75%", "v", "w", "NaN"} {
		assert.Contains(t, text, want)
	}
	assert.Contains(t, s.Markdown(), "[DATASET SUMMARY]")

	b, err := s.JSON()
	require.NoError(t, err)
	var got struct {
		Columns []map[string]any `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	require.Len(t, got.Columns, 2)
	assert.Nil(t, got.Columns[1]["std"], "undefined std should be null")
	assert.Equal(t, 2.0, got.Columns[0]["mean"])
}

func TestReportRendering(t *testing.T) {
	r, err := Analyze(mustTable(t, abc), []Metric{MetricMean, MetricStd})
	require.NoError(t, err)

	text := r.Text()
	assert.NotContains(t, text, "File: ", "unnamed tables have no file line")
	assert.Contains(t, text, "standard-deviation")
	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.True(t, strings.HasPrefix(lines[len(lines)-2], "mean"))

	md := r.Markdown()
	assert.Contains(t, md, "[RESULTS]")
	assert.Contains(t, md, "| column | mean | standard-deviation |")
	assert.Contains(t, md, "| a | 3 | 2 |")

	b, err := r.JSON()
	require.NoError(t, err)
	var got struct {
		Columns []string              `json:"columns"`
		Values  map[string][]*float64 `json:"values"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, []string{"a", "b"}, got.Columns)
	require.Len(t, got.Values["mean"], 2)
	assert.Equal(t, 3.0, *got.Values["mean"][0])
}
