package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/physan/internal/analysis"
	"github.com/KaramelBytes/physan/internal/dataset"
)

// resetFlags restores every flag to its default so bound variables do not
// leak between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)
	cfg = nil
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeData(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

const abcCSV = "a,b,c\n1,2,x\n3,4,y\n5,,z\n"

func TestAnalyze_DefaultMetrics(t *testing.T) {
	p := writeData(t, t.TempDir(), "abc.csv", abcCSV)
	out, err := execute(t, "", "analyze", p)
	require.NoError(t, err)
	assert.Contains(t, out, "File: abc.csv")
	assert.Contains(t, out, "mean")
	assert.Contains(t, out, "minimum")
	assert.Contains(t, out, "maximum")
	assert.NotContains(t, out, "median")
}

func TestAnalyze_JSONToFile(t *testing.T) {
	dir := t.TempDir()
	p := writeData(t, dir, "abc.csv", abcCSV)
	target := filepath.Join(dir, "reports", "abc.json")
	out, err := execute(t, "", "analyze", p, "--metrics", "median,std", "--format", "json", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Wrote analysis to")

	b, err := os.ReadFile(target)
	require.NoError(t, err)
	var got struct {
		Columns []string              `json:"columns"`
		Metrics []string              `json:"metrics"`
		Values  map[string][]*float64 `json:"values"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, []string{"a", "b"}, got.Columns)
	assert.Equal(t, []string{"median", "std"}, got.Metrics)
	assert.Equal(t, 3.0, *got.Values["median"][1])
}

func TestAnalyze_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "", "analyze", filepath.Join(dir, "missing.csv"))
	var ioe *dataset.IOError
	require.True(t, errors.As(err, &ioe), "want IOError, got %v", err)
	assert.True(t, strings.HasPrefix(err.Error(), "Error loading file"))

	bad := writeData(t, dir, "bad.csv", "a,b\n1,2,3\n")
	_, err = execute(t, "", "analyze", bad)
	var pe *dataset.ParseError
	require.True(t, errors.As(err, &pe))

	text := writeData(t, dir, "text.csv", "name\nfoo\n")
	_, err = execute(t, "", "analyze", text)
	assert.True(t, errors.Is(err, analysis.ErrEmptyNumericSet))
	assert.Equal(t, "No numeric columns found for analysis.", err.Error())

	_, err = execute(t, "", "analyze", text, "--metrics", "mode")
	assert.True(t, errors.Is(err, analysis.ErrUnknownMetric))

	_, err = execute(t, "", "analyze", writeData(t, dir, "ok.csv", abcCSV), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported --format")
}

func TestDescribe(t *testing.T) {
	p := writeData(t, t.TempDir(), "abc.csv", abcCSV)
	out, err := execute(t, "", "describe", p)
	require.NoError(t, err)
	for _, want := range []string{"count", "25%", "50%", "75%", "std"} {
		assert.Contains(t, out, want)
	}

	out, err = execute(t, "", "describe", p, "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "[DATASET SUMMARY]")
}

func TestPlot(t *testing.T) {
	dir := t.TempDir()
	p := writeData(t, dir, "abc.csv", abcCSV)
	target := filepath.Join(dir, "scatter.png")
	out, err := execute(t, "", "plot", p, "-o", target, "--width", "320", "--height", "240")
	require.NoError(t, err)
	assert.Contains(t, out, "a vs b (2 points)")
	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))

	one := writeData(t, dir, "one.csv", "a,c\n1,x\n")
	_, err = execute(t, "", "plot", one, "-o", filepath.Join(dir, "none.png"))
	assert.True(t, errors.Is(err, analysis.ErrInsufficientColumns))
	_, statErr := os.Stat(filepath.Join(dir, "none.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPlot_InfiniteCellsAreSkipped(t *testing.T) {
	dir := t.TempDir()
	p := writeData(t, dir, "inf.csv", "x,y\n1,2\ninf,3\n2,4\n")
	target := filepath.Join(dir, "inf.png")
	out, err := execute(t, "", "plot", p, "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "x vs y (2 points)")

	hist := filepath.Join(dir, "inf_hist.png")
	out, err = execute(t, "", "column", p, "x", "--histogram", hist)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote histogram of x")
}

func TestColumn(t *testing.T) {
	dir := t.TempDir()
	p := writeData(t, dir, "abc.csv", abcCSV)
	hist := filepath.Join(dir, "hist.png")
	out, err := execute(t, "", "column", p, "a", "--histogram", hist, "--bins", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "median")
	assert.Contains(t, out, "standard-deviation")
	assert.Contains(t, out, "4 bins")
	_, err = os.Stat(hist)
	require.NoError(t, err)

	_, err = execute(t, "", "column", p, "c")
	assert.True(t, errors.Is(err, analysis.ErrNotNumeric))
	_, err = execute(t, "", "column", p, "zz")
	assert.True(t, errors.Is(err, analysis.ErrColumnNotFound))
}

func TestAnalyzeBatch_ContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	writeData(t, dir, "a1.csv", abcCSV)
	writeData(t, dir, "a2.csv", "name\nfoo\n")
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "", "analyze-batch", filepath.Join(dir, "a*.csv"), "--output-dir", outDir, "--format", "markdown")
	require.Error(t, err)
	assert.Equal(t, "1 of 2 files failed", err.Error())
	assert.Contains(t, out, "[1/2] Processing a1.csv...")
	assert.Contains(t, out, "[2/2] Processing a2.csv...")
	assert.Contains(t, out, "⚠ a2.csv: No numeric columns found for analysis.")

	b, err := os.ReadFile(filepath.Join(outDir, "a1.stats.md"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "[RESULTS]")

	_, err = execute(t, "", "analyze-batch", filepath.Join(dir, "nothing*.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files matched")
}

func TestShell_Session(t *testing.T) {
	dir := t.TempDir()
	p := writeData(t, dir, "abc.csv", abcCSV)
	png := filepath.Join(dir, "s.png")
	script := strings.Join([]string{
		"analyze",
		"import " + filepath.Join(dir, "missing.csv"),
		"import " + p,
		"columns",
		"analyze median",
		"describe",
		"visualize " + png,
		"frobnicate",
		"quit",
		"analyze",
	}, "\n") + "\n"

	out, err := execute(t, script, "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "✗ analyze: Please import a CSV file first.")
	assert.Contains(t, out, "✗ import: Error loading file")
	assert.Contains(t, out, "✓ Imported abc.csv: 3 rows, 3 columns (2 numeric)")
	assert.Contains(t, out, "numeric (missing 1)")
	assert.Contains(t, out, "median")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "✓ Wrote scatter plot a vs b (2 points)")
	assert.Contains(t, out, `unknown command "frobnicate"`)
	assert.Equal(t, 1, strings.Count(out, "analyze"), "commands after quit must not run")

	_, err = os.Stat(png)
	require.NoError(t, err)
}

func TestShell_ImportKeepsPathSpacing(t *testing.T) {
	dir := t.TempDir()
	p := writeData(t, dir, "my  data.csv", abcCSV)
	writeData(t, dir, "my data.csv", "name\nfoo\n")

	out, err := execute(t, "import "+p+"\nanalyze\n", "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Imported my  data.csv: 3 rows, 3 columns (2 numeric)")
	assert.Contains(t, out, "Columns: [a, b, c]")
	assert.Contains(t, out, "maximum")
	assert.NotContains(t, out, "✗")
}

func TestConfig_SetAndShow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "physan.yaml")
	out, err := execute(t, "", "--config", cfgPath, "config", "set", "default_metrics", "median,max")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Saved config")

	out, err = execute(t, "", "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_metrics: median,max")
	assert.Contains(t, out, "plot_width: 800")

	_, err = execute(t, "", "--config", cfgPath, "config", "set", "plot_width", "5")
	require.Error(t, err)

	p := writeData(t, t.TempDir(), "abc.csv", abcCSV)
	out, err = execute(t, "", "--config", cfgPath, "analyze", p)
	require.NoError(t, err)
	assert.Contains(t, out, "median")
	assert.NotContains(t, out, "mean")
}
