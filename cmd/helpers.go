package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/physan/internal/dataset"
	"github.com/KaramelBytes/physan/internal/session"
	"github.com/KaramelBytes/physan/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// loaderFlags are the per-command overrides of the loader configuration.
type loaderFlags struct {
	delimiter string
	decimal   string
	thousands string
	padShort  bool
	maxRows   int
	sheetName string
	sheetIdx  int
}

func (l *loaderFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&l.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (overrides config)")
	fs.StringVar(&l.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	fs.StringVar(&l.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	fs.BoolVar(&l.padShort, "pad-short-rows", false, "treat missing trailing fields as empty instead of failing")
	fs.IntVar(&l.maxRows, "max-rows", 0, "maximum rows to load (0 = unlimited)")
	fs.StringVar(&l.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	fs.IntVar(&l.sheetIdx, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// options merges config with any flags set on cmd.
func (l *loaderFlags) options(cmd *cobra.Command) (dataset.Options, error) {
	opt, err := currentConfig().LoaderOptions()
	if err != nil {
		return opt, err
	}
	f := cmd.Flags()
	if f.Changed("delimiter") {
		switch strings.ToLower(l.delimiter) {
		case ",":
			opt.Delimiter = ','
		case ";":
			opt.Delimiter = ';'
		case "\t", "tab":
			opt.Delimiter = '\t'
		case "|":
			opt.Delimiter = '|'
		default:
			return opt, fmt.Errorf("unsupported --delimiter: %s", l.delimiter)
		}
	}
	if f.Changed("decimal") {
		switch strings.ToLower(strings.TrimSpace(l.decimal)) {
		case ",", "comma":
			opt.DecimalSeparator = ','
		case ".", "dot":
			opt.DecimalSeparator = '.'
		default:
			return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", l.decimal)
		}
	}
	if f.Changed("thousands") {
		switch strings.ToLower(l.thousands) {
		case ",":
			opt.ThousandsSeparator = ','
		case ".":
			opt.ThousandsSeparator = '.'
		case "space", " ":
			opt.ThousandsSeparator = ' '
		default:
			return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", l.thousands)
		}
	}
	if f.Changed("pad-short-rows") {
		opt.PadShortRows = l.padShort
	}
	if l.maxRows > 0 {
		opt.MaxRows = l.maxRows
	}
	opt.Sheet = l.sheetName
	if l.sheetIdx > 0 {
		opt.SheetIndex = l.sheetIdx
	}
	return opt, nil
}

// userError carries the user-facing text of a pipeline error while keeping
// the wrapped error for errors.Is/As.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

func friendly(err error) error {
	if err == nil {
		return nil
	}
	return &userError{msg: session.Message(err), err: err}
}

// renderer is implemented by reports and summaries.
type renderer interface {
	Text() string
	Markdown() string
	JSON() ([]byte, error)
}

func render(r renderer, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return r.Text(), nil
	case "markdown", "md":
		return r.Markdown(), nil
	case "json":
		b, err := r.JSON()
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	}
	return "", fmt.Errorf("unsupported --format: %s (use text|markdown|json)", format)
}

// emit writes body to path when set, else to out.
func emit(out io.Writer, body, path, what string) error {
	if path == "" {
		fmt.Fprint(out, body)
		return nil
	}
	if err := utils.SafeWriteFile(path, []byte(body)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(out, "✓ Wrote %s to %s\n", what, path)
	return nil
}
