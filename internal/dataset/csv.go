package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

type csvReader struct{}

func (csvReader) CanRead(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (csvReader) Read(path string, opt Options) (*Table, error) {
	return LoadCSV(path, opt)
}

// LoadCSV reads a delimited file with a header row into a Table.
func LoadCSV(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	t, err := ReadCSV(f, opt)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		var ioe *IOError
		if errors.As(err, &ioe) {
			ioe.Path = path
			return nil, ioe
		}
		return nil, err
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// ReadCSV parses delimited text from r. The first record is the header.
func ReadCSV(r io.Reader, opt Options) (*Table, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	src := &readErrRecorder{r: r}
	cr := csv.NewReader(src)
	cr.Comma = delim
	// Leading-space trimming would swallow empty fields of whitespace-delimited files.
	cr.TrimLeadingSpace = !unicode.IsSpace(delim)
	// Field counts are checked below so short rows can be padded on request.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Err: errors.New("no header row")}
		}
		return nil, classifyCSVError(err, src.err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	ncol := len(header)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, classifyCSVError(err, src.err)
		}
		if len(rec) != ncol {
			line, _ := cr.FieldPos(0)
			if len(rec) > ncol || !opt.PadShortRows {
				return nil, &ParseError{Line: line, Err: fmt.Errorf("expected %d fields, got %d", ncol, len(rec))}
			}
			tmp := make([]string, ncol)
			copy(tmp, rec)
			rec = tmp
		}
		if opt.MaxRows > 0 && len(rows) >= opt.MaxRows {
			continue
		}
		rows = append(rows, rec)
	}
	return NewTable("", header, rows, opt), nil
}

// readErrRecorder remembers the last non-EOF error of the underlying reader
// so read failures can be told apart from csv.Reader's own errors.
type readErrRecorder struct {
	r   io.Reader
	err error
}

func (rr *readErrRecorder) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		rr.err = err
	}
	return n, err
}

// classifyCSVError maps a csv.Reader error to IOError when it came from the
// underlying reader and to ParseError otherwise (malformed quoting, invalid
// delimiter).
func classifyCSVError(err, readErr error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	if readErr != nil && errors.Is(err, readErr) {
		return &IOError{Err: err}
	}
	return &ParseError{Err: err}
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
