package dataset

import (
	"os"
)

// Options controls how files are read into a Table.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// DecimalSeparator and ThousandsSeparator enable locale-aware numbers.
	// Both zero means plain strconv parsing.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// PadShortRows fills rows with fewer fields than the header with missing
	// cells instead of failing.
	PadShortRows bool
	// MaxRows limits the rows kept; 0 means unlimited.
	MaxRows int
	// Sheet and SheetIndex select the XLSX worksheet. SheetIndex is 1-based
	// and used when Sheet is empty.
	Sheet      string
	SheetIndex int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Reader loads one file format into a Table.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// Load reads the file at path with the first registered reader that accepts
// its name, falling back to CSV. Errors are *IOError or *ParseError.
func Load(path string, opt Options) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &IOError{Path: path, Err: errIsDir}
	}
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return LoadCSV(path, opt)
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}
