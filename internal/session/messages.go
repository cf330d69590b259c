package session

import (
	"errors"

	"github.com/KaramelBytes/physan/internal/analysis"
	"github.com/KaramelBytes/physan/internal/dataset"
	"github.com/KaramelBytes/physan/internal/plot"
)

// Message converts an error from any session action into the text shown to
// the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ioe *dataset.IOError
	var pe *dataset.ParseError
	switch {
	case errors.Is(err, ErrNoData):
		return "Please import a CSV file first."
	case errors.As(err, &ioe):
		return "Error loading file: " + ioe.Error()
	case errors.As(err, &pe):
		return "Error loading file: " + pe.Error()
	case errors.Is(err, analysis.ErrEmptyNumericSet):
		return "No numeric columns found for analysis."
	case errors.Is(err, analysis.ErrInsufficientColumns):
		return "Not enough numeric data to plot."
	case errors.Is(err, plot.ErrNoPoints):
		return "No complete rows to plot."
	case errors.Is(err, analysis.ErrNoMetrics):
		return "Select at least one metric."
	case errors.Is(err, analysis.ErrUnknownMetric),
		errors.Is(err, analysis.ErrColumnNotFound),
		errors.Is(err, analysis.ErrNotNumeric):
		return err.Error()
	}
	return "Unexpected error: " + err.Error()
}
