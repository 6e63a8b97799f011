package output

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
)

// CSVHeader is the first row written by CSVFormatter.
var CSVHeader = []string{"file", "line", "state", "date", "description"}

// CSVFormatter writes one row per item.
type CSVFormatter struct {
	opts FormatOptions
}

// NewCSVFormatter creates a CSV formatter.
func NewCSVFormatter(opts FormatOptions) *CSVFormatter {
	return &CSVFormatter{opts: opts}
}

// Name returns the format name.
func (f *CSVFormatter) Name() string {
	return "csv"
}

// Format renders every item of the report, regardless of display mode.
func (f *CSVFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	for i := range report.Items {
		item := &report.Items[i]
		if err := cw.Write([]string{
			item.File,
			strconv.Itoa(item.LineNum),
			string(item.State),
			item.DateString(),
			item.Description,
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
