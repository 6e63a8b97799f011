package output

import (
	"context"
	"fmt"
	"io"
)

// Formatter renders scan reports in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json, csv).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Mode selects how much per-item detail the text format prints.
	Mode DisplayMode

	// Color enables ANSI colors in the text format.
	Color bool

	// Width is the terminal width used for separators. Zero means DefaultWidth.
	Width int
}

// Format names a report format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name. An empty name means text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatCSV:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid format %q (must be text, json, or csv)", s)
	}
}

// NewFormatter returns the formatter for format.
func NewFormatter(format Format, opts FormatOptions) (Formatter, error) {
	switch format {
	case "", FormatText:
		return NewTextFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	case FormatCSV:
		return NewCSVFormatter(opts), nil
	default:
		return nil, fmt.Errorf("invalid format %q (must be text, json, or csv)", format)
	}
}
