// Package output provides formatting and output generation for scan results.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/todoci/pkg/scanner"
)

// Report is the complete scan output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Items are the discovered todos in walk order.
	Items []scanner.Item `json:"items"`

	// Errors lists files that could not be scanned.
	Errors []ScanError `json:"errors"`

	// Metadata provides context about the scan.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	FilesSearched int `json:"files_searched"`

	// TodoCount is valid plus overdue; malformed todos are counted apart.
	TodoCount      int `json:"todo_count"`
	ValidCount     int `json:"valid_count"`
	OverdueCount   int `json:"overdue_count"`
	MalformedCount int `json:"malformed_count"`
	ErrorCount     int `json:"error_count"`
}

// ScanError is a file that could not be scanned.
type ScanError struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Metadata provides context about the scan run.
type Metadata struct {
	// RunID uniquely identifies the run. NewReport fills it when empty.
	RunID string `json:"run_id"`

	// Root is the scanned path as given.
	Root string `json:"root"`

	// ConfigFile is the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	Pattern        string `json:"pattern"`
	TimezoneOffset string `json:"timezone_offset"`
	NoIgnore       bool   `json:"no_ignore"`

	// ReferenceTime is the instant todos were classified against, in the
	// configured offset. Day differences are computed from it.
	ReferenceTime time.Time `json:"reference_time"`

	// ReferenceDate is the reference day as YYYY-MM-DD. NewReport derives it
	// from ReferenceTime.
	ReferenceDate string `json:"reference_date"`

	// StartedAt is when the scan began.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long the scan took.
	Duration time.Duration `json:"duration_ns"`
}

// NewReport creates a Report from a scan result.
func NewReport(result *scanner.Result, meta Metadata) *Report {
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	meta.ReferenceDate = meta.ReferenceTime.Format(scanner.DateLayout)

	stats := result.Statistics
	report := &Report{
		Items:    make([]scanner.Item, 0, len(result.Items)),
		Errors:   make([]ScanError, 0, len(result.Errors)),
		Metadata: meta,
		Summary: Summary{
			FilesSearched:  stats.FilesSearched,
			TodoCount:      stats.TodoCount(),
			ValidCount:     stats.ValidCount,
			OverdueCount:   stats.OverdueCount,
			MalformedCount: stats.MalformedCount,
			ErrorCount:     len(result.Errors),
		},
	}
	report.Items = append(report.Items, result.Items...)

	for _, fe := range result.Errors {
		report.Errors = append(report.Errors, ScanError{File: fe.Path, Reason: fe.Reason()})
	}

	return report
}

// HasOverdue returns true if any overdue todos were found.
func (r *Report) HasOverdue() bool {
	return r.Summary.OverdueCount > 0
}

// HasErrors returns true if any file could not be scanned.
func (r *Report) HasErrors() bool {
	return r.Summary.ErrorCount > 0
}

// DaysUntil returns the calendar days from the reference day to the item's
// due date, negative when overdue. Malformed items return 0.
func (r *Report) DaysUntil(item *scanner.Item) int {
	if item.Date == nil {
		return 0
	}
	loc := r.Metadata.ReferenceTime.Location()
	return scanner.DaysBetween(
		scanner.StartOfDay(r.Metadata.ReferenceTime, loc),
		scanner.StartOfDay(*item.Date, loc),
	)
}
