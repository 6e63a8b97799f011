// Package scanner finds dated @todo markers in a directory tree and
// classifies each one as valid, overdue, or malformed.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
)

// State classifies a discovered todo.
type State string

const (
	// StateValid is a todo whose due date is today or later.
	StateValid State = "valid"

	// StateOverdue is a todo whose due date is strictly before today.
	StateOverdue State = "overdue"

	// StateMalformed is a todo whose date field is not a YYYY-MM-DD date.
	StateMalformed State = "malformed"
)

// Item is a single @todo marker found in a file.
type Item struct {
	// File is the path of the file as produced by the walk.
	File string `json:"file"`

	// LineNum is the 1-based line number of the marker.
	LineNum int `json:"line"`

	// Date is the due date at midnight in the configured offset.
	// It is nil when State is StateMalformed.
	Date *time.Time `json:"date,omitempty"`

	// Description is the trimmed free text after the marker. For malformed
	// items it explains why the date was rejected instead.
	Description string `json:"description"`

	// State is the classification of the marker.
	State State `json:"state"`
}

// DateString returns the due date as YYYY-MM-DD, or "" for malformed items.
func (i *Item) DateString() string {
	if i.Date == nil {
		return ""
	}
	return i.Date.Format(DateLayout)
}

// Statistics holds aggregate counters for a scan.
type Statistics struct {
	FilesSearched  int `json:"files_searched"`
	ValidCount     int `json:"valid_count"`
	OverdueCount   int `json:"overdue_count"`
	MalformedCount int `json:"malformed_count"`
}

// TodoCount returns the number of well-formed todos (valid + overdue).
func (s Statistics) TodoCount() int {
	return s.ValidCount + s.OverdueCount
}

// Add returns the field-wise sum of two Statistics values.
func (s Statistics) Add(o Statistics) Statistics {
	return Statistics{
		FilesSearched:  s.FilesSearched + o.FilesSearched,
		ValidCount:     s.ValidCount + o.ValidCount,
		OverdueCount:   s.OverdueCount + o.OverdueCount,
		MalformedCount: s.MalformedCount + o.MalformedCount,
	}
}

// record increments the counter matching the item's state.
func (s *Statistics) record(state State) {
	switch state {
	case StateValid:
		s.ValidCount++
	case StateOverdue:
		s.OverdueCount++
	case StateMalformed:
		s.MalformedCount++
	}
}

// FileError records a file that could not be scanned.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason())
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Reason describes the failure without repeating the path.
func (e *FileError) Reason() string {
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) {
		return fmt.Sprintf("%s: %v", pathErr.Op, pathErr.Err)
	}
	return e.Err.Error()
}

// Result is the outcome of scanning a tree (or a single file).
type Result struct {
	// Items are ordered by walk order, then by line within a file.
	Items []Item `json:"items"`

	// Statistics are the aggregate counters for Items.
	Statistics Statistics `json:"statistics"`

	// Errors lists files that were eligible but could not be scanned.
	Errors []*FileError `json:"-"`
}

// Combine folds other into r. Combining is associative, and the counters
// do not depend on the order results are combined in.
func (r *Result) Combine(other *Result) {
	if other == nil {
		return
	}
	r.Items = append(r.Items, other.Items...)
	r.Statistics = r.Statistics.Add(other.Statistics)
	r.Errors = append(r.Errors, other.Errors...)
}

// HasOverdue returns true if any overdue todos were found.
func (r *Result) HasOverdue() bool {
	return r.Statistics.OverdueCount > 0
}

// HasErrors returns true if any file could not be scanned.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Filter returns the items whose state is one of states, preserving order.
func (r *Result) Filter(states ...State) []Item {
	var out []Item
	for _, item := range r.Items {
		for _, s := range states {
			if item.State == s {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
