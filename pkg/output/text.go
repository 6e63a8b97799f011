package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ccollicutt/todoci/pkg/scanner"
)

// TextFormatter formats reports as human-readable, optionally colorized text.
type TextFormatter struct {
	opts FormatOptions

	heading   *color.Color
	bold      *color.Color
	overdue   *color.Color
	malformed *color.Color
	due       *color.Color
	label     *color.Color
	errLabel  *color.Color
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}

	f := &TextFormatter{
		opts:      opts,
		heading:   color.New(color.FgHiBlue),
		bold:      color.New(color.Bold),
		overdue:   color.New(color.Bold, color.FgRed),
		malformed: color.New(color.Bold, color.FgYellow),
		due:       color.New(color.FgRed),
		label:     color.New(color.FgCyan),
		errLabel:  color.New(color.Bold, color.FgRed),
	}

	for _, c := range []*color.Color{f.heading, f.bold, f.overdue, f.malformed, f.due, f.label, f.errLabel} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return f
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	f.formatSummary(report, w)

	var shown []*scanner.Item
	for i := range report.Items {
		if f.opts.Mode.ShowsItem(report.Items[i].State) {
			shown = append(shown, &report.Items[i])
		}
	}

	showErrors := f.opts.Mode.ShowsErrors() && len(report.Errors) > 0
	if len(shown) == 0 && !showErrors {
		return nil
	}

	fmt.Fprintln(w, strings.Repeat("-", f.opts.Width))
	fmt.Fprintln(w)

	for _, item := range shown {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.formatItem(report, item, w)
	}

	if showErrors {
		for _, e := range report.Errors {
			f.errLabel.Fprint(w, "ERROR")
			fmt.Fprintf(w, " %s: %s\n", e.File, e.Reason)
		}
	}

	return nil
}

func (f *TextFormatter) formatSummary(report *Report, w io.Writer) {
	s := report.Summary

	f.heading.Fprintf(w, "Searched %d file(s):\n", s.FilesSearched)
	f.bold.Fprintf(w, "%d todo(s) found", s.TodoCount)
	if s.OverdueCount > 0 {
		f.overdue.Fprintf(w, " of which %d is/are overdue", s.OverdueCount)
	}
	fmt.Fprintln(w)

	if s.MalformedCount > 0 {
		f.malformed.Fprintf(w, "%d malformed todo(s)\n", s.MalformedCount)
	}
	if s.ErrorCount > 0 {
		f.errLabel.Fprintf(w, "%d file(s) could not be scanned\n", s.ErrorCount)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatItem(report *Report, item *scanner.Item, w io.Writer) {
	location := fmt.Sprintf("%s:%d", item.File, item.LineNum)

	switch item.State {
	case scanner.StateValid:
		f.bold.Fprint(w, "TODO@")
		fmt.Fprintf(w, " %s\n", location)
		f.formatDue(report, item, w)
		f.label.Fprint(w, "  Description:")
		fmt.Fprintf(w, " %s\n", item.Description)
	case scanner.StateOverdue:
		f.overdue.Fprintf(w, "TODO@ %s [overdue]\n", location)
		f.formatDue(report, item, w)
		f.label.Fprint(w, "  Description:")
		fmt.Fprintf(w, " %s\n", item.Description)
	case scanner.StateMalformed:
		f.malformed.Fprintf(w, "TODO@ %s is malformed!\n", location)
		f.due.Fprint(w, "  Description:")
		fmt.Fprintf(w, " %s\n", item.Description)
	}

	fmt.Fprintln(w)
}

func (f *TextFormatter) formatDue(report *Report, item *scanner.Item, w io.Writer) {
	f.due.Fprint(w, "  Due:")
	fmt.Fprintf(w, " %s (%d days)\n", item.DateString(), report.DaysUntil(item))
}
