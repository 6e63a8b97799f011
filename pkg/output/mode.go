package output

import (
	"fmt"

	"github.com/ccollicutt/todoci/pkg/scanner"
)

// DisplayMode selects how much per-item detail a text report shows. The
// aggregate counts are identical in every mode.
type DisplayMode int

const (
	// DisplayDefault shows every item.
	DisplayDefault DisplayMode = iota

	// DisplayOverdueOnly shows overdue and malformed items.
	DisplayOverdueOnly

	// DisplayConcise shows the counts only.
	DisplayConcise
)

// ParseDisplayMode parses a display mode name. An empty name means default.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch s {
	case "", "default":
		return DisplayDefault, nil
	case "overdue-only":
		return DisplayOverdueOnly, nil
	case "concise":
		return DisplayConcise, nil
	default:
		return DisplayDefault, fmt.Errorf("invalid display mode %q (must be concise, overdue-only, or default)", s)
	}
}

func (m DisplayMode) String() string {
	switch m {
	case DisplayDefault:
		return "default"
	case DisplayOverdueOnly:
		return "overdue-only"
	case DisplayConcise:
		return "concise"
	default:
		return fmt.Sprintf("DisplayMode(%d)", int(m))
	}
}

// ShowsItem reports whether items in state get a detail block.
func (m DisplayMode) ShowsItem(state scanner.State) bool {
	switch m {
	case DisplayConcise:
		return false
	case DisplayOverdueOnly:
		return state == scanner.StateOverdue || state == scanner.StateMalformed
	default:
		return true
	}
}

// ShowsErrors reports whether files that could not be scanned are listed.
func (m DisplayMode) ShowsErrors() bool {
	return m != DisplayConcise
}
