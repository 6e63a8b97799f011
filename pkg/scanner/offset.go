package scanner

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DefaultOffset is the timezone offset used when none is configured.
const DefaultOffset = "+00:00"

// ErrInvalidOffset is returned for offsets not of the form [+|-]HH:MM.
var ErrInvalidOffset = errors.New("UTC offset does not follow the format [+|-]HH:MM")

var offsetRegexp = regexp.MustCompile(`^(-|\+)([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseOffset parses a fixed UTC offset such as "+05:30" or "-08:00" into a
// location with that offset and no daylight saving rules.
func ParseOffset(s string) (*time.Location, error) {
	groups := offsetRegexp.FindStringSubmatch(s)
	if groups == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}

	// The regex guarantees both fields are small integers.
	hours, _ := strconv.Atoi(groups[2])
	minutes, _ := strconv.Atoi(groups[3])

	seconds := hours*3600 + minutes*60
	if groups[1] == "-" {
		seconds = -seconds
	}

	return time.FixedZone("UTC"+s, seconds), nil
}
