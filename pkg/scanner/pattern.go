package scanner

import (
	"regexp"
	"strings"
)

// MarkerPattern matches @todo(<date>):<description>.
//   - date: any 10 characters, validated later by the Classifier
//   - description: everything after the "):"
const MarkerPattern = `@todo\((?P<date>.{10})\):(?P<description>.*)`

var markerRegexp = regexp.MustCompile(MarkerPattern)

// Match is the raw capture of a marker line.
type Match struct {
	Date        string
	Description string
}

// Matcher extracts todo markers from single lines.
type Matcher struct {
	pattern *regexp.Regexp
	dateIdx int
	descIdx int
	valid   bool
}

// NewMatcher creates a Matcher for the fixed marker pattern.
func NewMatcher() *Matcher {
	return newMatcher(markerRegexp)
}

func newMatcher(re *regexp.Regexp) *Matcher {
	m := &Matcher{
		pattern: re,
		dateIdx: re.SubexpIndex("date"),
		descIdx: re.SubexpIndex("description"),
	}
	// Exactly two named groups, date first.
	m.valid = re.NumSubexp() == 2 && m.dateIdx == 1 && m.descIdx == 2
	return m
}

// MatchLine returns the marker captured on line. A line that does not
// contain a marker, or a pattern with an unexpected group layout, yields
// ok == false.
func (m *Matcher) MatchLine(line string) (Match, bool) {
	if !m.valid {
		return Match{}, false
	}

	groups := m.pattern.FindStringSubmatch(line)
	if groups == nil {
		return Match{}, false
	}

	return Match{
		Date:        groups[m.dateIdx],
		Description: strings.TrimSpace(groups[m.descIdx]),
	}, true
}
