package scanner

import (
	"errors"
	"fmt"
	"path"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

// DefaultPattern matches every file name.
const DefaultPattern = "*"

// ErrInvalidPattern is returned for malformed filename globs.
var ErrInvalidPattern = errors.New("invalid filename pattern")

// NameFilter decides which files are eligible by glob.
type NameFilter struct {
	pattern string
	// anyDepth is compiled without separators, so "*" also matches "/".
	anyDepth glob.Glob
}

// NewNameFilter compiles a filename glob. An empty pattern matches everything.
func NewNameFilter(pattern string) (*NameFilter, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}
	return &NameFilter{pattern: pattern, anyDepth: g}, nil
}

// Pattern returns the glob the filter was built from.
func (f *NameFilter) Pattern() string {
	return f.pattern
}

// Match reports whether the slash-separated path relative to the scan root,
// or its base name, matches the glob. Against the path, wildcards cross
// directory boundaries: "*src*" matches "src/main.rs".
func (f *NameFilter) Match(relPath string) bool {
	if f.anyDepth.Match(relPath) {
		return true
	}
	ok, _ := doublestar.Match(f.pattern, path.Base(relPath))
	return ok
}
