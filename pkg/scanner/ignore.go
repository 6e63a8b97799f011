package scanner

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// IgnoreFileName is the tool-specific ignore file. It is honored even when
// standard ignores are disabled, and is never scanned itself.
const IgnoreFileName = ".tdignore"

// StandardIgnoreFiles are the per-directory ignore files honored unless
// standard ignores are disabled, lowest precedence first.
var StandardIgnoreFiles = []string{".gitignore", ".ignore"}

// gitExcludePath is the repository-local exclude file, relative to the root.
var gitExcludePath = filepath.Join(".git", "info", "exclude")

// IgnorePolicy decides per walk entry whether ignore rules exclude it.
// Patterns from deeper directories take precedence over shallower ones.
type IgnorePolicy struct {
	root     string
	noIgnore bool

	// patterns in effect for entries inside each directory, keyed by the
	// slash-separated directory path relative to root ("" is the root).
	patterns map[string][]gitignore.Pattern
	matchers map[string]gitignore.Matcher
}

// NewIgnorePolicy creates a policy for the tree at root. When noIgnore is
// set, hidden files and standard ignore files are not honored; the
// tool-specific ignore file always is.
func NewIgnorePolicy(root string, noIgnore bool) *IgnorePolicy {
	return &IgnorePolicy{
		root:     root,
		noIgnore: noIgnore,
		patterns: make(map[string][]gitignore.Pattern),
		matchers: make(map[string]gitignore.Matcher),
	}
}

// IgnoreFiles returns the names of the ignore files this policy reads in
// each directory, lowest precedence first.
func (p *IgnorePolicy) IgnoreFiles() []string {
	if p.noIgnore {
		return []string{IgnoreFileName}
	}
	names := make([]string, 0, len(StandardIgnoreFiles)+1)
	names = append(names, StandardIgnoreFiles...)
	return append(names, IgnoreFileName)
}

// EnterDir loads the ignore files of the directory at relDir. It must be
// called for a directory before any of its entries are checked, and after
// its parent has been entered. Unreadable ignore files are returned, but the
// remaining rules still take effect.
func (p *IgnorePolicy) EnterDir(relDir string) []*FileError {
	var errs []*FileError
	var patterns []gitignore.Pattern

	if relDir == "" {
		if !p.noIgnore {
			excludes, err := readPatterns(filepath.Join(p.root, gitExcludePath), nil)
			if err != nil {
				errs = append(errs, err)
			}
			patterns = append(patterns, excludes...)
		}
	} else {
		patterns = append(patterns, p.patterns[parentDir(relDir)]...)
	}

	domain := splitPath(relDir)
	for _, name := range p.IgnoreFiles() {
		loaded, err := readPatterns(filepath.Join(p.root, filepath.FromSlash(relDir), name), domain)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		patterns = append(patterns, loaded...)
	}

	p.patterns[relDir] = patterns
	p.matchers[relDir] = gitignore.NewMatcher(patterns)
	return errs
}

// Ignored reports whether the entry at relPath (slash-separated, relative to
// root) is excluded. The root itself is never ignored.
func (p *IgnorePolicy) Ignored(relPath string, isDir bool) bool {
	if relPath == "" {
		return false
	}

	if !p.noIgnore && strings.HasPrefix(path.Base(relPath), ".") {
		return true
	}

	matcher, ok := p.matchers[parentDir(relPath)]
	if !ok {
		return false
	}
	return matcher.Match(splitPath(relPath), isDir)
}

// readPatterns parses a gitignore-format file. A missing file yields no
// patterns.
func readPatterns(filename string, domain []string) ([]gitignore.Pattern, *FileError) {
	f, err := os.Open(filename) // #nosec G304 -- ignore files live inside the scanned tree
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &FileError{Path: filename, Err: err}
	}
	defer f.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, domain))
	}
	if err := scanner.Err(); err != nil {
		return nil, &FileError{Path: filename, Err: err}
	}
	return patterns, nil
}

func parentDir(relPath string) string {
	dir := path.Dir(relPath)
	if dir == "." {
		return ""
	}
	return dir
}

func splitPath(relPath string) []string {
	if relPath == "" {
		return nil
	}
	return strings.Split(relPath, "/")
}
