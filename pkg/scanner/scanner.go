package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Options are the per-call inputs of a tree scan.
type Options struct {
	// Root is the directory (or single file) to scan.
	Root string

	// NoIgnore disables hidden-file and standard ignore-file rules. The
	// tool-specific ignore file is still honored.
	NoIgnore bool

	// Pattern is the glob a file's path or name must match. Empty means "*".
	Pattern string

	// Location is the fixed UTC offset dates are evaluated in. Nil means UTC.
	Location *time.Location
}

// Logger is the subset of a leveled logger the scanner writes to.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(interface{}, ...interface{}) {}
func (nopLogger) Warn(interface{}, ...interface{})  {}

// Scanner walks directory trees looking for todo markers.
type Scanner struct {
	now    func() time.Time
	logger Logger
}

// Option configures scanner behavior.
type Option func(*Scanner)

// WithNow fixes the reference instant used to decide whether a todo is
// overdue. By default the wall clock is read once per scan.
func WithNow(t time.Time) Option {
	return func(s *Scanner) {
		s.now = func() time.Time { return t }
	}
}

// WithLogger sets the logger for walk and per-file diagnostics.
func WithLogger(l Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		now:    time.Now,
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks opts.Root and returns every todo found in eligible files.
//
// An invalid pattern or an inaccessible root fails the scan. Files that
// cannot be read are recorded in Result.Errors and the walk continues.
func (s *Scanner) Scan(ctx context.Context, opts Options) (*Result, error) {
	filter, err := NewNameFilter(opts.Pattern)
	if err != nil {
		return nil, err
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("accessing root %s: %w", root, err)
	}

	classifier := NewClassifier(opts.Location, s.now())
	files := NewFileScanner(classifier)
	policy := NewIgnorePolicy(root, opts.NoIgnore)

	result := &Result{}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == root {
				return err
			}
			s.logger.Warn("cannot read path", "path", path, "err", err)
			result.Errors = append(result.Errors, &FileError{Path: path, Err: err})
			return nil
		}

		rel := relativePath(root, path)

		if d.IsDir() {
			if policy.Ignored(rel, true) {
				s.logger.Debug("skipping ignored directory", "path", path)
				return filepath.SkipDir
			}
			for _, ferr := range policy.EnterDir(rel) {
				s.logger.Warn("cannot read ignore file", "path", ferr.Path, "err", ferr.Err)
				result.Errors = append(result.Errors, ferr)
			}
			return nil
		}

		if !s.eligible(policy, filter, path, rel, d) {
			return nil
		}

		fileResult, err := files.ScanFile(path)
		if err != nil {
			s.logger.Warn("cannot scan file", "path", path, "err", err)
			fileResult = &Result{Errors: []*FileError{{Path: path, Err: err}}}
		} else {
			s.logger.Debug("scanned file",
				"path", path,
				"valid", fileResult.Statistics.ValidCount,
				"overdue", fileResult.Statistics.OverdueCount,
				"malformed", fileResult.Statistics.MalformedCount)
		}
		fileResult.Statistics.FilesSearched = 1

		result.Combine(fileResult)
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		return nil, fmt.Errorf("walking %s: %w", root, walkErr)
	}

	return result, nil
}

// eligible applies the file-level rules: regular file, not ignored, not the
// ignore-marker file, and matching the name filter.
func (s *Scanner) eligible(policy *IgnorePolicy, filter *NameFilter, path, rel string, d fs.DirEntry) bool {
	if !d.Type().IsRegular() {
		return false
	}

	if d.Name() == IgnoreFileName {
		return false
	}

	if policy.Ignored(rel, false) {
		s.logger.Debug("skipping ignored file", "path", path)
		return false
	}

	matchPath := rel
	if matchPath == "" {
		matchPath = d.Name()
	}
	if !filter.Match(matchPath) {
		s.logger.Debug("skipping file not matching pattern", "path", path, "pattern", filter.Pattern())
		return false
	}

	return true
}

// relativePath returns path relative to root in slash form; "" for the root.
func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// Scan is a convenience wrapper running a default Scanner.
func Scan(ctx context.Context, opts Options) (*Result, error) {
	return New().Scan(ctx, opts)
}
