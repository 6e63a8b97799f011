package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// MaxLineSize is the longest line the file scanner accepts.
const MaxLineSize = 1024 * 1024

// ErrInvalidUTF8 is reported when a marker line is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("line is not valid UTF-8")

// FileScanner applies the marker pattern to every line of a file.
type FileScanner struct {
	matcher    *Matcher
	classifier *Classifier
}

// NewFileScanner creates a FileScanner using the given classifier.
func NewFileScanner(classifier *Classifier) *FileScanner {
	return &FileScanner{
		matcher:    NewMatcher(),
		classifier: classifier,
	}
}

// ScanFile scans a single file. The returned Result has FilesSearched set to
// zero; counting files is the caller's concern.
func (s *FileScanner) ScanFile(path string) (*Result, error) {
	f, err := os.Open(path) // #nosec G304 -- walking user-provided trees is the point
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.ScanReader(path, f)
}

// ScanReader scans r as the content of the file named path.
func (s *FileScanner) ScanReader(path string, r io.Reader) (*Result, error) {
	result := &Result{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		m, ok := s.matcher.MatchLine(line)
		if !ok {
			continue
		}
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("line %d: %w", lineNum, ErrInvalidUTF8)
		}

		item := s.classifier.Classify(path, lineNum, m)
		result.Items = append(result.Items, item)
		result.Statistics.record(item.State)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
