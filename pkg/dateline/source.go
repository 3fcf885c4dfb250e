package dateline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// ScannedLine is a line with its extracted timestamp.
type ScannedLine struct {
	// Raw is the original line content.
	Raw string

	// Time is the timestamp located in the line.
	Time time.Time

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int

	// Match carries the full extraction detail.
	Match *Match
}

// LineSource provides an iterator over timestamped lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next timestamped line.
	// Returns io.EOF when no more lines are available.
	// Lines without a recognizable timestamp are skipped.
	Next(ctx context.Context) (*ScannedLine, error)

	// Close releases any resources held by the source.
	Close() error
}

// LineResult is the outcome of scanning one line of a reader.
type LineResult struct {
	LineNum int
	Raw     string
	Match   *Match // nil when the line carries no timestamp
}

// ScanReader scans every line of r, reporting each line's timestamp
// match (or absence of one).
func (s *Scanner) ScanReader(ctx context.Context, r io.Reader) ([]LineResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size

	var results []LineResult
	lineNum := 0
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		lineNum++
		line := scanner.Text()

		m, err := s.ScanLine(line)
		if err != nil && !IsNotFound(err) {
			return nil, err
		}
		results = append(results, LineResult{LineNum: lineNum, Raw: line, Match: m})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return results, nil
}

// IsNotFound reports whether err is the no-timestamp result.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoTimestamp)
}

// FileSource implements LineSource for reading from files. All files
// share the scanner, so the format cache warms up across them.
type FileSource struct {
	files   []string
	scanner *Scanner

	currentFile    *os.File
	currentScanner *bufio.Scanner
	currentSource  string
	currentLine    int
	fileIndex      int
}

// NewFileSource creates a LineSource that reads from the given files,
// extracting a timestamp from each line with the scanner.
func NewFileSource(files []string, scanner *Scanner) *FileSource {
	return &FileSource{
		files:     files,
		scanner:   scanner,
		fileIndex: -1,
	}
}

// Next returns the next timestamped line.
// Skips lines without a recognizable timestamp.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*ScannedLine, error) {
	for {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// Ensure we have a file open
		if s.currentScanner == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		// Try to read the next line
		if s.currentScanner.Scan() {
			s.currentLine++
			line := s.currentScanner.Text()

			m, err := s.scanner.ScanLine(line)
			if err != nil {
				// Skip lines without timestamps
				continue
			}

			return &ScannedLine{
				Raw:     line,
				Time:    m.Time,
				Source:  s.currentSource,
				LineNum: s.currentLine,
				Match:   m,
			}, nil
		}

		// Check for scanner error
		if err := s.currentScanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.currentSource, err)
		}

		// Current file exhausted, try next
		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
		s.currentScanner = nil
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening file %s: %w", path, err)
	}

	s.currentFile = f
	s.currentScanner = bufio.NewScanner(f)
	s.currentScanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	s.currentSource = path
	s.currentLine = 0

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.currentFile != nil {
		err := s.currentFile.Close()
		s.currentFile = nil
		s.currentScanner = nil
		return err
	}
	return nil
}
