package dateline

import (
	"errors"
	"log/slog"
	"time"
)

// ErrNoTimestamp reports that a line carries no recognizable timestamp.
// It is a not-found result, not a hard failure.
var ErrNoTimestamp = errors.New("no timestamp found")

// Plausibility window defaults. A parsed timestamp further in the past
// or future than these is rejected and the search continues.
const (
	DefaultPastWindow   = 215308800 * time.Second // ~6.8 years
	DefaultFutureWindow = 86401 * time.Second     // 1 day + 1 second
)

// Alignment breaks ties between equally long candidate timestamps.
type Alignment int

const (
	AlignLeft  Alignment = iota // prefer the earliest match in the line
	AlignRight                  // prefer the latest match in the line
)

// Match is a timestamp located in a line.
type Match struct {
	Time       time.Time
	Text       string // the matched substring
	Start, End int    // byte offsets of Text within the line
	FormatName string
	Layout     string
	Attempts   int  // formats tried before this one matched; 0 on a cache hit
	CacheHit   bool // true when the memoized format was reused
}

// ScanStats counts scanner activity. The Attempts counter is the
// observable that shows the cache working: repeated line shapes add
// nothing to it.
type ScanStats struct {
	Lines     int
	Found     int
	Attempts  int
	CacheHits int
}

// Scanner locates timestamps in lines of text. It tries an ordered
// format table and optionally memoizes the winning format per line
// shape. A Scanner is meant for sequential use; share the Cache, not
// the Scanner, across goroutines.
type Scanner struct {
	formats       []*Format
	byName        map[string]*Format
	cache         *Cache
	pastWindow    time.Duration
	futureWindow  time.Duration
	now           func() time.Time
	preferLongest bool
	alignment     Alignment
	logger        *slog.Logger

	stats ScanStats
}

// Option configures the Scanner.
type Option func(*Scanner)

// WithFormats replaces the format table. Formats are tried in order.
func WithFormats(formats []*Format) Option {
	return func(s *Scanner) {
		if len(formats) > 0 {
			s.formats = formats
		}
	}
}

// WithCache attaches a format-memoization cache. The cache lifecycle
// stays with the caller: the scanner only reads and stores entries.
func WithCache(c *Cache) Option {
	return func(s *Scanner) {
		s.cache = c
	}
}

// WithPastWindow sets how far in the past a timestamp may lie before
// it is rejected as implausible. Zero disables the check.
func WithPastWindow(d time.Duration) Option {
	return func(s *Scanner) {
		s.pastWindow = d
	}
}

// WithFutureWindow sets how far in the future a timestamp may lie
// before it is rejected as implausible. Zero disables the check.
func WithFutureWindow(d time.Duration) Option {
	return func(s *Scanner) {
		s.futureWindow = d
	}
}

// WithNow injects the clock used for plausibility checks and for
// adopting the reference year on year-less layouts.
func WithNow(now func() time.Time) Option {
	return func(s *Scanner) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPreferLongest makes the scanner try every format and pick the
// candidate with the longest matched text instead of stopping at the
// first success.
func WithPreferLongest(prefer bool) Option {
	return func(s *Scanner) {
		s.preferLongest = prefer
	}
}

// WithAlignment sets the tie-break between equally long candidates.
// Only meaningful together with WithPreferLongest.
func WithAlignment(a Alignment) Option {
	return func(s *Scanner) {
		s.alignment = a
	}
}

// WithLogger enables debug traces of the format search. A nil logger
// keeps the scanner quiet.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// New creates a Scanner with the default format table and plausibility
// windows.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		formats:      DefaultFormats(),
		pastWindow:   DefaultPastWindow,
		futureWindow: DefaultFutureWindow,
		now:          time.Now,
		alignment:    AlignLeft,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.byName = make(map[string]*Format, len(s.formats))
	for _, f := range s.formats {
		s.byName[f.Name] = f
	}
	return s
}

// ScanLine locates a timestamp in one line. When no format matches it
// returns ErrNoTimestamp.
func (s *Scanner) ScanLine(line string) (*Match, error) {
	s.stats.Lines++

	var sig string
	if s.cache != nil {
		sig = Signature(line)
		if name, ok := s.cache.Lookup(sig); ok {
			if f := s.byName[name]; f != nil {
				if m := s.tryFormat(f, line); m != nil {
					m.CacheHit = true
					s.stats.CacheHits++
					s.stats.Found++
					if s.logger != nil {
						s.logger.Debug("cache hit", "signature", sig, "format", name)
					}
					return m, nil
				}
			}
			// Stale entry: the shape no longer parses with the cached
			// format. Fall through to the full search and overwrite.
			if s.logger != nil {
				s.logger.Debug("stale cache entry", "signature", sig, "format", name)
			}
		}
	}

	m := s.search(line)
	if m == nil {
		return nil, ErrNoTimestamp
	}

	s.stats.Found++
	if s.cache != nil {
		s.cache.Store(sig, m.FormatName)
	}
	return m, nil
}

// search runs the full ordered format search.
func (s *Scanner) search(line string) *Match {
	attempts := 0

	if !s.preferLongest {
		for _, f := range s.formats {
			attempts++
			if m := s.tryFormat(f, line); m != nil {
				m.Attempts = attempts
				s.stats.Attempts += attempts
				if s.logger != nil {
					s.logger.Debug("format matched", "format", f.Name, "attempts", attempts)
				}
				return m
			}
		}
		s.stats.Attempts += attempts
		return nil
	}

	// Exhaustive mode: collect every plausible candidate and pick the
	// longest, breaking ties by alignment.
	var best *Match
	for _, f := range s.formats {
		attempts++
		m := s.tryFormat(f, line)
		if m == nil {
			continue
		}
		if best == nil || s.better(m, best) {
			best = m
		}
	}
	s.stats.Attempts += attempts
	if best != nil {
		best.Attempts = attempts
		if s.logger != nil {
			s.logger.Debug("format matched", "format", best.FormatName, "attempts", attempts)
		}
	}
	return best
}

func (s *Scanner) better(m, best *Match) bool {
	if len(m.Text) != len(best.Text) {
		return len(m.Text) > len(best.Text)
	}
	if s.alignment == AlignRight {
		return m.Start > best.Start
	}
	return m.Start < best.Start
}

// tryFormat applies one format to the line. Returns nil when the
// pattern matches nowhere, the layout does not parse, or every
// occurrence falls outside the plausibility windows. A line can carry
// the same format more than once (an old epoch followed by a recent
// one), so a rejected occurrence moves the search forward instead of
// abandoning the format.
func (s *Scanner) tryFormat(f *Format, line string) *Match {
	offset := 0
	for offset <= len(line) {
		loc := f.Pattern.FindStringSubmatchIndex(line[offset:])
		if loc == nil || len(loc) < 4 || loc[2] < 0 {
			return nil
		}

		start, end := offset+loc[2], offset+loc[3]
		text := line[start:end]

		next := offset + loc[1]
		if next <= offset {
			next = offset + 1
		}
		offset = next

		t, ok := parseLayout(text, f.Layout)
		if !ok {
			continue
		}

		now := s.now()

		// Year-less layouts adopt the reference year.
		if t.Year() == 0 {
			t = t.AddDate(now.Year(), 0, 0)
		}

		if s.pastWindow > 0 && now.Sub(t) > s.pastWindow {
			continue
		}
		if s.futureWindow > 0 && t.Sub(now) > s.futureWindow {
			continue
		}

		return &Match{
			Time:       t,
			Text:       text,
			Start:      start,
			End:        end,
			FormatName: f.Name,
			Layout:     f.Layout,
		}
	}
	return nil
}

// Stats returns the counters accumulated so far.
func (s *Scanner) Stats() ScanStats {
	return s.stats
}

// ResetStats zeroes the counters.
func (s *Scanner) ResetStats() {
	s.stats = ScanStats{}
}
