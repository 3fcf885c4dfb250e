package dateline

import (
	"errors"
	"regexp"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC)
}

func TestScanner_ScanLine_Formats(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantFormat string
		wantTime   time.Time
	}{
		{
			name:       "ISO 8601 at line start",
			line:       "2024-01-15T10:30:00 request completed",
			wantFormat: "ISO 8601",
			wantTime:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:       "ISO 8601 with Z",
			line:       "level=info time=2024-01-15T10:30:00Z msg=done",
			wantFormat: "ISO 8601 with Z (UTC)",
			wantTime:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:       "bracketed datetime mid-line",
			line:       "worker-3 [2024-01-15 10:30:00] task finished",
			wantFormat: "Datetime (space-separated)",
			wantTime:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:       "python logging",
			line:       "2024-01-15 10:30:00,123 INFO starting",
			wantFormat: "Python logging",
			wantTime:   time.Date(2024, 1, 15, 10, 30, 0, 123000000, time.UTC),
		},
		{
			name:       "apache clf",
			line:       `192.168.1.1 - - [15/Jan/2024:10:30:00 +0000] "GET / HTTP/1.1" 200`,
			wantFormat: "Apache/NGINX CLF",
			wantTime:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:       "unix seconds",
			line:       "1705315800 application started",
			wantFormat: "Unix timestamp (seconds)",
			wantTime:   time.Unix(1705315800, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithNow(fixedNow))
			m, err := s.ScanLine(tt.line)
			if err != nil {
				t.Fatalf("ScanLine() failed: %v", err)
			}
			if m.FormatName != tt.wantFormat {
				t.Errorf("Format = %q, want %q", m.FormatName, tt.wantFormat)
			}
			if !m.Time.Equal(tt.wantTime) {
				t.Errorf("Time = %v, want %v", m.Time, tt.wantTime)
			}
			if m.Attempts < 1 {
				t.Errorf("Attempts = %d, want at least 1", m.Attempts)
			}
			if got := tt.line[m.Start:m.End]; got != m.Text {
				t.Errorf("Offsets do not cover matched text: %q vs %q", got, m.Text)
			}
		})
	}
}

func TestScanner_ScanLine_NotFound(t *testing.T) {
	s := New(WithNow(fixedNow))

	_, err := s.ScanLine("no timestamp in this line at all")
	if !errors.Is(err, ErrNoTimestamp) {
		t.Fatalf("Expected ErrNoTimestamp, got %v", err)
	}

	stats := s.Stats()
	if stats.Lines != 1 || stats.Found != 0 {
		t.Errorf("Stats = %+v, want 1 line and 0 found", stats)
	}
}

func TestScanner_ScanLine_YearlessAdoptsReferenceYear(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
	s := New(WithNow(now))

	m, err := s.ScanLine("Jun 14 15:16:01 combo sshd[19939]: session opened")
	if err != nil {
		t.Fatalf("ScanLine() failed: %v", err)
	}
	if m.FormatName != "Syslog (BSD)" {
		t.Errorf("Format = %q, want Syslog (BSD)", m.FormatName)
	}
	if m.Time.Year() != 2024 {
		t.Errorf("Year = %d, want 2024", m.Time.Year())
	}
}

func TestScanner_PlausibilityWindows(t *testing.T) {
	s := New(WithNow(fixedNow))

	// ~19 years before the reference clock: outside the past window.
	if _, err := s.ScanLine("2005-01-15T10:30:00 ancient entry"); !errors.Is(err, ErrNoTimestamp) {
		t.Errorf("Expected implausibly old timestamp to be rejected, got %v", err)
	}

	// Two days ahead: outside the future window.
	if _, err := s.ScanLine("2024-01-18T13:00:00 future entry"); !errors.Is(err, ErrNoTimestamp) {
		t.Errorf("Expected implausibly future timestamp to be rejected, got %v", err)
	}

	// Zero windows disable the checks.
	open := New(WithNow(fixedNow), WithPastWindow(0), WithFutureWindow(0))
	if _, err := open.ScanLine("2005-01-15T10:30:00 ancient entry"); err != nil {
		t.Errorf("Expected old timestamp to pass with windows disabled, got %v", err)
	}
}

func TestScanner_LaterOccurrencePassesWindow(t *testing.T) {
	s := New(WithNow(fixedNow))

	// The first ISO timestamp is implausibly old; the second occurrence
	// of the same format on the line must still be found.
	m, err := s.ScanLine("first seen 2005-01-15T10:30:00, retried 2024-01-15T10:30:00 ok")
	if err != nil {
		t.Fatalf("ScanLine() error = %v", err)
	}
	if m.Text != "2024-01-15T10:30:00" {
		t.Errorf("Text = %q, want the later occurrence", m.Text)
	}
	if want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC); !m.Time.Equal(want) {
		t.Errorf("Time = %v, want %v", m.Time, want)
	}

	// Same with epoch seconds: an old epoch followed by a recent one.
	m, err = s.ScanLine("span 1000000000 1705315800 trace")
	if err != nil {
		t.Fatalf("ScanLine() error = %v", err)
	}
	if m.Text != "1705315800" {
		t.Errorf("Text = %q, want the recent epoch", m.Text)
	}
	if m.Time.Unix() != 1705315800 {
		t.Errorf("Time = %v, want epoch 1705315800", m.Time)
	}
}

func TestScanner_CacheSkipsSearch(t *testing.T) {
	cache := NewCache()
	s := New(WithNow(fixedNow), WithCache(cache))

	first, err := s.ScanLine("2024-01-15 10:30:00 service started")
	if err != nil {
		t.Fatalf("ScanLine() failed: %v", err)
	}
	if first.CacheHit {
		t.Error("First scan should not be a cache hit")
	}
	if first.Attempts == 0 {
		t.Error("First scan should record search attempts")
	}

	attemptsAfterFirst := s.Stats().Attempts

	second, err := s.ScanLine("2024-01-15 10:31:00 service stopped")
	if err != nil {
		t.Fatalf("ScanLine() failed: %v", err)
	}
	if !second.CacheHit {
		t.Error("Second scan of the same shape should hit the cache")
	}
	if second.Attempts != 0 {
		t.Errorf("Attempts on cache hit = %d, want 0", second.Attempts)
	}
	if got := s.Stats().Attempts; got != attemptsAfterFirst {
		t.Errorf("Total attempts grew from %d to %d on a cache hit", attemptsAfterFirst, got)
	}
	if got := s.Stats().CacheHits; got != 1 {
		t.Errorf("CacheHits = %d, want 1", got)
	}
	if cache.Len() != 1 {
		t.Errorf("Cache should hold 1 shape, has %d", cache.Len())
	}
}

func TestScanner_StaleCacheEntryFallsBack(t *testing.T) {
	cache := NewCache()
	line := "2024-01-15 10:30:00 service started"
	cache.Store(Signature(line), "Apache/NGINX CLF")

	s := New(WithNow(fixedNow), WithCache(cache))
	m, err := s.ScanLine(line)
	if err != nil {
		t.Fatalf("ScanLine() failed: %v", err)
	}
	if m.CacheHit {
		t.Error("Stale entry must not count as a cache hit")
	}
	if m.FormatName != "Datetime (space-separated)" {
		t.Errorf("Format = %q, want Datetime (space-separated)", m.FormatName)
	}

	// The stale entry was overwritten.
	name, ok := cache.Lookup(Signature(line))
	if !ok || name != "Datetime (space-separated)" {
		t.Errorf("Cache entry = %q (ok %v), want overwritten with the winning format", name, ok)
	}
}

func TestScanner_PreferLongest(t *testing.T) {
	line := "2024-01-15T10:30:00 done in [15/Jan/2024:10:30:05 +0000]"

	// First-success stops at the earlier table entry.
	s := New(WithNow(fixedNow))
	m, err := s.ScanLine(line)
	if err != nil {
		t.Fatalf("ScanLine() failed: %v", err)
	}
	if m.FormatName != "ISO 8601" {
		t.Errorf("First-success format = %q, want ISO 8601", m.FormatName)
	}

	// Exhaustive mode picks the longest candidate.
	longest := New(WithNow(fixedNow), WithPreferLongest(true))
	m, err = longest.ScanLine(line)
	if err != nil {
		t.Fatalf("ScanLine() failed: %v", err)
	}
	if m.FormatName != "Apache/NGINX CLF" {
		t.Errorf("Longest format = %q, want Apache/NGINX CLF", m.FormatName)
	}
}

func TestScanner_AlignmentTieBreak(t *testing.T) {
	// Two 19-character candidates at different offsets.
	line := "2024-01-16T10:30:00 x 2024-01-15 10:30:00"

	left := New(WithNow(fixedNow), WithPreferLongest(true), WithAlignment(AlignLeft))
	m, err := left.ScanLine(line)
	if err != nil {
		t.Fatalf("ScanLine() failed: %v", err)
	}
	if m.Start != 0 {
		t.Errorf("AlignLeft start = %d, want 0", m.Start)
	}

	right := New(WithNow(fixedNow), WithPreferLongest(true), WithAlignment(AlignRight))
	m, err = right.ScanLine(line)
	if err != nil {
		t.Fatalf("ScanLine() failed: %v", err)
	}
	if m.Start != 22 {
		t.Errorf("AlignRight start = %d, want 22", m.Start)
	}
}

func TestScanner_CustomFormats(t *testing.T) {
	formats := []*Format{
		{
			Name:       "epoch-prefixed",
			PatternStr: `ts=(\d{10})`,
			Layout:     LayoutUnixSeconds,
		},
	}
	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}

	s := New(WithNow(fixedNow), WithFormats(formats))
	m, err := s.ScanLine("ts=1705315800 msg=hello")
	if err != nil {
		t.Fatalf("ScanLine() failed: %v", err)
	}
	if m.FormatName != "epoch-prefixed" {
		t.Errorf("Format = %q, want epoch-prefixed", m.FormatName)
	}

	// The replacement table means default formats no longer apply.
	if _, err := s.ScanLine("2024-01-15T10:30:00 iso line"); !errors.Is(err, ErrNoTimestamp) {
		t.Errorf("Expected ErrNoTimestamp with custom table, got %v", err)
	}
}
