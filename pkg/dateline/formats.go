// Package dateline locates timestamps of unknown format inside lines of
// text, memoizing the winning format per line shape.
package dateline

import (
	"regexp"
	"strconv"
	"time"
)

// Format is one known timestamp format. The pattern's first capture
// group is the timestamp text; the layout parses it.
type Format struct {
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled regex (set during init)
	PatternStr string         // Pattern string for config output
	Layout     string         // Go time layout, or UNIX_SECONDS/UNIX_MILLIS
	Examples   []string       // Example timestamps
	Ambiguous  bool           // True if format has date ordering ambiguity (MM/DD vs DD/MM)
}

// Pseudo-layouts for epoch timestamps.
const (
	LayoutUnixSeconds = "UNIX_SECONDS"
	LayoutUnixMillis  = "UNIX_MILLIS"
)

// DefaultFormats returns the built-in timestamp formats, ordered by
// specificity (more specific patterns first). Patterns are unanchored
// so a timestamp is found anywhere in the line.
func DefaultFormats() []*Format {
	formats := []*Format{
		// ISO 8601 with milliseconds and timezone
		{
			Name:       "ISO 8601 with milliseconds and timezone",
			PatternStr: `(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}[+-]\d{2}:\d{2})`,
			Layout:     "2006-01-02T15:04:05.000-07:00",
			Examples:   []string{"2024-01-15T10:30:00.123+00:00"},
		},
		// ISO 8601 with milliseconds and Z
		{
			Name:       "ISO 8601 with milliseconds and Z",
			PatternStr: `(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z)`,
			Layout:     "2006-01-02T15:04:05.000Z",
			Examples:   []string{"2024-01-15T10:30:00.123Z"},
		},
		// ISO 8601 with timezone offset
		{
			Name:       "ISO 8601 with timezone",
			PatternStr: `(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}[+-]\d{2}:\d{2})`,
			Layout:     "2006-01-02T15:04:05-07:00",
			Examples:   []string{"2024-01-15T10:30:00+00:00", "2024-01-15T10:30:00-05:00"},
		},
		// ISO 8601 with Z (UTC)
		{
			Name:       "ISO 8601 with Z (UTC)",
			PatternStr: `(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z)`,
			Layout:     "2006-01-02T15:04:05Z",
			Examples:   []string{"2024-01-15T10:30:00Z"},
		},
		// ISO 8601 with milliseconds (no timezone)
		{
			Name:       "ISO 8601 with milliseconds",
			PatternStr: `(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3})`,
			Layout:     "2006-01-02T15:04:05.000",
			Examples:   []string{"2024-01-15T10:30:00.123"},
		},
		// ISO 8601 basic (with T separator)
		{
			Name:       "ISO 8601",
			PatternStr: `(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2})`,
			Layout:     "2006-01-02T15:04:05",
			Examples:   []string{"2024-01-15T10:30:00"},
		},
		// Python logging default (comma for milliseconds)
		{
			Name:       "Python logging",
			PatternStr: `(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2},\d{3})`,
			Layout:     "2006-01-02 15:04:05,000",
			Examples:   []string{"2024-01-15 10:30:00,123"},
		},
		// Log4j / Java logging (period for milliseconds)
		{
			Name:       "Log4j/Java logging",
			PatternStr: `(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\.\d{3})`,
			Layout:     "2006-01-02 15:04:05.000",
			Examples:   []string{"2024-01-15 10:30:00.123"},
		},
		// Datetime with space separator (covers the bracketed form too,
		// since patterns are unanchored)
		{
			Name:       "Datetime (space-separated)",
			PatternStr: `(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2})`,
			Layout:     "2006-01-02 15:04:05",
			Examples:   []string{"2024-01-15 10:30:00", "[2024-01-15 10:30:00]"},
		},
		// Apache/NGINX common log format
		{
			Name:       "Apache/NGINX CLF",
			PatternStr: `\[(\d{2}/\w{3}/\d{4}:\d{2}:\d{2}:\d{2}\s+[+-]\d{4})\]`,
			Layout:     "02/Jan/2006:15:04:05 -0700",
			Examples:   []string{"[15/Jun/2024:10:30:00 +0000]"},
		},
		// Apache error log format [Day Mon DD HH:MM:SS YYYY]
		{
			Name:       "Apache error log",
			PatternStr: `\[(\w{3} \w{3} \d{2} \d{2}:\d{2}:\d{2} \d{4})\]`,
			Layout:     "Mon Jan 02 15:04:05 2006",
			Examples:   []string{"[Sun Dec 04 04:47:44 2005]"},
		},
		// Syslog with year
		{
			Name:       "Syslog with year",
			PatternStr: `([A-Z]\w{2}\s+\d{1,2}\s+\d{4}\s+\d{2}:\d{2}:\d{2})`,
			Layout:     "Jan 2 2006 15:04:05",
			Examples:   []string{"Jun 14 2024 15:16:01"},
		},
		// Syslog BSD format (no year)
		{
			Name:       "Syslog (BSD)",
			PatternStr: `([A-Z]\w{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})`,
			Layout:     "Jan 2 15:04:05",
			Examples:   []string{"Jun 14 15:16:01", "Jan  5 09:30:00"},
		},
		// Spark/Hadoop short date YY/MM/DD HH:MM:SS
		{
			Name:       "Spark/Hadoop short date",
			PatternStr: `(\d{2}/\d{2}/\d{2} \d{2}:\d{2}:\d{2})`,
			Layout:     "06/01/02 15:04:05",
			Examples:   []string{"17/06/09 20:10:40"},
		},
		// HDFS compact format YYMMDD HHMMSS
		{
			Name:       "HDFS compact",
			PatternStr: `(?:^|\s)(\d{6} \d{6})(?:\s|$)`,
			Layout:     "060102 150405",
			Examples:   []string{"081109 203615"},
		},
		// Kubernetes/Docker JSON timestamp
		{
			Name:       "Kubernetes JSON timestamp",
			PatternStr: `"time":"(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d+Z)"`,
			Layout:     "2006-01-02T15:04:05.000000000Z",
			Examples:   []string{`"time":"2024-01-15T10:30:00.123456789Z"`},
		},
		// Unix timestamp (milliseconds)
		{
			Name:       "Unix timestamp (milliseconds)",
			PatternStr: `(?:^|[\s\[])(\d{13})(?:[\s\]]|$)`,
			Layout:     LayoutUnixMillis,
			Examples:   []string{"1705315800000"},
		},
		// Unix timestamp (seconds)
		{
			Name:       "Unix timestamp (seconds)",
			PatternStr: `(?:^|[\s\[])(\d{10})(?:[\s\]]|$)`,
			Layout:     LayoutUnixSeconds,
			Examples:   []string{"1705315800"},
		},
		// US date format MM/DD/YYYY (ambiguous)
		{
			Name:       "US date format (MM/DD/YYYY)",
			PatternStr: `(\d{2}/\d{2}/\d{4}\s+\d{2}:\d{2}:\d{2})`,
			Layout:     "01/02/2006 15:04:05",
			Examples:   []string{"01/15/2024 10:30:00"},
			Ambiguous:  true,
		},
	}

	// Compile all patterns
	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}

	return formats
}

// parseLayout parses a timestamp string using the given layout.
// Handles the epoch pseudo-layouts.
func parseLayout(tsStr, layout string) (time.Time, bool) {
	switch layout {
	case LayoutUnixSeconds:
		secs, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		// Sanity check: reasonable Unix timestamp range (1970-2100)
		if secs < 0 || secs > 4102444800 {
			return time.Time{}, false
		}
		return time.Unix(secs, 0), true

	case LayoutUnixMillis:
		millis, err := strconv.ParseInt(tsStr, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		secs := millis / 1000
		if secs < 0 || secs > 4102444800 {
			return time.Time{}, false
		}
		return time.UnixMilli(millis), true

	default:
		t, err := time.Parse(layout, tsStr)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
}
