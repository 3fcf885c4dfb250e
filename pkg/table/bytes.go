package table

import (
	"fmt"
	"strconv"
	"strings"
)

var byteUnits = []string{"", " K", " M", " G", " T", " P", " E", " Z"}

// ConvertBytes renders a byte count with the largest fitting 1024-based
// unit, one decimal place.
func ConvertBytes(num float64) string {
	for _, unit := range byteUnits {
		if num < 1024.0 && num > -1024.0 {
			return fmt.Sprintf("%3.1f%sB", num, unit)
		}
		num /= 1024.0
	}
	return fmt.Sprintf("%.1f YB", num)
}

// ParseBytes parses a value produced by ConvertBytes back into a raw
// byte count.
func ParseBytes(s string) (float64, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && (s[i] == '-' || s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("no numeric prefix in %q", s)
	}

	num, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", s, err)
	}

	unit := strings.ToUpper(strings.TrimSpace(s[i:]))
	unit = strings.TrimSpace(strings.TrimSuffix(unit, "B"))
	if unit == "" {
		return num, nil
	}

	exponents := map[string]int{"K": 1, "M": 2, "G": 3, "T": 4, "P": 5, "E": 6, "Z": 7, "Y": 8}
	exp, ok := exponents[unit]
	if !ok {
		return 0, fmt.Errorf("unknown size unit %q in %q", unit, s)
	}
	for i := 0; i < exp; i++ {
		num *= 1024.0
	}
	return num, nil
}

// FormatBytes humanizes every numeric cell of a named column in place.
// Non-numeric cells are left untouched.
func (t *Table) FormatBytes(column string) error {
	idx, ok := t.columns[column]
	if !ok {
		return fmt.Errorf("unknown column %q", column)
	}

	for _, row := range t.rows {
		if idx >= len(row) {
			continue
		}
		n, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			continue
		}
		row[idx] = ConvertBytes(n)
	}
	return nil
}
