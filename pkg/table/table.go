// Package table parses whitespace-aligned command output into
// searchable, renderable tables.
package table

import (
	"fmt"
	"strings"
)

// Options controls how source text is split into a table.
type Options struct {
	// HeaderRow is the 1-based row promoted to column names.
	// Zero means the table has no header.
	HeaderRow int

	// Head removes this many rows from the top of the table.
	Head int

	// Tail removes this many rows from the bottom of the table.
	Tail int

	// Include keeps only rows containing this word.
	// Include overrides Exclude.
	Exclude string
	Include string
}

// Table is parsed command output: rows of whitespace-split cells with
// optional named columns.
type Table struct {
	header  []string
	rows    [][]string
	columns map[string]int
	opts    Options
}

// Parse splits source text into a table. Non-empty lines are split on
// whitespace runs; the header row, filters, and head/tail trims from
// opts are applied in that order.
func Parse(src string, opts Options) (*Table, error) {
	var rows [][]string
	for _, line := range strings.Split(src, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, fields)
	}

	t := &Table{opts: opts}

	if opts.HeaderRow > 0 {
		idx := opts.HeaderRow - 1
		if idx >= len(rows) {
			return nil, fmt.Errorf("header row %d out of range (%d rows)", opts.HeaderRow, len(rows))
		}
		t.header = rows[idx]
		rows = append(rows[:idx:idx], rows[idx+1:]...)
	}

	rows = filterRows(rows, opts.Include, opts.Exclude)

	if opts.Head > 0 {
		if opts.Head >= len(rows) {
			rows = nil
		} else {
			rows = rows[opts.Head:]
		}
	}
	if opts.Tail > 0 {
		if opts.Tail >= len(rows) {
			rows = nil
		} else {
			rows = rows[:len(rows)-opts.Tail]
		}
	}

	t.rows = rows
	t.buildColumns()
	return t, nil
}

// filterRows applies word-membership filters. Include overrides
// Exclude: a row matching both is kept.
func filterRows(rows [][]string, include, exclude string) [][]string {
	if include == "" && exclude == "" {
		return rows
	}

	var out [][]string
	for _, row := range rows {
		switch {
		case include != "" && exclude != "":
			if rowContains(row, include) || !rowContains(row, exclude) {
				out = append(out, row)
			}
		case include != "":
			if rowContains(row, include) {
				out = append(out, row)
			}
		default:
			if !rowContains(row, exclude) {
				out = append(out, row)
			}
		}
	}
	return out
}

func rowContains(row []string, word string) bool {
	for _, cell := range row {
		if cell == word {
			return true
		}
	}
	return false
}

func (t *Table) buildColumns() {
	t.columns = make(map[string]int, len(t.header))
	for i, name := range t.header {
		t.columns[name] = i
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Header returns the column names, or nil for a headerless table.
func (t *Table) Header() []string {
	return t.header
}

// Row returns the cells of the i-th data row.
func (t *Table) Row(i int) ([]string, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, fmt.Errorf("row %d out of range (%d rows)", i, len(t.rows))
	}
	return t.rows[i], nil
}

// Rows returns all data rows.
func (t *Table) Rows() [][]string {
	return t.rows
}

// Column returns the cells of a named column, top to bottom. Rows too
// short to reach the column contribute an empty cell.
func (t *Table) Column(name string) ([]string, error) {
	idx, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}

	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, nil
}

// Search returns the rows where any cell equals term as a whole word.
// The derived table keeps the header and options.
func (t *Table) Search(term string) *Table {
	derived := &Table{header: t.header, opts: t.opts}
	for _, row := range t.rows {
		if rowContains(row, term) {
			derived.rows = append(derived.rows, row)
		}
	}
	derived.buildColumns()
	return derived
}

// SearchColumn returns the rows whose named column equals value.
func (t *Table) SearchColumn(column, value string) (*Table, error) {
	idx, ok := t.columns[column]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", column)
	}

	derived := &Table{header: t.header, opts: t.opts}
	for _, row := range t.rows {
		if idx < len(row) && row[idx] == value {
			derived.rows = append(derived.rows, row)
		}
	}
	derived.buildColumns()
	return derived, nil
}

// SelectColumns trims the table to the requested columns, in the
// requested order.
func (t *Table) SelectColumns(names ...string) (*Table, error) {
	indexes := make([]int, len(names))
	for i, name := range names {
		idx, ok := t.columns[name]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		indexes[i] = idx
	}

	derived := &Table{header: append([]string(nil), names...), opts: t.opts}
	for _, row := range t.rows {
		cells := make([]string, len(indexes))
		for i, idx := range indexes {
			if idx < len(row) {
				cells[i] = row[idx]
			}
		}
		derived.rows = append(derived.rows, cells)
	}
	derived.buildColumns()
	return derived, nil
}
