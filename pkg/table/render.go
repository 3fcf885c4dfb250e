package table

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the table as aligned text. Rows longer than the
// shortest row have their overflow cells folded into the last column;
// column widths are computed from the longest cell (header included)
// plus one space of padding. The last column is unpadded.
func (t *Table) Render(w io.Writer) error {
	width := t.shortestRow()
	if width == 0 {
		return nil
	}

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = foldRow(row, width)
	}

	header := t.paddedHeader(width)

	widths := make([]int, width)
	measure := func(row []string) {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	if header != nil {
		measure(header)
	}
	for _, row := range rows {
		measure(row)
	}

	if header != nil {
		if err := writeRow(w, header, widths); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := writeRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

// String renders the table to a string.
func (t *Table) String() string {
	var b strings.Builder
	_ = t.Render(&b)
	return b.String()
}

func (t *Table) shortestRow() int {
	if len(t.rows) == 0 {
		return len(t.header)
	}
	min := len(t.rows[0])
	for _, row := range t.rows[1:] {
		if len(row) < min {
			min = len(row)
		}
	}
	return min
}

// foldRow joins overflow cells into the last column so every rendered
// row has exactly width cells.
func foldRow(row []string, width int) []string {
	if len(row) <= width {
		out := make([]string, width)
		copy(out, row)
		return out
	}
	out := make([]string, width)
	copy(out, row[:width-1])
	out[width-1] = strings.Join(row[width-1:], " ")
	return out
}

// paddedHeader extends a short header with numeric column names.
func (t *Table) paddedHeader(width int) []string {
	if t.header == nil {
		return nil
	}
	header := foldRow(t.header, width)
	for i, name := range header {
		if name == "" {
			header[i] = fmt.Sprintf("%d", i)
		}
	}
	return header
}

func writeRow(w io.Writer, row []string, widths []int) error {
	var b strings.Builder
	last := len(row) - 1
	for i, cell := range row {
		if i == last {
			b.WriteString(cell)
			break
		}
		fmt.Fprintf(&b, "%-*s", widths[i]+1, cell)
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
