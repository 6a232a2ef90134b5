// Package render draws fixed-grid text tables with box-drawing borders.
// Cells may contain newlines; a row is drawn over as many terminal lines as
// its tallest cell needs.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ErrOutOfRange is returned when a row or column index does not exist.
var ErrOutOfRange = errors.New("index out of range")

// Column tracks sizing for one table column. Widths are display cells, not
// bytes.
type Column struct {
	// MinValueWidth is the narrowest value seen so far. It is meaningful
	// only once a value has been set.
	MinValueWidth int

	// MaxValueWidth is the widest value seen so far.
	MaxValueWidth int

	// ConfiguredWidth, when non-zero, forces a minimum rendered width.
	ConfiguredWidth int

	seeded bool
}

// Border is one set of junction runes used to frame a row.
type Border struct {
	Left    string
	Divider string
	Right   string
}

// Table accumulates string cells and renders them as a grid.
type Table struct {
	columns []Column
	values  []string
	numRows int

	// Padding is the number of spaces on each side of a cell value.
	Padding int

	firstRowBorder Border
	midRowBorder   Border
	lastRowBorder  Border
}

// New creates a table with a fixed number of columns.
func New(numColumns int) *Table {
	return &Table{
		columns:        make([]Column, numColumns),
		Padding:        1,
		firstRowBorder: Border{Left: "┌", Divider: "┬", Right: "┐"},
		midRowBorder:   Border{Left: "├", Divider: "┼", Right: "┤"},
		lastRowBorder:  Border{Left: "└", Divider: "┴", Right: "┘"},
	}
}

// NumColumns returns the column count fixed at construction.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// NumRows returns the number of rows added so far.
func (t *Table) NumRows() int {
	return t.numRows
}

// Column returns the sizing state of one column.
func (t *Table) Column(col int) (Column, error) {
	if col < 0 || col >= len(t.columns) {
		return Column{}, fmt.Errorf("%w: column %d of %d", ErrOutOfRange, col, len(t.columns))
	}
	return t.columns[col], nil
}

// AddRow appends an empty row and returns its index.
func (t *Table) AddRow() int {
	row := t.numRows
	t.numRows++
	t.values = append(t.values, make([]string, len(t.columns))...)
	return row
}

func (t *Table) valueIndex(row, col int) (int, error) {
	if col < 0 || col >= len(t.columns) {
		return 0, fmt.Errorf("%w: column %d of %d", ErrOutOfRange, col, len(t.columns))
	}
	if row < 0 || row >= t.numRows {
		return 0, fmt.Errorf("%w: row %d of %d", ErrOutOfRange, row, t.numRows)
	}
	return row*len(t.columns) + col, nil
}

// Cell returns the value at row/col.
func (t *Table) Cell(row, col int) (string, error) {
	idx, err := t.valueIndex(row, col)
	if err != nil {
		return "", err
	}
	return t.values[idx], nil
}

// SetCell stores a value and folds its width into the column's running
// min/max. Multi-line values contribute the width of their widest line.
func (t *Table) SetCell(row, col int, value string) error {
	idx, err := t.valueIndex(row, col)
	if err != nil {
		return err
	}
	t.values[idx] = value

	w := 0
	for _, line := range strings.Split(value, "\n") {
		if lw := runewidth.StringWidth(line); lw > w {
			w = lw
		}
	}
	c := &t.columns[col]
	if !c.seeded || w < c.MinValueWidth {
		c.MinValueWidth = w
	}
	if w > c.MaxValueWidth {
		c.MaxValueWidth = w
	}
	c.seeded = true
	return nil
}

// renderWidth is the drawn width of a column's value area.
func (c Column) renderWidth() int {
	if c.ConfiguredWidth > c.MaxValueWidth {
		return c.ConfiguredWidth
	}
	return c.MaxValueWidth
}

// Render writes the table to w. An empty table renders nothing.
func (t *Table) Render(w io.Writer) error {
	if t.numRows == 0 || len(t.columns) == 0 {
		return nil
	}

	for row := 0; row < t.numRows; row++ {
		border := t.midRowBorder
		if row == 0 {
			border = t.firstRowBorder
		}
		if err := t.writeBorder(w, border); err != nil {
			return err
		}
		if err := t.writeRow(w, row); err != nil {
			return err
		}
	}
	return t.writeBorder(w, t.lastRowBorder)
}

func (t *Table) writeBorder(w io.Writer, b Border) error {
	var sb strings.Builder
	sb.WriteString(b.Left)
	for col, c := range t.columns {
		if col != 0 {
			sb.WriteString(b.Divider)
		}
		sb.WriteString(strings.Repeat("─", c.renderWidth()+t.Padding*2))
	}
	sb.WriteString(b.Right)
	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// writeRow draws one logical row, wrapping cells that contain newlines onto
// additional terminal lines.
func (t *Table) writeRow(w io.Writer, row int) error {
	remaining := make([][]string, len(t.columns))
	height := 1
	for col := range t.columns {
		idx, err := t.valueIndex(row, col)
		if err != nil {
			return err
		}
		lines := strings.Split(t.values[idx], "\n")
		remaining[col] = lines
		if len(lines) > height {
			height = len(lines)
		}
	}

	pad := strings.Repeat(" ", t.Padding)
	for line := 0; line < height; line++ {
		var sb strings.Builder
		for col, c := range t.columns {
			segment := ""
			if line < len(remaining[col]) {
				segment = remaining[col][line]
			}
			fill := c.renderWidth() - runewidth.StringWidth(segment)
			sb.WriteString("│")
			sb.WriteString(pad)
			sb.WriteString(segment)
			sb.WriteString(strings.Repeat(" ", fill))
			sb.WriteString(pad)
		}
		sb.WriteString("│\n")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}
