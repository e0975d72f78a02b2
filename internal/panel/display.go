package panel

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Display geometry.
const (
	Rows    = 2
	Columns = 16
)

// Display is a character display with a cursor.
type Display interface {
	// Clear blanks the screen and homes the cursor.
	Clear()
	// WriteAt writes text starting at row, col and leaves the cursor after it.
	WriteAt(row, col int, text string)
	// MoveCursor positions the cursor without writing.
	MoveCursor(row, col int)
	// Write writes text at the cursor.
	Write(text string)
}

// TextDisplay is an in-memory 2x16 display.
//
// Text past the end of a row is clipped and positions outside the grid are
// ignored. When an output writer is set, the whole screen is rendered to it
// after every change.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type TextDisplay struct {
	mu   sync.Mutex
	grid [Rows][Columns]byte
	row  int
	col  int
	out  io.Writer
}

// NewTextDisplay creates a blank display. out may be nil.
func NewTextDisplay(out io.Writer) *TextDisplay {
	d := &TextDisplay{out: out}
	d.blank()
	return d
}

// Clear blanks the screen and homes the cursor.
func (d *TextDisplay) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blank()
	d.render()
}

// WriteAt writes text starting at row, col.
func (d *TextDisplay) WriteAt(row, col int, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.row, d.col = row, col
	d.put(text)
	d.render()
}

// MoveCursor positions the cursor.
func (d *TextDisplay) MoveCursor(row, col int) {
	d.mu.Lock()
	d.row, d.col = row, col
	d.mu.Unlock()
}

// Write writes text at the cursor.
func (d *TextDisplay) Write(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.put(text)
	d.render()
}

// Lines returns both rows with trailing spaces trimmed.
func (d *TextDisplay) Lines() [Rows]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out [Rows]string
	for r := range d.grid {
		out[r] = strings.TrimRight(string(d.grid[r][:]), " ")
	}
	return out
}

// Cursor returns the current cursor position.
func (d *TextDisplay) Cursor() (row, col int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.row, d.col
}

func (d *TextDisplay) blank() {
	for r := range d.grid {
		for c := range d.grid[r] {
			d.grid[r][c] = ' '
		}
	}
	d.row, d.col = 0, 0
}

// put writes text at the cursor, clipping at the end of the row.
func (d *TextDisplay) put(text string) {
	for i := 0; i < len(text); i++ {
		if d.row >= 0 && d.row < Rows && d.col >= 0 && d.col < Columns {
			d.grid[d.row][d.col] = text[i]
		}
		d.col++
	}
}

func (d *TextDisplay) render() {
	if d.out == nil {
		return
	}
	border := "+" + strings.Repeat("-", Columns) + "+"
	var b strings.Builder
	b.WriteString(border + "\n")
	for r := range d.grid {
		b.WriteString("|" + string(d.grid[r][:]) + "|\n")
	}
	b.WriteString(border + "\n")
	fmt.Fprint(d.out, b.String()) //nolint:errcheck // terminal rendering is best effort
}
