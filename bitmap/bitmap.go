// Package bitmap defines the in-memory model for monochrome images.
//
// Grid is an immutable rectangle of boolean pixels stored row-major with the
// top row first; true is the foreground (black) colour. Every constructor and
// every transform validates its result with CheckSize, so a Grid never holds
// more than MaxPixels pixels. PackedBitmap holds the same pixels packed eight
// to a byte, which is the layout 1-bit file formats and printers consume.
//
// Two coordinate conventions address the same storage:
//
//   - Pixel(i, j): row i counted from the top, column j; (0,0) is upper-left.
//   - Get(x, y): column x, row y counted from the bottom; (0,0) is lower-left,
//     matching the bottom-up row order of BMP files.
package bitmap

import (
	"fmt"
	"slices"
	"strings"
)

// Bitmap is anything with a width, a height and a bit at each (x, y), where
// y counts rows from the top.
type Bitmap interface {
	Width() int
	Height() int
	GetBit(x int, y int) byte
}

// Grid is an immutable monochrome image. The zero value is not usable;
// build grids with New, FromRows or FromBitmap.
type Grid struct {
	data  []bool
	width int
}

var _ Bitmap = (*Grid)(nil)

// New validates data as a grid of the given width and returns it.
// data is row-major with the upper-left pixel first and is copied.
// Returns ErrData when data is empty or not a whole number of rows,
// and a *SizeError when the dimensions fail CheckSize.
func New(data []bool, width int) (*Grid, error) {
	if len(data) == 0 || width <= 0 || len(data)%width != 0 {
		return nil, fmt.Errorf("%w: %d pixels do not split into rows of width %d", ErrData, len(data), width)
	}
	return build(slices.Clone(data), width)
}

// FromRows builds a grid from rows listed top to bottom.
// All rows must have the same, non-zero length.
func FromRows(rows [][]bool) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: no rows or empty first row", ErrData)
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d pixels, want %d", ErrData, i, len(row), width)
		}
	}
	if err := checkIntSize(width, len(rows)); err != nil {
		return nil, err
	}
	data := make([]bool, 0, width*len(rows))
	for _, row := range rows {
		data = append(data, row...)
	}
	return build(data, width)
}

// FromBitmap copies any Bitmap into a grid; non-zero bits become true.
func FromBitmap(b Bitmap) (*Grid, error) {
	width, height := b.Width(), b.Height()
	if err := checkIntSize(width, height); err != nil {
		return nil, err
	}
	data := make([]bool, width*height)
	for y := range height {
		for x := range width {
			data[y*width+x] = b.GetBit(x, y) != 0
		}
	}
	return build(data, width)
}

// build validates and wraps data without copying it.
// Callers must hand over ownership of data.
func build(data []bool, width int) (*Grid, error) {
	if len(data) == 0 || width <= 0 || len(data)%width != 0 {
		return nil, fmt.Errorf("%w: %d pixels do not split into rows of width %d", ErrData, len(data), width)
	}
	if err := checkIntSize(width, len(data)/width); err != nil {
		return nil, err
	}
	return &Grid{data: data, width: width}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return len(g.data) / g.width
}

// Pixel returns the pixel at row i, column j, where (0,0) is the upper-left
// corner. It panics if (i, j) is outside the grid.
func (g *Grid) Pixel(i, j int) bool {
	g.mustContain(j, i)
	return g.data[i*g.width+j]
}

// Get returns the pixel at column x, row y, where (0,0) is the lower-left
// corner. It panics if (x, y) is outside the grid.
func (g *Grid) Get(x, y int) bool {
	g.mustContain(x, y)
	return g.data[(g.Height()-1-y)*g.width+x]
}

// GetBit implements Bitmap: 1 for a set pixel at column x, row y from the top.
func (g *Grid) GetBit(x int, y int) byte {
	if g.Pixel(y, x) {
		return 1
	}
	return 0
}

func (g *Grid) mustContain(col, row int) {
	if col < 0 || col >= g.width || row < 0 || row >= g.Height() {
		panic(fmt.Sprintf("bitmap: pixel (%d,%d) outside %s", col, row, g))
	}
}

// Data returns a copy of the pixels, row-major from the upper-left corner.
func (g *Grid) Data() []bool {
	return slices.Clone(g.data)
}

// Rows returns a copy of the pixels split into rows, top row first.
func (g *Grid) Rows() [][]bool {
	rows := make([][]bool, g.Height())
	for i := range rows {
		rows[i] = slices.Clone(g.data[i*g.width : (i+1)*g.width])
	}
	return rows
}

// Equal reports whether g and o have the same dimensions and pixels.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.width == o.width && slices.Equal(g.data, o.data)
}

// Count returns the number of set pixels.
func (g *Grid) Count() int {
	n := 0
	for _, p := range g.data {
		if p {
			n++
		}
	}
	return n
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%d,%d)", g.width, g.Height())
}

// Text draws the grid one line per row, '#' for set pixels and '.' otherwise.
// Meant for small grids in tests and logs.
func (g *Grid) Text() string {
	var sb strings.Builder
	sb.Grow(len(g.data) + g.Height())
	for i, p := range g.data {
		if p {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('.')
		}
		if (i+1)%g.width == 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
