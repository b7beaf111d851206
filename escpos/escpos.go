// Package escpos renders monochrome grids as ESC/POS raster print jobs.
package escpos

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"tomgalvin.uk/monobmp/bitmap"
)

// MaxBlockRows is the tallest raster block sent in one command; taller
// bitmaps are split into consecutive blocks.
const MaxBlockRows = 256

// ErrTooWide is returned for bitmaps wider than a raster command can describe.
var ErrTooWide = errors.New("escpos: bitmap too wide for a raster command")

type options struct {
	justify Justify
	density Density
	feed    byte
}

// Option configures Encode.
type Option func(*options)

// WithJustify sets the horizontal alignment; the default is Centre.
func WithJustify(j Justify) Option {
	return func(o *options) { o.justify = j }
}

// WithDensity sets the print head intensity; the default is Medium.
func WithDensity(d Density) Option {
	return func(o *options) { o.density = d }
}

// WithFeed sets the number of blank lines fed after the bitmap.
func WithFeed(lines byte) Option {
	return func(o *options) { o.feed = lines }
}

// Encode writes a print job for g to w: printer initialisation, alignment
// and density settings, the raster blocks and a final paper feed.
// Set pixels are printed.
func Encode(w io.Writer, g *bitmap.Grid, opts ...Option) error {
	o := options{justify: Centre, density: Medium, feed: 4}
	for _, opt := range opts {
		opt(&o)
	}

	packed := g.Image()
	if packed.Stride() > 0xFFFF {
		return fmt.Errorf("%w: %d bytes per row", ErrTooWide, packed.Stride())
	}

	bw := bufio.NewWriter(w)
	bw.Write(initPrinter())
	bw.Write(setJustify(o.justify))
	bw.Write(setDensity(o.density))
	for start := 0; start < packed.Height(); start += MaxBlockRows {
		rows := min(MaxBlockRows, packed.Height()-start)
		block := packed.VerticalSlice(start, rows)
		bw.Write(rasterHeader(uint16(block.Stride()), uint16(rows)))
		bw.Write(block.Data())
	}
	bw.Write(feedLines(o.feed))
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("Couldn't write print job:\n%w", err)
	}
	return nil
}
