// Package label renders text into monochrome grids, wrapping it to a
// maximum width.
package label

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"tomgalvin.uk/monobmp/bitmap"
	"tomgalvin.uk/monobmp/raster"
)

// DefaultSize is the font size, in points at 72 DPI, used unless WithSize is given.
const DefaultSize = 24

// MaxSize is the largest accepted font size, in points.
const MaxSize = 400

// glyphCacheBytes bounds the glyph mask cache allocated for each face.
const glyphCacheBytes = 32 << 20

// ErrEmpty is returned for text with no printable words.
var ErrEmpty = errors.New("label: no text to render")

var (
	parseOnce sync.Once
	goRegular *truetype.Font
	parseErr  error
)

func regular() (*truetype.Font, error) {
	parseOnce.Do(func() {
		goRegular, parseErr = truetype.Parse(goregular.TTF)
	})
	return goRegular, parseErr
}

type options struct {
	size     float64
	maxWidth int
	padding  int
}

// Option configures Render.
type Option func(*options)

// WithSize sets the font size in points, up to MaxSize.
func WithSize(points float64) Option {
	return func(o *options) { o.size = points }
}

// WithMaxWidth wraps lines wider than px pixels. Zero disables wrapping.
func WithMaxWidth(px int) Option {
	return func(o *options) { o.maxWidth = px }
}

// WithPadding adds a blank margin of px pixels around the text.
func WithPadding(px int) Option {
	return func(o *options) { o.padding = px }
}

// wrapText splits text into lines no wider than maxWidth, breaking between
// words. A single word wider than maxWidth gets a line of its own.
func wrapText(text string, maxWidth int, face font.Face) []string {
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		next := word
		if line != "" {
			next = line + " " + word
		}
		if maxWidth > 0 && line != "" && font.MeasureString(face, next).Ceil() > maxWidth {
			lines = append(lines, line)
			line = word
		} else {
			line = next
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// cacheEntries picks the number of glyph cache slots for a face of the
// given size: a power of two, at most the truetype default of 512, whose
// masks fit in glyphCacheBytes.
func cacheEntries(f *truetype.Font, size float64) int {
	b := f.Bounds(fixed.Int26_6(size * 64))
	glyph := ((b.Max.X - b.Min.X).Ceil() + 2) * ((b.Max.Y - b.Min.Y).Ceil() + 2)
	n := 512
	for n > 1 && glyph*n > glyphCacheBytes {
		n /= 2
	}
	return n
}

// canvasSide is content plus padding on both sides.
func canvasSide(content, padding int) (int, error) {
	if padding > (math.MaxInt-content)/2 {
		return 0, fmt.Errorf("%w: padding %d around %d pixels", bitmap.ErrOverflow, padding, content)
	}
	return content + 2*padding, nil
}

// Render draws text in black on white and returns it as a grid, cut at
// half grey.
func Render(text string, opts ...Option) (*bitmap.Grid, error) {
	o := options{size: DefaultSize}
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.size > 0 && o.size <= MaxSize) || o.maxWidth < 0 || o.padding < 0 {
		return nil, fmt.Errorf("%w: size %v, width %d, padding %d", bitmap.ErrFactor, o.size, o.maxWidth, o.padding)
	}

	f, err := regular()
	if err != nil {
		return nil, fmt.Errorf("Couldn't parse font:\n%w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:              o.size,
		Hinting:           font.HintingFull,
		GlyphCacheEntries: cacheEntries(f, o.size),
	})
	defer face.Close()

	lines := wrapText(text, o.maxWidth, face)
	if len(lines) == 0 {
		return nil, ErrEmpty
	}

	m := face.Metrics()
	var width int
	for _, line := range lines {
		width = max(width, font.MeasureString(face, line).Ceil())
	}
	height := len(lines) * m.Height.Ceil()
	cw, err := canvasSide(width, o.padding)
	if err != nil {
		return nil, err
	}
	ch, err := canvasSide(height, o.padding)
	if err != nil {
		return nil, err
	}
	// Past this point padding and both sides are below bitmap.MaxPixels,
	// well inside fixed.Int26_6.
	if err := bitmap.CheckSize(uint64(cw), uint64(ch)); err != nil {
		return nil, err
	}

	img := image.NewGray(image.Rect(0, 0, cw, ch))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: img, Src: image.NewUniform(color.Black), Face: face}
	for i, line := range lines {
		d.Dot = fixed.Point26_6{
			X: fixed.I(o.padding),
			Y: fixed.I(o.padding+i*m.Height.Ceil()) + m.Ascent,
		}
		d.DrawString(line)
	}
	return raster.FromImage(img, raster.WithThreshold(0x80))
}
