// Package raster converts ordinary images into monochrome grids.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"

	"tomgalvin.uk/monobmp/bitmap"
)

type options struct {
	maxWidth  int
	gamma     float64
	threshold int // -1 means dither
}

// Option configures FromImage.
type Option func(*options)

// WithMaxWidth scales images wider than px down to px columns, keeping the
// aspect ratio. Narrower images are left at their size.
func WithMaxWidth(px int) Option {
	return func(o *options) {
		o.maxWidth = px
	}
}

// WithGamma applies a gamma curve to luminance before conversion.
// Values below 1 lighten the image.
func WithGamma(gamma float64) Option {
	return func(o *options) {
		o.gamma = gamma
	}
}

// WithThreshold replaces dithering with a plain cut: pixels whose 8-bit
// luminance is below level become set.
func WithThreshold(level uint8) Option {
	return func(o *options) {
		o.threshold = int(level)
	}
}

// FromImage turns img into a grid, set pixels being dark ones. By default the
// image is dithered with Floyd-Steinberg error diffusion.
//
// The output size is checked with bitmap.CheckSize before any buffer is
// allocated for it.
func FromImage(img image.Image, opts ...Option) (*bitmap.Grid, error) {
	o := options{gamma: 1, threshold: -1}
	for _, opt := range opts {
		opt(&o)
	}

	src := img.Bounds()
	if src.Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", bitmap.ErrData)
	}
	width, height := src.Dx(), src.Dy()
	if o.maxWidth > 0 && width > o.maxWidth {
		height = max(1, int(int64(height)*int64(o.maxWidth)/int64(width)))
		width = o.maxWidth
	}
	if err := bitmap.CheckSize(uint64(width), uint64(height)); err != nil {
		return nil, err
	}

	bounds := image.Rect(0, 0, width, height)
	scaled := image.NewRGBA(bounds)
	if width == src.Dx() && height == src.Dy() {
		draw.Draw(scaled, bounds, img, src.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(scaled, bounds, img, src, draw.Src, nil)
	}

	gray := image.NewGray16(bounds)
	for y := range height {
		for x := range width {
			c := color.Gray16Model.Convert(scaled.At(x, y)).(color.Gray16)
			if o.gamma != 1 {
				v := math.Pow(float64(c.Y)/0xFFFF, o.gamma)
				c.Y = uint16(v * 0xFFFF)
			}
			gray.SetGray16(x, y, c)
		}
	}

	if o.threshold >= 0 {
		return threshold(gray, uint16(o.threshold)*0x101)
	}

	ditherer := dither.NewDitherer([]color.Color{color.Black, color.White})
	ditherer.Matrix = dither.FloydSteinberg
	ditherer.Serpentine = true
	return FromPaletted(ditherer.DitherPaletted(gray))
}

func threshold(gray *image.Gray16, level uint16) (*bitmap.Grid, error) {
	b := gray.Bounds()
	data := make([]bool, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			data = append(data, gray.Gray16At(x, y).Y < level)
		}
	}
	return bitmap.New(data, b.Dx())
}

// FromPaletted converts a two-colour paletted image without dithering.
// Pixels of whichever palette colour is further from white become set.
func FromPaletted(p *image.Paletted) (*bitmap.Grid, error) {
	if len(p.Palette) != 2 {
		return nil, fmt.Errorf("%w: paletted image has %d colours, want 2", bitmap.ErrData, len(p.Palette))
	}
	b := p.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", bitmap.ErrData)
	}
	if err := bitmap.CheckSize(uint64(b.Dx()), uint64(b.Dy())); err != nil {
		return nil, err
	}

	dark := uint8(1)
	if p.Palette.Index(color.White) == 1 {
		dark = 0
	}
	data := make([]bool, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			data = append(data, p.ColorIndexAt(x, y) == dark)
		}
	}
	return bitmap.New(data, b.Dx())
}
