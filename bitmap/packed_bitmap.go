// This file packs bitmap pixel data eight pixels to a byte, most significant
// bit first, the layout used by 1-bit image formats.

package bitmap

import (
	"fmt"
	"image"
	"image/color"
)

// Palette maps packed bit values to colours: 0 is white, 1 is black.
var Palette = color.Palette{color.White, color.Black}

// a bitmap packed in memory
type PackedBitmap struct {
	data                  []byte
	width, height, stride int
}

const bitsPerWord = 8

var (
	_ Bitmap             = (*PackedBitmap)(nil)
	_ image.PalettedImage = (*PackedBitmap)(nil)
)

func (b *PackedBitmap) Width() int {
	return b.width
}

func (b *PackedBitmap) Height() int {
	return b.height
}

// Stride is the number of bytes per packed row.
func (b *PackedBitmap) Stride() int {
	return b.stride
}

// Data returns the packed rows, top row first. The slice is shared.
func (b *PackedBitmap) Data() []byte {
	return b.data
}

// Gets a single bit from the bitmap at the (x, y) coordinate, returns either 0 or 1
func (b *PackedBitmap) GetBit(x int, y int) byte {
	// Pixels are left-aligned within their byte: column 0 of a row is the
	// most significant bit, even in a row's final partial byte.
	index := (y * b.stride) + (x / bitsPerWord)
	return (b.data[index] >> (bitsPerWord - 1 - x%bitsPerWord)) & 1
}

func (b *PackedBitmap) String() string {
	return fmt.Sprintf("PackedBitmap(%d,%d)", b.width, b.height)
}

// ColorModel implements image.Image.
func (b *PackedBitmap) ColorModel() color.Model {
	return Palette
}

// Bounds implements image.Image.
func (b *PackedBitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// At implements image.Image.
func (b *PackedBitmap) At(x, y int) color.Color {
	return Palette[b.ColorIndexAt(x, y)]
}

// ColorIndexAt implements image.PalettedImage. Points outside the bounds are white.
func (b *PackedBitmap) ColorIndexAt(x, y int) uint8 {
	if !(image.Point{x, y}.In(b.Bounds())) {
		return 0
	}
	return b.GetBit(x, y)
}

// Take data from any Bitmap implementation and pack it row by row
func Pack(b Bitmap) *PackedBitmap {
	width, height, stride := b.Width(), b.Height(), (b.Width()+bitsPerWord-1)/bitsPerWord
	data := make([]byte, stride*height)

	var p byte = 0
	for y := range height {
		for x := range width {
			p = (p << 1) | (b.GetBit(x, y) & 1)

			bit := x % bitsPerWord
			if x == width-1 || bit == bitsPerWord-1 {
				// shift a row's final partial byte up to the most significant bits
				p <<= bitsPerWord - 1 - bit
				data[y*stride+(x/bitsPerWord)] = p
				p = 0
			}
		}
	}

	return &PackedBitmap{data, width, height, stride}
}

// VerticalSlice returns rows [y, y+height) as a bitmap sharing b's data.
func (b *PackedBitmap) VerticalSlice(y, height int) *PackedBitmap {
	if y < 0 || height < 0 || y+height > b.height {
		panic(fmt.Sprintf("bitmap: rows %d..%d outside %s", y, y+height, b))
	}
	return &PackedBitmap{b.data[y*b.stride : (y+height)*b.stride], b.width, height, b.stride}
}

// Image returns the grid packed one bit per pixel, ready for any encoder in
// the image ecosystem.
func (g *Grid) Image() *PackedBitmap {
	return Pack(g)
}
