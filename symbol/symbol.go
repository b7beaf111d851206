// Package symbol generates two-dimensional barcodes as monochrome grids,
// one pixel per module, and renders them at printable sizes.
//
// A rendered symbol is Mul followed by AddBorder, so Grid.Normalize turns it
// back into the generated symbol as long as the module size is below 10.
package symbol

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/datamatrix"
	"github.com/boombuler/barcode/qr"

	"tomgalvin.uk/monobmp/bitmap"
)

// QuietZone is the margin, in modules, that QR scanners expect.
const QuietZone = 4

// ParseLevel maps "L", "M", "Q" or "H" to a QR error correction level.
// The empty string selects M.
func ParseLevel(s string) (qr.ErrorCorrectionLevel, error) {
	switch strings.ToUpper(s) {
	case "L":
		return qr.L, nil
	case "", "M":
		return qr.M, nil
	case "Q":
		return qr.Q, nil
	case "H":
		return qr.H, nil
	}
	return qr.M, fmt.Errorf("%w: unknown error correction level %q", bitmap.ErrFactor, s)
}

// QR encodes content as a QR code without a quiet zone.
func QR(content string, level qr.ErrorCorrectionLevel) (*bitmap.Grid, error) {
	code, err := qr.Encode(content, level, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("Couldn't encode QR code:\n%w", err)
	}
	return FromBarcode(code)
}

// DataMatrix encodes content as an ECC 200 Data Matrix symbol.
func DataMatrix(content string) (*bitmap.Grid, error) {
	code, err := datamatrix.Encode(content)
	if err != nil {
		return nil, fmt.Errorf("Couldn't encode Data Matrix:\n%w", err)
	}
	return FromBarcode(code)
}

// FromBarcode copies an unscaled barcode into a grid; dark modules are set.
func FromBarcode(code barcode.Barcode) (*bitmap.Grid, error) {
	b := code.Bounds()
	if err := bitmap.CheckSize(uint64(max(b.Dx(), 0)), uint64(max(b.Dy(), 0))); err != nil {
		return nil, err
	}
	data := make([]bool, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			data = append(data, color.GrayModel.Convert(code.At(x, y)).(color.Gray).Y < 0x80)
		}
	}
	return bitmap.New(data, b.Dx())
}

// Render scales every module of g to moduleSize pixels square and surrounds
// the result with quietZone modules of white.
func Render(g *bitmap.Grid, moduleSize, quietZone int) (*bitmap.Grid, error) {
	if moduleSize < 1 {
		return nil, fmt.Errorf("%w: module size %d", bitmap.ErrFactor, moduleSize)
	}
	if quietZone < 0 {
		return nil, fmt.Errorf("%w: quiet zone %d", bitmap.ErrFactor, quietZone)
	}
	if moduleSize > 1 {
		var err error
		if g, err = g.Mul(moduleSize); err != nil {
			return nil, err
		}
	}
	if quietZone > math.MaxInt/moduleSize {
		return nil, bitmap.ErrOverflow
	}
	return g.AddBorder(quietZone * moduleSize)
}
