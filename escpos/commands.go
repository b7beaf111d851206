// This file holds the ESC/POS command byte sequences used to print raster
// bitmaps on thermal receipt and label printers.

package escpos

// Control characters
const (
	Esc = 0x1B
	GS  = 0x1D
	US  = 0x1F
)

// Justify is the horizontal alignment of a printed bitmap.
type Justify byte

const (
	Left   Justify = 0x00
	Centre Justify = 0x01
	Right  Justify = 0x02
)

// Density is the print head intensity, as understood by Phomemo printers.
type Density byte

const (
	Low    Density = 0x01
	Medium Density = 0x03
	High   Density = 0x04
)

// Initialises the printer & prepares it to accept commands
func initPrinter() []byte {
	return []byte{Esc, 0x40}
}

func setJustify(justify Justify) []byte {
	return []byte{Esc, 0x61, byte(justify)}
}

func setDensity(d Density) []byte {
	return []byte{US, 0x11, 0x02, byte(d)}
}

// GS v 0: the next widthBytes*rows bytes are raster data, 8 pixels to a
// byte, most significant bit leftmost, 1 meaning a printed dot.
func rasterHeader(widthBytes, rows uint16) []byte {
	return []byte{
		GS, 0x76, 0x30, 0x00,
		byte(widthBytes), byte(widthBytes >> 8),
		byte(rows), byte(rows >> 8),
	}
}

// Makes the printer spool through a number of blank lines.
func feedLines(n byte) []byte {
	return []byte{Esc, 0x64, n}
}
