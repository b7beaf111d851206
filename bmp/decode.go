package bmp

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"tomgalvin.uk/monobmp/bitmap"
	"tomgalvin.uk/monobmp/internal/bitstream"
)

// Decode reads a monochrome BMP file from r. Pixels are returned as stored:
// true for bit value 1 whatever the palette. Use DecodeWithHeader to learn
// the palette order.
func Decode(r io.Reader) (*bitmap.Grid, error) {
	g, _, err := DecodeWithHeader(r)
	return g, err
}

// DecodeWithHeader is Decode that also returns the parsed header.
//
// Nothing is allocated for pixels until the header has passed validation.
// Decode reads no further than the end of the pixel data. A file cut short
// fails with an error wrapping io.ErrUnexpectedEOF; there is no partial
// result.
func DecodeWithHeader(r io.Reader) (*bitmap.Grid, Header, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, Header{}, err
	}

	width, height := int(h.Width), int(h.Height)
	padBits := uint(h.RowSize()*8) - uint(h.Width)
	bits := bitstream.NewReader(bufio.NewReader(io.LimitReader(r, int64(h.ImageSize()))))

	data := make([]bool, width*height)
	// Rows are stored bottom-up.
	for i := height - 1; i >= 0; i-- {
		row := data[i*width : (i+1)*width]
		for j := range row {
			if row[j], err = bits.ReadBool(); err != nil {
				return nil, Header{}, fmt.Errorf("bmp: reading row %d: %w", height-1-i, err)
			}
		}
		if _, err := bits.ReadBits(padBits); err != nil {
			return nil, Header{}, fmt.Errorf("bmp: reading row %d padding: %w", height-1-i, err)
		}
	}

	g, err := bitmap.New(data, width)
	if err != nil {
		return nil, Header{}, err
	}
	return g, h, nil
}

// Unmarshal decodes a BMP file held in memory.
func Unmarshal(b []byte) (*bitmap.Grid, error) {
	return Decode(bytes.NewReader(b))
}
