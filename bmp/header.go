// Package bmp reads and writes the monochrome subset of the BMP file format:
// one bit per pixel, uncompressed, with a two-entry palette.
//
// A file is a 62-byte header (14-byte file header, 40-byte info header and
// an 8-byte palette) followed by the pixel rows, bottom row first. Each row
// is packed most significant bit first and padded with zero bits to a
// 4-byte boundary.
package bmp

import (
	"encoding/binary"
	"fmt"
	"io"

	"tomgalvin.uk/monobmp/bitmap"
)

const (
	// HeaderSize is the length of everything before the pixel data, and so
	// also the pixel data offset written to every file.
	HeaderSize = fileHeaderSize + infoHeaderSize + paletteSize

	fileHeaderSize = 14
	infoHeaderSize = 40
	paletteSize    = 8

	resolution = 512
	colors     = 2

	white uint32 = 0x00FFFFFF
	black uint32 = 0x00000000
)

var magic = [2]byte{'B', 'M'}

// fileHeader is the BITMAPFILEHEADER structure.
type fileHeader struct {
	Type      [2]byte
	Size      uint32
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32
}

// infoHeader is the BITMAPINFOHEADER structure. Width and Height are kept
// unsigned: negative (top-down) heights are outside the supported profile.
type infoHeader struct {
	Size            uint32
	Width           uint32
	Height          uint32
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	SizeImage       uint32
	XPixelsPerM     uint32
	YPixelsPerM     uint32
	ColorsUsed      uint32
	ColorsImportant uint32
}

type rawHeader struct {
	File    fileHeader
	Info    infoHeader
	Palette [colors]uint32
}

// Header describes a monochrome BMP file.
type Header struct {
	Width, Height uint32
	// Inverted selects the swapped palette, where bit value 0 is black and
	// 1 is white. Pixel bits are stored as they are either way.
	Inverted bool
}

// BytesPerRow is the number of bytes holding one row of pixels, before padding.
func (h Header) BytesPerRow() uint64 {
	return (uint64(h.Width) + 7) / 8
}

// Padding is the number of zero bytes appended to each row.
func (h Header) Padding() uint64 {
	return (4 - h.BytesPerRow()%4) % 4
}

// RowSize is the stored length of a row, always a multiple of 4.
func (h Header) RowSize() uint64 {
	return h.BytesPerRow() + h.Padding()
}

// ImageSize is the length of the pixel data.
func (h Header) ImageSize() uint64 {
	return h.RowSize() * uint64(h.Height)
}

// FileSize is the length of the whole file.
func (h Header) FileSize() uint64 {
	return HeaderSize + h.ImageSize()
}

// CheckSize reports whether the header's dimensions pass bitmap.CheckSize.
func (h Header) CheckSize() error {
	return bitmap.CheckSize(uint64(h.Width), uint64(h.Height))
}

// WriteHeader writes the 62 header bytes for h to w.
// Dimensions failing CheckSize are refused with a *bitmap.SizeError.
func WriteHeader(w io.Writer, h Header) error {
	if err := h.CheckSize(); err != nil {
		return err
	}

	palette := [colors]uint32{white, black}
	if h.Inverted {
		palette = [colors]uint32{black, white}
	}
	raw := rawHeader{
		File: fileHeader{
			Type:    magic,
			Size:    uint32(h.FileSize()),
			OffBits: HeaderSize,
		},
		Info: infoHeader{
			Size:            infoHeaderSize,
			Width:           h.Width,
			Height:          h.Height,
			Planes:          1,
			BitCount:        1,
			SizeImage:       uint32(h.ImageSize()),
			XPixelsPerM:     resolution,
			YPixelsPerM:     resolution,
			ColorsUsed:      colors,
			ColorsImportant: colors,
		},
		Palette: palette,
	}
	if err := binary.Write(w, binary.LittleEndian, &raw); err != nil {
		return fmt.Errorf("bmp: writing header: %w", err)
	}
	return nil
}

// ReadHeader reads exactly HeaderSize bytes from r and validates them.
//
// Any field that differs from what WriteHeader produces (magic, pixel data
// offset, info header size, planes, bits per pixel, compression or colour
// count) fails with ErrHeader. Well formed headers whose dimensions fail
// CheckSize fail with a *bitmap.SizeError instead. The file size, image
// size, resolution and important colour fields are not checked.
func ReadHeader(r io.Reader) (Header, error) {
	var raw rawHeader
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return Header{}, fmt.Errorf("bmp: reading header: %w", err)
	}

	f, info := raw.File, raw.Info
	switch {
	case f.Type != magic:
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrHeader, f.Type[:])
	case f.OffBits != HeaderSize:
		return Header{}, fmt.Errorf("%w: pixel data offset %d", ErrHeader, f.OffBits)
	case info.Size != infoHeaderSize:
		return Header{}, fmt.Errorf("%w: info header size %d", ErrHeader, info.Size)
	case info.Planes != 1:
		return Header{}, fmt.Errorf("%w: %d planes", ErrHeader, info.Planes)
	case info.BitCount != 1:
		return Header{}, fmt.Errorf("%w: %d bits per pixel", ErrHeader, info.BitCount)
	case info.Compression != 0:
		return Header{}, fmt.Errorf("%w: compression %d", ErrHeader, info.Compression)
	case info.ColorsUsed != colors:
		return Header{}, fmt.Errorf("%w: %d colours", ErrHeader, info.ColorsUsed)
	}

	h := Header{
		Width:    info.Width,
		Height:   info.Height,
		Inverted: luma(raw.Palette[0]) < luma(raw.Palette[1]),
	}
	if err := h.CheckSize(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// luma sums the blue, green and red bytes of a palette entry.
func luma(entry uint32) uint32 {
	return entry&0xFF + entry>>8&0xFF + entry>>16&0xFF
}
