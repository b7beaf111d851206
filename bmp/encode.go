package bmp

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"tomgalvin.uk/monobmp/bitmap"
	"tomgalvin.uk/monobmp/internal/bitstream"
)

type options struct {
	inverted bool
}

// Option configures Encode.
type Option func(*options)

// WithInvertedPalette writes the swapped palette, so that set pixels are
// displayed white on a black background.
func WithInvertedPalette() Option {
	return func(o *options) {
		o.inverted = true
	}
}

// Encode writes g to w as a monochrome BMP file.
func Encode(w io.Writer, g *bitmap.Grid, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	h := Header{Width: uint32(g.Width()), Height: uint32(g.Height()), Inverted: o.inverted}
	bw := bufio.NewWriter(w)
	if err := WriteHeader(bw, h); err != nil {
		return err
	}

	bits := bitstream.NewWriter(bw)
	padBits := uint(h.RowSize()*8) - uint(h.Width)
	for y := range g.Height() {
		for x := range g.Width() {
			if err := bits.WriteBool(g.Get(x, y)); err != nil {
				return fmt.Errorf("bmp: writing row %d: %w", y, err)
			}
		}
		if err := bits.WriteBits(0, padBits); err != nil {
			return fmt.Errorf("bmp: padding row %d: %w", y, err)
		}
	}
	if err := bits.Flush(); err != nil {
		return fmt.Errorf("bmp: writing pixels: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("bmp: writing pixels: %w", err)
	}
	return nil
}

// Marshal returns the BMP encoding of g.
func Marshal(g *bitmap.Grid, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(Header{Width: uint32(g.Width()), Height: uint32(g.Height())}.FileSize()))
	if err := Encode(&buf, g, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
