// Package bitstream reads and writes fields of up to 64 bits to and from a
// byte stream. Bits are packed most significant bit first, so the first bit
// written lands in bit 7 of the first byte.
package bitstream

import (
	"errors"
	"io"
)

// MaxBits is the widest field that can be moved in a single call.
const MaxBits = 64

// ErrTooManyBits is returned when a caller asks for more than MaxBits bits at once.
// It signals misuse of the stream, not bad data.
var ErrTooManyBits = errors.New("bitstream: cannot transfer more than 64 bits at once")

// Writer buffers partial bytes and emits whole bytes to the underlying writer.
type Writer struct {
	w      io.Writer
	buf    [1]byte
	offset uint // bits already used in buf
}

// NewWriter returns a Writer that emits bytes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteBits appends the low nbits bits of value, most significant bit of the
// field first.
func (b *Writer) WriteBits(value uint64, nbits uint) error {
	if nbits > MaxBits {
		return ErrTooManyBits
	}
	for nbits > 0 {
		n := min(8-b.offset, nbits)
		chunk := byte((value >> (nbits - n)) & (1<<n - 1))
		b.buf[0] |= chunk << (8 - b.offset - n)
		b.offset += n
		nbits -= n
		if b.offset == 8 {
			if err := b.emit(); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteBool writes a single bit, 1 for true.
func (b *Writer) WriteBool(v bool) error {
	if v {
		return b.WriteBits(1, 1)
	}
	return b.WriteBits(0, 1)
}

// Flush pads a partial final byte with zero bits and emits it.
// It is a no-op when the stream is byte aligned.
func (b *Writer) Flush() error {
	if b.offset == 0 {
		return nil
	}
	return b.emit()
}

func (b *Writer) emit() error {
	if _, err := b.w.Write(b.buf[:]); err != nil {
		return err
	}
	b.buf[0] = 0
	b.offset = 0
	return nil
}
