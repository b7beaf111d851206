package bitstream

import (
	"errors"
	"io"
)

// Reader pulls bytes from the underlying reader one at a time as its bit
// buffer runs dry.
type Reader struct {
	r      io.Reader
	buf    [1]byte
	offset uint // bits already consumed from buf; 8 means empty
}

// NewReader returns a Reader consuming bytes from r.
// Wrap slow sources in a bufio.Reader first.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, offset: 8}
}

// ReadBits consumes the next nbits bits and returns them right aligned.
// A source that runs out before nbits bits are available yields
// io.ErrUnexpectedEOF.
func (b *Reader) ReadBits(nbits uint) (uint64, error) {
	if nbits > MaxBits {
		return 0, ErrTooManyBits
	}
	var v uint64
	for nbits > 0 {
		if b.offset == 8 {
			if _, err := io.ReadFull(b.r, b.buf[:]); err != nil {
				if errors.Is(err, io.EOF) {
					err = io.ErrUnexpectedEOF
				}
				return 0, err
			}
			b.offset = 0
		}
		n := min(8-b.offset, nbits)
		chunk := (b.buf[0] << b.offset) >> (8 - n)
		v = v<<n | uint64(chunk)
		b.offset += n
		nbits -= n
	}
	return v, nil
}

// ReadBool consumes a single bit.
func (b *Reader) ReadBool() (bool, error) {
	v, err := b.ReadBits(1)
	return v == 1, err
}
