package bmp_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomgalvin.uk/monobmp/bitmap"
	"tomgalvin.uk/monobmp/bmp"
)

// Field offsets within the header.
const (
	offMagic       = 0
	offFileSize    = 2
	offPixelOffset = 10
	offInfoSize    = 14
	offWidth       = 18
	offHeight      = 22
	offPlanes      = 26
	offBitCount    = 28
	offCompression = 30
	offImageSize   = 34
	offXRes        = 38
	offColors      = 46
	offImportant   = 50
	offPalette     = 54
)

func headerBytes(t *testing.T, h bmp.Header) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, bmp.WriteHeader(&buf, h))
	require.Equal(t, bmp.HeaderSize, buf.Len())
	return buf.Bytes()
}

func TestHeaderGeometry(t *testing.T) {
	cases := []struct {
		width            uint32
		bytesPerRow, pad uint64
	}{
		{0, 0, 0},
		{1, 1, 3},
		{8, 1, 3},
		{9, 2, 2},
		{17, 3, 1},
		{25, 4, 0},
		{32, 4, 0},
		{33, 5, 3},
		{1000, 125, 3},
	}
	for _, tc := range cases {
		h := bmp.Header{Width: tc.width, Height: 3}
		assert.Equal(t, tc.bytesPerRow, h.BytesPerRow(), "width %d", tc.width)
		assert.Equal(t, tc.pad, h.Padding(), "width %d", tc.width)
		assert.Zero(t, h.RowSize()%4, "width %d", tc.width)
		assert.Equal(t, 3*h.RowSize(), h.ImageSize())
		assert.Equal(t, bmp.HeaderSize+h.ImageSize(), h.FileSize())
	}
}

func TestWriteHeader(t *testing.T) {
	b := headerBytes(t, bmp.Header{Width: 2, Height: 2})
	le := binary.LittleEndian

	assert.Equal(t, "BM", string(b[offMagic:offMagic+2]))
	assert.Equal(t, uint32(70), le.Uint32(b[offFileSize:]))
	assert.Equal(t, uint32(62), le.Uint32(b[offPixelOffset:]))
	assert.Equal(t, uint32(40), le.Uint32(b[offInfoSize:]))
	assert.Equal(t, uint32(2), le.Uint32(b[offWidth:]))
	assert.Equal(t, uint32(2), le.Uint32(b[offHeight:]))
	assert.Equal(t, uint16(1), le.Uint16(b[offPlanes:]))
	assert.Equal(t, uint16(1), le.Uint16(b[offBitCount:]))
	assert.Equal(t, uint32(0), le.Uint32(b[offCompression:]))
	assert.Equal(t, uint32(8), le.Uint32(b[offImageSize:]))
	assert.Equal(t, uint32(512), le.Uint32(b[offXRes:]))
	assert.Equal(t, uint32(2), le.Uint32(b[offColors:]))
	assert.Equal(t, uint32(2), le.Uint32(b[offImportant:]))
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0, 0, 0, 0, 0}, b[offPalette:])

	inv := headerBytes(t, bmp.Header{Width: 2, Height: 2, Inverted: true})
	assert.Equal(t, []byte{0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0}, inv[offPalette:])
}

func TestWriteHeaderRejectsSize(t *testing.T) {
	var buf bytes.Buffer
	err := bmp.WriteHeader(&buf, bmp.Header{Width: 0, Height: 1})
	assert.ErrorIs(t, err, bitmap.ErrSize)
	assert.Zero(t, buf.Len(), "nothing written for a rejected header")
}

func TestReadHeader(t *testing.T) {
	for _, want := range []bmp.Header{
		{Width: 1, Height: 1},
		{Width: 18, Height: 18},
		{Width: 1000, Height: 1000, Inverted: true},
	} {
		got, err := bmp.ReadHeader(bytes.NewReader(headerBytes(t, want)))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestReadHeaderRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(b []byte)
	}{
		{"Magic", func(b []byte) { b[offMagic] = 'X' }},
		{"SecondMagicByte", func(b []byte) { b[offMagic+1] = 'A' }},
		{"PixelOffset", func(b []byte) { binary.LittleEndian.PutUint32(b[offPixelOffset:], 54) }},
		{"InfoHeaderSize", func(b []byte) { binary.LittleEndian.PutUint32(b[offInfoSize:], 108) }},
		{"Planes", func(b []byte) { binary.LittleEndian.PutUint16(b[offPlanes:], 2) }},
		{"BitsPerPixel", func(b []byte) { binary.LittleEndian.PutUint16(b[offBitCount:], 8) }},
		{"Compression", func(b []byte) { binary.LittleEndian.PutUint32(b[offCompression:], 1) }},
		{"Colors", func(b []byte) { binary.LittleEndian.PutUint32(b[offColors:], 0) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := headerBytes(t, bmp.Header{Width: 4, Height: 4})
			tc.mutate(b)
			// Zero dimensions as well: a structural fault must win over a size fault.
			binary.LittleEndian.PutUint32(b[offWidth:], 0)

			_, err := bmp.ReadHeader(bytes.NewReader(b))
			assert.ErrorIs(t, err, bmp.ErrHeader)
			assert.NotErrorIs(t, err, bitmap.ErrSize)
		})
	}
}

func TestReadHeaderIgnoresInformationalFields(t *testing.T) {
	b := headerBytes(t, bmp.Header{Width: 3, Height: 5})
	binary.LittleEndian.PutUint32(b[offFileSize:], 1)
	binary.LittleEndian.PutUint32(b[offImageSize:], 0)
	binary.LittleEndian.PutUint32(b[offXRes:], 2835)
	binary.LittleEndian.PutUint32(b[offImportant:], 0)

	h, err := bmp.ReadHeader(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, bmp.Header{Width: 3, Height: 5}, h)
}

func TestReadHeaderSize(t *testing.T) {
	cases := []struct {
		name          string
		width, height uint32
	}{
		{"ZeroWidth", 0, 268435502},
		{"ZeroHeight", 10, 0},
		{"Huge", 4294966802, 237},
		{"JustOverCeiling", 1001, 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := headerBytes(t, bmp.Header{Width: 1, Height: 1})
			binary.LittleEndian.PutUint32(b[offWidth:], tc.width)
			binary.LittleEndian.PutUint32(b[offHeight:], tc.height)

			_, err := bmp.ReadHeader(bytes.NewReader(b))
			var se *bitmap.SizeError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, uint64(tc.width), se.Width)
			assert.Equal(t, uint64(tc.height), se.Height)
			assert.NotErrorIs(t, err, bmp.ErrHeader)
		})
	}
}

func TestReadHeaderTruncated(t *testing.T) {
	b := headerBytes(t, bmp.Header{Width: 1, Height: 1})
	for _, n := range []int{0, 1, 14, 54, bmp.HeaderSize - 1} {
		_, err := bmp.ReadHeader(bytes.NewReader(b[:n]))
		require.Error(t, err, "length %d", n)
		assert.True(t, errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF), "length %d: %v", n, err)
		assert.NotErrorIs(t, err, bmp.ErrHeader)
	}
}
