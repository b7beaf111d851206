package escpos

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tomgalvin.uk/monobmp/bitmap"
)

func blank(t *testing.T, w, h int) *bitmap.Grid {
	t.Helper()
	g, err := bitmap.New(make([]bool, w*h), w)
	require.NoError(t, err)
	return g
}

func TestEncodeSmallGrid(t *testing.T) {
	// 10x2: top row has its first and last pixel set
	data := make([]bool, 20)
	data[0], data[9] = true, true
	g, err := bitmap.New(data, 10)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g))

	expected := []byte{
		Esc, 0x40,
		Esc, 0x61, 0x01,
		US, 0x11, 0x02, 0x03,
		GS, 0x76, 0x30, 0x00, 0x02, 0x00, 0x02, 0x00,
		0x80, 0x40,
		0x00, 0x00,
		Esc, 0x64, 0x04,
	}
	assert.Equal(t, expected, buf.Bytes())
}

func TestEncodeOptions(t *testing.T) {
	g := blank(t, 8, 1)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g, WithJustify(Right), WithDensity(High), WithFeed(0)))

	out := buf.Bytes()
	assert.Equal(t, []byte{Esc, 0x61, 0x02}, out[2:5])
	assert.Equal(t, []byte{US, 0x11, 0x02, 0x04}, out[5:9])
	assert.Equal(t, []byte{Esc, 0x64, 0x00}, out[len(out)-3:])
}

func TestEncodeSplitsTallGrids(t *testing.T) {
	g := blank(t, 16, 600)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g))
	out := buf.Bytes()

	// init + justify + density, then three blocks, then feed
	pos := 2 + 3 + 4
	for _, rows := range []int{256, 256, 88} {
		require.Equal(t, rasterHeader(2, uint16(rows)), out[pos:pos+8], "block of %d rows", rows)
		pos += 8 + 2*rows
	}
	assert.Equal(t, feedLines(4), out[pos:])
}

func TestEncodeExactBlock(t *testing.T) {
	g := blank(t, 1, MaxBlockRows)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g))
	assert.Equal(t, 9+8+MaxBlockRows+3, buf.Len())
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte{GS, 0x76, 0x30, 0x00}))
}

func TestRasterHeaderLittleEndian(t *testing.T) {
	assert.Equal(t, []byte{GS, 0x76, 0x30, 0x00, 0x34, 0x12, 0x01, 0x01}, rasterHeader(0x1234, 0x0101))
}

func TestEncodeTooWide(t *testing.T) {
	g := blank(t, 0x10000*8, 1)

	err := Encode(&bytes.Buffer{}, g)
	assert.ErrorIs(t, err, ErrTooWide)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("paper jam")
}

func TestEncodeSinkError(t *testing.T) {
	err := Encode(failingWriter{}, blank(t, 8, 8))
	assert.ErrorContains(t, err, "paper jam")
}
