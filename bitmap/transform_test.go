package bitmap_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tomgalvin.uk/monobmp/bitmap"
)

func TestMul(t *testing.T) {
	g := mustRows(t, [][]bool{{F, T}, {F, T}})
	want := mustRows(t, [][]bool{
		{F, F, T, T},
		{F, F, T, T},
		{F, F, T, T},
		{F, F, T, T},
	})
	got, err := g.Mul(2)
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "got\n%s", got.Text())

	g = mustRows(t, [][]bool{{F, F}, {F, T}})
	want = mustRows(t, [][]bool{
		{F, F, F, F},
		{F, F, F, F},
		{F, F, T, T},
		{F, F, T, T},
	})
	got, err = g.Mul(2)
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "got\n%s", got.Text())
}

func TestMulErrors(t *testing.T) {
	g := mustRows(t, [][]bool{{T, F}})

	for _, f := range []int{-3, 0, 1} {
		_, err := g.Mul(f)
		assert.ErrorIs(t, err, bitmap.ErrFactor, "factor %d", f)
	}

	_, err := g.Mul(1001)
	assert.ErrorIs(t, err, bitmap.ErrSize)

	_, err = g.Mul(math.MaxInt)
	assert.ErrorIs(t, err, bitmap.ErrOverflow)
}

func TestDiv(t *testing.T) {
	g := mustRows(t, [][]bool{
		{F, F, T, T},
		{F, F, T, T},
		{F, F, T, T},
		{F, F, T, T},
	})
	got, err := g.Div(2)
	require.NoError(t, err)
	assert.Equal(t, [][]bool{{F, T}, {F, T}}, got.Rows())

	g = mustRows(t, [][]bool{{F, F, T, T}, {F, F, T, T}})
	got, err = g.Div(2)
	require.NoError(t, err)
	assert.Equal(t, [][]bool{{F, T}}, got.Rows())
}

func TestDivErrors(t *testing.T) {
	nonUniform := mustRows(t, [][]bool{
		{F, T, T, T},
		{F, F, T, T},
		{F, F, T, T},
		{F, F, T, T},
	})
	_, err := nonUniform.Div(2)
	assert.ErrorIs(t, err, bitmap.ErrData)

	uniform := mustRows(t, [][]bool{{F, F, F}, {F, F, F}})
	for _, f := range []int{-1, 0, 1} {
		_, err := uniform.Div(f)
		assert.ErrorIs(t, err, bitmap.ErrFactor, "factor %d", f)
	}
	_, err = uniform.Div(2)
	assert.ErrorIs(t, err, bitmap.ErrFactor, "width 3 is not divisible by 2")
	_, err = uniform.Div(3)
	assert.ErrorIs(t, err, bitmap.ErrFactor, "height 2 is not divisible by 3")
	_, err = uniform.Div(4)
	assert.ErrorIs(t, err, bitmap.ErrFactor, "divisor larger than the grid")
}

func TestMulDivInverse(t *testing.T) {
	for range 20 {
		g := randomGrid(t, 20)
		for _, f := range []int{2, 3, 5} {
			m, err := g.Mul(f)
			require.NoError(t, err)
			d, err := m.Div(f)
			require.NoError(t, err)
			require.True(t, g.Equal(d), "factor %d on %s", f, g)
		}
	}
}

func TestAddBorder(t *testing.T) {
	g := mustRows(t, [][]bool{{F}})
	got, err := g.AddBorder(2)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Width())
	assert.Equal(t, 5, got.Height())
	assert.Equal(t, 0, got.Count())

	g = mustRows(t, [][]bool{{T, T}})
	got, err = g.AddBorder(1)
	require.NoError(t, err)
	assert.Equal(t, "....\n.##.\n....\n", got.Text())

	same, err := g.AddBorder(0)
	require.NoError(t, err)
	assert.True(t, g.Equal(same))
}

func TestAddBorderErrors(t *testing.T) {
	g := mustRows(t, [][]bool{{T}})

	_, err := g.AddBorder(-1)
	assert.ErrorIs(t, err, bitmap.ErrFactor)

	_, err = g.AddBorder(500)
	assert.ErrorIs(t, err, bitmap.ErrSize)

	_, err = g.AddBorder(math.MaxInt)
	assert.ErrorIs(t, err, bitmap.ErrOverflow)

	_, err = g.AddBorder(math.MaxInt / 2)
	assert.ErrorIs(t, err, bitmap.ErrSize, "fits an int but not the pixel ceiling")
}

func TestRemoveOneBorder(t *testing.T) {
	white := mustRows(t, [][]bool{{F, F, F}, {F, T, F}, {F, F, F}})
	got, err := white.RemoveOneBorder()
	require.NoError(t, err)
	assert.Equal(t, [][]bool{{T}}, got.Rows())

	dirty := mustRows(t, [][]bool{{F, F, F}, {F, T, F}, {F, F, T}})
	_, err = dirty.RemoveOneBorder()
	assert.ErrorIs(t, err, bitmap.ErrNoBorder)

	thin := mustRows(t, [][]bool{{F, F, F, F}, {F, F, F, F}})
	_, err = thin.RemoveOneBorder()
	assert.ErrorIs(t, err, bitmap.ErrNoBorder, "grids of height 2 keep their border")
}

func TestRemoveBorder(t *testing.T) {
	blank := make([]bool, 25)
	g, err := bitmap.New(blank, 5)
	require.NoError(t, err)

	got := g.RemoveBorder()
	assert.Equal(t, [][]bool{{F}}, got.Rows())

	full := mustRows(t, [][]bool{{T, T}, {T, T}})
	assert.Same(t, full, full.RemoveBorder(), "no border means no change")
}

func TestRemoveBorderMatchesRepeatedRemoveOne(t *testing.T) {
	for range 20 {
		inner := randomGrid(t, 8)
		bordered, err := inner.AddBorder(3)
		require.NoError(t, err)

		want := bordered
		for {
			next, err := want.RemoveOneBorder()
			if err != nil {
				break
			}
			want = next
		}
		assert.True(t, want.Equal(bordered.RemoveBorder()))
	}
}

func TestBorderInverse(t *testing.T) {
	// A set pixel on every edge stops RemoveBorder exactly at the original grid.
	g := mustRows(t, [][]bool{
		{T, F, F},
		{F, F, F},
		{F, F, T},
	})
	for _, n := range []int{0, 1, 4, 17} {
		b, err := g.AddBorder(n)
		require.NoError(t, err)
		assert.True(t, g.Equal(b.RemoveBorder()), "border %d", n)
	}
}

func TestRemoveBorderIdempotent(t *testing.T) {
	for range 30 {
		g := randomGrid(t, 12)
		b, err := g.AddBorder(2)
		require.NoError(t, err)
		once := b.RemoveBorder()
		assert.True(t, once.Equal(once.RemoveBorder()))
	}
}

func TestNormalize(t *testing.T) {
	module := mustRows(t, [][]bool{
		{T, T, T},
		{T, F, T},
		{T, T, F},
	})
	for _, scale := range []int{2, 3, 4, 5, 7, 9} {
		m, err := module.Mul(scale)
		require.NoError(t, err)
		b, err := m.AddBorder(3 * scale)
		require.NoError(t, err)
		assert.True(t, module.Equal(b.Normalize()), "scale %d", scale)
	}

	// Modules larger than the divisor range are left alone after unbordering.
	big, err := module.Mul(11)
	require.NoError(t, err)
	assert.True(t, big.Equal(big.Normalize()))
}

func TestInvert(t *testing.T) {
	g := mustRows(t, [][]bool{{T, F}, {F, F}})
	inv := g.Invert()
	assert.Equal(t, [][]bool{{F, T}, {T, T}}, inv.Rows())
	assert.True(t, g.Equal(inv.Invert()))
	assert.Equal(t, [][]bool{{T, F}, {F, F}}, g.Rows(), "receiver unchanged")
}
