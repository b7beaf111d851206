package bitmap

import "fmt"

// normalizeLimit bounds the module size Normalize will collapse: divisors
// are tried from normalizeLimit-1 down to 2.
const normalizeLimit = 10

// Mul returns a grid where every pixel becomes a factor×factor block of the
// same value. factor must be greater than 1.
// Complexity: O(W·H·factor²).
func (g *Grid) Mul(factor int) (*Grid, error) {
	if factor <= 1 {
		return nil, fmt.Errorf("%w: mul factor %d must be greater than 1", ErrFactor, factor)
	}
	width, err := mulDim(g.width, factor)
	if err != nil {
		return nil, err
	}
	height, err := mulDim(g.Height(), factor)
	if err != nil {
		return nil, err
	}
	if err := checkIntSize(width, height); err != nil {
		return nil, err
	}

	data := make([]bool, 0, width*height)
	row := make([]bool, 0, width)
	for i := range g.Height() {
		row = row[:0]
		for _, p := range g.data[i*g.width : (i+1)*g.width] {
			for range factor {
				row = append(row, p)
			}
		}
		for range factor {
			data = append(data, row...)
		}
	}
	return build(data, width)
}

// Div is the inverse of Mul: it collapses every factor×factor block into one
// pixel. Both dimensions must be multiples of factor (ErrFactor otherwise)
// and every block must be a single colour (ErrData otherwise); Div never
// averages.
// Complexity: O(W·H).
func (g *Grid) Div(factor int) (*Grid, error) {
	if factor <= 1 {
		return nil, fmt.Errorf("%w: div factor %d must be greater than 1", ErrFactor, factor)
	}
	if g.width%factor != 0 || g.Height()%factor != 0 {
		return nil, fmt.Errorf("%w: %dx%d is not divisible by %d", ErrFactor, g.width, g.Height(), factor)
	}

	width, height := g.width/factor, g.Height()/factor
	data := make([]bool, width*height)
	for bi := range height {
		for bj := range width {
			top, left := bi*factor, bj*factor
			v := g.data[top*g.width+left]
			for i := top; i < top+factor; i++ {
				for _, p := range g.data[i*g.width+left : i*g.width+left+factor] {
					if p != v {
						return nil, fmt.Errorf("%w: block at row %d, column %d is not uniform", ErrData, top, left)
					}
				}
			}
			data[bi*width+bj] = v
		}
	}
	return build(data, width)
}

// AddBorder returns a grid surrounded on all four sides by size rows and
// columns of white (false) pixels. AddBorder(0) returns an equal grid.
func (g *Grid) AddBorder(size int) (*Grid, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: border size %d is negative", ErrFactor, size)
	}
	double, err := mulDim(size, 2)
	if err != nil {
		return nil, err
	}
	width, err := addDim(g.width, double)
	if err != nil {
		return nil, err
	}
	height, err := addDim(g.Height(), double)
	if err != nil {
		return nil, err
	}
	if err := checkIntSize(width, height); err != nil {
		return nil, err
	}

	data := make([]bool, width*height)
	for i := range g.Height() {
		copy(data[(i+size)*width+size:], g.data[i*g.width:(i+1)*g.width])
	}
	return build(data, width)
}

// RemoveOneBorder strips the outermost ring of pixels. It fails with
// ErrNoBorder unless the grid is larger than 2×2 in both dimensions and every
// pixel of the ring is white.
func (g *Grid) RemoveOneBorder() (*Grid, error) {
	if !g.ringIsWhite(0) {
		return nil, ErrNoBorder
	}
	return g.crop(1), nil
}

// RemoveBorder strips white rings until none is left and returns the result.
// A grid without a white border is returned as is; RemoveBorder never fails.
func (g *Grid) RemoveBorder() *Grid {
	depth := 0
	for g.ringIsWhite(depth) {
		depth++
	}
	if depth == 0 {
		return g
	}
	return g.crop(depth)
}

// Normalize removes any white border, then collapses modules by the largest
// divisor in [2, 10) for which Div succeeds. It turns a scaled, bordered
// symbol (a rendered QR code, say) back into one pixel per module.
func (g *Grid) Normalize() *Grid {
	return g.RemoveBorder().divByLargest(normalizeLimit)
}

// divByLargest returns the first successful Div for factors limit-1 down to 2,
// or g itself when none succeeds.
func (g *Grid) divByLargest(limit int) *Grid {
	for f := limit - 1; f >= 2; f-- {
		if d, err := g.Div(f); err == nil {
			return d
		}
	}
	return g
}

// Invert returns a grid with every pixel flipped.
func (g *Grid) Invert() *Grid {
	data := make([]bool, len(g.data))
	for i, p := range g.data {
		data[i] = !p
	}
	return &Grid{data: data, width: g.width}
}

// ringIsWhite reports whether the ring at the given depth can be removed:
// the grid left after removing depth rings is larger than 2×2 and the
// outermost ring of that inner grid is all white.
func (g *Grid) ringIsWhite(depth int) bool {
	w, h := g.width-2*depth, g.Height()-2*depth
	if w <= 2 || h <= 2 {
		return false
	}
	top, bottom := depth, depth+h-1
	left, right := depth, depth+w-1
	for j := left; j <= right; j++ {
		if g.data[top*g.width+j] || g.data[bottom*g.width+j] {
			return false
		}
	}
	for i := top + 1; i < bottom; i++ {
		if g.data[i*g.width+left] || g.data[i*g.width+right] {
			return false
		}
	}
	return true
}

// crop returns the grid left after removing depth rings.
// The caller guarantees the result is non-empty.
func (g *Grid) crop(depth int) *Grid {
	w, h := g.width-2*depth, g.Height()-2*depth
	data := make([]bool, 0, w*h)
	for i := depth; i < depth+h; i++ {
		start := i*g.width + depth
		data = append(data, g.data[start:start+w]...)
	}
	return &Grid{data: data, width: w}
}
