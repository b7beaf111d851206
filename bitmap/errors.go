package bitmap

import (
	"errors"
	"fmt"
)

var (
	// ErrData indicates pixel data that cannot form a grid: empty input,
	// a length that is not a multiple of the width, ragged rows, or (for Div)
	// blocks that are not uniform.
	ErrData = errors.New("bitmap: invalid pixel data")
	// ErrFactor indicates an unusable transform parameter, such as a scale
	// factor ≤ 1 or a divisor that does not split the grid evenly.
	ErrFactor = errors.New("bitmap: invalid transform parameter")
	// ErrOverflow indicates that a transform's target dimensions do not fit in an int.
	ErrOverflow = errors.New("bitmap: dimension overflow")
	// ErrNoBorder is returned by RemoveOneBorder when there is no all-white
	// ring left to strip.
	ErrNoBorder = errors.New("bitmap: no removable border")
	// ErrSize is the sentinel wrapped by every *SizeError.
	ErrSize = errors.New("bitmap: size out of range")
)

// SizeError reports dimensions rejected by CheckSize.
// Use errors.As to recover the offending values.
type SizeError struct {
	Width, Height uint64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("bitmap: size %dx%d out of range (need 1..%d pixels)", e.Width, e.Height, MaxPixels)
}

func (e *SizeError) Unwrap() error { return ErrSize }
