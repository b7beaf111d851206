package bitmap

import (
	"math"
	"math/bits"
)

// MaxPixels caps width×height for every grid and every decoded file.
const MaxPixels = 1_000_000

// CheckSize accepts dimensions that are both positive, each fit the 32-bit
// header fields, and whose product does not exceed MaxPixels.
// It must run before anything sized by width or height is allocated.
func CheckSize(width, height uint64) error {
	hi, area := bits.Mul64(width, height)
	if width == 0 || height == 0 ||
		width > math.MaxUint32 || height > math.MaxUint32 ||
		hi != 0 || area > MaxPixels {
		return &SizeError{Width: width, Height: height}
	}
	return nil
}

// checkIntSize is CheckSize for dimensions held in ints.
func checkIntSize(width, height int) error {
	if width < 0 || height < 0 {
		// Report negatives as zero rather than as huge wrapped values.
		return &SizeError{Width: uint64(max(width, 0)), Height: uint64(max(height, 0))}
	}
	return CheckSize(uint64(width), uint64(height))
}

// mulDim returns a*b for non-negative a and b, failing with ErrOverflow
// when the product does not fit in an int.
func mulDim(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, ErrOverflow
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		return 0, ErrOverflow
	}
	return int(lo), nil
}

// addDim returns a+b for non-negative a and b, failing with ErrOverflow
// when the sum does not fit in an int.
func addDim(a, b int) (int, error) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}
