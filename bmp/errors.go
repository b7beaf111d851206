package bmp

import "errors"

// ErrHeader is returned for headers outside the supported profile:
// anything that is not an uncompressed 1-bit BMP with a two-colour palette
// and a 40-byte info header.
var ErrHeader = errors.New("bmp: not a supported monochrome bitmap")
