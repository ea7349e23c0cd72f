package bcsv

import "golang.org/x/exp/constraints"

// unpack extracts a field's logical value from its raw slot.
// The shift is logical, never sign-extending.
func unpack[T constraints.Unsigned](raw T, f Field) T {
	return (raw & T(f.Mask)) >> f.Shift
}

// pack is the inverse of unpack. Bits outside the mask are dropped.
func pack[T constraints.Unsigned](v T, f Field) T {
	return (v << f.Shift) & T(f.Mask)
}
