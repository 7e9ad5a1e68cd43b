// SPDX-License-Identifier: MIT
// Package mathx holds small generic numeric helpers shared by the weight
// algebra and the machine builders.
package mathx

import "golang.org/x/exp/constraints"

// Min returns the smaller of x and y.
func Min[T constraints.Ordered](x, y T) T {
	if x < y {
		return x
	}

	return y
}

// Max returns the larger of x and y.
func Max[T constraints.Ordered](x, y T) T {
	if x > y {
		return x
	}

	return y
}

// Abs returns the absolute value of x.
func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}

	return x
}
