// SPDX-License-Identifier: MIT
package mathx_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/wfst/internal/mathx"
)

func TestMinMax(t *testing.T) {
	assert.Equal(t, 2, mathx.Min(2, 5))
	assert.Equal(t, 5, mathx.Max(2, 5))
	assert.Equal(t, -1.5, mathx.Min(-1.5, 0.25))
	assert.Equal(t, 0.25, mathx.Max(-1.5, 0.25))
	assert.Equal(t, "a", mathx.Min("b", "a"))
	assert.True(t, math.IsInf(mathx.Max(1.0, math.Inf(1)), 1))
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 3, mathx.Abs(-3))
	assert.Equal(t, int64(7), mathx.Abs(int64(7)))
	assert.Equal(t, 0.5, mathx.Abs(-0.5))
}
