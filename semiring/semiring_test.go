// SPDX-License-Identifier: MIT
package semiring_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wfst/semiring"
)

func TestKind_Identities(t *testing.T) {
	for _, k := range []semiring.Kind{semiring.Tropical, semiring.Log, semiring.Probability} {
		t.Run(k.String(), func(t *testing.T) {
			w := 0.75
			assert.InDelta(t, w, k.Plus(w, k.Zero()), 1e-12, "Zero is the Plus identity")
			assert.InDelta(t, w, k.Times(w, k.One()), 1e-12, "One is the Times identity")
			assert.True(t, k.IsZero(k.Times(w, k.Zero())), "Zero annihilates")
			assert.InDelta(t, w, k.Times(k.Divide(w, 0.5), 0.5), 1e-12)
			assert.True(t, k.IsZero(k.Divide(w, k.Zero())))
		})
	}
}

func TestKind_Plus(t *testing.T) {
	assert.Equal(t, 1.0, semiring.Tropical.Plus(1, 3))
	assert.InDelta(t, -math.Log(math.Exp(-1)+math.Exp(-3)), semiring.Log.Plus(1, 3), 1e-12)
	assert.Equal(t, 0.5, semiring.Probability.Plus(0.25, 0.25))
}

func TestKind_Idempotent(t *testing.T) {
	assert.True(t, semiring.Tropical.Idempotent())
	assert.False(t, semiring.Log.Idempotent())
	assert.False(t, semiring.Probability.Idempotent())
}

func TestKind_Less(t *testing.T) {
	assert.True(t, semiring.Tropical.Less(1, 2))
	assert.True(t, semiring.Log.Less(1, 2))
	assert.True(t, semiring.Probability.Less(0.9, 0.1))
}

func TestKind_Member(t *testing.T) {
	assert.True(t, semiring.Tropical.Member(math.Inf(1)))
	assert.True(t, semiring.Tropical.Member(-2))
	assert.False(t, semiring.Tropical.Member(math.NaN()))
	assert.False(t, semiring.Log.Member(math.Inf(-1)))
	assert.False(t, semiring.Probability.Member(-0.1))
}

func TestKind_Quantize(t *testing.T) {
	k := semiring.Tropical
	assert.Equal(t, k.Quantize(1.0, semiring.Delta), k.Quantize(1.0+semiring.Delta/4, semiring.Delta))
	assert.True(t, math.IsInf(k.Quantize(math.Inf(1), semiring.Delta), 1))
	assert.True(t, k.ApproxEqual(math.Inf(1), math.Inf(1), semiring.Delta))
}

func TestParse(t *testing.T) {
	for name, want := range map[string]semiring.Kind{
		"tropical": semiring.Tropical,
		"LOG":      semiring.Log,
		"":         semiring.Tropical,
	} {
		got, err := semiring.Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := semiring.Parse("boolean")
	assert.ErrorIs(t, err, semiring.ErrUnknownSemiring)
}
