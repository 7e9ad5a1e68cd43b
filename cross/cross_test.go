// SPDX-License-Identifier: MIT
package cross_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wfst/compile"
	"github.com/katalvlaran/wfst/cross"
	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/token"
)

// fixture holds a byte codec and helpers to build and query machines.
type fixture struct {
	t     *testing.T
	codec *token.Codec
}

func newFixture(t *testing.T) fixture {
	c, err := token.NewCodec(token.Byte)
	require.NoError(t, err)

	return fixture{t: t, codec: c}
}

func (fx fixture) str(s string, w float64) *fst.Fst {
	m, err := compile.String(s, fx.codec, compile.WithWeight(w))
	require.NoError(fx.t, err)

	return m
}

func (fx fixture) lang(ss ...string) *fst.Fst {
	entries := make([]compile.Entry, len(ss))
	for i, s := range ss {
		entries[i] = compile.Entry{Input: s, Output: s}
	}
	m, err := compile.Map(entries, fx.codec)
	require.NoError(fx.t, err)

	return m
}

func (fx fixture) weight(m *fst.Fst, in, out string) (float64, bool) {
	fx.t.Helper()
	left, err := fst.Compose(fx.str(in, 0), m)
	require.NoError(fx.t, err)
	both, err := fst.Compose(left, fx.str(out, 0))
	require.NoError(fx.t, err)
	if both.Empty() {
		return 0, false
	}
	d, err := fst.ShortestDistance(both, true)
	require.NoError(fx.t, err)

	return d[both.Start()], true
}

func TestCross_AllPairs(t *testing.T) {
	fx := newFixture(t)
	c, err := cross.Cross(fx.lang("a", "bb"), fx.lang("x", "yyy"))
	require.NoError(t, err)
	for _, in := range []string{"a", "bb"} {
		for _, out := range []string{"x", "yyy"} {
			_, ok := fx.weight(c, in, out)
			assert.True(t, ok, "%s:%s", in, out)
		}
	}
	_, ok := fx.weight(c, "a", "a")
	assert.False(t, ok)
}

func TestCross_TimesWeights(t *testing.T) {
	fx := newFixture(t)
	c, err := cross.Cross(fx.str("a", 1), fx.str("b", 2))
	require.NoError(t, err)
	w, ok := fx.weight(c, "a", "b")
	require.True(t, ok)
	assert.InDelta(t, 3.0, w, 1e-9)
}

func TestCross_SymbolMismatch(t *testing.T) {
	s1, s2 := fst.NewSymbolTable("one"), fst.NewSymbolTable("two")
	s1.Add("a")
	s2.Add("b")
	a := fst.Linear([]fst.Label{1}, []fst.Label{1}, 0, fst.WithSymbols(s1, s1))
	b := fst.Linear([]fst.Label{1}, []fst.Label{1}, 0, fst.WithSymbols(s2, s2))
	_, err := cross.Cross(a, b)
	assert.ErrorIs(t, err, fst.ErrSymbolMismatch)

	raw := fst.Linear([]fst.Label{'a'}, []fst.Label{'a'}, 0)
	_, err = cross.Cross(raw, b)
	assert.ErrorIs(t, err, fst.ErrSymbolMismatch, "byte labels against a symbol table")
}

func TestRange_Bounds(t *testing.T) {
	fx := newFixture(t)
	r, err := cross.Range(fx.str("a", 0), 2, 3)
	require.NoError(t, err)
	for s, want := range map[string]bool{
		"":     false,
		"a":    false,
		"aa":   true,
		"aaa":  true,
		"aaaa": false,
	} {
		_, ok := fx.weight(r, s, s)
		assert.Equal(t, want, ok, "%q", s)
	}
}

func TestRange_Unbounded(t *testing.T) {
	fx := newFixture(t)
	r, err := cross.Range(fx.str("ab", 1), 1, cross.Unbounded)
	require.NoError(t, err)
	_, ok := fx.weight(r, "", "")
	assert.False(t, ok)
	w, ok := fx.weight(r, "ababab", "ababab")
	require.True(t, ok)
	assert.InDelta(t, 3.0, w, 1e-9)
}

func TestRange_ZeroAdmitsEpsilon(t *testing.T) {
	fx := newFixture(t)
	r, err := cross.Range(fx.str("a", 5), 0, 1)
	require.NoError(t, err)
	w, ok := fx.weight(r, "", "")
	require.True(t, ok)
	assert.Equal(t, 0.0, w)
}

func TestRange_Invalid(t *testing.T) {
	fx := newFixture(t)
	for _, tc := range [][2]int{{-1, 2}, {3, 2}, {-2, cross.Unbounded}} {
		_, err := cross.Range(fx.str("a", 0), tc[0], tc[1])
		assert.ErrorIs(t, err, cross.ErrRange, "%v", tc)
	}
}

func TestClosureHelpers(t *testing.T) {
	fx := newFixture(t)
	a := fx.str("a", 0)
	_, ok := fx.weight(cross.Closure(a), "", "")
	assert.True(t, ok)
	_, ok = fx.weight(cross.Plus(a), "", "")
	assert.False(t, ok)
	opt, err := cross.Optional(a)
	require.NoError(t, err)
	_, ok = fx.weight(opt, "", "")
	assert.True(t, ok)
	_, ok = fx.weight(opt, "aa", "aa")
	assert.False(t, ok)
}
