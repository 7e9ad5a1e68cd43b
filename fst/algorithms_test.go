// SPDX-License-Identifier: MIT
package fst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/semiring"
)

func TestCompose_Chain(t *testing.T) {
	ab := fst.Linear(ls("a"), ls("b"), 1)
	bc := fst.Linear(ls("b"), ls("cc"), 2)
	c, err := fst.Compose(ab, bc)
	require.NoError(t, err)
	w, ok := weightOf(t, c, "a", "cc")
	require.True(t, ok)
	assert.InDelta(t, 3.0, w, 1e-9)
}

func TestCompose_EpsilonPathsCountedOnce(t *testing.T) {
	// a: "a" -> "" ; b: "" -> "x". The log-semiring total exposes duplicates.
	a := fst.Linear(ls("a"), nil, 1, fst.WithSemiring(semiring.Log))
	b := fst.Linear(nil, ls("x"), 2, fst.WithSemiring(semiring.Log))
	c, err := fst.Compose(a, b)
	require.NoError(t, err)
	w, ok := weightOf(t, c, "a", "x")
	require.True(t, ok)
	assert.InDelta(t, 3.0, w, 1e-9)
}

func TestCompose_EmptyResultIsValid(t *testing.T) {
	c, err := fst.Compose(acceptor("a", 0), acceptor("b", 0))
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestIntersect_RequiresAcceptors(t *testing.T) {
	_, err := fst.Intersect(fst.Linear(ls("a"), ls("b"), 0), acceptor("a", 0))
	assert.ErrorIs(t, err, fst.ErrNotAcceptor)
}

func TestShortestDistance_Tropical(t *testing.T) {
	u, err := fst.Union(acceptor("ab", 3), acceptor("ab", 1))
	require.NoError(t, err)
	d, err := fst.ShortestDistance(u, true)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d[u.Start()], 1e-9)
}

func TestShortestDistance_NegativeCycle(t *testing.T) {
	f := fst.New()
	s := f.AddState()
	require.NoError(t, f.AddArc(s, fst.Arc{ILabel: 1, OLabel: 1, Weight: -1, Next: s}))
	require.NoError(t, f.SetFinal(s, 0))
	_, err := fst.ShortestDistance(f, false)
	assert.ErrorIs(t, err, fst.ErrNoConvergence)
}

func TestRmEpsilon_PreservesWeights(t *testing.T) {
	c, err := fst.Concat(acceptor("a", 1), acceptor("b", 2))
	require.NoError(t, err)
	star := fst.Closure(c, true)
	r, err := fst.RmEpsilon(star)
	require.NoError(t, err)
	assert.False(t, r.HasEpsilons())
	for _, s := range []string{"", "ab", "abab"} {
		want, ok1 := weightOf(t, star, s, s)
		got, ok2 := weightOf(t, r, s, s)
		require.Equal(t, ok1, ok2, s)
		assert.InDelta(t, want, got, 1e-9, s)
	}
}

func TestDeterminize_KeepsMinimum(t *testing.T) {
	u, err := fst.UnionAll(acceptor("ab", 3), acceptor("ab", 1), acceptor("ac", 2))
	require.NoError(t, err)
	d, err := fst.Determinize(u)
	require.NoError(t, err)
	assert.True(t, d.IsInputDeterministic())

	w, ok := weightOf(t, d, "ab", "ab")
	require.True(t, ok)
	assert.InDelta(t, 1.0, w, 1e-9)
	w, ok = weightOf(t, d, "ac", "ac")
	require.True(t, ok)
	assert.InDelta(t, 2.0, w, 1e-9)
}

func TestDeterminize_Errors(t *testing.T) {
	_, err := fst.Determinize(fst.Linear(ls("a"), ls("b"), 0))
	assert.ErrorIs(t, err, fst.ErrNotAcceptor)

	u, err := fst.UnionAll(acceptor("abc", 0), acceptor("abd", 1), acceptor("xyz", 0))
	require.NoError(t, err)
	_, err = fst.Determinize(u, fst.WithMaxStates(2))
	assert.ErrorIs(t, err, fst.ErrStateLimit)
}

func TestDeterminizeOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { fst.WithMaxStates(-1) })
	assert.Panics(t, func() { fst.WithDelta(0) })
}

func TestComplement(t *testing.T) {
	c := fst.Complement(acceptor("ab", 0), ls("ab"))
	for _, tc := range []struct {
		s    string
		want bool
	}{
		{"", true},
		{"a", true},
		{"ab", false},
		{"abb", true},
		{"ba", true},
	} {
		_, ok := weightOf(t, c, tc.s, tc.s)
		assert.Equal(t, tc.want, ok, tc.s)
	}
}

func TestDifference(t *testing.T) {
	a := fst.Universal(ls("ab"))
	d, err := fst.Difference(a, acceptor("a", 0), nil)
	require.NoError(t, err)
	_, ok := weightOf(t, d, "a", "a")
	assert.False(t, ok)
	_, ok = weightOf(t, d, "aa", "aa")
	assert.True(t, ok)
}

func TestMinimize_MergesEquivalentSuffixes(t *testing.T) {
	u, err := fst.UnionAll(acceptor("ac", 0), acceptor("bc", 0))
	require.NoError(t, err)
	d, err := fst.Determinize(u)
	require.NoError(t, err)
	m, err := fst.Minimize(d, fst.WithPush(true))
	require.NoError(t, err)
	assert.Equal(t, 3, m.NumStates())
	for _, s := range []string{"ac", "bc"} {
		_, ok := weightOf(t, m, s, s)
		assert.True(t, ok, s)
	}
}

func TestPush_PreservesPathWeights(t *testing.T) {
	u, err := fst.Union(acceptor("ab", 2), acceptor("ac", 5))
	require.NoError(t, err)
	p, err := fst.Push(u)
	require.NoError(t, err)
	for s, want := range map[string]float64{"ab": 2, "ac": 5} {
		got, ok := weightOf(t, p, s, s)
		require.True(t, ok)
		assert.InDelta(t, want, got, 1e-9, s)
	}
}

func TestArcSortAndSum(t *testing.T) {
	f := fst.New(fst.WithSemiring(semiring.Log))
	s0, s1 := f.AddState(), f.AddState()
	require.NoError(t, f.AddArc(s0, fst.Arc{ILabel: 2, OLabel: 2, Weight: 1, Next: s1}))
	require.NoError(t, f.AddArc(s0, fst.Arc{ILabel: 1, OLabel: 1, Weight: 1, Next: s1}))
	require.NoError(t, f.AddArc(s0, fst.Arc{ILabel: 2, OLabel: 2, Weight: 1, Next: s1}))
	require.NoError(t, f.SetFinal(s1, 0))

	sorted := fst.ArcSort(f, fst.ByInput)
	assert.Equal(t, fst.Label(1), sorted.Arcs(s0)[0].ILabel)

	summed := fst.ArcSum(f)
	require.Len(t, summed.Arcs(s0), 2)
	assert.InDelta(t, semiring.Log.Plus(1, 1), summed.Arcs(s0)[0].Weight, 1e-9)
}

func TestEncoder_RoundTrip(t *testing.T) {
	m := fst.Linear(ls("ab"), ls("x"), 0)
	enc := fst.NewEncoder()
	a := enc.Encode(m)
	assert.True(t, a.IsAcceptor())
	back, err := enc.Decode(a, nil, nil)
	require.NoError(t, err)
	_, ok := weightOf(t, back, "ab", "x")
	assert.True(t, ok)

	_, err = fst.NewEncoder().Decode(a, nil, nil)
	assert.ErrorIs(t, err, fst.ErrUnknownLabel)
}
