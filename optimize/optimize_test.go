// SPDX-License-Identifier: MIT
package optimize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wfst/compile"
	"github.com/katalvlaran/wfst/cross"
	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/optimize"
	"github.com/katalvlaran/wfst/semiring"
	"github.com/katalvlaran/wfst/token"
)

func codec(t *testing.T) *token.Codec {
	t.Helper()
	c, err := token.NewCodec(token.Byte)
	require.NoError(t, err)

	return c
}

func weightOf(t *testing.T, m *fst.Fst, in, out string) (float64, bool) {
	t.Helper()
	k := m.Semiring()
	c := codec(t)
	il, err := c.Encode(in)
	require.NoError(t, err)
	ol, err := c.Encode(out)
	require.NoError(t, err)
	left, err := fst.Compose(fst.Linear(il, il, k.One(), fst.WithSemiring(k)), m)
	require.NoError(t, err)
	both, err := fst.Compose(left, fst.Linear(ol, ol, k.One(), fst.WithSemiring(k)))
	require.NoError(t, err)
	if both.Empty() {
		return k.Zero(), false
	}
	d, err := fst.ShortestDistance(both, true)
	require.NoError(t, err)

	return d[both.Start()], true
}

type pair struct{ in, out string }

func assertSameRelation(t *testing.T, want, got *fst.Fst, probes []pair) {
	t.Helper()
	for _, p := range probes {
		w1, ok1 := weightOf(t, want, p.in, p.out)
		w2, ok2 := weightOf(t, got, p.in, p.out)
		require.Equal(t, ok1, ok2, "%q:%q", p.in, p.out)
		if ok1 {
			assert.InDelta(t, w1, w2, 1e-6, "%q:%q", p.in, p.out)
		}
	}
}

func sampleMap(t *testing.T, k semiring.Kind) *fst.Fst {
	m, err := compile.Map([]compile.Entry{
		{Input: "cat", Output: "kat", Weight: 1},
		{Input: "cat", Output: "kat", Weight: 2},
		{Input: "car", Output: "kar", Weight: 0.5},
		{Input: "cot", Output: "kot"},
	}, codec(t), compile.WithSemiring(k))
	require.NoError(t, err)
	star := cross.Closure(m)

	return star
}

var probes = []pair{
	{"cat", "kat"}, {"car", "kar"}, {"cot", "kot"}, {"catcar", "katkar"},
	{"", ""}, {"cat", "cat"}, {"ca", "ka"},
}

func TestOptimize_PreservesRelation(t *testing.T) {
	for _, k := range []semiring.Kind{semiring.Tropical, semiring.Log} {
		t.Run(k.String(), func(t *testing.T) {
			src := sampleMap(t, k)
			opt := optimize.Optimize(src)
			assertSameRelation(t, src, opt, probes)
			assert.False(t, opt.HasEpsilons())
			assert.LessOrEqual(t, opt.NumStates(), src.NumStates())
		})
	}
}

func TestOptimize_Idempotent(t *testing.T) {
	once := optimize.Optimize(sampleMap(t, semiring.Tropical))
	twice := optimize.Optimize(once)
	assert.Equal(t, once.NumStates(), twice.NumStates())
	assert.Equal(t, once.TotalArcs(), twice.TotalArcs())
	assertSameRelation(t, once, twice, probes)
}

func TestOptimize_TropicalIsDeterministic(t *testing.T) {
	opt := optimize.Optimize(sampleMap(t, semiring.Tropical))
	assert.True(t, fst.NewEncoder().Encode(opt).IsInputDeterministic())
}

func TestOptimize_DoesNotMutate(t *testing.T) {
	src := sampleMap(t, semiring.Tropical)
	before := src.Stats()
	_ = optimize.Optimize(src)
	assert.Equal(t, before, src.Stats())
}

func TestOptimize_FallsBackOnStateCap(t *testing.T) {
	// a^n b costs n, a^n c costs 2n: not determinizable.
	k := semiring.Tropical
	f := fst.New()
	s0, s1, s2 := f.AddState(), f.AddState(), f.AddState()
	require.NoError(t, f.AddArc(s0, fst.Arc{ILabel: 'x', OLabel: 'x', Next: s1}))
	require.NoError(t, f.AddArc(s0, fst.Arc{ILabel: 'x', OLabel: 'x', Next: s2}))
	require.NoError(t, f.AddArc(s1, fst.Arc{ILabel: 'a', OLabel: 'a', Weight: 1, Next: s1}))
	require.NoError(t, f.AddArc(s2, fst.Arc{ILabel: 'a', OLabel: 'a', Weight: 2, Next: s2}))
	end := f.AddState()
	require.NoError(t, f.AddArc(s1, fst.Arc{ILabel: 'b', OLabel: 'b', Weight: k.One(), Next: end}))
	require.NoError(t, f.AddArc(s2, fst.Arc{ILabel: 'c', OLabel: 'c', Weight: k.One(), Next: end}))
	require.NoError(t, f.SetFinal(end, k.One()))

	opt := optimize.Optimize(f, optimize.WithMaxStates(32))
	assertSameRelation(t, f, opt, []pair{{"xaaab", "xaaab"}, {"xaaac", "xaaac"}, {"xaab", "xaac"}})
}

func TestOptimize_Empty(t *testing.T) {
	assert.True(t, optimize.Optimize(fst.New()).Empty())
}

func TestInPlace(t *testing.T) {
	src := sampleMap(t, semiring.Tropical)
	want := optimize.Optimize(src)
	optimize.InPlace(src)
	assert.Equal(t, want.Stats(), src.Stats())
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { optimize.WithMaxStates(-1) })
	assert.Panics(t, func() { optimize.WithDelta(0) })
}
