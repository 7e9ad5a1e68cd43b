// SPDX-License-Identifier: MIT
package rewrite_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wfst/compile"
	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/paths"
	"github.com/katalvlaran/wfst/rewrite"
	"github.com/katalvlaran/wfst/semiring"
	"github.com/katalvlaran/wfst/token"
)

// env bundles a byte codec and a lowercase sigma-star.
type env struct {
	t     *testing.T
	codec *token.Codec
	sigma *fst.Fst
}

func newEnv(t *testing.T) env {
	c, err := token.NewCodec(token.Byte)
	require.NoError(t, err)
	labels, err := c.Encode("abcdefghijklmnopqrstuvwxyz")
	require.NoError(t, err)

	return env{t: t, codec: c, sigma: fst.Universal(labels)}
}

func (e env) str(s string) *fst.Fst {
	m, err := compile.String(s, e.codec)
	require.NoError(e.t, err)

	return m
}

func (e env) cat(ms ...*fst.Fst) *fst.Fst {
	c, err := fst.ConcatAll(ms...)
	require.NoError(e.t, err)

	return c
}

func (e env) rule(spec rewrite.Spec) *fst.Fst {
	r, err := rewrite.Compile(spec, e.sigma)
	require.NoError(e.t, err)

	return r
}

// apply returns the sorted set of outputs of rule on input.
func (e env) apply(rule *fst.Fst, input string) []string {
	out, err := paths.Apply(input, rule, e.codec, 50)
	require.NoError(e.t, err)
	sort.Strings(out)

	return out
}

func TestCompile_BoundedObligatoryAndOptional(t *testing.T) {
	e := newEnv(t)
	spec := rewrite.Spec{
		Tau:    e.str("a"),
		Phi:    e.str("b"),
		Lambda: rewrite.BeginningOfString(),
		Rho:    rewrite.EndOfString(),
	}
	assert.Equal(t, []string{"b"}, e.apply(e.rule(spec), "a"))
	assert.Equal(t, []string{"aa"}, e.apply(e.rule(spec), "aa"), "context not met")

	spec.Mode = rewrite.Optional
	assert.Equal(t, []string{"a", "b"}, e.apply(e.rule(spec), "a"))
}

func TestCompile_CatToKat(t *testing.T) {
	e := newEnv(t)
	rule := e.rule(rewrite.Spec{
		Tau:    e.str("c"),
		Phi:    e.str("k"),
		Lambda: rewrite.BeginningOfString(),
	})

	out, err := paths.Apply("cat", rule, e.codec, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"kat"}, out)
	assert.Equal(t, []string{"tac"}, e.apply(rule, "tac"))

	in, err := compile.String("cat", e.codec)
	require.NoError(t, err)
	lattice, err := fst.Compose(in, rule)
	require.NoError(t, err)
	ps, err := paths.ShortestPath(lattice, 1)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, 0.0, ps[0].Weight)
}

func TestCompile_TotalOnSigma(t *testing.T) {
	e := newEnv(t)
	rule := e.rule(rewrite.Spec{Tau: e.str("x"), Phi: e.str("y"), Lambda: e.str("a")})
	for _, s := range []string{"", "q", "ax", "xax", "zzz"} {
		assert.NotEmpty(t, e.apply(rule, s), s)
	}
	assert.Equal(t, []string{"xay"}, e.apply(rule, "xax"))
}

func TestCompile_Directions(t *testing.T) {
	e := newEnv(t)
	cases := []struct {
		name  string
		dir   rewrite.Direction
		left  string
		right string
		input string
		want  string
	}{
		{"ltr sees rewritten left context", rewrite.LeftToRight, "b", "", "baa", "bbb"},
		{"sim sees input left context", rewrite.Simultaneous, "b", "", "baa", "bba"},
		{"rtl sees rewritten right context", rewrite.RightToLeft, "", "b", "aab", "bbb"},
		{"sim sees input right context", rewrite.Simultaneous, "", "b", "aab", "abb"},
		{"ltr plain", rewrite.LeftToRight, "", "", "banana", "bbnbnb"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := rewrite.Spec{Tau: e.str("a"), Phi: e.str("b"), Direction: tc.dir}
			if tc.left != "" {
				spec.Lambda = e.str(tc.left)
			}
			if tc.right != "" {
				spec.Rho = e.str(tc.right)
			}
			assert.Equal(t, []string{tc.want}, e.apply(e.rule(spec), tc.input))
		})
	}
}

func TestCompile_Deletion(t *testing.T) {
	e := newEnv(t)
	rule := e.rule(rewrite.Spec{Tau: e.str("h"), Phi: e.str(""), Rho: e.str("t")})
	assert.Equal(t, []string{"nit"}, e.apply(rule, "niht"))
	assert.Equal(t, []string{"hi"}, e.apply(rule, "hi"))
}

func TestCompile_MappingTransducer(t *testing.T) {
	e := newEnv(t)
	tau, err := compile.Map([]compile.Entry{{Input: "s", Output: "z"}, {Input: "f", Output: "v"}}, e.codec)
	require.NoError(t, err)
	rule := e.rule(rewrite.Spec{Tau: tau, Lambda: e.str("a"), Rho: e.str("a")})
	assert.Equal(t, []string{"azava"}, e.apply(rule, "asafa"))
}

func TestCompile_WeightedOptional(t *testing.T) {
	e := newEnv(t)
	tau, err := compile.Map([]compile.Entry{{Input: "a", Output: "b", Weight: 2}}, e.codec)
	require.NoError(t, err)
	rule := e.rule(rewrite.Spec{Tau: tau, Mode: rewrite.Optional})

	in, err := compile.String("a", e.codec)
	require.NoError(t, err)
	lattice, err := fst.Compose(in, rule)
	require.NoError(t, err)
	ps, err := paths.ShortestPath(lattice, 2, paths.WithUnique(), paths.WithCodecs(e.codec, e.codec))
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "a", ps[0].Output)
	assert.Equal(t, "b", ps[1].Output)
	assert.InDelta(t, 2.0, ps[1].Weight, 1e-9)
}

func TestCompile_Errors(t *testing.T) {
	e := newEnv(t)
	transducer, err := compile.Pair("a", "b", e.codec)
	require.NoError(t, err)

	cases := []struct {
		name  string
		spec  rewrite.Spec
		sigma *fst.Fst
	}{
		{"nil sigma", rewrite.Spec{Tau: e.str("a")}, nil},
		{"nil tau", rewrite.Spec{}, e.sigma},
		{"transducer sigma", rewrite.Spec{Tau: e.str("a")}, transducer},
		{"transducer tau with phi", rewrite.Spec{Tau: transducer, Phi: e.str("b")}, e.sigma},
		{"transducer lambda", rewrite.Spec{Tau: e.str("a"), Phi: e.str("b"), Lambda: transducer}, e.sigma},
		{"transducer rho", rewrite.Spec{Tau: e.str("a"), Phi: e.str("b"), Rho: transducer}, e.sigma},
		{"bad direction", rewrite.Spec{Tau: transducer, Direction: 9}, e.sigma},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rewrite.Compile(tc.spec, tc.sigma)
			assert.ErrorIs(t, err, rewrite.ErrType)
		})
	}
}

func TestCompile_SymbolMismatch(t *testing.T) {
	s1, s2 := fst.NewSymbolTable("one"), fst.NewSymbolTable("two")
	s1.Add("a")
	s2.Add("b")
	tau := fst.Linear([]fst.Label{1}, []fst.Label{1}, 0, fst.WithSymbols(s1, s1))
	lambda := fst.Linear([]fst.Label{1}, []fst.Label{1}, 0, fst.WithSymbols(s2, s2))
	_, err := rewrite.Compile(rewrite.Spec{Tau: tau, Phi: tau, Lambda: lambda}, fst.Universal([]fst.Label{1}))
	assert.ErrorIs(t, err, fst.ErrSymbolMismatch)
}

func TestCompile_SemiringMismatch(t *testing.T) {
	e := newEnv(t)
	lambda := fst.Linear([]fst.Label{'a'}, []fst.Label{'a'}, 1, fst.WithSemiring(semiring.Log))
	_, err := rewrite.Compile(rewrite.Spec{Tau: e.str("a"), Phi: e.str("b"), Lambda: lambda}, e.sigma)
	assert.ErrorIs(t, err, fst.ErrSemiringMismatch)
}

func TestParseDirectionMode(t *testing.T) {
	d, err := rewrite.ParseDirection("RTL")
	require.NoError(t, err)
	assert.Equal(t, rewrite.RightToLeft, d)
	_, err = rewrite.ParseDirection("up")
	assert.ErrorIs(t, err, rewrite.ErrType)

	m, err := rewrite.ParseMode("optional")
	require.NoError(t, err)
	assert.Equal(t, rewrite.Optional, m)
	assert.Equal(t, "optional", m.String())
	_, err = rewrite.ParseMode("maybe")
	assert.ErrorIs(t, err, rewrite.ErrType)
}

func TestCompile_CodepointSigma(t *testing.T) {
	c, err := token.NewCodec(token.Codepoint)
	require.NoError(t, err)
	extra, err := c.Encode("ñü€\t")
	require.NoError(t, err)
	sigma := fst.Universal(c.Labels(extra...))
	str := func(s string) *fst.Fst {
		m, err := compile.String(s, c)
		require.NoError(t, err)

		return m
	}
	rule, err := rewrite.Compile(rewrite.Spec{Tau: str("a"), Phi: str("ñ")}, sigma)
	require.NoError(t, err)

	for _, tc := range []struct{ in, want string }{
		{"ñaa", "ñññ"},
		{"a\ta", "ñ\tñ"},
		{"über a€", "über ñ€"},
	} {
		out, err := paths.Apply(tc.in, rule, c, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{tc.want}, out, tc.in)
	}
}

func TestCompile_SymbolTableWithBoundary(t *testing.T) {
	st := fst.NewSymbolTable("words")
	st.Add("x")
	st.Add("y")
	c, err := token.NewCodec(token.Symbol, token.WithSymbolTable(st))
	require.NoError(t, err)
	str := func(s string) *fst.Fst {
		m, err := compile.String(s, c)
		require.NoError(t, err)

		return m
	}
	sigma := fst.Universal(c.Labels(), fst.WithSymbols(st, st))

	rule, err := rewrite.Compile(rewrite.Spec{Tau: str("x"), Phi: str("y"), Lambda: rewrite.BeginningOfString()}, sigma)
	require.NoError(t, err)
	assert.Same(t, st, rule.InputSymbols())
	assert.Same(t, st, rule.OutputSymbols())

	out, err := paths.Apply("x x", rule, c, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"y x"}, out)

	_, err = rewrite.Compile(rewrite.Spec{Tau: fst.Linear([]fst.Label{'x'}, []fst.Label{'x'}, 0)}, sigma)
	assert.ErrorIs(t, err, fst.ErrSymbolMismatch, "byte labels against a symbol table")
}
