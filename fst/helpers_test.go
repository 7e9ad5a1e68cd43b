// SPDX-License-Identifier: MIT
package fst_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/wfst/fst"
)

// ls converts an ASCII string into byte labels.
func ls(s string) []fst.Label {
	out := make([]fst.Label, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = fst.Label(s[i])
	}

	return out
}

// acceptor builds the single-string acceptor of s with weight w.
func acceptor(s string, w float64) *fst.Fst {
	return fst.Linear(ls(s), ls(s), w)
}

// weightOf returns the total weight f assigns to the pair (in, out) and
// whether the pair is accepted at all.
func weightOf(t *testing.T, f *fst.Fst, in, out string) (float64, bool) {
	t.Helper()
	k := f.Semiring()
	left, err := fst.Compose(fst.Linear(ls(in), ls(in), k.One(), fst.WithSemiring(k)), f)
	require.NoError(t, err)
	both, err := fst.Compose(left, fst.Linear(ls(out), ls(out), k.One(), fst.WithSemiring(k)))
	require.NoError(t, err)
	if both.Empty() {
		return k.Zero(), false
	}
	d, err := fst.ShortestDistance(both, true)
	require.NoError(t, err)

	return d[both.Start()], true
}
