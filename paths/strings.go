// SPDX-License-Identifier: MIT
// File: strings.go
// Role: single-string extraction and rule application.

package paths

import (
	"fmt"

	"github.com/katalvlaran/wfst/compile"
	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/optimize"
	"github.com/katalvlaran/wfst/token"
)

// StringAt returns the output string of t when t's output language is a
// single string. Weights are ignored.
//
// Errors:
//   - ErrNotString if t is empty, cyclic or has more than one output string.
func StringAt(t *fst.Fst, codec *token.Codec) (string, error) {
	d := fst.Connect(fst.DeterminizeUnweighted(fst.Project(t, true)))
	if d.Empty() {
		return "", fmt.Errorf("%w: empty machine", ErrNotString)
	}

	var labels []fst.Label
	seen := make([]bool, d.NumStates())
	q := d.Start()
	for {
		if seen[q] {
			return "", fmt.Errorf("%w: cycle at state %d", ErrNotString, q)
		}
		seen[q] = true
		arcs := d.Arcs(q)
		if d.IsFinal(q) {
			if len(arcs) != 0 {
				return "", fmt.Errorf("%w: final state %d has successors", ErrNotString, q)
			}
			break
		}
		if len(arcs) != 1 {
			return "", fmt.Errorf("%w: state %d branches", ErrNotString, q)
		}
		labels = append(labels, arcs[0].ILabel)
		q = arcs[0].Next
	}

	return codec.Decode(labels)
}

// Apply compiles input with codec, composes it with rule and returns up to n
// distinct output strings, best first. No output is not an error.
func Apply(input string, rule *fst.Fst, codec *token.Codec, n int, opts ...optimize.Option) ([]string, error) {
	in, err := compile.String(input, codec, compile.WithSemiring(rule.Semiring()))
	if err != nil {
		return nil, err
	}
	lattice, err := fst.Compose(in, rule)
	if err != nil {
		return nil, err
	}
	if lattice.Empty() {
		return nil, nil
	}
	outputs := optimize.Optimize(fst.Project(lattice, true), opts...)
	ps, err := ShortestPath(outputs, n, WithUnique(), WithCodecs(nil, codec))
	if err != nil {
		return nil, err
	}
	res := make([]string, len(ps))
	for i, p := range ps {
		res[i] = p.Output
	}

	return res, nil
}
