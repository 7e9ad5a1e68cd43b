// SPDX-License-Identifier: MIT
// Package: wfst/cross
//
// Package cross builds transducers out of whole languages rather than single
// strings.
//
//	Cross(a, b)       – maps every string of a to every string of b.
//	Range(t, lo, hi)  – t repeated between lo and hi times (hi may be Unbounded).
//	Closure / Plus / Optional – t*, t+ and t?.
//
// Errors:
//
//	ErrRange               – invalid repetition bounds.
//	fst.ErrSymbolMismatch  – operands labeled with incompatible symbol tables.
//	fst.ErrSemiringMismatch– operands over different semirings.
package cross

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/wfst/fst"
)

// ErrRange indicates repetition bounds with lo < 0 or hi < lo.
var ErrRange = errors.New("cross: invalid repetition range")

// Unbounded is the hi argument of Range for "no upper bound".
const Unbounded = -1

// Cross returns the transducer relating every string of a's input side to
// every string of b's output side. A pair's weight is the Times of the two
// string weights.
// Complexity: O(V_a + E_a + V_b + E_b).
func Cross(a, b *fst.Fst) (*fst.Fst, error) {
	erase := func(fst.Label) fst.Label { return fst.Epsilon }
	if a.Semiring() != b.Semiring() {
		return nil, fmt.Errorf("%w: Cross(%s, %s)", fst.ErrSemiringMismatch, a.Semiring(), b.Semiring())
	}
	if !fst.SidesCompatible(a, false, b, true) {
		return nil, fmt.Errorf("%w: Cross", fst.ErrSymbolMismatch)
	}
	in := fst.MapLabels(fst.Project(a, false), nil, erase)
	out := fst.MapLabels(fst.Project(b, true), erase, nil)
	isyms, osyms := a.InputSymbols(), b.OutputSymbols()
	in.SetSymbols(isyms, osyms)
	out.SetSymbols(isyms, osyms)
	c, err := fst.Concat(in, out)
	if err != nil {
		return nil, err
	}

	return fst.Connect(c), nil
}

// epsilonLike returns the epsilon machine with t's semiring and tables.
func epsilonLike(t *fst.Fst) *fst.Fst {
	return fst.EpsilonMachine(fst.WithSemiring(t.Semiring()), fst.WithSymbols(t.InputSymbols(), t.OutputSymbols()))
}

// Range returns t repeated at least lo and at most hi times; hi == Unbounded
// removes the upper bound. lo == 0 admits the empty string with weight One.
// A bounded tail is built as nested optionals, so every repetition count has
// its own path.
//
// Errors:
//   - ErrRange if lo < 0, or hi != Unbounded and hi < lo.
func Range(t *fst.Fst, lo, hi int) (*fst.Fst, error) {
	if lo < 0 || (hi != Unbounded && hi < lo) {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrRange, lo, hi)
	}

	head := epsilonLike(t)
	var err error
	for i := 0; i < lo; i++ {
		if head, err = fst.Concat(head, t); err != nil {
			return nil, err
		}
	}

	var tail *fst.Fst
	if hi == Unbounded {
		tail = fst.Closure(t, true)
	} else {
		tail = epsilonLike(t)
		for i := lo; i < hi; i++ {
			step, err := fst.Concat(t, tail)
			if err != nil {
				return nil, err
			}
			if tail, err = fst.Union(epsilonLike(t), step); err != nil {
				return nil, err
			}
		}
	}

	out, err := fst.Concat(head, tail)
	if err != nil {
		return nil, err
	}

	return fst.Connect(out), nil
}

// Closure returns t*.
func Closure(t *fst.Fst) *fst.Fst { return fst.Closure(t, true) }

// Plus returns t+.
func Plus(t *fst.Fst) *fst.Fst { return fst.Closure(t, false) }

// Optional returns t? (t or the empty string).
func Optional(t *fst.Fst) (*fst.Fst, error) {
	return fst.Union(epsilonLike(t), t)
}
