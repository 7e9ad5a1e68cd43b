// SPDX-License-Identifier: MIT
// File: rmepsilon.go
// Role: Weighted epsilon-removal. An epsilon arc is one whose input and output
//       labels are both Epsilon; arcs with a single epsilon side are ordinary.
// Algorithm:
//   - For every state q compute the epsilon-closure distances d(q, p) with the
//     generic relaxation restricted to epsilon arcs, then give q a copy of every
//     non-epsilon arc of p weighted by d(q, p), and the final weight
//     ⊕ d(q, p) ⊗ F(p).

package fst

import (
	"fmt"

	"github.com/katalvlaran/wfst/semiring"
)

// RmEpsilon returns an equivalent machine without epsilon:epsilon arcs.
// The result is trimmed.
//
// Errors:
//   - ErrNoConvergence when an epsilon cycle makes the closure diverge.
//
// Complexity: O(V·(V + E)) in the worst case, O(V + E) without epsilons.
func RmEpsilon(f *Fst) (*Fst, error) {
	if f.Empty() || !f.HasEpsilons() {
		return Connect(f), nil
	}
	k := f.kind
	out := newLike(f)
	out.states = make([]state, len(f.states))
	out.start = f.start
	for q := range f.states {
		order, d, err := epsClosure(f, StateID(q))
		if err != nil {
			return nil, err
		}
		final := k.Zero()
		for _, p := range order {
			dp := d[p]
			if fw := f.states[p].final; !k.IsZero(fw) {
				final = k.Plus(final, k.Times(dp, fw))
			}
			for _, a := range f.states[p].arcs {
				if a.IsEpsilon() {
					continue
				}
				a.Weight = k.Times(dp, a.Weight)
				out.states[q].arcs = append(out.states[q].arcs, a)
			}
		}
		out.states[q].final = final
	}

	return Connect(out), nil
}

// epsClosure returns the states reachable from q over epsilon arcs (q first,
// then discovery order) with their closure distances.
func epsClosure(f *Fst, q StateID) ([]StateID, map[StateID]float64, error) {
	k := f.kind
	d := map[StateID]float64{q: k.One()}
	r := map[StateID]float64{q: k.One()}
	order := []StateID{q}
	inQueue := map[StateID]bool{q: true}
	queue := []StateID{q}
	budget := maxRelaxations
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		inQueue[p] = false
		res := r[p]
		r[p] = k.Zero()
		for _, a := range f.states[p].arcs {
			if !a.IsEpsilon() {
				continue
			}
			budget--
			if budget < 0 {
				return nil, nil, fmt.Errorf("%w: epsilon closure of state %d", ErrNoConvergence, q)
			}
			cur, seen := d[a.Next]
			if !seen {
				cur = k.Zero()
				r[a.Next] = k.Zero()
				order = append(order, a.Next)
			}
			w := k.Times(res, a.Weight)
			nd := k.Plus(cur, w)
			if seen && k.ApproxEqual(cur, nd, semiring.Delta*semiring.Delta) {
				continue
			}
			d[a.Next] = nd
			r[a.Next] = k.Plus(r[a.Next], w)
			if !inQueue[a.Next] {
				inQueue[a.Next] = true
				queue = append(queue, a.Next)
			}
		}
	}

	return order, d, nil
}
