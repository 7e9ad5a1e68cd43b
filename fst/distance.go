// SPDX-License-Identifier: MIT
// File: distance.go
// Role: Generic single-source shortest distance over the machine's semiring.
// Algorithm:
//   - FIFO relaxation with per-state residuals. Correct for any semiring in
//     which the sums converge (k-closed); for the tropical semiring it is a
//     queue-based Bellman-Ford. Convergence is judged with semiring.Delta.
//   - A relaxation budget guards against negative or divergent cycles.

package fst

import (
	"fmt"

	"github.com/katalvlaran/wfst/semiring"
)

// maxRelaxations caps the work of one shortest-distance run.
const maxRelaxations = 1 << 24

// ShortestDistance returns, for every state q, the semiring sum of the weights
// of all paths from the start state to q (reverse == false), or from q to a
// final state including the final weight (reverse == true).
// Unreachable states get Zero.
//
// Errors:
//   - ErrNoConvergence if the relaxation budget is exhausted.
//
// Complexity: O(V·E) relaxations for the tropical semiring.
func ShortestDistance(f *Fst, reverse bool) ([]float64, error) {
	if !reverse {
		return distanceFrom(f, f.start, func(Arc) bool { return true })
	}
	if f.Empty() {
		return nil, nil
	}
	// Distances to the final states are distances from the super-initial state
	// of the reversed machine; state q of f is state q+1 there.
	r := Reverse(f)
	d, err := distanceFrom(r, r.start, func(Arc) bool { return true })
	if err != nil {
		return nil, err
	}

	return d[1:], nil
}

// distanceFrom runs the relaxation from src over arcs accepted by follow.
func distanceFrom(f *Fst, src StateID, follow func(Arc) bool) ([]float64, error) {
	k := f.kind
	d := make([]float64, len(f.states))
	r := make([]float64, len(f.states))
	for i := range d {
		d[i], r[i] = k.Zero(), k.Zero()
	}
	if f.Empty() || src == NoState {
		return d, nil
	}

	inQueue := make([]bool, len(f.states))
	queue := []StateID{src}
	d[src], r[src] = k.One(), k.One()
	inQueue[src] = true
	budget := maxRelaxations
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		inQueue[q] = false
		res := r[q]
		r[q] = k.Zero()
		for _, a := range f.states[q].arcs {
			if !follow(a) {
				continue
			}
			budget--
			if budget < 0 {
				return nil, fmt.Errorf("%w: from state %d", ErrNoConvergence, src)
			}
			w := k.Times(res, a.Weight)
			nd := k.Plus(d[a.Next], w)
			if k.ApproxEqual(d[a.Next], nd, semiring.Delta*semiring.Delta) {
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

	return d, nil
}
