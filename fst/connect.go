// SPDX-License-Identifier: MIT
// File: connect.go
// Role: Trimming. Removes states that are not on some path from the start
//       state to a final state and renumbers the survivors.
// Determinism:
//   - Survivors are numbered in breadth-first discovery order from the start
//     state, so the start state of a non-empty result is always 0.

package fst

// Accessible returns, for each state, whether it is reachable from the start.
// Zero-weight arcs count as absent.
// Complexity: O(V + E), iterative (explicit stack).
func Accessible(f *Fst) []bool {
	seen := make([]bool, len(f.states))
	if f.Empty() {
		return seen
	}
	stack := []StateID{f.start}
	seen[f.start] = true
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, a := range f.states[q].arcs {
			if !seen[a.Next] && !f.kind.IsZero(a.Weight) {
				seen[a.Next] = true
				stack = append(stack, a.Next)
			}
		}
	}

	return seen
}

// Coaccessible returns, for each state, whether some final state is reachable from it.
// Complexity: O(V + E).
func Coaccessible(f *Fst) []bool {
	n := len(f.states)
	rev := make([][]StateID, n)
	for q := range f.states {
		for _, a := range f.states[q].arcs {
			if !f.kind.IsZero(a.Weight) {
				rev[a.Next] = append(rev[a.Next], StateID(q))
			}
		}
	}
	seen := make([]bool, n)
	stack := make([]StateID, 0, n)
	for q := range f.states {
		if !f.kind.IsZero(f.states[q].final) {
			seen[q] = true
			stack = append(stack, StateID(q))
		}
	}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range rev[q] {
			if !seen[p] {
				seen[p] = true
				stack = append(stack, p)
			}
		}
	}

	return seen
}

// Connect returns a trimmed copy of f: only states both accessible and
// coaccessible survive. If the start state is useless the result is empty.
// Zero-weight arcs are dropped as well.
// Complexity: O(V + E).
func Connect(f *Fst) *Fst {
	out := newLike(f)
	if f.Empty() {
		return out
	}
	acc := Accessible(f)
	coacc := Coaccessible(f)
	if !acc[f.start] || !coacc[f.start] {
		return out
	}

	keep := func(q StateID) bool { return acc[q] && coacc[q] }
	remap := make([]StateID, len(f.states))
	for i := range remap {
		remap[i] = NoState
	}
	order := []StateID{f.start}
	remap[f.start] = 0
	for head := 0; head < len(order); head++ {
		q := order[head]
		for _, a := range f.states[q].arcs {
			if keep(a.Next) && remap[a.Next] == NoState && !f.kind.IsZero(a.Weight) {
				remap[a.Next] = StateID(len(order))
				order = append(order, a.Next)
			}
		}
	}

	out.states = make([]state, len(order))
	out.start = 0
	for i, q := range order {
		out.states[i].final = f.states[q].final
		for _, a := range f.states[q].arcs {
			if remap[a.Next] == NoState || f.kind.IsZero(a.Weight) {
				continue
			}
			a.Next = remap[a.Next]
			out.states[i].arcs = append(out.states[i].arcs, a)
		}
	}

	return out
}
