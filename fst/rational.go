// SPDX-License-Identifier: MIT
// File: rational.go
// Role: Rational operations (union, concatenation, closure) plus reverse,
//       projection and inversion. All of them return fresh machines.
// Determinism:
//   - State numbering is a pure function of the operands: operands are copied
//     block-wise at fixed offsets, new start states come first.

package fst

import "github.com/katalvlaran/wfst/internal/mathx"

// copyInto appends every state of src to dst and returns the offset at which
// src's state 0 landed. Arc destinations are shifted accordingly.
func copyInto(dst, src *Fst) StateID {
	off := StateID(len(dst.states))
	for i := range src.states {
		arcs := make([]Arc, len(src.states[i].arcs))
		for j, a := range src.states[i].arcs {
			a.Next += off
			arcs[j] = a
		}
		dst.states = append(dst.states, state{arcs: arcs, final: src.states[i].final})
	}

	return off
}

// EpsilonMachine returns the one-state machine accepting only the empty string
// with weight One.
func EpsilonMachine(opts ...Option) *Fst {
	f := New(opts...)
	s := f.AddState()
	f.setFinal(s, f.kind.One())

	return f
}

// Linear returns the single-path machine reading in and writing out.
// The shorter side is padded with Epsilon; the path weight is w.
func Linear(in, out []Label, w float64, opts ...Option) *Fst {
	f := New(opts...)
	n := mathx.Max(len(in), len(out))
	cur := f.AddState()
	for i := 0; i < n; i++ {
		var il, ol Label
		if i < len(in) {
			il = in[i]
		}
		if i < len(out) {
			ol = out[i]
		}
		next := f.AddState()
		f.addArc(cur, Arc{ILabel: il, OLabel: ol, Weight: f.kind.One(), Next: next})
		cur = next
	}
	f.setFinal(cur, w)

	return f
}

// Universal returns the one-state acceptor of labels* (sigma-star).
func Universal(labels []Label, opts ...Option) *Fst {
	f := New(opts...)
	s := f.AddState()
	f.setFinal(s, f.kind.One())
	for _, l := range labels {
		if l == Epsilon {
			continue
		}
		f.addArc(s, Arc{ILabel: l, OLabel: l, Weight: f.kind.One(), Next: s})
	}

	return f
}

// Union returns a machine accepting the union of both weighted relations.
// Complexity: O(V + E).
func Union(a, b *Fst) (*Fst, error) {
	if err := check("Union", a, false, b, false); err != nil {
		return nil, err
	}
	if err := check("Union", a, true, b, true); err != nil {
		return nil, err
	}
	out := newLike(a)
	out.isyms, out.osyms = pick(a.isyms, b.isyms), pick(a.osyms, b.osyms)
	if a.Empty() && b.Empty() {
		return out, nil
	}
	s := out.AddState()
	one := out.kind.One()
	for _, m := range []*Fst{a, b} {
		if m.Empty() {
			continue
		}
		off := copyInto(out, m)
		out.addArc(s, Arc{Weight: one, Next: m.start + off})
	}

	return out, nil
}

// UnionAll folds Union over ms. An empty list yields nil.
func UnionAll(ms ...*Fst) (*Fst, error) {
	if len(ms) == 0 {
		return nil, nil
	}
	acc := ms[0].Copy()
	for _, m := range ms[1:] {
		u, err := Union(acc, m)
		if err != nil {
			return nil, err
		}
		acc = u
	}

	return acc, nil
}

// Concat returns the concatenation a·b.
// Complexity: O(V + E).
func Concat(a, b *Fst) (*Fst, error) {
	if err := check("Concat", a, false, b, false); err != nil {
		return nil, err
	}
	if err := check("Concat", a, true, b, true); err != nil {
		return nil, err
	}
	out := newLike(a)
	out.isyms, out.osyms = pick(a.isyms, b.isyms), pick(a.osyms, b.osyms)
	if a.Empty() || b.Empty() {
		return out, nil
	}
	copyInto(out, a)
	out.start = a.start
	off := copyInto(out, b)
	zero := out.kind.Zero()
	for q := 0; q < len(a.states); q++ {
		fw := out.states[q].final
		if out.kind.IsZero(fw) {
			continue
		}
		out.addArc(StateID(q), Arc{Weight: fw, Next: b.start + off})
		out.states[q].final = zero
	}

	return out, nil
}

// ConcatAll folds Concat over ms. An empty list yields the epsilon machine.
func ConcatAll(ms ...*Fst) (*Fst, error) {
	if len(ms) == 0 {
		return EpsilonMachine(), nil
	}
	acc := ms[0].Copy()
	for _, m := range ms[1:] {
		c, err := Concat(acc, m)
		if err != nil {
			return nil, err
		}
		acc = c
	}

	return acc, nil
}

// Closure returns a* (star == true) or a+ (star == false).
// Complexity: O(V + E).
func Closure(a *Fst, star bool) *Fst {
	out := newLike(a)
	one := out.kind.One()
	var s0 StateID = NoState
	if star {
		s0 = out.AddState()
		out.setFinal(s0, one)
	}
	if a.Empty() {
		return out
	}
	off := copyInto(out, a)
	start := a.start + off
	for q := off; int(q) < len(out.states); q++ {
		fw := out.states[q].final
		if out.kind.IsZero(fw) {
			continue
		}
		out.addArc(q, Arc{Weight: fw, Next: start})
	}
	if star {
		out.addArc(s0, Arc{Weight: one, Next: start})
	} else {
		out.start = start
	}

	return out
}

// Reverse returns the machine accepting the reversal of every path.
// A new start state 0 leads to every former final state; the former start
// state becomes the only final state.
// Complexity: O(V + E).
func Reverse(a *Fst) *Fst {
	out := newLike(a)
	if a.Empty() {
		return out
	}
	out.states = make([]state, len(a.states)+1)
	zero := out.kind.Zero()
	for i := range out.states {
		out.states[i].final = zero
	}
	out.start = 0
	for q := range a.states {
		for _, arc := range a.states[q].arcs {
			out.addArc(arc.Next+1, Arc{ILabel: arc.ILabel, OLabel: arc.OLabel, Weight: arc.Weight, Next: StateID(q) + 1})
		}
		if fw := a.states[q].final; !a.kind.IsZero(fw) {
			out.addArc(0, Arc{Weight: fw, Next: StateID(q) + 1})
		}
	}
	out.states[a.start+1].final = out.kind.One()

	return out
}

// Project keeps one side of every arc: the input side (output == false) or
// the output side (output == true). The result is an acceptor.
func Project(a *Fst, output bool) *Fst {
	out := a.Copy()
	for q := range out.states {
		for j := range out.states[q].arcs {
			arc := &out.states[q].arcs[j]
			if output {
				arc.ILabel = arc.OLabel
			} else {
				arc.OLabel = arc.ILabel
			}
		}
	}
	if output {
		out.isyms = out.osyms
	} else {
		out.osyms = out.isyms
	}

	return out
}

// Invert swaps input and output labels.
func Invert(a *Fst) *Fst {
	out := a.Copy()
	for q := range out.states {
		for j := range out.states[q].arcs {
			arc := &out.states[q].arcs[j]
			arc.ILabel, arc.OLabel = arc.OLabel, arc.ILabel
		}
	}
	out.isyms, out.osyms = out.osyms, out.isyms

	return out
}

// MapLabels returns a copy in which every input label l becomes in(l) and
// every output label becomes out(l). Either function may be nil (identity).
func MapLabels(a *Fst, in, out func(Label) Label) *Fst {
	c := a.Copy()
	for q := range c.states {
		for j := range c.states[q].arcs {
			arc := &c.states[q].arcs[j]
			if in != nil {
				arc.ILabel = in(arc.ILabel)
			}
			if out != nil {
				arc.OLabel = out(arc.OLabel)
			}
		}
	}

	return c
}

// AddLoops returns a copy of a with an arc (in:out) looping on every state.
func AddLoops(a *Fst, in, out Label) *Fst {
	c := a.Copy()
	one := c.kind.One()
	for q := range c.states {
		c.addArc(StateID(q), Arc{ILabel: in, OLabel: out, Weight: one, Next: StateID(q)})
	}

	return c
}
