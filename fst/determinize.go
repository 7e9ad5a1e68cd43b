// SPDX-License-Identifier: MIT
// File: determinize.go
// Role: Weighted determinization of acceptors, unweighted subset construction,
//       completion and complement.
// Determinism:
//   - Subsets are explored breadth-first, labels in ascending order, so the
//     numbering of the result depends only on the operand.

package fst

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/wfst/semiring"
)

// DeterminizeOptions configures Determinize.
type DeterminizeOptions struct {
	// MaxStates caps the number of result states; 0 means no cap.
	MaxStates int

	// Delta is the quantization step used to identify weighted subsets.
	Delta float64
}

// DeterminizeOption mutates DeterminizeOptions.
type DeterminizeOption func(*DeterminizeOptions)

// WithMaxStates caps the number of states Determinize may create.
// Panics on negative values.
func WithMaxStates(n int) DeterminizeOption {
	if n < 0 {
		panic("fst: WithMaxStates must be non-negative")
	}

	return func(o *DeterminizeOptions) { o.MaxStates = n }
}

// WithDelta sets the quantization step for weighted subsets. Panics on delta <= 0.
func WithDelta(delta float64) DeterminizeOption {
	if delta <= 0 {
		panic("fst: WithDelta must be positive")
	}

	return func(o *DeterminizeOptions) { o.Delta = delta }
}

// DefaultDeterminizeOptions returns no state cap and semiring.Delta.
func DefaultDeterminizeOptions() DeterminizeOptions {
	return DeterminizeOptions{MaxStates: 0, Delta: semiring.Delta}
}

// residual is one member of a weighted subset.
type residual struct {
	q StateID
	w float64
}

// Determinize returns an input-deterministic acceptor equivalent to f.
// Epsilon arcs are removed first. Each result state is a subset of f's states
// paired with residual weights normalized by their semiring sum.
//
// Determinization terminates only for determinizable machines (twins property);
// use WithMaxStates to bound the work.
//
// Errors:
//   - ErrNotAcceptor if f is a transducer (encode it first).
//   - ErrStateLimit if MaxStates is exceeded.
//   - ErrNoConvergence from epsilon-removal.
func Determinize(f *Fst, opts ...DeterminizeOption) (*Fst, error) {
	cfg := DefaultDeterminizeOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if !f.IsAcceptor() {
		return nil, fmt.Errorf("%w: Determinize", ErrNotAcceptor)
	}
	src, err := RmEpsilon(f)
	if err != nil {
		return nil, err
	}
	out := newLike(src)
	if src.Empty() {
		return out, nil
	}

	k := src.kind
	ids := make(map[string]StateID)
	var subsets [][]residual
	intern := func(s []residual) (StateID, error) {
		key := subsetKey(k, s, cfg.Delta)
		if id, ok := ids[key]; ok {
			return id, nil
		}
		if cfg.MaxStates > 0 && len(subsets) >= cfg.MaxStates {
			return NoState, fmt.Errorf("%w: Determinize(max=%d)", ErrStateLimit, cfg.MaxStates)
		}
		id := out.AddState()
		ids[key] = id
		subsets = append(subsets, s)

		return id, nil
	}
	if _, err = intern([]residual{{q: src.start, w: k.One()}}); err != nil {
		return nil, err
	}

	for head := 0; head < len(subsets); head++ {
		cur := subsets[head]
		from := StateID(head)

		final := k.Zero()
		total := make(map[Label]float64)
		dest := make(map[Label]map[StateID]float64)
		for _, m := range cur {
			if fw := src.states[m.q].final; !k.IsZero(fw) {
				final = k.Plus(final, k.Times(m.w, fw))
			}
			for _, a := range src.states[m.q].arcs {
				w := k.Times(m.w, a.Weight)
				if t, ok := total[a.ILabel]; ok {
					total[a.ILabel] = k.Plus(t, w)
				} else {
					total[a.ILabel] = w
					dest[a.ILabel] = make(map[StateID]float64)
				}
				if dw, ok := dest[a.ILabel][a.Next]; ok {
					dest[a.ILabel][a.Next] = k.Plus(dw, w)
				} else {
					dest[a.ILabel][a.Next] = w
				}
			}
		}
		out.setFinal(from, final)

		labels := make([]Label, 0, len(total))
		for l := range total {
			labels = append(labels, l)
		}
		sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
		for _, l := range labels {
			w := total[l]
			if k.IsZero(w) {
				continue
			}
			next := make([]residual, 0, len(dest[l]))
			for q, dw := range dest[l] {
				next = append(next, residual{q: q, w: k.Divide(dw, w)})
			}
			sort.Slice(next, func(i, j int) bool { return next[i].q < next[j].q })
			to, err := intern(next)
			if err != nil {
				return nil, err
			}
			out.addArc(from, Arc{ILabel: l, OLabel: l, Weight: w, Next: to})
		}
	}

	return out, nil
}

func subsetKey(k semiring.Kind, s []residual, delta float64) string {
	var b strings.Builder
	for _, m := range s {
		b.WriteString(strconv.Itoa(int(m.q)))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(k.Quantize(m.w, delta), 'g', -1, 64))
		b.WriteByte(';')
	}

	return b.String()
}

// DeterminizeUnweighted runs the classic subset construction on the input
// labels of f, ignoring output labels and weights. Input-epsilon arcs are
// followed as epsilon moves. Every arc and final weight of the result is One.
// Complexity: O(2^V) in the worst case.
func DeterminizeUnweighted(f *Fst) *Fst {
	out := newLike(f)
	out.osyms = f.isyms
	if f.Empty() {
		return out
	}
	k := f.kind
	one := k.One()

	closure := func(set map[StateID]struct{}) []StateID {
		stack := make([]StateID, 0, len(set))
		for q := range set {
			stack = append(stack, q)
		}
		for len(stack) > 0 {
			q := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, a := range f.states[q].arcs {
				if a.ILabel != Epsilon || k.IsZero(a.Weight) {
					continue
				}
				if _, ok := set[a.Next]; !ok {
					set[a.Next] = struct{}{}
					stack = append(stack, a.Next)
				}
			}
		}
		list := make([]StateID, 0, len(set))
		for q := range set {
			list = append(list, q)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })

		return list
	}
	key := func(list []StateID) string {
		var b strings.Builder
		for _, q := range list {
			b.WriteString(strconv.Itoa(int(q)))
			b.WriteByte(',')
		}

		return b.String()
	}

	ids := make(map[string]StateID)
	var subsets [][]StateID
	intern := func(list []StateID) StateID {
		kk := key(list)
		if id, ok := ids[kk]; ok {
			return id
		}
		id := out.AddState()
		ids[kk] = id
		subsets = append(subsets, list)

		return id
	}
	intern(closure(map[StateID]struct{}{f.start: {}}))

	for head := 0; head < len(subsets); head++ {
		cur := subsets[head]
		from := StateID(head)
		moves := make(map[Label]map[StateID]struct{})
		for _, q := range cur {
			if !k.IsZero(f.states[q].final) {
				out.setFinal(from, one)
			}
			for _, a := range f.states[q].arcs {
				if a.ILabel == Epsilon || k.IsZero(a.Weight) {
					continue
				}
				if moves[a.ILabel] == nil {
					moves[a.ILabel] = make(map[StateID]struct{})
				}
				moves[a.ILabel][a.Next] = struct{}{}
			}
		}
		labels := make([]Label, 0, len(moves))
		for l := range moves {
			labels = append(labels, l)
		}
		sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
		for _, l := range labels {
			to := intern(closure(moves[l]))
			out.addArc(from, Arc{ILabel: l, OLabel: l, Weight: one, Next: to})
		}
	}

	return out
}

// Complete returns a copy of the deterministic acceptor f in which every state
// has an arc for every label of alphabet; missing arcs lead to a non-final sink.
// An empty f becomes a lone non-final sink.
func Complete(f *Fst, alphabet []Label) *Fst {
	out := f.Copy()
	one := out.kind.One()
	sink := NoState
	ensureSink := func() StateID {
		if sink == NoState {
			sink = out.AddState()
			for _, l := range alphabet {
				out.addArc(sink, Arc{ILabel: l, OLabel: l, Weight: one, Next: sink})
			}
		}

		return sink
	}
	if out.Empty() {
		out.start = ensureSink()

		return out
	}
	n := len(out.states)
	for q := 0; q < n; q++ {
		have := make(map[Label]struct{}, len(out.states[q].arcs))
		for _, a := range out.states[q].arcs {
			have[a.ILabel] = struct{}{}
		}
		for _, l := range alphabet {
			if _, ok := have[l]; !ok {
				out.addArc(StateID(q), Arc{ILabel: l, OLabel: l, Weight: one, Next: ensureSink()})
			}
		}
	}

	return out
}

// Complement returns the unweighted acceptor of alphabet* minus the input
// language of f. Labels of f outside alphabet are added to the alphabet.
func Complement(f *Fst, alphabet []Label) *Fst {
	d := DeterminizeUnweighted(f)
	full := mergeLabels(alphabet, d.Labels(false))
	c := Complete(d, full)
	k := c.kind
	for q := range c.states {
		if k.IsZero(c.states[q].final) {
			c.states[q].final = k.One()
		} else {
			c.states[q].final = k.Zero()
		}
	}

	return Connect(c)
}

// Difference returns a restricted to input strings not accepted by b, where b is
// read as an unweighted acceptor over alphabet.
func Difference(a, b *Fst, alphabet []Label) (*Fst, error) {
	if err := check("Difference", a, false, b, false); err != nil {
		return nil, err
	}
	all := mergeLabels(alphabet, a.Labels(false))

	return Compose(Complement(b, all), a)
}
