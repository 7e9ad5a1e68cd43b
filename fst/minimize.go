// SPDX-License-Identifier: MIT
// File: minimize.go
// Role: Weight pushing and minimization by weighted bisimulation.
// Algorithm:
//   - Partition refinement: states start grouped by final weight; each round a
//     state's signature is its class plus, for every (input, output, target
//     class), the semiring sum of the arc weights. Rounds stop when the number
//     of classes is stable. The quotient keeps one representative per class.
//   - On a deterministic machine this is classical minimization; on any other
//     machine it merges bisimilar states, which preserves the weighted language
//     without requiring determinization.

package fst

import (
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/wfst/semiring"
)

// Push returns a copy of f with weights pushed toward the start state: every
// state's remaining distance to the final states becomes One, and the total
// weight is re-applied at the start state (through a fresh start state if the
// original one has incoming arcs). Path weights are unchanged.
//
// Errors:
//   - ErrNoConvergence from ShortestDistance.
func Push(f *Fst) (*Fst, error) {
	c := Connect(f)
	if c.Empty() {
		return c, nil
	}
	d, err := ShortestDistance(c, true)
	if err != nil {
		return nil, err
	}
	k := c.kind
	for q := range c.states {
		dq := d[q]
		for j := range c.states[q].arcs {
			a := &c.states[q].arcs[j]
			a.Weight = k.Divide(k.Times(a.Weight, d[a.Next]), dq)
		}
		if fw := c.states[q].final; !k.IsZero(fw) {
			c.states[q].final = k.Divide(fw, dq)
		}
	}

	total := d[c.start]
	if total == k.One() {
		return c, nil
	}
	target := c.start
	if hasIncoming(c, c.start) {
		target = c.AddState()
		c.states[target].arcs = append([]Arc(nil), c.states[c.start].arcs...)
		c.states[target].final = c.states[c.start].final
		c.start = target
	}
	for j := range c.states[target].arcs {
		a := &c.states[target].arcs[j]
		a.Weight = k.Times(total, a.Weight)
	}
	if fw := c.states[target].final; !k.IsZero(fw) {
		c.states[target].final = k.Times(total, fw)
	}

	return c, nil
}

func hasIncoming(f *Fst, s StateID) bool {
	for q := range f.states {
		for _, a := range f.states[q].arcs {
			if a.Next == s {
				return true
			}
		}
	}

	return false
}

// MinimizeOptions configures Minimize.
type MinimizeOptions struct {
	// Push enables weight pushing before refinement.
	Push bool

	// Delta is the quantization step used to compare weights.
	Delta float64
}

// MinimizeOption mutates MinimizeOptions.
type MinimizeOption func(*MinimizeOptions)

// WithPush enables or disables weight pushing before refinement.
func WithPush(push bool) MinimizeOption {
	return func(o *MinimizeOptions) { o.Push = push }
}

// WithMinimizeDelta sets the weight quantization step. Panics on delta <= 0.
func WithMinimizeDelta(delta float64) MinimizeOption {
	if delta <= 0 {
		panic("fst: WithMinimizeDelta must be positive")
	}

	return func(o *MinimizeOptions) { o.Delta = delta }
}

// Minimize returns the quotient of f by weighted bisimulation. Arcs are merged
// per (input, output, target) with the semiring sum, so the result never has
// parallel arcs.
//
// Errors:
//   - ErrNoConvergence if pushing was requested and distances diverge.
//
// Complexity: O(R·(V + E) log E) for R refinement rounds.
func Minimize(f *Fst, opts ...MinimizeOption) (*Fst, error) {
	cfg := MinimizeOptions{Push: false, Delta: semiring.Delta}
	for _, opt := range opts {
		opt(&cfg)
	}
	src := Connect(f)
	if cfg.Push {
		p, err := Push(src)
		if err != nil {
			return nil, err
		}
		src = p
	}
	if src.Empty() {
		return src, nil
	}

	class := refine(src, cfg.Delta)

	// Number classes so that the start class is 0, then in state order.
	renum := make(map[int]StateID)
	reps := []StateID{}
	assign := func(q StateID) {
		if _, ok := renum[class[q]]; !ok {
			renum[class[q]] = StateID(len(reps))
			reps = append(reps, q)
		}
	}
	assign(src.start)
	for q := range src.states {
		assign(StateID(q))
	}

	out := newLike(src)
	out.states = make([]state, len(reps))
	out.start = 0
	for i, q := range reps {
		out.states[i].final = src.states[q].final
		for _, a := range src.states[q].arcs {
			a.Next = renum[class[a.Next]]
			out.states[i].arcs = append(out.states[i].arcs, a)
		}
	}

	return Connect(ArcSum(out)), nil
}

// refine computes the coarsest weighted bisimulation partition.
func refine(f *Fst, delta float64) []int {
	k := f.kind
	n := len(f.states)
	class := make([]int, n)
	ids := make(map[string]int)
	for q := 0; q < n; q++ {
		key := "nf"
		if fw := f.states[q].final; !k.IsZero(fw) {
			key = strconv.FormatFloat(k.Quantize(fw, delta), 'g', -1, 64)
		}
		if _, ok := ids[key]; !ok {
			ids[key] = len(ids)
		}
		class[q] = ids[key]
	}
	count := len(ids)

	for {
		ids = make(map[string]int)
		next := make([]int, n)
		for q := 0; q < n; q++ {
			key := signature(f, StateID(q), class, delta)
			if _, ok := ids[key]; !ok {
				ids[key] = len(ids)
			}
			next[q] = ids[key]
		}
		class = next
		if len(ids) == count {
			return class
		}
		count = len(ids)
	}
}

// signature renders a state's class and its aggregated arcs.
func signature(f *Fst, q StateID, class []int, delta float64) string {
	k := f.kind
	type sigKey struct {
		i, o Label
		c    int
	}
	agg := make(map[sigKey]float64)
	keys := make([]sigKey, 0, len(f.states[q].arcs))
	for _, a := range f.states[q].arcs {
		sk := sigKey{i: a.ILabel, o: a.OLabel, c: class[a.Next]}
		if w, ok := agg[sk]; ok {
			agg[sk] = k.Plus(w, a.Weight)
			continue
		}
		agg[sk] = a.Weight
		keys = append(keys, sk)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].i != keys[j].i {
			return keys[i].i < keys[j].i
		}
		if keys[i].o != keys[j].o {
			return keys[i].o < keys[j].o
		}

		return keys[i].c < keys[j].c
	})

	var b strings.Builder
	b.WriteString(strconv.Itoa(class[q]))
	b.WriteByte('|')
	for _, sk := range keys {
		b.WriteString(strconv.Itoa(int(sk.i)))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(sk.o)))
		b.WriteByte('>')
		b.WriteString(strconv.Itoa(sk.c))
		b.WriteByte('/')
		b.WriteString(strconv.FormatFloat(k.Quantize(agg[sk], delta), 'g', -1, 64))
		b.WriteByte(';')
	}

	return b.String()
}
