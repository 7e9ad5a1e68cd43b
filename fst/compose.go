// SPDX-License-Identifier: MIT
// File: compose.go
// Role: Weighted composition with an epsilon-sequencing filter.
// Filter:
//   - state 0: a may move alone on an output-epsilon arc, b may move alone on
//     an input-epsilon arc, or both may move on a matching label;
//   - state 1 (entered after b moved alone): a may no longer move alone.
//   Every pair of epsilon moves between two matches is therefore taken in one
//   canonical order (a first, then b) and no path is produced twice.

package fst

// composeKey identifies a state of the composition.
type composeKey struct {
	q1, q2 StateID
	filter uint8
}

// Compose returns a∘b: for every path x:y in a and y:z in b, a path x:z whose
// weight is the Times of both. The result is trimmed; an empty result is a
// valid outcome, not an error.
//
// Errors:
//   - ErrSemiringMismatch if the semirings differ.
//   - ErrSymbolMismatch if a's output table and b's input table are incompatible.
//
// Complexity: O(V1·V2 + E1·E2) in the worst case.
func Compose(a, b *Fst) (*Fst, error) {
	if err := check("Compose", a, true, b, false); err != nil {
		return nil, err
	}
	out := newLike(a)
	out.isyms, out.osyms = a.isyms, b.osyms
	if a.Empty() || b.Empty() {
		return out, nil
	}

	c := &composer{a: a, b: b, out: out, ids: make(map[composeKey]StateID), index: make(map[StateID]map[Label][]Arc)}
	c.run()

	return Connect(out), nil
}

// Intersect returns the intersection of two acceptors (composition of acceptors).
func Intersect(a, b *Fst) (*Fst, error) {
	if !a.IsAcceptor() || !b.IsAcceptor() {
		return nil, ErrNotAcceptor
	}

	return Compose(a, b)
}

// composer holds the mutable state of a single composition.
type composer struct {
	a, b  *Fst
	out   *Fst
	ids   map[composeKey]StateID
	queue []composeKey
	index map[StateID]map[Label][]Arc // b's arcs by input label, built lazily
}

func (c *composer) id(k composeKey) StateID {
	if s, ok := c.ids[k]; ok {
		return s
	}
	s := c.out.AddState()
	c.ids[k] = s
	c.queue = append(c.queue, k)

	return s
}

func (c *composer) arcsOf(q2 StateID) map[Label][]Arc {
	if m, ok := c.index[q2]; ok {
		return m
	}
	m := make(map[Label][]Arc)
	for _, arc := range c.b.states[q2].arcs {
		if arc.ILabel != Epsilon {
			m[arc.ILabel] = append(m[arc.ILabel], arc)
		}
	}
	c.index[q2] = m

	return m
}

func (c *composer) run() {
	k := c.out.kind
	c.id(composeKey{q1: c.a.start, q2: c.b.start})
	for head := 0; head < len(c.queue); head++ {
		cur := c.queue[head]
		src := c.ids[cur]

		f1, f2 := c.a.states[cur.q1].final, c.b.states[cur.q2].final
		if !k.IsZero(f1) && !k.IsZero(f2) {
			c.out.setFinal(src, k.Times(f1, f2))
		}

		// a moves: alone on output epsilon (filter 0 only), or matched with b.
		for _, a1 := range c.a.states[cur.q1].arcs {
			if a1.OLabel == Epsilon {
				if cur.filter == 0 {
					dst := c.id(composeKey{q1: a1.Next, q2: cur.q2})
					c.out.addArc(src, Arc{ILabel: a1.ILabel, OLabel: Epsilon, Weight: a1.Weight, Next: dst})
				}
				continue
			}
			for _, a2 := range c.arcsOf(cur.q2)[a1.OLabel] {
				dst := c.id(composeKey{q1: a1.Next, q2: a2.Next})
				c.out.addArc(src, Arc{ILabel: a1.ILabel, OLabel: a2.OLabel, Weight: k.Times(a1.Weight, a2.Weight), Next: dst})
			}
		}

		// b moves alone on input epsilon.
		for _, a2 := range c.b.states[cur.q2].arcs {
			if a2.ILabel != Epsilon {
				continue
			}
			dst := c.id(composeKey{q1: cur.q1, q2: a2.Next, filter: 1})
			c.out.addArc(src, Arc{ILabel: Epsilon, OLabel: a2.OLabel, Weight: a2.Weight, Next: dst})
		}
	}
}
