// SPDX-License-Identifier: MIT
// File: arcs.go
// Role: Arc-level canonicalization (sorting, summing parallel arcs) and label
//       encoding, which lets acceptor algorithms run on transducers.

package fst

import (
	"fmt"
	"sort"
)

// SortKey selects the arc order produced by ArcSort.
type SortKey uint8

const (
	// ByInput orders arcs by (input, output, next).
	ByInput SortKey = iota

	// ByOutput orders arcs by (output, input, next).
	ByOutput
)

// ArcSort returns a copy whose arcs are stably sorted at every state.
// Complexity: O(E log E).
func ArcSort(f *Fst, key SortKey) *Fst {
	out := f.Copy()
	for q := range out.states {
		arcs := out.states[q].arcs
		sort.SliceStable(arcs, func(i, j int) bool {
			a, b := arcs[i], arcs[j]
			p1, s1, p2, s2 := a.ILabel, a.OLabel, b.ILabel, b.OLabel
			if key == ByOutput {
				p1, s1, p2, s2 = a.OLabel, a.ILabel, b.OLabel, b.ILabel
			}
			if p1 != p2 {
				return p1 < p2
			}
			if s1 != s2 {
				return s1 < s2
			}

			return a.Next < b.Next
		})
	}

	return out
}

// arcKey identifies parallel arcs.
type arcKey struct {
	i, o Label
	next StateID
}

// ArcSum returns a copy in which arcs sharing (input, output, next) at a state
// are merged into one arc weighted by the semiring sum. The first occurrence
// keeps its position.
// Complexity: O(E).
func ArcSum(f *Fst) *Fst {
	out := f.Copy()
	k := out.kind
	for q := range out.states {
		arcs := out.states[q].arcs
		pos := make(map[arcKey]int, len(arcs))
		merged := arcs[:0]
		for _, a := range arcs {
			key := arcKey{i: a.ILabel, o: a.OLabel, next: a.Next}
			if p, ok := pos[key]; ok {
				merged[p].Weight = k.Plus(merged[p].Weight, a.Weight)
				continue
			}
			pos[key] = len(merged)
			merged = append(merged, a)
		}
		out.states[q].arcs = merged
	}

	return out
}

// Encoder maps (input, output) label pairs to single labels so that a
// transducer can be handled as an acceptor. The epsilon pair maps to Epsilon.
// An Encoder is not safe for concurrent use.
type Encoder struct {
	codes map[[2]Label]Label
	pairs [][2]Label
}

// NewEncoder creates an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{codes: make(map[[2]Label]Label)}
}

func (e *Encoder) code(i, o Label) Label {
	if i == Epsilon && o == Epsilon {
		return Epsilon
	}
	p := [2]Label{i, o}
	if c, ok := e.codes[p]; ok {
		return c
	}
	e.pairs = append(e.pairs, p)
	c := Label(len(e.pairs))
	e.codes[p] = c

	return c
}

// Encode returns an acceptor whose labels are the codes of f's label pairs.
func (e *Encoder) Encode(f *Fst) *Fst {
	out := f.Copy()
	for q := range out.states {
		for j := range out.states[q].arcs {
			a := &out.states[q].arcs[j]
			c := e.code(a.ILabel, a.OLabel)
			a.ILabel, a.OLabel = c, c
		}
	}
	out.isyms, out.osyms = nil, nil

	return out
}

// Decode maps codes back to label pairs and restores the given symbol tables.
//
// Errors:
//   - ErrUnknownLabel if an arc carries a code this Encoder never issued.
func (e *Encoder) Decode(f *Fst, isyms, osyms *SymbolTable) (*Fst, error) {
	out := f.Copy()
	for q := range out.states {
		for j := range out.states[q].arcs {
			a := &out.states[q].arcs[j]
			if a.ILabel == Epsilon {
				a.OLabel = Epsilon
				continue
			}
			idx := int(a.ILabel) - 1
			if idx < 0 || idx >= len(e.pairs) {
				return nil, fmt.Errorf("%w: %d", ErrUnknownLabel, a.ILabel)
			}
			a.ILabel, a.OLabel = e.pairs[idx][0], e.pairs[idx][1]
		}
	}
	out.isyms, out.osyms = isyms, osyms

	return out, nil
}

func sortedLabels(set map[Label]struct{}) []Label {
	out := make([]Label, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// mergeLabels returns the sorted union of label lists, without Epsilon.
func mergeLabels(lists ...[]Label) []Label {
	set := make(map[Label]struct{})
	for _, list := range lists {
		for _, l := range list {
			if l != Epsilon {
				set[l] = struct{}{}
			}
		}
	}

	return sortedLabels(set)
}

// MergeLabels is the exported form of mergeLabels for alphabet bookkeeping.
func MergeLabels(lists ...[]Label) []Label { return mergeLabels(lists...) }
