// SPDX-License-Identifier: MIT
// File: print.go
// Role: AT&T-style text rendering for debugging and golden tests.

package fst

import (
	"strconv"
	"strings"
)

// String renders the machine one arc or final state per line:
//
//	src dst ilabel olabel weight
//	state weight
//
// Labels are printed through the attached symbol tables when present.
// The start state's lines come first.
func (f *Fst) String() string {
	if f.Empty() {
		return ""
	}
	var b strings.Builder
	order := make([]StateID, 0, len(f.states))
	order = append(order, f.start)
	for q := range f.states {
		if StateID(q) != f.start {
			order = append(order, StateID(q))
		}
	}
	for _, q := range order {
		for _, a := range f.states[q].arcs {
			b.WriteString(strconv.Itoa(int(q)))
			b.WriteByte('\t')
			b.WriteString(strconv.Itoa(int(a.Next)))
			b.WriteByte('\t')
			b.WriteString(labelText(f.isyms, a.ILabel))
			b.WriteByte('\t')
			b.WriteString(labelText(f.osyms, a.OLabel))
			if !f.kind.IsOne(a.Weight) {
				b.WriteByte('\t')
				b.WriteString(strconv.FormatFloat(a.Weight, 'g', -1, 64))
			}
			b.WriteByte('\n')
		}
		if fw := f.states[q].final; !f.kind.IsZero(fw) {
			b.WriteString(strconv.Itoa(int(q)))
			if !f.kind.IsOne(fw) {
				b.WriteByte('\t')
				b.WriteString(strconv.FormatFloat(fw, 'g', -1, 64))
			}
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func labelText(t *SymbolTable, l Label) string {
	if t != nil {
		if s, ok := t.Symbol(l); ok {
			return s
		}
	}

	return strconv.Itoa(int(l))
}
