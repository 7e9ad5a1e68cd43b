// SPDX-License-Identifier: MIT
// File: symbols.go
// Role: Bijection between string tokens and positive labels, shared by every
//       machine built in one grammar session.
// Concurrency:
//   - One RWMutex guards both directions; Add is an insert-if-absent under the
//     write lock, lookups take the read lock.

package fst

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// EpsilonSymbol is the reserved textual form of label 0.
const EpsilonSymbol = "<epsilon>"

// SymbolTable maps string tokens to labels and back.
//
// Label 0 always denotes EpsilonSymbol. Every table has a random identity (ID);
// two tables are compatible when they share an ID or hold identical mappings.
type SymbolTable struct {
	mu    sync.RWMutex
	id    string
	name  string
	bySym map[string]Label
	byLab map[Label]string
	next  Label
}

// SymbolTableOption configures a SymbolTable before first use.
type SymbolTableOption func(t *SymbolTable)

// FirstLabel sets the label assigned to the first added symbol.
// Panics on labels < 1 (label 0 is epsilon).
func FirstLabel(l Label) SymbolTableOption {
	if l < 1 {
		panic("fst: FirstLabel must be positive")
	}

	return func(t *SymbolTable) { t.next = l }
}

// NewSymbolTable creates a table holding only the epsilon entry.
func NewSymbolTable(name string, opts ...SymbolTableOption) *SymbolTable {
	t := &SymbolTable{
		id:    uuid.New().String(),
		name:  name,
		bySym: map[string]Label{EpsilonSymbol: Epsilon},
		byLab: map[Label]string{Epsilon: EpsilonSymbol},
		next:  1,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// ID returns the identity of the table.
func (t *SymbolTable) ID() string { return t.id }

// Name returns the human-readable table name.
func (t *SymbolTable) Name() string { return t.name }

// Add returns the label of sym, inserting it with the next free label if absent.
func (t *SymbolTable) Add(sym string) Label {
	t.mu.Lock()
	defer t.mu.Unlock()

	if l, ok := t.bySym[sym]; ok {
		return l
	}
	for {
		if _, taken := t.byLab[t.next]; !taken {
			break
		}
		t.next++
	}
	l := t.next
	t.next++
	t.bySym[sym] = l
	t.byLab[l] = sym

	return l
}

// AddWithLabel binds sym to l. It returns false if either side is already bound
// to something else.
func (t *SymbolTable) AddWithLabel(sym string, l Label) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cur, ok := t.bySym[sym]; ok {
		return cur == l
	}
	if _, ok := t.byLab[l]; ok {
		return false
	}
	t.bySym[sym] = l
	t.byLab[l] = sym

	return true
}

// Find returns the label of sym.
func (t *SymbolTable) Find(sym string) (Label, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	l, ok := t.bySym[sym]

	return l, ok
}

// Symbol returns the token bound to l.
func (t *SymbolTable) Symbol(l Label) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.byLab[l]

	return s, ok
}

// Len returns the number of entries including epsilon.
func (t *SymbolTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.byLab)
}

// Labels returns all non-epsilon labels in ascending order.
func (t *SymbolTable) Labels() []Label {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Label, 0, len(t.byLab))
	for l := range t.byLab {
		if l != Epsilon {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Copy returns an independent table with the same entries and a new identity.
func (t *SymbolTable) Copy() *SymbolTable {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c := &SymbolTable{
		id:    uuid.New().String(),
		name:  t.name,
		bySym: make(map[string]Label, len(t.bySym)),
		byLab: make(map[Label]string, len(t.byLab)),
		next:  t.next,
	}
	for s, l := range t.bySym {
		c.bySym[s] = l
		c.byLab[l] = s
	}

	return c
}

// Compatible reports whether tables a and b label the same alphabet.
// Two nil tables (byte or codepoint alphabets) agree; nil never agrees with
// a symbol table.
func Compatible(a, b *SymbolTable) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.id == b.id {
		return true
	}
	a.mu.RLock()
	snapshot := make(map[Label]string, len(a.byLab))
	for l, s := range a.byLab {
		snapshot[l] = s
	}
	a.mu.RUnlock()

	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(snapshot) != len(b.byLab) {
		return false
	}
	for l, s := range snapshot {
		if bs, ok := b.byLab[l]; !ok || bs != s {
			return false
		}
	}

	return true
}

// SidesCompatible reports whether one side of a (the output side when
// aOutput is set) may be combined with one side of b. A side without a table
// meets a symbol table only when its labels are all Epsilon or Reserved
// markers.
// Complexity: O(A) arcs in the worst case.
func SidesCompatible(a *Fst, aOutput bool, b *Fst, bOutput bool) bool {
	as, bs := a.side(aOutput), b.side(bOutput)
	switch {
	case as == nil && bs != nil:
		return a.markersOnly(aOutput)
	case as != nil && bs == nil:
		return b.markersOnly(bOutput)
	}

	return Compatible(as, bs)
}

func (f *Fst) side(output bool) *SymbolTable {
	if output {
		return f.osyms
	}

	return f.isyms
}

// markersOnly reports whether every label on the chosen side is Epsilon or
// at least Reserved.
func (f *Fst) markersOnly(output bool) bool {
	for i := range f.states {
		for _, a := range f.states[i].arcs {
			l := a.ILabel
			if output {
				l = a.OLabel
			}
			if l != Epsilon && l < Reserved {
				return false
			}
		}
	}

	return true
}
