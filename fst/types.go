// SPDX-License-Identifier: MIT
// Package: wfst/fst
//
// Package fst defines the weighted finite-state transducer (Fst) arena and the
// automaton algebra every other package of this module is built on.
//
// States live in a dense slice and are addressed by integer StateID; each state
// owns its outgoing arcs as an adjacency list and a final weight. There are no
// pointers between states, so cyclic and ambiguous machines need no special care
// and reachability passes work directly over IDs.
//
// Published machines are treated as immutable values: every operation in this
// package (Union, Concat, Compose, RmEpsilon, Determinize, Minimize, ...) returns
// a new Fst and never mutates its arguments. Only the mutating methods
// (AddState, AddArc, SetFinal, SetStart, ReplaceWith) change a machine, and the
// caller owns exclusive access while calling them.
//
// Errors:
//
//	ErrBadState          - a StateID outside [0, NumStates()).
//	ErrBadWeight         - a weight that is not an element of the semiring.
//	ErrSemiringMismatch  - two operands carry different semirings.
//	ErrSymbolMismatch    - two operands carry incompatible symbol tables.
//	ErrNotAcceptor       - an operation that needs an acceptor got a transducer.
//	ErrStateLimit        - determinization exceeded the configured state cap.
//	ErrNoConvergence     - shortest distance did not converge (negative or divergent cycles).
//	ErrUnknownLabel      - Decode met a label the Encoder never produced.
package fst

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/wfst/semiring"
)

// Sentinel errors for automaton operations.
var (
	// ErrBadState indicates a StateID that does not exist in the machine.
	ErrBadState = errors.New("fst: state not found")

	// ErrBadWeight indicates a weight outside the machine's semiring.
	ErrBadWeight = errors.New("fst: weight is not a semiring element")

	// ErrSemiringMismatch indicates that two operands use different semirings.
	ErrSemiringMismatch = errors.New("fst: semiring mismatch")

	// ErrSymbolMismatch indicates that two operands use incompatible symbol tables.
	ErrSymbolMismatch = errors.New("fst: symbol table mismatch")

	// ErrNotAcceptor indicates that an acceptor was required.
	ErrNotAcceptor = errors.New("fst: machine is not an acceptor")

	// ErrStateLimit indicates that a construction exceeded its state cap.
	ErrStateLimit = errors.New("fst: state limit exceeded")

	// ErrNoConvergence indicates that a shortest-distance computation did not converge.
	ErrNoConvergence = errors.New("fst: shortest distance did not converge")

	// ErrUnknownLabel indicates that an encoded label has no entry in its Encoder.
	ErrUnknownLabel = errors.New("fst: unknown encoded label")
)

// Label is an arc label. Epsilon (0) is reserved in every alphabet.
type Label int32

// StateID addresses a state inside one Fst.
type StateID int

const (
	// Epsilon is the empty label.
	Epsilon Label = 0

	// NoState marks the start of an empty machine.
	NoState StateID = -1

	// Reserved is the lowest construction-marker label. Labels at or above
	// it belong to no alphabet and may meet any symbol table.
	Reserved Label = 1 << 30
)

// Arc is one weighted transition.
type Arc struct {
	ILabel Label   // input label
	OLabel Label   // output label
	Weight float64 // semiring weight
	Next   StateID // destination state
}

// IsEpsilon reports whether both labels are Epsilon.
func (a Arc) IsEpsilon() bool { return a.ILabel == Epsilon && a.OLabel == Epsilon }

// state holds one arena slot. final == semiring Zero means non-final.
type state struct {
	arcs  []Arc
	final float64
}

// Option configures an Fst at creation.
type Option func(f *Fst)

// WithSemiring selects the weight semiring (Tropical by default).
func WithSemiring(k semiring.Kind) Option {
	return func(f *Fst) { f.kind = k }
}

// WithSymbols attaches input and output symbol tables. Either may be nil.
func WithSymbols(in, out *SymbolTable) Option {
	return func(f *Fst) {
		f.isyms = in
		f.osyms = out
	}
}

// Fst is a weighted finite-state transducer stored as an arena of states.
//
// The zero value is not usable; create machines with New.
type Fst struct {
	kind   semiring.Kind
	start  StateID
	states []state

	isyms *SymbolTable
	osyms *SymbolTable
}

// New creates an empty machine (no states, start == NoState).
// Complexity: O(len(opts)).
func New(opts ...Option) *Fst {
	f := &Fst{start: NoState}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// newLike returns an empty machine with f's semiring and symbol tables.
func newLike(f *Fst) *Fst {
	return &Fst{kind: f.kind, start: NoState, isyms: f.isyms, osyms: f.osyms}
}

// Semiring returns the weight semiring of the machine.
func (f *Fst) Semiring() semiring.Kind { return f.kind }

// Start returns the start state, or NoState for an empty machine.
func (f *Fst) Start() StateID { return f.start }

// NumStates returns the number of states.
func (f *Fst) NumStates() int { return len(f.states) }

// NumArcs returns the number of arcs leaving s (0 for an invalid state).
func (f *Fst) NumArcs(s StateID) int {
	if !f.valid(s) {
		return 0
	}

	return len(f.states[s].arcs)
}

// TotalArcs returns the number of arcs in the machine.
func (f *Fst) TotalArcs() int {
	n := 0
	for i := range f.states {
		n += len(f.states[i].arcs)
	}

	return n
}

// Empty reports whether the machine has no start state.
func (f *Fst) Empty() bool { return f.start == NoState || len(f.states) == 0 }

// InputSymbols returns the input symbol table (may be nil).
func (f *Fst) InputSymbols() *SymbolTable { return f.isyms }

// OutputSymbols returns the output symbol table (may be nil).
func (f *Fst) OutputSymbols() *SymbolTable { return f.osyms }

// SetSymbols replaces both symbol tables.
func (f *Fst) SetSymbols(in, out *SymbolTable) {
	f.isyms = in
	f.osyms = out
}

func (f *Fst) valid(s StateID) bool { return s >= 0 && int(s) < len(f.states) }

// AddState appends a non-final state and returns its ID.
// The first state added becomes the start state.
// Complexity: O(1) amortized.
func (f *Fst) AddState() StateID {
	f.states = append(f.states, state{final: f.kind.Zero()})
	id := StateID(len(f.states) - 1)
	if f.start == NoState {
		f.start = id
	}

	return id
}

// SetStart marks s as the start state.
func (f *Fst) SetStart(s StateID) error {
	if !f.valid(s) {
		return fmt.Errorf("%w: SetStart(%d)", ErrBadState, s)
	}
	f.start = s

	return nil
}

// SetFinal sets the final weight of s; passing the semiring Zero makes s non-final.
func (f *Fst) SetFinal(s StateID, w float64) error {
	if !f.valid(s) {
		return fmt.Errorf("%w: SetFinal(%d)", ErrBadState, s)
	}
	if !f.kind.Member(w) {
		return fmt.Errorf("%w: SetFinal(%d, %g)", ErrBadWeight, s, w)
	}
	f.states[s].final = w

	return nil
}

// Final returns the final weight of s (Zero when s is not final or invalid).
func (f *Fst) Final(s StateID) float64 {
	if !f.valid(s) {
		return f.kind.Zero()
	}

	return f.states[s].final
}

// IsFinal reports whether s has a non-Zero final weight.
func (f *Fst) IsFinal(s StateID) bool { return !f.kind.IsZero(f.Final(s)) }

// AddArc appends an arc leaving s after validating both endpoints and the weight.
// Complexity: O(1) amortized.
func (f *Fst) AddArc(s StateID, a Arc) error {
	if !f.valid(s) || !f.valid(a.Next) {
		return fmt.Errorf("%w: AddArc(%d→%d)", ErrBadState, s, a.Next)
	}
	if !f.kind.Member(a.Weight) {
		return fmt.Errorf("%w: AddArc(%d→%d, %g)", ErrBadWeight, s, a.Next, a.Weight)
	}
	f.states[s].arcs = append(f.states[s].arcs, a)

	return nil
}

// addArc is the unchecked fast path used by the algorithms of this package.
func (f *Fst) addArc(s StateID, a Arc) {
	f.states[s].arcs = append(f.states[s].arcs, a)
}

// setFinal is the unchecked fast path used by the algorithms of this package.
func (f *Fst) setFinal(s StateID, w float64) { f.states[s].final = w }

// Arcs returns the arcs leaving s. The slice is owned by the machine and must
// not be modified.
func (f *Fst) Arcs(s StateID) []Arc {
	if !f.valid(s) {
		return nil
	}

	return f.states[s].arcs
}

// Copy returns a deep copy of the machine. Symbol tables are shared.
// Complexity: O(V + E).
func (f *Fst) Copy() *Fst {
	c := newLike(f)
	c.start = f.start
	c.states = make([]state, len(f.states))
	for i := range f.states {
		c.states[i].final = f.states[i].final
		c.states[i].arcs = append([]Arc(nil), f.states[i].arcs...)
	}

	return c
}

// ReplaceWith overwrites f with the contents of src. It is the only way an
// algorithm result is written back into an existing machine and requires
// exclusive access to f.
func (f *Fst) ReplaceWith(src *Fst) {
	c := src.Copy()
	*f = *c
}

// IsAcceptor reports whether every arc has equal input and output labels.
func (f *Fst) IsAcceptor() bool {
	for i := range f.states {
		for _, a := range f.states[i].arcs {
			if a.ILabel != a.OLabel {
				return false
			}
		}
	}

	return true
}

// HasEpsilons reports whether some arc is an epsilon:epsilon arc.
func (f *Fst) HasEpsilons() bool {
	for i := range f.states {
		for _, a := range f.states[i].arcs {
			if a.IsEpsilon() {
				return true
			}
		}
	}

	return false
}

// IsInputDeterministic reports whether no state has two arcs with the same input
// label and no arc has an epsilon input.
func (f *Fst) IsInputDeterministic() bool {
	seen := make(map[Label]struct{})
	for i := range f.states {
		clear(seen)
		for _, a := range f.states[i].arcs {
			if a.ILabel == Epsilon {
				return false
			}
			if _, dup := seen[a.ILabel]; dup {
				return false
			}
			seen[a.ILabel] = struct{}{}
		}
	}

	return true
}

// Labels returns the sorted set of non-epsilon labels used on the input side
// (output == false) or output side (output == true).
func (f *Fst) Labels(output bool) []Label {
	set := make(map[Label]struct{})
	for i := range f.states {
		for _, a := range f.states[i].arcs {
			l := a.ILabel
			if output {
				l = a.OLabel
			}
			if l != Epsilon {
				set[l] = struct{}{}
			}
		}
	}

	return sortedLabels(set)
}

// Stats is a read-only size summary used for diagnostics and optimizer checks.
type Stats struct {
	States      int
	Arcs        int
	FinalStates int
	Epsilons    int
}

// Stats returns the size summary of the machine.
// Complexity: O(V + E).
func (f *Fst) Stats() Stats {
	var st Stats
	st.States = len(f.states)
	for i := range f.states {
		st.Arcs += len(f.states[i].arcs)
		if !f.kind.IsZero(f.states[i].final) {
			st.FinalStates++
		}
		for _, a := range f.states[i].arcs {
			if a.IsEpsilon() {
				st.Epsilons++
			}
		}
	}

	return st
}

// check verifies that a and b can be combined: same semiring and compatible tables
// on the facing sides (aSyms of a, bSyms of b).
func check(op string, a *Fst, aOutput bool, b *Fst, bOutput bool) error {
	if a.kind != b.kind {
		return fmt.Errorf("%w: %s(%s, %s)", ErrSemiringMismatch, op, a.kind, b.kind)
	}
	if !SidesCompatible(a, aOutput, b, bOutput) {
		return fmt.Errorf("%w: %s", ErrSymbolMismatch, op)
	}

	return nil
}

// pick returns the first non-nil table.
func pick(a, b *SymbolTable) *SymbolTable {
	if a != nil {
		return a
	}

	return b
}
