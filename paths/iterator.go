// SPDX-License-Identifier: MIT
// File: iterator.go
// Role: lazy enumeration of every path with an explicit stack.
// Order:
//   - Acyclic machines are walked depth-first, arcs in stored order.
//   - Cyclic machines are walked by iterative deepening on the number of arcs,
//     so every path is reached after finitely many calls to Next even though
//     the enumeration never ends.

package paths

import (
	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/semiring"
)

// frame is one stack entry: a state reached with weight w. il/ol are the label
// stack lengths before the arc into the state was taken.
type frame struct {
	q      fst.StateID
	next   int
	w      float64
	il, ol int
}

// Iterator enumerates the paths of a machine one at a time.
// It is not safe for concurrent use; create one iterator per consumer.
//
// Usage:
//
//	it := paths.NewIterator(t)
//	for it.Next() {
//	    p := it.Path()
//	    ...
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator struct {
	f      *fst.Fst
	k      semiring.Kind
	cfg    Options
	cyclic bool

	stack   []frame
	ilabels []fst.Label
	olabels []fst.Label
	depth   int // current depth bound (cyclic machines)

	cur     Path
	err     error
	started bool
	done    bool
}

// NewIterator prepares an iterator over the paths of t. WithUnique is ignored.
func NewIterator(t *fst.Fst, opts ...Option) *Iterator {
	var cfg Options
	for _, opt := range opts {
		opt(&cfg)
	}
	c := fst.Connect(t)

	return &Iterator{f: c, k: c.Semiring(), cfg: cfg, cyclic: hasCycle(c)}
}

// Next advances to the next path and reports whether there is one.
func (it *Iterator) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if !it.started {
		it.started = true
		if it.f.Empty() {
			it.done = true

			return false
		}
		it.restart()
		if it.accept(it.stack[0]) {
			return true
		}
		if it.err != nil {
			return false
		}
	}

	for {
		for len(it.stack) > 0 {
			top := &it.stack[len(it.stack)-1]
			arcs := it.f.Arcs(top.q)
			if top.next >= len(arcs) || (it.cyclic && len(it.stack) > it.depth) {
				it.ilabels = it.ilabels[:top.il]
				it.olabels = it.olabels[:top.ol]
				it.stack = it.stack[:len(it.stack)-1]
				continue
			}
			a := arcs[top.next]
			top.next++
			fr := frame{q: a.Next, w: it.k.Times(top.w, a.Weight), il: len(it.ilabels), ol: len(it.olabels)}
			if a.ILabel != fst.Epsilon {
				it.ilabels = append(it.ilabels, a.ILabel)
			}
			if a.OLabel != fst.Epsilon {
				it.olabels = append(it.olabels, a.OLabel)
			}
			it.stack = append(it.stack, fr)
			if it.accept(fr) {
				return true
			}
			if it.err != nil {
				return false
			}
		}
		if !it.cyclic {
			it.done = true

			return false
		}
		// Next depth bound. A trimmed cyclic machine has accepting paths of
		// unbounded length, so some later bound always emits.
		it.depth++
		it.restart()
		if it.accept(it.stack[0]) {
			return true
		}
		if it.err != nil {
			return false
		}
	}
}

// restart resets the walk to the start state.
func (it *Iterator) restart() {
	it.stack = append(it.stack[:0], frame{q: it.f.Start(), w: it.k.One()})
	it.ilabels = it.ilabels[:0]
	it.olabels = it.olabels[:0]
}

// accept emits the path ending at fr when fr's state is final. In deepening
// mode only paths of exactly the current depth are emitted.
func (it *Iterator) accept(fr frame) bool {
	fw := it.f.Final(fr.q)
	if it.k.IsZero(fw) {
		return false
	}
	if it.cyclic && len(it.stack)-1 != it.depth {
		return false
	}
	p := Path{
		ILabels: append([]fst.Label(nil), it.ilabels...),
		OLabels: append([]fst.Label(nil), it.olabels...),
		Weight:  it.k.Times(fr.w, fw),
	}
	if err := it.cfg.decode(&p); err != nil {
		it.err = err

		return false
	}
	it.cur = p

	return true
}

// Path returns the current path. Valid after Next returned true.
func (it *Iterator) Path() Path { return it.cur }

// Err returns the first error met while decoding.
func (it *Iterator) Err() error { return it.err }

// Reset rewinds the iterator to the first path.
func (it *Iterator) Reset() {
	it.stack = it.stack[:0]
	it.ilabels = it.ilabels[:0]
	it.olabels = it.olabels[:0]
	it.depth = 0
	it.cur = Path{}
	it.err = nil
	it.started = false
	it.done = false
}

// hasCycle reports whether f has a cycle reachable from the start state.
func hasCycle(f *fst.Fst) bool {
	if f.Empty() {
		return false
	}
	const (
		white = iota
		grey
		black
	)
	color := make([]uint8, f.NumStates())
	type entry struct {
		q    fst.StateID
		next int
	}
	stack := []entry{{q: f.Start()}}
	color[f.Start()] = grey
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		arcs := f.Arcs(top.q)
		if top.next >= len(arcs) {
			color[top.q] = black
			stack = stack[:len(stack)-1]
			continue
		}
		nxt := arcs[top.next].Next
		top.next++
		switch color[nxt] {
		case grey:
			return true
		case white:
			color[nxt] = grey
			stack = append(stack, entry{q: nxt})
		}
	}

	return false
}
