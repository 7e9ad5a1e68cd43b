// SPDX-License-Identifier: MIT
// File: markers.go
// Role: auxiliary machines of the rule construction: context automata and the
//       three marker transducers (insert, check-present, check-absent).
// Conventions:
//   - Every auxiliary machine is unweighted (all weights One) and carries no
//     symbol tables, so it composes with any labeled machine.
//   - Context automata are deterministic and complete over their alphabet.

package rewrite

import (
	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/semiring"
)

// builder accumulates the first error of a sequence of mutations, so that
// construction code reads as a straight list of arcs.
type builder struct {
	f   *fst.Fst
	one float64
	err error
}

func newBuilder(k semiring.Kind) *builder {
	return &builder{f: fst.New(fst.WithSemiring(k)), one: k.One()}
}

func (b *builder) state() fst.StateID { return b.f.AddState() }

func (b *builder) arc(from fst.StateID, in, out fst.Label, w float64, to fst.StateID) {
	if b.err == nil {
		b.err = b.f.AddArc(from, fst.Arc{ILabel: in, OLabel: out, Weight: w, Next: to})
	}
}

func (b *builder) loop(q fst.StateID, in, out fst.Label) { b.arc(q, in, out, b.one, q) }

func (b *builder) final(q fst.StateID, w float64) {
	if b.err == nil {
		b.err = b.f.SetFinal(q, w)
	}
}

func (b *builder) start(q fst.StateID) {
	if b.err == nil {
		b.err = b.f.SetStart(q)
	}
}

func (b *builder) result() (*fst.Fst, error) { return b.f, b.err }

// contextDFA returns the deterministic complete acceptor of sigma* · lang.
// Weights and output labels of lang are ignored.
func contextDFA(k semiring.Kind, sigma []fst.Label, lang *fst.Fst) (*fst.Fst, error) {
	prefix, err := fst.Concat(fst.Universal(sigma, fst.WithSemiring(k)), lang)
	if err != nil {
		return nil, err
	}
	d := fst.DeterminizeUnweighted(prefix)
	d.SetSymbols(nil, nil)

	return fst.Complete(d, sigma), nil
}

// insertMarkers turns the context automaton d into a transducer that copies
// its input and writes one of markers after every prefix accepted by d.
//
// A final state q of d is split: q itself may only emit a marker, moving to
// q', which owns q's arcs and is final. Non-final states of d are final in
// the result, so the marker cannot be skipped.
func insertMarkers(d *fst.Fst, markers ...fst.Label) (*fst.Fst, error) {
	b := newBuilder(d.Semiring())
	n := d.NumStates()
	for i := 0; i < n; i++ {
		b.state()
	}
	for i := 0; i < n; i++ {
		q := fst.StateID(i)
		src := q
		if d.IsFinal(q) {
			src = b.state()
			for _, m := range markers {
				b.arc(q, fst.Epsilon, m, b.one, src)
			}
		}
		for _, a := range d.Arcs(q) {
			b.arc(src, a.ILabel, a.ILabel, b.one, a.Next)
		}
		b.final(src, b.one)
	}
	b.start(d.Start())

	return b.result()
}

// checkMarker turns the context automaton d into a transducer that copies its
// input and accepts marker only in the states selected by atFinal: final
// states of d (marker must follow the context) or non-final states (marker
// must not follow it). Accepted markers are written as out. Labels of ignore
// are copied everywhere without moving d.
func checkMarker(d *fst.Fst, marker, out fst.Label, atFinal bool, ignore ...fst.Label) (*fst.Fst, error) {
	b := newBuilder(d.Semiring())
	n := d.NumStates()
	for i := 0; i < n; i++ {
		b.state()
	}
	for i := 0; i < n; i++ {
		q := fst.StateID(i)
		for _, a := range d.Arcs(q) {
			b.arc(q, a.ILabel, a.ILabel, b.one, a.Next)
		}
		for _, l := range ignore {
			b.loop(q, l, l)
		}
		if d.IsFinal(q) == atFinal {
			b.loop(q, marker, out)
		}
		b.final(q, b.one)
	}
	b.start(d.Start())

	return b.result()
}

// siteShape returns the acceptor of ε | σ | σ (σ ∪ {>})* σ: strings that neither
// start nor end with the right marker.
func siteShape(k semiring.Kind, sigma []fst.Label) (*fst.Fst, error) {
	b := newBuilder(k)
	s0, s1, s2 := b.state(), b.state(), b.state()
	for _, l := range sigma {
		b.arc(s0, l, l, b.one, s1)
		b.loop(s1, l, l)
		b.arc(s2, l, l, b.one, s1)
	}
	b.arc(s1, markRight, markRight, b.one, s2)
	b.loop(s2, markRight, markRight)
	b.final(s0, b.one)
	b.final(s1, b.one)

	return b.result()
}

// boundaryInserter returns (ε:BOS) Id(sigma)* (ε:EOS).
func boundaryInserter(k semiring.Kind, sigma []fst.Label) (*fst.Fst, error) {
	b := newBuilder(k)
	s0, s1, s2 := b.state(), b.state(), b.state()
	b.arc(s0, fst.Epsilon, BOS, b.one, s1)
	for _, l := range sigma {
		b.loop(s1, l, l)
	}
	b.arc(s1, fst.Epsilon, EOS, b.one, s2)
	b.final(s2, b.one)

	return b.result()
}
