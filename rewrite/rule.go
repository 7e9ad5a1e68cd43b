// SPDX-License-Identifier: MIT
// File: rule.go
// Role: Compile, the assembly of a rule from its auxiliary machines.
// Construction (left to right):
//   r       inserts ">" before every occurrence of rho;
//   f       inserts "<1" or "<2" before every occurrence of tau followed by ">";
//   replace rewrites "<1 tau >" spans through the mapping and drops other ">";
//   l1      admits "<1" only after lambda and deletes it;
//   l2      admits "<2" only where lambda does not hold and deletes it.
// The rule is r∘f∘replace∘l1∘l2, so lambda is matched against the rewritten
// output. Simultaneous rules run l1 and l2 (keeping markers) before replace.

package rewrite

import (
	"fmt"

	"github.com/katalvlaran/wfst/cross"
	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/optimize"
	"github.com/katalvlaran/wfst/semiring"
)

// Compile builds the transducer of spec over the alphabet of sigmaStar. The
// result is total on sigma* and is optimized with opts.
//
// Errors:
//   - ErrType if sigmaStar or Tau is nil, sigmaStar or a context is not an
//     acceptor, Phi is set while Tau is not an acceptor, or the direction or
//     mode is unknown.
//   - fst.ErrSymbolMismatch, fst.ErrSemiringMismatch from incompatible members.
func Compile(spec Spec, sigmaStar *fst.Fst, opts ...optimize.Option) (*fst.Fst, error) {
	// 1) Validate shapes.
	if err := validate(spec, sigmaStar); err != nil {
		return nil, err
	}
	mapping := spec.Tau
	if spec.Phi != nil {
		m, err := cross.Cross(spec.Tau, spec.Phi)
		if err != nil {
			return nil, err
		}
		mapping = m
	}
	isyms := pickTable(mapping.InputSymbols(), sigmaStar.InputSymbols())
	osyms := pickTable(mapping.OutputSymbols(), sigmaStar.InputSymbols())
	k := mapping.Semiring()
	mapping = bare(mapping)
	lambda := bare(orEpsilon(spec.Lambda, k))
	rho := bare(orEpsilon(spec.Rho, k))

	// 2) Collect the working alphabet.
	sigma := fst.MergeLabels(
		sigmaStar.Labels(false),
		mapping.Labels(false), mapping.Labels(true),
		lambda.Labels(false), rho.Labels(false),
	)
	sigma, bounded := withoutBoundaries(sigma)
	work := sigma
	if bounded {
		work = fst.MergeLabels(sigma, []fst.Label{BOS, EOS})
	}

	// 3) Build the core rule, mirrored for right-to-left rules.
	r := &rule{k: k, sigma: sigma, work: work, optional: spec.Mode == Optional, simultaneous: spec.Direction == Simultaneous}
	var core *fst.Fst
	var err error
	if spec.Direction == RightToLeft {
		core, err = r.build(fst.Reverse(mapping), fst.Reverse(rho), fst.Reverse(lambda))
		if err == nil {
			core = fst.Reverse(core)
		}
	} else {
		core, err = r.build(mapping, lambda, rho)
	}
	if err != nil {
		return nil, err
	}

	// 4) Wrap with boundary insertion and deletion when contexts use them.
	if bounded {
		ins, berr := boundaryInserter(k, sigma)
		if berr != nil {
			return nil, berr
		}
		if core, err = composeAll(ins, core, fst.Invert(ins)); err != nil {
			return nil, err
		}
	}

	out := optimize.Optimize(core, opts...)
	out.SetSymbols(isyms, osyms)

	return out, nil
}

func validate(spec Spec, sigmaStar *fst.Fst) error {
	switch {
	case sigmaStar == nil:
		return fmt.Errorf("%w: sigma is nil", ErrType)
	case !sigmaStar.IsAcceptor():
		return fmt.Errorf("%w: sigma must be an acceptor", ErrType)
	case spec.Tau == nil:
		return fmt.Errorf("%w: tau is nil", ErrType)
	case spec.Phi != nil && (!spec.Tau.IsAcceptor() || !spec.Phi.IsAcceptor()):
		return fmt.Errorf("%w: tau and phi must be acceptors", ErrType)
	case spec.Lambda != nil && !spec.Lambda.IsAcceptor():
		return fmt.Errorf("%w: lambda must be an acceptor", ErrType)
	case spec.Rho != nil && !spec.Rho.IsAcceptor():
		return fmt.Errorf("%w: rho must be an acceptor", ErrType)
	case spec.Direction > Simultaneous:
		return fmt.Errorf("%w: direction %s", ErrType, spec.Direction)
	case spec.Mode > Optional:
		return fmt.Errorf("%w: mode %d", ErrType, spec.Mode)
	}

	sides := []side{{sigmaStar, false}, {spec.Tau, false}, {spec.Tau, true}}
	if spec.Phi != nil {
		sides = append(sides, side{spec.Phi, true})
	}
	for _, m := range []*fst.Fst{spec.Lambda, spec.Rho} {
		if m != nil {
			sides = append(sides, side{m, false})
		}
	}
	for i := range sides {
		for j := i + 1; j < len(sides); j++ {
			if !fst.SidesCompatible(sides[i].m, sides[i].output, sides[j].m, sides[j].output) {
				return fmt.Errorf("%w: rewrite rule members", fst.ErrSymbolMismatch)
			}
		}
	}

	return nil
}

// side names one tape of a rule member.
type side struct {
	m      *fst.Fst
	output bool
}

// bare returns a copy of m without symbol tables. Auxiliary machines are
// built on raw labels and the tables are restored on the result.
func bare(m *fst.Fst) *fst.Fst {
	if m.InputSymbols() == nil && m.OutputSymbols() == nil {
		return m
	}
	c := m.Copy()
	c.SetSymbols(nil, nil)

	return c
}

func orEpsilon(m *fst.Fst, k semiring.Kind) *fst.Fst {
	if m != nil {
		return m
	}

	return fst.EpsilonMachine(fst.WithSemiring(k))
}

func withoutBoundaries(labels []fst.Label) ([]fst.Label, bool) {
	out := labels[:0:0]
	found := false
	for _, l := range labels {
		if l == BOS || l == EOS {
			found = true
			continue
		}
		out = append(out, l)
	}

	return out, found
}

func pickTable(a, b *fst.SymbolTable) *fst.SymbolTable {
	if a != nil {
		return a
	}

	return b
}

func composeAll(ms ...*fst.Fst) (*fst.Fst, error) {
	acc := ms[0]
	for _, m := range ms[1:] {
		c, err := fst.Compose(acc, m)
		if err != nil {
			return nil, err
		}
		acc = c
	}

	return acc, nil
}

// rule holds the parameters shared by the auxiliary machines of one Compile.
type rule struct {
	k            semiring.Kind
	sigma        []fst.Label // alphabet of rule sites
	work         []fst.Label // sigma plus boundary labels when present
	optional     bool
	simultaneous bool
}

// build assembles the left-to-right (or simultaneous) rule.
func (r *rule) build(mapping, lambda, rho *fst.Fst) (*fst.Fst, error) {
	rm, err := r.rightMarker(rho)
	if err != nil {
		return nil, err
	}
	fm, err := r.siteMarker(mapping)
	if err != nil {
		return nil, err
	}
	rep, err := r.replacer(mapping)
	if err != nil {
		return nil, err
	}
	l1, l2, err := r.leftFilters(lambda)
	if err != nil {
		return nil, err
	}
	if r.simultaneous {
		return composeAll(rm, fm, l1, l2, rep)
	}

	return composeAll(rm, fm, rep, l1, l2)
}

// rightMarker builds r: ">" before every occurrence of rho.
func (r *rule) rightMarker(rho *fst.Fst) (*fst.Fst, error) {
	d, err := contextDFA(r.k, r.work, fst.Reverse(rho))
	if err != nil {
		return nil, err
	}
	t, err := insertMarkers(d, markRight)
	if err != nil {
		return nil, err
	}

	return fst.Reverse(t), nil
}

// siteMarker builds f: "<1" or "<2" before every occurrence of dom(mapping)
// that is followed by ">". Markers inside a site are ignored, but a site
// neither starts nor ends with ">".
func (r *rule) siteMarker(mapping *fst.Fst) (*fst.Fst, error) {
	dom := fst.Project(mapping, false)
	dom.SetSymbols(nil, nil)
	shape, err := siteShape(r.k, r.sigma)
	if err != nil {
		return nil, err
	}
	site, err := fst.Intersect(fst.AddLoops(dom, markRight, markRight), shape)
	if err != nil {
		return nil, err
	}
	mark := fst.Linear([]fst.Label{markRight}, []fst.Label{markRight}, r.k.One(), fst.WithSemiring(r.k))
	lang, err := fst.Concat(mark, fst.Reverse(site))
	if err != nil {
		return nil, err
	}
	d, err := contextDFA(r.k, fst.MergeLabels(r.work, []fst.Label{markRight}), lang)
	if err != nil {
		return nil, err
	}
	t, err := insertMarkers(d, markLeft1, markLeft2)
	if err != nil {
		return nil, err
	}

	return fst.Reverse(t), nil
}

// replacer builds the span rewriter. Outside spans it copies sigma, passes or
// drops "<2" and drops ">". A span "<1 ... >" is read through the mapping with
// inner markers deleted.
func (r *rule) replacer(mapping *fst.Fst) (*fst.Fst, error) {
	keep := func(m fst.Label) fst.Label {
		if r.simultaneous {
			return fst.Epsilon
		}

		return m
	}
	b := newBuilder(r.k)
	hub := b.state()
	b.final(hub, b.one)
	for _, l := range r.work {
		b.loop(hub, l, l)
	}
	b.loop(hub, markLeft2, keep(markLeft2))
	b.loop(hub, markRight, fst.Epsilon)
	if r.optional {
		b.loop(hub, markLeft1, keep(markLeft1))
	}
	if mapping.Empty() {
		return b.result()
	}

	off := fst.StateID(b.f.NumStates())
	for i := 0; i < mapping.NumStates(); i++ {
		b.state()
	}
	for i := 0; i < mapping.NumStates(); i++ {
		q := fst.StateID(i)
		for _, a := range mapping.Arcs(q) {
			b.arc(q+off, a.ILabel, a.OLabel, a.Weight, a.Next+off)
		}
		for _, m := range []fst.Label{markLeft1, markLeft2, markRight} {
			b.loop(q+off, m, fst.Epsilon)
		}
		if mapping.IsFinal(q) {
			b.arc(q+off, markRight, fst.Epsilon, mapping.Final(q), hub)
		}
	}
	b.arc(hub, markLeft1, keep(markLeft1), b.one, mapping.Start()+off)

	return b.result()
}

// leftFilters builds l1 and l2. Directional rules check the rewritten output
// and delete the markers; simultaneous rules check the input and keep them.
func (r *rule) leftFilters(lambda *fst.Fst) (*fst.Fst, *fst.Fst, error) {
	d, err := contextDFA(r.k, r.work, lambda)
	if err != nil {
		return nil, nil, err
	}
	if r.simultaneous {
		l1, err := checkMarker(d, markLeft1, markLeft1, true, markLeft2, markRight)
		if err != nil {
			return nil, nil, err
		}
		l2, err := checkMarker(d, markLeft2, markLeft2, false, markLeft1, markRight)
		if err != nil {
			return nil, nil, err
		}

		return l1, l2, nil
	}
	l1, err := checkMarker(d, markLeft1, fst.Epsilon, true, markLeft2)
	if err != nil {
		return nil, nil, err
	}
	l2, err := checkMarker(d, markLeft2, fst.Epsilon, false)
	if err != nil {
		return nil, nil, err
	}

	return l1, l2, nil
}
