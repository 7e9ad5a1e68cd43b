// SPDX-License-Identifier: MIT
// Package: wfst/lenient
//
// Package lenient composes transducers with fallback: where a later stage has
// no output for some string, the earlier stage's output is kept instead of
// losing the string altogether.
//
//	PriorityUnion(q, r, Σ*)  = q ∪ (¬dom(q) ∘ r)
//	Compose(t1, t2, Σ*)      = PriorityUnion(t1∘t2, t1, Σ*)
//	Cascade(in, rules, Σ*)   = left fold of Compose over rules
//
// Complements are taken over the labels of Σ* plus the input labels of q.
// Every input accepted by t1 is accepted by Compose(t1, t2, Σ*).
package lenient

import (
	"fmt"

	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/optimize"
)

// PriorityUnion returns q for inputs in the domain of q and r elsewhere.
// sigmaStar supplies the alphabet and may be nil.
//
// Errors:
//   - fst.ErrNotAcceptor if sigmaStar is a transducer.
//   - fst.ErrSymbolMismatch, fst.ErrSemiringMismatch from incompatible operands.
func PriorityUnion(q, r, sigmaStar *fst.Fst) (*fst.Fst, error) {
	var alphabet []fst.Label
	if sigmaStar != nil {
		if !sigmaStar.IsAcceptor() {
			return nil, fmt.Errorf("%w: lenient sigma", fst.ErrNotAcceptor)
		}
		alphabet = sigmaStar.Labels(false)
	}
	alphabet = fst.MergeLabels(alphabet, q.Labels(false), r.Labels(false))

	rest, err := fst.Compose(fst.Complement(fst.Project(q, false), alphabet), r)
	if err != nil {
		return nil, err
	}

	return fst.Union(q, rest)
}

// Compose returns t1∘t2 where defined and t1 elsewhere.
func Compose(t1, t2, sigmaStar *fst.Fst) (*fst.Fst, error) {
	c, err := fst.Compose(t1, t2)
	if err != nil {
		return nil, err
	}

	return PriorityUnion(c, t1, sigmaStar)
}

// Cascade leniently composes input with each rule in turn, optimizing after
// every step.
func Cascade(input *fst.Fst, rules []*fst.Fst, sigmaStar *fst.Fst, opts ...optimize.Option) (*fst.Fst, error) {
	acc := input
	for i, rule := range rules {
		next, err := Compose(acc, rule, sigmaStar)
		if err != nil {
			return nil, fmt.Errorf("lenient: rule %d: %w", i, err)
		}
		acc = optimize.Optimize(next, opts...)
	}

	return acc, nil
}
