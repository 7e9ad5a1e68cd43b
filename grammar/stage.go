// SPDX-License-Identifier: MIT
// File: stage.go
// Role: cascade stages, including rules that follow the session alphabet.

package grammar

import (
	"sync"

	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/rewrite"
)

// Stage is one step of a cascade.
type Stage interface {
	// Machine returns the transducer to apply now.
	Machine() (*fst.Fst, error)
}

type fixed struct{ m *fst.Fst }

func (f fixed) Machine() (*fst.Fst, error) { return f.m, nil }

// Fixed wraps a machine that is applied as is, such as a Map.
func Fixed(m *fst.Fst) Stage { return fixed{m: m} }

// Rule is a rewrite rule bound to its Grammar. The rule is compiled over the
// session alphabet and recompiled when that alphabet has grown, so symbols
// first seen in an input line are copied through instead of blocking the rule.
type Rule struct {
	g    *Grammar
	spec rewrite.Spec

	mu   sync.Mutex
	m    *fst.Fst
	size int // alphabet size m was compiled for
}

// Spec returns the rule description.
func (r *Rule) Spec() rewrite.Spec { return r.spec }

// Machine returns the rule transducer over the current session alphabet.
//
// Errors: those of rewrite.Compile.
func (r *Rule) Machine() (*fst.Fst, error) {
	labels := r.g.alphabet()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.m != nil && r.size == len(labels) {
		return r.m, nil
	}
	m, err := rewrite.Compile(r.spec, r.g.sigmaOver(labels), r.g.optimizeOptions()...)
	if err != nil {
		return nil, err
	}
	r.m, r.size = m, len(labels)

	return m, nil
}
