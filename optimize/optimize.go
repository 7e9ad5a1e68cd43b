// SPDX-License-Identifier: MIT
// File: optimize.go
// Role: Optimize (pure) and InPlace (destructive).

package optimize

import "github.com/katalvlaran/wfst/fst"

// Optimize returns an equivalent, canonicalized copy of t.
// The weighted relation is preserved; the argument is not modified.
func Optimize(t *fst.Fst, opts ...Option) *fst.Fst {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	cur := fst.Connect(t)
	if cur.Empty() {
		return cur
	}
	if r, err := fst.RmEpsilon(cur); err == nil {
		cur = r
	}
	if cur.Semiring().Idempotent() {
		cur = determinizeMinimize(cur, cfg)
	} else {
		cur = fst.ArcSum(cur)
		if m, err := fst.Minimize(cur, fst.WithPush(false), fst.WithMinimizeDelta(cfg.Delta)); err == nil {
			cur = m
		}
	}

	return fst.ArcSort(cur, fst.ByInput)
}

// InPlace replaces t with Optimize(t). The caller must hold exclusive access
// to t for the duration of the call.
func InPlace(t *fst.Fst, opts ...Option) {
	t.ReplaceWith(Optimize(t, opts...))
}

// determinizeMinimize runs determinization and minimization, falling back to
// the last successful form on error.
func determinizeMinimize(cur *fst.Fst, cfg Options) *fst.Fst {
	dopts := []fst.DeterminizeOption{fst.WithMaxStates(cfg.MaxStates), fst.WithDelta(cfg.Delta)}
	mopts := []fst.MinimizeOption{fst.WithPush(true), fst.WithMinimizeDelta(cfg.Delta)}

	if cur.IsAcceptor() {
		d, err := fst.Determinize(cur, dopts...)
		if err != nil {
			return cur
		}
		m, err := fst.Minimize(d, mopts...)
		if err != nil {
			return d
		}

		return m
	}

	enc := fst.NewEncoder()
	isyms, osyms := cur.InputSymbols(), cur.OutputSymbols()
	d, err := fst.Determinize(enc.Encode(cur), dopts...)
	if err != nil {
		return cur
	}
	if m, merr := fst.Minimize(d, mopts...); merr == nil {
		d = m
	}
	out, err := enc.Decode(d, isyms, osyms)
	if err != nil {
		return cur
	}

	return out
}
