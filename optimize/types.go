// SPDX-License-Identifier: MIT
// Package: wfst/optimize
//
// Package optimize brings a transducer into a compact canonical form.
//
// Steps, each applied to the output of the previous one:
//
//  1. Connect (drop inaccessible and non-coaccessible states).
//  2. Epsilon removal.
//  3. Idempotent semirings: determinize (transducers through label-pair
//     encoding) under a state cap, then push weights and minimize.
//     Other semirings: merge parallel arcs and minimize by bisimulation
//     without determinization.
//  4. Sort arcs by input label.
//
// A failing step (state cap exceeded, non-convergent distances) is skipped
// and the last good form is kept, so Optimize never returns an error.
package optimize

import "github.com/katalvlaran/wfst/semiring"

// DefaultMaxStates bounds determinization unless overridden.
const DefaultMaxStates = 1 << 18

// Options configures Optimize.
type Options struct {
	// MaxStates caps determinization; 0 disables the cap.
	MaxStates int

	// Delta is the weight quantization step for determinization and minimization.
	Delta float64
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns DefaultMaxStates and semiring.Delta.
func DefaultOptions() Options {
	return Options{MaxStates: DefaultMaxStates, Delta: semiring.Delta}
}

// WithMaxStates sets the determinization cap. Panics on n < 0.
func WithMaxStates(n int) Option {
	if n < 0 {
		panic("optimize: WithMaxStates must be non-negative")
	}

	return func(o *Options) { o.MaxStates = n }
}

// WithDelta sets the quantization step. Panics on d <= 0.
func WithDelta(d float64) Option {
	if d <= 0 {
		panic("optimize: WithDelta must be positive")
	}

	return func(o *Options) { o.Delta = d }
}
