// SPDX-License-Identifier: MIT
// Package: wfst/paths
//
// Package paths extracts strings from compiled transducers.
//
//	ShortestPath(t, n)  – the n best paths, best first (A* over partial paths).
//	NewIterator(t)      – lazy enumeration of every path.
//	StringAt(t, codec)  – the output string of a single-string machine.
//	Apply(in, rule, …)  – the n best output strings of a rule applied to in.
//
// Complexity (ShortestPath):
//
//	– Time:  O(n·(V + E) log(n·E)); every state is expanded at most n times.
//	– Space: O(n·E) partial paths in the priority queue.
//
// Options:
//
//	– WithUnique():        keep only the best path per (input, output) pair.
//	– WithCodecs(in, out): decode label sequences into Path.Input/Path.Output.
//
// Errors (sentinel):
//
//	– ErrNoPathOrder  the semiring has no path order usable for best-first search.
//	– ErrNotString    StringAt received a machine that is not a single string.
package paths

import (
	"errors"

	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/token"
)

// Sentinel errors.
var (
	// ErrNoPathOrder indicates a semiring without a usable path order.
	ErrNoPathOrder = errors.New("paths: semiring has no path order")

	// ErrNotString indicates that a machine does not denote exactly one string.
	ErrNotString = errors.New("paths: machine is not a single string")
)

// Path is one successful path. Epsilon labels are omitted from ILabels and
// OLabels; Weight is the Times of the arc weights and the final weight.
type Path struct {
	ILabels []fst.Label
	OLabels []fst.Label
	Weight  float64

	// Input and Output are set when codecs were supplied.
	Input  string
	Output string
}

// Options configures extraction.
type Options struct {
	Unique   bool
	InCodec  *token.Codec
	OutCodec *token.Codec
}

// Option mutates Options.
type Option func(*Options)

// WithUnique keeps only the best path of each (input, output) pair.
func WithUnique() Option {
	return func(o *Options) { o.Unique = true }
}

// WithCodecs decodes input labels with in and output labels with out.
// Either may be nil.
func WithCodecs(in, out *token.Codec) Option {
	return func(o *Options) {
		o.InCodec = in
		o.OutCodec = out
	}
}

// decode fills Input/Output from the label sequences.
func (o Options) decode(p *Path) error {
	if o.InCodec != nil {
		s, err := o.InCodec.Decode(p.ILabels)
		if err != nil {
			return err
		}
		p.Input = s
	}
	if o.OutCodec != nil {
		s, err := o.OutCodec.Decode(p.OLabels)
		if err != nil {
			return err
		}
		p.Output = s
	}

	return nil
}
