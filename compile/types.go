// SPDX-License-Identifier: MIT
// Package: wfst/compile
//
// Package compile turns strings and string-pair tables into transducers.
//
//	String(s, codec)          – acceptor of exactly s.
//	Pair(in, out, codec)      – transducer of exactly in:out, aligned position
//	                            by position and padded with epsilon.
//	Map(entries, codec)       – union of many pairs, built as a prefix tree.
//	Table(rows, codec)        – Map over rows of 1–3 string columns.
//	ReadTable(r)              – reads tab-separated rows ('#' comments).
//
// Labels and LabelMap are the same constructions over label sequences.
//
// Every result is trimmed and carries the codec's symbol table on both sides.
// Duplicate (input, output) entries of a map share a single path whose final
// weight is the semiring sum of the entry weights.
//
// Errors:
//
//	ErrBadTable      – malformed table row (column count or weight).
//	fst.ErrBadWeight – a weight outside the chosen semiring.
//	token errors     – propagated from Codec.Encode.
package compile

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/semiring"
)

// ErrBadTable indicates a malformed string table.
var ErrBadTable = errors.New("compile: malformed table")

// Entry is one string pair of a map. An unset (zero) Weight means the
// semiring One in every semiring, so a Probability entry cannot carry 0.
type Entry struct {
	Input  string
	Output string
	Weight float64
}

// LabelEntry is an Entry over label sequences. Its Weight follows the same
// rule as Entry.Weight.
type LabelEntry struct {
	Input  []fst.Label
	Output []fst.Label
	Weight float64
}

// Options configures the constructors of this package.
type Options struct {
	Semiring semiring.Kind
	Weight   float64 // path weight for String, Pair and Labels
	Symbols  *fst.SymbolTable

	weighted bool
}

// Option mutates Options.
type Option func(*Options)

// WithSemiring selects the semiring of the result (Tropical by default).
func WithSemiring(k semiring.Kind) Option {
	return func(o *Options) { o.Semiring = k }
}

// WithWeight sets the path weight of String, Pair and Labels (semiring One
// by default).
func WithWeight(w float64) Option {
	return func(o *Options) {
		o.Weight = w
		o.weighted = true
	}
}

// WithSymbolTable attaches t to both sides of label-level results.
// String, Pair, Map and Table use the codec's table instead.
func WithSymbolTable(t *fst.SymbolTable) Option {
	return func(o *Options) { o.Symbols = t }
}

func buildOptions(opts []Option) (Options, error) {
	var cfg Options
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.weighted {
		cfg.Weight = cfg.Semiring.One()
	}
	if !cfg.Semiring.Member(cfg.Weight) {
		return cfg, fmt.Errorf("%w: %g in %s", fst.ErrBadWeight, cfg.Weight, cfg.Semiring)
	}

	return cfg, nil
}

// entryWeight maps an unset entry weight to One.
func entryWeight(k semiring.Kind, w float64) float64 {
	if w == 0 {
		return k.One()
	}

	return w
}

func (o Options) fstOptions() []fst.Option {
	return []fst.Option{fst.WithSemiring(o.Semiring), fst.WithSymbols(o.Symbols, o.Symbols)}
}
