// SPDX-License-Identifier: MIT
// File: compile.go
// Role: single strings and string pairs.

package compile

import (
	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/token"
)

// String compiles s into a single-path acceptor.
func String(s string, codec *token.Codec, opts ...Option) (*fst.Fst, error) {
	labels, err := codec.Encode(s)
	if err != nil {
		return nil, err
	}

	return Labels(labels, labels, append(opts, WithSymbolTable(codec.SymbolTable()))...)
}

// Pair compiles the single pair in:out. The shorter side is padded with
// epsilon at the end.
func Pair(in, out string, codec *token.Codec, opts ...Option) (*fst.Fst, error) {
	il, err := codec.Encode(in)
	if err != nil {
		return nil, err
	}
	ol, err := codec.Encode(out)
	if err != nil {
		return nil, err
	}

	return Labels(il, ol, append(opts, WithSymbolTable(codec.SymbolTable()))...)
}

// Labels compiles the single path in:out over raw labels.
func Labels(in, out []fst.Label, opts ...Option) (*fst.Fst, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	return fst.Connect(fst.Linear(in, out, cfg.Weight, cfg.fstOptions()...)), nil
}
