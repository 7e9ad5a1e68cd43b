// SPDX-License-Identifier: MIT
// Package: wfst/token
//
// Package token converts between strings and label sequences.
//
// Three alphabets are supported:
//
//	Byte       – one label per byte (1..255).
//	Codepoint  – one label per Unicode scalar value; the text must be valid UTF-8.
//	Symbol     – whitespace-separated tokens looked up in a fst.SymbolTable.
//
// Label 0 is epsilon in every alphabet: it can never be produced by Encode and
// is skipped silently by Decode.
//
// Options:
//
//	WithSymbolTable(t)         – table for the Symbol alphabet (required there).
//	WithMutable()              – Encode registers unknown tokens instead of failing.
//	WithNormalization(form)    – normalize text (x/text/unicode/norm) before encoding.
//	WithBracketedSymbols(gen)  – "[123]" and "[name]" denote single labels in the
//	                             Byte and Codepoint alphabets.
//
// Errors:
//
//	ErrEncoding       – text that cannot be represented in the alphabet.
//	ErrUnknownToken   – a token or label with no symbol-table entry.
//	ErrNoSymbolTable  – the Symbol alphabet was requested without a table.
//	ErrUnknownAlphabet– ParseAlphabet received an unknown name.
package token

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/katalvlaran/wfst/fst"
)

// Sentinel errors for encoding and decoding.
var (
	// ErrEncoding indicates malformed text for the chosen alphabet.
	ErrEncoding = errors.New("token: encoding error")

	// ErrUnknownToken indicates a symbol-table miss.
	ErrUnknownToken = errors.New("token: unknown token")

	// ErrNoSymbolTable indicates that the Symbol alphabet has no table.
	ErrNoSymbolTable = errors.New("token: symbol alphabet requires a symbol table")

	// ErrUnknownAlphabet indicates that ParseAlphabet did not recognize a name.
	ErrUnknownAlphabet = errors.New("token: unknown alphabet")
)

// GeneratedBase is the first label handed out to bracketed generated symbols
// (start of Unicode supplementary private use area A).
const GeneratedBase fst.Label = 0xF0000

// Alphabet selects how text maps to labels.
type Alphabet uint8

const (
	// Byte maps every byte to one label.
	Byte Alphabet = iota

	// Codepoint maps every Unicode scalar value to one label.
	Codepoint

	// Symbol maps whitespace-separated tokens through a symbol table.
	Symbol
)

// String returns the canonical name of the alphabet.
func (a Alphabet) String() string {
	switch a {
	case Byte:
		return "byte"
	case Codepoint:
		return "utf8"
	case Symbol:
		return "symbol"
	default:
		return fmt.Sprintf("alphabet(%d)", uint8(a))
	}
}

// ParseAlphabet maps "byte", "utf8"/"codepoint" or "symbol" to an Alphabet.
func ParseAlphabet(name string) (Alphabet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "byte":
		return Byte, nil
	case "utf8", "codepoint":
		return Codepoint, nil
	case "symbol", "symbols":
		return Symbol, nil
	default:
		return Byte, fmt.Errorf("%w: %q", ErrUnknownAlphabet, name)
	}
}

// Options configures a Codec.
type Options struct {
	Table     *fst.SymbolTable // Symbol alphabet table
	Mutable   bool             // register unknown tokens on Encode
	Normalize *norm.Form       // optional text normalization
	Generated *fst.SymbolTable // bracketed generated symbols; nil disables brackets
}

// Option mutates Options.
type Option func(*Options)

// WithSymbolTable sets the table of the Symbol alphabet. Panics on nil.
func WithSymbolTable(t *fst.SymbolTable) Option {
	if t == nil {
		panic("token: WithSymbolTable(nil)")
	}

	return func(o *Options) { o.Table = t }
}

// WithMutable lets Encode add unknown tokens to the symbol table.
func WithMutable() Option {
	return func(o *Options) { o.Mutable = true }
}

// WithNormalization normalizes text with form before encoding.
func WithNormalization(form norm.Form) Option {
	return func(o *Options) { o.Normalize = &form }
}

// WithBracketedSymbols enables "[...]" label syntax; generated symbols are
// registered in gen. Panics on nil.
func WithBracketedSymbols(gen *fst.SymbolTable) Option {
	if gen == nil {
		panic("token: WithBracketedSymbols(nil)")
	}

	return func(o *Options) { o.Generated = gen }
}

// NewGeneratedTable returns a table suitable for WithBracketedSymbols: its
// labels start at GeneratedBase so they never collide with text labels.
func NewGeneratedTable() *fst.SymbolTable {
	return fst.NewSymbolTable("generated", fst.FirstLabel(GeneratedBase))
}
