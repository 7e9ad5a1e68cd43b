// SPDX-License-Identifier: MIT
// Package: wfst/grammar
//
// Package grammar bundles the construction steps of a rewrite grammar into one
// session: a shared token codec (and symbol table), cached string acceptors,
// rule compilation and cascaded application.
//
// A Grammar is safe for concurrent use. The machines it returns are shared
// and must be treated as read-only.
//
// Example:
//
//	g, _ := grammar.New()
//	c, _ := g.String("c")
//	k, _ := g.String("k")
//	rule, _ := g.Rule(rewrite.Spec{Tau: c, Phi: k, Lambda: rewrite.BeginningOfString()})
//	out, _ := g.Rewrite("cat", 1, rule) // ["kat"]
package grammar

import (
	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/optimize"
	"github.com/katalvlaran/wfst/semiring"
	"github.com/katalvlaran/wfst/token"
)

// DefaultCacheSize is the number of compiled strings a session keeps.
const DefaultCacheSize = 512

// Config holds the session parameters.
type Config struct {
	Alphabet  token.Alphabet
	Semiring  semiring.Kind
	CacheSize int
	MaxStates int

	// Symbols is the table of a Symbol session. When nil a fresh mutable
	// table is created and grows as strings are compiled.
	Symbols *fst.SymbolTable
}

// Option mutates Config.
type Option func(*Config)

// DefaultConfig returns a byte-level tropical session.
func DefaultConfig() Config {
	return Config{
		Alphabet:  token.Byte,
		Semiring:  semiring.Tropical,
		CacheSize: DefaultCacheSize,
		MaxStates: optimize.DefaultMaxStates,
	}
}

// WithAlphabet selects the token alphabet.
func WithAlphabet(a token.Alphabet) Option {
	return func(c *Config) { c.Alphabet = a }
}

// WithSemiring selects the semiring of every machine the session builds.
func WithSemiring(k semiring.Kind) Option {
	return func(c *Config) { c.Semiring = k }
}

// WithCacheSize sets the string cache capacity. Panics on n <= 0.
func WithCacheSize(n int) Option {
	if n <= 0 {
		panic("grammar: WithCacheSize must be positive")
	}

	return func(c *Config) { c.CacheSize = n }
}

// WithMaxStates bounds determinization during optimization. Panics on n < 0.
func WithMaxStates(n int) Option {
	if n < 0 {
		panic("grammar: WithMaxStates must be non-negative")
	}

	return func(c *Config) { c.MaxStates = n }
}

// WithSymbolTable fixes the table of a Symbol session; it is used read-only.
func WithSymbolTable(t *fst.SymbolTable) Option {
	return func(c *Config) { c.Symbols = t }
}
