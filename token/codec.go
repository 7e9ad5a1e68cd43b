// SPDX-License-Identifier: MIT
// File: codec.go
// Role: Encode/Decode between text and label sequences.
// Concurrency:
//   - A Codec is immutable after NewCodec. Mutable symbol-table inserts are
//     serialized by the table's own lock, so one Codec may be shared.

package token

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/katalvlaran/wfst/fst"
)

const maxByte fst.Label = 0xFF

// Codec converts strings to labels and back under one alphabet.
type Codec struct {
	alphabet Alphabet
	opts     Options
}

// NewCodec builds a Codec for alphabet a.
//
// Errors:
//   - ErrNoSymbolTable if a == Symbol and no table was given.
//   - ErrUnknownAlphabet for values outside the enum.
func NewCodec(a Alphabet, opts ...Option) (*Codec, error) {
	var cfg Options
	for _, opt := range opts {
		opt(&cfg)
	}
	switch a {
	case Byte, Codepoint:
	case Symbol:
		if cfg.Table == nil {
			return nil, ErrNoSymbolTable
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlphabet, a)
	}

	return &Codec{alphabet: a, opts: cfg}, nil
}

// Alphabet returns the codec's alphabet.
func (c *Codec) Alphabet() Alphabet { return c.alphabet }

// SymbolTable returns the table that machines built with this codec carry:
// the Symbol alphabet's table, nil otherwise.
func (c *Codec) SymbolTable() *fst.SymbolTable {
	if c.alphabet == Symbol {
		return c.opts.Table
	}

	return nil
}

// Labels returns every label a text alphabet can produce (1..255 for Byte,
// the registered labels for Symbol). For Codepoint it returns the printable
// ASCII range plus the labels in extra; callers needing more supply them.
func (c *Codec) Labels(extra ...fst.Label) []fst.Label {
	var base []fst.Label
	switch c.alphabet {
	case Byte:
		for l := fst.Label(1); l <= maxByte; l++ {
			base = append(base, l)
		}
	case Codepoint:
		for l := fst.Label(0x20); l < 0x7F; l++ {
			base = append(base, l)
		}
	case Symbol:
		base = c.opts.Table.Labels()
	}

	return fst.MergeLabels(base, extra)
}

// Encode converts s into labels.
//
// Errors:
//   - ErrEncoding for NUL characters, invalid UTF-8 (Codepoint) or bad brackets.
//   - ErrUnknownToken for unregistered tokens of an immutable Symbol codec.
func (c *Codec) Encode(s string) ([]fst.Label, error) {
	if c.opts.Normalize != nil && c.alphabet != Symbol {
		s = c.opts.Normalize.String(s)
	}
	switch c.alphabet {
	case Symbol:
		return c.encodeSymbols(s)
	case Codepoint:
		if !utf8.ValidString(s) {
			return nil, fmt.Errorf("%w: invalid UTF-8 in %q", ErrEncoding, s)
		}
	}

	out := make([]fst.Label, 0, len(s))
	for i := 0; i < len(s); {
		ch, size := c.next(s, i)
		switch {
		case c.opts.Generated != nil && ch == '\\':
			if i+size >= len(s) {
				return nil, fmt.Errorf("%w: dangling escape at %d", ErrEncoding, i)
			}
			i += size
			ch, size = c.next(s, i)
		case c.opts.Generated != nil && ch == '[':
			end := strings.IndexByte(s[i+1:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated '[' at %d", ErrEncoding, i)
			}
			l, err := c.bracket(s[i+1 : i+1+end])
			if err != nil {
				return nil, err
			}
			out = append(out, l)
			i += end + 2
			continue
		case c.opts.Generated != nil && ch == ']':
			return nil, fmt.Errorf("%w: unbalanced ']' at %d", ErrEncoding, i)
		}
		if ch == 0 {
			return nil, fmt.Errorf("%w: NUL at %d", ErrEncoding, i)
		}
		out = append(out, fst.Label(ch))
		i += size
	}

	return out, nil
}

// next returns the unit starting at byte offset i: a byte for Byte, a rune
// for Codepoint.
func (c *Codec) next(s string, i int) (rune, int) {
	if c.alphabet == Byte {
		return rune(s[i]), 1
	}

	return utf8.DecodeRuneInString(s[i:])
}

// bracket resolves the body of a "[...]" group.
func (c *Codec) bracket(body string) (fst.Label, error) {
	if body == "" {
		return 0, fmt.Errorf("%w: empty brackets", ErrEncoding)
	}
	if n, err := strconv.ParseInt(body, 10, 32); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("%w: label [%d] must be positive", ErrEncoding, n)
		}

		return fst.Label(n), nil
	}
	if strings.ContainsAny(body, "[\\") {
		return 0, fmt.Errorf("%w: nested bracket in %q", ErrEncoding, body)
	}

	return c.opts.Generated.Add(body), nil
}

func (c *Codec) encodeSymbols(s string) ([]fst.Label, error) {
	t := c.opts.Table
	fields := strings.Fields(s)
	out := make([]fst.Label, 0, len(fields))
	for _, tok := range fields {
		l, ok := t.Find(tok)
		if !ok {
			if !c.opts.Mutable {
				return nil, fmt.Errorf("%w: %q", ErrUnknownToken, tok)
			}
			l = t.Add(tok)
		}
		if l == fst.Epsilon {
			continue
		}
		out = append(out, l)
	}

	return out, nil
}

// Decode converts labels back into text, skipping epsilon labels.
//
// Errors:
//   - ErrUnknownToken for labels missing from the symbol table (Symbol).
//   - ErrEncoding for labels outside the alphabet when brackets are disabled.
func (c *Codec) Decode(labels []fst.Label) (string, error) {
	if c.alphabet == Symbol {
		return c.decodeSymbols(labels)
	}
	var b strings.Builder
	for _, l := range labels {
		if l == fst.Epsilon {
			continue
		}
		if c.inRange(l) {
			if c.opts.Generated != nil && (l == '[' || l == ']' || l == '\\') {
				b.WriteByte('\\')
			}
			if c.alphabet == Byte {
				b.WriteByte(byte(l))
			} else {
				b.WriteRune(rune(l))
			}
			continue
		}
		if c.opts.Generated == nil {
			return "", fmt.Errorf("%w: label %d outside the %s alphabet", ErrEncoding, l, c.alphabet)
		}
		b.WriteByte('[')
		if sym, ok := c.opts.Generated.Symbol(l); ok {
			b.WriteString(sym)
		} else {
			b.WriteString(strconv.Itoa(int(l)))
		}
		b.WriteByte(']')
	}

	return b.String(), nil
}

func (c *Codec) inRange(l fst.Label) bool {
	if l <= 0 {
		return false
	}
	if c.alphabet == Byte {
		return l <= maxByte
	}
	r := rune(l)

	return utf8.ValidRune(r) && r < rune(GeneratedBase)
}

func (c *Codec) decodeSymbols(labels []fst.Label) (string, error) {
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		if l == fst.Epsilon {
			continue
		}
		sym, ok := c.opts.Table.Symbol(l)
		if !ok {
			return "", fmt.Errorf("%w: label %d", ErrUnknownToken, l)
		}
		parts = append(parts, sym)
	}

	return strings.Join(parts, " "), nil
}
