// SPDX-License-Identifier: MIT
// File: map.go
// Role: string maps as prefix trees over aligned label pairs, tables and
//       tab-separated table files.

package compile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/internal/mathx"
	"github.com/katalvlaran/wfst/token"
)

// Map compiles the union of entries. Entries with the same input and output
// share one path; their weights are combined with the semiring Plus.
// An empty entry list yields the empty machine.
func Map(entries []Entry, codec *token.Codec, opts ...Option) (*fst.Fst, error) {
	les := make([]LabelEntry, 0, len(entries))
	for _, e := range entries {
		il, err := codec.Encode(e.Input)
		if err != nil {
			return nil, err
		}
		ol, err := codec.Encode(e.Output)
		if err != nil {
			return nil, err
		}
		les = append(les, LabelEntry{Input: il, Output: ol, Weight: e.Weight})
	}

	return LabelMap(les, append(opts, WithSymbolTable(codec.SymbolTable()))...)
}

// trieKey addresses a child of a prefix-tree state.
type trieKey struct {
	from fst.StateID
	i, o fst.Label
}

// LabelMap compiles the union of label entries as a prefix tree.
// Complexity: O(total entry length).
func LabelMap(entries []LabelEntry, opts ...Option) (*fst.Fst, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	k := cfg.Semiring
	out := fst.New(cfg.fstOptions()...)
	if len(entries) == 0 {
		return out, nil
	}

	root := out.AddState()
	children := make(map[trieKey]fst.StateID)
	for n, e := range entries {
		w := entryWeight(k, e.Weight)
		if !k.Member(w) {
			return nil, fmt.Errorf("%w: entry %d weight %g", fst.ErrBadWeight, n, e.Weight)
		}
		cur := root
		width := mathx.Max(len(e.Input), len(e.Output))
		for j := 0; j < width; j++ {
			var il, ol fst.Label
			if j < len(e.Input) {
				il = e.Input[j]
			}
			if j < len(e.Output) {
				ol = e.Output[j]
			}
			key := trieKey{from: cur, i: il, o: ol}
			next, ok := children[key]
			if !ok {
				next = out.AddState()
				children[key] = next
				if err = out.AddArc(cur, fst.Arc{ILabel: il, OLabel: ol, Weight: k.One(), Next: next}); err != nil {
					return nil, err
				}
			}
			cur = next
		}
		if out.IsFinal(cur) {
			w = k.Plus(out.Final(cur), w)
		}
		if err = out.SetFinal(cur, w); err != nil {
			return nil, err
		}
	}

	return fst.Connect(out), nil
}

// Table compiles rows of one to three columns: input, output (defaults to the
// input) and weight (defaults to One). A row whose weight is the semiring Zero
// is dropped.
//
// Errors:
//   - ErrBadTable for rows with no or too many columns, or unparsable weights.
func Table(rows [][]string, codec *token.Codec, opts ...Option) (*fst.Fst, error) {
	cfg, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for n, row := range rows {
		e := Entry{Weight: cfg.Semiring.One()}
		switch len(row) {
		case 3:
			w, perr := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
			if perr != nil {
				return nil, fmt.Errorf("%w: row %d: weight %q", ErrBadTable, n+1, row[2])
			}
			if cfg.Semiring.IsZero(w) {
				continue
			}
			e.Weight = w
			fallthrough
		case 2:
			e.Input, e.Output = row[0], row[1]
		case 1:
			e.Input, e.Output = row[0], row[0]
		default:
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrBadTable, n+1, len(row))
		}
		entries = append(entries, e)
	}

	return Map(entries, codec, opts...)
}

// ReadTable reads tab-separated rows from r. Blank lines and lines whose first
// non-blank character is '#' are skipped; a trailing '\r' is dropped.
func ReadTable(r io.Reader) ([][]string, error) {
	var rows [][]string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("compile: ReadTable: %w", err)
	}

	return rows, nil
}
