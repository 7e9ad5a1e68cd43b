// SPDX-License-Identifier: MIT
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/katalvlaran/wfst/compile"
	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/grammar"
	"github.com/katalvlaran/wfst/rewrite"
)

// loadRules compiles a rule file. Each row reads
//
//	tau <TAB> phi <TAB> lambda <TAB> rho [<TAB> ltr|rtl|sim [<TAB> optional]]
//
// An empty phi deletes tau. A leading '^' in a context anchors it at the
// beginning of the string, a trailing '$' at the end.
func loadRules(ctx context.Context, g *grammar.Grammar, r io.Reader) ([]grammar.Stage, error) {
	rows, err := compile.ReadTable(r)
	if err != nil {
		return nil, errors.Wrap(err, "rules")
	}
	specs := make([]rewrite.Spec, 0, len(rows))
	for i, row := range rows {
		spec, err := parseRule(g, row)
		if err != nil {
			return nil, errors.Wrapf(err, "rules: row %d", i+1)
		}
		specs = append(specs, spec)
	}

	rules, err := g.CompileRules(ctx, specs)
	if err != nil {
		return nil, errors.Wrap(err, "rules")
	}
	stages := make([]grammar.Stage, len(rules))
	for i, r := range rules {
		stages[i] = r
	}

	return stages, nil
}

func parseRule(g *grammar.Grammar, row []string) (rewrite.Spec, error) {
	var spec rewrite.Spec
	if len(row) < 4 || len(row) > 6 {
		return spec, errors.Errorf("want 4 to 6 columns, got %d", len(row))
	}
	var err error
	if spec.Tau, err = g.String(row[0]); err != nil {
		return spec, errors.Wrap(err, "tau")
	}
	if spec.Phi, err = g.String(row[1]); err != nil {
		return spec, errors.Wrap(err, "phi")
	}
	if spec.Lambda, err = contextOf(g, row[2]); err != nil {
		return spec, errors.Wrap(err, "lambda")
	}
	if spec.Rho, err = contextOf(g, row[3]); err != nil {
		return spec, errors.Wrap(err, "rho")
	}
	if len(row) > 4 {
		if spec.Direction, err = rewrite.ParseDirection(row[4]); err != nil {
			return spec, err
		}
	}
	if len(row) > 5 {
		if spec.Mode, err = rewrite.ParseMode(row[5]); err != nil {
			return spec, err
		}
	}

	return spec, nil
}

// contextOf compiles a context column; the empty column is no context.
func contextOf(g *grammar.Grammar, s string) (*fst.Fst, error) {
	body := s
	bos := strings.HasPrefix(body, "^")
	if bos {
		body = body[1:]
	}
	eos := strings.HasSuffix(body, "$")
	if eos {
		body = body[:len(body)-1]
	}
	if body == "" && !bos && !eos {
		return nil, nil
	}

	k := fst.WithSemiring(g.Config().Semiring)
	var parts []*fst.Fst
	if bos {
		parts = append(parts, rewrite.BeginningOfString(k))
	}
	if body != "" {
		m, err := g.String(body)
		if err != nil {
			return nil, err
		}
		parts = append(parts, m)
	}
	if eos {
		parts = append(parts, rewrite.EndOfString(k))
	}

	return fst.ConcatAll(parts...)
}

// run rewrites every line of in and writes "input<TAB>output..." lines to w.
// Lines that fail to encode are logged and skipped.
func run(g *grammar.Grammar, rules []grammar.Stage, n int, in io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(in)
	out := bufio.NewWriter(w)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		rewrites, err := g.Rewrite(line, n, rules...)
		if err != nil {
			log.Printf("skip %q: %v", line, err)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", line, strings.Join(rewrites, "\t"))
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read input")
	}

	return errors.Wrap(out.Flush(), "write output")
}
