// SPDX-License-Identifier: MIT
// File: grammar.go
// Role: the Grammar session.

package grammar

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/wfst/compile"
	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/lenient"
	"github.com/katalvlaran/wfst/optimize"
	"github.com/katalvlaran/wfst/paths"
	"github.com/katalvlaran/wfst/rewrite"
	"github.com/katalvlaran/wfst/token"
)

// Grammar is a construction session. It is safe for concurrent use.
//
// The session alphabet grows with the strings it compiles: codepoints outside
// printable ASCII, generated symbols and new tokens of a mutable Symbol
// session join SigmaStar once a String, Pair or Map has used them.
type Grammar struct {
	cfg   Config
	codec *token.Codec
	cache *lru.Cache[string, *fst.Fst]

	mu   sync.Mutex
	seen map[fst.Label]struct{}
}

// New creates a session.
//
// Errors:
//   - token.ErrUnknownAlphabet for an invalid alphabet.
func New(opts ...Option) (*Grammar, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var copts []token.Option
	if cfg.Alphabet == token.Symbol {
		if cfg.Symbols == nil {
			cfg.Symbols = fst.NewSymbolTable("grammar")
			copts = append(copts, token.WithMutable())
		}
		copts = append(copts, token.WithSymbolTable(cfg.Symbols))
	}
	codec, err := token.NewCodec(cfg.Alphabet, copts...)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[string, *fst.Fst](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("grammar: cache: %w", err)
	}

	return &Grammar{cfg: cfg, codec: codec, cache: cache, seen: make(map[fst.Label]struct{})}, nil
}

// Config returns the effective configuration.
func (g *Grammar) Config() Config { return g.cfg }

// Codec returns the session codec.
func (g *Grammar) Codec() *token.Codec { return g.codec }

func (g *Grammar) optimizeOptions() []optimize.Option {
	return []optimize.Option{optimize.WithMaxStates(g.cfg.MaxStates)}
}

// String returns the acceptor of s, compiling it on first use.
func (g *Grammar) String(s string) (*fst.Fst, error) {
	if m, ok := g.cache.Get(s); ok {
		return m, nil
	}
	m, err := compile.String(s, g.codec, compile.WithSemiring(g.cfg.Semiring))
	if err != nil {
		return nil, err
	}
	g.observe(m)
	g.cache.Add(s, m)

	return m, nil
}

// Pair returns the transducer of in:out.
func (g *Grammar) Pair(in, out string) (*fst.Fst, error) {
	m, err := compile.Pair(in, out, g.codec, compile.WithSemiring(g.cfg.Semiring))
	if err != nil {
		return nil, err
	}
	g.observe(m)

	return m, nil
}

// Map compiles string pairs into one transducer.
func (g *Grammar) Map(entries []compile.Entry) (*fst.Fst, error) {
	m, err := compile.Map(entries, g.codec, compile.WithSemiring(g.cfg.Semiring))
	if err != nil {
		return nil, err
	}
	g.observe(m)

	return m, nil
}

// observe adds the labels of m to the session alphabet.
func (g *Grammar) observe(m *fst.Fst) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, side := range []bool{false, true} {
		for _, l := range m.Labels(side) {
			if l != fst.Epsilon && l < fst.Reserved {
				g.seen[l] = struct{}{}
			}
		}
	}
}

// alphabet returns the labels of the session alphabet, sorted.
func (g *Grammar) alphabet() []fst.Label {
	g.mu.Lock()
	extra := make([]fst.Label, 0, len(g.seen))
	for l := range g.seen {
		extra = append(extra, l)
	}
	g.mu.Unlock()

	return g.codec.Labels(extra...)
}

// SigmaStar returns the universal acceptor over the session alphabet as it
// stands now.
func (g *Grammar) SigmaStar() *fst.Fst {
	return g.sigmaOver(g.alphabet())
}

func (g *Grammar) sigmaOver(labels []fst.Label) *fst.Fst {
	var st *fst.SymbolTable
	if g.cfg.Alphabet == token.Symbol {
		st = g.cfg.Symbols
	}

	return fst.Universal(labels, fst.WithSemiring(g.cfg.Semiring), fst.WithSymbols(st, st))
}

// Rule compiles one rewrite rule over SigmaStar.
func (g *Grammar) Rule(spec rewrite.Spec) (*Rule, error) {
	r := &Rule{g: g, spec: spec}
	if _, err := r.Machine(); err != nil {
		return nil, err
	}

	return r, nil
}

// CompileRules compiles independent rules concurrently. The result keeps the
// order of specs. The first failure cancels the remaining work.
func (g *Grammar) CompileRules(ctx context.Context, specs []rewrite.Spec) ([]*Rule, error) {
	out := make([]*Rule, len(specs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, spec := range specs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := &Rule{g: g, spec: spec}
			if _, err := r.Machine(); err != nil {
				return fmt.Errorf("grammar: rule %d: %w", i, err)
			}
			out[i] = r

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// Cascade leniently applies stages in order to the acceptor of input. The
// input is compiled first, so rules see every label it introduces.
func (g *Grammar) Cascade(input string, stages ...Stage) (*fst.Fst, error) {
	in, err := g.String(input)
	if err != nil {
		return nil, err
	}
	rules := make([]*fst.Fst, len(stages))
	for i, s := range stages {
		if rules[i], err = s.Machine(); err != nil {
			return nil, fmt.Errorf("grammar: stage %d: %w", i, err)
		}
	}

	return lenient.Cascade(in, rules, g.SigmaStar(), g.optimizeOptions()...)
}

// Rewrite returns up to n distinct outputs of the cascade, best first.
// Without stages the input itself is returned.
func (g *Grammar) Rewrite(input string, n int, stages ...Stage) ([]string, error) {
	lattice, err := g.Cascade(input, stages...)
	if err != nil {
		return nil, err
	}
	outputs := optimize.Optimize(fst.Project(lattice, true), g.optimizeOptions()...)
	ps, err := paths.ShortestPath(outputs, n, paths.WithUnique(), paths.WithCodecs(nil, g.codec))
	if err != nil {
		return nil, err
	}
	res := make([]string, len(ps))
	for i, p := range ps {
		res[i] = p.Output
	}

	return res, nil
}
