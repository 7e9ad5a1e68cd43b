// SPDX-License-Identifier: MIT
// File: shortest.go
// Role: n-best paths by A* search with the exact distance-to-final as heuristic.
// Invariants:
//   - Partial paths leave the queue in order of (prefix ⊗ distance-to-final),
//     ties broken by push order, so complete paths appear best first.
//   - A state is expanded at most n times; in unique mode only expansions
//     with a new (input, output) prefix count.

package paths

import (
	"container/heap"
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/wfst/fst"
	"github.com/katalvlaran/wfst/semiring"
)

// ShortestPath returns up to n best paths of t, ordered by weight and then by
// discovery order. n < 1 yields no paths.
//
// Errors:
//   - ErrNoPathOrder for the Probability semiring.
//   - fst.ErrNoConvergence if distances to the final states diverge.
//   - token errors when decoding with codecs.
func ShortestPath(t *fst.Fst, n int, opts ...Option) ([]Path, error) {
	var cfg Options
	for _, opt := range opts {
		opt(&cfg)
	}
	if t.Semiring() == semiring.Probability {
		return nil, fmt.Errorf("%w: %s", ErrNoPathOrder, t.Semiring())
	}
	c := fst.Connect(t)
	if n < 1 || c.Empty() {
		return nil, nil
	}
	h, err := fst.ShortestDistance(c, true)
	if err != nil {
		return nil, err
	}

	r := &searcher{
		f:       c,
		k:       c.Semiring(),
		n:       n,
		cfg:     cfg,
		h:       h,
		pops:    make([]int, c.NumStates()),
		seen:    make(map[string]struct{}),
		emitted: make(map[string]struct{}),
	}

	return r.run()
}

// node is one step of a partial path; paths share prefixes through parent.
type node struct {
	parent int
	il, ol fst.Label
}

// item is a queue entry: a partial path ending in state q, or a complete path
// when done is set.
type item struct {
	q    fst.StateID
	g    float64 // prefix weight (complete: total weight)
	prio float64 // g ⊗ distance-to-final
	tail int     // index into searcher.nodes, -1 for the empty prefix
	seq  int
	done bool
}

// searcher holds the mutable state of one ShortestPath call.
type searcher struct {
	f       *fst.Fst
	k       semiring.Kind
	n       int
	cfg     Options
	h       []float64
	pops    []int
	nodes   []node
	pq      itemPQ
	seq     int
	seen    map[string]struct{} // unique mode: expanded (state, prefix) keys
	emitted map[string]struct{} // unique mode: emitted (input, output) keys
}

func (r *searcher) push(it *item) {
	it.seq = r.seq
	r.seq++
	heap.Push(&r.pq, it)
}

func (r *searcher) run() ([]Path, error) {
	heap.Init(&r.pq)
	start := r.f.Start()
	one := r.k.One()
	r.push(&item{q: start, g: one, prio: r.h[start], tail: -1})

	var out []Path
	for r.pq.Len() > 0 && len(out) < r.n {
		it := heap.Pop(&r.pq).(*item)
		if it.done {
			p := r.path(it)
			if r.cfg.Unique {
				key := labelKey(p.ILabels) + "|" + labelKey(p.OLabels)
				if _, dup := r.emitted[key]; dup {
					continue
				}
				r.emitted[key] = struct{}{}
			}
			if err := r.cfg.decode(&p); err != nil {
				return nil, err
			}
			out = append(out, p)
			continue
		}

		// 1) Bound the number of expansions per state.
		if r.cfg.Unique {
			il, ol := r.labels(it.tail)
			key := strconv.Itoa(int(it.q)) + "|" + labelKey(il) + "|" + labelKey(ol)
			if _, dup := r.seen[key]; dup {
				continue
			}
			r.seen[key] = struct{}{}
		}
		if r.pops[it.q] >= r.n {
			continue
		}
		r.pops[it.q]++

		// 2) A final state yields a complete path.
		if fw := r.f.Final(it.q); !r.k.IsZero(fw) {
			total := r.k.Times(it.g, fw)
			r.push(&item{q: it.q, g: total, prio: total, tail: it.tail, done: true})
		}

		// 3) Extend the prefix along every arc.
		for _, a := range r.f.Arcs(it.q) {
			if r.k.IsZero(r.h[a.Next]) {
				continue
			}
			tail := it.tail
			if a.ILabel != fst.Epsilon || a.OLabel != fst.Epsilon {
				r.nodes = append(r.nodes, node{parent: it.tail, il: a.ILabel, ol: a.OLabel})
				tail = len(r.nodes) - 1
			}
			g := r.k.Times(it.g, a.Weight)
			r.push(&item{q: a.Next, g: g, prio: r.k.Times(g, r.h[a.Next]), tail: tail})
		}
	}

	return out, nil
}

// labels rebuilds the label sequences of a prefix, without epsilons.
func (r *searcher) labels(tail int) ([]fst.Label, []fst.Label) {
	var il, ol []fst.Label
	for i := tail; i >= 0; i = r.nodes[i].parent {
		if l := r.nodes[i].il; l != fst.Epsilon {
			il = append(il, l)
		}
		if l := r.nodes[i].ol; l != fst.Epsilon {
			ol = append(ol, l)
		}
	}
	reverse(il)
	reverse(ol)

	return il, ol
}

func (r *searcher) path(it *item) Path {
	il, ol := r.labels(it.tail)

	return Path{ILabels: il, OLabels: ol, Weight: it.g}
}

func reverse(ls []fst.Label) {
	for i, j := 0, len(ls)-1; i < j; i, j = i+1, j-1 {
		ls[i], ls[j] = ls[j], ls[i]
	}
}

func labelKey(ls []fst.Label) string {
	var b strings.Builder
	for _, l := range ls {
		b.WriteString(strconv.Itoa(int(l)))
		b.WriteByte(',')
	}

	return b.String()
}

// itemPQ is a min-heap of *item ordered by prio, then by push order.
type itemPQ []*item

func (pq itemPQ) Len() int { return len(pq) }

func (pq itemPQ) Less(i, j int) bool {
	if pq[i].prio != pq[j].prio {
		return pq[i].prio < pq[j].prio
	}

	return pq[i].seq < pq[j].seq
}

func (pq itemPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *itemPQ) Push(x interface{}) { *pq = append(*pq, x.(*item)) }

func (pq *itemPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]

	return it
}
