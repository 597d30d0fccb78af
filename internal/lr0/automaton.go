package lr0

import (
	"sort"

	"github.com/go-parsekit/lrcanon/internal/grammar"
	"github.com/go-parsekit/lrcanon/internal/lr"
	"github.com/go-parsekit/lrcanon/internal/symbol"
)

// closure returns the smallest item set containing k's items and
// closed under pending: for every item expecting a non-terminal B,
// the closure contains (p, 0) for each of B's productions. Breadth-
// first expansion with a seen-set avoids re-enqueueing.
func closure(k *kernel, g *grammar.Grammar) []Item {
	items := append([]Item(nil), k.items...)
	seen := map[itemKey]struct{}{}
	for _, it := range items {
		seen[it.key()] = struct{}{}
	}

	frontier := items
	for len(frontier) > 0 {
		var next []Item
		for _, it := range frontier {
			expected, ok := it.Expected()
			if !ok || expected.IsTerminal() {
				continue
			}
			for _, p := range g.Productions(expected) {
				cand := Item{Prod: p, Pos: 0}
				if _, ok := seen[cand.key()]; ok {
					continue
				}
				seen[cand.key()] = struct{}{}
				items = append(items, cand)
				next = append(next, cand)
			}
		}
		frontier = next
	}
	return items
}

type neighbour struct {
	sym symbol.Symbol
	k   *kernel
}

// neighbours partitions items' goto successors by the symbol each
// group advances over, producing one candidate kernel per symbol.
func neighbours(items []Item) ([]neighbour, error) {
	bySym := map[symbol.Symbol][]Item{}
	for _, it := range items {
		expected, ok := it.Expected()
		if !ok {
			continue
		}
		bySym[expected] = append(bySym[expected], it.advance())
	}

	syms := make([]symbol.Symbol, 0, len(bySym))
	for s := range bySym {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

	out := make([]neighbour, 0, len(syms))
	for _, s := range syms {
		k, err := newKernel(bySym[s])
		if err != nil {
			return nil, err
		}
		out = append(out, neighbour{sym: s, k: k})
	}
	return out, nil
}

// Build enumerates the canonical LR(0) collection for g by a FIFO
// worklist over kernels, seeded with closure({START_PROD -> . S}),
// and returns it as a generic lr.Collection ready for lr.Build.
func Build(g *grammar.Grammar) (*lr.Collection, error) {
	initialItem := Item{Prod: g.StartProd, Pos: 0}
	initialKernel, err := newKernel([]Item{initialItem})
	if err != nil {
		return nil, err
	}

	known := map[kernelID]struct{}{initialKernel.id: {}}
	queue := []*kernel{initialKernel}
	order := []*kernel{initialKernel}

	for len(queue) > 0 {
		var nextQueue []*kernel
		for _, k := range queue {
			items := closure(k, g)
			ns, err := neighbours(items)
			if err != nil {
				return nil, err
			}
			for _, n := range ns {
				if _, ok := known[n.k.id]; ok {
					continue
				}
				known[n.k.id] = struct{}{}
				nextQueue = append(nextQueue, n.k)
				order = append(order, n.k)
			}
		}
		queue = nextQueue
	}

	numOf := map[kernelID]lr.StateNum{}
	for i, k := range order {
		numOf[k.id] = lr.StateNum(i)
	}

	allTerms := g.Terminals()

	states := make([]*lr.State, len(order))
	for i, k := range order {
		items := closure(k, g)
		ns, err := neighbours(items)
		if err != nil {
			return nil, err
		}

		next := map[symbol.Symbol]lr.StateNum{}
		for _, n := range ns {
			next[n.sym] = numOf[n.k.id]
		}

		var reduce []lr.ReduceEdge
		accept := false
		seenProd := map[grammar.ID]bool{}
		for _, it := range items {
			if !it.Complete() {
				continue
			}
			if it.Prod == g.StartProd {
				accept = true
				continue
			}
			if seenProd[it.Prod.ID()] {
				continue
			}
			seenProd[it.Prod.ID()] = true
			reduce = append(reduce, lr.ReduceEdge{Prod: it.Prod, On: allTerms})
		}

		itemsForDescribe := items
		stateG := g
		states[i] = &lr.State{
			Num:    lr.StateNum(i),
			Next:   next,
			Reduce: reduce,
			Accept: accept,
			Describe: func() []string {
				lines := make([]string, 0, len(itemsForDescribe))
				for _, it := range itemsForDescribe {
					lines = append(lines, it.String(stateG))
				}
				return lines
			},
		}
	}

	return &lr.Collection{Initial: numOf[initialKernel.id], States: states}, nil
}
