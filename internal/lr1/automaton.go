package lr1

import (
	"sort"

	"github.com/go-parsekit/lrcanon/internal/firstset"
	"github.com/go-parsekit/lrcanon/internal/grammar"
	"github.com/go-parsekit/lrcanon/internal/lr"
	"github.com/go-parsekit/lrcanon/internal/symbol"
)

type neighbour struct {
	sym symbol.Symbol
	k   *kernel
}

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

// Build enumerates the canonical LR(1) collection for g, seeded with
// closure({START_PROD -> . S, {END}}), using fst to resolve lookahead
// propagation during closure.
func Build(g *grammar.Grammar, fst *firstset.Engine) (*lr.Collection, error) {
	initialItem := Item{Prod: g.StartProd, Pos: 0, Lookahead: newLookahead(g.End)}
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
			items, err := closure(k, g, fst)
			if err != nil {
				return nil, err
			}
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

	states := make([]*lr.State, len(order))
	for i, k := range order {
		items, err := closure(k, g, fst)
		if err != nil {
			return nil, err
		}
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
		for _, it := range items {
			if !it.Complete() {
				continue
			}
			if it.Prod == g.StartProd {
				accept = true
				continue
			}
			reduce = append(reduce, lr.ReduceEdge{Prod: it.Prod, On: it.Lookahead.sorted()})
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
