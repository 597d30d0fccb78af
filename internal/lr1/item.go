// Package lr1 builds the canonical LR(1) item-set collection: closure
// with lookahead propagation, goto, and the worklist traversal
// spec.md §4.3/§4.4 describe. Unlike LALR, two items that share a
// core (prod, pos) but arise in different states are never merged
// across states — only within the closure of a single kernel, per
// spec.md's canonical (non-merging) convention.
package lr1

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/go-parsekit/lrcanon/internal/firstset"
	"github.com/go-parsekit/lrcanon/internal/grammar"
	"github.com/go-parsekit/lrcanon/internal/symbol"
)

// Lookahead is a non-empty set of terminals.
type Lookahead map[symbol.Symbol]struct{}

func newLookahead(syms ...symbol.Symbol) Lookahead {
	la := make(Lookahead, len(syms))
	for _, s := range syms {
		la[s] = struct{}{}
	}
	return la
}

func (la Lookahead) clone() Lookahead {
	out := make(Lookahead, len(la))
	for s := range la {
		out[s] = struct{}{}
	}
	return out
}

// mergeInto adds every symbol of src into dst, reporting whether dst
// grew. This is the "proposed lookahead would strictly grow the
// accumulated set" test spec.md §4.3 requires to decide whether an
// item must be re-enqueued during closure.
func mergeInto(dst, src Lookahead) bool {
	grew := false
	for s := range src {
		if _, ok := dst[s]; !ok {
			dst[s] = struct{}{}
			grew = true
		}
	}
	return grew
}

func (la Lookahead) sorted() []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(la))
	for s := range la {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Item is an LR(0) item augmented with a non-empty lookahead set.
type Item struct {
	Prod      *grammar.Production
	Pos       int
	Lookahead Lookahead
}

func (i Item) Expected() (symbol.Symbol, bool) {
	if i.Pos < i.Prod.Len() {
		return i.Prod.Body[i.Pos], true
	}
	return symbol.Nil, false
}

func (i Item) Complete() bool {
	return i.Pos == i.Prod.Len()
}

// tail returns prod.Body[pos+1:], the symbols FIRST is computed over
// when a closure step expects past this item's dotted symbol.
func (i Item) tail() []symbol.Symbol {
	if i.Pos+1 >= len(i.Prod.Body) {
		return nil
	}
	return i.Prod.Body[i.Pos+1:]
}

func (i Item) isInitial() bool {
	return i.Prod.Head.IsStart() && i.Pos == 0
}

func (i Item) isKernel() bool {
	return i.isInitial() || i.Pos > 0
}

// advance moves the dot one symbol right, preserving lookahead.
func (i Item) advance() Item {
	return Item{Prod: i.Prod, Pos: i.Pos + 1, Lookahead: i.Lookahead}
}

func (i Item) key() itemKey {
	return itemKey{prod: i.Prod.ID(), pos: i.Pos}
}

func (i Item) String(g *grammar.Grammar) string {
	text := func(s symbol.Symbol) string {
		if t, ok := g.Symbols.ToText(s); ok {
			return t
		}
		return s.String()
	}
	out := text(i.Prod.Head) + " ->"
	for n, s := range i.Prod.Body {
		if n == i.Pos {
			out += " ."
		}
		out += " " + text(s)
	}
	if i.Pos == i.Prod.Len() {
		out += " ."
	}
	out += ", "
	for n, s := range i.Lookahead.sorted() {
		if n > 0 {
			out += "/"
		}
		out += text(s)
	}
	return out
}

type itemKey struct {
	prod grammar.ID
	pos  int
}

type kernelID [32]byte

type kernel struct {
	id    kernelID
	items []Item
}

// newKernel builds a kernel from (possibly core-duplicate) items,
// merging lookahead sets of items that share a core before hashing —
// the per-kernel counterpart of the merging closure does within a
// single state.
func newKernel(items []Item) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel needs at least one item")
	}

	byKey := map[itemKey]Item{}
	order := []itemKey{}
	for _, it := range items {
		if !it.isKernel() {
			return nil, fmt.Errorf("not a kernel item: %v", it)
		}
		k := it.key()
		if existing, ok := byKey[k]; ok {
			mergeInto(existing.Lookahead, it.Lookahead)
		} else {
			byKey[k] = Item{Prod: it.Prod, Pos: it.Pos, Lookahead: it.Lookahead.clone()}
			order = append(order, k)
		}
	}

	sort.Slice(order, func(a, b int) bool {
		ka, kb := order[a], order[b]
		if ka.prod != kb.prod {
			return lessID(ka.prod, kb.prod)
		}
		return ka.pos < kb.pos
	})

	sorted := make([]Item, 0, len(order))
	h := sha256.New()
	for _, k := range order {
		it := byKey[k]
		sorted = append(sorted, it)
		id := it.Prod.ID()
		h.Write(id[:])
		h.Write([]byte{byte(it.Pos >> 8), byte(it.Pos)})
		for _, s := range it.Lookahead.sorted() {
			b := s.Byte()
			h.Write(b)
		}
		h.Write([]byte{0xff}) // separator between items' lookahead runs
	}
	var id kernelID
	copy(id[:], h.Sum(nil))

	return &kernel{id: id, items: sorted}, nil
}

func lessID(a, b grammar.ID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// closure computes the LR(1) closure of k: a working map keyed by
// (prod, pos) carries the accumulated lookahead for each core, and an
// item is (re-)enqueued whenever a proposed lookahead would strictly
// grow its accumulated set, exactly as spec.md §4.3 specifies.
func closure(k *kernel, g *grammar.Grammar, fst *firstset.Engine) ([]Item, error) {
	acc := map[itemKey]*Item{}
	var queue []itemKey

	enqueue := func(prod *grammar.Production, pos int, la Lookahead) {
		key := itemKey{prod: prod.ID(), pos: pos}
		if existing, ok := acc[key]; ok {
			if mergeInto(existing.Lookahead, la) {
				queue = append(queue, key)
			}
			return
		}
		acc[key] = &Item{Prod: prod, Pos: pos, Lookahead: la.clone()}
		queue = append(queue, key)
	}

	for _, it := range k.items {
		enqueue(it.Prod, it.Pos, it.Lookahead)
	}

	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		item := acc[key]

		expected, ok := item.Expected()
		if !ok || expected.IsTerminal() {
			continue
		}

		tailFirst, err := fst.First(item.tail()...)
		if err != nil {
			return nil, err
		}
		tailNullable, err := fst.DerivesEpsilon(item.tail()...)
		if err != nil {
			return nil, err
		}

		propagated := make(Lookahead, len(tailFirst))
		for s := range tailFirst {
			propagated[s] = struct{}{}
		}
		if tailNullable {
			for s := range item.Lookahead {
				propagated[s] = struct{}{}
			}
		}

		for _, p := range g.Productions(expected) {
			enqueue(p, 0, propagated)
		}
	}

	out := make([]Item, 0, len(acc))
	for _, it := range acc {
		out = append(out, *it)
	}
	return out, nil
}
