// Package lr0 builds the canonical LR(0) item-set collection: closure,
// goto, and the worklist traversal that enumerates every reachable
// state starting from closure({START_PROD -> . S}).
package lr0

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/go-parsekit/lrcanon/internal/grammar"
	"github.com/go-parsekit/lrcanon/internal/symbol"
)

// Item is a dotted production (prod, pos). The expected symbol is
// prod.Body[pos] when pos < len(prod.Body); otherwise the item is
// complete.
type Item struct {
	Prod *grammar.Production
	Pos  int
}

// Expected returns the symbol immediately right of the dot, if any.
func (i Item) Expected() (symbol.Symbol, bool) {
	if i.Pos < i.Prod.Len() {
		return i.Prod.Body[i.Pos], true
	}
	return symbol.Nil, false
}

// Complete reports whether the dot has advanced past the last body
// symbol.
func (i Item) Complete() bool {
	return i.Pos == i.Prod.Len()
}

// isInitial reports whether i looks like S' -> . S: the augmented
// start production with the dot at position 0.
func (i Item) isInitial() bool {
	return i.Prod.Head.IsStart() && i.Pos == 0
}

// isKernel reports whether i belongs in a state's kernel, i.e. isn't
// wholly a byproduct of closure.
func (i Item) isKernel() bool {
	return i.isInitial() || i.Pos > 0
}

// advance returns the item with its dot moved one symbol to the
// right. The caller must have already checked !Complete().
func (i Item) advance() Item {
	return Item{Prod: i.Prod, Pos: i.Pos + 1}
}

func (i Item) key() itemKey {
	return itemKey{prod: i.Prod.ID(), pos: i.Pos}
}

func (i Item) String(g *grammar.Grammar) string {
	var out string
	text := func(s symbol.Symbol) string {
		if t, ok := g.Symbols.ToText(s); ok {
			return t
		}
		return s.String()
	}
	out = text(i.Prod.Head) + " ->"
	for n, s := range i.Prod.Body {
		if n == i.Pos {
			out += " ."
		}
		out += " " + text(s)
	}
	if i.Pos == i.Prod.Len() {
		out += " ."
	}
	return out
}

type itemKey struct {
	prod grammar.ID
	pos  int
}

// kernelID content-hashes the sorted set of kernel items, giving
// canonical states a stable, order-independent identity: two kernels
// with the same item membership always hash equal, and distinct
// membership always hashes distinct (the hash input is the sorted,
// concatenated per-item key bytes).
type kernelID [32]byte

type kernel struct {
	id    kernelID
	items []Item
}

func newKernel(items []Item) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel needs at least one item")
	}

	dedup := map[itemKey]Item{}
	for _, it := range items {
		if !it.isKernel() {
			return nil, fmt.Errorf("not a kernel item: %v", it)
		}
		dedup[it.key()] = it
	}

	sorted := make([]Item, 0, len(dedup))
	for _, it := range dedup {
		sorted = append(sorted, it)
	}
	sort.Slice(sorted, func(a, b int) bool {
		ka, kb := sorted[a].key(), sorted[b].key()
		if ka.prod != kb.prod {
			return lessID(ka.prod, kb.prod)
		}
		return ka.pos < kb.pos
	})

	h := sha256.New()
	for _, it := range sorted {
		id := it.Prod.ID()
		h.Write(id[:])
		h.Write([]byte{byte(it.Pos >> 8), byte(it.Pos)})
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
