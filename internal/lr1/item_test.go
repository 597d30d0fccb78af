package lr1

import (
	"testing"

	"github.com/go-parsekit/lrcanon/internal/grammar"
	"github.com/go-parsekit/lrcanon/internal/symbol"
)

func buildTiny(t *testing.T) (*grammar.Grammar, []*grammar.Production) {
	t.Helper()
	b := grammar.NewBuilder()
	if err := b.AddProduction("S", []string{"a", "S"}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddProduction("S", []string{"a"}); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	origS, ok := g.Symbols.ToSymbol("S")
	if !ok {
		t.Fatal("S was not interned")
	}
	return g, g.Productions(origS)
}

func TestMergeIntoReportsGrowth(t *testing.T) {
	g, _ := buildTiny(t)
	a, _ := g.Symbols.ToSymbol("a")

	dst := newLookahead(symbol.EOF)
	if mergeInto(dst, newLookahead(symbol.EOF)) {
		t.Fatalf("merging an already-present symbol must not report growth")
	}
	if !mergeInto(dst, newLookahead(a)) {
		t.Fatalf("merging a new symbol must report growth")
	}
	if _, ok := dst[a]; !ok {
		t.Fatalf("dst should now contain the merged symbol")
	}
}

func TestKernelMergesLookaheadAcrossDuplicateCores(t *testing.T) {
	g, sProds := buildTiny(t)
	a, _ := g.Symbols.ToSymbol("a")

	it1 := Item{Prod: sProds[0], Pos: 1, Lookahead: newLookahead(symbol.EOF)}
	it2 := Item{Prod: sProds[0], Pos: 1, Lookahead: newLookahead(a)}

	k, err := newKernel([]Item{it1, it2})
	if err != nil {
		t.Fatal(err)
	}
	if len(k.items) != 1 {
		t.Fatalf("two items sharing a core must merge into a single kernel item, got %v", len(k.items))
	}
	merged := k.items[0].Lookahead
	if _, ok := merged[symbol.EOF]; !ok {
		t.Fatalf("merged lookahead missing EOF")
	}
	if _, ok := merged[a]; !ok {
		t.Fatalf("merged lookahead missing 'a'")
	}
}

func TestKernelIdentityDependsOnLookahead(t *testing.T) {
	_, sProds := buildTiny(t)

	it := Item{Prod: sProds[0], Pos: 1, Lookahead: newLookahead(symbol.EOF)}
	k1, err := newKernel([]Item{it})
	if err != nil {
		t.Fatal(err)
	}

	itOther := Item{Prod: sProds[0], Pos: 1, Lookahead: newLookahead(symbol.Nil)}
	k2, err := newKernel([]Item{itOther})
	if err != nil {
		t.Fatal(err)
	}

	if k1.id == k2.id {
		t.Fatalf("two kernels whose single item's lookahead differs must hash distinctly")
	}
}

func TestAdvancePreservesLookahead(t *testing.T) {
	_, sProds := buildTiny(t)
	la := newLookahead(symbol.EOF)
	it := Item{Prod: sProds[0], Pos: 0, Lookahead: la}
	next := it.advance()
	if next.Pos != 1 {
		t.Fatalf("advance() should move the dot by one")
	}
	if _, ok := next.Lookahead[symbol.EOF]; !ok {
		t.Fatalf("advance() must preserve the item's lookahead set")
	}
}
