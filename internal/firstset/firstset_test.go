package firstset

import (
	"testing"

	"github.com/go-parsekit/lrcanon/internal/grammar"
	"github.com/go-parsekit/lrcanon/internal/symbol"
)

func buildArith(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(b.AddProduction("E", []string{"E", "+", "T"}))
	must(b.AddProduction("E", []string{"T"}))
	must(b.AddProduction("T", []string{"T", "*", "F"}))
	must(b.AddProduction("T", []string{"F"}))
	must(b.AddProduction("F", []string{"(", "E", ")"}))
	must(b.AddProduction("F", []string{"id"}))
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func sym(t *testing.T, g *grammar.Grammar, text string) symbol.Symbol {
	t.Helper()
	s, ok := g.Symbols.ToSymbol(text)
	if !ok {
		t.Fatalf("symbol %q not found in grammar", text)
	}
	return s
}

func TestArithFirstSetsHaveNoEpsilon(t *testing.T) {
	g := buildArith(t)
	e := New(g)

	eSym := sym(t, g, "E")
	first, err := e.First(eSym)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"(", "id"}
	if len(first) != len(want) {
		t.Fatalf("FIRST(E) = %v entries; want %v", len(first), len(want))
	}
	for _, text := range want {
		if _, ok := first[sym(t, g, text)]; !ok {
			t.Fatalf("FIRST(E) missing %q", text)
		}
	}
}

func TestArithGrammarHasNoNullableNonTerminal(t *testing.T) {
	g := buildArith(t)
	e := New(g)

	for _, nt := range g.NonTerminals() {
		if nt == g.Start {
			continue
		}
		ok, err := e.DerivesEpsilon(nt)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatalf("%v should not be nullable in the arithmetic grammar", nt)
		}
	}
}

func TestNullableNonTerminalPropagatesThroughFirst(t *testing.T) {
	// S -> A b
	// A -> a | (epsilon)
	b := grammar.NewBuilder()
	if err := b.AddProduction("S", []string{"A", "b"}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddProduction("A", []string{"a"}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddProduction("A", nil); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	e := New(g)
	aSym := sym(t, g, "A")
	ok, err := e.DerivesEpsilon(aSym)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("A should be nullable")
	}

	sSym := sym(t, g, "S")
	first, err := e.First(sSym)
	if err != nil {
		t.Fatal(err)
	}
	for _, text := range []string{"a", "b"} {
		if _, ok := first[sym(t, g, text)]; !ok {
			t.Fatalf("FIRST(S) missing %q; nullable A should let FIRST(b) leak through", text)
		}
	}
}

func TestEmptySequenceIsNullableWithEmptyFirst(t *testing.T) {
	g := buildArith(t)
	e := New(g)

	ok, err := e.DerivesEpsilon()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("the empty sequence must be nullable")
	}

	first, err := e.First()
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 0 {
		t.Fatalf("FIRST of the empty sequence must be empty, got %v", first)
	}
}

func TestUnknownSymbolIsAnError(t *testing.T) {
	g := buildArith(t)
	e := New(g)

	bogus := symbol.Symbol(0x8100) // terminal Num 256; the arithmetic grammar registers Nums 2..6
	if _, err := e.First(bogus); err == nil {
		t.Fatalf("expected an error resolving a symbol outside the grammar")
	}
	if _, err := e.DerivesEpsilon(bogus); err == nil {
		t.Fatalf("expected an error resolving a symbol outside the grammar")
	}
}
