package lr_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-parsekit/lrcanon/internal/firstset"
	"github.com/go-parsekit/lrcanon/internal/grammar"
	"github.com/go-parsekit/lrcanon/internal/lr"
	"github.com/go-parsekit/lrcanon/internal/lr0"
	"github.com/go-parsekit/lrcanon/internal/lr1"
)

// buildParens is spec.md §8's S1 grammar: S -> ( S ) | ( ). Unlike a
// grammar with an S -> epsilon alternative, this is genuinely LR(0) —
// no state ever mixes a shift on "(" with a reduce of a complete item
// under the pure-LR(0) reduce-on-every-terminal convention.
func buildParens(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder()
	if err := b.AddProduction("S", []string{"(", "S", ")"}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddProduction("S", []string{"(", ")"}); err != nil {
		t.Fatal(err)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestBuildWritesAcceptAtCompleteStartItemState(t *testing.T) {
	g := buildParens(t)
	coll, err := lr0.Build(g)
	if err != nil {
		t.Fatal(err)
	}
	tab, err := lr.Build(g.End, coll)
	if err != nil {
		t.Fatal(err)
	}

	// The complete start item S' -> S . lives in GOTO(Initial, S).
	acceptState, ok := tab.Goto(coll.Initial, g.StartProd.Body[0])
	if !ok {
		t.Fatalf("no GOTO from the initial state on the original start symbol")
	}
	act := tab.Action(acceptState, g.End)
	if act.Kind != lr.ActionAccept {
		t.Fatalf("Action(GOTO(Initial, S), END) = %v; want ActionAccept", act)
	}
}

func TestRebuildFromSameCollectionIsConflictFree(t *testing.T) {
	g := buildParens(t)
	coll, err := lr0.Build(g)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lr.Build(g.End, coll); err != nil {
		t.Fatalf("building the Dyck grammar's LR(0) table should not conflict: %v", err)
	}
	// Building twice from the same collection must be idempotent: the
	// second Build starts from a fresh Table and derives the same cells.
	if _, err := lr.Build(g.End, coll); err != nil {
		t.Fatalf("rebuilding from the same collection should not conflict: %v", err)
	}
}

func TestMissingCellReadsBackAsActionNone(t *testing.T) {
	g := buildParens(t)
	coll, err := lr0.Build(g)
	if err != nil {
		t.Fatal(err)
	}
	tab, err := lr.Build(g.End, coll)
	if err != nil {
		t.Fatal(err)
	}

	bogusState := lr.StateNum(len(coll.States) + 1000)
	act := tab.Action(bogusState, g.End)
	if act.Kind != lr.ActionNone {
		t.Fatalf("Action on an unpopulated cell = %v; want ActionNone", act)
	}
}

func TestDescribeMentionsEveryState(t *testing.T) {
	g := buildParens(t)
	coll, err := lr0.Build(g)
	if err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	lr.Describe(&b, g, coll)
	out := b.String()
	for _, st := range coll.States {
		want := fmt.Sprintf("state %v", st.Num)
		if !strings.Contains(out, want) {
			t.Fatalf("Describe output missing %q", want)
		}
	}
}

func TestLR1TableBuildsCleanlyOverArithGrammar(t *testing.T) {
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

	fst := firstset.New(g)
	coll, err := lr1.Build(g, fst)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lr.Build(g.End, coll); err != nil {
		t.Fatalf("unexpected conflict: %v", err)
	}
}

// S6: S -> i E | i ; E -> = i. LR(0) conflates "shift = to extend
// toward E" with "reduce S -> i" in the state reached after i, because
// pure LR(0) reduces on every terminal. LR(1) resolves it: the only
// lookahead under which S -> i can reduce is END, disjoint from "=".
func buildShiftReduceViaLookahead(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(b.AddProduction("S", []string{"i", "E"}))
	must(b.AddProduction("S", []string{"i"}))
	must(b.AddProduction("E", []string{"=", "i"}))
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestS6LR0ConflictsButLR1ResolvesViaLookahead(t *testing.T) {
	g := buildShiftReduceViaLookahead(t)

	lr0Coll, err := lr0.Build(g)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lr.Build(g.End, lr0Coll); err == nil {
		t.Fatalf("expected LR(0) to report a shift/reduce conflict on '=' vs reducing S -> i")
	}

	fst := firstset.New(g)
	lr1Coll, err := lr1.Build(g, fst)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lr.Build(g.End, lr1Coll); err != nil {
		t.Fatalf("LR(1) should resolve the conflict via disjoint lookahead sets: %v", err)
	}
}
