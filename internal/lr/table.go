// Package lr builds ACTION/GOTO parsing tables from a canonical
// collection of states (produced by internal/lr0 or internal/lr1) and
// detects the conflicts spec.md §4.4 calls out: writing a table cell
// twice is only tolerated when the new value equals the existing one.
package lr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-parsekit/lrcanon/internal/grammar"
	"github.com/go-parsekit/lrcanon/internal/symbol"
)

// StateNum identifies a canonical state (a node of the parser's DFA).
type StateNum int

// ActionKind distinguishes the three possible ACTION cell contents.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionShift
	ActionReduce
	ActionAccept
)

// Action is one ACTION table cell.
type Action struct {
	Kind   ActionKind
	Shift  StateNum
	Reduce *grammar.Production
}

func (a Action) equal(b Action) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ActionShift:
		return a.Shift == b.Shift
	case ActionReduce:
		return a.Reduce == b.Reduce
	default:
		return true
	}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionShift:
		return fmt.Sprintf("shift %v", a.Shift)
	case ActionReduce:
		return fmt.Sprintf("reduce %v", a.Reduce.Num)
	case ActionAccept:
		return "accept"
	default:
		return "error"
	}
}

// ReduceEdge pairs a reducible production with the terminals under
// which the parser should reduce it: every terminal of the grammar
// for LR(0), or the item's lookahead set for LR(1).
type ReduceEdge struct {
	Prod *grammar.Production
	On   []symbol.Symbol
}

// State is one canonical item set, reduced to exactly what the table
// constructor needs: its outgoing shift/goto edges, its reduce edges,
// and whether it contains the complete, augmented start item.
type State struct {
	Num    StateNum
	Next   map[symbol.Symbol]StateNum
	Reduce []ReduceEdge
	Accept bool

	// Describe, if non-nil, renders this state's items for
	// diagnostics (internal/lr0 and internal/lr1 each supply their
	// own dotted-production formatting).
	Describe func() []string
}

// Collection is the canonical collection a table is built from: every
// reachable state, starting from Initial.
type Collection struct {
	Initial StateNum
	States  []*State
}

// Conflict is the common shape of both conflict kinds table
// construction can detect.
type Conflict struct {
	State    StateNum
	Symbol   symbol.Symbol
	Existing Action
	New      Action
}

// Error reports a contested ACTION or GOTO cell. It is fatal to table
// construction: the Parser built from an incomplete Table must not be
// used.
type Error struct {
	Conflict Conflict
}

func (e *Error) Error() string {
	c := e.Conflict
	return fmt.Sprintf("conflict in state %v on %v: %v vs %v", c.State, c.Symbol, c.Existing, c.New)
}

type actionKey struct {
	state StateNum
	sym   symbol.Symbol
}

type gotoKey struct {
	state StateNum
	sym   symbol.Symbol
}

// Table is the built, read-only ACTION/GOTO pair plus the initial
// state, sufficient to drive a parse (package driver).
type Table struct {
	actions    map[actionKey]Action
	gotos      map[gotoKey]StateNum
	Initial    StateNum
	StateCount int
}

// Action looks up the ACTION cell for (state, term). A missing cell
// reads back as the zero Action (Kind == ActionNone).
func (t *Table) Action(state StateNum, term symbol.Symbol) Action {
	return t.actions[actionKey{state, term}]
}

// Goto looks up the GOTO cell for (state, nonTerminal).
func (t *Table) Goto(state StateNum, nonTerminal symbol.Symbol) (StateNum, bool) {
	s, ok := t.gotos[gotoKey{state, nonTerminal}]
	return s, ok
}

func (t *Table) writeAction(state StateNum, sym symbol.Symbol, act Action) error {
	key := actionKey{state, sym}
	if existing, ok := t.actions[key]; ok {
		if existing.equal(act) {
			return nil
		}
		return &Error{Conflict: Conflict{State: state, Symbol: sym, Existing: existing, New: act}}
	}
	t.actions[key] = act
	return nil
}

func (t *Table) writeGoto(state StateNum, sym symbol.Symbol, next StateNum) error {
	key := gotoKey{state, sym}
	if existing, ok := t.gotos[key]; ok {
		if existing == next {
			return nil
		}
		return &Error{Conflict: Conflict{
			State:    state,
			Symbol:   sym,
			Existing: Action{Kind: ActionShift, Shift: existing},
			New:      Action{Kind: ActionShift, Shift: next},
		}}
	}
	t.gotos[key] = next
	return nil
}

// Build walks a Collection and populates ACTION/GOTO. For each state:
// shift/goto edges are written first (one per outgoing symbol), then
// reduce edges, then — if the state's closure contained the complete
// START_PROD item — the single ACCEPT cell at (state, end). Because
// Collection already segregates the accept item from ordinary reduce
// edges, the accept cell is written exactly once per eligible state,
// and only one state in a correctly-built collection ever sets
// Accept.
func Build(end symbol.Symbol, coll *Collection) (*Table, error) {
	t := &Table{
		actions:    map[actionKey]Action{},
		gotos:      map[gotoKey]StateNum{},
		Initial:    coll.Initial,
		StateCount: len(coll.States),
	}

	for _, st := range coll.States {
		syms := make([]symbol.Symbol, 0, len(st.Next))
		for sym := range st.Next {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

		for _, sym := range syms {
			next := st.Next[sym]
			var err error
			if sym.IsTerminal() {
				err = t.writeAction(st.Num, sym, Action{Kind: ActionShift, Shift: next})
			} else {
				err = t.writeGoto(st.Num, sym, next)
			}
			if err != nil {
				return nil, err
			}
		}

		for _, red := range st.Reduce {
			for _, term := range red.On {
				if err := t.writeAction(st.Num, term, Action{Kind: ActionReduce, Reduce: red.Prod}); err != nil {
					return nil, err
				}
			}
		}

		if st.Accept {
			if err := t.writeAction(st.Num, end, Action{Kind: ActionAccept}); err != nil {
				return nil, err
			}
		}
	}

	return t, nil
}

// Describe writes a human-readable dump of the collection: per-state
// items, shift/goto/reduce entries, and the accept entry. It does not
// report conflicts; those surface only as the error Build returns.
// Items use the dot-marked production format ("A -> α . β") that
// internal/lr0 and internal/lr1 render.
func Describe(w *strings.Builder, g *grammar.Grammar, coll *Collection) {
	fmt.Fprintf(w, "%v states\n\n", len(coll.States))
	for _, st := range coll.States {
		fmt.Fprintf(w, "state %v\n", st.Num)
		if st.Describe != nil {
			for _, line := range st.Describe() {
				fmt.Fprintf(w, "    %v\n", line)
			}
		}

		syms := make([]symbol.Symbol, 0, len(st.Next))
		for sym := range st.Next {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
		for _, sym := range syms {
			next := st.Next[sym]
			if sym.IsTerminal() {
				fmt.Fprintf(w, "    shift %4v on %v\n", next, symbolText(g, sym))
			} else {
				fmt.Fprintf(w, "    goto  %4v on %v\n", next, symbolText(g, sym))
			}
		}
		for _, red := range st.Reduce {
			for _, term := range red.On {
				fmt.Fprintf(w, "    reduce %4v on %v\n", red.Prod.Num, symbolText(g, term))
			}
		}
		if st.Accept {
			fmt.Fprintf(w, "    accept on %v\n", symbolText(g, g.End))
		}
		fmt.Fprintln(w)
	}
}

func symbolText(g *grammar.Grammar, sym symbol.Symbol) string {
	if text, ok := g.Symbols.ToText(sym); ok {
		return text
	}
	return sym.String()
}
