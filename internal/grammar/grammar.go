// Package grammar implements the grammar data model of a context-free
// grammar: interned symbols, a production arena, and the augmented
// Grammar container the LR table builders consume.
//
// Building a Grammar from grammar-file text is not this package's job
// (that is internal/gramfile's, an external collaborator per the
// surface-syntax split): Builder only knows about head/body symbol
// names, and performs augmentation — introducing a fresh start
// non-terminal with a single production yielding the caller's
// original start symbol — the way a loader is expected to.
package grammar

import (
	"github.com/go-parsekit/lrcanon/internal/symbol"
)

// Grammar is a read-only-after-construction container: the interned
// symbol table, the production arena, the designated (augmented)
// start non-terminal, the END terminal, and START's sole production.
type Grammar struct {
	Symbols   *symbol.Table
	Prods     *Set
	Start     symbol.Symbol
	End       symbol.Symbol
	StartProd *Production
}

// NonTerminals returns every non-terminal of the grammar, including
// the augmented start symbol.
func (g *Grammar) NonTerminals() []symbol.Symbol {
	return g.Symbols.NonTerminals()
}

// Terminals returns every terminal of the grammar, including END.
func (g *Grammar) Terminals() []symbol.Symbol {
	return g.Symbols.Terminals()
}

// Productions returns head's productions in insertion order.
func (g *Grammar) Productions(head symbol.Symbol) []*Production {
	return g.Prods.ByHead(head)
}

// New assembles a Grammar from an already-augmented symbol table and
// production arena, checking the invariants spec.md §3 lists:
// START has exactly one production, that production's head is START,
// and END never appears in a production body.
func New(symbols *symbol.Table, prods *Set, start symbol.Symbol, end symbol.Symbol) (*Grammar, error) {
	if !start.IsStart() {
		return nil, errorf("start symbol %v is not a designated start non-terminal", start)
	}
	if !end.IsEOF() {
		return nil, errorf("end symbol %v is not the designated EOF terminal", end)
	}

	startProds := prods.ByHead(start)
	if len(startProds) != 1 {
		return nil, errorf("the start non-terminal must have exactly one production, found %v", len(startProds))
	}
	startProd := startProds[0]
	if startProd.Head != start {
		return nil, errorf("the start production's head is not the start symbol")
	}

	for _, p := range prods.All() {
		for _, s := range p.Body {
			if s == end {
				return nil, errorf("END must not appear in a production body; production head: %v", p.Head)
			}
		}
	}

	return &Grammar{
		Symbols:   symbols,
		Prods:     prods,
		Start:     start,
		End:       end,
		StartProd: startProd,
	}, nil
}

// rule is one raw textual alternative collected by a Builder before
// symbols are interned.
type rule struct {
	head string
	body []string
}

// Builder assembles a Grammar from head/body symbol names, performing
// augmentation itself: whichever non-terminal is designated the start
// symbol (explicitly via SetStart, or implicitly the head of the
// first rule added) becomes the body of a synthesized production
// `<start>' -> <start>`, and the fresh non-terminal `<start>'` becomes
// Grammar.Start.
type Builder struct {
	rules         []rule
	explicitStart string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetStart designates the grammar's (pre-augmentation) start
// non-terminal explicitly. If never called, the head of the first
// rule added via AddProduction plays that role.
func (b *Builder) SetStart(name string) {
	b.explicitStart = name
}

// AddProduction records one alternative `head : body...`. An empty
// body denotes an epsilon-production.
func (b *Builder) AddProduction(head string, body []string) error {
	if head == "" {
		return errorf("a production's head must not be empty")
	}
	b.rules = append(b.rules, rule{head: head, body: append([]string(nil), body...)})
	return nil
}

// Build interns every symbol named by the recorded rules, augments
// the grammar, and returns the resulting Grammar.
func (b *Builder) Build() (*Grammar, error) {
	if len(b.rules) == 0 {
		return nil, errorf("a grammar must have at least one production")
	}

	startText := b.explicitStart
	if startText == "" {
		startText = b.rules[0].head
	}

	heads := map[string]bool{}
	var headOrder []string
	for _, r := range b.rules {
		if !heads[r.head] {
			heads[r.head] = true
			headOrder = append(headOrder, r.head)
		}
	}
	if !heads[startText] {
		return nil, errorf("start symbol %q is not the head of any production", startText)
	}

	symbols := symbol.NewTable()
	prods := newSet()

	origStartSym, err := symbols.RegisterNonTerminal(startText)
	if err != nil {
		return nil, &Error{Cause: err}
	}
	augmentedStartSym := symbols.RegisterStart(startText + "'")
	if _, err := prods.add(augmentedStartSym, []symbol.Symbol{origStartSym}); err != nil {
		return nil, &Error{Cause: err}
	}

	for _, head := range headOrder {
		if head == startText {
			continue
		}
		if _, err := symbols.RegisterNonTerminal(head); err != nil {
			return nil, &Error{Cause: err}
		}
	}

	for _, r := range b.rules {
		head, ok := symbols.ToSymbol(r.head)
		if !ok {
			return nil, errorf("unregistered head: %v", r.head)
		}
		body := make([]symbol.Symbol, 0, len(r.body))
		for _, text := range r.body {
			var sym symbol.Symbol
			if heads[text] {
				sym, ok = symbols.ToSymbol(text)
				if !ok {
					return nil, errorf("unregistered non-terminal: %v", text)
				}
			} else {
				sym, err = symbols.RegisterTerminal(text)
				if err != nil {
					return nil, &Error{Cause: err}
				}
			}
			body = append(body, sym)
		}
		if _, err := prods.add(head, body); err != nil {
			return nil, &Error{Cause: err}
		}
	}

	return New(symbols, prods, augmentedStartSym, symbol.EOF)
}
