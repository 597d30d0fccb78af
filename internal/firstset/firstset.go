// Package firstset computes the two LL(1) auxiliary predicates over a
// grammar: DERIVES-EPSILON (nullability) and FIRST, for arbitrary
// symbol sequences. Both are memoized per non-terminal and computed
// to a fixed point by the worklist-until-no-change strategy spec.md
// §4.1 describes.
package firstset

import (
	"github.com/go-parsekit/lrcanon/internal/grammar"
	"github.com/go-parsekit/lrcanon/internal/symbol"
)

// Engine binds to a Grammar and caches Nullable/First by symbol. An
// Engine is built once and is read-only afterward; two Engines built
// over the same Grammar produce identical results, but an Engine is
// not safe for concurrent use during construction.
type Engine struct {
	g        *grammar.Grammar
	nullable map[symbol.Symbol]bool
	first    map[symbol.Symbol]map[symbol.Symbol]struct{}
}

// New builds an Engine for g, computing Nullable and First eagerly to
// their fixed points.
func New(g *grammar.Grammar) *Engine {
	e := &Engine{
		g:        g,
		nullable: map[symbol.Symbol]bool{},
		first:    map[symbol.Symbol]map[symbol.Symbol]struct{}{},
	}
	for _, nt := range g.NonTerminals() {
		e.nullable[nt] = false
		e.first[nt] = map[symbol.Symbol]struct{}{}
	}
	e.computeNullable()
	e.computeFirst()
	return e
}

// computeNullable runs the fixed-point pass for nullability. A
// non-terminal currently under evaluation never contributes truth to
// itself: every non-terminal starts false and is only marked nullable
// once some body is nullable under the values established so far
// (updated in place, so later non-terminals in a pass see earlier
// updates), so mutual and self-recursion can't prematurely mark
// anything nullable.
func (e *Engine) computeNullable() {
	for {
		changed := false
		for _, nt := range e.g.NonTerminals() {
			if e.nullable[nt] {
				continue
			}
			for _, p := range e.g.Productions(nt) {
				if e.bodyNullable(p.Body) {
					e.nullable[nt] = true
					changed = true
					break
				}
			}
		}
		if !changed {
			return
		}
	}
}

func (e *Engine) bodyNullable(body []symbol.Symbol) bool {
	for _, s := range body {
		if s.IsTerminal() {
			return false
		}
		if !e.nullable[s] {
			return false
		}
	}
	return true
}

// computeFirst runs the fixed-point pass for FIRST, assuming
// computeNullable has already converged.
func (e *Engine) computeFirst() {
	for {
		changed := false
		for _, nt := range e.g.NonTerminals() {
			acc := e.first[nt]
			for _, p := range e.g.Productions(nt) {
				if e.mergeSequenceFirst(acc, p.Body) {
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}

// mergeSequenceFirst merges first(body) into acc and reports whether
// acc grew. first(body) is the union of first(s1)...first(sk) where k
// is the largest prefix of all-nullable symbols, following the rule
// of spec.md §4.1.
func (e *Engine) mergeSequenceFirst(acc map[symbol.Symbol]struct{}, body []symbol.Symbol) bool {
	changed := false
	for _, s := range body {
		if s.IsTerminal() {
			if _, ok := acc[s]; !ok {
				acc[s] = struct{}{}
				changed = true
			}
			return changed
		}
		for t := range e.first[s] {
			if _, ok := acc[t]; !ok {
				acc[t] = struct{}{}
				changed = true
			}
		}
		if !e.nullable[s] {
			return changed
		}
	}
	return changed
}

func (e *Engine) symbolKnown(s symbol.Symbol) bool {
	if s.IsTerminal() {
		_, ok := e.g.Symbols.ToText(s)
		return ok
	}
	_, ok := e.first[s]
	return ok
}

// DerivesEpsilon reports whether every symbol of the sequence is
// nullable. The empty sequence is nullable by definition (identity
// under conjunction).
func (e *Engine) DerivesEpsilon(seq ...symbol.Symbol) (bool, error) {
	for _, s := range seq {
		if !e.symbolKnown(s) {
			return false, &grammar.Error{Cause: unknownSymbolErr(s)}
		}
		if s.IsTerminal() {
			return false, nil
		}
		if !e.nullable[s] {
			return false, nil
		}
	}
	return true, nil
}

// First returns the set of terminals that can begin a derivation of
// the sequence: the union of first(s1)...first(sk), where k is the
// largest prefix of nullable symbols, including every term if the
// whole sequence is nullable. The empty sequence has an empty FIRST
// set. Epsilon is never a member of the result.
func (e *Engine) First(seq ...symbol.Symbol) (map[symbol.Symbol]struct{}, error) {
	acc := map[symbol.Symbol]struct{}{}
	for _, s := range seq {
		if !e.symbolKnown(s) {
			return nil, &grammar.Error{Cause: unknownSymbolErr(s)}
		}
		if s.IsTerminal() {
			acc[s] = struct{}{}
			return acc, nil
		}
		for t := range e.first[s] {
			acc[t] = struct{}{}
		}
		if !e.nullable[s] {
			return acc, nil
		}
	}
	return acc, nil
}

func unknownSymbolErr(s symbol.Symbol) error {
	return unknownSymbolError{sym: s}
}

type unknownSymbolError struct {
	sym symbol.Symbol
}

func (e unknownSymbolError) Error() string {
	return "symbol not in the grammar: " + e.sym.String()
}
