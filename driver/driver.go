// Package driver implements the table-driven shift/reduce/accept
// parser of spec.md §4.5: a stack machine over a pre-built ACTION/GOTO
// table and an input sequence already terminated by END.
package driver

import (
	"github.com/go-parsekit/lrcanon/internal/lr"
	"github.com/go-parsekit/lrcanon/internal/symbol"
)

// Trace, when passed to Parse, is invoked once per loop iteration
// before the driver consults ACTION, with the current state stack and
// the lookahead symbol at the head of the input. It is the opt-in
// debugging hook spec.md §1 carves out as an external collaborator;
// the driver itself stays silent and side-effect-free without one.
type Trace func(stack []lr.StateNum, lookahead symbol.Symbol)

// Parser holds only the table it drives and the END terminal that
// marks input termination; the transient state of one parse (the
// state stack and input position) lives inside each Parse call. A
// Parser is reusable across calls to Parse — a failed parse leaves it
// exactly as it was before the call.
type Parser struct {
	table *lr.Table
	end   symbol.Symbol
}

// New returns a Parser that drives table, recognizing end as the
// input-termination sentinel.
func New(table *lr.Table, end symbol.Symbol) *Parser {
	return &Parser{table: table, end: end}
}

// Parse recognizes input, which must already end with the END
// terminal. It returns nil on ACCEPT, or an *Error identifying the
// offending state and symbol otherwise. The driver never looks past
// the head of input until it shifts, and distinguishes accept from
// error strictly by the table's distinguished ACCEPT action — it
// never relies on input exhaustion.
func (p *Parser) Parse(input []symbol.Symbol, trace Trace) error {
	stack := []lr.StateNum{p.table.Initial}
	pos := 0

	for {
		state := stack[len(stack)-1]
		lookahead := input[pos]

		if trace != nil {
			trace(stack, lookahead)
		}

		act := p.table.Action(state, lookahead)
		switch act.Kind {
		case lr.ActionShift:
			stack = append(stack, act.Shift)
			pos++

		case lr.ActionReduce:
			n := act.Reduce.Len()
			stack = stack[:len(stack)-n]
			top := stack[len(stack)-1]
			next, ok := p.table.Goto(top, act.Reduce.Head)
			if !ok {
				return &Error{Message: "no transition", State: top, Symbol: act.Reduce.Head}
			}
			stack = append(stack, next)

		case lr.ActionAccept:
			return nil

		default:
			return &Error{Message: "no action", State: state, Symbol: lookahead}
		}
	}
}
