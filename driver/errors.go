package driver

import (
	"fmt"

	"github.com/go-parsekit/lrcanon/internal/lr"
	"github.com/go-parsekit/lrcanon/internal/symbol"
)

// Error reports a runtime parse failure: no ACTION entry for
// (state, lookahead), or no GOTO entry after a reduction. It is fatal
// to the current Parse call but leaves the Parser reusable for
// another call.
type Error struct {
	Message string
	State   lr.StateNum
	Symbol  symbol.Symbol
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: state %v, symbol %v", e.Message, e.State, e.Symbol)
}
