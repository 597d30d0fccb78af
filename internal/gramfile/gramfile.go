// Package gramfile is the external collaborator spec.md §6 describes:
// it parses the grammar file surface syntax
//
//	HEAD : body1 | body2 | ... ;
//
// (productions may span multiple lines; an empty alternative, such as
// `HEAD : ;` or two adjacent `|`, denotes an epsilon-production) and
// hands the result to internal/grammar.Builder. It is intentionally
// simple — a single-character token per symbol is the common case,
// and tokens are whitespace-separated — matching the scope spec.md §1
// assigns to the grammar *file* parser: it is not part of the core's
// tested invariants, it only has to produce a Builder the core can
// call Build() on.
package gramfile

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-parsekit/lrcanon/internal/grammar"
)

// Error reports a malformed grammar file.
type Error struct {
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("grammar file: %v", e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func tokenize(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	sc.Buffer(make([]byte, 4096), 1<<20)

	var toks []string
	for sc.Scan() {
		toks = append(toks, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return toks, nil
}

// Load reads grammar source from r and builds a *grammar.Grammar.
// The head of the first production block becomes the grammar's start
// symbol, per spec.md §6 ("The first block's head is START unless an
// explicit start name is given.").
func Load(r io.Reader) (*grammar.Grammar, error) {
	toks, err := tokenize(r)
	if err != nil {
		return nil, &Error{Cause: err}
	}
	if len(toks) == 0 {
		return nil, &Error{Cause: fmt.Errorf("empty grammar")}
	}

	b := grammar.NewBuilder()
	i := 0
	for i < len(toks) {
		head := toks[i]
		i++
		if i >= len(toks) || toks[i] != ":" {
			return nil, &Error{Cause: fmt.Errorf("expected ':' after %q", head)}
		}
		i++

		for {
			var body []string
			for i < len(toks) && toks[i] != "|" && toks[i] != ";" {
				body = append(body, toks[i])
				i++
			}
			if i >= len(toks) {
				return nil, &Error{Cause: fmt.Errorf("unterminated production block for %q", head)}
			}
			if err := b.AddProduction(head, body); err != nil {
				return nil, &Error{Cause: err}
			}
			if toks[i] == ";" {
				i++
				break
			}
			i++ // consume "|"
		}
	}

	g, err := b.Build()
	if err != nil {
		return nil, &Error{Cause: err}
	}
	return g, nil
}
