// Package symbol implements the interned terminal/non-terminal symbol
// space shared by the grammar model and the LR table builders.
//
// A Symbol is a small packed value rather than a string so that
// productions, items, and item sets can use it directly as a map key
// and a hash input without re-hashing text on every comparison.
package symbol

import (
	"fmt"
	"sort"
)

// Kind distinguishes terminal symbols from non-terminal symbols. The
// two kinds occupy disjoint number spaces, so a Kind bit together with
// a Num uniquely identifies a Symbol.
type Kind uint8

const (
	KindNonTerminal Kind = iota
	KindTerminal
)

func (k Kind) String() string {
	if k == KindTerminal {
		return "terminal"
	}
	return "non-terminal"
}

// Num is the ordinal a Symbol carries within its Kind's number space.
type Num uint16

func (n Num) Int() int {
	return int(n)
}

const (
	maskKind   = uint16(0x8000)
	maskSpecial = uint16(0x4000)
	maskNum    = uint16(0x3fff)

	numStart = uint16(0x0001)
	numEOF   = uint16(0x0001)

	// NumMin is the first Num handed out to a user-defined symbol of
	// either kind; Num 0 is reserved for the nil symbol and Num 1 for
	// the special start/EOF symbol of that kind.
	NumMin = Num(0x0002)

	numMax = Num(0x3fff)
)

// Symbol is a kind-tagged, interned identifier. The zero Symbol is Nil
// and never denotes a real grammar symbol.
type Symbol uint16

const (
	Nil   = Symbol(0)
	Start = Symbol(uint16(KindNonTerminal)<<15 | maskSpecial | numStart)
	EOF   = Symbol(uint16(KindTerminal)<<15 | maskSpecial | numEOF)
)

func newSymbol(kind Kind, special bool, num Num) (Symbol, error) {
	if num > numMax {
		return Nil, fmt.Errorf("symbol number exceeds the limit; limit: %v, passed: %v", numMax, num)
	}
	var bits uint16
	if kind == KindTerminal {
		bits |= maskKind
	}
	if special {
		bits |= maskSpecial
	}
	bits |= uint16(num)
	return Symbol(bits), nil
}

func (s Symbol) decode() (Kind, bool, Num) {
	kind := KindNonTerminal
	if uint16(s)&maskKind != 0 {
		kind = KindTerminal
	}
	special := uint16(s)&maskSpecial != 0
	num := Num(uint16(s) & maskNum)
	return kind, special, num
}

func (s Symbol) Kind() Kind {
	kind, _, _ := s.decode()
	return kind
}

func (s Symbol) Num() Num {
	_, _, num := s.decode()
	return num
}

func (s Symbol) IsNil() bool {
	return s.Num() == 0
}

func (s Symbol) IsStart() bool {
	if s.IsNil() {
		return false
	}
	kind, special, _ := s.decode()
	return kind == KindNonTerminal && special
}

func (s Symbol) IsEOF() bool {
	if s.IsNil() {
		return false
	}
	kind, special, _ := s.decode()
	return kind == KindTerminal && special
}

func (s Symbol) IsTerminal() bool {
	return !s.IsNil() && s.Kind() == KindTerminal
}

func (s Symbol) IsNonTerminal() bool {
	return !s.IsNil() && s.Kind() == KindNonTerminal
}

func (s Symbol) String() string {
	if s.IsNil() {
		return "<nil>"
	}
	if s.IsEOF() {
		return "<eof>"
	}
	var prefix string
	switch {
	case s.IsStart():
		prefix = "s"
	case s.IsTerminal():
		prefix = "t"
	default:
		prefix = "n"
	}
	return fmt.Sprintf("%v%v", prefix, s.Num())
}

// Byte returns the big-endian encoding of s, used to feed symbols into
// content hashes (production IDs, item-set IDs).
func (s Symbol) Byte() []byte {
	return []byte{byte(uint16(s) >> 8), byte(uint16(s))}
}

// Table interns symbol names. Terminal and non-terminal names live in
// disjoint spaces: a name may be registered as at most one kind, but a
// terminal named "x" and a non-terminal named "x" would collide in the
// text index: registering a name already known returns the existing
// Symbol whatever its kind. grammar.Builder avoids the clash by
// registering every rule head as a non-terminal before interning any
// terminal.
type Table struct {
	textToSym map[string]Symbol
	symToText map[Symbol]string
	termNum   Num
	nonTermNum Num
}

// NewTable returns a Table pre-seeded with the EOF terminal, matching
// spec's requirement that END is always a terminal of the grammar.
func NewTable() *Table {
	return &Table{
		textToSym:  map[string]Symbol{"<eof>": EOF},
		symToText:  map[Symbol]string{EOF: "<eof>"},
		termNum:    NumMin,
		nonTermNum: NumMin,
	}
}

// RegisterStart interns the augmented start non-terminal. It must be
// called at most once per Table.
func (t *Table) RegisterStart(text string) Symbol {
	t.textToSym[text] = Start
	t.symToText[Start] = text
	return Start
}

// RegisterNonTerminal interns a non-terminal name, returning the
// existing Symbol if the name is already known.
func (t *Table) RegisterNonTerminal(text string) (Symbol, error) {
	if sym, ok := t.textToSym[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(KindNonTerminal, false, t.nonTermNum)
	if err != nil {
		return Nil, err
	}
	t.nonTermNum++
	t.textToSym[text] = sym
	t.symToText[sym] = text
	return sym, nil
}

// RegisterTerminal interns a terminal name, returning the existing
// Symbol if the name is already known.
func (t *Table) RegisterTerminal(text string) (Symbol, error) {
	if sym, ok := t.textToSym[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(KindTerminal, false, t.termNum)
	if err != nil {
		return Nil, err
	}
	t.termNum++
	t.textToSym[text] = sym
	t.symToText[sym] = text
	return sym, nil
}

func (t *Table) ToSymbol(text string) (Symbol, bool) {
	sym, ok := t.textToSym[text]
	return sym, ok
}

func (t *Table) ToText(sym Symbol) (string, bool) {
	text, ok := t.symToText[sym]
	return text, ok
}

// Terminals returns every interned terminal, including EOF, in
// ascending Symbol order: user terminals by Num, then EOF.
func (t *Table) Terminals() []Symbol {
	return t.symbolsOfKind(KindTerminal)
}

// NonTerminals returns every interned non-terminal, including the
// augmented start symbol, in ascending Symbol order: user
// non-terminals by Num, then the start symbol.
func (t *Table) NonTerminals() []Symbol {
	return t.symbolsOfKind(KindNonTerminal)
}

func (t *Table) symbolsOfKind(kind Kind) []Symbol {
	syms := make([]Symbol, 0, len(t.symToText))
	for sym := range t.symToText {
		if sym.IsNil() || sym.Kind() != kind {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}
