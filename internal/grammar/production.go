package grammar

import (
	"crypto/sha256"
	"fmt"

	"github.com/go-parsekit/lrcanon/internal/symbol"
)

// ID content-hashes a production's (head, body) pair, so two
// productions built from the same symbols always compare equal and
// collapse to the same arena entry.
type ID [32]byte

func (id ID) String() string {
	return fmt.Sprintf("%x", id[:4])
}

func genID(head symbol.Symbol, body []symbol.Symbol) ID {
	b := head.Byte()
	for _, s := range body {
		b = append(b, s.Byte()...)
	}
	return sha256.Sum256(b)
}

// Num is a production's position among the productions of its
// grammar, assigned in insertion order. NumStart is reserved for the
// augmented start production.
type Num uint16

const (
	NumNil   = Num(0)
	NumStart = Num(1)
	NumMin   = Num(2)
)

// Production is an ordered pair (Head, Body). An empty Body denotes an
// epsilon-production.
type Production struct {
	id   ID
	Num  Num
	Head symbol.Symbol
	Body []symbol.Symbol
}

func newProduction(head symbol.Symbol, body []symbol.Symbol) (*Production, error) {
	if head.IsNil() {
		return nil, fmt.Errorf("a production's head must be a non-nil symbol")
	}
	for _, s := range body {
		if s.IsNil() {
			return nil, fmt.Errorf("a production's body must not contain a nil symbol; head: %v", head)
		}
	}
	return &Production{
		id:   genID(head, body),
		Head: head,
		Body: body,
	}, nil
}

// ID is the production's content hash, usable as a map key wherever a
// stable per-production identity is needed (item keys, kernel
// hashing) without pulling in the *Production pointer itself.
func (p *Production) ID() ID {
	return p.id
}

// Len is |body|.
func (p *Production) Len() int {
	return len(p.Body)
}

// IsEmpty reports whether p is an epsilon-production.
func (p *Production) IsEmpty() bool {
	return len(p.Body) == 0
}

// Set is a flat arena of productions owned by a Grammar, indexed both
// by content and by left-hand side. A non-terminal's "owned
// productions" are just Set.ByHead(that non-terminal) — there is no
// separate ownership object, matching the arena+index discipline of
// the grammar this package is modeled on.
type Set struct {
	byHead map[symbol.Symbol][]*Production
	byID   map[ID]*Production
	num    Num
}

func newSet() *Set {
	return &Set{
		byHead: map[symbol.Symbol][]*Production{},
		byID:   map[ID]*Production{},
		num:    NumMin,
	}
}

// add interns a production, returning the canonical (possibly
// pre-existing) *Production for (head, body).
func (s *Set) add(head symbol.Symbol, body []symbol.Symbol) (*Production, error) {
	prod, err := newProduction(head, body)
	if err != nil {
		return nil, err
	}
	if existing, ok := s.byID[prod.id]; ok {
		return existing, nil
	}

	if head.IsStart() {
		prod.Num = NumStart
	} else {
		prod.Num = s.num
		s.num++
	}

	s.byHead[head] = append(s.byHead[head], prod)
	s.byID[prod.id] = prod
	return prod, nil
}

// ByHead returns head's productions in insertion order.
func (s *Set) ByHead(head symbol.Symbol) []*Production {
	return s.byHead[head]
}

// ByID looks a production up by its content hash.
func (s *Set) ByID(id ID) (*Production, bool) {
	prod, ok := s.byID[id]
	return prod, ok
}

// All returns every production in the arena. Order is unspecified.
func (s *Set) All() []*Production {
	all := make([]*Production, 0, len(s.byID))
	for _, p := range s.byID {
		all = append(all, p)
	}
	return all
}
