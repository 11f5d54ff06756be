package pile

import "github.com/Nemex81/solitario-classico-accessibile-sub001/internal/card"

type Role string

const (
	RoleTableau    Role = "tableau"
	RoleFoundation Role = "foundation"
	RoleWaste      Role = "waste"
	RoleStock      Role = "stock"
)

// Pile is an ordered stack of cards.
// Cards are ordered bottom-to-top (index 0 is bottom, last index is top).
type Pile struct {
	Index int
	Role  Role
	// Suit binds a foundation to one suit; empty for other roles.
	Suit  card.Suit
	cards []card.Card
}

func New(index int, role Role) *Pile {
	return &Pile{Index: index, Role: role, cards: []card.Card{}}
}

func NewFoundation(index int, suit card.Suit) *Pile {
	p := New(index, RoleFoundation)
	p.Suit = suit
	return p
}

func (p *Pile) Len() int {
	return len(p.cards)
}

func (p *Pile) IsEmpty() bool {
	return len(p.cards) == 0
}

func (p *Pile) Push(cards ...card.Card) {
	p.cards = append(p.cards, cards...)
}

func (p *Pile) Pop() (card.Card, bool) {
	n := len(p.cards)
	if n == 0 {
		return card.Card{}, false
	}
	c := p.cards[n-1]
	p.cards = p.cards[:n-1]
	return c, true
}

// Peek returns the top card without removing it.
func (p *Pile) Peek() (card.Card, bool) {
	if len(p.cards) == 0 {
		return card.Card{}, false
	}
	return p.cards[len(p.cards)-1], true
}

// Get returns the card at fromTop positions below the top (0 = top).
func (p *Pile) Get(fromTop int) (card.Card, bool) {
	i := len(p.cards) - 1 - fromTop
	if fromTop < 0 || i < 0 {
		return card.Card{}, false
	}
	return p.cards[i], true
}

// FlipTop turns the top card face up. It reports whether a card was turned.
func (p *Pile) FlipTop() bool {
	n := len(p.cards)
	if n == 0 || p.cards[n-1].FaceUp {
		return false
	}
	p.cards[n-1].FaceUp = true
	return true
}

// Top returns the top n cards bottom-to-top without removing them.
func (p *Pile) Top(n int) []card.Card {
	if n <= 0 || n > len(p.cards) {
		return nil
	}
	out := make([]card.Card, n)
	copy(out, p.cards[len(p.cards)-n:])
	return out
}

// TakeTop removes the top n cards and returns them bottom-to-top.
func (p *Pile) TakeTop(n int) []card.Card {
	out := p.Top(n)
	if out == nil {
		return nil
	}
	p.cards = p.cards[:len(p.cards)-n]
	return out
}

// Clear empties the pile and returns what it held, bottom-to-top.
func (p *Pile) Clear() []card.Card {
	out := p.cards
	p.cards = []card.Card{}
	return out
}

// Cards returns a copy of the pile, bottom-to-top.
func (p *Pile) Cards() []card.Card {
	out := make([]card.Card, len(p.cards))
	copy(out, p.cards)
	return out
}

// FaceUpCount is the length of the face-up suffix.
func (p *Pile) FaceUpCount() int {
	n := 0
	for i := len(p.cards) - 1; i >= 0 && p.cards[i].FaceUp; i-- {
		n++
	}
	return n
}

