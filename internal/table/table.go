package table

import (
	"errors"
	"fmt"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/card"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/pile"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/rules"
)

var ErrNoCardsAvailable = errors.New("no cards available in stock or waste")

// Pile addressing: tableau 0..6, foundations 7..10, waste 11, stock 12.
const (
	NumTableau      = 7
	NumFoundations  = 4
	NumPiles        = 13
	FirstFoundation = NumTableau
	WasteIndex      = FirstFoundation + NumFoundations
	StockIndex      = WasteIndex + 1
)

func IsTableau(i int) bool    { return i >= 0 && i < NumTableau }
func IsFoundation(i int) bool { return i >= FirstFoundation && i < WasteIndex }
func IsValidIndex(i int) bool { return i >= 0 && i < NumPiles }

// Table owns the thirteen piles of one game.
type Table struct {
	deck  *deck.Deck
	rules rules.Rules
	piles [NumPiles]*pile.Pile
}

// New lays out empty piles for d. Foundations are bound to the deck's suits
// in profile order.
func New(d *deck.Deck) *Table {
	t := &Table{deck: d, rules: rules.New(d.Profile())}
	for i := 0; i < NumTableau; i++ {
		t.piles[i] = pile.New(i, pile.RoleTableau)
	}
	for i, s := range d.Profile().Suits {
		t.piles[FirstFoundation+i] = pile.NewFoundation(FirstFoundation+i, s)
	}
	t.piles[WasteIndex] = pile.New(WasteIndex, pile.RoleWaste)
	t.piles[StockIndex] = pile.New(StockIndex, pile.RoleStock)
	return t
}

func (t *Table) Deck() *deck.Deck   { return t.deck }
func (t *Table) Rules() rules.Rules { return t.rules }

// Pile returns the pile at index i, or nil when i is out of range.
func (t *Table) Pile(i int) *pile.Pile {
	if !IsValidIndex(i) {
		return nil
	}
	return t.piles[i]
}

func (t *Table) Tableau(i int) *pile.Pile    { return t.piles[i] }
func (t *Table) Foundation(i int) *pile.Pile { return t.piles[FirstFoundation+i] }
func (t *Table) Waste() *pile.Pile           { return t.piles[WasteIndex] }
func (t *Table) Stock() *pile.Pile           { return t.piles[StockIndex] }

func (t *Table) Foundations() []*pile.Pile {
	out := make([]*pile.Pile, NumFoundations)
	copy(out, t.piles[FirstFoundation:WasteIndex])
	return out
}

// Deal resets and shuffles the deck, then deals 1..7 cards to the tableau
// with only the last card of each pile face up. Whatever remains goes to
// the stock face down.
func (t *Table) Deal() {
	for _, p := range t.piles {
		p.Clear()
	}
	t.deck.Reset()
	t.deck.Shuffle()

	for i := 0; i < NumTableau; i++ {
		for j := 0; j <= i; j++ {
			t.piles[i].Push(t.mustDraw())
		}
		t.piles[i].FlipTop()
	}

	remaining := t.deck.TotalCards() - NumTableau*(NumTableau+1)/2
	for i := 0; i < remaining; i++ {
		t.Stock().Push(t.mustDraw())
	}
}

func (t *Table) mustDraw() card.Card {
	c, err := t.deck.DrawOne()
	if err != nil {
		panic(fmt.Sprintf("table: deal underflow: %v", err))
	}
	c.FaceUp = false
	return c
}

// DrawResult describes one draw request.
type DrawResult struct {
	Drawn    []card.Card
	Recycled int
}

// Draw moves up to count cards from stock to waste face up; the first card
// drawn ends on top of the waste. An empty stock is refilled from the waste
// and exactly one card is drawn at once.
func (t *Table) Draw(count int, shuffleDiscards bool) (DrawResult, error) {
	stock, waste := t.Stock(), t.Waste()
	if stock.IsEmpty() && waste.IsEmpty() {
		return DrawResult{}, ErrNoCardsAvailable
	}

	var res DrawResult
	if stock.IsEmpty() {
		res.Recycled = t.Recycle(shuffleDiscards)
		count = 1
	}
	if count < 1 {
		count = 1
	}

	drawn := make([]card.Card, 0, count)
	for i := 0; i < count; i++ {
		c, ok := stock.Pop()
		if !ok {
			break
		}
		c.FaceUp = true
		drawn = append(drawn, c)
	}
	for i := len(drawn) - 1; i >= 0; i-- {
		waste.Push(drawn[i])
	}
	res.Drawn = drawn
	return res, nil
}

// Recycle turns the waste back into the stock: shuffled when shuffle is set,
// otherwise reversed so the stock replays in the original order. It returns
// the number of cards moved.
func (t *Table) Recycle(shuffle bool) int {
	buf := t.Waste().Clear()
	if shuffle {
		t.deck.Permute(buf)
	} else {
		for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}
	for i := range buf {
		buf[i].FaceUp = false
	}
	t.Stock().Push(buf...)
	return len(buf)
}

// UncoverTop flips the top of a tableau pile when it is face down.
func (t *Table) UncoverTop(i int) (card.Card, bool) {
	p := t.Pile(i)
	if p == nil || p.Role != pile.RoleTableau || !p.FlipTop() {
		return card.Card{}, false
	}
	c, _ := p.Peek()
	return c, true
}

func (t *Table) CardCount() int {
	n := 0
	for _, p := range t.piles {
		n += p.Len()
	}
	return n
}

func (t *Table) FoundationCards() int {
	n := 0
	for _, f := range t.Foundations() {
		n += f.Len()
	}
	return n
}

func (t *Table) IsVictory() bool {
	return t.rules.IsVictory(t.Foundations())
}

// Verify checks the layout invariants: every card in exactly one pile,
// foundations built Ace-up in their suit, tableau face-up suffixes forming
// valid runs, stock face down and waste face up.
func (t *Table) Verify() error {
	seen := make(map[int]int, t.deck.TotalCards())
	for _, p := range t.piles {
		for _, c := range p.Cards() {
			if prev, dup := seen[c.ID]; dup {
				return fmt.Errorf("card %d in piles %d and %d", c.ID, prev, p.Index)
			}
			seen[c.ID] = p.Index
		}
	}
	if len(seen) != t.deck.TotalCards() {
		return fmt.Errorf("card count %d, want %d", len(seen), t.deck.TotalCards())
	}

	for _, f := range t.Foundations() {
		if !rules.IsFoundationRun(f.Cards(), f.Suit) {
			return fmt.Errorf("foundation %d is not an Ace-up run of %s", f.Index, f.Suit)
		}
	}
	for i := 0; i < NumTableau; i++ {
		p := t.piles[i]
		if !rules.IsValidRun(p.Top(p.FaceUpCount())) {
			return fmt.Errorf("tableau %d face-up cards are not a run", i)
		}
	}
	for _, c := range t.Stock().Cards() {
		if c.FaceUp {
			return fmt.Errorf("stock card %d is face up", c.ID)
		}
	}
	for _, c := range t.Waste().Cards() {
		if !c.FaceUp {
			return fmt.Errorf("waste card %d is face down", c.ID)
		}
	}
	return nil
}

// MustVerify panics on a broken invariant. Legal play never triggers it.
func (t *Table) MustVerify() {
	if err := t.Verify(); err != nil {
		panic("table invariant violated: " + err.Error())
	}
}

// Restore replaces the cards of every pile. It exists so tests and saved
// positions can build exact layouts; the result must still pass Verify.
func (t *Table) Restore(layout [NumPiles][]card.Card) error {
	for i, cards := range layout {
		t.piles[i].Clear()
		t.piles[i].Push(cards...)
	}
	return t.Verify()
}
