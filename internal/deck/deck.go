package deck

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/card"
)

var (
	ErrEmptyDeck   = errors.New("deck is empty")
	ErrUnknownDeck = errors.New("unknown deck kind")
)

type Kind string

const (
	KindFrench     Kind = "french"
	KindNeapolitan Kind = "neapolitan"
)

func (k Kind) Valid() bool {
	_, ok := Profiles[k]
	return ok
}

// Figure names a court card. Figure values are the only authority on which
// numeric value a Jack, Queen, Knight or King carries in a given deck.
type Figure string

const (
	FigureJack   Figure = "jack"
	FigureQueen  Figure = "queen"
	FigureKnight Figure = "knight"
	FigureKing   Figure = "king"
)

type Rank struct {
	Name  string
	Value int
}

// Profile carries everything that differs between the two decks.
type Profile struct {
	Kind    Kind
	Name    string
	Suits   []card.Suit
	Ranks   []Rank
	Figures map[Figure]int
}

var Profiles = map[Kind]Profile{
	KindFrench: {
		Kind:  KindFrench,
		Name:  "Mazzo francese",
		Suits: []card.Suit{card.Hearts, card.Diamonds, card.Clubs, card.Spades},
		Ranks: []Rank{
			{Name: "Asso", Value: 1},
			{Name: "2", Value: 2},
			{Name: "3", Value: 3},
			{Name: "4", Value: 4},
			{Name: "5", Value: 5},
			{Name: "6", Value: 6},
			{Name: "7", Value: 7},
			{Name: "8", Value: 8},
			{Name: "9", Value: 9},
			{Name: "10", Value: 10},
			{Name: "Jack", Value: 11},
			{Name: "Regina", Value: 12},
			{Name: "Re", Value: 13},
		},
		Figures: map[Figure]int{
			FigureJack:  11,
			FigureQueen: 12,
			FigureKing:  13,
		},
	},
	KindNeapolitan: {
		Kind:  KindNeapolitan,
		Name:  "Mazzo napoletano",
		Suits: []card.Suit{card.Cups, card.Coins, card.Swords, card.Batons},
		Ranks: []Rank{
			{Name: "Asso", Value: 1},
			{Name: "2", Value: 2},
			{Name: "3", Value: 3},
			{Name: "4", Value: 4},
			{Name: "5", Value: 5},
			{Name: "6", Value: 6},
			{Name: "7", Value: 7},
			{Name: "Regina", Value: 8},
			{Name: "Cavallo", Value: 9},
			{Name: "Re", Value: 10},
		},
		Figures: map[Figure]int{
			FigureQueen:  8,
			FigureKnight: 9,
			FigureKing:   10,
		},
	},
}

func ProfileFor(kind Kind) (Profile, error) {
	p, ok := Profiles[kind]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownDeck, kind)
	}
	return p, nil
}

func (p Profile) KingValue() int {
	return p.Figures[FigureKing]
}

// IsKing consults the figure table, never a literal rank.
func (p Profile) IsKing(c card.Card) bool {
	return c.Value == p.KingValue()
}

func (p Profile) RankCount() int {
	return len(p.Ranks)
}

func (p Profile) TotalCards() int {
	return len(p.Suits) * len(p.Ranks)
}

// SuitIndex returns the position of s in the profile, or -1.
func (p Profile) SuitIndex(s card.Suit) int {
	for i, ps := range p.Suits {
		if ps == s {
			return i
		}
	}
	return -1
}

// Deck is the draw source for one game. Cards are drawn from the end of the
// slice.
type Deck struct {
	profile Profile
	rng     *rand.Rand
	cards   []card.Card
}

// New builds a full deck in (suit, rank) order with ids starting at 1.
// A nil rng falls back to a time-seeded source.
func New(kind Kind, rng *rand.Rand) (*Deck, error) {
	p, err := ProfileFor(kind)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	d := &Deck{profile: p, rng: rng}
	d.Reset()
	return d, nil
}

// Reset rebuilds all cards face down in construction order.
func (d *Deck) Reset() {
	d.cards = make([]card.Card, 0, d.profile.TotalCards())
	id := 1
	for _, s := range d.profile.Suits {
		for _, r := range d.profile.Ranks {
			d.cards = append(d.cards, card.Card{
				ID:    id,
				Rank:  r.Name,
				Value: r.Value,
				Suit:  s,
			})
			id++
		}
	}
}

func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Permute shuffles an arbitrary slice with the deck's random source, so a
// seeded game stays reproducible across recycles.
func (d *Deck) Permute(cards []card.Card) {
	d.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

func (d *Deck) DrawOne() (card.Card, error) {
	n := len(d.cards)
	if n == 0 {
		return card.Card{}, ErrEmptyDeck
	}
	c := d.cards[n-1]
	d.cards = d.cards[:n-1]
	return c, nil
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}

func (d *Deck) TotalCards() int {
	return d.profile.TotalCards()
}

func (d *Deck) IsKing(c card.Card) bool {
	return d.profile.IsKing(c)
}

func (d *Deck) Kind() Kind {
	return d.profile.Kind
}

func (d *Deck) Profile() Profile {
	return d.profile
}

// Cards returns a copy of the undrawn cards, bottom first.
func (d *Deck) Cards() []card.Card {
	out := make([]card.Card, len(d.cards))
	copy(out, d.cards)
	return out
}
