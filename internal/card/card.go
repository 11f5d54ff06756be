package card

import "fmt"

// Color is derived from the suit; two cards stack on the tableau only when
// their colors differ.
type Color string

const (
	Red   Color = "red"
	Black Color = "black"
)

// Suit covers both the French and the Neapolitan suits. A deck profile
// decides which four of them are in play.
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"

	Cups   Suit = "cups"
	Coins  Suit = "coins"
	Swords Suit = "swords"
	Batons Suit = "batons"
)

var suitColors = map[Suit]Color{
	Hearts:   Red,
	Diamonds: Red,
	Clubs:    Black,
	Spades:   Black,
	Cups:     Red,
	Coins:    Red,
	Swords:   Black,
	Batons:   Black,
}

var suitNames = map[Suit]string{
	Hearts:   "Cuori",
	Diamonds: "Quadri",
	Clubs:    "Fiori",
	Spades:   "Picche",
	Cups:     "Coppe",
	Coins:    "Denari",
	Swords:   "Spade",
	Batons:   "Bastoni",
}

// Color returns the suit color. Unknown suits are black.
func (s Suit) Color() Color {
	if c, ok := suitColors[s]; ok {
		return c
	}
	return Black
}

// Name is the localized suit name used in announcements.
func (s Suit) Name() string {
	if n, ok := suitNames[s]; ok {
		return n
	}
	return string(s)
}

func (s Suit) Valid() bool {
	_, ok := suitColors[s]
	return ok
}

// Card is a single playing card. Rank, Value, Suit and ID are fixed by the
// deck that built it; only FaceUp changes during play.
type Card struct {
	ID     int    `json:"id"`
	Rank   string `json:"rank"`
	Value  int    `json:"value"`
	Suit   Suit   `json:"suit"`
	FaceUp bool   `json:"face_up"`
}

func (c Card) Color() Color {
	return c.Suit.Color()
}

func (c Card) IsAce() bool {
	return c.Value == 1
}

func (c Card) String() string {
	return fmt.Sprintf("%s di %s", c.Rank, c.Suit.Name())
}
