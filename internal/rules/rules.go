package rules

import (
	"errors"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/card"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/pile"
)

// Reasons a placement is refused. They are wrapped by the game service so the
// announcer can say why a move failed.
var (
	ErrWrongColor   = errors.New("card must be of the opposite color")
	ErrWrongValue   = errors.New("card value does not follow")
	ErrNeedsKing    = errors.New("empty pile accepts only a King")
	ErrNeedsAce     = errors.New("empty foundation accepts only an Ace")
	ErrSuitMismatch = errors.New("foundation suit does not match")
	ErrFaceDown     = errors.New("card is face down")
	ErrNotARun      = errors.New("cards do not form a descending alternating run")
	ErrEmptySource  = errors.New("no cards to move")
	ErrOneAtATime   = errors.New("foundation takes one card at a time")
)

// Rules evaluates Klondike placement rules for one deck profile. Every
// method is a pure function of its arguments.
type Rules struct {
	profile deck.Profile
}

func New(profile deck.Profile) Rules {
	return Rules{profile: profile}
}

func (r Rules) Profile() deck.Profile {
	return r.profile
}

// CheckTableau reports why c cannot rest on target, or nil.
func (r Rules) CheckTableau(c card.Card, target *pile.Pile) error {
	top, ok := target.Peek()
	if !ok {
		if !r.profile.IsKing(c) {
			return ErrNeedsKing
		}
		return nil
	}
	if !top.FaceUp {
		return ErrFaceDown
	}
	if top.Color() == c.Color() {
		return ErrWrongColor
	}
	if top.Value != c.Value+1 {
		return ErrWrongValue
	}
	return nil
}

func (r Rules) CanPlaceOnTableau(c card.Card, target *pile.Pile) bool {
	return r.CheckTableau(c, target) == nil
}

// CheckFoundation reports why c cannot go on foundation f, or nil. A
// foundation bound to a suit only accepts that suit.
func (r Rules) CheckFoundation(c card.Card, f *pile.Pile) error {
	if f.Suit != "" && c.Suit != f.Suit {
		return ErrSuitMismatch
	}
	top, ok := f.Peek()
	if !ok {
		if !c.IsAce() {
			return ErrNeedsAce
		}
		return nil
	}
	if top.Suit != c.Suit {
		return ErrSuitMismatch
	}
	if c.Value != top.Value+1 {
		return ErrWrongValue
	}
	return nil
}

func (r Rules) CanPlaceOnFoundation(c card.Card, f *pile.Pile) bool {
	return r.CheckFoundation(c, f) == nil
}

// IsValidRun takes cards bottom-to-top. Each card must be face up and sit one
// value below the card under it, in the other color.
func IsValidRun(cards []card.Card) bool {
	for i, c := range cards {
		if !c.FaceUp {
			return false
		}
		if i == 0 {
			continue
		}
		upper := cards[i-1]
		if upper.Color() == c.Color() || c.Value != upper.Value-1 {
			return false
		}
	}
	return true
}

// CheckSequence validates moving cards (bottom-to-top) onto target.
func (r Rules) CheckSequence(cards []card.Card, target *pile.Pile) error {
	if len(cards) == 0 {
		return ErrEmptySource
	}
	if !IsValidRun(cards) {
		return ErrNotARun
	}
	return r.CheckTableau(cards[0], target)
}

func (r Rules) CanMoveSequence(cards []card.Card, target *pile.Pile) bool {
	return r.CheckSequence(cards, target) == nil
}

// MovableCards returns the face-up suffix of p when it forms a valid run,
// bottom-to-top. Anything else yields nil.
func MovableCards(p *pile.Pile) []card.Card {
	n := p.FaceUpCount()
	if n == 0 {
		return nil
	}
	run := p.Top(n)
	if !IsValidRun(run) {
		return nil
	}
	return run
}

func (r Rules) IsFoundationComplete(f *pile.Pile) bool {
	top, ok := f.Peek()
	return ok && r.profile.IsKing(top)
}

// IsCompleteFoundation checks the whole Ace to King run, not just the top.
func (r Rules) IsCompleteFoundation(f *pile.Pile) bool {
	if f.Len() != r.profile.RankCount() || !r.IsFoundationComplete(f) {
		return false
	}
	return IsFoundationRun(f.Cards(), f.Suit)
}

// IsFoundationRun reports whether cards form a contiguous Ace-up run of one
// suit. An empty slice is a valid run.
func IsFoundationRun(cards []card.Card, suit card.Suit) bool {
	for i, c := range cards {
		if c.Value != i+1 {
			return false
		}
		if suit != "" && c.Suit != suit {
			return false
		}
		if i > 0 && c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

func (r Rules) IsVictory(foundations []*pile.Pile) bool {
	if len(foundations) != len(r.profile.Suits) {
		return false
	}
	for _, f := range foundations {
		if !r.IsCompleteFoundation(f) {
			return false
		}
	}
	return true
}

// Reason unwraps err to the first rule reason it carries, or nil.
func Reason(err error) error {
	for _, reason := range []error{
		ErrWrongColor, ErrWrongValue, ErrNeedsKing, ErrNeedsAce,
		ErrSuitMismatch, ErrFaceDown, ErrNotARun, ErrEmptySource, ErrOneAtATime,
	} {
		if errors.Is(err, reason) {
			return reason
		}
	}
	return nil
}
