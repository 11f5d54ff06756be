package game

import (
	"errors"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/rules"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/table"
)

var (
	ErrInvalidMove       = errors.New("invalid move")
	ErrNotMovableRun     = errors.New("cards are not a movable run")
	ErrCoveredCard       = errors.New("card is covered")
	ErrGameNotInProgress = errors.New("no game in progress")
	ErrNoLegalFoundation = errors.New("no foundation accepts this card")
	ErrInvalidPile       = errors.New("pile cannot take part in this move")
	ErrInvalidEndReason  = errors.New("unknown end reason")
	ErrReentrant         = errors.New("game operation already in progress")

	ErrNoCardsAvailable = table.ErrNoCardsAvailable
)

var reasonCodes = []struct {
	err  error
	code string
}{
	{rules.ErrWrongColor, "wrong_color"},
	{rules.ErrWrongValue, "wrong_value"},
	{rules.ErrNeedsKing, "needs_king"},
	{rules.ErrNeedsAce, "needs_ace"},
	{rules.ErrSuitMismatch, "suit_mismatch"},
	{rules.ErrFaceDown, "face_down"},
	{rules.ErrNotARun, "not_a_run"},
	{rules.ErrEmptySource, "empty_source"},
	{rules.ErrOneAtATime, "one_at_a_time"},
	{ErrCoveredCard, "covered_card"},
	{ErrNotMovableRun, "not_movable_run"},
	{ErrInvalidPile, "invalid_pile"},
	{ErrNoCardsAvailable, "no_cards"},
	{ErrNoLegalFoundation, "no_legal_foundation"},
	{ErrGameNotInProgress, "game_not_in_progress"},
}

// ReasonCode is the stable key carried by InvalidMove events. The most
// specific reason wins.
func ReasonCode(err error) string {
	for _, rc := range reasonCodes {
		if errors.Is(err, rc.err) {
			return rc.code
		}
	}
	return "invalid_move"
}
