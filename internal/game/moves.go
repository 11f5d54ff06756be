package game

import (
	"fmt"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/card"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/rules"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/scoring"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/table"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/telemetry"
)

// MoveResult describes an applied move. Cards are bottom-to-top.
type MoveResult struct {
	Source     int         `json:"source"`
	Dest       int         `json:"dest"`
	Cards      []card.Card `json:"cards"`
	Uncovered  *card.Card  `json:"uncovered,omitempty"`
	ScoreDelta int         `json:"score_delta"`
	Victory    bool        `json:"victory"`
}

// Draw turns cards from the stock to the waste. An empty stock is refilled
// from the waste and one card is drawn in the same call.
func (s *Service) Draw() (table.DrawResult, error) {
	if err := s.begin(); err != nil {
		return table.DrawResult{}, s.refuse(table.StockIndex, table.WasteIndex, 0, err)
	}
	defer s.done()

	res, err := s.table.Draw(s.settings.DrawCount, s.settings.ShuffleDiscards)
	if err != nil {
		return table.DrawResult{}, s.invalid(table.StockIndex, table.WasteIndex, 0, err)
	}

	if res.Recycled > 0 {
		s.recycles++
		s.pub.Publish(telemetry.Move(telemetry.EventWasteRecycled, table.WasteIndex, table.StockIndex, 0, telemetry.EventMetadata{
			"count":    res.Recycled,
			"shuffled": s.settings.ShuffleDiscards,
		}))
		s.scoreWarning(scoring.ActionRecycle, s.scorer.Record(scoring.ActionRecycle))
	}

	s.draws++
	s.cursor.DropSelection()
	top, _ := s.table.Waste().Peek()
	s.pub.Publish(telemetry.Move(telemetry.EventStockDraw, table.StockIndex, table.WasteIndex, top.ID, telemetry.EventMetadata{
		"count":      len(res.Drawn),
		"cards":      append([]card.Card(nil), res.Drawn...),
		"recycled":   res.Recycled > 0,
		"stock_left": s.table.Stock().Len(),
	}))
	if s.table.Stock().IsEmpty() {
		s.pub.Publish(telemetry.At(telemetry.EventCardExhausted, table.StockIndex, telemetry.EventMetadata{
			"waste_len": s.table.Waste().Len(),
		}))
	}

	s.table.MustVerify()
	return res, nil
}

// Move dispatches on the source pile role.
func (s *Service) Move(src, fromTop, dst int) (MoveResult, error) {
	switch {
	case src == table.WasteIndex:
		if fromTop != 0 {
			return MoveResult{}, s.invalidUnguarded(src, dst, 0, fmt.Errorf("%w: only the top of the waste moves", ErrCoveredCard))
		}
		return s.MoveWasteTo(dst)
	case table.IsTableau(src):
		return s.MoveTableauTo(src, fromTop, dst)
	case table.IsFoundation(src):
		if fromTop != 0 {
			return MoveResult{}, s.invalidUnguarded(src, dst, 0, fmt.Errorf("%w: only the top of a foundation moves", ErrCoveredCard))
		}
		return s.MoveFoundationToTableau(src, dst)
	}
	return MoveResult{}, s.invalidUnguarded(src, dst, 0, fmt.Errorf("%w: source %d", ErrInvalidPile, src))
}

// MoveWasteTo plays the top of the waste onto a tableau pile or a
// foundation.
func (s *Service) MoveWasteTo(dst int) (MoveResult, error) {
	if err := s.begin(); err != nil {
		return MoveResult{}, s.refuse(table.WasteIndex, dst, 0, err)
	}
	defer s.done()
	return s.moveWaste(dst)
}

func (s *Service) moveWaste(dst int) (MoveResult, error) {
	src := table.WasteIndex
	if !table.IsTableau(dst) && !table.IsFoundation(dst) {
		return MoveResult{}, s.invalid(src, dst, 0, fmt.Errorf("%w: target %d", ErrInvalidPile, dst))
	}
	waste, target := s.table.Waste(), s.table.Pile(dst)
	c, ok := waste.Peek()
	if !ok {
		return MoveResult{}, s.invalid(src, dst, 0, fmt.Errorf("%w: %w", ErrInvalidMove, rules.ErrEmptySource))
	}

	action := scoring.ActionWasteToTableau
	var err error
	if table.IsFoundation(dst) {
		action = scoring.ActionWasteToFoundation
		err = s.table.Rules().CheckFoundation(c, target)
	} else {
		err = s.table.Rules().CheckTableau(c, target)
	}
	if err != nil {
		return MoveResult{}, s.invalid(src, dst, c.ID, fmt.Errorf("%w: %w", ErrInvalidMove, err))
	}

	waste.Pop()
	target.Push(c)
	return s.finishMove(src, dst, []card.Card{c}, action), nil
}

// MoveTableauTo moves the run whose deepest card sits fromTop positions
// below the top of src (0 moves the top card alone). The run must lie
// within the pile's movable cards. Foundations take one card at a time.
func (s *Service) MoveTableauTo(src, fromTop, dst int) (MoveResult, error) {
	if err := s.begin(); err != nil {
		return MoveResult{}, s.refuse(src, dst, 0, err)
	}
	defer s.done()
	return s.moveTableau(src, fromTop, dst)
}

func (s *Service) moveTableau(src, fromTop, dst int) (MoveResult, error) {
	if !table.IsTableau(src) || src == dst || (!table.IsTableau(dst) && !table.IsFoundation(dst)) {
		return MoveResult{}, s.invalid(src, dst, 0, fmt.Errorf("%w: %d to %d", ErrInvalidPile, src, dst))
	}
	p, target := s.table.Pile(src), s.table.Pile(dst)
	if p.IsEmpty() {
		return MoveResult{}, s.invalid(src, dst, 0, fmt.Errorf("%w: %w", ErrInvalidMove, rules.ErrEmptySource))
	}
	c, ok := p.Get(fromTop)
	if !ok {
		return MoveResult{}, s.invalid(src, dst, 0, fmt.Errorf("%w: position %d of %d", ErrNotMovableRun, fromTop, p.Len()))
	}
	if !c.FaceUp {
		return MoveResult{}, s.invalid(src, dst, c.ID, ErrCoveredCard)
	}
	n := fromTop + 1
	if n > len(rules.MovableCards(p)) {
		return MoveResult{}, s.invalid(src, dst, c.ID, ErrNotMovableRun)
	}
	run := p.Top(n)

	action := scoring.ActionTableauToTableau
	var err error
	if table.IsFoundation(dst) {
		action = scoring.ActionTableauToFoundation
		if n != 1 {
			err = rules.ErrOneAtATime
		} else {
			err = s.table.Rules().CheckFoundation(run[0], target)
		}
	} else {
		err = s.table.Rules().CheckSequence(run, target)
	}
	if err != nil {
		return MoveResult{}, s.invalid(src, dst, c.ID, fmt.Errorf("%w: %w", ErrInvalidMove, err))
	}

	p.TakeTop(n)
	target.Push(run...)
	return s.finishMove(src, dst, run, action), nil
}

// MoveFoundationToTableau takes the top of a foundation back to the
// tableau.
func (s *Service) MoveFoundationToTableau(src, dst int) (MoveResult, error) {
	if err := s.begin(); err != nil {
		return MoveResult{}, s.refuse(src, dst, 0, err)
	}
	defer s.done()

	if !table.IsFoundation(src) || !table.IsTableau(dst) {
		return MoveResult{}, s.invalid(src, dst, 0, fmt.Errorf("%w: %d to %d", ErrInvalidPile, src, dst))
	}
	f, target := s.table.Pile(src), s.table.Pile(dst)
	c, ok := f.Peek()
	if !ok {
		return MoveResult{}, s.invalid(src, dst, 0, fmt.Errorf("%w: %w", ErrInvalidMove, rules.ErrEmptySource))
	}
	if err := s.table.Rules().CheckTableau(c, target); err != nil {
		return MoveResult{}, s.invalid(src, dst, c.ID, fmt.Errorf("%w: %w", ErrInvalidMove, err))
	}

	f.Pop()
	target.Push(c)
	return s.finishMove(src, dst, []card.Card{c}, scoring.ActionFoundationToTableau), nil
}

// AutoMoveToFoundation sends the top card of src (the waste or a tableau
// pile) to the first foundation that accepts it. When none does, nothing
// changes and a HintNoLegalFoundation event is published.
func (s *Service) AutoMoveToFoundation(src int) (MoveResult, error) {
	if err := s.begin(); err != nil {
		return MoveResult{}, s.refuse(src, telemetry.NoPile, 0, err)
	}
	defer s.done()

	if src != table.WasteIndex && !table.IsTableau(src) {
		return MoveResult{}, s.invalid(src, telemetry.NoPile, 0, fmt.Errorf("%w: source %d", ErrInvalidPile, src))
	}
	c, ok := s.table.Pile(src).Peek()
	if !ok {
		return MoveResult{}, s.invalid(src, telemetry.NoPile, 0, fmt.Errorf("%w: %w", ErrInvalidMove, rules.ErrEmptySource))
	}
	if !c.FaceUp {
		return MoveResult{}, s.invalid(src, telemetry.NoPile, c.ID, ErrCoveredCard)
	}

	for i, f := range s.table.Foundations() {
		if !s.table.Rules().CanPlaceOnFoundation(c, f) {
			continue
		}
		dst := table.FirstFoundation + i
		if src == table.WasteIndex {
			return s.moveWaste(dst)
		}
		return s.moveTableau(src, 0, dst)
	}

	e := telemetry.At(telemetry.EventHintNoLegalFoundation, src, telemetry.EventMetadata{"card": c})
	e.CardID = c.ID
	s.pub.Publish(e)
	return MoveResult{}, fmt.Errorf("%w: %s", ErrNoLegalFoundation, c)
}

// finishMove runs the bookkeeping shared by every applied move: uncover,
// events, score, invariants and the victory check.
func (s *Service) finishMove(src, dst int, cards []card.Card, action scoring.Action) MoveResult {
	s.moves++
	s.cursor.DropSelection()
	res := MoveResult{Source: src, Dest: dst, Cards: cards}
	moved := cards[0]

	switch {
	case table.IsFoundation(dst):
		s.pub.Publish(telemetry.Move(telemetry.EventFoundationDrop, src, dst, moved.ID, telemetry.EventMetadata{
			"foundation": dst - table.FirstFoundation,
			"suit":       string(moved.Suit),
			"rank":       moved.Rank,
			"card":       moved,
		}))
	case len(cards) > 1:
		s.pub.Publish(telemetry.Move(telemetry.EventMultiCardMove, src, dst, moved.ID, telemetry.EventMetadata{
			"length": len(cards),
			"card":   moved,
		}))
	default:
		s.pub.Publish(telemetry.Move(telemetry.EventCardMoved, src, dst, moved.ID, telemetry.EventMetadata{
			"card": moved,
		}))
	}

	if table.IsTableau(src) {
		if c, ok := s.table.UncoverTop(src); ok {
			res.Uncovered = &c
			e := telemetry.At(telemetry.EventCardUncovered, src, telemetry.EventMetadata{"card": c})
			e.CardID = c.ID
			s.pub.Publish(e)
		}
	}

	res.ScoreDelta = s.scorer.Record(action)
	s.scoreWarning(action, res.ScoreDelta)

	s.table.MustVerify()

	if table.IsFoundation(dst) && s.table.IsVictory() {
		res.Victory = true
		s.endGame(ReasonVictory)
	}
	return res
}

// invalid publishes an InvalidMove event for err and returns it.
func (s *Service) invalid(src, dst, cardID int, err error) error {
	s.pub.Publish(telemetry.Move(telemetry.EventInvalidMove, src, dst, cardID, telemetry.EventMetadata{
		"reason":  ReasonCode(err),
		"message": err.Error(),
	}))
	return err
}

// invalidUnguarded reports an error found before a mutation is entered.
func (s *Service) invalidUnguarded(src, dst, cardID int, err error) error {
	if s.busy {
		return ErrReentrant
	}
	if s.status != StatusPlaying {
		return s.invalid(src, dst, cardID, ErrGameNotInProgress)
	}
	return s.invalid(src, dst, cardID, err)
}

// refuse reports a failed guard. Re-entrant calls are not announced.
func (s *Service) refuse(src, dst, cardID int, err error) error {
	if err == ErrReentrant {
		return err
	}
	return s.invalid(src, dst, cardID, err)
}
