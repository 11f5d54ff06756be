package game

import (
	"time"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/card"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/cursor"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/pile"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/scoring"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/settings"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/table"
)

type Statistics struct {
	ElapsedSeconds    int     `json:"elapsed_seconds"`
	RemainingSeconds  int     `json:"remaining_seconds"`
	MoveCount         int     `json:"move_count"`
	DrawCount         int     `json:"draw_count"`
	RecycleCount      int     `json:"recycle_count"`
	CardsPerSuit      [4]int  `json:"cards_per_suit"`
	SuitsCompleted    int     `json:"suits_completed"`
	FoundationCards   int     `json:"foundation_cards"`
	TotalCards        int     `json:"total_cards"`
	CompletionPercent float64 `json:"completion_percent"`
}

// FinalStatistics is the one shape reported for every end reason.
type FinalStatistics struct {
	GameID           string        `json:"game_id"`
	Reason           EndReason     `json:"reason"`
	Won              bool          `json:"won"`
	DeckKind         deck.Kind     `json:"deck_kind"`
	Difficulty       int           `json:"difficulty"`
	DrawCount        int           `json:"draw_count"`
	TimeLimitSeconds int           `json:"time_limit_seconds"`
	TimerStrict      bool          `json:"timer_strict"`
	OvertimeSeconds  int           `json:"overtime_seconds"`
	StartedAt        time.Time     `json:"started_at"`
	EndedAt          time.Time     `json:"ended_at"`
	Stats            Statistics    `json:"statistics"`
	Score            scoring.Score `json:"score"`
	ScoringEnabled   bool          `json:"scoring_enabled"`
}

// Statistics reads the live counters. Elapsed time comes from the timer.
func (s *Service) Statistics() Statistics {
	if s.table == nil {
		return Statistics{}
	}
	return s.statistics()
}

func (s *Service) statistics() Statistics {
	st := Statistics{
		ElapsedSeconds:   int(s.timer.Elapsed() / time.Second),
		RemainingSeconds: int(s.timer.Remaining() / time.Second),
		MoveCount:        s.moves,
		DrawCount:        s.draws,
		RecycleCount:     s.recycles,
		TotalCards:       s.table.Deck().TotalCards(),
	}
	r := s.table.Rules()
	for i, f := range s.table.Foundations() {
		st.CardsPerSuit[i] = f.Len()
		st.FoundationCards += f.Len()
		if r.IsFoundationComplete(f) {
			st.SuitsCompleted++
		}
	}
	if st.TotalCards > 0 {
		st.CompletionPercent = float64(st.FoundationCards) / float64(st.TotalCards) * 100
	}
	return st
}

type PileView struct {
	Index int         `json:"index"`
	Role  pile.Role   `json:"role"`
	Suit  card.Suit   `json:"suit,omitempty"`
	Cards []card.Card `json:"cards"`
}

// Snapshot is a copy of the game state; changing it has no effect on the
// service.
type Snapshot struct {
	GameID    string            `json:"game_id"`
	Status    Status            `json:"status"`
	Settings  settings.Settings `json:"settings"`
	Piles     []PileView        `json:"piles"`
	Stats     Statistics        `json:"statistics"`
	Score     scoring.Score     `json:"score"`
	Cursor    cursor.Position   `json:"cursor"`
	Selection *cursor.Selection `json:"selection,omitempty"`
	Final     *FinalStatistics  `json:"final,omitempty"`
}

func (s *Service) Snapshot() Snapshot {
	snap := Snapshot{
		GameID:   s.gameID,
		Status:   s.status,
		Settings: s.settings,
		Stats:    s.Statistics(),
		Score:    s.Score(),
	}
	if s.table != nil {
		snap.Piles = make([]PileView, table.NumPiles)
		for i := range snap.Piles {
			p := s.table.Pile(i)
			snap.Piles[i] = PileView{Index: p.Index, Role: p.Role, Suit: p.Suit, Cards: p.Cards()}
		}
	}
	if s.cursor != nil {
		snap.Cursor = s.cursor.Position()
		if sel, ok := s.cursor.Selection(); ok {
			snap.Selection = &sel
		}
	}
	if s.final != nil {
		f := *s.final
		snap.Final = &f
	}
	return snap
}
