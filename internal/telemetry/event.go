package telemetry

import "time"

type EventType string

const (
	// Lifecycle
	EventGameStarted EventType = "game_started"
	EventGameEnded   EventType = "game_ended"

	// Card motion
	EventCardMoved      EventType = "card_moved"
	EventMultiCardMove  EventType = "multi_card_move"
	EventFoundationDrop EventType = "foundation_drop"
	EventStockDraw      EventType = "stock_draw"
	EventWasteRecycled  EventType = "waste_recycled"
	EventCardExhausted  EventType = "card_exhausted"
	EventCardUncovered  EventType = "card_uncovered"

	// Validation
	EventInvalidMove           EventType = "invalid_move"
	EventBoundaryHit           EventType = "boundary_hit"
	EventOptionLocked          EventType = "option_locked"
	EventHintNoLegalFoundation EventType = "hint_no_legal_foundation"

	// Cursor / UI
	EventUiNavigate    EventType = "ui_navigate"
	EventUiSelect      EventType = "ui_select"
	EventUiCancel      EventType = "ui_cancel"
	EventUiBoundaryHit EventType = "ui_boundary_hit"

	// Timer
	EventTimerWarning    EventType = "timer_warning"
	EventTimerExpired    EventType = "timer_expired"
	EventOvertimeWarning EventType = "overtime_warning"

	// Scoring
	EventScoreWarning EventType = "score_warning"

	// Settings
	EventSettingChanged EventType = "setting_changed"
	EventSettingSaved   EventType = "setting_saved"
)

// NoPile marks an event without a source or destination pile.
const NoPile = -1

// Event is delivered to subscribers by value. Context is copied on publish,
// so subscribers cannot reach the producer's state through it.
type Event struct {
	Seq       int            `json:"seq"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Source    int            `json:"source"`
	Dest      int            `json:"dest"`
	CardID    int            `json:"card_id,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

type EventMetadata map[string]any

// New builds an event with no pile references.
func New(t EventType, ctx EventMetadata) Event {
	return Event{Type: t, Source: NoPile, Dest: NoPile, Context: ctx}
}

// Move builds an event that travels between two piles.
func Move(t EventType, source, dest, cardID int, ctx EventMetadata) Event {
	return Event{Type: t, Source: source, Dest: dest, CardID: cardID, Context: ctx}
}

// At builds an event anchored on a single pile.
func At(t EventType, pile int, ctx EventMetadata) Event {
	return Event{Type: t, Source: pile, Dest: NoPile, Context: ctx}
}

func (e Event) Int(key string) (int, bool) {
	v, ok := e.Context[key].(int)
	return v, ok
}

func (e Event) Text(key string) (string, bool) {
	v, ok := e.Context[key].(string)
	return v, ok
}

// Pan maps a pile index 0..12 to a stereo position in [-1, +1].
func Pan(pile int) float64 {
	if pile < 0 {
		return 0
	}
	if pile > 12 {
		pile = 12
	}
	return float64(pile)/12*2 - 1
}

// Pan prefers the destination pile, then the source.
func (e Event) Pan() float64 {
	if e.Dest != NoPile {
		return Pan(e.Dest)
	}
	return Pan(e.Source)
}
