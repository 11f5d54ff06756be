package telemetry

import "time"

// Stats summarizes a session from its event journal.
type Stats struct {
	Since           time.Time         `json:"since"`
	EventCounts     map[EventType]int `json:"event_counts"`
	GamesStarted    int               `json:"games_started"`
	GamesEnded      int               `json:"games_ended"`
	EndReasons      map[string]int    `json:"end_reasons"`
	Moves           int               `json:"moves"`
	CardsMoved      int               `json:"cards_moved"`
	FoundationDrops int               `json:"foundation_drops"`
	InvalidMoves    int               `json:"invalid_moves"`
	InvalidReasons  map[string]int    `json:"invalid_reasons"`
	Draws           int               `json:"draws"`
	Recycles        int               `json:"recycles"`
	TimerWarnings   int               `json:"timer_warnings"`
}

// CalculateStats folds events into a Stats value.
func CalculateStats(events []Event, since time.Time) Stats {
	stats := Stats{
		Since:          since,
		EventCounts:    make(map[EventType]int),
		EndReasons:     make(map[string]int),
		InvalidReasons: make(map[string]int),
	}

	for _, event := range events {
		if event.Timestamp.Before(since) {
			continue
		}
		stats.EventCounts[event.Type]++

		switch event.Type {
		case EventGameStarted:
			stats.GamesStarted++
		case EventGameEnded:
			stats.GamesEnded++
			if reason, ok := event.Text("reason"); ok {
				stats.EndReasons[reason]++
			}
		case EventCardMoved:
			stats.Moves++
			stats.CardsMoved++
		case EventMultiCardMove:
			stats.Moves++
			if n, ok := event.Int("length"); ok {
				stats.CardsMoved += n
			}
		case EventFoundationDrop:
			stats.Moves++
			stats.CardsMoved++
			stats.FoundationDrops++
		case EventInvalidMove:
			stats.InvalidMoves++
			if reason, ok := event.Text("reason"); ok {
				stats.InvalidReasons[reason]++
			}
		case EventStockDraw:
			stats.Draws++
		case EventWasteRecycled:
			stats.Recycles++
		case EventTimerWarning:
			stats.TimerWarnings++
		}
	}

	return stats
}
