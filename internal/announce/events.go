package announce

import (
	"fmt"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/card"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/cursor"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/scoring"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/settings"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/telemetry"
)

var hints = map[string]string{
	cursor.HintSelect: "Puoi selezionare.",
	cursor.HintExtend: "Puoi estendere la selezione.",
	cursor.HintCommit: "Puoi spostare qui.",
	cursor.HintDraw:   "Puoi pescare.",
	cursor.HintAuto:   "Puoi mandare in fondazione.",
}

// Event renders one event. Events nobody needs to hear render as "".
func Event(e telemetry.Event) string {
	switch e.Type {
	case telemetry.EventGameStarted:
		deckKind, _ := e.Text("deck")
		level, _ := e.Int("difficulty")
		draw, _ := e.Int("draw_count")
		limit, _ := e.Int("time_limit")
		msg := fmt.Sprintf("Nuova partita. Mazzo %s, livello %d, %s per pescata.", Deck(deck.Kind(deckKind)), level, plural(draw, "carta", "carte"))
		if limit > 0 {
			msg += fmt.Sprintf(" Tempo: %s.", Duration(limit))
		}
		return msg

	case telemetry.EventGameEnded:
		reason, _ := e.Text("reason")
		score, _ := e.Int("score")
		moves, _ := e.Int("moves")
		switch reason {
		case "victory":
			return fmt.Sprintf("Hai vinto! Punteggio %d, %s.", score, plural(moves, "mossa", "mosse"))
		case "timeout":
			return fmt.Sprintf("Tempo scaduto, partita persa. Punteggio %d.", score)
		}
		return "Partita abbandonata."

	case telemetry.EventCardMoved:
		return fmt.Sprintf("%s su %s.", cardAt(e), Pile(e.Dest))

	case telemetry.EventMultiCardMove:
		n, _ := e.Int("length")
		return fmt.Sprintf("%d carte da %s su %s.", n, cardAt(e), Pile(e.Dest))

	case telemetry.EventFoundationDrop:
		return fmt.Sprintf("%s in fondazione.", cardAt(e))

	case telemetry.EventStockDraw:
		cards, _ := e.Context["cards"].([]card.Card)
		left, _ := e.Int("stock_left")
		return fmt.Sprintf("Peschi %s. Nel mazzo %s.", Cards(cards), plural(left, "carta", "carte"))

	case telemetry.EventWasteRecycled:
		if shuffled, _ := e.Context["shuffled"].(bool); shuffled {
			return "Scarti rimescolati nel mazzo."
		}
		return "Scarti rigirati nel mazzo."

	case telemetry.EventCardExhausted:
		return "Mazzo vuoto."

	case telemetry.EventCardUncovered:
		return fmt.Sprintf("Scoperta %s.", cardAt(e))

	case telemetry.EventInvalidMove:
		code, _ := e.Text("reason")
		if code == "game_not_in_progress" {
			return "Nessuna partita in corso."
		}
		return fmt.Sprintf("Mossa non valida: %s.", Reason(code))

	case telemetry.EventBoundaryHit:
		code, _ := e.Text("reason")
		return capitalize(Reason(code)) + "."

	case telemetry.EventHintNoLegalFoundation:
		return fmt.Sprintf("Nessuna fondazione accetta %s.", cardAt(e))

	case telemetry.EventOptionLocked:
		name, _ := e.Text("name")
		preset, _ := e.Text("preset")
		return fmt.Sprintf("%s bloccato dal livello %s.", capitalize(Option(settings.Option(name))), preset)

	case telemetry.EventUiNavigate:
		return withHint(e, position(e))

	case telemetry.EventUiSelect:
		n, _ := e.Int("length")
		if n == 1 {
			return withHint(e, fmt.Sprintf("Selezionato %s.", cardAt(e)))
		}
		return withHint(e, fmt.Sprintf("Selezionate %d carte.", n))

	case telemetry.EventUiCancel:
		if had, _ := e.Context["had_selection"].(bool); had {
			return "Selezione annullata."
		}
		return ""

	case telemetry.EventUiBoundaryHit:
		if dir, _ := e.Int("direction"); dir > 0 {
			return "Fondo della pila."
		}
		return "Cima della pila."

	case telemetry.EventTimerWarning:
		m, _ := e.Int("minutes_left")
		if m == 1 {
			return "Manca un minuto."
		}
		return fmt.Sprintf("Mancano %d minuti.", m)

	case telemetry.EventTimerExpired:
		if strict, _ := e.Context["strict"].(bool); strict {
			return "Tempo scaduto."
		}
		return "Tempo scaduto. Puoi continuare, ogni minuto in più costa punti."

	case telemetry.EventOvertimeWarning:
		return fmt.Sprintf("Tempo extra: %d punti di penalità per ogni minuto.", scoring.OvertimePenaltyMinute)

	case telemetry.EventScoreWarning:
		delta, _ := e.Int("delta")
		total, _ := e.Int("total")
		return fmt.Sprintf("Perdi %d punti. Punteggio %d.", -delta, total)

	case telemetry.EventSettingChanged:
		name, _ := e.Text("name")
		o := settings.Option(name)
		if name == "difficulty_level" {
			return fmt.Sprintf("Livello di difficoltà %v.", e.Context["new"])
		}
		return fmt.Sprintf("%s: %s.", capitalize(Option(o)), Value(o, e.Context["new"]))

	case telemetry.EventSettingSaved:
		return "Impostazioni salvate."
	}
	return ""
}

func cardAt(e telemetry.Event) string {
	if c, ok := e.Context["card"].(card.Card); ok {
		return Card(c)
	}
	return faceDown
}

func position(e telemetry.Event) string {
	n, _ := e.Int("pile_len")
	if n == 0 {
		return fmt.Sprintf("%s, vuota.", capitalize(Pile(e.Source)))
	}
	idx, _ := e.Int("card_index")
	if idx == 0 {
		return fmt.Sprintf("%s: %s.", capitalize(Pile(e.Source)), cardAt(e))
	}
	return fmt.Sprintf("%s, %d dalla cima: %s.", capitalize(Pile(e.Source)), idx+1, cardAt(e))
}

func withHint(e telemetry.Event, msg string) string {
	h, ok := e.Text("hint")
	if !ok {
		return msg
	}
	return msg + " " + hints[h]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
