// Package announce turns cards, piles, events and errors into the short
// Italian lines a screen reader speaks.
package announce

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/card"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/cursor"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/game"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/scoring"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/settings"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/table"
)

const faceDown = "carta coperta"

func Card(c card.Card) string {
	if !c.FaceUp {
		return faceDown
	}
	return c.String()
}

func Cards(cards []card.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = Card(c)
	}
	return strings.Join(names, ", ")
}

// Pile names a pile by table index. Foundations are numbered 1..4 in suit
// order.
func Pile(i int) string {
	switch {
	case table.IsTableau(i):
		return fmt.Sprintf("pila %d", i+1)
	case table.IsFoundation(i):
		return fmt.Sprintf("fondazione %d", i-table.FirstFoundation+1)
	case i == table.WasteIndex:
		return "scarti"
	case i == table.StockIndex:
		return "mazzo"
	}
	return "fuori dal tavolo"
}

var deckNames = map[deck.Kind]string{
	deck.KindFrench:     "francese",
	deck.KindNeapolitan: "napoletano",
}

func Deck(k deck.Kind) string {
	if n, ok := deckNames[k]; ok {
		return n
	}
	return string(k)
}

var optionNames = map[settings.Option]string{
	settings.OptionDeckKind:        "tipo di mazzo",
	settings.OptionDrawCount:       "carte per pescata",
	settings.OptionMaxTime:         "tempo massimo",
	settings.OptionTimerStrict:     "timer rigoroso",
	settings.OptionShuffleDiscards: "rimescola gli scarti",
	settings.OptionScoring:         "punteggio",
	settings.OptionCommandHints:    "suggerimenti comandi",
	settings.OptionWarningLevel:    "avvisi punteggio",
}

func Option(o settings.Option) string {
	if n, ok := optionNames[o]; ok {
		return n
	}
	return string(o)
}

// Value renders a setting value for speech.
func Value(o settings.Option, v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "attivo"
		}
		return "disattivo"
	case deck.Kind:
		return Deck(x)
	case scoring.WarningLevel:
		return WarningLevel(x)
	case int:
		if o == settings.OptionMaxTime {
			return Duration(x)
		}
	}
	return fmt.Sprint(v)
}

// Duration speaks a number of seconds in minutes; 0 means no limit.
func Duration(seconds int) string {
	switch {
	case seconds <= 0:
		return "nessun limite"
	case seconds < 60:
		return fmt.Sprintf("%d secondi", seconds)
	case seconds < 120:
		return "un minuto"
	}
	return fmt.Sprintf("%d minuti", seconds/60)
}

// Setting speaks one option of s with its value, flagging a preset lock.
func Setting(s settings.Settings, o settings.Option) string {
	v, err := s.Get(o)
	if err != nil {
		return Error(err)
	}
	msg := fmt.Sprintf("%s: %s.", capitalize(Option(o)), Value(o, v))
	if s.IsLocked(o) {
		msg += " Bloccato dal livello."
	}
	return msg
}

func Difficulty(s settings.Settings) string {
	return fmt.Sprintf("Livello di difficoltà %d, %s.", s.DifficultyLevel, s.Preset().Name)
}

var warningLevelNames = map[scoring.WarningLevel]string{
	scoring.WarningsDisabled: "disattivati",
	scoring.WarningsMinimal:  "minimi",
	scoring.WarningsBalanced: "bilanciati",
	scoring.WarningsComplete: "completi",
}

func WarningLevel(l scoring.WarningLevel) string {
	if n, ok := warningLevelNames[l]; ok {
		return n
	}
	return string(l)
}

var reasons = map[string]string{
	"wrong_color":          "i colori devono alternarsi",
	"wrong_value":          "serve una carta di valore immediatamente superiore",
	"needs_king":           "una pila vuota accetta solo un Re",
	"needs_ace":            "una fondazione vuota accetta solo un Asso",
	"suit_mismatch":        "il seme non corrisponde alla fondazione",
	"face_down":            "la carta è coperta",
	"not_a_run":            "le carte non formano una sequenza",
	"empty_source":         "la pila di partenza è vuota",
	"one_at_a_time":        "in fondazione va una carta alla volta",
	"covered_card":         "la carta non è disponibile",
	"not_movable_run":      "queste carte non si possono spostare insieme",
	"invalid_pile":         "pila non valida per questa mossa",
	"no_cards":             "mazzo e scarti sono vuoti",
	"no_legal_foundation":  "nessuna fondazione accetta la carta",
	"game_not_in_progress": "nessuna partita in corso",
	"empty_pile":           "la pila è vuota",
	"stock":                "il mazzo non si seleziona, si pesca",
}

// Reason explains a reason code carried by InvalidMove and BoundaryHit
// events.
func Reason(code string) string {
	if r, ok := reasons[code]; ok {
		return r
	}
	return "mossa non consentita"
}

var errorMessages = []struct {
	err error
	msg string
}{
	{game.ErrGameNotInProgress, "Nessuna partita in corso."},
	{game.ErrReentrant, "Operazione già in corso."},
	{game.ErrNoCardsAvailable, "Non ci sono più carte da pescare."},
	{game.ErrNoLegalFoundation, "Nessuna fondazione accetta questa carta."},
	{game.ErrInvalidEndReason, "Motivo di fine partita non valido."},
	{settings.ErrOptionLocked, "Opzione bloccata dal livello di difficoltà."},
	{settings.ErrInvalidTimerDuration, "Durata del timer non valida."},
	{settings.ErrInvalidDrawCount, "Numero di carte da pescare non valido."},
	{settings.ErrInvalidDifficulty, "Livello di difficoltà non valido."},
	{settings.ErrInvalidDeck, "Tipo di mazzo non valido."},
	{cursor.ErrInvalidPile, "Pila inesistente."},
	{cursor.ErrUnknownCommand, "Comando sconosciuto."},
}

// Error maps an error kind to its stable message. Refused moves add the
// reason.
func Error(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	switch {
	case errors.Is(err, game.ErrInvalidMove),
		errors.Is(err, game.ErrNotMovableRun),
		errors.Is(err, game.ErrCoveredCard),
		errors.Is(err, game.ErrInvalidPile):
		return fmt.Sprintf("Mossa non valida: %s.", Reason(game.ReasonCode(err)))
	}
	return "Errore: " + err.Error() + "."
}

// Statistics is the spoken status line.
func Statistics(st game.Statistics, sc scoring.Score, timed bool) string {
	msg := fmt.Sprintf("Mosse %d, pescate %d. In fondazione %d carte su %d, %d%%. Punteggio %d. Tempo trascorso %s.",
		st.MoveCount, st.DrawCount, st.FoundationCards, st.TotalCards, int(st.CompletionPercent), sc.Total, Clock(st.ElapsedSeconds))
	if timed {
		msg += fmt.Sprintf(" Tempo rimanente %s.", Clock(st.RemainingSeconds))
	}
	return msg
}

// Clock speaks seconds as minutes and seconds.
func Clock(seconds int) string {
	m, s := seconds/60, seconds%60
	switch {
	case m == 0:
		return fmt.Sprintf("%d secondi", s)
	case s == 0:
		return plural(m, "minuto", "minuti")
	}
	return fmt.Sprintf("%s e %d secondi", plural(m, "minuto", "minuti"), s)
}
