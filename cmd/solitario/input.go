package main

import (
	"strconv"
	"strings"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/cursor"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/table"
)

type actionKind int

const (
	actCommand actionKind = iota
	actEscape
	actNewGame
	actAbandon
	actExit
	actStatus
	actOptions
	actHelp
)

type action struct {
	kind actionKind
	cmd  cursor.Command
}

// One line of input is one key. An empty line is Enter.
var keys = map[string]action{
	"":        {kind: actCommand, cmd: cursor.Key(cursor.Select)},
	"invio":   {kind: actCommand, cmd: cursor.Key(cursor.Select)},
	".":       {kind: actCommand, cmd: cursor.Key(cursor.Commit)},
	"spazio":  {kind: actCommand, cmd: cursor.Key(cursor.Commit)},
	"su":      {kind: actCommand, cmd: cursor.Key(cursor.Up)},
	"giu":     {kind: actCommand, cmd: cursor.Key(cursor.Down)},
	"sx":      {kind: actCommand, cmd: cursor.Key(cursor.Left)},
	"dx":      {kind: actCommand, cmd: cursor.Key(cursor.Right)},
	"home":    {kind: actCommand, cmd: cursor.Key(cursor.Home)},
	"end":     {kind: actCommand, cmd: cursor.Key(cursor.End)},
	"tab":     {kind: actCommand, cmd: cursor.Key(cursor.Tab)},
	"d":       {kind: actCommand, cmd: cursor.Key(cursor.Draw)},
	"pesca":   {kind: actCommand, cmd: cursor.Key(cursor.Draw)},
	"s":       {kind: actCommand, cmd: cursor.NavigateTo(table.StockIndex)},
	"mazzo":   {kind: actCommand, cmd: cursor.NavigateTo(table.StockIndex)},
	"w":       {kind: actCommand, cmd: cursor.NavigateTo(table.WasteIndex)},
	"scarti":  {kind: actCommand, cmd: cursor.NavigateTo(table.WasteIndex)},
	"esc":     {kind: actEscape},
	"n":       {kind: actNewGame},
	"nuova":   {kind: actNewGame},
	"a":       {kind: actAbandon},
	"q":       {kind: actExit},
	"esci":    {kind: actExit},
	"i":       {kind: actStatus},
	"stato":   {kind: actStatus},
	"o":       {kind: actOptions},
	"opzioni": {kind: actOptions},
	"?":       {kind: actHelp},
	"aiuto":   {kind: actHelp},
}

// parseInput maps a line to an action. Digits 1..7 jump to a tableau pile
// and f1..f4 to a foundation.
func parseInput(line string) (action, bool) {
	key := strings.ToLower(strings.TrimSpace(line))
	if a, ok := keys[key]; ok {
		return a, true
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= table.NumTableau {
		return action{kind: actCommand, cmd: cursor.NavigateTo(n - 1)}, true
	}
	if rest, ok := strings.CutPrefix(key, "f"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 && n <= table.NumFoundations {
			return action{kind: actCommand, cmd: cursor.NavigateTo(table.FirstFoundation + n - 1)}, true
		}
	}
	return action{}, false
}

// parseAnswer reads a yes/no reply.
func parseAnswer(line string) (yes, ok bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sì", "y", "yes":
		return true, true
	case "n", "no", "esc":
		return false, true
	}
	return false, false
}

const helpText = `Comandi: 1-7 pile, f1-f4 fondazioni, w scarti, s mazzo.
su, giu, sx, dx, home, end, tab per muoversi. Invio seleziona, punto sposta o manda in fondazione.
d pesca, esc annulla (due volte per uscire), i stato, n nuova partita, a abbandona, q esci.
o opzioni, fuori dalla partita.`
