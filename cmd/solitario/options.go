package main

import (
	"strings"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/announce"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/game"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/settings"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/telemetry"
)

const optionsHelp = `Opzioni: su e giu per scegliere, invio per cambiare, esc per salvare e tornare al gioco.`

// optionsMenu is the options screen: a list of the difficulty level and every
// option, one of them under the cursor. Changes go through settings.Menu so
// they are announced and respect preset locks.
type optionsMenu struct {
	st   settings.Settings
	menu *settings.Menu
	pos  int
}

// The first entry, "", is the difficulty level.
var optionEntries = append([]settings.Option{""}, settings.Options...)

func newOptionsMenu(st settings.Settings, pub telemetry.Publisher) *optionsMenu {
	m := &optionsMenu{st: st}
	m.menu = settings.NewMenu(&m.st, pub)
	return m
}

func (m *optionsMenu) current() settings.Option {
	return optionEntries[m.pos]
}

func (m *optionsMenu) step(d int) {
	n := len(optionEntries)
	m.pos = ((m.pos+d)%n + n) % n
}

func (m *optionsMenu) describe() string {
	o := m.current()
	if o == "" {
		return announce.Difficulty(m.st)
	}
	return announce.Setting(m.st, o)
}

// change cycles the option under the cursor to its next value.
func (m *optionsMenu) change() error {
	switch o := m.current(); o {
	case "":
		m.menu.CycleDifficulty()
		return nil
	case settings.OptionDeckKind:
		return m.menu.CycleDeck()
	case settings.OptionDrawCount:
		return m.menu.CycleDrawCount()
	case settings.OptionMaxTime:
		return m.menu.CycleMaxTime()
	case settings.OptionWarningLevel:
		return m.menu.CycleWarningLevel()
	default:
		return m.menu.Toggle(o)
	}
}

func (s *session) openOptions() {
	if s.svc.Status() == game.StatusPlaying {
		s.say("Le opzioni si cambiano fuori dalla partita.")
		return
	}
	s.options = newOptionsMenu(s.prefs.Load(), s.bus)
	s.say("Opzioni. " + s.options.describe())
}

// optionsLine handles one line while the options screen is open.
func (s *session) optionsLine(line string) {
	m := s.options
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "su":
		m.step(-1)
		s.say(m.describe())
	case "giu":
		m.step(1)
		s.say(m.describe())
	case "", "invio", ".", "spazio":
		before := s.spoken
		if err := m.change(); err != nil && s.spoken == before {
			s.say(announce.Error(err))
		}
	case "esc", "o", "opzioni":
		s.options = nil
		if err := s.prefs.Save(m.menu.Settings()); err != nil {
			s.logger.Printf("settings: save: %v", err)
			s.say(announce.Error(err))
		}
		s.say("Opzioni chiuse.")
	case "?", "aiuto":
		s.say(optionsHelp)
	default:
		s.say("Comando sconosciuto. " + optionsHelp)
	}
}
