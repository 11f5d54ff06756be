package settings

import (
	"errors"
	"fmt"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/scoring"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/telemetry"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/timer"
)

// Menu edits a Settings value the way the options screen does: every
// change is announced as SettingChanged, every refused change on a locked
// option as OptionLocked.
type Menu struct {
	s   *Settings
	pub telemetry.Publisher
}

func NewMenu(s *Settings, pub telemetry.Publisher) *Menu {
	if pub == nil {
		pub = telemetry.Discard{}
	}
	return &Menu{s: s, pub: pub}
}

func (m *Menu) Settings() Settings {
	return *m.s
}

func (m *Menu) Set(o Option, v any) error {
	old, err := m.s.Get(o)
	if err != nil {
		return err
	}
	if err := m.s.Set(o, v); err != nil {
		if errors.Is(err, ErrOptionLocked) {
			m.pub.Publish(telemetry.New(telemetry.EventOptionLocked, telemetry.EventMetadata{
				"name":   string(o),
				"preset": m.s.Preset().Name,
			}))
		}
		return err
	}
	m.changed(string(o), old, v)
	return nil
}

func (m *Menu) changed(name string, from, to any) {
	if from == to {
		return
	}
	m.pub.Publish(telemetry.New(telemetry.EventSettingChanged, telemetry.EventMetadata{
		"name": name,
		"old":  from,
		"new":  to,
	}))
}

// CycleDifficulty moves to the next level and applies its preset.
func (m *Menu) CycleDifficulty() int {
	old := m.s.DifficultyLevel
	level := m.s.CycleDifficulty()
	m.changed("difficulty_level", old, level)
	return level
}

func (m *Menu) CycleDeck() error {
	next := deck.KindNeapolitan
	if m.s.DeckKind == deck.KindNeapolitan {
		next = deck.KindFrench
	}
	return m.Set(OptionDeckKind, next)
}

// CycleDrawCount goes 1, 2, 3 and back to 1.
func (m *Menu) CycleDrawCount() error {
	return m.Set(OptionDrawCount, m.s.DrawCount%MaxDrawCount+1)
}

// CycleMaxTime steps through off and 5..60 minutes in 5-minute increments.
func (m *Menu) CycleMaxTime() error {
	next := (m.s.MaxTimeSeconds/TimeStepSecond + 1) * TimeStepSecond
	if next > timer.MaxDurationSeconds {
		next = 0
	}
	return m.Set(OptionMaxTime, next)
}

// Toggle flips a boolean option.
func (m *Menu) Toggle(o Option) error {
	v, err := m.s.Get(o)
	if err != nil {
		return err
	}
	b, ok := v.(bool)
	if !ok {
		return fmt.Errorf("%w: %s is not a switch", ErrInvalidValue, o)
	}
	return m.Set(o, !b)
}

func (m *Menu) CycleWarningLevel() error {
	levels := scoring.WarningLevels
	next := levels[0]
	for i, l := range levels {
		if l == m.s.ScoreWarningLevel {
			next = levels[(i+1)%len(levels)]
			break
		}
	}
	return m.Set(OptionWarningLevel, next)
}
