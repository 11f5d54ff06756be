package settings

import (
	"errors"
	"fmt"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/scoring"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/timer"
)

const SchemaVersion = "2.0"

var (
	ErrOptionLocked      = errors.New("option is locked by the difficulty preset")
	ErrInvalidDrawCount  = errors.New("draw count must be between 1 and 3")
	ErrInvalidDifficulty = errors.New("difficulty level must be between 1 and 5")
	ErrInvalidDeck       = errors.New("deck kind must be french or neapolitan")
	ErrUnknownOption     = errors.New("unknown option")
	ErrInvalidValue      = errors.New("invalid option value")
	ErrPresetMismatch    = errors.New("locked option differs from preset value")

	// ErrInvalidTimerDuration is shared with the timer so both layers agree
	// on the accepted range.
	ErrInvalidTimerDuration = timer.ErrInvalidTimerDuration
)

// Option names one user-facing setting. Names match the JSON keys.
type Option string

const (
	OptionDeckKind        Option = "deck_kind"
	OptionDrawCount       Option = "draw_count"
	OptionMaxTime         Option = "max_time_seconds"
	OptionTimerStrict     Option = "timer_strict_mode"
	OptionShuffleDiscards Option = "shuffle_discards"
	OptionScoring         Option = "scoring_enabled"
	OptionCommandHints    Option = "command_hints_enabled"
	OptionWarningLevel    Option = "score_warning_level"
)

// Options lists every option in menu order.
var Options = []Option{
	OptionDeckKind,
	OptionDrawCount,
	OptionMaxTime,
	OptionTimerStrict,
	OptionShuffleDiscards,
	OptionScoring,
	OptionCommandHints,
	OptionWarningLevel,
}

const (
	MinDifficulty  = 1
	MaxDifficulty  = 5
	MinDrawCount   = 1
	MaxDrawCount   = 3
	TimeStepSecond = 300
)

type Settings struct {
	Version             string               `json:"version"`
	DeckKind            deck.Kind            `json:"deck_kind"`
	DifficultyLevel     int                  `json:"difficulty_level"`
	DrawCount           int                  `json:"draw_count"`
	MaxTimeSeconds      int                  `json:"max_time_seconds"`
	TimerStrictMode     bool                 `json:"timer_strict_mode"`
	ShuffleDiscards     bool                 `json:"shuffle_discards"`
	ScoringEnabled      bool                 `json:"scoring_enabled"`
	CommandHintsEnabled bool                 `json:"command_hints_enabled"`
	ScoreWarningLevel   scoring.WarningLevel `json:"score_warning_level"`
}

// Default returns the Normale preset on the French deck.
func Default() Settings {
	s := Settings{
		Version:             SchemaVersion,
		DeckKind:            deck.KindFrench,
		DrawCount:           1,
		ScoringEnabled:      true,
		CommandHintsEnabled: true,
		ScoreWarningLevel:   scoring.WarningsBalanced,
	}
	_ = s.ApplyPreset(3)
	return s
}

// Preset returns the preset for the current difficulty level.
func (s Settings) Preset() Preset {
	return Presets[s.DifficultyLevel]
}

// ApplyPreset sets the level and copies every forced value. It is the only
// way a locked option changes.
func (s *Settings) ApplyPreset(level int) error {
	p, ok := Presets[level]
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidDifficulty, level)
	}
	s.DifficultyLevel = level
	for _, o := range Options {
		if v, ok := p.Values[o]; ok {
			s.assign(o, v)
		}
	}
	return nil
}

// CycleDifficulty advances 1..5 and wraps, applying the new preset.
func (s *Settings) CycleDifficulty() int {
	level := s.DifficultyLevel%MaxDifficulty + 1
	_ = s.ApplyPreset(level)
	return level
}

func (s Settings) IsLocked(o Option) bool {
	return s.Preset().IsLocked(o)
}

// Get returns the current value of o as an int, bool, deck.Kind or
// scoring.WarningLevel.
func (s Settings) Get(o Option) (any, error) {
	switch o {
	case OptionDeckKind:
		return s.DeckKind, nil
	case OptionDrawCount:
		return s.DrawCount, nil
	case OptionMaxTime:
		return s.MaxTimeSeconds, nil
	case OptionTimerStrict:
		return s.TimerStrictMode, nil
	case OptionShuffleDiscards:
		return s.ShuffleDiscards, nil
	case OptionScoring:
		return s.ScoringEnabled, nil
	case OptionCommandHints:
		return s.CommandHintsEnabled, nil
	case OptionWarningLevel:
		return s.ScoreWarningLevel, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOption, o)
}

// Set changes one option after checking the lock and the value range.
func (s *Settings) Set(o Option, v any) error {
	if _, err := s.Get(o); err != nil {
		return err
	}
	if s.IsLocked(o) {
		return fmt.Errorf("%w: %s", ErrOptionLocked, o)
	}
	if err := validateOption(o, v); err != nil {
		return err
	}
	s.assign(o, v)
	return nil
}

func (s *Settings) SetDeck(k deck.Kind) error        { return s.Set(OptionDeckKind, k) }
func (s *Settings) SetDrawCount(n int) error         { return s.Set(OptionDrawCount, n) }
func (s *Settings) SetMaxTime(seconds int) error     { return s.Set(OptionMaxTime, seconds) }
func (s *Settings) SetTimerStrict(on bool) error     { return s.Set(OptionTimerStrict, on) }
func (s *Settings) SetShuffleDiscards(on bool) error { return s.Set(OptionShuffleDiscards, on) }
func (s *Settings) SetScoring(on bool) error         { return s.Set(OptionScoring, on) }
func (s *Settings) SetCommandHints(on bool) error    { return s.Set(OptionCommandHints, on) }
func (s *Settings) SetWarningLevel(l scoring.WarningLevel) error {
	return s.Set(OptionWarningLevel, l)
}

// assign writes v without lock or range checks. Callers validate first.
func (s *Settings) assign(o Option, v any) {
	switch o {
	case OptionDeckKind:
		s.DeckKind = v.(deck.Kind)
	case OptionDrawCount:
		s.DrawCount = v.(int)
	case OptionMaxTime:
		s.MaxTimeSeconds = v.(int)
	case OptionTimerStrict:
		s.TimerStrictMode = v.(bool)
	case OptionShuffleDiscards:
		s.ShuffleDiscards = v.(bool)
	case OptionScoring:
		s.ScoringEnabled = v.(bool)
	case OptionCommandHints:
		s.CommandHintsEnabled = v.(bool)
	case OptionWarningLevel:
		s.ScoreWarningLevel = v.(scoring.WarningLevel)
	}
}

func validateOption(o Option, v any) error {
	switch o {
	case OptionDeckKind:
		k, ok := v.(deck.Kind)
		if !ok || !k.Valid() {
			return fmt.Errorf("%w: %v", ErrInvalidDeck, v)
		}
	case OptionDrawCount:
		n, ok := v.(int)
		if !ok || n < MinDrawCount || n > MaxDrawCount {
			return fmt.Errorf("%w: %v", ErrInvalidDrawCount, v)
		}
	case OptionMaxTime:
		n, ok := v.(int)
		if !ok {
			return fmt.Errorf("%w: %v", ErrInvalidTimerDuration, v)
		}
		return timer.ValidateDuration(n)
	case OptionTimerStrict, OptionShuffleDiscards, OptionScoring, OptionCommandHints:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%w: %s wants a boolean, got %v", ErrInvalidValue, o, v)
		}
	case OptionWarningLevel:
		l, ok := v.(scoring.WarningLevel)
		if !ok || !validWarningLevel(l) {
			return fmt.Errorf("%w: %v", scoring.ErrInvalidWarningLevel, v)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOption, o)
	}
	return nil
}

func validWarningLevel(l scoring.WarningLevel) bool {
	for _, w := range scoring.WarningLevels {
		if w == l {
			return true
		}
	}
	return false
}

// Validate checks every range and that locked options hold their preset
// values.
func (s Settings) Validate() error {
	if _, ok := Presets[s.DifficultyLevel]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidDifficulty, s.DifficultyLevel)
	}
	for _, o := range Options {
		v, _ := s.Get(o)
		if err := validateOption(o, v); err != nil {
			return err
		}
	}
	p := s.Preset()
	for _, o := range p.Locked {
		v, _ := s.Get(o)
		if v != p.Values[o] {
			return fmt.Errorf("%w: %s is %v, preset %q wants %v", ErrPresetMismatch, o, v, p.Name, p.Values[o])
		}
	}
	return nil
}
