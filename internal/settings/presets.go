package settings

// Preset is one difficulty level. Values are forced when the preset is
// applied; only the Locked subset stays fixed afterwards.
type Preset struct {
	Level  int
	Name   string
	Locked []Option
	Values map[Option]any
}

func (p Preset) IsLocked(o Option) bool {
	for _, l := range p.Locked {
		if l == o {
			return true
		}
	}
	return false
}

// Presets maps difficulty level 1..5 to its preset. deck_kind and
// score_warning_level are never locked.
var Presets = map[int]Preset{
	1: {
		Level:  1,
		Name:   "Principiante",
		Locked: []Option{OptionMaxTime},
		Values: map[Option]any{
			OptionMaxTime:         0,
			OptionDrawCount:       1,
			OptionShuffleDiscards: true,
			OptionCommandHints:    true,
		},
	},
	2: {
		Level:  2,
		Name:   "Facile",
		Locked: []Option{OptionTimerStrict},
		Values: map[Option]any{
			OptionTimerStrict: false,
			OptionDrawCount:   2,
		},
	},
	3: {
		Level:  3,
		Name:   "Normale",
		Locked: []Option{OptionDrawCount},
		Values: map[Option]any{
			OptionDrawCount:       3,
			OptionShuffleDiscards: false,
		},
	},
	4: {
		Level:  4,
		Name:   "Esperto",
		Locked: []Option{OptionDrawCount, OptionMaxTime, OptionTimerStrict, OptionCommandHints},
		Values: map[Option]any{
			OptionDrawCount:    3,
			OptionMaxTime:      1800,
			OptionTimerStrict:  false,
			OptionCommandHints: false,
		},
	},
	5: {
		Level: 5,
		Name:  "Maestro",
		Locked: []Option{
			OptionDrawCount,
			OptionMaxTime,
			OptionTimerStrict,
			OptionShuffleDiscards,
			OptionScoring,
			OptionCommandHints,
		},
		Values: map[Option]any{
			OptionDrawCount:       3,
			OptionMaxTime:         900,
			OptionTimerStrict:     true,
			OptionShuffleDiscards: false,
			OptionScoring:         true,
			OptionCommandHints:    false,
		},
	},
}
