package settings

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/scoring"
)

// Load decodes persisted settings. It never fails: malformed input, bad
// types and out-of-range values fall back to defaults with a logged warning.
//
// The difficulty level is read first and its preset applied, so locked
// options always take the preset value whatever the file says. Unlocked
// options are copied from the file afterwards. Unknown keys are ignored.
func Load(data []byte, logger *log.Logger) Settings {
	if logger == nil {
		logger = log.Default()
	}
	s := Default()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Printf("settings: unreadable file, using defaults: %v", err)
		return s
	}

	if v, ok := raw["version"]; ok {
		var version string
		if err := json.Unmarshal(v, &version); err != nil {
			logger.Printf("settings: bad version, keeping %q: %v", s.Version, err)
		} else {
			s.Version = version
		}
	}

	if v, ok := raw["difficulty_level"]; ok {
		var level int
		if err := json.Unmarshal(v, &level); err != nil {
			logger.Printf("settings: bad difficulty_level, keeping %d: %v", s.DifficultyLevel, err)
		} else if err := s.ApplyPreset(level); err != nil {
			logger.Printf("settings: %v; keeping %d", err, s.DifficultyLevel)
		}
	}

	for _, o := range Options {
		v, ok := raw[string(o)]
		if !ok {
			continue
		}
		value, err := decodeOption(o, v)
		if err == nil {
			err = validateOption(o, value)
		}
		if err == nil && o == OptionMaxTime {
			err = onTimeGrid(value.(int))
		}
		if err != nil {
			logger.Printf("settings: ignoring %s: %v", o, err)
			continue
		}
		if s.IsLocked(o) {
			if cur, _ := s.Get(o); cur != value {
				logger.Printf("settings: %s=%v overridden by preset %q", o, value, s.Preset().Name)
			}
			continue
		}
		s.assign(o, value)
	}
	return s
}

// onTimeGrid holds a stored duration to 5-minute steps. Off-grid limits can
// be set in memory but do not survive a reload.
func onTimeGrid(seconds int) error {
	if seconds%TimeStepSecond != 0 {
		return fmt.Errorf("%w: %d s is not a multiple of %d s", ErrInvalidTimerDuration, seconds, TimeStepSecond)
	}
	return nil
}

func decodeOption(o Option, raw json.RawMessage) (any, error) {
	switch o {
	case OptionDeckKind:
		var k string
		if err := json.Unmarshal(raw, &k); err != nil {
			return nil, err
		}
		return deck.Kind(k), nil
	case OptionDrawCount, OptionMaxTime:
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return n, nil
	case OptionWarningLevel:
		var l string
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, err
		}
		return scoring.ParseWarningLevel(l)
	default:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	}
}

// Save encodes s in the persisted layout.
func Save(s Settings) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
