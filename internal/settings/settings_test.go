package settings

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/scoring"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/telemetry"
)

func quietLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, deck.KindFrench, s.DeckKind)
	assert.Equal(t, 3, s.DifficultyLevel)
	assert.Equal(t, 3, s.DrawCount)
}

func TestPresetsLockForcedValues(t *testing.T) {
	for level, p := range Presets {
		for _, o := range p.Locked {
			_, forced := p.Values[o]
			assert.True(t, forced, "level %d locks %s without forcing it", level, o)
		}
		assert.False(t, p.IsLocked(OptionDeckKind), "level %d locks the deck", level)
		assert.False(t, p.IsLocked(OptionWarningLevel), "level %d locks warnings", level)
	}
	assert.Len(t, Presets[5].Locked, 6)
}

func TestApplyPreset(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		for level := MinDifficulty; level <= MaxDifficulty; level++ {
			once := Default()
			require.NoError(t, once.ApplyPreset(level))
			twice := once
			require.NoError(t, twice.ApplyPreset(level))
			assert.Equal(t, once, twice)
			assert.NoError(t, once.Validate())
		}
	})

	t.Run("rejects unknown levels", func(t *testing.T) {
		s := Default()
		assert.ErrorIs(t, s.ApplyPreset(0), ErrInvalidDifficulty)
		assert.ErrorIs(t, s.ApplyPreset(6), ErrInvalidDifficulty)
		assert.Equal(t, 3, s.DifficultyLevel)
	})

	t.Run("maestro", func(t *testing.T) {
		s := Default()
		require.NoError(t, s.ApplyPreset(5))
		assert.Equal(t, 3, s.DrawCount)
		assert.Equal(t, 900, s.MaxTimeSeconds)
		assert.True(t, s.TimerStrictMode)
		assert.False(t, s.ShuffleDiscards)
		assert.True(t, s.ScoringEnabled)
		assert.False(t, s.CommandHintsEnabled)
	})
}

func TestCycleDifficultyWraps(t *testing.T) {
	s := Default()
	require.NoError(t, s.ApplyPreset(4))
	assert.Equal(t, 5, s.CycleDifficulty())
	assert.Equal(t, 1, s.CycleDifficulty())
	assert.Equal(t, 0, s.MaxTimeSeconds)
	assert.Equal(t, 1, s.DrawCount)
}

func TestSetRespectsLocks(t *testing.T) {
	s := Default()
	require.NoError(t, s.ApplyPreset(4))

	err := s.SetDrawCount(1)
	assert.ErrorIs(t, err, ErrOptionLocked)
	assert.Equal(t, 3, s.DrawCount)

	assert.ErrorIs(t, s.SetMaxTime(600), ErrOptionLocked)
	assert.ErrorIs(t, s.SetCommandHints(true), ErrOptionLocked)

	require.NoError(t, s.SetShuffleDiscards(true))
	require.NoError(t, s.SetDeck(deck.KindNeapolitan))
	assert.True(t, s.ShuffleDiscards)
	assert.Equal(t, deck.KindNeapolitan, s.DeckKind)
}

func TestSetValidatesRanges(t *testing.T) {
	s := Default()
	require.NoError(t, s.ApplyPreset(2))

	assert.ErrorIs(t, s.SetDrawCount(4), ErrInvalidDrawCount)
	assert.ErrorIs(t, s.SetDrawCount(0), ErrInvalidDrawCount)
	assert.ErrorIs(t, s.SetMaxTime(30), ErrInvalidTimerDuration)
	assert.ErrorIs(t, s.SetMaxTime(3601), ErrInvalidTimerDuration)
	assert.ErrorIs(t, s.SetDeck("piacentine"), ErrInvalidDeck)
	assert.ErrorIs(t, s.SetWarningLevel("LOUD"), scoring.ErrInvalidWarningLevel)
	assert.ErrorIs(t, s.Set("volume", 3), ErrUnknownOption)
	assert.ErrorIs(t, s.Set(OptionScoring, "yes"), ErrInvalidValue)

	require.NoError(t, s.SetMaxTime(0))
	require.NoError(t, s.SetMaxTime(60))
	require.NoError(t, s.SetMaxTime(3600))
	require.NoError(t, s.SetDrawCount(1))
	assert.NoError(t, s.Validate())
}

func TestValidateDetectsPresetMismatch(t *testing.T) {
	s := Default()
	require.NoError(t, s.ApplyPreset(5))
	s.DrawCount = 1
	assert.ErrorIs(t, s.Validate(), ErrPresetMismatch)
}

func TestLoadTournamentLockdown(t *testing.T) {
	logger, logs := quietLogger()
	data := []byte(`{
		"deck_kind": "neapolitan",
		"difficulty_level": 5,
		"draw_count": 1,
		"max_time_seconds": 3600,
		"timer_strict_mode": false,
		"command_hints_enabled": true,
		"shuffle_discards": true,
		"scoring_enabled": false
	}`)

	s := Load(data, logger)

	assert.Equal(t, 5, s.DifficultyLevel)
	assert.Equal(t, 3, s.DrawCount)
	assert.Equal(t, 900, s.MaxTimeSeconds)
	assert.True(t, s.TimerStrictMode)
	assert.False(t, s.CommandHintsEnabled)
	assert.False(t, s.ShuffleDiscards)
	assert.True(t, s.ScoringEnabled)
	assert.Equal(t, deck.KindNeapolitan, s.DeckKind)
	assert.NoError(t, s.Validate())
	assert.Contains(t, logs.String(), "overridden by preset")
}

func TestLoadRoundTrip(t *testing.T) {
	for level := MinDifficulty; level <= MaxDifficulty; level++ {
		s := Default()
		require.NoError(t, s.ApplyPreset(level))
		_ = s.SetDeck(deck.KindNeapolitan)
		_ = s.SetDrawCount(2)
		_ = s.SetTimerStrict(true)
		_ = s.SetMaxTime(1200)
		_ = s.SetScoring(false)
		_ = s.SetWarningLevel(scoring.WarningsComplete)
		require.NoError(t, s.Validate())

		b, err := Save(s)
		require.NoError(t, err)
		logger, _ := quietLogger()
		assert.Equal(t, s, Load(b, logger), "level %d", level)
	}
}

func TestLoadTamperedEqualsCanonical(t *testing.T) {
	s := Default()
	require.NoError(t, s.ApplyPreset(4))
	tampered := s
	tampered.DrawCount = 1
	tampered.MaxTimeSeconds = 0
	tampered.CommandHintsEnabled = true

	b, err := Save(tampered)
	require.NoError(t, err)
	logger, _ := quietLogger()
	assert.Equal(t, s, Load(b, logger))
}

func TestLoadFallbacks(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		logger, logs := quietLogger()
		assert.Equal(t, Default(), Load([]byte("{not json"), logger))
		assert.Contains(t, logs.String(), "unreadable")
	})

	t.Run("missing keys take defaults", func(t *testing.T) {
		logger, _ := quietLogger()
		assert.Equal(t, Default(), Load([]byte(`{}`), logger))
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		logger, logs := quietLogger()
		s := Load([]byte(`{"volume": 11, "deck_kind": "neapolitan"}`), logger)
		assert.Equal(t, deck.KindNeapolitan, s.DeckKind)
		assert.Empty(t, logs.String())
	})

	t.Run("bad values keep defaults", func(t *testing.T) {
		logger, logs := quietLogger()
		s := Load([]byte(`{
			"difficulty_level": 9,
			"deck_kind": "tarot",
			"max_time_seconds": "forever",
			"score_warning_level": "LOUD",
			"scoring_enabled": false
		}`), logger)
		want := Default()
		want.ScoringEnabled = false
		assert.Equal(t, want, s)
		assert.Contains(t, logs.String(), "deck_kind")
		assert.Contains(t, logs.String(), "max_time_seconds")
		assert.Contains(t, logs.String(), "score_warning_level")
	})

	t.Run("stored time limit must sit on the 5-minute grid", func(t *testing.T) {
		logger, logs := quietLogger()
		s := Load([]byte(`{"difficulty_level": 2, "max_time_seconds": 61}`), logger)
		assert.Equal(t, 0, s.MaxTimeSeconds)
		assert.Contains(t, logs.String(), "max_time_seconds")

		s = Load([]byte(`{"difficulty_level": 2, "max_time_seconds": 600}`), logger)
		assert.Equal(t, 600, s.MaxTimeSeconds)
	})

	t.Run("warning level is case insensitive", func(t *testing.T) {
		logger, _ := quietLogger()
		s := Load([]byte(`{"score_warning_level": "minimal"}`), logger)
		assert.Equal(t, scoring.WarningsMinimal, s.ScoreWarningLevel)
	})
}

func TestMenu(t *testing.T) {
	var events telemetry.Collector

	t.Run("cycles publish changes", func(t *testing.T) {
		events.Reset()
		s := Default()
		require.NoError(t, s.ApplyPreset(2))
		m := NewMenu(&s, &events)

		require.NoError(t, m.CycleDrawCount())
		assert.Equal(t, 3, s.DrawCount)
		require.NoError(t, m.CycleDrawCount())
		assert.Equal(t, 1, s.DrawCount)

		require.NoError(t, m.CycleDeck())
		assert.Equal(t, deck.KindNeapolitan, s.DeckKind)

		require.NoError(t, m.Toggle(OptionShuffleDiscards))
		require.NoError(t, m.CycleWarningLevel())
		assert.Equal(t, scoring.WarningsComplete, s.ScoreWarningLevel)

		evs := events.Events()
		require.Len(t, evs, 5)
		for _, e := range evs {
			assert.Equal(t, telemetry.EventSettingChanged, e.Type)
		}
		name, _ := evs[0].Text("name")
		assert.Equal(t, "draw_count", name)
		assert.Equal(t, 2, evs[0].Context["old"])
		assert.Equal(t, 3, evs[0].Context["new"])
	})

	t.Run("locked options publish OptionLocked", func(t *testing.T) {
		events.Reset()
		s := Default()
		require.NoError(t, s.ApplyPreset(5))
		m := NewMenu(&s, &events)

		assert.ErrorIs(t, m.CycleDrawCount(), ErrOptionLocked)
		assert.ErrorIs(t, m.Toggle(OptionScoring), ErrOptionLocked)
		assert.Equal(t, []telemetry.EventType{
			telemetry.EventOptionLocked,
			telemetry.EventOptionLocked,
		}, events.Types())
		preset, _ := events.Events()[0].Text("preset")
		assert.Equal(t, "Maestro", preset)
	})

	t.Run("max time steps by five minutes", func(t *testing.T) {
		s := Default()
		require.NoError(t, s.ApplyPreset(2))
		m := NewMenu(&s, nil)

		require.NoError(t, m.CycleMaxTime())
		assert.Equal(t, 300, s.MaxTimeSeconds)
		require.NoError(t, s.SetMaxTime(3600))
		require.NoError(t, m.CycleMaxTime())
		assert.Equal(t, 0, s.MaxTimeSeconds)
		require.NoError(t, s.SetMaxTime(60))
		require.NoError(t, m.CycleMaxTime())
		assert.Equal(t, 300, s.MaxTimeSeconds)
	})

	t.Run("difficulty", func(t *testing.T) {
		events.Reset()
		s := Default()
		m := NewMenu(&s, &events)
		assert.Equal(t, 4, m.CycleDifficulty())
		assert.Equal(t, 1800, s.MaxTimeSeconds)
		assert.Equal(t, []telemetry.EventType{telemetry.EventSettingChanged}, events.Types())
	})

	t.Run("toggle rejects non switches", func(t *testing.T) {
		s := Default()
		m := NewMenu(&s, nil)
		assert.ErrorIs(t, m.Toggle(OptionDrawCount), ErrInvalidValue)
	})
}

func TestFileRepo(t *testing.T) {
	dir := t.TempDir()
	logger, _ := quietLogger()
	var events telemetry.Collector

	repo, err := NewFileRepo(dir, "", logger, &events)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFileName), repo.Path())

	assert.Equal(t, Default(), repo.Load())

	s := Default()
	require.NoError(t, s.ApplyPreset(1))
	require.NoError(t, s.SetDeck(deck.KindNeapolitan))
	require.NoError(t, repo.Save(s))
	assert.Equal(t, []telemetry.EventType{telemetry.EventSettingSaved}, events.Types())
	assert.Equal(t, s, repo.Load())

	bad := s
	bad.MaxTimeSeconds = 900
	assert.ErrorIs(t, repo.Save(bad), ErrPresetMismatch)

	require.NoError(t, os.WriteFile(repo.Path(), []byte(`{"difficulty_level":5,"draw_count":1}`), 0o644))
	loaded := repo.Load()
	assert.Equal(t, 5, loaded.DifficultyLevel)
	assert.Equal(t, 3, loaded.DrawCount)
}
