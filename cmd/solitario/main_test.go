package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/game"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/history"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/scoring"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/settings"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solitario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 42\nui:\n  double_escape_window_ms: 1500\n"), 0o644))

	t.Setenv("SOLITARIO_SEED", "")
	cfg, err := loadConfig(path, dir)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, history.DefaultFileName), cfg.HistoryPath())

	_, err = loadConfig(filepath.Join(dir, "missing.yaml"), "")
	assert.Error(t, err)
}

func TestPrintHistory(t *testing.T) {
	store, err := history.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Record(game.FinalStatistics{
		GameID:     "g1",
		Reason:     game.ReasonVictory,
		Won:        true,
		DeckKind:   deck.KindNeapolitan,
		Difficulty: 3,
		Stats:      game.Statistics{MoveCount: 90, ElapsedSeconds: 300},
		Score:      scoring.Score{Total: 1200},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, store, deck.KindNeapolitan, 5))
	out := buf.String()
	assert.Contains(t, out, "Migliori punteggi, mazzo napoletano:")
	assert.Contains(t, out, "1200 punti")
	assert.Contains(t, out, "Giocate 1, vinte 1 (100%)")

	assert.ErrorIs(t, printHistory(&buf, store, deck.Kind("tarot"), 5), settings.ErrInvalidDeck)
}

func TestPrintSettings(t *testing.T) {
	var buf bytes.Buffer
	printSettings(&buf, settings.Default())
	out := buf.String()
	assert.Contains(t, out, "Livello 3 (Normale)")
	assert.Contains(t, out, "carte per pescata")
	assert.Contains(t, out, "[bloccato]")
}

func TestParseSwitch(t *testing.T) {
	on, err := parseSwitch("on")
	require.NoError(t, err)
	assert.True(t, on)
	on, err = parseSwitch("false")
	require.NoError(t, err)
	assert.False(t, on)
	_, err = parseSwitch("maybe")
	assert.Error(t, err)
}
