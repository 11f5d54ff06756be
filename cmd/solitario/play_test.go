package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/config"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/cursor"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/dialog"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/game"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/history"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/settings"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/table"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/telemetry"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/timer"
)

type fixture struct {
	s     *session
	out   *bytes.Buffer
	clock *timer.FakeClock
	store *history.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := log.New(io.Discard, "", 0)

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Seed = 7

	bus := telemetry.NewBus(logger)
	prefs, err := settings.NewFileRepo(cfg.DataDir, cfg.SettingsFile, logger, bus)
	require.NoError(t, err)
	store, err := history.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	out := &bytes.Buffer{}
	clock := timer.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s := newSession(sessionDeps{
		Config: cfg,
		Prefs:  prefs,
		Store:  store,
		Bus:    bus,
		Clock:  clock,
		Logger: logger,
		Out:    out,
	})
	return &fixture{s: s, out: out, clock: clock, store: store}
}

// said returns what was spoken since the last call.
func (f *fixture) said() string {
	defer f.out.Reset()
	return f.out.String()
}

func TestParseInput(t *testing.T) {
	cases := []struct {
		line string
		want action
	}{
		{"", action{kind: actCommand, cmd: cursor.Key(cursor.Select)}},
		{" Invio ", action{kind: actCommand, cmd: cursor.Key(cursor.Select)}},
		{".", action{kind: actCommand, cmd: cursor.Key(cursor.Commit)}},
		{"3", action{kind: actCommand, cmd: cursor.NavigateTo(2)}},
		{"f2", action{kind: actCommand, cmd: cursor.NavigateTo(table.FirstFoundation + 1)}},
		{"w", action{kind: actCommand, cmd: cursor.NavigateTo(table.WasteIndex)}},
		{"pesca", action{kind: actCommand, cmd: cursor.Key(cursor.Draw)}},
		{"ESC", action{kind: actEscape}},
		{"q", action{kind: actExit}},
	}
	for _, tc := range cases {
		got, ok := parseInput(tc.line)
		require.True(t, ok, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}

	for _, bad := range []string{"8", "0", "f5", "f", "boh"} {
		_, ok := parseInput(bad)
		assert.False(t, ok, bad)
	}
}

func TestParseAnswer(t *testing.T) {
	for _, line := range []string{"s", "Sì", "yes"} {
		yes, ok := parseAnswer(line)
		assert.True(t, ok, line)
		assert.True(t, yes, line)
	}
	for _, line := range []string{"n", "NO", "esc"} {
		yes, ok := parseAnswer(line)
		assert.True(t, ok, line)
		assert.False(t, yes, line)
	}
	_, ok := parseAnswer("forse")
	assert.False(t, ok)
}

func TestSessionAbandonAndRematch(t *testing.T) {
	f := newFixture(t)
	f.s.newGame()
	assert.Contains(t, f.said(), "Nuova partita.")

	f.s.handleLine("a")
	assert.Equal(t, dialog.KindAbandon.Question()+" (s/n)\n", f.said())

	f.s.handleLine("boh")
	assert.Equal(t, dialog.KindAbandon.Question()+" (s/n)\n", f.said(), "an unreadable answer repeats the question")

	f.s.handleLine("s")
	out := f.said()
	assert.Contains(t, out, "Partita abbandonata.")
	assert.Equal(t, 1, strings.Count(out, dialog.KindRematch.Question()))
	assert.Equal(t, game.StatusEnded, f.s.svc.Status())

	rows, err := f.store.Recent(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, game.ReasonAbandon, rows[0].Reason)

	f.s.handleLine("s")
	assert.Contains(t, f.said(), "Nuova partita.")
	assert.Equal(t, game.StatusPlaying, f.s.svc.Status())
	_, pending := f.s.dialogs.Pending()
	assert.False(t, pending)
}

func TestSessionNewGameDoesNotOfferRematch(t *testing.T) {
	f := newFixture(t)
	f.s.newGame()
	first := f.s.svc.GameID()
	f.said()

	f.s.handleLine("n")
	assert.Contains(t, f.said(), dialog.KindNewGame.Question())
	f.s.handleLine("s")

	out := f.said()
	assert.Contains(t, out, "Partita abbandonata.")
	assert.Contains(t, out, "Nuova partita.")
	assert.NotContains(t, out, dialog.KindRematch.Question())
	assert.NotEqual(t, first, f.s.svc.GameID())
	assert.Equal(t, 0, f.s.dialogs.Len())
}

func TestSessionDialogPausesTimer(t *testing.T) {
	f := newFixture(t)
	st := settings.Default()
	require.NoError(t, st.SetMaxTime(600))
	require.NoError(t, f.s.prefs.Save(st))
	f.s.newGame()

	f.clock.AdvanceSeconds(30)
	f.s.handleLine("q")
	f.clock.AdvanceSeconds(300)
	f.s.handleLine("n")
	f.clock.AdvanceSeconds(10)

	assert.Equal(t, 40, f.s.svc.Statistics().ElapsedSeconds)
	assert.False(t, f.s.quit)
}

func TestSessionDoubleEscape(t *testing.T) {
	f := newFixture(t)
	f.s.newGame()
	f.said()

	f.s.handleLine("esc")
	assert.Contains(t, f.said(), "Premi di nuovo esc")
	f.clock.Advance(5 * time.Second)
	f.s.handleLine("esc")
	assert.False(t, f.s.quit, "outside the window the count starts over")

	f.clock.Advance(time.Second)
	f.s.handleLine("esc")
	assert.True(t, f.s.quit)
	assert.Equal(t, game.StatusEnded, f.s.svc.Status())
	assert.NotContains(t, f.said(), dialog.KindRematch.Question())
}

func TestSessionEscapeCancelsSelection(t *testing.T) {
	f := newFixture(t)
	f.s.newGame()

	f.s.handleLine("7")
	f.s.handleLine("")
	require.Equal(t, cursor.Selected, f.s.svc.Cursor().State())
	f.said()

	f.s.handleLine("esc")
	assert.Contains(t, f.said(), "Selezione annullata.")
	assert.Equal(t, cursor.Idle, f.s.svc.Cursor().State())
	assert.False(t, f.s.quit)
}

func TestSessionSpeaksRefusals(t *testing.T) {
	f := newFixture(t)
	f.s.handleLine("i")
	assert.Equal(t, "Nessuna partita in corso.\n", f.said())

	f.s.handleLine("xyz")
	assert.Contains(t, f.said(), "Comando sconosciuto.")

	f.s.newGame()
	f.said()
	f.s.handleLine("i")
	assert.Contains(t, f.said(), "Mosse 0, pescate 0.")
}

func TestSessionOptionsMenu(t *testing.T) {
	f := newFixture(t)

	f.s.handleLine("o")
	assert.Equal(t, "Opzioni. Livello di difficoltà 3, Normale.\n", f.said())

	f.s.handleLine("")
	assert.Equal(t, "Livello di difficoltà 4.\n", f.said())

	f.s.handleLine("giu")
	assert.Equal(t, "Tipo di mazzo: francese.\n", f.said())
	f.s.handleLine("invio")
	assert.Equal(t, "Tipo di mazzo: napoletano.\n", f.said())

	f.s.handleLine("giu")
	assert.Contains(t, f.said(), "Bloccato dal livello.")
	f.s.handleLine("")
	assert.Equal(t, "Carte per pescata bloccato dal livello Esperto.\n", f.said())

	f.s.handleLine("su")
	f.s.handleLine("su")
	assert.Contains(t, f.said(), "Livello di difficoltà 4, Esperto.")

	f.s.handleLine("esc")
	assert.Equal(t, "Impostazioni salvate.\nOpzioni chiuse.\n", f.said())
	assert.Nil(t, f.s.options)

	saved := f.s.prefs.Load()
	assert.Equal(t, 4, saved.DifficultyLevel)
	assert.Equal(t, deck.KindNeapolitan, saved.DeckKind)
	assert.Equal(t, 1800, saved.MaxTimeSeconds)

	f.s.handleLine("n")
	assert.Contains(t, f.said(), "Mazzo napoletano, livello 4")

	f.s.handleLine("o")
	assert.Equal(t, "Le opzioni si cambiano fuori dalla partita.\n", f.said())
	assert.Nil(t, f.s.options)
}

func TestSessionRun(t *testing.T) {
	f := newFixture(t)
	in := strings.NewReader("d\ni\nq\ns\n")

	err := f.s.run(context.Background(), in, time.Hour)
	require.NoError(t, err)

	out := f.out.String()
	assert.True(t, strings.HasPrefix(out, "Solitario."))
	assert.Contains(t, out, "Peschi ")
	assert.Contains(t, out, dialog.KindExit.Question())
	assert.Contains(t, out, "Sessione terminata: 1 partite, 0 vinte")

	sum, err := f.store.Summary("")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Played)
	assert.Equal(t, 1, sum.Abandoned)
}

func TestSessionRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	require.NoError(t, f.s.run(ctx, pr, time.Hour))
	assert.True(t, f.s.quit)
	assert.Equal(t, game.StatusEnded, f.s.svc.Status())
}
