package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/announce"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/config"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/cursor"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/dialog"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/game"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/history"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/settings"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/telemetry"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/timer"
)

const journalLimit = 5000

// session drives one terminal session. Every call into the game happens on
// the goroutine running run.
type session struct {
	svc     *game.Service
	bus     *telemetry.Bus
	journal *telemetry.MemoryRepository
	prefs   *settings.FileRepo
	store   *history.Store
	dialogs *dialog.Queue
	options *optionsMenu
	clock   timer.Clock
	logger  *log.Logger
	out     io.Writer

	escWindow time.Duration
	lastEsc   time.Time
	spoken    int
	replacing bool
	quit      bool
}

type sessionDeps struct {
	Config *config.Config
	Prefs  *settings.FileRepo
	Store  *history.Store
	Bus    *telemetry.Bus
	Clock  timer.Clock
	Logger *log.Logger
	Out    io.Writer
}

func newSession(d sessionDeps) *session {
	if d.Clock == nil {
		d.Clock = timer.RealClock{}
	}
	s := &session{
		bus:       d.Bus,
		journal:   telemetry.NewMemoryRepository(journalLimit),
		prefs:     d.Prefs,
		store:     d.Store,
		dialogs:   dialog.NewQueue(),
		clock:     d.Clock,
		logger:    d.Logger,
		out:       d.Out,
		escWindow: d.Config.DoubleEscapeWindow(),
	}
	s.svc = game.NewService(game.Options{
		Seed:           d.Config.Seed,
		Clock:          d.Clock,
		Logger:         d.Logger,
		Publisher:      d.Bus,
		WarningMinutes: d.Config.Timer.WarningMinutes,
		PileOrder:      d.Config.UI.PileOrder,
	})
	d.Bus.Subscribe(s.speak)
	d.Bus.Subscribe(s.journal.Subscriber())
	d.Bus.Subscribe(s.onGameEnded)
	return s
}

func (s *session) say(msg string) {
	if msg == "" {
		return
	}
	s.spoken++
	fmt.Fprintln(s.out, msg)
}

func (s *session) speak(e telemetry.Event) {
	s.say(announce.Event(e))
}

// onGameEnded stores the result and offers a rematch.
func (s *session) onGameEnded(e telemetry.Event) {
	if e.Type != telemetry.EventGameEnded {
		return
	}
	final, ok := e.Context["final"].(game.FinalStatistics)
	if !ok {
		return
	}
	if s.store != nil {
		if _, err := s.store.Record(final); err != nil {
			s.logger.Printf("history: record game %s: %v", final.GameID, err)
		}
	}
	if !s.quit && !s.replacing {
		s.ask(dialog.KindRematch, func(yes bool) {
			if yes {
				s.newGame()
			}
		})
	}
}

func (s *session) ask(k dialog.Kind, then func(yes bool)) {
	s.svc.Pause()
	s.dialogs.Ask(k, then)
	if p, ok := s.dialogs.Pending(); ok && p.Kind == k {
		s.say(p.Question + " (s/n)")
	}
}

// newGame deals with the saved settings. A running game is abandoned
// without offering a rematch.
func (s *session) newGame() {
	s.replacing = true
	defer func() { s.replacing = false }()
	if _, err := s.svc.NewGame(s.prefs.Load()); err != nil {
		s.say(announce.Error(err))
	}
}

func (s *session) handleLine(line string) {
	if p, ok := s.dialogs.Pending(); ok {
		yes, valid := parseAnswer(line)
		if !valid {
			s.say(p.Question + " (s/n)")
			return
		}
		queued := s.dialogs.Len()
		_ = s.dialogs.Answer(yes)
		if next, ok := s.dialogs.Pending(); ok {
			// A prompt asked by the continuation has been spoken already.
			if queued > 1 {
				s.say(next.Question + " (s/n)")
			}
			return
		}
		s.svc.Resume()
		return
	}
	if s.options != nil {
		s.optionsLine(line)
		return
	}

	a, ok := parseInput(line)
	if !ok {
		s.say("Comando sconosciuto. Scrivi aiuto per l'elenco dei comandi.")
		return
	}
	if a.kind != actEscape {
		s.lastEsc = time.Time{}
	}
	playing := s.svc.Status() == game.StatusPlaying

	switch a.kind {
	case actCommand:
		s.command(a.cmd)
	case actEscape:
		s.escape()
	case actNewGame:
		if !playing {
			s.newGame()
			return
		}
		s.ask(dialog.KindNewGame, func(yes bool) {
			if yes {
				s.newGame()
			}
		})
	case actAbandon:
		if !playing {
			s.say(announce.Error(game.ErrGameNotInProgress))
			return
		}
		s.ask(dialog.KindAbandon, func(yes bool) {
			if yes {
				_, _ = s.svc.EndGame(game.ReasonAbandon)
			}
		})
	case actExit:
		s.ask(dialog.KindExit, func(yes bool) {
			if yes {
				s.exit()
			}
		})
	case actStatus:
		if s.svc.Status() == game.StatusNone {
			s.say(announce.Error(game.ErrGameNotInProgress))
			return
		}
		s.say(announce.Statistics(s.svc.Statistics(), s.svc.Score(), s.svc.Settings().MaxTimeSeconds > 0))
	case actOptions:
		s.openOptions()
	case actHelp:
		s.say(helpText)
	}
}

// command forwards a key to the cursor. Errors that produced no event of
// their own are spoken here.
func (s *session) command(cmd cursor.Command) {
	before := s.spoken
	if err := s.svc.HandleCommand(cmd); err != nil && s.spoken == before {
		s.say(announce.Error(err))
	}
}

// escape cancels a selection. Without one, two presses inside the window
// quit at once.
func (s *session) escape() {
	if c := s.svc.Cursor(); c != nil && c.State() == cursor.Selected {
		s.command(cursor.Key(cursor.Cancel))
		return
	}
	now := s.clock.Now()
	if !s.lastEsc.IsZero() && now.Sub(s.lastEsc) <= s.escWindow {
		s.exit()
		return
	}
	s.lastEsc = now
	s.say("Premi di nuovo esc per uscire.")
}

func (s *session) exit() {
	s.quit = true
	s.dialogs.Dismiss()
	if s.svc.Status() == game.StatusPlaying {
		_, _ = s.svc.EndGame(game.ReasonAbandon)
	}
}

func (s *session) tick() {
	if s.svc.Status() != game.StatusPlaying {
		return
	}
	if err := s.svc.PollTimer(); err != nil && !errors.Is(err, game.ErrGameNotInProgress) {
		s.logger.Printf("poll timer: %v", err)
	}
}

// run reads lines from in and polls the timer every tick until the player
// quits, in ends or ctx is cancelled.
func (s *session) run(ctx context.Context, in io.Reader, tick time.Duration) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	s.say("Solitario. Scrivi aiuto per l'elenco dei comandi.")
	s.newGame()
	for !s.quit {
		select {
		case <-ctx.Done():
			s.exit()
		case line, ok := <-lines:
			if !ok {
				s.exit()
				break
			}
			s.handleLine(line)
		case <-ticker.C:
			s.tick()
		}
	}
	s.summary()

	select {
	case err := <-errc:
		return err
	default:
		return nil
	}
}

// summary speaks the session totals from the event journal.
func (s *session) summary() {
	events, err := s.journal.GetEvents(time.Time{}, nil)
	if err != nil {
		s.logger.Printf("journal: %v", err)
		return
	}
	st := telemetry.CalculateStats(events, time.Time{})
	s.say(fmt.Sprintf("Sessione terminata: %d partite, %d vinte, %d mosse, %d mosse non valide.",
		st.GamesEnded, st.EndReasons[string(game.ReasonVictory)], st.Moves, st.InvalidMoves))
}
