package game

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/cursor"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/scoring"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/settings"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/table"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/telemetry"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/timer"
)

type Status string

const (
	StatusNone    Status = "none"
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
)

type EndReason string

const (
	ReasonVictory EndReason = "victory"
	ReasonTimeout EndReason = "timeout"
	ReasonAbandon EndReason = "abandon"
)

func (r EndReason) Valid() bool {
	switch r {
	case ReasonVictory, ReasonTimeout, ReasonAbandon:
		return true
	}
	return false
}

type Options struct {
	// Seed fixes shuffles for a reproducible session; 0 seeds from the clock.
	Seed           int64
	Clock          timer.Clock
	Logger         *log.Logger
	Publisher      telemetry.Publisher
	WarningMinutes []int
	PileOrder      []int
}

// Service runs one game at a time. It owns the table, timer, scorer and
// cursor; every mutation goes through it and is published on the bus
// before the call returns. It is not safe for concurrent use.
type Service struct {
	clock    timer.Clock
	logger   *log.Logger
	pub      telemetry.Publisher
	rng      *rand.Rand
	warnings []int
	order    []int

	settings settings.Settings
	table    *table.Table
	timer    *timer.Timer
	scorer   *scoring.Scorer
	cursor   *cursor.Controller

	status            Status
	gameID            string
	startedAt         time.Time
	moves             int
	draws             int
	recycles          int
	overtimeAnnounced bool
	final             *FinalStatistics
	busy              bool
}

func NewService(opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = timer.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Publisher == nil {
		opts.Publisher = telemetry.Discard{}
	}
	if opts.WarningMinutes == nil {
		opts.WarningMinutes = timer.DefaultWarnings
	}
	seed := opts.Seed
	if seed == 0 {
		seed = opts.Clock.Now().UnixNano()
	}
	return &Service{
		clock:    opts.Clock,
		logger:   opts.Logger,
		pub:      opts.Publisher,
		rng:      rand.New(rand.NewSource(seed)),
		warnings: append([]int(nil), opts.WarningMinutes...),
		order:    append([]int(nil), opts.PileOrder...),
		settings: settings.Default(),
		status:   StatusNone,
	}
}

// NewGame deals a fresh table for st. A game still in progress is
// abandoned first.
func (s *Service) NewGame(st settings.Settings) (Snapshot, error) {
	if s.busy {
		return Snapshot{}, ErrReentrant
	}
	if err := st.Validate(); err != nil {
		return Snapshot{}, err
	}

	d, err := deck.New(st.DeckKind, s.rng)
	if err != nil {
		return Snapshot{}, err
	}
	tm, err := timer.New(s.clock, st.MaxTimeSeconds, s.warnings, s.onTimerWarning, s.onTimerExpired)
	if err != nil {
		return Snapshot{}, err
	}
	t := table.New(d)
	cur, err := cursor.New(t, mover{s}, s.pub, cursor.Options{
		Order: s.order,
		Hints: st.CommandHintsEnabled,
	})
	if err != nil {
		return Snapshot{}, err
	}

	s.busy = true
	defer s.done()
	if s.status == StatusPlaying {
		s.endGame(ReasonAbandon)
	}

	t.Deal()
	t.MustVerify()

	s.settings = st
	s.table = t
	s.timer = tm
	s.scorer = scoring.New(st.ScoringEnabled, st.DifficultyLevel, st.DeckKind)
	s.cursor = cur
	s.gameID = uuid.NewString()
	s.moves, s.draws, s.recycles = 0, 0, 0
	s.overtimeAnnounced = false
	s.final = nil
	s.status = StatusPlaying
	s.startedAt = s.clock.Now()
	tm.Start()

	s.pub.Publish(telemetry.New(telemetry.EventGameStarted, telemetry.EventMetadata{
		"game_id":     s.gameID,
		"deck":        string(st.DeckKind),
		"difficulty":  st.DifficultyLevel,
		"draw_count":  st.DrawCount,
		"time_limit":  st.MaxTimeSeconds,
		"strict":      st.TimerStrictMode,
		"stock_cards": t.Stock().Len(),
	}))
	s.logger.Printf("game %s started: deck=%s level=%d", s.gameID, st.DeckKind, st.DifficultyLevel)
	return s.Snapshot(), nil
}

func (s *Service) Status() Status              { return s.status }
func (s *Service) GameID() string              { return s.gameID }
func (s *Service) Settings() settings.Settings { return s.settings }

// Cursor is nil until the first game starts.
func (s *Service) Cursor() *cursor.Controller {
	return s.cursor
}

// HandleCommand routes a key command through the cursor.
func (s *Service) HandleCommand(cmd cursor.Command) error {
	if s.cursor == nil {
		return ErrGameNotInProgress
	}
	return s.cursor.Handle(cmd)
}

// begin guards a mutation: one at a time, and only during play.
func (s *Service) begin() error {
	if s.busy {
		return ErrReentrant
	}
	if s.status != StatusPlaying {
		return ErrGameNotInProgress
	}
	s.busy = true
	return nil
}

func (s *Service) done() {
	s.busy = false
}

// Pause stops the clock, for example while a dialog is open.
func (s *Service) Pause() {
	if s.status == StatusPlaying {
		s.timer.Pause()
	}
}

func (s *Service) Resume() {
	if s.status == StatusPlaying {
		s.timer.Resume()
	}
}

// PollTimer is called by the adapter's ticker. It announces warnings and
// applies the expiry policy: STRICT ends the game, PERMISSIVE keeps playing
// and charges overtime.
func (s *Service) PollTimer() error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.done()

	s.timer.CheckWarnings()
	if !s.timer.IsExpired() {
		return nil
	}
	if s.settings.TimerStrictMode {
		s.endGame(ReasonTimeout)
		return nil
	}

	over := int(s.timer.Overtime() / time.Second)
	if !s.overtimeAnnounced {
		s.overtimeAnnounced = true
		s.pub.Publish(telemetry.New(telemetry.EventOvertimeWarning, telemetry.EventMetadata{
			"minutes_over": (over + 59) / 60,
		}))
	}
	if delta := s.scorer.SetOvertime(over); delta > 0 {
		s.scoreWarning(scoring.ActionOvertime, -delta)
	}
	return nil
}

func (s *Service) onTimerWarning(minutesLeft int) {
	s.pub.Publish(telemetry.New(telemetry.EventTimerWarning, telemetry.EventMetadata{
		"minutes_left": minutesLeft,
	}))
}

func (s *Service) onTimerExpired() {
	s.pub.Publish(telemetry.New(telemetry.EventTimerExpired, telemetry.EventMetadata{
		"strict": s.settings.TimerStrictMode,
	}))
}

// EndGame closes the game for reason and returns the final statistics.
func (s *Service) EndGame(reason EndReason) (FinalStatistics, error) {
	if !reason.Valid() {
		return FinalStatistics{}, fmt.Errorf("%w: %q", ErrInvalidEndReason, reason)
	}
	if err := s.begin(); err != nil {
		return FinalStatistics{}, err
	}
	defer s.done()
	return s.endGame(reason), nil
}

func (s *Service) endGame(reason EndReason) FinalStatistics {
	if !s.settings.TimerStrictMode {
		s.scorer.SetOvertime(int(s.timer.Overtime() / time.Second))
	}
	s.timer.Stop()

	won := reason == ReasonVictory
	stats := s.statistics()
	final := FinalStatistics{
		GameID:           s.gameID,
		Reason:           reason,
		Won:              won,
		DeckKind:         s.settings.DeckKind,
		Difficulty:       s.settings.DifficultyLevel,
		DrawCount:        s.settings.DrawCount,
		TimeLimitSeconds: s.settings.MaxTimeSeconds,
		TimerStrict:      s.settings.TimerStrictMode,
		OvertimeSeconds:  int(s.timer.Overtime() / time.Second),
		StartedAt:        s.startedAt,
		EndedAt:          s.clock.Now(),
		Stats:            stats,
		Score:            s.scorer.Final(won, stats.RemainingSeconds, s.moves),
		ScoringEnabled:   s.settings.ScoringEnabled,
	}
	s.final = &final
	s.status = StatusEnded

	s.pub.Publish(telemetry.New(telemetry.EventGameEnded, telemetry.EventMetadata{
		"reason":  string(reason),
		"won":     won,
		"game_id": s.gameID,
		"score":   final.Score.Total,
		"moves":   stats.MoveCount,
		"elapsed": stats.ElapsedSeconds,
		"final":   final,
	}))
	s.logger.Printf("game %s ended: %s score=%d moves=%d", s.gameID, reason, final.Score.Total, stats.MoveCount)
	return final
}

// FinalStatistics is available once a game has ended.
func (s *Service) FinalStatistics() (FinalStatistics, bool) {
	if s.final == nil {
		return FinalStatistics{}, false
	}
	return *s.final, true
}

// Score is the running score without end-of-game bonuses.
func (s *Service) Score() scoring.Score {
	if s.scorer == nil {
		return scoring.Score{}
	}
	if s.final != nil {
		return s.final.Score
	}
	return s.scorer.Current()
}

func (s *Service) scoreWarning(a scoring.Action, delta int) {
	if delta >= 0 || !s.settings.ScoreWarningLevel.Allows(a) {
		return
	}
	s.pub.Publish(telemetry.New(telemetry.EventScoreWarning, telemetry.EventMetadata{
		"action": string(a),
		"delta":  delta,
		"total":  s.scorer.Current().Total,
	}))
}

// mover adapts the service to the cursor's commit interface.
type mover struct {
	s *Service
}

func (m mover) Move(src, fromTop, dst int) error {
	_, err := m.s.Move(src, fromTop, dst)
	return err
}

func (m mover) AutoMove(src int) error {
	_, err := m.s.AutoMoveToFoundation(src)
	return err
}

func (m mover) DrawCard() error {
	_, err := m.s.Draw()
	return err
}
