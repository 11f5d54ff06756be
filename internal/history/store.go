// Package history keeps finished games in a local SQLite database.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/game"
)

const DefaultFileName = "history.db"

// Row is one finished game.
type Row struct {
	ID         string
	GameID     string
	Deck       deck.Kind
	Difficulty int
	Reason     game.EndReason
	Won        bool
	Score      int
	Moves      int
	Elapsed    int
	EndedAt    time.Time
	Final      game.FinalStatistics
}

type Summary struct {
	Played    int     `json:"played"`
	Won       int     `json:"won"`
	Abandoned int     `json:"abandoned"`
	TimedOut  int     `json:"timed_out"`
	BestScore int     `json:"best_score"`
	WinRate   float64 `json:"win_rate"`
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
// ":memory:" gives a private database for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps an in-memory database alive across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS games (
			id          TEXT PRIMARY KEY,
			game_id     TEXT NOT NULL,
			deck        TEXT NOT NULL,
			difficulty  INTEGER NOT NULL,
			reason      TEXT NOT NULL,
			won         INTEGER NOT NULL,
			score       INTEGER NOT NULL,
			moves       INTEGER NOT NULL,
			elapsed     INTEGER NOT NULL,
			ended_at    INTEGER NOT NULL,
			final_json  TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS games_ended_at ON games(ended_at);
		CREATE INDEX IF NOT EXISTS games_deck_score ON games(deck, won, score);
	`)
	return err
}

// Record stores the final statistics of one game.
func (s *Store) Record(f game.FinalStatistics) (Row, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return Row{}, fmt.Errorf("encode final statistics: %w", err)
	}
	r := Row{
		ID:         uuid.NewString(),
		GameID:     f.GameID,
		Deck:       f.DeckKind,
		Difficulty: f.Difficulty,
		Reason:     f.Reason,
		Won:        f.Won,
		Score:      f.Score.Total,
		Moves:      f.Stats.MoveCount,
		Elapsed:    f.Stats.ElapsedSeconds,
		EndedAt:    f.EndedAt,
		Final:      f,
	}
	_, err = s.db.Exec(`
		INSERT INTO games (id, game_id, deck, difficulty, reason, won, score, moves, elapsed, ended_at, final_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.GameID, string(r.Deck), r.Difficulty, string(r.Reason), r.Won, r.Score, r.Moves, r.Elapsed,
		r.EndedAt.UnixMilli(), string(data))
	if err != nil {
		return Row{}, err
	}
	return r, nil
}

const selectRows = "SELECT id, game_id, deck, difficulty, reason, won, score, moves, elapsed, ended_at, final_json FROM games"

// Recent returns the last n games, newest first.
func (s *Store) Recent(n int) ([]Row, error) {
	return s.query(selectRows+" ORDER BY ended_at DESC, rowid DESC LIMIT ?", n)
}

// Best returns the n highest scoring wins on kind.
func (s *Store) Best(kind deck.Kind, n int) ([]Row, error) {
	return s.query(selectRows+" WHERE deck = ? AND won = 1 ORDER BY score DESC, elapsed ASC LIMIT ?", string(kind), n)
}

// Summary aggregates every game, or only those on kind when kind is set.
func (s *Store) Summary(kind deck.Kind) (Summary, error) {
	q := `
		SELECT COUNT(*),
			COALESCE(SUM(won), 0),
			COALESCE(SUM(reason = 'abandon'), 0),
			COALESCE(SUM(reason = 'timeout'), 0),
			COALESCE(MAX(score), 0)
		FROM games`
	var args []any
	if kind != "" {
		q += " WHERE deck = ?"
		args = append(args, string(kind))
	}
	var sum Summary
	err := s.db.QueryRow(q, args...).Scan(&sum.Played, &sum.Won, &sum.Abandoned, &sum.TimedOut, &sum.BestScore)
	if err != nil {
		return Summary{}, err
	}
	if sum.Played > 0 {
		sum.WinRate = float64(sum.Won) / float64(sum.Played)
	}
	return sum, nil
}

func (s *Store) query(q string, args ...any) ([]Row, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Row
	for rows.Next() {
		var r Row
		var kind, reason, data string
		var endedAt int64
		if err := rows.Scan(&r.ID, &r.GameID, &kind, &r.Difficulty, &reason, &r.Won, &r.Score, &r.Moves, &r.Elapsed, &endedAt, &data); err != nil {
			return nil, err
		}
		r.Deck = deck.Kind(kind)
		r.Reason = game.EndReason(reason)
		r.EndedAt = time.UnixMilli(endedAt).UTC()
		if err := json.Unmarshal([]byte(data), &r.Final); err != nil {
			return nil, fmt.Errorf("decode game %s: %w", r.ID, err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Snapshot writes a consistent copy of the database to path, which must
// not exist yet.
func (s *Store) Snapshot(path string) error {
	_, err := s.db.Exec("VACUUM INTO ?", path)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
