package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/deck"
)

// Action is a scored game event.
type Action string

const (
	ActionWasteToFoundation   Action = "waste_to_foundation"
	ActionTableauToFoundation Action = "tableau_to_foundation"
	ActionFoundationToTableau Action = "foundation_to_tableau"
	ActionTableauToTableau    Action = "tableau_to_tableau"
	ActionWasteToTableau      Action = "waste_to_tableau"
	ActionRecycle             Action = "recycle"
	ActionOvertime            Action = "overtime"
)

const (
	PointsToFoundation    = 10
	PointsFromFoundation  = -15
	PointsRecycle         = -20
	OvertimePenaltyMinute = 100
	MoveBonusBase         = 1000
	MoveBonusPerMove      = 2
	TimeBonusPerTenSecond = 100
	NeapolitanDeckBonus   = 50
)

var deltas = map[Action]int{
	ActionWasteToFoundation:   PointsToFoundation,
	ActionTableauToFoundation: PointsToFoundation,
	ActionFoundationToTableau: PointsFromFoundation,
	ActionRecycle:             PointsRecycle,
}

// DifficultyBonus indexed by level 1..5.
var DifficultyBonus = map[int]int{1: 0, 2: 50, 3: 100, 4: 200, 5: 400}

var ErrInvalidWarningLevel = errors.New("invalid score warning level")

// WarningLevel controls which score losses are announced.
type WarningLevel string

const (
	WarningsDisabled WarningLevel = "DISABLED"
	WarningsMinimal  WarningLevel = "MINIMAL"
	WarningsBalanced WarningLevel = "BALANCED"
	WarningsComplete WarningLevel = "COMPLETE"
)

var WarningLevels = []WarningLevel{WarningsDisabled, WarningsMinimal, WarningsBalanced, WarningsComplete}

func ParseWarningLevel(s string) (WarningLevel, error) {
	l := WarningLevel(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range WarningLevels {
		if v == l {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWarningLevel, s)
}

// Allows reports whether a loss from a should be announced.
func (l WarningLevel) Allows(a Action) bool {
	switch l {
	case WarningsMinimal:
		return a == ActionOvertime
	case WarningsBalanced:
		return a == ActionOvertime || a == ActionRecycle
	case WarningsComplete:
		return true
	}
	return false
}

type Score struct {
	BasePoints      int  `json:"base_points"`
	TimeBonus       int  `json:"time_bonus"`
	MoveBonus       int  `json:"move_bonus"`
	DifficultyBonus int  `json:"difficulty_bonus"`
	DeckBonus       int  `json:"deck_bonus"`
	Penalties       int  `json:"penalties"`
	Total           int  `json:"total"`
	Final           bool `json:"final"`
}

// Scorer accumulates points for one game. A disabled scorer records nothing
// and always totals zero.
type Scorer struct {
	enabled    bool
	difficulty int
	kind       deck.Kind

	base            int
	overtimeMinutes int
	moves           map[Action]int
}

func New(enabled bool, difficulty int, kind deck.Kind) *Scorer {
	return &Scorer{
		enabled:    enabled,
		difficulty: difficulty,
		kind:       kind,
		moves:      map[Action]int{},
	}
}

func (s *Scorer) Enabled() bool {
	return s.enabled
}

// Record applies the delta for a and returns it.
func (s *Scorer) Record(a Action) int {
	if !s.enabled {
		return 0
	}
	s.moves[a]++
	d := deltas[a]
	s.base += d
	return d
}

// SetOvertime charges 100 points per started minute past the limit and
// returns the change in penalty since the previous call.
func (s *Scorer) SetOvertime(overSeconds int) int {
	if !s.enabled || overSeconds <= 0 {
		return 0
	}
	minutes := (overSeconds + 59) / 60
	delta := (minutes - s.overtimeMinutes) * OvertimePenaltyMinute
	if minutes > s.overtimeMinutes {
		s.overtimeMinutes = minutes
		return delta
	}
	return 0
}

func (s *Scorer) Count(a Action) int {
	return s.moves[a]
}

func (s *Scorer) penalties() int {
	return s.overtimeMinutes*OvertimePenaltyMinute
}

// Current is the running score without end-of-game bonuses.
func (s *Scorer) Current() Score {
	if !s.enabled {
		return Score{}
	}
	sc := Score{BasePoints: s.base, Penalties: s.penalties()}
	sc.Total = clamp(sc.BasePoints - sc.Penalties)
	return sc
}

// Final closes the score. Bonuses apply only to a won game.
func (s *Scorer) Final(won bool, remainingSeconds, moveCount int) Score {
	if !s.enabled {
		return Score{Final: true}
	}
	sc := s.Current()
	sc.Final = true
	if won {
		sc.TimeBonus = max(0, TimeBonusPerTenSecond*(remainingSeconds/10))
		sc.MoveBonus = max(0, MoveBonusBase-MoveBonusPerMove*moveCount)
		sc.DifficultyBonus = DifficultyBonus[s.difficulty]
		if s.kind == deck.KindNeapolitan {
			sc.DeckBonus = NeapolitanDeckBonus
		}
	}
	sc.Total = clamp(sc.BasePoints + sc.TimeBonus + sc.MoveBonus + sc.DifficultyBonus + sc.DeckBonus - sc.Penalties)
	return sc
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
