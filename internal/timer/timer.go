package timer

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var ErrInvalidTimerDuration = errors.New("timer duration must be 0 or between 60 and 3600 seconds")

const (
	MinDurationSeconds = 60
	MaxDurationSeconds = 3600
)

// DefaultWarnings are the minute marks announced before expiry.
var DefaultWarnings = []int{10, 5, 1}

// ValidateDuration accepts 0 (disabled) or 60..3600 seconds.
func ValidateDuration(seconds int) error {
	if seconds == 0 {
		return nil
	}
	if seconds < MinDurationSeconds || seconds > MaxDurationSeconds {
		return fmt.Errorf("%w: %d", ErrInvalidTimerDuration, seconds)
	}
	return nil
}

// Timer is a pausable countdown read against a Clock. It never runs on its
// own: the UI tick calls CheckWarnings.
type Timer struct {
	clock    Clock
	duration time.Duration
	marks    []int

	onWarning func(minutesLeft int)
	onExpired func()

	started     bool
	startedAt   time.Time
	stoppedAt   *time.Time
	pausedTotal time.Duration
	pausedAt    *time.Time

	issued  map[int]bool
	expired bool
}

// New builds a stopped timer. durationSeconds 0 disables it; warning marks
// are minutes before expiry. Callbacks may be nil.
func New(clock Clock, durationSeconds int, warningMinutes []int, onWarning func(int), onExpired func()) (*Timer, error) {
	if err := ValidateDuration(durationSeconds); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = RealClock{}
	}
	marks := append([]int(nil), warningMinutes...)
	sort.Sort(sort.Reverse(sort.IntSlice(marks)))
	return &Timer{
		clock:     clock,
		duration:  time.Duration(durationSeconds) * time.Second,
		marks:     marks,
		onWarning: onWarning,
		onExpired: onExpired,
		issued:    map[int]bool{},
	}, nil
}

func (t *Timer) Enabled() bool {
	return t.duration > 0
}

func (t *Timer) Duration() time.Duration {
	return t.duration
}

func (t *Timer) Running() bool {
	return t.started && t.stoppedAt == nil && t.pausedAt == nil
}

func (t *Timer) Paused() bool {
	return t.pausedAt != nil
}

func (t *Timer) Start() {
	t.started = true
	t.startedAt = t.clock.Now()
	t.stoppedAt = nil
	t.pausedAt = nil
	t.pausedTotal = 0
}

func (t *Timer) Pause() {
	if !t.started || t.stoppedAt != nil || t.pausedAt != nil {
		return
	}
	now := t.clock.Now()
	t.pausedAt = &now
}

func (t *Timer) Resume() {
	if t.pausedAt == nil {
		return
	}
	t.pausedTotal += t.clock.Now().Sub(*t.pausedAt)
	t.pausedAt = nil
}

// Stop freezes the elapsed time.
func (t *Timer) Stop() {
	if !t.started || t.stoppedAt != nil {
		return
	}
	t.Resume()
	now := t.clock.Now()
	t.stoppedAt = &now
}

// Reset stops the timer and clears warnings and expiry. A negative
// durationSeconds keeps the current duration.
func (t *Timer) Reset(durationSeconds int) error {
	if durationSeconds >= 0 {
		if err := ValidateDuration(durationSeconds); err != nil {
			return err
		}
		t.duration = time.Duration(durationSeconds) * time.Second
	}
	t.started = false
	t.stoppedAt = nil
	t.pausedAt = nil
	t.pausedTotal = 0
	t.issued = map[int]bool{}
	t.expired = false
	return nil
}

// Elapsed excludes paused time and never goes below zero.
func (t *Timer) Elapsed() time.Duration {
	if !t.started {
		return 0
	}
	now := t.clock.Now()
	if t.stoppedAt != nil {
		now = *t.stoppedAt
	}
	e := now.Sub(t.startedAt) - t.pausedTotal
	if t.pausedAt != nil {
		e -= now.Sub(*t.pausedAt)
	}
	if e < 0 {
		return 0
	}
	return e
}

// Remaining is zero for a disabled timer.
func (t *Timer) Remaining() time.Duration {
	if !t.Enabled() {
		return 0
	}
	r := t.duration - t.Elapsed()
	if r < 0 {
		return 0
	}
	return r
}

// Overtime is how far elapsed time has run past the duration.
func (t *Timer) Overtime() time.Duration {
	if !t.Enabled() {
		return 0
	}
	o := t.Elapsed() - t.duration
	if o < 0 {
		return 0
	}
	return o
}

func (t *Timer) IsExpired() bool {
	return t.Enabled() && t.started && t.Remaining() == 0
}

// CheckWarnings fires each minute mark at most once, largest first, and the
// expiry callback once. After expiry it does nothing until Reset. Marks not
// below the full duration are never announced.
func (t *Timer) CheckWarnings() {
	if !t.Enabled() || !t.started || t.expired {
		return
	}
	if t.IsExpired() {
		t.expired = true
		for _, m := range t.marks {
			t.issued[m] = true
		}
		if t.onExpired != nil {
			t.onExpired()
		}
		return
	}
	remaining := t.Remaining()
	for _, m := range t.marks {
		mark := time.Duration(m) * time.Minute
		if mark >= t.duration || t.issued[m] || remaining > mark {
			continue
		}
		t.issued[m] = true
		if t.onWarning != nil {
			t.onWarning(m)
		}
	}
}

// WarningsIssued lists the marks already announced, largest first.
func (t *Timer) WarningsIssued() []int {
	out := make([]int, 0, len(t.issued))
	for _, m := range t.marks {
		if t.issued[m] {
			out = append(out, m)
		}
	}
	return out
}

func (t *Timer) ExpiryAnnounced() bool {
	return t.expired
}
