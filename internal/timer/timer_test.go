package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func start() time.Time {
	return time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(0))
	assert.NoError(t, ValidateDuration(60))
	assert.NoError(t, ValidateDuration(3600))
	assert.ErrorIs(t, ValidateDuration(59), ErrInvalidTimerDuration)
	assert.ErrorIs(t, ValidateDuration(3601), ErrInvalidTimerDuration)

	_, err := New(nil, 30, nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidTimerDuration)
}

func TestElapsedWithPause(t *testing.T) {
	clock := NewFakeClock(start())
	tm, err := New(clock, 600, nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), tm.Elapsed())
	tm.Start()
	clock.AdvanceSeconds(100)
	assert.Equal(t, 100*time.Second, tm.Elapsed())

	tm.Pause()
	clock.AdvanceSeconds(50)
	assert.Equal(t, 100*time.Second, tm.Elapsed())
	assert.True(t, tm.Paused())

	tm.Resume()
	clock.AdvanceSeconds(20)
	assert.Equal(t, 120*time.Second, tm.Elapsed())
	assert.Equal(t, 480*time.Second, tm.Remaining())

	tm.Stop()
	clock.AdvanceSeconds(500)
	assert.Equal(t, 120*time.Second, tm.Elapsed())
	assert.False(t, tm.Running())
}

func TestWarningsFireOncePerMark(t *testing.T) {
	clock := NewFakeClock(start())
	var got []int
	expired := 0
	tm, err := New(clock, 900, []int{1, 10, 5}, func(m int) { got = append(got, m) }, func() { expired++ })
	require.NoError(t, err)
	tm.Start()

	tm.CheckWarnings()
	assert.Empty(t, got)

	clock.AdvanceSeconds(300) // 10 minutes left
	tm.CheckWarnings()
	tm.CheckWarnings()
	assert.Equal(t, []int{10}, got)

	clock.AdvanceSeconds(541) // 59 s left: 5 and 1 together
	tm.CheckWarnings()
	assert.Equal(t, []int{10, 5, 1}, got)
	assert.Equal(t, []int{10, 5, 1}, tm.WarningsIssued())

	clock.AdvanceSeconds(59)
	tm.CheckWarnings()
	tm.CheckWarnings()
	assert.Equal(t, 1, expired)
	assert.True(t, tm.IsExpired())
	assert.True(t, tm.ExpiryAnnounced())

	require.NoError(t, tm.Reset(-1))
	assert.False(t, tm.ExpiryAnnounced())
	assert.Empty(t, tm.WarningsIssued())
}

func TestMarksAboveDurationSkipped(t *testing.T) {
	clock := NewFakeClock(start())
	var got []int
	tm, err := New(clock, 300, DefaultWarnings, func(m int) { got = append(got, m) }, nil)
	require.NoError(t, err)
	tm.Start()
	tm.CheckWarnings()
	assert.Empty(t, got)

	clock.AdvanceSeconds(240)
	tm.CheckWarnings()
	assert.Equal(t, []int{1}, got)
}

func TestDisabledTimer(t *testing.T) {
	clock := NewFakeClock(start())
	fired := false
	tm, err := New(clock, 0, DefaultWarnings, nil, func() { fired = true })
	require.NoError(t, err)
	tm.Start()
	clock.AdvanceSeconds(7200)
	tm.CheckWarnings()

	assert.False(t, tm.Enabled())
	assert.False(t, tm.IsExpired())
	assert.False(t, fired)
	assert.Equal(t, 7200*time.Second, tm.Elapsed())
	assert.Equal(t, time.Duration(0), tm.Remaining())
}

func TestOvertime(t *testing.T) {
	clock := NewFakeClock(start())
	tm, err := New(clock, 60, nil, nil, nil)
	require.NoError(t, err)
	tm.Start()
	clock.AdvanceSeconds(150)
	assert.Equal(t, 90*time.Second, tm.Overtime())
	assert.Equal(t, time.Duration(0), tm.Remaining())
}
