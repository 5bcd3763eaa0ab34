package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklet/tracklet/pkg/types"
)

// fakeClock is a manually advanced clock for deterministic elapsed math
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestTimer() (*Timer, *fakeClock) {
	clock := newFakeClock()
	return NewWithClock(nil, clock.Now), clock
}

// TestTransitionLegality exhaustively checks every (state, action) pair
func TestTransitionLegality(t *testing.T) {
	type action string
	const (
		actStart  action = "start"
		actPause  action = "pause"
		actResume action = "resume"
		actStop   action = "stop"
	)

	// drive puts a fresh timer into the wanted source state
	drive := func(t *testing.T, status types.TimerStatus) *Timer {
		tm, _ := newTestTimer()
		switch status {
		case types.TimerIdle:
		case types.TimerRunning:
			require.True(t, tm.Start())
		case types.TimerPaused:
			require.True(t, tm.Start())
			require.True(t, tm.Pause())
		case types.TimerStopped:
			require.True(t, tm.Start())
			_, ok := tm.Stop()
			require.True(t, ok)
		}
		return tm
	}

	apply := func(tm *Timer, act action) bool {
		switch act {
		case actStart:
			return tm.Start()
		case actPause:
			return tm.Pause()
		case actResume:
			return tm.Resume()
		case actStop:
			_, ok := tm.Stop()
			return ok
		}
		return false
	}

	tests := []struct {
		from    types.TimerStatus
		act     action
		allowed bool
	}{
		{types.TimerIdle, actStart, true},
		{types.TimerIdle, actPause, false},
		{types.TimerIdle, actResume, false},
		{types.TimerIdle, actStop, false},
		{types.TimerRunning, actStart, false},
		{types.TimerRunning, actPause, true},
		{types.TimerRunning, actResume, false},
		{types.TimerRunning, actStop, true},
		{types.TimerPaused, actStart, false},
		{types.TimerPaused, actPause, false},
		{types.TimerPaused, actResume, true},
		{types.TimerPaused, actStop, true},
		{types.TimerStopped, actStart, false},
		{types.TimerStopped, actPause, false},
		{types.TimerStopped, actResume, false},
		{types.TimerStopped, actStop, false},
	}

	for _, tt := range tests {
		name := string(tt.from) + "_" + string(tt.act)
		t.Run(name, func(t *testing.T) {
			tm := drive(t, tt.from)
			before := tm.Status()
			got := apply(tm, tt.act)
			assert.Equal(t, tt.allowed, got)
			if !tt.allowed {
				// Illegal transitions leave state unchanged
				assert.Equal(t, before, tm.Status())
			}
		})
	}
}

// TestPauseResumeAccounting replays the canonical scenario: start at
// t=0, pause at 10s, resume at 15s, stop at 25s. Paused time is
// excluded, so the total is 10 + 10 = 20 seconds.
func TestPauseResumeAccounting(t *testing.T) {
	tm, clock := newTestTimer()

	require.True(t, tm.Start())
	clock.Advance(10 * time.Second)
	require.True(t, tm.Pause())

	// The total is frozen while paused
	assert.Equal(t, int64(10), tm.Elapsed())
	clock.Advance(5 * time.Second)
	assert.Equal(t, int64(10), tm.Elapsed())

	require.True(t, tm.Resume())
	clock.Advance(10 * time.Second)

	total, ok := tm.Stop()
	require.True(t, ok)
	assert.Equal(t, int64(20), total)
	assert.Equal(t, types.TimerStopped, tm.Status())
}

// TestMultiplePauseCycles sums every running segment and excludes every
// paused interval
func TestMultiplePauseCycles(t *testing.T) {
	tm, clock := newTestTimer()

	require.True(t, tm.Start())
	for i := 0; i < 3; i++ {
		clock.Advance(4 * time.Second)
		require.True(t, tm.Pause())
		clock.Advance(100 * time.Second) // Long pauses must not count
		require.True(t, tm.Resume())
	}
	clock.Advance(3 * time.Second)

	total, ok := tm.Stop()
	require.True(t, ok)
	assert.Equal(t, int64(3*4+3), total)
}

// TestElapsedNonDecreasing checks the running total never goes down
func TestElapsedNonDecreasing(t *testing.T) {
	tm, clock := newTestTimer()
	require.True(t, tm.Start())

	prev := int64(-1)
	for i := 0; i < 10; i++ {
		clock.Advance(time.Second)
		got := tm.Elapsed()
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

// TestElapsedDoesNotMutate verifies reads derive the live segment
// without folding it in
func TestElapsedDoesNotMutate(t *testing.T) {
	tm, clock := newTestTimer()
	require.True(t, tm.Start())
	clock.Advance(7 * time.Second)

	assert.Equal(t, int64(7), tm.Elapsed())
	assert.Equal(t, int64(7), tm.Elapsed())

	clock.Advance(3 * time.Second)
	total, ok := tm.Stop()
	require.True(t, ok)
	assert.Equal(t, int64(10), total)
}

// TestStopFromPaused finalizes without the live-segment fold
func TestStopFromPaused(t *testing.T) {
	tm, clock := newTestTimer()
	require.True(t, tm.Start())
	clock.Advance(8 * time.Second)
	require.True(t, tm.Pause())
	clock.Advance(30 * time.Second)

	total, ok := tm.Stop()
	require.True(t, ok)
	assert.Equal(t, int64(8), total)
}

// TestResetFromAnyState returns to idle with zeroed counters
func TestResetFromAnyState(t *testing.T) {
	for _, setup := range []func(*Timer, *fakeClock){
		func(tm *Timer, c *fakeClock) {},
		func(tm *Timer, c *fakeClock) { tm.Start(); c.Advance(time.Second) },
		func(tm *Timer, c *fakeClock) { tm.Start(); c.Advance(time.Second); tm.Pause() },
		func(tm *Timer, c *fakeClock) { tm.Start(); c.Advance(time.Second); tm.Stop() },
	} {
		tm, clock := newTestTimer()
		setup(tm, clock)
		tm.Reset()
		assert.Equal(t, types.TimerIdle, tm.Status())
		assert.Equal(t, int64(0), tm.Elapsed())
		// A fresh cycle starts cleanly
		assert.True(t, tm.Start())
	}
}

// TestSnapshotOmitsLiveStart ensures the durable projection carries
// counters only
func TestSnapshotOmitsLiveStart(t *testing.T) {
	tm, clock := newTestTimer()
	require.True(t, tm.Start())
	clock.Advance(12 * time.Second)

	snap := tm.Snapshot()
	assert.Equal(t, types.TimerRunning, snap.Status)
	assert.Equal(t, int64(12), snap.TotalElapsed)
}
