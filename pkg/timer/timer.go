package timer

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tracklet/tracklet/pkg/events"
	"github.com/tracklet/tracklet/pkg/log"
	"github.com/tracklet/tracklet/pkg/metrics"
	"github.com/tracklet/tracklet/pkg/types"
)

// Timer is the finite-state machine tracking running/paused/stopped
// status and elapsed-time accounting.
//
// Paused intervals are excluded from the tracked total: the timer counts
// active time, not wall-clock time since start. Illegal transitions
// return false and leave state unchanged.
type Timer struct {
	mu sync.Mutex

	status    types.TimerStatus
	startTime time.Time // Start of the current running segment
	pauseTime time.Time

	// Sum of completed running segments; the live segment is folded in
	// on pause/stop and derived on read while running.
	accumulated time.Duration

	now    func() time.Time
	broker *events.Broker
	logger zerolog.Logger

	stopCh chan struct{}
}

// New creates an idle timer. broker may be nil.
func New(broker *events.Broker) *Timer {
	return NewWithClock(broker, time.Now)
}

// NewWithClock creates a timer with an injectable clock for tests
func NewWithClock(broker *events.Broker, clock func() time.Time) *Timer {
	return &Timer{
		status: types.TimerIdle,
		now:    clock,
		broker: broker,
		logger: log.WithComponent("timer"),
	}
}

func (t *Timer) publish(eventType events.EventType) {
	if t.broker == nil {
		return
	}
	t.broker.Publish(&events.Event{Type: eventType})
}

// Status returns the current state
func (t *Timer) Status() types.TimerStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Start begins a new tracking cycle. Legal only from idle; returns
// false otherwise.
func (t *Timer) Start() bool {
	t.mu.Lock()
	if t.status != types.TimerIdle {
		t.mu.Unlock()
		return false
	}
	t.startTime = t.now()
	t.pauseTime = time.Time{}
	t.accumulated = 0
	t.status = types.TimerRunning
	t.mu.Unlock()

	t.logger.Debug().Msg("timer started")
	t.publish(events.EventTimerStarted)
	return true
}

// Pause freezes the elapsed total. Legal only from running.
func (t *Timer) Pause() bool {
	t.mu.Lock()
	if t.status != types.TimerRunning {
		t.mu.Unlock()
		return false
	}
	now := t.now()
	t.accumulated += now.Sub(t.startTime)
	t.pauseTime = now
	t.startTime = time.Time{}
	t.status = types.TimerPaused
	t.mu.Unlock()

	t.logger.Debug().Msg("timer paused")
	t.publish(events.EventTimerPaused)
	return true
}

// Resume continues tracking after a pause. The paused interval is not
// added to the total; a new running segment begins now. Legal only from
// paused.
func (t *Timer) Resume() bool {
	t.mu.Lock()
	if t.status != types.TimerPaused {
		t.mu.Unlock()
		return false
	}
	t.startTime = t.now()
	t.pauseTime = time.Time{}
	t.status = types.TimerRunning
	t.mu.Unlock()

	t.logger.Debug().Msg("timer resumed")
	t.publish(events.EventTimerResumed)
	return true
}

// Stop finalizes the cycle and returns the total tracked seconds. A
// stop while running first folds the live segment into the total. Legal
// from running or paused.
func (t *Timer) Stop() (int64, bool) {
	t.mu.Lock()
	if t.status != types.TimerRunning && t.status != types.TimerPaused {
		t.mu.Unlock()
		return 0, false
	}
	if t.status == types.TimerRunning {
		t.accumulated += t.now().Sub(t.startTime)
	}
	t.startTime = time.Time{}
	t.pauseTime = time.Time{}
	t.status = types.TimerStopped
	total := int64(t.accumulated.Seconds())
	t.mu.Unlock()

	t.logger.Debug().Int64("total_seconds", total).Msg("timer stopped")
	t.publish(events.EventTimerStopped)
	return total, true
}

// Reset returns to idle with zeroed counters, from any state. The
// session manager must have persisted or discarded any bound reference
// before calling this.
func (t *Timer) Reset() {
	t.mu.Lock()
	t.status = types.TimerIdle
	t.startTime = time.Time{}
	t.pauseTime = time.Time{}
	t.accumulated = 0
	t.mu.Unlock()

	t.publish(events.EventTimerReset)
}

// Elapsed returns the current tracked total in seconds. While running
// it derives the live segment without mutating any state; the total is
// non-decreasing until Reset.
func (t *Timer) Elapsed() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := t.accumulated
	if t.status == types.TimerRunning {
		total += t.now().Sub(t.startTime)
	}
	return int64(total.Seconds())
}

// Snapshot returns the durable projection of the timer. The live start
// time is deliberately absent: it is meaningless across a cold restart.
func (t *Timer) Snapshot() types.TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := t.accumulated
	if t.status == types.TimerRunning {
		total += t.now().Sub(t.startTime)
	}
	return types.TimerSnapshot{
		Status:       t.status,
		TotalElapsed: int64(total.Seconds()),
		SavedAt:      t.now(),
	}
}

// StartTicker begins the periodic tick loop. Each tick re-derives the
// display-facing elapsed value and publishes it; startTime and
// pauseTime are never touched.
func (t *Timer) StartTicker(interval time.Duration) {
	t.mu.Lock()
	if t.stopCh != nil {
		t.mu.Unlock()
		return
	}
	t.stopCh = make(chan struct{})
	stopCh := t.stopCh
	t.mu.Unlock()

	go t.run(interval, stopCh)
}

// StopTicker stops the tick loop
func (t *Timer) StopTicker() {
	t.mu.Lock()
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
	t.mu.Unlock()
}

func (t *Timer) run(interval time.Duration, stopCh chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if t.Status() != types.TimerRunning {
				continue
			}
			metrics.TimerTicksTotal.Inc()
			if t.broker != nil {
				t.broker.Publish(&events.Event{
					Type: events.EventTimerTick,
					Metadata: map[string]string{
						"elapsed": time.Duration(t.Elapsed() * int64(time.Second)).String(),
					},
				})
			}
		case <-stopCh:
			return
		}
	}
}
