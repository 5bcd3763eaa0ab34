package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tracklet/tracklet/pkg/apierr"
	"github.com/tracklet/tracklet/pkg/cache"
	"github.com/tracklet/tracklet/pkg/events"
	"github.com/tracklet/tracklet/pkg/gateway"
	"github.com/tracklet/tracklet/pkg/log"
	"github.com/tracklet/tracklet/pkg/metrics"
	"github.com/tracklet/tracklet/pkg/storage"
	synchro "github.com/tracklet/tracklet/pkg/sync"
	"github.com/tracklet/tracklet/pkg/timer"
	"github.com/tracklet/tracklet/pkg/types"
)

// Gateway is the subset of the API client the session manager calls
// directly. *gateway.Client satisfies it; tests substitute a fake.
type Gateway interface {
	Connect(ctx context.Context) error
	Disconnect()
	IsConnected() bool
	User() *types.User

	CreateTimeEntry(ctx context.Context, entry *types.TimeEntry) (*types.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, id int64, patch *gateway.TimeEntryPatch) (*types.TimeEntry, error)
	UpdateTask(ctx context.Context, id int64, patch *gateway.TaskPatch) (*types.Task, error)
}

var _ Gateway = (*gateway.Client)(nil)

// Synchronizer is the refresh surface the session manager drives
type Synchronizer interface {
	RefreshAll(ctx context.Context) error
}

var _ Synchronizer = (*synchro.Synchronizer)(nil)

// Manager translates user intents into the combination of timer
// transitions, gateway calls and cache updates that keep local and
// remote state coherent.
//
// The manager exclusively owns the session state: the profile name,
// connection status and the optional current time entry and current
// task bindings. The two bindings are independent; the shared timer
// times whichever sessions are active, and each binding remembers the
// elapsed baseline at which it was bound so its own duration can be
// carved out of the shared total.
type Manager struct {
	gw    Gateway
	sync  Synchronizer
	cache *cache.Cache
	timer *timer.Timer
	store storage.Store

	broker *events.Broker
	logger zerolog.Logger
	now    func() time.Time

	mu           sync.Mutex
	profileName  string
	currentEntry *types.TimeEntry
	currentTask  *types.Task

	// Elapsed baselines captured at bind time
	entryBaseline int64
	taskBaseline  int64

	// Single-flight guards: a second start/stop for the same binding
	// while one is in flight is an idempotent no-op.
	entryBusy bool
	taskBusy  bool
}

// New creates a session manager. Initialization order is
// cache -> gateway -> synchronizer -> timer -> session; the manager is
// constructed last and wires them together.
func New(gw Gateway, sy Synchronizer, c *cache.Cache, t *timer.Timer, st storage.Store, broker *events.Broker, profileName string) *Manager {
	return &Manager{
		gw:          gw,
		sync:        sy,
		cache:       c,
		timer:       t,
		store:       st,
		broker:      broker,
		logger:      log.WithComponent("session"),
		now:         time.Now,
		profileName: profileName,
	}
}

func (m *Manager) publish(eventType events.EventType, meta map[string]string) {
	if m.broker == nil {
		return
	}
	m.broker.Publish(&events.Event{Type: eventType, Metadata: meta})
}

// State returns a read-only projection of the session
func (m *Manager) State() types.SessionSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() types.SessionSnapshot {
	snap := types.SessionSnapshot{
		ProfileName: m.profileName,
		Connected:   m.gw.IsConnected(),
		SavedAt:     m.now(),
	}
	if m.currentEntry != nil {
		e := *m.currentEntry
		snap.CurrentEntry = &e
	}
	if m.currentTask != nil {
		t := *m.currentTask
		snap.CurrentTask = &t
	}
	return snap
}

// persist serializes the session snapshot. Persistence failures are
// logged, never fatal: the in-memory state stays authoritative.
func (m *Manager) persist() {
	m.mu.Lock()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if err := m.store.SaveSession(&snap); err != nil {
		m.logger.Error().Err(err).Msg("failed to persist session state")
	}
}

// Connect connects the gateway and populates the cache
func (m *Manager) Connect(ctx context.Context) error {
	if err := m.gw.Connect(ctx); err != nil {
		return err
	}
	if err := m.sync.RefreshAll(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("initial cache refresh incomplete")
	}
	m.persist()
	m.publish(events.EventSessionConnected, nil)
	return nil
}

// Disconnect tears down: clears the cache and the session bindings. The
// timer is left to its own lifecycle.
func (m *Manager) Disconnect() {
	m.gw.Disconnect()
	m.cache.Clear()

	m.mu.Lock()
	m.currentEntry = nil
	m.currentTask = nil
	m.entryBaseline = 0
	m.taskBaseline = 0
	m.mu.Unlock()

	m.persist()
	m.publish(events.EventSessionDisconnected, nil)
}

// CurrentEntry returns the bound time entry, nil when none
func (m *Manager) CurrentEntry() *types.TimeEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentEntry == nil {
		return nil
	}
	e := *m.currentEntry
	return &e
}

// CurrentTask returns the bound task, nil when none
func (m *Manager) CurrentTask() *types.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentTask == nil {
		return nil
	}
	t := *m.currentTask
	return &t
}

// validateChain checks that the three ids resolve to cache entries
// forming a valid customer -> project -> activity chain
func (m *Manager) validateChain(customerID, projectID, activityID int64) error {
	customer := m.cache.CustomerByID(customerID)
	if customer == nil {
		return apierr.NewValidation("unknown customer %d", customerID)
	}
	project := m.cache.ProjectByID(projectID)
	if project == nil {
		return apierr.NewValidation("unknown project %d", projectID)
	}
	if project.Customer != customerID {
		return apierr.NewValidation("project %d does not belong to customer %d", projectID, customerID)
	}
	activity := m.cache.ActivityByID(activityID)
	if activity == nil {
		return apierr.NewValidation("unknown activity %d", activityID)
	}
	if activity.Project != 0 && activity.Project != projectID {
		return apierr.NewValidation("activity %d does not belong to project %d", activityID, projectID)
	}
	return nil
}

// StartTimeEntry creates a remote open entry for the given catalog
// chain, binds it and starts the timer. No remote call is issued when a
// local precondition fails.
func (m *Manager) StartTimeEntry(ctx context.Context, customerID, projectID, activityID int64, description string, billable bool) (*types.TimeEntry, error) {
	if !m.gw.IsConnected() {
		return nil, apierr.NewValidation("not connected")
	}
	if err := m.validateChain(customerID, projectID, activityID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.currentEntry != nil || m.entryBusy {
		m.mu.Unlock()
		return nil, apierr.NewValidation("a time entry is already being tracked")
	}
	m.entryBusy = true
	m.mu.Unlock()

	entry := &types.TimeEntry{
		Begin:       m.now(),
		Description: description,
		Customer:    customerID,
		Project:     projectID,
		Activity:    activityID,
		Billable:    billable,
	}

	confirmed, err := m.gw.CreateTimeEntry(ctx, entry)

	m.mu.Lock()
	m.entryBusy = false
	if err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("failed to create time entry: %w", err)
	}
	m.currentEntry = confirmed
	// Shared timer: if a task session already runs, do not restart it;
	// remember where this binding's own time begins.
	if !m.timer.Start() {
		m.entryBaseline = m.timer.Elapsed()
	} else {
		m.entryBaseline = 0
	}
	m.mu.Unlock()

	m.cache.UpsertTimeEntry(*confirmed)
	m.persist()
	metrics.SessionsStarted.Inc()
	m.publish(events.EventEntryBound, map[string]string{"entry_id": fmt.Sprintf("%d", confirmed.ID)})
	m.logger.Info().Int64("entry_id", confirmed.ID).Msg("time entry started")
	return confirmed, nil
}

// StopTimeEntry closes the bound entry remotely, then unbinds it and
// finalizes the timer. If the network call fails the timer keeps
// running so no elapsed time is lost; the caller may retry. A second
// stop while one is in flight is an idempotent no-op.
func (m *Manager) StopTimeEntry(ctx context.Context) error {
	m.mu.Lock()
	if m.currentEntry == nil {
		m.mu.Unlock()
		return apierr.NewValidation("no time entry is being tracked")
	}
	if m.entryBusy {
		m.mu.Unlock()
		return nil
	}
	m.entryBusy = true
	entryID := m.currentEntry.ID
	projectID := m.currentEntry.Project
	baseline := m.entryBaseline
	m.mu.Unlock()

	end := m.now()
	duration := m.timer.Elapsed() - baseline

	confirmed, err := m.gw.UpdateTimeEntry(ctx, entryID, &gateway.TimeEntryPatch{
		End:      &end,
		Duration: &duration,
	})

	m.mu.Lock()
	m.entryBusy = false
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to stop time entry: %w", err)
	}
	// A disconnect may have unbound the entry while the call was in
	// flight; the captured ids stay valid for finalization.
	m.currentEntry = nil
	m.entryBaseline = 0
	lastBinding := m.currentTask == nil
	m.mu.Unlock()

	m.cache.UpsertTimeEntry(*confirmed)
	if lastBinding {
		m.timer.Stop()
		m.timer.Reset()
	}
	m.recordHistory(end, projectID, duration)
	m.persist()
	metrics.SessionsStopped.Inc()
	m.publish(events.EventEntryUnbound, map[string]string{"entry_id": fmt.Sprintf("%d", entryID)})
	m.logger.Info().Int64("entry_id", entryID).Int64("duration", duration).Msg("time entry stopped")
	return nil
}

// StartTask moves the task to progress remotely, binds it and starts
// the timer. At most one task may be in progress within the session.
func (m *Manager) StartTask(ctx context.Context, taskID int64) (*types.Task, error) {
	if !m.gw.IsConnected() {
		return nil, apierr.NewValidation("not connected")
	}
	task := m.cache.TaskByID(taskID)
	if task == nil {
		return nil, apierr.NewValidation("unknown task %d", taskID)
	}
	if task.Status == types.TaskStatusClosed {
		return nil, apierr.NewValidation("task %d is closed", taskID)
	}

	m.mu.Lock()
	if m.currentTask != nil || m.taskBusy {
		m.mu.Unlock()
		return nil, apierr.NewValidation("a task is already in progress")
	}
	m.taskBusy = true
	m.mu.Unlock()

	status := types.TaskStatusProgress
	confirmed, err := m.gw.UpdateTask(ctx, taskID, &gateway.TaskPatch{Status: &status})

	m.mu.Lock()
	m.taskBusy = false
	if err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("failed to start task: %w", err)
	}
	m.currentTask = confirmed
	if !m.timer.Start() {
		m.taskBaseline = m.timer.Elapsed()
	} else {
		m.taskBaseline = 0
	}
	m.mu.Unlock()

	m.cache.UpsertTask(*confirmed)
	m.persist()
	metrics.SessionsStarted.Inc()
	m.publish(events.EventTaskBound, map[string]string{"task_id": fmt.Sprintf("%d", taskID)})
	m.logger.Info().Int64("task_id", taskID).Msg("task started")
	return confirmed, nil
}

// StopTask accumulates the session's duration into the task's actual
// duration (never overwriting it), moves the task to finalStatus and
// unbinds it. The timer keeps running on network failure, same as
// StopTimeEntry.
func (m *Manager) StopTask(ctx context.Context, finalStatus types.TaskStatus) error {
	m.mu.Lock()
	if m.currentTask == nil {
		m.mu.Unlock()
		return apierr.NewValidation("no task is in progress")
	}
	if m.taskBusy {
		m.mu.Unlock()
		return nil
	}
	m.taskBusy = true
	taskID := m.currentTask.ID
	prevActual := m.currentTask.ActualDuration
	projectID := m.currentTask.Project
	baseline := m.taskBaseline
	m.mu.Unlock()

	if finalStatus == "" {
		finalStatus = types.TaskStatusOpen
	}
	sessionDuration := m.timer.Elapsed() - baseline
	actual := prevActual + sessionDuration

	confirmed, err := m.gw.UpdateTask(ctx, taskID, &gateway.TaskPatch{
		Status:         &finalStatus,
		ActualDuration: &actual,
	})

	m.mu.Lock()
	m.taskBusy = false
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to stop task: %w", err)
	}
	m.currentTask = nil
	m.taskBaseline = 0
	lastBinding := m.currentEntry == nil
	m.mu.Unlock()

	m.cache.UpsertTask(*confirmed)
	if lastBinding {
		m.timer.Stop()
		m.timer.Reset()
	}
	m.recordHistory(m.now(), projectID, sessionDuration)
	m.persist()
	metrics.SessionsStopped.Inc()
	m.publish(events.EventTaskUnbound, map[string]string{"task_id": fmt.Sprintf("%d", taskID)})
	m.logger.Info().Int64("task_id", taskID).Int64("duration", sessionDuration).Msg("task stopped")
	return nil
}

// recordHistory folds a finished session into the aggregate totals
func (m *Manager) recordHistory(day time.Time, projectID, seconds int64) {
	history, err := m.store.LoadHistory()
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to load history")
		return
	}
	if history == nil {
		history = types.NewHistory()
	}
	history.Add(day, projectID, seconds)
	if err := m.store.SaveHistory(history); err != nil {
		m.logger.Error().Err(err).Msg("failed to persist history")
	}

	snap := m.timer.Snapshot()
	if err := m.store.SaveTimerSnapshot(&snap); err != nil {
		m.logger.Error().Err(err).Msg("failed to persist timer snapshot")
	}
}

// Restore loads the persisted session state after a restart. The timer
// is always forced back to idle: a crash or unclean exit must never
// resume a timer claiming elapsed time that was not observed running.
func (m *Manager) Restore() error {
	snap, err := m.store.LoadSession()
	if err != nil {
		return fmt.Errorf("failed to load session state: %w", err)
	}

	m.timer.Reset()

	if snap == nil {
		return nil
	}

	m.mu.Lock()
	if snap.ProfileName != "" {
		m.profileName = snap.ProfileName
	}
	m.currentEntry = snap.CurrentEntry
	m.currentTask = snap.CurrentTask
	m.entryBaseline = 0
	m.taskBaseline = 0
	m.mu.Unlock()

	if snap.CurrentEntry != nil || snap.CurrentTask != nil {
		m.logger.Warn().Msg("restored bindings from a previous run; timer forced to idle")
	}
	return nil
}

// History returns the persisted aggregate totals, empty if none
func (m *Manager) History() (*types.History, error) {
	history, err := m.store.LoadHistory()
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = types.NewHistory()
	}
	return history, nil
}
