package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklet/tracklet/pkg/config"
	"github.com/tracklet/tracklet/pkg/types"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadsReturnNilWhenNeverWritten(t *testing.T) {
	store := newTestStore(t)

	session, err := store.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, session)

	timer, err := store.LoadTimerSnapshot()
	require.NoError(t, err)
	assert.Nil(t, timer)

	history, err := store.LoadHistory()
	require.NoError(t, err)
	assert.Nil(t, history)

	settings, err := store.LoadSettings()
	require.NoError(t, err)
	assert.Nil(t, settings)
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	end := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	in := &types.SessionSnapshot{
		ProfileName: "work",
		Connected:   true,
		CurrentEntry: &types.TimeEntry{
			ID:          42,
			Begin:       time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			End:         &end,
			Duration:    3600,
			Description: "standup",
		},
		SavedAt: time.Date(2025, 6, 1, 10, 0, 1, 0, time.UTC),
	}
	require.NoError(t, store.SaveSession(in))

	out, err := store.LoadSession()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.ProfileName, out.ProfileName)
	require.NotNil(t, out.CurrentEntry)
	assert.Equal(t, int64(42), out.CurrentEntry.ID)
	assert.True(t, in.CurrentEntry.End.Equal(*out.CurrentEntry.End))
	assert.Nil(t, out.CurrentTask)
}

func TestClearSession(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveSession(&types.SessionSnapshot{ProfileName: "work"}))
	require.NoError(t, store.ClearSession())

	out, err := store.LoadSession()
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestSaveOverwritesDocument(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveTimerSnapshot(&types.TimerSnapshot{Status: types.TimerRunning, TotalElapsed: 10}))
	require.NoError(t, store.SaveTimerSnapshot(&types.TimerSnapshot{Status: types.TimerStopped, TotalElapsed: 25}))

	out, err := store.LoadTimerSnapshot()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, types.TimerStopped, out.Status)
	assert.Equal(t, int64(25), out.TotalElapsed)
}

func TestHistoryRoundTrip(t *testing.T) {
	store := newTestStore(t)

	in := types.NewHistory()
	in.Add(time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC), 12, 900)
	in.Add(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), 12, 600)
	require.NoError(t, store.SaveHistory(in))

	out, err := store.LoadHistory()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, int64(1500), out.TotalTracked)
	assert.Equal(t, int64(1500), out.Projects[12])
	assert.Equal(t, int64(900), out.Days["2025-06-01"])
	assert.Equal(t, int64(600), out.Days["2025-06-02"])
}

func TestSettingsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	in := config.Settings{ActiveProfile: "work", TickSeconds: 5, LogLevel: "debug"}
	require.NoError(t, store.SaveSettings(&in))

	out, err := store.LoadSettings()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)
}
