package types

import "time"

// TimerSnapshot is the durable projection of the timer saved on stop.
// It never carries a live start time: wall-clock elapsed across a cold
// restart is not observable, so only the counters survive.
type TimerSnapshot struct {
	Status       TimerStatus `json:"status"`
	TotalElapsed int64       `json:"totalElapsed"` // Seconds
	SavedAt      time.Time   `json:"savedAt"`
}

// SessionSnapshot is the durable projection of the session manager's
// state, written on every bind/unbind transition. On restore the timer
// status is always forced back to idle regardless of what was persisted.
type SessionSnapshot struct {
	ProfileName  string     `json:"profileName,omitempty"`
	Connected    bool       `json:"connected"`
	CurrentEntry *TimeEntry `json:"currentEntry,omitempty"`
	CurrentTask  *Task      `json:"currentTask,omitempty"`
	SavedAt      time.Time  `json:"savedAt"`
}

// History holds derived aggregate totals, updated on every stop.
// Keys in Days are dates in YYYY-MM-DD form; Projects is keyed by
// project ID. All values are seconds.
type History struct {
	Days         map[string]int64 `json:"days"`
	Projects     map[int64]int64  `json:"projects"`
	TotalTracked int64            `json:"totalTracked"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// NewHistory returns an empty history document
func NewHistory() *History {
	return &History{
		Days:     make(map[string]int64),
		Projects: make(map[int64]int64),
	}
}

// Add folds one finished tracking session into the aggregates
func (h *History) Add(day time.Time, projectID, seconds int64) {
	if h.Days == nil {
		h.Days = make(map[string]int64)
	}
	if h.Projects == nil {
		h.Projects = make(map[int64]int64)
	}
	h.Days[day.Format("2006-01-02")] += seconds
	if projectID != 0 {
		h.Projects[projectID] += seconds
	}
	h.TotalTracked += seconds
	h.UpdatedAt = time.Now()
}
