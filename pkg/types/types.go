package types

import (
	"time"
)

// Customer represents a billing customer in the remote catalog
type Customer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Number   string `json:"number,omitempty"`
	Currency string `json:"currency,omitempty"`
	Visible  bool   `json:"visible"`
}

// Project represents a project belonging to a customer
type Project struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Customer int64  `json:"customer"` // Owning customer ID
	Visible  bool   `json:"visible"`
	Billable bool   `json:"billable"`
}

// Activity represents a unit of work within a project.
// An activity with Project == 0 is global and usable on any project.
type Activity struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Project  int64  `json:"project,omitempty"` // Owning project ID, 0 = global
	Visible  bool   `json:"visible"`
	Billable bool   `json:"billable"`
}

// TimeEntry represents a tracked span of time bound to the
// customer/project/activity catalog. ID is zero until the server
// confirms creation. End is nil while the entry is open; Duration is
// server-authoritative once the entry is closed.
type TimeEntry struct {
	ID          int64      `json:"id,omitempty"`
	Begin       time.Time  `json:"begin"`
	End         *time.Time `json:"end,omitempty"`
	Duration    int64      `json:"duration,omitempty"` // Seconds, recomputed from End - Begin once closed
	Description string     `json:"description,omitempty"`
	Customer    int64      `json:"customer"`
	Project     int64      `json:"project"`
	Activity    int64      `json:"activity"`
	Billable    bool       `json:"billable"`
	Tags        []string   `json:"tags,omitempty"`
}

// Open reports whether the entry has not been closed yet
func (e *TimeEntry) Open() bool {
	return e.End == nil
}

// TaskStatus represents the workflow state of a task
type TaskStatus string

const (
	TaskStatusOpen     TaskStatus = "open"
	TaskStatusPending  TaskStatus = "pending"
	TaskStatusProgress TaskStatus = "progress"
	TaskStatusClosed   TaskStatus = "closed"
)

// TaskPriority represents task urgency
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Task represents a longer-lived work item with its own status and
// priority, optionally time-tracked via the same timer as time entries.
// ActualDuration accumulates across tracking sessions; it is never
// overwritten by a single session's duration.
type Task struct {
	ID                int64        `json:"id"`
	Title             string       `json:"title"`
	Status            TaskStatus   `json:"status"`
	Priority          TaskPriority `json:"priority"`
	Customer          int64        `json:"customer"`
	Project           int64        `json:"project"`
	Activity          int64        `json:"activity"`
	EstimatedDuration int64        `json:"estimatedDuration,omitempty"` // Seconds
	ActualDuration    int64        `json:"actualDuration,omitempty"`    // Seconds, accumulated
	DueDate           *time.Time   `json:"dueDate,omitempty"`
}

// User represents the authenticated identity returned by the server
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Alias    string `json:"alias,omitempty"`
	Language string `json:"language,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// AuthType selects how the gateway authenticates requests
type AuthType string

const (
	// AuthTypeToken sends a bearer-style API token header
	AuthTypeToken AuthType = "token"

	// AuthTypeLegacy sends HTTP Basic credentials (username + API secret)
	AuthTypeLegacy AuthType = "legacy"
)

// Profile is one configured connection to a remote server instance.
// Exactly one auth mode applies: token auth requires Token, legacy auth
// requires both Username and Secret.
type Profile struct {
	Name     string   `json:"name" yaml:"name"`
	BaseURL  string   `json:"baseUrl" yaml:"baseUrl"`
	AuthType AuthType `json:"authType" yaml:"authType"`
	Token    string   `json:"token,omitempty" yaml:"token,omitempty"`
	Username string   `json:"username,omitempty" yaml:"username,omitempty"`
	Secret   string   `json:"secret,omitempty" yaml:"secret,omitempty"`
}

// Page is the paginated envelope returned by time entry and task list
// endpoints. Catalog collections (customers/projects/activities) are
// returned as bare arrays instead.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

// Collection names the five cached entity collections
type Collection string

const (
	CollectionCustomers   Collection = "customers"
	CollectionProjects    Collection = "projects"
	CollectionActivities  Collection = "activities"
	CollectionTimeEntries Collection = "timeentries"
	CollectionTasks       Collection = "tasks"
)

// TimerStatus represents the state of the timer state machine
type TimerStatus string

const (
	TimerIdle    TimerStatus = "idle"
	TimerRunning TimerStatus = "running"
	TimerPaused  TimerStatus = "paused"
	TimerStopped TimerStatus = "stopped"
)

// VersionInfo is the server version probe response
type VersionInfo struct {
	Version   string `json:"version"`
	VersionID int    `json:"versionId,omitempty"`
	Copyright string `json:"copyright,omitempty"`
}

// ServerConfig is the server configuration probe response
type ServerConfig struct {
	Timezone   string `json:"timezone,omitempty"`
	Is24Hours  bool   `json:"is24hours,omitempty"`
	FormatDate string `json:"formatDate,omitempty"`
}
