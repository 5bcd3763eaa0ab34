package cache

import (
	"sync"
	"time"

	"github.com/tracklet/tracklet/pkg/events"
	"github.com/tracklet/tracklet/pkg/metrics"
	"github.com/tracklet/tracklet/pkg/types"
)

// Cache is the in-memory mirror of the remote collections: customers,
// projects, activities, recent time entries and tasks, each with a
// per-collection freshness timestamp.
//
// The cache is always server-truth: only confirmed server objects are
// written, never optimistic local payloads. Readers get copies of the
// backing slices so no caller can mutate the catalog in place.
type Cache struct {
	mu sync.RWMutex

	customers   []types.Customer
	projects    []types.Project
	activities  []types.Activity
	timeEntries []types.TimeEntry
	tasks       []types.Task

	lastUpdated map[types.Collection]time.Time

	broker *events.Broker
}

// New creates an empty cache. broker may be nil when no UI subscribes.
func New(broker *events.Broker) *Cache {
	return &Cache{
		lastUpdated: make(map[types.Collection]time.Time),
		broker:      broker,
	}
}

func (c *Cache) publish(t events.EventType, collection types.Collection) {
	if c.broker == nil {
		return
	}
	c.broker.Publish(&events.Event{
		Type:     t,
		Metadata: map[string]string{"collection": string(collection)},
	})
}

// LastUpdated returns when the collection was last refreshed, zero time
// if never
func (c *Cache) LastUpdated(collection types.Collection) time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdated[collection]
}

// Clear empties all collections and freshness stamps. Called on
// disconnect.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.customers = nil
	c.projects = nil
	c.activities = nil
	c.timeEntries = nil
	c.tasks = nil
	c.lastUpdated = make(map[types.Collection]time.Time)
	c.mu.Unlock()

	for _, col := range []types.Collection{
		types.CollectionCustomers,
		types.CollectionProjects,
		types.CollectionActivities,
		types.CollectionTimeEntries,
		types.CollectionTasks,
	} {
		metrics.CacheEntities.WithLabelValues(string(col)).Set(0)
	}
	c.publish(events.EventCacheCleared, "")
}

// Customers returns a copy of the customer collection
func (c *Cache) Customers() []types.Customer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.Customer, len(c.customers))
	copy(out, c.customers)
	return out
}

// Projects returns a copy of the project collection
func (c *Cache) Projects() []types.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// Activities returns a copy of the activity collection
func (c *Cache) Activities() []types.Activity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.Activity, len(c.activities))
	copy(out, c.activities)
	return out
}

// TimeEntries returns a copy of the time entry collection, newest first
func (c *Cache) TimeEntries() []types.TimeEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.TimeEntry, len(c.timeEntries))
	copy(out, c.timeEntries)
	return out
}

// Tasks returns a copy of the task collection, newest first
func (c *Cache) Tasks() []types.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// CustomerByID looks up a customer, nil if unknown
func (c *Cache) CustomerByID(id int64) *types.Customer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.customers {
		if c.customers[i].ID == id {
			cu := c.customers[i]
			return &cu
		}
	}
	return nil
}

// ProjectByID looks up a project, nil if unknown
func (c *Cache) ProjectByID(id int64) *types.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.projects {
		if c.projects[i].ID == id {
			p := c.projects[i]
			return &p
		}
	}
	return nil
}

// ActivityByID looks up an activity, nil if unknown
func (c *Cache) ActivityByID(id int64) *types.Activity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.activities {
		if c.activities[i].ID == id {
			a := c.activities[i]
			return &a
		}
	}
	return nil
}

// TaskByID looks up a task, nil if unknown
func (c *Cache) TaskByID(id int64) *types.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			t := c.tasks[i]
			return &t
		}
	}
	return nil
}

// FilterProjectsByCustomer returns the projects owned by customerID.
// A customerID of 0 means "no filter" and returns the full collection.
func (c *Cache) FilterProjectsByCustomer(customerID int64) []types.Project {
	if customerID == 0 {
		return c.Projects()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []types.Project{}
	for _, p := range c.projects {
		if p.Customer == customerID {
			out = append(out, p)
		}
	}
	return out
}

// FilterActivitiesByProject returns the activities owned by projectID
// plus global activities (Project == 0). A projectID of 0 means "no
// filter" and returns the full collection.
func (c *Cache) FilterActivitiesByProject(projectID int64) []types.Activity {
	if projectID == 0 {
		return c.Activities()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []types.Activity{}
	for _, a := range c.activities {
		if a.Project == projectID || a.Project == 0 {
			out = append(out, a)
		}
	}
	return out
}

// FilterTasksByStatus returns tasks in the given status
func (c *Cache) FilterTasksByStatus(status types.TaskStatus) []types.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []types.Task{}
	for _, t := range c.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}
