package cache

import (
	"time"

	"github.com/tracklet/tracklet/pkg/events"
	"github.com/tracklet/tracklet/pkg/metrics"
	"github.com/tracklet/tracklet/pkg/types"
)

// Mutation contract: replace operations swap the whole collection and
// stamp freshness; item operations apply a single server-confirmed
// record. Time entries and tasks prepend newest-first, catalog entities
// append. Updates always replace the full record, never merge fields.

// ReplaceCustomers swaps the customer collection
func (c *Cache) ReplaceCustomers(customers []types.Customer) {
	c.mu.Lock()
	c.customers = customers
	c.lastUpdated[types.CollectionCustomers] = time.Now()
	n := len(customers)
	c.mu.Unlock()

	metrics.CacheEntities.WithLabelValues(string(types.CollectionCustomers)).Set(float64(n))
	c.publish(events.EventCacheRefreshed, types.CollectionCustomers)
}

// ReplaceProjects swaps the project collection
func (c *Cache) ReplaceProjects(projects []types.Project) {
	c.mu.Lock()
	c.projects = projects
	c.lastUpdated[types.CollectionProjects] = time.Now()
	n := len(projects)
	c.mu.Unlock()

	metrics.CacheEntities.WithLabelValues(string(types.CollectionProjects)).Set(float64(n))
	c.publish(events.EventCacheRefreshed, types.CollectionProjects)
}

// ReplaceProjectsForCustomer splices a scoped refresh: rows for
// customerID are removed and the fresh set is inserted, leaving other
// customers' rows untouched.
func (c *Cache) ReplaceProjectsForCustomer(customerID int64, projects []types.Project) {
	c.mu.Lock()
	kept := c.projects[:0:0]
	for _, p := range c.projects {
		if p.Customer != customerID {
			kept = append(kept, p)
		}
	}
	c.projects = append(kept, projects...)
	c.lastUpdated[types.CollectionProjects] = time.Now()
	n := len(c.projects)
	c.mu.Unlock()

	metrics.CacheEntities.WithLabelValues(string(types.CollectionProjects)).Set(float64(n))
	c.publish(events.EventCacheRefreshed, types.CollectionProjects)
}

// ReplaceActivities swaps the activity collection
func (c *Cache) ReplaceActivities(activities []types.Activity) {
	c.mu.Lock()
	c.activities = activities
	c.lastUpdated[types.CollectionActivities] = time.Now()
	n := len(activities)
	c.mu.Unlock()

	metrics.CacheEntities.WithLabelValues(string(types.CollectionActivities)).Set(float64(n))
	c.publish(events.EventCacheRefreshed, types.CollectionActivities)
}

// ReplaceActivitiesForProject splices a scoped refresh for one project,
// leaving other projects' rows and global activities untouched.
func (c *Cache) ReplaceActivitiesForProject(projectID int64, activities []types.Activity) {
	c.mu.Lock()
	kept := c.activities[:0:0]
	for _, a := range c.activities {
		if a.Project != projectID {
			kept = append(kept, a)
		}
	}
	c.activities = append(kept, activities...)
	c.lastUpdated[types.CollectionActivities] = time.Now()
	n := len(c.activities)
	c.mu.Unlock()

	metrics.CacheEntities.WithLabelValues(string(types.CollectionActivities)).Set(float64(n))
	c.publish(events.EventCacheRefreshed, types.CollectionActivities)
}

// ReplaceTimeEntries swaps the time entry collection
func (c *Cache) ReplaceTimeEntries(entries []types.TimeEntry) {
	c.mu.Lock()
	c.timeEntries = entries
	c.lastUpdated[types.CollectionTimeEntries] = time.Now()
	n := len(entries)
	c.mu.Unlock()

	metrics.CacheEntities.WithLabelValues(string(types.CollectionTimeEntries)).Set(float64(n))
	c.publish(events.EventCacheRefreshed, types.CollectionTimeEntries)
}

// ReplaceTasks swaps the task collection
func (c *Cache) ReplaceTasks(tasks []types.Task) {
	c.mu.Lock()
	c.tasks = tasks
	c.lastUpdated[types.CollectionTasks] = time.Now()
	n := len(tasks)
	c.mu.Unlock()

	metrics.CacheEntities.WithLabelValues(string(types.CollectionTasks)).Set(float64(n))
	c.publish(events.EventCacheRefreshed, types.CollectionTasks)
}

// UpsertCustomer applies a server-confirmed customer: replace-by-id, or
// append when new
func (c *Cache) UpsertCustomer(customer types.Customer) {
	c.mu.Lock()
	replaced := false
	for i := range c.customers {
		if c.customers[i].ID == customer.ID {
			c.customers[i] = customer
			replaced = true
			break
		}
	}
	if !replaced {
		c.customers = append(c.customers, customer)
	}
	c.mu.Unlock()
	c.publish(events.EventCacheMutated, types.CollectionCustomers)
}

// UpsertProject applies a server-confirmed project
func (c *Cache) UpsertProject(project types.Project) {
	c.mu.Lock()
	replaced := false
	for i := range c.projects {
		if c.projects[i].ID == project.ID {
			c.projects[i] = project
			replaced = true
			break
		}
	}
	if !replaced {
		c.projects = append(c.projects, project)
	}
	c.mu.Unlock()
	c.publish(events.EventCacheMutated, types.CollectionProjects)
}

// UpsertActivity applies a server-confirmed activity
func (c *Cache) UpsertActivity(activity types.Activity) {
	c.mu.Lock()
	replaced := false
	for i := range c.activities {
		if c.activities[i].ID == activity.ID {
			c.activities[i] = activity
			replaced = true
			break
		}
	}
	if !replaced {
		c.activities = append(c.activities, activity)
	}
	c.mu.Unlock()
	c.publish(events.EventCacheMutated, types.CollectionActivities)
}

// UpsertTimeEntry applies a server-confirmed time entry: replace-by-id,
// or prepend newest-first when new
func (c *Cache) UpsertTimeEntry(entry types.TimeEntry) {
	c.mu.Lock()
	replaced := false
	for i := range c.timeEntries {
		if c.timeEntries[i].ID == entry.ID {
			c.timeEntries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		c.timeEntries = append([]types.TimeEntry{entry}, c.timeEntries...)
	}
	c.mu.Unlock()
	c.publish(events.EventCacheMutated, types.CollectionTimeEntries)
}

// UpsertTask applies a server-confirmed task: replace-by-id, or prepend
// newest-first when new
func (c *Cache) UpsertTask(task types.Task) {
	c.mu.Lock()
	replaced := false
	for i := range c.tasks {
		if c.tasks[i].ID == task.ID {
			c.tasks[i] = task
			replaced = true
			break
		}
	}
	if !replaced {
		c.tasks = append([]types.Task{task}, c.tasks...)
	}
	c.mu.Unlock()
	c.publish(events.EventCacheMutated, types.CollectionTasks)
}

// DeleteCustomer removes a customer by id
func (c *Cache) DeleteCustomer(id int64) {
	c.mu.Lock()
	for i := range c.customers {
		if c.customers[i].ID == id {
			c.customers = append(c.customers[:i], c.customers[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.publish(events.EventCacheMutated, types.CollectionCustomers)
}

// DeleteProject removes a project by id
func (c *Cache) DeleteProject(id int64) {
	c.mu.Lock()
	for i := range c.projects {
		if c.projects[i].ID == id {
			c.projects = append(c.projects[:i], c.projects[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.publish(events.EventCacheMutated, types.CollectionProjects)
}

// DeleteActivity removes an activity by id
func (c *Cache) DeleteActivity(id int64) {
	c.mu.Lock()
	for i := range c.activities {
		if c.activities[i].ID == id {
			c.activities = append(c.activities[:i], c.activities[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.publish(events.EventCacheMutated, types.CollectionActivities)
}

// DeleteTimeEntry removes a time entry by id
func (c *Cache) DeleteTimeEntry(id int64) {
	c.mu.Lock()
	for i := range c.timeEntries {
		if c.timeEntries[i].ID == id {
			c.timeEntries = append(c.timeEntries[:i], c.timeEntries[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.publish(events.EventCacheMutated, types.CollectionTimeEntries)
}

// DeleteTask removes a task by id
func (c *Cache) DeleteTask(id int64) {
	c.mu.Lock()
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.publish(events.EventCacheMutated, types.CollectionTasks)
}
