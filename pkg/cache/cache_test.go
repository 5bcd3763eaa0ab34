package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklet/tracklet/pkg/types"
)

func seededCache() *Cache {
	c := New(nil)
	c.ReplaceCustomers([]types.Customer{
		{ID: 1, Name: "Acme"},
		{ID: 2, Name: "Globex"},
	})
	c.ReplaceProjects([]types.Project{
		{ID: 10, Name: "Website", Customer: 1},
		{ID: 11, Name: "Backend", Customer: 1},
		{ID: 20, Name: "Migration", Customer: 2},
	})
	c.ReplaceActivities([]types.Activity{
		{ID: 100, Name: "Development", Project: 10},
		{ID: 101, Name: "Review", Project: 11},
		{ID: 102, Name: "Meeting", Project: 0}, // Global
	})
	return c
}

// TestFilterProjectsByCustomer returns exactly the subset owned by the
// customer
func TestFilterProjectsByCustomer(t *testing.T) {
	c := seededCache()

	tests := []struct {
		name       string
		customerID int64
		wantIDs    []int64
	}{
		{"customer with two projects", 1, []int64{10, 11}},
		{"customer with one project", 2, []int64{20}},
		{"unknown customer", 99, []int64{}},
		{"zero means no filter", 0, []int64{10, 11, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.FilterProjectsByCustomer(tt.customerID)
			ids := make([]int64, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

// TestFilterActivitiesByProject includes global activities for a
// concrete project
func TestFilterActivitiesByProject(t *testing.T) {
	c := seededCache()

	got := c.FilterActivitiesByProject(10)
	ids := make([]int64, 0, len(got))
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []int64{100, 102}, ids)

	// Zero means no filter
	assert.Len(t, c.FilterActivitiesByProject(0), 3)

	// Unknown project still surfaces global activities
	got = c.FilterActivitiesByProject(999)
	require.Len(t, got, 1)
	assert.Equal(t, int64(102), got[0].ID)
}

// TestUpsertReplacesFullRecord verifies updates never merge fields
func TestUpsertReplacesFullRecord(t *testing.T) {
	c := seededCache()

	// The confirmed record omits Name; the cached record must not keep
	// the stale one.
	c.UpsertProject(types.Project{ID: 10, Customer: 1, Visible: true})

	p := c.ProjectByID(10)
	require.NotNil(t, p)
	assert.Equal(t, "", p.Name)
	assert.True(t, p.Visible)
	assert.Len(t, c.Projects(), 3)
}

// TestUpsertOrdering: catalog entities append, entries and tasks
// prepend newest-first
func TestUpsertOrdering(t *testing.T) {
	c := New(nil)

	c.UpsertCustomer(types.Customer{ID: 1})
	c.UpsertCustomer(types.Customer{ID: 2})
	customers := c.Customers()
	require.Len(t, customers, 2)
	assert.Equal(t, int64(1), customers[0].ID)

	c.UpsertTimeEntry(types.TimeEntry{ID: 1})
	c.UpsertTimeEntry(types.TimeEntry{ID: 2})
	entries := c.TimeEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].ID)

	c.UpsertTask(types.Task{ID: 1})
	c.UpsertTask(types.Task{ID: 2})
	tasks := c.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(2), tasks[0].ID)
}

// TestDeleteByID removes exactly one record
func TestDeleteByID(t *testing.T) {
	c := seededCache()
	c.DeleteProject(11)

	assert.Len(t, c.Projects(), 2)
	assert.Nil(t, c.ProjectByID(11))
	assert.NotNil(t, c.ProjectByID(10))
}

// TestScopedProjectReplace splices one customer's rows and leaves the
// others untouched
func TestScopedProjectReplace(t *testing.T) {
	c := seededCache()

	c.ReplaceProjectsForCustomer(1, []types.Project{
		{ID: 12, Name: "Rewrite", Customer: 1},
	})

	projects := c.Projects()
	ids := make([]int64, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []int64{20, 12}, ids)
}

// TestScopedActivityReplace keeps global and foreign rows
func TestScopedActivityReplace(t *testing.T) {
	c := seededCache()

	c.ReplaceActivitiesForProject(10, []types.Activity{
		{ID: 103, Name: "Testing", Project: 10},
	})

	activities := c.Activities()
	ids := make([]int64, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []int64{101, 102, 103}, ids)
}

// TestFreshnessStamps are set per collection on replace
func TestFreshnessStamps(t *testing.T) {
	c := New(nil)
	assert.True(t, c.LastUpdated(types.CollectionCustomers).IsZero())

	before := time.Now()
	c.ReplaceCustomers(nil)
	stamp := c.LastUpdated(types.CollectionCustomers)
	assert.False(t, stamp.IsZero())
	assert.False(t, stamp.Before(before))

	// Other collections are untouched
	assert.True(t, c.LastUpdated(types.CollectionTasks).IsZero())
}

// TestClear empties everything
func TestClear(t *testing.T) {
	c := seededCache()
	c.ReplaceTasks([]types.Task{{ID: 1}})
	c.ReplaceTimeEntries([]types.TimeEntry{{ID: 1}})

	c.Clear()

	assert.Empty(t, c.Customers())
	assert.Empty(t, c.Projects())
	assert.Empty(t, c.Activities())
	assert.Empty(t, c.TimeEntries())
	assert.Empty(t, c.Tasks())
	assert.True(t, c.LastUpdated(types.CollectionProjects).IsZero())
}

// TestReadersGetCopies ensures callers cannot mutate the catalog in
// place
func TestReadersGetCopies(t *testing.T) {
	c := seededCache()

	projects := c.Projects()
	projects[0].Name = "mutated"

	assert.Equal(t, "Website", c.ProjectByID(10).Name)
}

// TestFilterTasksByStatus returns only matching tasks
func TestFilterTasksByStatus(t *testing.T) {
	c := New(nil)
	c.ReplaceTasks([]types.Task{
		{ID: 1, Status: types.TaskStatusOpen},
		{ID: 2, Status: types.TaskStatusProgress},
		{ID: 3, Status: types.TaskStatusOpen},
	})

	open := c.FilterTasksByStatus(types.TaskStatusOpen)
	assert.Len(t, open, 2)
	assert.Empty(t, c.FilterTasksByStatus(types.TaskStatusClosed))
}
