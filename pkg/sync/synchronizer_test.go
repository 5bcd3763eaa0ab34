package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklet/tracklet/pkg/cache"
	"github.com/tracklet/tracklet/pkg/types"
)

// fakeGateway serves canned collections and counts calls
type fakeGateway struct {
	mu gosync.Mutex

	customers  []types.Customer
	projects   []types.Project
	activities []types.Activity
	entries    []types.TimeEntry
	tasks      []types.Task

	listErr error

	listCustomerCalls int
	lastProjectScope  int64
	lastActivityScope int64
	lastPage          int
	lastSize          int
}

func (f *fakeGateway) ListCustomers(ctx context.Context) ([]types.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCustomerCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.customers, nil
}

func (f *fakeGateway) ListProjects(ctx context.Context, customerID int64) ([]types.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastProjectScope = customerID
	if f.listErr != nil {
		return nil, f.listErr
	}
	if customerID == 0 {
		return f.projects, nil
	}
	var scoped []types.Project
	for _, p := range f.projects {
		if p.Customer == customerID {
			scoped = append(scoped, p)
		}
	}
	return scoped, nil
}

func (f *fakeGateway) ListActivities(ctx context.Context, projectID int64) ([]types.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastActivityScope = projectID
	if f.listErr != nil {
		return nil, f.listErr
	}
	if projectID == 0 {
		return f.activities, nil
	}
	var scoped []types.Activity
	for _, a := range f.activities {
		if a.Project == projectID {
			scoped = append(scoped, a)
		}
	}
	return scoped, nil
}

func (f *fakeGateway) ListTimeEntries(ctx context.Context, page, size int) (*types.Page[types.TimeEntry], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPage, f.lastSize = page, size
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &types.Page[types.TimeEntry]{Data: f.entries, Total: len(f.entries), Page: page, Size: size, Pages: 1}, nil
}

func (f *fakeGateway) ListTasks(ctx context.Context, page, size int) (*types.Page[types.Task], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &types.Page[types.Task]{Data: f.tasks, Total: len(f.tasks), Page: page, Size: size, Pages: 1}, nil
}

func (f *fakeGateway) CreateCustomer(ctx context.Context, customer *types.Customer) (*types.Customer, error) {
	// The server expands defaults the local payload does not carry
	confirmed := *customer
	confirmed.ID = 900
	confirmed.Visible = true
	return &confirmed, nil
}

func (f *fakeGateway) UpdateCustomer(ctx context.Context, id int64, customer *types.Customer) (*types.Customer, error) {
	confirmed := *customer
	confirmed.ID = id
	return &confirmed, nil
}

func (f *fakeGateway) DeleteCustomer(ctx context.Context, id int64) error { return f.listErr }

func (f *fakeGateway) CreateProject(ctx context.Context, project *types.Project) (*types.Project, error) {
	confirmed := *project
	confirmed.ID = 901
	return &confirmed, nil
}

func (f *fakeGateway) UpdateProject(ctx context.Context, id int64, project *types.Project) (*types.Project, error) {
	confirmed := *project
	confirmed.ID = id
	return &confirmed, nil
}

func (f *fakeGateway) DeleteProject(ctx context.Context, id int64) error { return f.listErr }

func (f *fakeGateway) CreateActivity(ctx context.Context, activity *types.Activity) (*types.Activity, error) {
	confirmed := *activity
	confirmed.ID = 902
	return &confirmed, nil
}

func (f *fakeGateway) UpdateActivity(ctx context.Context, id int64, activity *types.Activity) (*types.Activity, error) {
	confirmed := *activity
	confirmed.ID = id
	return &confirmed, nil
}

func (f *fakeGateway) DeleteActivity(ctx context.Context, id int64) error { return f.listErr }

var _ Gateway = (*fakeGateway)(nil)

func newTestSync() (*Synchronizer, *fakeGateway, *cache.Cache) {
	gw := &fakeGateway{
		customers: []types.Customer{{ID: 1, Name: "Acme"}},
		projects: []types.Project{
			{ID: 10, Name: "Website", Customer: 1},
			{ID: 20, Name: "Other", Customer: 2},
		},
		activities: []types.Activity{{ID: 100, Project: 10}},
		entries:    []types.TimeEntry{{ID: 7}},
		tasks:      []types.Task{{ID: 5, Status: types.TaskStatusOpen}},
	}
	c := cache.New(nil)
	return New(gw, c), gw, c
}

// TestRefreshReplacesCollection swaps contents wholesale and stamps
// freshness
func TestRefreshReplacesCollection(t *testing.T) {
	s, _, c := newTestSync()

	// Pre-seed stale contents the refresh must not merge with
	c.ReplaceCustomers([]types.Customer{{ID: 99, Name: "Stale"}})

	require.NoError(t, s.RefreshCustomers(context.Background()))

	customers := c.Customers()
	require.Len(t, customers, 1)
	assert.Equal(t, int64(1), customers[0].ID)
	assert.False(t, c.LastUpdated(types.CollectionCustomers).IsZero())
}

// TestRefreshFailureLeavesCacheIntact: a failed fetch keeps the stale
// contents rather than clearing them
func TestRefreshFailureLeavesCacheIntact(t *testing.T) {
	s, gw, c := newTestSync()
	c.ReplaceCustomers([]types.Customer{{ID: 99, Name: "Stale"}})
	stamp := c.LastUpdated(types.CollectionCustomers)

	gw.mu.Lock()
	gw.listErr = errors.New("server unavailable")
	gw.mu.Unlock()

	err := s.RefreshCustomers(context.Background())
	require.Error(t, err)

	customers := c.Customers()
	require.Len(t, customers, 1)
	assert.Equal(t, "Stale", customers[0].Name)
	assert.Equal(t, stamp, c.LastUpdated(types.CollectionCustomers))
}

// TestScopedProjectRefresh splices one customer's rows only
func TestScopedProjectRefresh(t *testing.T) {
	s, gw, c := newTestSync()
	require.NoError(t, s.RefreshProjects(context.Background(), 0))
	require.Len(t, c.Projects(), 2)

	// The server drops project 10 and adds 11 for customer 1
	gw.mu.Lock()
	gw.projects = []types.Project{
		{ID: 11, Name: "Backend", Customer: 1},
		{ID: 20, Name: "Other", Customer: 2},
	}
	gw.mu.Unlock()

	require.NoError(t, s.RefreshProjects(context.Background(), 1))
	assert.Equal(t, int64(1), gw.lastProjectScope)

	ids := make([]int64, 0)
	for _, p := range c.Projects() {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []int64{11, 20}, ids)
}

// TestScopedActivityRefresh forwards the project filter
func TestScopedActivityRefresh(t *testing.T) {
	s, gw, c := newTestSync()

	require.NoError(t, s.RefreshActivities(context.Background(), 10))
	assert.Equal(t, int64(10), gw.lastActivityScope)
	require.Len(t, c.Activities(), 1)
	assert.Equal(t, int64(100), c.Activities()[0].ID)
}

// TestRefreshTimeEntriesRequestsFirstPage
func TestRefreshTimeEntriesRequestsFirstPage(t *testing.T) {
	s, gw, c := newTestSync()

	require.NoError(t, s.RefreshTimeEntries(context.Background()))
	assert.Equal(t, 1, gw.lastPage)
	assert.Equal(t, defaultPageSize, gw.lastSize)
	require.Len(t, c.TimeEntries(), 1)
}

// TestRefreshAll populates every collection and reports the first error
func TestRefreshAll(t *testing.T) {
	s, _, c := newTestSync()

	require.NoError(t, s.RefreshAll(context.Background()))
	assert.Len(t, c.Customers(), 1)
	assert.Len(t, c.Projects(), 2)
	assert.Len(t, c.Activities(), 1)
	assert.Len(t, c.TimeEntries(), 1)
	assert.Len(t, c.Tasks(), 1)
}

func TestRefreshAllPropagatesError(t *testing.T) {
	s, gw, _ := newTestSync()
	gw.mu.Lock()
	gw.listErr = errors.New("boom")
	gw.mu.Unlock()

	assert.Error(t, s.RefreshAll(context.Background()))
}

// TestWriteThroughUsesConfirmedObject: the cache receives the server's
// record, not the local payload
func TestWriteThroughUsesConfirmedObject(t *testing.T) {
	s, _, c := newTestSync()

	confirmed, err := s.CreateCustomer(context.Background(), &types.Customer{Name: "Initech"})
	require.NoError(t, err)
	assert.Equal(t, int64(900), confirmed.ID)

	cached := c.CustomerByID(900)
	require.NotNil(t, cached)
	assert.True(t, cached.Visible, "server-side default must reach the cache")
}

// TestDeleteWriteThrough drops locally only after the server confirms
func TestDeleteWriteThrough(t *testing.T) {
	s, gw, c := newTestSync()
	c.ReplaceProjects([]types.Project{{ID: 10, Customer: 1}})

	gw.mu.Lock()
	gw.listErr = errors.New("forbidden")
	gw.mu.Unlock()
	require.Error(t, s.DeleteProject(context.Background(), 10))
	assert.NotNil(t, c.ProjectByID(10))

	gw.mu.Lock()
	gw.listErr = nil
	gw.mu.Unlock()
	require.NoError(t, s.DeleteProject(context.Background(), 10))
	assert.Nil(t, c.ProjectByID(10))
}

// TestSameCollectionRefreshSerialized hammers one collection from many
// goroutines; the per-collection lock keeps the final state consistent
func TestSameCollectionRefreshSerialized(t *testing.T) {
	s, _, c := newTestSync()

	var wg gosync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.RefreshCustomers(context.Background())
		}()
	}
	wg.Wait()

	customers := c.Customers()
	require.Len(t, customers, 1)
	assert.Equal(t, int64(1), customers[0].ID)
}
