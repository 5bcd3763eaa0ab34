package sync

import (
	"context"
	"fmt"
	gosync "sync"

	"github.com/rs/zerolog"

	"github.com/tracklet/tracklet/pkg/cache"
	"github.com/tracklet/tracklet/pkg/gateway"
	"github.com/tracklet/tracklet/pkg/log"
	"github.com/tracklet/tracklet/pkg/metrics"
	"github.com/tracklet/tracklet/pkg/types"
)

// Default page size for the recent time entry and task windows
const defaultPageSize = 50

// Gateway is the subset of the API client the synchronizer needs.
// *gateway.Client satisfies it; tests substitute a fake.
type Gateway interface {
	ListCustomers(ctx context.Context) ([]types.Customer, error)
	ListProjects(ctx context.Context, customerID int64) ([]types.Project, error)
	ListActivities(ctx context.Context, projectID int64) ([]types.Activity, error)
	ListTimeEntries(ctx context.Context, page, size int) (*types.Page[types.TimeEntry], error)
	ListTasks(ctx context.Context, page, size int) (*types.Page[types.Task], error)

	CreateCustomer(ctx context.Context, customer *types.Customer) (*types.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, customer *types.Customer) (*types.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	CreateProject(ctx context.Context, project *types.Project) (*types.Project, error)
	UpdateProject(ctx context.Context, id int64, project *types.Project) (*types.Project, error)
	DeleteProject(ctx context.Context, id int64) error
	CreateActivity(ctx context.Context, activity *types.Activity) (*types.Activity, error)
	UpdateActivity(ctx context.Context, id int64, activity *types.Activity) (*types.Activity, error)
	DeleteActivity(ctx context.Context, id int64) error
}

var _ Gateway = (*gateway.Client)(nil)

// Synchronizer keeps the cache coherent with the server: refreshes
// replace collections wholesale (or splice a scoped parent's rows),
// mutations write through and apply only the server-confirmed object.
//
// Refreshes for the same collection are serialized so a stale response
// can never overwrite a fresher one; independent collections may refresh
// concurrently.
type Synchronizer struct {
	gw     Gateway
	cache  *cache.Cache
	logger zerolog.Logger

	refreshMu map[types.Collection]*gosync.Mutex
}

// New creates a synchronizer over the given gateway and cache
func New(gw Gateway, c *cache.Cache) *Synchronizer {
	mu := make(map[types.Collection]*gosync.Mutex)
	for _, col := range []types.Collection{
		types.CollectionCustomers,
		types.CollectionProjects,
		types.CollectionActivities,
		types.CollectionTimeEntries,
		types.CollectionTasks,
	} {
		mu[col] = &gosync.Mutex{}
	}
	return &Synchronizer{
		gw:        gw,
		cache:     c,
		logger:    log.WithComponent("sync"),
		refreshMu: mu,
	}
}

func (s *Synchronizer) observe(collection types.Collection, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
		s.logger.Warn().Str("collection", string(collection)).Err(err).Msg("refresh failed, cache left stale")
	}
	metrics.CacheRefreshesTotal.WithLabelValues(string(collection), outcome).Inc()
}

// RefreshCustomers replaces the customer collection. On failure the
// previous contents stay intact and the error is returned.
func (s *Synchronizer) RefreshCustomers(ctx context.Context) error {
	s.refreshMu[types.CollectionCustomers].Lock()
	defer s.refreshMu[types.CollectionCustomers].Unlock()

	customers, err := s.gw.ListCustomers(ctx)
	s.observe(types.CollectionCustomers, err)
	if err != nil {
		return fmt.Errorf("failed to refresh customers: %w", err)
	}
	s.cache.ReplaceCustomers(customers)
	return nil
}

// RefreshProjects replaces the project collection. With a non-zero
// customerID only that customer's rows are refreshed; other customers'
// rows are left untouched.
func (s *Synchronizer) RefreshProjects(ctx context.Context, customerID int64) error {
	s.refreshMu[types.CollectionProjects].Lock()
	defer s.refreshMu[types.CollectionProjects].Unlock()

	projects, err := s.gw.ListProjects(ctx, customerID)
	s.observe(types.CollectionProjects, err)
	if err != nil {
		return fmt.Errorf("failed to refresh projects: %w", err)
	}
	if customerID == 0 {
		s.cache.ReplaceProjects(projects)
	} else {
		s.cache.ReplaceProjectsForCustomer(customerID, projects)
	}
	return nil
}

// RefreshActivities replaces the activity collection, scoped to one
// project when projectID is non-zero
func (s *Synchronizer) RefreshActivities(ctx context.Context, projectID int64) error {
	s.refreshMu[types.CollectionActivities].Lock()
	defer s.refreshMu[types.CollectionActivities].Unlock()

	activities, err := s.gw.ListActivities(ctx, projectID)
	s.observe(types.CollectionActivities, err)
	if err != nil {
		return fmt.Errorf("failed to refresh activities: %w", err)
	}
	if projectID == 0 {
		s.cache.ReplaceActivities(activities)
	} else {
		s.cache.ReplaceActivitiesForProject(projectID, activities)
	}
	return nil
}

// RefreshTimeEntries replaces the recent time entry window (first page,
// newest first)
func (s *Synchronizer) RefreshTimeEntries(ctx context.Context) error {
	s.refreshMu[types.CollectionTimeEntries].Lock()
	defer s.refreshMu[types.CollectionTimeEntries].Unlock()

	page, err := s.gw.ListTimeEntries(ctx, 1, defaultPageSize)
	s.observe(types.CollectionTimeEntries, err)
	if err != nil {
		return fmt.Errorf("failed to refresh time entries: %w", err)
	}
	s.cache.ReplaceTimeEntries(page.Data)
	return nil
}

// RefreshTasks replaces the task window (first page, newest first)
func (s *Synchronizer) RefreshTasks(ctx context.Context) error {
	s.refreshMu[types.CollectionTasks].Lock()
	defer s.refreshMu[types.CollectionTasks].Unlock()

	page, err := s.gw.ListTasks(ctx, 1, defaultPageSize)
	s.observe(types.CollectionTasks, err)
	if err != nil {
		return fmt.Errorf("failed to refresh tasks: %w", err)
	}
	s.cache.ReplaceTasks(page.Data)
	return nil
}

// RefreshAll refreshes every collection. Independent collections run
// concurrently; the first error is returned but every refresh is
// attempted.
func (s *Synchronizer) RefreshAll(ctx context.Context) error {
	var wg gosync.WaitGroup
	errCh := make(chan error, 5)

	run := func(f func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	run(s.RefreshCustomers)
	run(func(ctx context.Context) error { return s.RefreshProjects(ctx, 0) })
	run(func(ctx context.Context) error { return s.RefreshActivities(ctx, 0) })
	run(s.RefreshTimeEntries)
	run(s.RefreshTasks)

	wg.Wait()
	close(errCh)
	return <-errCh
}
