package sync

import (
	"context"
	"fmt"

	"github.com/tracklet/tracklet/pkg/types"
)

// Write-through mutations for the catalog. Each calls the gateway and
// applies the server-confirmed object to the cache, never the local
// payload, so server-side default expansion cannot drift from the cache.

// CreateCustomer creates a customer remotely and caches the confirmed
// record
func (s *Synchronizer) CreateCustomer(ctx context.Context, customer *types.Customer) (*types.Customer, error) {
	confirmed, err := s.gw.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	s.cache.UpsertCustomer(*confirmed)
	return confirmed, nil
}

// UpdateCustomer updates a customer remotely and caches the confirmed
// record
func (s *Synchronizer) UpdateCustomer(ctx context.Context, id int64, customer *types.Customer) (*types.Customer, error) {
	confirmed, err := s.gw.UpdateCustomer(ctx, id, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	s.cache.UpsertCustomer(*confirmed)
	return confirmed, nil
}

// DeleteCustomer deletes a customer remotely, then drops it locally
func (s *Synchronizer) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.gw.DeleteCustomer(ctx, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	s.cache.DeleteCustomer(id)
	return nil
}

// CreateProject creates a project remotely and caches the confirmed
// record
func (s *Synchronizer) CreateProject(ctx context.Context, project *types.Project) (*types.Project, error) {
	confirmed, err := s.gw.CreateProject(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	s.cache.UpsertProject(*confirmed)
	return confirmed, nil
}

// UpdateProject updates a project remotely and caches the confirmed
// record
func (s *Synchronizer) UpdateProject(ctx context.Context, id int64, project *types.Project) (*types.Project, error) {
	confirmed, err := s.gw.UpdateProject(ctx, id, project)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	s.cache.UpsertProject(*confirmed)
	return confirmed, nil
}

// DeleteProject deletes a project remotely, then drops it locally
func (s *Synchronizer) DeleteProject(ctx context.Context, id int64) error {
	if err := s.gw.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	s.cache.DeleteProject(id)
	return nil
}

// CreateActivity creates an activity remotely and caches the confirmed
// record
func (s *Synchronizer) CreateActivity(ctx context.Context, activity *types.Activity) (*types.Activity, error) {
	confirmed, err := s.gw.CreateActivity(ctx, activity)
	if err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	s.cache.UpsertActivity(*confirmed)
	return confirmed, nil
}

// UpdateActivity updates an activity remotely and caches the confirmed
// record
func (s *Synchronizer) UpdateActivity(ctx context.Context, id int64, activity *types.Activity) (*types.Activity, error) {
	confirmed, err := s.gw.UpdateActivity(ctx, id, activity)
	if err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	s.cache.UpsertActivity(*confirmed)
	return confirmed, nil
}

// DeleteActivity deletes an activity remotely, then drops it locally
func (s *Synchronizer) DeleteActivity(ctx context.Context, id int64) error {
	if err := s.gw.DeleteActivity(ctx, id); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	s.cache.DeleteActivity(id)
	return nil
}
