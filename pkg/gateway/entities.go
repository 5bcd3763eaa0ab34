package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tracklet/tracklet/pkg/types"
)

// All entity CRUD follows one shape: list (optionally filtered by
// parent id and pagination), get-by-id, create, partial-update, delete.
// Catalog lists return bare arrays; time entry and task lists return a
// paginated envelope.

// TimeEntryPatch is a partial update for a time entry. Nil fields are
// omitted from the request body.
type TimeEntryPatch struct {
	End         *time.Time `json:"end,omitempty"`
	Duration    *int64     `json:"duration,omitempty"`
	Description *string    `json:"description,omitempty"`
	Billable    *bool      `json:"billable,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// TaskPatch is a partial update for a task
type TaskPatch struct {
	Status         *types.TaskStatus   `json:"status,omitempty"`
	Priority       *types.TaskPriority `json:"priority,omitempty"`
	ActualDuration *int64              `json:"actualDuration,omitempty"`
	DueDate        *time.Time          `json:"dueDate,omitempty"`
}

// Customers

func (c *Client) ListCustomers(ctx context.Context) ([]types.Customer, error) {
	var out []types.Customer
	if err := c.do(ctx, http.MethodGet, "/api/customers", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (*types.Customer, error) {
	var out types.Customer
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/customers/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCustomer(ctx context.Context, customer *types.Customer) (*types.Customer, error) {
	var out types.Customer
	if err := c.do(ctx, http.MethodPost, "/api/customers", nil, customer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, customer *types.Customer) (*types.Customer, error) {
	var out types.Customer
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/customers/%d", id), nil, customer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/customers/%d", id), nil, nil, nil)
}

// Projects

// ListProjects lists projects, optionally scoped to one customer
// (customerID 0 = all)
func (c *Client) ListProjects(ctx context.Context, customerID int64) ([]types.Project, error) {
	query := url.Values{}
	if customerID != 0 {
		query.Set("customer", fmt.Sprintf("%d", customerID))
	}
	var out []types.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProject(ctx context.Context, id int64) (*types.Project, error) {
	var out types.Project
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/projects/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProject(ctx context.Context, project *types.Project) (*types.Project, error) {
	var out types.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", nil, project, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, id int64, project *types.Project) (*types.Project, error) {
	var out types.Project
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/projects/%d", id), nil, project, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), nil, nil, nil)
}

// Activities

// ListActivities lists activities, optionally scoped to one project
// (projectID 0 = all)
func (c *Client) ListActivities(ctx context.Context, projectID int64) ([]types.Activity, error) {
	query := url.Values{}
	if projectID != 0 {
		query.Set("project", fmt.Sprintf("%d", projectID))
	}
	var out []types.Activity
	if err := c.do(ctx, http.MethodGet, "/api/activities", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetActivity(ctx context.Context, id int64) (*types.Activity, error) {
	var out types.Activity
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/activities/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateActivity(ctx context.Context, activity *types.Activity) (*types.Activity, error) {
	var out types.Activity
	if err := c.do(ctx, http.MethodPost, "/api/activities", nil, activity, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateActivity(ctx context.Context, id int64, activity *types.Activity) (*types.Activity, error) {
	var out types.Activity
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/activities/%d", id), nil, activity, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteActivity(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/activities/%d", id), nil, nil, nil)
}

// Time entries

// ListTimeEntries returns one page of recent time entries, newest first
func (c *Client) ListTimeEntries(ctx context.Context, page, size int) (*types.Page[types.TimeEntry], error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", fmt.Sprintf("%d", page))
	}
	if size > 0 {
		query.Set("size", fmt.Sprintf("%d", size))
	}
	var out types.Page[types.TimeEntry]
	if err := c.do(ctx, http.MethodGet, "/api/timesheets", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTimeEntry(ctx context.Context, id int64) (*types.TimeEntry, error) {
	var out types.TimeEntry
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/timesheets/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTimeEntry(ctx context.Context, entry *types.TimeEntry) (*types.TimeEntry, error) {
	var out types.TimeEntry
	if err := c.do(ctx, http.MethodPost, "/api/timesheets", nil, entry, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTimeEntry(ctx context.Context, id int64, patch *TimeEntryPatch) (*types.TimeEntry, error) {
	var out types.TimeEntry
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/timesheets/%d", id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTimeEntry(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/timesheets/%d", id), nil, nil, nil)
}

// Tasks

// ListTasks returns one page of tasks, newest first
func (c *Client) ListTasks(ctx context.Context, page, size int) (*types.Page[types.Task], error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", fmt.Sprintf("%d", page))
	}
	if size > 0 {
		query.Set("size", fmt.Sprintf("%d", size))
	}
	var out types.Page[types.Task]
	if err := c.do(ctx, http.MethodGet, "/api/tasks", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (*types.Task, error) {
	var out types.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, task *types.Task) (*types.Task, error) {
	var out types.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", nil, task, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, patch *TaskPatch) (*types.Task, error) {
	var out types.Task
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil, nil)
}
