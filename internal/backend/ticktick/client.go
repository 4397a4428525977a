// Package ticktick implements the service.Service interface using the TickTick Open API.
package ticktick

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskbridge/internal/config"
	"taskbridge/internal/httpapi"
	"taskbridge/internal/metrics"
	"taskbridge/internal/service"
)

const (
	// DefaultBaseURL is the TickTick Open API root.
	DefaultBaseURL = "https://api.ticktick.com/open/v1"

	// APITimeout is the default timeout for API calls.
	APITimeout = 5 * time.Second

	backendName = "ticktick"
)

// Client implements service.Service using the TickTick Open API.
type Client struct {
	api *httpapi.Client
}

// New creates a TickTick client from configuration.
// Requires ticktick.access_key to be set.
func New(cfg *config.Config, m *metrics.Metrics) (*Client, error) {
	if cfg.TickTick.AccessKey.Value() == "" {
		return nil, fmt.Errorf("ticktick access key is not configured (set ticktick.access_key or TASKBRIDGE_TICKTICK_ACCESS_KEY)")
	}
	return newClient(httpapi.Options{
		Backend: backendName,
		BaseURL: cfg.TickTick.BaseURL,
		Token:   cfg.TickTick.AccessKey.Value(),
		Timeout: cfg.API.Timeout,
		RPS:     cfg.RateLimit.RPS,
		Burst:   cfg.RateLimit.Burst,
		Metrics: m,
	}), nil
}

// NewWithHTTPClient creates a client against baseURL with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL, token string, httpClient *http.Client) *Client {
	return newClient(httpapi.Options{
		Backend:    backendName,
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: httpClient,
	})
}

func newClient(opts httpapi.Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = APITimeout
	}
	return &Client{api: httpapi.New(opts)}
}

func projectPath(projectID string) string {
	return "/project/" + httpapi.PathEscape(projectID)
}

func taskPath(projectID, taskID string) string {
	return projectPath(projectID) + "/task/" + httpapi.PathEscape(taskID)
}

// ListProjects returns all projects in API order.
func (c *Client) ListProjects(ctx context.Context) ([]service.Project, error) {
	var projects []service.Project
	if err := c.api.Get(ctx, "/project", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject returns a single project by ID.
func (c *Client) GetProject(ctx context.Context, projectID string) (service.Project, error) {
	var p service.Project
	err := c.api.Get(ctx, projectPath(projectID), nil, &p)
	return p, err
}

// ProjectData returns a project with its undone tasks and columns.
func (c *Client) ProjectData(ctx context.Context, projectID string) (service.ProjectData, error) {
	var data service.ProjectData
	if err := c.api.Get(ctx, projectPath(projectID)+"/data", nil, &data); err != nil {
		return service.ProjectData{}, err
	}
	if data.Tasks == nil {
		data.Tasks = []service.Task{}
	}
	return data, nil
}

// ListProjectTasks returns the undone tasks of a project.
func (c *Client) ListProjectTasks(ctx context.Context, projectID string) ([]service.Task, error) {
	data, err := c.ProjectData(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return data.Tasks, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, p service.Project) (service.Project, error) {
	var created service.Project
	err := c.api.Post(ctx, "/project", p, &created)
	return created, err
}

// UpdateProject updates the project identified by p.ID.
func (c *Client) UpdateProject(ctx context.Context, p service.Project) (service.Project, error) {
	var updated service.Project
	err := c.api.Post(ctx, projectPath(p.ID), p, &updated)
	return updated, err
}

// DeleteProject deletes a project by ID.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.api.Delete(ctx, projectPath(projectID))
}

// CreateTask creates a task in t.ProjectID.
func (c *Client) CreateTask(ctx context.Context, t service.Task) (service.Task, error) {
	var created service.Task
	err := c.api.Post(ctx, "/task", t, &created)
	return created, err
}

// UpdateTask updates the task identified by t.ID.
func (c *Client) UpdateTask(ctx context.Context, t service.Task) (service.Task, error) {
	var updated service.Task
	err := c.api.Post(ctx, "/task/"+httpapi.PathEscape(t.ID), t, &updated)
	return updated, err
}

// CompleteTask marks a task as completed.
func (c *Client) CompleteTask(ctx context.Context, projectID, taskID string) error {
	return c.api.Post(ctx, taskPath(projectID, taskID)+"/complete", nil, nil)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID string) error {
	return c.api.Delete(ctx, taskPath(projectID, taskID))
}

var _ service.Service = (*Client)(nil)
