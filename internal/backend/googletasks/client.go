// Package googletasks implements the service.Service interface using Google Tasks API.
// Task lists are exposed as projects.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskbridge/internal/config"
	"taskbridge/internal/metrics"
	"taskbridge/internal/service"
)

const (
	// PageSize is the number of items per page.
	PageSize = 100

	// APITimeout is the default timeout for API calls.
	APITimeout = 5 * time.Second

	// OAuth scope for Google Tasks
	tasksScope = "https://www.googleapis.com/auth/tasks"

	backendName = "googletasks"

	statusCompleted = "completed"
	statusOpen      = "needsAction"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	timeout time.Duration
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist in the config directory.
func New(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*Client, error) {
	// Load OAuth client config
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Create token source that auto-refreshes
	tokenSource := oauthConfig.TokenSource(ctx, &token)

	httpClient := &http.Client{Transport: &oauth2.Transport{
		Source: tokenSource,
		Base:   &observedTransport{base: http.DefaultTransport, metrics: m},
	}}

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc, timeout: cfg.API.Timeout}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc}, nil
}

// observedTransport records each upstream round trip.
type observedTransport struct {
	base    http.RoundTripper
	metrics *metrics.Metrics
}

func (t *observedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	status := 0
	if err == nil {
		status = resp.StatusCode
	}
	t.metrics.ObserveUpstream(backendName, status, time.Since(start))
	return resp, err
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.timeout
	if timeout <= 0 {
		timeout = APITimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// ListProjects returns all task lists in API order.
// SortOrder is the list's position in that order.
func (c *Client) ListProjects(ctx context.Context) ([]service.Project, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var result []service.Project
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			p := toProject(list)
			p.SortOrder = int64(len(result))
			result = append(result, p)
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// GetProject returns a task list by ID.
func (c *Client) GetProject(ctx context.Context, projectID string) (service.Project, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	list, err := c.svc.Tasklists.Get(projectID).Context(ctx).Do()
	if err != nil {
		return service.Project{}, wrapError(err)
	}
	return toProject(list), nil
}

// ProjectData returns a task list with its open tasks. Google Tasks has no columns.
func (c *Client) ProjectData(ctx context.Context, projectID string) (service.ProjectData, error) {
	p, err := c.GetProject(ctx, projectID)
	if err != nil {
		return service.ProjectData{}, err
	}
	ts, err := c.ListProjectTasks(ctx, projectID)
	if err != nil {
		return service.ProjectData{}, err
	}
	return service.ProjectData{Project: p, Tasks: ts}, nil
}

// ListProjectTasks returns the open tasks of a list, all pages.
func (c *Client) ListProjectTasks(ctx context.Context, projectID string) ([]service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	result := []service.Task{}
	err := c.svc.Tasks.List(projectID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				task := toTask(projectID, t)
				task.SortOrder = int64(len(result))
				result = append(result, task)
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// CreateProject creates a new task list.
func (c *Client) CreateProject(ctx context.Context, p service.Project) (service.Project, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: p.Name}).Context(ctx).Do()
	if err != nil {
		return service.Project{}, wrapError(err)
	}
	return toProject(list), nil
}

// UpdateProject renames a task list. Other project fields have no Google Tasks equivalent.
func (c *Client) UpdateProject(ctx context.Context, p service.Project) (service.Project, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	list, err := c.svc.Tasklists.Patch(p.ID, &tasks.TaskList{Title: p.Name}).Context(ctx).Do()
	if err != nil {
		return service.Project{}, wrapError(err)
	}
	return toProject(list), nil
}

// DeleteProject deletes a task list by ID.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return wrapError(c.svc.Tasklists.Delete(projectID).Context(ctx).Do())
}

// CreateTask creates a new task in t.ProjectID.
func (c *Client) CreateTask(ctx context.Context, t service.Task) (service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	created, err := c.svc.Tasks.Insert(t.ProjectID, fromTask(t)).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return toTask(t.ProjectID, created), nil
}

// UpdateTask patches the task identified by t.ID.
func (c *Client) UpdateTask(ctx context.Context, t service.Task) (service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	updated, err := c.svc.Tasks.Patch(t.ProjectID, t.ID, fromTask(t)).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return toTask(t.ProjectID, updated), nil
}

// CompleteTask marks a task as completed.
func (c *Client) CompleteTask(ctx context.Context, projectID, taskID string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.svc.Tasks.Patch(projectID, taskID, &tasks.Task{
		Status: statusCompleted,
	}).Context(ctx).Do()
	return wrapError(err)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return wrapError(c.svc.Tasks.Delete(projectID, taskID).Context(ctx).Do())
}

func toProject(list *tasks.TaskList) service.Project {
	return service.Project{ID: list.Id, Name: list.Title, Kind: "TASK"}
}

func toTask(projectID string, t *tasks.Task) service.Task {
	task := service.Task{
		ID:            t.Id,
		ProjectID:     projectID,
		Title:         t.Title,
		Content:       t.Notes,
		DueDate:       t.Due,
		CompletedTime: service.Timestamp(derefString(t.Completed)),
		Status:        service.StatusNormal,
	}
	if t.Status == statusCompleted {
		task.Status = service.StatusCompleted
	}
	return task
}

func fromTask(t service.Task) *tasks.Task {
	notes := t.Content
	if notes == "" {
		notes = t.Desc
	}
	gt := &tasks.Task{Title: t.Title, Notes: notes, Due: dueDate(t.DueDate)}
	if t.Status == service.StatusCompleted {
		gt.Status = statusCompleted
	}
	return gt
}

// dueDate converts TickTick style offsets (+0000) to RFC 3339.
func dueDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000-0700", "2006-01-02T15:04:05-0700", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// wrapError maps googleapi errors to service.APIError so callers see the status code.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &service.APIError{StatusCode: gerr.Code, Body: gerr.Message}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}

var _ service.Service = (*Client)(nil)
