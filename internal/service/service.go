// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// ProjectLister lists all projects in backend order.
type ProjectLister interface {
	ListProjects(ctx context.Context) ([]Project, error)
}

// TaskLister lists the undone tasks of one project.
type TaskLister interface {
	ListProjectTasks(ctx context.Context, projectID string) ([]Task, error)
}

// Service defines the interface for task backend operations.
// All upstream task API calls go through this interface.
// Commands never import a backend SDK directly.
type Service interface {
	ProjectLister
	TaskLister

	// GetProject returns a single project by ID.
	GetProject(ctx context.Context, projectID string) (Project, error)

	// ProjectData returns a project with its undone tasks and columns.
	ProjectData(ctx context.Context, projectID string) (ProjectData, error)

	// CreateProject creates a project. p.ID must be empty.
	CreateProject(ctx context.Context, p Project) (Project, error)

	// UpdateProject updates the project identified by p.ID.
	UpdateProject(ctx context.Context, p Project) (Project, error)

	// DeleteProject deletes a project by ID.
	DeleteProject(ctx context.Context, projectID string) error

	// CreateTask creates a task in t.ProjectID.
	CreateTask(ctx context.Context, t Task) (Task, error)

	// UpdateTask updates the task identified by t.ID within t.ProjectID.
	UpdateTask(ctx context.Context, t Task) (Task, error)

	// CompleteTask marks a task as completed.
	CompleteTask(ctx context.Context, projectID, taskID string) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, projectID, taskID string) error
}
