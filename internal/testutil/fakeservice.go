// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"taskbridge/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = &service.APIError{StatusCode: 404, Body: "not found"}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu       sync.RWMutex
	projects []service.Project
	tasks    map[string][]service.Task // projectID -> tasks
	nextID   int

	// Error injection for testing
	ListProjectsErr  error
	GetProjectErr    error
	ListTasksErr     map[string]error // projectID -> error, used by ProjectData and ListProjectTasks
	CreateProjectErr error
	UpdateProjectErr error
	DeleteProjectErr error
	CreateTaskErr    error
	UpdateTaskErr    error
	CompleteTaskErr  error
	DeleteTaskErr    error

	// Call counters
	ListProjectsCalls int
	ListTasksCalls    map[string]int
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:          make(map[string][]service.Task),
		ListTasksErr:   make(map[string]error),
		ListTasksCalls: make(map[string]int),
	}
}

// AddProject adds a project to the fake service.
func (f *FakeService) AddProject(id, name string, sortOrder int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = append(f.projects, service.Project{ID: id, Name: name, SortOrder: sortOrder, ViewMode: "list", Kind: "TASK"})
	if f.tasks[id] == nil {
		f.tasks[id] = []service.Task{}
	}
}

// AddTask adds an open task to a project.
func (f *FakeService) AddTask(projectID, taskID, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[projectID] = append(f.tasks[projectID], service.Task{
		ID:        taskID,
		ProjectID: projectID,
		Title:     title,
		Status:    service.StatusNormal,
	})
}

// Projects returns a copy of the current projects.
func (f *FakeService) Projects() []service.Project {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Project, len(f.projects))
	copy(out, f.projects)
	return out
}

// Tasks returns a copy of a project's tasks, completed ones included.
func (f *FakeService) Tasks(projectID string) []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks[projectID]))
	copy(out, f.tasks[projectID])
	return out
}

// ListProjects implements service.Service.
func (f *FakeService) ListProjects(ctx context.Context) ([]service.Project, error) {
	f.mu.Lock()
	f.ListProjectsCalls++
	f.mu.Unlock()
	if f.ListProjectsErr != nil {
		return nil, f.ListProjectsErr
	}
	return f.Projects(), nil
}

// GetProject implements service.Service.
func (f *FakeService) GetProject(ctx context.Context, projectID string) (service.Project, error) {
	if f.GetProjectErr != nil {
		return service.Project{}, f.GetProjectErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, p := range f.projects {
		if p.ID == projectID {
			return p, nil
		}
	}
	return service.Project{}, ErrNotFound
}

// ProjectData implements service.Service.
func (f *FakeService) ProjectData(ctx context.Context, projectID string) (service.ProjectData, error) {
	project, err := f.GetProject(ctx, projectID)
	if err != nil {
		return service.ProjectData{}, err
	}
	tasks, err := f.ListProjectTasks(ctx, projectID)
	if err != nil {
		return service.ProjectData{}, err
	}
	return service.ProjectData{Project: project, Tasks: tasks}, nil
}

// ListProjectTasks implements service.Service.
func (f *FakeService) ListProjectTasks(ctx context.Context, projectID string) ([]service.Task, error) {
	f.mu.Lock()
	f.ListTasksCalls[projectID]++
	f.mu.Unlock()
	if err, ok := f.ListTasksErr[projectID]; ok && err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	tasks, ok := f.tasks[projectID]
	if !ok {
		return nil, ErrNotFound
	}
	open := []service.Task{}
	for _, t := range tasks {
		if t.Status != service.StatusCompleted {
			open = append(open, t)
		}
	}
	return open, nil
}

// CreateProject implements service.Service.
func (f *FakeService) CreateProject(ctx context.Context, p service.Project) (service.Project, error) {
	if f.CreateProjectErr != nil {
		return service.Project{}, f.CreateProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = fmt.Sprintf("p%d", f.nextID)
	f.projects = append(f.projects, p)
	f.tasks[p.ID] = []service.Task{}
	return p, nil
}

// UpdateProject implements service.Service.
func (f *FakeService) UpdateProject(ctx context.Context, p service.Project) (service.Project, error) {
	if f.UpdateProjectErr != nil {
		return service.Project{}, f.UpdateProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.projects {
		if existing.ID == p.ID {
			if p.Name != "" {
				f.projects[i].Name = p.Name
			}
			if p.Color != "" {
				f.projects[i].Color = p.Color
			}
			return f.projects[i], nil
		}
	}
	return service.Project{}, ErrNotFound
}

// DeleteProject implements service.Service.
func (f *FakeService) DeleteProject(ctx context.Context, projectID string) error {
	if f.DeleteProjectErr != nil {
		return f.DeleteProjectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.projects {
		if p.ID == projectID {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			delete(f.tasks, projectID)
			return nil
		}
	}
	return ErrNotFound
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, t service.Task) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[t.ProjectID]; !ok {
		return service.Task{}, ErrNotFound
	}
	f.nextID++
	t.ID = fmt.Sprintf("t%d", f.nextID)
	f.tasks[t.ProjectID] = append(f.tasks[t.ProjectID], t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, t service.Task) (service.Task, error) {
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.tasks[t.ProjectID] {
		if existing.ID == t.ID {
			f.tasks[t.ProjectID][i] = t
			return t, nil
		}
	}
	return service.Task{}, ErrNotFound
}

// CompleteTask implements service.Service.
func (f *FakeService) CompleteTask(ctx context.Context, projectID, taskID string) error {
	if f.CompleteTaskErr != nil {
		return f.CompleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks[projectID] {
		if t.ID == taskID {
			f.tasks[projectID][i].Status = service.StatusCompleted
			return nil
		}
	}
	return ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, projectID, taskID string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks := f.tasks[projectID]
	for i, t := range tasks {
		if t.ID == taskID {
			f.tasks[projectID] = append(tasks[:i], tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
