package commands

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/result"
)

func init() {
	Register(&CreateTaskCmd{})
}

// CreateTaskCmd implements the create_task command.
type CreateTaskCmd struct{}

func (c *CreateTaskCmd) Name() string     { return "create_task" }
func (c *CreateTaskCmd) Plugin() string   { return PluginTickTick }
func (c *CreateTaskCmd) Synopsis() string { return "Create a task in a project" }
func (c *CreateTaskCmd) Mutates() bool    { return true }

func (c *CreateTaskCmd) Options() []mcp.ToolOption {
	return []mcp.ToolOption{projectIDOption(), projectNameOption(), taskDataOption(true)}
}

func (c *CreateTaskCmd) Run(ctx context.Context, env *Env, args Args) result.Result[any] {
	if fail := requireTaskBackend(env); fail != nil {
		return result.Fail[any](fail)
	}
	a, fail := decodeArgs[ticktickArgs](args)
	if fail != nil {
		return result.Fail[any](fail)
	}
	if a.TaskData == nil || a.TaskData.Title == "" {
		return result.Validation[any]("taskData with title is required")
	}

	task := *a.TaskData
	if task.ProjectID == "" {
		task.ProjectID = a.ProjectID
	}
	if hasContentAndItems(&task) {
		return result.Validation[any]("Task cannot have both content and items (subtasks)")
	}

	if task.ProjectID == "" && a.ProjectName != "" {
		task.ProjectID, fail = env.Resolver.ResolveProjectByName(ctx, a.ProjectName).Unwrap()
		if fail != nil {
			return result.Fail[any](fail)
		}
	}
	if task.ProjectID == "" {
		return result.Validation[any]("projectId in taskData is required")
	}

	if fail := checkWrite(ctx, env, task.ProjectID); fail != nil {
		return result.Fail[any](fail)
	}

	created, err := env.Service.CreateTask(ctx, task)
	if err != nil {
		return result.FromError[any]("create task", err)
	}
	return result.Ok[any](created)
}
