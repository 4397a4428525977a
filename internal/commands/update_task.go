package commands

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/result"
)

func init() {
	Register(&UpdateTaskCmd{})
}

// UpdateTaskCmd implements the update_task command.
// A task cannot be moved to another project.
type UpdateTaskCmd struct{}

func (c *UpdateTaskCmd) Name() string     { return "update_task" }
func (c *UpdateTaskCmd) Plugin() string   { return PluginTickTick }
func (c *UpdateTaskCmd) Synopsis() string { return "Update a task" }
func (c *UpdateTaskCmd) Mutates() bool    { return true }

func (c *UpdateTaskCmd) Options() []mcp.ToolOption {
	return []mcp.ToolOption{
		projectIDOption(),
		taskIDOption("TickTick task ID"),
		taskDataOption(true),
	}
}

func (c *UpdateTaskCmd) Run(ctx context.Context, env *Env, args Args) result.Result[any] {
	if fail := requireTaskBackend(env); fail != nil {
		return result.Fail[any](fail)
	}
	a, fail := decodeArgs[ticktickArgs](args)
	if fail != nil {
		return result.Fail[any](fail)
	}
	if a.TaskData == nil {
		return result.Validation[any]("taskData is required for update")
	}

	task := *a.TaskData
	if task.ID == "" {
		task.ID = a.TaskID
	}
	if task.ID == "" {
		return result.Validation[any]("taskId is required (either in taskData.id or params.taskId)")
	}
	if task.ProjectID == "" {
		task.ProjectID = a.ProjectID
	}
	if hasContentAndItems(&task) {
		return result.Validation[any]("Task cannot have both content and items (subtasks)")
	}

	current, fail := env.Resolver.ResolveProjectFromTaskOrName(ctx, task.ID).Unwrap()
	if fail != nil {
		return result.Fail[any](fail)
	}
	if task.ProjectID != "" && task.ProjectID != current {
		return result.Err[any](result.ValidationError,
			"Cannot change task's project - create a new task in the target project instead", false)
	}
	task.ProjectID = current

	if fail := checkWrite(ctx, env, task.ProjectID); fail != nil {
		return result.Fail[any](fail)
	}

	updated, err := env.Service.UpdateTask(ctx, task)
	if err != nil {
		return result.FromError[any]("update task", err)
	}
	return result.Ok[any](updated)
}
