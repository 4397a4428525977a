package commands

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/result"
)

func init() {
	Register(&DeleteTaskCmd{})
}

// DeleteTaskCmd implements the delete_task command.
type DeleteTaskCmd struct{}

func (c *DeleteTaskCmd) Name() string     { return "delete_task" }
func (c *DeleteTaskCmd) Plugin() string   { return PluginTickTick }
func (c *DeleteTaskCmd) Synopsis() string { return "Delete a task" }
func (c *DeleteTaskCmd) Mutates() bool    { return true }

func (c *DeleteTaskCmd) Options() []mcp.ToolOption {
	return []mcp.ToolOption{
		projectIDOption(),
		projectNameOption(),
		taskIDOption("TickTick task ID or task title", mcp.Required()),
	}
}

func (c *DeleteTaskCmd) Run(ctx context.Context, env *Env, args Args) result.Result[any] {
	if fail := requireTaskBackend(env); fail != nil {
		return result.Fail[any](fail)
	}
	a, fail := decodeArgs[ticktickArgs](args)
	if fail != nil {
		return result.Fail[any](fail)
	}
	if a.TaskID == "" {
		return result.Validation[any]("taskId is required")
	}

	projectID, fail := taskProject(ctx, env, a).Unwrap()
	if fail != nil {
		return result.Fail[any](fail)
	}
	if fail := checkWrite(ctx, env, projectID); fail != nil {
		return result.Fail[any](fail)
	}

	taskID, fail := taskIDFor(ctx, env, projectID, a.TaskID).Unwrap()
	if fail != nil {
		return result.Fail[any](fail)
	}
	if err := env.Service.DeleteTask(ctx, projectID, taskID); err != nil {
		return result.FromError[any]("delete task", err)
	}
	return result.Ok[any](fmt.Sprintf("Task %s deleted", taskID))
}
