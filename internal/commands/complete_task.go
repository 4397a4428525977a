package commands

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/result"
)

func init() {
	Register(&CompleteTaskCmd{})
}

// CompleteTaskCmd implements the complete_task command.
type CompleteTaskCmd struct{}

func (c *CompleteTaskCmd) Name() string     { return "complete_task" }
func (c *CompleteTaskCmd) Plugin() string   { return PluginTickTick }
func (c *CompleteTaskCmd) Synopsis() string { return "Mark a task completed" }
func (c *CompleteTaskCmd) Mutates() bool    { return true }

func (c *CompleteTaskCmd) Options() []mcp.ToolOption {
	return []mcp.ToolOption{
		projectIDOption(),
		projectNameOption(),
		taskIDOption("TickTick task ID or task title", mcp.Required()),
	}
}

func (c *CompleteTaskCmd) Run(ctx context.Context, env *Env, args Args) result.Result[any] {
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
	if err := env.Service.CompleteTask(ctx, projectID, taskID); err != nil {
		return result.FromError[any]("complete task", err)
	}
	return result.Ok[any](fmt.Sprintf("Task %s completed", taskID))
}
