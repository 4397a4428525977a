package commands

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/guard"
	"taskbridge/internal/result"
)

func init() {
	Register(&DeleteProjectCmd{})
}

// DeleteProjectCmd implements the delete_project command.
// Only empty projects can be deleted.
type DeleteProjectCmd struct{}

func (c *DeleteProjectCmd) Name() string     { return "delete_project" }
func (c *DeleteProjectCmd) Plugin() string   { return PluginTickTick }
func (c *DeleteProjectCmd) Synopsis() string { return "Delete an empty project" }
func (c *DeleteProjectCmd) Mutates() bool    { return true }

func (c *DeleteProjectCmd) Options() []mcp.ToolOption {
	return []mcp.ToolOption{projectIDOption(), projectNameOption()}
}

func (c *DeleteProjectCmd) Run(ctx context.Context, env *Env, args Args) result.Result[any] {
	if fail := requireTaskBackend(env); fail != nil {
		return result.Fail[any](fail)
	}
	a, fail := decodeArgs[ticktickArgs](args)
	if fail != nil {
		return result.Fail[any](fail)
	}

	projectID, fail := resolveProject(ctx, env, a.ProjectID, a.ProjectName).Unwrap()
	if fail != nil {
		return result.Fail[any](fail)
	}
	if projectID == "" {
		return result.Validation[any]("projectId or projectName is required")
	}

	if fail := checkProjectWrite(ctx, env, guard.Deletion, projectID); fail != nil {
		return result.Fail[any](fail)
	}

	tasks, err := env.Service.ListProjectTasks(ctx, projectID)
	if err != nil {
		return result.FromError[any]("fetch project tasks", err)
	}
	if len(tasks) > 0 {
		return result.Err[any](result.ValidationError, fmt.Sprintf(
			"Cannot delete project that has %d tasks. Remove all tasks from the project first.", len(tasks)), false)
	}

	if err := env.Service.DeleteProject(ctx, projectID); err != nil {
		return result.FromError[any]("delete project", err)
	}
	env.Cache.Clear()
	return result.Ok[any](fmt.Sprintf("Project %s deleted", projectID))
}
