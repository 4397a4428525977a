package commands

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/result"
)

func init() {
	Register(&GetProjectTasksCmd{})
}

// GetProjectTasksCmd implements the get_project_tasks command.
// Returns the project with its undone tasks and columns.
type GetProjectTasksCmd struct{}

func (c *GetProjectTasksCmd) Name() string     { return "get_project_tasks" }
func (c *GetProjectTasksCmd) Plugin() string   { return PluginTickTick }
func (c *GetProjectTasksCmd) Synopsis() string { return "Get the undone tasks of a project" }
func (c *GetProjectTasksCmd) Mutates() bool    { return false }

func (c *GetProjectTasksCmd) Options() []mcp.ToolOption {
	return []mcp.ToolOption{projectIDOption(), projectNameOption()}
}

func (c *GetProjectTasksCmd) Run(ctx context.Context, env *Env, args Args) result.Result[any] {
	if fail := requireTaskBackend(env); fail != nil {
		return result.Fail[any](fail)
	}
	a, fail := decodeArgs[ticktickArgs](args)
	if fail != nil {
		return result.Fail[any](fail)
	}
	if a.ProjectID == "" && a.ProjectName == "" {
		return result.Validation[any]("projectId or projectName is required")
	}

	projectID, fail := resolveProject(ctx, env, a.ProjectID, a.ProjectName).Unwrap()
	if fail != nil {
		return result.Fail[any](fail)
	}

	data, err := env.Service.ProjectData(ctx, projectID)
	if err != nil {
		return result.FromError[any]("fetch project tasks", err)
	}
	return result.Ok[any](data)
}
