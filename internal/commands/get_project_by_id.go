package commands

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/result"
)

func init() {
	Register(&GetProjectByIDCmd{})
}

// GetProjectByIDCmd implements the get_project_by_id command.
type GetProjectByIDCmd struct{}

func (c *GetProjectByIDCmd) Name() string     { return "get_project_by_id" }
func (c *GetProjectByIDCmd) Plugin() string   { return PluginTickTick }
func (c *GetProjectByIDCmd) Synopsis() string { return "Get a project by ID or name" }
func (c *GetProjectByIDCmd) Mutates() bool    { return false }

func (c *GetProjectByIDCmd) Options() []mcp.ToolOption {
	return []mcp.ToolOption{projectIDOption(), projectNameOption()}
}

func (c *GetProjectByIDCmd) Run(ctx context.Context, env *Env, args Args) result.Result[any] {
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

	project, err := env.Service.GetProject(ctx, projectID)
	if err != nil {
		return result.FromError[any]("fetch project", err)
	}
	return result.Ok[any](project)
}
