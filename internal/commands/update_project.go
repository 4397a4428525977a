package commands

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/guard"
	"taskbridge/internal/result"
)

func init() {
	Register(&UpdateProjectCmd{})
}

// UpdateProjectCmd implements the update_project command.
type UpdateProjectCmd struct{}

func (c *UpdateProjectCmd) Name() string     { return "update_project" }
func (c *UpdateProjectCmd) Plugin() string   { return PluginTickTick }
func (c *UpdateProjectCmd) Synopsis() string { return "Update a project" }
func (c *UpdateProjectCmd) Mutates() bool    { return true }

func (c *UpdateProjectCmd) Options() []mcp.ToolOption {
	return []mcp.ToolOption{projectIDOption(), projectNameOption(), projectDataOption(true)}
}

func (c *UpdateProjectCmd) Run(ctx context.Context, env *Env, args Args) result.Result[any] {
	if fail := requireTaskBackend(env); fail != nil {
		return result.Fail[any](fail)
	}
	a, fail := decodeArgs[ticktickArgs](args)
	if fail != nil {
		return result.Fail[any](fail)
	}
	if a.ProjectData == nil {
		return result.Validation[any]("projectData is required")
	}

	data := *a.ProjectData
	if data.ID == "" {
		data.ID, fail = resolveProject(ctx, env, a.ProjectID, a.ProjectName).Unwrap()
		if fail != nil {
			return result.Fail[any](fail)
		}
	}
	if data.ID == "" {
		return result.Validation[any]("Project ID is required (either in projectData.id, params.projectId, or via params.projectName)")
	}

	if fail := checkProjectWrite(ctx, env, guard.Modification, data.ID); fail != nil {
		return result.Fail[any](fail)
	}

	project, err := env.Service.UpdateProject(ctx, data)
	if err != nil {
		return result.FromError[any]("update project", err)
	}
	env.Cache.Clear()
	return result.Ok[any](project)
}
