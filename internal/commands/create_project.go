package commands

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/guard"
	"taskbridge/internal/result"
)

func init() {
	Register(&CreateProjectCmd{})
}

// CreateProjectCmd implements the create_project command.
type CreateProjectCmd struct{}

func (c *CreateProjectCmd) Name() string     { return "create_project" }
func (c *CreateProjectCmd) Plugin() string   { return PluginTickTick }
func (c *CreateProjectCmd) Synopsis() string { return "Create a project" }
func (c *CreateProjectCmd) Mutates() bool    { return true }

func (c *CreateProjectCmd) Options() []mcp.ToolOption {
	return []mcp.ToolOption{projectDataOption(true)}
}

func (c *CreateProjectCmd) Run(ctx context.Context, env *Env, args Args) result.Result[any] {
	if fail := requireTaskBackend(env); fail != nil {
		return result.Fail[any](fail)
	}
	if fail := checkProjectWrite(ctx, env, guard.Creation, ""); fail != nil {
		return result.Fail[any](fail)
	}

	a, fail := decodeArgs[ticktickArgs](args)
	if fail != nil {
		return result.Fail[any](fail)
	}
	if a.ProjectData == nil || a.ProjectData.Name == "" {
		return result.Validation[any]("projectData with name is required")
	}

	project, err := env.Service.CreateProject(ctx, *a.ProjectData)
	if err != nil {
		return result.FromError[any]("create project", err)
	}
	env.Cache.Clear()
	return result.Ok[any](project)
}
