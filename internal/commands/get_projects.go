package commands

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/result"
)

func init() {
	Register(&GetProjectsCmd{})
}

// GetProjectsCmd implements the get_projects command.
type GetProjectsCmd struct{}

func (c *GetProjectsCmd) Name() string              { return "get_projects" }
func (c *GetProjectsCmd) Plugin() string            { return PluginTickTick }
func (c *GetProjectsCmd) Synopsis() string          { return "List all projects" }
func (c *GetProjectsCmd) Mutates() bool             { return false }
func (c *GetProjectsCmd) Options() []mcp.ToolOption { return nil }

func (c *GetProjectsCmd) Run(ctx context.Context, env *Env, args Args) result.Result[any] {
	if fail := requireTaskBackend(env); fail != nil {
		return result.Fail[any](fail)
	}

	projects, err := env.Projects.ListProjects(ctx)
	if err != nil {
		return result.FromError[any]("fetch projects", err)
	}
	return result.Ok[any](projects)
}
