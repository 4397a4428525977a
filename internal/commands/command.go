// Package commands provides the command interface and implementations.
package commands

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/result"
)

// Plugins group commands by upstream API.
const (
	PluginTickTick = "ticktick"
	PluginYNAB     = "ynab"
)

// Command defines the interface for tool-callable commands.
type Command interface {
	// Name returns the command name, e.g. "create_task".
	Name() string

	// Plugin returns the upstream API the command talks to.
	Plugin() string

	// Synopsis returns a short description for tool listings and help output.
	Synopsis() string

	// Mutates returns true if the command writes upstream.
	Mutates() bool

	// Options describes the command's parameters as an MCP input schema.
	Options() []mcp.ToolOption

	// Run executes the command.
	// env is always provided; env.Service or env.Budgets may be nil when
	// the corresponding backend is not configured.
	// Run never panics on bad input and never returns a Go error: every
	// outcome is a Result.
	Run(ctx context.Context, env *Env, args Args) result.Result[any]
}

// Tool builds the MCP tool definition for c. Commands that write upstream
// are annotated as destructive, the rest as read-only.
func Tool(c Command) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(c.Synopsis()),
		mcp.WithReadOnlyHintAnnotation(!c.Mutates()),
		mcp.WithDestructiveHintAnnotation(c.Mutates()),
	}
	opts = append(opts, c.Options()...)
	return mcp.NewTool(c.Name(), opts...)
}
