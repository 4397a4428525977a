package commands

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/result"
)

func init() {
	Register(&ListBudgetsCmd{})
}

// ListBudgetsCmd implements the list_budgets command.
type ListBudgetsCmd struct{}

func (c *ListBudgetsCmd) Name() string     { return "list_budgets" }
func (c *ListBudgetsCmd) Plugin() string   { return PluginYNAB }
func (c *ListBudgetsCmd) Synopsis() string { return "List YNAB budgets" }
func (c *ListBudgetsCmd) Mutates() bool    { return false }

func (c *ListBudgetsCmd) Options() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithBoolean("budgetsWithAccounts",
			mcp.Description("Whether to include accounts in the budget list"),
			mcp.DefaultBool(false),
		),
	}
}

type listBudgetsArgs struct {
	BudgetsWithAccounts bool `json:"budgetsWithAccounts"`
}

func (c *ListBudgetsCmd) Run(ctx context.Context, env *Env, args Args) result.Result[any] {
	if fail := requireBudgets(env); fail != nil {
		return result.Fail[any](fail)
	}
	a, fail := decodeArgs[listBudgetsArgs](args)
	if fail != nil {
		return result.Fail[any](fail)
	}

	budgets, err := env.Budgets.ListBudgets(ctx, a.BudgetsWithAccounts)
	if err != nil {
		return result.FromError[any]("fetch budgets", err)
	}
	return result.Ok[any](budgets)
}
