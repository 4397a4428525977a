package commands

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/result"
)

func init() {
	Register(&GetBudgetMonthCmd{})
}

// GetBudgetMonthCmd implements the get_budget_month command.
type GetBudgetMonthCmd struct{}

func (c *GetBudgetMonthCmd) Name() string     { return "get_budget_month" }
func (c *GetBudgetMonthCmd) Plugin() string   { return PluginYNAB }
func (c *GetBudgetMonthCmd) Synopsis() string { return "Get a budget month with its categories" }
func (c *GetBudgetMonthCmd) Mutates() bool    { return false }

func (c *GetBudgetMonthCmd) Options() []mcp.ToolOption {
	return []mcp.ToolOption{budgetIDOption(), budgetMonthOption()}
}

type budgetMonthArgs struct {
	BudgetID              string `json:"budgetId"`
	BudgetMonth           string `json:"budgetMonth"`
	TransactionsSinceDate string `json:"transactionsSinceDate"`
	TransactionType       string `json:"transactionType"`
}

// validate checks the fields every budget month command needs.
func (a budgetMonthArgs) validate() *result.Failure {
	if a.BudgetID == "" {
		return result.Validation[any]("budgetId is required").Failure()
	}
	if a.BudgetMonth == "" {
		return result.Validation[any]("budgetMonth is required").Failure()
	}
	return nil
}

func (c *GetBudgetMonthCmd) Run(ctx context.Context, env *Env, args Args) result.Result[any] {
	if fail := requireBudgets(env); fail != nil {
		return result.Fail[any](fail)
	}
	a, fail := decodeArgs[budgetMonthArgs](args)
	if fail != nil {
		return result.Fail[any](fail)
	}
	if fail := a.validate(); fail != nil {
		return result.Fail[any](fail)
	}

	month, err := env.Budgets.BudgetMonth(ctx, a.BudgetID, a.BudgetMonth)
	if err != nil {
		return result.FromError[any]("fetch budget month", err)
	}
	return result.Ok[any](month)
}
