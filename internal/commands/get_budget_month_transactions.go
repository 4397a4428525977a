package commands

import (
	"context"
	"regexp"

	"github.com/mark3labs/mcp-go/mcp"

	"taskbridge/internal/result"
	"taskbridge/internal/ynab"
)

func init() {
	Register(&GetBudgetMonthTransactionsCmd{})
}

var sinceDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// GetBudgetMonthTransactionsCmd implements the get_budget_month_transactions command.
type GetBudgetMonthTransactionsCmd struct{}

func (c *GetBudgetMonthTransactionsCmd) Name() string   { return "get_budget_month_transactions" }
func (c *GetBudgetMonthTransactionsCmd) Plugin() string { return PluginYNAB }
func (c *GetBudgetMonthTransactionsCmd) Synopsis() string {
	return "Get the transactions of a budget month"
}
func (c *GetBudgetMonthTransactionsCmd) Mutates() bool { return false }

func (c *GetBudgetMonthTransactionsCmd) Options() []mcp.ToolOption {
	return []mcp.ToolOption{
		budgetIDOption(),
		budgetMonthOption(),
		mcp.WithString("transactionsSinceDate",
			mcp.Description("Filter transactions since this date. Format: YYYY-MM-DD")),
		mcp.WithString("transactionType",
			mcp.Description("Filter transactions by type"),
			mcp.Enum(ynab.TypeUncategorized, ynab.TypeUnapproved)),
	}
}

func (c *GetBudgetMonthTransactionsCmd) Run(ctx context.Context, env *Env, args Args) result.Result[any] {
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

	var q ynab.TransactionQuery
	if a.TransactionsSinceDate != "" {
		if !sinceDatePattern.MatchString(a.TransactionsSinceDate) {
			return result.Err[any](result.ValidationError, "Invalid date format. Expected 'YYYY-MM-DD'.", false)
		}
		q.SinceDate = a.TransactionsSinceDate
	}
	// Unknown types are dropped rather than rejected.
	switch a.TransactionType {
	case ynab.TypeUncategorized, ynab.TypeUnapproved:
		q.Type = a.TransactionType
	}

	list, err := env.Budgets.MonthTransactions(ctx, a.BudgetID, a.BudgetMonth, q)
	if err != nil {
		return result.FromError[any]("fetch budget month transactions", err)
	}
	return result.Ok[any](list)
}
