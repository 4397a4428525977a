package testutil

import (
	"context"
	"sync"

	"taskbridge/internal/ynab"
)

// FakeBudgets is an in-memory budget API for testing.
type FakeBudgets struct {
	mu sync.Mutex

	Budgets      ynab.BudgetList
	Months       map[string]ynab.MonthDetail     // budgetID/month -> detail
	Transactions map[string]ynab.TransactionList // budgetID/month -> list

	// Error injection for testing
	Err error

	// Recorded arguments
	IncludeAccounts bool
	LastQuery       ynab.TransactionQuery
}

// NewFakeBudgets creates an empty FakeBudgets.
func NewFakeBudgets() *FakeBudgets {
	return &FakeBudgets{
		Months:       make(map[string]ynab.MonthDetail),
		Transactions: make(map[string]ynab.TransactionList),
	}
}

// ListBudgets implements commands.Budgets.
func (f *FakeBudgets) ListBudgets(ctx context.Context, includeAccounts bool) (ynab.BudgetList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.IncludeAccounts = includeAccounts
	if f.Err != nil {
		return ynab.BudgetList{}, f.Err
	}
	return f.Budgets, nil
}

// BudgetMonth implements commands.Budgets.
func (f *FakeBudgets) BudgetMonth(ctx context.Context, budgetID, month string) (ynab.MonthDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return ynab.MonthDetail{}, f.Err
	}
	m, ok := f.Months[budgetID+"/"+month]
	if !ok {
		return ynab.MonthDetail{}, ErrNotFound
	}
	return m, nil
}

// MonthTransactions implements commands.Budgets.
func (f *FakeBudgets) MonthTransactions(ctx context.Context, budgetID, month string, q ynab.TransactionQuery) (ynab.TransactionList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastQuery = q
	if f.Err != nil {
		return ynab.TransactionList{}, f.Err
	}
	list, ok := f.Transactions[budgetID+"/"+month]
	if !ok {
		return ynab.TransactionList{}, ErrNotFound
	}
	return list, nil
}
