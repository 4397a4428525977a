package ynab

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbridge/internal/config"
	"taskbridge/internal/service"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(srv.URL, "tok", srv.Client())
}

func TestNew_RequiresToken(t *testing.T) {
	cfg, _ := config.New(t.TempDir())
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestListBudgets(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/budgets", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "true", r.URL.Query().Get("include_accounts"))
		w.Write([]byte(`{"data":{"budgets":[{"id":"b1","name":"Household","accounts":[{"id":"a1","name":"Checking","balance":125000}]}],"default_budget":null}}`))
	})

	list, err := c.ListBudgets(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, list.Budgets, 1)
	assert.Equal(t, "Household", list.Budgets[0].Name)
	assert.Equal(t, int64(125000), list.Budgets[0].Accounts[0].Balance)
	assert.Nil(t, list.DefaultBudget)
}

func TestListBudgets_WithoutAccounts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"data":{"budgets":[]}}`))
	})

	_, err := c.ListBudgets(context.Background(), false)
	require.NoError(t, err)
}

func TestBudgetMonth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/budgets/b1/months/current", r.URL.Path)
		w.Write([]byte(`{"data":{"month":{"month":"2025-03-01","income":500000,"to_be_budgeted":1000,"categories":[{"id":"c1","name":"Groceries","balance":-2500}]}}}`))
	})

	m, err := c.BudgetMonth(context.Background(), "b1", "current")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", m.Month)
	assert.Equal(t, int64(500000), m.Income)
	assert.Equal(t, "Groceries", m.Categories[0].Name)
}

func TestMonthTransactions_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/budgets/b1/months/2025-03-01/transactions", r.URL.Path)
		assert.Equal(t, "2025-03-10", r.URL.Query().Get("since_date"))
		assert.Equal(t, TypeUnapproved, r.URL.Query().Get("type"))
		w.Write([]byte(`{"data":{"transactions":[{"id":"x1","date":"2025-03-11","amount":-4200,"payee_name":"Bakery"}],"server_knowledge":7}}`))
	})

	list, err := c.MonthTransactions(context.Background(), "b1", "2025-03-01", TransactionQuery{
		SinceDate: "2025-03-10",
		Type:      TypeUnapproved,
	})
	require.NoError(t, err)
	require.Len(t, list.Transactions, 1)
	assert.Equal(t, "Bakery", list.Transactions[0].PayeeName)
	assert.Equal(t, int64(7), list.ServerKnowledge)
}

func TestStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.ListBudgets(context.Background(), false)
	var apiErr *service.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
